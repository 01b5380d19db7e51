package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx runs fn holding the store lock and puts the store back the way it
// was when fn fails.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	before := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(before)
		return err
	}
	return nil
}
