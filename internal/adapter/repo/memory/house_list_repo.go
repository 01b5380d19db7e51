package memory

import (
	"context"

	"mapstate/internal/app/ports"
)

type HouseListRepo struct {
	store *Store
}

func NewHouseListRepo(store *Store) HouseListRepo {
	return HouseListRepo{store: store}
}

func (r HouseListRepo) DeleteAll(_ context.Context) error {
	r.store.lists = nil
	return nil
}

func (r HouseListRepo) InsertBatch(_ context.Context, lists []ports.HouseListRecord) error {
	r.store.lists = append(r.store.lists, lists...)
	return nil
}

func (r HouseListRepo) List(_ context.Context) ([]ports.HouseListRecord, error) {
	return append([]ports.HouseListRecord(nil), r.store.lists...), nil
}
