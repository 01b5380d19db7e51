package archive

import (
	"context"
	"fmt"
	"time"

	"mapstate/internal/app/ports"
)

// Store moves whole snapshots in and out of the house store.
type Store struct {
	TxManager  ports.TxManager
	TileStore  ports.TileStoreRepository
	Houses     ports.HouseRepository
	HouseLists ports.HouseListRepository
	Now        func() time.Time
}

// Export reads the house store in one transaction.
func (s Store) Export(ctx context.Context) (Snapshot, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	snap := Snapshot{CreatedAt: now()}
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		houses, err := s.Houses.List(txCtx)
		if err != nil {
			return fmt.Errorf("list houses: %w", err)
		}
		lists, err := s.HouseLists.List(txCtx)
		if err != nil {
			return fmt.Errorf("list house lists: %w", err)
		}
		var tiles []ports.TileStoreRow
		if err := s.TileStore.Each(txCtx, func(row ports.TileStoreRow) error {
			tiles = append(tiles, row)
			return nil
		}); err != nil {
			return fmt.Errorf("read tile store: %w", err)
		}
		snap.Houses, snap.Lists, snap.Tiles = houses, lists, tiles
		return nil
	})
	return snap, err
}

// Import replaces the house lists and the item snapshot with the archived
// ones and upserts every archived house row. Existing rows keep their pending
// owner unless the archive has none scheduled.
func (s Store) Import(ctx context.Context, snap Snapshot) error {
	return s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, h := range snap.Houses {
			exists, err := s.Houses.Exists(txCtx, h.ID)
			if err != nil {
				return fmt.Errorf("check house %d: %w", h.ID, err)
			}
			if !exists {
				if err := s.Houses.Insert(txCtx, h); err != nil {
					return fmt.Errorf("insert house %d: %w", h.ID, err)
				}
				continue
			}
			if err := s.Houses.Update(txCtx, h); err != nil {
				return fmt.Errorf("update house %d: %w", h.ID, err)
			}
			if h.NewOwner == ports.NoPendingOwner {
				if err := s.Houses.ResetNewOwner(txCtx, h.ID); err != nil {
					return fmt.Errorf("reset new owner of house %d: %w", h.ID, err)
				}
			}
		}
		if err := s.HouseLists.DeleteAll(txCtx); err != nil {
			return fmt.Errorf("clear house lists: %w", err)
		}
		if err := s.HouseLists.InsertBatch(txCtx, snap.Lists); err != nil {
			return fmt.Errorf("insert house lists: %w", err)
		}
		if err := s.TileStore.DeleteAll(txCtx); err != nil {
			return fmt.Errorf("clear tile store: %w", err)
		}
		if err := s.TileStore.InsertBatch(txCtx, snap.Tiles); err != nil {
			return fmt.Errorf("insert tile store: %w", err)
		}
		return nil
	})
}
