package memory

import (
	"bytes"
	"context"

	"mapstate/internal/app/ports"
)

type TileStoreRepo struct {
	store *Store
}

func NewTileStoreRepo(store *Store) TileStoreRepo {
	return TileStoreRepo{store: store}
}

func (r TileStoreRepo) DeleteAll(_ context.Context) error {
	r.store.tiles = nil
	return nil
}

func (r TileStoreRepo) InsertBatch(_ context.Context, rows []ports.TileStoreRow) error {
	for _, row := range rows {
		r.store.tiles = append(r.store.tiles, ports.TileStoreRow{HouseID: row.HouseID, Data: bytes.Clone(row.Data)})
	}
	return nil
}

func (r TileStoreRepo) Each(_ context.Context, fn func(row ports.TileStoreRow) error) error {
	for _, row := range cloneRows(r.store.tiles) {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}
