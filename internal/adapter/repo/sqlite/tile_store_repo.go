package sqlite

import (
	"context"
	"fmt"

	"mapstate/internal/app/ports"
)

// maxInsertRows keeps a multi-row insert under SQLite's bound parameter limit.
const maxInsertRows = 400

type TileStoreRepo struct {
	store *Store
}

func NewTileStoreRepo(store *Store) TileStoreRepo {
	return TileStoreRepo{store: store}
}

func (r TileStoreRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.store.conn(ctx).ExecContext(ctx, `DELETE FROM tile_store`); err != nil {
		return fmt.Errorf("delete tile store: %w", err)
	}
	return nil
}

func (r TileStoreRepo) InsertBatch(ctx context.Context, rows []ports.TileStoreRow) error {
	for start := 0; start < len(rows); start += maxInsertRows {
		end := min(start+maxInsertRows, len(rows))
		chunk := rows[start:end]
		args := make([]any, 0, len(chunk)*2)
		for _, row := range chunk {
			args = append(args, int64(row.HouseID), row.Data)
		}
		query := `INSERT INTO tile_store (house_id, data) VALUES ` + placeholders(len(chunk), 2)
		if _, err := r.store.conn(ctx).ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert tile store: %w", err)
		}
	}
	return nil
}

func (r TileStoreRepo) Each(ctx context.Context, fn func(row ports.TileStoreRow) error) error {
	rows, err := r.store.conn(ctx).QueryContext(ctx, `SELECT house_id, data FROM tile_store ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query tile store: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			houseID int64
			data    []byte
		)
		if err := rows.Scan(&houseID, &data); err != nil {
			return fmt.Errorf("scan tile store: %w", err)
		}
		if err := fn(ports.TileStoreRow{HouseID: uint32(houseID), Data: data}); err != nil {
			return err
		}
	}
	return rows.Err()
}
