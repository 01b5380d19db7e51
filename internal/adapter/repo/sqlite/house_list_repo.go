package sqlite

import (
	"context"
	"fmt"

	"mapstate/internal/app/ports"
)

type HouseListRepo struct {
	store *Store
}

func NewHouseListRepo(store *Store) HouseListRepo {
	return HouseListRepo{store: store}
}

func (r HouseListRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.store.conn(ctx).ExecContext(ctx, `DELETE FROM house_lists`); err != nil {
		return fmt.Errorf("delete house lists: %w", err)
	}
	return nil
}

func (r HouseListRepo) InsertBatch(ctx context.Context, lists []ports.HouseListRecord) error {
	for start := 0; start < len(lists); start += maxInsertRows {
		end := min(start+maxInsertRows, len(lists))
		chunk := lists[start:end]
		args := make([]any, 0, len(chunk)*3)
		for _, l := range chunk {
			args = append(args, int64(l.HouseID), int64(l.ListID), l.List)
		}
		query := `INSERT INTO house_lists (house_id, listid, list) VALUES ` + placeholders(len(chunk), 3)
		if _, err := r.store.conn(ctx).ExecContext(ctx, query, args...); err != nil {
			if isConstraintViolation(err) {
				return ports.ErrConflict
			}
			return fmt.Errorf("insert house lists: %w", err)
		}
	}
	return nil
}

func (r HouseListRepo) List(ctx context.Context) ([]ports.HouseListRecord, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx, `SELECT house_id, listid, list FROM house_lists ORDER BY house_id, listid`)
	if err != nil {
		return nil, fmt.Errorf("list house lists: %w", err)
	}
	defer rows.Close()
	var out []ports.HouseListRecord
	for rows.Next() {
		var houseID, listID int64
		var list string
		if err := rows.Scan(&houseID, &listID, &list); err != nil {
			return nil, fmt.Errorf("scan house list: %w", err)
		}
		out = append(out, ports.HouseListRecord{HouseID: uint32(houseID), ListID: uint32(listID), List: list})
	}
	return out, rows.Err()
}
