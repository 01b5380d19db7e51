package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mapstate/internal/app/ports"
)

type HouseRepo struct {
	store *Store
}

func NewHouseRepo(store *Store) HouseRepo {
	return HouseRepo{store: store}
}

const houseColumns = `id, owner, new_owner, paid, warnings, name, town_id, rent, size, beds`

func (r HouseRepo) Exists(ctx context.Context, id uint32) (bool, error) {
	var one int
	err := r.store.conn(ctx).QueryRowContext(ctx, `SELECT 1 FROM houses WHERE id = ?`, int64(id)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check house %d: %w", id, err)
	}
	return true, nil
}

func (r HouseRepo) Insert(ctx context.Context, h ports.HouseRecord) error {
	_, err := r.store.conn(ctx).ExecContext(ctx,
		`INSERT INTO houses (`+houseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(h.ID), int64(h.Owner), h.NewOwner, h.Paid, int64(h.Warnings), h.Name,
		int64(h.TownID), int64(h.Rent), int64(h.Size), int64(h.Beds),
	)
	if isConstraintViolation(err) {
		return ports.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert house %d: %w", h.ID, err)
	}
	return nil
}

func (r HouseRepo) Update(ctx context.Context, h ports.HouseRecord) error {
	res, err := r.store.conn(ctx).ExecContext(ctx,
		`UPDATE houses SET owner = ?, paid = ?, warnings = ?, name = ?, town_id = ?, rent = ?, size = ?, beds = ? WHERE id = ?`,
		int64(h.Owner), h.Paid, int64(h.Warnings), h.Name, int64(h.TownID), int64(h.Rent),
		int64(h.Size), int64(h.Beds), int64(h.ID),
	)
	return affectedOne(res, err, "update house", h.ID)
}

func (r HouseRepo) ResetNewOwner(ctx context.Context, id uint32) error {
	res, err := r.store.conn(ctx).ExecContext(ctx,
		`UPDATE houses SET new_owner = ? WHERE id = ?`, ports.NoPendingOwner, int64(id))
	return affectedOne(res, err, "reset new owner of house", id)
}

func (r HouseRepo) Get(ctx context.Context, id uint32) (ports.HouseRecord, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx, `SELECT `+houseColumns+` FROM houses WHERE id = ?`, int64(id))
	h, err := scanHouse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.HouseRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.HouseRecord{}, fmt.Errorf("get house %d: %w", id, err)
	}
	return h, nil
}

func (r HouseRepo) List(ctx context.Context) ([]ports.HouseRecord, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx, `SELECT `+houseColumns+` FROM houses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()
	var out []ports.HouseRecord
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHouse(s rowScanner) (ports.HouseRecord, error) {
	var id, owner, paid, warnings, townID, rent, size, beds int64
	var newOwner int32
	var name string
	if err := s.Scan(&id, &owner, &newOwner, &paid, &warnings, &name, &townID, &rent, &size, &beds); err != nil {
		return ports.HouseRecord{}, err
	}
	return ports.HouseRecord{
		ID:       uint32(id),
		Owner:    uint32(owner),
		NewOwner: newOwner,
		Paid:     paid,
		Warnings: uint32(warnings),
		Name:     name,
		TownID:   uint32(townID),
		Rent:     uint32(rent),
		Size:     uint32(size),
		Beds:     uint32(beds),
	}, nil
}

func affectedOne(res sql.Result, err error, op string, id uint32) error {
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
