package memory

import (
	"context"
	"sort"

	"mapstate/internal/app/ports"
)

type HouseRepo struct {
	store *Store
}

func NewHouseRepo(store *Store) HouseRepo {
	return HouseRepo{store: store}
}

func (r HouseRepo) Exists(_ context.Context, id uint32) (bool, error) {
	_, ok := r.store.houses[id]
	return ok, nil
}

func (r HouseRepo) Insert(_ context.Context, house ports.HouseRecord) error {
	if _, ok := r.store.houses[house.ID]; ok {
		return ports.ErrConflict
	}
	r.store.houses[house.ID] = house
	return nil
}

func (r HouseRepo) Update(_ context.Context, house ports.HouseRecord) error {
	cur, ok := r.store.houses[house.ID]
	if !ok {
		return ports.ErrNotFound
	}
	house.NewOwner = cur.NewOwner
	r.store.houses[house.ID] = house
	return nil
}

func (r HouseRepo) ResetNewOwner(_ context.Context, id uint32) error {
	cur, ok := r.store.houses[id]
	if !ok {
		return ports.ErrNotFound
	}
	cur.NewOwner = ports.NoPendingOwner
	r.store.houses[id] = cur
	return nil
}

func (r HouseRepo) Get(_ context.Context, id uint32) (ports.HouseRecord, error) {
	h, ok := r.store.houses[id]
	if !ok {
		return ports.HouseRecord{}, ports.ErrNotFound
	}
	return h, nil
}

func (r HouseRepo) List(_ context.Context) ([]ports.HouseRecord, error) {
	out := make([]ports.HouseRecord, 0, len(r.store.houses))
	for _, h := range r.store.houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
