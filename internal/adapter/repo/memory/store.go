package memory

import (
	"bytes"
	"sync"

	"mapstate/internal/app/ports"
)

type Store struct {
	mu     sync.RWMutex
	tiles  []ports.TileStoreRow
	houses map[uint32]ports.HouseRecord
	lists  []ports.HouseListRecord
}

func NewStore() *Store {
	return &Store{
		houses: make(map[uint32]ports.HouseRecord),
	}
}

type storeState struct {
	tiles  []ports.TileStoreRow
	houses map[uint32]ports.HouseRecord
	lists  []ports.HouseListRecord
}

func (s *Store) snapshot() storeState {
	st := storeState{
		tiles:  cloneRows(s.tiles),
		houses: make(map[uint32]ports.HouseRecord, len(s.houses)),
		lists:  append([]ports.HouseListRecord(nil), s.lists...),
	}
	for id, h := range s.houses {
		st.houses[id] = h
	}
	return st
}

func (s *Store) restore(st storeState) {
	s.tiles = st.tiles
	s.houses = st.houses
	s.lists = st.lists
}

func cloneRows(rows []ports.TileStoreRow) []ports.TileStoreRow {
	out := make([]ports.TileStoreRow, len(rows))
	for i, r := range rows {
		out[i] = ports.TileStoreRow{HouseID: r.HouseID, Data: bytes.Clone(r.Data)}
	}
	return out
}

// SeedHouse stores a house row directly, bypassing any transaction.
func (s *Store) SeedHouse(h ports.HouseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses[h.ID] = h
}

// TileRows returns a copy of the stored tile rows.
func (s *Store) TileRows() []ports.TileStoreRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.tiles)
}
