package mapserialize

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"mapstate/internal/adapter/repo/memory"
	"mapstate/internal/app/ports"
	"mapstate/internal/domain/world"

	"github.com/stretchr/testify/require"
)

const (
	typeSack      = 100
	typeTorch     = 200
	typeCoin      = 201
	typeDoor      = 1209
	typeBrazier   = 1423
	typeLeverOff  = 1945
	typeLeverOn   = 1946
	typeFountain  = 5000
	typeCarpet    = 6000
	typeLegacyBed = 1500
	typeBed       = 30001
)

var testTypes = []world.ItemType{
	{ID: typeSack, Name: "sack", Group: world.GroupContainer, Movable: true},
	{ID: typeTorch, Name: "torch", Movable: true},
	{ID: typeCoin, Name: "gold coin", Movable: true},
	{ID: typeDoor, Name: "door", Group: world.GroupDoor, ForceSerialize: true},
	{ID: typeBrazier, Name: "brazier", ForceSerialize: true, DecayTime: time.Hour},
	{ID: typeLeverOff, Name: "lever", ForceSerialize: true, TransformOnUse: typeLeverOn},
	{ID: typeLeverOn, Name: "lever", ForceSerialize: true, TransformOnUse: typeLeverOff},
	{ID: typeFountain, Name: "fountain"},
	{ID: typeCarpet, Name: "carpet", Carpet: true, ForceSerialize: true},
	{ID: typeLegacyBed, Name: "old bed", Group: world.GroupBed},
	{ID: typeBed, Name: "bed", Group: world.GroupBed, ForceSerialize: true},
}

var housePos = world.Position{X: 1000, Y: 1000, Z: 7}

func newTestWorld(t *testing.T) (*world.World, *world.House, *world.Tile) {
	t.Helper()
	w := world.New(world.NewRegistry(testTypes...))
	h := world.NewHouse(5)
	h.Name = "Harbour Flat"
	h.TownID = 2
	h.Rent = 1500
	require.NoError(t, w.AddHouse(h))
	tile, err := w.AddTile(housePos)
	require.NoError(t, err)
	h.AddTile(tile)
	return w, h, tile
}

// placeSack puts a sack holding children, in live order, onto tile.
func placeSack(w *world.World, tile *world.Tile, children ...uint16) *world.Item {
	sack := w.NewItem(typeSack)
	c, _ := sack.Container()
	for _, id := range children {
		c.PushBack(w.NewItem(id))
	}
	w.PlaceItem(tile, sack)
	return sack
}

func childIDs(item *world.Item) []uint16 {
	c, ok := item.Container()
	if !ok {
		return nil
	}
	var ids []uint16
	for _, child := range c.Items() {
		ids = append(ids, child.TypeID())
	}
	return ids
}

type memoryBackend struct {
	store      *memory.Store
	tx         memory.TxManager
	tiles      memory.TileStoreRepo
	houses     memory.HouseRepo
	houseLists memory.HouseListRepo
}

func newMemoryBackend() memoryBackend {
	store := memory.NewStore()
	return memoryBackend{
		store:      store,
		tx:         memory.NewTxManager(store),
		tiles:      memory.NewTileStoreRepo(store),
		houses:     memory.NewHouseRepo(store),
		houseLists: memory.NewHouseListRepo(store),
	}
}

func (b memoryBackend) useCase() UseCase {
	return UseCase{
		TxManager:  b.tx,
		TileStore:  b.tiles,
		Houses:     b.houses,
		HouseLists: b.houseLists,
		Metrics:    &countingMetrics{},
		Logger:     log.New(io.Discard, "", 0),
		Now:        func() time.Time { return time.Unix(1_700_000_000, 0) },
	}
}

type countingMetrics struct {
	saves, loads, decodeFailures, failures, decaySteps int

	lastRows int
}

func (m *countingMetrics) RecordSave(_ string, rows int, _ time.Duration) {
	m.saves++
	m.lastRows = rows
}

func (m *countingMetrics) RecordLoad(_ string, rows int, _ time.Duration) {
	m.loads++
	m.lastRows = rows
}

func (m *countingMetrics) RecordDecodeFailure() {
	m.decodeFailures++
}

func (m *countingMetrics) RecordFailure() {
	m.failures++
}

func (m *countingMetrics) RecordDecaySteps(n int) {
	m.decaySteps += n
}

var errInsertFailed = errors.New("insert failed")

// failingTileStore clears like the wrapped store but rejects every insert.
type failingTileStore struct {
	ports.TileStoreRepository
}

func (failingTileStore) InsertBatch(context.Context, []ports.TileStoreRow) error {
	return errInsertFailed
}
