package sqlite

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"mapstate/internal/app/mapserialize"
	"mapstate/internal/app/ports"
	"mapstate/internal/domain/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestHouseRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewHouseRepo(openTestStore(t))

	exists, err := repo.Exists(ctx, 5)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Insert(ctx, ports.HouseRecord{ID: 5, Owner: 42, NewOwner: 0, Name: "Harbour Flat"}))
	assert.ErrorIs(t, repo.Insert(ctx, ports.HouseRecord{ID: 5}), ports.ErrConflict)

	require.NoError(t, repo.Update(ctx, ports.HouseRecord{ID: 5, Owner: 43, Paid: 1_700_000_000, Warnings: 2, Name: "Harbour Flat", Size: 9, Beds: 1}))
	got, err := repo.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, ports.HouseRecord{ID: 5, Owner: 43, NewOwner: 0, Paid: 1_700_000_000, Warnings: 2, Name: "Harbour Flat", Size: 9, Beds: 1}, got)

	require.NoError(t, repo.ResetNewOwner(ctx, 5))
	got, _ = repo.Get(ctx, 5)
	assert.Equal(t, ports.NoPendingOwner, got.NewOwner)

	assert.ErrorIs(t, repo.Update(ctx, ports.HouseRecord{ID: 6}), ports.ErrNotFound)
	_, err = repo.Get(ctx, 6)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTileStoreRollback(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	tx := NewTxManager(store)
	houses := NewHouseRepo(store)
	tiles := NewTileStoreRepo(store)
	require.NoError(t, houses.Insert(ctx, ports.HouseRecord{ID: 1, NewOwner: ports.NoPendingOwner}))
	require.NoError(t, tiles.InsertBatch(ctx, []ports.TileStoreRow{{HouseID: 1, Data: []byte{9, 9}}}))

	boom := errors.New("boom")
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, tiles.DeleteAll(txCtx))
		return boom
	})
	require.ErrorIs(t, err, boom)

	var rows []ports.TileStoreRow
	require.NoError(t, tiles.Each(ctx, func(row ports.TileStoreRow) error {
		rows = append(rows, row)
		return nil
	}))
	require.Len(t, rows, 1)
	assert.Equal(t, []byte{9, 9}, rows[0].Data)
}

func TestInsertBatchSpansChunks(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, NewHouseRepo(store).Insert(ctx, ports.HouseRecord{ID: 1, NewOwner: ports.NoPendingOwner}))
	tiles := NewTileStoreRepo(store)

	batch := make([]ports.TileStoreRow, maxInsertRows+3)
	for i := range batch {
		batch[i] = ports.TileStoreRow{HouseID: 1, Data: []byte{byte(i)}}
	}
	require.NoError(t, tiles.InsertBatch(ctx, batch))

	n := 0
	require.NoError(t, tiles.Each(ctx, func(row ports.TileStoreRow) error {
		assert.Equal(t, []byte{byte(n)}, row.Data)
		n++
		return nil
	}))
	assert.Equal(t, len(batch), n)
}

func TestHouseListsReplace(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, NewHouseRepo(store).Insert(ctx, ports.HouseRecord{ID: 2, NewOwner: ports.NoPendingOwner}))
	lists := NewHouseListRepo(store)

	require.NoError(t, lists.InsertBatch(ctx, []ports.HouseListRecord{
		{HouseID: 2, ListID: world.SubownerList, List: "Bob"},
		{HouseID: 2, ListID: 3, List: "Carol"},
	}))
	assert.ErrorIs(t, lists.InsertBatch(ctx, []ports.HouseListRecord{{HouseID: 2, ListID: 3, List: "x"}}), ports.ErrConflict)

	got, err := lists.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ports.HouseListRecord{
		{HouseID: 2, ListID: 3, List: "Carol"},
		{HouseID: 2, ListID: world.SubownerList, List: "Bob"},
	}, got)

	require.NoError(t, lists.DeleteAll(ctx))
	got, err = lists.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHousePersistenceThroughSQLite(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	uc := mapserialize.UseCase{
		TxManager:  NewTxManager(store),
		TileStore:  NewTileStoreRepo(store),
		Houses:     NewHouseRepo(store),
		HouseLists: NewHouseListRepo(store),
		Logger:     log.New(io.Discard, "", 0),
	}
	reg := world.NewRegistry(
		world.ItemType{ID: 100, Group: world.GroupContainer, Movable: true},
		world.ItemType{ID: 200, Movable: true},
		world.ItemType{ID: 201, Movable: true},
	)
	build := func() (*world.World, *world.House, *world.Tile) {
		w := world.New(reg)
		h := world.NewHouse(5)
		require.NoError(t, w.AddHouse(h))
		tile, err := w.AddTile(world.Position{X: 32000, Y: 31000, Z: 7})
		require.NoError(t, err)
		h.AddTile(tile)
		return w, h, tile
	}

	src, house, tile := build()
	sack := src.NewItem(100)
	c, _ := sack.Container()
	c.PushBack(src.NewItem(200))
	c.PushBack(src.NewItem(201))
	src.PlaceItem(tile, sack)
	house.SetOwner(42)
	house.SetAccessList(world.GuestList, "Eryn")
	require.NoError(t, uc.SaveHouses(ctx, src))

	dst, dstHouse, dstTile := build()
	require.NoError(t, uc.LoadHouses(ctx, dst))

	require.Len(t, dstTile.Items(), 1)
	loaded, ok := dstTile.Items()[0].Container()
	require.True(t, ok)
	require.Len(t, loaded.Items(), 2)
	assert.Equal(t, uint16(200), loaded.Items()[0].TypeID())
	assert.Equal(t, uint16(201), loaded.Items()[1].TypeID())
	assert.Equal(t, uint32(42), dstHouse.Owner())
	assert.True(t, dstHouse.IsInvited("eryn"))
}
