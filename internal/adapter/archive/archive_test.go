package archive

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"mapstate/internal/adapter/repo/memory"
	"mapstate/internal/app/ports"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(store *memory.Store) Store {
	return Store{
		TxManager:  memory.NewTxManager(store),
		TileStore:  memory.NewTileStoreRepo(store),
		Houses:     memory.NewHouseRepo(store),
		HouseLists: memory.NewHouseListRepo(store),
		Now:        func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Houses: []ports.HouseRecord{
			{ID: 5, Owner: 42, NewOwner: ports.NoPendingOwner, Paid: 1_700_000_000, Name: "Harbour Flat", TownID: 2, Rent: 1500, Size: 9, Beds: 1},
			{ID: 6, Owner: 0, NewOwner: 77, Name: "Mill Lane 1"},
		},
		Lists: []ports.HouseListRecord{{HouseID: 5, ListID: 0x100, List: "Eryn\nBob"}},
		Tiles: []ports.TileStoreRow{
			{HouseID: 5, Data: []byte{0xe8, 0x03, 0xe8, 0x03, 0x07, 0x01, 0x00}},
			{HouseID: 6, Data: []byte{0x00, 0xff, 0x10}},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleSnapshot()))

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestReadRejectsTruncatedArchive(t *testing.T) {
	var raw bytes.Buffer
	enc, err := zstd.NewWriter(&raw)
	require.NoError(t, err)
	_, err = enc.Write([]byte(`{"kind":"header","version":1,"houses":2,"lists":0,"tiles":0}` + "\n" +
		`{"kind":"house","id":5}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	_, err = Read(&raw)
	assert.ErrorContains(t, err, "truncated")
}

func TestReadRejectsMissingHeaderAndUnknownKinds(t *testing.T) {
	cases := map[string]string{
		"no header":   `{"kind":"house","id":5}`,
		"bad version": `{"kind":"header","version":9}`,
		"unknown":     `{"kind":"header","version":1}` + "\n" + `{"kind":"chest"}`,
		"empty":       ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var raw bytes.Buffer
			enc, err := zstd.NewWriter(&raw)
			require.NoError(t, err)
			_, err = enc.Write([]byte(body))
			require.NoError(t, err)
			require.NoError(t, enc.Close())

			_, err = Read(&raw)
			assert.Error(t, err)
		})
	}
}

func TestExportImportThroughFile(t *testing.T) {
	ctx := context.Background()
	src := newMemoryStore(memory.NewStore())
	require.NoError(t, src.Import(ctx, sampleSnapshot()))

	exported, err := src.Export(ctx)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "backups", "houses.jsonl.zst")
	require.NoError(t, WriteFile(path, exported))

	dstStore := memory.NewStore()
	dstStore.SeedHouse(ports.HouseRecord{ID: 5, Owner: 1, NewOwner: 3})
	dst := newMemoryStore(dstStore)
	require.NoError(t, dst.HouseLists.InsertBatch(ctx, []ports.HouseListRecord{{HouseID: 5, ListID: 1, List: "stale"}}))

	read, err := ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, dst.Import(ctx, read))

	got, err := dst.Export(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, sampleSnapshot().Houses, got.Houses)
	assert.Equal(t, sampleSnapshot().Lists, got.Lists)
	assert.Equal(t, sampleSnapshot().Tiles, got.Tiles)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.zst"))
	assert.Error(t, err)
}
