package mapserialize

import (
	"bytes"
	"context"
	"errors"

	"mapstate/internal/app/ports"
	"mapstate/internal/domain/propstream"
	"mapstate/internal/domain/world"

	"github.com/samber/oops"
)

// EncodeHouseItems builds one row per house tile holding items that are
// saved to houses. Houses are visited by id, tiles in house order.
func EncodeHouseItems(w *world.World) []ports.TileStoreRow {
	var (
		stream propstream.Writer
		rows   []ports.TileStoreRow
	)
	for _, h := range w.Houses() {
		for _, tile := range h.Tiles() {
			stream.Clear()
			if !SaveTile(&stream, tile) {
				continue
			}
			rows = append(rows, ports.TileStoreRow{
				HouseID: h.ID,
				Data:    bytes.Clone(stream.Bytes()),
			})
		}
	}
	return rows
}

// SaveHouseItems replaces the stored item snapshot with the current one.
// The old rows are cleared inside the same transaction as the inserts.
func (u UseCase) SaveHouseItems(ctx context.Context, w *world.World) error {
	runID := newRunID()
	start := u.now()
	rows := EncodeHouseItems(w)

	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.TileStore.DeleteAll(txCtx); err != nil {
			return oops.Wrapf(err, "clear tile store")
		}
		if len(rows) == 0 {
			return nil
		}
		if err := u.TileStore.InsertBatch(txCtx, rows); err != nil {
			return oops.Wrapf(err, "insert %d tile rows", len(rows))
		}
		return nil
	})
	if err != nil {
		u.recordFailure()
		u.logger().Printf("save house items run=%s failed: %v", runID, err)
		return oops.Wrapf(err, "save house items")
	}

	elapsed := u.now().Sub(start)
	if u.Metrics != nil {
		u.Metrics.RecordSave(runID, len(rows), elapsed)
	}
	u.logger().Printf("saved house items run=%s rows=%d in %.3fs", runID, len(rows), elapsed.Seconds())
	return nil
}

// LoadHouseItems replays every stored tile blob onto the world. A blob that
// fails to decode is logged and abandoned; store errors abort the load.
func (u UseCase) LoadHouseItems(ctx context.Context, w *world.World) error {
	runID := newRunID()
	start := u.now()
	rows := 0
	var reader propstream.Reader

	err := u.TileStore.Each(ctx, func(row ports.TileStoreRow) error {
		rows++
		reader.Init(row.Data)
		pos, found, err := LoadTile(&reader, w)
		if err == nil {
			if !found {
				u.logger().Printf("house %d: no tile at %s, stored items skipped", row.HouseID, pos)
			}
			return nil
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			return err
		}
		if u.Metrics != nil {
			u.Metrics.RecordDecodeFailure()
		}
		u.logger().Printf("warning: house %d tile %s: %v", row.HouseID, pos, err)
		return nil
	})
	if err != nil {
		u.recordFailure()
		return oops.Wrapf(err, "load house items")
	}

	elapsed := u.now().Sub(start)
	if u.Metrics != nil {
		u.Metrics.RecordLoad(runID, rows, elapsed)
	}
	u.logger().Printf("loaded house items run=%s rows=%d in %.3fs", runID, rows, elapsed.Seconds())
	return nil
}
