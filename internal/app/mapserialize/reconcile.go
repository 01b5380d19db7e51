package mapserialize

import (
	"mapstate/internal/domain/propstream"
	"mapstate/internal/domain/world"
)

// createsFresh reports whether a stored record always becomes a new item.
// Everything else is expected to already lie on the tile from the map.
func createsFresh(typ world.ItemType, tile *world.Tile) bool {
	return typ.Movable || tile == nil || len(tile.Items()) == 0 || typ.Carpet || typ.IsBed()
}

// findStationary returns the first tile item the record can be applied to.
func findStationary(tile *world.Tile, typ world.ItemType) *world.Item {
	for _, live := range tile.Items() {
		if matchesStationary(typ, live) {
			return live
		}
	}
	return nil
}

func matchesStationary(typ world.ItemType, live *world.Item) bool {
	if live.TypeID() == typ.ID {
		return true
	}
	if typ.TransformOnUse != 0 && typ.TransformOnUse == live.TypeID() {
		return true
	}
	switch live.Capability().(type) {
	case *world.Door:
		return typ.IsDoor()
	case *world.Bed:
		return typ.IsBed()
	}
	return false
}

// discard decodes a record that no longer has a counterpart on the map so
// the stream stays aligned. A bed keeps no sleeper behind.
func discard(r *propstream.Reader, w *world.World, typeID uint16) error {
	dummy := w.NewItem(typeID)
	if err := loadAttributes(r, w, dummy); err != nil {
		return err
	}
	releaseSleeper(w, dummy)
	return nil
}

func releaseSleeper(w *world.World, item *world.Item) {
	if b, ok := item.Bed(); ok && b.Sleeper != 0 {
		w.RemoveBedSleeper(b.Sleeper)
	}
}
