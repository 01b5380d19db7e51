package mapserialize

import (
	"mapstate/internal/domain/propstream"
	"mapstate/internal/domain/world"
)

// NewBedsStartID is the first id of the current bed encoding. House records
// holding a bed below it use the old layout and cannot be read.
const NewBedsStartID = 30000

// SaveItem encodes item and, for containers, its children in reverse live
// order. Every item ends with the 0x00 terminator.
func SaveItem(w *propstream.Writer, item *world.Item) {
	w.WriteU16(item.TypeID())
	item.SerializeAttr(w)

	if c, ok := item.Container(); ok {
		w.WriteU8(uint8(world.AttrContainerItems))
		children := c.Items()
		w.WriteU32(uint32(len(children)))
		for i := len(children) - 1; i >= 0; i-- {
			SaveItem(w, children[i])
		}
	}

	w.WriteU8(uint8(world.AttrEnd))
}

// LoadItem decodes one item record into parent. When parent is a tile the
// record may be reconciled with an item already lying there.
func LoadItem(r *propstream.Reader, w *world.World, parent world.Cylinder, isHouseItem bool) error {
	id, ok := r.ReadU16()
	if !ok {
		return decodeErr("load item", 0, ErrStreamUnderrun)
	}
	typ := w.Registry().Lookup(id)
	if isHouseItem && typ.IsBed() && id < NewBedsStartID {
		return decodeErr("load item", id, ErrLegacyBed)
	}

	tile := parent.Tile()
	if createsFresh(typ, tile) {
		item := w.NewItem(id)
		if err := loadAttributes(r, w, item); err != nil {
			return err
		}
		w.PlaceItem(parent, item)
		return nil
	}

	if live := findStationary(tile, typ); live != nil {
		if err := loadAttributes(r, w, live); err != nil {
			return err
		}
		// transforming restarts decay on its own
		if live.TypeID() != id {
			w.TransformItem(live, id)
		} else {
			w.RestartDecay(live)
		}
		return nil
	}

	return discard(r, w, id)
}

// loadAttributes reads the attribute blob onto item and then the stored
// children if item is a container.
func loadAttributes(r *propstream.Reader, w *world.World, item *world.Item) error {
	if !item.UnserializeAttr(r) {
		return decodeErr("unserialize attributes", item.TypeID(), ErrAttributes)
	}
	if c, ok := item.Container(); ok {
		return loadContainer(r, w, item, c)
	}
	return nil
}

func loadContainer(r *propstream.Reader, w *world.World, item *world.Item, c *world.Container) error {
	for c.SerializationCount > 0 {
		if err := LoadItem(r, w, c, false); err != nil {
			return decodeErr("load container", item.TypeID(), err)
		}
		c.SerializationCount--
	}

	end, ok := r.ReadU8()
	if !ok {
		return decodeErr("load container", item.TypeID(), ErrStreamUnderrun)
	}
	if end != uint8(world.AttrEnd) {
		return decodeErr("load container", item.TypeID(), ErrStructuralMismatch)
	}
	return nil
}

// SaveTile writes the tile's qualifying items prefixed by the position and
// their count. It reports false when no item qualifies.
func SaveTile(w *propstream.Writer, tile *world.Tile) bool {
	var items []*world.Item
	for _, it := range tile.Items() {
		if it.SavedToHouses() {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return false
	}

	pos := tile.Position()
	w.WriteU16(pos.X)
	w.WriteU16(pos.Y)
	w.WriteU8(pos.Z)
	w.WriteU32(uint32(len(items)))
	for _, it := range items {
		SaveItem(w, it)
	}
	return true
}

// LoadTile decodes one stored tile blob onto the live tile at its position.
// A blob whose position has no tile is skipped and reported as not found.
func LoadTile(r *propstream.Reader, w *world.World) (world.Position, bool, error) {
	x, okX := r.ReadU16()
	y, okY := r.ReadU16()
	z, okZ := r.ReadU8()
	if !okX || !okY || !okZ {
		return world.Position{}, false, decodeErr("load tile", 0, ErrStreamUnderrun)
	}
	pos := world.Position{X: x, Y: y, Z: z}
	tile, ok := w.Tile(pos)
	if !ok {
		return pos, false, nil
	}

	count, ok := r.ReadU32()
	if !ok {
		return pos, true, decodeErr("load tile", 0, ErrStreamUnderrun)
	}
	for ; count > 0; count-- {
		if err := LoadItem(r, w, tile, true); err != nil {
			return pos, true, err
		}
	}
	return pos, true, nil
}
