package world

// Cylinder is the placement root for items: a tile or a container.
type Cylinder interface {
	AddItem(item *Item)
	RemoveItem(item *Item) bool
	// Tile returns the tile itself, nil for containers.
	Tile() *Tile
	attached() bool
}

type Tile struct {
	pos     Position
	items   []*Item
	houseID uint32
	world   *World
}

func (t *Tile) Position() Position {
	return t.pos
}

// Items returns the tile items in insertion order.
func (t *Tile) Items() []*Item {
	return t.items
}

// HouseID is 0 for tiles outside any house.
func (t *Tile) HouseID() uint32 {
	return t.houseID
}

func (t *Tile) AddItem(item *Item) {
	t.items = append(t.items, item)
	item.parent = t
}

func (t *Tile) RemoveItem(item *Item) bool {
	for idx, it := range t.items {
		if it == item {
			t.items = append(t.items[:idx], t.items[idx+1:]...)
			item.parent = nil
			return true
		}
	}
	return false
}

func (t *Tile) Tile() *Tile {
	return t
}

func (t *Tile) attached() bool {
	return t.world != nil
}
