package world

import (
	"errors"
	"sort"
)

var (
	ErrTileExists  = errors.New("tile already exists")
	ErrHouseExists = errors.New("house already exists")
)

// DecayHook is notified when items enter the world, change type or leave
// it. The decay scheduler implements it.
type DecayHook interface {
	StartDecay(item *Item)
	CancelDecay(item *Item)
}

// World owns every live tile, house and item. Items are kept in an arena
// keyed by ItemID; everything outside the containment tree refers to them
// by handle. World is not safe for concurrent use: it is mutated from a
// single sequence.
type World struct {
	registry *Registry
	tiles    map[Position]*Tile
	houses   map[uint32]*House
	items    map[ItemID]*Item
	nextID   ItemID

	sleepers  map[uint32]ItemID
	transfers map[uint32]uint32

	decay DecayHook
}

func New(registry *Registry) *World {
	if registry == nil {
		registry = NewRegistry()
	}
	return &World{
		registry:  registry,
		tiles:     make(map[Position]*Tile),
		houses:    make(map[uint32]*House),
		items:     make(map[ItemID]*Item),
		sleepers:  make(map[uint32]ItemID),
		transfers: make(map[uint32]uint32),
	}
}

func (w *World) Registry() *Registry {
	return w.registry
}

func (w *World) SetDecayHook(h DecayHook) {
	w.decay = h
}

func (w *World) AddTile(pos Position) (*Tile, error) {
	if _, ok := w.tiles[pos]; ok {
		return nil, ErrTileExists
	}
	t := &Tile{pos: pos, world: w}
	w.tiles[pos] = t
	return t, nil
}

func (w *World) Tile(pos Position) (*Tile, bool) {
	t, ok := w.tiles[pos]
	return t, ok
}

func (w *World) TileCount() int {
	return len(w.tiles)
}

func (w *World) AddHouse(h *House) error {
	if _, ok := w.houses[h.ID]; ok {
		return ErrHouseExists
	}
	w.houses[h.ID] = h
	return nil
}

func (w *World) House(id uint32) (*House, bool) {
	h, ok := w.houses[id]
	return h, ok
}

// Houses returns every house ordered by id.
func (w *World) Houses() []*House {
	out := make([]*House, 0, len(w.houses))
	for _, h := range w.houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NewItem builds a detached item of typeID. It only becomes live once
// placed with PlaceItem.
func (w *World) NewItem(typeID uint16) *Item {
	return NewItem(w.registry.Lookup(typeID))
}

// CreateItem builds an item and places it into parent.
func (w *World) CreateItem(parent Cylinder, typeID uint16) *Item {
	item := w.NewItem(typeID)
	w.PlaceItem(parent, item)
	return item
}

// PlaceItem adds item to parent. When parent is part of the world the item
// and its whole subtree join the arena and start decaying.
func (w *World) PlaceItem(parent Cylinder, item *Item) {
	parent.AddItem(item)
	if parent.attached() {
		w.adopt(item)
	}
}

func (w *World) adopt(item *Item) {
	if item.id == 0 {
		w.nextID++
		item.id = w.nextID
	}
	w.items[item.id] = item
	if b, ok := item.Bed(); ok && b.Sleeper != 0 {
		w.sleepers[b.Sleeper] = item.id
	}
	if c, ok := item.Container(); ok {
		// a child may decay away while being adopted
		children := append([]*Item(nil), c.items...)
		for _, child := range children {
			w.adopt(child)
		}
	}
	if w.decay != nil {
		w.decay.StartDecay(item)
	}
}

// Item resolves a live item handle. Removed items no longer resolve.
func (w *World) Item(id ItemID) (*Item, bool) {
	it, ok := w.items[id]
	return it, ok
}

func (w *World) ItemCount() int {
	return len(w.items)
}

// TransformItem switches item to typeID in place and restarts its decay
// for the new definition.
func (w *World) TransformItem(item *Item, typeID uint16) *Item {
	if item.typ.ID == typeID {
		return item
	}
	if w.decay != nil && item.id != 0 {
		w.decay.CancelDecay(item)
	}
	item.setType(w.registry.Lookup(typeID))
	if w.decay != nil && item.id != 0 {
		w.decay.StartDecay(item)
	}
	return item
}

// RestartDecay reschedules a live item, picking up a duration attribute
// that was changed in place.
func (w *World) RestartDecay(item *Item) {
	if w.decay != nil && item.id != 0 {
		w.decay.StartDecay(item)
	}
}

// RemoveItem detaches item from its parent and drops it and its subtree
// from the arena.
func (w *World) RemoveItem(item *Item) {
	if item.parent != nil {
		item.parent.RemoveItem(item)
	}
	w.release(item)
}

func (w *World) release(item *Item) {
	if c, ok := item.Container(); ok {
		for _, child := range c.items {
			w.release(child)
		}
	}
	if b, ok := item.Bed(); ok && b.Sleeper != 0 {
		if w.sleepers[b.Sleeper] == item.id {
			delete(w.sleepers, b.Sleeper)
		}
	}
	if item.id == 0 {
		return
	}
	if w.decay != nil {
		w.decay.CancelDecay(item)
	}
	delete(w.items, item.id)
	item.id = 0
}

// SetBedSleeper records guid as sleeping in bed.
func (w *World) SetBedSleeper(bed *Item, guid uint32) {
	b, ok := bed.Bed()
	if !ok || guid == 0 {
		return
	}
	b.Sleeper = guid
	if bed.id != 0 {
		w.sleepers[guid] = bed.id
	}
}

// BedSleeper returns the bed guid is registered as sleeping in.
func (w *World) BedSleeper(guid uint32) (*Item, bool) {
	id, ok := w.sleepers[guid]
	if !ok {
		return nil, false
	}
	return w.Item(id)
}

// RemoveBedSleeper drops the sleeper association of guid.
func (w *World) RemoveBedSleeper(guid uint32) bool {
	id, ok := w.sleepers[guid]
	if !ok {
		return false
	}
	delete(w.sleepers, guid)
	if it, ok := w.items[id]; ok {
		if b, ok := it.Bed(); ok && b.Sleeper == guid {
			b.Sleeper = 0
			b.SleepStart = 0
		}
	}
	return true
}

// TransferHouseItems tags every movable item in the house with owner as
// claimant and remembers the claim for the house.
func (w *World) TransferHouseItems(h *House, owner uint32) int {
	w.transfers[h.ID] = owner
	n := 0
	var tag func(it *Item)
	tag = func(it *Item) {
		if it.typ.Movable {
			it.attrs.SetInt(AttrOwner, int64(owner))
			n++
		}
		if c, ok := it.Container(); ok {
			for _, child := range c.items {
				tag(child)
			}
		}
	}
	for _, t := range h.tiles {
		for _, it := range t.items {
			tag(it)
		}
	}
	return n
}

// TransferClaim returns the player recorded as claimant of the house items.
func (w *World) TransferClaim(houseID uint32) (uint32, bool) {
	owner, ok := w.transfers[houseID]
	return owner, ok
}
