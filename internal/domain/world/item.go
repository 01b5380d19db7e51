package world

import "mapstate/internal/domain/propstream"

// ItemID is the arena handle of a live item. Detached items (built but not
// placed into the world) have ID 0.
type ItemID uint64

// Capability is the optional facet an item exposes. The set is closed:
// *Container, *Bed and *Door.
type Capability interface {
	capability()
}

type Container struct {
	owner *Item
	items []*Item

	// SerializationCount is the number of children still expected while a
	// stored container is being decoded.
	SerializationCount uint32
}

type Bed struct {
	Sleeper    uint32
	SleepStart uint32
}

type Door struct {
	DoorID     uint8
	AccessList AccessList
}

func (*Container) capability() {}
func (*Bed) capability()       {}
func (*Door) capability()      {}

type Item struct {
	id     ItemID
	typ    ItemType
	attrs  Attributes
	cap    Capability
	parent Cylinder
}

// NewItem builds a detached item of the given type. The capability is taken
// from the type group.
func NewItem(typ ItemType) *Item {
	it := &Item{typ: typ}
	it.cap = capabilityFor(typ, it)
	return it
}

func capabilityFor(typ ItemType, owner *Item) Capability {
	switch typ.Group {
	case GroupContainer:
		return &Container{owner: owner}
	case GroupBed:
		return &Bed{}
	case GroupDoor:
		return &Door{}
	default:
		return nil
	}
}

func (i *Item) ID() ItemID              { return i.id }
func (i *Item) TypeID() uint16          { return i.typ.ID }
func (i *Item) Type() ItemType          { return i.typ }
func (i *Item) Attributes() *Attributes { return &i.attrs }
func (i *Item) Capability() Capability  { return i.cap }
func (i *Item) Parent() Cylinder        { return i.parent }

func (i *Item) Container() (*Container, bool) {
	c, ok := i.cap.(*Container)
	return c, ok
}

func (i *Item) Bed() (*Bed, bool) {
	b, ok := i.cap.(*Bed)
	return b, ok
}

func (i *Item) Door() (*Door, bool) {
	d, ok := i.cap.(*Door)
	return d, ok
}

func (i *Item) SavedToHouses() bool {
	return i.typ.SavedToHouses()
}

// SerializeAttr writes the attribute blob: generic attributes followed by
// the capability attributes. It writes neither the container payload nor
// the terminating byte.
func (i *Item) SerializeAttr(w *propstream.Writer) {
	i.attrs.serialize(w)
	switch c := i.cap.(type) {
	case *Door:
		if c.DoorID != 0 {
			w.WriteU8(uint8(AttrHouseDoorID))
			w.WriteU8(c.DoorID)
		}
	case *Bed:
		if c.Sleeper != 0 {
			w.WriteU8(uint8(AttrSleeperGUID))
			w.WriteU32(c.Sleeper)
		}
		if c.SleepStart != 0 {
			w.WriteU8(uint8(AttrSleepStart))
			w.WriteU32(c.SleepStart)
		}
	}
}

// UnserializeAttr reads attributes until the end marker, which it consumes,
// or until the container marker, after which SerializationCount holds the
// number of stored children. Running out of bytes between attributes ends
// the blob; a truncated value or an unknown key fails.
func (i *Item) UnserializeAttr(r *propstream.Reader) bool {
	for {
		raw, ok := r.ReadU8()
		if !ok || AttrKey(raw) == AttrEnd {
			return true
		}
		k := AttrKey(raw)
		switch k {
		case AttrContainerItems:
			c, ok := i.cap.(*Container)
			if !ok {
				return false
			}
			n, ok := r.ReadU32()
			if !ok {
				return false
			}
			c.SerializationCount = n
			return true
		case AttrHouseDoorID:
			v, ok := r.ReadU8()
			if !ok {
				return false
			}
			if d, isDoor := i.cap.(*Door); isDoor {
				d.DoorID = v
			}
		case AttrSleeperGUID, AttrSleepStart:
			v, ok := r.ReadU32()
			if !ok {
				return false
			}
			if b, isBed := i.cap.(*Bed); isBed {
				if k == AttrSleeperGUID {
					b.Sleeper = v
				} else {
					b.SleepStart = v
				}
			}
		default:
			if !i.attrs.read(k, r) {
				return false
			}
		}
	}
}

// setType switches the item definition, keeping the capability when the
// group is unchanged.
func (i *Item) setType(typ ItemType) {
	if typ.Group != i.typ.Group {
		i.cap = capabilityFor(typ, i)
	}
	i.typ = typ
}

// Items returns the children in live order.
func (c *Container) Items() []*Item {
	return c.items
}

func (c *Container) Len() int {
	return len(c.items)
}

// Owner is the item exposing this container.
func (c *Container) Owner() *Item {
	return c.owner
}

// AddItem inserts at the front, the way items dropped into a container
// land on top.
func (c *Container) AddItem(item *Item) {
	c.items = append([]*Item{item}, c.items...)
	item.parent = c
}

// PushBack appends at the bottom of the container.
func (c *Container) PushBack(item *Item) {
	c.items = append(c.items, item)
	item.parent = c
}

func (c *Container) RemoveItem(item *Item) bool {
	for idx, it := range c.items {
		if it == item {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			item.parent = nil
			return true
		}
	}
	return false
}

func (c *Container) Tile() *Tile {
	return nil
}

func (c *Container) attached() bool {
	return c.owner != nil && c.owner.id != 0
}
