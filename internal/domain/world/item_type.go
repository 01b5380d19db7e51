package world

import "time"

type ItemGroup uint8

const (
	GroupNone ItemGroup = iota
	GroupContainer
	GroupDoor
	GroupBed
)

func (g ItemGroup) String() string {
	switch g {
	case GroupContainer:
		return "container"
	case GroupDoor:
		return "door"
	case GroupBed:
		return "bed"
	default:
		return "none"
	}
}

// ItemType is the read-only definition an item id resolves to.
type ItemType struct {
	ID    uint16
	Name  string
	Group ItemGroup

	Movable bool
	Carpet  bool
	// ForceSerialize opts a non-movable type into the house snapshot.
	ForceSerialize bool

	// TransformOnUse is the id a stationary item of this type toggles to;
	// a live item carrying that id still reconciles with a stored record.
	TransformOnUse uint16

	DecayTime time.Duration
	// DecayTo is the next stage of the decay chain, 0 removes the item.
	DecayTo uint16
}

func (t ItemType) IsContainer() bool { return t.Group == GroupContainer }
func (t ItemType) IsDoor() bool      { return t.Group == GroupDoor }
func (t ItemType) IsBed() bool       { return t.Group == GroupBed }

// SavedToHouses reports whether items of this type belong in the house
// item snapshot.
func (t ItemType) SavedToHouses() bool {
	return t.Movable || t.ForceSerialize
}

func (t ItemType) CanDecay() bool {
	return t.DecayTime > 0
}

// Registry is the item type table loaded at startup.
type Registry struct {
	types map[uint16]ItemType
}

func NewRegistry(types ...ItemType) *Registry {
	r := &Registry{types: make(map[uint16]ItemType, len(types))}
	for _, t := range types {
		r.types[t.ID] = t
	}
	return r
}

func (r *Registry) Resolve(id uint16) (ItemType, bool) {
	if r == nil {
		return ItemType{}, false
	}
	t, ok := r.types[id]
	return t, ok
}

// Lookup resolves id, falling back to a bare definition without any
// capability for ids missing from the table.
func (r *Registry) Lookup(id uint16) ItemType {
	if t, ok := r.Resolve(id); ok {
		return t
	}
	return ItemType{ID: id}
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.types)
}
