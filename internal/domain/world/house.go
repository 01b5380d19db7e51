package world

import (
	"sort"
	"strings"
)

// Access list ids. Door lists are keyed by the door id.
const (
	GuestList    uint32 = 0x100
	SubownerList uint32 = 0x101
)

// AccessList is a newline separated list of player names. Lines starting
// with '#' are comments and "*" admits everyone.
type AccessList struct {
	text     string
	names    map[string]struct{}
	allowAll bool
}

func ParseAccessList(text string) AccessList {
	l := AccessList{text: text, names: map[string]struct{}{}}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "*" {
			l.allowAll = true
			continue
		}
		l.names[strings.ToLower(line)] = struct{}{}
	}
	return l
}

func (l AccessList) Text() string {
	return l.text
}

func (l AccessList) Empty() bool {
	return strings.TrimSpace(l.text) == ""
}

func (l AccessList) Allows(name string) bool {
	if l.allowAll {
		return true
	}
	_, ok := l.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

type House struct {
	ID     uint32
	Name   string
	TownID uint32
	Rent   uint32

	owner           uint32
	paidUntil       int64
	payRentWarnings uint32

	tiles     []*Tile
	doors     []*Item
	guests    AccessList
	subowners AccessList
}

func NewHouse(id uint32) *House {
	return &House{ID: id}
}

func (h *House) Owner() uint32 {
	return h.owner
}

// SetOwner assigns the owner. Handing the house to somebody else drops
// every access list granted by the previous owner.
func (h *House) SetOwner(guid uint32) {
	if h.owner != 0 && h.owner != guid {
		h.guests = AccessList{}
		h.subowners = AccessList{}
		for _, d := range h.doors {
			if door, ok := d.Door(); ok {
				door.AccessList = AccessList{}
			}
		}
	}
	h.owner = guid
}

// PaidUntil is the unix time the rent is paid up to.
func (h *House) PaidUntil() int64 {
	return h.paidUntil
}

func (h *House) SetPaidUntil(unix int64) {
	h.paidUntil = unix
}

func (h *House) PayRentWarnings() uint32 {
	return h.payRentWarnings
}

func (h *House) SetPayRentWarnings(n uint32) {
	h.payRentWarnings = n
}

func (h *House) Tiles() []*Tile {
	return h.tiles
}

// Size is the number of tiles the house covers.
func (h *House) Size() uint32 {
	return uint32(len(h.tiles))
}

func (h *House) BedCount() uint32 {
	var n uint32
	for _, t := range h.tiles {
		for _, it := range t.items {
			if _, ok := it.Bed(); ok {
				n++
			}
		}
	}
	return n
}

func (h *House) AddTile(t *Tile) {
	t.houseID = h.ID
	h.tiles = append(h.tiles, t)
}

// AddDoor registers a door item of this house. Items without the door
// capability are ignored.
func (h *House) AddDoor(item *Item) {
	if _, ok := item.Door(); !ok {
		return
	}
	h.doors = append(h.doors, item)
	sort.SliceStable(h.doors, func(i, j int) bool {
		a, _ := h.doors[i].Door()
		b, _ := h.doors[j].Door()
		return a.DoorID < b.DoorID
	})
}

func (h *House) Doors() []*Item {
	return h.doors
}

func (h *House) DoorByID(id uint8) (*Door, bool) {
	for _, it := range h.doors {
		if d, ok := it.Door(); ok && d.DoorID == id {
			return d, true
		}
	}
	return nil, false
}

// AccessList returns the text of the guest, subowner or door list.
func (h *House) AccessList(listID uint32) (string, bool) {
	switch listID {
	case GuestList:
		return h.guests.Text(), true
	case SubownerList:
		return h.subowners.Text(), true
	}
	if listID > 0xFF {
		return "", false
	}
	d, ok := h.DoorByID(uint8(listID))
	if !ok {
		return "", false
	}
	return d.AccessList.Text(), true
}

func (h *House) SetAccessList(listID uint32, text string) bool {
	switch listID {
	case GuestList:
		h.guests = ParseAccessList(text)
		return true
	case SubownerList:
		h.subowners = ParseAccessList(text)
		return true
	}
	if listID > 0xFF {
		return false
	}
	d, ok := h.DoorByID(uint8(listID))
	if !ok {
		return false
	}
	d.AccessList = ParseAccessList(text)
	return true
}

func (h *House) IsInvited(name string) bool {
	return h.guests.Allows(name) || h.subowners.Allows(name)
}
