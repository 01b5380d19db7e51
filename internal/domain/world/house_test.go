package world

import "testing"

func TestAccessListParsing(t *testing.T) {
	l := ParseAccessList("# friends\nEryn\n  bob  \n\n")
	if !l.Allows("eryn") || !l.Allows("Bob") {
		t.Fatalf("expected listed names to be allowed")
	}
	if l.Allows("mallory") {
		t.Fatalf("expected unlisted name to be rejected")
	}
	if !ParseAccessList("*").Allows("anyone") {
		t.Fatalf("expected wildcard to admit everyone")
	}
	if !ParseAccessList("  \n").Empty() {
		t.Fatalf("expected blank list to be empty")
	}
}

func TestHouseAccessListsByID(t *testing.T) {
	w := New(testRegistry())
	h := NewHouse(1)
	tile, _ := w.AddTile(Position{X: 5, Y: 5, Z: 7})
	h.AddTile(tile)
	door := w.NewItem(1209)
	d, _ := door.Door()
	d.DoorID = 2
	w.PlaceItem(tile, door)
	h.AddDoor(door)

	if !h.SetAccessList(GuestList, "eryn") || !h.SetAccessList(SubownerList, "bob") || !h.SetAccessList(2, "carol") {
		t.Fatalf("expected lists to be accepted")
	}
	if h.SetAccessList(7, "nobody") {
		t.Fatalf("expected unknown door list to be rejected")
	}
	if got, _ := h.AccessList(2); got != "carol" {
		t.Fatalf("door list mismatch: %q", got)
	}
	if !h.IsInvited("Bob") {
		t.Fatalf("expected subowner to be invited")
	}
	if tile.HouseID() != 1 || h.Size() != 1 {
		t.Fatalf("unexpected house tile bookkeeping: house=%d size=%d", tile.HouseID(), h.Size())
	}
}

func TestHouseSetOwnerClearsListsOnHandover(t *testing.T) {
	h := NewHouse(1)
	h.SetOwner(10)
	h.SetAccessList(GuestList, "eryn")

	h.SetOwner(10)
	if got, _ := h.AccessList(GuestList); got != "eryn" {
		t.Fatalf("same owner must keep lists, got %q", got)
	}
	h.SetOwner(11)
	if got, _ := h.AccessList(GuestList); got != "" {
		t.Fatalf("new owner must start with empty lists, got %q", got)
	}
}

func TestHouseBedCount(t *testing.T) {
	w := New(testRegistry())
	h := NewHouse(1)
	a, _ := w.AddTile(Position{X: 1, Y: 1, Z: 7})
	b, _ := w.AddTile(Position{X: 2, Y: 1, Z: 7})
	h.AddTile(a)
	h.AddTile(b)
	w.CreateItem(a, 30001)
	w.CreateItem(b, 30001)
	w.CreateItem(b, 200)
	if got := h.BedCount(); got != 2 {
		t.Fatalf("expected 2 beds, got %d", got)
	}
}
