package mapserialize

import (
	"context"

	"mapstate/internal/app/ports"
	"mapstate/internal/domain/world"

	"github.com/samber/oops"
)

func houseRecord(h *world.House) ports.HouseRecord {
	return ports.HouseRecord{
		ID:       h.ID,
		Owner:    h.Owner(),
		NewOwner: ports.NoPendingOwner,
		Paid:     h.PaidUntil(),
		Warnings: h.PayRentWarnings(),
		Name:     h.Name,
		TownID:   h.TownID,
		Rent:     h.Rent,
		Size:     h.Size(),
		Beds:     h.BedCount(),
	}
}

// houseLists returns the non-empty guest, subowner and door lists of h.
func houseLists(h *world.House) []ports.HouseListRecord {
	var out []ports.HouseListRecord
	add := func(listID uint32) {
		text, ok := h.AccessList(listID)
		if !ok || text == "" {
			return
		}
		out = append(out, ports.HouseListRecord{HouseID: h.ID, ListID: listID, List: text})
	}
	add(world.GuestList)
	add(world.SubownerList)
	for _, it := range h.Doors() {
		if d, ok := it.Door(); ok {
			add(uint32(d.DoorID))
		}
	}
	return out
}

// SaveHouseInfo upserts every house row and replaces all access lists.
func (u UseCase) SaveHouseInfo(ctx context.Context, w *world.World) error {
	houses := w.Houses()
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var lists []ports.HouseListRecord
		for _, h := range houses {
			rec := houseRecord(h)
			exists, err := u.Houses.Exists(txCtx, h.ID)
			if err != nil {
				return oops.Wrapf(err, "check house %d", h.ID)
			}
			if exists {
				err = u.Houses.Update(txCtx, rec)
			} else {
				err = u.Houses.Insert(txCtx, rec)
			}
			if err != nil {
				return oops.Wrapf(err, "store house %d", h.ID)
			}
			lists = append(lists, houseLists(h)...)
		}

		if err := u.HouseLists.DeleteAll(txCtx); err != nil {
			return oops.Wrapf(err, "clear house lists")
		}
		if len(lists) == 0 {
			return nil
		}
		if err := u.HouseLists.InsertBatch(txCtx, lists); err != nil {
			return oops.Wrapf(err, "insert %d house lists", len(lists))
		}
		return nil
	})
	if err != nil {
		u.recordFailure()
		u.logger().Printf("save house info failed: %v", err)
		return oops.Wrapf(err, "save house info")
	}
	return nil
}

// LoadHouseInfo restores owners, rent state and access lists of the houses
// present in the world.
func (u UseCase) LoadHouseInfo(ctx context.Context, w *world.World) error {
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		records, err := u.Houses.List(txCtx)
		if err != nil {
			return oops.Wrapf(err, "list houses")
		}
		for _, rec := range records {
			h, ok := w.House(rec.ID)
			if !ok {
				continue
			}
			transferred := u.applyOwner(w, h, rec)
			h.SetPaidUntil(rec.Paid)
			h.SetPayRentWarnings(rec.Warnings)
			if transferred {
				if err := u.Houses.ResetNewOwner(txCtx, rec.ID); err != nil {
					return oops.Wrapf(err, "reset new owner of house %d", rec.ID)
				}
			}
		}

		lists, err := u.HouseLists.List(txCtx)
		if err != nil {
			return oops.Wrapf(err, "list house lists")
		}
		for _, l := range lists {
			h, ok := w.House(l.HouseID)
			if !ok {
				continue
			}
			if !h.SetAccessList(l.ListID, l.List) {
				u.logger().Printf("warning: house %d has no access list %#x", l.HouseID, l.ListID)
			}
		}
		return nil
	})
	if err != nil {
		u.recordFailure()
		return oops.Wrapf(err, "load house info")
	}
	return nil
}

// applyOwner sets the owner of h from rec. With transfers enabled a pending
// new owner first hands the house items to the stored owner's claim.
func (u UseCase) applyOwner(w *world.World, h *world.House, rec ports.HouseRecord) bool {
	if !u.TransferOnRestart || rec.NewOwner < 0 {
		h.SetOwner(rec.Owner)
		return false
	}
	if rec.Owner != 0 {
		w.TransferHouseItems(h, rec.Owner)
	}
	h.SetOwner(uint32(rec.NewOwner))
	return true
}
