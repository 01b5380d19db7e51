package gormrepo

import (
	"context"
	"errors"

	"mapstate/internal/adapter/repo/gorm/model"
	"mapstate/internal/app/ports"

	"gorm.io/gorm"
)

type HouseRepo struct {
	db *gorm.DB
}

func NewHouseRepo(db *gorm.DB) HouseRepo {
	return HouseRepo{db: db}
}

func (r HouseRepo) Exists(ctx context.Context, id uint32) (bool, error) {
	var count int64
	if err := getDBFromCtx(ctx, r.db).Model(&model.House{}).Where("id = ?", int64(id)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r HouseRepo) Insert(ctx context.Context, house ports.HouseRecord) error {
	m := toHouseModel(house)
	err := getDBFromCtx(ctx, r.db).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}

func (r HouseRepo) Update(ctx context.Context, house ports.HouseRecord) error {
	res := getDBFromCtx(ctx, r.db).
		Model(&model.House{}).
		Where("id = ?", int64(house.ID)).
		Updates(map[string]any{
			"owner":    int64(house.Owner),
			"paid":     house.Paid,
			"warnings": int32(house.Warnings),
			"name":     house.Name,
			"town_id":  int64(house.TownID),
			"rent":     int64(house.Rent),
			"size":     int64(house.Size),
			"beds":     int64(house.Beds),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r HouseRepo) ResetNewOwner(ctx context.Context, id uint32) error {
	res := getDBFromCtx(ctx, r.db).
		Model(&model.House{}).
		Where("id = ?", int64(id)).
		Update("new_owner", ports.NoPendingOwner)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r HouseRepo) Get(ctx context.Context, id uint32) (ports.HouseRecord, error) {
	var m model.House
	err := getDBFromCtx(ctx, r.db).Where("id = ?", int64(id)).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ports.HouseRecord{}, ports.ErrNotFound
		}
		return ports.HouseRecord{}, err
	}
	return fromHouseModel(m), nil
}

func (r HouseRepo) List(ctx context.Context) ([]ports.HouseRecord, error) {
	var rows []model.House
	if err := getDBFromCtx(ctx, r.db).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.HouseRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, fromHouseModel(m))
	}
	return out, nil
}

func toHouseModel(h ports.HouseRecord) model.House {
	return model.House{
		ID:       int64(h.ID),
		Owner:    int64(h.Owner),
		NewOwner: h.NewOwner,
		Paid:     h.Paid,
		Warnings: int32(h.Warnings),
		Name:     h.Name,
		TownID:   int64(h.TownID),
		Rent:     int64(h.Rent),
		Size:     int64(h.Size),
		Beds:     int64(h.Beds),
	}
}

func fromHouseModel(m model.House) ports.HouseRecord {
	return ports.HouseRecord{
		ID:       uint32(m.ID),
		Owner:    uint32(m.Owner),
		NewOwner: m.NewOwner,
		Paid:     m.Paid,
		Warnings: uint32(m.Warnings),
		Name:     m.Name,
		TownID:   uint32(m.TownID),
		Rent:     uint32(m.Rent),
		Size:     uint32(m.Size),
		Beds:     uint32(m.Beds),
	}
}
