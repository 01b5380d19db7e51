package gormrepo

import (
	"context"

	"mapstate/internal/adapter/repo/gorm/model"
	"mapstate/internal/app/ports"

	"gorm.io/gorm"
)

type HouseListRepo struct {
	db *gorm.DB
}

func NewHouseListRepo(db *gorm.DB) HouseListRepo {
	return HouseListRepo{db: db}
}

func (r HouseListRepo) DeleteAll(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.HouseList{}).Error
}

func (r HouseListRepo) InsertBatch(ctx context.Context, lists []ports.HouseListRecord) error {
	if len(lists) == 0 {
		return nil
	}
	models := make([]model.HouseList, 0, len(lists))
	for _, l := range lists {
		models = append(models, model.HouseList{
			HouseID: int64(l.HouseID),
			Listid:  int64(l.ListID),
			List:    l.List,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&models).Error
}

func (r HouseListRepo) List(ctx context.Context) ([]ports.HouseListRecord, error) {
	var rows []model.HouseList
	if err := getDBFromCtx(ctx, r.db).Order("house_id, listid").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.HouseListRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, ports.HouseListRecord{
			HouseID: uint32(m.HouseID),
			ListID:  uint32(m.Listid),
			List:    m.List,
		})
	}
	return out, nil
}
