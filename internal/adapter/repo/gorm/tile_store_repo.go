package gormrepo

import (
	"context"

	"mapstate/internal/adapter/repo/gorm/model"
	"mapstate/internal/app/ports"

	"gorm.io/gorm"
)

const tileStoreBatchSize = 200

type TileStoreRepo struct {
	db *gorm.DB
}

func NewTileStoreRepo(db *gorm.DB) TileStoreRepo {
	return TileStoreRepo{db: db}
}

func (r TileStoreRepo) DeleteAll(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.TileStore{}).Error
}

func (r TileStoreRepo) InsertBatch(ctx context.Context, rows []ports.TileStoreRow) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]model.TileStore, 0, len(rows))
	for _, row := range rows {
		models = append(models, model.TileStore{
			HouseID: int64(row.HouseID),
			Data:    row.Data,
		})
	}
	return getDBFromCtx(ctx, r.db).CreateInBatches(&models, tileStoreBatchSize).Error
}

func (r TileStoreRepo) Each(ctx context.Context, fn func(row ports.TileStoreRow) error) error {
	var batch []model.TileStore
	return getDBFromCtx(ctx, r.db).
		Order("id").
		FindInBatches(&batch, tileStoreBatchSize, func(_ *gorm.DB, _ int) error {
			for _, m := range batch {
				if err := fn(ports.TileStoreRow{HouseID: uint32(m.HouseID), Data: m.Data}); err != nil {
					return err
				}
			}
			return nil
		}).Error
}
