// Package repo builds the house store selected by configuration.
package repo

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	gormrepo "mapstate/internal/adapter/repo/gorm"
	"mapstate/internal/adapter/repo/memory"
	"mapstate/internal/adapter/repo/sqlite"
	"mapstate/internal/app/ports"
	"mapstate/internal/platform/config"
	"mapstate/migrations"
)

// Backend is one opened house store.
type Backend struct {
	Driver     string
	TxManager  ports.TxManager
	TileStore  ports.TileStoreRepository
	Houses     ports.HouseRepository
	HouseLists ports.HouseListRepository
	close      func() error
}

func (b Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the configured store. Postgres gets its migrations
// applied from MigrationsDir, or from the embedded set when that is empty.
func Open(ctx context.Context, cfg config.Store, logger *log.Logger) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return Backend{}, err
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "memory":
		store := memory.NewStore()
		return Backend{
			Driver:     driver,
			TxManager:  memory.NewTxManager(store),
			TileStore:  memory.NewTileStoreRepo(store),
			Houses:     memory.NewHouseRepo(store),
			HouseLists: memory.NewHouseListRepo(store),
		}, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return Backend{}, err
		}
		return Backend{
			Driver:     driver,
			TxManager:  sqlite.NewTxManager(store),
			TileStore:  sqlite.NewTileStoreRepo(store),
			Houses:     sqlite.NewHouseRepo(store),
			HouseLists: sqlite.NewHouseListRepo(store),
			close:      store.Close,
		}, nil
	default:
		db, err := gormrepo.OpenPostgres(cfg.DSN, logger, 200*time.Millisecond)
		if err != nil {
			return Backend{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return Backend{}, err
		}
		var fsys fs.FS = migrations.FS
		if dir := strings.TrimSpace(cfg.MigrationsDir); dir != "" {
			fsys = os.DirFS(dir)
		}
		if err := gormrepo.ApplyMigrations(ctx, db, fsys); err != nil {
			_ = sqlDB.Close()
			return Backend{}, fmt.Errorf("migrate: %w", err)
		}
		return Backend{
			Driver:     driver,
			TxManager:  gormrepo.NewTxManager(db),
			TileStore:  gormrepo.NewTileStoreRepo(db),
			Houses:     gormrepo.NewHouseRepo(db),
			HouseLists: gormrepo.NewHouseListRepo(db),
			close:      sqlDB.Close,
		}, nil
	}
}
