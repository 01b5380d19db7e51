package mapserialize

import (
	"context"
	"log"
	"time"

	"mapstate/internal/app/ports"
	"mapstate/internal/domain/world"

	"github.com/oklog/ulid/v2"
)

// UseCase persists the dynamic house state of a world: the items lying on
// house tiles and the house metadata with its access lists.
type UseCase struct {
	TxManager  ports.TxManager
	TileStore  ports.TileStoreRepository
	Houses     ports.HouseRepository
	HouseLists ports.HouseListRepository
	Metrics    ports.PersistMetrics
	Logger     *log.Logger
	Now        func() time.Time

	// TransferOnRestart applies ownership changes scheduled through the
	// new_owner column when house info is loaded.
	TransferOnRestart bool
}

// SaveHouses writes the house info and then the item snapshot, whose rows
// reference the house rows.
func (u UseCase) SaveHouses(ctx context.Context, w *world.World) error {
	if err := u.SaveHouseInfo(ctx, w); err != nil {
		return err
	}
	return u.SaveHouseItems(ctx, w)
}

// LoadHouses restores items before house info so that ownership transfers
// apply to the loaded items.
func (u UseCase) LoadHouses(ctx context.Context, w *world.World) error {
	if err := u.LoadHouseItems(ctx, w); err != nil {
		return err
	}
	return u.LoadHouseInfo(ctx, w)
}

func (u UseCase) logger() *log.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return log.Default()
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func newRunID() string {
	return ulid.Make().String()
}

func (u UseCase) recordFailure() {
	if u.Metrics != nil {
		u.Metrics.RecordFailure()
	}
}
