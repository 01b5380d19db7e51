package ports

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("house store: not found")
	ErrConflict = errors.New("house store: duplicate key")
)

// TxManager runs fn in one store transaction. Repositories called with the
// ctx handed to fn take part in it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TileStoreRow is one persisted tile blob: position, item count and the
// encoded items, tagged with the owning house.
type TileStoreRow struct {
	HouseID uint32
	Data    []byte
}

type TileStoreRepository interface {
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, rows []TileStoreRow) error
	// Each streams every stored row; an error returned by fn stops the scan
	// and is returned as is.
	Each(ctx context.Context, fn func(row TileStoreRow) error) error
}

// NoPendingOwner marks a house row without a scheduled ownership change.
const NoPendingOwner int32 = -1

type HouseRecord struct {
	ID       uint32
	Owner    uint32
	NewOwner int32
	Paid     int64
	Warnings uint32
	Name     string
	TownID   uint32
	Rent     uint32
	Size     uint32
	Beds     uint32
}

type HouseRepository interface {
	Exists(ctx context.Context, id uint32) (bool, error)
	Insert(ctx context.Context, house HouseRecord) error
	// Update writes the mutable columns and leaves new_owner untouched.
	Update(ctx context.Context, house HouseRecord) error
	ResetNewOwner(ctx context.Context, id uint32) error
	Get(ctx context.Context, id uint32) (HouseRecord, error)
	List(ctx context.Context) ([]HouseRecord, error)
}

type HouseListRecord struct {
	HouseID uint32
	ListID  uint32
	List    string
}

type HouseListRepository interface {
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, lists []HouseListRecord) error
	List(ctx context.Context) ([]HouseListRecord, error)
}
