package httpadapter

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"mapstate/internal/app/ports"
	"mapstate/internal/app/worldloop"
	"mapstate/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// WorldLoop is the part of worldloop.Loop the ops surface drives.
type WorldLoop interface {
	Submit(ctx context.Context, fn func(w *world.World) error) error
	Save(ctx context.Context) error
	Decay(ctx context.Context) (int, error)
}

// HouseInfoLoader reloads owners, rent state and access lists from the store.
type HouseInfoLoader interface {
	LoadHouseInfo(ctx context.Context, w *world.World) error
}

// HouseRecords reads stored house rows, for state the live world lacks.
type HouseRecords interface {
	Get(ctx context.Context, id uint32) (ports.HouseRecord, error)
}

type Handler struct {
	Loop      WorldLoop
	HouseInfo HouseInfoLoader
	Houses    HouseRecords
	KPI       kpiSnapshotProvider

	// AllowOrigin is sent as Access-Control-Allow-Origin; empty means "*".
	AllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))

	ops := s.Group("/ops")
	ops.GET("/kpi", h.kpi)
	ops.POST("/save", h.save)
	ops.POST("/load", h.load)
	ops.POST("/decay", h.decay)
	ops.GET("/houses/:id", h.house)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	if err := h.Loop.Save(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"saved": true})
}

// load refreshes house info only. Items are loaded once at startup since a
// second item load would duplicate every movable item.
func (h Handler) load(c context.Context, ctx *app.RequestContext) {
	if h.HouseInfo == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "house info loader not configured")
		return
	}
	err := h.Loop.Submit(c, func(w *world.World) error {
		return h.HouseInfo.LoadHouseInfo(c, w)
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"loaded": true})
}

func (h Handler) decay(c context.Context, ctx *app.RequestContext) {
	n, err := h.Loop.Decay(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"stepped": n})
}

type houseResponse struct {
	ID              uint32            `json:"id"`
	Name            string            `json:"name"`
	TownID          uint32            `json:"town_id"`
	Rent            uint32            `json:"rent"`
	Owner           uint32            `json:"owner"`
	NewOwner        *int32            `json:"new_owner,omitempty"`
	PaidUntil       int64             `json:"paid_until"`
	PayRentWarnings uint32            `json:"pay_rent_warnings"`
	Size            uint32            `json:"size"`
	Beds            uint32            `json:"beds"`
	Doors           int               `json:"doors"`
	Items           int               `json:"items"`
	AccessLists     map[string]string `json:"access_lists"`
}

var errInvalidHouseID = errors.New("invalid house id")

func (h Handler) house(c context.Context, ctx *app.RequestContext) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 32)
	if err != nil || id == 0 {
		writeError(ctx, errInvalidHouseID)
		return
	}

	var resp houseResponse
	err = h.Loop.Submit(c, func(w *world.World) error {
		house, ok := w.House(uint32(id))
		if !ok {
			return ports.ErrNotFound
		}
		resp = describeHouse(house)
		return nil
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	if h.Houses != nil {
		rec, err := h.Houses.Get(c, uint32(id))
		switch {
		case errors.Is(err, ports.ErrNotFound):
			// house not saved yet
		case err != nil:
			writeError(ctx, err)
			return
		case rec.NewOwner != ports.NoPendingOwner:
			pending := rec.NewOwner
			resp.NewOwner = &pending
		}
	}
	ctx.JSON(consts.StatusOK, resp)
}

func describeHouse(h *world.House) houseResponse {
	resp := houseResponse{
		ID:              h.ID,
		Name:            h.Name,
		TownID:          h.TownID,
		Rent:            h.Rent,
		Owner:           h.Owner(),
		PaidUntil:       h.PaidUntil(),
		PayRentWarnings: h.PayRentWarnings(),
		Size:            h.Size(),
		Beds:            h.BedCount(),
		Doors:           len(h.Doors()),
		AccessLists:     map[string]string{},
	}
	for _, tile := range h.Tiles() {
		resp.Items += len(tile.Items())
	}
	if text, _ := h.AccessList(world.GuestList); text != "" {
		resp.AccessLists["guests"] = text
	}
	if text, _ := h.AccessList(world.SubownerList); text != "" {
		resp.AccessLists["subowners"] = text
	}
	for _, it := range h.Doors() {
		if d, ok := it.Door(); ok && d.DoorID != 0 && d.AccessList.Text() != "" {
			resp.AccessLists["door_"+strconv.Itoa(int(d.DoorID))] = d.AccessList.Text()
		}
	}
	return resp
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, errInvalidHouseID):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, worldloop.ErrStopped):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "world_stopped", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "timeout", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
