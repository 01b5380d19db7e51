package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mapstate/internal/app/ports"
	"mapstate/internal/app/worldloop"
	"mapstate/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

func TestWriteError_NotFound(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, ports.ErrNotFound)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["error"]["code"], "not_found"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_StoppedLoop(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, worldloop.ErrStopped)

	if got, want := ctx.Response.StatusCode(), consts.StatusServiceUnavailable; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, errors.New("pq: connection refused"))

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["error"]["message"], "internal error"; got != want {
		t.Fatalf("message mismatch: got=%q want=%q", got, want)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI_OK(t *testing.T) {
	h := Handler{KPI: fakeKPI{"save_total": 3}}
	ctx := &app.RequestContext{}
	h.kpi(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["save_total"], float64(3); got != want {
		t.Fatalf("save_total mismatch: got=%v want=%v", got, want)
	}
}

func TestSave_OK(t *testing.T) {
	loop := &fakeLoop{w: world.New(world.NewRegistry())}
	ctx := &app.RequestContext{}
	Handler{Loop: loop}.save(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if loop.saves != 1 {
		t.Fatalf("expected one save, got %d", loop.saves)
	}
}

func TestSave_Failure(t *testing.T) {
	loop := &fakeLoop{w: world.New(world.NewRegistry()), saveErr: errors.New("disk full")}
	ctx := &app.RequestContext{}
	Handler{Loop: loop}.save(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestDecay_ReportsSteps(t *testing.T) {
	loop := &fakeLoop{w: world.New(world.NewRegistry()), stepped: 4}
	ctx := &app.RequestContext{}
	Handler{Loop: loop}.decay(context.Background(), ctx)

	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["stepped"], float64(4); got != want {
		t.Fatalf("stepped mismatch: got=%v want=%v", got, want)
	}
}

func TestLoad_RunsHouseInfoOnLoop(t *testing.T) {
	w := world.New(world.NewRegistry())
	loader := &fakeHouseInfo{}
	ctx := &app.RequestContext{}
	Handler{Loop: &fakeLoop{w: w}, HouseInfo: loader}.load(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if loader.world != w {
		t.Fatalf("expected loader to receive the loop world")
	}
}

func TestHouse_RejectsBadID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1", "99999999999"} {
		ctx := &app.RequestContext{}
		ctx.Params = param.Params{{Key: "id", Value: raw}}
		Handler{Loop: &fakeLoop{w: world.New(world.NewRegistry())}}.house(context.Background(), ctx)

		if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
			t.Fatalf("id %q: status mismatch: got=%d want=%d", raw, got, want)
		}
	}
}

func TestHouse_NotFound(t *testing.T) {
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "5"}}
	Handler{Loop: &fakeLoop{w: world.New(world.NewRegistry())}}.house(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestHouse_Describes(t *testing.T) {
	reg := world.NewRegistry(
		world.ItemType{ID: 1209, Group: world.GroupDoor, ForceSerialize: true},
		world.ItemType{ID: 200, Movable: true},
	)
	w := world.New(reg)
	h := world.NewHouse(5)
	h.Name = "Harbour Flat"
	h.Rent = 1500
	if err := w.AddHouse(h); err != nil {
		t.Fatalf("add house: %v", err)
	}
	tile, err := w.AddTile(world.Position{X: 1000, Y: 1000, Z: 7})
	if err != nil {
		t.Fatalf("add tile: %v", err)
	}
	h.AddTile(tile)
	door := w.CreateItem(tile, 1209)
	d, _ := door.Door()
	d.DoorID = 2
	h.AddDoor(door)
	w.CreateItem(tile, 200)
	h.SetOwner(42)
	h.SetAccessList(world.GuestList, "Eryn")
	h.SetAccessList(2, "Bob")

	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "5"}}
	Handler{Loop: &fakeLoop{w: w}}.house(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body houseResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Owner != 42 || body.Name != "Harbour Flat" || body.Size != 1 || body.Doors != 1 || body.Items != 2 {
		t.Fatalf("unexpected house body: %+v", body)
	}
	if body.AccessLists["guests"] != "Eryn" || body.AccessLists["door_2"] != "Bob" {
		t.Fatalf("unexpected access lists: %+v", body.AccessLists)
	}
}

func TestHouse_ReportsPendingOwner(t *testing.T) {
	w := world.New(world.NewRegistry())
	for _, id := range []uint32{5, 6, 7} {
		if err := w.AddHouse(world.NewHouse(id)); err != nil {
			t.Fatalf("add house %d: %v", id, err)
		}
	}
	houses := fakeHouses{
		5: {ID: 5, Owner: 42, NewOwner: 77},
		6: {ID: 6, Owner: 42, NewOwner: ports.NoPendingOwner},
	}
	cases := []struct {
		id   string
		want *int32
	}{
		{id: "5", want: ptrInt32(77)},
		{id: "6"},
		{id: "7"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		ctx.Params = param.Params{{Key: "id", Value: tc.id}}
		Handler{Loop: &fakeLoop{w: w}, Houses: houses}.house(context.Background(), ctx)

		if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
			t.Fatalf("house %s: status mismatch: got=%d want=%d", tc.id, got, want)
		}
		var body houseResponse
		if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		switch {
		case tc.want == nil && body.NewOwner != nil:
			t.Fatalf("house %s: unexpected new owner %d", tc.id, *body.NewOwner)
		case tc.want != nil && (body.NewOwner == nil || *body.NewOwner != *tc.want):
			t.Fatalf("house %s: new owner mismatch: got=%v want=%d", tc.id, body.NewOwner, *tc.want)
		}
	}
}

func TestHouse_StoreFailure(t *testing.T) {
	w := world.New(world.NewRegistry())
	if err := w.AddHouse(world.NewHouse(5)); err != nil {
		t.Fatalf("add house: %v", err)
	}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "5"}}
	Handler{Loop: &fakeLoop{w: w}, Houses: failingHouses{}}.house(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func ptrInt32(v int32) *int32 { return &v }

type fakeHouses map[uint32]ports.HouseRecord

func (f fakeHouses) Get(_ context.Context, id uint32) (ports.HouseRecord, error) {
	rec, ok := f[id]
	if !ok {
		return ports.HouseRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

type failingHouses struct{}

func (failingHouses) Get(context.Context, uint32) (ports.HouseRecord, error) {
	return ports.HouseRecord{}, errors.New("connection reset")
}

type fakeKPI map[string]any

func (k fakeKPI) SnapshotAny() any { return map[string]any(k) }

type fakeLoop struct {
	w       *world.World
	saves   int
	saveErr error
	stepped int
}

func (l *fakeLoop) Submit(_ context.Context, fn func(w *world.World) error) error {
	return fn(l.w)
}

func (l *fakeLoop) Save(_ context.Context) error {
	l.saves++
	return l.saveErr
}

func (l *fakeLoop) Decay(_ context.Context) (int, error) {
	return l.stepped, nil
}

type fakeHouseInfo struct {
	world *world.World
}

func (f *fakeHouseInfo) LoadHouseInfo(_ context.Context, w *world.World) error {
	f.world = w
	return nil
}
