package worldloop

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"mapstate/internal/domain/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	steps int
	calls chan time.Time
}

func (s *fakeSweeper) Sweep(now time.Time) int {
	if s.calls != nil {
		select {
		case s.calls <- now:
		default:
		}
	}
	return s.steps
}

type fakeSaver struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (s *fakeSaver) SaveHouses(_ context.Context, _ *world.World) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return s.err
}

func (s *fakeSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type decayCounter struct {
	mu    sync.Mutex
	steps int
}

func (*decayCounter) RecordSave(string, int, time.Duration) {}

func (*decayCounter) RecordLoad(string, int, time.Duration) {}

func (*decayCounter) RecordDecodeFailure() {}

func (*decayCounter) RecordFailure() {}

func (d *decayCounter) RecordDecaySteps(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps += n
}

func startLoop(t *testing.T, l *Loop) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, errc
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSubmitRunsOnLoopAndReturnsError(t *testing.T) {
	w := world.New(world.NewRegistry())
	l := New(w, Config{}, Options{Logger: quietLogger()})
	startLoop(t, l)

	var seen *world.World
	require.NoError(t, l.Submit(context.Background(), func(got *world.World) error {
		seen = got
		return nil
	}))
	assert.Same(t, w, seen)

	boom := errors.New("boom")
	assert.ErrorIs(t, l.Submit(context.Background(), func(*world.World) error { return boom }), boom)
}

func TestDecayRecordsSteps(t *testing.T) {
	metrics := &decayCounter{}
	l := New(world.New(world.NewRegistry()), Config{}, Options{
		Decay:   &fakeSweeper{steps: 3},
		Metrics: metrics,
		Logger:  quietLogger(),
	})
	startLoop(t, l)

	n, err := l.Decay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, metrics.steps)
}

func TestDecayTickerSweeps(t *testing.T) {
	sweeper := &fakeSweeper{calls: make(chan time.Time, 1)}
	l := New(world.New(world.NewRegistry()), Config{DecayInterval: time.Millisecond}, Options{
		Decay:  sweeper,
		Logger: quietLogger(),
	})
	startLoop(t, l)

	select {
	case <-sweeper.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("decay ticker never swept")
	}
}

func TestStopSavesOnceMore(t *testing.T) {
	saver := &fakeSaver{}
	l := New(world.New(world.NewRegistry()), Config{}, Options{Saver: saver, Logger: quietLogger()})
	_, errc := startLoop(t, l)

	require.NoError(t, l.Save(context.Background()))
	assert.Equal(t, 1, saver.count())

	l.Stop()
	l.Stop()
	require.NoError(t, <-errc)
	assert.Equal(t, 2, saver.count())

	err := l.Submit(context.Background(), func(*world.World) error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestCancelReturnsContextErrorAndSaveFailure(t *testing.T) {
	saveErr := errors.New("store down")
	l := New(world.New(world.NewRegistry()), Config{}, Options{
		Saver:  &fakeSaver{err: saveErr},
		Logger: quietLogger(),
	})
	cancel, errc := startLoop(t, l)

	cancel()
	err := <-errc
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, saveErr)
	<-l.Done()
}
