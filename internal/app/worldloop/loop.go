// Package worldloop runs the single goroutine that owns a world: decay
// sweeps, periodic house saves and jobs submitted from other goroutines all
// execute on it in order.
package worldloop

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"mapstate/internal/app/ports"
	"mapstate/internal/domain/world"
)

var ErrStopped = errors.New("world loop stopped")

// Sweeper steps every decay bucket due at now.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Saver persists the house state of a world.
type Saver interface {
	SaveHouses(ctx context.Context, w *world.World) error
}

type Config struct {
	// DecayInterval and SaveInterval disable their ticker when zero.
	DecayInterval time.Duration
	SaveInterval  time.Duration
	// ShutdownSaveTimeout bounds the save made when the loop exits.
	ShutdownSaveTimeout time.Duration
}

type job struct {
	fn   func(w *world.World) error
	resp chan error
}

type Loop struct {
	world   *world.World
	decay   Sweeper
	saver   Saver
	metrics ports.PersistMetrics
	logger  *log.Logger
	now     func() time.Time
	cfg     Config

	jobs     chan job
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type Options struct {
	Decay   Sweeper
	Saver   Saver
	Metrics ports.PersistMetrics
	Logger  *log.Logger
	Now     func() time.Time
}

func New(w *world.World, cfg Config, opts Options) *Loop {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if cfg.ShutdownSaveTimeout <= 0 {
		cfg.ShutdownSaveTimeout = 30 * time.Second
	}
	return &Loop{
		world:   w,
		decay:   opts.Decay,
		saver:   opts.Saver,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		now:     opts.Now,
		cfg:     cfg,
		jobs:    make(chan job),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run blocks until ctx is done or Stop is called, then saves the houses
// one last time.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	decayC := tickerC(l.cfg.DecayInterval)
	saveC := tickerC(l.cfg.SaveInterval)
	defer decayC.stop()
	defer saveC.stop()

	var exitErr error
loop:
	for {
		select {
		case <-ctx.Done():
			exitErr = ctx.Err()
			break loop
		case <-l.stop:
			break loop
		case j := <-l.jobs:
			j.resp <- j.fn(l.world)
		case <-decayC.c:
			l.sweep()
		case <-saveC.c:
			if err := l.save(ctx); err != nil {
				l.logger.Printf("periodic house save failed: %v", err)
			}
		}
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.cfg.ShutdownSaveTimeout)
	defer cancel()
	if err := l.save(saveCtx); err != nil {
		l.logger.Printf("shutdown house save failed: %v", err)
		return errors.Join(exitErr, err)
	}
	return exitErr
}

// Stop ends Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Submit runs fn on the loop goroutine and returns its error. It may be
// called from any goroutine.
func (l *Loop) Submit(ctx context.Context, fn func(w *world.World) error) error {
	j := job{fn: fn, resp: make(chan error, 1)}
	select {
	case l.jobs <- j:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// the job is already running, so wait for it even if ctx ends
	return <-j.resp
}

// Save runs a house save on the loop.
func (l *Loop) Save(ctx context.Context) error {
	return l.Submit(ctx, func(*world.World) error { return l.save(ctx) })
}

// Decay runs a decay sweep on the loop and reports how many items stepped.
func (l *Loop) Decay(ctx context.Context) (int, error) {
	var n int
	err := l.Submit(ctx, func(*world.World) error {
		n = l.sweep()
		return nil
	})
	return n, err
}

func (l *Loop) sweep() int {
	if l.decay == nil {
		return 0
	}
	n := l.decay.Sweep(l.now())
	if n > 0 && l.metrics != nil {
		l.metrics.RecordDecaySteps(n)
	}
	return n
}

func (l *Loop) save(ctx context.Context) error {
	if l.saver == nil {
		return nil
	}
	return l.saver.SaveHouses(ctx, l.world)
}

type optionalTicker struct {
	t *time.Ticker
	c <-chan time.Time
}

// tickerC returns a nil channel when d is not positive, so its select case
// never fires.
func tickerC(d time.Duration) optionalTicker {
	if d <= 0 {
		return optionalTicker{}
	}
	t := time.NewTicker(d)
	return optionalTicker{t: t, c: t.C}
}

func (o optionalTicker) stop() {
	if o.t != nil {
		o.t.Stop()
	}
}
