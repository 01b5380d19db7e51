package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mapstate/internal/adapter/catalog"
	httpadapter "mapstate/internal/adapter/http"
	metricsinmem "mapstate/internal/adapter/metrics/inmemory"
	"mapstate/internal/adapter/repo"
	"mapstate/internal/app/mapserialize"
	"mapstate/internal/app/worldloop"
	"mapstate/internal/domain/decay"
	"mapstate/internal/domain/world"
	"mapstate/internal/platform/config"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"
)

type serverConfig struct {
	config.Store

	ItemsFile         string        `env:"MAPSTATE_ITEMS_FILE" envDefault:"./data/items.yaml"`
	HousesFile        string        `env:"MAPSTATE_HOUSES_FILE" envDefault:"./data/houses.yaml"`
	TransferOnRestart bool          `env:"MAPSTATE_HOUSE_TRANSFER_ON_RESTART" envDefault:"false"`
	DecayInterval     time.Duration `env:"MAPSTATE_DECAY_INTERVAL" envDefault:"1s"`
	SaveInterval      time.Duration `env:"MAPSTATE_SAVE_INTERVAL" envDefault:"10m"`
	HTTPAddr          string        `env:"MAPSTATE_HTTP_ADDR" envDefault:":8080"`
	CORSOrigin        string        `env:"MAPSTATE_CORS_ORIGIN"`
}

func loadConfig() (serverConfig, error) {
	var cfg serverConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Store.Validate()
}

func main() {
	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := log.Default()
	ctx := context.Background()

	backend, err := repo.Open(ctx, cfg.Store, logger)
	if err != nil {
		log.Fatalf("open house store: %v (driver=%s)", err, cfg.Driver)
	}
	defer backend.Close()

	w, scheduler, err := buildWorld(cfg)
	if err != nil {
		log.Fatalf("build world: %v", err)
	}

	kpiRecorder := metricsinmem.NewRecorder()
	persist := mapserialize.UseCase{
		TxManager:         backend.TxManager,
		TileStore:         backend.TileStore,
		Houses:            backend.Houses,
		HouseLists:        backend.HouseLists,
		Metrics:           kpiRecorder,
		Logger:            logger,
		Now:               time.Now,
		TransferOnRestart: cfg.TransferOnRestart,
	}
	if err := persist.LoadHouses(ctx, w); err != nil {
		log.Fatalf("load houses: %v", err)
	}

	loop := worldloop.New(w, worldloop.Config{
		DecayInterval: cfg.DecayInterval,
		SaveInterval:  cfg.SaveInterval,
	}, worldloop.Options{
		Decay:   scheduler,
		Saver:   persist,
		Metrics: kpiRecorder,
		Logger:  logger,
	})
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("world loop: %v", err)
		}
	}()

	h := httpadapter.Handler{
		Loop:      loop,
		HouseInfo: persist,
		Houses:    backend.Houses,
		KPI:       kpiRecorder,

		AllowOrigin: cfg.CORSOrigin,
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	s.OnShutdown = append(s.OnShutdown, func(context.Context) {
		loop.Stop()
		<-loop.Done()
	})
	h.RegisterRoutes(s)

	log.Printf("mapstate server listening on %s (store=%s, houses=%d, tiles=%d)", cfg.HTTPAddr, backend.Driver, len(w.Houses()), w.TileCount())
	s.Spin()
}

// buildWorld loads the item catalog and house layout and hooks the decay
// scheduler in before any item is placed.
func buildWorld(cfg serverConfig) (*world.World, *decay.Scheduler, error) {
	registry, err := catalog.LoadItems(cfg.ItemsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("items catalog: %w", err)
	}
	w := world.New(registry)
	scheduler := decay.NewScheduler(w, time.Now)
	w.SetDecayHook(scheduler)
	if err := catalog.LoadHouses(cfg.HousesFile, w); err != nil {
		return nil, nil, fmt.Errorf("house layout: %w", err)
	}
	return w, scheduler, nil
}
