// Package daemon assembles the serve mode: tracker, HTTP API, metrics,
// scheduled backups, config watching, and the optional NATS mirror.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/huntboard/internal/api"
	"git.home.luguber.info/inful/huntboard/internal/config"
	"git.home.luguber.info/inful/huntboard/internal/events"
	"git.home.luguber.info/inful/huntboard/internal/metrics"
	"git.home.luguber.info/inful/huntboard/internal/photo"
	"git.home.luguber.info/inful/huntboard/internal/state"
	"git.home.luguber.info/inful/huntboard/internal/storage"
	"git.home.luguber.info/inful/huntboard/internal/submit"
)

// Daemon runs the huntboard service.
type Daemon struct {
	cfg        *config.Config
	configPath string
	logLevel   *slog.LevelVar

	store     storage.KVStore
	bus       *events.Bus
	tracker   *state.Tracker
	server    *api.Server
	scheduler *Scheduler
	natsPub   *events.NATSPublisher
	watcher   *config.Watcher
}

// OpenStore creates the configured key-value backend.
func OpenStore(cfg config.StorageConfig) (storage.KVStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Path)
	default:
		return storage.NewFSStore(cfg.Path)
	}
}

// New wires the daemon from configuration. configPath enables config
// watching; logLevel (may be nil) is adjusted on config reload.
func New(cfg *config.Config, configPath string, logLevel *slog.LevelVar) (*Daemon, error) {
	store, err := OpenStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage backend: %w", err)
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	bus := events.NewBus()

	tracker := state.NewTracker(
		store,
		submit.NewHTTPSubmitter(cfg.Submission.Endpoint, nil),
		state.WithBus(bus),
		state.WithRecorder(recorder),
		state.WithEncoder(photo.NewEncoder(cfg.Photo.Quality)),
	)

	server := api.NewServer(cfg.Server.Addr, tracker, bus,
		api.WithRecorder(recorder),
		api.WithMetricsHandler(metrics.HTTPHandler(registry)),
	)

	scheduler, err := NewScheduler()
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		configPath: configPath,
		logLevel:   logLevel,
		store:      store,
		bus:        bus,
		tracker:    tracker,
		server:     server,
		scheduler:  scheduler,
	}, nil
}

// Start runs the daemon until ctx is cancelled or the HTTP server fails.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.tracker.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize hunt state: %w", err)
	}

	if d.cfg.NATS.Enabled {
		pub, err := events.NewNATSPublisher(d.cfg.NATS)
		if err != nil {
			return fmt.Errorf("start NATS mirror: %w", err)
		}
		d.natsPub = pub
		go pub.Run(ctx, d.bus)
	}

	if d.cfg.Backup.Enabled {
		keep := d.cfg.Backup.Keep
		_, err := d.scheduler.ScheduleBackup(d.cfg.Backup.Interval, func() {
			backupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if key, err := d.tracker.Backup(backupCtx, keep); err != nil {
				slog.Error("State backup failed", "error", err)
			} else {
				slog.Debug("State backup written", "key", key)
			}
		})
		if err != nil {
			return err
		}
		d.scheduler.Start(ctx)
	}

	if d.configPath != "" {
		watcher, err := config.NewWatcher(d.configPath, d.applyReload)
		if err != nil {
			slog.Warn("Config watching disabled", "error", err)
		} else {
			d.watcher = watcher
			if err := watcher.Start(ctx); err != nil {
				slog.Warn("Config watching disabled", "error", err)
			}
		}
	}

	slog.Info("Huntboard serving", "addr", d.server.Addr,
		"backend", d.cfg.Storage.Backend, "items", d.tracker.Total())

	errChan := make(chan error, 1)
	go func() {
		if err := d.server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// applyReload hot-applies the reloadable subset of the configuration.
// Storage backend and listen address changes need a restart.
func (d *Daemon) applyReload(cfg *config.Config) {
	if d.logLevel != nil {
		d.logLevel.Set(config.ParseLogLevel(cfg.Logging.Level))
		slog.Info("Log level applied from config", "level", cfg.Logging.Level)
	}
	if cfg.Server.Addr != d.cfg.Server.Addr || cfg.Storage != d.cfg.Storage {
		slog.Warn("Address/storage changes require a restart to take effect")
	}
}

// Stop shuts the daemon down gracefully.
func (d *Daemon) Stop(ctx context.Context) error {
	if d.watcher != nil {
		_ = d.watcher.Close()
	}
	if err := d.scheduler.Stop(ctx); err != nil {
		slog.Error("Scheduler shutdown failed", "error", err)
	}
	if d.natsPub != nil {
		d.natsPub.Close()
	}
	if err := d.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return d.store.Close()
}
