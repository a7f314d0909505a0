package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/seology-ai/eventgate/internal/archive"
	corecfg "github.com/seology-ai/eventgate/internal/core/config"
	"github.com/seology-ai/eventgate/internal/core/storage"
	"github.com/seology-ai/eventgate/internal/core/storage/memory"
	"github.com/seology-ai/eventgate/internal/core/storage/postgres"
	"github.com/seology-ai/eventgate/internal/events"
	"github.com/seology-ai/eventgate/internal/gate"
	"github.com/seology-ai/eventgate/internal/migrations"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg       *corecfg.Config
	db        *sql.DB // nil for the in-memory ledger
	ledger    storage.EventLedger
	publisher events.Publisher
	gate      *gate.Service
	closers   []func() error
}

// loadConfig reads the config file. The default path is optional;
// an explicitly passed one must exist.
func loadConfig(cmdConfigChanged bool) (*corecfg.Config, error) {
	path := configPath
	if !cmdConfigChanged {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			slog.Info("No config file found, using defaults and environment", "path", path)
			path = ""
		}
	}
	return corecfg.Load(path)
}

// newApp opens the ledger and builds the gate. withEvents connects the
// publisher; withArchive configures the S3 archiver for sweeps.
func newApp(ctx context.Context, cfg *corecfg.Config, withEvents, withArchive bool) (*app, error) {
	a := &app{cfg: cfg, publisher: &events.NoopPublisher{}}

	if err := a.openLedger(); err != nil {
		a.Close()
		return nil, err
	}

	if withEvents && cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.publisher = pub
		a.closers = append(a.closers, pub.Close)
	}

	a.gate = gate.NewService(a.ledger, a.publisher, gate.Options{
		Retention:       cfg.Ledger.Retention,
		SweepBatchSize:  cfg.Ledger.SweepBatchSize,
		ActivityLimit:   cfg.Ledger.ActivityLimit,
		InFlightTimeout: cfg.Ledger.InFlightTimeout,
	})

	if withArchive && cfg.Archive.Enabled {
		archiver, err := archive.NewS3Archiver(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix, cfg.Archive.Region, cfg.Archive.Endpoint)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to configure archive: %w", err)
		}
		a.gate.WithArchiver(archiver)
	}

	return a, nil
}

func (a *app) openLedger() error {
	if a.cfg.Database.Type == "memory" {
		slog.Warn("Using in-memory ledger; records are lost on restart")
		a.ledger = memory.NewLedger()
		return nil
	}

	db, err := postgres.Open(a.cfg.Database.DSN, a.cfg.Database.MaxOpenConns, a.cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := migrations.RunMigrations(db, a.cfg.Database.AutoMigrate); err != nil {
		db.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	adapter, err := postgres.NewLedgerAdapterFromDB(db)
	if err != nil {
		db.Close()
		return err
	}

	a.db = db
	a.ledger = adapter
	a.closers = append(a.closers, adapter.Close)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}
