package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/seology-ai/eventgate/internal/core/eventkey"
	"github.com/seology-ai/eventgate/internal/metrics"
	"github.com/seology-ai/eventgate/internal/server"
	"github.com/seology-ai/eventgate/internal/sweeper"
	"github.com/seology-ai/eventgate/internal/webhook"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook receiver, reporting API and ledger sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, true, true)
		if err != nil {
			return err
		}
		defer a.Close()

		webhookSvc := webhook.NewService(
			a.gate,
			eventkey.NewDeriver(cfg.Ledger.EventIDHeaders, cfg.Ledger.TimestampBucket),
			webhook.NewForwardingProcessor(a.publisher),
			webhook.Options{
				Secrets: map[webhook.Platform]string{
					webhook.PlatformShopify:   cfg.Webhooks.ShopifySecret,
					webhook.PlatformWordPress: cfg.Webhooks.WordPressSecret,
					webhook.PlatformCustom:    cfg.Webhooks.CustomSecret,
				},
				MaxBodySizeMB: cfg.Server.MaxBodySizeMB,
				StorePayload:  cfg.Ledger.StorePayload,
			},
		)

		var health server.HealthChecker
		if a.db != nil {
			health = a.db
		}
		srv := server.New(cfg.Server.Addr(), health, cfg.Server.Mode)
		webhookSvc.RegisterRoutes(srv.Engine)
		a.gate.RegisterRoutes(srv.Engine)

		if cfg.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics.Register(reg)
			srv.EnableMetrics(cfg.Metrics.Path, reg)
		}

		sw := sweeper.New(cfg.Ledger.SweepInterval, a.gate)

		slog.Info("Event gate starting",
			"address", cfg.Server.Addr(),
			"database", cfg.Database.Type,
			"retention", cfg.Ledger.Retention,
			"sweep_interval", cfg.Ledger.SweepInterval,
			"store_payload", cfg.Ledger.StorePayload,
			"nats", cfg.Events.NATSURL != "",
			"archive", cfg.Archive.Enabled,
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx)
		})
		g.Go(func() error {
			return sw.Start(gctx)
		})

		if err := g.Wait(); err != nil {
			slog.Error("Server stopped with error", "error", err)
			return err
		}

		slog.Info("Shutdown complete")
		return nil
	},
}
