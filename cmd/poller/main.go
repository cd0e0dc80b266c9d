package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazelbrew/cafe-orderflow/internal/awsx"
	"github.com/hazelbrew/cafe-orderflow/internal/config"
	"github.com/hazelbrew/cafe-orderflow/internal/feed"
	"github.com/hazelbrew/cafe-orderflow/internal/gviz"
	"github.com/hazelbrew/cafe-orderflow/internal/metrics"
	"github.com/hazelbrew/cafe-orderflow/internal/store"
	"github.com/hazelbrew/cafe-orderflow/pkg/logger"
)

// The poller periodically reconciles the feed and reports order counts,
// to the log always and to CloudWatch when metrics are enabled. It runs
// beside the API on the staff cadence so dashboards stay warm even when
// no staff screen is open.
func main() {
	cfgFile := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Backend != "feed" {
		log.Fatalf("poller requires the feed backend, got %q", cfg.Backend)
	}
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		src     feed.Source
		emitter *metrics.Emitter
	)
	switch cfg.FeedKind {
	case "gviz":
		src = feed.NewGvizSource(gviz.NewClient(nil), cfg.FeedURL)
	case "dynamo":
		clients, err := awsx.NewClients(ctx)
		if err != nil {
			log.Fatalf("failed to init aws clients: %v", err)
		}
		src = feed.NewDynamoFeed(clients.DynamoDB, cfg.FeedTable, cfg.SubmissionsTable, cfg.SubmissionTTL)
		if cfg.MetricsEnabled {
			emitter = metrics.NewEmitter(clients.CloudWatch, cfg.MetricsNamespace)
		}
	}

	if cfg.MetricsEnabled && emitter == nil {
		clients, err := awsx.NewClients(ctx)
		if err != nil {
			log.Fatalf("failed to init aws clients: %v", err)
		}
		emitter = metrics.NewEmitter(clients.CloudWatch, cfg.MetricsNamespace)
	}

	lg.Info("poller starting", "interval", cfg.StaffPollInterval, "feed", cfg.FeedKind)

	ticker := time.NewTicker(cfg.StaffPollInterval)
	defer ticker.Stop()

	for {
		poll(ctx, src, emitter, lg)

		select {
		case <-ctx.Done():
			lg.Info("poller stopping")
			return
		case <-ticker.C:
		}
	}
}

func poll(ctx context.Context, src feed.Source, emitter *metrics.Emitter, lg *slog.Logger) {
	rows, err := src.Fetch(ctx)
	if err != nil {
		lg.Warn("feed fetch failed", "error", err)
		return
	}

	list, err := feed.Reconcile(rows)
	if err != nil {
		lg.Error("feed reconcile failed", "error", err)
		return
	}

	stats := store.ComputeStats(list)
	lg.Info("order counts",
		"total", stats.Total,
		"new", stats.New,
		"brewing", stats.Brewing,
		"completed", stats.Completed,
		"cancelled", stats.Cancelled)

	if emitter != nil {
		if err := emitter.Publish(ctx, stats); err != nil {
			lg.Warn("metrics publish failed", "error", err)
		}
	}
}
