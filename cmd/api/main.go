package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/hazelbrew/cafe-orderflow/internal/awsx"
	"github.com/hazelbrew/cafe-orderflow/internal/catalog"
	"github.com/hazelbrew/cafe-orderflow/internal/config"
	"github.com/hazelbrew/cafe-orderflow/internal/feed"
	"github.com/hazelbrew/cafe-orderflow/internal/gviz"
	"github.com/hazelbrew/cafe-orderflow/internal/handlers"
	"github.com/hazelbrew/cafe-orderflow/internal/identity"
	"github.com/hazelbrew/cafe-orderflow/internal/store"
	"github.com/hazelbrew/cafe-orderflow/pkg/logger"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrdersRoutes(r, cfg)

	return r
}

// buildStore wires the configured backend behind the OrderStore interface.
func buildStore(ctx context.Context, cfg *config.Config, lg *slog.Logger) (store.OrderStore, error) {
	if cfg.Backend == "file" {
		fs, err := store.NewFileStore(cfg.OrdersFile)
		if err != nil {
			return nil, err
		}
		return store.WithSingleFlight(fs), nil
	}

	cache := store.NewCache(cfg.CacheFile)

	var (
		src feed.Source
		app feed.Appender
	)
	switch cfg.FeedKind {
	case "gviz":
		src = feed.NewGvizSource(gviz.NewClient(nil), cfg.FeedURL)
		app = feed.NewFormAppender(nil, cfg.FormURL)
	case "dynamo":
		clients, err := awsx.NewClients(ctx)
		if err != nil {
			return nil, err
		}
		dyn := feed.NewDynamoFeed(clients.DynamoDB, cfg.FeedTable, cfg.SubmissionsTable, cfg.SubmissionTTL)
		src = dyn
		if cfg.UseQueue {
			app = feed.NewQueueAppender(awsx.NewPublisher(clients.SQS, cfg.QueueURL))
		} else {
			app = dyn
		}
	}

	fs := store.NewFeedStore(src, app, cache, lg)
	return store.WithSingleFlight(fs), nil
}

func main() {
	cfgFile := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	orderStore, err := buildStore(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("failed to build order store: %v", err)
	}

	hcfg := handlers.HandlerConfig{
		Store:    orderStore,
		Identity: identity.NewProvider(),
		Log:      lg,
	}
	if cfg.MenuURL != "" && cfg.ToppingsURL != "" {
		hcfg.Catalog = catalog.New(gviz.NewClient(nil), cfg.MenuURL, cfg.ToppingsURL)
	}

	r := setupRouter(hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		lg.Info("running local server", "addr", cfg.Addr, "backend", cfg.Backend)
		if err := r.Run(cfg.Addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
