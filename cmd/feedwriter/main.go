package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hazelbrew/cafe-orderflow/internal/awsx"
	"github.com/hazelbrew/cafe-orderflow/internal/config"
	"github.com/hazelbrew/cafe-orderflow/internal/feed"
	"github.com/hazelbrew/cafe-orderflow/pkg/logger"
)

func main() {
	cfgFile := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	clients, err := awsx.NewClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	target := feed.NewDynamoFeed(clients.DynamoDB, cfg.FeedTable, cfg.SubmissionsTable, cfg.SubmissionTTL)
	p := NewProcessor(target, lg)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"submissionId":"local-sub-1","order":{"id":"local-order-1","customerId":"local-customer","customerName":"Ana","drinkName":"Latte","seatingLocation":"Table 1","orderStatus":"New"}}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{Body: body}},
		}
		if err := p.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
