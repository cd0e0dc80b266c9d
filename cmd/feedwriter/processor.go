package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hazelbrew/cafe-orderflow/internal/feed"
)

// Processor drains queued submissions into the feed. The feed's Append
// swallows duplicate submission ids, so redelivered messages are harmless.
type Processor struct {
	target feed.Appender
	log    *slog.Logger
}

func NewProcessor(target feed.Appender, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{target: target, log: log}
}

// Handle receives an SQS batch event and applies each submission.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.log.Info("received sqs batch", "messages", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.log.Error("feedwriter error", "error", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var sub feed.Submission
	if err := json.Unmarshal([]byte(rec.Body), &sub); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if sub.ID == "" || sub.Order.ID == "" {
		return fmt.Errorf("submission missing ids: %q", rec.Body)
	}

	if err := p.target.Append(ctx, sub); err != nil {
		return fmt.Errorf("append submission %s: %w", sub.ID, err)
	}

	p.log.Info("applied submission",
		"submission_id", sub.ID,
		"order_id", sub.Order.ID,
		"status", sub.Order.Status)
	return nil
}
