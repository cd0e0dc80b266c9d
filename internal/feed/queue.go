package feed

import (
	"context"
	"encoding/json"

	"github.com/hazelbrew/cafe-orderflow/internal/awsx"
	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// QueueAppender defers appends to the feed writer: the submission goes to
// SQS and the feedwriter binary applies it. Delivery is at-least-once; the
// submission id makes the eventual append idempotent.
type QueueAppender struct {
	pub *awsx.Publisher
}

// NewQueueAppender returns an Appender publishing to the given queue.
func NewQueueAppender(pub *awsx.Publisher) *QueueAppender {
	return &QueueAppender{pub: pub}
}

func (a *QueueAppender) Append(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return &orders.TransportError{Op: "encode submission", Err: err}
	}

	attrs := map[string]string{
		"submission_id": sub.ID,
		"order_id":      sub.Order.ID,
	}
	if err := a.pub.Send(ctx, string(body), attrs); err != nil {
		return &orders.TransportError{Op: "enqueue submission", Err: err}
	}
	return nil
}
