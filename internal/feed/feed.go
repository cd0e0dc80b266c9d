// Package feed implements the append-only order history backend: sources
// that return every historical row, appenders that add exactly one row, and
// the reconciliation that reduces history to one current order per id.
package feed

import (
	"context"
	"fmt"

	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// Row is one entry of the append-only history: an order snapshot plus its
// revision information. Rev is 0 when the source does not carry sequence
// numbers; the marker in Order.Current then decides which row is latest.
type Row struct {
	Order orders.Order `json:"order"`
	Rev   int64        `json:"rev,omitempty"`
}

// Submission is a requested append. ID makes appends idempotent under
// at-least-once delivery of the queued write path.
type Submission struct {
	ID    string       `json:"submissionId"`
	Order orders.Order `json:"order"`
}

// Source returns the full feed history. Every call re-reads everything:
// the feed is append-only and never mutated in place, so there is nothing
// to cache at this layer.
type Source interface {
	Fetch(ctx context.Context) ([]Row, error)
}

// Appender adds one row to the feed. There is no update and no delete;
// status changes and feedback are modeled as a new row that becomes the
// current revision for its order id.
type Appender interface {
	Append(ctx context.Context, sub Submission) error
}

// DataQualityError reports a feed whose revision markers are inconsistent:
// zero or more than one row marked current for one order id. The engine
// surfaces this instead of guessing.
type DataQualityError struct {
	OrderID string
	Marked  int
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("feed rows for order %s have %d current markers, want exactly 1", e.OrderID, e.Marked)
}
