// Package store is the persistence boundary for orders. Two backends
// implement OrderStore: a server-authoritative JSON document and a
// feed-backed store that reconciles append-only history against a local
// customer cache. Callers pick one at startup; nothing else in the system
// knows which is in use.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// OrderStore is the abstract persistence boundary.
type OrderStore interface {
	// Create assigns id and timestamp, persists the draft as a New order
	// bound to customerID, and returns the full order.
	Create(ctx context.Context, draft orders.Draft, customerID string) (orders.Order, error)

	// ListAll returns every order: the whole document, or the reconciled
	// latest-revision set for feed backends.
	ListAll(ctx context.Context) ([]orders.Order, error)

	// ListByCustomer returns the orders bound to customerID, in no
	// guaranteed order.
	ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error)

	// UpdateStatus runs the lifecycle transition for actor and persists
	// the result. A staff request for the current status is a no-op.
	UpdateStatus(ctx context.Context, orderID, newStatus string, actor orders.Actor) (orders.Order, error)

	// AttachFeedback persists a one-time rating and comment on a
	// delivered order.
	AttachFeedback(ctx context.Context, orderID string, rating int, comment string) error
}

// Stats are the dashboard counts. Completed counts Delivered orders.
type Stats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Brewing   int `json:"brewing"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// ComputeStats derives the counts from an order list.
func ComputeStats(list []orders.Order) Stats {
	s := Stats{Total: len(list)}
	for _, o := range list {
		switch o.Status {
		case orders.StatusNew:
			s.New++
		case orders.StatusBrewing:
			s.Brewing++
		case orders.StatusDelivered:
			s.Completed++
		case orders.StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

// readOrderFile loads a JSON order list, returning an empty list for a
// missing file.
func readOrderFile(path string) ([]orders.Order, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var list []orders.Order
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return list, nil
}

// writeOrderFile rewrites the whole document. Write-then-rename keeps a
// torn write from corrupting the list, but concurrent writers still race
// last-write-wins: that is the documented contract of the document store,
// not something fixed here.
func writeOrderFile(path string, list []orders.Order) error {
	if list == nil {
		list = []orders.Order{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
