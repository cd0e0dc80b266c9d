package store

import (
	"context"
	"fmt"

	"github.com/hazelbrew/cafe-orderflow/internal/orders"
	"golang.org/x/sync/singleflight"
)

// SingleFlightStore de-duplicates concurrent identical status updates: a
// double-clicked cancel becomes one store write instead of two racing ones.
// All other operations pass through unchanged.
type SingleFlightStore struct {
	OrderStore
	group singleflight.Group
}

// WithSingleFlight wraps a store with per-(order, target status) update
// de-duplication.
func WithSingleFlight(s OrderStore) *SingleFlightStore {
	return &SingleFlightStore{OrderStore: s}
}

func (s *SingleFlightStore) UpdateStatus(ctx context.Context, orderID, newStatus string, actor orders.Actor) (orders.Order, error) {
	key := fmt.Sprintf("%s|%s|%d", orderID, newStatus, actor)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.OrderStore.UpdateStatus(ctx, orderID, newStatus, actor)
	})
	if err != nil {
		return orders.Order{}, err
	}
	return v.(orders.Order), nil
}
