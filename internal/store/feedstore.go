package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hazelbrew/cafe-orderflow/internal/feed"
	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// FeedStore is the feed-backed OrderStore. Writes append a row through the
// configured write path and mutate the local cache in place; the global
// view comes from reconciling the full feed on every read. The customer
// view (cache) and the staff view (feed) may transiently disagree until the
// feed writer has processed a submission.
type FeedStore struct {
	src     feed.Source
	app     feed.Appender
	cache   *Cache
	log     *slog.Logger
	nowFunc func() time.Time
	newID   func() string

	mu        sync.Mutex
	lastKnown []orders.Order
}

// NewFeedStore wires a feed source, an appender and the local cache.
func NewFeedStore(src feed.Source, app feed.Appender, cache *Cache, log *slog.Logger) *FeedStore {
	if log == nil {
		log = slog.Default()
	}
	return &FeedStore{
		src:     src,
		app:     app,
		cache:   cache,
		log:     log,
		nowFunc: time.Now,
		newID:   uuid.NewString,
	}
}

func (s *FeedStore) Create(ctx context.Context, draft orders.Draft, customerID string) (orders.Order, error) {
	o, err := orders.New(draft, s.newID(), customerID, s.nowFunc())
	if err != nil {
		return orders.Order{}, err
	}

	// feed first: a failed append must leave no trace in the cached view,
	// or a retried create would sit next to an orphan entry forever
	if err := s.app.Append(ctx, feed.Submission{ID: s.newID(), Order: o}); err != nil {
		return orders.Order{}, err
	}
	if err := s.cache.Append(o); err != nil {
		return orders.Order{}, err
	}
	return o, nil
}

// ListAll fetches and reconciles the full feed. On a transport failure it
// degrades to the last successfully reconciled snapshot (or an empty list)
// instead of failing the read; data-quality errors are always surfaced.
func (s *FeedStore) ListAll(ctx context.Context) ([]orders.Order, error) {
	rows, err := s.src.Fetch(ctx)
	if err != nil {
		var te *orders.TransportError
		if errors.As(err, &te) {
			s.mu.Lock()
			snap := make([]orders.Order, len(s.lastKnown))
			copy(snap, s.lastKnown)
			s.mu.Unlock()
			s.log.Warn("feed fetch failed, serving last-known view", "error", err, "orders", len(snap))
			return snap, nil
		}
		return nil, err
	}

	list, err := feed.Reconcile(rows)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastKnown = list
	s.mu.Unlock()
	return list, nil
}

// ListByCustomer serves the customer's private view from the local cache.
func (s *FeedStore) ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error) {
	list, err := s.cache.List()
	if err != nil {
		return nil, err
	}
	var out []orders.Order
	for _, o := range list {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *FeedStore) UpdateStatus(ctx context.Context, orderID, newStatus string, actor orders.Actor) (orders.Order, error) {
	current, err := s.lookup(ctx, orderID)
	if err != nil {
		return orders.Order{}, err
	}

	updated, err := orders.Transition(current, newStatus, actor, s.nowFunc())
	if err != nil {
		return orders.Order{}, err
	}
	if updated.Status == current.Status {
		// same-state no-op: no cache write, no submission
		return current, nil
	}

	// feed first: if the append fails the cache stays at the old status,
	// so a retry re-runs the transition instead of no-opping on a cache
	// entry the feed never saw
	if err := s.app.Append(ctx, feed.Submission{ID: s.newID(), Order: stripMarker(updated)}); err != nil {
		return orders.Order{}, err
	}
	if err := s.cache.Replace(updated); err != nil {
		return orders.Order{}, err
	}
	return updated, nil
}

// AttachFeedback re-submits the order's full current snapshot with the
// feedback fields added: the feed is append-only, so there is no partial
// update to lean on.
func (s *FeedStore) AttachFeedback(ctx context.Context, orderID string, rating int, comment string) error {
	current, err := s.lookup(ctx, orderID)
	if err != nil {
		return err
	}

	updated, err := orders.AttachFeedback(current, rating, comment, s.nowFunc())
	if err != nil {
		return err
	}

	// feed first: a failed append must not mark the cached entry as rated,
	// or the retry would be rejected as duplicate feedback
	if err := s.app.Append(ctx, feed.Submission{ID: s.newID(), Order: stripMarker(updated)}); err != nil {
		return err
	}
	return s.cache.Replace(updated)
}

// lookup finds the current view of an order: the local cache first (it may
// be ahead of the feed for this session's orders), then the reconciled
// feed.
func (s *FeedStore) lookup(ctx context.Context, orderID string) (orders.Order, error) {
	if o, ok, err := s.cache.Get(orderID); err != nil {
		return orders.Order{}, err
	} else if ok {
		return o, nil
	}

	list, err := s.ListAll(ctx)
	if err != nil {
		return orders.Order{}, err
	}
	for _, o := range list {
		if o.ID == orderID {
			return o, nil
		}
	}
	return orders.Order{}, orders.ErrNotFound
}

// stripMarker clears the revision marker before submission: marking the new
// row current is the feed writer's job.
func stripMarker(o orders.Order) orders.Order {
	o.Current = ""
	return o
}
