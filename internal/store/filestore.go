package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// FileStore is the server-authoritative backend: one shared JSON document
// holding every order, rewritten whole on each change. The mutex serializes
// writers within this process; across processes the document keeps the
// original last-write-wins behavior.
type FileStore struct {
	path    string
	mu      sync.Mutex
	nowFunc func() time.Time
	newID   func() string
}

// NewFileStore returns a store over the given document path, creating an
// empty document if none exists.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		nowFunc: time.Now,
		newID:   uuid.NewString,
	}
	list, err := readOrderFile(path)
	if err != nil {
		return nil, &orders.TransportError{Op: "open order document", Err: err}
	}
	if list == nil {
		if err := writeOrderFile(path, nil); err != nil {
			return nil, &orders.TransportError{Op: "init order document", Err: err}
		}
	}
	return s, nil
}

func (s *FileStore) Create(ctx context.Context, draft orders.Draft, customerID string) (orders.Order, error) {
	o, err := orders.New(draft, s.newID(), customerID, s.nowFunc())
	if err != nil {
		return orders.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := readOrderFile(s.path)
	if err != nil {
		return orders.Order{}, &orders.TransportError{Op: "read order document", Err: err}
	}
	list = append(list, o)
	if err := writeOrderFile(s.path, list); err != nil {
		return orders.Order{}, &orders.TransportError{Op: "write order document", Err: err}
	}
	return o, nil
}

func (s *FileStore) ListAll(ctx context.Context) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := readOrderFile(s.path)
	if err != nil {
		return nil, &orders.TransportError{Op: "read order document", Err: err}
	}
	return list, nil
}

func (s *FileStore) ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error) {
	list, err := s.ListAll(ctx)
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

func (s *FileStore) UpdateStatus(ctx context.Context, orderID, newStatus string, actor orders.Actor) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := readOrderFile(s.path)
	if err != nil {
		return orders.Order{}, &orders.TransportError{Op: "read order document", Err: err}
	}

	idx := -1
	for i := range list {
		if list[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return orders.Order{}, orders.ErrNotFound
	}

	updated, err := orders.Transition(list[idx], newStatus, actor, s.nowFunc())
	if err != nil {
		return orders.Order{}, err
	}
	if updated.Status == list[idx].Status {
		// same-state no-op: nothing to persist
		return list[idx], nil
	}

	list[idx] = updated
	if err := writeOrderFile(s.path, list); err != nil {
		return orders.Order{}, &orders.TransportError{Op: "write order document", Err: err}
	}
	return updated, nil
}

func (s *FileStore) AttachFeedback(ctx context.Context, orderID string, rating int, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := readOrderFile(s.path)
	if err != nil {
		return &orders.TransportError{Op: "read order document", Err: err}
	}

	idx := -1
	for i := range list {
		if list[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return orders.ErrNotFound
	}

	updated, err := orders.AttachFeedback(list[idx], rating, comment, s.nowFunc())
	if err != nil {
		return err
	}

	list[idx] = updated
	if err := writeOrderFile(s.path, list); err != nil {
		return &orders.TransportError{Op: "write order document", Err: err}
	}
	return nil
}
