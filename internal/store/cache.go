package store

import (
	"sync"

	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// Cache is the durable local order list of the feed backend: the customer's
// own view, appended on create and mutated in place on change. It is not
// merged with the feed automatically; until the feed writer has processed a
// submission the two views may disagree.
type Cache struct {
	path string
	mu   sync.Mutex
}

// NewCache returns a cache persisted at path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// List returns all cached orders.
func (c *Cache) List() ([]orders.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := readOrderFile(c.path)
	if err != nil {
		return nil, &orders.TransportError{Op: "read order cache", Err: err}
	}
	return list, nil
}

// Append adds a new order to the cache.
func (c *Cache) Append(o orders.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := readOrderFile(c.path)
	if err != nil {
		return &orders.TransportError{Op: "read order cache", Err: err}
	}
	list = append(list, o)
	if err := writeOrderFile(c.path, list); err != nil {
		return &orders.TransportError{Op: "write order cache", Err: err}
	}
	return nil
}

// Replace swaps the cached entry with the same id in place. Unknown ids are
// ignored: the cache only tracks orders this session created.
func (c *Cache) Replace(o orders.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := readOrderFile(c.path)
	if err != nil {
		return &orders.TransportError{Op: "read order cache", Err: err}
	}
	changed := false
	for i := range list {
		if list[i].ID == o.ID {
			list[i] = o
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}
	if err := writeOrderFile(c.path, list); err != nil {
		return &orders.TransportError{Op: "write order cache", Err: err}
	}
	return nil
}

// Get returns the cached order with the given id.
func (c *Cache) Get(id string) (orders.Order, bool, error) {
	list, err := c.List()
	if err != nil {
		return orders.Order{}, false, err
	}
	for _, o := range list {
		if o.ID == id {
			return o, true, nil
		}
	}
	return orders.Order{}, false, nil
}
