// Package cart keeps a session's shopping cart and persists it after every
// change.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// StorageKey is the slot the cart is persisted under.
const StorageKey = "shopping-cart"

// schemaVersion is written into every persisted envelope.
const schemaVersion = 1

// ErrInvalidQuantity is returned by Add for a non-positive quantity.
var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

type envelope struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// Store is a single-writer cart. It is not safe for concurrent use.
type Store struct {
	storage Storage
	key     string
	items   []Item
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage slot, e.g. to scope a cart to a session.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore rehydrates a cart from storage. A missing or unreadable slot
// yields an empty cart; NewStore never fails.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     StorageKey,
		logger:  log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load()
	return s
}

// Add merges quantity into the line matching item, or appends item as a new
// line with that quantity.
func (s *Store) Add(item Item, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	item = item.normalized()
	if i := s.index(item.ProductID, item.Variant); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		item.Quantity = quantity
		s.items = append(s.items, item)
	}

	s.persist()
	return nil
}

// Remove deletes the matching line. Removing an absent line is a no-op.
func (s *Store) Remove(productID, variant string) {
	if i := s.index(productID, variant); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.persist()
}

// SetQuantity replaces the quantity of the matching line. A quantity of
// zero or less removes the line.
func (s *Store) SetQuantity(productID string, quantity int, variant string) {
	i := s.index(productID, variant)
	switch {
	case i < 0:
	case quantity <= 0:
		s.items = append(s.items[:i], s.items[i+1:]...)
	default:
		s.items[i].Quantity = quantity
	}
	s.persist()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = nil
	s.persist()
}

// Count returns the number of distinct lines.
func (s *Store) Count() int {
	return len(s.items)
}

// Total returns the sum of quantities over all lines.
func (s *Store) Total() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// Items returns a copy of the lines in first-insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// QuotationItems converts the lines into quotation request items.
func (s *Store) QuotationItems() []QuotationItem {
	out := make([]QuotationItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, QuotationItem{
			Name:         it.Name,
			Quantity:     it.Quantity,
			Category:     it.Category,
			SelectedSize: it.Variant,
		})
	}
	return out
}

func (s *Store) index(productID, variant string) int {
	for i, it := range s.items {
		if it.matches(productID, variant) {
			return i
		}
	}
	return -1
}

func (s *Store) persist() {
	data, err := json.Marshal(envelope{Version: schemaVersion, Items: s.Items()})
	if err != nil {
		s.logger.Printf("❌ Error encoding cart %s: %v", s.key, err)
		return
	}
	if err := s.storage.Save(s.key, data); err != nil {
		s.logger.Printf("❌ Error saving cart %s: %v", s.key, err)
	}
}

func (s *Store) load() []Item {
	data, err := s.storage.Load(s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Printf("❌ Error loading cart %s: %v", s.key, err)
		}
		return nil
	}

	items, err := decode(data)
	if err != nil {
		s.logger.Printf("❌ Error parsing cart %s: %v", s.key, err)
		return nil
	}

	valid := items[:0]
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		valid = append(valid, it.normalized())
	}
	return valid
}

// decode accepts the versioned envelope as well as the bare item array
// written before versioning was introduced.
func decode(data []byte) ([]Item, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		if env.Version > schemaVersion {
			return nil, fmt.Errorf("unsupported cart version %d", env.Version)
		}
		return env.Items, nil
	}

	var legacy []Item
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	return legacy, nil
}
