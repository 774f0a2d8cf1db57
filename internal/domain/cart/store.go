// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrorHandler receives persistence failures that the store recovered from.
// op names the store operation that hit the failure.
type ErrorHandler func(op string, err error)

// Store is the sole authority over one cart. It keeps no state between
// calls: every operation re-reads storage and mutations write the full list
// back. Concurrent writers on the same key race and the last write wins.
//
// Storage failures never surface as errors. They are logged, passed to the
// ErrorHandler, and the operation degrades to an empty read or a dropped
// write.
type Store struct {
	storage Storage
	key     string
	pricing Pricing
	log     *logrus.Entry
	onError ErrorHandler
	newID   func() string
}

// Option configures a Store
type Option func(*Store)

// WithPricing overrides DefaultPricing
func WithPricing(p Pricing) Option {
	return func(s *Store) { s.pricing = p }
}

// WithLogger sets the logger recovered failures are reported to
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) { s.log = log }
}

// WithErrorHandler registers a callback for recovered persistence failures
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Store) { s.onError = h }
}

// WithIDGenerator replaces the ULID line item id generator
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates a store for the cart persisted under key. A nil storage
// behaves as an empty cart that ignores mutations.
func NewStore(storage Storage, key string, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     key,
		pricing: DefaultPricing(),
		newID:   func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.log = s.log.WithField("cart_key", key)
	return s
}

// Key returns the storage key of this cart
func (s *Store) Key() string {
	return s.key
}

// ListItems returns the cart in insertion order. Missing, unreadable and
// corrupt carts all read as empty.
func (s *Store) ListItems(ctx context.Context) []LineItem {
	items, _ := s.load(ctx, "list_items")
	return items
}

// AddItem adds n to the cart. When an existing line has the same
// configuration, n's quantity and price are added to it instead of
// appending a new line. The resulting line is returned.
func (s *Store) AddItem(ctx context.Context, n NewLineItem) (LineItem, error) {
	if err := n.Validate(); err != nil {
		return LineItem{}, err
	}

	added := n.withID(s.newID())

	items, ok := s.load(ctx, "add_item")
	if !ok {
		return added, nil
	}

	merged := false
	for i := range items {
		if items[i].matches(n) {
			items[i].Quantity += n.Quantity
			items[i].Price = items[i].Price.Add(n.Price)
			added = items[i]
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, added)
	}

	s.save(ctx, "add_item", items)
	return added, nil
}

// RemoveItem removes the line with itemID. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, itemID string) {
	s.remove(ctx, "remove_item", itemID)
}

// UpdateQuantity sets the quantity of itemID and rescales its price so the
// unit price is unchanged. A quantity of zero or less removes the line.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) {
	if quantity <= 0 {
		s.remove(ctx, "update_quantity", itemID)
		return
	}

	items, ok := s.load(ctx, "update_quantity")
	if !ok {
		return
	}

	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		// price * new / old keeps the unit price and divides only once
		items[i].Price = items[i].Price.
			Mul(decimal.NewFromInt(int64(quantity))).
			Div(decimal.NewFromInt(int64(items[i].Quantity)))
		items[i].Quantity = quantity
		s.save(ctx, "update_quantity", items)
		return
	}
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	if s.storage == nil {
		return
	}
	s.save(ctx, "clear", []LineItem{})
}

// Totals derives subtotal, tax, shipping, total and item count
func (s *Store) Totals(ctx context.Context) Totals {
	return s.pricing.Totals(s.ListItems(ctx))
}

// ItemCount returns the sum of quantities across all lines
func (s *Store) ItemCount(ctx context.Context) int {
	return itemCount(s.ListItems(ctx))
}

func (s *Store) remove(ctx context.Context, op, itemID string) {
	items, ok := s.load(ctx, op)
	if !ok {
		return
	}

	for i := range items {
		if items[i].ID == itemID {
			items = append(items[:i], items[i+1:]...)
			break
		}
	}

	s.save(ctx, op, items)
}

// load reads the persisted cart. ok is false when the cart must not be
// written back: no storage, or storage failed to answer. A corrupt payload
// still reports ok so the next write replaces it.
func (s *Store) load(ctx context.Context, op string) (items []LineItem, ok bool) {
	if s.storage == nil {
		return []LineItem{}, false
	}

	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.report(op, fmt.Errorf("%w: read: %v", ErrStorageUnavailable, err))
		return []LineItem{}, false
	}
	if !found || raw == "" {
		return []LineItem{}, true
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.report(op, fmt.Errorf("%w: %v", ErrCorruptCart, err))
		return []LineItem{}, true
	}
	if err := validateItems(items); err != nil {
		s.report(op, err)
		return []LineItem{}, true
	}
	if items == nil {
		items = []LineItem{}
	}

	return items, true
}

func (s *Store) save(ctx context.Context, op string, items []LineItem) {
	if items == nil {
		items = []LineItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		s.report(op, fmt.Errorf("%w: encode: %v", ErrStorageUnavailable, err))
		return
	}

	if err := s.storage.Set(ctx, s.key, string(payload)); err != nil {
		s.report(op, fmt.Errorf("%w: write: %v", ErrStorageUnavailable, err))
	}
}

func (s *Store) report(op string, err error) {
	entry := s.log.WithError(err).WithField("op", op)
	if errors.Is(err, ErrCorruptCart) {
		entry.Warn("Discarding corrupt cart")
	} else {
		entry.Error("Cart storage failure")
	}

	if s.onError != nil {
		s.onError(op, err)
	}
}
