// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidItem is returned when a new line item breaks a cart invariant
	ErrInvalidItem = errors.New("invalid cart item")
	// ErrStorageUnavailable wraps failures of the underlying storage provider
	ErrStorageUnavailable = errors.New("cart storage unavailable")
	// ErrCorruptCart wraps persisted payloads that are not a valid cart
	ErrCorruptCart = errors.New("corrupt cart payload")
)

// LineItem is one configured product in the cart. Price is the total for
// the line at its current quantity, not the unit price.
type LineItem struct {
	ID        string          `json:"id" binding:"required"`
	ProductID string          `json:"productId" binding:"required"`
	Width     float64         `json:"width" binding:"gte=0"`
	Height    float64         `json:"height" binding:"gte=0"`
	Material  string          `json:"material"`
	Color     string          `json:"color"`
	Addons    []string        `json:"addons"`
	Quantity  int             `json:"quantity" binding:"min=1"`
	Price     decimal.Decimal `json:"price"`
}

// NewLineItem is a line item that has not been assigned an ID yet
type NewLineItem struct {
	ProductID string          `json:"productId" binding:"required"`
	Width     float64         `json:"width" binding:"gte=0"`
	Height    float64         `json:"height" binding:"gte=0"`
	Material  string          `json:"material"`
	Color     string          `json:"color"`
	Addons    []string        `json:"addons"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// UnitPrice returns price divided by quantity
func (i LineItem) UnitPrice() decimal.Decimal {
	if i.Quantity <= 0 {
		return decimal.Zero
	}
	return i.Price.Div(decimal.NewFromInt(int64(i.Quantity)))
}

// matches reports whether n describes the same configuration as i.
// Addons are compared element by element, in order.
func (i LineItem) matches(n NewLineItem) bool {
	if i.ProductID != n.ProductID ||
		i.Width != n.Width ||
		i.Height != n.Height ||
		i.Material != n.Material ||
		i.Color != n.Color {
		return false
	}

	if len(i.Addons) != len(n.Addons) {
		return false
	}
	for idx := range i.Addons {
		if i.Addons[idx] != n.Addons[idx] {
			return false
		}
	}
	return true
}

func (n NewLineItem) withID(id string) LineItem {
	addons := make([]string, len(n.Addons))
	copy(addons, n.Addons)

	return LineItem{
		ID:        id,
		ProductID: n.ProductID,
		Width:     n.Width,
		Height:    n.Height,
		Material:  n.Material,
		Color:     n.Color,
		Addons:    addons,
		Quantity:  n.Quantity,
		Price:     n.Price,
	}
}

// Totals represents calculated cart totals
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"` // Sum of all quantities
}

// validate shares the "binding" tag with gin so HTTP binding and the store
// enforce the same rules.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}()

// Validate checks a new line item before it is added
func (n NewLineItem) Validate() error {
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	if n.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidItem)
	}
	return nil
}

// validateItems checks a decoded cart: every line valid, ids unique
func validateItems(items []LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for idx, item := range items {
		if err := validate.Struct(item); err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrCorruptCart, idx, err)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %d: negative price", ErrCorruptCart, idx)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrCorruptCart, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
