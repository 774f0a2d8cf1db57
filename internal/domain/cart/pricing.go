package cart

import (
	"github.com/shopspring/decimal"
)

// Pricing holds the rules totals are derived with
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal // shipping is free strictly above this subtotal
	FlatShipping          decimal.Decimal
}

// DefaultPricing is 8.25% tax with flat 15 shipping, free above 100
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.0825"),
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShipping:          decimal.NewFromInt(15),
	}
}

// NewPricing builds pricing rules from plain configuration values
func NewPricing(taxRate, freeShippingThreshold, flatShipping float64) Pricing {
	return Pricing{
		TaxRate:               decimal.NewFromFloat(taxRate),
		FreeShippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
		FlatShipping:          decimal.NewFromFloat(flatShipping),
	}
}

// Totals derives subtotal, tax, shipping, total and item count from items.
// An empty cart totals to zero, shipping included.
func (p Pricing) Totals(items []LineItem) Totals {
	if len(items) == 0 {
		return Totals{}
	}

	var totals Totals
	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.Price)
		totals.ItemCount += item.Quantity
	}

	totals.Tax = totals.Subtotal.Mul(p.TaxRate)
	if totals.Subtotal.GreaterThan(p.FreeShippingThreshold) {
		totals.Shipping = decimal.Zero
	} else {
		totals.Shipping = p.FlatShipping
	}
	totals.Total = totals.Subtotal.Add(totals.Tax).Add(totals.Shipping)

	return totals
}

func itemCount(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
