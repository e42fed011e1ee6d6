package domain

import "math"

// TotalToleranceCents is the largest accepted gap between a client-supplied
// line total and quantity times unit price.
const TotalToleranceCents = 1

// Upper bounds on money and quantity. MaxAmountCents stays below 2^53 so every
// amount is exact as a float64, and a subtotal plus tax cannot overflow int64.
const (
	MaxAmountCents int64   = 1_000_000_000_000_000
	MaxQuantity    float64 = 1_000_000_000
)

// ValidateLineItem checks a single line item and returns one of the sentinel
// causes, or nil. The checks run in a fixed order so the reported cause is stable.
func ValidateLineItem(item LineItem) error {
	if item.Description == "" {
		return ErrEmptyDescription
	}
	if math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) || item.Quantity <= 0 || item.Quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if item.UnitPriceCents < 0 || item.UnitPriceCents > MaxAmountCents {
		return ErrInvalidUnitPrice
	}
	if item.TotalCents < 0 || item.TotalCents > MaxAmountCents {
		return ErrInvalidTotal
	}
	expected := item.Quantity * float64(item.UnitPriceCents)
	if expected > float64(MaxAmountCents) {
		return ErrAmountTooLarge
	}
	if math.Abs(float64(item.TotalCents)-expected) > TotalToleranceCents {
		return ErrTotalMismatch
	}
	return nil
}

// ValidateLineItems validates items in order and reports the first failure with its index.
// The item that pushes the running subtotal past MaxAmountCents fails with ErrAmountTooLarge.
func ValidateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return noLineItems()
	}
	var subtotal int64
	for i, item := range items {
		if err := ValidateLineItem(item); err != nil {
			return lineItemError(i, err)
		}
		subtotal += LineTotal(item.Quantity, item.UnitPriceCents)
		if subtotal > MaxAmountCents {
			return lineItemError(i, ErrAmountTooLarge)
		}
	}
	return nil
}

// ValidateTax checks that tax is within [0, MaxAmountCents].
func ValidateTax(taxCents int64) error {
	if taxCents < 0 || taxCents > MaxAmountCents {
		return invalidTax(taxCents)
	}
	return nil
}

// Pricing is the server-side result of recomputing a quote's money fields.
type Pricing struct {
	LineItems     []LineItem
	SubtotalCents int64
	TotalCents    int64
}

// LineTotal returns quantity times unit price rounded half away from zero.
func LineTotal(quantity float64, unitPriceCents int64) int64 {
	return int64(math.Round(quantity * float64(unitPriceCents)))
}

// Recompute replaces every line total with the server-computed value and derives
// subtotal and total. Client-supplied totals never survive this step.
// Inputs must have passed ValidateLineItems and ValidateTax; within those bounds
// the sums cannot overflow. The input slice is not modified.
func Recompute(items []LineItem, taxCents int64) Pricing {
	out := make([]LineItem, len(items))
	var subtotal int64
	for i, item := range items {
		item.TotalCents = LineTotal(item.Quantity, item.UnitPriceCents)
		out[i] = item
		subtotal += item.TotalCents
	}
	return Pricing{
		LineItems:     out,
		SubtotalCents: subtotal,
		TotalCents:    subtotal + taxCents,
	}
}
