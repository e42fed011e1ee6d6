// Package domain holds the quote aggregate and the rules that govern it:
// line-item validation, pricing, and the status state machine. It performs no I/O.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a quote. Only the constants below are valid;
// use ParseStatus for untrusted input.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusConverted Status = "converted"
)

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired, StatusConverted}
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses() {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusExpired || s == StatusConverted
}

// LineItem is one priced row of a quote. Money is in minor currency units.
type LineItem struct {
	Description    string
	Quantity       float64
	UnitPriceCents int64
	TotalCents     int64
}

// BillingSnapshot is the customer's billing identity copied at creation time.
// It is never refreshed from the customer record.
type BillingSnapshot struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Quote is the aggregate root.
type Quote struct {
	ID                   uuid.UUID
	TenantID             uuid.UUID
	QuoteNumber          string
	Version              int
	ParentQuoteID        *uuid.UUID
	CustomerID           uuid.UUID
	DealID               *uuid.UUID
	ProductPlanID        *uuid.UUID
	ConvertedToInvoiceID *uuid.UUID
	Status               Status
	Currency             string
	LineItems            []LineItem
	SubtotalCents        int64
	TaxCents             int64
	TotalCents           int64
	ValidUntil           *time.Time
	Notes                *string
	Billing              BillingSnapshot
	CreatedByID          *uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
	SentAt               *time.Time
	AcceptedAt           *time.Time
	RejectedAt           *time.Time
	ExpiredAt            *time.Time
	ConvertedAt          *time.Time
}

// ApplyPricing stores a recomputed pricing result on the quote.
func (q *Quote) ApplyPricing(p Pricing, taxCents int64) {
	q.LineItems = p.LineItems
	q.SubtotalCents = p.SubtotalCents
	q.TaxCents = taxCents
	q.TotalCents = p.TotalCents
}

// IsExpirable reports whether the quote is sent and its validity ended before now.
func (q *Quote) IsExpirable(now time.Time) bool {
	return q.Status == StatusSent && q.ValidUntil != nil && q.ValidUntil.Before(now)
}
