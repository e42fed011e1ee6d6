// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"crm_console_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quotes Domain Events
// =============================================================================

// QuoteCreated is published when a draft quote has been stored.
type QuoteCreated struct {
	BaseEvent
	QuoteID     uuid.UUID  `json:"quoteId"`
	TenantID    uuid.UUID  `json:"tenantId"`
	CustomerID  uuid.UUID  `json:"tenantOrganizationId"`
	DealID      *uuid.UUID `json:"dealId,omitempty"`
	QuoteNumber string     `json:"quoteNumber"`
	TotalCents  int64      `json:"total"`
	Currency    string     `json:"currency"`
	ActorID     *uuid.UUID `json:"actorId,omitempty"`
}

func (e QuoteCreated) EventName() string { return "quotes.quote.created" }

// QuoteUpdated is published when a draft quote's content or pricing changed.
type QuoteUpdated struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	TenantID    uuid.UUID `json:"tenantId"`
	QuoteNumber string    `json:"quoteNumber"`
	TotalCents  int64     `json:"total"`
	Repriced    bool      `json:"repriced"`
}

func (e QuoteUpdated) EventName() string { return "quotes.quote.updated" }

// QuoteStatusChanged is published after every successful lifecycle transition,
// including time-driven expiry.
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID     uuid.UUID  `json:"quoteId"`
	TenantID    uuid.UUID  `json:"tenantId"`
	QuoteNumber string     `json:"quoteNumber"`
	Trigger     string     `json:"event"`
	OldStatus   string     `json:"oldStatus"`
	NewStatus   string     `json:"newStatus"`
	InvoiceID   *uuid.UUID `json:"invoiceId,omitempty"`
}

func (e QuoteStatusChanged) EventName() string { return "quotes.quote.status_changed" }

// QuoteDeleted is published when a quote is deleted. The number stays consumed.
type QuoteDeleted struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	TenantID    uuid.UUID `json:"tenantId"`
	QuoteNumber string    `json:"quoteNumber"`
	Status      string    `json:"status"`
}

func (e QuoteDeleted) EventName() string { return "quotes.quote.deleted" }
