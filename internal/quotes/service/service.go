package service

import (
	"context"
	"strings"
	"time"

	"crm_console_backend/internal/events"
	"crm_console_backend/internal/quotes/domain"
	"crm_console_backend/platform/apperr"
	"crm_console_backend/platform/logger"
	"crm_console_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// QuoteStore persists quotes. Implemented by internal/quotes/repository.
type QuoteStore interface {
	Create(ctx context.Context, q *domain.Quote) error
	Update(ctx context.Context, q *domain.Quote) error
	// UpdateStatus writes q only while the stored status still equals from, and
	// returns a STATUS_CHANGED conflict otherwise.
	UpdateStatus(ctx context.Context, q *domain.Quote, from domain.Status) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Quote, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, params domain.ListParams) (*domain.ListResult, error)
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]domain.Quote, error)
}

// Customer is the billing identity of the organization a quote is addressed to.
type Customer struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Phone   string
	Address string
}

// ReferenceReader resolves the tenant-scoped records a quote may point at.
// GetCustomer returns a NOT_FOUND apperr when the customer is unknown to the tenant.
type ReferenceReader interface {
	GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (Customer, error)
	DealExists(ctx context.Context, tenantID, dealID uuid.UUID) (bool, error)
	ProductPlanExists(ctx context.Context, tenantID, planID uuid.UUID) (bool, error)
}

// NumberGenerator allocates quote numbers. Implemented by internal/quotes/numbering.
type NumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// Service provides business logic for quotes
type Service struct {
	store           QuoteStore
	refs            ReferenceReader
	numbers         NumberGenerator
	eventBus        events.Bus
	log             *logger.Logger
	defaultCurrency string
	now             func() time.Time
}

// New creates a new quotes service
func New(store QuoteStore, refs ReferenceReader, numbers NumberGenerator, defaultCurrency string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:           store,
		refs:            refs,
		numbers:         numbers,
		log:             log,
		defaultCurrency: strings.ToUpper(defaultCurrency),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// SetEventBus injects the event bus. Without one no events are published.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// LineItemInput is a line item as supplied by a caller. A nil TotalCents means
// the caller did not send one; it is treated as quantity times unit price.
type LineItemInput struct {
	Description    string
	Quantity       float64
	UnitPriceCents int64
	TotalCents     *int64
}

// CreateInput carries the fields of a new quote.
type CreateInput struct {
	CustomerID    uuid.UUID
	LineItems     []LineItemInput
	DealID        *uuid.UUID
	ProductPlanID *uuid.UUID
	ValidUntil    *time.Time
	TaxCents      int64
	Notes         *string
	Currency      string
}

// UpdateInput carries a partial edit of a draft quote. Nil fields are left unchanged.
type UpdateInput struct {
	LineItems     *[]LineItemInput
	TaxCents      *int64
	DealID        *uuid.UUID
	ProductPlanID *uuid.UUID
	ValidUntil    *time.Time
	Notes         *string
}

// CalculateInput is a pricing preview request.
type CalculateInput struct {
	LineItems []LineItemInput
	TaxCents  int64
}

// Create validates, prices and stores a new draft quote.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, in CreateInput) (*domain.Quote, error) {
	if in.CustomerID == uuid.Nil {
		return nil, domain.MissingField("tenantOrganizationId")
	}

	items := toLineItems(in.LineItems)
	if err := domain.ValidateLineItems(items); err != nil {
		return nil, err
	}
	if err := domain.ValidateTax(in.TaxCents); err != nil {
		return nil, err
	}
	pricing := domain.Recompute(items, in.TaxCents)

	customer, err := s.refs.GetCustomer(ctx, tenantID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, tenantID, in.DealID, in.ProductPlanID); err != nil {
		return nil, err
	}

	code, err := s.resolveCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quote := &domain.Quote{
		TenantID:      tenantID,
		Version:       1,
		CustomerID:    customer.ID,
		DealID:        in.DealID,
		ProductPlanID: in.ProductPlanID,
		Status:        domain.StatusDraft,
		Currency:      code,
		ValidUntil:    in.ValidUntil,
		Notes:         sanitize.TextPtr(in.Notes),
		Billing: domain.BillingSnapshot{
			Name:    customer.Name,
			Email:   customer.Email,
			Phone:   customer.Phone,
			Address: customer.Address,
		},
		CreatedByID: actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	quote.ApplyPricing(pricing, in.TaxCents)

	if err := s.insertNumbered(ctx, quote); err != nil {
		return nil, err
	}

	s.publish(ctx, events.QuoteCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		TenantID:    tenantID,
		CustomerID:  quote.CustomerID,
		DealID:      quote.DealID,
		QuoteNumber: quote.QuoteNumber,
		TotalCents:  quote.TotalCents,
		Currency:    quote.Currency,
		ActorID:     actorID,
	})

	return quote, nil
}

// maxNumberAttempts bounds how often Create draws a fresh number after the
// store reports the previous one as taken.
const maxNumberAttempts = 3

// insertNumbered allocates a number and stores quote, drawing again when the
// number collides with an existing quote. Skipped numbers are not reused.
func (s *Service) insertNumbered(ctx context.Context, quote *domain.Quote) error {
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		quote.ID = uuid.New()
		quote.QuoteNumber, err = s.numbers.Next(ctx, quote.TenantID)
		if err != nil {
			return err
		}
		err = s.store.Create(ctx, quote)
		if apperr.GetKind(err) != apperr.KindConflict {
			return err
		}
		s.log.WithContext(ctx).Warn("quote_number_taken",
			"tenant_id", quote.TenantID.String(),
			"quote_number", quote.QuoteNumber,
			"attempt", attempt,
		)
	}
	return err
}

// Update edits a draft quote. Supplied line items replace the stored ones and are
// repriced; a tax-only change reprices the stored line items with the new tax.
// Concurrent updates of the same quote are last-write-wins.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, in UpdateInput) (*domain.Quote, error) {
	quote, err := s.store.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(quote.Status); err != nil {
		return nil, err
	}

	if in.TaxCents != nil {
		if err := domain.ValidateTax(*in.TaxCents); err != nil {
			return nil, err
		}
	}

	repriced := false
	switch {
	case in.LineItems != nil:
		items := toLineItems(*in.LineItems)
		if err := domain.ValidateLineItems(items); err != nil {
			return nil, err
		}
		tax := quote.TaxCents
		if in.TaxCents != nil {
			tax = *in.TaxCents
		}
		quote.ApplyPricing(domain.Recompute(items, tax), tax)
		repriced = true
	case in.TaxCents != nil:
		quote.ApplyPricing(domain.Recompute(quote.LineItems, *in.TaxCents), *in.TaxCents)
		repriced = true
	}

	if err := s.checkReferences(ctx, tenantID, in.DealID, in.ProductPlanID); err != nil {
		return nil, err
	}
	if in.DealID != nil {
		quote.DealID = in.DealID
	}
	if in.ProductPlanID != nil {
		quote.ProductPlanID = in.ProductPlanID
	}
	if in.ValidUntil != nil {
		quote.ValidUntil = in.ValidUntil
	}
	if in.Notes != nil {
		quote.Notes = sanitize.TextPtr(in.Notes)
	}
	quote.UpdatedAt = s.now()

	if err := s.store.Update(ctx, quote); err != nil {
		return nil, err
	}

	s.publish(ctx, events.QuoteUpdated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		TenantID:    tenantID,
		QuoteNumber: quote.QuoteNumber,
		TotalCents:  quote.TotalCents,
		Repriced:    repriced,
	})

	return quote, nil
}

// Get returns a single quote.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Quote, error) {
	return s.store.GetByID(ctx, tenantID, id)
}

// List returns one page of the tenant's quotes.
func (s *Service) List(ctx context.Context, params domain.ListParams) (*domain.ListResult, error) {
	params.Normalize()
	return s.store.List(ctx, params)
}

// Calculate prices line items without storing anything.
func (s *Service) Calculate(in CalculateInput) (domain.Pricing, error) {
	items := toLineItems(in.LineItems)
	if err := domain.ValidateLineItems(items); err != nil {
		return domain.Pricing{}, err
	}
	if err := domain.ValidateTax(in.TaxCents); err != nil {
		return domain.Pricing{}, err
	}
	return domain.Recompute(items, in.TaxCents), nil
}

func (s *Service) checkReferences(ctx context.Context, tenantID uuid.UUID, dealID, planID *uuid.UUID) error {
	if dealID != nil {
		ok, err := s.refs.DealExists(ctx, tenantID, *dealID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("deal")
		}
	}
	if planID != nil {
		ok, err := s.refs.ProductPlanExists(ctx, tenantID, *planID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("product plan")
		}
	}
	return nil
}

func (s *Service) resolveCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		code = s.defaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", domain.InvalidCurrency(code)
	}
	return unit.String(), nil
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, evt)
	}
}

func toLineItems(in []LineItemInput) []domain.LineItem {
	items := make([]domain.LineItem, len(in))
	for i, item := range in {
		line := domain.LineItem{
			Description:    sanitize.Text(item.Description),
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
		if item.TotalCents != nil {
			line.TotalCents = *item.TotalCents
		} else {
			line.TotalCents = domain.LineTotal(item.Quantity, item.UnitPriceCents)
		}
		items[i] = line
	}
	return items
}
