package service

import (
	"context"
	"time"

	"crm_console_backend/internal/events"
	"crm_console_backend/internal/quotes/domain"

	"github.com/google/uuid"
)

// TransitionInput names the lifecycle event to apply. InvoiceID is required for convert.
type TransitionInput struct {
	Event     domain.Event
	InvoiceID *uuid.UUID
}

// Transition applies a lifecycle event to a quote.
func (s *Service) Transition(ctx context.Context, tenantID, id uuid.UUID, in TransitionInput) (*domain.Quote, error) {
	quote, err := s.store.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, quote, in, s.now()); err != nil {
		return nil, err
	}
	return quote, nil
}

// Delete removes a draft or rejected quote. Its number is not reused.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	quote, err := s.store.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := domain.CanDelete(quote.Status); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.publish(ctx, events.QuoteDeleted{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		TenantID:    tenantID,
		QuoteNumber: quote.QuoteNumber,
		Status:      string(quote.Status),
	})
	return nil
}

// ExpireDue moves up to limit sent quotes whose validity ended before now to
// expired. Quotes that fail are logged and skipped; the count of expired quotes
// is returned.
func (s *Service) ExpireDue(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.store.ListExpirable(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		quote := &due[i]
		if !quote.IsExpirable(now) {
			continue
		}
		if err := s.apply(ctx, quote, TransitionInput{Event: domain.EventExpire}, now); err != nil {
			s.log.WithContext(ctx).Warn("quote_expire_failed",
				"quote_id", quote.ID.String(),
				"quote_number", quote.QuoteNumber,
				"error", err,
			)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *Service) apply(ctx context.Context, quote *domain.Quote, in TransitionInput, at time.Time) error {
	oldStatus := quote.Status
	if err := domain.Transition(quote, in.Event, in.InvoiceID, at); err != nil {
		return err
	}
	if err := s.store.UpdateStatus(ctx, quote, oldStatus); err != nil {
		return err
	}

	s.publish(ctx, events.QuoteStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		TenantID:    quote.TenantID,
		QuoteNumber: quote.QuoteNumber,
		Trigger:     string(in.Event),
		OldStatus:   string(oldStatus),
		NewStatus:   string(quote.Status),
		InvoiceID:   quote.ConvertedToInvoiceID,
	})
	return nil
}
