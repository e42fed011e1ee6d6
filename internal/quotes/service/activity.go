package service

import (
	"context"

	"crm_console_backend/internal/events"
	"crm_console_backend/platform/logger"
)

// ActivityLogger writes one structured log line per quote lifecycle event.
type ActivityLogger struct {
	log *logger.Logger
}

// NewActivityLogger creates the subscriber.
func NewActivityLogger(log *logger.Logger) *ActivityLogger {
	return &ActivityLogger{log: log}
}

// Subscribe registers the logger for every quote event.
func (a *ActivityLogger) Subscribe(bus events.Bus) {
	for _, name := range []string{
		events.QuoteCreated{}.EventName(),
		events.QuoteUpdated{}.EventName(),
		events.QuoteStatusChanged{}.EventName(),
		events.QuoteDeleted{}.EventName(),
	} {
		bus.Subscribe(name, events.HandlerFunc(a.Handle))
	}
}

// Handle implements events.Handler.
func (a *ActivityLogger) Handle(ctx context.Context, event events.Event) error {
	log := a.log.WithContext(ctx)
	switch e := event.(type) {
	case events.QuoteCreated:
		log.QuoteEvent(e.EventName(), e.QuoteID.String(), e.QuoteNumber, "draft")
	case events.QuoteUpdated:
		log.QuoteEvent(e.EventName(), e.QuoteID.String(), e.QuoteNumber, "draft")
	case events.QuoteStatusChanged:
		log.QuoteEvent(e.EventName(), e.QuoteID.String(), e.QuoteNumber, e.NewStatus)
	case events.QuoteDeleted:
		log.QuoteEvent(e.EventName(), e.QuoteID.String(), e.QuoteNumber, e.Status)
	}
	return nil
}
