package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a lifecycle trigger applied to a quote.
type Event string

const (
	EventSend    Event = "send"
	EventAccept  Event = "accept"
	EventReject  Event = "reject"
	EventExpire  Event = "expire"
	EventConvert Event = "convert"
)

// Events lists every valid event.
func Events() []Event {
	return []Event{EventSend, EventAccept, EventReject, EventExpire, EventConvert}
}

// ParseEvent converts a raw string into an Event.
func ParseEvent(raw string) (Event, bool) {
	for _, ev := range Events() {
		if string(ev) == raw {
			return ev, true
		}
	}
	return "", false
}

// NextStatus returns the status reached by applying ev in from, or an
// ILLEGAL_TRANSITION error.
func NextStatus(from Status, ev Event) (Status, error) {
	switch from {
	case StatusDraft:
		if ev == EventSend {
			return StatusSent, nil
		}
	case StatusSent:
		switch ev {
		case EventAccept:
			return StatusAccepted, nil
		case EventReject:
			return StatusRejected, nil
		case EventExpire:
			return StatusExpired, nil
		}
	case StatusAccepted:
		if ev == EventConvert {
			return StatusConverted, nil
		}
	case StatusRejected, StatusExpired, StatusConverted:
	}
	return from, illegalTransition(from, ev)
}

// Transition applies ev to q at time at. On success the status and the matching
// timestamp are set and UpdatedAt is advanced. On failure q is left untouched.
// Convert requires the invoice the quote was converted into.
func Transition(q *Quote, ev Event, invoiceID *uuid.UUID, at time.Time) error {
	next, err := NextStatus(q.Status, ev)
	if err != nil {
		return err
	}
	if ev == EventConvert && (invoiceID == nil || *invoiceID == uuid.Nil) {
		return MissingField("invoiceId")
	}

	stamp := at
	switch ev {
	case EventSend:
		q.SentAt = &stamp
	case EventAccept:
		q.AcceptedAt = &stamp
	case EventReject:
		q.RejectedAt = &stamp
	case EventExpire:
		q.ExpiredAt = &stamp
	case EventConvert:
		id := *invoiceID
		q.ConvertedToInvoiceID = &id
		q.ConvertedAt = &stamp
	}
	q.Status = next
	q.UpdatedAt = at
	return nil
}

// CanEdit returns nil if a quote in status s may have its content changed.
func CanEdit(s Status) error {
	if s != StatusDraft {
		return invalidStateForEdit(s)
	}
	return nil
}

// CanDelete returns nil if a quote in status s may be removed.
func CanDelete(s Status) error {
	switch s {
	case StatusDraft, StatusRejected:
		return nil
	default:
		return invalidStateForDelete(s)
	}
}
