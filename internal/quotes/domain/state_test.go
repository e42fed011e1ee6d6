package domain

import (
	"errors"
	"testing"
	"time"

	"crm_console_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestNextStatusCoversEveryPair(t *testing.T) {
	legal := map[Status]map[Event]Status{
		StatusDraft:    {EventSend: StatusSent},
		StatusSent:     {EventAccept: StatusAccepted, EventReject: StatusRejected, EventExpire: StatusExpired},
		StatusAccepted: {EventConvert: StatusConverted},
	}

	for _, from := range Statuses() {
		for _, ev := range Events() {
			next, err := NextStatus(from, ev)
			want, ok := legal[from][ev]
			if ok {
				if err != nil || next != want {
					t.Fatalf("%s + %s: expected %s, got %s (%v)", from, ev, want, next, err)
				}
				continue
			}
			if !errors.Is(err, ErrIllegalTransition) {
				t.Fatalf("%s + %s: expected illegal transition, got %v", from, ev, err)
			}
			if apperr.GetKind(err) != apperr.KindBadRequest || apperr.GetCode(err) != CodeIllegalTransition {
				t.Fatalf("%s + %s: unexpected error classification %v", from, ev, err)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range Statuses() {
		terminal := true
		for _, ev := range Events() {
			if _, err := NextStatus(s, ev); err == nil {
				terminal = false
			}
		}
		if terminal != s.IsTerminal() {
			t.Fatalf("%s: IsTerminal=%v but transitions say %v", s, s.IsTerminal(), terminal)
		}
	}
}

func TestTransitionSetsTimestamps(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := &Quote{Status: StatusDraft}

	if err := Transition(q, EventSend, nil, at); err != nil {
		t.Fatalf("send: %v", err)
	}
	if q.Status != StatusSent || q.SentAt == nil || !q.SentAt.Equal(at) || !q.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected quote after send: %+v", q)
	}

	later := at.Add(time.Hour)
	if err := Transition(q, EventAccept, nil, later); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if q.Status != StatusAccepted || q.AcceptedAt == nil || !q.AcceptedAt.Equal(later) {
		t.Fatalf("unexpected quote after accept: %+v", q)
	}

	invoiceID := uuid.New()
	if err := Transition(q, EventConvert, &invoiceID, later); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if q.Status != StatusConverted || q.ConvertedToInvoiceID == nil || *q.ConvertedToInvoiceID != invoiceID || q.ConvertedAt == nil {
		t.Fatalf("unexpected quote after convert: %+v", q)
	}
}

func TestTransitionConvertRequiresInvoice(t *testing.T) {
	q := &Quote{Status: StatusAccepted}

	err := Transition(q, EventConvert, nil, time.Now())
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected missing field, got %v", err)
	}
	if q.Status != StatusAccepted || q.ConvertedToInvoiceID != nil {
		t.Fatalf("expected quote untouched, got %+v", q)
	}
}

func TestTransitionFailureLeavesQuoteUntouched(t *testing.T) {
	q := &Quote{Status: StatusRejected}
	if err := Transition(q, EventSend, nil, time.Now()); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
	if q.Status != StatusRejected || q.SentAt != nil || !q.UpdatedAt.IsZero() {
		t.Fatalf("expected quote untouched, got %+v", q)
	}
}

func TestCanEditOnlyDraft(t *testing.T) {
	for _, s := range Statuses() {
		err := CanEdit(s)
		if s == StatusDraft {
			if err != nil {
				t.Fatalf("draft should be editable, got %v", err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidStateForEdit) || apperr.GetCode(err) != CodeInvalidStateForEdit {
			t.Fatalf("%s: expected invalid state for edit, got %v", s, err)
		}
	}
}

func TestCanDeleteDraftOrRejected(t *testing.T) {
	for _, s := range Statuses() {
		err := CanDelete(s)
		if s == StatusDraft || s == StatusRejected {
			if err != nil {
				t.Fatalf("%s should be deletable, got %v", s, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidStateForDelete) {
			t.Fatalf("%s: expected invalid state for delete, got %v", s, err)
		}
	}
}

func TestParseStatusAndEvent(t *testing.T) {
	if s, ok := ParseStatus("sent"); !ok || s != StatusSent {
		t.Fatalf("expected sent, got %q %v", s, ok)
	}
	if _, ok := ParseStatus("SENT"); ok {
		t.Fatal("expected case-sensitive parse to fail")
	}
	if ev, ok := ParseEvent("convert"); !ok || ev != EventConvert {
		t.Fatalf("expected convert, got %q %v", ev, ok)
	}
	if _, ok := ParseEvent("archive"); ok {
		t.Fatal("expected unknown event to fail")
	}
}
