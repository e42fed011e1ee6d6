package validator

import (
	"errors"
	"testing"
)

type item struct {
	Description string `json:"description" validate:"max=3"`
}

type request struct {
	Event string `json:"event" validate:"required,oneof=send accept"`
	Items []item `json:"lineItems" validate:"dive"`
}

func TestFieldsUsesJSONNamespaces(t *testing.T) {
	err := New().Struct(request{Event: "expire", Items: []item{{Description: "ok"}, {Description: "too long"}}})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := Fields(err)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", fields)
	}
	if fields[0] != (FieldError{Field: "event", Rule: "oneof"}) {
		t.Fatalf("unexpected first field error %+v", fields[0])
	}
	if fields[1] != (FieldError{Field: "lineItems[1].description", Rule: "max"}) {
		t.Fatalf("unexpected second field error %+v", fields[1])
	}
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	if Fields(errors.New("boom")) != nil {
		t.Fatal("expected nil for non-validation errors")
	}
}
