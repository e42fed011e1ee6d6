package domain

import (
	"errors"
	"fmt"

	"crm_console_backend/platform/apperr"
)

// Sentinel causes. Service-level errors wrap these, so errors.Is works through apperr.
var (
	ErrEmptyDescription      = errors.New("description is required")
	ErrInvalidQuantity       = errors.New("quantity must be a finite number greater than zero")
	ErrInvalidUnitPrice      = errors.New("unit price must be a non-negative amount")
	ErrInvalidTotal          = errors.New("total must be a non-negative amount")
	ErrTotalMismatch         = errors.New("total does not match quantity times unit price")
	ErrNoLineItems           = errors.New("at least one line item is required")
	ErrMissingField          = errors.New("required field is missing")
	ErrInvalidStateForEdit   = errors.New("quote can only be edited while in draft")
	ErrInvalidStateForDelete = errors.New("quote can only be deleted while in draft or rejected")
	ErrIllegalTransition     = errors.New("illegal status transition")
	ErrInvalidCurrency       = errors.New("currency is not a valid ISO 4217 code")
	ErrAmountTooLarge        = errors.New("amount exceeds the maximum supported value")
	ErrInvalidTax            = errors.New("tax must be a non-negative amount within the supported range")
	ErrStatusChanged         = errors.New("quote status changed concurrently")
)

// Machine-readable codes returned to API clients.
const (
	CodeEmptyDescription      = "EMPTY_DESCRIPTION"
	CodeInvalidQuantity       = "INVALID_QUANTITY"
	CodeInvalidUnitPrice      = "INVALID_UNIT_PRICE"
	CodeInvalidTotal          = "INVALID_TOTAL"
	CodeTotalMismatch         = "TOTAL_MISMATCH"
	CodeMissingField          = "MISSING_FIELD"
	CodeInvalidCurrency       = "INVALID_CURRENCY"
	CodeAmountTooLarge        = "AMOUNT_TOO_LARGE"
	CodeInvalidTax            = "INVALID_TAX"
	CodeStatusChanged         = "STATUS_CHANGED"
	CodeNotFound              = "NOT_FOUND"
	CodeTenantNotFound        = "TENANT_NOT_FOUND"
	CodeInvalidStateForEdit   = "INVALID_STATE_FOR_EDIT"
	CodeInvalidStateForDelete = "INVALID_STATE_FOR_DELETE"
	CodeIllegalTransition     = "ILLEGAL_TRANSITION"
)

var lineItemCodes = map[error]string{
	ErrEmptyDescription: CodeEmptyDescription,
	ErrInvalidQuantity:  CodeInvalidQuantity,
	ErrInvalidUnitPrice: CodeInvalidUnitPrice,
	ErrInvalidTotal:     CodeInvalidTotal,
	ErrTotalMismatch:    CodeTotalMismatch,
	ErrAmountTooLarge:   CodeAmountTooLarge,
}

// LineItemDetails identifies the offending line item in a validation error.
type LineItemDetails struct {
	Index int `json:"index"`
}

func lineItemError(index int, cause error) *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, fmt.Sprintf("lineItems[%d]: %s", index, cause.Error()), cause).
		WithCode(lineItemCodes[cause]).
		WithDetails(LineItemDetails{Index: index})
}

// MissingField reports a required input that was not supplied.
func MissingField(field string) *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, field+" is required", ErrMissingField).WithCode(CodeMissingField)
}

func noLineItems() *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, ErrNoLineItems.Error(), ErrNoLineItems).WithCode(CodeMissingField)
}

// NotFound reports a missing quote, customer, deal, or plan.
func NotFound(what string) *apperr.Error {
	return apperr.NotFound(what + " not found").WithCode(CodeNotFound)
}

// TenantNotFound reports a tenant that does not exist.
func TenantNotFound() *apperr.Error {
	return apperr.NotFound("tenant not found").WithCode(CodeTenantNotFound)
}

// InvalidCurrency reports an unknown currency code.
func InvalidCurrency(code string) *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, fmt.Sprintf("currency %q is not a valid ISO 4217 code", code), ErrInvalidCurrency).
		WithCode(CodeInvalidCurrency)
}

func invalidTax(tax int64) *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, fmt.Sprintf("tax %d must be between 0 and %d", tax, MaxAmountCents), ErrInvalidTax).
		WithCode(CodeInvalidTax)
}

// StatusChanged reports a status write that lost a race with another writer.
func StatusChanged(expected Status) *apperr.Error {
	return apperr.Wrap(apperr.KindConflict, fmt.Sprintf("quote is no longer %s", expected), ErrStatusChanged).
		WithCode(CodeStatusChanged)
}

func invalidStateForEdit(s Status) *apperr.Error {
	return apperr.Wrap(apperr.KindBadRequest, fmt.Sprintf("quote is %s; only draft quotes can be edited", s), ErrInvalidStateForEdit).
		WithCode(CodeInvalidStateForEdit)
}

func invalidStateForDelete(s Status) *apperr.Error {
	return apperr.Wrap(apperr.KindBadRequest, fmt.Sprintf("quote is %s; only draft or rejected quotes can be deleted", s), ErrInvalidStateForDelete).
		WithCode(CodeInvalidStateForDelete)
}

func illegalTransition(from Status, ev Event) *apperr.Error {
	return apperr.Wrap(apperr.KindBadRequest, fmt.Sprintf("cannot %s a %s quote", ev, from), ErrIllegalTransition).
		WithCode(CodeIllegalTransition)
}
