package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// LineItemRequest is the input for a single line item. Field checks beyond
// shape are done by the domain validator so failures carry the item index.
type LineItemRequest struct {
	Description string  `json:"description" validate:"max=2000"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unitPrice"`
	Total       *int64  `json:"total"`
}

// CreateQuoteRequest is the request body for creating a new quote
type CreateQuoteRequest struct {
	TenantOrganizationID *uuid.UUID        `json:"tenantOrganizationId"`
	LineItems            []LineItemRequest `json:"lineItems" validate:"max=500,dive"`
	DealID               *uuid.UUID        `json:"dealId"`
	ProductPlanID        *uuid.UUID        `json:"productPlanId"`
	ValidUntil           *time.Time        `json:"validUntil"`
	Tax                  int64             `json:"tax" validate:"min=0,max=1000000000000000"`
	Notes                *string           `json:"notes" validate:"omitempty,max=5000"`
	Currency             string            `json:"currency" validate:"omitempty,len=3,alpha"`
}

// UpdateQuoteRequest is the request body for updating a draft quote.
// Omitted fields are left unchanged.
type UpdateQuoteRequest struct {
	LineItems     *[]LineItemRequest `json:"lineItems" validate:"omitempty,max=500,dive"`
	Tax           *int64             `json:"tax" validate:"omitempty,min=0,max=1000000000000000"`
	DealID        *uuid.UUID         `json:"dealId"`
	ProductPlanID *uuid.UUID         `json:"productPlanId"`
	ValidUntil    *time.Time         `json:"validUntil"`
	Notes         *string            `json:"notes" validate:"omitempty,max=5000"`
}

// TransitionRequest is the request body for a lifecycle transition.
// Expiry is time-driven and cannot be requested.
type TransitionRequest struct {
	Event     string     `json:"event" validate:"required,oneof=send accept reject convert"`
	InvoiceID *uuid.UUID `json:"invoiceId"`
}

// CalculateRequest is the request body for the preview calculation endpoint
type CalculateRequest struct {
	LineItems []LineItemRequest `json:"lineItems" validate:"max=500,dive"`
	Tax       int64             `json:"tax" validate:"min=0,max=1000000000000000"`
}

// ListQuotesRequest defines the query parameters for listing quotes
type ListQuotesRequest struct {
	Status      string `form:"status" validate:"omitempty,oneof=draft sent accepted rejected expired converted"`
	TenantOrgID string `form:"tenantOrgId" validate:"omitempty,uuid"`
	DealID      string `form:"dealId" validate:"omitempty,uuid"`
	SortBy      string `form:"sortBy" validate:"omitempty,oneof=quoteNumber status total validUntil createdAt updatedAt"`
	SortOrder   string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page        int    `form:"page" validate:"omitempty,min=1"`
	PageSize    int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// LineItemResponse is the response for a single line item
type LineItemResponse struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unitPrice"`
	Total       int64   `json:"total"`
}

// BillingResponse is the customer billing snapshot taken at creation.
type BillingResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// QuoteResponse is the response for a quote
type QuoteResponse struct {
	ID                   uuid.UUID          `json:"id"`
	QuoteNumber          string             `json:"quoteNumber"`
	Version              int                `json:"version"`
	ParentQuoteID        *uuid.UUID         `json:"parentQuoteId,omitempty"`
	TenantOrganizationID uuid.UUID          `json:"tenantOrganizationId"`
	DealID               *uuid.UUID         `json:"dealId,omitempty"`
	ProductPlanID        *uuid.UUID         `json:"productPlanId,omitempty"`
	ConvertedToInvoiceID *uuid.UUID         `json:"convertedToInvoiceId,omitempty"`
	Status               string             `json:"status"`
	Currency             string             `json:"currency"`
	LineItems            []LineItemResponse `json:"lineItems"`
	Subtotal             int64              `json:"subtotal"`
	Tax                  int64              `json:"tax"`
	Total                int64              `json:"total"`
	ValidUntil           *time.Time         `json:"validUntil,omitempty"`
	Notes                *string            `json:"notes,omitempty"`
	Billing              BillingResponse    `json:"billing"`
	CreatedByID          *uuid.UUID         `json:"createdById,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
	SentAt               *time.Time         `json:"sentAt,omitempty"`
	AcceptedAt           *time.Time         `json:"acceptedAt,omitempty"`
	RejectedAt           *time.Time         `json:"rejectedAt,omitempty"`
	ExpiredAt            *time.Time         `json:"expiredAt,omitempty"`
	ConvertedAt          *time.Time         `json:"convertedAt,omitempty"`
}

// QuoteListResponse is the paginated list response
type QuoteListResponse struct {
	Items      []QuoteResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// CalculationResponse is the result of a pricing preview.
type CalculationResponse struct {
	LineItems []LineItemResponse `json:"lineItems"`
	Subtotal  int64              `json:"subtotal"`
	Tax       int64              `json:"tax"`
	Total     int64              `json:"total"`
}

// SuccessResponse acknowledges a mutation that returns no body.
type SuccessResponse struct {
	Success bool `json:"success"`
}
