package transport

import (
	"crm_console_backend/internal/quotes/domain"
	"crm_console_backend/internal/quotes/service"

	"github.com/google/uuid"
)

// ToLineItemInputs converts request line items into service inputs.
func ToLineItemInputs(in []LineItemRequest) []service.LineItemInput {
	out := make([]service.LineItemInput, len(in))
	for i, item := range in {
		out[i] = service.LineItemInput{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPrice,
			TotalCents:     item.Total,
		}
	}
	return out
}

// ToCreateInput converts a create request.
func (r CreateQuoteRequest) ToCreateInput() service.CreateInput {
	customerID := uuid.Nil
	if r.TenantOrganizationID != nil {
		customerID = *r.TenantOrganizationID
	}
	return service.CreateInput{
		CustomerID:    customerID,
		LineItems:     ToLineItemInputs(r.LineItems),
		DealID:        r.DealID,
		ProductPlanID: r.ProductPlanID,
		ValidUntil:    r.ValidUntil,
		TaxCents:      r.Tax,
		Notes:         r.Notes,
		Currency:      r.Currency,
	}
}

// ToUpdateInput converts an update request.
func (r UpdateQuoteRequest) ToUpdateInput() service.UpdateInput {
	in := service.UpdateInput{
		TaxCents:      r.Tax,
		DealID:        r.DealID,
		ProductPlanID: r.ProductPlanID,
		ValidUntil:    r.ValidUntil,
		Notes:         r.Notes,
	}
	if r.LineItems != nil {
		items := ToLineItemInputs(*r.LineItems)
		in.LineItems = &items
	}
	return in
}

// ToListParams converts list query parameters. The request must have passed validation.
func (r ListQuotesRequest) ToListParams(tenantID uuid.UUID) domain.ListParams {
	params := domain.ListParams{
		TenantID:  tenantID,
		SortBy:    r.SortBy,
		SortOrder: r.SortOrder,
		Page:      r.Page,
		PageSize:  r.PageSize,
	}
	if status, ok := domain.ParseStatus(r.Status); ok {
		params.Status = &status
	}
	if id, err := uuid.Parse(r.TenantOrgID); err == nil {
		params.CustomerID = &id
	}
	if id, err := uuid.Parse(r.DealID); err == nil {
		params.DealID = &id
	}
	params.Normalize()
	return params
}

// NewLineItemResponses maps domain line items to their wire shape.
func NewLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPriceCents,
			Total:       item.TotalCents,
		}
	}
	return out
}

// NewQuoteResponse maps a quote to its wire shape.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:                   q.ID,
		QuoteNumber:          q.QuoteNumber,
		Version:              q.Version,
		ParentQuoteID:        q.ParentQuoteID,
		TenantOrganizationID: q.CustomerID,
		DealID:               q.DealID,
		ProductPlanID:        q.ProductPlanID,
		ConvertedToInvoiceID: q.ConvertedToInvoiceID,
		Status:               string(q.Status),
		Currency:             q.Currency,
		LineItems:            NewLineItemResponses(q.LineItems),
		Subtotal:             q.SubtotalCents,
		Tax:                  q.TaxCents,
		Total:                q.TotalCents,
		ValidUntil:           q.ValidUntil,
		Notes:                q.Notes,
		Billing: BillingResponse{
			Name:    q.Billing.Name,
			Email:   q.Billing.Email,
			Phone:   q.Billing.Phone,
			Address: q.Billing.Address,
		},
		CreatedByID: q.CreatedByID,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		SentAt:      q.SentAt,
		AcceptedAt:  q.AcceptedAt,
		RejectedAt:  q.RejectedAt,
		ExpiredAt:   q.ExpiredAt,
		ConvertedAt: q.ConvertedAt,
	}
}

// NewQuoteListResponse maps a page of quotes.
func NewQuoteListResponse(result *domain.ListResult) QuoteListResponse {
	items := make([]QuoteResponse, len(result.Items))
	for i := range result.Items {
		items[i] = NewQuoteResponse(&result.Items[i])
	}
	return QuoteListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

// NewCalculationResponse maps a pricing result.
func NewCalculationResponse(p domain.Pricing, taxCents int64) CalculationResponse {
	return CalculationResponse{
		LineItems: NewLineItemResponses(p.LineItems),
		Subtotal:  p.SubtotalCents,
		Tax:       taxCents,
		Total:     p.TotalCents,
	}
}
