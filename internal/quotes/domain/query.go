package domain

import "github.com/google/uuid"

// Sort fields accepted by List.
const (
	SortByQuoteNumber = "quoteNumber"
	SortByStatus      = "status"
	SortByTotal       = "total"
	SortByValidUntil  = "validUntil"
	SortByCreatedAt   = "createdAt"
	SortByUpdatedAt   = "updatedAt"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListParams filters and pages a tenant's quotes.
type ListParams struct {
	TenantID   uuid.UUID
	Status     *Status
	CustomerID *uuid.UUID
	DealID     *uuid.UUID
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// Normalize fills defaults and clamps paging values.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.SortBy == "" {
		p.SortBy = SortByCreatedAt
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
}

// ListResult is one page of quotes.
type ListResult struct {
	Items      []Quote
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// TotalPagesFor returns the page count for total rows at pageSize.
func TotalPagesFor(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
