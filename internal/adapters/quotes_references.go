package adapters

import (
	"context"
	"errors"
	"strings"

	"crm_console_backend/internal/directory"
	"crm_console_backend/internal/quotes/domain"
	"crm_console_backend/internal/quotes/numbering"
	quotesvc "crm_console_backend/internal/quotes/service"
	"crm_console_backend/platform/apperr"
	"crm_console_backend/platform/phone"

	"github.com/google/uuid"
)

// DirectoryReader is the narrow view of the directory repository the quotes module needs.
type DirectoryReader interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (directory.Tenant, error)
	GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (directory.Customer, error)
	DealExists(ctx context.Context, tenantID, dealID uuid.UUID) (bool, error)
	ProductPlanExists(ctx context.Context, tenantID, planID uuid.UUID) (bool, error)
}

// QuotesReferenceReader adapts the directory repository to quotes/service.ReferenceReader
// and numbering.TenantReader.
type QuotesReferenceReader struct {
	dir DirectoryReader
}

// NewQuotesReferenceReader creates a new reference reader adapter.
func NewQuotesReferenceReader(dir DirectoryReader) *QuotesReferenceReader {
	return &QuotesReferenceReader{dir: dir}
}

// GetCustomer returns the customer's billing identity with the phone in E.164 when it parses.
func (a *QuotesReferenceReader) GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (quotesvc.Customer, error) {
	c, err := a.dir.GetCustomer(ctx, tenantID, customerID)
	if errors.Is(err, directory.ErrNotFound) {
		return quotesvc.Customer{}, domain.NotFound("customer")
	}
	if err != nil {
		return quotesvc.Customer{}, apperr.Storage("get customer", err)
	}

	return quotesvc.Customer{
		ID:      c.ID,
		Name:    c.Name,
		Email:   strings.TrimSpace(deref(c.BillingEmail)),
		Phone:   phone.NormalizeE164(deref(c.BillingPhone), phone.DefaultRegion),
		Address: strings.TrimSpace(deref(c.BillingAddress)),
	}, nil
}

// DealExists reports whether the deal belongs to the tenant.
func (a *QuotesReferenceReader) DealExists(ctx context.Context, tenantID, dealID uuid.UUID) (bool, error) {
	ok, err := a.dir.DealExists(ctx, tenantID, dealID)
	if err != nil {
		return false, apperr.Storage("check deal", err)
	}
	return ok, nil
}

// ProductPlanExists reports whether the product plan belongs to the tenant.
func (a *QuotesReferenceReader) ProductPlanExists(ctx context.Context, tenantID, planID uuid.UUID) (bool, error) {
	ok, err := a.dir.ProductPlanExists(ctx, tenantID, planID)
	if err != nil {
		return false, apperr.Storage("check product plan", err)
	}
	return ok, nil
}

// GetTenant implements numbering.TenantReader.
func (a *QuotesReferenceReader) GetTenant(ctx context.Context, tenantID uuid.UUID) (numbering.Tenant, error) {
	t, err := a.dir.GetTenant(ctx, tenantID)
	if errors.Is(err, directory.ErrNotFound) {
		return numbering.Tenant{}, domain.TenantNotFound()
	}
	if err != nil {
		return numbering.Tenant{}, apperr.Storage("get tenant", err)
	}
	return numbering.Tenant{ID: t.ID, Name: t.Name, Slug: deref(t.Slug)}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ quotesvc.ReferenceReader = (*QuotesReferenceReader)(nil)
	_ numbering.TenantReader   = (*QuotesReferenceReader)(nil)
)
