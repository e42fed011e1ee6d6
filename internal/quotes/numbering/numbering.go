// Package numbering allocates human-facing quote numbers of the form
// QUO-{TENANT_SLUG}-{N}, unique and strictly increasing per tenant.
package numbering

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// FirstNumber is the sequence value of a tenant's first quote.
const FirstNumber = 1001

const prefix = "QUO"

// Tenant is the subset of tenant data needed to build a number.
type Tenant struct {
	ID   uuid.UUID
	Name string
	Slug string
}

// TenantReader resolves tenants. Implementations return a TENANT_NOT_FOUND
// apperr when the tenant does not exist.
type TenantReader interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (Tenant, error)
}

// Counter atomically increments and returns a per-tenant counter.
// The first call for a tenant returns 1. Values are never reused.
type Counter interface {
	Increment(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// Generator hands out quote numbers.
type Generator struct {
	tenants TenantReader
	counter Counter
}

// New creates a generator.
func New(tenants TenantReader, counter Counter) *Generator {
	return &Generator{tenants: tenants, counter: counter}
}

// Next allocates the next number for tenantID. The allocation is durable on
// return; if the caller then fails to store the quote the number is skipped.
func (g *Generator) Next(ctx context.Context, tenantID uuid.UUID) (string, error) {
	tenant, err := g.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}

	seq, err := g.counter.Increment(ctx, tenantID)
	if err != nil {
		return "", err
	}

	return Format(TenantSlug(tenant), FirstNumber-1+seq), nil
}

// Format renders a quote number.
func Format(tenantSlug string, n int64) string {
	return fmt.Sprintf("%s-%s-%d", prefix, tenantSlug, n)
}

// TenantSlug returns the upper-cased slug used in numbers: the stored slug when
// present, otherwise one derived from the tenant name, otherwise the first
// block of the tenant id.
func TenantSlug(t Tenant) string {
	value := strings.TrimSpace(t.Slug)
	if value == "" {
		value = slug.Make(t.Name)
	}
	if value == "" {
		value = strings.SplitN(t.ID.String(), "-", 2)[0]
	}
	return strings.ToUpper(value)
}
