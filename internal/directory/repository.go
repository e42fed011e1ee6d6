// Package directory reads the tenant-owned reference data quotes point at:
// tenants, customer organizations, deals and product plans.
package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Tenant struct {
	ID   uuid.UUID
	Name string
	Slug *string
}

type Customer struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Name           string
	BillingEmail   *string
	BillingPhone   *string
	BillingAddress *string
}

func (r *Repository) GetTenant(ctx context.Context, tenantID uuid.UUID) (Tenant, error) {
	var t Tenant
	err := r.pool.QueryRow(ctx, `
    SELECT id, name, slug
    FROM tenants
    WHERE id = $1
  `, tenantID).Scan(&t.ID, &t.Name, &t.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, ErrNotFound
	}
	return t, err
}

func (r *Repository) GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `
    SELECT id, tenant_id, name, billing_email, billing_phone, billing_address
    FROM customers
    WHERE id = $1 AND tenant_id = $2
  `, customerID, tenantID).Scan(&c.ID, &c.TenantID, &c.Name, &c.BillingEmail, &c.BillingPhone, &c.BillingAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) DealExists(ctx context.Context, tenantID, dealID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM deals WHERE id = $1 AND tenant_id = $2)`, dealID, tenantID)
}

func (r *Repository) ProductPlanExists(ctx context.Context, tenantID, planID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM product_plans WHERE id = $1 AND tenant_id = $2)`, planID, tenantID)
}

func (r *Repository) exists(ctx context.Context, query string, id, tenantID uuid.UUID) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
