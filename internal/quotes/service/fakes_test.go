package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"crm_console_backend/internal/quotes/domain"
	"crm_console_backend/internal/quotes/numbering"
	"crm_console_backend/platform/apperr"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu         sync.Mutex
	quotes     map[uuid.UUID]domain.Quote
	failCreate error
	failUpdate error
	// beforeStatusUpdate runs inside UpdateStatus before the status check.
	beforeStatusUpdate func(stored *domain.Quote)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{quotes: make(map[uuid.UUID]domain.Quote)}
}

func clone(q domain.Quote) domain.Quote {
	q.LineItems = append([]domain.LineItem(nil), q.LineItems...)
	return q
}

func (m *memoryStore) Create(_ context.Context, q *domain.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		err := m.failCreate
		m.failCreate = nil
		return err
	}
	for _, existing := range m.quotes {
		if existing.TenantID == q.TenantID && existing.QuoteNumber == q.QuoteNumber {
			return apperr.Conflict("quote number already in use")
		}
	}
	m.quotes[q.ID] = clone(*q)
	return nil
}

func (m *memoryStore) Update(_ context.Context, q *domain.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		return m.failUpdate
	}
	if _, ok := m.quotes[q.ID]; !ok {
		return domain.NotFound("quote")
	}
	m.quotes[q.ID] = clone(*q)
	return nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, q *domain.Quote, from domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		return m.failUpdate
	}
	stored, ok := m.quotes[q.ID]
	if !ok || stored.TenantID != q.TenantID {
		return domain.StatusChanged(from)
	}
	if m.beforeStatusUpdate != nil {
		m.beforeStatusUpdate(&stored)
		m.quotes[q.ID] = stored
	}
	if stored.Status != from {
		return domain.StatusChanged(from)
	}
	m.quotes[q.ID] = clone(*q)
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, tenantID, id uuid.UUID) (*domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[id]
	if !ok || q.TenantID != tenantID {
		return nil, domain.NotFound("quote")
	}
	out := clone(q)
	return &out, nil
}

func (m *memoryStore) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[id]
	if !ok || q.TenantID != tenantID {
		return domain.NotFound("quote")
	}
	delete(m.quotes, id)
	return nil
}

func (m *memoryStore) List(_ context.Context, params domain.ListParams) (*domain.ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]domain.Quote, 0)
	for _, q := range m.quotes {
		if q.TenantID != params.TenantID {
			continue
		}
		if params.Status != nil && q.Status != *params.Status {
			continue
		}
		if params.CustomerID != nil && q.CustomerID != *params.CustomerID {
			continue
		}
		items = append(items, clone(q))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].QuoteNumber < items[j].QuoteNumber })
	total := len(items)
	start := (params.Page - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return &domain.ListResult{
		Items:      items[start:end],
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: domain.TotalPagesFor(total, params.PageSize),
	}, nil
}

func (m *memoryStore) ListExpirable(_ context.Context, now time.Time, limit int) ([]domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Quote, 0)
	for _, q := range m.quotes {
		if q.IsExpirable(now) && len(out) < limit {
			out = append(out, clone(q))
		}
	}
	return out, nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.quotes)
}

type fakeRefs struct {
	customers map[uuid.UUID]Customer
	deals     map[uuid.UUID]bool
	plans     map[uuid.UUID]bool
}

func (f *fakeRefs) GetCustomer(_ context.Context, _ uuid.UUID, id uuid.UUID) (Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return Customer{}, domain.NotFound("customer")
	}
	return c, nil
}

func (f *fakeRefs) DealExists(_ context.Context, _ uuid.UUID, id uuid.UUID) (bool, error) {
	return f.deals[id], nil
}

func (f *fakeRefs) ProductPlanExists(_ context.Context, _ uuid.UUID, id uuid.UUID) (bool, error) {
	return f.plans[id], nil
}

type fakeTenants map[uuid.UUID]numbering.Tenant

func (f fakeTenants) GetTenant(_ context.Context, id uuid.UUID) (numbering.Tenant, error) {
	t, ok := f[id]
	if !ok {
		return numbering.Tenant{}, domain.TenantNotFound()
	}
	return t, nil
}

type memoryCounter struct {
	mu     sync.Mutex
	values map[uuid.UUID]int64
}

func (c *memoryCounter) Increment(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[uuid.UUID]int64)
	}
	c.values[id]++
	return c.values[id], nil
}

var errDatastoreDown = errors.New("connection refused")

type fixture struct {
	svc        *Service
	store      *memoryStore
	refs       *fakeRefs
	tenantID   uuid.UUID
	customerID uuid.UUID
	dealID     uuid.UUID
	planID     uuid.UUID
	now        time.Time
}

func newFixture() *fixture {
	f := &fixture{
		store:      newMemoryStore(),
		tenantID:   uuid.New(),
		customerID: uuid.New(),
		dealID:     uuid.New(),
		planID:     uuid.New(),
		now:        time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	}
	f.refs = &fakeRefs{
		customers: map[uuid.UUID]Customer{
			f.customerID: {ID: f.customerID, Name: "Globex", Email: "billing@globex.test", Phone: "+31201234567", Address: "Main 1"},
		},
		deals: map[uuid.UUID]bool{f.dealID: true},
		plans: map[uuid.UUID]bool{f.planID: true},
	}
	gen := numbering.New(fakeTenants{f.tenantID: {ID: f.tenantID, Slug: "acme"}}, &memoryCounter{})
	f.svc = New(f.store, f.refs, gen, "EUR", nil)
	f.svc.SetClock(func() time.Time { return f.now })
	return f
}

func items(lines ...LineItemInput) []LineItemInput { return lines }

func line(desc string, qty float64, price int64) LineItemInput {
	return LineItemInput{Description: desc, Quantity: qty, UnitPriceCents: price}
}

func ptr[T any](v T) *T { return &v }
