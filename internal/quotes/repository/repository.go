package repository

import (
	"context"
	"errors"
	"time"

	"crm_console_backend/internal/quotes/domain"
	"crm_console_backend/internal/quotes/numbering"
	"crm_console_backend/platform/apperr"
	"crm_console_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quoteNotFoundMsg = "quote"

const quoteColumns = `
		id, tenant_id, quote_number, version, parent_quote_id,
		customer_id, deal_id, product_plan_id, converted_to_invoice_id,
		status, currency, line_items, subtotal_cents, tax_cents, total_cents,
		valid_until, notes, billing_name, billing_email, billing_phone, billing_address,
		created_by_id, created_at, updated_at,
		sent_at, accepted_at, rejected_at, expired_at, converted_at`

// quoteSequenceExpr extracts the numeric suffix of a quote number so that
// QUO-ACME-10000 sorts after QUO-ACME-9999.
const quoteSequenceExpr = `CAST(substring(quote_number from '([0-9]+)$') AS BIGINT)`

const listOrderBy = `
			CASE WHEN $5 = 'quoteNumber' AND $6 = 'asc' THEN ` + quoteSequenceExpr + ` END ASC,
			CASE WHEN $5 = 'quoteNumber' AND $6 = 'desc' THEN ` + quoteSequenceExpr + ` END DESC,
			CASE WHEN $5 = 'status' AND $6 = 'asc' THEN status END ASC,
			CASE WHEN $5 = 'status' AND $6 = 'desc' THEN status END DESC,
			CASE WHEN $5 = 'total' AND $6 = 'asc' THEN total_cents END ASC,
			CASE WHEN $5 = 'total' AND $6 = 'desc' THEN total_cents END DESC,
			CASE WHEN $5 = 'validUntil' AND $6 = 'asc' THEN valid_until END ASC,
			CASE WHEN $5 = 'validUntil' AND $6 = 'desc' THEN valid_until END DESC,
			CASE WHEN $5 = 'createdAt' AND $6 = 'asc' THEN created_at END ASC,
			CASE WHEN $5 = 'createdAt' AND $6 = 'desc' THEN created_at END DESC,
			CASE WHEN $5 = 'updatedAt' AND $6 = 'asc' THEN updated_at END ASC,
			CASE WHEN $5 = 'updatedAt' AND $6 = 'desc' THEN updated_at END DESC,
			created_at DESC`

// Repository provides database operations for quotes
type Repository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// New creates a new quotes repository
func New(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	if log == nil {
		log = logger.Discard()
	}
	return &Repository{pool: pool, log: log}
}

// Increment atomically bumps the tenant's quote counter and returns the new value.
// It runs as its own statement so the allocation survives a later failed insert.
func (r *Repository) Increment(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var next int64
	query := `
		INSERT INTO quote_counters (tenant_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET last_number = quote_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, tenantID).Scan(&next); err != nil {
		return 0, r.storageError("increment quote counter", err)
	}
	return next, nil
}

// LastNumber returns the highest counter value the tenant has used: the stored
// counter or the largest issued quote number, whichever is further along.
func (r *Repository) LastNumber(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var last int64
	query := `
		SELECT GREATEST(
			COALESCE((SELECT last_number FROM quote_counters WHERE tenant_id = $1), 0),
			COALESCE((SELECT MAX(` + quoteSequenceExpr + `) FROM quotes WHERE tenant_id = $1) - $2, 0)
		)`

	if err := r.pool.QueryRow(ctx, query, tenantID, int64(numbering.FirstNumber-1)).Scan(&last); err != nil {
		return 0, r.storageError("load quote counter", err)
	}
	return last, nil
}

// Create inserts a quote.
func (r *Repository) Create(ctx context.Context, q *domain.Quote) error {
	items, err := encodeLineItems(q.LineItems)
	if err != nil {
		return apperr.Internal("encode line items").WithOp("create quote")
	}

	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`

	if _, err := r.pool.Exec(ctx, query,
		q.ID, q.TenantID, q.QuoteNumber, q.Version, q.ParentQuoteID,
		q.CustomerID, q.DealID, q.ProductPlanID, q.ConvertedToInvoiceID,
		string(q.Status), q.Currency, items, q.SubtotalCents, q.TaxCents, q.TotalCents,
		q.ValidUntil, q.Notes, q.Billing.Name, q.Billing.Email, q.Billing.Phone, q.Billing.Address,
		q.CreatedByID, q.CreatedAt, q.UpdatedAt,
		q.SentAt, q.AcceptedAt, q.RejectedAt, q.ExpiredAt, q.ConvertedAt,
	); err != nil {
		return r.storageError("create quote", err)
	}
	return nil
}

// Update writes the mutable fields of a quote: content, pricing, status and
// lifecycle timestamps. Number, customer, currency and billing snapshot never change.
func (r *Repository) Update(ctx context.Context, q *domain.Quote) error {
	items, err := encodeLineItems(q.LineItems)
	if err != nil {
		return apperr.Internal("encode line items").WithOp("update quote")
	}

	query := `
		UPDATE quotes SET
			deal_id = $3, product_plan_id = $4, converted_to_invoice_id = $5,
			status = $6, line_items = $7, subtotal_cents = $8, tax_cents = $9, total_cents = $10,
			valid_until = $11, notes = $12, updated_at = $13,
			sent_at = $14, accepted_at = $15, rejected_at = $16, expired_at = $17, converted_at = $18
		WHERE id = $1 AND tenant_id = $2`

	result, err := r.pool.Exec(ctx, query,
		q.ID, q.TenantID, q.DealID, q.ProductPlanID, q.ConvertedToInvoiceID,
		string(q.Status), items, q.SubtotalCents, q.TaxCents, q.TotalCents,
		q.ValidUntil, q.Notes, q.UpdatedAt,
		q.SentAt, q.AcceptedAt, q.RejectedAt, q.ExpiredAt, q.ConvertedAt,
	)
	if err != nil {
		return r.storageError("update quote", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// UpdateStatus writes a status transition. The write only applies while the
// stored status is still from, so a stale transition cannot overwrite a newer one.
func (r *Repository) UpdateStatus(ctx context.Context, q *domain.Quote, from domain.Status) error {
	query := `
		UPDATE quotes SET
			status = $3, converted_to_invoice_id = $4, updated_at = $5,
			sent_at = $6, accepted_at = $7, rejected_at = $8, expired_at = $9, converted_at = $10
		WHERE id = $1 AND tenant_id = $2 AND status = $11`

	result, err := r.pool.Exec(ctx, query,
		q.ID, q.TenantID, string(q.Status), q.ConvertedToInvoiceID, q.UpdatedAt,
		q.SentAt, q.AcceptedAt, q.RejectedAt, q.ExpiredAt, q.ConvertedAt,
		string(from),
	)
	if err != nil {
		return r.storageError("update quote status", err)
	}
	if result.RowsAffected() == 0 {
		return domain.StatusChanged(from)
	}
	return nil
}

// GetByID retrieves a quote by its ID scoped to tenant
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1 AND tenant_id = $2`

	q, err := r.scanQuote(ctx, r.pool.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(quoteNotFoundMsg)
		}
		return nil, r.storageError("get quote", err)
	}
	return q, nil
}

// Delete removes a quote.
func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return r.storageError("delete quote", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// List retrieves quotes with filtering and pagination
func (r *Repository) List(ctx context.Context, params domain.ListParams) (*domain.ListResult, error) {
	params.Normalize()
	sortBy, err := resolveSortBy(params.SortBy)
	if err != nil {
		return nil, err
	}
	sortOrder, err := resolveSortOrder(params.SortOrder)
	if err != nil {
		return nil, err
	}

	var statusParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}
	var customerParam interface{}
	if params.CustomerID != nil {
		customerParam = *params.CustomerID
	}
	var dealParam interface{}
	if params.DealID != nil {
		dealParam = *params.DealID
	}

	baseQuery := `
		FROM quotes
		WHERE tenant_id = $1
			AND ($2::text IS NULL OR status = $2)
			AND ($3::uuid IS NULL OR customer_id = $3)
			AND ($4::uuid IS NULL OR deal_id = $4)
	`
	args := []interface{}{params.TenantID, statusParam, customerParam, dealParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, r.storageError("count quotes", err)
	}

	offset := (params.Page - 1) * params.PageSize
	selectQuery := `SELECT ` + quoteColumns + baseQuery + `
		ORDER BY ` + listOrderBy + `
		LIMIT $7 OFFSET $8`
	args = append(args, sortBy, sortOrder, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, r.storageError("list quotes", err)
	}
	items, err := r.collect(ctx, rows)
	if err != nil {
		return nil, err
	}

	return &domain.ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: domain.TotalPagesFor(total, params.PageSize),
	}, nil
}

// ListExpirable returns sent quotes, across all tenants, whose validity ended before now.
func (r *Repository) ListExpirable(ctx context.Context, now time.Time, limit int) ([]domain.Quote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM quotes
		WHERE status = 'sent' AND valid_until IS NOT NULL AND valid_until < $1
		ORDER BY valid_until ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, r.storageError("list expirable quotes", err)
	}
	return r.collect(ctx, rows)
}

func (r *Repository) collect(ctx context.Context, rows pgx.Rows) ([]domain.Quote, error) {
	defer rows.Close()

	items := make([]domain.Quote, 0)
	for rows.Next() {
		q, err := r.scanQuote(ctx, rows)
		if err != nil {
			return nil, r.storageError("scan quote", err)
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storageError("iterate quotes", err)
	}
	return items, nil
}

func (r *Repository) scanQuote(ctx context.Context, row pgx.Row) (*domain.Quote, error) {
	var (
		q      domain.Quote
		status string
		items  []byte
	)
	if err := row.Scan(
		&q.ID, &q.TenantID, &q.QuoteNumber, &q.Version, &q.ParentQuoteID,
		&q.CustomerID, &q.DealID, &q.ProductPlanID, &q.ConvertedToInvoiceID,
		&status, &q.Currency, &items, &q.SubtotalCents, &q.TaxCents, &q.TotalCents,
		&q.ValidUntil, &q.Notes, &q.Billing.Name, &q.Billing.Email, &q.Billing.Phone, &q.Billing.Address,
		&q.CreatedByID, &q.CreatedAt, &q.UpdatedAt,
		&q.SentAt, &q.AcceptedAt, &q.RejectedAt, &q.ExpiredAt, &q.ConvertedAt,
	); err != nil {
		return nil, err
	}

	q.Status = domain.Status(status)
	lineItems, err := decodeLineItems(items)
	if err != nil {
		r.log.WithContext(ctx).Warn("quote_line_items_corrupt",
			"quote_id", q.ID.String(),
			"quote_number", q.QuoteNumber,
			"error", err,
		)
	}
	q.LineItems = lineItems
	return &q, nil
}

func (r *Repository) storageError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict("quote number already in use").WithOp(op)
	}
	r.log.DatabaseError(op, err)
	return apperr.Storage(op, err)
}

const uniqueViolation = "23505"

func resolveSortBy(sortBy string) (string, error) {
	switch sortBy {
	case domain.SortByQuoteNumber, domain.SortByStatus, domain.SortByTotal,
		domain.SortByValidUntil, domain.SortByCreatedAt, domain.SortByUpdatedAt:
		return sortBy, nil
	default:
		return "", apperr.BadRequest("invalid sort field")
	}
}

func resolveSortOrder(sortOrder string) (string, error) {
	switch sortOrder {
	case "asc", "desc":
		return sortOrder, nil
	default:
		return "", apperr.BadRequest("invalid sort order")
	}
}
