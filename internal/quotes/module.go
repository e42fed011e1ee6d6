// Package quotes provides the quotes domain module.
package quotes

import (
	"fmt"

	"crm_console_backend/internal/adapters"
	"crm_console_backend/internal/directory"
	"crm_console_backend/internal/events"
	apphttp "crm_console_backend/internal/http"
	"crm_console_backend/internal/quotes/handler"
	"crm_console_backend/internal/quotes/numbering"
	"crm_console_backend/internal/quotes/repository"
	"crm_console_backend/internal/quotes/service"
	"crm_console_backend/platform/config"
	"crm_console_backend/platform/logger"
	"crm_console_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates a new quotes module with all dependencies wired.
// redisClient is only used when the counter backend is redis and may be nil otherwise.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.QuotesConfig, redisClient redis.UniversalClient, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool, log)
	refs := adapters.NewQuotesReferenceReader(directory.New(pool))

	var counter numbering.Counter
	switch cfg.GetQuoteCounterBackend() {
	case config.CounterBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("quote counter backend is redis but no redis client was provided")
		}
		counter = numbering.NewRedisCounter(redisClient, repo)
	default:
		counter = repo
	}

	svc := service.New(repo, refs, numbering.New(refs, counter), cfg.GetQuoteDefaultCurrency(), log)
	if eventBus != nil {
		svc.SetEventBus(eventBus)
		service.NewActivityLogger(log).Subscribe(eventBus)
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
