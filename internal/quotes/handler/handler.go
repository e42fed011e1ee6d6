package handler

import (
	"net/http"

	"crm_console_backend/internal/quotes/domain"
	"crm_console_backend/internal/quotes/service"
	"crm_console_backend/internal/quotes/transport"
	"crm_console_backend/platform/apperr"
	"crm_console_backend/platform/httpkit"
	"crm_console_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for quotes
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotes handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the quote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/calculate", h.Calculate)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/transitions", h.Transition)
}

// List handles GET /api/v1/quotes
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if !h.validate(c, req) {
		return
	}

	_, tenantID, ok := httpkit.MustGetTenant(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), req.ToListParams(tenantID))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewQuoteListResponse(result))
}

// Create handles POST /api/v1/quotes
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	identity, tenantID, ok := httpkit.MustGetTenant(c)
	if !ok {
		return
	}
	actorID := identity.UserID()

	quote, err := h.svc.Create(c.Request.Context(), tenantID, &actorID, req.ToCreateInput())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.NewQuoteResponse(quote))
}

// Calculate handles POST /api/v1/quotes/calculate
func (h *Handler) Calculate(c *gin.Context) {
	var req transport.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	pricing, err := h.svc.Calculate(service.CalculateInput{
		LineItems: transport.ToLineItemInputs(req.LineItems),
		TaxCents:  req.Tax,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewCalculationResponse(pricing, req.Tax))
}

// GetByID handles GET /api/v1/quotes/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	_, tenantID, ok := httpkit.MustGetTenant(c)
	if !ok {
		return
	}

	quote, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewQuoteResponse(quote))
}

// Update handles PUT /api/v1/quotes/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	_, tenantID, ok := httpkit.MustGetTenant(c)
	if !ok {
		return
	}

	if _, err := h.svc.Update(c.Request.Context(), tenantID, id, req.ToUpdateInput()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SuccessResponse{Success: true})
}

// Delete handles DELETE /api/v1/quotes/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	_, tenantID, ok := httpkit.MustGetTenant(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), tenantID, id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SuccessResponse{Success: true})
}

// Transition handles POST /api/v1/quotes/:id/transitions
func (h *Handler) Transition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}
	event, _ := domain.ParseEvent(req.Event)

	_, tenantID, ok := httpkit.MustGetTenant(c)
	if !ok {
		return
	}

	quote, err := h.svc.Transition(c.Request.Context(), tenantID, id, service.TransitionInput{
		Event:     event,
		InvoiceID: req.InvoiceID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewQuoteResponse(quote))
}

func (h *Handler) validate(c *gin.Context, req interface{}) bool {
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.Fields(err)))
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
