package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vidgram-Market/service-pricing/internal/application"
	"github.com/Vidgram-Market/service-pricing/internal/platform/auth"
	"github.com/Vidgram-Market/service-pricing/internal/platform/middleware"
	"github.com/Vidgram-Market/service-pricing/internal/platform/response"
)

// QuoteHandler handles HTTP requests for booking quotes.
type QuoteHandler struct {
	service *application.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(service *application.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes registers all quote routes on the given router group.
func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	customerOnly := middleware.RequireRole(auth.RoleCustomer)

	quotes := r.Group("/quotes")
	quotes.Use(middleware.AuthMiddleware(jwtManager))
	{
		quotes.POST("", customerOnly, h.CreateQuote)
		quotes.GET("/:id", h.GetQuote)
		quotes.POST("/:id/accept", customerOnly, h.AcceptQuote)
		quotes.POST("/:id/cancel", customerOnly, h.CancelQuote)
	}
}

// CreateQuote handles POST /api/v1/quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateQuote(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// GetQuote handles GET /api/v1/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quote ID")
		return
	}

	role, _ := middleware.GetRole(c)
	dto, err := h.service.GetQuote(c.Request.Context(), quoteID, userID, role == auth.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// AcceptQuote handles POST /api/v1/quotes/:id/accept
func (h *QuoteHandler) AcceptQuote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quote ID")
		return
	}

	dto, err := h.service.AcceptQuote(c.Request.Context(), quoteID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// CancelQuote handles POST /api/v1/quotes/:id/cancel
func (h *QuoteHandler) CancelQuote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quote ID")
		return
	}

	var req application.CancelQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	dto, err := h.service.CancelQuote(c.Request.Context(), quoteID, userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}
