package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Vidgram-Market/service-pricing/internal/application"
	"github.com/Vidgram-Market/service-pricing/internal/platform/auth"
	"github.com/Vidgram-Market/service-pricing/internal/platform/middleware"
	"github.com/Vidgram-Market/service-pricing/internal/platform/response"
)

// InsightsHandler serves price recommendations and display copy.
type InsightsHandler struct {
	service *application.PricingService
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(service *application.PricingService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// RegisterRoutes registers the insight routes.
func (h *InsightsHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	insights := r.Group("/insights")
	{
		insights.POST("/optimal-price",
			middleware.AuthMiddleware(jwtManager),
			middleware.RequireRole(auth.RoleCreator, auth.RoleAdmin),
			h.OptimalPrice,
		)
		insights.POST("/psychological-price", h.PsychologicalPrice)
		insights.POST("/messages", h.Messages)
		insights.GET("/format-price", h.FormatPrice)
	}
}

// OptimalPrice handles POST /api/v1/insights/optimal-price
func (h *InsightsHandler) OptimalPrice(c *gin.Context) {
	var req application.OptimalPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.OptimalPrice(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// PsychologicalPrice handles POST /api/v1/insights/psychological-price
func (h *InsightsHandler) PsychologicalPrice(c *gin.Context) {
	var req application.PsychologicalPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.service.PsychologicalPrice(req))
}

// Messages handles POST /api/v1/insights/messages
func (h *InsightsHandler) Messages(c *gin.Context) {
	var req application.MessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.service.Messages(req))
}

// FormatPrice handles GET /api/v1/insights/format-price?amount_cents=&currency=
func (h *InsightsHandler) FormatPrice(c *gin.Context) {
	amount, err := strconv.ParseInt(c.Query("amount_cents"), 10, 64)
	if err != nil {
		response.BadRequest(c, "amount_cents must be an integer")
		return
	}
	currency := c.DefaultQuery("currency", "USD")

	response.Success(c, h.service.FormatPrice(amount, currency))
}
