package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vidgram-Market/service-pricing/internal/application"
	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/platform/auth"
	"github.com/Vidgram-Market/service-pricing/internal/platform/middleware"
	"github.com/Vidgram-Market/service-pricing/internal/platform/response"
)

// PricingHandler handles HTTP requests for creator pricing configuration.
type PricingHandler struct {
	service *application.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(service *application.PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// RegisterRoutes registers all creator pricing routes on the given router group.
func (h *PricingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	creators := r.Group("/creators")
	{
		creators.PUT("/me/pricing", authMW, middleware.RequireRole(auth.RoleCreator), h.UpsertPricing)
		creators.GET("/:creatorId/pricing", h.GetPricing)
		creators.GET("/:creatorId/rush-availability", h.RushAvailability)
	}

	r.POST("/pricing/validate", authMW, middleware.RequireRole(auth.RoleCreator, auth.RoleAdmin), h.ValidatePricing)
}

// UpsertPricing handles PUT /api/v1/creators/me/pricing
func (h *PricingHandler) UpsertPricing(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req pricing.PricingConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.UpsertConfig(c.Request.Context(), userID, req)
	if err != nil {
		var cfgErr *pricing.ConfigError
		if errors.As(err, &cfgErr) {
			response.ValidationFailed(c, cfgErr.Message, cfgErr.Failures)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// GetPricing handles GET /api/v1/creators/:creatorId/pricing
func (h *PricingHandler) GetPricing(c *gin.Context) {
	creatorID, err := uuid.Parse(c.Param("creatorId"))
	if err != nil {
		response.BadRequest(c, "invalid creator ID")
		return
	}

	dto, err := h.service.GetConfig(c.Request.Context(), creatorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// RushAvailability handles GET /api/v1/creators/:creatorId/rush-availability
func (h *PricingHandler) RushAvailability(c *gin.Context) {
	creatorID, err := uuid.Parse(c.Param("creatorId"))
	if err != nil {
		response.BadRequest(c, "invalid creator ID")
		return
	}

	dto, err := h.service.RushAvailability(c.Request.Context(), creatorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// ValidatePricing handles POST /api/v1/pricing/validate
func (h *PricingHandler) ValidatePricing(c *gin.Context) {
	var req pricing.PricingConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.service.ValidateConfig(req))
}
