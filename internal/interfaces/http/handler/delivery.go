package handler

import (
	"github.com/gin-gonic/gin"
	appdelivery "github.com/pharmadist/backend/internal/application/delivery"
	"github.com/pharmadist/backend/internal/infrastructure/logger"
	"github.com/pharmadist/backend/internal/interfaces/http/dto"
	"github.com/pharmadist/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// DeliveryHandler handles delivery preparation endpoints
type DeliveryHandler struct {
	BaseHandler
	service *appdelivery.PreparationService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(service *appdelivery.PreparationService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// RegisterRoutes registers delivery routes on the given router group
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/deliveries")
	{
		deliveries.POST("/prepare", h.PrepareDelivery)
	}
}

// PrepareDelivery builds the proposed delivery lines for one order
func (h *DeliveryHandler) PrepareDelivery(c *gin.Context) {
	var req dto.PrepareDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq, err := req.ToApplication()
	if err != nil {
		h.BadRequest(c, "Invalid UUID in request")
		return
	}

	result, err := h.service.PrepareDelivery(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if len(result.Warnings) > 0 {
		log := logger.GetGinLogger(c)
		for _, w := range result.Warnings {
			log.Warn("delivery preparation warning",
				zap.String("order_id", result.OrderID.String()),
				zap.String("code", w.Code),
				zap.String("message", w.Message),
			)
		}
	}

	h.Success(c, dto.NewPrepareDeliveryResponse(result))
}
