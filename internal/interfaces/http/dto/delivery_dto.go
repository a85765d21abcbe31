package dto

import (
	"time"

	"github.com/google/uuid"
	appdelivery "github.com/pharmadist/backend/internal/application/delivery"
	"github.com/shopspring/decimal"
)

// PrepareDeliveryRequest is the wire shape of a preparation request
type PrepareDeliveryRequest struct {
	OrderID string                     `json:"order_id" binding:"required,uuid"`
	Items   []PrepareDeliveryItemInput `json:"items" binding:"required,min=1,dive"`
}

// PrepareDeliveryItemInput is one requested order line on the wire
type PrepareDeliveryItemInput struct {
	ProductID         string          `json:"product_id" binding:"required,uuid"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity" binding:"required"`
	UnitRate          decimal.Decimal `json:"unit_rate"`
}

// ToApplication converts the wire request into the application request.
// UUID format is already guaranteed by binding validation.
func (r PrepareDeliveryRequest) ToApplication() (appdelivery.PrepareDeliveryRequest, error) {
	orderID, err := uuid.Parse(r.OrderID)
	if err != nil {
		return appdelivery.PrepareDeliveryRequest{}, err
	}

	items := make([]appdelivery.OrderItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return appdelivery.PrepareDeliveryRequest{}, err
		}
		items = append(items, appdelivery.OrderItemInput{
			ProductID:         productID,
			RequestedQuantity: item.RequestedQuantity,
			UnitRate:          item.UnitRate,
		})
	}

	return appdelivery.PrepareDeliveryRequest{
		OrderID: orderID,
		Items:   items,
	}, nil
}

// DeliveryLineResponse is one prepared line on the wire
type DeliveryLineResponse struct {
	ID                       uuid.UUID       `json:"id"`
	ProductID                uuid.UUID       `json:"product_id"`
	OrderedQuantityRemainder decimal.Decimal `json:"ordered_quantity_remainder"`
	DeliveryQuantity         decimal.Decimal `json:"delivery_quantity"`
	BatchCode                string          `json:"batch_code,omitempty"`
	ExpiryDate               *time.Time      `json:"expiry_date,omitempty"`
	DepotID                  *uuid.UUID      `json:"depot_id,omitempty"`
	FreeGoodsAwarded         decimal.Decimal `json:"free_goods_awarded"`
	UnitRate                 decimal.Decimal `json:"unit_rate"`
	TradeAmount              decimal.Decimal `json:"trade_amount"`
	VATAmount                decimal.Decimal `json:"vat_amount"`
	Status                   string          `json:"status"`
	IsShortage               bool            `json:"is_shortage"`
}

// PreparationWarningResponse is one non-blocking notice on the wire
type PreparationWarningResponse struct {
	Code          string          `json:"code"`
	Message       string          `json:"message"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	ShortQuantity decimal.Decimal `json:"short_quantity"`
}

// PrepareDeliveryResponse is the complete preparation outcome on the wire
type PrepareDeliveryResponse struct {
	OrderID     uuid.UUID                    `json:"order_id"`
	Lines       []DeliveryLineResponse       `json:"lines"`
	Warnings    []PreparationWarningResponse `json:"warnings"`
	HasShortage bool                         `json:"has_shortage"`
}

// NewPrepareDeliveryResponse converts an application result to the wire shape
func NewPrepareDeliveryResponse(result *appdelivery.PreparationResult) PrepareDeliveryResponse {
	lines := make([]DeliveryLineResponse, 0, len(result.Lines))
	for i := range result.Lines {
		line := &result.Lines[i]
		lines = append(lines, DeliveryLineResponse{
			ID:                       line.ID,
			ProductID:                line.ProductID,
			OrderedQuantityRemainder: line.OrderedQuantityRemainder,
			DeliveryQuantity:         line.DeliveryQuantity,
			BatchCode:                line.BatchCode,
			ExpiryDate:               line.ExpiryDate,
			DepotID:                  line.DepotID,
			FreeGoodsAwarded:         line.FreeGoodsAwarded,
			UnitRate:                 line.UnitRate,
			TradeAmount:              line.TradeAmount,
			VATAmount:                line.VATAmount,
			Status:                   line.Status.String(),
			IsShortage:               line.IsShortage(),
		})
	}

	warnings := make([]PreparationWarningResponse, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, PreparationWarningResponse{
			Code:          w.Code,
			Message:       w.Message,
			ProductID:     w.ProductID,
			ShortQuantity: w.ShortQuantity,
		})
	}

	return PrepareDeliveryResponse{
		OrderID:     result.OrderID,
		Lines:       lines,
		Warnings:    warnings,
		HasShortage: result.HasShortage(),
	}
}
