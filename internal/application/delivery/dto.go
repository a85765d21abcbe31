package delivery

import (
	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/delivery"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Warning codes surfaced by delivery preparation. None of them is fatal.
const (
	WarningMasterDataUnavailable = "MASTER_DATA_UNAVAILABLE"
	WarningLedgerUnavailable     = "LEDGER_UNAVAILABLE"
	WarningShortageDetected      = "SHORTAGE_DETECTED"
)

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID         uuid.UUID
	RequestedQuantity decimal.Decimal
	UnitRate          decimal.Decimal // optional, zero means use the policy rate
}

// PrepareDeliveryRequest carries one order's items into a preparation session
type PrepareDeliveryRequest struct {
	OrderID uuid.UUID
	Items   []OrderItemInput
}

// Validate checks the request shape
func (r PrepareDeliveryRequest) Validate() error {
	if len(r.Items) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Delivery preparation requires at least one order item")
	}
	for _, item := range r.Items {
		if item.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Order item product ID cannot be empty")
		}
		if item.RequestedQuantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Requested quantity cannot be negative")
		}
		if item.UnitRate.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Unit rate cannot be negative")
		}
	}
	return nil
}

// productIDs returns the distinct product IDs across all items, in first-seen order
func (r PrepareDeliveryRequest) productIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(r.Items))
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// PreparationWarning is a non-blocking notice attached to a preparation result
type PreparationWarning struct {
	Code          string
	Message       string
	ProductID     *uuid.UUID
	ShortQuantity decimal.Decimal
}

// PreparationResult is the complete outcome of one preparation session
type PreparationResult struct {
	OrderID  uuid.UUID
	Lines    []delivery.DeliveryLineItem
	Warnings []PreparationWarning
}

// HasShortage returns true if any line is a shortage line
func (r *PreparationResult) HasShortage() bool {
	for i := range r.Lines {
		if r.Lines[i].IsShortage() {
			return true
		}
	}
	return false
}

func newMasterDataWarning(err error) PreparationWarning {
	return PreparationWarning{
		Code:    WarningMasterDataUnavailable,
		Message: "Product master unavailable, pricing and free goods will need manual entry: " + err.Error(),
	}
}

func newLedgerWarning(err error) PreparationWarning {
	return PreparationWarning{
		Code:    WarningLedgerUnavailable,
		Message: "Stock ledger unavailable, all lines recorded as shortage: " + err.Error(),
	}
}

func newShortageWarning(productID uuid.UUID, short decimal.Decimal) PreparationWarning {
	return PreparationWarning{
		Code:          WarningShortageDetected,
		Message:       "Insufficient stock, " + short.String() + " units unfulfilled",
		ProductID:     &productID,
		ShortQuantity: short,
	}
}
