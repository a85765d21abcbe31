package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VATRate is the fixed value-added tax rate applied to every trade amount
var VATRate = decimal.NewFromFloat(0.15)

// LineStatus represents the status of a delivery line item
type LineStatus string

const (
	LineStatusPending LineStatus = "PENDING"
	LineStatusDraft   LineStatus = "DRAFT"
)

// IsValid checks if the status is a valid LineStatus
func (s LineStatus) IsValid() bool {
	switch s {
	case LineStatusPending, LineStatusDraft:
		return true
	}
	return false
}

// String returns the string representation of LineStatus
func (s LineStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The flow is one-way: a pending line becomes a draft and stays there;
// downstream confirmation status is owned by the order collaborator.
func (s LineStatus) CanTransitionTo(target LineStatus) bool {
	return s == LineStatusPending && target == LineStatusDraft
}

// DeliveryLineItem is one output row of delivery preparation: either a batch
// allocation with pricing and free goods attached, or a synthetic shortage
// line representing demand that could not be satisfied from available stock.
type DeliveryLineItem struct {
	shared.BaseEntity
	ProductID                uuid.UUID
	OrderedQuantityRemainder decimal.Decimal // ordered quantity still unsatisfied after this line
	DeliveryQuantity         decimal.Decimal
	BatchCode                string
	ExpiryDate               *time.Time
	DepotID                  *uuid.UUID
	FreeGoodsAwarded         decimal.Decimal
	UnitRate                 decimal.Decimal
	TradeAmount              decimal.Decimal
	VATAmount                decimal.Decimal
	Status                   LineStatus
}

// IsShortage returns true if this is a synthetic shortage line
func (l *DeliveryLineItem) IsShortage() bool {
	return l.DeliveryQuantity.IsZero() && l.BatchCode == ""
}

// UpdateDeliveryQuantity changes the delivery quantity and recomputes the
// trade and VAT amounts
func (l *DeliveryLineItem) UpdateDeliveryQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Delivery quantity cannot be negative")
	}
	l.DeliveryQuantity = quantity
	l.reprice()
	return nil
}

// UpdateUnitRate changes the unit rate and recomputes the trade and VAT amounts
func (l *DeliveryLineItem) UpdateUnitRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit rate cannot be negative")
	}
	l.UnitRate = rate
	l.reprice()
	return nil
}

// UpdateTradeAmount overrides the trade amount directly and recomputes only
// the VAT amount; the unit rate and delivery quantity are left as entered.
func (l *DeliveryLineItem) UpdateTradeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Trade amount cannot be negative")
	}
	l.TradeAmount = amount.Round(2)
	l.VATAmount = l.TradeAmount.Mul(VATRate).Round(2)
	l.UpdatedAt = time.Now()
	return nil
}

// MarkDraft transitions the line from pending to draft. Quantities and
// pricing are untouched.
func (l *DeliveryLineItem) MarkDraft() error {
	if !l.Status.CanTransitionTo(LineStatusDraft) {
		return shared.ErrInvalidState
	}
	l.Status = LineStatusDraft
	l.UpdatedAt = time.Now()
	return nil
}

// reprice recomputes TradeAmount and VATAmount from the pricing identity:
// trade = rate * quantity, vat = trade * VATRate.
func (l *DeliveryLineItem) reprice() {
	l.TradeAmount = l.UnitRate.Mul(l.DeliveryQuantity).Round(2)
	l.VATAmount = l.TradeAmount.Mul(VATRate).Round(2)
	l.UpdatedAt = time.Now()
}
