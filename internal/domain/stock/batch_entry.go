package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchEntry represents one physical lot of stock for one product as reported
// by the external stock ledger: batch code, optional expiry date, optional
// depot, and the quantity still available. Entries are mutated in place by the
// allocation engine within one delivery-preparation session and discarded
// afterwards; the ledger collaborator owns the persistent stock reduction.
type BatchEntry struct {
	ProductID         uuid.UUID
	DepotID           *uuid.UUID
	BatchCode         string
	ExpiryDate        *time.Time
	AvailableQuantity decimal.Decimal
}

// HasExpiry returns true if the batch carries an expiry date
func (b *BatchEntry) HasExpiry() bool {
	return b.ExpiryDate != nil
}

// HasStock returns true if the batch has available quantity
func (b *BatchEntry) HasStock() bool {
	return b.AvailableQuantity.IsPositive()
}

// Deduct reduces the available quantity, clamping at zero.
// Returns the quantity actually deducted (may be less than requested).
func (b *BatchEntry) Deduct(quantity decimal.Decimal) decimal.Decimal {
	if quantity.GreaterThan(b.AvailableQuantity) {
		deducted := b.AvailableQuantity
		b.AvailableQuantity = decimal.Zero
		return deducted
	}
	b.AvailableQuantity = b.AvailableQuantity.Sub(quantity)
	return quantity
}
