package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationEntry records the assignment of part of a request to one batch.
// AvailableBefore captures the batch's pre-allocation availability for audit.
type AllocationEntry struct {
	BatchCode         string
	ExpiryDate        *time.Time
	DepotID           *uuid.UUID
	AllocatedQuantity decimal.Decimal
	AvailableBefore   decimal.Decimal
}

// AllocationResult is the outcome of satisfying one product's requested
// quantity against the pool. Conservation invariant:
// sum of allocated quantities + Shortage == requested quantity.
type AllocationResult struct {
	Entries  []AllocationEntry
	Shortage decimal.Decimal
}

// TotalAllocated returns the summed allocated quantity across all entries
func (r AllocationResult) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Entries {
		total = total.Add(e.AllocatedQuantity)
	}
	return total
}

// FullyAllocated returns true if the whole request was satisfied
func (r AllocationResult) FullyAllocated() bool {
	return r.Shortage.IsZero()
}

// Allocate satisfies a requested quantity for one product against the pool
// using FEFO order, consuming each unit of stock at most once. Batches are
// decremented in place, so a later Allocate on the same pool sees the reduced
// availability.
//
// A non-positive quantity or a product with no batch entries allocates
// nothing and leaves the pool untouched; the shortage is max(quantity, 0).
func (p *Pool) Allocate(productID uuid.UUID, quantity decimal.Decimal) AllocationResult {
	result := AllocationResult{Entries: make([]AllocationEntry, 0)}
	if quantity.LessThanOrEqual(decimal.Zero) {
		result.Shortage = decimal.Max(quantity, decimal.Zero)
		return result
	}

	remaining := quantity
	for _, batch := range p.entries[productID] {
		if remaining.IsZero() {
			break
		}
		if !batch.HasStock() {
			continue
		}

		availableBefore := batch.AvailableQuantity
		allocated := batch.Deduct(decimal.Min(remaining, batch.AvailableQuantity))

		result.Entries = append(result.Entries, AllocationEntry{
			BatchCode:         batch.BatchCode,
			ExpiryDate:        batch.ExpiryDate,
			DepotID:           batch.DepotID,
			AllocatedQuantity: allocated,
			AvailableBefore:   availableBefore,
		})
		remaining = remaining.Sub(allocated)
	}

	result.Shortage = remaining
	return result
}
