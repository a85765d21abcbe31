package stock

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pool holds the mutable batch availability for one delivery-preparation
// session, grouped by product and sorted for FEFO consumption. Each session
// works on its own Pool (or a Clone of a shared one) so that stock consumed
// by one order line is unavailable to later lines of the same session without
// leaking into other sessions.
type Pool struct {
	entries map[uuid.UUID][]*BatchEntry
}

// NewPool groups the given batch entries by product and sorts each group in
// FEFO order: ascending expiry date, with undated batches after all dated
// ones so unknown-expiry stock is consumed last. Batch code is the final
// tie-break to keep allocation order deterministic.
func NewPool(entries []BatchEntry) *Pool {
	pool := &Pool{entries: make(map[uuid.UUID][]*BatchEntry)}
	for i := range entries {
		e := entries[i]
		pool.entries[e.ProductID] = append(pool.entries[e.ProductID], &e)
	}

	for _, group := range pool.entries {
		sort.Slice(group, func(i, j int) bool {
			iExpiry, jExpiry := group[i].ExpiryDate, group[j].ExpiryDate
			if iExpiry != nil && jExpiry != nil {
				if !iExpiry.Equal(*jExpiry) {
					return iExpiry.Before(*jExpiry)
				}
			} else if iExpiry != nil {
				return true // i has expiry, j doesn't - use expiring stock first
			} else if jExpiry != nil {
				return false
			}
			return group[i].BatchCode < group[j].BatchCode
		})
	}
	return pool
}

// Clone deep-copies the pool so concurrent or repeated allocation runs do not
// interfere with each other's in-flight consumption.
func (p *Pool) Clone() *Pool {
	clone := &Pool{entries: make(map[uuid.UUID][]*BatchEntry, len(p.entries))}
	for productID, group := range p.entries {
		copied := make([]*BatchEntry, len(group))
		for i, e := range group {
			c := *e
			copied[i] = &c
		}
		clone.entries[productID] = copied
	}
	return clone
}

// Batches returns the pool's entries for a product in FEFO order.
// An empty result is valid and means no stock is available.
func (p *Pool) Batches(productID uuid.UUID) []*BatchEntry {
	return p.entries[productID]
}

// TotalAvailable returns the summed available quantity for a product
func (p *Pool) TotalAvailable(productID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.entries[productID] {
		total = total.Add(e.AvailableQuantity)
	}
	return total
}

// ProductCount returns the number of products with at least one batch entry
func (p *Pool) ProductCount() int {
	return len(p.entries)
}
