package delivery

import (
	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/catalog"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line from the source order. UnitRate is optional;
// when zero the product policy's trade rate is used.
type OrderItemRequest struct {
	ProductID         uuid.UUID
	RequestedQuantity decimal.Decimal
	UnitRate          decimal.Decimal
}

// BuildLines turns one order item into delivery line items: it allocates the
// requested quantity against the pool in FEFO order, distributes the policy's
// free-goods bonus across the resulting batch lines, prices each line, and
// appends a shortage line for any unmet remainder.
//
// The pool is consumed in place, so lines built for a later item of the same
// order see the reduced availability.
func BuildLines(item OrderItemRequest, policy catalog.ProductPolicy, pool *stock.Pool) []DeliveryLineItem {
	rate := item.UnitRate
	if !rate.IsPositive() {
		rate = policy.UnitRate
	}

	totalFreeGoods := policy.FreeGoodsFor(item.RequestedQuantity)
	result := pool.Allocate(item.ProductID, item.RequestedQuantity)

	lines := make([]DeliveryLineItem, 0, len(result.Entries)+1)

	if len(result.Entries) == 0 {
		// Nothing allocatable. A single shortage line carries the whole unmet
		// demand; a zero-quantity delivery line alongside it would say nothing.
		if result.Shortage.IsPositive() {
			lines = append(lines, newShortageLine(item.ProductID, result.Shortage))
		}
		return lines
	}

	remainder := item.RequestedQuantity
	remainingFreeGoods := totalFreeGoods

	for i, alloc := range result.Entries {
		remainder = remainder.Sub(alloc.AllocatedQuantity)

		freeGoods := decimal.Zero
		if remainingFreeGoods.IsPositive() {
			if i == len(result.Entries)-1 {
				// Last batch absorbs whatever the proportional split left over,
				// so the bonus total is never lost to rounding.
				freeGoods = remainingFreeGoods
			} else {
				freeGoods = proportionalShare(alloc.AllocatedQuantity, item.RequestedQuantity, totalFreeGoods, remainingFreeGoods)
			}
			remainingFreeGoods = remainingFreeGoods.Sub(freeGoods)
		}

		line := DeliveryLineItem{
			BaseEntity:               shared.NewBaseEntity(),
			ProductID:                item.ProductID,
			OrderedQuantityRemainder: remainder,
			DeliveryQuantity:         alloc.AllocatedQuantity,
			BatchCode:                alloc.BatchCode,
			ExpiryDate:               alloc.ExpiryDate,
			DepotID:                  alloc.DepotID,
			FreeGoodsAwarded:         freeGoods,
			UnitRate:                 rate,
			Status:                   LineStatusPending,
		}
		line.reprice()
		lines = append(lines, line)
	}

	if result.Shortage.IsPositive() {
		lines = append(lines, newShortageLine(item.ProductID, result.Shortage))
	}

	return lines
}

// proportionalShare computes one non-last batch's cut of the free-goods
// total: floor of its allocated fraction of the request, capped by what is
// still undistributed, but never zero while bonus units remain (a small
// batch must not be starved by rounding).
func proportionalShare(allocated, requested, totalFreeGoods, remaining decimal.Decimal) decimal.Decimal {
	share := allocated.Mul(totalFreeGoods).Div(requested).Floor()
	share = decimal.Min(share, remaining)
	if share.IsZero() {
		share = decimal.NewFromInt(1)
	}
	return share
}

// newShortageLine builds the synthetic line representing unmet demand:
// zero delivery quantity, zero pricing, no batch or free-goods values.
func newShortageLine(productID uuid.UUID, shortage decimal.Decimal) DeliveryLineItem {
	return DeliveryLineItem{
		BaseEntity:               shared.NewBaseEntity(),
		ProductID:                productID,
		OrderedQuantityRemainder: shortage,
		DeliveryQuantity:         decimal.Zero,
		FreeGoodsAwarded:         decimal.Zero,
		UnitRate:                 decimal.Zero,
		TradeAmount:              decimal.Zero,
		VATAmount:                decimal.Zero,
		Status:                   LineStatusPending,
	}
}
