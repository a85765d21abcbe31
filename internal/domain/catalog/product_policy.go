package catalog

import (
	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Defaults applied when the product master has no record for a product.
// A missing policy must never block delivery preparation; pricing and free
// goods fall back to manual entry downstream.
var (
	DefaultFreeGoodsThreshold    = decimal.NewFromInt(100)
	DefaultFreeGoodsPerThreshold = decimal.NewFromInt(5)
)

// ProductPolicy holds the identity and commercial rules for a product as
// supplied by the product master: trade price and the free-goods promotion
// policy (bonus units granted per threshold block of ordered quantity).
type ProductPolicy struct {
	ID                    uuid.UUID
	DisplayName           string
	FreeGoodsThreshold    decimal.Decimal // minimum ordered quantity per bonus block, zero disables bonuses
	FreeGoodsPerThreshold decimal.Decimal // bonus units granted per full block
	UnitRate              decimal.Decimal // trade price per unit
}

// NewProductPolicy creates a product policy after validating the commercial rules
func NewProductPolicy(id uuid.UUID, displayName string, threshold, perThreshold, unitRate decimal.Decimal) (*ProductPolicy, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if threshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_POLICY", "Free goods threshold cannot be negative")
	}
	if perThreshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_POLICY", "Free goods per threshold cannot be negative")
	}
	if unitRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit rate cannot be negative")
	}

	return &ProductPolicy{
		ID:                    id,
		DisplayName:           displayName,
		FreeGoodsThreshold:    threshold,
		FreeGoodsPerThreshold: perThreshold,
		UnitRate:              unitRate,
	}, nil
}

// DefaultPolicy returns the fallback policy used when the product master has
// no record for the product: default threshold and bonus, zero rate.
func DefaultPolicy(id uuid.UUID) ProductPolicy {
	return ProductPolicy{
		ID:                    id,
		FreeGoodsThreshold:    DefaultFreeGoodsThreshold,
		FreeGoodsPerThreshold: DefaultFreeGoodsPerThreshold,
		UnitRate:              decimal.Zero,
	}
}

// GrantsFreeGoods returns true if the policy can award bonus units at all
func (p ProductPolicy) GrantsFreeGoods() bool {
	return p.FreeGoodsThreshold.IsPositive() && p.FreeGoodsPerThreshold.IsPositive()
}

// FreeGoodsFor returns the total bonus units awarded for an ordered quantity:
// one block of FreeGoodsPerThreshold units per full FreeGoodsThreshold reached.
// Returns zero when the policy grants no bonuses or the order is below the
// first threshold block.
func (p ProductPolicy) FreeGoodsFor(ordered decimal.Decimal) decimal.Decimal {
	if !p.GrantsFreeGoods() {
		return decimal.Zero
	}
	if ordered.LessThan(p.FreeGoodsThreshold) {
		return decimal.Zero
	}
	blocks := ordered.Div(p.FreeGoodsThreshold).Floor()
	return blocks.Mul(p.FreeGoodsPerThreshold)
}
