package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/catalog"
	"github.com/pharmadist/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// productRow maps a product master row. The products table is owned by the
// master data service; this service reads it and never writes. The free-goods
// columns are nullable there: NULL means the master never set a policy, while
// an explicit zero threshold disables bonuses for the product.
type productRow struct {
	ID                    uuid.UUID           `gorm:"column:id;primaryKey"`
	DisplayName           string              `gorm:"column:display_name"`
	FreeGoodsThreshold    decimal.NullDecimal `gorm:"column:free_goods_threshold"`
	FreeGoodsPerThreshold decimal.NullDecimal `gorm:"column:free_goods_per_threshold"`
	UnitRate              decimal.Decimal     `gorm:"column:unit_rate"`
}

func (productRow) TableName() string {
	return "products"
}

// toPolicy converts a master row to a domain policy. NULL free-goods columns
// fall back to the built-in defaults; stored values, zero included, are kept
// as written and validated like any other policy.
func (r productRow) toPolicy() (catalog.ProductPolicy, error) {
	threshold := catalog.DefaultFreeGoodsThreshold
	if r.FreeGoodsThreshold.Valid {
		threshold = r.FreeGoodsThreshold.Decimal
	}
	perThreshold := catalog.DefaultFreeGoodsPerThreshold
	if r.FreeGoodsPerThreshold.Valid {
		perThreshold = r.FreeGoodsPerThreshold.Decimal
	}
	policy, err := catalog.NewProductPolicy(r.ID, r.DisplayName, threshold, perThreshold, r.UnitRate)
	if err != nil {
		return catalog.ProductPolicy{}, err
	}
	return *policy, nil
}

// stockLedgerRow maps a stock ledger row. The ledger is maintained by the
// warehouse system; expiry_date and depot_id are nullable there.
type stockLedgerRow struct {
	ID                uuid.UUID       `gorm:"column:id;primaryKey"`
	ProductID         uuid.UUID       `gorm:"column:product_id"`
	DepotID           *uuid.UUID      `gorm:"column:depot_id"`
	BatchCode         string          `gorm:"column:batch_code"`
	ExpiryDate        *time.Time      `gorm:"column:expiry_date"`
	AvailableQuantity decimal.Decimal `gorm:"column:available_quantity"`
}

func (stockLedgerRow) TableName() string {
	return "stock_ledger"
}

func (r stockLedgerRow) toBatchEntry() stock.BatchEntry {
	return stock.BatchEntry{
		ProductID:         r.ProductID,
		DepotID:           r.DepotID,
		BatchCode:         r.BatchCode,
		ExpiryDate:        r.ExpiryDate,
		AvailableQuantity: r.AvailableQuantity,
	}
}
