package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockLedgerRepository implements stock.StockLedgerRepository against
// the warehouse system's stock ledger table
type GormStockLedgerRepository struct {
	db *gorm.DB
}

// NewGormStockLedgerRepository creates a new GormStockLedgerRepository
func NewGormStockLedgerRepository(db *gorm.DB) *GormStockLedgerRepository {
	return &GormStockLedgerRepository{db: db}
}

// FindAvailableBatches loads batches with remaining stock for the given
// products, ordered FEFO (First Expired, First Out) with undated batches last
func (r *GormStockLedgerRepository) FindAvailableBatches(ctx context.Context, productIDs []uuid.UUID) ([]stock.BatchEntry, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var rows []stockLedgerRow
	if err := r.db.WithContext(ctx).
		Where("product_id IN ? AND available_quantity > 0", productIDs).
		Order("COALESCE(expiry_date, '9999-12-31') ASC, batch_code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]stock.BatchEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toBatchEntry())
	}
	return entries, nil
}
