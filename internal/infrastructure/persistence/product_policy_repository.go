package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormProductPolicyRepository implements catalog.ProductPolicyRepository
// against the product master table
type GormProductPolicyRepository struct {
	db *gorm.DB
}

// NewGormProductPolicyRepository creates a new GormProductPolicyRepository
func NewGormProductPolicyRepository(db *gorm.DB) *GormProductPolicyRepository {
	return &GormProductPolicyRepository{db: db}
}

// FindByProductIDs loads policies for the given products in one query.
// Products without a master row are simply absent from the result map.
func (r *GormProductPolicyRepository) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]catalog.ProductPolicy, error) {
	policies := make(map[uuid.UUID]catalog.ProductPolicy, len(productIDs))
	if len(productIDs) == 0 {
		return policies, nil
	}

	var rows []productRow
	if err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		policy, err := row.toPolicy()
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", row.ID, err)
		}
		policies[row.ID] = policy
	}
	return policies, nil
}
