package stock

import (
	"context"

	"github.com/google/uuid"
)

// StockLedgerRepository is the read-only port onto the external stock ledger.
// Implementations return all currently available batch entries for the given
// products; an empty result for a product is valid.
type StockLedgerRepository interface {
	FindAvailableBatches(ctx context.Context, productIDs []uuid.UUID) ([]BatchEntry, error)
}
