package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/catalog"
	"github.com/pharmadist/backend/internal/domain/delivery"
	"github.com/pharmadist/backend/internal/domain/stock"
)

const (
	// DefaultFetchTimeout bounds the one-time product master and stock
	// ledger fetches at the start of a preparation session
	DefaultFetchTimeout = 10 * time.Second
)

// PreparationService drives one delivery-preparation session: it loads the
// product policies and available batches once, then builds delivery lines
// item by item against a single pool so stock consumed by one order line is
// unavailable to later lines of the same session.
//
// No condition here is fatal. Collaborator failures degrade to documented
// fallbacks and are reported as warnings, so the caller always receives a
// complete (possibly all-shortage) set of lines.
type PreparationService struct {
	policyRepo   catalog.ProductPolicyRepository
	ledgerRepo   stock.StockLedgerRepository
	fetchTimeout time.Duration
}

// NewPreparationService creates a new PreparationService
func NewPreparationService(policyRepo catalog.ProductPolicyRepository, ledgerRepo stock.StockLedgerRepository) *PreparationService {
	return &PreparationService{
		policyRepo:   policyRepo,
		ledgerRepo:   ledgerRepo,
		fetchTimeout: DefaultFetchTimeout,
	}
}

// SetFetchTimeout overrides the collaborator fetch timeout
func (s *PreparationService) SetFetchTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.fetchTimeout = timeout
	}
}

// PrepareDelivery builds the full ordered list of delivery lines for one
// order, including shortage lines, ready for display and persistence by the
// surrounding application.
func (s *PreparationService) PrepareDelivery(ctx context.Context, req PrepareDeliveryRequest) (*PreparationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	productIDs := req.productIDs()
	result := &PreparationResult{
		OrderID:  req.OrderID,
		Lines:    make([]delivery.DeliveryLineItem, 0),
		Warnings: make([]PreparationWarning, 0),
	}

	policies := s.fetchPolicies(ctx, productIDs, result)
	pool := s.fetchPool(ctx, productIDs, result)

	// Items are processed sequentially against the same pool; order matters.
	for _, item := range req.Items {
		policy, ok := policies[item.ProductID]
		if !ok {
			policy = catalog.DefaultPolicy(item.ProductID)
		}

		lines := delivery.BuildLines(delivery.OrderItemRequest{
			ProductID:         item.ProductID,
			RequestedQuantity: item.RequestedQuantity,
			UnitRate:          item.UnitRate,
		}, policy, pool)

		for _, line := range lines {
			if line.IsShortage() {
				result.Warnings = append(result.Warnings, newShortageWarning(item.ProductID, line.OrderedQuantityRemainder))
			}
		}
		result.Lines = append(result.Lines, lines...)
	}

	return result, nil
}

// fetchPolicies loads product policies from the master. A fetch failure is
// recovered by falling back to default policies for every product, surfaced
// as a non-fatal warning: pricing and free goods will need manual entry.
func (s *PreparationService) fetchPolicies(ctx context.Context, productIDs []uuid.UUID, result *PreparationResult) map[uuid.UUID]catalog.ProductPolicy {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	policies, err := s.policyRepo.FindByProductIDs(fetchCtx, productIDs)
	if err != nil {
		result.Warnings = append(result.Warnings, newMasterDataWarning(err))
		return make(map[uuid.UUID]catalog.ProductPolicy)
	}
	return policies
}

// fetchPool loads the available batches and builds the session pool. A fetch
// failure is recovered by treating every product as out of stock, surfaced as
// a non-fatal warning: every line will be a shortage line.
func (s *PreparationService) fetchPool(ctx context.Context, productIDs []uuid.UUID, result *PreparationResult) *stock.Pool {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	entries, err := s.ledgerRepo.FindAvailableBatches(fetchCtx, productIDs)
	if err != nil {
		result.Warnings = append(result.Warnings, newLedgerWarning(err))
		return stock.NewPool(nil)
	}
	return stock.NewPool(entries)
}
