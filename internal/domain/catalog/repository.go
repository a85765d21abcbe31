package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductPolicyRepository is the read-only port onto the external product
// master. Implementations translate whatever shape the master exposes into
// ProductPolicy records; products absent from the result are filled with
// DefaultPolicy by the caller.
type ProductPolicyRepository interface {
	// FindByProductIDs returns the policies for the given products, keyed by
	// product ID. Products unknown to the master are simply omitted.
	FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]ProductPolicy, error)
}
