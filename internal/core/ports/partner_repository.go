package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
)

// PartnerRepository defines the persistence contract for delivery partner
// aggregates.
type PartnerRepository interface {
	// Add persists a new partner aggregate to storage.
	Add(ctx context.Context, aggregate *partner.Partner) error

	// Update persists changes to an existing partner aggregate, including
	// availability flips and location updates.
	Update(ctx context.Context, aggregate *partner.Partner) error

	// Reserve persists the partner's reservation, guarded on the partner
	// still being available in storage. Returns an error wrapping
	// partner.ErrPartnerNotAvailable when a concurrent assignment reserved
	// the partner first; callers move on to the next candidate.
	Reserve(ctx context.Context, aggregate *partner.Partner) error

	// Get retrieves a partner aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such partner exists.
	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// GetAllAvailable retrieves all partners currently marked available.
	// Result order is the repository's query order; the selector treats it
	// as the tie-break order for equidistant candidates.
	GetAllAvailable(ctx context.Context) ([]*partner.Partner, error)
}
