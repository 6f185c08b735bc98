// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, outbound collaborator
// clients and the event publisher. These interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including
	// any status history entries appended since it was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with items and status history.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllAwaitingAssignment retrieves orders that are paid and confirmed
	// but have no delivery yet. Used by the assignment retry job to pick up
	// orders whose first assignment attempt found no available partner.
	GetAllAwaitingAssignment(ctx context.Context) ([]*order.Order, error)
}
