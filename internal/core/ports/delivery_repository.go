package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
//
// Storage must enforce a uniqueness constraint on the order identifier: an
// order has at most one delivery, and that constraint is what makes the
// assignment use case safe under concurrent requests.
type DeliveryRepository interface {
	// AddIfAbsent persists a new delivery unless one already exists for the
	// same order. Returns the stored delivery and true when this call created
	// it, or the pre-existing delivery and false when a concurrent request
	// won the race. The uniqueness violation is absorbed here so callers can
	// converge instead of failing.
	AddIfAbsent(ctx context.Context, aggregate *delivery.Delivery) (*delivery.Delivery, bool, error)

	// Update persists changes to an existing delivery aggregate.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// GetByOrderID retrieves the delivery created for the given order.
	// Returns errs.ObjectNotFoundError when the order has no delivery yet.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)
}
