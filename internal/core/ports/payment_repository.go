package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment aggregates.
type PaymentRepository interface {
	// Add persists a new payment aggregate to storage.
	Add(ctx context.Context, aggregate *payment.Payment) error

	// Update persists changes to an existing payment aggregate.
	Update(ctx context.Context, aggregate *payment.Payment) error

	// GetByOrderID retrieves the payment record for the given order.
	// Returns errs.ObjectNotFoundError when the order has no payment.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)

	// GetByTransactionID retrieves the payment that holds the given gateway
	// transaction identifier. Webhook processing uses this lookup to tie an
	// incoming gateway event back to a known payment.
	// Returns errs.ObjectNotFoundError when the identifier is unknown.
	GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error)
}
