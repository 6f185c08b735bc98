package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Topic names shared by the publisher and the consumer layer.
const (
	PaymentStatusTopic  = "payment.status.updated"
	DeliveryStatusTopic = "delivery.status.updated"
)

// StatusEvent is the payload published on the status topics. Status carries
// the order status the consumer should transition the order to.
type StatusEvent struct {
	OrderID kernel.UUID
	Status  string
}

// EventPublisher publishes status events to the message broker. Publishing
// is best-effort from the caller's point of view: handlers log failures and
// continue, they never roll back committed state over a publish error.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event StatusEvent) error
}
