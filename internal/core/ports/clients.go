package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

// MenuItem is a catalog entry returned by the restaurant service. Unit
// prices are in minor currency units and are the authoritative prices used
// when an order is created.
type MenuItem struct {
	ID        kernel.UUID
	Name      string
	UnitPrice int64
	Available bool
}

// Restaurant is the availability snapshot of a restaurant, including the
// portion of its menu needed to validate and price an incoming order.
type Restaurant struct {
	ID   kernel.UUID
	Open bool
	Menu map[kernel.UUID]MenuItem
}

// RestaurantClient looks up restaurant availability and menu data from the
// restaurant service.
type RestaurantClient interface {
	// GetRestaurant fetches the availability snapshot for a restaurant.
	// Returns errs.ObjectNotFoundError when the restaurant is unknown.
	GetRestaurant(ctx context.Context, id kernel.UUID) (*Restaurant, error)
}

// Notification is a message dispatched to a customer or delivery partner
// through whatever channels the notification service has configured for
// the recipient.
type Notification struct {
	RecipientID kernel.UUID
	Subject     string
	Message     string
}

// NotificationClient dispatches notifications. Calls are fire-and-forget
// from the caller's point of view: failures are logged, never propagated
// into the business transaction.
type NotificationClient interface {
	Notify(ctx context.Context, notification Notification) error
}

// PartnerAssignment is the payload pushed to a delivery partner's real-time
// channel when an order is assigned to them.
type PartnerAssignment struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	Dropoff    kernel.GeoPoint
}

// PartnerPush publishes to a delivery partner's real-time channel.
type PartnerPush interface {
	// PushAssignment notifies the partner about a newly assigned (or, on
	// idempotent replays, an already assigned) delivery.
	PushAssignment(ctx context.Context, partnerID kernel.UUID, assignment PartnerAssignment) error
}

// ChargeRequest describes a charge to initiate with the payment gateway.
type ChargeRequest struct {
	OrderID  kernel.UUID
	Amount   int64
	Currency string
	Method   payment.Method
}

// ChargeResult is the gateway's response to an initiated charge. The
// transaction identifier ties later webhook events back to the payment;
// the client secret is handed to the caller to complete the charge.
type ChargeResult struct {
	TransactionID string
	ClientSecret  string
	Metadata      map[string]string
}

// PaymentGateway initiates charges with the external payment provider.
// Final charge outcomes arrive asynchronously through signed webhooks,
// not through this interface.
type PaymentGateway interface {
	InitiateCharge(ctx context.Context, request ChargeRequest) (*ChargeResult, error)
}
