package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrInvalidTransition is returned when a requested status change violates
	// the ordering rule of the status enum.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status Status
	At     time.Time
}

// Order is the aggregate root for a customer order. It owns the canonical
// order status and its append-only history.
//
// Invariants:
//   - at least one line item, each validated at construction
//   - total price equals the sum of line item totals
//   - status transitions move forward through the Status ordering; Cancelled
//     is only reachable from Pending or Confirmed
//   - one history entry is appended per transition; re-applying the current
//     status is a no-op and appends nothing
//   - payment status is changed only through SetPaymentStatus, which payment
//     reconciliation alone is expected to call
type Order struct {
	id            kernel.UUID
	customerID    kernel.UUID
	restaurantID  kernel.UUID
	dropoff       kernel.GeoPoint
	items         []Item
	totalPrice    int64
	status        Status
	paymentStatus PaymentStatus
	history       []StatusChange

	isConstructed bool
}

// NewOrder creates an Order in Pending status with a seeded history entry.
// The total price is computed from the items; callers never supply it.
func NewOrder(
	id, customerID, restaurantID kernel.UUID,
	dropoff kernel.GeoPoint,
	items []Item,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setDropoff(dropoff),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.history = []StatusChange{{Status: Pending, At: time.Now().UTC()}}
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence.
// All invariants are re-validated so corrupt rows surface as errors instead
// of invalid aggregates.
func RestoreOrder(
	id, customerID, restaurantID kernel.UUID,
	dropoff kernel.GeoPoint,
	items []Item,
	status Status,
	paymentStatus PaymentStatus,
	history []StatusChange,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setDropoff(dropoff),
		o.setItems(items),
		status.Validate(),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = status
	o.paymentStatus = paymentStatus
	o.history = history
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the customer reference.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the restaurant reference.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Dropoff returns the delivery drop-off point the customer provided.
func (o *Order) Dropoff() kernel.GeoPoint {
	return o.dropoff
}

// Items returns the order line items.
func (o *Order) Items() []Item {
	return o.items
}

// TotalPrice returns the order total in minor currency units.
func (o *Order) TotalPrice() int64 {
	return o.totalPrice
}

// Status returns the current order status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentStatus returns what payment reconciliation has recorded so far.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// History returns the append-only status history, oldest first.
func (o *Order) History() []StatusChange {
	return o.history
}

// TransitionTo moves the order to newStatus.
//
// Re-applying the current status returns nil without touching the history:
// queued status events are delivered at least once, and duplicates must
// converge rather than fail. An illegal transition returns an error wrapping
// ErrInvalidTransition.
func (o *Order) TransitionTo(newStatus Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}

	if newStatus == o.status {
		return nil
	}

	if !o.status.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, newStatus)
	}

	o.status = newStatus
	o.history = append(o.history, StatusChange{Status: newStatus, At: time.Now().UTC()})
	return nil
}

// SetPaymentStatus records the outcome of payment reconciliation.
// It is idempotent and does not touch the order status; moving a Pending
// order to Confirmed after a completed payment is a separate TransitionTo
// decided by the reconciliation use case.
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	o.paymentStatus = status
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantId", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	o.dropoff = dropoff
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var total int64
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		total += item.Total()
	}

	o.items = items
	o.totalPrice = total
	return nil
}
