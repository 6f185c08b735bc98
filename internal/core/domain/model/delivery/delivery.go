package delivery

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery was not created
	// through NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New(
		"Delivery must be created via NewDelivery or RestoreDelivery constructor")

	// ErrInvalidTransition is returned when a requested status change moves
	// backward through the status ordering.
	ErrInvalidTransition = errors.New("invalid delivery status transition")
)

// Delivery is the aggregate root for the physical delivery of one order.
//
// Invariants:
//   - at most one delivery exists per order; the uniqueness is enforced by
//     the storage layer on the order reference, and creation races converge
//     on the already-existing delivery
//   - status transitions only move forward through the Status ordering
type Delivery struct {
	id        kernel.UUID
	orderID   kernel.UUID
	partnerID *kernel.UUID
	dropoff   kernel.GeoPoint
	status    Status
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewDelivery creates a Delivery in Pending status for an already selected
// partner. The assignment engine is the only producer of new deliveries.
func NewDelivery(id, orderID, partnerID kernel.UUID, dropoff kernel.GeoPoint) (*Delivery, error) {
	d := &Delivery{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setPartnerID(partnerID),
		d.setDropoff(dropoff),
	); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d.createdAt = now
	d.updatedAt = now
	return d, nil
}

// RestoreDelivery reconstructs a Delivery from persistence.
func RestoreDelivery(
	id, orderID kernel.UUID,
	partnerID *kernel.UUID,
	dropoff kernel.GeoPoint,
	status Status,
	createdAt, updatedAt time.Time,
) (*Delivery, error) {
	d := &Delivery{
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setDropoff(dropoff),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if partnerID != nil {
		if err := d.setPartnerID(*partnerID); err != nil {
			return nil, err
		}
	}

	d.status = status
	d.createdAt = createdAt
	d.updatedAt = updatedAt
	return d, nil
}

// Validate ensures the Delivery instance was properly constructed.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}

	return nil
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the order this delivery fulfills.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// PartnerID returns the assigned partner, or nil when unassigned.
func (d *Delivery) PartnerID() *kernel.UUID {
	return d.partnerID
}

// Dropoff returns the customer drop-off coordinates.
func (d *Delivery) Dropoff() kernel.GeoPoint {
	return d.dropoff
}

// Status returns the current delivery status.
func (d *Delivery) Status() Status {
	return d.status
}

// CreatedAt returns the creation timestamp.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns the last modification timestamp.
func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

// TransitionTo moves the delivery to newStatus.
// Re-applying the current status is an idempotent no-op; a backward move
// returns an error wrapping ErrInvalidTransition.
func (d *Delivery) TransitionTo(newStatus Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}

	if newStatus == d.status {
		return nil
	}

	if !d.status.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.status, newStatus)
	}

	d.status = newStatus
	d.updatedAt = time.Now().UTC()
	return nil
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.orderID = id
	return nil
}

func (d *Delivery) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.partnerID = &id
	return nil
}

func (d *Delivery) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	d.dropoff = dropoff
	return nil
}
