package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand requests a delivery partner for an order. Safe to
// issue multiple times for the same order: replays return the existing
// delivery instead of creating a second one.
type AssignDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	dropoff kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewAssignDeliveryCommand creates a command to assign a delivery partner
// to the given order, delivering to the given drop-off point.
func NewAssignDeliveryCommand(
	orderID kernel.UUID, dropoff kernel.GeoPoint,
) (AssignDeliveryCommand, error) {
	command := AssignDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDropoff(dropoff),
	); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignDeliveryCommandIsNotConstructed if validation fails.
func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

// OrderID returns the order to assign a partner to.
func (c AssignDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Dropoff returns the delivery drop-off point.
func (c AssignDeliveryCommand) Dropoff() kernel.GeoPoint {
	return c.dropoff
}

func (c *AssignDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDeliveryCommand) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	c.dropoff = dropoff
	return nil
}
