package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired   = errors.New("order must contain at least one item")
	ErrQuantityIsInvalid  = errors.New("item quantity must be greater than 0")
	ErrDuplicateOrderItem = errors.New("order contains the same menu item twice")
)

// ItemLine is a single requested menu item inside a CreateOrderCommand.
// Only the menu item identifier and quantity come from the caller; names and
// prices are resolved from the restaurant catalog during handling.
type ItemLine struct {
	MenuItemID kernel.UUID
	Quantity   int
}

// CreateOrderCommand represents a request to place a new food order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), customerID, restaurantID, dropoff,
//	    []ItemLine{{MenuItemID: pizzaID, Quantity: 2}},
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	dropoff      kernel.GeoPoint
	items        []ItemLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order. Validates
// identifiers, the drop-off point and the item lines. Returns an error if
// any validation fails.
func NewCreateOrderCommand(
	orderID, customerID, restaurantID kernel.UUID,
	dropoff kernel.GeoPoint,
	items []ItemLine,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCustomerID(customerID),
		command.setRestaurantID(restaurantID),
		command.setDropoff(dropoff),
		command.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will be created under.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the identifier of the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// RestaurantID returns the identifier of the restaurant to order from.
func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Dropoff returns the delivery drop-off point.
func (c CreateOrderCommand) Dropoff() kernel.GeoPoint {
	return c.dropoff
}

// Items returns the requested item lines.
func (c CreateOrderCommand) Items() []ItemLine {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	c.dropoff = dropoff
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemLine) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.MenuItemID.Validate(); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return ErrQuantityIsInvalid
		}
		if _, ok := seen[item.MenuItemID]; ok {
			return ErrDuplicateOrderItem
		}
		seen[item.MenuItemID] = struct{}{}
	}

	c.items = items
	return nil
}
