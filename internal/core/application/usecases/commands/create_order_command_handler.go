package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

var (
	ErrRestaurantUnavailable = errors.New("restaurant is not accepting orders")
	ErrItemUnavailable       = errors.New("menu item is not available")
)

// DeliveryAssigner triggers delivery assignment for a confirmed or freshly
// created order. Satisfied by AssignDeliveryCommandHandler; declared as an
// interface so the coordinator can be tested without the whole assignment
// dependency tree.
type DeliveryAssigner interface {
	Handle(ctx context.Context, command AssignDeliveryCommand) (AssignDeliveryResult, error)
}

// CreateOrderCommandHandler coordinates order intake: strict validation
// against the restaurant catalog, transactional persistence, then
// best-effort side effects (customer notification, delivery assignment)
// that are logged and never fail the order.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	restaurant ports.RestaurantClient
	notifier   ports.NotificationClient
	assigner   DeliveryAssigner
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order intake.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	restaurant ports.RestaurantClient,
	notifier ports.NotificationClient,
	assigner DeliveryAssigner,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		restaurant: restaurant,
		notifier:   notifier,
		assigner:   assigner,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle processes the order creation command.
//
// Validation happens strictly before any state is persisted: the restaurant
// must be open and every requested item must exist in its menu and be
// available. Item names and unit prices are resolved from the catalog, never
// trusted from the caller. Once the order is committed, notification and
// assignment failures only produce log entries.
func (h CreateOrderCommandHandler) Handle(
	ctx context.Context, command CreateOrderCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	restaurant, err := h.restaurant.GetRestaurant(ctx, command.RestaurantID())
	if err != nil {
		return nil, err
	}
	if !restaurant.Open {
		return nil, ErrRestaurantUnavailable
	}

	items, err := resolveItems(restaurant, command.Items())
	if err != nil {
		return nil, err
	}

	newOrder, err := order.NewOrder(
		command.OrderID(), command.CustomerID(), command.RestaurantID(),
		command.Dropoff(), items,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifyCustomer(ctx, command, newOrder)
	h.tryAssignDelivery(ctx, command)

	return newOrder, nil
}

func resolveItems(restaurant *ports.Restaurant, lines []ItemLine) ([]order.Item, error) {
	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		menuItem, ok := restaurant.Menu[line.MenuItemID]
		if !ok || !menuItem.Available {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, line.MenuItemID)
		}

		item, err := order.NewItem(line.MenuItemID, menuItem.Name, menuItem.UnitPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (h CreateOrderCommandHandler) notifyCustomer(
	ctx context.Context, command CreateOrderCommand, newOrder *order.Order,
) {
	err := h.notifier.Notify(ctx, ports.Notification{
		RecipientID: command.CustomerID(),
		Subject:     "Order received",
		Message:     fmt.Sprintf("Your order %s has been received.", newOrder.ID()),
	})
	if err != nil {
		h.logger.Warn("customer notification failed",
			"order_id", newOrder.ID().String(), "error", err)
	}
}

func (h CreateOrderCommandHandler) tryAssignDelivery(
	ctx context.Context, command CreateOrderCommand,
) {
	assignCmd, err := NewAssignDeliveryCommand(command.OrderID(), command.Dropoff())
	if err != nil {
		h.logger.Error("building assignment command failed",
			"order_id", command.OrderID().String(), "error", err)
		return
	}

	if _, err = h.assigner.Handle(ctx, assignCmd); err != nil {
		// No partner right now is an expected outcome; the retry job
		// picks the order up later.
		h.logger.Info("delivery assignment deferred",
			"order_id", command.OrderID().String(), "reason", err)
	}
}
