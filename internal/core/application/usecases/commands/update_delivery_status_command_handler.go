package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// UpdateDeliveryStatusCommandHandler records delivery progress and, for the
// stages customers care about, publishes the corresponding order status so
// the consumer layer can move the order along: a delivery on the way means
// the order is out for delivery, a delivered delivery means a delivered
// order. Publishing is best-effort; the delivery state change is already
// committed when it happens.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewUpdateDeliveryStatusCommandHandler creates a handler for delivery
// progress updates.
func NewUpdateDeliveryStatusCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "update_delivery_status"),
	}
}

// Handle processes the delivery progress command. Missing deliveries
// surface as errs.ObjectNotFoundError; illegal changes as
// delivery.ErrInvalidTransition.
func (h UpdateDeliveryStatusCommandHandler) Handle(
	ctx context.Context, command UpdateDeliveryStatusCommand,
) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	del, err := deliveryRepo.GetByOrderID(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = del.TransitionTo(command.Status()); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, del); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if orderStatus, ok := orderStatusFor(command.Status()); ok {
		h.publishOrderStatus(ctx, command.OrderID(), orderStatus)
	}

	return nil
}

// orderStatusFor maps delivery stages to the order status they imply.
// Accepted and PickedUp have no order-side counterpart.
func orderStatusFor(status delivery.Status) (order.Status, bool) {
	switch status {
	case delivery.OnTheWay:
		return order.OutForDelivery, true
	case delivery.Delivered:
		return order.Delivered, true
	default:
		return order.Unknown, false
	}
}

func (h UpdateDeliveryStatusCommandHandler) publishOrderStatus(
	ctx context.Context, orderID kernel.UUID, status order.Status,
) {
	err := h.publisher.Publish(ctx, ports.DeliveryStatusTopic, ports.StatusEvent{
		OrderID: orderID,
		Status:  status.String(),
	})
	if err != nil {
		h.logger.Warn("publishing delivery status event failed",
			"order_id", orderID.String(), "error", err)
	}
}
