package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ApplyGatewayEventCommandHandler reconciles payment state from
// asynchronous gateway events.
//
// The payment aggregate is the idempotency boundary: replays of an
// already-applied status change nothing and succeed, unknown transaction
// identifiers are logged and dropped, and only a first-time Completed or
// Failed event touches the order. A Failed payment never cancels the order;
// that decision belongs upstream.
type ApplyGatewayEventCommandHandler struct {
	uowFactory PaymentUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewApplyGatewayEventCommandHandler creates a handler for gateway events.
func NewApplyGatewayEventCommandHandler(
	uowFactory PaymentUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ApplyGatewayEventCommandHandler {
	return ApplyGatewayEventCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "apply_gateway_event"),
	}
}

// Handle processes one gateway event.
//
// Completed events flip the order's payment status to Paid and move the
// order to Confirmed when that transition is still legal; an order that
// already progressed past Confirmed keeps its status. Failed events only
// record the failed payment status on the order.
func (h ApplyGatewayEventCommandHandler) Handle(
	ctx context.Context, command ApplyGatewayEventCommand,
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

	paymentRepo := uow.PaymentRepository()

	pay, err := paymentRepo.GetByTransactionID(ctx, command.TransactionID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.Warn("gateway event for unknown transaction",
			"transaction_id", command.TransactionID(),
			"status", command.Status().String())
		return nil
	}
	if err != nil {
		return err
	}

	changed, err := pay.Apply(command.Status())
	if err != nil {
		return err
	}
	if !changed {
		// Webhook redelivery; the state is already reconciled.
		return nil
	}

	if err = paymentRepo.Update(ctx, pay); err != nil {
		return err
	}

	publishConfirmed := false
	switch command.Status() {
	case payment.Completed:
		publishConfirmed = h.markOrderPaid(ctx, uow, pay.OrderID())
	case payment.Failed:
		h.markOrderPaymentFailed(ctx, uow, pay.OrderID())
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if publishConfirmed {
		h.publishOrderStatus(ctx, pay.OrderID(), order.Confirmed)
	}

	return nil
}

// markOrderPaid records the successful payment on the order and confirms it
// when the state machine still allows that. Order-side failures are logged,
// not propagated: the payment record is the source of truth and must not be
// rolled back over them. Reports whether the order is Confirmed after this
// event; an order that already progressed past confirmation keeps its
// status and nothing is published for it.
func (h ApplyGatewayEventCommandHandler) markOrderPaid(
	ctx context.Context, uow PaymentUoW, orderID kernel.UUID,
) bool {
	orderRepo := uow.OrderRepository()

	ord, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		h.logger.Error("loading order for paid payment failed",
			"order_id", orderID.String(), "error", err)
		return false
	}

	if err = ord.SetPaymentStatus(order.PaymentPaid); err != nil {
		h.logger.Error("recording paid status failed",
			"order_id", orderID.String(), "error", err)
		return false
	}

	confirmErr := ord.TransitionTo(order.Confirmed)
	if confirmErr != nil {
		if errors.Is(confirmErr, order.ErrInvalidTransition) {
			h.logger.Info("order already progressed past confirmation",
				"order_id", orderID.String(), "status", ord.Status().String())
		} else {
			h.logger.Error("confirming order failed",
				"order_id", orderID.String(), "error", confirmErr)
		}
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		h.logger.Error("updating order for paid payment failed",
			"order_id", orderID.String(), "error", err)
		return false
	}

	return confirmErr == nil
}

func (h ApplyGatewayEventCommandHandler) markOrderPaymentFailed(
	ctx context.Context, uow PaymentUoW, orderID kernel.UUID,
) {
	orderRepo := uow.OrderRepository()

	ord, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		h.logger.Error("loading order for failed payment failed",
			"order_id", orderID.String(), "error", err)
		return
	}

	if err = ord.SetPaymentStatus(order.PaymentFailed); err != nil {
		h.logger.Error("recording failed payment status failed",
			"order_id", orderID.String(), "error", err)
		return
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		h.logger.Error("updating order for failed payment failed",
			"order_id", orderID.String(), "error", err)
	}
}

func (h ApplyGatewayEventCommandHandler) publishOrderStatus(
	ctx context.Context, orderID kernel.UUID, status order.Status,
) {
	err := h.publisher.Publish(ctx, ports.PaymentStatusTopic, ports.StatusEvent{
		OrderID: orderID,
		Status:  status.String(),
	})
	if err != nil {
		h.logger.Warn("publishing payment status event failed",
			"order_id", orderID.String(), "error", err)
	}
}
