package kafka

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// OrderTransitioner moves an order through its state machine.
type OrderTransitioner interface {
	Handle(ctx context.Context, command commands.TransitionOrderCommand) error
}

// NewOrderStatusHandler adapts the order transition use case to the event
// stream. Events that can never be applied, such as unknown statuses,
// unknown orders or transitions the order already moved past, are dropped:
// redelivering them would fail forever. Everything else is retried.
func NewOrderStatusHandler(transitioner OrderTransitioner) Handler {
	return func(ctx context.Context, event ports.StatusEvent) error {
		status, err := order.StatusFromString(event.Status)
		if err != nil {
			return fmt.Errorf("%w: unknown order status %q", ErrDropMessage, event.Status)
		}

		command, err := commands.NewTransitionOrderCommand(event.OrderID, status)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDropMessage, err)
		}

		err = transitioner.Handle(ctx, command)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, order.ErrInvalidTransition):
			return fmt.Errorf("%w: %w", ErrDropMessage, err)
		case errors.Is(err, errs.ErrObjectNotFound):
			return fmt.Errorf("%w: %w", ErrDropMessage, err)
		default:
			return err
		}
	}
}
