package commands

import (
	"context"
)

// TransitionOrderCommandHandler is the single entry point for order status
// changes: load, transition through the aggregate's state machine, persist.
// Both the HTTP surface and the event consumers funnel through it, so every
// status change is validated and recorded in the order's history the same
// way.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command. Missing orders surface as
// errs.ObjectNotFoundError; illegal changes as order.ErrInvalidTransition.
func (h TransitionOrderCommandHandler) Handle(
	ctx context.Context, command TransitionOrderCommand,
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

	orderRepo := uow.OrderRepository()

	ord, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = ord.TransitionTo(command.Status()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
