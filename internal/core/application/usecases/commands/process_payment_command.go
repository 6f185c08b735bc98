package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrProcessPaymentCommandIsNotConstructed = errors.New(
	"ProcessPaymentCommand must be created via NewProcessPaymentCommand constructor",
)

// ProcessPaymentCommand requests a charge for an order. The amount is the
// caller's view of what is owed, in minor currency units; the handler
// verifies it against the order's stored total before any charge is made.
type ProcessPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	amount   int64
	currency string
	method   payment.Method

	guard guard.ConstructorGuard
}

// NewProcessPaymentCommand creates a command to charge the given order the
// given amount in the given currency using the given payment method.
func NewProcessPaymentCommand(
	orderID kernel.UUID, amount int64, currency string, method payment.Method,
) (ProcessPaymentCommand, error) {
	command := ProcessPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setAmount(amount),
		command.setCurrency(currency),
		command.setMethod(method),
	); err != nil {
		return ProcessPaymentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessPaymentCommandIsNotConstructed if validation fails.
func (c ProcessPaymentCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentCommandIsNotConstructed)
}

// OrderID returns the order to charge.
func (c ProcessPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Amount returns the amount to charge, in minor currency units.
func (c ProcessPaymentCommand) Amount() int64 {
	return c.amount
}

// Currency returns the ISO 4217 currency code to charge in.
func (c ProcessPaymentCommand) Currency() string {
	return c.currency
}

// Method returns the payment method to charge with.
func (c ProcessPaymentCommand) Method() payment.Method {
	return c.method
}

func (c *ProcessPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ProcessPaymentCommand) setAmount(amount int64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%d is not greater than 0", amount),
		)
	}

	c.amount = amount
	return nil
}

func (c *ProcessPaymentCommand) setCurrency(currency string) error {
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause(
			"currency", errors.New("must be a 3-letter ISO 4217 code"),
		)
	}

	c.currency = currency
	return nil
}

func (c *ProcessPaymentCommand) setMethod(method payment.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.method = method
	return nil
}
