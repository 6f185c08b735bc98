package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrApplyGatewayEventCommandIsNotConstructed = errors.New(
	"ApplyGatewayEventCommand must be created via NewApplyGatewayEventCommand constructor",
)

// ApplyGatewayEventCommand carries one signature-verified gateway event:
// the transaction it refers to and the payment status it reports. The
// webhook adapter verifies signatures before this command is ever built.
type ApplyGatewayEventCommand struct { //nolint:recvcheck //using for validation
	transactionID string
	status        payment.Status

	guard guard.ConstructorGuard
}

// NewApplyGatewayEventCommand creates a command to apply a gateway event.
func NewApplyGatewayEventCommand(
	transactionID string, status payment.Status,
) (ApplyGatewayEventCommand, error) {
	command := ApplyGatewayEventCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTransactionID(transactionID),
		command.setStatus(status),
	); err != nil {
		return ApplyGatewayEventCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApplyGatewayEventCommandIsNotConstructed if validation fails.
func (c ApplyGatewayEventCommand) Validate() error {
	return c.guard.Validate(ErrApplyGatewayEventCommandIsNotConstructed)
}

// TransactionID returns the gateway transaction identifier the event refers to.
func (c ApplyGatewayEventCommand) TransactionID() string {
	return c.transactionID
}

// Status returns the payment status the gateway reports.
func (c ApplyGatewayEventCommand) Status() payment.Status {
	return c.status
}

func (c *ApplyGatewayEventCommand) setTransactionID(transactionID string) error {
	if transactionID == "" {
		return errs.NewValueIsRequiredError("transactionID")
	}

	c.transactionID = transactionID
	return nil
}

func (c *ApplyGatewayEventCommand) setStatus(status payment.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
