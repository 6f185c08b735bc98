package payment

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrPaymentIsNotConstructed is returned when a Payment was not created
	// through NewPayment or RestorePayment.
	ErrPaymentIsNotConstructed = errors.New(
		"Payment must be created via NewPayment or RestorePayment constructor")

	// ErrInvalidTransition is returned when a requested status change violates
	// the payment state machine.
	ErrInvalidTransition = errors.New("invalid payment status transition")

	// ErrAlreadyCompleted is returned when mutating a payment that has
	// already completed.
	ErrAlreadyCompleted = errors.New("payment already completed")
)

// Payment is the aggregate root for one order's payment, the source of truth
// for payment reconciliation. At most one non-superseded payment exists per
// order: retries update this record instead of creating a new one.
//
// The gateway transaction identifier doubles as the idempotency key for
// webhook replay detection: events are looked up by it, and Apply decides
// whether an event changes anything.
type Payment struct {
	id            kernel.UUID
	orderID       kernel.UUID
	amount        int64
	currency      string
	method        Method
	status        Status
	transactionID string
	metadata      map[string]string

	isConstructed bool
}

// NewPayment creates a Payment in Pending status for the given order.
// amount is in minor currency units and must be positive; currency is a
// three-letter ISO code.
func NewPayment(id, orderID kernel.UUID, amount int64, currency string, method Method) (*Payment, error) {
	p := &Payment{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setAmount(amount),
		p.setCurrency(currency),
		p.setMethod(method),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePayment reconstructs a Payment from persistence.
func RestorePayment(
	id, orderID kernel.UUID,
	amount int64, currency string, method Method,
	status Status, transactionID string, metadata map[string]string,
) (*Payment, error) {
	p, err := NewPayment(id, orderID, amount, currency, method)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	p.status = status
	p.transactionID = transactionID
	p.metadata = metadata
	return p, nil
}

// Validate ensures the Payment instance was properly constructed.
func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}

	return nil
}

// ID returns the payment's unique identifier.
func (p *Payment) ID() kernel.UUID {
	return p.id
}

// OrderID returns the order this payment belongs to.
func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

// Amount returns the charge amount in minor currency units.
func (p *Payment) Amount() int64 {
	return p.amount
}

// Currency returns the three-letter ISO currency code.
func (p *Payment) Currency() string {
	return p.currency
}

// Method returns the payment method.
func (p *Payment) Method() Method {
	return p.method
}

// Status returns the current payment status.
func (p *Payment) Status() Status {
	return p.status
}

// TransactionID returns the gateway transaction identifier, empty until a
// charge has been initiated.
func (p *Payment) TransactionID() string {
	return p.transactionID
}

// Metadata returns opaque gateway metadata.
func (p *Payment) Metadata() map[string]string {
	return p.metadata
}

// UpdateCharge replaces amount, currency and method for a retried attempt.
// Rejected once the payment completed or was refunded.
func (p *Payment) UpdateCharge(amount int64, currency string, method Method) error {
	if p.status == Completed || p.status == Refunded {
		return ErrAlreadyCompleted
	}

	return errors.Join(
		p.setAmount(amount),
		p.setCurrency(currency),
		p.setMethod(method),
	)
}

// MarkProcessing records that a charge was initiated at the gateway under
// the given transaction identifier. Legal from Pending, Failed (retry) and
// Processing (idempotent re-initiation).
func (p *Payment) MarkProcessing(transactionID string) error {
	if transactionID == "" {
		return errs.NewValueIsRequiredError("transactionId")
	}

	if p.status == Completed || p.status == Refunded {
		return ErrAlreadyCompleted
	}

	p.status = Processing
	p.transactionID = transactionID
	return nil
}

// Apply moves the payment to the status reported by a gateway event.
//
// The return value distinguishes "caller must react" from "already applied":
// (true, nil) means the status changed and downstream effects should run;
// (false, nil) means the event was a replay and nothing happened. The
// gateway may redeliver any event, so replays are normal operation, not
// errors. An illegal regression returns an error wrapping
// ErrInvalidTransition.
func (p *Payment) Apply(newStatus Status) (bool, error) {
	if err := newStatus.Validate(); err != nil {
		return false, err
	}

	if newStatus == p.status {
		return false, nil
	}

	if !p.status.CanTransitionTo(newStatus) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.status, newStatus)
	}

	p.status = newStatus
	return true, nil
}

// SetMetadata stores opaque gateway metadata alongside the payment.
func (p *Payment) SetMetadata(metadata map[string]string) {
	p.metadata = metadata
}

func (p *Payment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Payment) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.orderID = id
	return nil
}

func (p *Payment) setAmount(amount int64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is not greater than 0", amount))
	}
	p.amount = amount
	return nil
}

func (p *Payment) setCurrency(currency string) error {
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter ISO code", currency))
	}
	p.currency = currency
	return nil
}

func (p *Payment) setMethod(method Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	p.method = method
	return nil
}
