package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrPaymentAlreadyCompleted = errors.New("payment already completed for this order")
	ErrPaymentProcessingFailed = errors.New("payment processing failed")
	ErrPaymentAmountMismatch   = errors.New("payment amount does not match the order total")
)

// ClientSecretMetadataKey is the metadata entry under which the gateway's
// client secret is stored on the payment record.
const ClientSecretMetadataKey = "client_secret"

// ProcessPaymentCommandHandler runs the synchronous leg of payment
// processing: it creates or updates the order's payment record, initiates
// the charge with the gateway and stores the returned transaction
// identifier. The final outcome arrives later through the webhook path.
//
// The gateway call runs between two short transactions, never inside one:
// an external HTTP call must not hold database locks.
type ProcessPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

// NewProcessPaymentCommandHandler creates a handler for charge initiation.
func NewProcessPaymentCommandHandler(
	uowFactory PaymentUoWFactory,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) ProcessPaymentCommandHandler {
	return ProcessPaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "process_payment"),
	}
}

// Handle processes the payment command.
//
// An order with a Completed payment is rejected with
// ErrPaymentAlreadyCompleted. The command's amount must equal the order's
// total; a mismatch is rejected with ErrPaymentAmountMismatch before the
// gateway is involved. A previous Pending or Failed attempt is reused: the
// charge details are updated in place so the order keeps a single payment
// record. Gateway failures mark the payment Failed and surface as
// ErrPaymentProcessingFailed.
func (h ProcessPaymentCommandHandler) Handle(
	ctx context.Context, command ProcessPaymentCommand,
) (*payment.Payment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	pay, err := h.preparePayment(ctx, command)
	if err != nil {
		return nil, err
	}

	result, chargeErr := h.gateway.InitiateCharge(ctx, ports.ChargeRequest{
		OrderID:  command.OrderID(),
		Amount:   pay.Amount(),
		Currency: pay.Currency(),
		Method:   pay.Method(),
	})

	return h.recordChargeOutcome(ctx, command.OrderID(), result, chargeErr)
}

// preparePayment creates the payment record or re-arms a previous attempt,
// inside its own transaction.
func (h ProcessPaymentCommandHandler) preparePayment(
	ctx context.Context, command ProcessPaymentCommand,
) (*payment.Payment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()

	pay, err := paymentRepo.GetByOrderID(ctx, command.OrderID())
	switch {
	case err == nil:
		if pay.Status() == payment.Completed || pay.Status() == payment.Refunded {
			return nil, ErrPaymentAlreadyCompleted
		}
		// The stored amount is the order total captured at creation.
		if command.Amount() != pay.Amount() {
			return nil, fmt.Errorf("%w: got %d, order total is %d",
				ErrPaymentAmountMismatch, command.Amount(), pay.Amount())
		}
		if err = pay.UpdateCharge(command.Amount(), command.Currency(), command.Method()); err != nil {
			return nil, err
		}
		if err = paymentRepo.Update(ctx, pay); err != nil {
			return nil, err
		}

	case errors.Is(err, errs.ErrObjectNotFound):
		ord, orderErr := uow.OrderRepository().Get(ctx, command.OrderID())
		if orderErr != nil {
			return nil, orderErr
		}

		if command.Amount() != ord.TotalPrice() {
			return nil, fmt.Errorf("%w: got %d, order total is %d",
				ErrPaymentAmountMismatch, command.Amount(), ord.TotalPrice())
		}

		pay, err = payment.NewPayment(
			kernel.NewUUID(), ord.ID(), ord.TotalPrice(), command.Currency(), command.Method(),
		)
		if err != nil {
			return nil, err
		}
		if err = paymentRepo.Add(ctx, pay); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return pay, nil
}

// recordChargeOutcome persists the gateway's response in a second
// transaction, reloading the payment in case a webhook landed in between.
func (h ProcessPaymentCommandHandler) recordChargeOutcome(
	ctx context.Context,
	orderID kernel.UUID,
	result *ports.ChargeResult,
	chargeErr error,
) (*payment.Payment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	pay, err := paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if chargeErr != nil {
		if _, applyErr := pay.Apply(payment.Failed); applyErr == nil {
			if err = paymentRepo.Update(ctx, pay); err != nil {
				return nil, err
			}
			if err = uow.Commit(ctx); err != nil {
				return nil, err
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrPaymentProcessingFailed, chargeErr)
	}

	if err = pay.MarkProcessing(result.TransactionID); err != nil {
		if errors.Is(err, payment.ErrAlreadyCompleted) {
			// The webhook confirmed the charge before we got here; the
			// stored record already reflects the final state.
			h.logger.Info("payment completed before charge bookkeeping",
				"order_id", orderID.String())
			return pay, nil
		}
		return nil, err
	}

	metadata := map[string]string{ClientSecretMetadataKey: result.ClientSecret}
	for k, v := range result.Metadata {
		metadata[k] = v
	}
	pay.SetMetadata(metadata)

	if err = paymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return pay, nil
}
