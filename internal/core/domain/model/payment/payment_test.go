package payment_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(kernel.NewUUID(), kernel.NewUUID(), 2350, "EUR", payment.Card)
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("starts_pending_without_transaction", func(t *testing.T) {
		p := newTestPayment(t)

		assert.Equal(t, payment.Pending, p.Status())
		assert.Empty(t, p.TransactionID())
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		_, err := payment.NewPayment(kernel.NewUUID(), kernel.NewUUID(), 0, "EUR", payment.Card)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_bad_currency", func(t *testing.T) {
		_, err := payment.NewPayment(kernel.NewUUID(), kernel.NewUUID(), 100, "EURO", payment.Card)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_invalid_method", func(t *testing.T) {
		_, err := payment.NewPayment(kernel.NewUUID(), kernel.NewUUID(), 100, "EUR", payment.MethodUnknown)
		require.Error(t, err)
	})
}

func TestRestorePayment(t *testing.T) {
	original := newTestPayment(t)
	require.NoError(t, original.MarkProcessing("txn_123"))

	restored, err := payment.RestorePayment(
		original.ID(), original.OrderID(), original.Amount(), original.Currency(),
		original.Method(), original.Status(), original.TransactionID(),
		map[string]string{"gateway": "stub"},
	)

	require.NoError(t, err)
	assert.Equal(t, payment.Processing, restored.Status())
	assert.Equal(t, "txn_123", restored.TransactionID())
	assert.Equal(t, "stub", restored.Metadata()["gateway"])
}

func TestPayment_MarkProcessing(t *testing.T) {
	t.Run("stores_transaction_identifier", func(t *testing.T) {
		p := newTestPayment(t)

		require.NoError(t, p.MarkProcessing("txn_123"))

		assert.Equal(t, payment.Processing, p.Status())
		assert.Equal(t, "txn_123", p.TransactionID())
	})

	t.Run("retry_after_failure_is_allowed", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.MarkProcessing("txn_123"))
		_, err := p.Apply(payment.Failed)
		require.NoError(t, err)

		require.NoError(t, p.MarkProcessing("txn_456"))

		assert.Equal(t, payment.Processing, p.Status())
		assert.Equal(t, "txn_456", p.TransactionID())
	})

	t.Run("rejected_after_completion", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.MarkProcessing("txn_123"))
		_, err := p.Apply(payment.Completed)
		require.NoError(t, err)

		require.ErrorIs(t, p.MarkProcessing("txn_456"), payment.ErrAlreadyCompleted)
	})

	t.Run("requires_transaction_identifier", func(t *testing.T) {
		p := newTestPayment(t)

		require.ErrorIs(t, p.MarkProcessing(""), errs.ErrValueIsRequired)
	})
}

func TestPayment_Apply(t *testing.T) {
	t.Run("first_application_changes_state", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.MarkProcessing("txn_123"))

		changed, err := p.Apply(payment.Completed)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, payment.Completed, p.Status())
	})

	t.Run("replay_is_a_no_op", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.MarkProcessing("txn_123"))
		_, err := p.Apply(payment.Completed)
		require.NoError(t, err)

		changed, err := p.Apply(payment.Completed)

		require.NoError(t, err)
		assert.False(t, changed, "redelivered event must not report a change")
		assert.Equal(t, payment.Completed, p.Status())
	})

	t.Run("completed_cannot_regress_to_failed", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.MarkProcessing("txn_123"))
		_, err := p.Apply(payment.Completed)
		require.NoError(t, err)

		_, err = p.Apply(payment.Failed)

		require.ErrorIs(t, err, payment.ErrInvalidTransition)
		assert.Equal(t, payment.Completed, p.Status())
	})

	t.Run("completed_can_be_refunded", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.MarkProcessing("txn_123"))
		_, err := p.Apply(payment.Completed)
		require.NoError(t, err)

		changed, err := p.Apply(payment.Refunded)

		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("rejects_invalid_status", func(t *testing.T) {
		p := newTestPayment(t)

		_, err := p.Apply(payment.Unknown)

		require.Error(t, err)
	})
}

func TestPayment_UpdateCharge(t *testing.T) {
	t.Run("updates_retried_attempt", func(t *testing.T) {
		p := newTestPayment(t)

		require.NoError(t, p.UpdateCharge(5000, "USD", payment.Wallet))

		assert.Equal(t, int64(5000), p.Amount())
		assert.Equal(t, "USD", p.Currency())
		assert.Equal(t, payment.Wallet, p.Method())
	})

	t.Run("rejected_after_completion", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.MarkProcessing("txn_123"))
		_, err := p.Apply(payment.Completed)
		require.NoError(t, err)

		require.ErrorIs(t, p.UpdateCharge(5000, "USD", payment.Wallet), payment.ErrAlreadyCompleted)
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, payment.Pending.CanTransitionTo(payment.Processing))
	assert.True(t, payment.Pending.CanTransitionTo(payment.Completed))
	assert.True(t, payment.Processing.CanTransitionTo(payment.Failed))
	assert.True(t, payment.Failed.CanTransitionTo(payment.Processing))
	assert.True(t, payment.Completed.CanTransitionTo(payment.Refunded))

	assert.False(t, payment.Completed.CanTransitionTo(payment.Processing))
	assert.False(t, payment.Refunded.CanTransitionTo(payment.Processing))
	assert.False(t, payment.Failed.CanTransitionTo(payment.Completed))
}
