package kafka_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/adapters/in/kafka"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Dispatch(t *testing.T) {
	orderID := kernel.NewUUID()
	payload := []byte(fmt.Sprintf(`{"orderId":%q,"status":"Confirmed"}`, orderID.String()))

	t.Run("routes to the topic's handler", func(t *testing.T) {
		registry := kafka.NewRegistry()

		var received ports.StatusEvent
		registry.Register(ports.PaymentStatusTopic, func(_ context.Context, event ports.StatusEvent) error {
			received = event
			return nil
		})

		err := registry.Dispatch(t.Context(), ports.PaymentStatusTopic, payload)

		require.NoError(t, err)
		assert.Equal(t, orderID, received.OrderID)
		assert.Equal(t, "Confirmed", received.Status)
	})

	t.Run("unroutable topic is dropped", func(t *testing.T) {
		registry := kafka.NewRegistry()

		err := registry.Dispatch(t.Context(), "some.other.topic", payload)

		assert.ErrorIs(t, err, kafka.ErrDropMessage)
	})

	t.Run("malformed payloads are dropped", func(t *testing.T) {
		registry := kafka.NewRegistry()
		registry.Register(ports.PaymentStatusTopic, func(context.Context, ports.StatusEvent) error {
			t.Fatal("handler must not run for malformed payloads")
			return nil
		})

		payloads := [][]byte{
			[]byte(`not json`),
			[]byte(`{"orderId":"not-a-uuid","status":"Confirmed"}`),
			[]byte(fmt.Sprintf(`{"orderId":%q}`, orderID.String())),
			[]byte(`{}`),
		}

		for _, p := range payloads {
			err := registry.Dispatch(t.Context(), ports.PaymentStatusTopic, p)
			assert.ErrorIs(t, err, kafka.ErrDropMessage, "payload %s", p)
		}
	})

	t.Run("handler errors propagate for redelivery", func(t *testing.T) {
		registry := kafka.NewRegistry()
		handlerErr := errors.New("database unavailable")
		registry.Register(ports.PaymentStatusTopic, func(context.Context, ports.StatusEvent) error {
			return handlerErr
		})

		err := registry.Dispatch(t.Context(), ports.PaymentStatusTopic, payload)

		require.ErrorIs(t, err, handlerErr)
		assert.NotErrorIs(t, err, kafka.ErrDropMessage)
	})

	t.Run("topics lists registrations", func(t *testing.T) {
		registry := kafka.NewRegistry()
		registry.Register(ports.PaymentStatusTopic, func(context.Context, ports.StatusEvent) error { return nil })
		registry.Register(ports.DeliveryStatusTopic, func(context.Context, ports.StatusEvent) error { return nil })

		assert.ElementsMatch(t,
			[]string{ports.PaymentStatusTopic, ports.DeliveryStatusTopic},
			registry.Topics())
	})
}
