package gateway_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifier(t *testing.T) *gateway.WebhookVerifier {
	t.Helper()

	verifier, err := gateway.NewWebhookVerifier("whsec_test", 5*time.Minute)
	require.NoError(t, err)
	return verifier
}

func TestNewWebhookVerifier(t *testing.T) {
	t.Run("requires secret", func(t *testing.T) {
		_, err := gateway.NewWebhookVerifier("", 5*time.Minute)
		require.Error(t, err)
	})

	t.Run("requires positive tolerance", func(t *testing.T) {
		_, err := gateway.NewWebhookVerifier("whsec_test", 0)
		require.Error(t, err)
	})
}

func TestWebhookVerifier_Verify(t *testing.T) {
	body := []byte(`{"transactionId":"txn_1","status":"completed"}`)

	t.Run("valid signature passes", func(t *testing.T) {
		verifier := newVerifier(t)
		header := verifier.Sign(body, time.Now())

		assert.NoError(t, verifier.Verify(body, header))
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		verifier := newVerifier(t)
		header := verifier.Sign(body, time.Now())

		tampered := []byte(`{"transactionId":"txn_1","status":"failed"}`)
		assert.ErrorIs(t, verifier.Verify(tampered, header), gateway.ErrInvalidSignature)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		signer, err := gateway.NewWebhookVerifier("whsec_other", 5*time.Minute)
		require.NoError(t, err)
		header := signer.Sign(body, time.Now())

		verifier := newVerifier(t)
		assert.ErrorIs(t, verifier.Verify(body, header), gateway.ErrInvalidSignature)
	})

	t.Run("stale timestamp is rejected", func(t *testing.T) {
		verifier := newVerifier(t)
		header := verifier.Sign(body, time.Now().Add(-10*time.Minute))

		assert.ErrorIs(t, verifier.Verify(body, header), gateway.ErrInvalidSignature)
	})

	t.Run("future timestamp beyond tolerance is rejected", func(t *testing.T) {
		verifier := newVerifier(t)
		header := verifier.Sign(body, time.Now().Add(10*time.Minute))

		assert.ErrorIs(t, verifier.Verify(body, header), gateway.ErrInvalidSignature)
	})

	t.Run("slightly old timestamp within tolerance passes", func(t *testing.T) {
		verifier := newVerifier(t)
		header := verifier.Sign(body, time.Now().Add(-time.Minute))

		assert.NoError(t, verifier.Verify(body, header))
	})

	t.Run("malformed headers are rejected", func(t *testing.T) {
		verifier := newVerifier(t)
		valid := verifier.Sign(body, time.Now())
		digest := strings.TrimPrefix(strings.Split(valid, ",")[1], "v1=")

		headers := []string{
			"",
			"t=123",
			"v1=" + digest,
			"t=abc,v1=" + digest,
			fmt.Sprintf("t=%d,v1=zzzz", time.Now().Unix()),
		}

		for _, header := range headers {
			assert.ErrorIs(t, verifier.Verify(body, header), gateway.ErrInvalidSignature,
				"header %q", header)
		}
	})
}
