package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

// SignatureHeader carries the webhook signature:
// "t=<unix seconds>,v1=<hex hmac>".
const SignatureHeader = "Gateway-Signature"

// ErrInvalidSignature is returned for any webhook whose signature cannot be
// verified. Callers must reject the request without reading or writing any
// state.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookVerifier authenticates webhook payloads from the payment provider.
// The signed string is "<timestamp>.<raw body>"; timestamps outside the
// tolerance window are rejected to blunt replay of captured requests.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
}

// NewWebhookVerifier creates a verifier with the shared signing secret.
func NewWebhookVerifier(secret string, tolerance time.Duration) (*WebhookVerifier, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("secret")
	}
	if tolerance <= 0 {
		return nil, errs.NewValueIsInvalidError("tolerance")
	}

	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
	}, nil
}

// Verify checks the signature header against the raw request body.
// Returns an error wrapping ErrInvalidSignature when the header is
// malformed, the timestamp is outside the tolerance window, or the digest
// does not match.
func (v *WebhookVerifier) Verify(body []byte, header string) error {
	timestamp, signature, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := time.Since(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)

	if !hmac.Equal(mac.Sum(nil), signature) {
		return fmt.Errorf("%w: digest mismatch", ErrInvalidSignature)
	}

	return nil
}

// Sign produces a signature header for the given body. Used by tests and
// local tooling that emulate the provider.
func (v *WebhookVerifier) Sign(body []byte, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)

	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []byte, error) {
	var timestampPart, signaturePart string
	for _, part := range strings.Split(header, ",") {
		switch {
		case strings.HasPrefix(part, "t="):
			timestampPart = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v1="):
			signaturePart = strings.TrimPrefix(part, "v1=")
		}
	}

	if timestampPart == "" || signaturePart == "" {
		return 0, nil, fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}

	timestamp, err := strconv.ParseInt(timestampPart, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
	}

	signature, err := hex.DecodeString(signaturePart)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: malformed digest", ErrInvalidSignature)
	}

	return timestamp, signature, nil
}
