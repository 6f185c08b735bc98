// Package gateway integrates with the external payment provider: an HTTP
// client that initiates charges and a verifier for the signed webhooks that
// deliver charge outcomes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const chargeTimeout = 10 * time.Second

// Client initiates charges with the payment provider over HTTP. The final
// outcome of a charge arrives later through the webhook, not through this
// client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a payment gateway client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: chargeTimeout},
	}, nil
}

type chargeRequestBody struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Method   string `json:"method"`
}

type chargeResponseBody struct {
	TransactionID string            `json:"transactionId"`
	ClientSecret  string            `json:"clientSecret"`
	Metadata      map[string]string `json:"metadata"`
}

// InitiateCharge asks the provider to start a charge and returns the
// transaction identifier and client secret. A declined or otherwise failed
// initiation comes back as an error; the caller records the failure.
func (c *Client) InitiateCharge(
	ctx context.Context, request ports.ChargeRequest,
) (*ports.ChargeResult, error) {
	body, err := json.Marshal(chargeRequestBody{
		OrderID:  request.OrderID.String(),
		Amount:   request.Amount,
		Currency: request.Currency,
		Method:   request.Method.String(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("payment gateway returned status %d: %s",
			resp.StatusCode, payload)
	}

	var decoded chargeResponseBody
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("payment gateway response: %w", err)
	}
	if decoded.TransactionID == "" {
		return nil, errs.NewValueIsRequiredError("transactionId")
	}

	return &ports.ChargeResult{
		TransactionID: decoded.TransactionID,
		ClientSecret:  decoded.ClientSecret,
		Metadata:      decoded.Metadata,
	}, nil
}
