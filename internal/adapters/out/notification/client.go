// Package notification provides the HTTP client for the notification
// service. Dispatch is fire-and-forget from the business logic's point of
// view; callers log failures and move on.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const requestTimeout = 5 * time.Second

// Client dispatches notifications over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a notification service client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

type notificationRequestBody struct {
	RecipientID string `json:"recipientId"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// Notify dispatches a notification to the recipient's configured channels.
func (c *Client) Notify(ctx context.Context, n ports.Notification) error {
	body, err := json.Marshal(notificationRequestBody{
		RecipientID: n.RecipientID.String(),
		Subject:     n.Subject,
		Message:     n.Message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	return nil
}
