// Package restaurants provides the HTTP client for the restaurant service,
// used to validate availability and price order items at creation time.
package restaurants

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const requestTimeout = 5 * time.Second

// Client fetches restaurant availability snapshots over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a restaurant service client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

type restaurantResponseBody struct {
	ID   string `json:"id"`
	Open bool   `json:"open"`
	Menu []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		UnitPrice int64  `json:"unitPrice"`
		Available bool   `json:"available"`
	} `json:"menu"`
}

// GetRestaurant fetches the availability snapshot for a restaurant.
// Returns errs.ObjectNotFoundError when the restaurant is unknown.
func (c *Client) GetRestaurant(ctx context.Context, id kernel.UUID) (*ports.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/restaurants/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restaurant service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.NewObjectNotFoundError("restaurant", id.String())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("restaurant service returned status %d", resp.StatusCode)
	}

	var decoded restaurantResponseBody
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("restaurant service response: %w", err)
	}

	return toRestaurant(id, decoded)
}

func toRestaurant(id kernel.UUID, decoded restaurantResponseBody) (*ports.Restaurant, error) {
	menu := make(map[kernel.UUID]ports.MenuItem, len(decoded.Menu))
	for _, entry := range decoded.Menu {
		itemID, err := kernel.UUIDFromString(entry.ID)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("menu item id", err)
		}

		menu[itemID] = ports.MenuItem{
			ID:        itemID,
			Name:      entry.Name,
			UnitPrice: entry.UnitPrice,
			Available: entry.Available,
		}
	}

	return &ports.Restaurant{
		ID:   id,
		Open: decoded.Open,
		Menu: menu,
	}, nil
}
