package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GeoPointBody represents coordinates in request and response bodies.
type GeoPointBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	CustomerID   string           `json:"customerId"`
	RestaurantID string           `json:"restaurantId"`
	Dropoff      GeoPointBody     `json:"dropoff"`
	Items        []OrderItemInput `json:"items"`
}

// OrderItemInput is one requested line item. Prices come from the
// restaurant's catalog, never from the client.
type OrderItemInput struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// TransitionOrderRequest is the body of PATCH /orders/:id/status.
type TransitionOrderRequest struct {
	Status string `json:"status"`
}

// AssignDeliveryRequest is the body of POST /deliveries/assign.
type AssignDeliveryRequest struct {
	OrderID string `json:"orderId"`
}

// UpdateDeliveryStatusRequest is the body of PUT /deliveries/:orderId/status.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status"`
}

// ProcessPaymentRequest is the body of POST /payments/process.
type ProcessPaymentRequest struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Method   string `json:"method"`
}

// WebhookEventRequest is the body of POST /payments/webhook, sent by the
// payment gateway.
type WebhookEventRequest struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// OrderItemBody is one line item in order responses.
type OrderItemBody struct {
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
}

// StatusChangeBody is one history entry in order responses.
type StatusChangeBody struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// OrderResponse is the representation of an order returned by the API.
type OrderResponse struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customerId"`
	RestaurantID  string             `json:"restaurantId,omitempty"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"paymentStatus"`
	TotalPrice    int64              `json:"totalPrice"`
	Dropoff       GeoPointBody       `json:"dropoff"`
	Items         []OrderItemBody    `json:"items"`
	History       []StatusChangeBody `json:"history,omitempty"`
}

// DeliveryResponse is the representation of a delivery returned by the API.
type DeliveryResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	PartnerID string `json:"partnerId,omitempty"`
	Status    string `json:"status"`
}

// PaymentResponse is the representation of a payment returned by the API.
type PaymentResponse struct {
	ID            string `json:"id"`
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Method        string `json:"method"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	ClientSecret  string `json:"clientSecret,omitempty"`
}

func orderToResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemBody, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemBody{
			MenuItemID: item.MenuItemID().String(),
			Name:       item.Name(),
			UnitPrice:  item.UnitPrice(),
			Quantity:   item.Quantity(),
		})
	}

	history := make([]StatusChangeBody, 0, len(o.History()))
	for _, change := range o.History() {
		history = append(history, StatusChangeBody{
			Status: change.Status.String(),
			At:     change.At,
		})
	}

	return OrderResponse{
		ID:            o.ID().String(),
		CustomerID:    o.CustomerID().String(),
		RestaurantID:  o.RestaurantID().String(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		TotalPrice:    o.TotalPrice(),
		Dropoff: GeoPointBody{
			Latitude:  o.Dropoff().Latitude(),
			Longitude: o.Dropoff().Longitude(),
		},
		Items:   items,
		History: history,
	}
}

func queryToOrderResponse(response queries.GetOrderQueryResponse) OrderResponse {
	items := make([]OrderItemBody, 0, len(response.Items))
	for _, item := range response.Items {
		items = append(items, OrderItemBody{
			MenuItemID: item.MenuItemID.String(),
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		})
	}

	history := make([]StatusChangeBody, 0, len(response.History))
	for _, change := range response.History {
		history = append(history, StatusChangeBody{
			Status: change.Status,
			At:     change.At,
		})
	}

	return OrderResponse{
		ID:            response.ID.String(),
		CustomerID:    response.CustomerID.String(),
		Status:        response.Status,
		PaymentStatus: response.PaymentStatus,
		TotalPrice:    response.TotalPrice,
		Dropoff: GeoPointBody{
			Latitude:  response.Dropoff.Latitude(),
			Longitude: response.Dropoff.Longitude(),
		},
		Items:   items,
		History: history,
	}
}

func deliveryToResponse(d *delivery.Delivery) DeliveryResponse {
	response := DeliveryResponse{
		ID:      d.ID().String(),
		OrderID: d.OrderID().String(),
		Status:  d.Status().String(),
	}
	if partnerID := d.PartnerID(); partnerID != nil {
		response.PartnerID = partnerID.String()
	}
	return response
}
