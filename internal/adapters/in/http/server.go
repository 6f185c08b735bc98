// Package http exposes the fulfillment API over echo. Handlers translate
// requests into commands and queries and map domain errors onto HTTP status
// codes; no business decisions are made here.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"fulfillment/internal/adapters/out/gateway"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires HTTP routes to the application use cases.
type Server struct {
	createOrderHandler          commands.CreateOrderCommandHandler
	transitionOrderHandler      commands.TransitionOrderCommandHandler
	assignDeliveryHandler       commands.AssignDeliveryCommandHandler
	updateDeliveryStatusHandler commands.UpdateDeliveryStatusCommandHandler
	processPaymentHandler       commands.ProcessPaymentCommandHandler
	applyGatewayEventHandler    commands.ApplyGatewayEventCommandHandler

	getOrderHandler queries.GetOrderQueryHandler

	webhookVerifier *gateway.WebhookVerifier
	logger          *slog.Logger
}

// NewServer creates the HTTP server over the given handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	assignDeliveryHandler commands.AssignDeliveryCommandHandler,
	updateDeliveryStatusHandler commands.UpdateDeliveryStatusCommandHandler,
	processPaymentHandler commands.ProcessPaymentCommandHandler,
	applyGatewayEventHandler commands.ApplyGatewayEventCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	webhookVerifier *gateway.WebhookVerifier,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		transitionOrderHandler:      transitionOrderHandler,
		assignDeliveryHandler:       assignDeliveryHandler,
		updateDeliveryStatusHandler: updateDeliveryStatusHandler,
		processPaymentHandler:       processPaymentHandler,
		applyGatewayEventHandler:    applyGatewayEventHandler,
		getOrderHandler:             getOrderHandler,
		webhookVerifier:             webhookVerifier,
		logger:                      logger.With("component", "http"),
	}
}

// RegisterRoutes binds all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", s.CreateOrder)
	e.GET("/orders/:id", s.GetOrder)
	e.PATCH("/orders/:id/status", s.TransitionOrder)
	e.POST("/deliveries/assign", s.AssignDelivery)
	e.PUT("/deliveries/:orderId/status", s.UpdateDeliveryStatus)
	e.POST("/payments/process", s.ProcessPayment)
	e.POST("/payments/webhook", s.HandleWebhook)
	e.GET("/health", s.Health)
}

// CreateOrder handles POST /orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id")
	}
	restaurantID, err := kernel.UUIDFromString(request.RestaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}
	dropoff, err := kernel.NewGeoPoint(request.Dropoff.Latitude, request.Dropoff.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid dropoff coordinates")
	}

	items := make([]commands.ItemLine, 0, len(request.Items))
	for _, item := range request.Items {
		menuItemID, itemErr := kernel.UUIDFromString(item.MenuItemID)
		if itemErr != nil {
			return badRequest(ctx, "Invalid menu item id")
		}
		items = append(items, commands.ItemLine{
			MenuItemID: menuItemID,
			Quantity:   item.Quantity,
		})
	}

	command, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), customerID, restaurantID, dropoff, items)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), command)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusCreated, orderToResponse(created))
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Restaurant not found")
	case errors.Is(err, commands.ErrRestaurantUnavailable):
		return badRequest(ctx, "Restaurant is not accepting orders")
	case errors.Is(err, commands.ErrItemUnavailable):
		return badRequest(ctx, err.Error())
	default:
		s.logger.Error("create order failed", "error", err)
		return internalError(ctx, "Failed to create order")
	}
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, queryToOrderResponse(response))
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	default:
		s.logger.Error("get order failed", "error", err)
		return internalError(ctx, "Failed to retrieve order")
	}
}

// TransitionOrder handles PATCH /orders/:id/status.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request TransitionOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := order.StatusFromString(request.Status)
	if err != nil {
		return badRequest(ctx, "Invalid order status")
	}

	command, err := commands.NewTransitionOrderCommand(orderID, status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	err = s.transitionOrderHandler.Handle(ctx.Request().Context(), command)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	case errors.Is(err, order.ErrInvalidTransition):
		return badRequest(ctx, err.Error())
	default:
		s.logger.Error("order transition failed", "error", err)
		return internalError(ctx, "Failed to update order status")
	}
}

// AssignDelivery handles POST /deliveries/assign. Replays return the
// existing assignment with 200; a fresh assignment returns 201.
func (s *Server) AssignDelivery(ctx echo.Context) error {
	var request AssignDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	ord, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "Order not found")
		}
		s.logger.Error("assign delivery failed", "error", err)
		return internalError(ctx, "Failed to assign delivery")
	}

	command, err := commands.NewAssignDeliveryCommand(orderID, ord.Dropoff)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.assignDeliveryHandler.Handle(ctx.Request().Context(), command)
	switch {
	case err == nil:
		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		return ctx.JSON(status, deliveryToResponse(result.Delivery))
	case errors.Is(err, services.ErrNoPartnersAvailable):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: "No delivery partners available",
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	default:
		s.logger.Error("assign delivery failed", "error", err)
		return internalError(ctx, "Failed to assign delivery")
	}
}

// UpdateDeliveryStatus handles PUT /deliveries/:orderId/status.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request UpdateDeliveryStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := delivery.StatusFromString(request.Status)
	if err != nil {
		return badRequest(ctx, "Invalid delivery status")
	}

	command, err := commands.NewUpdateDeliveryStatusCommand(orderID, status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	err = s.updateDeliveryStatusHandler.Handle(ctx.Request().Context(), command)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusOK)
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Delivery not found")
	case errors.Is(err, delivery.ErrInvalidTransition):
		return badRequest(ctx, err.Error())
	default:
		s.logger.Error("delivery status update failed", "error", err)
		return internalError(ctx, "Failed to update delivery status")
	}
}

// ProcessPayment handles POST /payments/process.
func (s *Server) ProcessPayment(ctx echo.Context) error {
	var request ProcessPaymentRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	method, err := payment.MethodFromString(request.Method)
	if err != nil {
		return badRequest(ctx, "Invalid payment method")
	}

	command, err := commands.NewProcessPaymentCommand(orderID, request.Amount, request.Currency, method)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	pay, err := s.processPaymentHandler.Handle(ctx.Request().Context(), command)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, paymentToResponse(pay))
	case errors.Is(err, errs.ErrObjectNotFound):
		return notFound(ctx, "Order not found")
	case errors.Is(err, commands.ErrPaymentAmountMismatch):
		return badRequest(ctx, "Amount does not match the order total")
	case errors.Is(err, commands.ErrPaymentAlreadyCompleted):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: "Payment already completed",
		})
	case errors.Is(err, commands.ErrPaymentProcessingFailed):
		return ctx.JSON(http.StatusPaymentRequired, ErrorResponse{
			Code:    http.StatusPaymentRequired,
			Message: "Payment was declined",
		})
	default:
		s.logger.Error("payment processing failed", "error", err)
		return internalError(ctx, "Failed to process payment")
	}
}

// HandleWebhook handles POST /payments/webhook. The signature is verified
// against the raw body before anything is parsed; after that the endpoint
// acknowledges with 200 even for unknown or replayed events, so the gateway
// stops redelivering them.
func (s *Server) HandleWebhook(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return badRequest(ctx, "Unreadable body")
	}

	signature := ctx.Request().Header.Get(gateway.SignatureHeader)
	if err = s.webhookVerifier.Verify(body, signature); err != nil {
		s.logger.Warn("webhook rejected", "error", err)
		return badRequest(ctx, "Invalid signature")
	}

	received := func() error {
		return ctx.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	var event WebhookEventRequest
	if err = json.Unmarshal(body, &event); err != nil {
		s.logger.Warn("webhook payload undecodable", "error", err)
		return received()
	}

	status, err := payment.StatusFromString(event.Status)
	if err != nil {
		s.logger.Warn("webhook carries unknown status", "status", event.Status)
		return received()
	}

	command, err := commands.NewApplyGatewayEventCommand(event.TransactionID, status)
	if err != nil {
		s.logger.Warn("webhook event invalid", "error", err)
		return received()
	}

	err = s.applyGatewayEventHandler.Handle(ctx.Request().Context(), command)
	switch {
	case err == nil:
		return received()
	case errors.Is(err, payment.ErrInvalidTransition):
		// Redelivery cannot fix a regression; acknowledge and move on.
		s.logger.Warn("webhook event not applicable", "error", err)
		return received()
	default:
		s.logger.Error("webhook processing failed", "error", err)
		return internalError(ctx, "Failed to process event")
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func paymentToResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID().String(),
		OrderID:       p.OrderID().String(),
		Amount:        p.Amount(),
		Currency:      p.Currency(),
		Method:        p.Method().String(),
		Status:        p.Status().String(),
		TransactionID: p.TransactionID(),
		ClientSecret:  p.Metadata()[commands.ClientSecretMetadataKey],
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, ErrorResponse{
		Code:    http.StatusNotFound,
		Message: message,
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
