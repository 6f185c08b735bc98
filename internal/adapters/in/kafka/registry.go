// Package kafka provides the franz-go based consumer side of the event
// plumbing: a consumer group loop and a typed handler registry that routes
// status events by topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// ErrDropMessage marks a message that must be acknowledged and skipped:
// malformed payloads, unroutable topics and permanently unprocessable
// events. Retrying such a message would wedge its partition.
var ErrDropMessage = errors.New("message dropped")

// Handler processes one decoded status event.
type Handler func(ctx context.Context, event ports.StatusEvent) error

// Registry routes raw records to handlers by topic.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a topic. The last registration for a topic
// wins.
func (r *Registry) Register(topic string, handler Handler) {
	r.handlers[topic] = handler
}

// Topics returns the registered topics to subscribe to.
func (r *Registry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

type statusEventMessage struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Dispatch decodes a record's payload and invokes the topic's handler.
// Decode failures and unknown topics come back wrapping ErrDropMessage;
// anything else is the handler's error and a candidate for redelivery.
func (r *Registry) Dispatch(ctx context.Context, topic string, value []byte) error {
	handler, ok := r.handlers[topic]
	if !ok {
		return fmt.Errorf("%w: no handler for topic %q", ErrDropMessage, topic)
	}

	var message statusEventMessage
	if err := json.Unmarshal(value, &message); err != nil {
		return fmt.Errorf("%w: invalid payload: %w", ErrDropMessage, err)
	}

	orderID, err := kernel.UUIDFromString(message.OrderID)
	if err != nil {
		return fmt.Errorf("%w: invalid order id %q", ErrDropMessage, message.OrderID)
	}
	if message.Status == "" {
		return fmt.Errorf("%w: missing status", ErrDropMessage)
	}

	return handler(ctx, ports.StatusEvent{
		OrderID: orderID,
		Status:  message.Status,
	})
}
