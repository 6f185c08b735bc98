// Package kafka provides the franz-go based producer side of the event
// plumbing: status event publishing and the partner assignment push channel.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/twmb/franz-go/pkg/kgo"
)

const produceTimeout = 10 * time.Second

// Producer publishes order status events to Kafka. Writes wait for all
// in-sync replicas so an acknowledged event is durable.
type Producer struct {
	client *kgo.Client
}

// NewProducer creates a Kafka producer connected to the given brokers.
func NewProducer(brokers []string, clientID string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProduceRequestTimeout(produceTimeout),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID(clientID),
	)
	if err != nil {
		return nil, err
	}

	return &Producer{client: client}, nil
}

type statusEventMessage struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Publish sends a status event to the given topic, keyed by order so events
// for one order stay ordered within their partition.
func (p *Producer) Publish(ctx context.Context, topic string, event ports.StatusEvent) error {
	value, err := json.Marshal(statusEventMessage{
		OrderID: event.OrderID.String(),
		Status:  event.Status,
	})
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.OrderID.String()),
		Value: value,
	}

	return p.client.ProduceSync(ctx, record).FirstErr()
}

// Close flushes and closes the underlying client.
func (p *Producer) Close() {
	p.client.Close()
}
