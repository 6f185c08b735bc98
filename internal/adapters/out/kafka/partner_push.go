package kafka

import (
	"context"
	"encoding/json"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/twmb/franz-go/pkg/kgo"
)

// AssignmentPush publishes delivery assignments to the partners' real-time
// channel. Records are keyed by partner, so each partner's app consumes its
// own ordered stream from the shared topic.
type AssignmentPush struct {
	producer *Producer
	topic    string
}

// NewAssignmentPush creates a push channel on top of an existing producer.
func NewAssignmentPush(producer *Producer, topic string) (*AssignmentPush, error) {
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}

	return &AssignmentPush{
		producer: producer,
		topic:    topic,
	}, nil
}

type assignmentMessage struct {
	DeliveryID string  `json:"deliveryId"`
	OrderID    string  `json:"orderId"`
	Latitude   float64 `json:"dropoffLatitude"`
	Longitude  float64 `json:"dropoffLongitude"`
}

// PushAssignment notifies the partner about an assigned delivery.
func (p *AssignmentPush) PushAssignment(
	ctx context.Context, partnerID kernel.UUID, assignment ports.PartnerAssignment,
) error {
	value, err := json.Marshal(assignmentMessage{
		DeliveryID: assignment.DeliveryID.String(),
		OrderID:    assignment.OrderID.String(),
		Latitude:   assignment.Dropoff.Latitude(),
		Longitude:  assignment.Dropoff.Longitude(),
	})
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(partnerID.String()),
		Value: value,
	}

	return p.producer.client.ProduceSync(ctx, record).FirstErr()
}
