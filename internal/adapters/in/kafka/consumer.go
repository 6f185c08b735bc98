package kafka

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/pkg/errs"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Consumer runs the consumer group loop. Offsets are marked only after a
// record was handled, giving at-least-once delivery; the use cases behind
// the handlers are idempotent, so redelivery is safe. Dropped messages are
// marked too, so a poison message never wedges its partition. Marks advance
// a whole partition, so a retryable failure stops handling and marking for
// the rest of that partition within the poll; later records must not commit
// past the failed one.
type Consumer struct {
	client   *kgo.Client
	registry *Registry
	logger   *slog.Logger
}

// NewConsumer creates a consumer group member subscribed to the registry's
// topics.
func NewConsumer(
	brokers []string, group string, registry *Registry, logger *slog.Logger,
) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if group == "" {
		return nil, errs.NewValueIsRequiredError("group")
	}
	if len(registry.Topics()) == 0 {
		return nil, errs.NewValueIsRequiredError("topics")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(registry.Topics()...),
		kgo.AutoCommitMarks(),
		kgo.BlockRebalanceOnPoll(),
	)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		client:   client,
		registry: registry,
		logger:   logger.With("component", "kafka-consumer"),
	}, nil
}

// Run polls and handles records until the context is cancelled or the
// client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("fetch error",
				"topic", topic, "partition", partition, "error", err)
		})

		records := make([]*kgo.Record, 0, fetches.NumRecords())
		iter := fetches.RecordIter()
		for !iter.Done() {
			records = append(records, iter.Next())
		}

		if marked := c.markable(ctx, records); len(marked) > 0 {
			c.client.MarkCommitRecords(marked...)
		}
		c.client.AllowRebalance()
	}
}

type topicPartition struct {
	topic     string
	partition int32
}

// markable handles the records in fetch order and returns those whose
// offsets may be committed. The first retryable failure in a partition
// stops that partition for the rest of the poll: handling a later record
// and marking it would commit past the failed one and lose it. The failed
// record and everything behind it are redelivered.
func (c *Consumer) markable(ctx context.Context, records []*kgo.Record) []*kgo.Record {
	failed := make(map[topicPartition]struct{})
	marked := make([]*kgo.Record, 0, len(records))

	for _, record := range records {
		tp := topicPartition{topic: record.Topic, partition: record.Partition}
		if _, stopped := failed[tp]; stopped {
			continue
		}

		if c.handle(ctx, record) {
			marked = append(marked, record)
			continue
		}
		failed[tp] = struct{}{}
	}

	return marked
}

// handle reports whether the record's offset may be marked.
func (c *Consumer) handle(ctx context.Context, record *kgo.Record) bool {
	err := c.registry.Dispatch(ctx, record.Topic, record.Value)
	if err == nil {
		return true
	}

	if errors.Is(err, ErrDropMessage) {
		c.logger.Warn("dropping message",
			"topic", record.Topic, "partition", record.Partition,
			"offset", record.Offset, "error", err)
		return true
	}

	// Left unmarked: the record is redelivered after a rebalance or restart.
	c.logger.Error("message handling failed",
		"topic", record.Topic, "partition", record.Partition,
		"offset", record.Offset, "error", err)
	return false
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}
