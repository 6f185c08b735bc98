package cmd

import (
	"fmt"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	kafkain "fulfillment/internal/adapters/in/kafka"
	"fulfillment/internal/adapters/out/gateway"
	kafkaout "fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/notification"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/restaurants"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters and use cases together. Handlers are
// created per call; shared infrastructure (database handle, Kafka producer,
// HTTP clients) is created once here.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	restaurantClient   ports.RestaurantClient
	notificationClient ports.NotificationClient
	paymentGateway     ports.PaymentGateway
	producer           *kafkaout.Producer
	partnerPush        ports.PartnerPush
	webhookVerifier    *gateway.WebhookVerifier

	logger *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	restaurantClient, err := restaurants.NewClient(config.RestaurantServiceURL)
	if err != nil {
		return nil, fmt.Errorf("restaurant client: %w", err)
	}

	notificationClient, err := notification.NewClient(config.NotificationServiceURL)
	if err != nil {
		return nil, fmt.Errorf("notification client: %w", err)
	}

	paymentGateway, err := gateway.NewClient(config.PaymentGatewayURL)
	if err != nil {
		return nil, fmt.Errorf("payment gateway client: %w", err)
	}

	webhookVerifier, err := gateway.NewWebhookVerifier(
		config.PaymentWebhookSecret, config.PaymentWebhookTolerance)
	if err != nil {
		return nil, fmt.Errorf("webhook verifier: %w", err)
	}

	producer, err := kafkaout.NewProducer([]string{config.KafkaHost}, config.KafkaClientID)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	partnerPush, err := kafkaout.NewAssignmentPush(producer, config.AssignmentPushTopic)
	if err != nil {
		return nil, fmt.Errorf("partner push: %w", err)
	}

	return &CompositionRoot{
		gormDB:             gormDB,
		uowFactory:         *postgres.NewGormUnitOfWorkFactory(gormDB),
		restaurantClient:   restaurantClient,
		notificationClient: notificationClient,
		paymentGateway:     paymentGateway,
		producer:           producer,
		partnerPush:        partnerPush,
		webhookVerifier:    webhookVerifier,
		logger:             logger,
	}, nil
}

// Close releases shared infrastructure owned by the root.
func (c *CompositionRoot) Close() {
	c.producer.Close()
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	assigner := c.CreateAssignDeliveryCommandHandler()
	return commands.NewCreateOrderCommandHandler(
		f, c.restaurantClient, c.notificationClient, assigner, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDeliveryCommandHandler(
		f, services.NewPartnerSelector(), c.partnerPush, c.notificationClient, c.logger)
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDeliveryStatusCommandHandler(f, c.producer, c.logger)
}

func (c *CompositionRoot) CreateProcessPaymentCommandHandler() commands.ProcessPaymentCommandHandler {
	var f commands.PaymentUoWFactory = FuncPaymentUoWFactory(func() commands.PaymentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessPaymentCommandHandler(f, c.paymentGateway, c.logger)
}

func (c *CompositionRoot) CreateApplyGatewayEventCommandHandler() commands.ApplyGatewayEventCommandHandler {
	var f commands.PaymentUoWFactory = FuncPaymentUoWFactory(func() commands.PaymentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyGatewayEventCommandHandler(f, c.producer, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAwaitingAssignmentQueryHandler() queries.GetAwaitingAssignmentQueryHandler {
	return queries.NewGetAwaitingAssignmentQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the inbound HTTP adapter over the use cases.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateAssignDeliveryCommandHandler(),
		c.CreateUpdateDeliveryStatusCommandHandler(),
		c.CreateProcessPaymentCommandHandler(),
		c.CreateApplyGatewayEventCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.webhookVerifier,
		c.logger,
	)
}

// CreateKafkaConsumer builds the status event consumer. Both status topics
// route into the order transition use case.
func (c *CompositionRoot) CreateKafkaConsumer(config Config) (*kafkain.Consumer, error) {
	transitioner := c.CreateTransitionOrderCommandHandler()
	handler := kafkain.NewOrderStatusHandler(transitioner)

	registry := kafkain.NewRegistry()
	registry.Register(ports.PaymentStatusTopic, handler)
	registry.Register(ports.DeliveryStatusTopic, handler)

	return kafkain.NewConsumer(
		[]string{config.KafkaHost}, config.KafkaConsumerGroup, registry, c.logger)
}

// CreateJobManager builds the background job layer.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetAwaitingAssignmentQueryHandler(),
		c.CreateAssignDeliveryCommandHandler(),
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncPaymentUoWFactory func() commands.PaymentUoW

func (f FuncPaymentUoWFactory) Create() commands.PaymentUoW {
	return f()
}
