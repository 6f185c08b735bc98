package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost           string
	KafkaConsumerGroup  string
	KafkaClientID       string
	AssignmentPushTopic string

	RestaurantServiceURL   string
	NotificationServiceURL string

	PaymentGatewayURL       string
	PaymentWebhookSecret    string
	PaymentWebhookTolerance time.Duration
}
