package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/partnerrepo"
	"fulfillment/internal/adapters/out/postgres/paymentrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config := getConfigs(logger)

	gormDB, err := connectDB(config)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err = migrate(gormDB); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		logger.Error("composition root failed", "error", err)
		os.Exit(1)
	}
	defer root.Close()

	consumer, err := root.CreateKafkaConsumer(config)
	if err != nil {
		logger.Error("kafka consumer failed", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("background jobs failed to start", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if consumeErr := consumer.Run(ctx); consumeErr != nil && ctx.Err() == nil {
			logger.Error("kafka consumer stopped", "error", consumeErr)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	root.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		if serveErr := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); serveErr != nil {
			logger.Info("http server stopped", "error", serveErr)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file, using process environment")
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		KafkaHost:           os.Getenv("KAFKA_HOST"),
		KafkaConsumerGroup:  envOrDefault("KAFKA_CONSUMER_GROUP", "fulfillment"),
		KafkaClientID:       envOrDefault("KAFKA_CLIENT_ID", "fulfillment"),
		AssignmentPushTopic: envOrDefault("ASSIGNMENT_PUSH_TOPIC", "partner.assignments"),

		RestaurantServiceURL:   os.Getenv("RESTAURANT_SERVICE_URL"),
		NotificationServiceURL: os.Getenv("NOTIFICATION_SERVICE_URL"),

		PaymentGatewayURL:       os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentWebhookSecret:    os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		PaymentWebhookTolerance: envDuration("PAYMENT_WEBHOOK_TOLERANCE_SECONDS", 5*time.Minute),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// connectDB opens the database through lib/pq and hands the connection to
// GORM.
func connectDB(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser,
		config.DBPassword, config.DBName, config.DBSslMode)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.StatusChangeDTO{},
		&deliveryrepo.DeliveryDTO{},
		&partnerrepo.PartnerDTO{},
		&paymentrepo.PaymentDTO{},
	)
}
