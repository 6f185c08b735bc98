package paymentrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/paymentrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// PaymentRepositoryIntegrationTestSuite provides integration tests for
// PaymentRepository using PostgreSQL containers. It verifies jsonb metadata
// round-trips and the webhook lookup by transaction identifier.
type PaymentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *paymentrepo.GormPaymentRepository
	tracker    *MockAggregateTracker
}

func (suite *PaymentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&paymentrepo.PaymentDTO{}))
}

func (suite *PaymentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE payments").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = paymentrepo.NewGormPaymentRepository(suite.db, suite.tracker)
}

func (suite *PaymentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestAdd_And_GetByOrderID_RoundTrip() {
	ctx := context.Background()

	testPayment := suite.createTestPayment()
	suite.tracker.On("TrackAggregate", testPayment.ID(), testPayment).Once()

	err := suite.repository.Add(ctx, testPayment)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.GetByOrderID(ctx, testPayment.OrderID())
	suite.Require().NoError(err)

	suite.Equal(testPayment.ID(), retrieved.ID())
	suite.Equal(int64(2300), retrieved.Amount())
	suite.Equal("EUR", retrieved.Currency())
	suite.Equal(payment.Card, retrieved.Method())
	suite.Equal(payment.Pending, retrieved.Status())
	suite.Empty(retrieved.TransactionID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestUpdate_PersistsTransactionAndMetadata() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	testPayment := suite.createTestPayment()
	suite.Require().NoError(suite.repository.Add(ctx, testPayment))

	suite.Require().NoError(testPayment.MarkProcessing("txn_42"))
	testPayment.SetMetadata(map[string]string{"client_secret": "cs_test", "region": "eu"})
	suite.Require().NoError(suite.repository.Update(ctx, testPayment))

	retrieved, err := suite.repository.GetByTransactionID(ctx, "txn_42")
	suite.Require().NoError(err)

	suite.Equal(testPayment.ID(), retrieved.ID())
	suite.Equal(payment.Processing, retrieved.Status())
	suite.Equal("cs_test", retrieved.Metadata()["client_secret"])
	suite.Equal("eu", retrieved.Metadata()["region"])
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestAdd_SecondPaymentForSameOrder_Fails() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	first := suite.createTestPayment()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	// Retries must update the existing record, never insert a second one.
	second, err := payment.NewPayment(
		kernel.NewUUID(), first.OrderID(), 2300, "EUR", payment.Card)
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, second)
	suite.Require().Error(err)
	suite.assertPaymentCount(1)
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestGetByOrderID_NonExistent_ReturnsNotFoundError() {
	retrieved, err := suite.repository.GetByOrderID(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestGetByTransactionID_NonExistent_ReturnsNotFoundError() {
	retrieved, err := suite.repository.GetByTransactionID(context.Background(), "txn_missing")

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestGetByTransactionID_Empty_ReturnsRequiredError() {
	retrieved, err := suite.repository.GetByTransactionID(context.Background(), "")

	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
}

// createTestPayment creates a pending card payment for a fresh order.
func (suite *PaymentRepositoryIntegrationTestSuite) createTestPayment() *payment.Payment {
	testPayment, err := payment.NewPayment(
		kernel.NewUUID(), kernel.NewUUID(), 2300, "EUR", payment.Card)
	suite.Require().NoError(err)

	return testPayment
}

// assertPaymentCount verifies the number of payments in the database.
func (suite *PaymentRepositoryIntegrationTestSuite) assertPaymentCount(expected int) {
	var count int64
	err := suite.db.Model(&paymentrepo.PaymentDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestPaymentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepositoryIntegrationTestSuite))
}
