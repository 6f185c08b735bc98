package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/partnerrepo"
	"fulfillment/internal/adapters/out/postgres/paymentrepo"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transactional behavior of the GORM
// unit of work against a real PostgreSQL instance: work done through the
// repositories of one unit of work commits or rolls back as a whole.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
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

	sqlDB, err := sql.Open("postgres", connStr)
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.New(postgresdriver.Config{Conn: sqlDB}), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.StatusChangeDTO{},
		&deliveryrepo.DeliveryDTO{},
		&partnerrepo.PartnerDTO{},
		&paymentrepo.PaymentDTO{},
	))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_status_changes, deliveries, partners, payments").Error
	suite.Require().NoError(err)

	suite.factory = postgres.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	testPayment, err := payment.NewPayment(
		kernel.NewUUID(), testOrder.ID(), testOrder.TotalPrice(), "EUR", payment.Card)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.PaymentRepository().Add(ctx, testPayment))

	suite.Require().NoError(uow.Commit(ctx))

	// Both writes are visible through a fresh unit of work.
	verify := suite.factory.Create()
	retrievedOrder, err := verify.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	retrievedPayment, err := verify.PaymentRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testPayment.ID(), retrievedPayment.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWork() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	testDelivery, err := delivery.NewDelivery(
		kernel.NewUUID(), testOrder.ID(), kernel.NewUUID(), testOrder.Dropoff())
	suite.Require().NoError(err)
	_, created, err := uow.DeliveryRepository().AddIfAbsent(ctx, testDelivery)
	suite.Require().NoError(err)
	suite.Require().True(created)

	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err = verify.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err)
	_, err = verify.DeliveryRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAddIfAbsent_ConcurrentTransactions_Converge() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	dropoff, err := kernel.NewGeoPoint(52.5200, 13.4050)
	suite.Require().NoError(err)

	// Two assignment transactions race on the same order. The loser's insert
	// blocks on the winner's uncommitted row, comes back empty once the
	// winner commits, and the same transaction then reads the winner's
	// delivery. Neither transaction may end up aborted.
	type outcome struct {
		id      kernel.UUID
		created bool
	}
	results := make(chan outcome, 2)
	errCh := make(chan error, 2)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				errCh <- err
				return
			}

			d, err := delivery.NewDelivery(kernel.NewUUID(), orderID, kernel.NewUUID(), dropoff)
			if err != nil {
				_ = uow.Rollback(ctx)
				errCh <- err
				return
			}

			stored, created, err := uow.DeliveryRepository().AddIfAbsent(ctx, d)
			if err != nil {
				_ = uow.Rollback(ctx)
				errCh <- err
				return
			}

			if err = uow.Commit(ctx); err != nil {
				errCh <- err
				return
			}
			results <- outcome{stored.ID(), created}
		}()
	}

	wg.Wait()
	close(results)
	close(errCh)

	for err := range errCh {
		suite.Failf("concurrent transactional AddIfAbsent failed", "%v", err)
	}

	var winners int
	ids := make(map[kernel.UUID]struct{})
	for result := range results {
		if result.created {
			winners++
		}
		ids[result.id] = struct{}{}
	}

	suite.Equal(1, winners)
	suite.Len(ids, 1)

	var count int64
	suite.Require().NoError(
		suite.db.Model(&deliveryrepo.DeliveryDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestReserveAndAssign_CommitAtomically() {
	ctx := context.Background()

	// Seed a partner outside the transaction under test.
	testPartner := suite.createTestPartner()
	seed := suite.factory.Create()
	suite.Require().NoError(seed.Begin(ctx))
	suite.Require().NoError(seed.PartnerRepository().Add(ctx, testPartner))
	suite.Require().NoError(seed.Commit(ctx))

	testOrder := suite.createTestOrder()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	testDelivery, err := delivery.NewDelivery(
		kernel.NewUUID(), testOrder.ID(), testPartner.ID(), testOrder.Dropoff())
	suite.Require().NoError(err)
	_, _, err = uow.DeliveryRepository().AddIfAbsent(ctx, testDelivery)
	suite.Require().NoError(err)

	suite.Require().NoError(testPartner.Reserve())
	suite.Require().NoError(uow.PartnerRepository().Reserve(ctx, testPartner))
	suite.Require().NoError(uow.Commit(ctx))

	// The delivery and the reservation became visible together.
	verify := suite.factory.Create()
	retrievedDelivery, err := verify.DeliveryRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrievedDelivery.PartnerID())
	suite.True(retrievedDelivery.PartnerID().IsEqual(testPartner.ID()))

	available, err := verify.PartnerRepository().GetAllAvailable(ctx)
	suite.Require().NoError(err)
	suite.Empty(available)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Rollback(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_DoesNotNest() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	// A second commit has no transaction to finalize.
	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositories_WithoutTransaction_UseConnection() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Reads work without Begin, against the shared connection.
	_, err := uow.OrderRepository().Get(ctx, kernel.NewUUID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	dropoff, err := kernel.NewGeoPoint(52.5200, 13.4050)
	suite.Require().NoError(err)

	item, err := order.NewItem(kernel.NewUUID(), "Margherita", 1150, 2)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), dropoff, []order.Item{item})
	suite.Require().NoError(err)

	return testOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestPartner() *partner.Partner {
	location, err := kernel.NewGeoPoint(52.5200, 13.4050)
	suite.Require().NoError(err)

	testPartner, err := partner.NewPartner(
		kernel.NewUUID(), "Riley", "+4915200000000", partner.Bicycle, location)
	suite.Require().NoError(err)

	return testPartner
}

var _ ports.UnitOfWorkFactory = (*postgres.GormUnitOfWorkFactory)(nil)

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
