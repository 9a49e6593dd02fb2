package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	ordererrors "github.com/swiftcart/swiftcart/internal/order/errors"
	"github.com/swiftcart/swiftcart/pkg/bootstrap"
)

const skipIntegrationTests = "ORDER_SVC_SKIP_INTEGRATION_TESTS"

// OrderStoreSuite is a test suite for the OrderStore implementation.
type OrderStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       OrderStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container, connects a pool and applies
// the embedded migrations.
func (s *OrderStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "orders_db"
	dbUser := "user"
	dbPassword := "password"

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = bootstrap.NewDbPool(s.ctx, connStr, time.Minute)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	require.NoError(s.T(), Migrate(connStr), "Failed to apply migrations")
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *OrderStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest prepares the database for each test by truncating the orders table.
func (s *OrderStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE orders RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate orders table")
}

// TestOrderStoreIntegration runs the OrderStore integration tests.
func TestOrderStoreIntegration(t *testing.T) {
	// Skip integration tests if the environment variable is set
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(OrderStoreSuite))
}

// createTestOrder is a helper to create an order with a single line item.
func (s *OrderStoreSuite) createTestOrder(userID string) (*Order, []OrderItem) {
	s.T().Helper()
	order := &Order{
		UserID:    userID,
		UserEmail: userID + "@example.com",
		Status:    StatusPending,
		Total:     decimal.NewFromInt(25),
	}
	items := []OrderItem{
		{ProductID: "prod_001", ProductName: "Mouse", Quantity: 2, Price: decimal.NewFromInt(10)},
		{ProductID: "prod_002", ProductName: "Pad", Quantity: 1, Price: decimal.NewFromInt(5)},
	}
	created, createdItems, err := s.store.CreateOrder(s.ctx, order, items)
	require.NoError(s.T(), err, "createTestOrder helper failed to create order")
	return created, createdItems
}

func (s *OrderStoreSuite) TestCreateOrder() {
	s.SetupTest()
	// when
	created, items := s.createTestOrder("u-1")

	// then
	require.NotZero(s.T(), created.ID)
	require.Equal(s.T(), "u-1", created.UserID)
	require.Equal(s.T(), StatusPending, created.Status)
	require.True(s.T(), decimal.NewFromInt(25).Equal(created.Total))
	require.NotZero(s.T(), created.CreatedAt)

	require.Len(s.T(), items, 2)
	require.NotZero(s.T(), items[0].ID)
	require.Equal(s.T(), created.ID, items[0].OrderID)
	require.Equal(s.T(), "prod_001", items[0].ProductID)
	require.Equal(s.T(), int32(2), items[0].Quantity)
	require.True(s.T(), decimal.NewFromInt(10).Equal(items[0].Price))
}

func (s *OrderStoreSuite) TestFindByID() {
	s.SetupTest()
	created, _ := s.createTestOrder("u-1")

	// when
	found, items, err := s.store.FindByID(s.ctx, created.ID, "u-1")

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), created.ID, found.ID)
	require.True(s.T(), created.Total.Equal(found.Total))
	require.Len(s.T(), items, 2)
}

func (s *OrderStoreSuite) TestFindByID_WrongUser() {
	s.SetupTest()
	created, _ := s.createTestOrder("u-1")

	_, _, err := s.store.FindByID(s.ctx, created.ID, "someone-else")

	require.ErrorIs(s.T(), err, ordererrors.ErrOrderNotFound)
}

func (s *OrderStoreSuite) TestFindByUserID() {
	s.SetupTest()
	first, _ := s.createTestOrder("u-1")
	second, _ := s.createTestOrder("u-1")
	s.createTestOrder("u-2")

	// when
	orders, err := s.store.FindByUserID(s.ctx, "u-1")

	// then only the caller's orders come back, newest first
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 2)
	require.Equal(s.T(), second.ID, orders[0].ID)
	require.Equal(s.T(), first.ID, orders[1].ID)
}

func (s *OrderStoreSuite) TestCancel() {
	s.SetupTest()
	created, _ := s.createTestOrder("u-1")

	// when
	err := s.store.Cancel(s.ctx, created.ID, "u-1")

	// then
	require.NoError(s.T(), err)
	found, _, err := s.store.FindByID(s.ctx, created.ID, "u-1")
	require.NoError(s.T(), err)
	require.Equal(s.T(), StatusCancelled, found.Status)
}

func (s *OrderStoreSuite) TestCancel_Twice() {
	s.SetupTest()
	created, _ := s.createTestOrder("u-1")
	require.NoError(s.T(), s.store.Cancel(s.ctx, created.ID, "u-1"))

	// when cancelled a second time
	err := s.store.Cancel(s.ctx, created.ID, "u-1")

	// then the conditional update matches zero rows
	require.ErrorIs(s.T(), err, ordererrors.ErrOrderNotCancellable)
}

func (s *OrderStoreSuite) TestCancel_WrongUser() {
	s.SetupTest()
	created, _ := s.createTestOrder("u-1")

	err := s.store.Cancel(s.ctx, created.ID, "someone-else")

	require.ErrorIs(s.T(), err, ordererrors.ErrOrderNotFound)
}

func (s *OrderStoreSuite) TestUpdateStatus() {
	s.SetupTest()
	created, _ := s.createTestOrder("u-1")

	// when
	err := s.store.UpdateStatus(s.ctx, created.ID, StatusProcessing)

	// then
	require.NoError(s.T(), err)
	found, _, err := s.store.FindByID(s.ctx, created.ID, "u-1")
	require.NoError(s.T(), err)
	require.Equal(s.T(), StatusProcessing, found.Status)
}

func (s *OrderStoreSuite) TestUpdateStatus_NotFound() {
	s.SetupTest()

	err := s.store.UpdateStatus(s.ctx, 9999, StatusProcessing)

	require.ErrorIs(s.T(), err, ordererrors.ErrOrderNotFound)
}
