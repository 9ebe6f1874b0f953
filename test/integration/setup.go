package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"mini-bookstore/internal/archive"
	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/cache"
	"mini-bookstore/internal/config"
	"mini-bookstore/internal/database"
	"mini-bookstore/internal/handler"
	"mini-bookstore/internal/payment"
	"mini-bookstore/internal/repository"
	"mini-bookstore/internal/router"
	"mini-bookstore/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testJWTSecret   = "integration-secret"
	testJWTIssuer   = "bookstore-auth"
	testMerchantID  = "BOOKSTORE001"
	testMerchantKey = "integration-merchant-key"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the schema migrated.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromConnString(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(pool, logger); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SetupTestRedis starts an in-process Redis server.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

// TestServer is the fully wired API backed by real stores.
type TestServer struct {
	Handler http.Handler
	Tokens  *auth.TokenManager
	DB      *TestDB
	Redis   *redis.Client
}

// SetupTestServer wires the API the way cmd/api does, with a trusting payment outcome
// and a local report archive.
func SetupTestServer(t *testing.T) *TestServer {
	t.Helper()

	logger := zerolog.Nop()
	testDB := SetupTestDB(t)
	client := SetupTestRedis(t)

	paymentCfg := config.PaymentConfig{
		MerchantID:     testMerchantID,
		MerchantName:   "Online Bookstore",
		MerchantKey:    testMerchantKey,
		UPIID:          "bookstore@upi",
		SessionTimeout: 15 * time.Minute,
		Outcome:        "trust",
	}
	gateway := payment.NewSimulator(payment.NewRedisSessionStore(client, time.Hour), payment.TrustClient{}, paymentCfg, logger)

	store := archive.NewFallbackStore(nil, archive.NewFileStore(t.TempDir(), logger), "", false, logger)
	reportCache := cache.NewRedisReportCache(client, time.Hour)

	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	purchaseRepo := repository.NewPurchaseRepository(testDB.Pool, logger)

	reports := service.NewReportService(purchaseRepo, reportCache, store, time.UTC, logger)
	carts := service.NewCartService(cartRepo, logger)
	checkout := service.NewCheckoutService(cartRepo, orderRepo, purchaseRepo, gateway, reports, logger)
	payments := service.NewPaymentService(gateway, cartRepo, logger)
	orders := service.NewOrderService(orderRepo, logger)
	purchases := service.NewPurchaseService(purchaseRepo, time.UTC, logger)

	tokens := auth.NewTokenManager(testJWTSecret, testJWTIssuer)
	h := router.New(router.Handlers{
		Cart:     handler.NewCartHandler(carts, checkout, orders, logger),
		Payment:  handler.NewPaymentHandler(payments, orders, logger),
		Order:    handler.NewOrderHandler(orders, logger),
		Report:   handler.NewReportHandler(reports, logger),
		Purchase: handler.NewPurchaseHandler(purchases, logger),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(testDB.Pool.Ping),
		}, logger),
	}, tokens, "http://localhost:3000", logger)

	return &TestServer{
		Handler: h,
		Tokens:  tokens,
		DB:      testDB,
		Redis:   client,
	}
}

// Token issues a bearer token for userID.
func (s *TestServer) Token(t *testing.T, userID, role string) string {
	t.Helper()

	token, _, err := s.Tokens.Generate(userID, role, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// CleanupDB cleans all data from test tables and flushes cached reports.
func CleanupDB(t *testing.T, s *TestServer) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"refunds", "purchases", "orders", "cart_items"}
	for _, table := range tables {
		_, err := s.DB.Pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
	if err := s.Redis.FlushAll(ctx).Err(); err != nil {
		t.Logf("failed to flush redis: %v", err)
	}
}

// CountOrders returns how many orders userID has.
func CountOrders(t *testing.T, pool *pgxpool.Pool, userID string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	return n
}
