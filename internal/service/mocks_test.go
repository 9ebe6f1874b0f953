package service

import (
	"context"
	"time"

	"mini-bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Add(ctx context.Context, line *model.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCartRepository) LockUser(ctx context.Context, tx pgx.Tx, userID string) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) ListByUserTx(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartLine, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockCartRepository) DeleteLinesTx(ctx context.Context, tx pgx.Tx, userID string, ids []uuid.UUID) error {
	args := m.Called(ctx, tx, userID, ids)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, paymentStatus model.OrderPaymentStatus, at time.Time) error {
	args := m.Called(ctx, tx, id, status, paymentStatus, at)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateRefund(ctx context.Context, tx pgx.Tx, refund *model.Refund) error {
	args := m.Called(ctx, tx, refund)
	return args.Error(0)
}

// MockPurchaseRepository is a mock implementation of PurchaseRepository.
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) CreatePurchases(ctx context.Context, tx pgx.Tx, purchases []model.Purchase) error {
	args := m.Called(ctx, tx, purchases)
	return args.Error(0)
}

func (m *MockPurchaseRepository) TopSelling(ctx context.Context, from, to time.Time, limit int) ([]model.TopSellingBook, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TopSellingBook), args.Error(1)
}

func (m *MockPurchaseRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]model.Purchase, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) TotalsForUser(ctx context.Context, userID string) (*model.PurchaseStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseStats), args.Error(1)
}

func (m *MockPurchaseRepository) MonthlyForUser(ctx context.Context, userID string, since time.Time, loc *time.Location) ([]model.MonthlyPurchaseStat, error) {
	args := m.Called(ctx, userID, since, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MonthlyPurchaseStat), args.Error(1)
}

// MockPaymentGateway is a mock implementation of PaymentGateway.
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Authorize(ctx context.Context, userID, transactionID string, amount decimal.Decimal) (*model.PaymentSession, error) {
	args := m.Called(ctx, userID, transactionID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentSession), args.Error(1)
}

func (m *MockPaymentGateway) Consume(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockPaymentGateway) Initiate(ctx context.Context, userID string, amount decimal.Decimal, customerUPIID string) (*model.InitiatePaymentResponse, error) {
	args := m.Called(ctx, userID, amount, customerUPIID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InitiatePaymentResponse), args.Error(1)
}

func (m *MockPaymentGateway) Verify(ctx context.Context, userID, transactionID string) (*model.VerifyPaymentResponse, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerifyPaymentResponse), args.Error(1)
}

func (m *MockPaymentGateway) HandleCallback(ctx context.Context, cb model.PaymentCallback) (*model.VerifyPaymentResponse, error) {
	args := m.Called(ctx, cb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerifyPaymentResponse), args.Error(1)
}

func (m *MockPaymentGateway) Status(ctx context.Context, userID, transactionID string) (*model.PaymentStatusResponse, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentStatusResponse), args.Error(1)
}

// MockReportCache is a mock implementation of cache.ReportCache.
type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, month string) (*model.TopSellingReport, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TopSellingReport), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, month string, report *model.TopSellingReport) error {
	args := m.Called(ctx, month, report)
	return args.Error(0)
}

func (m *MockReportCache) Delete(ctx context.Context, month string) error {
	args := m.Called(ctx, month)
	return args.Error(0)
}

// MockArchiveStore is a mock implementation of archive.Store.
type MockArchiveStore struct {
	mock.Mock
}

func (m *MockArchiveStore) Put(ctx context.Context, key string, report *model.TopSellingReport) (string, error) {
	args := m.Called(ctx, key, report)
	return args.String(0), args.Error(1)
}

func (m *MockArchiveStore) Get(ctx context.Context, key string) (*model.TopSellingReport, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TopSellingReport), args.Error(1)
}

// MockReportService is a mock implementation of ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) TopSelling(ctx context.Context, month string) (*model.TopSellingReport, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TopSellingReport), args.Error(1)
}

func (m *MockReportService) ArchiveTopSelling(ctx context.Context, month string) (string, error) {
	args := m.Called(ctx, month)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
