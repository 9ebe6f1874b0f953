package repository

import (
	"context"
	"testing"
	"time"

	"mini-bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(userID, transactionID string, createdAt time.Time) *model.Order {
	method := model.PaymentMethodCOD
	details := model.PaymentDetails{}
	if transactionID != "" {
		method = model.PaymentMethodUPI
		paid := createdAt
		details = model.PaymentDetails{
			UPIID:                "reader@okbank",
			PaymentGateway:       "UPI",
			GatewayTransactionID: "GW" + transactionID,
			PaymentTime:          &paid,
		}
	}

	return &model.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items: []model.OrderItem{
			{BookID: "book-a", Title: "A", Author: "Ann", Price: decimal.RequireFromString("10.00")},
			{BookID: "book-b", Title: "B", Author: "Bob", Price: decimal.RequireFromString("15.00")},
		},
		TotalAmount:    decimal.RequireFromString("25.00"),
		Status:         model.OrderStatusCompleted,
		PaymentMethod:  method,
		PaymentStatus:  model.OrderPaymentCompleted,
		TransactionID:  transactionID,
		PaymentDetails: details,
		Address: model.Address{
			FullName: "Asha Rao",
			Phone:    "9876543210",
			Address:  "12 MG Road",
			City:     "Bengaluru",
			State:    "KA",
			Pincode:  "560001",
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func insertOrder(t *testing.T, pool *pgxpool.Pool, repo OrderRepository, order *model.Order) error {
	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	if err := repo.CreateOrder(ctx, tx, order); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func TestOrderRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	tests := []struct {
		name  string
		order *model.Order
	}{
		{name: "cash on delivery", order: newOrder("user-1", "", now)},
		{name: "upi", order: newOrder("user-1", "TXN1700000000000ABCDE", now)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, insertOrder(t, pool, repo, tt.order))

			got, err := repo.GetByID(ctx, tt.order.ID)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, tt.order.UserID, got.UserID)
			assert.True(t, tt.order.TotalAmount.Equal(got.TotalAmount))
			assert.Equal(t, tt.order.PaymentMethod, got.PaymentMethod)
			assert.Equal(t, tt.order.TransactionID, got.TransactionID)
			assert.Equal(t, tt.order.Address, got.Address)
			require.Len(t, got.Items, 2)
			assert.Equal(t, "book-b", got.Items[1].BookID)
			assert.True(t, decimal.RequireFromString("15").Equal(got.Items[1].Price))
			assert.Equal(t, tt.order.PaymentDetails.GatewayTransactionID, got.PaymentDetails.GatewayTransactionID)
		})
	}

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_CreateOrder_TransactionUsedTwice(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	now := time.Now().UTC()

	require.NoError(t, insertOrder(t, pool, repo, newOrder("user-1", "TXN1", now)))

	err := insertOrder(t, pool, repo, newOrder("user-1", "TXN1", now))
	assert.ErrorIs(t, err, model.ErrPaymentNotConfirmed)

	// Empty transaction ids are not unique.
	require.NoError(t, insertOrder(t, pool, repo, newOrder("user-1", "", now)))
	require.NoError(t, insertOrder(t, pool, repo, newOrder("user-1", "", now)))
}

func TestOrderRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC()

	older := newOrder("user-1", "", now.Add(-time.Hour))
	newer := newOrder("user-1", "", now)
	foreign := newOrder("user-2", "", now.Add(time.Minute))

	for _, o := range []*model.Order{older, newer, foreign} {
		require.NoError(t, insertOrder(t, pool, repo, o))
	}

	mine, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, foreign.ID, all[0].ID)

	none, err := repo.ListByUser(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderRepository_Refund(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC()

	order := newOrder("user-1", "TXN9", now)
	require.NoError(t, insertOrder(t, pool, repo, order))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	locked, err := repo.GetByIDForUpdate(ctx, tx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, locked)

	require.NoError(t, repo.UpdateStatus(ctx, tx, order.ID, model.OrderStatusCancelled, model.OrderPaymentRefunded, now.Add(time.Minute)))
	require.NoError(t, repo.CreateRefund(ctx, tx, &model.Refund{
		ID:            "REF1700000000000",
		OrderID:       order.ID,
		TransactionID: order.TransactionID,
		Amount:        decimal.RequireFromString("25.00"),
		Reason:        "damaged",
		Status:        "processed",
		ProcessedAt:   now,
	}))
	require.NoError(t, tx.Commit(ctx))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
	assert.Equal(t, model.OrderPaymentRefunded, got.PaymentStatus)

	var refunds int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM refunds WHERE order_id = $1", order.ID).Scan(&refunds))
	assert.Equal(t, 1, refunds)

	tx2, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback(ctx)
	err = repo.UpdateStatus(ctx, tx2, uuid.New(), model.OrderStatusCancelled, model.OrderPaymentRefunded, now)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
