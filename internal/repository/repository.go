package repository

import (
	"context"
	"time"

	"mini-bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CartRepository defines the interface for cart line data access operations.
type CartRepository interface {
	// Add inserts a new unpurchased line. Returns model.ErrDuplicateLine when the
	// user already has an open line for the same book.
	Add(ctx context.Context, line *model.CartLine) error

	// ListByUser retrieves the user's unpurchased lines ordered by creation time.
	ListByUser(ctx context.Context, userID string) ([]model.CartLine, error)

	// Remove deletes one of the user's lines. Returns model.ErrCartItemNotFound
	// when the line does not exist or belongs to someone else.
	Remove(ctx context.Context, userID string, id uuid.UUID) error

	// LockUser takes a transaction-scoped advisory lock serialising checkouts for a user.
	LockUser(ctx context.Context, tx pgx.Tx, userID string) error

	// ListByUserTx reads the user's lines inside the provided transaction.
	ListByUserTx(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartLine, error)

	// DeleteLinesTx removes the given lines within the provided transaction.
	DeleteLinesTx(ctx context.Context, tx pgx.Tx, userID string, ids []uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order by its ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUpdate retrieves and row-locks an order within the provided transaction.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus changes the lifecycle and payment state of an order.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, paymentStatus model.OrderPaymentStatus, at time.Time) error

	// CreateRefund records a refund within the provided transaction.
	CreateRefund(ctx context.Context, tx pgx.Tx, refund *model.Refund) error
}

// PurchaseRepository defines the interface for the append-only purchase ledger.
type PurchaseRepository interface {
	// CreatePurchases appends ledger rows within the provided transaction.
	CreatePurchases(ctx context.Context, tx pgx.Tx, purchases []model.Purchase) error

	// TopSelling aggregates quantities per book in [from, to) and returns the best sellers.
	TopSelling(ctx context.Context, from, to time.Time, limit int) ([]model.TopSellingBook, error)

	// ListRecentByUser retrieves the user's latest purchases, newest first.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]model.Purchase, error)

	// TotalsForUser aggregates the user's whole ledger. MonthlyStats is left empty.
	TotalsForUser(ctx context.Context, userID string) (*model.PurchaseStats, error)

	// MonthlyForUser aggregates the user's purchases since the given time per calendar month in loc, newest first.
	MonthlyForUser(ctx context.Context, userID string, since time.Time, loc *time.Location) ([]model.MonthlyPurchaseStat, error)
}
