package service

import (
	"context"

	"mini-bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService defines operations on a user's cart.
type CartService interface {
	// List retrieves the user's unpurchased lines.
	List(ctx context.Context, userID string) ([]model.CartLine, error)

	// Add validates and stores a new line for the user.
	Add(ctx context.Context, userID string, req *model.AddCartLineRequest) (*model.CartLine, error)

	// Remove deletes one of the user's lines.
	Remove(ctx context.Context, userID string, id uuid.UUID) error
}

// CheckoutService turns a cart into an order.
type CheckoutService interface {
	// Checkout validates the request, confirms payment and atomically records the order.
	Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error)
}

// PaymentService defines the UPI payment operations exposed over HTTP.
type PaymentService interface {
	Initiate(ctx context.Context, userID, upiID string) (*model.InitiatePaymentResponse, error)
	Verify(ctx context.Context, userID, transactionID string) (*model.VerifyPaymentResponse, error)
	Callback(ctx context.Context, cb model.PaymentCallback) (*model.VerifyPaymentResponse, error)
	Status(ctx context.Context, userID, transactionID string) (*model.PaymentStatusResponse, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// ListForUser retrieves the user's orders, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves every order annotated with its user, newest first.
	ListAll(ctx context.Context) ([]model.AdminOrder, error)

	// Refund returns money against a completed order and cancels it.
	Refund(ctx context.Context, userID string, isAdmin bool, req *model.RefundRequest) (*model.Refund, error)
}

// ReportService defines the sales reports.
type ReportService interface {
	// TopSelling returns the best sellers for month (YYYY-MM), or the current month when empty.
	TopSelling(ctx context.Context, month string) (*model.TopSellingReport, error)

	// ArchiveTopSelling writes a snapshot of the month's report and returns its location.
	ArchiveTopSelling(ctx context.Context, month string) (string, error)

	// Invalidate drops the cached report for the current month.
	Invalidate(ctx context.Context)
}

// PurchaseService defines the per-user purchase ledger views.
type PurchaseService interface {
	History(ctx context.Context, userID string) (*model.PurchaseHistoryResponse, error)
	Stats(ctx context.Context, userID string) (*model.PurchaseStats, error)
}

// PaymentAuthorizer confirms and consumes payments during checkout.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, userID, transactionID string, amount decimal.Decimal) (*model.PaymentSession, error)
	Consume(ctx context.Context, transactionID string) error
}

// PaymentGateway is implemented by payment.Simulator.
type PaymentGateway interface {
	PaymentAuthorizer
	Initiate(ctx context.Context, userID string, amount decimal.Decimal, customerUPIID string) (*model.InitiatePaymentResponse, error)
	Verify(ctx context.Context, userID, transactionID string) (*model.VerifyPaymentResponse, error)
	HandleCallback(ctx context.Context, cb model.PaymentCallback) (*model.VerifyPaymentResponse, error)
	Status(ctx context.Context, userID, transactionID string) (*model.PaymentStatusResponse, error)
}
