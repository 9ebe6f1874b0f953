package handler

import (
	"context"
	"net/http"

	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) List(ctx context.Context, userID string) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, userID string, req *model.AddCartLineRequest) (*model.CartLine, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockPaymentService is a mock implementation of PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Initiate(ctx context.Context, userID, upiID string) (*model.InitiatePaymentResponse, error) {
	args := m.Called(ctx, userID, upiID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InitiatePaymentResponse), args.Error(1)
}

func (m *MockPaymentService) Verify(ctx context.Context, userID, transactionID string) (*model.VerifyPaymentResponse, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerifyPaymentResponse), args.Error(1)
}

func (m *MockPaymentService) Callback(ctx context.Context, cb model.PaymentCallback) (*model.VerifyPaymentResponse, error) {
	args := m.Called(ctx, cb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerifyPaymentResponse), args.Error(1)
}

func (m *MockPaymentService) Status(ctx context.Context, userID, transactionID string) (*model.PaymentStatusResponse, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentStatusResponse), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) ([]model.AdminOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AdminOrder), args.Error(1)
}

func (m *MockOrderService) Refund(ctx context.Context, userID string, isAdmin bool, req *model.RefundRequest) (*model.Refund, error) {
	args := m.Called(ctx, userID, isAdmin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Refund), args.Error(1)
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

// MockPurchaseService is a mock implementation of PurchaseService.
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) History(ctx context.Context, userID string) (*model.PurchaseHistoryResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseHistoryResponse), args.Error(1)
}

func (m *MockPurchaseService) Stats(ctx context.Context, userID string) (*model.PurchaseStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseStats), args.Error(1)
}

// asUser attaches bearer claims the way the auth middleware does.
func asUser(r *http.Request, userID, role string) *http.Request {
	return r.WithContext(auth.WithClaims(r.Context(), &auth.Claims{UserID: userID, Role: role}))
}
