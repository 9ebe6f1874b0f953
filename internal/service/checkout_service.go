package service

import (
	"context"
	"fmt"
	"time"

	"mini-bookstore/internal/metrics"
	"mini-bookstore/internal/model"
	"mini-bookstore/internal/payment"
	"mini-bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	cartRepo     repository.CartRepository
	orderRepo    repository.OrderRepository
	purchaseRepo repository.PurchaseRepository
	payments     PaymentAuthorizer
	reports      ReportService
	now          func() time.Time
	logger       zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	purchaseRepo repository.PurchaseRepository,
	payments PaymentAuthorizer,
	reports ReportService,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		purchaseRepo: purchaseRepo,
		payments:     payments,
		reports:      reports,
		now:          time.Now,
		logger:       logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout validates the request, confirms payment and records the order,
// its purchase rows and the cart clear in one transaction.
func (s *checkoutService) Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (order *model.Order, err error) {
	if req == nil {
		req = &model.CheckoutRequest{}
	}
	method := resolvePaymentMethod(req)
	defer func() { metrics.RecordCheckout(string(method), err) }()

	if err = validateAddress(req.Address); err != nil {
		s.logger.Debug().Err(err).Str("user_id", userID).Msg("invalid delivery address")
		return nil, err
	}

	lines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}
	total := model.CartTotal(lines)

	var session *model.PaymentSession
	switch method {
	case model.PaymentMethodCOD:
	case model.PaymentMethodUPI:
		if req.TransactionID == "" {
			return nil, model.ErrPaymentNotConfirmed.WithMessage("Transaction ID is required for UPI payments")
		}
		session, err = s.payments.Authorize(ctx, userID, req.TransactionID, total)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("user_id", userID).
				Str("transaction_id", req.TransactionID).
				Msg("payment not confirmed")
			return nil, err
		}
	default:
		return nil, model.ErrUnsupportedPayment
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.cartRepo.LockUser(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// A concurrent checkout may have emptied or changed the cart while we waited.
	lines, err = s.cartRepo.ListByUserTx(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}
	if locked := model.CartTotal(lines); !locked.Equal(total) {
		if session != nil {
			return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment amount does not match the cart total")
		}
		total = locked
	}

	now := s.now().UTC()
	order = newOrder(userID, lines, total, method, req, session, now)

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	if err = s.purchaseRepo.CreatePurchases(ctx, tx, purchasesFor(order, now)); err != nil {
		return nil, fmt.Errorf("failed to record purchases: %w", err)
	}

	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	if err = s.cartRepo.DeleteLinesTx(ctx, tx, userID, ids); err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if session != nil {
		if cErr := s.payments.Consume(ctx, session.TransactionID); cErr != nil {
			s.logger.Warn().
				Err(cErr).
				Str("transaction_id", session.TransactionID).
				Msg("failed to mark payment consumed")
		}
	}
	s.reports.Invalidate(ctx)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Str("payment_method", string(method)).
		Str("total", total.StringFixed(2)).
		Int("item_count", len(order.Items)).
		Msg("order placed successfully")

	return order, nil
}

// resolvePaymentMethod defaults to UPI when a transaction is supplied and to cash on delivery otherwise.
func resolvePaymentMethod(req *model.CheckoutRequest) model.PaymentMethod {
	if req.PaymentMethod != "" {
		return req.PaymentMethod
	}
	if req.TransactionID != "" {
		return model.PaymentMethodUPI
	}
	return model.PaymentMethodCOD
}

func newOrder(
	userID string,
	lines []model.CartLine,
	total decimal.Decimal,
	method model.PaymentMethod,
	req *model.CheckoutRequest,
	session *model.PaymentSession,
	now time.Time,
) *model.Order {
	items := make([]model.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = model.OrderItem{
			BookID:   l.BookID,
			Title:    l.Title,
			Author:   l.Author,
			Price:    l.Price,
			ImageURL: l.ImageURL,
		}
	}

	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Items:         items,
		TotalAmount:   total,
		Status:        model.OrderStatusCompleted,
		PaymentMethod: method,
		PaymentStatus: model.OrderPaymentCompleted,
		Address:       *req.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if session != nil {
		upiID := session.CustomerUPIID
		if upiID == "" {
			upiID = session.UPIID
		}
		order.TransactionID = session.TransactionID
		order.PaymentDetails = model.PaymentDetails{
			UPIID:                upiID,
			PaymentGateway:       payment.GatewayName,
			GatewayTransactionID: session.GatewayTransactionID,
			PaymentTime:          session.PaymentTime,
		}
	}

	return order
}

// purchasesFor appends one ledger row per order item.
func purchasesFor(order *model.Order, now time.Time) []model.Purchase {
	purchases := make([]model.Purchase, len(order.Items))
	for i, item := range order.Items {
		purchases[i] = model.Purchase{
			ID:       uuid.New(),
			OrderID:  order.ID,
			BookID:   item.BookID,
			Title:    item.Title,
			Author:   item.Author,
			Price:    item.Price,
			Quantity: 1,
			UserID:   order.UserID,
			Date:     now,
		}
	}
	return purchases
}
