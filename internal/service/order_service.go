package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mini-bookstore/internal/model"
	"mini-bookstore/internal/payment"
	"mini-bookstore/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultRefundReason = "Customer request"
	refundProcessed     = "processed"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

func (s *orderService) ListForUser(ctx context.Context, userID string) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListAll retrieves every order with the purchasing user populated.
func (s *orderService) ListAll(ctx context.Context) ([]model.AdminOrder, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.AdminOrder, len(orders))
	for i, o := range orders {
		result[i] = model.AdminOrder{Order: o, User: model.OrderUser{ID: o.UserID}}
	}
	return result, nil
}

// Refund cancels a completed order and records the refund in one transaction.
func (s *orderService) Refund(ctx context.Context, userID string, isAdmin bool, req *model.RefundRequest) (refund *model.Refund, err error) {
	if req == nil || !req.Amount.IsPositive() {
		return nil, model.ErrInvalidAmount.WithMessage("Refund amount must be greater than zero")
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to refund order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to refund order: %w", err)
	}
	if order == nil || (!isAdmin && order.UserID != userID) {
		return nil, model.ErrOrderNotFound
	}
	if order.PaymentStatus != model.OrderPaymentCompleted {
		return nil, model.ErrRefundNotAllowed.WithMessage(
			fmt.Sprintf("Order payment is %s and cannot be refunded", order.PaymentStatus))
	}
	if req.Amount.GreaterThan(order.TotalAmount) {
		return nil, model.ErrInvalidAmount.WithMessage("Refund amount exceeds the order total")
	}

	now := s.now().UTC()
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultRefundReason
	}

	refund = &model.Refund{
		ID:            payment.NewRefundID(now),
		OrderID:       order.ID,
		TransactionID: order.TransactionID,
		Amount:        req.Amount,
		Reason:        reason,
		Status:        refundProcessed,
		ProcessedAt:   now,
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.OrderStatusCancelled, model.OrderPaymentRefunded, now); err != nil {
		return nil, err
	}

	if err = s.orderRepo.CreateRefund(ctx, tx, refund); err != nil {
		return nil, fmt.Errorf("failed to refund order: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to refund order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("refund_id", refund.ID).
		Str("amount", refund.Amount.StringFixed(2)).
		Bool("by_admin", isAdmin && order.UserID != userID).
		Msg("order refunded")

	return refund, nil
}
