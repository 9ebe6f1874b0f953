package service

import (
	"context"
	"fmt"

	"mini-bookstore/internal/model"
	"mini-bookstore/internal/repository"

	"github.com/rs/zerolog"
)

// paymentService implements PaymentService on top of the UPI gateway.
type paymentService struct {
	gateway  PaymentGateway
	cartRepo repository.CartRepository
	logger   zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway PaymentGateway, cartRepo repository.CartRepository, logger zerolog.Logger) PaymentService {
	return &paymentService{
		gateway:  gateway,
		cartRepo: cartRepo,
		logger:   logger.With().Str("service", "payment").Logger(),
	}
}

// Initiate opens a UPI session for the user's current cart total.
func (s *paymentService) Initiate(ctx context.Context, userID, upiID string) (*model.InitiatePaymentResponse, error) {
	lines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	resp, err := s.gateway.Initiate(ctx, userID, model.CartTotal(lines), upiID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("transaction_id", resp.TransactionID).
		Str("amount", resp.Amount.StringFixed(2)).
		Msg("payment initiated")

	return resp, nil
}

func (s *paymentService) Verify(ctx context.Context, userID, transactionID string) (*model.VerifyPaymentResponse, error) {
	return s.gateway.Verify(ctx, userID, transactionID)
}

func (s *paymentService) Callback(ctx context.Context, cb model.PaymentCallback) (*model.VerifyPaymentResponse, error) {
	resp, err := s.gateway.HandleCallback(ctx, cb)
	if err != nil {
		s.logger.Warn().Err(err).Str("transaction_id", cb.TransactionID).Msg("payment callback rejected")
		return nil, err
	}
	return resp, nil
}

func (s *paymentService) Status(ctx context.Context, userID, transactionID string) (*model.PaymentStatusResponse, error) {
	return s.gateway.Status(ctx, userID, transactionID)
}
