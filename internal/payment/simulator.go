package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini-bookstore/internal/config"
	"mini-bookstore/internal/metrics"
	"mini-bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	pathVerify   = "verify"
	pathCallback = "callback"
	pathTimeout  = "timeout"

	// GatewayName labels orders paid through the simulator.
	GatewayName = "UPI Simulator"
)

// Simulator fabricates UPI transactions and drives them through
// initializing -> pending -> processing -> completed | failed.
// A pending or processing session past its deadline is failed on the next read.
type Simulator struct {
	store   SessionStore
	outcome Outcome
	cfg     config.PaymentConfig
	now     func() time.Time
	logger  zerolog.Logger
}

// NewSimulator creates a payment simulator.
func NewSimulator(store SessionStore, outcome Outcome, cfg config.PaymentConfig, logger zerolog.Logger) *Simulator {
	return &Simulator{
		store:   store,
		outcome: outcome,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger.With().Str("component", "payment_simulator").Logger(),
	}
}

// Initiate opens a pending session for amount and returns what the client needs to pay.
func (s *Simulator) Initiate(ctx context.Context, userID string, amount decimal.Decimal, customerUPIID string) (*model.InitiatePaymentResponse, error) {
	if !amount.IsPositive() {
		return nil, model.ErrPaymentInit
	}

	now := s.now().UTC()
	session := &model.PaymentSession{
		TransactionID: NewTransactionID(now),
		OrderID:       NewOrderReference(now),
		UserID:        userID,
		Amount:        amount,
		Currency:      currencyINR,
		UPIID:         s.cfg.UPIID,
		CustomerUPIID: customerUPIID,
		Status:        model.PaymentStatusInitializing,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.SessionTimeout),
	}
	session.Checksum = Checksum(s.cfg.MerchantID, session.TransactionID, session.OrderID,
		FormatAmount(amount), session.Currency, s.cfg.MerchantKey)
	session.Status = model.PaymentStatusPending

	if err := s.store.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store payment session")
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}

	upi := UPIString(s.cfg.UPIID, s.cfg.MerchantName, amount, session.OrderID, session.TransactionID)

	s.logger.Info().
		Str("transaction_id", session.TransactionID).
		Str("user_id", userID).
		Str("amount", FormatAmount(amount)).
		Time("expires_at", session.ExpiresAt).
		Msg("payment initiated")

	return &model.InitiatePaymentResponse{
		TransactionID: session.TransactionID,
		OrderID:       session.OrderID,
		Amount:        amount,
		Currency:      session.Currency,
		UPIString:     upi,
		QRCode:        upi,
		Checksum:      session.Checksum,
		ExpiresAt:     session.ExpiresAt,
	}, nil
}

// Verify is the client-confirm fallback: the session moves to processing and the
// configured Outcome decides the result.
func (s *Simulator) Verify(ctx context.Context, userID, transactionID string) (*model.VerifyPaymentResponse, error) {
	session, err := s.store.Update(ctx, transactionID, func(ps *model.PaymentSession) (bool, error) {
		if ps.UserID != userID {
			return false, model.ErrPaymentNotFound
		}
		if ps.Status.IsTerminal() {
			return false, nil
		}
		if s.expire(ps) {
			return true, nil
		}
		ps.Status = model.PaymentStatusProcessing
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if session.Status == model.PaymentStatusProcessing {
		session, err = s.store.Update(ctx, transactionID, func(ps *model.PaymentSession) (bool, error) {
			if ps.Status != model.PaymentStatusProcessing {
				return false, nil
			}
			if s.outcome.Succeeds(ps) {
				s.settle(ps, model.PaymentStatusSuccess, "", pathVerify)
			} else {
				s.settle(ps, model.PaymentStatusFailed, "", pathVerify)
			}
			return true, nil
		})
		if err != nil {
			return nil, err
		}
	}

	return &model.VerifyPaymentResponse{
		Success:       session.Status == model.PaymentStatusSuccess,
		TransactionID: session.TransactionID,
		Status:        session.Status,
	}, nil
}

// HandleCallback applies a gateway notification after checking its checksum.
func (s *Simulator) HandleCallback(ctx context.Context, cb model.PaymentCallback) (*model.VerifyPaymentResponse, error) {
	expected := Checksum(cb.MerchantID, cb.TransactionID, cb.OrderID, cb.Amount, cb.Currency, s.cfg.MerchantKey)
	if cb.MerchantID != s.cfg.MerchantID || !checksumEqual(expected, cb.Checksum) {
		s.logger.Warn().
			Str("transaction_id", cb.TransactionID).
			Msg("rejected payment callback with bad checksum")
		return nil, model.ErrChecksumMismatch
	}

	amount, err := decimal.NewFromString(cb.Amount)
	if err != nil {
		return nil, model.ErrChecksumMismatch.WithMessage("Payment callback amount is malformed")
	}

	session, err := s.store.Update(ctx, cb.TransactionID, func(ps *model.PaymentSession) (bool, error) {
		if ps.OrderID != cb.OrderID || ps.Currency != cb.Currency || !ps.Amount.Equal(amount) {
			return false, model.ErrChecksumMismatch.WithMessage("Payment callback does not match the transaction")
		}
		if ps.Status.IsTerminal() {
			return false, nil
		}
		if s.expire(ps) {
			return true, nil
		}
		status := model.PaymentStatusFailed
		if cb.Status == "success" || cb.Status == string(model.PaymentStatusSuccess) {
			status = model.PaymentStatusSuccess
		}
		s.settle(ps, status, cb.GatewayTransactionID, pathCallback)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return &model.VerifyPaymentResponse{
		Success:       session.Status == model.PaymentStatusSuccess,
		TransactionID: session.TransactionID,
		Status:        session.Status,
	}, nil
}

// Status returns the current state of a user's transaction, failing it first if it has expired.
func (s *Simulator) Status(ctx context.Context, userID, transactionID string) (*model.PaymentStatusResponse, error) {
	session, err := s.observe(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, model.ErrPaymentNotFound
	}

	return &model.PaymentStatusResponse{
		TransactionID:        session.TransactionID,
		Status:               session.Status,
		Amount:               session.Amount,
		GatewayTransactionID: session.GatewayTransactionID,
		PaymentTime:          session.PaymentTime,
		ExpiresAt:            session.ExpiresAt,
	}, nil
}

// Authorize checks that transactionID is a successful, unused payment by userID for exactly amount.
func (s *Simulator) Authorize(ctx context.Context, userID, transactionID string, amount decimal.Decimal) (*model.PaymentSession, error) {
	session, err := s.observe(ctx, transactionID)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment transaction not found")
		}
		return nil, err
	}

	switch {
	case session.UserID != userID:
		return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment transaction not found")
	case session.Status != model.PaymentStatusSuccess:
		return nil, model.ErrPaymentNotConfirmed
	case session.Consumed:
		return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment has already been used for another order")
	case !session.Amount.Equal(amount):
		return nil, model.ErrPaymentNotConfirmed.WithMessage("Payment amount does not match the cart total")
	}

	return session, nil
}

// Consume marks a successful session as backing an order so it cannot be reused.
func (s *Simulator) Consume(ctx context.Context, transactionID string) error {
	_, err := s.store.Update(ctx, transactionID, func(ps *model.PaymentSession) (bool, error) {
		if ps.Status != model.PaymentStatusSuccess {
			return false, model.ErrPaymentNotConfirmed
		}
		if ps.Consumed {
			return false, model.ErrPaymentNotConfirmed.WithMessage("Payment has already been used for another order")
		}
		ps.Consumed = true
		return true, nil
	})
	return err
}

func (s *Simulator) observe(ctx context.Context, transactionID string) (*model.PaymentSession, error) {
	return s.store.Update(ctx, transactionID, func(ps *model.PaymentSession) (bool, error) {
		return s.expire(ps), nil
	})
}

// expire fails a session whose deadline has passed and reports whether it did.
func (s *Simulator) expire(ps *model.PaymentSession) bool {
	if !ps.Expired(s.now()) {
		return false
	}
	ps.Status = model.PaymentStatusFailed
	metrics.RecordPaymentResolved(pathTimeout, string(ps.Status))
	s.logger.Info().Str("transaction_id", ps.TransactionID).Msg("payment session expired")
	return true
}

func (s *Simulator) settle(ps *model.PaymentSession, status model.PaymentStatus, gatewayTxnID, path string) {
	now := s.now().UTC()
	if gatewayTxnID == "" {
		gatewayTxnID = newGatewayTransactionID(now)
	}
	ps.Status = status
	ps.GatewayTransactionID = gatewayTxnID
	ps.PaymentTime = &now

	metrics.RecordPaymentResolved(path, string(status))
	s.logger.Info().
		Str("transaction_id", ps.TransactionID).
		Str("status", string(status)).
		Str("path", path).
		Msg("payment resolved")
}
