package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a simulated UPI transaction.
type PaymentStatus string

const (
	PaymentStatusInitializing PaymentStatus = "initializing"
	PaymentStatusPending      PaymentStatus = "pending"
	PaymentStatusProcessing   PaymentStatus = "processing"
	PaymentStatusSuccess      PaymentStatus = "completed"
	PaymentStatusFailed       PaymentStatus = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// PaymentSession is the transient state of one UPI transaction.
type PaymentSession struct {
	TransactionID        string          `json:"transactionId"`
	OrderID              string          `json:"orderId"`
	UserID               string          `json:"userId"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	UPIID                string          `json:"upiId"`
	CustomerUPIID        string          `json:"customerUpiId,omitempty"`
	Status               PaymentStatus   `json:"status"`
	Checksum             string          `json:"checksum"`
	GatewayTransactionID string          `json:"gatewayTransactionId,omitempty"`
	PaymentTime          *time.Time      `json:"paymentTime,omitempty"`
	Consumed             bool            `json:"consumed"`
	CreatedAt            time.Time       `json:"createdAt"`
	ExpiresAt            time.Time       `json:"expiresAt"`
}

// Expired reports whether a pending session has outlived its window.
func (s *PaymentSession) Expired(now time.Time) bool {
	return !s.Status.IsTerminal() && !now.Before(s.ExpiresAt)
}

// InitiatePaymentRequest represents the payload of POST /api/payments/upi/initiate.
type InitiatePaymentRequest struct {
	UPIID string `json:"upiId"`
}

// InitiatePaymentResponse carries what a client needs to pay.
type InitiatePaymentResponse struct {
	TransactionID string          `json:"transactionId"`
	OrderID       string          `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	UPIString     string          `json:"upiString"`
	QRCode        string          `json:"qrCode"`
	Checksum      string          `json:"checksum"`
	ExpiresAt     time.Time       `json:"expiresAt"`
}

// VerifyPaymentRequest represents the payload of POST /api/payments/upi/verify.
type VerifyPaymentRequest struct {
	TransactionID string `json:"transactionId"`
}

// VerifyPaymentResponse reports the resolved state of a transaction.
type VerifyPaymentResponse struct {
	Success       bool          `json:"success"`
	TransactionID string        `json:"transactionId"`
	Status        PaymentStatus `json:"status"`
}

// PaymentCallback is the server-to-server notification from the UPI gateway.
type PaymentCallback struct {
	MerchantID           string `json:"merchantId"`
	TransactionID        string `json:"transactionId"`
	OrderID              string `json:"orderId"`
	Amount               string `json:"amount"`
	Currency             string `json:"currency"`
	Status               string `json:"status"`
	GatewayTransactionID string `json:"gatewayTransactionId"`
	Checksum             string `json:"checksum"`
}

// PaymentStatusResponse represents GET /api/payments/status/{transactionId}.
type PaymentStatusResponse struct {
	TransactionID        string          `json:"transactionId"`
	Status               PaymentStatus   `json:"status"`
	Amount               decimal.Decimal `json:"amount"`
	GatewayTransactionID string          `json:"gatewayTransactionId,omitempty"`
	PaymentTime          *time.Time      `json:"paymentTime,omitempty"`
	ExpiresAt            time.Time       `json:"expiresAt"`
}
