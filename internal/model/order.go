package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodUPI, PaymentMethodCard, PaymentMethodWallet:
		return true
	}
	return false
}

// OrderPaymentStatus is the payment state recorded on an order.
type OrderPaymentStatus string

const (
	OrderPaymentPending   OrderPaymentStatus = "pending"
	OrderPaymentCompleted OrderPaymentStatus = "completed"
	OrderPaymentFailed    OrderPaymentStatus = "failed"
	OrderPaymentRefunded  OrderPaymentStatus = "refunded"
)

// Address is the delivery address captured at checkout.
type Address struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}

// PaymentDetails records how a UPI payment was confirmed.
type PaymentDetails struct {
	UPIID                string     `json:"upiId,omitempty"`
	PaymentGateway       string     `json:"paymentGateway,omitempty"`
	GatewayTransactionID string     `json:"gatewayTransactionId,omitempty"`
	PaymentTime          *time.Time `json:"paymentTime,omitempty"`
}

// OrderItem is a snapshot of a cart line at the time of purchase.
type OrderItem struct {
	BookID   string          `json:"bookId"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

// Order is the immutable record of a completed checkout.
type Order struct {
	ID             uuid.UUID          `json:"_id" db:"id"`
	UserID         string             `json:"userId" db:"user_id"`
	Items          []OrderItem        `json:"items" db:"items"`
	TotalAmount    decimal.Decimal    `json:"totalAmount" db:"total_amount"`
	Status         OrderStatus        `json:"status" db:"status"`
	PaymentMethod  PaymentMethod      `json:"paymentMethod" db:"payment_method"`
	PaymentStatus  OrderPaymentStatus `json:"paymentStatus" db:"payment_status"`
	TransactionID  string             `json:"transactionId" db:"transaction_id"`
	PaymentDetails PaymentDetails     `json:"paymentDetails" db:"payment_details"`
	Address        Address            `json:"address" db:"address"`
	CreatedAt      time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" db:"updated_at"`
}

// CheckoutRequest represents the payload of POST /api/cart/checkout.
type CheckoutRequest struct {
	Address       *Address      `json:"address,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	TransactionID string        `json:"transactionId,omitempty"`
}

// RefundRequest represents the payload of POST /api/payments/refund.
type RefundRequest struct {
	OrderID uuid.UUID       `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}

// Refund records money returned against an order.
type Refund struct {
	ID            string          `json:"refundId" db:"id"`
	OrderID       uuid.UUID       `json:"orderId" db:"order_id"`
	TransactionID string          `json:"transactionId" db:"transaction_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Reason        string          `json:"reason" db:"reason"`
	Status        string          `json:"status" db:"status"`
	ProcessedAt   time.Time       `json:"processedAt" db:"processed_at"`
}

// OrdersResponse wraps an order listing.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// AdminOrder is an order annotated with the purchasing user.
type AdminOrder struct {
	Order
	User OrderUser `json:"user"`
}

// OrderUser is the user reference populated on admin listings.
type OrderUser struct {
	ID string `json:"_id"`
}

// CheckoutResponse represents the result of POST /api/cart/checkout.
type CheckoutResponse struct {
	Message string `json:"message"`
	Order   *Order `json:"order"`
}

// AdminOrdersResponse wraps the admin order listing.
type AdminOrdersResponse struct {
	Orders []AdminOrder `json:"orders"`
}
