package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string            `json:"error"`
	Message       string            `json:"message"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeInvalidAddress      = "INVALID_ADDRESS"
	ErrCodeInvalidCartLine     = "INVALID_CART_LINE"
	ErrCodeDuplicateLine       = "DUPLICATE_LINE"
	ErrCodeCartItemNotFound    = "CART_ITEM_NOT_FOUND"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeUnsupportedPayment  = "UNSUPPORTED_PAYMENT_METHOD"
	ErrCodePaymentNotConfirmed = "PAYMENT_NOT_CONFIRMED"
	ErrCodePaymentInit         = "PAYMENT_INIT_ERROR"
	ErrCodePaymentNotFound     = "PAYMENT_NOT_FOUND"
	ErrCodeChecksumMismatch    = "CHECKSUM_MISMATCH"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeRefundNotAllowed    = "REFUND_NOT_ALLOWED"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeInvalidMonth        = "INVALID_MONTH"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeUnavailable         = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business rule violation reported to the caller without side effects.
type DomainError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on the error code so copies carrying extra detail still satisfy errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithFields returns a copy of e carrying per-field validation messages.
func (e *DomainError) WithFields(fields map[string]string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Fields: fields}
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Fields: e.Fields}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidAddress      = NewDomainError(ErrCodeInvalidAddress, "Delivery address is invalid")
	ErrInvalidCartLine     = NewDomainError(ErrCodeInvalidCartLine, "Cart item is invalid")
	ErrDuplicateLine       = NewDomainError(ErrCodeDuplicateLine, "Book is already in the cart")
	ErrCartItemNotFound    = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrUnsupportedPayment  = NewDomainError(ErrCodeUnsupportedPayment, "Payment method is not supported")
	ErrPaymentNotConfirmed = NewDomainError(ErrCodePaymentNotConfirmed, "Payment has not been confirmed")
	ErrPaymentInit         = NewDomainError(ErrCodePaymentInit, "Payment amount must be greater than zero")
	ErrPaymentNotFound     = NewDomainError(ErrCodePaymentNotFound, "Payment transaction not found")
	ErrChecksumMismatch    = NewDomainError(ErrCodeChecksumMismatch, "Invalid payment callback - checksum mismatch")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrRefundNotAllowed    = NewDomainError(ErrCodeRefundNotAllowed, "Order cannot be refunded")
	ErrInvalidAmount       = NewDomainError(ErrCodeInvalidAmount, "Amount is invalid")
	ErrInvalidMonth        = NewDomainError(ErrCodeInvalidMonth, "Month must be formatted as YYYY-MM")
)
