package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	currencyINR = "INR"
	idAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// FormatAmount renders money with exactly two decimals, as signed and as shown in UPI links.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Checksum is SHA-256 over merchantId|transactionId|orderId|amount|currency|key, hex encoded.
// It is an integrity check against a shared secret, not a signature scheme.
func Checksum(merchantID, transactionID, orderID, amount, currency, key string) string {
	data := strings.Join([]string{merchantID, transactionID, orderID, amount, currency, key}, "|")
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// checksumEqual compares in constant time.
func checksumEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// UPIString builds the upi://pay deep link a UPI app can open or render as a QR code.
func UPIString(payeeVPA, payeeName string, amount decimal.Decimal, orderID, transactionID string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=%s&tn=%s&tr=%s",
		upiEscape(payeeVPA),
		upiEscape(payeeName),
		FormatAmount(amount),
		currencyINR,
		upiEscape("Payment for Order "+orderID),
		upiEscape(transactionID),
	)
}

// queryDelimiters are left alone by url.PathEscape but split a query string.
var queryDelimiters = strings.NewReplacer("&", "%26", "=", "%3D", "+", "%2B")

// upiEscape percent-encodes a query value while keeping '@' readable in VPAs.
func upiEscape(s string) string {
	return queryDelimiters.Replace(url.PathEscape(s))
}

// newReference returns prefix + unix millis + n random characters from idAlphabet.
func newReference(prefix string, now time.Time, n int) string {
	var b strings.Builder
	b.WriteString(prefix)
	fmt.Fprintf(&b, "%d", now.UnixMilli())
	for i := 0; i < n; i++ {
		b.WriteByte(idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return b.String()
}

// NewTransactionID returns a TXN reference.
func NewTransactionID(now time.Time) string {
	return newReference("TXN", now, 5)
}

// NewOrderReference returns an ORD reference used to label a payment before an order exists.
func NewOrderReference(now time.Time) string {
	return newReference("ORD", now, 4)
}

// NewRefundID returns a REF reference.
func NewRefundID(now time.Time) string {
	return newReference("REF", now, 5)
}

func newGatewayTransactionID(now time.Time) string {
	return newReference("GT", now, 5)
}
