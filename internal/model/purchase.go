package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is one append-only ledger row used for sales reporting.
type Purchase struct {
	ID       uuid.UUID       `json:"_id" db:"id"`
	OrderID  uuid.UUID       `json:"orderId" db:"order_id"`
	BookID   string          `json:"bookId" db:"book_id"`
	Title    string          `json:"title" db:"title"`
	Author   string          `json:"author" db:"author"`
	Price    decimal.Decimal `json:"price" db:"price"`
	Quantity int             `json:"quantity" db:"quantity"`
	UserID   string          `json:"userId" db:"user_id"`
	Date     time.Time       `json:"date" db:"date"`
}

// PurchaseDay groups a user's purchases by calendar day.
type PurchaseDay struct {
	Date      string     `json:"date"`
	Purchases []Purchase `json:"purchases"`
}

// PurchaseHistoryResponse represents GET /api/purchases/history.
type PurchaseHistoryResponse struct {
	Message        string        `json:"message"`
	History        []PurchaseDay `json:"history"`
	TotalPurchases int           `json:"totalPurchases"`
}

// MonthlyPurchaseStat aggregates one calendar month.
type MonthlyPurchaseStat struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Count      int             `json:"count"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

// PurchaseStats summarises a user's purchase ledger.
type PurchaseStats struct {
	TotalPurchases int                   `json:"totalPurchases"`
	TotalSpent     decimal.Decimal       `json:"totalSpent"`
	FavoriteAuthor string                `json:"favoriteAuthor"`
	MonthlyStats   []MonthlyPurchaseStat `json:"monthlyStats"`
}

// PurchaseStatsResponse represents GET /api/purchases/stats.
type PurchaseStatsResponse struct {
	Message string        `json:"message"`
	Stats   PurchaseStats `json:"stats"`
}
