package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching what the storefront sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartLine is one unpurchased book in a user's cart.
type CartLine struct {
	ID        uuid.UUID       `json:"_id" db:"id"`
	UserID    string          `json:"userId" db:"user_id"`
	BookID    string          `json:"bookId" db:"book_id"`
	Title     string          `json:"title" db:"title"`
	Author    string          `json:"author" db:"author"`
	Price     decimal.Decimal `json:"price" db:"price"`
	ImageURL  string          `json:"imageUrl" db:"image_url"`
	Purchased bool            `json:"purchased" db:"purchased"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// AddCartLineRequest represents the payload of POST /api/cart/add.
type AddCartLineRequest struct {
	BookID   string          `json:"bookId"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

// CartResponse wraps the cart listing.
type CartResponse struct {
	Items []CartLine `json:"items"`
}

// CartLineResponse wraps a single added line.
type CartLineResponse struct {
	Item CartLine `json:"item"`
}

// CartTotal sums line prices exactly.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price)
	}
	return total
}
