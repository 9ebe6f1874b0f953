package repository

import (
	"context"
	"testing"
	"time"

	"mini-bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purchaseFixture struct {
	userID string
	bookID string
	author string
	price  string
	qty    int
	at     time.Time
}

func seedPurchases(t *testing.T, orders OrderRepository, purchases PurchaseRepository, fixtures []purchaseFixture) {
	ctx := context.Background()

	tx, err := orders.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	order := newOrder("seed", "", time.Now().UTC())
	require.NoError(t, orders.CreateOrder(ctx, tx, order))

	rows := make([]model.Purchase, 0, len(fixtures))
	for _, f := range fixtures {
		rows = append(rows, model.Purchase{
			ID:       uuid.New(),
			OrderID:  order.ID,
			BookID:   f.bookID,
			Title:    "Title " + f.bookID,
			Author:   f.author,
			Price:    decimal.RequireFromString(f.price),
			Quantity: f.qty,
			UserID:   f.userID,
			Date:     f.at,
		})
	}

	require.NoError(t, purchases.CreatePurchases(ctx, tx, rows))
	require.NoError(t, tx.Commit(ctx))
}

func TestPurchaseRepository_TopSelling(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	orders := NewOrderRepository(pool, zerolog.Nop())
	repo := NewPurchaseRepository(pool, zerolog.Nop())
	ctx := context.Background()

	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	mid := monthStart.Add(10 * 24 * time.Hour)

	var fixtures []purchaseFixture
	for i := 0; i < 3; i++ {
		fixtures = append(fixtures, purchaseFixture{"u1", "A", "Ann", "10.00", 1, mid})
	}
	for i := 0; i < 5; i++ {
		fixtures = append(fixtures, purchaseFixture{"u2", "B", "Bob", "12.00", 1, mid})
	}
	fixtures = append(fixtures,
		purchaseFixture{"u1", "C", "Cy", "5.00", 1, mid},
		purchaseFixture{"u1", "D", "Di", "5.00", 1, mid},
		purchaseFixture{"u1", "E", "Ed", "5.00", 1, mid},
		purchaseFixture{"u1", "F", "Fa", "5.00", 1, mid},
		// outside the month
		purchaseFixture{"u1", "Z", "Zo", "5.00", 40, monthStart.Add(-time.Second)},
		purchaseFixture{"u1", "Z", "Zo", "5.00", 40, monthEnd},
	)
	seedPurchases(t, orders, repo, fixtures)

	books, err := repo.TopSelling(ctx, monthStart, monthEnd, 5)
	require.NoError(t, err)
	require.Len(t, books, 5)

	assert.Equal(t, model.TopSellingBook{BookID: "B", Title: "Title B", Author: "Bob", TotalSold: 5}, books[0])
	assert.Equal(t, "A", books[1].BookID)
	assert.Equal(t, 3, books[1].TotalSold)
	// ties are broken by book id
	assert.Equal(t, []string{"C", "D", "E"}, []string{books[2].BookID, books[3].BookID, books[4].BookID})

	empty, err := repo.TopSelling(ctx, monthEnd.AddDate(1, 0, 0), monthEnd.AddDate(1, 1, 0), 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPurchaseRepository_UserQueries(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	orders := NewOrderRepository(pool, zerolog.Nop())
	repo := NewPurchaseRepository(pool, zerolog.Nop())
	ctx := context.Background()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	seedPurchases(t, orders, repo, []purchaseFixture{
		{"u1", "A", "Ann", "10.00", 1, now},
		{"u1", "B", "Bob", "15.50", 2, now.Add(-time.Hour)},
		{"u1", "C", "Ann", "7.25", 1, now.AddDate(0, -1, 0)},
		{"u1", "D", "Old", "3.00", 1, now.AddDate(-1, 0, 0)},
		{"u2", "A", "Ann", "10.00", 1, now},
	})

	recent, err := repo.ListRecentByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "A", recent[0].BookID)
	assert.Equal(t, "B", recent[1].BookID)
	assert.Equal(t, 2, recent[1].Quantity)

	totals, err := repo.TotalsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, totals.TotalPurchases)
	// 10 + 2*15.50 + 7.25 + 3
	assert.True(t, decimal.RequireFromString("51.25").Equal(totals.TotalSpent), totals.TotalSpent.String())
	// Ann and Bob both have quantity 2; ties break alphabetically
	assert.Equal(t, "Ann", totals.FavoriteAuthor)

	none, err := repo.TotalsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, none.TotalPurchases)
	assert.True(t, none.TotalSpent.IsZero())
	assert.Empty(t, none.FavoriteAuthor)

	monthly, err := repo.MonthlyForUser(ctx, "u1", now.AddDate(0, -6, 0), time.UTC)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, 2026, monthly[0].Year)
	assert.Equal(t, 6, monthly[0].Month)
	assert.Equal(t, 3, monthly[0].Count)
	assert.True(t, decimal.RequireFromString("41.00").Equal(monthly[0].TotalSpent))
	assert.Equal(t, 5, monthly[1].Month)
}

func TestPurchaseRepository_MonthlyForUser_Location(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	orders := NewOrderRepository(pool, zerolog.Nop())
	repo := NewPurchaseRepository(pool, zerolog.Nop())
	ctx := context.Background()

	// 20:00 UTC on 30 June is 01:30 on 1 July in Kolkata
	late := time.Date(2026, 6, 30, 20, 0, 0, 0, time.UTC)
	seedPurchases(t, orders, repo, []purchaseFixture{
		{"u1", "A", "Ann", "10.00", 1, late},
	})
	since := late.AddDate(0, -6, 0)

	utc, err := repo.MonthlyForUser(ctx, "u1", since, time.UTC)
	require.NoError(t, err)
	require.Len(t, utc, 1)
	assert.Equal(t, 6, utc[0].Month)

	local, err := repo.MonthlyForUser(ctx, "u1", since, kolkata)
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, 2026, local[0].Year)
	assert.Equal(t, 7, local[0].Month)
}
