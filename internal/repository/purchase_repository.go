package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini-bookstore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// purchaseRepository implements the PurchaseRepository interface using PostgreSQL.
type purchaseRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPurchaseRepository creates a new PostgreSQL-backed purchase ledger.
func NewPurchaseRepository(pool *pgxpool.Pool, logger zerolog.Logger) PurchaseRepository {
	return &purchaseRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "purchase").Logger(),
	}
}

// CreatePurchases appends ledger rows within the provided transaction.
func (r *purchaseRepository) CreatePurchases(ctx context.Context, tx pgx.Tx, purchases []model.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}

	query := `
		INSERT INTO purchases (id, order_id, book_id, title, author, price, quantity, user_id, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, p := range purchases {
		batch.Queue(query, p.ID, p.OrderID, p.BookID, p.Title, p.Author, p.Price, p.Quantity, p.UserID, p.Date)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(purchases); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", purchases[i].OrderID.String()).
				Str("book_id", purchases[i].BookID).
				Msg("failed to create purchase")
			return fmt.Errorf("failed to create purchase: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(purchases)).
		Msg("purchases created successfully")

	return nil
}

// TopSelling aggregates quantities per book in [from, to). Title and author come
// from the most recent purchase of each book.
func (r *purchaseRepository) TopSelling(ctx context.Context, from, to time.Time, limit int) ([]model.TopSellingBook, error) {
	query := `
		SELECT book_id,
		       (ARRAY_AGG(title ORDER BY date DESC, id DESC))[1],
		       (ARRAY_AGG(author ORDER BY date DESC, id DESC))[1],
		       SUM(quantity)
		FROM purchases
		WHERE date >= $1 AND date < $2
		GROUP BY book_id
		ORDER BY SUM(quantity) DESC, book_id
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query top selling books")
		return nil, fmt.Errorf("failed to query top selling books: %w", err)
	}
	defer rows.Close()

	books := make([]model.TopSellingBook, 0, limit)
	for rows.Next() {
		var (
			b     model.TopSellingBook
			total int64
		)
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &total); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan top selling row")
			return nil, fmt.Errorf("failed to scan top selling book: %w", err)
		}
		b.TotalSold = int(total)
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating top selling rows")
		return nil, fmt.Errorf("error iterating top selling books: %w", err)
	}

	return books, nil
}

// ListRecentByUser retrieves the user's latest purchases, newest first.
func (r *purchaseRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]model.Purchase, error) {
	query := `
		SELECT id, order_id, book_id, title, author, price, quantity, user_id, date
		FROM purchases
		WHERE user_id = $1
		ORDER BY date DESC, id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query purchases")
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]model.Purchase, 0)
	for rows.Next() {
		var p model.Purchase
		err := rows.Scan(&p.ID, &p.OrderID, &p.BookID, &p.Title, &p.Author, &p.Price, &p.Quantity, &p.UserID, &p.Date)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan purchase row")
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating purchase rows")
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}

// TotalsForUser aggregates the user's whole ledger.
func (r *purchaseRepository) TotalsForUser(ctx context.Context, userID string) (*model.PurchaseStats, error) {
	totalsQuery := `
		SELECT COUNT(*), COALESCE(SUM(price * quantity), 0)
		FROM purchases
		WHERE user_id = $1
	`

	var (
		count int64
		spent decimal.Decimal
	)
	if err := r.pool.QueryRow(ctx, totalsQuery, userID).Scan(&count, &spent); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query purchase totals")
		return nil, fmt.Errorf("failed to query purchase totals: %w", err)
	}

	authorQuery := `
		SELECT author
		FROM purchases
		WHERE user_id = $1 AND author <> ''
		GROUP BY author
		ORDER BY SUM(quantity) DESC, author
		LIMIT 1
	`

	var author string
	err := r.pool.QueryRow(ctx, authorQuery, userID).Scan(&author)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query favourite author")
		return nil, fmt.Errorf("failed to query favourite author: %w", err)
	}

	return &model.PurchaseStats{
		TotalPurchases: int(count),
		TotalSpent:     spent,
		FavoriteAuthor: author,
		MonthlyStats:   []model.MonthlyPurchaseStat{},
	}, nil
}

// MonthlyForUser aggregates purchases since the given time per calendar month in loc, newest first.
func (r *purchaseRepository) MonthlyForUser(ctx context.Context, userID string, since time.Time, loc *time.Location) ([]model.MonthlyPurchaseStat, error) {
	if loc == nil {
		loc = time.UTC
	}

	query := `
		SELECT EXTRACT(YEAR FROM date AT TIME ZONE $3::text)::int AS year,
		       EXTRACT(MONTH FROM date AT TIME ZONE $3::text)::int AS month,
		       SUM(quantity),
		       SUM(price * quantity)
		FROM purchases
		WHERE user_id = $1 AND date >= $2
		GROUP BY year, month
		ORDER BY year DESC, month DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, since, loc.String())
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query monthly purchases")
		return nil, fmt.Errorf("failed to query monthly purchases: %w", err)
	}
	defer rows.Close()

	stats := make([]model.MonthlyPurchaseStat, 0)
	for rows.Next() {
		var (
			s     model.MonthlyPurchaseStat
			count int64
		)
		if err := rows.Scan(&s.Year, &s.Month, &count, &s.TotalSpent); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan monthly purchase row")
			return nil, fmt.Errorf("failed to scan monthly purchases: %w", err)
		}
		s.Count = int(count)
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating monthly purchase rows")
		return nil, fmt.Errorf("error iterating monthly purchases: %w", err)
	}

	return stats, nil
}
