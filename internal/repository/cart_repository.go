package repository

import (
	"context"
	"errors"
	"fmt"

	"mini-bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	uniqueViolation = "23505"

	// checkoutLockSpace namespaces the per-user advisory locks taken during checkout.
	checkoutLockSpace = 7411
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Add inserts a new unpurchased line.
func (r *cartRepository) Add(ctx context.Context, line *model.CartLine) error {
	query := `
		INSERT INTO cart_items (id, user_id, book_id, title, author, price, image_url, purchased, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		line.ID, line.UserID, line.BookID, line.Title, line.Author, line.Price, line.ImageURL, line.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug().
				Str("user_id", line.UserID).
				Str("book_id", line.BookID).
				Msg("book already in cart")
			return model.ErrDuplicateLine
		}
		r.logger.Error().
			Err(err).
			Str("user_id", line.UserID).
			Str("book_id", line.BookID).
			Msg("failed to add cart line")
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	return nil
}

// ListByUser retrieves the user's unpurchased lines ordered by creation time.
func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	return r.list(ctx, r.pool, userID, false)
}

// ListByUserTx reads and row-locks the user's lines inside the provided transaction.
func (r *cartRepository) ListByUserTx(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartLine, error) {
	return r.list(ctx, tx, userID, true)
}

func (r *cartRepository) list(ctx context.Context, q querier, userID string, forUpdate bool) ([]model.CartLine, error) {
	query := `
		SELECT id, user_id, book_id, title, author, price, image_url, purchased, created_at
		FROM cart_items
		WHERE user_id = $1 AND NOT purchased
		ORDER BY created_at, id
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	lines := make([]model.CartLine, 0)
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(&l.ID, &l.UserID, &l.BookID, &l.Title, &l.Author, &l.Price, &l.ImageURL, &l.Purchased, &l.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// Remove deletes one of the user's unpurchased lines.
func (r *cartRepository) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2 AND NOT purchased`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("item_id", id.String()).
		Msg("cart line removed")

	return nil
}

// LockUser takes a transaction-scoped advisory lock for the user.
func (r *cartRepository) LockUser(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`, checkoutLockSpace, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to acquire checkout lock")
		return fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	return nil
}

// DeleteLinesTx removes the given lines within the provided transaction.
func (r *cartRepository) DeleteLinesTx(ctx context.Context, tx pgx.Tx, userID string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if int(tag.RowsAffected()) != len(ids) {
		return fmt.Errorf("failed to clear cart: removed %d of %d lines", tag.RowsAffected(), len(ids))
	}

	return nil
}
