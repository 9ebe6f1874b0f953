package service

import (
	"context"
	"time"

	"mini-bookstore/internal/model"
	"mini-bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	repo   repository.CartRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, logger zerolog.Logger) CartService {
	return &cartService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) List(ctx context.Context, userID string) ([]model.CartLine, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Add validates and stores a new line. A book already in the cart yields model.ErrDuplicateLine.
func (s *cartService) Add(ctx context.Context, userID string, req *model.AddCartLineRequest) (*model.CartLine, error) {
	if err := validateCartLine(req); err != nil {
		s.logger.Debug().Err(err).Str("user_id", userID).Msg("invalid cart line")
		return nil, err
	}

	line := &model.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		BookID:    req.BookID,
		Title:     req.Title,
		Author:    req.Author,
		Price:     req.Price,
		ImageURL:  req.ImageURL,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Add(ctx, line); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("book_id", line.BookID).
		Str("item_id", line.ID.String()).
		Msg("book added to cart")

	return line, nil
}

func (s *cartService) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Str("item_id", id.String()).Msg("book removed from cart")
	return nil
}
