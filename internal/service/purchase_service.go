package service

import (
	"context"
	"time"

	"mini-bookstore/internal/model"
	"mini-bookstore/internal/repository"

	"github.com/rs/zerolog"
)

const (
	historyLimit   = 50
	statsMonths    = 6
	historyDateFmt = "Mon Jan 02 2006"
	noAuthor       = "None"
)

// purchaseService implements PurchaseService.
type purchaseService struct {
	repo   repository.PurchaseRepository
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

// NewPurchaseService creates a purchase service grouping days in loc.
func NewPurchaseService(repo repository.PurchaseRepository, loc *time.Location, logger zerolog.Logger) PurchaseService {
	if loc == nil {
		loc = time.UTC
	}
	return &purchaseService{
		repo:   repo,
		loc:    loc,
		now:    time.Now,
		logger: logger.With().Str("service", "purchase").Logger(),
	}
}

// History returns the latest purchases grouped by calendar day, newest first.
func (s *purchaseService) History(ctx context.Context, userID string) (*model.PurchaseHistoryResponse, error) {
	purchases, err := s.repo.ListRecentByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}

	history := make([]model.PurchaseDay, 0)
	index := make(map[string]int)
	for _, p := range purchases {
		day := p.Date.In(s.loc).Format(historyDateFmt)
		i, ok := index[day]
		if !ok {
			i = len(history)
			index[day] = i
			history = append(history, model.PurchaseDay{Date: day})
		}
		history[i].Purchases = append(history[i].Purchases, p)
	}

	return &model.PurchaseHistoryResponse{
		Message:        "Purchase history retrieved successfully",
		History:        history,
		TotalPurchases: len(purchases),
	}, nil
}

// Stats summarises the whole ledger plus monthly buckets for the last six months.
func (s *purchaseService) Stats(ctx context.Context, userID string) (*model.PurchaseStats, error) {
	stats, err := s.repo.TotalsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := s.now().In(s.loc).AddDate(0, -statsMonths, 0)
	monthly, err := s.repo.MonthlyForUser(ctx, userID, since, s.loc)
	if err != nil {
		return nil, err
	}

	if stats.FavoriteAuthor == "" {
		stats.FavoriteAuthor = noAuthor
	}
	stats.MonthlyStats = monthly
	if stats.MonthlyStats == nil {
		stats.MonthlyStats = []model.MonthlyPurchaseStat{}
	}

	return stats, nil
}
