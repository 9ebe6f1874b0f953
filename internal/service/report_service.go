package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini-bookstore/internal/archive"
	"mini-bookstore/internal/cache"
	"mini-bookstore/internal/metrics"
	"mini-bookstore/internal/model"
	"mini-bookstore/internal/repository"

	"github.com/rs/zerolog"
)

const (
	monthLayout   = "2006-01"
	topSellingMax = 5
)

// reportService implements ReportService.
type reportService struct {
	purchaseRepo repository.PurchaseRepository
	cache        cache.ReportCache
	archive      archive.Store
	loc          *time.Location
	now          func() time.Time
	logger       zerolog.Logger
}

// NewReportService creates a report service computing calendar months in loc.
func NewReportService(
	purchaseRepo repository.PurchaseRepository,
	reportCache cache.ReportCache,
	store archive.Store,
	loc *time.Location,
	logger zerolog.Logger,
) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{
		purchaseRepo: purchaseRepo,
		cache:        reportCache,
		archive:      store,
		loc:          loc,
		now:          time.Now,
		logger:       logger.With().Str("service", "report").Logger(),
	}
}

// TopSelling serves from the cache, then from the archive for closed months, then from the ledger.
func (s *reportService) TopSelling(ctx context.Context, month string) (*model.TopSellingReport, error) {
	start, err := s.monthStart(month)
	if err != nil {
		return nil, err
	}
	key := start.Format(monthLayout)

	report, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordReportCache(true)
		return report, nil
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.RecordReportCache(false)
	default:
		s.logger.Warn().Err(err).Str("month", key).Msg("report cache unavailable")
	}

	report = nil
	if s.archive != nil && s.closed(start) {
		report, err = s.archive.Get(ctx, archive.TopSellingKey(key))
		if err != nil {
			if !errors.Is(err, archive.ErrNotFound) {
				s.logger.Warn().Err(err).Str("month", key).Msg("failed to read archived report")
			}
			report = nil
		}
	}

	if report == nil {
		report, err = s.compute(ctx, start)
		if err != nil {
			return nil, err
		}
	}

	if err := s.cache.Set(ctx, key, report); err != nil {
		s.logger.Warn().Err(err).Str("month", key).Msg("failed to cache report")
	}

	return report, nil
}

// ArchiveTopSelling recomputes the month from the ledger and stores a snapshot.
func (s *reportService) ArchiveTopSelling(ctx context.Context, month string) (string, error) {
	if s.archive == nil {
		return "", fmt.Errorf("report archive is not configured")
	}

	start, err := s.monthStart(month)
	if err != nil {
		return "", err
	}

	report, err := s.compute(ctx, start)
	if err != nil {
		return "", err
	}

	location, err := s.archive.Put(ctx, archive.TopSellingKey(report.Month), report)
	if err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}

	s.logger.Info().
		Str("month", report.Month).
		Str("location", location).
		Int("books", len(report.Books)).
		Msg("top-selling report archived")

	return location, nil
}

// Invalidate drops the current month's cached report. Failures are logged only.
func (s *reportService) Invalidate(ctx context.Context) {
	key := s.now().In(s.loc).Format(monthLayout)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("month", key).Msg("failed to invalidate report cache")
	}
}

func (s *reportService) compute(ctx context.Context, start time.Time) (*model.TopSellingReport, error) {
	books, err := s.purchaseRepo.TopSelling(ctx, start, start.AddDate(0, 1, 0), topSellingMax)
	if err != nil {
		return nil, fmt.Errorf("failed to compute top-selling books: %w", err)
	}

	return &model.TopSellingReport{
		Month:       start.Format(monthLayout),
		Books:       books,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// monthStart parses YYYY-MM in the report location. An empty month means the current one.
func (s *reportService) monthStart(month string) (time.Time, error) {
	if month == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc), nil
	}

	start, err := time.ParseInLocation(monthLayout, month, s.loc)
	if err != nil {
		return time.Time{}, model.ErrInvalidMonth
	}
	return start, nil
}

// closed reports whether the month starting at start has fully elapsed.
func (s *reportService) closed(start time.Time) bool {
	return !s.now().Before(start.AddDate(0, 1, 0))
}
