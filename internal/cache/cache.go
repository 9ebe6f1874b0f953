package cache

import (
	"context"
	"errors"

	"mini-bookstore/internal/model"
)

// ReportCache holds recently computed top-selling reports keyed by month (YYYY-MM).
type ReportCache interface {
	Get(ctx context.Context, month string) (*model.TopSellingReport, error)
	Set(ctx context.Context, month string, report *model.TopSellingReport) error
	Delete(ctx context.Context, month string) error
}

var ErrCacheMiss = errors.New("cache miss")
