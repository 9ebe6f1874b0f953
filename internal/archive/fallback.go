package archive

import (
	"context"
	"errors"

	"mini-bookstore/internal/model"

	"github.com/rs/zerolog"
)

// fallbackStore tries S3 first, then falls back to the local file system.
type fallbackStore struct {
	s3Store   Store
	fileStore Store
	s3Prefix  string
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackStore creates a store that prefers S3 and falls back to local files.
// If s3Store is nil, only the file store is used.
func NewFallbackStore(s3Store, fileStore Store, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Store {
	return &fallbackStore{
		s3Store:   s3Store,
		fileStore: fileStore,
		s3Prefix:  s3Prefix,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "report-fallback-store").Logger(),
	}
}

func (s *fallbackStore) useS3() bool {
	return s.s3Enabled && s.s3Store != nil
}

// Put writes to S3 under s3Prefix+key, or to the file store under key when S3 fails.
func (s *fallbackStore) Put(ctx context.Context, key string, report *model.TopSellingReport) (string, error) {
	if s.useS3() {
		location, err := s.s3Store.Put(ctx, s.s3Prefix+key, report)
		if err == nil {
			return location, nil
		}

		s.logger.Warn().
			Err(err).
			Str("s3_key", s.s3Prefix+key).
			Str("local_fallback", key).
			Msg("S3 archive failed, falling back to local file system")
	}

	return s.fileStore.Put(ctx, key, report)
}

// Get reads from S3 first and the file store second.
func (s *fallbackStore) Get(ctx context.Context, key string) (*model.TopSellingReport, error) {
	if s.useS3() {
		report, err := s.s3Store.Get(ctx, s.s3Prefix+key)
		if err == nil {
			return report, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().
				Err(err).
				Str("s3_key", s.s3Prefix+key).
				Msg("S3 read failed, trying local file system")
		}
	}

	return s.fileStore.Get(ctx, key)
}
