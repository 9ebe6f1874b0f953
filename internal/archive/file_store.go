package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mini-bookstore/internal/model"

	"github.com/rs/zerolog"
)

// fileStore implements Store on the local filesystem.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a Store rooted at dir.
func NewFileStore(dir string, logger zerolog.Logger) Store {
	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "report-file-store").Logger(),
	}
}

// Put writes to a temporary file and renames it so readers never see a partial snapshot.
func (s *fileStore) Put(ctx context.Context, key string, report *model.TopSellingReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encode(report)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to create archive directory")
		return "", fmt.Errorf("failed to create archive directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary archive file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write archive file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write archive file %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to move archive file into place")
		return "", fmt.Errorf("failed to write archive file %s: %w", path, err)
	}

	s.logger.Info().
		Str("file", path).
		Int("bytes", len(data)).
		Msg("report archived to local file system")

	return path, nil
}

func (s *fileStore) Get(ctx context.Context, key string) (*model.TopSellingReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to open archive file")
		return nil, fmt.Errorf("failed to open archive file %s: %w", path, err)
	}

	return decode(bytes.NewReader(data))
}
