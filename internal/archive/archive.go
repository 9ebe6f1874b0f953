package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"mini-bookstore/internal/model"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("archived report not found")

// Store persists gzipped JSON snapshots of monthly reports.
type Store interface {
	// Put writes the report under key and returns where it was stored.
	Put(ctx context.Context, key string, report *model.TopSellingReport) (string, error)

	// Get reads the report stored under key. Returns ErrNotFound when absent.
	Get(ctx context.Context, key string) (*model.TopSellingReport, error)
}

// TopSellingKey is the relative key of a month's top-selling snapshot, e.g. top-selling/2026-03.json.gz.
func TopSellingKey(month string) string {
	return fmt.Sprintf("top-selling/%s.json.gz", month)
}

func encode(report *model.TopSellingReport) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	if err := json.NewEncoder(gz).Encode(report); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress report: %w", err)
	}

	return buf.Bytes(), nil
}

func decode(r io.Reader) (*model.TopSellingReport, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var report model.TopSellingReport
	if err := json.NewDecoder(gz).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	return &report, nil
}
