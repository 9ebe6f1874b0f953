package archive

import (
	"context"
	"errors"
	"testing"

	"mini-bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is a mock implementation of the Store interface for testing.
type mockStore struct {
	putFunc func(ctx context.Context, key string, report *model.TopSellingReport) (string, error)
	getFunc func(ctx context.Context, key string) (*model.TopSellingReport, error)
}

func (m *mockStore) Put(ctx context.Context, key string, report *model.TopSellingReport) (string, error) {
	if m.putFunc != nil {
		return m.putFunc(ctx, key, report)
	}
	return "", errors.New("not implemented")
}

func (m *mockStore) Get(ctx context.Context, key string) (*model.TopSellingReport, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, errors.New("not implemented")
}

func TestFallbackStore_Put(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		s3         Store
		s3Enabled  bool
		wantResult string
	}{
		{
			name: "S3 success uses prefixed key",
			s3: &mockStore{putFunc: func(_ context.Context, key string, _ *model.TopSellingReport) (string, error) {
				assert.Equal(t, "reports/top-selling/2026-03.json.gz", key, "S3 key should have prefix")
				return "s3://bucket/" + key, nil
			}},
			s3Enabled:  true,
			wantResult: "s3://bucket/reports/top-selling/2026-03.json.gz",
		},
		{
			name: "S3 failure falls back to local",
			s3: &mockStore{putFunc: func(context.Context, string, *model.TopSellingReport) (string, error) {
				return "", errors.New("S3 connection failed")
			}},
			s3Enabled:  true,
			wantResult: "local:top-selling/2026-03.json.gz",
		},
		{
			name: "S3 disabled",
			s3: &mockStore{putFunc: func(context.Context, string, *model.TopSellingReport) (string, error) {
				t.Error("S3 store should not be called when disabled")
				return "", nil
			}},
			s3Enabled:  false,
			wantResult: "local:top-selling/2026-03.json.gz",
		},
		{
			name:       "S3 store nil",
			s3:         nil,
			s3Enabled:  true,
			wantResult: "local:top-selling/2026-03.json.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &mockStore{putFunc: func(_ context.Context, key string, _ *model.TopSellingReport) (string, error) {
				assert.Equal(t, "top-selling/2026-03.json.gz", key, "local path should not have prefix")
				return "local:" + key, nil
			}}

			store := NewFallbackStore(tt.s3, local, "reports/", tt.s3Enabled, zerolog.Nop())

			got, err := store.Put(ctx, TopSellingKey("2026-03"), sampleReport())
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, got)
		})
	}
}

func TestFallbackStore_Put_BothFail(t *testing.T) {
	failing := &mockStore{putFunc: func(context.Context, string, *model.TopSellingReport) (string, error) {
		return "", errors.New("disk full")
	}}

	store := NewFallbackStore(failing, failing, "reports/", true, zerolog.Nop())

	_, err := store.Put(context.Background(), TopSellingKey("2026-03"), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFallbackStore_Get(t *testing.T) {
	ctx := context.Background()
	report := sampleReport()

	t.Run("S3 hit", func(t *testing.T) {
		s3 := &mockStore{getFunc: func(context.Context, string) (*model.TopSellingReport, error) { return report, nil }}
		local := &mockStore{getFunc: func(context.Context, string) (*model.TopSellingReport, error) {
			t.Error("file store should not be called when S3 succeeds")
			return nil, nil
		}}

		got, err := NewFallbackStore(s3, local, "reports/", true, zerolog.Nop()).Get(ctx, TopSellingKey("2026-03"))
		require.NoError(t, err)
		assert.Same(t, report, got)
	})

	t.Run("S3 miss reads local", func(t *testing.T) {
		s3 := &mockStore{getFunc: func(context.Context, string) (*model.TopSellingReport, error) { return nil, ErrNotFound }}
		local := &mockStore{getFunc: func(context.Context, string) (*model.TopSellingReport, error) { return report, nil }}

		got, err := NewFallbackStore(s3, local, "reports/", true, zerolog.Nop()).Get(ctx, TopSellingKey("2026-03"))
		require.NoError(t, err)
		assert.Same(t, report, got)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		miss := &mockStore{getFunc: func(context.Context, string) (*model.TopSellingReport, error) { return nil, ErrNotFound }}

		_, err := NewFallbackStore(miss, miss, "reports/", true, zerolog.Nop()).Get(ctx, TopSellingKey("2026-03"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
