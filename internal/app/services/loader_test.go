package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terratensor/geopicker/internal/adapters/downloader"
	"github.com/terratensor/geopicker/internal/app/pipeline"
	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
)

type stubSource struct {
	entities []domain.Entity
	err      error
}

func (s stubSource) Entities(ctx context.Context) ([]domain.Entity, error) {
	return s.entities, s.err
}

func TestLoaderLoad(t *testing.T) {
	loader := NewLoader(stubSource{entities: []domain.Entity{
		entity(1, "West", "region"),
		entity(2, "California", "state", 1),
		entity(9, "Nowhere", "county", 77),
	}}, NewHierarchyBuilder(censusLevels))

	result, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(result.Items))
	require.Len(t, result.Diagnostics, 1)
	assert.ErrorIs(t, result.Diagnostics[0], domain.ErrMissingParent)
}

func TestLoaderSourceFailureIsSwallowedByLoadItems(t *testing.T) {
	boom := errors.New("connection refused")
	loader := NewLoader(stubSource{err: boom}, NewHierarchyBuilder(censusLevels))

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, boom)

	assert.Empty(t, loader.LoadItems(context.Background()))
}

func TestNewEntitySource(t *testing.T) {
	assert.IsType(t, &downloader.Downloader{}, NewEntitySource(&config.Config{EntitySourceURL: "http://example.invalid"}))
	assert.IsType(t, &pipeline.EntityFileParser{}, NewEntitySource(&config.Config{EntityFile: "entities.json"}))
}

func TestNewLoaderFromConfig(t *testing.T) {
	_, err := NewLoaderFromConfig(&config.Config{Levels: []string{"a", "a"}})
	assert.ErrorIs(t, err, domain.ErrDuplicateLevel)

	path := filepath.Join(t.TempDir(), "entities.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "Los Angeles", "id": 3, "level": "county", "parent": 2},
		{"name": "West", "id": 1, "level": "region", "parent": null},
		{"name": "California", "id": 2, "level": "state", "parent": 1}
	]`), 0o644))

	loader, err := NewLoaderFromConfig(&config.Config{Levels: config.DefaultLevels, EntityFile: path})
	require.NoError(t, err)

	items := loader.LoadItems(context.Background())
	assert.Equal(t, []int64{1, 2, 3}, ids(items))
}

func TestLoaderOverHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	loader, err := NewLoaderFromConfig(&config.Config{
		Levels:          config.DefaultLevels,
		EntitySourceURL: srv.URL,
		FetchTimeout:    time.Second,
	})
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	var statusErr *downloader.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusGone, statusErr.StatusCode)
}
