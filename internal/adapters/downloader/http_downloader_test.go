package downloader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terratensor/geopicker/internal/config"
)

func newTestDownloader(url string, progress bool) *Downloader {
	d := New(&config.Config{
		EntitySourceURL: url,
		FetchTimeout:    5 * time.Second,
		ShowProgress:    progress,
	})
	d.progressOut = io.Discard
	return d
}

func TestEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"name": "West", "id": 1, "level": "region", "parent": null},
			{"name": "California", "id": 2, "level": "state", "parent": 1},
			{"name": "Los Angeles", "id": 3, "level": "county", "parent": 2}
		]`)
	}))
	defer srv.Close()

	for _, progress := range []bool{false, true} {
		entities, err := newTestDownloader(srv.URL, progress).Entities(context.Background())
		require.NoError(t, err)
		require.Len(t, entities, 3)

		assert.Equal(t, int64(1), entities[0].ID)
		assert.Nil(t, entities[0].Parent)
		assert.Equal(t, "Los Angeles", entities[2].Name)
		assert.Equal(t, "county", entities[2].Level)
		require.NotNil(t, entities[2].Parent)
		assert.Equal(t, int64(2), *entities[2].Parent)
	}
}

func TestEntitiesHTTPError(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusMultipleChoices} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := newTestDownloader(srv.URL, false).Entities(context.Background())
		srv.Close()

		var statusErr *HTTPStatusError
		require.True(t, errors.As(err, &statusErr), "code %d", code)
		assert.Equal(t, code, statusErr.StatusCode)
		assert.Contains(t, err.Error(), "HTTP Error")
	}
}

func TestEntitiesMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"name": "West", "id": 1,`)
	}))
	defer srv.Close()

	_, err := newTestDownloader(srv.URL, false).Entities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse entities")

	var statusErr *HTTPStatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestEntitiesSchemaMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": "not-an-array"}`)
	}))
	defer srv.Close()

	_, err := newTestDownloader(srv.URL, false).Entities(context.Background())
	assert.Error(t, err)
}

func TestEntitiesCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDownloader(srv.URL, false).Entities(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
