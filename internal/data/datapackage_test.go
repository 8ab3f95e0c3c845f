package data

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePackage = `{
  "name": "network-opportunity-map-headroom",
  "title": "Network Opportunity Map Headroom",
  "resources": [
    {"name": "bsp-headroom", "path": "https://example.test/bsp.csv", "format": "csv"},
    {"name": "gsp-headroom", "path": "https://example.test/gsp.csv", "format": "csv"}
  ]
}`

func TestDatapackageFetch(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePackage))
	}))
	defer srv.Close()

	c := NewDatapackageClient(srv.URL, NewCatalogCache(time.Minute))
	dp, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "network-opportunity-map-headroom", dp.Name)
	require.Len(t, dp.Resources, 2)
	assert.Equal(t, "csv", dp.Resources[0].Format)

	_, err = c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second fetch should be served from cache")
}

func TestDatapackageErrorsAndBreaker(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewDatapackageClient(srv.URL, nil)
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background())
		var ce *CatalogError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "API_ERROR", ce.Code)
		assert.Equal(t, http.StatusServiceUnavailable, ce.StatusCode)
	}

	_, err := c.Fetch(context.Background())
	var ce *CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "CIRCUIT_OPEN", ce.Code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCatalogCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCatalogCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", &Datapackage{Name: "a"})
	dp, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", dp.Name)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Set("b", &Datapackage{Name: "b"})
	assert.Equal(t, 1, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())

	var nilCache *CatalogCache
	nilCache.Set("x", &Datapackage{})
	_, ok = nilCache.Get("x")
	assert.False(t, ok)
}
