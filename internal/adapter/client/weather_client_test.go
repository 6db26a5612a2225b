package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

const weatherBody = `{"main":{"temp":24.5,"humidity":70},"weather":[{"description":"light rain"}]}`

func TestWeatherClient_Current(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Kano", r.URL.Query().Get("q"))
		assert.Equal(t, "ow-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(weatherBody))
		require.NoError(t, err)
	}))
	defer server.Close()

	cache := newMapCache()
	c := NewWeatherClient(server.URL, "ow-key", 5*time.Second, cache, 10*time.Minute, nil)
	assert.True(t, c.Configured())

	for i := 0; i < 2; i++ {
		raw, err := c.Current(context.Background(), "Kano")
		require.NoError(t, err)
		assert.JSONEq(t, weatherBody, string(raw))
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 10*time.Minute, cache.ttls["weather:kano"])
}

func TestWeatherClient_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		c := NewWeatherClient("", "", time.Second, nil, 0, nil)
		assert.False(t, c.Configured())

		_, err := c.Current(context.Background(), "Kano")
		assert.ErrorIs(t, err, ErrWeatherNotConfigured)
	})

	t.Run("upstream status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewWeatherClient(server.URL, "k", 5*time.Second, nil, 0, nil).Current(context.Background(), "Atlantis")

		assert.ErrorIs(t, err, ErrWeatherUpstream)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("invalid body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer server.Close()

		_, err := NewWeatherClient(server.URL, "k", 5*time.Second, nil, 0, nil).Current(context.Background(), "Kano")

		assert.ErrorIs(t, err, ErrWeatherUpstream)
	})

	t.Run("connection error", func(t *testing.T) {
		_, err := NewWeatherClient("http://localhost:99999", "k", time.Second, nil, 0, nil).Current(context.Background(), "Kano")

		assert.ErrorIs(t, err, ErrWeatherUpstream)
	})
}
