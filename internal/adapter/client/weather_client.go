package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// DefaultWeatherBaseURL is the OpenWeather API root
const DefaultWeatherBaseURL = "https://api.openweathermap.org"

var (
	// ErrWeatherUpstream is returned when the provider answers with an error
	ErrWeatherUpstream = errors.New("weather provider error")
	// ErrWeatherNotConfigured is returned when no API key is set
	ErrWeatherNotConfigured = errors.New("weather provider not configured")
)

// ResponseCache stores raw upstream responses with a TTL
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WeatherClient fetches current conditions from OpenWeather
type WeatherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      ResponseCache
	ttl        time.Duration
	logger     *zap.Logger
}

// NewWeatherClient creates a new weather client. cache may be nil.
func NewWeatherClient(baseURL, apiKey string, timeout time.Duration, cache ResponseCache, ttl time.Duration, logger *zap.Logger) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultWeatherBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

var _ service.WeatherProvider = (*WeatherClient)(nil)

// Configured reports whether an API key is set
func (c *WeatherClient) Configured() bool {
	return c.apiKey != ""
}

// Current returns the provider's current-conditions payload for region
func (c *WeatherClient) Current(ctx context.Context, region string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrWeatherNotConfigured
	}

	key := "weather:" + strings.ToLower(strings.TrimSpace(region))
	if c.cache != nil {
		if data, ok, err := c.cache.Get(ctx, key); err != nil {
			c.logger.Warn("weather cache read failed", zap.String("region", region), zap.Error(err))
		} else if ok {
			return json.RawMessage(data), nil
		}
	}

	q := url.Values{}
	q.Set("q", region)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeatherUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrWeatherUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeatherUpstream, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON body", ErrWeatherUpstream)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			c.logger.Warn("weather cache write failed", zap.String("region", region), zap.Error(err))
		}
	}
	return json.RawMessage(body), nil
}
