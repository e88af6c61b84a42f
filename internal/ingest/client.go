package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/lox/whattowear/internal/config"
	"github.com/lox/whattowear/internal/httputil"
	"github.com/lox/whattowear/internal/metrics"
	"github.com/lox/whattowear/internal/models"
)

const (
	endpointHourly = "forecast/hourly/48hour"
	endpointDaily  = "forecast/daily/10day"

	maxBodyBytes = 4 << 20
)

// UpstreamError is a non-success answer from the provider.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

func (e *UpstreamError) retryable() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests,
		e.StatusCode == http.StatusUnauthorized,
		e.StatusCode == http.StatusForbidden,
		e.StatusCode >= 500:
		return true
	}
	return false
}

// PayloadError means the provider answered 2xx with a body we could not decode.
type PayloadError struct {
	Body string
	Err  error
}

func (e *PayloadError) Error() string { return "decode forecast payload: " + e.Err.Error() }
func (e *PayloadError) Unwrap() error { return e.Err }

// FetchResult records what happened during a fetch.
type FetchResult struct {
	Endpoint     string
	HTTPStatus   int
	ResponseSize int
	Attempts     int
	RecordCount  int
	QualityFlags map[string]int
}

// Client talks to the Weather Company v1 geocode forecast API.
type Client struct {
	baseURL    string
	username   string
	password   config.Secret
	client     *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithBackOff replaces the retry policy.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = fn }
}

// WithBreakerSettings replaces the circuit breaker settings.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(c *Client) { c.breaker = gobreaker.NewCircuitBreaker[[]byte](st) }
}

func NewClient(cfg config.ProviderConfig, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	maxElapsed := cfg.MaxElapsed
	limit, burst := rate.Limit(cfg.RPS), cfg.Burst
	if cfg.RPS <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	c := &Client{
		baseURL:  cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		client:   httputil.NewClient(cfg.Timeout),
		limiter:  rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "twc",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
			IsSuccessful: isBreakerSuccess,
		}),
		newBackOff: func() backoff.BackOff {
			if maxElapsed <= 0 {
				return &backoff.StopBackOff{}
			}
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = maxElapsed
			return bo
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Only upstream trouble counts against the breaker; a 404 for a bad
// geocode says nothing about the provider's health.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return !ue.retryable()
	}
	return false
}

// FetchHourly fetches the 48 hour forecast for a location.
func (c *Client) FetchHourly(ctx context.Context, q models.Query) (models.ForecastSet, *FetchResult, error) {
	body, result, err := c.get(ctx, endpointHourly, q)
	if err != nil {
		return models.ForecastSet{}, result, fmt.Errorf("fetch hourly: %w", err)
	}

	var set models.ForecastSet
	if err := json.Unmarshal(body, &set); err != nil {
		return models.ForecastSet{}, result, fmt.Errorf("fetch hourly: %w", &PayloadError{Body: string(body), Err: err})
	}
	if set.Forecasts == nil {
		return models.ForecastSet{}, result, fmt.Errorf("fetch hourly: %w", &PayloadError{Body: string(body), Err: errors.New("missing forecasts")})
	}

	result.RecordCount = len(set.Forecasts)
	result.QualityFlags = make(map[string]int)
	for i := range set.Forecasts {
		for _, flag := range ValidateRecord(&set.Forecasts[i], q.Units) {
			result.QualityFlags[flag]++
			metrics.RecordQualityFlags.WithLabelValues(flag).Inc()
		}
	}
	if len(result.QualityFlags) > 0 {
		c.logger.Warn("hourly forecast quality flags", "flags", result.QualityFlags, "records", result.RecordCount)
	}

	return set, result, nil
}

// FetchDaily fetches the 10 day forecast for a location.
func (c *Client) FetchDaily(ctx context.Context, q models.Query) (models.DailyForecastSet, *FetchResult, error) {
	body, result, err := c.get(ctx, endpointDaily, q)
	if err != nil {
		return models.DailyForecastSet{}, result, fmt.Errorf("fetch daily: %w", err)
	}

	var set models.DailyForecastSet
	if err := json.Unmarshal(body, &set); err != nil {
		return models.DailyForecastSet{}, result, fmt.Errorf("fetch daily: %w", &PayloadError{Body: string(body), Err: err})
	}
	result.RecordCount = len(set.Forecasts)
	return set, result, nil
}

func (c *Client) endpointURL(endpoint string, q models.Query) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	lat := strconv.FormatFloat(q.Coordinates.Latitude, 'f', -1, 64)
	lon := strconv.FormatFloat(q.Coordinates.Longitude, 'f', -1, 64)
	u := base.JoinPath("api/weather/v1/geocode", lat, lon, endpoint+".json")

	v := url.Values{}
	v.Set("units", q.Units)
	v.Set("language", q.Language)
	u.RawQuery = v.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, endpoint string, q models.Query) ([]byte, *FetchResult, error) {
	result := &FetchResult{Endpoint: endpoint}

	target, err := c.endpointURL(endpoint, q)
	if err != nil {
		return nil, result, err
	}

	var body []byte
	operation := func() error {
		// Every attempt, retries included, waits its turn.
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}
		result.Attempts++
		b, err := c.breaker.Execute(func() ([]byte, error) {
			return c.do(ctx, endpoint, target, result)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			var ue *UpstreamError
			if errors.As(err, &ue) && !ue.retryable() {
				return backoff.Permanent(err)
			}
			c.logger.Debug("retrying forecast fetch", "endpoint", endpoint, "attempt", result.Attempts, "error", err)
			return err
		}
		body = b
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return nil, result, err
	}
	return body, result, nil
}

func (c *Client) do(ctx context.Context, endpoint, target string, result *FetchResult) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password.Reveal())
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ProviderAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	result.HTTPStatus = resp.StatusCode
	metrics.ProviderAPICallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	result.ResponseSize = len(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("forecast api error", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
