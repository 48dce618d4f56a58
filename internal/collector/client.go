package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"EconDashboard/internal/cache"
	"EconDashboard/internal/metrics"
)

const (
	maxBodySize = 32 << 20
	userAgent   = "EconDashboard/1.0"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ClientOptions configures an upstream Client.
type ClientOptions struct {
	Timeout time.Duration
	Proxy   string
	Retries int
	Backoff time.Duration
	Cache   cache.Cache
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// Client performs GET requests against one upstream provider with a
// response cache, retries, and a circuit breaker.
type Client struct {
	Provider string
	HTTP     *http.Client
	Retries  int
	Backoff  time.Duration
	Cache    cache.Cache
	Metrics  *metrics.Collector
	Logger   *zap.Logger

	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a client with optional proxy support.
func NewClient(provider string, opts ClientOptions) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Backoff == 0 {
		opts.Backoff = time.Second
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopCache()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &Client{
		Provider: provider,
		HTTP: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		Retries: opts.Retries,
		Backoff: opts.Backoff,
		Cache:   opts.Cache,
		Metrics: opts.Metrics,
		Logger:  opts.Logger.With(zap.String("provider", provider)),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.Logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			// client errors say nothing about upstream health
			var se *StatusError
			if errors.As(err, &se) && !se.Retryable() {
				return true
			}
			return err == nil
		},
	})
	return c
}

// Fetch retrieves rawURL and hands the body to decode. Fresh cached bodies
// are used without a request; a fetched body is cached only when decode
// accepts it.
func (c *Client) Fetch(ctx context.Context, rawURL, accept string, decode func([]byte) error) error {
	key := accept + " " + rawURL
	body, ok, err := c.Cache.Get(key)
	switch {
	case err != nil:
		c.Logger.Warn("cache lookup failed", zap.String("url", rawURL), zap.Error(err))
		c.Metrics.CacheHit(false)
	case ok:
		c.Metrics.CacheHit(true)
		if err := decode(body); err == nil {
			c.Logger.Debug("served from cache", zap.String("url", rawURL))
			return nil
		}
		c.Logger.Warn("cached body rejected, refetching", zap.String("url", rawURL))
	default:
		c.Metrics.CacheHit(false)
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getWithRetry(ctx, rawURL, accept)
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "breaker_open"
		}
		c.Metrics.ObserveFetch(c.Provider, outcome, time.Since(start))
		return fmt.Errorf("%s fetch: %w", c.Provider, err)
	}
	body = out.([]byte)

	if err := decode(body); err != nil {
		c.Metrics.ObserveFetch(c.Provider, "decode_error", time.Since(start))
		return fmt.Errorf("%s decode: %w", c.Provider, err)
	}
	c.Metrics.ObserveFetch(c.Provider, "ok", time.Since(start))

	if err := c.Cache.Set(key, body); err != nil {
		c.Logger.Warn("cache store failed", zap.Error(err))
	}
	return nil
}

// getWithRetry retries transport errors and retryable statuses with
// exponential backoff.
func (c *Client) getWithRetry(ctx context.Context, rawURL, accept string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.Retries; i++ {
		body, err := c.get(ctx, rawURL, accept)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) || i == c.Retries || ctx.Err() != nil {
			break
		}
		backoff := c.Backoff * time.Duration(1<<uint(i))
		c.Logger.Warn("fetch failed, retrying",
			zap.Int("attempt", i+1), zap.Int("max_attempts", c.Retries+1),
			zap.Duration("backoff", backoff), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode, Body: string(snippet)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBodySize)
	}
	return bytes.TrimPrefix(body, utf8BOM), nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}
