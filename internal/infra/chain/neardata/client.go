package neardata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/indexing/metrics"
	"github.com/vietddude/ftindexer/internal/infra/chain"
)

const (
	DefaultURL        = "https://mainnet.neardata.xyz"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 5
)

// Config configures the neardata HTTP client.
type Config struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	MaxRetries uint64        `yaml:"max_retries"`
	RetryBase  time.Duration `yaml:"retry_base"`
}

func (c *Config) setDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryBase <= 0 {
		c.RetryBase = 500 * time.Millisecond
	}
}

// HealthStatus summarises recent request outcomes.
type HealthStatus struct {
	Available     bool
	Latency       time.Duration
	ErrorRate     float64
	LastSuccessAt time.Time
	LastFailureAt time.Time
}

// Client reads finalized blocks from a neardata endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    func() retry.Backoff
	log        *slog.Logger

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int
}

var _ chain.Adapter = (*Client)(nil)

// NewClient creates a neardata client.
func NewClient(cfg Config) *Client {
	cfg.setDefaults()

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, int(cfg.RateLimit)))
	}

	base, maxRetries := cfg.RetryBase, cfg.MaxRetries
	return &Client{
		endpoint: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
		backoff: func() retry.Backoff {
			b := retry.NewExponential(base)
			b = retry.WithCappedDuration(10*time.Second, b)
			return retry.WithMaxRetries(maxRetries, b)
		},
		log: slog.Default().With("component", "neardata"),
		health: HealthStatus{
			Available:     true,
			LastSuccessAt: time.Now(),
		},
	}
}

// Name returns the endpoint URL.
func (c *Client) Name() string {
	return c.endpoint
}

// GetLatestBlock returns the height of the latest final block.
func (c *Client) GetLatestBlock(ctx context.Context) (uint64, error) {
	var msg struct {
		Block blockView `json:"block"`
	}
	body, err := c.get(ctx, "/v0/last_block/final")
	if err != nil {
		return 0, fmt.Errorf("last final block: %w", err)
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return 0, fmt.Errorf("parse last final block: %w", err)
	}
	if msg.Block.Header.Height == 0 {
		return 0, errors.New("last final block: empty response")
	}
	return msg.Block.Header.Height, nil
}

// GetBlock fetches and converts the block at height.
func (c *Client) GetBlock(ctx context.Context, height uint64) (*domain.Block, error) {
	start := time.Now()
	body, err := c.get(ctx, fmt.Sprintf("/v0/block/%d", height))
	metrics.FetchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", height, err)
	}

	if trimmed := strings.TrimSpace(string(body)); trimmed == "null" || trimmed == "" {
		return nil, fmt.Errorf("block %d: %w", height, chain.ErrBlockSkipped)
	}

	var msg streamerMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("parse block %d: %w", height, err)
	}
	block, err := toBlock(&msg)
	if err != nil {
		return nil, fmt.Errorf("convert block %d: %w", height, err)
	}
	return block, nil
}

// GetHealth returns the client's health status.
func (c *Client) GetHealth() HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

// Health reports an error while the recent failure rate marks the endpoint
// unavailable. It satisfies health.Checker.
func (c *Client) Health(ctx context.Context) error {
	h := c.GetHealth()
	if !h.Available {
		return fmt.Errorf("neardata %s unavailable: error rate %.2f, last success %s",
			c.endpoint, h.ErrorRate, h.LastSuccessAt.Format(time.RFC3339))
	}
	return nil
}

// Close cleans up resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// get issues a GET, retrying network errors, 429 and 5xx responses.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return retry.DoValue(ctx, c.backoff(), func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.do(ctx, path)
		if err != nil {
			var re *retryable
			if errors.As(err, &re) {
				metrics.FetchErrors.Inc()
				c.log.Debug("retrying request", "path", path, "error", re.err)
				return nil, retry.RetryableError(re.err)
			}
			return nil, err
		}
		return body, nil
	})
}

type retryable struct{ err error }

func (r *retryable) Error() string { return r.err.Error() }
func (r *retryable) Unwrap() error { return r.err }

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryable{fmt.Errorf("http get: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return nil, &retryable{fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		c.recordSuccess(time.Since(start))
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		c.recordSuccess(time.Since(start))
		return nil, chain.ErrBlockNotReady
	case resp.StatusCode == http.StatusTooManyRequests:
		c.recordFailure()
		return nil, &retryable{fmt.Errorf("rate limited (429), retry after: %s", resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 500:
		c.recordFailure()
		return nil, &retryable{fmt.Errorf("http %d: %s", resp.StatusCode, truncate(body))}
	default:
		c.recordFailure()
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, truncate(body))
	}
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

func (c *Client) recordSuccess(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.successCount++
	c.requestCount++
	c.totalLatency += latency
	c.health.LastSuccessAt = time.Now()
	c.health.Available = true
	c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)
	c.health.Latency = c.totalLatency / time.Duration(c.successCount)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failureCount++
	c.requestCount++
	c.health.LastFailureAt = time.Now()
	c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)
	if c.health.ErrorRate > 0.5 {
		c.health.Available = false
	}
}
