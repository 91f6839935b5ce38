package mosaic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultFetchTimeout is the default HTTP request timeout for puzzle fetches.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of attempts.
	DefaultMaxRetries = 3

	defaultBaseBackoff = 500 * time.Millisecond

	// DefaultMaxResponseBytes caps a puzzle download at 10 MB.
	DefaultMaxResponseBytes = 10 << 20
)

// ErrResponseTooLarge is returned when a puzzle download exceeds the size cap.
var ErrResponseTooLarge = errors.New("response too large")

// FetchOption configures FetchTiles.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	maxBytes    int64
	client      *http.Client
}

func defaultFetchConfig() fetchConfig {
	return fetchConfig{
		timeout:     DefaultFetchTimeout,
		maxRetries:  DefaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
		maxBytes:    DefaultMaxResponseBytes,
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetchOption {
	return func(c *fetchConfig) {
		c.timeout = d
	}
}

// WithMaxRetries sets the maximum number of attempts.
func WithMaxRetries(n int) FetchOption {
	return func(c *fetchConfig) {
		c.maxRetries = n
	}
}

// WithBaseBackoff sets the base delay for exponential backoff between retries.
func WithBaseBackoff(d time.Duration) FetchOption {
	return func(c *fetchConfig) {
		c.baseBackoff = d
	}
}

// WithMaxBytes sets the largest response body accepted.
func WithMaxBytes(n int64) FetchOption {
	return func(c *fetchConfig) {
		c.maxBytes = n
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) FetchOption {
	return func(c *fetchConfig) {
		c.client = client
	}
}

// IsRemoteInput reports whether input names an http(s) URL rather than a file.
func IsRemoteInput(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// FetchTiles downloads a puzzle from url and parses it. Network failures and
// non-200 responses are retried with exponential backoff; a body that does
// not parse or exceeds the size cap is returned immediately.
func FetchTiles(ctx context.Context, url string, opts ...FetchOption) ([]Tile, error) {
	if url == "" {
		return nil, fmt.Errorf("fetch tiles: URL is empty")
	}

	cfg := defaultFetchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxRetries < 1 {
		cfg.maxRetries = 1
	}

	client := cfg.client
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	}

	var lastErr error
	for attempt := range cfg.maxRetries {
		if attempt > 0 {
			backoff := cfg.baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch tiles: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		body, err := doFetch(ctx, client, url, cfg.maxBytes)
		if errors.Is(err, ErrResponseTooLarge) {
			return nil, fmt.Errorf("fetch tiles: %w", err)
		}
		if err != nil {
			lastErr = err
			continue
		}

		tiles, err := ParseTiles(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("fetch tiles: %w", err)
		}
		return tiles, nil
	}

	return nil, fmt.Errorf("fetch tiles: all %d attempts failed: %w", cfg.maxRetries, lastErr)
}

// doFetch performs a single HTTP GET and returns the response body.
func doFetch(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	// One byte past the cap tells a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes: %w", url, maxBytes, ErrResponseTooLarge)
	}
	return body, nil
}

// LoadTiles reads tiles from a local file or, for http(s) inputs, fetches them.
func LoadTiles(ctx context.Context, input string, opts ...FetchOption) ([]Tile, error) {
	if IsRemoteInput(input) {
		return FetchTiles(ctx, input, opts...)
	}
	return ParseTileFile(input)
}
