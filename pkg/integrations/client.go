package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/mvntree/pkg/cache"
	"github.com/matzehuels/mvntree/pkg/observability"
)

// Client provides shared HTTP functionality for repository clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string
	hooks     observability.Hooks
	backoff   cache.Backoff
}

// NewClient creates a Client storing responses in c under namespace for
// ttl. Headers are applied to all requests made through this client; pass
// nil if none are needed. A nil cache disables caching.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		hooks:     observability.Hooks{}.WithDefaults(),
		backoff:   cache.DefaultBackoff,
	}
}

// WithHooks sets the cache and HTTP event hooks.
func (c *Client) WithHooks(h observability.Hooks) *Client {
	c.hooks = h.WithDefaults()
	return c
}

// WithBackoff replaces the retry schedule.
func (c *Client) WithBackoff(b cache.Backoff) *Client {
	c.backoff = b
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	_, err := c.cached(ctx, key, refresh, func(data []byte) error {
		return json.Unmarshal(data, v)
	}, func() ([]byte, error) {
		if err := fetch(); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	return err
}

// CachedBytes is Cached for raw documents such as POMs.
func (c *Client) CachedBytes(ctx context.Context, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	return c.cached(ctx, key, refresh, nil, fetch)
}

func (c *Client) cached(ctx context.Context, key string, refresh bool, decode func([]byte) error, fetch func() ([]byte, error)) ([]byte, error) {
	full := c.namespace + key
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, full); ok {
			if decode == nil || decode(data) == nil {
				c.hooks.Cache.OnCacheHit(ctx, c.namespace)
				return data, nil
			}
		}
		c.hooks.Cache.OnCacheMiss(ctx, c.namespace)
	}

	var data []byte
	err := c.backoff.Retry(ctx, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, full, data, c.ttl); err == nil {
		c.hooks.Cache.OnCacheSet(ctx, c.namespace, len(data))
	}
	return data, nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	data, err := c.GetBytes(ctx, url)
	return string(data), err
}

// GetBytes performs an HTTP GET request and returns the response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	c.hooks.HTTP.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.hooks.HTTP.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	c.hooks.HTTP.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
