// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and never global: a [Hooks] value is built by
// the caller for one resolution run and handed to the components that emit
// events (the tree builder, the repository client, the caches). Components
// call [Hooks.WithDefaults] so any unset category falls back to a no-op.
//
// # Usage
//
//	hooks := observability.Hooks{Build: observability.NewLogHooks(logger)}
//	b := resolve.NewBuilder(resolve.Options{Hooks: hooks})
//
// Libraries emit events through the value they were given:
//
//	h.Build.OnBuildStart(ctx, root)
//	// ... resolve ...
//	h.Build.OnBuildComplete(ctx, root, nodeCount, time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from dependency tree construction.
type BuildHooks interface {
	OnBuildStart(ctx context.Context, root string)
	OnBuildComplete(ctx context.Context, root string, nodeCount int, duration time.Duration, err error)

	// OnMetadataFetch is called once per expanded artifact after its direct
	// dependencies were looked up.
	OnMetadataFetch(ctx context.Context, artifact string, depCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string) {}
func (NoopBuildHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopBuildHooks) OnMetadataFetch(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Per-run bundle
// =============================================================================

// Hooks bundles the hook categories for one resolution run.
type Hooks struct {
	Build BuildHooks
	Cache CacheHooks
	HTTP  HTTPHooks
}

// WithDefaults returns a copy of h with nil categories replaced by no-ops.
func (h Hooks) WithDefaults() Hooks {
	if h.Build == nil {
		h.Build = NoopBuildHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return h
}

// =============================================================================
// Logging Implementation
// =============================================================================

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks { return &LogHooks{logger: l} }

func (h *LogHooks) OnBuildStart(_ context.Context, root string) {
	h.logger.Debug("build started", "root", root)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, root string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "root", root, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("build complete", "root", root, "nodes", nodeCount, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnMetadataFetch(_ context.Context, artifact string, depCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("metadata failed", "artifact", artifact, "err", err)
		return
	}
	h.logger.Debug("metadata", "artifact", artifact, "deps", depCount, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

// =============================================================================
// Counters
// =============================================================================

// Counters tallies events for an end-of-run summary. It is safe for
// concurrent use.
type Counters struct {
	NoopBuildHooks
	Fetches    atomic.Int64
	CacheHits  atomic.Int64
	CacheMiss  atomic.Int64
	Requests   atomic.Int64
	HTTPErrors atomic.Int64
}

func (c *Counters) OnMetadataFetch(context.Context, string, int, time.Duration, error) {
	c.Fetches.Add(1)
}
func (c *Counters) OnCacheHit(context.Context, string)      { c.CacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.CacheMiss.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}
func (c *Counters) OnRequest(context.Context, string, string, string) {
	c.Requests.Add(1)
}
func (c *Counters) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (c *Counters) OnError(context.Context, string, string, string, error) {
	c.HTTPErrors.Add(1)
}

// =============================================================================
// Fan-out
// =============================================================================

// MultiBuild forwards build events to every hook in order.
type MultiBuild []BuildHooks

func (m MultiBuild) OnBuildStart(ctx context.Context, root string) {
	for _, h := range m {
		h.OnBuildStart(ctx, root)
	}
}

func (m MultiBuild) OnBuildComplete(ctx context.Context, root string, n int, d time.Duration, err error) {
	for _, h := range m {
		h.OnBuildComplete(ctx, root, n, d, err)
	}
}

func (m MultiBuild) OnMetadataFetch(ctx context.Context, a string, n int, d time.Duration, err error) {
	for _, h := range m {
		h.OnMetadataFetch(ctx, a, n, d, err)
	}
}

// MultiCache forwards cache events to every hook in order.
type MultiCache []CacheHooks

func (m MultiCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m MultiCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m MultiCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

// MultiHTTP forwards HTTP events to every hook in order.
type MultiHTTP []HTTPHooks

func (m MultiHTTP) OnRequest(ctx context.Context, method, host, path string) {
	for _, h := range m {
		h.OnRequest(ctx, method, host, path)
	}
}

func (m MultiHTTP) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, host, path, status, d)
	}
}

func (m MultiHTTP) OnError(ctx context.Context, method, host, path string, err error) {
	for _, h := range m {
		h.OnError(ctx, method, host, path, err)
	}
}

// Fanout returns hooks that forward every event to each of the given
// targets. Each target must implement all three hook categories.
func Fanout(targets ...interface {
	BuildHooks
	CacheHooks
	HTTPHooks
}) Hooks {
	build := make(MultiBuild, len(targets))
	cache := make(MultiCache, len(targets))
	http := make(MultiHTTP, len(targets))
	for i, t := range targets {
		build[i], cache[i], http[i] = t, t, t
	}
	return Hooks{Build: build, Cache: cache, HTTP: http}
}

var (
	_ BuildHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
	_ BuildHooks = (*Counters)(nil)
	_ CacheHooks = (*Counters)(nil)
	_ HTTPHooks  = (*Counters)(nil)
	_ BuildHooks = MultiBuild(nil)
	_ CacheHooks = MultiCache(nil)
	_ HTTPHooks  = MultiHTTP(nil)
)
