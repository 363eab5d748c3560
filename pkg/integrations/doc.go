// Package integrations provides HTTP access to Maven repositories.
//
// # Overview
//
// The [Client] type is the shared transport: it sends requests with default
// headers, classifies failures, retries transient ones with exponential
// backoff and caches response bodies in a [cache.Cache]. Repository-specific
// logic lives in subpackages:
//
//   - [maven]: Maven2-layout repositories (POMs and maven-metadata.xml)
//
// # Errors
//
// A 404 maps to [ErrNotFound]. Connection failures, 429 and 5xx responses
// map to [ErrNetwork] wrapped as [cache.RetryableError] so that [Client.Cached]
// retries them; other statuses fail immediately.
//
// # Observability
//
// Cache hits, misses and stores as well as every request and response are
// reported to the hooks set with [Client.WithHooks].
//
// [maven]: github.com/matzehuels/mvntree/pkg/integrations/maven
// [cache.Cache]: github.com/matzehuels/mvntree/pkg/cache.Cache
// [cache.RetryableError]: github.com/matzehuels/mvntree/pkg/cache.RetryableError
package integrations
