// Package cache provides byte-oriented caches for repository metadata.
//
// Every backend implements [Cache]. Keys are produced by a [Keyer] so that
// the same logical entry (a POM, a maven-metadata.xml listing, a rendered
// tree) maps to the same key regardless of backend:
//
//	FileCache   - one JSON envelope per key under a directory (CLI default)
//	RedisCache  - shared cache for CI runners and servers
//	MemoryCache - process-local, used by tests and one-shot runs
//	NullCache   - caching disabled
//
// A TTL of zero stores an entry without expiry.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// reported as ok=false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Options select and configure a backend for [Open].
type Options struct {
	Backend  string
	Dir      string // FileCache directory
	RedisURL string // redis://host:port/db
	Prefix   string // RedisCache key prefix
}

// Open returns the backend named by opts.Backend. An empty backend selects
// the file cache when a directory is given and no caching otherwise.
func Open(opts Options) (Cache, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendNone
		if opts.Dir != "" {
			backend = BackendFile
		}
	}
	switch backend {
	case BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(RedisOptions{URL: opts.RedisURL, Prefix: opts.Prefix})
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
}

// Keyer derives cache keys for the entries mvntree stores.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body within a namespace.
	HTTPKey(namespace, key string) string
	// POMKey keys an effective POM by its coordinates and repository.
	POMKey(repository, groupID, artifactID, version string) string
	// MetadataKey keys a maven-metadata.xml version listing.
	MetadataKey(repository, groupID, artifactID string) string
	// TreeKey keys a rendered dependency tree.
	TreeKey(root string, opts TreeKeyOpts) string
}

// TreeKeyOpts are the options that change a rendered tree.
type TreeKeyOpts struct {
	Includes       []string `json:"includes,omitempty"`
	Excludes       []string `json:"excludes,omitempty"`
	StrictIncludes []string `json:"strictIncludes,omitempty"`
	StrictExcludes []string `json:"strictExcludes,omitempty"`
	Scope          string   `json:"scope,omitempty"`
	Transitive     bool     `json:"transitive,omitempty"`
	Format         string   `json:"format"`
	Tokens         string   `json:"tokens,omitempty"`
	IncludedOnly   bool     `json:"includedOnly,omitempty"`
	Detailed       bool     `json:"detailed,omitempty"`
}

// DefaultKeyer produces readable prefixes followed by a content hash where
// inputs are unbounded.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) POMKey(repository, groupID, artifactID, version string) string {
	return hashKey("pom:"+groupID+":"+artifactID+":"+version, repository)
}

func (DefaultKeyer) MetadataKey(repository, groupID, artifactID string) string {
	return hashKey("metadata:"+groupID+":"+artifactID, repository)
}

func (DefaultKeyer) TreeKey(root string, opts TreeKeyOpts) string {
	return hashKey("tree:"+root, opts)
}

var _ Keyer = DefaultKeyer{}
