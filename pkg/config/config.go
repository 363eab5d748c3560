// Package config loads mvntree.toml.
//
// A configuration file is optional. Every value can also be given on the
// command line, where flags take precedence. A minimal file:
//
//	[repository]
//	url = "https://repo1.maven.org/maven2"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[filter]
//	excludes = ["org.slf4j:*"]
//	scope = "runtime"
//
//	[managed]
//	"com.google.guava:guava" = "33.0-jre"
//	"junit:junit" = "4.13.2:test"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/cache"
	"github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/filter"
	"github.com/matzehuels/mvntree/pkg/resolve"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "mvntree.toml"

// DefaultCacheTTL is how long repository documents are cached.
const DefaultCacheTTL = 24 * time.Hour

// Config is the parsed configuration file.
type Config struct {
	Repository RepositoryConfig  `toml:"repository"`
	Cache      CacheConfig       `toml:"cache"`
	Filter     FilterConfig      `toml:"filter"`
	Managed    map[string]string `toml:"managed"`
	Policy     PolicyConfig      `toml:"policy"`
	Output     OutputConfig      `toml:"output"`
}

// RepositoryConfig selects the Maven repository. Username and password
// may reference environment variables as $NAME or ${NAME}.
type RepositoryConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// CacheConfig selects the document cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// FilterConfig describes the artifact filter applied while building.
type FilterConfig struct {
	Includes       []string `toml:"includes"`
	Excludes       []string `toml:"excludes"`
	StrictIncludes []string `toml:"strict_includes"`
	StrictExcludes []string `toml:"strict_excludes"`
	Scope          string   `toml:"scope"`
	Transitive     bool     `toml:"transitive"`
	ReportUnused   bool     `toml:"report_unused"`
}

// PolicyConfig toggles scope mediation. Unset fields keep the default.
type PolicyConfig struct {
	WidenToRuntime *bool `toml:"widen_to_runtime"`
	WidenToCompile *bool `toml:"widen_to_compile"`
	ProtectDirect  *bool `toml:"protect_direct"`
}

// OutputConfig sets rendering defaults.
type OutputConfig struct {
	Format string `toml:"format"`
	Tokens string `toml:"tokens"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct {
	time.Duration
}

// UnmarshalText parses strings such as "90m" or "24h".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration{DefaultCacheTTL},
		},
		Output: OutputConfig{Format: "text", Tokens: "standard"},
	}
}

// Load reads the file at path over the defaults. An empty path looks for
// FileName in the working directory and returns the defaults when there is
// none.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults and validates
// it. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that decoding cannot.
func (c *Config) Validate() error {
	if c.Repository.URL != "" {
		if err := errors.ValidateURL(c.Repository.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repository.url")
		}
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendMemory, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Filter.Scope != "" {
		if _, err := filter.NewScope(c.Filter.Scope); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "filter.scope")
		}
	}
	if err := c.Filter.validatePatterns(); err != nil {
		return err
	}
	if _, err := c.ManagedOverrides(); err != nil {
		return err
	}
	return nil
}

// Credentials returns the repository credentials with environment
// references expanded.
func (c *Config) Credentials() (username, password string) {
	return os.ExpandEnv(c.Repository.Username), os.ExpandEnv(c.Repository.Password)
}

// CacheOptions returns the options for cache.Open. An empty directory
// selects DefaultCacheDir.
func (c *Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" && (c.Cache.Backend == "" || c.Cache.Backend == cache.BackendFile) {
		dir = DefaultCacheDir()
	}
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      dir,
		RedisURL: os.ExpandEnv(c.Cache.RedisURL),
		Prefix:   c.Cache.Prefix,
	}
}

// DefaultCacheDir returns the per-user cache directory for mvntree.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "mvntree")
}

// ScopePolicy applies the configured toggles to the default policy.
func (p PolicyConfig) ScopePolicy() resolve.ScopePolicy {
	sp := resolve.DefaultScopePolicy()
	if p.WidenToRuntime != nil {
		sp.WidenToRuntime = *p.WidenToRuntime
	}
	if p.WidenToCompile != nil {
		sp.WidenToCompile = *p.WidenToCompile
	}
	if p.ProtectDirect != nil {
		sp.ProtectDirect = *p.ProtectDirect
	}
	return sp
}

// ManagedOverrides parses the [managed] table. Keys are
// groupId:artifactId[:type[:classifier]]; values are "version",
// "version:scope" or ":scope".
func (c *Config) ManagedOverrides() (resolve.ManagedMap, error) {
	if len(c.Managed) == 0 {
		return nil, nil
	}
	out := make(resolve.ManagedMap, len(c.Managed))
	for key, value := range c.Managed {
		ck, err := artifact.ParseKey(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "managed")
		}
		parts := strings.Split(ck, ":")
		a := artifact.Artifact{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2]}
		if len(parts) == 4 {
			a.Classifier = parts[3]
		}
		v, s, _ := strings.Cut(value, ":")
		a.Version = strings.TrimSpace(v)
		if s != "" {
			scope, err := artifact.ParseScope(s)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "managed %s", key)
			}
			a.Scope = scope
		}
		if a.Version == "" && a.Scope == artifact.ScopeNone {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "managed %s: empty override", key)
		}
		out[ck] = a
	}
	return out, nil
}
