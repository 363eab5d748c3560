package integrations

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/mvntree/pkg/buildinfo"
	"github.com/matzehuels/mvntree/pkg/cache"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a repository has no such resource.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = cache.ErrNetwork
)

// NewHTTPClient creates an HTTP client with a standard timeout for repository requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// DefaultHeaders returns the headers sent with every repository request.
// Credentials, when both are set, are sent as HTTP basic auth.
func DefaultHeaders(username, password string) map[string]string {
	h := map[string]string{"User-Agent": buildinfo.UserAgent()}
	if username != "" && password != "" {
		h["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
	}
	return h
}

// JoinURL joins a base URL and path segments with single slashes.
func JoinURL(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}
