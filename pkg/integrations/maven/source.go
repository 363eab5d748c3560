package maven

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/cache"
	mverrors "github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/integrations"
	"github.com/matzehuels/mvntree/pkg/observability"
	"github.com/matzehuels/mvntree/pkg/pom"
)

// DefaultRepository is Maven Central.
const DefaultRepository = "https://repo1.maven.org/maven2"

// maxDepth bounds parent chains and nested BOM imports.
const maxDepth = 32

// Options configure a Source.
type Options struct {
	// Repository is the base URL of a Maven2-layout repository.
	Repository string

	// Username and Password enable HTTP basic auth.
	Username string
	Password string

	// Cache stores raw documents. Nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration

	// Refresh bypasses cached documents and refetches them.
	Refresh bool

	Hooks      observability.Hooks
	HTTPClient *http.Client
	Backoff    cache.Backoff
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.Repository == "" {
		o.Repository = DefaultRepository
	}
	o.Repository = strings.TrimRight(o.Repository, "/")
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.Backoff.Attempts == 0 {
		o.Backoff = cache.DefaultBackoff
	}
	o.Hooks = o.Hooks.WithDefaults()
	return o
}

// Source is a resolve.MetadataSource and resolve.VersionLister backed by a
// Maven repository. It is safe for concurrent use.
type Source struct {
	opts   Options
	client *integrations.Client

	mu     sync.Mutex
	models map[string]*pom.Project
}

// NewSource returns a Source for opts.
func NewSource(opts Options) *Source {
	opts = opts.WithDefaults()
	client := integrations.NewClient(opts.Cache, "maven:", opts.TTL, integrations.DefaultHeaders(opts.Username, opts.Password)).
		WithHooks(opts.Hooks).
		WithBackoff(opts.Backoff)
	if opts.HTTPClient != nil {
		client.WithHTTPClient(opts.HTTPClient)
	}
	return &Source{opts: opts, client: client, models: make(map[string]*pom.Project)}
}

// Repository returns the repository base URL.
func (s *Source) Repository() string { return s.opts.Repository }

// POMURL returns the location of an artifact's POM. Timestamped snapshots
// live in their base version directory.
func (s *Source) POMURL(groupID, artifactID, version string) string {
	return integrations.JoinURL(s.opts.Repository, groupPath(groupID), artifactID,
		artifact.BaseVersion(version), artifactID+"-"+version+".pom")
}

// MetadataURL returns the location of an artifact's version listing.
func (s *Source) MetadataURL(groupID, artifactID string) string {
	return integrations.JoinURL(s.opts.Repository, groupPath(groupID), artifactID, "maven-metadata.xml")
}

func groupPath(groupID string) string {
	return strings.ReplaceAll(groupID, ".", "/")
}

// DirectDependencies returns the dependencies declared by a's effective POM.
func (s *Source) DirectDependencies(ctx context.Context, a artifact.Artifact) ([]artifact.Artifact, error) {
	eff, err := s.Effective(ctx, a.GroupID, a.ArtifactID, a.Version)
	if err != nil {
		return nil, err
	}
	return eff.DirectDependencies()
}

// AvailableVersions lists the versions published for a's groupId and
// artifactId. A missing listing yields no versions.
func (s *Source) AvailableVersions(ctx context.Context, a artifact.Artifact) ([]string, error) {
	url := s.MetadataURL(a.GroupID, a.ArtifactID)
	key := s.opts.Keyer.MetadataKey(s.opts.Repository, a.GroupID, a.ArtifactID)
	data, err := s.client.CachedBytes(ctx, key, s.opts.Refresh, func() ([]byte, error) {
		return s.client.GetBytes(ctx, url)
	})
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "fetch %s", url)
	}
	md, err := pom.ParseMetadata(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return md.Versioning.Versions, nil
}

// FetchPOM downloads and parses a POM without merging its parents.
func (s *Source) FetchPOM(ctx context.Context, groupID, artifactID, version string) (*pom.Project, error) {
	url := s.POMURL(groupID, artifactID, version)
	key := s.opts.Keyer.POMKey(s.opts.Repository, groupID, artifactID, version)
	data, err := s.client.CachedBytes(ctx, key, s.opts.Refresh, func() ([]byte, error) {
		return s.client.GetBytes(ctx, url)
	})
	if err != nil {
		return nil, classify(err, "fetch %s", url)
	}
	p, err := pom.ParseBytes(data)
	if err != nil {
		return nil, mverrors.Wrap(mverrors.ErrCodeInvalidManifest, err, "%s:%s:%s", groupID, artifactID, version)
	}
	return p, nil
}

// Effective returns the effective POM of a published artifact.
func (s *Source) Effective(ctx context.Context, groupID, artifactID, version string) (*pom.Project, error) {
	merged, err := s.inherited(ctx, groupID, artifactID, version, 0)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, merged, 0)
}

// ResolveProject returns the effective model of a local project. Parents
// are read from disk when the relativePath (default ../pom.xml, relative
// to dir) names the right project, and from the repository otherwise.
func (s *Source) ResolveProject(ctx context.Context, p *pom.Project, dir string) (*pom.Project, error) {
	merged, err := s.inheritLocal(ctx, p, dir, 0)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, merged, 0)
}

func (s *Source) inheritLocal(ctx context.Context, p *pom.Project, dir string, depth int) (*pom.Project, error) {
	if p.Parent == nil {
		return p.Inherit(nil), nil
	}
	if depth >= maxDepth {
		return nil, mverrors.New(mverrors.ErrCodeInvalidManifest, "parent chain of %s is too deep", p.Artifact().ID())
	}
	if local, localDir, ok := readLocalParent(p.Parent, dir); ok {
		parent, err := s.inheritLocal(ctx, local, localDir, depth+1)
		if err != nil {
			return nil, err
		}
		return p.Inherit(parent), nil
	}
	parent, err := s.inherited(ctx, p.Parent.GroupID, p.Parent.ArtifactID, p.Parent.Version, depth+1)
	if err != nil {
		return nil, err
	}
	return p.Inherit(parent), nil
}

func readLocalParent(ref *pom.Parent, dir string) (*pom.Project, string, bool) {
	if dir == "" {
		return nil, "", false
	}
	rel := ref.RelativePath
	if rel == "" {
		rel = "../pom.xml"
	}
	path := filepath.Join(dir, rel)
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	p, err := pom.ParseFile(path)
	if err != nil {
		return nil, "", false
	}
	if p.EffectiveGroupID() != ref.GroupID || p.ArtifactID != ref.ArtifactID || p.EffectiveVersion() != ref.Version {
		return nil, "", false
	}
	return p, filepath.Dir(path), true
}

// inherited returns the parent-merged, uninterpolated model of a published
// artifact. Results are memoized.
func (s *Source) inherited(ctx context.Context, groupID, artifactID, version string, depth int) (*pom.Project, error) {
	if depth >= maxDepth {
		return nil, mverrors.New(mverrors.ErrCodeInvalidManifest, "parent chain of %s:%s:%s is too deep", groupID, artifactID, version)
	}
	id := groupID + ":" + artifactID + ":" + version
	s.mu.Lock()
	m, ok := s.models[id]
	s.mu.Unlock()
	if ok {
		return m, nil
	}

	p, err := s.FetchPOM(ctx, groupID, artifactID, version)
	if err != nil {
		return nil, err
	}
	var parent *pom.Project
	if p.Parent != nil {
		parent, err = s.inherited(ctx, p.Parent.GroupID, p.Parent.ArtifactID, p.Parent.Version, depth+1)
		if err != nil {
			return nil, mverrors.Wrap(mverrors.ErrCodeMetadataResolution, err, "parent of %s", id)
		}
	}
	m = p.Inherit(parent)

	s.mu.Lock()
	s.models[id] = m
	s.mu.Unlock()
	return m, nil
}

// finish interpolates a merged model and merges imported BOMs.
func (s *Source) finish(ctx context.Context, merged *pom.Project, depth int) (*pom.Project, error) {
	eff := merged.Inherit(nil)
	eff.Interpolate()
	for _, imp := range eff.Imports() {
		if depth >= maxDepth {
			return nil, mverrors.New(mverrors.ErrCodeInvalidManifest, "BOM imports of %s are nested too deeply", eff.Artifact().ID())
		}
		bomModel, err := s.inherited(ctx, imp.GroupID, imp.ArtifactID, imp.Version, 0)
		if err != nil {
			return nil, mverrors.Wrap(mverrors.ErrCodeMetadataResolution, err, "import %s:%s:%s", imp.GroupID, imp.ArtifactID, imp.Version)
		}
		bom, err := s.finish(ctx, bomModel, depth+1)
		if err != nil {
			return nil, err
		}
		eff.MergeManaged(bom)
	}
	return eff, nil
}

func classify(err error, format string, args ...interface{}) error {
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return mverrors.Wrap(mverrors.ErrCodeArtifactNotFound, err, format, args...)
	case errors.Is(err, context.DeadlineExceeded):
		return mverrors.Wrap(mverrors.ErrCodeTimeout, err, format, args...)
	case errors.Is(err, integrations.ErrNetwork):
		return mverrors.Wrap(mverrors.ErrCodeNetwork, err, format, args...)
	}
	return err
}
