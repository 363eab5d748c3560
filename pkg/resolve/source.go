package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/errors"
)

// MetadataSource returns the direct dependencies an artifact declares, in
// declaration order. The builder calls it once per expanded node, serially.
type MetadataSource interface {
	DirectDependencies(ctx context.Context, a artifact.Artifact) ([]artifact.Artifact, error)
}

// VersionLister is an optional extension of MetadataSource that lists the
// published versions of an artifact. Range declarations are resolved
// against it.
type VersionLister interface {
	AvailableVersions(ctx context.Context, a artifact.Artifact) ([]string, error)
}

// SourceFunc adapts a function to MetadataSource.
type SourceFunc func(ctx context.Context, a artifact.Artifact) ([]artifact.Artifact, error)

// DirectDependencies calls f.
func (f SourceFunc) DirectDependencies(ctx context.Context, a artifact.Artifact) ([]artifact.Artifact, error) {
	return f(ctx, a)
}

// Managed looks up dependency management entries by conflict key.
type Managed interface {
	Lookup(conflictKey string) (artifact.Artifact, bool)
}

// ManagedMap is a Managed backed by a map keyed by conflict key. A nil map
// manages nothing.
type ManagedMap map[string]artifact.Artifact

// Lookup returns the managed artifact for key.
func (m ManagedMap) Lookup(key string) (artifact.Artifact, bool) {
	a, ok := m[key]
	return a, ok
}

// StaticSource is an in-memory MetadataSource and VersionLister. It is
// safe for concurrent use.
type StaticSource struct {
	mu       sync.RWMutex
	deps     map[string][]artifact.Artifact
	versions map[string][]string
	// Strict makes lookups of unknown artifacts fail instead of returning
	// no dependencies.
	Strict bool
}

// NewStaticSource returns an empty StaticSource.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		deps:     make(map[string][]artifact.Artifact),
		versions: make(map[string][]string),
	}
}

// Add registers the direct dependencies of a.
func (s *StaticSource) Add(a artifact.Artifact, deps ...artifact.Artifact) *StaticSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deps[a.ID()] = append(s.deps[a.ID()], deps...)
	return s
}

// AddVersions registers published versions for groupId:artifactId of a.
func (s *StaticSource) AddVersions(a artifact.Artifact, versions ...string) *StaticSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[a.VersionlessKey()] = append(s.versions[a.VersionlessKey()], versions...)
	return s
}

// DirectDependencies returns the registered dependencies of a.
func (s *StaticSource) DirectDependencies(ctx context.Context, a artifact.Artifact) ([]artifact.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	deps, ok := s.deps[a.ID()]
	if !ok && s.Strict {
		return nil, errors.New(errors.ErrCodeArtifactNotFound, "no metadata for %s", a.ID())
	}
	out := make([]artifact.Artifact, len(deps))
	for i, d := range deps {
		out[i] = d.Clone()
	}
	return out, nil
}

// AvailableVersions returns the registered versions of a.
func (s *StaticSource) AvailableVersions(_ context.Context, a artifact.Artifact) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.versions[a.VersionlessKey()]...), nil
}

// String summarizes the source for debugging.
func (s *StaticSource) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("StaticSource(%d artifacts)", len(s.deps))
}
