package filter

import (
	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/pattern"
)

// StrictPatternFilter matches artifacts against patterns of the form
// groupId[:artifactId[:type[:version]]]. Versions are compared in their
// base form so a pattern naming "1.0-SNAPSHOT" also matches timestamped
// snapshot builds.
type StrictPatternFilter struct {
	patterns [][]string
	include  bool
}

// NewStrictInclude returns a filter that includes artifacts matching any pattern.
func NewStrictInclude(patterns ...string) *StrictPatternFilter {
	return newStrict(true, patterns)
}

// NewStrictExclude returns a filter that excludes artifacts matching any pattern.
func NewStrictExclude(patterns ...string) *StrictPatternFilter {
	return newStrict(false, patterns)
}

func newStrict(include bool, patterns []string) *StrictPatternFilter {
	f := &StrictPatternFilter{include: include}
	for _, p := range patterns {
		f.patterns = append(f.patterns, pattern.Split(p))
	}
	return f
}

// Include reports whether a passes the filter.
func (f *StrictPatternFilter) Include(a artifact.Artifact) bool {
	tokens := []string{a.GroupID, a.ArtifactID, typeOf(a), a.BaseVersion()}
	matched := false
	for _, segs := range f.patterns {
		if pattern.MatchTokens(tokens, segs) {
			matched = true
			break
		}
	}
	if f.include {
		return matched
	}
	return !matched
}

func typeOf(a artifact.Artifact) string {
	if a.Type == "" {
		return artifact.DefaultType
	}
	return a.Type
}
