package filter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/diag"
	"github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/pattern"
)

// ValidatePattern rejects patterns that cannot select anything on purpose:
// empty ones, a bare "!" and ones containing whitespace. Malformed version
// ranges are not rejected; they simply never match.
func ValidatePattern(p string) error {
	switch {
	case strings.TrimSpace(strings.TrimPrefix(p, "!")) == "":
		return errors.New(errors.ErrCodeInvalidPattern, "empty pattern %q", p)
	case strings.ContainsAny(p, " \t\r\n"):
		return errors.New(errors.ErrCodeInvalidPattern, "pattern %q contains whitespace", p)
	}
	return nil
}

// PatternFilter is the lenient include/exclude filter.
//
// Patterns prefixed with "!" are negative. An artifact matches when a
// positive pattern matches it, or when negative patterns exist and none of
// them matches. Each pattern is tried against the artifact's full id, its
// conflict key and its groupId:artifactId, in that order. A pattern whose
// first segment is "*" and that is shorter than the candidate is also tried
// right-aligned, so "*:jar:*" matches "g:a:jar:1". With transitive matching
// enabled the pattern is also tried against every entry of the dependency
// trail, falling back to a plain substring test.
//
// A PatternFilter records which patterns fired and which artifacts it
// removed. It is not safe for concurrent use.
type PatternFilter struct {
	patterns   []string
	positive   []string
	negative   []string
	include    bool
	transitive bool

	triggered map[string]struct{}
	filtered  []artifact.Artifact
}

// NewPatternInclude returns a filter that includes matching artifacts.
// With no patterns it includes everything.
func NewPatternInclude(patterns []string, transitive bool) *PatternFilter {
	return newPatternFilter(true, patterns, transitive)
}

// NewPatternExclude returns a filter that excludes matching artifacts.
func NewPatternExclude(patterns []string, transitive bool) *PatternFilter {
	return newPatternFilter(false, patterns, transitive)
}

func newPatternFilter(include bool, patterns []string, transitive bool) *PatternFilter {
	f := &PatternFilter{
		patterns:   append([]string(nil), patterns...),
		include:    include,
		transitive: transitive,
		triggered:  make(map[string]struct{}),
	}
	for _, p := range patterns {
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			f.negative = append(f.negative, neg)
		} else {
			f.positive = append(f.positive, p)
		}
	}
	return f
}

// Include reports whether a passes the filter.
func (f *PatternFilter) Include(a artifact.Artifact) bool {
	include := true
	if len(f.patterns) > 0 {
		include = f.matches(a) == f.include
	}
	if !include {
		f.filtered = append(f.filtered, a)
	}
	return include
}

func (f *PatternFilter) matches(a artifact.Artifact) bool {
	if len(f.positive) > 0 && f.matchAny(a, f.positive, "") {
		return true
	}
	return len(f.negative) > 0 && !f.matchAny(a, f.negative, "!")
}

func (f *PatternFilter) matchAny(a artifact.Artifact, patterns []string, prefix string) bool {
	for _, p := range patterns {
		if f.matchPattern(a, p) {
			f.triggered[prefix+p] = struct{}{}
			return true
		}
	}
	return false
}

func (f *PatternFilter) matchPattern(a artifact.Artifact, p string) bool {
	for _, value := range []string{a.ID(), a.ConflictKey(), a.VersionlessKey()} {
		if matchValue(value, p, false) {
			return true
		}
	}
	if f.transitive && len(a.DependencyTrail) > 1 {
		for _, entry := range a.DependencyTrail {
			if matchValue(entry, p, true) {
				return true
			}
		}
	}
	return false
}

func matchValue(value, p string, substring bool) bool {
	tokens := strings.Split(value, ":")
	segs := pattern.Split(p)
	if pattern.MatchTokens(tokens, segs) {
		return true
	}
	if segs[0] == pattern.Wildcard && len(segs) < len(tokens) && pattern.MatchTokensRight(tokens, segs) {
		return true
	}
	return substring && strings.Contains(value, p)
}

// Patterns returns the patterns as given.
func (f *PatternFilter) Patterns() []string { return f.patterns }

// Triggered returns the patterns that matched at least once, in
// declaration order.
func (f *PatternFilter) Triggered() []string {
	return lo.Uniq(lo.Filter(f.patterns, func(p string, _ int) bool {
		_, ok := f.triggered[p]
		return ok
	}))
}

// Missed returns the patterns that never matched, in declaration order.
func (f *PatternFilter) Missed() []string {
	return lo.Uniq(lo.Filter(f.patterns, func(p string, _ int) bool {
		_, ok := f.triggered[p]
		return !ok
	}))
}

// Filtered returns the artifacts the filter rejected.
func (f *PatternFilter) Filtered() []artifact.Artifact { return f.filtered }

// HasMissedCriteria reports whether any pattern never matched.
func (f *PatternFilter) HasMissedCriteria() bool { return len(f.Missed()) > 0 }

// ReportMissedCriteria warns about patterns that never matched.
func (f *PatternFilter) ReportMissedCriteria(sink diag.Sink) {
	missed := f.Missed()
	if len(missed) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("The following patterns were never triggered in this ")
	b.WriteString(f.description())
	b.WriteByte(':')
	for _, p := range missed {
		b.WriteString("\no  '" + p + "'")
	}
	diag.OrNop(sink).Warn(b.String())
}

// ReportFilteredArtifacts lists the rejected artifacts at debug level.
func (f *PatternFilter) ReportFilteredArtifacts(sink diag.Sink) {
	if len(f.filtered) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("The following artifacts were removed by this ")
	b.WriteString(f.description())
	b.WriteByte(':')
	for _, a := range f.filtered {
		b.WriteString("\no  '" + a.ID() + "'")
	}
	diag.OrNop(sink).Debug(b.String())
}

func (f *PatternFilter) description() string {
	if f.include {
		return "artifact inclusion filter"
	}
	return "artifact exclusion filter"
}
