// Package filter decides which artifacts take part in a dependency tree.
//
// Three families of filters are provided:
//
//   - [StrictPatternFilter] matches patterns segment by segment against
//     groupId, artifactId, type and base version. It backs dependency
//     exclusions.
//   - [PatternFilter] is the lenient include/exclude filter behind the CLI's
//     --includes and --excludes flags. It understands "!" negation, tries
//     several coordinate spellings, can match against an artifact's
//     dependency trail, and remembers which patterns fired.
//   - [ScopeFilter] admits artifacts by classpath scope.
//
// Filters compose with [All], [Any] and [Not]. Filters that keep statistics
// implement [Reporter] so unused criteria can be surfaced after a build.
package filter

import (
	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/diag"
)

// Filter decides whether an artifact is included.
type Filter interface {
	Include(a artifact.Artifact) bool
}

// Func adapts a plain function to Filter.
type Func func(a artifact.Artifact) bool

// Include calls f(a).
func (f Func) Include(a artifact.Artifact) bool { return f(a) }

// Reporter is implemented by filters that track which criteria matched.
type Reporter interface {
	// HasMissedCriteria reports whether some criterion never matched.
	HasMissedCriteria() bool
	// ReportMissedCriteria writes a warning listing unused criteria.
	ReportMissedCriteria(sink diag.Sink)
}

// Report asks every Reporter among filters (including those nested in
// combinators) to report missed criteria.
func Report(sink diag.Sink, filters ...Filter) {
	sink = diag.OrNop(sink)
	for _, f := range filters {
		switch v := f.(type) {
		case *Composite:
			Report(sink, v.filters...)
		case Reporter:
			if v.HasMissedCriteria() {
				v.ReportMissedCriteria(sink)
			}
		}
	}
}

// Composite combines filters with a boolean operator.
type Composite struct {
	filters []Filter
	any     bool
}

// All includes an artifact when every filter includes it. Nil filters are
// skipped; with no filters everything is included.
func All(filters ...Filter) *Composite {
	return &Composite{filters: compact(filters)}
}

// Any includes an artifact when at least one filter includes it. With no
// filters nothing is included.
func Any(filters ...Filter) *Composite {
	return &Composite{filters: compact(filters), any: true}
}

// Include evaluates the combined filters. Evaluation short-circuits.
func (c *Composite) Include(a artifact.Artifact) bool {
	for _, f := range c.filters {
		if f.Include(a) == c.any {
			return c.any
		}
	}
	return !c.any
}

// Filters returns the combined filters.
func (c *Composite) Filters() []Filter { return c.filters }

// Len returns the number of combined filters.
func (c *Composite) Len() int { return len(c.filters) }

func compact(filters []Filter) []Filter {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

type not struct{ f Filter }

func (n not) Include(a artifact.Artifact) bool { return !n.f.Include(a) }

// Not inverts a filter.
func Not(f Filter) Filter { return not{f} }
