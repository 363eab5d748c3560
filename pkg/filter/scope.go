package filter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/diag"
	"github.com/matzehuels/mvntree/pkg/errors"
)

// Compound scope names accepted by [NewScope] in addition to the plain scopes.
const (
	ScopeCompilePlusRuntime = "compile+runtime"
	ScopeRuntimePlusSystem  = "runtime+system"
)

// implied maps a requested classpath scope to the dependency scopes that
// end up on that classpath.
var implied = map[string][]artifact.Scope{
	string(artifact.ScopeCompile):  {artifact.ScopeCompile, artifact.ScopeProvided, artifact.ScopeSystem},
	string(artifact.ScopeRuntime):  {artifact.ScopeCompile, artifact.ScopeRuntime},
	string(artifact.ScopeTest):     artifact.Scopes,
	string(artifact.ScopeProvided): {artifact.ScopeProvided},
	string(artifact.ScopeSystem):   {artifact.ScopeSystem},
	ScopeCompilePlusRuntime:        {artifact.ScopeCompile, artifact.ScopeProvided, artifact.ScopeRuntime, artifact.ScopeSystem},
	ScopeRuntimePlusSystem:         {artifact.ScopeCompile, artifact.ScopeRuntime, artifact.ScopeSystem},
}

// ScopeFilter includes artifacts whose scope is enabled. Artifacts without
// a scope are governed by the null-scope flag, which is on by default.
// The filter records which enabled scopes were ever evaluated.
type ScopeFilter struct {
	enabled     map[artifact.Scope]bool
	includeNull bool

	hits    map[artifact.Scope]bool
	nullHit bool
}

// NewScope returns a filter for the classpath named by spec, using the
// scope implication lattice: "compile" admits compile, provided and system;
// "runtime" admits compile and runtime; "test" admits everything.
func NewScope(spec string) (*ScopeFilter, error) {
	scopes, ok := implied[strings.ToLower(strings.TrimSpace(spec))]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidScope, "unknown scope %q", spec)
	}
	return NewScopeSet(scopes...), nil
}

// NewScopeSet returns a filter that admits the given scopes and unscoped
// artifacts. Use IncludeNullScope(false) to reject unscoped artifacts.
func NewScopeSet(scopes ...artifact.Scope) *ScopeFilter {
	f := &ScopeFilter{
		enabled:     make(map[artifact.Scope]bool),
		includeNull: true,
		hits:        make(map[artifact.Scope]bool),
	}
	for _, s := range scopes {
		if s != artifact.ScopeNone {
			f.enabled[s] = true
		}
	}
	return f
}

// IncludeNullScope sets whether unscoped artifacts are included.
func (f *ScopeFilter) IncludeNullScope(v bool) *ScopeFilter {
	f.includeNull = v
	return f
}

// Include reports whether a's scope is enabled.
func (f *ScopeFilter) Include(a artifact.Artifact) bool {
	if a.Scope == artifact.ScopeNone {
		f.nullHit = true
		return f.includeNull
	}
	f.hits[a.Scope] = true
	return f.enabled[a.Scope]
}

// Enabled returns the enabled scopes in canonical order.
func (f *ScopeFilter) Enabled() []artifact.Scope {
	return lo.Filter(artifact.Scopes, func(s artifact.Scope, _ int) bool { return f.enabled[s] })
}

// Missed returns enabled scopes that no artifact carried.
func (f *ScopeFilter) Missed() []artifact.Scope {
	return lo.Filter(f.Enabled(), func(s artifact.Scope, _ int) bool { return !f.hits[s] })
}

// HasMissedCriteria reports whether an enabled scope was never evaluated.
func (f *ScopeFilter) HasMissedCriteria() bool { return len(f.Missed()) > 0 }

// ReportMissedCriteria warns about enabled scopes that were never evaluated.
func (f *ScopeFilter) ReportMissedCriteria(sink diag.Sink) {
	missed := f.Missed()
	if len(missed) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("The following scope filters were not used:")
	for _, s := range missed {
		b.WriteString("\no  '" + string(s) + "'")
	}
	diag.OrNop(sink).Warn(b.String())
}
