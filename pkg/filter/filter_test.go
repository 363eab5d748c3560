package filter

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/diag"
)

func art(g, a, v string) artifact.Artifact { return artifact.New(g, a, v) }

func TestStrictIncludeExcludeComplement(t *testing.T) {
	artifacts := []artifact.Artifact{
		art("groupId", "artifactId", "1.0"),
		art("org.example", "core", "1.0.1"),
		art("org.example", "core", "1.5"),
		art("com.other", "lib", "2.0-20240101.120000-1"),
	}
	patterns := [][]string{
		{"groupId"},
		{"*oup*"},
		{"*different*"},
		{"org.example:core:jar:[1.0,1.1)"},
		{"*:*:*:2.0-SNAPSHOT"},
		{"org.*", "com.other:lib"},
		{"a:b:c:d:e"},
	}
	for _, p := range patterns {
		inc := NewStrictInclude(p...)
		exc := NewStrictExclude(p...)
		for _, a := range artifacts {
			if inc.Include(a) == exc.Include(a) {
				t.Errorf("patterns %v on %s: include and exclude agree", p, a)
			}
		}
	}
}

func TestStrictInclude(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		a        artifact.Artifact
		want     bool
	}{
		{"contains wildcard", []string{"*oup*"}, art("groupId", "artifactId", "1"), true},
		{"contains miss", []string{"*different*"}, art("groupId", "artifactId", "1"), false},
		{"all wildcards", []string{"*:*:*:*"}, art("g", "a", "1"), true},
		{"empty segments", []string{":::"}, art("g", "a", "1"), true},
		{"empty pattern", []string{""}, art("g", "a", "1"), true},
		{"range includes", []string{"g:a:jar:[1.0,1.1)"}, art("g", "a", "1.0.1"), true},
		{"range excludes", []string{"g:a:jar:[1.0,1.1)"}, art("g", "a", "1.5"), false},
		{"range union gap", []string{"g:a:jar:(,1.0],[1.2,)"}, art("g", "a", "1.0.1"), false},
		{"invalid range matches nothing", []string{"g:a:jar:[1.0"}, art("g", "a", "1.0"), false},
		{"snapshot base version", []string{"g:a:jar:1.0-SNAPSHOT"}, art("g", "a", "1.0-20240101.123456-7"), true},
		{"too many segments", []string{"g:a:jar:1:x"}, art("g", "a", "1"), false},
		{"type mismatch", []string{"g:a:pom"}, art("g", "a", "1"), false},
		{"no patterns", nil, art("g", "a", "1"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewStrictInclude(tt.patterns...).Include(tt.a); got != tt.want {
				t.Errorf("Include(%s) = %v, want %v", tt.a, got, tt.want)
			}
		})
	}
}

func TestPatternFilterInclude(t *testing.T) {
	withTrail := art("g", "b", "1")
	withTrail.DependencyTrail = []string{"g:p:jar", "org.parent:lib:jar", "g:b:jar"}

	tests := []struct {
		name       string
		patterns   []string
		transitive bool
		a          artifact.Artifact
		want       bool
	}{
		{"no patterns includes all", nil, false, art("g", "a", "1"), true},
		{"short key", []string{"g:a"}, false, art("g", "a", "1"), true},
		{"conflict key", []string{"g:a:jar"}, false, art("g", "a", "1"), true},
		{"full id", []string{"g:a:jar:1"}, false, art("g", "a", "1"), true},
		{"prefix", []string{"g*"}, false, art("group", "a", "1"), true},
		{"miss", []string{"x:y"}, false, art("g", "a", "1"), false},
		{"right aligned wildcard", []string{"*:jar:*"}, false, art("g", "b", "1"), true},
		{"negative only excludes match", []string{"!g:a"}, false, art("g", "a", "1"), false},
		{"negative only includes others", []string{"!g:a"}, false, art("g", "b", "1"), true},
		{"positive beats negative", []string{"g:*", "!g:a"}, false, art("g", "a", "1"), true},
		{"trail ignored when not transitive", []string{"org.parent:lib"}, false, withTrail, false},
		{"trail matched when transitive", []string{"org.parent:lib"}, true, withTrail, true},
		{"trail substring", []string{"parent"}, true, withTrail, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewPatternInclude(tt.patterns, tt.transitive)
			if got := f.Include(tt.a); got != tt.want {
				t.Errorf("Include(%s) = %v, want %v", tt.a, got, tt.want)
			}
		})
	}
}

func TestPatternFilterExclude(t *testing.T) {
	f := NewPatternExclude([]string{"*:jar:*"}, false)
	if f.Include(art("g", "b", "1")) {
		t.Error("g:b:jar:1 should be excluded")
	}
	pom := art("g", "parent", "1")
	pom.Type = "pom"
	if !f.Include(pom) {
		t.Error("pom artifact should not be excluded")
	}
	if !NewPatternExclude(nil, false).Include(art("g", "a", "1")) {
		t.Error("exclude without patterns must include")
	}
}

func TestPatternFilterTracking(t *testing.T) {
	f := NewPatternInclude([]string{"g:a", "unused:*", "!never"}, false)
	f.Include(art("g", "a", "1"))
	f.Include(art("other", "x", "1"))
	if f.Include(art("never", "x", "1")) {
		t.Error("negative pattern should exclude never:x")
	}

	if diff := cmp.Diff([]string{"g:a", "!never"}, f.Triggered()); diff != "" {
		t.Errorf("Triggered() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"unused:*"}, f.Missed()); diff != "" {
		t.Errorf("Missed() mismatch (-want +got):\n%s", diff)
	}
	if !f.HasMissedCriteria() {
		t.Error("HasMissedCriteria() = false")
	}

	var rec diag.Recorder
	f.ReportMissedCriteria(&rec)
	warns := rec.Messages(log.WarnLevel)
	if len(warns) != 1 {
		t.Fatalf("warnings = %v", warns)
	}
	want := "The following patterns were never triggered in this artifact inclusion filter:\no  'unused:*'"
	if warns[0] != want {
		t.Errorf("warning = %q, want %q", warns[0], want)
	}
}

func TestPatternFilterFilteredReport(t *testing.T) {
	f := NewPatternExclude([]string{"g:a"}, false)
	f.Include(art("g", "a", "1"))
	f.Include(art("g", "b", "1"))

	if len(f.Filtered()) != 1 || f.Filtered()[0].ArtifactID != "a" {
		t.Fatalf("Filtered() = %v", f.Filtered())
	}
	var rec diag.Recorder
	f.ReportFilteredArtifacts(&rec)
	debug := rec.Messages(log.DebugLevel)
	if len(debug) != 1 || !strings.Contains(debug[0], "'g:a:jar:1'") || !strings.Contains(debug[0], "exclusion filter") {
		t.Errorf("debug = %v", debug)
	}
	if f.HasMissedCriteria() {
		t.Error("all patterns triggered")
	}
}

func TestScopeFilterLattice(t *testing.T) {
	tests := []struct {
		spec string
		want []artifact.Scope
	}{
		{"compile", []artifact.Scope{artifact.ScopeCompile, artifact.ScopeProvided, artifact.ScopeSystem}},
		{"runtime", []artifact.Scope{artifact.ScopeCompile, artifact.ScopeRuntime}},
		{"test", artifact.Scopes},
		{"provided", []artifact.Scope{artifact.ScopeProvided}},
		{"compile+runtime", []artifact.Scope{artifact.ScopeCompile, artifact.ScopeRuntime, artifact.ScopeProvided, artifact.ScopeSystem}},
		{"runtime+system", []artifact.Scope{artifact.ScopeCompile, artifact.ScopeRuntime, artifact.ScopeSystem}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			f, err := NewScope(tt.spec)
			if err != nil {
				t.Fatal(err)
			}
			for _, s := range artifact.Scopes {
				want := false
				for _, w := range tt.want {
					if w == s {
						want = true
					}
				}
				if got := f.Include(art("g", "a", "1").WithScope(s)); got != want {
					t.Errorf("%s includes %s = %v, want %v", tt.spec, s, got, want)
				}
			}
			if !f.Include(art("g", "a", "1")) {
				t.Error("unscoped artifacts are included by default")
			}
		})
	}
	if _, err := NewScope("import"); err == nil {
		t.Error("expected error for unknown scope")
	}
}

func TestScopeFilterMissed(t *testing.T) {
	f := NewScopeSet(artifact.ScopeCompile, artifact.ScopeRuntime)
	if !f.Include(art("g", "a", "1")) {
		t.Error("unscoped artifacts are included by default")
	}
	if f.Include(art("g", "a", "1").WithScope(artifact.ScopeProvided)) {
		t.Error("provided is not in the set")
	}
	if NewScopeSet(artifact.ScopeCompile).IncludeNullScope(false).Include(art("g", "a", "1")) {
		t.Error("IncludeNullScope(false) must reject unscoped artifacts")
	}
	f.Include(art("g", "a", "1").WithScope(artifact.ScopeCompile))
	f.Include(art("g", "a", "1").WithScope(artifact.ScopeTest))

	if diff := cmp.Diff([]artifact.Scope{artifact.ScopeRuntime}, f.Missed()); diff != "" {
		t.Errorf("Missed() mismatch (-want +got):\n%s", diff)
	}
	var rec diag.Recorder
	f.ReportMissedCriteria(&rec)
	if w := rec.Messages(log.WarnLevel); len(w) != 1 || !strings.Contains(w[0], "'runtime'") {
		t.Errorf("warnings = %v", w)
	}
}

func TestComposite(t *testing.T) {
	a := art("g", "a", "1").WithScope(artifact.ScopeTest)
	yes := Func(func(artifact.Artifact) bool { return true })
	no := Func(func(artifact.Artifact) bool { return false })

	if !All().Include(a) || Any().Include(a) {
		t.Error("empty All includes, empty Any excludes")
	}
	if All(yes, no).Include(a) || !Any(no, yes).Include(a) {
		t.Error("All/Any mismatch")
	}
	if All(yes, nil).Len() != 1 {
		t.Error("nil filters should be dropped")
	}
	if Not(yes).Include(a) {
		t.Error("Not(yes) should exclude")
	}
}

func TestReport(t *testing.T) {
	scope := NewScopeSet(artifact.ScopeRuntime)
	pat := NewPatternInclude([]string{"never:matched"}, false)
	strict := NewStrictExclude("x")

	f := All(scope, Any(pat, strict))
	f.Include(art("g", "a", "1").WithScope(artifact.ScopeCompile))

	var rec diag.Recorder
	Report(&rec, f)
	if w := rec.Messages(log.WarnLevel); len(w) != 2 {
		t.Errorf("warnings = %v, want 2", w)
	}
}
