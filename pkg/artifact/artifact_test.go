package artifact

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/mvntree/pkg/errors"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name        string
		a           Artifact
		id          string
		conflictKey string
		str         string
	}{
		{
			name:        "plain jar",
			a:           New("org.example", "core", "1.0"),
			id:          "org.example:core:jar:1.0",
			conflictKey: "org.example:core:jar",
			str:         "org.example:core:jar:1.0",
		},
		{
			name:        "classifier and scope",
			a:           Artifact{GroupID: "g", ArtifactID: "a", Type: "jar", Classifier: "sources", Version: "2", Scope: ScopeTest},
			id:          "g:a:jar:sources:2",
			conflictKey: "g:a:jar:sources",
			str:         "g:a:jar:sources:2:test",
		},
		{
			name:        "missing type defaults to jar",
			a:           Artifact{GroupID: "g", ArtifactID: "a", Version: "1"},
			id:          "g:a:jar:1",
			conflictKey: "g:a:jar",
			str:         "g:a:jar:1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.ID(); got != tt.id {
				t.Errorf("ID() = %q, want %q", got, tt.id)
			}
			if got := tt.a.ConflictKey(); got != tt.conflictKey {
				t.Errorf("ConflictKey() = %q, want %q", got, tt.conflictKey)
			}
			if got := tt.a.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.a.VersionlessKey(); got != tt.a.GroupID+":"+tt.a.ArtifactID {
				t.Errorf("VersionlessKey() = %q", got)
			}
		})
	}
}

func TestBaseVersion(t *testing.T) {
	tests := map[string]string{
		"1.0":                      "1.0",
		"1.0-SNAPSHOT":             "1.0-SNAPSHOT",
		"1.0-20240101.123456-3":    "1.0-SNAPSHOT",
		"2.1.0-20231231.235959-12": "2.1.0-SNAPSHOT",
		"1.0-2024.1":               "1.0-2024.1",
	}
	for in, want := range tests {
		if got := BaseVersion(in); got != want {
			t.Errorf("BaseVersion(%q) = %q, want %q", in, got, want)
		}
	}
	if !New("g", "a", "1.0-20240101.123456-3").IsSnapshot() {
		t.Error("timestamped version should be a snapshot")
	}
}

func TestIdentity(t *testing.T) {
	a := New("g", "a", "1.0").WithScope(ScopeCompile)
	b := New("g", "a", "1.0").WithScope(ScopeTest)
	c := New("g", "a", "2.0")

	if !a.Identical(b) {
		t.Error("scope must not affect identity")
	}
	if a.Identical(c) {
		t.Error("different versions are not identical")
	}
	if !a.SameDependency(c) {
		t.Error("same conflict key expected")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Artifact
	}{
		{"g:a:1", Artifact{GroupID: "g", ArtifactID: "a", Type: "jar", Version: "1"}},
		{"g:a:pom:1", Artifact{GroupID: "g", ArtifactID: "a", Type: "pom", Version: "1"}},
		{"g:a:jar:tests:1", Artifact{GroupID: "g", ArtifactID: "a", Type: "jar", Classifier: "tests", Version: "1"}},
		{"g:a:jar:1:test", Artifact{GroupID: "g", ArtifactID: "a", Type: "jar", Version: "1", Scope: ScopeTest}},
		{"g:a:jar:tests:1:provided", Artifact{GroupID: "g", ArtifactID: "a", Type: "jar", Classifier: "tests", Version: "1", Scope: ScopeProvided}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "g", "g:a", "g:a:b:c:d:e:f", ":a:1", "g::1", "g:a:", "g:a:jar:tests:1:bogus"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", in)
			}
			if !errors.Is(err, errors.ErrCodeInvalidArtifact) && !errors.Is(err, errors.ErrCodeInvalidScope) {
				t.Errorf("unexpected code %v", errors.GetCode(err))
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	tests := map[string]string{
		"g:a":             "g:a:jar",
		"g:a:pom":         "g:a:pom",
		"g:a:jar:sources": "g:a:jar:sources",
	}
	for in, want := range tests {
		got, err := ParseKey(in)
		if err != nil {
			t.Fatalf("ParseKey(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ParseKey(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseKey("g"); err == nil {
		t.Error("expected error for single field")
	}
}

func TestParseScope(t *testing.T) {
	for _, in := range []string{"compile", "RUNTIME", " test ", "provided", "system", ""} {
		if _, err := ParseScope(in); err != nil {
			t.Errorf("ParseScope(%q) error = %v", in, err)
		}
	}
	if _, err := ParseScope("import"); err == nil {
		t.Error("expected error for import scope")
	}
	if ScopeNone.OrCompile() != ScopeCompile || ScopeTest.OrCompile() != ScopeTest {
		t.Error("OrCompile mismatch")
	}
}

func TestClone(t *testing.T) {
	a := New("g", "a", "1")
	a.Exclusions = []string{"x:y"}
	b := a.Clone()
	b.Exclusions[0] = "changed"
	if a.Exclusions[0] != "x:y" {
		t.Error("Clone shares exclusions")
	}
}
