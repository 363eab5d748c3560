package tree

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/filter"
)

func art(id string, scope artifact.Scope) artifact.Artifact {
	parts := strings.Split(id, ":")
	return artifact.New(parts[0], parts[1], parts[2]).WithScope(scope)
}

func ptr(a artifact.Artifact) *artifact.Artifact { return &a }

// sample builds:
//
//	g:p:jar:1
//	+- g:a:jar:1:compile
//	|  +- g:b:jar:1:compile
//	|  \- (g:c:jar:2:compile - omitted for conflict with 1)
//	\- g:c:jar:1:compile
//	   \- (g:p:jar:1:compile - omitted for cycle)
func sample(t *testing.T) *Tree {
	t.Helper()
	c1 := art("g:c:1", artifact.ScopeCompile)
	root := art("g:p:1", artifact.ScopeNone)
	tr, err := Assemble([]Entry{
		{Artifact: root, Parent: NoParent},
		{Artifact: art("g:a:1", artifact.ScopeCompile), Parent: 0},
		{Artifact: c1, Parent: 0},
		{Artifact: art("g:b:1", artifact.ScopeCompile), Parent: 1},
		{Artifact: art("g:c:2", artifact.ScopeCompile), Parent: 1, State: OmittedForConflict, Related: &c1},
		{Artifact: art("g:p:1", artifact.ScopeCompile), Parent: 2, State: OmittedForCycle, Related: &root},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return tr
}

func TestAssembleStructure(t *testing.T) {
	tr := sample(t)
	if tr.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", tr.Len())
	}
	root := tr.Root()
	if root.Parent() != nil || root.Depth() != 0 {
		t.Error("root must have no parent and depth 0")
	}
	children := root.Children()
	if len(children) != 2 || children[0].Artifact.ArtifactID != "a" || children[1].Artifact.ArtifactID != "c" {
		t.Fatalf("children order wrong: %v", children)
	}
	a := children[0]
	if got := a.Children()[0]; got.Depth() != 2 || got.Parent() != a {
		t.Error("grandchild depth or parent wrong")
	}
	if !children[1].IsLast() || children[0].IsLast() {
		t.Error("IsLast mismatch")
	}
	n, ok := tr.Node(4)
	if !ok || n.State != OmittedForConflict {
		t.Fatalf("Node(4) = %v, %v", n, ok)
	}
	if rel, ok := n.RelatedArtifact(); !ok || rel.Version != "1" {
		t.Errorf("RelatedArtifact() = %v, %v", rel, ok)
	}
	if _, ok := tr.Node(99); ok {
		t.Error("Node(99) should not exist")
	}
	anc := n.Ancestors()
	if len(anc) != 2 || anc[0] != root || anc[1] != a {
		t.Errorf("Ancestors() = %v", anc)
	}
}

func TestAssembleErrors(t *testing.T) {
	root := art("g:p:1", "")
	tests := []struct {
		name    string
		entries []Entry
		want    error
	}{
		{"empty", nil, ErrEmptyTree},
		{"root with parent", []Entry{{Artifact: root, Parent: 0}}, ErrInvalidRoot},
		{"omitted root", []Entry{{Artifact: root, Parent: NoParent, State: OmittedForCycle, Related: &root}}, ErrInvalidRoot},
		{"forward parent", []Entry{{Artifact: root, Parent: NoParent}, {Artifact: root, Parent: 1}}, ErrInvalidParent},
		{"missing related", []Entry{{Artifact: root, Parent: NoParent}, {Artifact: root, Parent: 0, State: OmittedForDuplicate}}, ErrMissingRelated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Assemble(tt.entries); !errors.Is(err, tt.want) {
				t.Errorf("Assemble() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNodeString(t *testing.T) {
	winner := art("g:a:1", artifact.ScopeCompile)
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"plain", Entry{Artifact: winner}, "g:a:jar:1:compile"},
		{
			"managed",
			Entry{Artifact: art("g:a:2", artifact.ScopeRuntime), PremanagedVersion: "1", PremanagedScope: artifact.ScopeCompile},
			"g:a:jar:2:runtime (version managed from 1; scope managed from compile)",
		},
		{
			"scope updated",
			Entry{Artifact: winner, OriginalScope: artifact.ScopeTest},
			"g:a:jar:1:compile (scope updated from test)",
		},
		{
			"scope not updated",
			Entry{Artifact: art("g:a:1", artifact.ScopeTest), FailedUpdateScope: artifact.ScopeCompile},
			"g:a:jar:1:test (scope not updated to compile)",
		},
		{
			"range",
			Entry{Artifact: art("g:a:1.2", artifact.ScopeCompile), VersionConstraint: "[1.0,2.0)", VersionSelectedFromRange: true},
			"g:a:jar:1.2:compile (version selected from constraint [1.0,2.0))",
		},
		{
			"duplicate",
			Entry{Artifact: winner, State: OmittedForDuplicate, Related: ptr(winner)},
			"(g:a:jar:1:compile - omitted for duplicate)",
		},
		{
			"conflict managed",
			Entry{Artifact: art("g:a:3", artifact.ScopeCompile), State: OmittedForConflict, Related: ptr(winner), PremanagedVersion: "2"},
			"(g:a:jar:3:compile - version managed from 2; omitted for conflict with 1)",
		},
		{
			"cycle",
			Entry{Artifact: winner, State: OmittedForCycle, Related: ptr(winner)},
			"(g:a:jar:1:compile - omitted for cycle)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{Entry: tt.entry}
			if got := n.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tr := sample(t)
	want := `g:p:jar:1
+- g:a:jar:1:compile
|  +- g:b:jar:1:compile
|  \- (g:c:jar:2:compile - omitted for conflict with 1)
\- g:c:jar:1:compile
   \- (g:p:jar:1:compile - omitted for cycle)
`
	if diff := cmp.Diff(want, tr.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIncludedOnly(t *testing.T) {
	tr := sample(t)
	var buf bytes.Buffer
	if err := Render(&buf, tr.Root(), RenderOptions{Tokens: ExtendedTokens, Filter: IncludedOnly}); err != nil {
		t.Fatal(err)
	}
	want := `g:p:jar:1
├─ g:a:jar:1:compile
│  └─ g:b:jar:1:compile
└─ g:c:jar:1:compile
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderWhitespace(t *testing.T) {
	tr := sample(t)
	var buf bytes.Buffer
	_ = Render(&buf, tr.Root(), RenderOptions{Tokens: WhitespaceTokens, Filter: IncludedOnly})
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[2] != "      g:b:jar:1:compile" {
		t.Errorf("line = %q", lines[2])
	}
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestRenderWriteError(t *testing.T) {
	tr := sample(t)
	w := &failingWriter{n: 2}
	if err := Render(w, tr.Root(), RenderOptions{}); err == nil {
		t.Error("expected write error")
	}
}

func TestVisitorOrder(t *testing.T) {
	tr := sample(t)
	var events []string
	tr.Accept(Funcs{
		VisitFunc: func(n *Node) bool {
			events = append(events, "+"+n.Artifact.ArtifactID)
			return true
		},
		EndVisitFunc: func(n *Node) bool {
			events = append(events, "-"+n.Artifact.ArtifactID)
			return true
		},
	})
	want := []string{"+p", "+a", "+b", "-b", "+c", "-c", "-a", "+c", "+p", "-p", "-c", "-p"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestVisitSkipsChildren(t *testing.T) {
	tr := sample(t)
	var c Collector
	tr.Accept(Funcs{VisitFunc: func(n *Node) bool {
		c.Visit(n)
		return n.Depth() == 0
	}})
	if len(c.Nodes) != 3 {
		t.Errorf("visited %d nodes, want 3", len(c.Nodes))
	}
}

func TestCollectorAndStats(t *testing.T) {
	tr := sample(t)

	var c Collector
	tr.Accept(Filtering{Visitor: &c, Filter: IncludedOnly})
	want := []string{"g:p:jar:1", "g:a:jar:1:compile", "g:b:jar:1:compile", "g:c:jar:1:compile"}
	if diff := cmp.Diff(want, c.Artifacts()); diff != "" {
		t.Errorf("Artifacts() mismatch (-want +got):\n%s", diff)
	}

	var s Stats
	tr.Accept(&s)
	if s.Total != 6 || s.MaxDepth != 2 || s.Included() != 3 || s.Omitted() != 2 {
		t.Errorf("Stats = %+v", s)
	}
	if s.ByState[OmittedForCycle] != 1 {
		t.Errorf("cycle count = %d", s.ByState[OmittedForCycle])
	}
}

func TestFind(t *testing.T) {
	tr := sample(t)
	calls := 0
	n, ok := Find(tr.Root(), func(n *Node) bool {
		calls++
		return n.Artifact.ArtifactID == "b"
	})
	if !ok || n.Artifact.ArtifactID != "b" {
		t.Fatalf("Find() = %v, %v", n, ok)
	}
	if calls != 3 {
		t.Errorf("match called %d times, want 3 (stop at first match)", calls)
	}
	if _, ok := Find(tr.Root(), func(*Node) bool { return false }); ok {
		t.Error("Find() should fail")
	}
}

func TestNodeFilters(t *testing.T) {
	tr := sample(t)
	onlyB := ArtifactFilter(filter.NewStrictInclude("g:b"))
	var c Collector
	tr.Accept(Filtering{Visitor: &c, Filter: AncestorOrSelf(onlyB)})
	want := []string{"g:p:jar:1", "g:a:jar:1:compile", "g:b:jar:1:compile"}
	if diff := cmp.Diff(want, c.Artifacts()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	omitted := States(OmittedForConflict, OmittedForCycle)
	c = Collector{}
	tr.Accept(Filtering{Visitor: &c, Filter: And(omitted, ArtifactFilter(filter.NewStrictInclude("g:c")))})
	if len(c.Nodes) != 1 || c.Nodes[0].State != OmittedForConflict {
		t.Errorf("And filter collected %v", c.Artifacts())
	}
}

func TestResolvedArtifacts(t *testing.T) {
	tr := sample(t)
	var ids []string
	for _, a := range tr.ResolvedArtifacts() {
		ids = append(ids, a.ID())
	}
	want := []string{"g:a:jar:1", "g:b:jar:1", "g:c:jar:1"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
