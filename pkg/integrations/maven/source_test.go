package maven

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/cache"
	"github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/observability"
	"github.com/matzehuels/mvntree/pkg/pom"
	"github.com/matzehuels/mvntree/pkg/resolve"
	"github.com/matzehuels/mvntree/pkg/tree"
)

var repoFiles = map[string]string{
	"/org/example/parent/1/parent-1.pom": `<project>
  <groupId>org.example</groupId><artifactId>parent</artifactId><version>1</version><packaging>pom</packaging>
  <properties><log.version>2.0.9</log.version></properties>
  <dependencyManagement><dependencies>
    <dependency><groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>${log.version}</version></dependency>
    <dependency><groupId>org.example</groupId><artifactId>bom</artifactId><version>1</version><type>pom</type><scope>import</scope></dependency>
  </dependencies></dependencyManagement>
</project>`,
	"/org/example/bom/1/bom-1.pom": `<project>
  <groupId>org.example</groupId><artifactId>bom</artifactId><version>1</version><packaging>pom</packaging>
  <dependencyManagement><dependencies>
    <dependency><groupId>org.example</groupId><artifactId>util</artifactId><version>3.1</version></dependency>
  </dependencies></dependencyManagement>
</project>`,
	"/org/example/lib/1.0/lib-1.0.pom": `<project>
  <parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
  <artifactId>lib</artifactId><version>1.0</version>
  <dependencies>
    <dependency><groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId></dependency>
    <dependency><groupId>org.example</groupId><artifactId>util</artifactId></dependency>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>4.13.2</version><scope>test</scope></dependency>
  </dependencies>
</project>`,
	"/org/slf4j/slf4j-api/2.0.9/slf4j-api-2.0.9.pom": `<project>
  <groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>2.0.9</version>
</project>`,
	"/org/example/util/3.1/util-3.1.pom": `<project>
  <groupId>org.example</groupId><artifactId>util</artifactId><version>3.1</version>
  <dependencies>
    <dependency><groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>[1.7,2.0)</version></dependency>
  </dependencies>
</project>`,
	"/org/slf4j/slf4j-api/maven-metadata.xml": `<metadata><groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId>
  <versioning><versions><version>1.7.30</version><version>1.7.36</version><version>2.0.9</version></versions></versioning>
</metadata>`,
	"/org/slf4j/slf4j-api/1.7.36/slf4j-api-1.7.36.pom": `<project>
  <groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>1.7.36</version>
</project>`,
	"/org/example/broken/1/broken-1.pom": `<project><groupId>`,
}

type repo struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newRepo(t *testing.T) *repo {
	t.Helper()
	r := &repo{hits: make(map[string]int)}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.hits[req.URL.Path]++
		r.mu.Unlock()
		body, ok := repoFiles[req.URL.Path]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(r.Close)
	return r
}

func (r *repo) count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[path]
}

func newSource(r *repo, c cache.Cache) *Source {
	return NewSource(Options{
		Repository: r.URL + "/",
		Cache:      c,
		TTL:        time.Hour,
		HTTPClient: r.Client(),
		Backoff:    cache.Backoff{Attempts: 1},
	})
}

func TestURLs(t *testing.T) {
	s := NewSource(Options{})
	if s.Repository() != DefaultRepository {
		t.Errorf("Repository() = %s", s.Repository())
	}
	tests := []struct {
		got, want string
	}{
		{s.POMURL("org.slf4j", "slf4j-api", "2.0.9"), "https://repo1.maven.org/maven2/org/slf4j/slf4j-api/2.0.9/slf4j-api-2.0.9.pom"},
		{s.POMURL("g", "a", "1.0-20240101.120000-3"), "https://repo1.maven.org/maven2/g/a/1.0-SNAPSHOT/a-1.0-20240101.120000-3.pom"},
		{s.MetadataURL("org.slf4j", "slf4j-api"), "https://repo1.maven.org/maven2/org/slf4j/slf4j-api/maven-metadata.xml"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestDirectDependencies(t *testing.T) {
	r := newRepo(t)
	s := newSource(r, cache.NewMemoryCache())

	deps, err := s.DirectDependencies(context.Background(), artifact.New("org.example", "lib", "1.0"))
	if err != nil {
		t.Fatalf("DirectDependencies() error = %v", err)
	}
	var got []string
	for _, d := range deps {
		got = append(got, d.String())
	}
	want := []string{
		"org.slf4j:slf4j-api:jar:2.0.9",
		"org.example:util:jar:3.1",
		"junit:junit:jar:4.13.2:test",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentsAreCached(t *testing.T) {
	r := newRepo(t)
	mem := cache.NewMemoryCache()
	counters := &observability.Counters{}
	ctx := context.Background()
	lib := artifact.New("org.example", "lib", "1.0")

	s := NewSource(Options{Repository: r.URL, Cache: mem, HTTPClient: r.Client(), Hooks: observability.Hooks{Cache: counters, HTTP: counters}})
	if _, err := s.DirectDependencies(ctx, lib); err != nil {
		t.Fatal(err)
	}
	// A fresh source shares only the document cache.
	s2 := NewSource(Options{Repository: r.URL, Cache: mem, HTTPClient: r.Client(), Hooks: observability.Hooks{Cache: counters, HTTP: counters}})
	if _, err := s2.DirectDependencies(ctx, lib); err != nil {
		t.Fatal(err)
	}
	if n := r.count("/org/example/parent/1/parent-1.pom"); n != 1 {
		t.Errorf("parent fetched %d times, want 1", n)
	}
	if counters.Requests.Load() != 3 || counters.CacheHits.Load() != 3 {
		t.Errorf("requests = %d, cache hits = %d", counters.Requests.Load(), counters.CacheHits.Load())
	}

	refresh := NewSource(Options{Repository: r.URL, Cache: mem, HTTPClient: r.Client(), Refresh: true})
	if _, err := refresh.DirectDependencies(ctx, lib); err != nil {
		t.Fatal(err)
	}
	if n := r.count("/org/example/lib/1.0/lib-1.0.pom"); n != 2 {
		t.Errorf("refresh must refetch, lib fetched %d times", n)
	}
}

func TestAvailableVersions(t *testing.T) {
	r := newRepo(t)
	s := newSource(r, nil)
	ctx := context.Background()

	versions, err := s.AvailableVersions(ctx, artifact.New("org.slf4j", "slf4j-api", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1.7.30", "1.7.36", "2.0.9"}, versions); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}

	none, err := s.AvailableVersions(ctx, artifact.New("org.none", "none", "1"))
	if err != nil || none != nil {
		t.Errorf("missing listing = %v, %v; want nil, nil", none, err)
	}
}

func TestErrors(t *testing.T) {
	r := newRepo(t)
	s := newSource(r, nil)
	ctx := context.Background()

	_, err := s.DirectDependencies(ctx, artifact.New("org.none", "none", "1"))
	if !errors.Is(err, errors.ErrCodeArtifactNotFound) {
		t.Errorf("missing pom error = %v", err)
	}
	_, err = s.DirectDependencies(ctx, artifact.New("org.example", "broken", "1"))
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("broken pom error = %v", err)
	}
}

func TestResolveProjectWithLocalParent(t *testing.T) {
	r := newRepo(t)
	s := newSource(r, nil)

	root := t.TempDir()
	module := filepath.Join(root, "app")
	if err := os.MkdirAll(module, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(path, body string) {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(root, "pom.xml"), `<project>
  <parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
  <artifactId>aggregator</artifactId><version>5</version><packaging>pom</packaging>
  <properties><util.version>3.1</util.version></properties>
</project>`)
	write(filepath.Join(module, "pom.xml"), `<project>
  <parent><groupId>org.example</groupId><artifactId>aggregator</artifactId><version>5</version></parent>
  <artifactId>app</artifactId>
  <dependencies>
    <dependency><groupId>org.example</groupId><artifactId>util</artifactId><version>${util.version}</version></dependency>
    <dependency><groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId></dependency>
  </dependencies>
</project>`)

	p, err := pom.ParseFile(filepath.Join(module, "pom.xml"))
	if err != nil {
		t.Fatal(err)
	}
	eff, err := s.ResolveProject(context.Background(), p, module)
	if err != nil {
		t.Fatalf("ResolveProject() error = %v", err)
	}
	if eff.Artifact().ID() != "org.example:app:jar:5" {
		t.Errorf("root = %s", eff.Artifact().ID())
	}
	deps, err := eff.DirectDependencies()
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 2 || deps[0].Version != "3.1" || deps[1].Version != "2.0.9" {
		t.Errorf("deps = %v", deps)
	}
	if _, ok := eff.Managed()["org.example:util:jar"]; !ok {
		t.Error("BOM imported by the remote parent not merged")
	}
}

func TestBuildAgainstRepository(t *testing.T) {
	r := newRepo(t)
	s := newSource(r, cache.NewMemoryCache())

	root := artifact.New("org.example", "app", "1")
	deps := []artifact.Artifact{artifact.New("org.example", "lib", "1.0")}
	tr, err := resolve.Build(context.Background(), root, deps, nil, s, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `org.example:app:jar:1
\- org.example:lib:jar:1.0
   +- org.slf4j:slf4j-api:jar:2.0.9:compile
   \- org.example:util:jar:3.1:compile
      \- (org.slf4j:slf4j-api:jar:1.7.36:compile - version selected from constraint [1.7,2.0); omitted for conflict with 2.0.9)
`
	if diff := cmp.Diff(want, tr.String()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if n, _ := tree.Find(tr.Root(), func(n *tree.Node) bool { return n.Artifact.ArtifactID == "junit" }); n != nil {
		t.Error("test dependency of a dependency must not be expanded")
	}
}
