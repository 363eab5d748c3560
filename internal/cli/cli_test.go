package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// execute runs the root command with args and returns what it wrote to
// stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var logs, out, errOut bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeConfig writes an mvntree.toml that keeps the file cache in dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "mvntree.toml", fmt.Sprintf("[cache]\nbackend = \"file\"\ndir = %q\n", filepath.Join(dir, "cache")))
}

const appPOM = `<project>
  <groupId>com.acme</groupId>
  <artifactId>app</artifactId>
  <version>1</version>
  <dependencies>
    <dependency><groupId>org.example</groupId><artifactId>lib</artifactId><version>1.0</version></dependency>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>4.13.2</version><scope>test</scope></dependency>
  </dependencies>
</project>`

var repoFiles = map[string]string{
	"/org/example/lib/1.0/lib-1.0.pom": `<project>
  <groupId>org.example</groupId><artifactId>lib</artifactId><version>1.0</version>
  <dependencies>
    <dependency><groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>2.0.9</version></dependency>
    <dependency><groupId>org.example</groupId><artifactId>util</artifactId><version>3.1</version></dependency>
  </dependencies>
</project>`,
	"/org/example/util/3.1/util-3.1.pom": `<project>
  <groupId>org.example</groupId><artifactId>util</artifactId><version>3.1</version>
  <dependencies>
    <dependency><groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>1.7.36</version></dependency>
  </dependencies>
</project>`,
	"/org/slf4j/slf4j-api/2.0.9/slf4j-api-2.0.9.pom": `<project>
  <groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>2.0.9</version>
</project>`,
	"/org/slf4j/slf4j-api/1.7.36/slf4j-api-1.7.36.pom": `<project>
  <groupId>org.slf4j</groupId><artifactId>slf4j-api</artifactId><version>1.7.36</version>
</project>`,
	"/junit/junit/4.13.2/junit-4.13.2.pom": `<project>
  <groupId>junit</groupId><artifactId>junit</artifactId><version>4.13.2</version>
  <dependencies>
    <dependency><groupId>org.hamcrest</groupId><artifactId>hamcrest-core</artifactId><version>1.3</version></dependency>
  </dependencies>
</project>`,
	"/org/hamcrest/hamcrest-core/1.3/hamcrest-core-1.3.pom": `<project>
  <groupId>org.hamcrest</groupId><artifactId>hamcrest-core</artifactId><version>1.3</version>
</project>`,
}

// fakeRepo serves repoFiles and counts requests.
type fakeRepo struct {
	*httptest.Server
	mu       sync.Mutex
	requests int
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	r := &fakeRepo{}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.requests++
		r.mu.Unlock()
		body, ok := repoFiles[req.URL.Path]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(r.Close)
	return r
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	want := []string{"tree", "match", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "mvntree version") {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "mvntree") {
				t.Errorf("%s completion does not mention mvntree", shell)
			}
		})
	}

	if _, _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
