package artifact

import (
	"strings"

	"github.com/matzehuels/mvntree/pkg/errors"
)

// Scope is the classpath scope of a dependency. The empty Scope means the
// artifact carries no scope, which is the case for the resolution root.
type Scope string

// Maven dependency scopes.
const (
	ScopeNone     Scope = ""
	ScopeCompile  Scope = "compile"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeProvided Scope = "provided"
	ScopeSystem   Scope = "system"
)

// Scopes lists every named scope in declaration order.
var Scopes = []Scope{ScopeCompile, ScopeRuntime, ScopeTest, ScopeProvided, ScopeSystem}

// ParseScope parses a scope name case-insensitively. The empty string
// yields ScopeNone.
func ParseScope(s string) (Scope, error) {
	sc := Scope(strings.ToLower(strings.TrimSpace(s)))
	if sc == ScopeNone || sc.Valid() {
		return sc, nil
	}
	return ScopeNone, errors.New(errors.ErrCodeInvalidScope, "unknown scope %q", s)
}

// Valid reports whether s is one of the named scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeCompile, ScopeRuntime, ScopeTest, ScopeProvided, ScopeSystem:
		return true
	}
	return false
}

// OrCompile returns s, or ScopeCompile when s is empty.
func (s Scope) OrCompile() Scope {
	if s == ScopeNone {
		return ScopeCompile
	}
	return s
}

func (s Scope) String() string { return string(s) }
