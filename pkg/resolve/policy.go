package resolve

import "github.com/matzehuels/mvntree/pkg/artifact"

// ScopePolicy controls scope inheritance and mediation.
//
// The zero value never widens anything. DefaultScopePolicy enables the
// classic Maven behavior.
type ScopePolicy struct {
	// WidenToRuntime lets a farther runtime occurrence widen a nearer
	// test-scoped winner to runtime.
	WidenToRuntime bool

	// WidenToCompile lets a farther compile occurrence widen a nearer test
	// or runtime winner to compile.
	WidenToCompile bool

	// ProtectDirect keeps the scope of dependencies declared by the root.
	// A refused widening is recorded as the winner's failed update scope.
	ProtectDirect bool
}

// DefaultScopePolicy returns the policy used when none is configured.
func DefaultScopePolicy() ScopePolicy {
	return ScopePolicy{WidenToRuntime: true, WidenToCompile: true, ProtectDirect: true}
}

// Inherit computes the effective scope of a dependency declared with scope
// child by an artifact whose effective scope is parent. It reports false
// when the dependency is not transitive from that parent.
//
//	child \ parent   compile   runtime   test   provided
//	compile          compile   runtime   test   provided
//	runtime          runtime   runtime   test   provided
//	test, provided   -         -         -      -
//	system           system    system    system system
func Inherit(parent, child artifact.Scope) (artifact.Scope, bool) {
	child = child.OrCompile()
	switch child {
	case artifact.ScopeTest, artifact.ScopeProvided:
		return artifact.ScopeNone, false
	case artifact.ScopeSystem:
		return artifact.ScopeSystem, true
	}
	switch parent.OrCompile() {
	case artifact.ScopeTest:
		return artifact.ScopeTest, true
	case artifact.ScopeProvided:
		return artifact.ScopeProvided, true
	case artifact.ScopeRuntime:
		return artifact.ScopeRuntime, true
	default:
		return child, true
	}
}

// Mediation is the outcome of comparing a winner's scope with a farther
// occurrence of the same dependency.
type Mediation struct {
	// Scope is the winner's scope after mediation.
	Scope artifact.Scope
	// Updated is set when Scope differs from the winner's previous scope.
	Updated bool
	// Refused holds the scope that would have been applied had the winner
	// not been protected.
	Refused artifact.Scope
}

// Mediate decides the winner's scope when the same conflict key is reached
// again with scope farther. winnerDepth is the winner's distance from the
// root. Provided and system winners are never widened.
func (p ScopePolicy) Mediate(winner artifact.Scope, winnerDepth int, farther artifact.Scope) Mediation {
	current := winner.OrCompile()
	target := current
	switch farther.OrCompile() {
	case artifact.ScopeRuntime:
		if p.WidenToRuntime && current == artifact.ScopeTest {
			target = artifact.ScopeRuntime
		}
	case artifact.ScopeCompile:
		if p.WidenToCompile && (current == artifact.ScopeTest || current == artifact.ScopeRuntime) {
			target = artifact.ScopeCompile
		}
	}
	if target == current {
		return Mediation{Scope: winner}
	}
	if p.ProtectDirect && winnerDepth < 2 {
		return Mediation{Scope: winner, Refused: target}
	}
	return Mediation{Scope: target, Updated: true}
}
