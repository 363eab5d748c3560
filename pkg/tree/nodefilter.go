package tree

import (
	"slices"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/filter"
)

// NodeFilter selects nodes during a traversal.
type NodeFilter interface {
	Accept(n *Node) bool
}

// NodeFilterFunc adapts a function to NodeFilter.
type NodeFilterFunc func(*Node) bool

// Accept calls f(n).
func (f NodeFilterFunc) Accept(n *Node) bool { return f(n) }

// States accepts nodes in any of the listed states.
func States(states ...State) NodeFilter {
	return NodeFilterFunc(func(n *Node) bool { return slices.Contains(states, n.State) })
}

// IncludedOnly accepts included nodes.
var IncludedOnly = States(Included)

// ArtifactFilter accepts nodes whose artifact passes f. The root is always
// accepted so filtered renderings keep their anchor line.
func ArtifactFilter(f filter.Filter) NodeFilter {
	return NodeFilterFunc(func(n *Node) bool {
		return n.Parent() == nil || f.Include(n.Artifact)
	})
}

// AncestorOrSelf accepts nodes on the path from the root to any node that
// target accepts, so matches are shown with their origin.
func AncestorOrSelf(target NodeFilter) NodeFilter {
	return NodeFilterFunc(func(n *Node) bool {
		_, ok := Find(n, target.Accept)
		return ok
	})
}

// And accepts nodes accepted by every filter.
func And(filters ...NodeFilter) NodeFilter {
	return NodeFilterFunc(func(n *Node) bool {
		for _, f := range filters {
			if !f.Accept(n) {
				return false
			}
		}
		return true
	})
}

// ResolvedArtifacts returns the artifacts of all included nodes except the
// root, in pre-order.
func (t *Tree) ResolvedArtifacts() []artifact.Artifact {
	var out []artifact.Artifact
	Walk(t.Root(), func(n *Node) bool {
		if n.Parent() != nil && n.Included() {
			out = append(out, n.Artifact)
		}
		return true
	})
	return out
}
