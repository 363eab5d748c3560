// Package tree holds resolved dependency trees.
//
// A [Tree] is an arena of nodes addressed by [ID]. Each node points to its
// parent by ID and lists its children by ID in declaration order, so the
// structure has no reference cycles and can be shared freely once built.
// Trees are assembled in one step from a slice of [Entry] values and are
// read-only afterwards.
//
// Traversal uses the visitor pattern: [Node.Accept] calls [Visitor.Visit]
// before a node's children and [Visitor.EndVisit] after them. Rendering,
// statistics and searches are all visitors.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/mvntree/pkg/artifact"
)

var (
	// ErrEmptyTree is returned by [Assemble] when no entries are given.
	ErrEmptyTree = errors.New("tree has no root")

	// ErrInvalidRoot is returned by [Assemble] when the first entry has a
	// parent or is not included.
	ErrInvalidRoot = errors.New("first entry must be an included root without parent")

	// ErrInvalidParent is returned by [Assemble] when an entry's parent does
	// not precede it. Parents must be added before their children.
	ErrInvalidParent = errors.New("parent must precede child")

	// ErrMissingRelated is returned by [Assemble] when an omitted entry does
	// not name the artifact it lost to.
	ErrMissingRelated = errors.New("omitted node without related artifact")
)

// ID addresses a node within its tree.
type ID int

// NoParent is the parent ID of the root node.
const NoParent ID = -1

// State records whether a node contributes to the resolved set.
type State int

const (
	// Included nodes are part of the resolved dependency set.
	Included State = iota
	// OmittedForDuplicate nodes repeat an already included artifact.
	OmittedForDuplicate
	// OmittedForConflict nodes lost to a nearer version of the same dependency.
	OmittedForConflict
	// OmittedForCycle nodes repeat one of their own ancestors.
	OmittedForCycle
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Included:
		return "INCLUDED"
	case OmittedForDuplicate:
		return "OMITTED_FOR_DUPLICATE"
	case OmittedForConflict:
		return "OMITTED_FOR_CONFLICT"
	case OmittedForCycle:
		return "OMITTED_FOR_CYCLE"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Entry is the mutable description of one node used while a tree is being
// assembled. Entries are addressed by their index, which becomes the node ID.
type Entry struct {
	Artifact artifact.Artifact
	Parent   ID
	State    State

	// Related is the winning artifact for omitted entries.
	Related *artifact.Artifact

	// PremanagedVersion and PremanagedScope hold the declared values when
	// dependency management replaced them.
	PremanagedVersion string
	PremanagedScope   artifact.Scope

	// OriginalScope is set when a farther occurrence widened this node's scope.
	OriginalScope artifact.Scope

	// FailedUpdateScope is a scope mediation wanted to apply but refused.
	FailedUpdateScope artifact.Scope

	// VersionConstraint is the declared range the version was selected from.
	VersionConstraint        string
	VersionSelectedFromRange bool
}

// Node is one tree node. The embedded Entry fields must not be modified
// once the tree is assembled; Entry.Parent is reachable as a node through
// the Parent method.
type Node struct {
	Entry
	tree     *Tree
	id       ID
	depth    int
	children []ID
}

// Tree is an immutable dependency tree.
type Tree struct {
	nodes []Node
}

// Assemble builds a tree from entries. entries[0] is the root; every other
// entry's Parent must be the index of an earlier entry. Children keep the
// relative order of their entries.
func Assemble(entries []Entry) (*Tree, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTree
	}
	if entries[0].Parent != NoParent || entries[0].State != Included {
		return nil, ErrInvalidRoot
	}
	t := &Tree{nodes: make([]Node, len(entries))}
	for i, e := range entries {
		id := ID(i)
		if i > 0 && (e.Parent < 0 || e.Parent >= id) {
			return nil, fmt.Errorf("%w: entry %d (%s) has parent %d", ErrInvalidParent, i, e.Artifact, e.Parent)
		}
		if e.State != Included && e.Related == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingRelated, e.Artifact)
		}
		e.Artifact = e.Artifact.Clone()
		if e.Related != nil {
			related := e.Related.Clone()
			e.Related = &related
		}
		t.nodes[i] = Node{Entry: e, tree: t, id: id}
		if i > 0 {
			parent := &t.nodes[e.Parent]
			parent.children = append(parent.children, id)
			t.nodes[i].depth = parent.depth + 1
		}
	}
	return t, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.nodes[0] }

// Len returns the number of nodes, omitted ones included.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID.
func (t *Tree) Node(id ID) (*Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, false
	}
	return &t.nodes[id], true
}

// Accept walks the whole tree with v starting at the root.
func (t *Tree) Accept(v Visitor) bool { return t.Root().Accept(v) }

// ID returns the node's identifier within its tree.
func (n *Node) ID() ID { return n.id }

// Depth returns the distance from the root. The root has depth 0.
func (n *Node) Depth() int { return n.depth }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	if n.Entry.Parent == NoParent {
		return nil
	}
	return &n.tree.nodes[n.Entry.Parent]
}

// Children returns the child nodes in declaration order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	for i, id := range n.children {
		out[i] = &n.tree.nodes[id]
	}
	return out
}

// IsLast reports whether n is the last child of its parent. The root is
// always last.
func (n *Node) IsLast() bool {
	p := n.Parent()
	if p == nil {
		return true
	}
	return p.children[len(p.children)-1] == n.id
}

// Included reports whether the node contributes to the resolved set.
func (n *Node) Included() bool { return n.State == Included }

// RelatedArtifact returns the winning artifact of an omitted node.
func (n *Node) RelatedArtifact() (artifact.Artifact, bool) {
	if n.Related == nil {
		return artifact.Artifact{}, false
	}
	return *n.Related, true
}

// Ancestors returns the path from the root down to n's parent.
func (n *Node) Ancestors() []*Node {
	var path []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Annotations returns the node's remarks in display order: management,
// scope mediation, range selection and finally the omission reason.
func (n *Node) Annotations() []string {
	var items []string
	if n.PremanagedVersion != "" {
		items = append(items, "version managed from "+n.PremanagedVersion)
	}
	if n.PremanagedScope != artifact.ScopeNone {
		items = append(items, "scope managed from "+string(n.PremanagedScope))
	}
	if n.OriginalScope != artifact.ScopeNone {
		items = append(items, "scope updated from "+string(n.OriginalScope))
	}
	if n.FailedUpdateScope != artifact.ScopeNone {
		items = append(items, "scope not updated to "+string(n.FailedUpdateScope))
	}
	if n.VersionSelectedFromRange {
		items = append(items, "version selected from constraint "+n.VersionConstraint)
	}
	switch n.State {
	case OmittedForDuplicate:
		items = append(items, "omitted for duplicate")
	case OmittedForConflict:
		items = append(items, "omitted for conflict with "+n.Related.Version)
	case OmittedForCycle:
		items = append(items, "omitted for cycle")
	}
	return items
}

// String renders the node in the conventional one-line form: the
// artifact, followed by annotations, with omitted nodes in parentheses.
//
//	g:a:jar:1:compile (version managed from 0.9)
//	(g:a:jar:2:compile - omitted for conflict with 1)
func (n *Node) String() string {
	items := n.Annotations()

	var b strings.Builder
	if !n.Included() {
		b.WriteByte('(')
	}
	b.WriteString(n.Artifact.String())
	if len(items) > 0 {
		if n.Included() {
			b.WriteString(" (")
			b.WriteString(strings.Join(items, "; "))
			b.WriteByte(')')
		} else {
			b.WriteString(" - ")
			b.WriteString(strings.Join(items, "; "))
		}
	}
	if !n.Included() {
		b.WriteByte(')')
	}
	return b.String()
}
