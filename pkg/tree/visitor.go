package tree

// Visitor is called for each node of a traversal. Visit runs before the
// node's children and decides whether they are visited. EndVisit runs after
// them. Returning false from EndVisit stops the remaining siblings.
type Visitor interface {
	Visit(n *Node) bool
	EndVisit(n *Node) bool
}

// Accept walks the subtree rooted at n with v and returns the result of
// v.EndVisit(n).
func (n *Node) Accept(v Visitor) bool {
	if v.Visit(n) {
		for _, c := range n.Children() {
			if !c.Accept(v) {
				break
			}
		}
	}
	return v.EndVisit(n)
}

// Funcs adapts a pair of functions to Visitor. A nil function continues.
type Funcs struct {
	VisitFunc    func(*Node) bool
	EndVisitFunc func(*Node) bool
}

// Visit calls VisitFunc.
func (f Funcs) Visit(n *Node) bool {
	if f.VisitFunc == nil {
		return true
	}
	return f.VisitFunc(n)
}

// EndVisit calls EndVisitFunc.
func (f Funcs) EndVisit(n *Node) bool {
	if f.EndVisitFunc == nil {
		return true
	}
	return f.EndVisitFunc(n)
}

// Walk visits every node of the subtree rooted at n in pre-order.
// Returning false from fn skips that node's children.
func Walk(n *Node, fn func(*Node) bool) {
	n.Accept(Funcs{VisitFunc: fn})
}

// Filtering forwards to Visitor only the nodes accepted by Filter. Rejected
// nodes are still descended into.
type Filtering struct {
	Visitor Visitor
	Filter  NodeFilter
}

// Visit forwards accepted nodes and always descends.
func (f Filtering) Visit(n *Node) bool {
	if f.Filter.Accept(n) {
		return f.Visitor.Visit(n)
	}
	return true
}

// EndVisit forwards accepted nodes.
func (f Filtering) EndVisit(n *Node) bool {
	if f.Filter.Accept(n) {
		return f.Visitor.EndVisit(n)
	}
	return true
}

// Collector gathers visited nodes in pre-order.
type Collector struct {
	Nodes []*Node
}

// Visit appends n.
func (c *Collector) Visit(n *Node) bool {
	c.Nodes = append(c.Nodes, n)
	return true
}

// EndVisit always continues.
func (c *Collector) EndVisit(*Node) bool { return true }

// Artifacts returns the artifacts of the collected nodes.
func (c *Collector) Artifacts() []string {
	out := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		out[i] = n.Artifact.String()
	}
	return out
}

// Stats counts nodes by state and tracks the deepest node.
type Stats struct {
	Total    int
	MaxDepth int
	ByState  map[State]int
}

// Visit counts n.
func (s *Stats) Visit(n *Node) bool {
	if s.ByState == nil {
		s.ByState = make(map[State]int)
	}
	s.Total++
	s.ByState[n.State]++
	s.MaxDepth = max(s.MaxDepth, n.Depth())
	return true
}

// EndVisit always continues.
func (s *Stats) EndVisit(*Node) bool { return true }

// Included returns the number of included nodes, root excluded.
func (s *Stats) Included() int { return max(s.ByState[Included]-1, 0) }

// Omitted returns the number of omitted nodes.
func (s *Stats) Omitted() int { return s.Total - s.ByState[Included] }

// Finder stops the traversal at the first node Match accepts.
type Finder struct {
	Match func(*Node) bool
	Found *Node
}

// Visit records n if it is the first match and stops descending once
// a match is found.
func (f *Finder) Visit(n *Node) bool {
	if f.Found != nil {
		return false
	}
	if f.Match(n) {
		f.Found = n
		return false
	}
	return true
}

// EndVisit stops the traversal after a match.
func (f *Finder) EndVisit(*Node) bool { return f.Found == nil }

// Find returns the first node under root, in pre-order, that match accepts.
func Find(root *Node, match func(*Node) bool) (*Node, bool) {
	f := &Finder{Match: match}
	root.Accept(f)
	return f.Found, f.Found != nil
}
