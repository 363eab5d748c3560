// Package resolve builds dependency trees with Maven's mediation rules.
//
// The [Builder] expands the root's declared dependencies breadth-first, in
// declaration order, asking a [MetadataSource] for each included node's own
// dependencies. Every discovered occurrence becomes a node. The first
// occurrence of a conflict key wins and is expanded further; later ones are
// kept as omitted leaves that point at the winner:
//
//   - same version: omitted for duplicate
//   - different version: omitted for conflict
//   - key already on the path from the root: omitted for cycle
//
// Because expansion is breadth-first, the first occurrence is also the
// nearest to the root, with ties going to the earlier declaration. The
// included nodes therefore form the classic "nearest wins" resolved set.
//
// Transitive dependencies inherit scope from their parent (see [Inherit]),
// optional transitive dependencies and test/provided dependencies of
// dependencies are dropped, exclusions declared on an artifact prune its
// whole subtree, and dependency management overrides version and scope of
// transitive occurrences. A later occurrence may widen the winner's scope
// according to the [ScopePolicy]; the nodes already expanded below the
// winner then inherit the wider scope.
package resolve

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/mvntree/pkg/artifact"
	"github.com/matzehuels/mvntree/pkg/diag"
	"github.com/matzehuels/mvntree/pkg/errors"
	"github.com/matzehuels/mvntree/pkg/filter"
	"github.com/matzehuels/mvntree/pkg/observability"
	"github.com/matzehuels/mvntree/pkg/tree"
	"github.com/matzehuels/mvntree/pkg/version"
)

// Options configure a Builder.
type Options struct {
	// Policy controls scope mediation. Nil selects DefaultScopePolicy.
	Policy *ScopePolicy

	// Hooks receive build and metadata events.
	Hooks observability.Hooks

	// Sink receives diagnostics. Nil discards them.
	Sink diag.Sink

	// ReportUnusedCriteria asks the request filter, after a successful
	// build, to warn about criteria that never matched.
	ReportUnusedCriteria bool
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.Policy == nil {
		p := DefaultScopePolicy()
		o.Policy = &p
	}
	o.Hooks = o.Hooks.WithDefaults()
	o.Sink = diag.OrNop(o.Sink)
	return o
}

// Request describes one resolution.
type Request struct {
	// Root is the artifact whose dependencies are resolved.
	Root artifact.Artifact
	// Dependencies are the root's direct dependencies in declaration order.
	Dependencies []artifact.Artifact
	// Managed overrides versions and scopes of transitive dependencies.
	Managed Managed
	// Source provides the dependencies of every other artifact.
	Source MetadataSource
	// Filter, when set, drops included candidates it rejects together with
	// their subtrees.
	Filter filter.Filter
}

// Result is the outcome of a successful build.
type Result struct {
	Tree   *tree.Tree
	Record *Record
}

// Builder builds dependency trees. A Builder holds no per-build state and
// may be reused; a single Build call is not concurrent.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder with the given options.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts.WithDefaults()}
}

// Build resolves req into a tree. A metadata failure for any node aborts the
// build; no partial tree is returned.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	rootID := req.Root.ID()
	b.opts.Hooks.Build.OnBuildStart(ctx, rootID)

	res, err := b.build(ctx, req)

	n := 0
	if res != nil {
		n = res.Tree.Len()
	}
	b.opts.Hooks.Build.OnBuildComplete(ctx, rootID, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if b.opts.ReportUnusedCriteria && req.Filter != nil {
		filter.Report(b.opts.Sink, req.Filter)
	}
	return res, nil
}

// Build is a convenience wrapper around a default Builder.
func Build(ctx context.Context, root artifact.Artifact, deps []artifact.Artifact, managed Managed, source MetadataSource, f filter.Filter) (*tree.Tree, error) {
	res, err := NewBuilder(Options{}).Build(ctx, Request{
		Root:         root,
		Dependencies: deps,
		Managed:      managed,
		Source:       source,
		Filter:       f,
	})
	if err != nil {
		return nil, err
	}
	return res.Tree, nil
}

// pending is an included node waiting for expansion.
type pending struct {
	id         tree.ID
	exclusions []filter.Filter
}

type state struct {
	ctx      context.Context
	req      Request
	opts     Options
	entries  []tree.Entry
	depths   []int
	declared []artifact.Scope // scope of each node before inheritance
	winners  map[string]tree.ID
	record   *Record
}

func (b *Builder) build(ctx context.Context, req Request) (*Result, error) {
	if req.Source == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "metadata source is required")
	}
	if err := req.Root.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArtifact, err, "invalid root artifact")
	}
	root := req.Root.Clone()
	if root.Type == "" {
		root.Type = artifact.DefaultType
	}
	root.DependencyTrail = []string{root.ConflictKey()}

	s := &state{
		ctx:      ctx,
		req:      req,
		opts:     b.opts,
		entries:  []tree.Entry{{Artifact: root, Parent: tree.NoParent}},
		depths:   []int{0},
		declared: []artifact.Scope{root.Scope},
		winners:  make(map[string]tree.ID),
		record:   newRecord(),
	}

	queue := []pending{{id: 0}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := queue[0]
		queue = queue[1:]

		deps, err := s.dependenciesOf(next.id)
		if err != nil {
			return nil, err
		}
		for _, d := range deps {
			child, expand, err := s.discover(next, d)
			if err != nil {
				return nil, err
			}
			if expand {
				queue = append(queue, child)
			}
		}
	}

	t, err := tree.Assemble(s.entries)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "assemble tree for %s", root.ID())
	}
	return &Result{Tree: t, Record: s.record}, nil
}

func (s *state) dependenciesOf(id tree.ID) ([]artifact.Artifact, error) {
	if id == 0 {
		return s.req.Dependencies, nil
	}
	a := s.entries[id].Artifact
	start := time.Now()
	deps, err := s.req.Source.DirectDependencies(s.ctx, a)
	s.opts.Hooks.Build.OnMetadataFetch(s.ctx, a.ID(), len(deps), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataResolution, err, "resolve dependencies of %s", a.ID())
	}
	return deps, nil
}

// discover turns one declared dependency of parent into a node. It reports
// whether the new node must be expanded.
func (s *state) discover(parent pending, dep artifact.Artifact) (pending, bool, error) {
	from := s.entries[parent.id].Artifact
	depth := s.depths[parent.id] + 1
	dep = dep.Clone()
	if dep.Type == "" {
		dep.Type = artifact.DefaultType
	}
	declared := dep.Scope

	if depth > 1 {
		if dep.Optional {
			s.opts.Sink.Debug("skipping optional dependency", "artifact", dep.ID(), "from", from.ID())
			return pending{}, false, nil
		}
		scope, ok := Inherit(from.Scope, dep.Scope)
		if !ok {
			return pending{}, false, nil
		}
		dep.Scope = scope
		for _, ex := range parent.exclusions {
			if !ex.Include(dep) {
				s.opts.Sink.Debug("excluded dependency", "artifact", dep.ID(), "from", from.ID())
				return pending{}, false, nil
			}
		}
	}

	e := tree.Entry{Parent: parent.id}
	if depth > 1 && s.req.Managed != nil {
		if m, ok := s.req.Managed.Lookup(dep.ConflictKey()); ok {
			if m.Version != "" && m.Version != dep.Version {
				e.PremanagedVersion = dep.Version
				dep.Version = m.Version
			}
			if m.Scope != artifact.ScopeNone && m.Scope != dep.Scope && dep.Scope != artifact.ScopeTest {
				e.PremanagedScope = dep.Scope
				dep.Scope = m.Scope
			}
		}
	}

	if err := dep.Validate(); err != nil {
		return pending{}, false, errors.Wrap(errors.ErrCodeInvalidArtifact, err, "invalid dependency declared by %s", from.ID())
	}
	if version.IsRange(dep.Version) {
		selected, err := s.selectVersion(dep)
		if err != nil {
			return pending{}, false, err
		}
		e.VersionConstraint = dep.Version
		e.VersionSelectedFromRange = true
		dep.Version = selected
	}

	key := dep.ConflictKey()
	dep.DependencyTrail = append(slices.Clone(from.DependencyTrail), key)
	e.Artifact = dep

	for p := parent.id; p != tree.NoParent; p = s.entries[p].Parent {
		if s.entries[p].Artifact.ConflictKey() == key {
			related := s.entries[p].Artifact
			e.State = tree.OmittedForCycle
			e.Related = &related
			s.add(e, depth, declared)
			return pending{}, false, nil
		}
	}

	if wid, ok := s.winners[key]; ok {
		s.mediate(wid, dep.Scope)
		related := s.entries[wid].Artifact
		e.Related = &related
		if related.Version == dep.Version {
			e.State = tree.OmittedForDuplicate
		} else {
			e.State = tree.OmittedForConflict
		}
		s.add(e, depth, declared)
		return pending{}, false, nil
	}

	if s.req.Filter != nil && !s.req.Filter.Include(dep) {
		return pending{}, false, nil
	}

	e.State = tree.Included
	id := s.add(e, depth, declared)
	s.winners[key] = id
	s.record.put(dep)

	exclusions := parent.exclusions
	if len(dep.Exclusions) > 0 {
		exclusions = append(slices.Clone(exclusions), filter.NewStrictExclude(dep.Exclusions...))
	}
	return pending{id: id, exclusions: exclusions}, true, nil
}

func (s *state) add(e tree.Entry, depth int, declared artifact.Scope) tree.ID {
	s.entries = append(s.entries, e)
	s.depths = append(s.depths, depth)
	s.declared = append(s.declared, declared)
	return tree.ID(len(s.entries) - 1)
}

// mediate applies the scope policy to the winner at wid for an occurrence
// reached with scope farther.
func (s *state) mediate(wid tree.ID, farther artifact.Scope) {
	m := s.opts.Policy.Mediate(s.entries[wid].Artifact.Scope, s.depths[wid], farther)
	if m.Updated {
		s.widen(wid, m.Scope)
	}
	if m.Refused != artifact.ScopeNone {
		s.entries[wid].FailedUpdateScope = m.Refused
	}
}

// widen sets the winner's scope and carries it into the part of its subtree
// that was expanded under the old scope.
func (s *state) widen(wid tree.ID, scope artifact.Scope) {
	w := &s.entries[wid]
	if w.OriginalScope == artifact.ScopeNone {
		w.OriginalScope = w.Artifact.Scope.OrCompile()
	}
	w.Artifact.Scope = scope
	s.record.put(w.Artifact)
	s.reinherit(wid)
}

// reinherit recomputes inherited scopes below root. Children always follow
// their parent in the arena, so one forward pass reaches the whole subtree.
// Scopes only ever widen here, and managed scopes are left alone.
func (s *state) reinherit(root tree.ID) {
	changed := map[tree.ID]bool{root: true}
	for id := root + 1; int(id) < len(s.entries); id++ {
		e := &s.entries[id]
		if !changed[e.Parent] || e.PremanagedScope != artifact.ScopeNone {
			continue
		}
		scope, ok := Inherit(s.entries[e.Parent].Artifact.Scope, s.declared[id])
		if !ok || !widens(e.Artifact.Scope, scope) {
			continue
		}
		e.Artifact.Scope = scope
		switch e.State {
		case tree.Included:
			s.record.put(e.Artifact)
			changed[id] = true
		case tree.OmittedForDuplicate, tree.OmittedForConflict:
			// The occurrence is now wider and may widen its winner too.
			s.mediate(s.winners[e.Artifact.ConflictKey()], scope)
		}
	}
}

// widens reports whether to is a wider classpath scope than from. Provided
// and system scopes are never widened.
func widens(from, to artifact.Scope) bool {
	rf := scopeRank(from)
	return rf > 0 && scopeRank(to) > rf
}

func scopeRank(s artifact.Scope) int {
	switch s.OrCompile() {
	case artifact.ScopeCompile:
		return 3
	case artifact.ScopeRuntime:
		return 2
	case artifact.ScopeTest:
		return 1
	}
	return 0
}

func (s *state) selectVersion(dep artifact.Artifact) (string, error) {
	r, err := version.ParseRange(dep.Version)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRange, err, "invalid version range for %s", dep.ConflictKey())
	}
	var available []string
	if lister, ok := s.req.Source.(VersionLister); ok {
		available, err = lister.AvailableVersions(s.ctx, dep)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeMetadataResolution, err, "list versions of %s", dep.VersionlessKey())
		}
	}
	selected, ok := r.Select(available)
	if !ok {
		return "", errors.New(errors.ErrCodeNoMatchingVersion, "no version of %s satisfies %s", dep.VersionlessKey(), dep.Version)
	}
	return selected, nil
}
