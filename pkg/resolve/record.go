package resolve

import (
	"slices"

	"github.com/matzehuels/mvntree/pkg/artifact"
)

// Record is the flat resolution result: the winning artifact for every
// conflict key, in the order keys were first resolved.
type Record struct {
	keys    []string
	winners map[string]artifact.Artifact
}

func newRecord() *Record {
	return &Record{winners: make(map[string]artifact.Artifact)}
}

func (r *Record) put(a artifact.Artifact) {
	key := a.ConflictKey()
	if _, ok := r.winners[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.winners[key] = a
}

// Lookup returns the winner for a conflict key.
func (r *Record) Lookup(conflictKey string) (artifact.Artifact, bool) {
	a, ok := r.winners[conflictKey]
	return a, ok
}

// Contains reports whether a is the winner of its conflict key.
func (r *Record) Contains(a artifact.Artifact) bool {
	w, ok := r.winners[a.ConflictKey()]
	return ok && w.Version == a.Version
}

// Len returns the number of resolved conflict keys.
func (r *Record) Len() int { return len(r.keys) }

// Keys returns the resolved conflict keys in resolution order.
func (r *Record) Keys() []string { return slices.Clone(r.keys) }

// Artifacts returns the winners in resolution order.
func (r *Record) Artifacts() []artifact.Artifact {
	out := make([]artifact.Artifact, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.winners[k]
	}
	return out
}
