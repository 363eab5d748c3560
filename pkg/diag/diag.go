// Package diag defines where resolution diagnostics go.
//
// Filters and the tree builder never write to stderr themselves. They report
// warnings (patterns that never matched) and debug detail (artifacts that
// were filtered out) to a [Sink] supplied by the caller. A
// *github.com/charmbracelet/log.Logger satisfies Sink directly.
package diag

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Sink receives diagnostics. The method set matches charmbracelet/log.
type Sink interface {
	Warn(msg interface{}, keyvals ...interface{})
	Debug(msg interface{}, keyvals ...interface{})
}

var _ Sink = (*log.Logger)(nil)

// Nop discards every diagnostic.
type Nop struct{}

func (Nop) Warn(interface{}, ...interface{})  {}
func (Nop) Debug(interface{}, ...interface{}) {}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Entry is one recorded diagnostic.
type Entry struct {
	Level   log.Level
	Message string
	KeyVals []interface{}
}

// Recorder is a Sink that keeps every diagnostic in memory. It is safe for
// concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Warn(msg interface{}, keyvals ...interface{}) {
	r.add(log.WarnLevel, msg, keyvals)
}

func (r *Recorder) Debug(msg interface{}, keyvals ...interface{}) {
	r.add(log.DebugLevel, msg, keyvals)
}

func (r *Recorder) add(level log.Level, msg interface{}, keyvals []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprint(msg), KeyVals: keyvals})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Messages returns the recorded messages at the given level.
func (r *Recorder) Messages(level log.Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Run is a logger scoped to a single resolution. Every line it writes
// carries the run identifier so interleaved output from concurrent builds
// can be told apart.
type Run struct {
	ID string
	*log.Logger
}

// NewRun derives a run-scoped logger from l.
func NewRun(l *log.Logger) *Run {
	id := uuid.NewString()
	return &Run{ID: id, Logger: l.With("run", id[:8])}
}
