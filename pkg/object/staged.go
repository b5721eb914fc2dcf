package object

import (
	"sort"

	"coral/pkg/runtime"
)

// Staged is a write overlay on a base store. Reads see staged changes
// first; writes never touch the base until Commit. A failed top-level
// statement calls Discard and the base is untouched.
type Staged struct {
	base    Store
	overlay map[runtime.Obj]*Record
}

func NewStaged(base Store) *Staged {
	return &Staged{
		base:    base,
		overlay: make(map[runtime.Obj]*Record),
	}
}

func (s *Staged) Get(id runtime.Obj) (*Record, bool) {
	if rec, ok := s.overlay[id]; ok {
		return rec, true
	}
	return s.base.Get(id)
}

// Put stages a record. The base keeps its current version until Commit.
func (s *Staged) Put(rec *Record) {
	s.overlay[rec.ID] = rec
}

func (s *Staged) NextID() runtime.Obj {
	// Delegation is safe: an id handed out and then discarded simply
	// leaves a gap, it is never reused for a different staged object.
	return s.base.NextID()
}

func (s *Staged) IDs() []runtime.Obj {
	seen := make(map[runtime.Obj]bool)
	var out []runtime.Obj
	for _, id := range s.base.IDs() {
		seen[id] = true
		out = append(out, id)
	}
	for id := range s.overlay {
		if !seen[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Commit applies every staged record to the base and resets the overlay.
func (s *Staged) Commit() {
	for _, rec := range s.overlay {
		s.base.Put(rec)
	}
	s.reset()
}

// Discard drops all staged changes.
func (s *Staged) Discard() {
	s.reset()
}

// Dirty reports whether any writes are staged.
func (s *Staged) Dirty() bool {
	return len(s.overlay) > 0
}

func (s *Staged) reset() {
	s.overlay = make(map[runtime.Obj]*Record)
}
