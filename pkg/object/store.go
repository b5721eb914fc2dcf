package object

import (
	"sort"
	"sync"

	"coral/pkg/runtime"
)

// Store is the object persistence boundary. The in-memory implementation
// below backs tests and the REPL; a durable backend satisfies the same
// interface.
type Store interface {
	Get(id runtime.Obj) (*Record, bool)
	Put(rec *Record)
	NextID() runtime.Obj
	// IDs returns every stored object id in ascending order.
	IDs() []runtime.Obj
}

// MemStore is a mutex-guarded in-memory store.
type MemStore struct {
	mu   sync.RWMutex
	recs map[runtime.Obj]*Record
	next runtime.Obj
}

// NewMemStore creates a store pre-seeded with the system object (#0) and
// the root object (#1), parent of everything created without an explicit
// parent.
func NewMemStore() *MemStore {
	s := &MemStore{
		recs: make(map[runtime.Obj]*Record),
		next: 2,
	}
	root := NewRecord(RootID, NoParent)
	root.Name = "root"
	system := NewRecord(SystemID, RootID)
	system.Name = "system"
	s.recs[RootID] = root
	s.recs[SystemID] = system
	return s
}

func (s *MemStore) Get(id runtime.Obj) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[id]
	return rec, ok
}

func (s *MemStore) Put(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
	if rec.ID >= s.next {
		s.next = rec.ID + 1
	}
}

func (s *MemStore) NextID() runtime.Obj {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

func (s *MemStore) IDs() []runtime.Obj {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]runtime.Obj, 0, len(s.recs))
	for id := range s.recs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
