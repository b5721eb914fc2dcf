// Package object implements the prototype object model: records with
// parent links, property and verb resolution along the parent chain,
// copy-down mutation, and a staged store for atomic per-statement commits.
package object

import (
	"strings"

	"coral/pkg/ast"
	"coral/pkg/runtime"
)

// Well-known objects. The system object anchors $name references; the root
// is the default parent for created objects.
const (
	SystemID runtime.Obj = 0
	RootID   runtime.Obj = 1
)

// NoParent marks a record without a parent.
const NoParent runtime.Obj = -1

// Property is a directly-owned property entry.
type Property struct {
	Value runtime.Value
	Perms string // subset of "rwc"
}

// Verb is a directly-owned verb entry. Names holds space-separated
// aliases, each optionally with a * wildcard ("l look", "ex*amine").
type Verb struct {
	Names  string
	Params ast.Pattern
	Body   *ast.BlockStmt
	Perms  string // subset of "rwx"
}

// Event is a declared event handler. The core stores and resolves
// handlers; dispatching events is a host concern.
type Event struct {
	Name   string
	Params ast.Pattern
	Body   *ast.BlockStmt
}

// Record is one object's direct state. Inherited members live on
// ancestors and are found by chain walking, never copied in.
type Record struct {
	ID     runtime.Obj
	Parent runtime.Obj // NoParent when absent
	Name   string      // optional symbolic name from an object definition
	Props  map[string]Property
	Verbs  []Verb
	Events map[string]Event
}

func NewRecord(id, parent runtime.Obj) *Record {
	return &Record{
		ID:     id,
		Parent: parent,
		Props:  make(map[string]Property),
		Events: make(map[string]Event),
	}
}

// Clone copies the record's direct state. Property values are shared;
// the maps and the verb slice are fresh.
func (r *Record) Clone() *Record {
	out := &Record{
		ID:     r.ID,
		Parent: r.Parent,
		Name:   r.Name,
		Props:  make(map[string]Property, len(r.Props)),
		Verbs:  make([]Verb, len(r.Verbs)),
		Events: make(map[string]Event, len(r.Events)),
	}
	for k, v := range r.Props {
		out.Props[k] = v
	}
	copy(out.Verbs, r.Verbs)
	for k, v := range r.Events {
		out.Events[k] = v
	}
	return out
}

// FindVerb returns the index of the first verb whose alias list matches
// name, or -1.
func (r *Record) FindVerb(name string) int {
	for i := range r.Verbs {
		if MatchVerbName(r.Verbs[i].Names, name) {
			return i
		}
	}
	return -1
}

// MatchVerbName reports whether name matches any alias in names. Aliases
// are space-separated; an embedded * splits an alias into a required
// prefix and an optional continuation, and a trailing * matches any
// suffix. Matching is case-folded.
func MatchVerbName(names, name string) bool {
	folded := fold(name)
	for _, alias := range strings.Fields(names) {
		if matchAlias(fold(alias), folded) {
			return true
		}
	}
	return false
}

func matchAlias(alias, name string) bool {
	star := strings.IndexByte(alias, '*')
	if star < 0 {
		return alias == name
	}
	required, rest := alias[:star], alias[star+1:]
	if !strings.HasPrefix(name, required) {
		return false
	}
	if rest == "" {
		return true
	}
	return strings.HasPrefix(rest, name[len(required):])
}
