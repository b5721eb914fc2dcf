package object

import (
	"fmt"

	"coral/pkg/runtime"
)

// Model wraps a Store with the chain-walking semantics: property and
// verb resolution along the parent chain, copy-down on inherited writes,
// reparenting with cycle rejection, and permission checks.
type Model struct {
	store Store
	perms Checker
}

func NewModel(store Store) *Model {
	return &Model{store: store, perms: AllowAll{}}
}

// SetChecker installs a permission checker. The default allows everything.
func (m *Model) SetChecker(c Checker) {
	m.perms = c
}

func (m *Model) Store() Store {
	return m.store
}

// Valid reports whether id names an existing object.
func (m *Model) Valid(id runtime.Obj) bool {
	_, ok := m.store.Get(id)
	return ok
}

// Create makes a new object under parent and returns its id. Pass
// RootID for the default parent.
func (m *Model) Create(parent runtime.Obj) (runtime.Obj, *runtime.Err) {
	if _, ok := m.store.Get(parent); !ok {
		return 0, runtime.NewErr(runtime.EINVARG, fmt.Sprintf("invalid parent %s", parent.Inspect()))
	}
	id := m.store.NextID()
	m.store.Put(NewRecord(id, parent))
	return id, nil
}

// Parent returns the object's parent, or #-1 at the top of the chain.
func (m *Model) Parent(id runtime.Obj) (runtime.Obj, *runtime.Err) {
	rec, ok := m.store.Get(id)
	if !ok {
		return 0, invalid(id)
	}
	return rec.Parent, nil
}

// Children returns the ids whose parent is id, ascending.
func (m *Model) Children(id runtime.Obj) ([]runtime.Obj, *runtime.Err) {
	if !m.Valid(id) {
		return nil, invalid(id)
	}
	var out []runtime.Obj
	for _, other := range m.store.IDs() {
		rec, ok := m.store.Get(other)
		if ok && rec.Parent == id {
			out = append(out, other)
		}
	}
	return out, nil
}

// ChangeParent reparents id under parent. Moving an object under itself
// or one of its descendants is rejected.
func (m *Model) ChangeParent(id, parent runtime.Obj) *runtime.Err {
	rec, ok := m.store.Get(id)
	if !ok {
		return invalid(id)
	}
	if parent != NoParent {
		if _, ok := m.store.Get(parent); !ok {
			return runtime.NewErr(runtime.EINVARG, fmt.Sprintf("invalid parent %s", parent.Inspect()))
		}
		if m.inChain(parent, id) {
			return runtime.NewErr(runtime.ERECMOV, fmt.Sprintf("moving %s under %s would create a cycle", id.Inspect(), parent.Inspect()))
		}
	}
	clone := rec.Clone()
	clone.Parent = parent
	m.store.Put(clone)
	return nil
}

// inChain reports whether anchor appears in start's parent chain,
// start included.
func (m *Model) inChain(start, anchor runtime.Obj) bool {
	seen := make(map[runtime.Obj]bool)
	for cur := start; cur != NoParent && !seen[cur]; {
		if cur == anchor {
			return true
		}
		seen[cur] = true
		rec, ok := m.store.Get(cur)
		if !ok {
			return false
		}
		cur = rec.Parent
	}
	return false
}

// GetProperty resolves name along id's parent chain. The first direct
// definition wins.
func (m *Model) GetProperty(id runtime.Obj, name string) (runtime.Value, *runtime.Err) {
	if !m.Valid(id) {
		return nil, invalid(id)
	}
	key := fold(name)
	for _, rec := range m.chain(id) {
		if prop, ok := rec.Props[key]; ok {
			if ok, why := m.perms.CanRead(rec.ID, name, prop.Perms); !ok {
				return nil, denied(fmt.Sprintf("property %q is not readable", name), why)
			}
			return prop.Value, nil
		}
	}
	return nil, runtime.NewErr(runtime.EPROPNF, fmt.Sprintf("property %q not found on %s", name, id.Inspect()))
}

// SetProperty writes name on id. Writing a property defined on an
// ancestor copies it down: the child gets a direct entry and the
// ancestor's value is untouched. Writing a name defined nowhere in the
// chain fails.
func (m *Model) SetProperty(id runtime.Obj, name string, value runtime.Value) *runtime.Err {
	if !m.Valid(id) {
		return invalid(id)
	}
	key := fold(name)
	for _, rec := range m.chain(id) {
		prop, ok := rec.Props[key]
		if !ok {
			continue
		}
		if ok, why := m.perms.CanWrite(rec.ID, name, prop.Perms); !ok {
			return denied(fmt.Sprintf("property %q is not writable", name), why)
		}
		target, _ := m.mutable(id)
		target.Props[key] = Property{Value: value, Perms: prop.Perms}
		m.store.Put(target)
		return nil
	}
	return runtime.NewErr(runtime.EPROPNF, fmt.Sprintf("property %q not found on %s", name, id.Inspect()))
}

// DefineProperty creates or replaces a direct property on id.
func (m *Model) DefineProperty(id runtime.Obj, name string, value runtime.Value, perms string) *runtime.Err {
	rec, ok := m.store.Get(id)
	if !ok {
		return invalid(id)
	}
	target := rec.Clone()
	target.Props[fold(name)] = Property{Value: value, Perms: perms}
	m.store.Put(target)
	return nil
}

// ResolveVerb finds the first verb matching name along id's parent
// chain. It returns the verb and the object that defines it, which
// becomes the frame's definer so that inherited code still reads its
// own object's properties through `this`.
func (m *Model) ResolveVerb(id runtime.Obj, name string) (*Verb, runtime.Obj, *runtime.Err) {
	if !m.Valid(id) {
		return nil, 0, invalid(id)
	}
	for _, rec := range m.chain(id) {
		if i := rec.FindVerb(name); i >= 0 {
			verb := rec.Verbs[i]
			if ok, why := m.perms.CanExecute(rec.ID, name, verb.Perms); !ok {
				return nil, 0, denied(fmt.Sprintf("verb %q is not executable", name), why)
			}
			return &verb, rec.ID, nil
		}
	}
	return nil, 0, runtime.NewErr(runtime.EVERBNF, fmt.Sprintf("verb %q not found on %s", name, id.Inspect()))
}

// DefineVerb adds or replaces a direct verb on id. A verb whose first
// alias matches an existing direct verb's first alias replaces it.
func (m *Model) DefineVerb(id runtime.Obj, verb Verb) *runtime.Err {
	rec, ok := m.store.Get(id)
	if !ok {
		return invalid(id)
	}
	target := rec.Clone()
	for i := range target.Verbs {
		if firstAlias(target.Verbs[i].Names) == firstAlias(verb.Names) {
			target.Verbs[i] = verb
			m.store.Put(target)
			return nil
		}
	}
	target.Verbs = append(target.Verbs, verb)
	m.store.Put(target)
	return nil
}

// DefineEvent adds or replaces a direct event handler on id.
func (m *Model) DefineEvent(id runtime.Obj, ev Event) *runtime.Err {
	rec, ok := m.store.Get(id)
	if !ok {
		return invalid(id)
	}
	target := rec.Clone()
	target.Events[fold(ev.Name)] = ev
	m.store.Put(target)
	return nil
}

// ResolveEvent finds the first handler for name along id's parent chain.
func (m *Model) ResolveEvent(id runtime.Obj, name string) (*Event, runtime.Obj, bool) {
	for _, rec := range m.chain(id) {
		if ev, ok := rec.Events[fold(name)]; ok {
			return &ev, rec.ID, true
		}
	}
	return nil, 0, false
}

// FindByName returns the object whose definition name matches name,
// case-folded.
func (m *Model) FindByName(name string) (runtime.Obj, bool) {
	key := fold(name)
	for _, id := range m.store.IDs() {
		rec, ok := m.store.Get(id)
		if ok && rec.Name != "" && fold(rec.Name) == key {
			return id, true
		}
	}
	return 0, false
}

// SetName records a definition name on id.
func (m *Model) SetName(id runtime.Obj, name string) *runtime.Err {
	rec, ok := m.store.Get(id)
	if !ok {
		return invalid(id)
	}
	target := rec.Clone()
	target.Name = name
	m.store.Put(target)
	return nil
}

// chain returns id's records from id up to the chain's top. A corrupt
// parent cycle terminates the walk instead of hanging it.
func (m *Model) chain(id runtime.Obj) []*Record {
	var out []*Record
	seen := make(map[runtime.Obj]bool)
	for cur := id; cur != NoParent && !seen[cur]; {
		rec, ok := m.store.Get(cur)
		if !ok {
			break
		}
		seen[cur] = true
		out = append(out, rec)
		cur = rec.Parent
	}
	return out
}

func (m *Model) mutable(id runtime.Obj) (*Record, bool) {
	rec, ok := m.store.Get(id)
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

func invalid(id runtime.Obj) *runtime.Err {
	return runtime.NewErr(runtime.EINVARG, fmt.Sprintf("invalid object %s", id.Inspect()))
}

func denied(msg, why string) *runtime.Err {
	if why != "" {
		msg += ": " + why
	}
	return runtime.NewErr(runtime.EPERM, msg)
}

func firstAlias(names string) string {
	for i := 0; i < len(names); i++ {
		if names[i] == ' ' {
			return fold(names[:i])
		}
	}
	return fold(names)
}
