package runtime

import "strings"

// mapKey is the comparable form of a scalar key. Keys keep their kind, so
// the int 1 and the float 1.0 are distinct map keys even though == treats
// them as equal values.
type mapKey struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func keyFor(v Value) (mapKey, bool) {
	switch t := v.(type) {
	case Null:
		return mapKey{kind: KindNull}, true
	case Bool:
		k := mapKey{kind: KindBool}
		if t {
			k.i = 1
		}
		return k, true
	case Int:
		return mapKey{kind: KindInt, i: int64(t)}, true
	case Float:
		return mapKey{kind: KindFloat, f: float64(t)}, true
	case Str:
		return mapKey{kind: KindStr, s: string(t)}, true
	case Obj:
		return mapKey{kind: KindObj, i: int64(t)}, true
	case *Err:
		return mapKey{kind: KindErr, s: string(t.Code)}, true
	default:
		return mapKey{}, false
	}
}

// Map is an insertion-ordered map with scalar keys. Iteration order is the
// order keys were first set, which keeps Inspect output deterministic.
type Map struct {
	keys  []Value
	vals  []Value
	index map[mapKey]int
}

func NewMap() *Map {
	return &Map{index: make(map[mapKey]int)}
}

// Keyable reports whether v can be used as a map key.
func Keyable(v Value) bool {
	_, ok := keyFor(v)
	return ok
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Get(key Value) (Value, bool) {
	k, ok := keyFor(key)
	if !ok {
		return nil, false
	}
	i, found := m.index[k]
	if !found {
		return nil, false
	}
	return m.vals[i], true
}

// Set stores key -> value, keeping the key's original position when it
// already exists. Returns false for an unkeyable key.
func (m *Map) Set(key, value Value) bool {
	k, ok := keyFor(key)
	if !ok {
		return false
	}
	if i, found := m.index[k]; found {
		m.vals[i] = value
		return true
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
	return true
}

// Delete removes a key. Positions of later keys shift down.
func (m *Map) Delete(key Value) bool {
	k, ok := keyFor(key)
	if !ok {
		return false
	}
	i, found := m.index[k]
	if !found {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	delete(m.index, k)
	for j := i; j < len(m.keys); j++ {
		kj, _ := keyFor(m.keys[j])
		m.index[kj] = j
	}
	return true
}

// Each calls fn for every entry in insertion order.
func (m *Map) Each(fn func(key, value Value)) {
	for i := range m.keys {
		fn(m.keys[i], m.vals[i])
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, len(m.keys))
	copy(out, m.keys)
	return out
}

// Clone returns a shallow copy.
func (m *Map) Clone() *Map {
	out := NewMap()
	m.Each(func(k, v Value) { out.Set(k, v) })
	return out
}

func (m *Map) Inspect() string {
	if m.Len() == 0 {
		return "[]"
	}
	parts := make([]string, 0, m.Len())
	m.Each(func(k, v Value) {
		parts = append(parts, k.Inspect()+" -> "+v.Inspect())
	})
	return "[" + strings.Join(parts, ", ") + "]"
}
