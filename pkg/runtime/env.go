package runtime

// Environment is a chained name -> value store. Lookup walks outward;
// closures share the chain rather than copying it.
type Environment struct {
	store map[string]*binding
	outer *Environment
}

type binding struct {
	value    Value
	constant bool
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

// NewEnclosedEnvironment pushes a child scope.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer}
}

// Get resolves a name through the chain.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// Define creates (or shadows) a binding in this scope. Returns false when
// the name is already a const in this same scope.
func (e *Environment) Define(name string, v Value, constant bool) bool {
	if b, ok := e.store[name]; ok && b.constant {
		return false
	}
	e.store[name] = &binding{value: v, constant: constant}
	return true
}

// AssignResult reports the outcome of Assign.
type AssignResult int

const (
	Assigned AssignResult = iota
	NotFound
	IsConst
)

// Assign rebinds the nearest existing binding for name. It never creates
// one; the caller decides what NotFound means (plain assignment defines in
// the current scope, a scatter element does the same).
func (e *Environment) Assign(name string, v Value) AssignResult {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			if b.constant {
				return IsConst
			}
			b.value = v
			return Assigned
		}
	}
	return NotFound
}

// DefinedLocally reports whether this scope itself binds name.
func (e *Environment) DefinedLocally(name string) bool {
	_, ok := e.store[name]
	return ok
}
