// Package runtime defines Coral's value universe and the variable
// environment. Values and environments live in one package because lambdas
// close over environments and environments store values.
package runtime

import (
	"strconv"
	"strings"

	"coral/pkg/ast"
)

// Kind discriminates the value types.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindMap
	KindObj
	KindLambda
	KindErr
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindStr:    "str",
	KindList:   "list",
	KindMap:    "map",
	KindObj:    "obj",
	KindLambda: "fn",
	KindErr:    "err",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a Coral runtime value.
type Value interface {
	Kind() Kind
	// Inspect renders the value the way a literal for it would be written.
	Inspect() string
}

type Null struct{}

type Bool bool

type Int int64

type Float float64

type Str string

// Obj is an object reference by id. Dereferencing happens in the object
// model, never here.
type Obj int64

// List is a mutable ordered sequence. Lists index from 1.
type List struct {
	Elems []Value
}

// Lambda is a function value. Env is shared with the defining scope, so
// captured variables see later mutation.
type Lambda struct {
	Name   string // empty for anonymous values
	Params ast.Pattern
	Body   *ast.BlockStmt
	Env    *Environment
}

// Err is an error value in the language, comparable and catchable.
type Err struct {
	Code ErrCode
	Msg  string
}

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Int) Kind() Kind     { return KindInt }
func (Float) Kind() Kind   { return KindFloat }
func (Str) Kind() Kind     { return KindStr }
func (Obj) Kind() Kind     { return KindObj }
func (*List) Kind() Kind   { return KindList }
func (*Map) Kind() Kind    { return KindMap }
func (*Lambda) Kind() Kind { return KindLambda }
func (*Err) Kind() Kind    { return KindErr }

func (Null) Inspect() string { return "null" }

func (b Bool) Inspect() string {
	if b {
		return "true"
	}
	return "false"
}

func (i Int) Inspect() string { return strconv.FormatInt(int64(i), 10) }

func (f Float) Inspect() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (s Str) Inspect() string { return strconv.Quote(string(s)) }

func (o Obj) Inspect() string { return "#" + strconv.FormatInt(int64(o), 10) }

func (l *List) Inspect() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (f *Lambda) Inspect() string {
	if f.Name != "" {
		return "<fn " + f.Name + ">"
	}
	return "<fn>"
}

func (e *Err) Inspect() string {
	if e.Msg != "" {
		return string(e.Code) + " (" + e.Msg + ")"
	}
	return string(e.Code)
}

func (e *Err) Error() string { return e.Inspect() }

// Truthy implements the language's truthiness rule: zero numbers, empty
// string/list/map, null and false are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(t)
	case Int:
		return t != 0
	case Float:
		return t != 0
	case Str:
		return t != ""
	case *List:
		return len(t.Elems) > 0
	case *Map:
		return t.Len() > 0
	default:
		return true
	}
}

// Equals compares two values. Ints and floats compare numerically across
// kinds; lists compare element-wise; maps compare entry sets; lambdas
// compare by identity.
func Equals(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return Float(x) == y
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return x == Float(y)
		case Float:
			return x == y
		}
		return false
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Obj:
		y, ok := b.(Obj)
		return ok && x == y
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equals(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Each(func(k, v Value) {
			if other, found := y.Get(k); !found || !Equals(v, other) {
				equal = false
			}
		})
		return equal
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && x == y
	case *Err:
		y, ok := b.(*Err)
		return ok && x.Code == y.Code
	}
	return false
}
