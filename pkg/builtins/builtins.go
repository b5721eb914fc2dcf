// Package builtins is the native function registry. Every entry receives
// the running interpreter, so builtins can call lambda arguments back and
// reach the object model through it.
package builtins

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"coral/pkg/interp"
	"coral/pkg/runtime"
)

// Registry returns the standard builtin set. Hosts may add their own
// entries before handing the map to the interpreter.
func Registry() map[string]interp.Builtin {
	return map[string]interp.Builtin{
		"typeof":   typeOf,
		"tostr":    toStr,
		"toint":    toInt,
		"tofloat":  toFloat,
		"length":   length,
		"raise":    raise,
		"min":      minFn,
		"max":      maxFn,
		"abs":      absFn,
		"random":   random,
		"append":   appendFn,
		"keys":     keysFn,
		"delete":   deleteFn,
		"tolower":  toLower,
		"toupper":  toUpper,
		"strsub":   strSub,
		"index":    indexFn,
		"split":    splitFn,
		"join":     joinFn,
		"match":    match,
		"rmatch":   rmatch,
		"valid":    valid,
		"create":   create,
		"parent":   parentFn,
		"children": childrenFn,
		"chparent": chparent,
		"map":      mapFn,
		"filter":   filterFn,
	}
}

func arity(name string, args []runtime.Value, n int) *runtime.Err {
	if len(args) != n {
		return runtime.NewErr(runtime.EARGS, fmt.Sprintf("%s takes %d arguments, got %d", name, n, len(args)))
	}
	return nil
}

func wantStr(name string, v runtime.Value) (string, *runtime.Err) {
	s, ok := v.(runtime.Str)
	if !ok {
		return "", runtime.NewErr(runtime.ETYPE, fmt.Sprintf("%s expects a str, got %s", name, v.Kind()))
	}
	return string(s), nil
}

func typeOf(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("typeof", args, 1); err != nil {
		return nil, err
	}
	return runtime.Str(args[0].Kind().String()), nil
}

// toStr renders strings bare and everything else the way its literal
// would be written.
func toStr(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("tostr", args, 1); err != nil {
		return nil, err
	}
	if s, ok := args[0].(runtime.Str); ok {
		return s, nil
	}
	return runtime.Str(args[0].Inspect()), nil
}

func toInt(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("toint", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.Int:
		return v, nil
	case runtime.Float:
		return runtime.Int(v), nil
	case runtime.Bool:
		if v {
			return runtime.Int(1), nil
		}
		return runtime.Int(0), nil
	case runtime.Str:
		n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		if err != nil {
			return nil, runtime.NewErr(runtime.EINVARG, fmt.Sprintf("cannot parse %q as an int", string(v)))
		}
		return runtime.Int(n), nil
	}
	return nil, runtime.NewErr(runtime.ETYPE, "toint cannot convert a "+args[0].Kind().String())
}

func toFloat(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("tofloat", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.Int:
		return runtime.Float(v), nil
	case runtime.Float:
		return v, nil
	case runtime.Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, runtime.NewErr(runtime.EINVARG, fmt.Sprintf("cannot parse %q as a float", string(v)))
		}
		return runtime.Float(f), nil
	}
	return nil, runtime.NewErr(runtime.ETYPE, "tofloat cannot convert a "+args[0].Kind().String())
}

func length(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("length", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.Str:
		return runtime.Int(len([]rune(string(v)))), nil
	case *runtime.List:
		return runtime.Int(len(v.Elems)), nil
	case *runtime.Map:
		return runtime.Int(v.Len()), nil
	}
	return nil, runtime.NewErr(runtime.ETYPE, "length expects a str, list or map")
}

// raise throws its argument. A non-error value is wrapped so the catch
// clause still sees what was thrown in the message.
func raise(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("raise", args, 1); err != nil {
		return nil, err
	}
	if e, ok := args[0].(*runtime.Err); ok {
		return nil, e
	}
	return nil, runtime.NewErr(runtime.EINVARG, args[0].Inspect())
}

func asFloat(v runtime.Value) (runtime.Float, bool) {
	switch t := v.(type) {
	case runtime.Int:
		return runtime.Float(t), true
	case runtime.Float:
		return t, true
	}
	return 0, false
}

func minFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("min", args, 2); err != nil {
		return nil, err
	}
	lf, lok := asFloat(args[0])
	rf, rok := asFloat(args[1])
	if !lok || !rok {
		return nil, runtime.NewErr(runtime.ETYPE, "min expects numbers")
	}
	if lf <= rf {
		return args[0], nil
	}
	return args[1], nil
}

func maxFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("max", args, 2); err != nil {
		return nil, err
	}
	lf, lok := asFloat(args[0])
	rf, rok := asFloat(args[1])
	if !lok || !rok {
		return nil, runtime.NewErr(runtime.ETYPE, "max expects numbers")
	}
	if lf >= rf {
		return args[0], nil
	}
	return args[1], nil
}

func absFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("abs", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.Int:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case runtime.Float:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	}
	return nil, runtime.NewErr(runtime.ETYPE, "abs expects a number")
}

// random returns an int in 1..n.
func random(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("random", args, 1); err != nil {
		return nil, err
	}
	n, ok := args[0].(runtime.Int)
	if !ok || n < 1 {
		return nil, runtime.NewErr(runtime.EINVARG, "random expects a positive int")
	}
	return runtime.Int(rand.Int63n(int64(n)) + 1), nil
}

// append returns a new list with the value added; the original list is
// untouched.
func appendFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("append", args, 2); err != nil {
		return nil, err
	}
	list, ok := args[0].(*runtime.List)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "append expects a list")
	}
	elems := make([]runtime.Value, 0, len(list.Elems)+1)
	elems = append(elems, list.Elems...)
	elems = append(elems, args[1])
	return &runtime.List{Elems: elems}, nil
}

func keysFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("keys", args, 1); err != nil {
		return nil, err
	}
	m, ok := args[0].(*runtime.Map)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "keys expects a map")
	}
	return &runtime.List{Elems: m.Keys()}, nil
}

func deleteFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("delete", args, 2); err != nil {
		return nil, err
	}
	m, ok := args[0].(*runtime.Map)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "delete expects a map")
	}
	if !runtime.Keyable(args[1]) {
		return nil, runtime.NewErr(runtime.ETYPE, "delete key must be a scalar")
	}
	m.Delete(args[1])
	return m, nil
}

// map applies fn to every element and returns the results.
func mapFn(i *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("map", args, 2); err != nil {
		return nil, err
	}
	list, ok := args[0].(*runtime.List)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "map expects a list")
	}
	fn, ok := args[1].(*runtime.Lambda)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "map expects a function")
	}
	out := make([]runtime.Value, 0, len(list.Elems))
	for _, el := range list.Elems {
		v, err := i.CallLambda(fn, []runtime.Value{el})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return &runtime.List{Elems: out}, nil
}

func filterFn(i *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("filter", args, 2); err != nil {
		return nil, err
	}
	list, ok := args[0].(*runtime.List)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "filter expects a list")
	}
	fn, ok := args[1].(*runtime.Lambda)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "filter expects a function")
	}
	var out []runtime.Value
	for _, el := range list.Elems {
		v, err := i.CallLambda(fn, []runtime.Value{el})
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(v) {
			out = append(out, el)
		}
	}
	return &runtime.List{Elems: out}, nil
}
