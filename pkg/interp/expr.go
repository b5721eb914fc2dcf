package interp

import (
	"math"
	"strings"

	"coral/pkg/ast"
	"coral/pkg/object"
	"coral/pkg/runtime"
)

func (i *Interp) evalExpr(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return runtime.Int(e.Value), nil
	case *ast.FloatLiteral:
		return runtime.Float(e.Value), nil
	case *ast.StringLiteral:
		return runtime.Str(e.Value), nil
	case *ast.BoolLiteral:
		return runtime.Bool(e.Value), nil
	case *ast.NullLiteral:
		return runtime.Null{}, nil
	case *ast.ObjRef:
		return runtime.Obj(e.ID), nil
	case *ast.Identifier:
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
		if code, ok := runtime.ErrByName(e.Name); ok {
			return runtime.NewErr(code, ""), nil
		}
		return nil, i.raisef(e.Span(), runtime.EVARNF, "variable %q is not defined", e.Name)
	case *ast.SysRef:
		v, rerr := i.model.GetProperty(object.SystemID, e.Name)
		if rerr != nil {
			return nil, i.raise(e.Span(), rerr)
		}
		return v, nil
	case *ast.ThisExpr:
		if v, ok := env.Get("this"); ok {
			return v, nil
		}
		return nil, i.raisef(e.Span(), runtime.EINVARG, "no current object outside of a verb")
	case *ast.AssignExpr:
		value, err := i.evalExpr(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := i.assignTo(e.Target, value, env); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.BinaryExpr:
		return i.evalBinary(e, env)
	case *ast.UnaryExpr:
		return i.evalUnary(e, env)
	case *ast.ConditionalExpr:
		cond, err := i.evalExpr(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.evalExpr(e.Then, env)
		}
		return i.evalExpr(e.Else, env)
	case *ast.PropertyAccess:
		obj, err := i.evalObject(e.Object, env)
		if err != nil {
			return nil, err
		}
		v, rerr := i.model.GetProperty(obj, e.Name)
		if rerr != nil {
			return nil, i.raise(e.Span(), rerr)
		}
		return v, nil
	case *ast.IndexAccess:
		return i.evalIndex(e, env)
	case *ast.VerbCall:
		return i.evalVerbCall(e, env)
	case *ast.FunctionCall:
		return i.evalFunctionCall(e, env)
	case *ast.CallExpr:
		return i.evalCallExpr(e, env)
	case *ast.Lambda:
		return &runtime.Lambda{Params: e.Params, Body: e.Body, Env: env}, nil
	case *ast.ListLiteral:
		elems := make([]runtime.Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, err := i.evalExpr(el, env)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return &runtime.List{Elems: elems}, nil
	case *ast.MapLiteral:
		m := runtime.NewMap()
		for _, entry := range e.Entries {
			k, err := i.evalExpr(entry.Key, env)
			if err != nil {
				return nil, err
			}
			if !runtime.Keyable(k) {
				return nil, i.raisef(entry.Key.Span(), runtime.ETYPE, "%s is not usable as a map key", k.Kind())
			}
			v, err := i.evalExpr(entry.Value, env)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case *ast.Unparsed:
		return nil, i.raisef(e.Span(), runtime.EINVARG, "cannot run unparsed source: %s", e.Text)
	}
	return nil, i.raisef(expr.Span(), runtime.EINVARG, "cannot evaluate expression %T", expr)
}

// evalObject evaluates an expression that must produce an object
// reference.
func (i *Interp) evalObject(expr ast.Expression, env *runtime.Environment) (runtime.Obj, error) {
	v, err := i.evalExpr(expr, env)
	if err != nil {
		return 0, err
	}
	obj, ok := v.(runtime.Obj)
	if !ok {
		return 0, i.raisef(expr.Span(), runtime.ETYPE, "expected an object, got %s", v.Kind())
	}
	return obj, nil
}

// --- Operators ---

// evalBinary handles short-circuit logic inline; everything else
// evaluates both operands first.
func (i *Interp) evalBinary(e *ast.BinaryExpr, env *runtime.Environment) (runtime.Value, error) {
	if e.Op == ast.OpAnd || e.Op == ast.OpOr {
		left, err := i.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if e.Op == ast.OpAnd && !runtime.Truthy(left) {
			return left, nil
		}
		if e.Op == ast.OpOr && runtime.Truthy(left) {
			return left, nil
		}
		return i.evalExpr(e.Right, env)
	}

	left, err := i.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpEq:
		return runtime.Bool(runtime.Equals(left, right)), nil
	case ast.OpNe:
		return runtime.Bool(!runtime.Equals(left, right)), nil
	case ast.OpIn:
		return i.evalIn(e, left, right)
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod, ast.OpPow:
		return i.arith(e, left, right)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return i.compare(e, left, right)
	}
	return nil, i.raisef(e.Span(), runtime.EINVARG, "unknown operator %s", e.Op)
}

// evalIn is membership: element of a list, key of a map, substring of a
// string.
func (i *Interp) evalIn(e *ast.BinaryExpr, left, right runtime.Value) (runtime.Value, error) {
	switch container := right.(type) {
	case *runtime.List:
		for _, el := range container.Elems {
			if runtime.Equals(left, el) {
				return runtime.Bool(true), nil
			}
		}
		return runtime.Bool(false), nil
	case *runtime.Map:
		if !runtime.Keyable(left) {
			return runtime.Bool(false), nil
		}
		_, found := container.Get(left)
		return runtime.Bool(found), nil
	case runtime.Str:
		needle, ok := left.(runtime.Str)
		if !ok {
			return nil, i.raisef(e.Span(), runtime.ETYPE, "cannot search a string for a %s", left.Kind())
		}
		return runtime.Bool(strings.Contains(string(container), string(needle))), nil
	}
	return nil, i.raisef(e.Span(), runtime.ETYPE, "cannot use in on a %s", right.Kind())
}

// arith applies the numeric rule: two ints stay int with Go's truncated
// division and wraparound, a float operand promotes the operation, and
// string + string concatenates.
func (i *Interp) arith(e *ast.BinaryExpr, left, right runtime.Value) (runtime.Value, error) {
	if e.Op == ast.OpAdd {
		if ls, ok := left.(runtime.Str); ok {
			if rs, ok := right.(runtime.Str); ok {
				return ls + rs, nil
			}
		}
	}

	if l, ok := left.(runtime.Int); ok {
		if r, ok := right.(runtime.Int); ok {
			return i.intArith(e, l, r)
		}
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, i.raisef(e.Span(), runtime.ETYPE, "cannot apply %s to %s and %s", e.Op, left.Kind(), right.Kind())
	}
	switch e.Op {
	case ast.OpAdd:
		return lf + rf, nil
	case ast.OpSub:
		return lf - rf, nil
	case ast.OpMul:
		return lf * rf, nil
	case ast.OpDiv:
		if rf == 0 {
			return nil, i.raisef(e.Span(), runtime.EDIV, "division by zero")
		}
		return lf / rf, nil
	case ast.OpMod:
		if rf == 0 {
			return nil, i.raisef(e.Span(), runtime.EDIV, "modulo by zero")
		}
		return runtime.Float(math.Mod(float64(lf), float64(rf))), nil
	case ast.OpPow:
		return runtime.Float(math.Pow(float64(lf), float64(rf))), nil
	}
	return nil, i.raisef(e.Span(), runtime.EINVARG, "unknown operator %s", e.Op)
}

func (i *Interp) intArith(e *ast.BinaryExpr, l, r runtime.Int) (runtime.Value, error) {
	switch e.Op {
	case ast.OpAdd:
		return l + r, nil
	case ast.OpSub:
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	case ast.OpDiv:
		if r == 0 {
			return nil, i.raisef(e.Span(), runtime.EDIV, "division by zero")
		}
		return l / r, nil
	case ast.OpMod:
		if r == 0 {
			return nil, i.raisef(e.Span(), runtime.EDIV, "modulo by zero")
		}
		return l % r, nil
	case ast.OpPow:
		if r < 0 {
			return runtime.Float(math.Pow(float64(l), float64(r))), nil
		}
		return intPow(l, r), nil
	}
	return nil, i.raisef(e.Span(), runtime.EINVARG, "unknown operator %s", e.Op)
}

// intPow is exponentiation by squaring with Go wraparound, matching the
// other integer operators.
func intPow(base, exp runtime.Int) runtime.Int {
	result := runtime.Int(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func toFloat(v runtime.Value) (runtime.Float, bool) {
	switch t := v.(type) {
	case runtime.Int:
		return runtime.Float(t), true
	case runtime.Float:
		return t, true
	}
	return 0, false
}

// compare orders numbers across kinds and strings byte-wise.
func (i *Interp) compare(e *ast.BinaryExpr, left, right runtime.Value) (runtime.Value, error) {
	if ls, ok := left.(runtime.Str); ok {
		if rs, ok := right.(runtime.Str); ok {
			return orderResult(e.Op, strings.Compare(string(ls), string(rs))), nil
		}
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, i.raisef(e.Span(), runtime.ETYPE, "cannot compare %s and %s", left.Kind(), right.Kind())
	}
	switch {
	case lf < rf:
		return orderResult(e.Op, -1), nil
	case lf > rf:
		return orderResult(e.Op, 1), nil
	default:
		return orderResult(e.Op, 0), nil
	}
}

func orderResult(op ast.BinaryOp, cmp int) runtime.Bool {
	switch op {
	case ast.OpLt:
		return cmp < 0
	case ast.OpLe:
		return cmp <= 0
	case ast.OpGt:
		return cmp > 0
	default:
		return cmp >= 0
	}
}

func (i *Interp) evalUnary(e *ast.UnaryExpr, env *runtime.Environment) (runtime.Value, error) {
	v, err := i.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNot:
		return runtime.Bool(!runtime.Truthy(v)), nil
	case ast.OpNeg:
		switch t := v.(type) {
		case runtime.Int:
			return -t, nil
		case runtime.Float:
			return -t, nil
		}
		return nil, i.raisef(e.Span(), runtime.ETYPE, "cannot negate a %s", v.Kind())
	}
	return nil, i.raisef(e.Span(), runtime.EINVARG, "unknown operator %s", e.Op)
}

// --- Indexing ---

// evalIndex reads container[index]. Lists and strings index from 1.
func (i *Interp) evalIndex(e *ast.IndexAccess, env *runtime.Environment) (runtime.Value, error) {
	container, err := i.evalExpr(e.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evalExpr(e.Index, env)
	if err != nil {
		return nil, err
	}
	switch c := container.(type) {
	case *runtime.List:
		n, err := i.listIndex(e, index, len(c.Elems))
		if err != nil {
			return nil, err
		}
		return c.Elems[n-1], nil
	case runtime.Str:
		runes := []rune(string(c))
		n, err := i.listIndex(e, index, len(runes))
		if err != nil {
			return nil, err
		}
		return runtime.Str(runes[n-1]), nil
	case *runtime.Map:
		if !runtime.Keyable(index) {
			return nil, i.raisef(e.Index.Span(), runtime.ETYPE, "%s is not usable as a map key", index.Kind())
		}
		v, found := c.Get(index)
		if !found {
			return nil, i.raisef(e.Index.Span(), runtime.ERANGE, "key %s not found", index.Inspect())
		}
		return v, nil
	}
	return nil, i.raisef(e.Span(), runtime.ETYPE, "cannot index a %s", container.Kind())
}

func (i *Interp) listIndex(e *ast.IndexAccess, index runtime.Value, length int) (int, error) {
	n, ok := index.(runtime.Int)
	if !ok {
		return 0, i.raisef(e.Index.Span(), runtime.ETYPE, "index must be an int, got %s", index.Kind())
	}
	if n < 1 || int(n) > length {
		return 0, i.raisef(e.Index.Span(), runtime.ERANGE, "index %d out of range 1..%d", n, length)
	}
	return int(n), nil
}

// assignIndex writes container[index] = value in place. Lists and maps
// are reference values, so the write is visible everywhere the
// container is.
func (i *Interp) assignIndex(t *ast.IndexTarget, value runtime.Value, env *runtime.Environment) error {
	container, err := i.evalExpr(t.Object, env)
	if err != nil {
		return err
	}
	index, err := i.evalExpr(t.Index, env)
	if err != nil {
		return err
	}
	switch c := container.(type) {
	case *runtime.List:
		n, ok := index.(runtime.Int)
		if !ok {
			return i.raisef(t.Index.Span(), runtime.ETYPE, "index must be an int, got %s", index.Kind())
		}
		if n < 1 || int(n) > len(c.Elems) {
			return i.raisef(t.Index.Span(), runtime.ERANGE, "index %d out of range 1..%d", n, len(c.Elems))
		}
		c.Elems[n-1] = value
		return nil
	case *runtime.Map:
		if !runtime.Keyable(index) {
			return i.raisef(t.Index.Span(), runtime.ETYPE, "%s is not usable as a map key", index.Kind())
		}
		c.Set(index, value)
		return nil
	}
	return i.raisef(t.Span(), runtime.ETYPE, "cannot index-assign a %s", container.Kind())
}

// iterate flattens an iterable for for-in: list elements, map keys in
// insertion order, string runes.
func iterate(v runtime.Value) ([]runtime.Value, *runtime.Err) {
	switch c := v.(type) {
	case *runtime.List:
		return c.Elems, nil
	case *runtime.Map:
		return c.Keys(), nil
	case runtime.Str:
		out := make([]runtime.Value, 0, len(c))
		for _, r := range string(c) {
			out = append(out, runtime.Str(r))
		}
		return out, nil
	}
	return nil, runtime.NewErr(runtime.ETYPE, "cannot iterate a "+v.Kind().String())
}
