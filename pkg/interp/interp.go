// Package interp evaluates the canonical AST directly. Control flow is
// signal based: break, continue, return and raise travel outward as error
// values until the construct responsible for them intercepts them. One
// call to a statement entry point runs to completion or to an uncaught
// raise; suspension is cooperative through an optional yield hook.
package interp

import (
	"fmt"

	"coral/pkg/ast"
	"coral/pkg/errors"
	"coral/pkg/object"
	"coral/pkg/runtime"
)

// Builtin is a native function exposed to the language. Builtins receive
// the running interpreter so they can call back into evaluation (for
// lambdas passed as arguments) and reach the object model.
type Builtin func(i *Interp, args []runtime.Value) (runtime.Value, *runtime.Err)

const defaultMaxDepth = 100

// Interp evaluates statements against one environment chain and one
// object model. It holds no state shared between independent instances,
// so concurrent evaluations against separate models are safe.
type Interp struct {
	model    *object.Model
	global   *runtime.Environment
	builtins map[string]Builtin

	maxDepth int
	maxTicks int // loop-iteration ceiling per statement, 0 = unlimited
	ticks    int

	stack []errors.TraceFrame

	// Yield, when set, is called at each potential suspension point: the
	// end of every loop iteration and immediately before a builtin runs.
	Yield func()
}

func New(model *object.Model, builtins map[string]Builtin) *Interp {
	if builtins == nil {
		builtins = make(map[string]Builtin)
	}
	return &Interp{
		model:    model,
		global:   runtime.NewEnvironment(),
		builtins: builtins,
		maxDepth: defaultMaxDepth,
	}
}

// Global returns the top-level environment statements run in.
func (i *Interp) Global() *runtime.Environment { return i.global }

// Model returns the object model handle.
func (i *Interp) Model() *object.Model { return i.model }

// SetMaxDepth bounds the call stack. Exceeding it raises E_MAXREC.
func (i *Interp) SetMaxDepth(n int) { i.maxDepth = n }

// SetMaxTicks bounds loop iterations within one top-level statement.
// Zero disables the ceiling.
func (i *Interp) SetMaxTicks(n int) { i.maxTicks = n }

// RunStatement evaluates one top-level statement. A raise that reaches
// here uncaught becomes a RuntimeError carrying the call trace from the
// raise site; a stray break or continue is an error in the program and
// is reported the same way.
func (i *Interp) RunStatement(stmt ast.Statement) (runtime.Value, *errors.RuntimeError) {
	i.ticks = 0
	v, err := i.evalStmt(stmt, i.global)
	if err == nil {
		if v == nil {
			v = runtime.Null{}
		}
		return v, nil
	}
	switch sig := err.(type) {
	case *raiseSignal:
		return nil, &errors.RuntimeError{
			Position: sig.pos,
			Msg:      sig.value.Inspect(),
			Trace:    sig.trace,
		}
	case *returnSignal:
		return nil, &errors.RuntimeError{
			Position: position(stmt.Span()),
			Msg:      "return outside of a function or verb",
		}
	case *breakSignal:
		return nil, &errors.RuntimeError{
			Position: position(stmt.Span()),
			Msg:      stray("break", sig.label),
		}
	case *continueSignal:
		return nil, &errors.RuntimeError{
			Position: position(stmt.Span()),
			Msg:      stray("continue", sig.label),
		}
	}
	return nil, &errors.RuntimeError{Position: position(stmt.Span()), Msg: err.Error()}
}

func stray(kind, label string) string {
	if label == "" {
		return kind + " outside of a loop"
	}
	return fmt.Sprintf("%s %s does not match an enclosing loop", kind, label)
}

func position(s ast.Span) errors.Position {
	return errors.Position{Line: s.Line, Column: s.Col}
}

// raise builds a raise signal, capturing the current call trace.
func (i *Interp) raise(s ast.Span, err *runtime.Err) error {
	trace := make([]errors.TraceFrame, len(i.stack))
	copy(trace, i.stack)
	return &raiseSignal{value: err, pos: position(s), trace: trace}
}

func (i *Interp) raisef(s ast.Span, code runtime.ErrCode, format string, args ...any) error {
	return i.raise(s, runtime.NewErr(code, fmt.Sprintf(format, args...)))
}

// tick charges one loop iteration against the per-statement ceiling.
func (i *Interp) tick(s ast.Span) error {
	i.ticks++
	if i.maxTicks > 0 && i.ticks > i.maxTicks {
		return i.raisef(s, runtime.EMAXREC, "iteration limit of %d exceeded", i.maxTicks)
	}
	if i.Yield != nil {
		i.Yield()
	}
	return nil
}

// --- Statements ---

func (i *Interp) evalStmt(stmt ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch s := stmt.(type) {
	case *ast.Program:
		var last runtime.Value = runtime.Null{}
		for _, inner := range s.Statements {
			v, err := i.evalStmt(inner, env)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	case *ast.ExpressionStmt:
		return i.evalExpr(s.Expr, env)
	case *ast.AssignStmt:
		return i.evalAssign(s, env)
	case *ast.BlockStmt:
		return i.evalBlock(s, runtime.NewEnclosedEnvironment(env))
	case *ast.IfStmt:
		return i.evalIf(s, env)
	case *ast.WhileStmt:
		return i.evalWhile(s, env)
	case *ast.ForInStmt:
		return i.evalForIn(s, env)
	case *ast.TryStmt:
		return i.evalTry(s, env)
	case *ast.ReturnStmt:
		var v runtime.Value = runtime.Null{}
		if s.Value != nil {
			var err error
			v, err = i.evalExpr(s.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, &returnSignal{value: v}
	case *ast.BreakStmt:
		return nil, &breakSignal{label: s.Label}
	case *ast.ContinueStmt:
		return nil, &continueSignal{label: s.Label}
	case *ast.ObjectDef:
		return i.evalObjectDef(s, env)
	case *ast.Unparsed:
		return nil, i.raisef(s.Span(), runtime.EINVARG, "cannot run unparsed source: %s", s.Text)
	}
	return nil, i.raisef(stmt.Span(), runtime.EINVARG, "cannot evaluate statement %T", stmt)
}

// evalBlock runs statements in the given scope. The caller decides
// whether the scope is fresh; loop bodies get one per iteration.
func (i *Interp) evalBlock(block *ast.BlockStmt, env *runtime.Environment) (runtime.Value, error) {
	var last runtime.Value = runtime.Null{}
	for _, stmt := range block.Statements {
		v, err := i.evalStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (i *Interp) evalIf(s *ast.IfStmt, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evalExpr(s.Cond, env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evalStmt(s.Then, env)
	}
	if s.Else != nil {
		return i.evalStmt(s.Else, env)
	}
	return runtime.Null{}, nil
}

func (i *Interp) evalWhile(s *ast.WhileStmt, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.evalExpr(s.Cond, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.Null{}, nil
		}
		if stop, err := i.runLoopBody(s.Body, env, s.Label); stop || err != nil {
			return runtime.Null{}, err
		}
		if err := i.tick(s.Span()); err != nil {
			return nil, err
		}
	}
}

func (i *Interp) evalForIn(s *ast.ForInStmt, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evalExpr(s.Iterable, env)
	if err != nil {
		return nil, err
	}
	items, rerr := iterate(iterable)
	if rerr != nil {
		return nil, i.raise(s.Iterable.Span(), rerr)
	}
	for _, item := range items {
		body := runtime.NewEnclosedEnvironment(env)
		body.Define(s.Var, item, false)
		if stop, err := i.runLoop(s.Body, body, s.Label); stop || err != nil {
			return runtime.Null{}, err
		}
		if err := i.tick(s.Span()); err != nil {
			return nil, err
		}
	}
	return runtime.Null{}, nil
}

// runLoopBody runs one while-loop iteration in a fresh scope and
// intercepts break/continue aimed at this loop. stop means break.
func (i *Interp) runLoopBody(body *ast.BlockStmt, env *runtime.Environment, label string) (bool, error) {
	return i.runLoop(body, runtime.NewEnclosedEnvironment(env), label)
}

func (i *Interp) runLoop(body *ast.BlockStmt, scope *runtime.Environment, label string) (bool, error) {
	_, err := i.evalBlock(body, scope)
	switch sig := err.(type) {
	case nil:
		return false, nil
	case *breakSignal:
		if matches(sig.label, label) {
			return true, nil
		}
	case *continueSignal:
		if matches(sig.label, label) {
			return false, nil
		}
	}
	return false, err
}

// evalTry runs the finally block on every exit path. A signal from the
// finally block itself replaces whatever was propagating.
func (i *Interp) evalTry(s *ast.TryStmt, env *runtime.Environment) (runtime.Value, error) {
	v, err := i.evalBlock(s.Body, runtime.NewEnclosedEnvironment(env))
	if raised, ok := err.(*raiseSignal); ok && s.Catch != nil {
		scope := runtime.NewEnclosedEnvironment(env)
		if s.Catch.Var != "" {
			scope.Define(s.Catch.Var, raised.value, false)
		}
		v, err = i.evalBlock(s.Catch.Body, scope)
	}
	if s.Finally != nil {
		if _, ferr := i.evalBlock(s.Finally, runtime.NewEnclosedEnvironment(env)); ferr != nil {
			return nil, ferr
		}
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// --- Assignment ---

// evalAssign evaluates the right side fully before touching the target.
func (i *Interp) evalAssign(s *ast.AssignStmt, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evalExpr(s.Value, env)
	if err != nil {
		return nil, err
	}
	if err := i.assignTo(s.Target, value, env); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interp) assignTo(target ast.LValue, value runtime.Value, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.BindTarget:
		return i.bindAssign(t, value, env)
	case *ast.PropertyTarget:
		obj, err := i.evalObject(t.Object, env)
		if err != nil {
			return err
		}
		if rerr := i.model.SetProperty(obj, t.Name, value); rerr != nil {
			return i.raise(t.Span(), rerr)
		}
		return nil
	case *ast.IndexTarget:
		return i.assignIndex(t, value, env)
	}
	return i.raisef(target.Span(), runtime.EINVARG, "cannot assign to %T", target)
}

func (i *Interp) bindAssign(t *ast.BindTarget, value runtime.Value, env *runtime.Environment) error {
	switch t.Kind {
	case ast.BindLet, ast.BindConst:
		return i.bindPattern(t.Pattern, value, env, t.Kind == ast.BindConst, t.Span())
	default:
		if !t.Pattern.List {
			return i.assignName(t.Pattern.Simple, value, env, t.Span())
		}
		return i.scatterAssign(t.Pattern, value, env, t.Span())
	}
}

// assignName rebinds the nearest existing binding, or defines the name
// in the current scope when there is none.
func (i *Interp) assignName(name string, value runtime.Value, env *runtime.Environment, s ast.Span) error {
	switch env.Assign(name, value) {
	case runtime.Assigned:
		return nil
	case runtime.IsConst:
		return i.raisef(s, runtime.ECONST, "cannot assign to const %q", name)
	default:
		env.Define(name, value, false)
		return nil
	}
}

// scatterAssign destructures a list across an unbound pattern, assigning
// each element the way a plain assignment would.
func (i *Interp) scatterAssign(p ast.Pattern, value runtime.Value, env *runtime.Environment, s ast.Span) error {
	parts, err := i.splitPattern(p, value, env, s)
	if err != nil {
		return err
	}
	for _, part := range parts {
		if err := i.assignName(part.name, part.value, env, s); err != nil {
			return err
		}
	}
	return nil
}

// bindPattern introduces fresh bindings for every name in the pattern.
func (i *Interp) bindPattern(p ast.Pattern, value runtime.Value, env *runtime.Environment, constant bool, s ast.Span) error {
	if !p.List {
		if !env.Define(p.Simple, value, constant) {
			return i.raisef(s, runtime.ECONST, "cannot redeclare const %q", p.Simple)
		}
		return nil
	}
	parts, err := i.splitPattern(p, value, env, s)
	if err != nil {
		return err
	}
	for _, part := range parts {
		if !env.Define(part.name, part.value, constant) {
			return i.raisef(s, runtime.ECONST, "cannot redeclare const %q", part.name)
		}
	}
	return nil
}

type boundName struct {
	name  string
	value runtime.Value
}

// splitPattern matches a list value against a list pattern. Elements
// come ordered required, optional, rest: required names consume from the
// front, optionals consume while values remain and fall back to their
// defaults, a trailing rest capture takes the leftover tail.
func (i *Interp) splitPattern(p ast.Pattern, value runtime.Value, env *runtime.Environment, s ast.Span) ([]boundName, error) {
	list, ok := value.(*runtime.List)
	if !ok {
		return nil, i.raisef(s, runtime.ETYPE, "cannot destructure %s into a pattern", value.Kind())
	}
	required, optional, hasRest := 0, 0, false
	for _, el := range p.Elems {
		switch el.Kind {
		case ast.ElemRequired:
			required++
		case ast.ElemOptional:
			optional++
		case ast.ElemRest:
			hasRest = true
		}
	}
	n := len(list.Elems)
	if n < required {
		return nil, i.raisef(s, runtime.EARGS, "pattern needs at least %d values, got %d", required, n)
	}
	if !hasRest && n > required+optional {
		return nil, i.raisef(s, runtime.EARGS, "pattern takes at most %d values, got %d", required+optional, n)
	}

	var out []boundName
	next := 0
	for _, el := range p.Elems {
		switch el.Kind {
		case ast.ElemRequired:
			out = append(out, boundName{el.Name, list.Elems[next]})
			next++
		case ast.ElemOptional:
			if next < n {
				out = append(out, boundName{el.Name, list.Elems[next]})
				next++
				continue
			}
			var def runtime.Value = runtime.Null{}
			if el.Default != nil {
				var err error
				def, err = i.evalExpr(el.Default, env)
				if err != nil {
					return nil, err
				}
			}
			out = append(out, boundName{el.Name, def})
		case ast.ElemRest:
			tail := append([]runtime.Value(nil), list.Elems[next:]...)
			out = append(out, boundName{el.Name, &runtime.List{Elems: tail}})
			next = n
		}
	}
	return out, nil
}
