package interp

import (
	"coral/pkg/ast"
	"coral/pkg/errors"
	"coral/pkg/runtime"
)

func (i *Interp) evalArgs(args []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(args))
	for _, a := range args {
		v, err := i.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// evalVerbCall resolves the verb along the target's parent chain and runs
// its body in a fresh frame rooted at the global environment. `this`
// stays bound to the call target, so inherited code reads the caller's
// state, not its definer's.
func (i *Interp) evalVerbCall(e *ast.VerbCall, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.evalObject(e.Object, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}

	verb, _, rerr := i.model.ResolveVerb(target, e.Verb)
	if rerr != nil {
		return nil, i.raise(e.Span(), rerr)
	}

	frame := runtime.NewEnclosedEnvironment(i.global)
	frame.Define("this", target, true)
	if err := i.bindPattern(verb.Params, &runtime.List{Elems: args}, frame, false, e.Span()); err != nil {
		return nil, err
	}
	return i.runBody(verb.Body, frame, e.Verb, e.Span())
}

// evalFunctionCall resolves a bare name(args) call: builtins first, then
// the environment for a lambda bound to that name.
func (i *Interp) evalFunctionCall(e *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	args, err := i.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	// Builtin names are not rebindable in call position: the registry
	// wins over any user binding of the same name.
	if fn, ok := i.builtins[e.Name]; ok {
		return i.callBuiltin(e.Name, fn, args, e.Span())
	}
	if v, ok := env.Get(e.Name); ok {
		lambda, ok := v.(*runtime.Lambda)
		if !ok {
			return nil, i.raisef(e.Span(), runtime.ETYPE, "%q is a %s, not a function", e.Name, v.Kind())
		}
		return i.callLambda(lambda, args, e.Span())
	}
	return nil, i.raisef(e.Span(), runtime.EVARNF, "function %q is not defined", e.Name)
}

func (i *Interp) evalCallExpr(e *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	lambda, ok := callee.(*runtime.Lambda)
	if !ok {
		return nil, i.raisef(e.Callee.Span(), runtime.ETYPE, "cannot call a %s", callee.Kind())
	}
	return i.callLambda(lambda, args, e.Span())
}

// CallLambda invokes a lambda value with already-evaluated arguments.
// Builtins that take function arguments use it to call back in.
func (i *Interp) CallLambda(fn *runtime.Lambda, args []runtime.Value) (runtime.Value, *runtime.Err) {
	v, err := i.callLambda(fn, args, ast.Span{})
	if err != nil {
		if raised, ok := err.(*raiseSignal); ok {
			if re, ok := raised.value.(*runtime.Err); ok {
				return nil, re
			}
			return nil, runtime.NewErr(runtime.EINVARG, raised.value.Inspect())
		}
		return nil, runtime.NewErr(runtime.EINVARG, err.Error())
	}
	return v, nil
}

// callLambda runs the body in a scope enclosing the captured
// environment, so mutation of captured variables stays visible.
func (i *Interp) callLambda(fn *runtime.Lambda, args []runtime.Value, s ast.Span) (runtime.Value, error) {
	frame := runtime.NewEnclosedEnvironment(fn.Env)
	if err := i.bindPattern(fn.Params, &runtime.List{Elems: args}, frame, false, s); err != nil {
		return nil, err
	}
	name := fn.Name
	if name == "" {
		name = "<lambda>"
	}
	return i.runBody(fn.Body, frame, name, s)
}

// runBody is the call boundary: it pushes a trace frame, enforces the
// depth limit, and converts a return signal into a plain value.
func (i *Interp) runBody(body *ast.BlockStmt, frame *runtime.Environment, name string, s ast.Span) (runtime.Value, error) {
	if len(i.stack) >= i.maxDepth {
		return nil, i.raisef(s, runtime.EMAXREC, "call depth limit of %d exceeded", i.maxDepth)
	}
	i.stack = append(i.stack, errors.TraceFrame{Name: name, Pos: position(s)})
	defer func() { i.stack = i.stack[:len(i.stack)-1] }()

	_, err := i.evalBlock(body, frame)
	if err == nil {
		return runtime.Null{}, nil
	}
	switch sig := err.(type) {
	case *returnSignal:
		return sig.value, nil
	case *breakSignal:
		return nil, i.raisef(s, runtime.EINVARG, "%s", stray("break", sig.label))
	case *continueSignal:
		return nil, i.raisef(s, runtime.EINVARG, "%s", stray("continue", sig.label))
	}
	return nil, err
}

func (i *Interp) callBuiltin(name string, fn Builtin, args []runtime.Value, s ast.Span) (runtime.Value, error) {
	// Suspension point: a builtin may hand control to the host before
	// running.
	if i.Yield != nil {
		i.Yield()
	}
	v, rerr := fn(i, args)
	if rerr != nil {
		return nil, i.raise(s, rerr)
	}
	if v == nil {
		v = runtime.Null{}
	}
	return v, nil
}
