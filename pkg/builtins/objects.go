package builtins

import (
	"coral/pkg/interp"
	"coral/pkg/object"
	"coral/pkg/runtime"
)

func wantObj(name string, v runtime.Value) (runtime.Obj, *runtime.Err) {
	o, ok := v.(runtime.Obj)
	if !ok {
		return 0, runtime.NewErr(runtime.ETYPE, name+" expects an object, got "+v.Kind().String())
	}
	return o, nil
}

func valid(i *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("valid", args, 1); err != nil {
		return nil, err
	}
	o, ok := args[0].(runtime.Obj)
	if !ok {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(i.Model().Valid(o)), nil
}

// create makes a new object; with no argument the parent is the root.
func create(i *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	parent := object.RootID
	switch len(args) {
	case 0:
	case 1:
		o, err := wantObj("create", args[0])
		if err != nil {
			return nil, err
		}
		parent = o
	default:
		return nil, runtime.NewErr(runtime.EARGS, "create takes at most one argument")
	}
	id, err := i.Model().Create(parent)
	if err != nil {
		return nil, err
	}
	return id, nil
}

func parentFn(i *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("parent", args, 1); err != nil {
		return nil, err
	}
	o, err := wantObj("parent", args[0])
	if err != nil {
		return nil, err
	}
	p, rerr := i.Model().Parent(o)
	if rerr != nil {
		return nil, rerr
	}
	return p, nil
}

func childrenFn(i *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("children", args, 1); err != nil {
		return nil, err
	}
	o, err := wantObj("children", args[0])
	if err != nil {
		return nil, err
	}
	kids, rerr := i.Model().Children(o)
	if rerr != nil {
		return nil, rerr
	}
	elems := make([]runtime.Value, len(kids))
	for n, kid := range kids {
		elems[n] = kid
	}
	return &runtime.List{Elems: elems}, nil
}

func chparent(i *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("chparent", args, 2); err != nil {
		return nil, err
	}
	o, err := wantObj("chparent", args[0])
	if err != nil {
		return nil, err
	}
	p, err := wantObj("chparent", args[1])
	if err != nil {
		return nil, err
	}
	if rerr := i.Model().ChangeParent(o, p); rerr != nil {
		return nil, rerr
	}
	return runtime.Null{}, nil
}
