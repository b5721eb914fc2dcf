package builtins

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"coral/pkg/interp"
	"coral/pkg/runtime"
)

var (
	lower = cases.Lower(language.Und)
	upper = cases.Upper(language.Und)
)

func toLower(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("tolower", args, 1); err != nil {
		return nil, err
	}
	s, err := wantStr("tolower", args[0])
	if err != nil {
		return nil, err
	}
	return runtime.Str(lower.String(s)), nil
}

func toUpper(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("toupper", args, 1); err != nil {
		return nil, err
	}
	s, err := wantStr("toupper", args[0])
	if err != nil {
		return nil, err
	}
	return runtime.Str(upper.String(s)), nil
}

// strsub replaces every occurrence of what with with.
func strSub(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("strsub", args, 3); err != nil {
		return nil, err
	}
	s, err := wantStr("strsub", args[0])
	if err != nil {
		return nil, err
	}
	what, err := wantStr("strsub", args[1])
	if err != nil {
		return nil, err
	}
	with, err := wantStr("strsub", args[2])
	if err != nil {
		return nil, err
	}
	return runtime.Str(strings.ReplaceAll(s, what, with)), nil
}

// index returns the 1-based position of needle in s, 0 when absent.
func indexFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("index", args, 2); err != nil {
		return nil, err
	}
	s, err := wantStr("index", args[0])
	if err != nil {
		return nil, err
	}
	needle, err := wantStr("index", args[1])
	if err != nil {
		return nil, err
	}
	byteIdx := strings.Index(s, needle)
	if byteIdx < 0 {
		return runtime.Int(0), nil
	}
	return runtime.Int(len([]rune(s[:byteIdx])) + 1), nil
}

func splitFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("split", args, 2); err != nil {
		return nil, err
	}
	s, err := wantStr("split", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := wantStr("split", args[1])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, sep)
	elems := make([]runtime.Value, len(parts))
	for i, p := range parts {
		elems[i] = runtime.Str(p)
	}
	return &runtime.List{Elems: elems}, nil
}

func joinFn(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	if err := arity("join", args, 2); err != nil {
		return nil, err
	}
	list, ok := args[0].(*runtime.List)
	if !ok {
		return nil, runtime.NewErr(runtime.ETYPE, "join expects a list")
	}
	sep, err := wantStr("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(list.Elems))
	for i, el := range list.Elems {
		s, ok := el.(runtime.Str)
		if !ok {
			return nil, runtime.NewErr(runtime.ETYPE, "join expects a list of strings")
		}
		parts[i] = string(s)
	}
	return runtime.Str(strings.Join(parts, sep)), nil
}
