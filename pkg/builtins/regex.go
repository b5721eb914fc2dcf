package builtins

import (
	"sync"

	"github.com/dlclark/regexp2"

	"coral/pkg/interp"
	"coral/pkg/runtime"
)

// Compiled patterns are cached per source string; scripts tend to match
// against a small fixed set of patterns in a tight loop.
var (
	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp2.Regexp)
)

func compile(pattern string) (*regexp2.Regexp, *runtime.Err) {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.RE2)
	if err != nil {
		return nil, runtime.NewErr(runtime.EINVARG, "bad pattern: "+err.Error())
	}
	patternCache[pattern] = re
	return re, nil
}

// match returns {start, end, groups} for the first match in the string,
// with 1-based inclusive positions, or an empty list when nothing
// matches. rmatch does the same from the right.
func match(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	return matchFrom(args, "match", false)
}

func rmatch(_ *interp.Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
	return matchFrom(args, "rmatch", true)
}

func matchFrom(args []runtime.Value, name string, fromRight bool) (runtime.Value, *runtime.Err) {
	if err := arity(name, args, 2); err != nil {
		return nil, err
	}
	subject, err := wantStr(name, args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := wantStr(name, args[1])
	if err != nil {
		return nil, err
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	m, merr := re.FindStringMatch(subject)
	if merr != nil {
		return nil, runtime.NewErr(runtime.EINVARG, name+": "+merr.Error())
	}
	if fromRight {
		// Walk forward keeping the last match.
		var last *regexp2.Match
		for m != nil {
			last = m
			m, merr = re.FindNextMatch(m)
			if merr != nil {
				return nil, runtime.NewErr(runtime.EINVARG, name+": "+merr.Error())
			}
		}
		m = last
	}
	if m == nil {
		return &runtime.List{}, nil
	}

	groups := m.Groups()
	captures := make([]runtime.Value, 0, len(groups)-1)
	for _, g := range groups[1:] {
		captures = append(captures, runtime.Str(g.String()))
	}
	return &runtime.List{Elems: []runtime.Value{
		runtime.Int(m.Index + 1),
		runtime.Int(m.Index + m.Length),
		&runtime.List{Elems: captures},
	}}, nil
}
