package interp

import (
	"testing"

	"coral/pkg/ast"
	"coral/pkg/convert"
	"coral/pkg/object"
	"coral/pkg/parser/modern"
	"coral/pkg/runtime"
)

func testBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"raise": func(_ *Interp, args []runtime.Value) (runtime.Value, *runtime.Err) {
			if len(args) != 1 {
				return nil, runtime.NewErr(runtime.EARGS, "raise takes one argument")
			}
			if e, ok := args[0].(*runtime.Err); ok {
				return nil, e
			}
			return nil, runtime.NewErr(runtime.EINVARG, args[0].Inspect())
		},
	}
}

func newInterp(t *testing.T) *Interp {
	t.Helper()
	return New(object.NewModel(object.NewMemStore()), testBuiltins())
}

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tree, errs := modern.ParseString(src)
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", src, errs[0])
	}
	prog, cerrs := convert.Modern(tree)
	if len(cerrs) > 0 {
		t.Fatalf("convert %q: %v", src, cerrs[0])
	}
	return prog
}

// run evaluates src statement by statement and returns the last value.
func run(t *testing.T, i *Interp, src string) runtime.Value {
	t.Helper()
	var last runtime.Value = runtime.Null{}
	for _, stmt := range parse(t, src).Statements {
		v, err := i.RunStatement(stmt)
		if err != nil {
			t.Fatalf("run %q: %v", src, err)
		}
		last = v
	}
	return last
}

// runErr evaluates src expecting the final statement to fail.
func runErr(t *testing.T, i *Interp, src string) string {
	t.Helper()
	stmts := parse(t, src).Statements
	for n, stmt := range stmts {
		_, err := i.RunStatement(stmt)
		if err != nil {
			if n != len(stmts)-1 {
				t.Fatalf("run %q: statement %d failed early: %v", src, n, err)
			}
			return err.Msg
		}
	}
	t.Fatalf("run %q: expected an error", src)
	return ""
}

func wantInt(t *testing.T, got runtime.Value, want int64) {
	t.Helper()
	n, ok := got.(runtime.Int)
	if !ok || int64(n) != want {
		t.Errorf("got %s, want %d", got.Inspect(), want)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"2 + 3 * 4;", 14},
		{"2 * 3 + 4;", 10},
		{"2 ^ 3 ^ 2;", 512},
		{"7 / 2;", 3},
		{"-7 / 2;", -3},
		{"-7 % 3;", -1},
		{"(1 + 2) * 3;", 9},
	}
	for _, tt := range tests {
		wantInt(t, run(t, newInterp(t), tt.src), tt.want)
	}
}

func TestMixedArithmeticPromotes(t *testing.T) {
	got := run(t, newInterp(t), "1 + 2.5;")
	f, ok := got.(runtime.Float)
	if !ok || f != 3.5 {
		t.Errorf("got %s, want 3.5", got.Inspect())
	}
	got = run(t, newInterp(t), "10 / 4;")
	wantInt(t, got, 2)
}

func TestDivisionByZero(t *testing.T) {
	msg := runErr(t, newInterp(t), "1 / 0;")
	if msg != "E_DIV (division by zero)" {
		t.Errorf("msg = %q", msg)
	}
	runErr(t, newInterp(t), "1 % 0;")
	runErr(t, newInterp(t), "1.0 / 0.0;")
}

func TestStringOps(t *testing.T) {
	got := run(t, newInterp(t), `"foo" + "bar";`)
	if got != runtime.Str("foobar") {
		t.Errorf("concat = %s", got.Inspect())
	}
	got = run(t, newInterp(t), `"abc" < "abd";`)
	if got != runtime.Bool(true) {
		t.Errorf("compare = %s", got.Inspect())
	}
	got = run(t, newInterp(t), `"ell" in "hello";`)
	if got != runtime.Bool(true) {
		t.Errorf("in = %s", got.Inspect())
	}
}

func TestShortCircuit(t *testing.T) {
	i := newInterp(t)
	calls := 0
	i.builtins["side_effect"] = func(*Interp, []runtime.Value) (runtime.Value, *runtime.Err) {
		calls++
		return runtime.Bool(true), nil
	}
	run(t, i, "false && side_effect();")
	run(t, i, "true || side_effect();")
	if calls != 0 {
		t.Errorf("side_effect called %d times", calls)
	}
	run(t, i, "true && side_effect();")
	run(t, i, "false || side_effect();")
	if calls != 2 {
		t.Errorf("side_effect called %d times, want 2", calls)
	}
}

func TestConditionalExpr(t *testing.T) {
	wantInt(t, run(t, newInterp(t), "let x = 5; (x > 3 ? 1 | 2);"), 1)
	wantInt(t, run(t, newInterp(t), "let x = 5; (x > 9 ? 1 | 2);"), 2)
}

func TestVariablesAndScopes(t *testing.T) {
	i := newInterp(t)
	wantInt(t, run(t, i, "let x = 1; x = x + 1; x;"), 2)

	// A block write to an outer name hits the outer binding.
	wantInt(t, run(t, i, "let y = 1; if (true) { y = 5; } y;"), 5)

	// let in a block shadows without touching the outer binding.
	wantInt(t, run(t, i, "let z = 1; if (true) { let z = 5; } z;"), 1)
}

func TestUndefinedVariable(t *testing.T) {
	msg := runErr(t, newInterp(t), "nope;")
	if msg != `E_VARNF (variable "nope" is not defined)` {
		t.Errorf("msg = %q", msg)
	}
}

func TestConstReassignment(t *testing.T) {
	i := newInterp(t)
	runErr(t, i, "const PI = 3.14; PI = 1;")
	got := run(t, i, "PI;")
	if got != runtime.Float(3.14) {
		t.Errorf("PI = %s after failed write", got.Inspect())
	}
}

func TestScatterAssignment(t *testing.T) {
	i := newInterp(t)
	wantInt(t, run(t, i, "let {a, b} = {1, 2}; a + b;"), 3)
	wantInt(t, run(t, i, "let {x, ?y = 10} = {1}; x + y;"), 11)
	got := run(t, i, "let {first, @rest} = {1, 2, 3}; rest;")
	list, ok := got.(*runtime.List)
	if !ok || len(list.Elems) != 2 {
		t.Fatalf("rest = %s", got.Inspect())
	}
	msg := runErr(t, newInterp(t), "let {a, b} = {1};")
	if msg != "E_ARGS (pattern needs at least 2 values, got 1)" {
		t.Errorf("msg = %q", msg)
	}
}

func TestWhileLoop(t *testing.T) {
	wantInt(t, run(t, newInterp(t), "let n = 0; while (n < 10) { n = n + 1; } n;"), 10)
}

func TestForInLoop(t *testing.T) {
	wantInt(t, run(t, newInterp(t), "let sum = 0; for (x in {1, 2, 3}) { sum = sum + x; } sum;"), 6)
	wantInt(t, run(t, newInterp(t), `let n = 0; for (c in "abc") { n = n + 1; } n;`), 3)
}

func TestBreakContinue(t *testing.T) {
	wantInt(t, run(t, newInterp(t),
		"let n = 0; for (x in {1, 2, 3, 4}) { if (x == 3) { break; } n = n + x; } n;"), 3)
	wantInt(t, run(t, newInterp(t),
		"let n = 0; for (x in {1, 2, 3, 4}) { if (x == 3) { continue; } n = n + x; } n;"), 7)
}

func TestLabeledBreakCrossesInnerLoop(t *testing.T) {
	src := `
let hits = 0;
while outer (true) {
	for (x in {1, 2, 3}) {
		hits = hits + 1;
		if (x == 2) {
			break outer;
		}
	}
	hits = hits + 100;
}
hits;
`
	wantInt(t, run(t, newInterp(t), src), 2)
}

func TestChainedAssignmentValues(t *testing.T) {
	i := newInterp(t)
	src := "let x = 0; let y = 0; x = y = 5; {x, y};"
	got := run(t, i, src)
	list, ok := got.(*runtime.List)
	if !ok {
		t.Fatalf("result = %T", got)
	}
	wantInt(t, list.Elems[0], 5)
	wantInt(t, list.Elems[1], 5)

	// The chain value threads through property writes too.
	src = "object lamp { property level = 0; } " +
		"let n = 0; n = $lamp.level = 7; {n, $lamp.level};"
	got = run(t, i, src)
	list = got.(*runtime.List)
	wantInt(t, list.Elems[0], 7)
	wantInt(t, list.Elems[1], 7)
}

func TestStrayBreakReported(t *testing.T) {
	i := newInterp(t)
	if _, err := i.RunStatement(parse(t, "break;").Statements[0]); err == nil {
		t.Fatal("stray break not reported")
	}
	if _, err := i.RunStatement(parse(t, "while (true) { break missing; }").Statements[0]); err == nil {
		t.Fatal("unmatched label not reported")
	}
}

func TestBreakCannotEscapeFunctionBody(t *testing.T) {
	i := newInterp(t)
	src := "let f = fn() { break; }; while (true) { f(); }"
	got := runErr(t, i, src)
	want := `E_INVARG (break outside of a loop)`
	if got != want {
		t.Errorf("error = %q, want %q", got, want)
	}

	src = "let g = fn() { continue; }; while (true) { g(); }"
	got = runErr(t, i, src)
	want = `E_INVARG (continue outside of a loop)`
	if got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestTryCatchFinally(t *testing.T) {
	i := newInterp(t)
	src := "let ran = false; let caught = null; " +
		"try { raise(E_PERM); } catch (e) { caught = e; } finally { ran = true; } " +
		"{ran, caught};"
	got := run(t, i, src)
	list := got.(*runtime.List)
	if list.Elems[0] != runtime.Bool(true) {
		t.Error("finally did not run")
	}
	e, ok := list.Elems[1].(*runtime.Err)
	if !ok || e.Code != runtime.EPERM {
		t.Errorf("caught = %s", list.Elems[1].Inspect())
	}
}

func TestFinallyRunsOnPropagation(t *testing.T) {
	i := newInterp(t)
	run(t, i, "let ran = false;")
	_, err := i.RunStatement(parse(t, "try { raise(E_TYPE); } finally { ran = true; }").Statements[0])
	if err == nil {
		t.Fatal("raise swallowed without a catch")
	}
	if run(t, i, "ran;") != runtime.Bool(true) {
		t.Error("finally skipped on propagation")
	}
}

func TestFinallyRunsOnBreak(t *testing.T) {
	src := `
let ran = false;
while (true) {
	try {
		break;
	} finally {
		ran = true;
	}
}
ran;
`
	if run(t, newInterp(t), src) != runtime.Bool(true) {
		t.Error("finally skipped on break")
	}
}

func TestCatchWithoutBinding(t *testing.T) {
	wantInt(t, run(t, newInterp(t), "let x = 0; try { raise(E_TYPE); } catch { x = 1; } x;"), 1)
}

func TestLambdas(t *testing.T) {
	i := newInterp(t)
	wantInt(t, run(t, i, "let add = fn (a, b) { return a + b; }; add(2, 3);"), 5)
	wantInt(t, run(t, i, "let double = fn (x) => x * 2; double(21);"), 42)

	// Closures share the defining environment.
	src := `
let counter = 0;
let bump = fn () { counter = counter + 1; return counter; };
bump();
bump();
counter;
`
	wantInt(t, run(t, newInterp(t), src), 2)
}

func TestLambdaArity(t *testing.T) {
	msg := runErr(t, newInterp(t), "let f = fn (a, b) { return a; }; f(1);")
	if msg != "E_ARGS (pattern needs at least 2 values, got 1)" {
		t.Errorf("msg = %q", msg)
	}
}

func TestLambdaOptionalAndRest(t *testing.T) {
	i := newInterp(t)
	wantInt(t, run(t, i, "let f = fn (a, ?b = 10) { return a + b; }; f(1);"), 11)
	wantInt(t, run(t, i, "f(1, 2);"), 3)
	got := run(t, i, "let g = fn (@rest) { return rest; }; g(1, 2, 3);")
	if list := got.(*runtime.List); len(list.Elems) != 3 {
		t.Errorf("rest = %s", got.Inspect())
	}
}

func TestRecursionLimit(t *testing.T) {
	i := newInterp(t)
	i.SetMaxDepth(16)
	msg := runErr(t, i, "let loop = fn (n) { return loop(n + 1); }; loop(0);")
	if msg != "E_MAXREC (call depth limit of 16 exceeded)" {
		t.Errorf("msg = %q", msg)
	}
}

func TestIterationCeiling(t *testing.T) {
	i := newInterp(t)
	i.SetMaxTicks(50)
	msg := runErr(t, i, "while (true) { }")
	if msg != "E_MAXREC (iteration limit of 50 exceeded)" {
		t.Errorf("msg = %q", msg)
	}
}

func TestYieldHookFires(t *testing.T) {
	i := newInterp(t)
	yields := 0
	i.Yield = func() { yields++ }
	run(t, i, "let n = 0; while (n < 5) { n = n + 1; }")
	if yields != 5 {
		t.Errorf("yields = %d, want 5", yields)
	}
}

func TestIndexing(t *testing.T) {
	i := newInterp(t)
	wantInt(t, run(t, i, "let l = {10, 20, 30}; l[2];"), 20)
	wantInt(t, run(t, i, "l[2] = 99; l[2];"), 99)
	got := run(t, i, `"hello"[1];`)
	if got != runtime.Str("h") {
		t.Errorf("string index = %s", got.Inspect())
	}
	runErr(t, i, "l[0];")
	runErr(t, i, "l[4];")
}

func TestMapValues(t *testing.T) {
	i := newInterp(t)
	wantInt(t, run(t, i, `let m = ["a" -> 1, "b" -> 2]; m["b"];`), 2)
	wantInt(t, run(t, i, `m["c"] = 3; m["c"];`), 3)
	if run(t, i, `"a" in m;`) != runtime.Bool(true) {
		t.Error("key membership")
	}
	wantInt(t, run(t, i, "let total = 0; for (k in m) { total = total + m[k]; } total;"), 6)
	runErr(t, i, `m["missing"];`)
}

func TestObjectDefinitionAndVerbs(t *testing.T) {
	i := newInterp(t)
	src := `
object thing {
	property weight = 10;
	verb heft () {
		return this.weight * 2;
	}
}
`
	run(t, i, src)
	wantInt(t, run(t, i, "$thing.weight;"), 10)
	wantInt(t, run(t, i, "$thing:heft();"), 20)
}

func TestVerbInheritanceUsesCaller(t *testing.T) {
	i := newInterp(t)
	src := `
object animal {
	property sound = "...";
	verb speak () {
		return this.sound;
	}
}
object dog extends animal {
	property sound = "woof";
}
`
	run(t, i, src)
	got := run(t, i, "$dog:speak();")
	if got != runtime.Str("woof") {
		t.Errorf("speak = %s", got.Inspect())
	}
}

func TestPropertyCopyDownThroughAssignment(t *testing.T) {
	i := newInterp(t)
	run(t, i, `
object a {
	property x = 1;
}
object b extends a {
}
`)
	wantInt(t, run(t, i, "$b.x;"), 1)
	run(t, i, "$b.x = 2;")
	wantInt(t, run(t, i, "$b.x;"), 2)
	wantInt(t, run(t, i, "$a.x;"), 1)
}

func TestUndefinedPropertyAndVerb(t *testing.T) {
	i := newInterp(t)
	run(t, i, "object empty { }")
	msg := runErr(t, i, "$empty.ghost;")
	if msg != `E_PROPNF (property "ghost" not found on #2)` {
		t.Errorf("msg = %q", msg)
	}
	runErr(t, i, "$empty:ghost();")
}

func TestVerbArgsBinding(t *testing.T) {
	i := newInterp(t)
	run(t, i, `
object adder {
	verb add (a, b) {
		return a + b;
	}
}
`)
	wantInt(t, run(t, i, "$adder:add(2, 3);"), 5)
	runErr(t, i, "$adder:add(1);")
}

func TestUncaughtRaiseCarriesTrace(t *testing.T) {
	i := newInterp(t)
	run(t, i, `
object deep {
	verb inner () {
		raise(E_TYPE);
	}
	verb outer () {
		return this:inner();
	}
}
`)
	_, err := i.RunStatement(parse(t, "$deep:outer();").Statements[0])
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if len(err.Trace) != 2 {
		t.Fatalf("trace depth = %d, want 2", len(err.Trace))
	}
	if err.Trace[0].Name != "outer" || err.Trace[1].Name != "inner" {
		t.Errorf("trace = %v", err.Trace)
	}
}

func TestErrorNamesEvaluate(t *testing.T) {
	got := run(t, newInterp(t), "E_TYPE == E_TYPE;")
	if got != runtime.Bool(true) {
		t.Error("error codes should compare equal by code")
	}
	got = run(t, newInterp(t), "E_TYPE == E_DIV;")
	if got != runtime.Bool(false) {
		t.Error("distinct codes compared equal")
	}
}
