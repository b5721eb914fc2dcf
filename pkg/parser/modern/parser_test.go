package modern

import (
	"strings"
	"testing"
)

func parseOne(t *testing.T, input string) Stmt {
	t.Helper()
	prog, errs := ParseString(input)
	if len(errs) != 0 {
		t.Fatalf("parse errors for %q: %v", input, errs)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	return prog.Stmts[0]
}

func TestLetConst(t *testing.T) {
	stmt := parseOne(t, "let x = 1 + 2;")
	let, ok := stmt.(*Let)
	if !ok || let.Const {
		t.Fatalf("expected let, got %T const=%v", stmt, let.Const)
	}
	if _, ok := let.Value.(*Binary); !ok {
		t.Errorf("value should be binary, got %T", let.Value)
	}

	stmt = parseOne(t, `const name = "rock";`)
	let = stmt.(*Let)
	if !let.Const {
		t.Errorf("expected const binding")
	}
}

func TestLetScatter(t *testing.T) {
	stmt := parseOne(t, "let {a, ?b = 0, @rest} = args;")
	let := stmt.(*Let)
	list, ok := let.Target.(*List)
	if !ok {
		t.Fatalf("target should be list pattern, got %T", let.Target)
	}
	if len(list.Elems) != 3 || !list.Elems[2].Rest {
		t.Errorf("pattern elems wrong: %+v", list.Elems)
	}
}

func TestIfElseChain(t *testing.T) {
	input := `
if (x > 10) {
  y = 1;
} else if (x > 5) {
  y = 2;
} else {
  y = 3;
}
`
	stmt := parseOne(t, input)
	ifs := stmt.(*If)
	chained, ok := ifs.Else.(*If)
	if !ok {
		t.Fatalf("else branch should chain to if, got %T", ifs.Else)
	}
	if _, ok := chained.Else.(*Block); !ok {
		t.Errorf("final else should be a block, got %T", chained.Else)
	}
}

func TestLabeledLoops(t *testing.T) {
	input := `
while outer (true) {
  for inner (x in items) {
    continue outer;
  }
}
`
	stmt := parseOne(t, input)
	w := stmt.(*While)
	if w.Label != "outer" {
		t.Errorf("while label = %q", w.Label)
	}
	f := w.Body.Stmts[0].(*ForIn)
	if f.Label != "inner" || f.Var != "x" {
		t.Errorf("for label/var = %q/%q", f.Label, f.Var)
	}
	c := f.Body.Stmts[0].(*Continue)
	if c.Label != "outer" {
		t.Errorf("continue label = %q", c.Label)
	}
}

func TestTryCatchFinally(t *testing.T) {
	stmt := parseOne(t, "try {\n risky();\n} catch (e) {\n log(e);\n} finally {\n cleanup();\n}\n")
	tr := stmt.(*Try)
	if tr.CatchVar != "e" || tr.Catch == nil || tr.Finally == nil {
		t.Errorf("try clauses wrong: var=%q catch=%v finally=%v", tr.CatchVar, tr.Catch != nil, tr.Finally != nil)
	}

	stmt = parseOne(t, "try {\n risky();\n} catch {\n}\n")
	tr = stmt.(*Try)
	if tr.CatchVar != "" || tr.Catch == nil {
		t.Errorf("bare catch should parse without a variable")
	}
}

func TestTryRequiresHandler(t *testing.T) {
	_, errs := ParseString("try {\n x = 1;\n}\n")
	if len(errs) == 0 {
		t.Fatalf("try without catch or finally should be an error")
	}
}

func TestLambdaForms(t *testing.T) {
	stmt := parseOne(t, "let add = fn (a, b) { return a + b; };")
	lam, ok := stmt.(*Let).Value.(*Lambda)
	if !ok {
		t.Fatalf("value should be lambda, got %T", stmt.(*Let).Value)
	}
	if len(lam.Params) != 2 {
		t.Errorf("params = %d", len(lam.Params))
	}

	stmt = parseOne(t, "let double = fn (x) => x * 2;")
	lam = stmt.(*Let).Value.(*Lambda)
	if len(lam.Body.Stmts) != 1 {
		t.Fatalf("arrow body should be one statement")
	}
	ret, ok := lam.Body.Stmts[0].(*Return)
	if !ok || ret.Value == nil {
		t.Errorf("arrow body should desugar to return, got %T", lam.Body.Stmts[0])
	}
}

func TestLambdaCall(t *testing.T) {
	stmt := parseOne(t, "let y = f(1)(2);")
	outer, ok := stmt.(*Let).Value.(*Call)
	if !ok {
		t.Fatalf("value should be call, got %T", stmt.(*Let).Value)
	}
	if _, ok := outer.Callee.(*Call); !ok {
		t.Errorf("curried call should nest, got %T", outer.Callee)
	}
}

func TestMapLiteral(t *testing.T) {
	stmt := parseOne(t, `let m = ["north" -> #10, "south" -> #11];`)
	m := stmt.(*Let).Value.(*MapLit)
	if len(m.Entries) != 2 {
		t.Fatalf("entries = %d", len(m.Entries))
	}
	if _, ok := m.Entries[0].Key.(*Str); !ok {
		t.Errorf("key should be string, got %T", m.Entries[0].Key)
	}
	if _, ok := m.Entries[1].Value.(*ObjRef); !ok {
		t.Errorf("value should be objref, got %T", m.Entries[1].Value)
	}

	stmt = parseOne(t, "let empty = [];")
	if m := stmt.(*Let).Value.(*MapLit); len(m.Entries) != 0 {
		t.Errorf("[] should be an empty map")
	}
}

func TestConditionalVsVerbCall(t *testing.T) {
	stmt := parseOne(t, `msg = ok ? this:describe() | "nothing";`)
	asn := stmt.(*Assign)
	cond := asn.Value.(*Cond)
	if _, ok := cond.Then.(*VerbCall); !ok {
		t.Errorf("then branch should be verb call, got %T", cond.Then)
	}
}

func TestObjectDef(t *testing.T) {
	input := `
object lantern extends $thing {
  property lit = false;
  verb "light ignite" "rx" (?who = this) {
    this.lit = true;
  }
  event extinguished (who) {
    who:tell("the light dies");
  }
}
`
	stmt := parseOne(t, input)
	obj := stmt.(*Object)
	if obj.Name != "lantern" {
		t.Errorf("name = %q", obj.Name)
	}
	if len(obj.Members) != 3 {
		t.Fatalf("members = %d", len(obj.Members))
	}
	vb := obj.Members[1].(*VerbDef)
	if vb.Names != "light ignite" || vb.Perms != "rx" {
		t.Errorf("verb names/perms = %q/%q", vb.Names, vb.Perms)
	}
}

func TestChainedAssignment(t *testing.T) {
	prog, errs := ParseString("x = y = 5;")
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	asn, ok := prog.Stmts[0].(*Assign)
	if !ok {
		t.Fatalf("expected assignment, got %T", prog.Stmts[0])
	}
	inner, ok := asn.Value.(*AssignExpr)
	if !ok {
		t.Fatalf("value should be a nested assignment, got %T", asn.Value)
	}
	if id, ok := inner.Target.(*Ident); !ok || id.Name != "y" {
		t.Errorf("inner target = %#v", inner.Target)
	}
	if _, ok := inner.Value.(*Int); !ok {
		t.Errorf("inner value = %T", inner.Value)
	}

	prog, errs = ParseString("let a = b = 1;")
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	let := prog.Stmts[0].(*Let)
	if _, ok := let.Value.(*AssignExpr); !ok {
		t.Errorf("let value should be a nested assignment, got %T", let.Value)
	}

	if _, errs = ParseString("x = 1 + 2 = 5;"); len(errs) == 0 {
		t.Error("non-target in a chain should be rejected")
	}
}

func TestRecoveryInsideBlock(t *testing.T) {
	input := `
if (true) {
  x = ;
  y = 2;
}
`
	prog, errs := ParseString(input)
	if len(errs) == 0 {
		t.Fatalf("expected syntax error")
	}
	ifs, ok := prog.Stmts[0].(*If)
	if !ok {
		t.Fatalf("if should survive inner error, got %T", prog.Stmts[0])
	}
	if len(ifs.Then.Stmts) != 2 {
		t.Fatalf("block statements = %d, want 2", len(ifs.Then.Stmts))
	}
	if _, ok := ifs.Then.Stmts[0].(*Unparsed); !ok {
		t.Errorf("first inner statement should be unparsed, got %T", ifs.Then.Stmts[0])
	}
	if _, ok := ifs.Then.Stmts[1].(*Assign); !ok {
		t.Errorf("second inner statement should parse, got %T", ifs.Then.Stmts[1])
	}
}

func TestUnparsedKeepsText(t *testing.T) {
	prog, _ := ParseString("let = 5;\n")
	up, ok := prog.Stmts[0].(*Unparsed)
	if !ok {
		t.Fatalf("expected unparsed, got %T", prog.Stmts[0])
	}
	if !strings.Contains(up.Text, "let") {
		t.Errorf("unparsed text = %q", up.Text)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"let x = 1;", false},
		{"if (x) {", true},
		{"if (x) {\n y = 1;\n}", false},
		{"let x = 1 +", true},
		{`let s = "open`, true},
		{`let s = "done";`, false},
		{"let f = fn (x) =>", true},
		{"try {\n a();\n} catch", true},
	}
	for _, tt := range tests {
		if got := Incomplete(tt.input); got != tt.want {
			t.Errorf("Incomplete(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
