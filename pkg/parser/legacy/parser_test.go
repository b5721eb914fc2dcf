package legacy

import (
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

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		// expected shape described by the operator at the root
		rootOp string
	}{
		{"1 + 2 * 3;", "+"},
		{"1 * 2 + 3;", "+"},
		{"1 < 2 && 3 < 4;", "&&"},
		{"a && b || c;", "||"},
		{"x in lst == true;", "=="},
		{"2 ^ 3 ^ 2;", "^"},
	}
	for _, tt := range tests {
		stmt := parseOne(t, tt.input)
		es, ok := stmt.(*ExprStmt)
		if !ok {
			t.Fatalf("%q: expected expression statement, got %T", tt.input, stmt)
		}
		bin, ok := es.Expr.(*Binary)
		if !ok {
			t.Fatalf("%q: expected binary at root, got %T", tt.input, es.Expr)
		}
		if bin.Op != tt.rootOp {
			t.Errorf("%q: root op = %q, want %q", tt.input, bin.Op, tt.rootOp)
		}
	}
}

func TestPowerRightAssociative(t *testing.T) {
	stmt := parseOne(t, "2 ^ 3 ^ 2;")
	bin := stmt.(*ExprStmt).Expr.(*Binary)
	if _, ok := bin.Left.(*Int); !ok {
		t.Errorf("left of ^ should be the literal 2, got %T", bin.Left)
	}
	if _, ok := bin.Right.(*Binary); !ok {
		t.Errorf("right of ^ should be nested (3 ^ 2), got %T", bin.Right)
	}
}

func TestConditionalExpr(t *testing.T) {
	stmt := parseOne(t, `x = a > 0 ? "pos" | "neg";`)
	asn, ok := stmt.(*Assign)
	if !ok {
		t.Fatalf("expected assignment, got %T", stmt)
	}
	cond, ok := asn.Value.(*Cond)
	if !ok {
		t.Fatalf("expected conditional value, got %T", asn.Value)
	}
	if _, ok := cond.Cond.(*Binary); !ok {
		t.Errorf("condition should be a comparison, got %T", cond.Cond)
	}
}

func TestAccessChain(t *testing.T) {
	stmt := parseOne(t, `$room.contents[1]:tell("hi");`)
	vc, ok := stmt.(*ExprStmt).Expr.(*VerbCall)
	if !ok {
		t.Fatalf("expected verb call at root, got %T", stmt.(*ExprStmt).Expr)
	}
	if vc.Verb != "tell" || len(vc.Args) != 1 {
		t.Errorf("verb call = %s/%d args", vc.Verb, len(vc.Args))
	}
	idx, ok := vc.Object.(*Index)
	if !ok {
		t.Fatalf("receiver should be an index, got %T", vc.Object)
	}
	prop, ok := idx.Object.(*Prop)
	if !ok || prop.Name != "contents" {
		t.Fatalf("indexed object should be $room.contents, got %T", idx.Object)
	}
	if _, ok := prop.Object.(*SysRef); !ok {
		t.Errorf("base should be a sysref, got %T", prop.Object)
	}
}

func TestIfChain(t *testing.T) {
	input := `
if (x > 10)
  y = 1;
elseif (x > 5)
  y = 2;
else
  y = 3;
endif
`
	stmt := parseOne(t, input)
	ifs, ok := stmt.(*If)
	if !ok {
		t.Fatalf("expected if, got %T", stmt)
	}
	if len(ifs.Elseifs) != 1 {
		t.Errorf("elseif count = %d, want 1", len(ifs.Elseifs))
	}
	if !ifs.HasElse || len(ifs.Else) != 1 {
		t.Errorf("missing else branch")
	}
}

func TestLabeledWhile(t *testing.T) {
	input := `
while outer (true)
  while (true)
    break outer;
  endwhile
endwhile
`
	stmt := parseOne(t, input)
	w := stmt.(*While)
	if w.Label != "outer" {
		t.Errorf("label = %q, want outer", w.Label)
	}
	inner := w.Body[0].(*While)
	br := inner.Body[0].(*Break)
	if br.Label != "outer" {
		t.Errorf("break label = %q, want outer", br.Label)
	}
}

func TestForIn(t *testing.T) {
	stmt := parseOne(t, "for item in (this.contents)\n item:tell(msg);\nendfor\n")
	f := stmt.(*ForIn)
	if f.Var != "item" {
		t.Errorf("loop var = %q", f.Var)
	}
	if len(f.Body) != 1 {
		t.Errorf("body length = %d", len(f.Body))
	}
}

func TestTryExceptFinally(t *testing.T) {
	input := `
try
  risky();
except e
  log(e);
finally
  cleanup();
endtry
`
	stmt := parseOne(t, input)
	tr := stmt.(*Try)
	if !tr.HasExcept || tr.ExceptVar != "e" {
		t.Errorf("except var = %q", tr.ExceptVar)
	}
	if !tr.HasFinally {
		t.Errorf("finally missing")
	}
}

func TestTryRequiresHandler(t *testing.T) {
	_, errs := ParseString("try\n x = 1;\nendtry\n")
	if len(errs) == 0 {
		t.Fatalf("try without except or finally should be an error")
	}
}

func TestScatterAssign(t *testing.T) {
	stmt := parseOne(t, "{first, ?second = 0, @rest} = args;")
	asn := stmt.(*Assign)
	list := asn.Target.(*List)
	if len(list.Elems) != 3 {
		t.Fatalf("elems = %d", len(list.Elems))
	}
	if list.Elems[1].Name != "second" || !list.Elems[1].Optional {
		t.Errorf("second element should be optional binding")
	}
	if list.Elems[2].Name != "rest" || !list.Elems[2].Rest {
		t.Errorf("third element should be rest binding")
	}
}

func TestObjectDef(t *testing.T) {
	input := `
object chest extends $container
  property capacity = 10;
  property label "rc" = "oak chest";
  verb "open unlock" (?who = this)
    this.opened = true;
  endverb
  event arrived (who)
    who:tell("creak");
  endevent
endobject
`
	stmt := parseOne(t, input)
	obj := stmt.(*Object)
	if obj.Name != "chest" {
		t.Errorf("name = %q", obj.Name)
	}
	if _, ok := obj.Parent.(*SysRef); !ok {
		t.Errorf("parent should be a sysref, got %T", obj.Parent)
	}
	if len(obj.Members) != 4 {
		t.Fatalf("members = %d, want 4", len(obj.Members))
	}
	prop := obj.Members[1].(*PropertyDef)
	if prop.Perms != "rc" {
		t.Errorf("perms = %q", prop.Perms)
	}
	vb := obj.Members[2].(*VerbDef)
	if vb.Names != "open unlock" {
		t.Errorf("verb names = %q", vb.Names)
	}
	if len(vb.Params) != 1 || !vb.Params[0].Optional {
		t.Errorf("verb params wrong: %+v", vb.Params)
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

	if _, errs = ParseString("x = 1 + 2 = 5;"); len(errs) == 0 {
		t.Error("non-target in a chain should be rejected")
	}
}

func TestRecoveryProducesUnparsed(t *testing.T) {
	prog, errs := ParseString("x = ;\ny = 2;\n")
	if len(errs) == 0 {
		t.Fatalf("expected syntax error")
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(prog.Stmts))
	}
	if _, ok := prog.Stmts[0].(*Unparsed); !ok {
		t.Errorf("first statement should be unparsed, got %T", prog.Stmts[0])
	}
	if _, ok := prog.Stmts[1].(*Assign); !ok {
		t.Errorf("second statement should parse, got %T", prog.Stmts[1])
	}
}

func TestRecoveryInsideBlock(t *testing.T) {
	input := `
if (true)
  x = ;
  y = 2;
endif
z = 3;
`
	prog, errs := ParseString(input)
	if len(errs) == 0 {
		t.Fatalf("expected syntax error")
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(prog.Stmts))
	}
	ifs, ok := prog.Stmts[0].(*If)
	if !ok {
		t.Fatalf("if should survive inner error, got %T", prog.Stmts[0])
	}
	if len(ifs.Then) != 2 {
		t.Fatalf("body statements = %d, want 2", len(ifs.Then))
	}
	if _, ok := ifs.Then[0].(*Unparsed); !ok {
		t.Errorf("first body statement should be unparsed, got %T", ifs.Then[0])
	}
	if _, ok := ifs.Then[1].(*Assign); !ok {
		t.Errorf("second body statement should parse, got %T", ifs.Then[1])
	}
	if _, ok := prog.Stmts[1].(*Assign); !ok {
		t.Errorf("statement after the if should parse, got %T", prog.Stmts[1])
	}
}

func TestErrorReportsExpectedSet(t *testing.T) {
	_, errs := ParseString("if (x > 1)\n y = 1;\n")
	if len(errs) == 0 {
		t.Fatalf("expected an error for missing endif")
	}
	found := false
	for _, e := range errs {
		if containsAny(e.Message(), "endif", "elseif", "else") {
			found = true
		}
	}
	if !found {
		t.Errorf("error should name the expected terminators: %v", errs)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if len(sub) > 0 && contains(s, sub) {
			return true
		}
	}
	return false
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"x = 1;", false},
		{"if (x > 1)", true},
		{"if (x > 1)\n y = 1;\nendif", false},
		{"{1, 2,", true},
		{`x = "unterminated`, true},
		{`x = "closed";`, false},
		{"x = ~;", false},
		{"while (true)\n noop();", true},
		{"object foo\nendobject", false},
	}
	for _, tt := range tests {
		if got := Incomplete(tt.input); got != tt.want {
			t.Errorf("Incomplete(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
