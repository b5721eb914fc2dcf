package runtime

import "testing"

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Null{}, false},
		{Bool(false), false},
		{Bool(true), true},
		{Int(0), false},
		{Int(-1), true},
		{Float(0), false},
		{Float(0.1), true},
		{Str(""), false},
		{Str("x"), true},
		{&List{}, false},
		{&List{Elems: []Value{Int(1)}}, true},
		{NewMap(), false},
		{Obj(0), true},
		{NewErr(ETYPE, ""), true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", tt.v.Inspect(), got, tt.want)
		}
	}
}

func TestEqualsNumericPromotion(t *testing.T) {
	if !Equals(Int(1), Float(1.0)) {
		t.Errorf("1 == 1.0 should hold")
	}
	if Equals(Int(1), Str("1")) {
		t.Errorf("1 == \"1\" should not hold")
	}
	a := &List{Elems: []Value{Int(1), Str("x")}}
	b := &List{Elems: []Value{Float(1.0), Str("x")}}
	if !Equals(a, b) {
		t.Errorf("lists should compare element-wise with promotion")
	}
}

func TestMapOrderAndKinds(t *testing.T) {
	m := NewMap()
	m.Set(Str("b"), Int(2))
	m.Set(Str("a"), Int(1))
	m.Set(Int(1), Str("int key"))
	m.Set(Float(1), Str("float key"))

	if m.Len() != 4 {
		t.Fatalf("len = %d, want 4: int and float keys stay distinct", m.Len())
	}
	if got := m.Inspect(); got != `["b" -> 2, "a" -> 1, 1 -> "int key", 1.0 -> "float key"]` {
		t.Errorf("insertion order not kept: %s", got)
	}

	m.Set(Str("b"), Int(9))
	if v, _ := m.Get(Str("b")); v.(Int) != 9 {
		t.Errorf("overwrite failed")
	}
	if m.Keys()[0].(Str) != "b" {
		t.Errorf("overwrite should keep position")
	}

	if ok := m.Set(&List{}, Int(1)); ok {
		t.Errorf("list keys must be rejected")
	}
}

func TestMapDelete(t *testing.T) {
	m := NewMap()
	m.Set(Str("a"), Int(1))
	m.Set(Str("b"), Int(2))
	m.Set(Str("c"), Int(3))
	if !m.Delete(Str("b")) {
		t.Fatalf("delete failed")
	}
	if _, found := m.Get(Str("b")); found {
		t.Errorf("deleted key still present")
	}
	if v, found := m.Get(Str("c")); !found || v.(Int) != 3 {
		t.Errorf("index not rebuilt after delete")
	}
}

func TestEnvironmentChain(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", Int(1), false)
	global.Define("k", Int(10), true)

	inner := NewEnclosedEnvironment(global)
	if v, ok := inner.Get("x"); !ok || v.(Int) != 1 {
		t.Fatalf("lookup through chain failed")
	}

	if res := inner.Assign("x", Int(2)); res != Assigned {
		t.Fatalf("assign through chain = %v", res)
	}
	if v, _ := global.Get("x"); v.(Int) != 2 {
		t.Errorf("assignment should hit the defining scope")
	}

	if res := inner.Assign("k", Int(0)); res != IsConst {
		t.Errorf("const reassignment = %v, want IsConst", res)
	}
	if res := inner.Assign("missing", Int(0)); res != NotFound {
		t.Errorf("unknown name = %v, want NotFound", res)
	}

	// Shadowing a const with a new let in a child scope is allowed.
	if !inner.Define("k", Int(99), false) {
		t.Errorf("shadowing in a child scope should succeed")
	}
	if v, _ := inner.Get("k"); v.(Int) != 99 {
		t.Errorf("shadow not visible")
	}
	if v, _ := global.Get("k"); v.(Int) != 10 {
		t.Errorf("outer const modified by shadow")
	}
}

func TestClosureSharesEnvironment(t *testing.T) {
	global := NewEnvironment()
	global.Define("n", Int(1), false)
	captured := global

	global.Assign("n", Int(5))
	if v, _ := captured.Get("n"); v.(Int) != 5 {
		t.Errorf("captured environment should see later writes")
	}
}
