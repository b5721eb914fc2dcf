package object

import (
	"strings"
	"testing"

	"coral/pkg/runtime"
)

func TestCreateAndParentChain(t *testing.T) {
	m := NewModel(NewMemStore())

	thing, err := m.Create(RootID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	door, err := m.Create(thing)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := m.Parent(door)
	if err != nil {
		t.Fatalf("parent: %v", err)
	}
	if p != thing {
		t.Errorf("parent of %s = %s, want %s", door.Inspect(), p.Inspect(), thing.Inspect())
	}

	kids, err := m.Children(thing)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(kids) != 1 || kids[0] != door {
		t.Errorf("children = %v, want [%s]", kids, door.Inspect())
	}
}

func TestCreateInvalidParent(t *testing.T) {
	m := NewModel(NewMemStore())
	if _, err := m.Create(runtime.Obj(99)); err == nil || err.Code != runtime.EINVARG {
		t.Errorf("want E_INVARG, got %v", err)
	}
}

func TestPropertyResolutionFirstDefinitionWins(t *testing.T) {
	m := NewModel(NewMemStore())
	mid, _ := m.Create(RootID)
	leaf, _ := m.Create(mid)

	if err := m.DefineProperty(RootID, "size", runtime.Int(1), "rw"); err != nil {
		t.Fatal(err)
	}
	if err := m.DefineProperty(mid, "size", runtime.Int(2), "rw"); err != nil {
		t.Fatal(err)
	}

	got, err := m.GetProperty(leaf, "size")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != runtime.Int(2) {
		t.Errorf("got %s, want 2", got.Inspect())
	}
}

func TestPropertyNotFound(t *testing.T) {
	m := NewModel(NewMemStore())
	obj, _ := m.Create(RootID)
	if _, err := m.GetProperty(obj, "ghost"); err == nil || err.Code != runtime.EPROPNF {
		t.Errorf("want E_PROPNF, got %v", err)
	}
	if err := m.SetProperty(obj, "ghost", runtime.Int(1)); err == nil || err.Code != runtime.EPROPNF {
		t.Errorf("set: want E_PROPNF, got %v", err)
	}
}

func TestCopyDownOnInheritedWrite(t *testing.T) {
	m := NewModel(NewMemStore())
	parent, _ := m.Create(RootID)
	child, _ := m.Create(parent)

	if err := m.DefineProperty(parent, "hp", runtime.Int(10), "rw"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetProperty(child, "hp", runtime.Int(3)); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, _ := m.GetProperty(child, "hp")
	if got != runtime.Int(3) {
		t.Errorf("child hp = %s, want 3", got.Inspect())
	}
	got, _ = m.GetProperty(parent, "hp")
	if got != runtime.Int(10) {
		t.Errorf("parent hp = %s, want 10 after copy-down", got.Inspect())
	}

	// The copy is direct: changing the parent afterwards does not leak
	// into the child.
	if err := m.SetProperty(parent, "hp", runtime.Int(99)); err != nil {
		t.Fatal(err)
	}
	got, _ = m.GetProperty(child, "hp")
	if got != runtime.Int(3) {
		t.Errorf("child hp = %s after parent write, want 3", got.Inspect())
	}
}

func TestPropertyNamesFoldCase(t *testing.T) {
	m := NewModel(NewMemStore())
	obj, _ := m.Create(RootID)
	if err := m.DefineProperty(obj, "Größe", runtime.Int(5), "rw"); err != nil {
		t.Fatal(err)
	}
	got, err := m.GetProperty(obj, "GRÖSSE")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != runtime.Int(5) {
		t.Errorf("got %s, want 5", got.Inspect())
	}
}

func TestChangeParentRejectsCycles(t *testing.T) {
	m := NewModel(NewMemStore())
	a, _ := m.Create(RootID)
	b, _ := m.Create(a)
	c, _ := m.Create(b)

	if err := m.ChangeParent(a, c); err == nil || err.Code != runtime.ERECMOV {
		t.Errorf("move under descendant: want E_RECMOV, got %v", err)
	}
	if err := m.ChangeParent(a, a); err == nil || err.Code != runtime.ERECMOV {
		t.Errorf("move under self: want E_RECMOV, got %v", err)
	}
	if err := m.ChangeParent(c, a); err != nil {
		t.Errorf("legal move: %v", err)
	}
	p, _ := m.Parent(c)
	if p != a {
		t.Errorf("parent = %s, want %s", p.Inspect(), a.Inspect())
	}
}

func TestResolveVerbReturnsDefiner(t *testing.T) {
	m := NewModel(NewMemStore())
	parent, _ := m.Create(RootID)
	child, _ := m.Create(parent)

	if err := m.DefineVerb(parent, Verb{Names: "look", Perms: "rx"}); err != nil {
		t.Fatal(err)
	}

	verb, definer, err := m.ResolveVerb(child, "look")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if verb.Names != "look" {
		t.Errorf("names = %q", verb.Names)
	}
	if definer != parent {
		t.Errorf("definer = %s, want %s", definer.Inspect(), parent.Inspect())
	}

	if _, _, err := m.ResolveVerb(child, "dance"); err == nil || err.Code != runtime.EVERBNF {
		t.Errorf("want E_VERBNF, got %v", err)
	}
}

func TestVerbAliasMatching(t *testing.T) {
	tests := []struct {
		names, call string
		want        bool
	}{
		{"look", "look", true},
		{"look", "loo", false},
		{"l look", "l", true},
		{"l look", "look", true},
		{"ex*amine", "ex", true},
		{"ex*amine", "exam", true},
		{"ex*amine", "examine", true},
		{"ex*amine", "examines", false},
		{"ex*amine", "e", false},
		{"get*", "get", true},
		{"get*", "getall", true},
		{"get*", "grab", false},
		{"Look", "LOOK", true},
	}
	for _, tt := range tests {
		if got := MatchVerbName(tt.names, tt.call); got != tt.want {
			t.Errorf("MatchVerbName(%q, %q) = %v, want %v", tt.names, tt.call, got, tt.want)
		}
	}
}

func TestDefineVerbReplacesByFirstAlias(t *testing.T) {
	m := NewModel(NewMemStore())
	obj, _ := m.Create(RootID)

	if err := m.DefineVerb(obj, Verb{Names: "open unlock", Perms: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := m.DefineVerb(obj, Verb{Names: "open", Perms: "rx"}); err != nil {
		t.Fatal(err)
	}

	rec, _ := m.Store().Get(obj)
	if len(rec.Verbs) != 1 {
		t.Fatalf("verbs = %d, want 1", len(rec.Verbs))
	}
	if rec.Verbs[0].Perms != "rx" {
		t.Errorf("perms = %q, want %q", rec.Verbs[0].Perms, "rx")
	}
}

func TestFlagChecker(t *testing.T) {
	m := NewModel(NewMemStore())
	m.SetChecker(FlagChecker{})
	obj, _ := m.Create(RootID)

	if err := m.DefineProperty(obj, "secret", runtime.Str("x"), "w"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GetProperty(obj, "secret"); err == nil || err.Code != runtime.EPERM {
		t.Errorf("read without r: want E_PERM, got %v", err)
	} else if !strings.Contains(err.Msg, `permissions "w" lack the r bit`) {
		t.Errorf("denial should carry the checker's reason, got %q", err.Msg)
	}

	if err := m.DefineProperty(obj, "label", runtime.Str("x"), "r"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetProperty(obj, "label", runtime.Str("y")); err == nil || err.Code != runtime.EPERM {
		t.Errorf("write without w: want E_PERM, got %v", err)
	}

	if err := m.DefineVerb(obj, Verb{Names: "hidden", Perms: "r"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.ResolveVerb(obj, "hidden"); err == nil || err.Code != runtime.EPERM {
		t.Errorf("exec without x: want E_PERM, got %v", err)
	}
}

func TestStagedCommitAndDiscard(t *testing.T) {
	base := NewMemStore()
	staged := NewStaged(base)
	m := NewModel(staged)

	obj, err := m.Create(RootID)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.DefineProperty(obj, "name", runtime.Str("lantern"), "rw"); err != nil {
		t.Fatal(err)
	}

	if _, ok := base.Get(obj); ok {
		t.Fatal("staged create visible in base before commit")
	}
	if !m.Valid(obj) {
		t.Fatal("staged create not visible through overlay")
	}

	staged.Discard()
	if m.Valid(obj) {
		t.Error("discarded object still visible")
	}

	obj2, _ := m.Create(RootID)
	if err := m.DefineProperty(obj2, "name", runtime.Str("rope"), "rw"); err != nil {
		t.Fatal(err)
	}
	staged.Commit()

	rec, ok := base.Get(obj2)
	if !ok {
		t.Fatal("committed object missing from base")
	}
	if got := rec.Props[fold("name")].Value; got != runtime.Str("rope") {
		t.Errorf("committed name = %v", got)
	}
	if staged.Dirty() {
		t.Error("overlay dirty after commit")
	}
}

func TestStagedOverlayShadowsBase(t *testing.T) {
	base := NewMemStore()
	m0 := NewModel(base)
	obj, _ := m0.Create(RootID)
	if err := m0.DefineProperty(obj, "count", runtime.Int(1), "rw"); err != nil {
		t.Fatal(err)
	}

	staged := NewStaged(base)
	m := NewModel(staged)
	if err := m.SetProperty(obj, "count", runtime.Int(2)); err != nil {
		t.Fatal(err)
	}

	got, _ := m.GetProperty(obj, "count")
	if got != runtime.Int(2) {
		t.Errorf("overlay read = %s, want 2", got.Inspect())
	}
	baseRec, _ := base.Get(obj)
	if v := baseRec.Props[fold("count")].Value; v != runtime.Int(1) {
		t.Errorf("base mutated before commit: %v", v)
	}
}

func TestFindByName(t *testing.T) {
	m := NewModel(NewMemStore())
	obj, _ := m.Create(RootID)
	if err := m.SetName(obj, "Lantern"); err != nil {
		t.Fatal(err)
	}
	got, ok := m.FindByName("lantern")
	if !ok || got != obj {
		t.Errorf("FindByName = %v %v, want %s", got, ok, obj.Inspect())
	}
	if _, ok := m.FindByName("rope"); ok {
		t.Error("unexpected match")
	}
}
