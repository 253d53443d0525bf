package registry

import (
	"testing"

	"github.com/cwbudde/coolc/internal/ast"
)

func TestNewRegistersBuiltins(t *testing.T) {
	r := New()
	for _, name := range []string{Object, IO, Int, String, Bool} {
		if !r.IsRegistered(name) {
			t.Errorf("expected builtin %s to be registered", name)
		}
	}
	id, _ := r.IDOf(Object)
	if id != 0 {
		t.Errorf("expected Object to have id 0, got %d", id)
	}
}

func TestAddClass(t *testing.T) {
	t.Run("rejects reserved name", func(t *testing.T) {
		r := New()
		if err := r.AddClass(&ast.Class{Name: Int}); err == nil {
			t.Error("expected error redefining Int")
		}
	})

	t.Run("rejects duplicate", func(t *testing.T) {
		r := New()
		if err := r.AddClass(&ast.Class{Name: "A"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := r.AddClass(&ast.Class{Name: "A"}); err == nil {
			t.Error("expected error redefining A")
		}
	})

	t.Run("defaults parent to Object", func(t *testing.T) {
		r := New()
		c := &ast.Class{Name: "A"}
		if err := r.AddClass(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Parent != Object {
			t.Errorf("expected parent Object, got %s", c.Parent)
		}
	})

	t.Run("rejects Int/String/Bool/SELF_TYPE as parent", func(t *testing.T) {
		for _, parent := range []string{Int, String, Bool, SelfType} {
			r := New()
			if err := r.AddClass(&ast.Class{Name: "A", Parent: parent}); err == nil {
				t.Errorf("expected error inheriting from %s", parent)
			}
		}
	})
}

func TestCheckInheritance(t *testing.T) {
	t.Run("accepts acyclic tree", func(t *testing.T) {
		r := New()
		r.AddClass(&ast.Class{Name: "A", Parent: Object})
		r.AddClass(&ast.Class{Name: "B", Parent: "A"})
		if err := r.CheckInheritance(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects undefined parent", func(t *testing.T) {
		r := New()
		r.namesToIds["A"] = 99
		r.idsToNodes[99] = &ast.Class{Name: "A", Parent: "Ghost"}
		r.order = append(r.order, "A")
		r.parentOf["A"] = "Ghost"
		if err := r.CheckInheritance(); err == nil {
			t.Error("expected undefined-parent error")
		}
	})

	t.Run("rejects a cycle", func(t *testing.T) {
		r := New()
		r.AddClass(&ast.Class{Name: "A", Parent: "B"})
		r.AddClass(&ast.Class{Name: "B", Parent: "A"})
		if err := r.CheckInheritance(); err == nil {
			t.Error("expected cyclic-dependency error")
		}
	})
}

func TestConformTo(t *testing.T) {
	r := New()
	r.AddClass(&ast.Class{Name: "A", Parent: Object})
	r.AddClass(&ast.Class{Name: "B", Parent: "A"})
	r.AddClass(&ast.Class{Name: "C", Parent: Object})

	cases := []struct {
		child, parent ast.ExprType
		want          bool
	}{
		{ast.ConcreteType("B"), ast.ConcreteType("A"), true},
		{ast.ConcreteType("B"), ast.ConcreteType("C"), false},
		{ast.ConcreteType("A"), ast.ConcreteType(Object), true},
		{ast.SelfType("B"), ast.ConcreteType("A"), true},
		{ast.ConcreteType("B"), ast.SelfType("A"), false},
		{ast.SelfType("B"), ast.SelfType("B"), true},
		{ast.SelfType("B"), ast.SelfType("C"), false},
	}
	for _, c := range cases {
		if got := r.ConformTo(c.child, c.parent); got != c.want {
			t.Errorf("ConformTo(%v, %v) = %v, want %v", c.child, c.parent, got, c.want)
		}
	}
}

func TestLeastCommonAncestor(t *testing.T) {
	r := New()
	r.AddClass(&ast.Class{Name: "A", Parent: Object})
	r.AddClass(&ast.Class{Name: "B", Parent: "A"})
	r.AddClass(&ast.Class{Name: "C", Parent: "A"})
	r.AddClass(&ast.Class{Name: "D", Parent: "B"})

	lca := r.LeastCommonAncestor(ast.ConcreteType("D"), ast.ConcreteType("C"))
	if lca.ClassName != "A" {
		t.Errorf("expected LCA A, got %s", lca.ClassName)
	}

	t.Run("symmetric", func(t *testing.T) {
		a := r.LeastCommonAncestor(ast.ConcreteType("D"), ast.ConcreteType("C"))
		b := r.LeastCommonAncestor(ast.ConcreteType("C"), ast.ConcreteType("D"))
		if !a.Equals(b) {
			t.Errorf("LCA not symmetric: %v vs %v", a, b)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		a := r.LeastCommonAncestor(ast.ConcreteType("D"), ast.ConcreteType("D"))
		if a.ClassName != "D" {
			t.Errorf("expected LCA(D,D) = D, got %s", a.ClassName)
		}
	})

	t.Run("same SELF_TYPE enclosing class stays SELF_TYPE", func(t *testing.T) {
		a := r.LeastCommonAncestor(ast.SelfType("D"), ast.SelfType("D"))
		if !a.IsSelf || a.ClassName != "D" {
			t.Errorf("expected SELF_TYPE(D), got %v", a)
		}
	})
}
