package lox

import "testing"

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", 1.0)

	v, err := env.Get(Token{Lexeme: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1.0 {
		t.Errorf("got %v, want 1.0", v)
	}
}

func TestEnvironmentGetUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	if _, err := env.Get(Token{Lexeme: "missing"}); err == nil {
		t.Fatal("expected an error reading an undefined variable")
	}
}

func TestEnvironmentGetWalksParentChain(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("a", "from parent")
	child := NewEnvironment(parent)

	v, err := child.Get(Token{Lexeme: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "from parent" {
		t.Errorf("got %v, want %q", v, "from parent")
	}
}

func TestEnvironmentAssignUpdatesNearestDefiningScope(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("a", 1.0)
	child := NewEnvironment(parent)

	if err := child.Assign(Token{Lexeme: "a"}, 2.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, _ := parent.Get(Token{Lexeme: "a"})
	if v != 2.0 {
		t.Errorf("assigning through a child scope should update the parent's binding, got %v", v)
	}
}

func TestEnvironmentAssignUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Assign(Token{Lexeme: "missing"}, 1.0); err == nil {
		t.Fatal("expected an error assigning to an undefined variable")
	}
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	grandparent := NewEnvironment(nil)
	grandparent.Define("a", 1.0)
	parent := NewEnvironment(grandparent)
	child := NewEnvironment(parent)

	if v := child.GetAt(2, "a"); v != 1.0 {
		t.Errorf("GetAt(2, ...) = %v, want 1.0", v)
	}

	child.AssignAt(2, "a", 9.0)
	if v := grandparent.values["a"]; v != 9.0 {
		t.Errorf("AssignAt should have updated the grandparent's own map, got %v", v)
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", "outer")
	inner := NewEnvironment(outer)
	inner.Define("a", "inner")

	v, _ := inner.Get(Token{Lexeme: "a"})
	if v != "inner" {
		t.Errorf("inner scope should shadow outer, got %v", v)
	}
	outerV, _ := outer.Get(Token{Lexeme: "a"})
	if outerV != "outer" {
		t.Errorf("shadowing a name in a child scope should not affect the parent, got %v", outerV)
	}
}
