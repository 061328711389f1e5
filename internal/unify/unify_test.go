package unify

import (
	"testing"

	"github.com/seqlang/seq/internal/types"
)

func TestTypesBindsVariable(t *testing.T) {
	s, err := Types(types.Empty(), types.Var{Name: "a"}, types.Int)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	got := types.Var{Name: "a"}.Apply(s)
	if got.String() != "Int" {
		t.Fatalf("a = %s, want Int", got)
	}
}

func TestTypesMismatch(t *testing.T) {
	if _, err := Types(types.Empty(), types.Int, types.String); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestTypesOccursCheck(t *testing.T) {
	// a unifies with Named(a) should fail the occurs check.
	self := types.Con{Name: "List", Args: []types.Type{types.Var{Name: "a"}}}
	if _, err := Types(types.Empty(), types.Var{Name: "a"}, self); err == nil {
		t.Fatalf("expected occurs check failure")
	}
}

func TestStacksEmptyEmpty(t *testing.T) {
	if _, err := Stacks(types.Empty(), types.SEmpty{}, types.SEmpty{}); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
}

func TestStacksConsUnderflow(t *testing.T) {
	stack := types.SCons{Rest: types.SEmpty{}, Top: types.Int}
	_, err := Stacks(types.Empty(), stack, types.SEmpty{})
	if err == nil {
		t.Fatalf("expected underflow error")
	}
	if uerr, ok := err.(*Error); !ok || uerr.Kind != "underflow" {
		t.Fatalf("expected underflow kind, got %v", err)
	}
}

func TestStacksConsCons(t *testing.T) {
	a := types.SCons{Rest: types.SEmpty{}, Top: types.Int}
	b := types.SCons{Rest: types.SEmpty{}, Top: types.Var{Name: "t"}}
	s, err := Stacks(types.Empty(), a, b)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	if got := (types.Var{Name: "t"}).Apply(s); got.String() != "Int" {
		t.Fatalf("t = %s, want Int", got)
	}
}

// TestStacksRowSplit exercises the distinctive row-splitting case of spec
// §4.6: Cons(rest, top) ≡ RowVar(r) binds r to Cons(rest', top) and unifies
// rest against the fresh rest'.
func TestStacksRowSplit(t *testing.T) {
	a := types.SCons{Rest: types.SCons{Rest: types.SEmpty{}, Top: types.Int}, Top: types.Bool}
	b := types.SRowVar{Name: "r"}
	s, err := Stacks(types.Empty(), a, b)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	bound := b.Apply(s)
	cons, ok := bound.(types.SCons)
	if !ok {
		t.Fatalf("expected r to bind to a Cons, got %s", bound)
	}
	if cons.Top.String() != "Bool" {
		t.Fatalf("top of bound row = %s, want Bool", cons.Top)
	}
}

// TestDupTwiceRowPolymorphism mirrors spec §8 scenario 4: `dup-twice`
// declared `( ..a T -- ..a T T T )` must unify against a concrete 3-deep
// stack regardless of what lies beneath the row variable.
func TestDupTwiceRowPolymorphism(t *testing.T) {
	declaredIn := types.SCons{Rest: types.SRowVar{Name: "a"}, Top: types.Var{Name: "T"}}
	actualIn := types.SCons{
		Rest: types.SCons{Rest: types.SCons{Rest: types.SEmpty{}, Top: types.Int}, Top: types.Int},
		Top:  types.Int,
	}
	s, err := Stacks(types.Empty(), declaredIn, actualIn)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	if got := (types.Var{Name: "T"}).Apply(s); got.String() != "Int" {
		t.Fatalf("T = %s, want Int", got)
	}
}

func TestUnifySymmetric(t *testing.T) {
	a := types.SCons{Rest: types.SRowVar{Name: "r"}, Top: types.Int}
	b := types.SCons{Rest: types.SEmpty{}, Top: types.Var{Name: "t"}}

	s1, err := Stacks(types.Empty(), a, b)
	if err != nil {
		t.Fatalf("a,b unify failed: %v", err)
	}
	s2, err := Stacks(types.Empty(), b, a)
	if err != nil {
		t.Fatalf("b,a unify failed: %v", err)
	}
	if got1, got2 := (types.Var{Name: "t"}).Apply(s1), (types.Var{Name: "t"}).Apply(s2); got1.String() != got2.String() {
		t.Fatalf("unification not symmetric on t: %s vs %s", got1, got2)
	}
}
