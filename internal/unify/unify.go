// Package unify implements type and stack-type unification (spec §4.6).
// Type unification is textbook Hindley-Milner; stack-type unification is the
// distinctive part, splitting row variables into "everything but the top
// element" plus the top element as stacks are matched cons-cell by cons-cell.
package unify

import (
	"fmt"

	"github.com/seqlang/seq/internal/types"
)

// Error is a typed unification failure (spec §4.6: "a typed error
// (mismatch / occurs / underflow)").
type Error struct {
	Kind string // "mismatch", "occurs", "underflow"
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func mismatch(format string, args ...any) *Error {
	return &Error{Kind: "mismatch", Msg: fmt.Sprintf(format, args...)}
}

func occurs(format string, args ...any) *Error {
	return &Error{Kind: "occurs", Msg: fmt.Sprintf(format, args...)}
}

func underflow(format string, args ...any) *Error {
	return &Error{Kind: "underflow", Msg: fmt.Sprintf(format, args...)}
}

// Types unifies two scalar types under substitution s, returning the
// extended substitution.
func Types(s types.Subst, a, b types.Type) (types.Subst, error) {
	a = a.Apply(s)
	b = b.Apply(s)

	switch at := a.(type) {
	case types.Var:
		return bindType(s, at.Name, b)
	default:
	}
	if bt, ok := b.(types.Var); ok {
		return bindType(s, bt.Name, a)
	}

	switch at := a.(type) {
	case types.Con:
		bt, ok := b.(types.Con)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return s, mismatch("cannot unify %s with %s", a, b)
		}
		for i := range at.Args {
			var err error
			s, err = Types(s, at.Args[i], bt.Args[i])
			if err != nil {
				return s, err
			}
		}
		return s, nil

	case types.Quotation:
		bt, ok := b.(types.Quotation)
		if !ok {
			return s, mismatch("cannot unify %s with %s", a, b)
		}
		return Effects(s, at.Effect, bt.Effect)

	case types.Closure:
		bt, ok := b.(types.Closure)
		if !ok {
			return s, mismatch("cannot unify %s with %s", a, b)
		}
		return Effects(s, at.Effect, bt.Effect)

	default:
		return s, mismatch("cannot unify %s with %s", a, b)
	}
}

func bindType(s types.Subst, name string, t types.Type) (types.Subst, error) {
	if v, ok := t.(types.Var); ok && v.Name == name {
		return s, nil
	}
	for _, fv := range t.FreeTypeVars() {
		if fv == name {
			return s, occurs("occurs check failed: %s occurs in %s", name, t)
		}
	}
	return s.BindType(name, t), nil
}

// Effects unifies two effects input-to-input, output-to-output.
func Effects(s types.Subst, a, b types.Effect) (types.Subst, error) {
	s, err := Stacks(s, a.Inputs, b.Inputs)
	if err != nil {
		return s, err
	}
	return Stacks(s, a.Outputs.Apply(s), b.Outputs.Apply(s))
}

// Stacks unifies two stack types, implementing the five cases of spec §4.6:
//
//   - Empty ≡ Empty: success.
//   - RowVar(r) ≡ S: bind r -> S (with occurs check), or unify with r's
//     existing binding.
//   - Cons(rest1, top1) ≡ Cons(rest2, top2): unify the tops, then the rests
//     under the resulting substitution.
//   - Cons(rest, top) ≡ RowVar(r): split r into a fresh row plus the top
//     element, then unify rest against the fresh row.
//   - Cons(rest, top) ≡ Empty: failure (stack underflow at type level).
func Stacks(s types.Subst, a, b types.StackType) (types.Subst, error) {
	a = a.Apply(s)
	b = b.Apply(s)

	switch at := a.(type) {
	case types.SEmpty:
		switch b.(type) {
		case types.SEmpty:
			return s, nil
		case types.SRowVar:
			return Stacks(s, b, a)
		case types.SCons:
			return s, underflow("stack underflow: expected more elements, got %s", b)
		}

	case types.SRowVar:
		switch b.(type) {
		case types.SRowVar:
			if b.(types.SRowVar).Name == at.Name {
				return s, nil
			}
			return bindRow(s, at.Name, b)
		case types.SEmpty:
			return bindRow(s, at.Name, b)
		case types.SCons:
			// Symmetric with the Cons-vs-RowVar case below: swap so the
			// split logic only lives in one place.
			return Stacks(s, b, a)
		}

	case types.SCons:
		switch bt := b.(type) {
		case types.SEmpty:
			return s, underflow("stack underflow: expected more elements, got %s", a)

		case types.SRowVar:
			for _, rv := range a.FreeRowVars() {
				if rv == bt.Name {
					return s, occurs("occurs check failed: row %s occurs in %s", bt.Name, a)
				}
			}
			fresh := types.SRowVar{Name: bt.Name + "'"}
			s2, err := bindRow(s, bt.Name, types.SCons{Rest: fresh, Top: at.Top})
			if err != nil {
				return s, err
			}
			return Stacks(s2, at.Rest.Apply(s2), fresh)

		case types.SCons:
			s2, err := Types(s, at.Top, bt.Top)
			if err != nil {
				return s2, err
			}
			return Stacks(s2, at.Rest.Apply(s2), bt.Rest.Apply(s2))
		}
	}
	return s, mismatch("cannot unify stack %s with %s", a, b)
}

func bindRow(s types.Subst, name string, st types.StackType) (types.Subst, error) {
	if v, ok := st.(types.SRowVar); ok && v.Name == name {
		return s, nil
	}
	for _, fv := range st.FreeRowVars() {
		if fv == name {
			return s, occurs("occurs check failed: row %s occurs in %s", name, st)
		}
	}
	return s.BindRow(name, st), nil
}
