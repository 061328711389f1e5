// Package types implements Seq's structural type system: scalar types,
// stack types (cons lists with row-variable tails), and effects (spec §3
// "Type", "StackType", "Effect"; spec §4.5).
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for every scalar (non-stack) type.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVars() []string
}

// Con is a nullary or applied type constructor: Int, Float, Bool, String,
// Symbol, or a user Named(name, args) type (spec §3 "Type").
type Con struct {
	Name string
	Args []Type
}

func (c Con) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}

func (c Con) Apply(s Subst) Type {
	if len(c.Args) == 0 {
		return c
	}
	args := make([]Type, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Apply(s)
	}
	return Con{Name: c.Name, Args: args}
}

func (c Con) FreeTypeVars() []string {
	var out []string
	for _, a := range c.Args {
		out = append(out, a.FreeTypeVars()...)
	}
	return out
}

// Predeclared scalar constructors.
var (
	Int    = Con{Name: "Int"}
	Float  = Con{Name: "Float"}
	Bool   = Con{Name: "Bool"}
	String = Con{Name: "String"}
	Symbol = Con{Name: "Symbol"}
)

// Var is a type variable, bound by Subst during unification (spec §4.6).
type Var struct {
	Name string
}

func (v Var) String() string { return v.Name }

func (v Var) Apply(s Subst) Type {
	if t, ok := s.Types[v.Name]; ok {
		if _, same := t.(Var); same && t.(Var).Name == v.Name {
			return t
		}
		return t.Apply(s)
	}
	return v
}

func (v Var) FreeTypeVars() []string { return []string{v.Name} }

// Quotation is the type of a stateless code value: Quotation(Effect)
// (spec §3 "Type").
type Quotation struct {
	Effect Effect
}

func (q Quotation) String() string { return fmt.Sprintf("Quotation%s", q.Effect) }

func (q Quotation) Apply(s Subst) Type {
	return Quotation{Effect: q.Effect.Apply(s)}
}

func (q Quotation) FreeTypeVars() []string { return q.Effect.FreeTypeVars() }

// Closure is the type of a quotation bundled with captured values:
// Closure(Effect) (spec §3 "Type"). The captured environment's types are
// folded into the effect's input row at construction (spec §4.7).
type Closure struct {
	Effect Effect
}

func (c Closure) String() string { return fmt.Sprintf("Closure%s", c.Effect) }

func (c Closure) Apply(s Subst) Type {
	return Closure{Effect: c.Effect.Apply(s)}
}

func (c Closure) FreeTypeVars() []string { return c.Effect.FreeTypeVars() }

// --- Stack types ---

// StackType is a compile-time description of stack shape: an empty stack, a
// cons of a deeper stack type plus one more element on top, or a row
// variable standing for "whatever is beneath" (spec §3 "Stack type").
type StackType interface {
	String() string
	Apply(Subst) StackType
	FreeRowVars() []string
}

// SEmpty is the empty stack type.
type SEmpty struct{}

func (SEmpty) String() string               { return "()" }
func (SEmpty) Apply(Subst) StackType        { return SEmpty{} }
func (SEmpty) FreeRowVars() []string        { return nil }

// SCons is `Cons(rest, top)`: a stack type with Rest beneath and Top on top.
type SCons struct {
	Rest StackType
	Top  Type
}

func (c SCons) String() string {
	return fmt.Sprintf("%s %s", c.Rest, c.Top)
}

func (c SCons) Apply(s Subst) StackType {
	return SCons{Rest: c.Rest.Apply(s), Top: c.Top.Apply(s)}
}

func (c SCons) FreeRowVars() []string {
	return c.Rest.FreeRowVars()
}

// SRowVar is a polymorphic stack tail, written `..a` at the source level
// (spec glossary "Row variable").
type SRowVar struct {
	Name string
}

func (r SRowVar) String() string { return ".." + r.Name }

func (r SRowVar) Apply(s Subst) StackType {
	if st, ok := s.Rows[r.Name]; ok {
		if same, isVar := st.(SRowVar); isVar && same.Name == r.Name {
			return st
		}
		return st.Apply(s)
	}
	return r
}

func (r SRowVar) FreeRowVars() []string { return []string{r.Name} }

// Effect is a word's static stack transformation (spec §3 "Effect").
type Effect struct {
	Inputs  StackType
	Outputs StackType
}

func (e Effect) String() string {
	return fmt.Sprintf("( %s -- %s )", e.Inputs, e.Outputs)
}

func (e Effect) Apply(s Subst) Effect {
	return Effect{Inputs: e.Inputs.Apply(s), Outputs: e.Outputs.Apply(s)}
}

func (e Effect) FreeTypeVars() []string {
	var out []string
	out = append(out, freeTypeVarsOfStack(e.Inputs)...)
	out = append(out, freeTypeVarsOfStack(e.Outputs)...)
	return out
}

func (e Effect) FreeRowVars() []string {
	out := append([]string{}, e.Inputs.FreeRowVars()...)
	out = append(out, e.Outputs.FreeRowVars()...)
	return dedup(out)
}

func freeTypeVarsOfStack(s StackType) []string {
	switch st := s.(type) {
	case SCons:
		return append(freeTypeVarsOfStack(st.Rest), st.Top.FreeTypeVars()...)
	default:
		return nil
	}
}

func dedup(xs []string) []string {
	seen := map[string]bool{}
	out := xs[:0:0]
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Strings(out)
	return out
}
