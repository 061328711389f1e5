package checker

import (
	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/types"
)

// resolveType turns surface syntax into an internal/types.Type. A TypeExpr
// with its Var field set is a type variable; any other name resolves to a
// scalar or a named constructor type.
func resolveType(te ast.TypeExpr) types.Type {
	if te.Var != "" {
		return types.Var{Name: te.Var}
	}
	if te.Quot != nil {
		eff, _, _ := resolveEffect(te.Quot)
		return types.Quotation{Effect: eff}
	}
	if te.Clos != nil {
		eff, _, _ := resolveEffect(te.Clos)
		return types.Closure{Effect: eff}
	}
	switch te.Name {
	case "Int":
		return types.Int
	case "Float":
		return types.Float
	case "Bool":
		return types.Bool
	case "String":
		return types.String
	case "Symbol":
		return types.Symbol
	}
	args := make([]types.Type, len(te.Args))
	for i, a := range te.Args {
		args[i] = resolveType(a)
	}
	return types.Con{Name: te.Name, Args: args}
}

// resolveEffect normalizes a parsed effect to include a row variable shared
// by both sides (spec §4.5): an explicit `..name` in the source is kept, and
// an effect without one gets the row variable named `implicit`, so
// ( Int -- Int ) becomes ( ..implicit Int -- ..implicit Int ). Every
// implicit effect uses that same name; it is not made unique per effect.
//
// Returns the effect plus the sets of type-variable and row-variable names
// free in it, for the caller to register as the word's quantified variables.
func resolveEffect(e *ast.EffectExpr) (types.Effect, []string, []string) {
	rowName := e.RowName
	if rowName == "" {
		rowName = "implicit"
	}
	row := types.StackType(types.SRowVar{Name: rowName})

	in := row
	typeVarSeen := map[string]bool{}
	for _, te := range e.Inputs {
		t := resolveType(te)
		recordTypeVars(t, typeVarSeen)
		in = types.SCons{Rest: in, Top: t}
	}
	out := row
	for _, te := range e.Outputs {
		t := resolveType(te)
		recordTypeVars(t, typeVarSeen)
		out = types.SCons{Rest: out, Top: t}
	}

	typeVars := make([]string, 0, len(typeVarSeen))
	for name := range typeVarSeen {
		typeVars = append(typeVars, name)
	}
	return types.Effect{Inputs: in, Outputs: out}, typeVars, []string{rowName}
}

func recordTypeVars(t types.Type, seen map[string]bool) {
	for _, v := range t.FreeTypeVars() {
		seen[v] = true
	}
}
