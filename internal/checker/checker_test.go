package checker

import (
	"testing"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/symbols"
)

func newTable() *symbols.Table {
	t := symbols.NewTable()
	t.InitPrelude()
	return t
}

func call(name string) *ast.WordCall { return &ast.WordCall{Name: name} }

func litInt(v int64) *ast.LiteralInt { return &ast.LiteralInt{Value: v} }

func effect(rowName string, ins, outs []string) *ast.EffectExpr {
	toExprs := func(names []string) []ast.TypeExpr {
		out := make([]ast.TypeExpr, len(names))
		for i, n := range names {
			if n[0] >= 'A' && n[0] <= 'Z' {
				out[i] = ast.TypeExpr{Name: n}
			} else {
				out[i] = ast.TypeExpr{Var: n}
			}
		}
		return out
	}
	return &ast.EffectExpr{RowName: rowName, Inputs: toExprs(ins), Outputs: toExprs(outs)}
}

// TestFactorialAcc mirrors spec §8 scenario 1: an accumulator-style
// factorial written with tail recursion must type-check.
func TestFactorialAcc(t *testing.T) {
	table := newTable()
	c := New(table)

	facAcc := &ast.Word{
		Name:           "factorial-acc",
		DeclaredEffect: effect("", []string{"Int", "Int"}, []string{"Int"}),
		Body: []ast.Statement{
			call("over"), litInt(1), call("i.<="),
			&ast.If{
				Then: []ast.Statement{call("nip")},
				Else: []ast.Statement{
					call("swap"), call("dup"), litInt(1), call("i.-"),
					call("swap"), call("rot"), call("i.*"), call("swap"),
					call("factorial-acc"),
				},
			},
		},
	}
	factorial := &ast.Word{
		Name:           "factorial",
		DeclaredEffect: effect("", []string{"Int"}, []string{"Int"}),
		Body:           []ast.Statement{litInt(1), call("factorial-acc")},
	}
	prog := &ast.Program{Words: []*ast.Word{facAcc, factorial}}

	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if c.Errors.HasErrors() {
		t.Fatalf("unexpected type errors: %s", c.Errors.Error())
	}
}

// TestDupTwiceRowPolymorphism mirrors spec §8 scenario 4.
func TestDupTwiceRowPolymorphism(t *testing.T) {
	table := newTable()
	c := New(table)

	dupTwice := &ast.Word{
		Name:           "dup-twice",
		DeclaredEffect: effect("a", []string{"T"}, []string{"T", "T", "T"}),
		Body:           []ast.Statement{call("dup"), call("dup")},
	}
	prog := &ast.Program{Words: []*ast.Word{dupTwice}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if c.Errors.HasErrors() {
		t.Fatalf("unexpected type errors: %s", c.Errors.Error())
	}
}

// TestIllTypedRejected mirrors spec §8 scenario 5: `io.write-line` expects a
// String, so a word declaring ( Int -- ) and calling it must be rejected.
func TestIllTypedRejected(t *testing.T) {
	table := newTable()
	c := New(table)

	bad := &ast.Word{
		Name:           "bad",
		DeclaredEffect: effect("", []string{"Int"}, nil),
		Body:           []ast.Statement{call("io.write-line")},
	}
	prog := &ast.Program{Words: []*ast.Word{bad}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if !c.Errors.HasErrors() {
		t.Fatalf("expected a type error unifying Int with String")
	}
}

// TestMutualRecursionTCO mirrors spec §8 scenario 6: even?/odd? call each
// other in tail position and must both type-check.
func TestMutualRecursionTCO(t *testing.T) {
	table := newTable()
	c := New(table)

	even := &ast.Word{
		Name:           "even?",
		DeclaredEffect: effect("", []string{"Int"}, []string{"Bool"}),
		Body: []ast.Statement{
			call("dup"), litInt(0), call("i.="),
			&ast.If{
				Then: []ast.Statement{call("drop"), &ast.LiteralBool{Value: true}},
				Else: []ast.Statement{litInt(1), call("i.-"), call("odd?")},
			},
		},
	}
	odd := &ast.Word{
		Name:           "odd?",
		DeclaredEffect: effect("", []string{"Int"}, []string{"Bool"}),
		Body: []ast.Statement{
			call("dup"), litInt(0), call("i.="),
			&ast.If{
				Then: []ast.Statement{call("drop"), &ast.LiteralBool{Value: false}},
				Else: []ast.Statement{litInt(1), call("i.-"), call("even?")},
			},
		},
	}
	prog := &ast.Program{Words: []*ast.Word{even, odd}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if c.Errors.HasErrors() {
		t.Fatalf("unexpected type errors: %s", c.Errors.Error())
	}
}

// TestChannelRoundTrip mirrors spec §8 scenario 2: a channel is made, a
// strand is spawned with a quotation that sends a value into it, and the
// parent receives that value back.
func TestChannelRoundTrip(t *testing.T) {
	table := newTable()
	c := New(table)

	roundTrip := &ast.Word{
		Name:           "round-trip",
		DeclaredEffect: effect("", nil, nil),
		Body: []ast.Statement{
			call("chan.make"),
			&ast.Quotation{Body: []ast.Statement{
				litInt(42), call("swap"), call("chan.send"), call("drop"),
			}},
			call("strand.spawn"), call("drop"),
			call("chan.receive"), call("drop"),
			call("drop"),
		},
	}
	prog := &ast.Program{Words: []*ast.Word{roundTrip}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if c.Errors.HasErrors() {
		t.Fatalf("unexpected type errors: %s", c.Errors.Error())
	}
}

// TestUnionMatchExhaustive mirrors spec §8 scenario 3.
func TestUnionMatchExhaustive(t *testing.T) {
	table := newTable()
	c := New(table)

	union := &ast.UnionDecl{
		Name: "Shape",
		Variants: []ast.VariantDecl{
			{Tag: "Circle", Fields: []ast.FieldDecl{{Name: "radius", Type: ast.TypeExpr{Name: "Float"}}}},
			{Tag: "Rectangle", Fields: []ast.FieldDecl{
				{Name: "width", Type: ast.TypeExpr{Name: "Float"}},
				{Name: "height", Type: ast.TypeExpr{Name: "Float"}},
			}},
		},
	}
	area := &ast.Word{
		Name:           "area",
		DeclaredEffect: effect("", []string{"Shape"}, []string{"Float"}),
		Body: []ast.Statement{
			&ast.Match{
				UnionName: "Shape",
				Arms: []ast.MatchArm{
					{Tag: "Circle", BindStyle: ast.BindNamed, Names: []string{"radius"},
						Body: []ast.Statement{call("dup"), call("f.*"), &ast.LiteralFloat{Value: 3.14159}, call("f.*")}},
					{Tag: "Rectangle", BindStyle: ast.BindNamed, Names: []string{"width", "height"},
						Body: []ast.Statement{call("f.*")}},
				},
			},
		},
	}
	prog := &ast.Program{Unions: []*ast.UnionDecl{union}, Words: []*ast.Word{area}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if c.Errors.HasErrors() {
		t.Fatalf("unexpected type errors: %s", c.Errors.Error())
	}
}

// TestUnionMatchNonExhaustive omits the Rectangle arm and must be rejected
// (spec §8 scenario 3: "Omitting one arm causes a compile-time exhaustiveness
// error").
func TestUnionMatchNonExhaustive(t *testing.T) {
	table := newTable()
	c := New(table)

	union := &ast.UnionDecl{
		Name: "Shape",
		Variants: []ast.VariantDecl{
			{Tag: "Circle", Fields: []ast.FieldDecl{{Name: "radius", Type: ast.TypeExpr{Name: "Float"}}}},
			{Tag: "Rectangle", Fields: []ast.FieldDecl{
				{Name: "width", Type: ast.TypeExpr{Name: "Float"}},
				{Name: "height", Type: ast.TypeExpr{Name: "Float"}},
			}},
		},
	}
	area := &ast.Word{
		Name:           "area",
		DeclaredEffect: effect("", []string{"Shape"}, []string{"Float"}),
		Body: []ast.Statement{
			&ast.Match{
				UnionName: "Shape",
				Arms: []ast.MatchArm{
					{Tag: "Circle", BindStyle: ast.BindNamed, Names: []string{"radius"},
						Body: []ast.Statement{call("dup"), call("f.*"), &ast.LiteralFloat{Value: 3.14159}, call("f.*")}},
				},
			},
		},
	}
	prog := &ast.Program{Unions: []*ast.UnionDecl{union}, Words: []*ast.Word{area}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if !c.Errors.HasErrors() {
		t.Fatalf("expected a non-exhaustive match error")
	}
}

// TestCallAppliesQuotationEffect mirrors spec §8's `call` property: a
// quotation typed Effect(i,o) applied via `call` threads the effect through
// whatever sits beneath it on the stack (spec §9 dynamic dispatch).
func TestCallAppliesQuotationEffect(t *testing.T) {
	table := newTable()
	c := New(table)

	addOne := &ast.Word{
		Name:           "add-one-via-call",
		DeclaredEffect: effect("", []string{"Int"}, []string{"Int"}),
		Body: []ast.Statement{
			&ast.Quotation{Body: []ast.Statement{litInt(1), call("i.+")}},
			call("call"),
		},
	}
	prog := &ast.Program{Words: []*ast.Word{addOne}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if c.Errors.HasErrors() {
		t.Fatalf("unexpected type errors: %s", c.Errors.Error())
	}
}

// TestCallRejectsNonQuotation ensures `call` over a non-callable top of
// stack is a type error rather than silently passing through.
func TestCallRejectsNonQuotation(t *testing.T) {
	table := newTable()
	c := New(table)

	bad := &ast.Word{
		Name:           "call-on-int",
		DeclaredEffect: effect("", nil, nil),
		Body:           []ast.Statement{litInt(1), call("call")},
	}
	prog := &ast.Program{Words: []*ast.Word{bad}}
	c.CollectSignatures(prog)
	c.CheckBodies(prog)
	if !c.Errors.HasErrors() {
		t.Fatalf("expected a type error calling a non-quotation")
	}
}
