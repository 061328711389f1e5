package codegen

import (
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// genLiteral pushes a literal's value onto the stack (spec §4.7 "Literal
// (Int/Float/Bool/String/Symbol): push its type" at the type level; here,
// its runtime value). Int/Float/Bool are pure inline stores; String and
// Symbol allocate through the runtime since they are heap-backed (spec §3
// "String ... a reference-counted, UTF-8 string").
func (g *Generator) genLiteral(b *ir.Block, stackPtr value.Value, st ast.Statement) {
	switch n := st.(type) {
	case *ast.LiteralInt:
		g.emitPush(b, stackPtr, tagFor(stack.KindInt), [4]value.Value{i64(n.Value), nil, nil, nil})
	case *ast.LiteralFloat:
		bits := int64(asFloatBits(n.Value))
		g.emitPush(b, stackPtr, tagFor(stack.KindFloat), [4]value.Value{i64(bits), nil, nil, nil})
	case *ast.LiteralBool:
		v := int64(0)
		if n.Value {
			v = 1
		}
		g.emitPush(b, stackPtr, tagFor(stack.KindBool), [4]value.Value{i64(v), nil, nil, nil})
	case *ast.LiteralString:
		ptr, length := g.globalBytes(n.Value)
		word := b.NewCall(g.stringLiteralFunc(), ptr, length)
		g.emitPush(b, stackPtr, tagFor(stack.KindString), [4]value.Value{word, nil, nil, nil})
	case *ast.LiteralSymbol:
		ptr, length := g.globalBytes(n.Value)
		id := b.NewCall(g.internSymbolFunc(), ptr, length)
		g.emitPush(b, stackPtr, tagFor(stack.KindSymbol), [4]value.Value{id, nil, nil, nil})
	}
}

// globalBytes emits a private global byte-array constant for s (mirroring
// other_examples/ea1011ca_dshills-alas__internal-codegen-llvm.go.go's
// generateLiteral string case: `charArray := constant.NewCharArrayFromString`,
// `str := g.module.NewGlobalDef("", charArray)`) and returns a pointer to
// its first byte plus its length as an i64.
func (g *Generator) globalBytes(s string) (value.Value, value.Value) {
	data := constant.NewCharArrayFromString(s)
	global := g.module.NewGlobalDef("", data)
	global.Immutable = true
	gep := constant.NewGetElementPtr(data.Typ, global, constant.NewInt(types.I64, 0), constant.NewInt(types.I64, 0))
	return gep, i64(int64(len(s)))
}

func (g *Generator) stringLiteralFunc() *ir.Func {
	if g.stringLiteral == nil {
		g.stringLiteral = g.module.NewFunc("seq_make_string", types.I64, ir.NewParam("bytes", types.NewPointer(types.I8)), ir.NewParam("len", types.I64))
	}
	return g.stringLiteral
}

func (g *Generator) internSymbolFunc() *ir.Func {
	if g.internSymbol == nil {
		g.internSymbol = g.module.NewFunc("seq_intern_symbol", types.I64, ir.NewParam("bytes", types.NewPointer(types.I8)), ir.NewParam("len", types.I64))
	}
	return g.internSymbol
}

func asFloatBits(f float64) uint64 {
	return math.Float64bits(f)
}
