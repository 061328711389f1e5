package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// genFFICall lowers a call to one of the ~150 FFI-callable primitives (spec
// §4.4) that codegen doesn't inline: strings, variants, maps, I/O, TCP,
// time, crypto, compression, HTTP, regex, OS, and terminal operations, plus
// union constructors (`Make-<Tag>`) and pick/roll (internal/runtime/prims/
// stackops.go's seq_pick/seq_roll already pop their index argument off the
// stack themselves, so the literal-vs-dynamic distinction the type checker
// makes in internal/checker/statements.go only sharpens the static effect —
// codegen emits the same call either way). Every one of these shares the
// fixed `(stack_ptr) -> stack_ptr` C-linkable shape spec §4.4 specifies, so
// a single declare-then-call path covers the whole catalog; which Go
// function backs a given symbol at runtime is internal/runtime/prims's
// concern, not codegen's (spec §2: codegen's job ends at "external LLVM
// llc/clang -> link against the runtime").
func (g *Generator) genFFICall(b *ir.Block, stackPtr value.Value, name string) {
	symbol := ffiSymbol(name)
	fn := g.externFunc(symbol, 1)
	b.NewCall(fn, stackPtr)
}

// ffiSymbol maps a Seq primitive/constructor name to its C-linkable runtime
// symbol, using the same "seq_" prefix and punctuation-safe mangling as
// mangleWord, so codegen's extern declarations and internal/runtime/prims's
// register() calls name the same symbol. Union constructors keep their
// case: "Make-Circle" maps to "seq_Make__Circle".
func ffiSymbol(name string) string {
	mangled := mangleWord(name)
	// mangleWord's "seqw_" prefix is for user-defined words; FFI/runtime
	// symbols use "seq_" instead.
	return "seq_" + mangled[len("seqw_"):]
}

// externFunc returns (declaring if necessary) the extern function backing
// a runtime symbol, named the same way internal/runtime/prims registers its
// Go-side table entries (the "seq_" prefix convention established by
// internal/runtime/prims/stackops.go's register("seq_dup", ...) etc.), so a
// production build's C-ABI runtime archive and this module's Go-side
// interpreter fallback agree on symbol names.
func (g *Generator) externFunc(symbol string, argc int) *ir.Func {
	if fn, ok := g.ffiExterns[symbol]; ok {
		return fn
	}
	params := make([]*ir.Param, argc)
	for i := range params {
		params[i] = ir.NewParam("", stackPtrType)
	}
	fn := g.module.NewFunc(symbol, stackPtrType, params...)
	g.ffiExterns[symbol] = fn
	return fn
}
