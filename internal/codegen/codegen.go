package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/diagnostics"
	"github.com/seqlang/seq/internal/ffi"
	"github.com/seqlang/seq/internal/symbols"
	"github.com/seqlang/seq/internal/token"
	"github.com/seqlang/seq/internal/types"
)

// Generator holds the shared state for translating one checked Program into
// one LLVM module (spec §4.8: "One IR module per program. Every Seq word
// becomes an LLVM function with signature (ptr) -> ptr"), mirroring the
// teacher's LLVMCodegen{module, functions, variables, ...} fields.
type Generator struct {
	module *ir.Module

	Table *symbols.Table
	// Typed carries the checker's per-quotation inferred effect (internal/
	// checker.Checker.Typed), needed to size a quotation/closure's
	// environment and trampoline signature.
	Typed map[*ast.Quotation]types.Effect

	words      map[string]*ir.Func // word name -> defined (ptr)->ptr function
	quotations map[*ast.Quotation]*quotationFuncs
	ffiExterns map[string]*ir.Func // primitive/FFI name -> declared extern function
	reserve    *ir.Func
	retain     *ir.Func
	release    *ir.Func
	instrumentFunc *ir.Func
	stringLiteral  *ir.Func
	internSymbol   *ir.Func
	envAlloc       *ir.Func
	closureNew     *ir.Func
	closureWrapper *ir.Func
	closureEnv     *ir.Func
	closureEnvLen  *ir.Func

	manifestFuncs   map[string]*ffi.FuncSpec // seq_name -> manifest binding (internal/ffi, spec §4.9)
	manifestExterns map[string]*ir.Func      // c_name -> declared raw C extern

	instrument bool // --instrument: emit per-word call-count bumps (spec §6, §3 SUPPLEMENTED FEATURES)
	qcounter   int

	Errors diagnostics.Bag
}

type quotationFuncs struct {
	wrapper *ir.Func
	impl    *ir.Func
}

// New creates a Generator ready to translate prog, given the checker's
// signature table and its per-quotation inferred-effect map.
func New(table *symbols.Table, typed map[*ast.Quotation]types.Effect, instrument bool) *Generator {
	return &Generator{
		module:     ir.NewModule(),
		Table:      table,
		Typed:      typed,
		words:      map[string]*ir.Func{},
		quotations: map[*ast.Quotation]*quotationFuncs{},
		ffiExterns: map[string]*ir.Func{},
		instrument: instrument,
	}
}

// Generate runs the two-pass declare-then-define translation spec §4.8
// describes implicitly (every word is a function; bodies reference one
// another regardless of declaration order, so signatures must all exist
// before any body is emitted) and returns the finished *ir.Module.
func (g *Generator) Generate(prog *ast.Program) (*ir.Module, error) {
	for _, w := range prog.Words {
		g.declareWord(w)
	}
	if g.instrument {
		g.declareInstrumentFunc()
	}
	for _, w := range prog.Words {
		g.defineWord(w)
	}
	if g.Errors.HasErrors() {
		return nil, fmt.Errorf("%s", g.Errors.Error())
	}
	return g.module, nil
}

// declareWord emits `define ptr @word(ptr %stack) { ... }`'s signature only,
// deferring body generation to defineWord (spec §4.8: "Every Seq word
// becomes an LLVM function with signature (ptr) -> ptr").
func (g *Generator) declareWord(w *ast.Word) {
	fn := g.module.NewFunc(mangleWord(w.Name), stackPtrType, ir.NewParam("stack", stackPtrType))
	g.words[w.Name] = fn
}

func (g *Generator) defineWord(w *ast.Word) {
	fn := g.words[w.Name]
	entry := fn.NewBlock("entry")
	stackParam := fn.Params[0]

	if g.instrument {
		ptr, length := g.globalBytes(w.Name)
		entry.NewCall(g.instrumentFunc, ptr, length)
	}

	tail := tailPositions(w.Body)
	final := g.genBlock(fn, entry, stackParam, w.Body, tail, w.Name)
	if final != nil {
		final.NewRet(stackParam)
	}
}

// declareInstrumentFunc declares the extern hook backing --instrument
// (SPEC_FULL.md SUPPLEMENTED FEATURES: "SEQ_REPORT=words prints a per-word
// call-count report on exit"). Every instrumented word's entry block calls
// this once with its own name, mirroring stringLiteralFunc/internSymbolFunc's
// (bytes ptr, len) shape so the runtime can intern the name once and bump a
// counter keyed by it.
func (g *Generator) declareInstrumentFunc() {
	g.instrumentFunc = g.module.NewFunc("seq_instrument_word", lltypes.Void,
		ir.NewParam("bytes", lltypes.NewPointer(lltypes.I8)), ir.NewParam("len", lltypes.I64))
}

// mangleWord turns a Seq word name (which may contain `.`, `-`, `?`, `!` —
// all valid per the catalog names in spec §4.4, e.g. "i.<=", "chan.send")
// into a C-linkable LLVM identifier. `.`, `-`, and punctuation are rare in
// LLVM symbol names but technically legal when quoted; codegen instead
// produces a plain ASCII-safe mangling so the runtime's companion FFI
// symbols (declared the same way, see ffi.go) stay link-compatible with a C
// toolchain that doesn't accept arbitrary punctuation in symbol names.
func mangleWord(name string) string {
	out := make([]rune, 0, len(name)+4)
	out = append(out, []rune("seqw_")...)
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == '.':
			out = append(out, '_')
		case r == '-':
			out = append(out, '_', '_')
		case r == '?':
			out = append(out, 'p')
		case r == '!':
			out = append(out, 'b')
		case r == '<':
			out = append(out, 'l')
		case r == '>':
			out = append(out, 'g')
		case r == '=':
			out = append(out, 'e')
		case r == '*':
			out = append(out, 'm')
		case r == '/':
			out = append(out, 's')
		case r == '+':
			out = append(out, 'a')
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func (g *Generator) errf(sp token.Span, format string, args ...any) {
	g.Errors.Addf(diagnostics.ErrCodegen, sp, format, args...)
}
