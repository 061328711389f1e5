package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/ffi"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// LoadManifest registers an FFI manifest's functions (spec §4.9) so
// genWordCall routes calls to their seq_name to genManifestCall instead of
// the flat runtime-primitive catalog (ffi.go's genFFICall). The manifest
// package already validated and registered the words' signatures with the
// checker's symbol table (internal/ffi.Manifest.Register); codegen's job is
// only the marshalling IR and the extern C declaration.
func (g *Generator) LoadManifest(m *ffi.Manifest) {
	if g.manifestFuncs == nil {
		g.manifestFuncs = map[string]*ffi.FuncSpec{}
	}
	for i := range m.Functions {
		f := &m.Functions[i]
		g.manifestFuncs[f.SeqName] = f
	}
}

// scalarLLVMType maps a manifest Seq type name to the LLVM type its C
// representation is passed/returned as (spec §4.9's args/return "type"
// field): Float is a genuine C double; everything else (Int, Bool, Symbol)
// is the same i64 word already used on the Seq stack, matching the
// convention that every non-Float primitive rides in word[0] as a plain
// i64 (layout.go, inline.go).
func scalarLLVMType(seqType string) types.Type {
	if seqType == "Float" {
		return types.Double
	}
	return types.I64
}

func cParamType(a ffi.ArgSpec) types.Type {
	switch a.Pass {
	case "c_string":
		return types.NewPointer(types.I8)
	case "by_ref":
		return types.NewPointer(scalarLLVMType(a.Type))
	default: // "value"
		return scalarLLVMType(a.Type)
	}
}

func (g *Generator) externCFunc(spec *ffi.FuncSpec) *ir.Func {
	if fn, ok := g.manifestExterns[spec.CName]; ok {
		return fn
	}
	if g.manifestExterns == nil {
		g.manifestExterns = map[string]*ir.Func{}
	}
	params := make([]*ir.Param, len(spec.Args))
	for i, a := range spec.Args {
		params[i] = ir.NewParam("", cParamType(a))
	}
	retType := types.Type(types.Void)
	if spec.Return.Type == "String" {
		retType = types.NewPointer(types.I8)
	} else if spec.Return.Type != "" {
		retType = scalarLLVMType(spec.Return.Type)
	}
	fn := g.module.NewFunc(spec.CName, retType, params...)
	g.manifestExterns[spec.CName] = fn
	return fn
}

// genManifestCall emits the marshalling IR for one FFI-manifest function
// call (spec §4.9: "emits marshalling IR that pops arguments ..., calls the
// external function, and pushes the result"). Arguments are popped in
// reverse (the last-declared arg is topmost, matching every other calling
// convention in this package), each converted per its declared Pass mode;
// by_ref args get compiler-allocated output storage instead of being
// popped, and are pushed onto the Seq stack after the call alongside the
// primary return value.
func (g *Generator) genManifestCall(b *ir.Block, stackPtr value.Value, spec *ffi.FuncSpec) {
	cfn := g.externCFunc(spec)

	callArgs := make([]value.Value, len(spec.Args))
	type outRef struct {
		alloca value.Value
		seqTyp string
	}
	var outs []outRef

	for i := len(spec.Args) - 1; i >= 0; i-- {
		a := spec.Args[i]
		switch a.Pass {
		case "by_ref":
			slot := b.NewAlloca(scalarLLVMType(a.Type))
			callArgs[i] = slot
			outs = append([]outRef{{alloca: slot, seqTyp: a.Type}}, outs...)
		case "c_string":
			_, w := g.emitPop(b, stackPtr)
			callArgs[i] = b.NewCall(g.stringCStrFunc(), w[0])
		default: // "value"
			_, w := g.emitPop(b, stackPtr)
			if a.Type == "Float" {
				callArgs[i] = b.NewBitCast(w[0], types.Double)
			} else {
				callArgs[i] = w[0]
			}
		}
	}

	call := b.NewCall(cfn, callArgs...)

	if spec.Return.Type != "" {
		g.pushCValue(b, stackPtr, call, spec.Return.Type, spec.Return.Ownership == "caller_frees")
	}
	for _, o := range outs {
		loaded := b.NewLoad(scalarLLVMType(o.seqTyp), o.alloca)
		g.pushCValue(b, stackPtr, loaded, o.seqTyp, false)
	}
}

// pushCValue converts a raw C-typed value back into a tagged Seq slot and
// pushes it. String results are copied into a fresh refcounted Seq String
// (spec §3 "a reference-counted, UTF-8 string"); when owned is true the
// original C buffer is freed afterward (spec §4.9 "freeing C-allocated
// memory when ownership = caller_frees").
func (g *Generator) pushCValue(b *ir.Block, stackPtr value.Value, v value.Value, seqType string, owned bool) {
	switch seqType {
	case "Float":
		bits := b.NewBitCast(v, types.I64)
		g.emitPush(b, stackPtr, tagFor(stack.KindFloat), [4]value.Value{bits, nil, nil, nil})
	case "Bool":
		g.emitPush(b, stackPtr, tagFor(stack.KindBool), [4]value.Value{v, nil, nil, nil})
	case "Symbol":
		g.emitPush(b, stackPtr, tagFor(stack.KindSymbol), [4]value.Value{v, nil, nil, nil})
	case "String":
		owner := int64(0)
		if owned {
			owner = 1
		}
		word := b.NewCall(g.wrapCStringFunc(), v, i64(owner))
		g.emitPush(b, stackPtr, tagFor(stack.KindString), [4]value.Value{word, nil, nil, nil})
	default: // "Int"
		g.emitPush(b, stackPtr, tagFor(stack.KindInt), [4]value.Value{v, nil, nil, nil})
	}
}

func (g *Generator) stringCStrFunc() *ir.Func {
	return g.namedExtern("seq_string_cstr", types.NewPointer(types.I8), ir.NewParam("header", types.I64))
}

func (g *Generator) wrapCStringFunc() *ir.Func {
	return g.namedExtern("seq_wrap_cstring", types.I64,
		ir.NewParam("bytes", types.NewPointer(types.I8)), ir.NewParam("owned", types.I64))
}

// namedExtern declares (or returns the cached) extern function with an
// arbitrary signature, for the small set of fixed runtime helpers the
// manifest marshalling path needs beyond the uniform FFI catalog shape
// externFunc builds.
func (g *Generator) namedExtern(name string, ret types.Type, params ...*ir.Param) *ir.Func {
	if fn, ok := g.ffiExterns[name]; ok {
		return fn
	}
	fn := g.module.NewFunc(name, ret, params...)
	g.ffiExterns[name] = fn
	return fn
}
