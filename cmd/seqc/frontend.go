package main

import "github.com/seqlang/seq/internal/ast"

// Frontend produces a type-checkable AST from a .seq source file. The
// lexer/parser is an explicit external collaborator (spec §1: "Explicitly
// out of scope ... the lexer/parser (produces an AST) ... These are
// straightforward plumbing once the core exists"), so seqc doesn't embed
// one: it depends on one being registered via RegisterFrontend before Run
// is called. A real distribution wires a lexer/parser package in from
// func main(); this repository's scope is the core the frontend feeds.
type Frontend func(path string) (*ast.Program, error)

var frontend Frontend

// RegisterFrontend installs the parser that turns source text into an
// *ast.Program. Exported so an external lexer/parser package can wire
// itself in without this module needing to import it.
func RegisterFrontend(f Frontend) {
	frontend = f
}
