// Package ast defines the typed syntax tree the type checker (internal/checker)
// and code generator (internal/codegen) consume. Producing this tree from
// Seq source text is the job of the lexer/parser, an external collaborator
// (spec §1) not implemented here: this package is the contract between that
// front-end and the core.
package ast

import "github.com/seqlang/seq/internal/token"

// Node is the base interface for every AST node, mirroring the teacher's
// ast.Node (TokenLiteral + Accept) but keyed on source Span rather than a
// single lexer Token, since Seq statements are stack words, not expressions.
type Node interface {
	Span() token.Span
}

// Statement is a single step in a word body: a literal push, a word call, or
// a control construct (if/match/cond) or quotation/closure literal.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of one translation unit: a source file plus everything
// pulled in transitively via `include` (spec §6, "a program is compiled as
// one translation unit that includes its transitive includes" — spec §1
// Non-goals rules out separate compilation).
type Program struct {
	Unions  []*UnionDecl
	Words   []*Word
	Sp      token.Span
}

func (p *Program) Span() token.Span { return p.Sp }

// TypeExpr is the surface syntax for a type occurring in a declared effect
// or a union field, before it is resolved to internal/types.Type.
type TypeExpr struct {
	// Name is a type constructor name (Int, Float, Bool, String, Symbol, or
	// a user Named type), or "" if this is a type variable.
	Name string
	Args []TypeExpr // type arguments for Named(name, [Type])
	// Var is a lowercase type-variable name ("a", "b", ...); set when Name == "".
	Var string
	// Quot/Clos, when non-nil, make this a Quotation(Effect)/Closure(Effect) type.
	Quot *EffectExpr
	Clos *EffectExpr
}

// EffectExpr is the surface syntax for a declared stack effect, e.g.
// `( Int Int -- Int )` or `( ..a T -- ..a T T T )`.
type EffectExpr struct {
	// RowName is the explicit row-variable name shared by Inputs/Outputs
	// ("a" in "..a"), or "" if the effect carries only the implicit row
	// inserted at intake (spec §4.5).
	RowName string
	Inputs  []TypeExpr
	Outputs []TypeExpr
	Sp      token.Span
}

// UnionDecl is a `union Name { Tag { field: Type ... } ... }` declaration
// (spec §3 "Union declaration"). It generates Make-Tag constructors and
// supplies the field-name bindings `match` arms bind by name.
type UnionDecl struct {
	Name     string
	Variants []VariantDecl
	Sp       token.Span
}

func (u *UnionDecl) Span() token.Span { return u.Sp }

type VariantDecl struct {
	Tag    string
	Fields []FieldDecl
	Sp     token.Span
}

type FieldDecl struct {
	Name string
	Type TypeExpr
}

// Word is a named top-level definition (spec §3 "Word").
type Word struct {
	Name           string
	DeclaredEffect *EffectExpr
	Body           []Statement
	Sp             token.Span
}

func (w *Word) Span() token.Span { return w.Sp }

// --- literals ---

type LiteralInt struct {
	Value int64
	Sp    token.Span
}

type LiteralFloat struct {
	Value float64
	Sp    token.Span
}

type LiteralBool struct {
	Value bool
	Sp    token.Span
}

type LiteralString struct {
	Value string
	Sp    token.Span
}

type LiteralSymbol struct {
	Value string
	Sp    token.Span
}

func (n *LiteralInt) Span() token.Span    { return n.Sp }
func (n *LiteralFloat) Span() token.Span  { return n.Sp }
func (n *LiteralBool) Span() token.Span   { return n.Sp }
func (n *LiteralString) Span() token.Span { return n.Sp }
func (n *LiteralSymbol) Span() token.Span { return n.Sp }

func (*LiteralInt) statementNode()    {}
func (*LiteralFloat) statementNode()  {}
func (*LiteralBool) statementNode()   {}
func (*LiteralString) statementNode() {}
func (*LiteralSymbol) statementNode() {}

// WordCall invokes a previously declared word, a union constructor
// (Make-Tag), or a primitive operation (spec §4.4) by name.
type WordCall struct {
	Name string
	// LiteralArg carries a literal integer argument for pick/roll, where the
	// type checker needs the concrete value to compute a precise effect
	// (spec §4.7 "Special cases").
	LiteralArg    *int64
	LiteralArgSet bool
	Sp            token.Span
}

func (n *WordCall) Span() token.Span { return n.Sp }
func (*WordCall) statementNode()     {}

// Quotation is a first-class code value `[ ... ]`. When Captures is
// non-empty the parser has marked it as capturing enclosing values, making
// it a Closure rather than a bare Quotation (spec §4.7 "Closure construction").
type Quotation struct {
	Body     []Statement
	Captures []string // empty => plain Quotation, non-empty => Closure
	Sp       token.Span
}

func (n *Quotation) Span() token.Span { return n.Sp }
func (*Quotation) statementNode()     {}

// If is `if ... else ... then`.
type If struct {
	Then []Statement
	Else []Statement
	Sp   token.Span
}

func (n *If) Span() token.Span { return n.Sp }
func (*If) statementNode()     {}

// MatchBindStyle selects how a variant's fields are bound within an arm.
type MatchBindStyle int

const (
	// BindStack pushes fields onto the stack in declaration order.
	BindStack MatchBindStyle = iota
	// BindNamed binds named fields via `{ field1 field2 }` syntax.
	BindNamed
)

type MatchArm struct {
	Tag       string
	BindStyle MatchBindStyle
	Names     []string // field names bound, in the order given (both styles)
	Body      []Statement
	Sp        token.Span
}

// Match scrutinizes a union value (spec §4.7 "match").
type Match struct {
	UnionName string // declared union type name the scrutinee must unify to
	Arms      []MatchArm
	Sp        token.Span
}

func (n *Match) Span() token.Span { return n.Sp }
func (*Match) statementNode()     {}

type CondClause struct {
	Pred []Statement
	Body []Statement
}

// Cond is `cond [pred] [body] ... end`.
type Cond struct {
	Clauses []CondClause
	Sp      token.Span
}

func (n *Cond) Span() token.Span { return n.Sp }
func (*Cond) statementNode()     {}
