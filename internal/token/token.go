// Package token defines source positions shared by the type checker, code
// generator, and diagnostics. The lexer/parser that produce these positions
// are external collaborators (see spec §1); this package only carries their
// output.
package token

import "fmt"

// Pos identifies a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" && p.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether p carries no location information.
func (p Pos) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}

// Span covers a range of source text, typically a single statement or word
// declaration, used to anchor type-checker diagnostics (spec §4.7, §7).
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.Start.File == s.End.File && s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
