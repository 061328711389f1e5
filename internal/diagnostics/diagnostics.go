// Package diagnostics carries compile-time errors (spec §7, tier 1) from the
// type checker, unifier, and code generator back to the CLI front-end with a
// source span and a human-readable explanation.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/seqlang/seq/internal/token"
)

// Code classifies a diagnostic for tooling (the LSP adapter, an external
// collaborator not implemented here, keys off these codes).
type Code string

const (
	ErrParse          Code = "E000" // reserved for the external parser
	ErrUnifyMismatch  Code = "E101"
	ErrUnifyOccurs    Code = "E102"
	ErrUnderflow      Code = "E103"
	ErrUnknownWord    Code = "E201"
	ErrDuplicateWord  Code = "E202"
	ErrNonExhaustive  Code = "E203"
	ErrBadEffect      Code = "E204"
	ErrInclude        Code = "E301"
	ErrFFIManifest    Code = "E401"
	ErrCodegen        Code = "E501"
)

// Diagnostic is a single fatal compile-time error, anchored at a Span and
// carrying the trail of word calls that led to it (spec §4.7: "including the
// stack trace across the word body up to the point of failure").
type Diagnostic struct {
	Code    Code
	Span    token.Span
	Message string
	Trail   []string // word names, outermost first
}

func New(code Code, span token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) WithTrail(words ...string) *Diagnostic {
	d.Trail = words
	return d
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", d.Span, d.Code, d.Message)
	for _, w := range d.Trail {
		fmt.Fprintf(&b, "\n  in %s", w)
	}
	return b.String()
}

// Bag accumulates diagnostics across a compilation unit, mirroring the
// ctx.Errors []*diagnostics.DiagnosticError accumulation pattern the teacher
// threads through its pipeline processors.
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Addf(code Code, span token.Span, format string, args ...any) {
	b.Add(New(code, span, format, args...))
}

func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

func (b *Bag) All() []*Diagnostic { return b.items }

func (b *Bag) Error() string {
	lines := make([]string, len(b.items))
	for i, d := range b.items {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}
