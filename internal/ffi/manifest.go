// Package ffi loads the TOML manifests that describe external C libraries
// (spec §4.9 "FFI Manifest Consumer"), the explicitly out-of-scope-for-the-
// core "FFI manifest loading (consumes TOML)" collaborator spec §1 names.
// Parsing lives here; internal/codegen consumes a *Manifest to emit the
// marshalling IR, and Manifest.Register installs each function as a
// callable word signature.
package ffi

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/seqlang/seq/internal/symbols"
	"github.com/seqlang/seq/internal/types"
)

// Manifest is one `[[functions]] ...` TOML file (spec §4.9: "per-function
// { c_name, seq_name, stack_effect, args: [{ type, pass }], return: { type,
// ownership } }"). Link names the external library for the `-l<link>`
// linker flag the driver package injects into the final link command.
type Manifest struct {
	Link      string     `toml:"link"`
	Functions []FuncSpec `toml:"functions"`
}

// FuncSpec describes one external function binding.
type FuncSpec struct {
	CName   string     `toml:"c_name"`
	SeqName string     `toml:"seq_name"`
	// StackEffect is documentation only: the manifest author's own
	// ( Inputs -- Outputs ) notation. The checker doesn't parse it — this
	// package's Args/Return fields are the structured source of truth codegen
	// and the signature table actually consume, since reparsing arbitrary
	// effect syntax here would mean re-implementing the lexer/parser spec §1
	// names as an external collaborator outside the core's scope.
	StackEffect string     `toml:"stack_effect"`
	Args        []ArgSpec  `toml:"args"`
	Return      ReturnSpec `toml:"return"`
}

// ArgSpec describes one C argument's Seq type and how it is marshalled in
// (spec §4.9 "converting Seq String -> null-terminated C string for
// c_string pass mode, allocating output storage for by_ref, passing
// literals for value args").
type ArgSpec struct {
	Type string `toml:"type"`
	Pass string `toml:"pass"` // "value" | "c_string" | "by_ref"
}

// ReturnSpec describes the C return value's Seq type and ownership (spec
// §4.9 "freeing C-allocated memory when ownership = caller_frees").
type ReturnSpec struct {
	Type      string `toml:"type"`
	Ownership string `toml:"ownership"` // "caller_frees" | "borrowed"
}

var linkNameRe = regexp.MustCompile(`^[A-Za-z0-9_.+-]+$`)

var validPass = map[string]bool{"value": true, "c_string": true, "by_ref": true}
var validOwnership = map[string]bool{"caller_frees": true, "borrowed": true}

// Load parses and validates one manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("ffi: parsing manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("ffi: manifest %s: %w", path, err)
	}
	return &m, nil
}

// validate rejects a manifest whose link name could smuggle extra
// arguments into the linker invocation (spec §4.9 "link names are
// validated against an allowlist of safe characters to prevent command
// injection") or whose function specs are otherwise malformed.
func (m *Manifest) validate() error {
	if m.Link != "" && !linkNameRe.MatchString(m.Link) {
		return fmt.Errorf("link name %q contains characters outside the safe allowlist", m.Link)
	}
	seen := map[string]bool{}
	for _, f := range m.Functions {
		if f.CName == "" {
			return fmt.Errorf("function missing c_name")
		}
		if f.SeqName == "" {
			return fmt.Errorf("function %q missing seq_name", f.CName)
		}
		if seen[f.SeqName] {
			return fmt.Errorf("seq_name %q declared more than once", f.SeqName)
		}
		seen[f.SeqName] = true
		for _, a := range f.Args {
			if !validPass[a.Pass] {
				return fmt.Errorf("function %q: arg pass mode %q not one of value/c_string/by_ref", f.SeqName, a.Pass)
			}
			if _, err := typeFromName(a.Type); err != nil {
				return fmt.Errorf("function %q: %w", f.SeqName, err)
			}
		}
		if f.Return.Type != "" {
			if _, err := typeFromName(f.Return.Type); err != nil {
				return fmt.Errorf("function %q: return %w", f.SeqName, err)
			}
			if f.Return.Ownership != "" && !validOwnership[f.Return.Ownership] {
				return fmt.Errorf("function %q: return ownership %q not one of caller_frees/borrowed", f.SeqName, f.Return.Ownership)
			}
		}
	}
	return nil
}

// typeFromName resolves a manifest's Seq type name to internal/types.Type.
// The manifest format only needs the five primitive Seq types FFI values
// round-trip through (spec §3's type list minus Quotation/Closure/Variant/
// Map/Channel, none of which cross an FFI boundary by value).
func typeFromName(name string) (types.Type, error) {
	switch name {
	case "Int", "Float", "Bool", "String", "Symbol":
		return types.Con{Name: name}, nil
	default:
		return nil, fmt.Errorf("unsupported FFI type %q", name)
	}
}

// Register installs every function in m as a callable word signature (spec
// §4.9 "registers each seq_name as a callable word with the declared
// effect"), so the checker resolves FFI calls exactly like any other word.
func (m *Manifest) Register(table *symbols.Table) error {
	for _, f := range m.Functions {
		inputs := types.StackType(types.SRowVar{Name: "ffi_" + f.SeqName})
		var byRefOuts []types.Type
		for _, a := range f.Args {
			t, err := typeFromName(a.Type)
			if err != nil {
				return err
			}
			// by_ref args are compiler-allocated output storage, not a
			// popped input (Open Question decision #4, manifest.go/
			// ffimanifest.go's genManifestCall): they contribute to the
			// callable word's outputs, in argument order, after the
			// declared return value, instead of to its inputs.
			if a.Pass == "by_ref" {
				byRefOuts = append(byRefOuts, t)
				continue
			}
			inputs = types.SCons{Rest: inputs, Top: t}
		}
		outputs := types.StackType(types.SRowVar{Name: "ffi_" + f.SeqName})
		if f.Return.Type != "" {
			t, err := typeFromName(f.Return.Type)
			if err != nil {
				return err
			}
			outputs = types.SCons{Rest: outputs, Top: t}
		}
		for _, t := range byRefOuts {
			outputs = types.SCons{Rest: outputs, Top: t}
		}
		sig := &symbols.WordSig{
			Name:    f.SeqName,
			Effect:  types.Effect{Inputs: inputs, Outputs: outputs},
			RowVars: []string{"ffi_" + f.SeqName},
		}
		if err := table.DefineWord(sig); err != nil {
			return fmt.Errorf("ffi: %w", err)
		}
	}
	return nil
}
