package symbols

import "github.com/seqlang/seq/internal/types"

// prelude builds the effect of a primitive operation relative to a fresh
// implicit row (spec §4.5): `ins -- outs` becomes `..r ins -- ..r outs`.
// This is the same normalization pass 1 applies to every word's declared
// effect (spec §4.7 "Pass 1"), applied once here for built-ins so the
// prelude table and user declarations share one shape.
func prelude(rowName string, ins, outs []types.Type) types.Effect {
	row := types.StackType(types.SRowVar{Name: rowName})
	in := row
	for _, t := range ins {
		in = types.SCons{Rest: in, Top: t}
	}
	out := row
	for _, t := range outs {
		out = types.SCons{Rest: out, Top: t}
	}
	return types.Effect{Inputs: in, Outputs: out}
}

// defPrim registers one primitive's signature under a fresh row, mirroring
// how implicit effects are normalized at intake (spec §4.5). Any type
// variable appearing in ins/outs (e.g. the "a" in chan.send's payload) is
// quantified alongside the row, so that two call sites of a generic
// primitive like chan.make don't end up unifying against the same global
// variable.
func (t *Table) defPrim(n int, name string, ins, outs []types.Type) {
	row := "p" + name
	_ = n
	eff := prelude(row, ins, outs)
	_ = t.DefineWord(&WordSig{
		Name:     name,
		Effect:   eff,
		TypeVars: dedupStrings(eff.FreeTypeVars()),
		RowVars:  []string{row},
	})
}

func dedupStrings(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

var (
	tI = types.Int
	tF = types.Float
	tB = types.Bool
	tS = types.String
	tY = types.Symbol
)

func tv(name string) types.Type { return types.Var{Name: name} }

// list/map/quotation/channel are represented as Named types, since their
// element types are part of the spec's data model (§3) but the prelude
// doesn't need to fully parameterize every container for the primitives
// that merely move them around.
var (
	tList = types.Con{Name: "List", Args: []types.Type{tv("a")}}
	tMap  = types.Con{Name: "Map", Args: []types.Type{tv("k"), tv("v")}}
	tChan = types.Con{Name: "Channel", Args: []types.Type{tv("a")}}
)

// InitPrelude registers every stack-manipulation primitive (spec §4.1) and
// the ~150-entry FFI-callable catalog of spec §4.4. Each is installed with
// its own implicit row variable, exactly as a user word declaration would be
// normalized at intake.
func (t *Table) InitPrelude() {
	t.initStackOps()
	t.initArith()
	t.initBitwiseBool()
	t.initStrings()
	t.initConversions()
	t.initVariantsCollections()
	t.initIO()
	t.initNet()
	t.initTime()
	t.initCrypto()
	t.initCompression()
	t.initHTTP()
	t.initRegex()
	t.initOS()
	t.initTerm()
	t.initScheduler()
	t.initText()
}

// --- 4.1 Value & Stack Model ---

func (t *Table) initStackOps() {
	a, b, c := tv("a"), tv("b"), tv("c")
	t.defPrim(0, "dup", []types.Type{a}, []types.Type{a, a})
	t.defPrim(0, "drop", []types.Type{a}, nil)
	t.defPrim(0, "swap", []types.Type{a, b}, []types.Type{b, a})
	t.defPrim(0, "over", []types.Type{a, b}, []types.Type{a, b, a})
	t.defPrim(0, "rot", []types.Type{a, b, c}, []types.Type{b, c, a})
	t.defPrim(0, "nip", []types.Type{a, b}, []types.Type{b})
	t.defPrim(0, "tuck", []types.Type{a, b}, []types.Type{b, a, b})
	// pick/roll take a literal depth at the syntax level (spec §4.7 "Special
	// cases"); the prelude signature here is the generic fallback used when
	// the checker cannot see a literal argument.
	t.defPrim(0, "pick", []types.Type{tI}, []types.Type{a})
	t.defPrim(0, "roll", []types.Type{tI}, nil)
}

func (t *Table) initArith() {
	for _, op := range []string{"i.+", "i.-", "i.*", "i./", "i.%"} {
		t.defPrim(0, op, []types.Type{tI, tI}, []types.Type{tI})
	}
	t.defPrim(0, "i./-flag", []types.Type{tI, tI}, []types.Type{tI, tB})
	for _, op := range []string{"i.=", "i.<>", "i.<", "i.<=", "i.>", "i.>="} {
		t.defPrim(0, op, []types.Type{tI, tI}, []types.Type{tB})
	}
	t.defPrim(0, "i.neg", []types.Type{tI}, []types.Type{tI})
	t.defPrim(0, "i.abs", []types.Type{tI}, []types.Type{tI})

	for _, op := range []string{"f.+", "f.-", "f.*", "f./"} {
		t.defPrim(0, op, []types.Type{tF, tF}, []types.Type{tF})
	}
	for _, op := range []string{"f.=", "f.<", "f.<=", "f.>", "f.>="} {
		t.defPrim(0, op, []types.Type{tF, tF}, []types.Type{tB})
	}
	t.defPrim(0, "f.sqrt", []types.Type{tF}, []types.Type{tF})
	t.defPrim(0, "f.floor", []types.Type{tF}, []types.Type{tF})
	t.defPrim(0, "f.ceil", []types.Type{tF}, []types.Type{tF})
}

func (t *Table) initBitwiseBool() {
	for _, op := range []string{"b.and", "b.or", "b.xor"} {
		t.defPrim(0, op, []types.Type{tB, tB}, []types.Type{tB})
	}
	t.defPrim(0, "b.not", []types.Type{tB}, []types.Type{tB})
	for _, op := range []string{"bit.and", "bit.or", "bit.xor", "bit.shl", "bit.shr"} {
		t.defPrim(0, op, []types.Type{tI, tI}, []types.Type{tI})
	}
	t.defPrim(0, "bit.not", []types.Type{tI}, []types.Type{tI})
}

func (t *Table) initStrings() {
	t.defPrim(0, "str.concat", []types.Type{tS, tS}, []types.Type{tS})
	t.defPrim(0, "str.len", []types.Type{tS}, []types.Type{tI})
	t.defPrim(0, "str.substr", []types.Type{tS, tI, tI}, []types.Type{tS})
	t.defPrim(0, "str.find", []types.Type{tS, tS}, []types.Type{tI, tB})
	t.defPrim(0, "str.split", []types.Type{tS, tS}, []types.Type{tList})
	t.defPrim(0, "str.join", []types.Type{tList, tS}, []types.Type{tS})
	t.defPrim(0, "str.upper", []types.Type{tS}, []types.Type{tS})
	t.defPrim(0, "str.lower", []types.Type{tS}, []types.Type{tS})
	t.defPrim(0, "str.trim", []types.Type{tS}, []types.Type{tS})
	t.defPrim(0, "str.char-at", []types.Type{tS, tI}, []types.Type{tS, tB})
	t.defPrim(0, "str.eq", []types.Type{tS, tS}, []types.Type{tB})
	t.defPrim(0, "str.to-symbol", []types.Type{tS}, []types.Type{tY})
}

func (t *Table) initConversions() {
	t.defPrim(0, "i.to-f", []types.Type{tI}, []types.Type{tF})
	t.defPrim(0, "f.to-i", []types.Type{tF}, []types.Type{tI})
	t.defPrim(0, "i.to-str", []types.Type{tI}, []types.Type{tS})
	t.defPrim(0, "f.to-str", []types.Type{tF}, []types.Type{tS})
	t.defPrim(0, "str.to-i", []types.Type{tS}, []types.Type{tI, tB})
	t.defPrim(0, "str.to-f", []types.Type{tS}, []types.Type{tF, tB})
	t.defPrim(0, "sym.to-str", []types.Type{tY}, []types.Type{tS})
}

func (t *Table) initVariantsCollections() {
	a := tv("a")
	// Variant inspection: a generic accessor used by generated match code;
	// real field accessors are synthesized per-union (symbols.go DefineUnion).
	t.defPrim(0, "variant.tag", []types.Type{tv("v")}, []types.Type{tY})

	t.defPrim(0, "list.make", nil, []types.Type{tList})
	t.defPrim(0, "list.push", []types.Type{tList, a}, []types.Type{tList})
	t.defPrim(0, "list.len", []types.Type{tList}, []types.Type{tI})
	t.defPrim(0, "list.get", []types.Type{tList, tI}, []types.Type{a, tB})
	t.defPrim(0, "list.concat", []types.Type{tList, tList}, []types.Type{tList})

	t.defPrim(0, "map.make", nil, []types.Type{tMap})
	t.defPrim(0, "map.set", []types.Type{tMap, tv("k"), tv("v")}, []types.Type{tMap})
	t.defPrim(0, "map.get", []types.Type{tMap, tv("k")}, []types.Type{tv("v"), tB})
	t.defPrim(0, "map.del", []types.Type{tMap, tv("k")}, []types.Type{tMap})
	t.defPrim(0, "map.len", []types.Type{tMap}, []types.Type{tI})
}

func (t *Table) initIO() {
	t.defPrim(0, "io.write-line", []types.Type{tS}, nil)
	t.defPrim(0, "io.read-line", nil, []types.Type{tS, tB})
	t.defPrim(0, "io.slurp", []types.Type{tS}, []types.Type{tS, tB})
	t.defPrim(0, "io.spit", []types.Type{tS, tS}, []types.Type{tB})
}

func (t *Table) initNet() {
	t.defPrim(0, "tcp.listen", []types.Type{tI}, []types.Type{tI, tB})
	t.defPrim(0, "tcp.accept", []types.Type{tI}, []types.Type{tI, tB})
	t.defPrim(0, "tcp.read", []types.Type{tI, tI}, []types.Type{tS, tB})
	t.defPrim(0, "tcp.write", []types.Type{tI, tS}, []types.Type{tB})
	t.defPrim(0, "tcp.close", []types.Type{tI}, nil)
}

func (t *Table) initTime() {
	t.defPrim(0, "time.now-ms", nil, []types.Type{tI})
	t.defPrim(0, "time.sleep-ms", []types.Type{tI}, nil)
}

func (t *Table) initCrypto() {
	t.defPrim(0, "crypto.sha256", []types.Type{tS}, []types.Type{tS})
	t.defPrim(0, "crypto.hmac-sha256", []types.Type{tS, tS}, []types.Type{tS})
	t.defPrim(0, "crypto.aes-gcm-encrypt", []types.Type{tS, tS}, []types.Type{tS, tB})
	t.defPrim(0, "crypto.aes-gcm-decrypt", []types.Type{tS, tS}, []types.Type{tS, tB})
	t.defPrim(0, "crypto.pbkdf2", []types.Type{tS, tS, tI}, []types.Type{tS})
	t.defPrim(0, "crypto.ed25519-sign", []types.Type{tS, tS}, []types.Type{tS})
	t.defPrim(0, "crypto.ed25519-verify", []types.Type{tS, tS, tS}, []types.Type{tB})
	t.defPrim(0, "crypto.uuid", nil, []types.Type{tS})
	t.defPrim(0, "crypto.random-bytes", []types.Type{tI}, []types.Type{tS})
}

func (t *Table) initCompression() {
	t.defPrim(0, "gzip.compress", []types.Type{tS}, []types.Type{tS})
	t.defPrim(0, "gzip.decompress", []types.Type{tS}, []types.Type{tS, tB})
	t.defPrim(0, "zstd.compress", []types.Type{tS}, []types.Type{tS})
	t.defPrim(0, "zstd.decompress", []types.Type{tS}, []types.Type{tS, tB})
	t.defPrim(0, "base64.encode", []types.Type{tS}, []types.Type{tS})
	t.defPrim(0, "base64.decode", []types.Type{tS}, []types.Type{tS, tB})
}

func (t *Table) initHTTP() {
	for _, op := range []string{"http.get", "http.delete"} {
		t.defPrim(0, op, []types.Type{tS}, []types.Type{tMap, tB})
	}
	for _, op := range []string{"http.post", "http.put"} {
		t.defPrim(0, op, []types.Type{tS, tS}, []types.Type{tMap, tB})
	}
}

func (t *Table) initRegex() {
	t.defPrim(0, "re.match", []types.Type{tS, tS}, []types.Type{tB})
	t.defPrim(0, "re.find", []types.Type{tS, tS}, []types.Type{tS, tB})
	t.defPrim(0, "re.replace", []types.Type{tS, tS, tS}, []types.Type{tS})
	t.defPrim(0, "re.captures", []types.Type{tS, tS}, []types.Type{tList, tB})
	t.defPrim(0, "re.split", []types.Type{tS, tS}, []types.Type{tList})
}

func (t *Table) initOS() {
	t.defPrim(0, "os.env", []types.Type{tS}, []types.Type{tS, tB})
	t.defPrim(0, "os.args", nil, []types.Type{tList})
	t.defPrim(0, "os.exit", []types.Type{tI}, nil)
	t.defPrim(0, "os.path-join", []types.Type{tS, tS}, []types.Type{tS})
}

func (t *Table) initTerm() {
	t.defPrim(0, "term.raw-mode", []types.Type{tB}, nil)
	t.defPrim(0, "term.read-char", nil, []types.Type{tS, tB})
	t.defPrim(0, "term.width", nil, []types.Type{tI})
	t.defPrim(0, "term.flush", nil, nil)
	t.defPrim(0, "term.is-tty", nil, []types.Type{tB})
}

// --- Scheduler primitives (spec §4.3). `spawn` is not registered here: its
// quotation/closure operand is polymorphic in effect (spec §4.7 "Special
// cases"), so the checker special-cases it the way it special-cases
// pick/roll.
func (t *Table) initScheduler() {
	a := tv("a")
	t.defPrim(0, "chan.make", nil, []types.Type{tChan})
	t.defPrim(0, "chan.send", []types.Type{a, tChan}, []types.Type{tB})
	t.defPrim(0, "chan.receive", []types.Type{tChan}, []types.Type{a, tB})
	t.defPrim(0, "chan.close", []types.Type{tChan}, nil)
	t.defPrim(0, "yield", nil, nil)
	t.defPrim(0, "strand.resume", []types.Type{tI, a}, []types.Type{a, tB})
	t.defPrim(0, "strand.weave-cancel", []types.Type{tI}, nil)
}

// initText registers the YAML codec (SPEC_FULL.md DOMAIN STACK: yaml.v3
// supplements the stdlib-in-Seq "json" mention of spec §1 with the analogous
// format already in the teacher's own dependency stack).
func (t *Table) initText() {
	a := tv("a")
	t.defPrim(0, "yaml.parse", []types.Type{tS}, []types.Type{a, tB})
	t.defPrim(0, "yaml.dump", []types.Type{a}, []types.Type{tS})
}
