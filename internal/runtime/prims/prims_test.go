package prims

import (
	"testing"

	"github.com/seqlang/seq/internal/runtime/stack"
)

func newProc() *Proc {
	return &Proc{Stack: stack.New(64)}
}

func call(t *testing.T, name string, p *Proc) {
	t.Helper()
	fn, ok := Table[mangle(name)]
	if !ok {
		t.Fatalf("no primitive registered for %q (mangled %q)", name, mangle(name))
	}
	fn(p)
}

func TestArith(t *testing.T) {
	p := newProc()
	p.Stack.Push(stack.Int(7))
	p.Stack.Push(stack.Int(3))
	call(t, "i.+", p)
	if got := p.Stack.Pop().AsInt(); got != 10 {
		t.Errorf("i.+ = %d, want 10", got)
	}

	p.Stack.Push(stack.Int(7))
	p.Stack.Push(stack.Int(0))
	call(t, "i./-flag", p)
	ok := p.Stack.Pop().AsBool()
	p.Stack.Pop()
	if ok {
		t.Error("i./-flag by zero should report ok=false")
	}
}

func TestBitwiseBool(t *testing.T) {
	p := newProc()
	p.Stack.Push(stack.Int(0b1010))
	p.Stack.Push(stack.Int(0b0110))
	call(t, "bit.and", p)
	if got := p.Stack.Pop().AsInt(); got != 0b0010 {
		t.Errorf("bit.and = %b, want %b", got, 0b0010)
	}
}

func TestStringOps(t *testing.T) {
	p := newProc()
	p.Stack.Push(newString("foo"))
	p.Stack.Push(newString("bar"))
	call(t, "str.concat", p)
	v := p.Stack.Pop()
	if got := asString(v); got != "foobar" {
		t.Errorf("str.concat = %q, want foobar", got)
	}
	releaseValue(v)

	p.Stack.Push(newString("hello world"))
	p.Stack.Push(newString(" "))
	call(t, "str.split", p)
	list := p.Stack.Pop()
	items := asList(list).Items
	if len(items) != 2 || asString(items[0]) != "hello" || asString(items[1]) != "world" {
		t.Errorf("str.split produced %v items", items)
	}
	releaseValue(list)
}

func TestListRoundTrip(t *testing.T) {
	p := newProc()
	call(t, "list.make", p)
	p.Stack.Push(stack.Int(42))
	call(t, "list.push", p)
	listVal := p.Stack.Peek(0)
	if got := asList(listVal).Items; len(got) != 1 || got[0].AsInt() != 42 {
		t.Fatalf("list.push produced %v", got)
	}

	p.Stack.Push(stack.Int(0))
	call(t, "list.get", p)
	ok := p.Stack.Pop().AsBool()
	got := p.Stack.Pop().AsInt()
	if !ok || got != 42 {
		t.Errorf("list.get = (%d, %v), want (42, true)", got, ok)
	}
}

func TestMapSetGetDel(t *testing.T) {
	p := newProc()
	call(t, "map.make", p)
	p.Stack.Push(newString("k"))
	p.Stack.Push(stack.Int(99))
	call(t, "map.set", p)
	mapVal := p.Stack.Pop()

	p.Stack.Push(dupValue(mapVal))
	p.Stack.Push(newString("k"))
	call(t, "map.get", p)
	ok := p.Stack.Pop().AsBool()
	got := p.Stack.Pop().AsInt()
	if !ok || got != 99 {
		t.Fatalf("map.get = (%d, %v), want (99, true)", got, ok)
	}

	p.Stack.Push(mapVal)
	p.Stack.Push(newString("k"))
	call(t, "map.del", p)
	deleted := p.Stack.Pop()
	if got := len(asMap(deleted).Entries); got != 0 {
		t.Errorf("map.del left %d entries, want 0", got)
	}
	releaseValue(deleted)
}

func TestVariantTag(t *testing.T) {
	p := newProc()
	p.Stack.Push(newVariant("Circle", []stack.Value{stack.Float(1.5)}))
	call(t, "variant.tag", p)
	id := p.Stack.Pop().Data
	if got := symbolName(id); got != "Circle" {
		t.Errorf("variant.tag interned %q, want Circle", got)
	}
}

func TestRegex(t *testing.T) {
	p := newProc()
	p.Stack.Push(newString("2026-07-29"))
	p.Stack.Push(newString(`^\d{4}-\d{2}-\d{2}$`))
	call(t, "re.match", p)
	if !p.Stack.Pop().AsBool() {
		t.Error("re.match should match an ISO date")
	}
}

func TestBase64RoundTrip(t *testing.T) {
	p := newProc()
	p.Stack.Push(newString("hello"))
	call(t, "base64.encode", p)
	encoded := p.Stack.Pop()

	p.Stack.Push(encoded)
	call(t, "base64.decode", p)
	ok := p.Stack.Pop().AsBool()
	decoded := p.Stack.Pop()
	if !ok || asString(decoded) != "hello" {
		t.Errorf("base64 round trip = %q, ok=%v", asString(decoded), ok)
	}
	releaseValue(decoded)
}

func TestGzipRoundTrip(t *testing.T) {
	p := newProc()
	p.Stack.Push(newString("compress me compress me compress me"))
	call(t, "gzip.compress", p)
	compressed := p.Stack.Pop()

	p.Stack.Push(compressed)
	call(t, "gzip.decompress", p)
	ok := p.Stack.Pop().AsBool()
	decompressed := p.Stack.Pop()
	if !ok || asString(decompressed) != "compress me compress me compress me" {
		t.Errorf("gzip round trip failed: ok=%v, got %q", ok, asString(decompressed))
	}
	releaseValue(decompressed)
}

func TestSHA256(t *testing.T) {
	p := newProc()
	p.Stack.Push(newString("abc"))
	call(t, "crypto.sha256", p)
	sum := p.Stack.Pop()
	if got := len(asString(sum)); got != 32 {
		t.Errorf("crypto.sha256 produced %d bytes, want 32", got)
	}
	releaseValue(sum)
}

func TestChannelSendReceive(t *testing.T) {
	p := newProc()
	call(t, "chan.make", p)
	ch := p.Stack.Peek(0)

	done := make(chan bool)
	go func() {
		pr := &Proc{Stack: stack.New(8)}
		pr.Stack.Push(ch)
		pr.Stack.Push(stack.Int(5))
		call(t, "chan.send", pr)
		done <- pr.Stack.Pop().AsBool()
	}()

	p.Stack.Push(ch)
	call(t, "chan.receive", p)
	ok := p.Stack.Pop().AsBool()
	val := p.Stack.Pop().AsInt()
	if !ok || val != 5 {
		t.Errorf("chan.receive = (%d, %v), want (5, true)", val, ok)
	}
	if !<-done {
		t.Error("chan.send reported failure on an open channel")
	}
}
