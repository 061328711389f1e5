// Compression and encoding primitives (spec §4.4 "Compression").
package prims

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/seqlang/seq/internal/runtime/stack"
)

func init() {
	register(mangle("gzip.compress"), func(p *Proc) {
		v := p.Stack.Pop()
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, _ = w.Write([]byte(asString(v)))
		_ = w.Close()
		releaseValue(v)
		p.Stack.Push(newString(buf.String()))
	})
	register(mangle("gzip.decompress"), func(p *Proc) {
		v := p.Stack.Pop()
		r, err := gzip.NewReader(bytes.NewReader([]byte(asString(v))))
		releaseValue(v)
		if err != nil {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		data, err := io.ReadAll(r)
		if err != nil {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(data)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("zstd.compress"), func(p *Proc) {
		v := p.Stack.Pop()
		enc, _ := zstd.NewWriter(nil)
		compressed := enc.EncodeAll([]byte(asString(v)), nil)
		_ = enc.Close()
		releaseValue(v)
		p.Stack.Push(newString(string(compressed)))
	})
	register(mangle("zstd.decompress"), func(p *Proc) {
		v := p.Stack.Pop()
		dec, err := zstd.NewReader(nil)
		if err != nil {
			releaseValue(v)
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		data, err := dec.DecodeAll([]byte(asString(v)), nil)
		dec.Close()
		releaseValue(v)
		if err != nil {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(data)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("base64.encode"), func(p *Proc) {
		v := p.Stack.Pop()
		encoded := base64.StdEncoding.EncodeToString([]byte(asString(v)))
		releaseValue(v)
		p.Stack.Push(newString(encoded))
	})
	register(mangle("base64.decode"), func(p *Proc) {
		v := p.Stack.Pop()
		decoded, err := base64.StdEncoding.DecodeString(asString(v))
		releaseValue(v)
		if err != nil {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(decoded)))
		p.Stack.Push(stack.Bool(true))
	})
}
