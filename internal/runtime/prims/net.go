// TCP and HTTP primitives (spec §4.4 "Networking"). Connections and
// listeners are kept in process-wide tables keyed by a small integer
// handle, since the Seq stack only carries tagged 40-byte Values and has
// no room for a live net.Conn.
package prims

import (
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/seqlang/seq/internal/runtime/stack"
)

var (
	netMu      sync.Mutex
	listeners  = map[int64]net.Listener{}
	conns      = map[int64]net.Conn{}
	nextHandle int64 = 1
)

func storeListener(l net.Listener) int64 {
	netMu.Lock()
	defer netMu.Unlock()
	h := nextHandle
	nextHandle++
	listeners[h] = l
	return h
}

func storeConn(c net.Conn) int64 {
	netMu.Lock()
	defer netMu.Unlock()
	h := nextHandle
	nextHandle++
	conns[h] = c
	return h
}

func init() {
	register(mangle("tcp.listen"), func(p *Proc) {
		port := p.Stack.Pop().AsInt()
		l, err := net.Listen("tcp", ":"+strconv.FormatInt(port, 10))
		if err != nil {
			p.Stack.Push(stack.Int(0))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(stack.Int(storeListener(l)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("tcp.accept"), func(p *Proc) {
		h := p.Stack.Pop().AsInt()
		netMu.Lock()
		l, ok := listeners[h]
		netMu.Unlock()
		if !ok {
			p.Stack.Push(stack.Int(0))
			p.Stack.Push(stack.Bool(false))
			return
		}
		c, err := l.Accept()
		if err != nil {
			p.Stack.Push(stack.Int(0))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(stack.Int(storeConn(c)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("tcp.read"), func(p *Proc) {
		maxLen, h := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt()
		netMu.Lock()
		c, ok := conns[h]
		netMu.Unlock()
		if !ok {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		buf := make([]byte, maxLen)
		n, err := c.Read(buf)
		if err != nil && n == 0 {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(buf[:n])))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("tcp.write"), func(p *Proc) {
		data, h := p.Stack.Pop(), p.Stack.Pop().AsInt()
		netMu.Lock()
		c, ok := conns[h]
		netMu.Unlock()
		if !ok {
			releaseValue(data)
			p.Stack.Push(stack.Bool(false))
			return
		}
		_, err := c.Write([]byte(asString(data)))
		releaseValue(data)
		p.Stack.Push(stack.Bool(err == nil))
	})
	register(mangle("tcp.close"), func(p *Proc) {
		h := p.Stack.Pop().AsInt()
		netMu.Lock()
		if c, ok := conns[h]; ok {
			c.Close()
			delete(conns, h)
		}
		if l, ok := listeners[h]; ok {
			l.Close()
			delete(listeners, h)
		}
		netMu.Unlock()
	})

	register(mangle("http.get"), httpNoBody(http.MethodGet))
	register(mangle("http.delete"), httpNoBody(http.MethodDelete))
	register(mangle("http.post"), httpWithBody(http.MethodPost))
	register(mangle("http.put"), httpWithBody(http.MethodPut))
}

func httpNoBody(method string) Func {
	return func(p *Proc) {
		urlVal := p.Stack.Pop()
		req, err := http.NewRequest(method, asString(urlVal), nil)
		releaseValue(urlVal)
		doHTTP(p, req, err)
	}
}

func httpWithBody(method string) Func {
	return func(p *Proc) {
		body, urlVal := p.Stack.Pop(), p.Stack.Pop()
		req, err := http.NewRequest(method, asString(urlVal), strings.NewReader(asString(body)))
		releaseValue(urlVal)
		releaseValue(body)
		doHTTP(p, req, err)
	}
}

// doHTTP pushes the response as a Map with "status" and "body" keys, the
// generic shape spec §4.4 leaves HTTP responses in rather than a dedicated
// record type (no HTTP-specific union is declared anywhere in the spec's
// data model, spec §3).
func doHTTP(p *Proc, req *http.Request, buildErr error) {
	if buildErr != nil {
		p.Stack.Push(newMap(nil))
		p.Stack.Push(stack.Bool(false))
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		p.Stack.Push(newMap(nil))
		p.Stack.Push(stack.Bool(false))
		return
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	entries := []mapEntry{
		{Key: newString("status"), Val: stack.Int(int64(resp.StatusCode))},
		{Key: newString("body"), Val: newString(string(data))},
	}
	p.Stack.Push(newMap(entries))
	p.Stack.Push(stack.Bool(true))
}
