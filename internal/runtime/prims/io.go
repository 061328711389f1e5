// I/O, OS, and terminal primitives (spec §4.4 "I/O", "OS", "Terminal").
package prims

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/seqlang/seq/internal/runtime/stack"
)

var stdinReader = bufio.NewReader(os.Stdin)

func init() {
	register(mangle("io.write-line"), func(p *Proc) {
		v := p.Stack.Pop()
		fmt.Println(asString(v))
		releaseValue(v)
	})
	register(mangle("io.read-line"), func(p *Proc) {
		line, err := stdinReader.ReadString('\n')
		if err != nil && line == "" {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(trimNewline(line)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("io.slurp"), func(p *Proc) {
		v := p.Stack.Pop()
		data, err := os.ReadFile(asString(v))
		releaseValue(v)
		if err != nil {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(data)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("io.spit"), func(p *Proc) {
		content, path := p.Stack.Pop(), p.Stack.Pop()
		err := os.WriteFile(asString(path), []byte(asString(content)), 0o644)
		releaseValue(path)
		releaseValue(content)
		p.Stack.Push(stack.Bool(err == nil))
	})

	register(mangle("os.env"), func(p *Proc) {
		v := p.Stack.Pop()
		val, ok := os.LookupEnv(asString(v))
		releaseValue(v)
		p.Stack.Push(newString(val))
		p.Stack.Push(stack.Bool(ok))
	})
	register(mangle("os.args"), func(p *Proc) {
		items := make([]stack.Value, len(os.Args))
		for i, a := range os.Args {
			items[i] = newString(a)
		}
		p.Stack.Push(newList(items))
	})
	register(mangle("os.exit"), func(p *Proc) { os.Exit(int(p.Stack.Pop().AsInt())) })
	register(mangle("os.path-join"), func(p *Proc) {
		b, a := p.Stack.Pop(), p.Stack.Pop()
		joined := filepath.Join(asString(a), asString(b))
		releaseValue(a)
		releaseValue(b)
		p.Stack.Push(newString(joined))
	})

	register(mangle("term.raw-mode"), func(p *Proc) {
		enable := p.Stack.Pop().AsBool()
		fd := int(os.Stdin.Fd())
		if enable {
			state, err := term.MakeRaw(fd)
			if err == nil {
				rawState = state
			}
		} else if rawState != nil {
			_ = term.Restore(fd, rawState)
			rawState = nil
		}
	})
	register(mangle("term.read-char"), func(p *Proc) {
		r, _, err := stdinReader.ReadRune()
		if err != nil {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(r)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("term.width"), func(p *Proc) {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || !isatty.IsTerminal(os.Stdout.Fd()) {
			p.Stack.Push(stack.Int(80))
			return
		}
		p.Stack.Push(stack.Int(int64(w)))
	})
	register(mangle("term.flush"), func(p *Proc) { os.Stdout.Sync() })
	register(mangle("term.is-tty"), func(p *Proc) {
		p.Stack.Push(stack.Bool(isatty.IsTerminal(os.Stdout.Fd())))
	})
}

// rawState holds the terminal state term.raw-mode restores on disable
// (spec §4.4 "term.raw-mode(enable)" — one flip-flop per process, matching
// how a Seq program is expected to toggle raw mode around a UI loop rather
// than nest it).
var rawState *term.State

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
