// Regular-expression primitives (spec §4.4 "Regex"), backed by Go's RE2
// engine. Compiled patterns are cached since a Seq program typically
// reuses the same literal pattern string across many calls in a loop.
package prims

import (
	"regexp"
	"sync"

	"github.com/seqlang/seq/internal/runtime/stack"
)

var (
	reMu    sync.Mutex
	reCache = map[string]*regexp.Regexp{}
)

func compileRe(pattern string) (*regexp.Regexp, error) {
	reMu.Lock()
	defer reMu.Unlock()
	if re, ok := reCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	reCache[pattern] = re
	return re, nil
}

func init() {
	register(mangle("re.match"), func(p *Proc) {
		pattern, s := p.Stack.Pop(), p.Stack.Pop()
		re, err := compileRe(asString(pattern))
		matched := err == nil && re.MatchString(asString(s))
		releaseValue(pattern)
		releaseValue(s)
		p.Stack.Push(stack.Bool(matched))
	})
	register(mangle("re.find"), func(p *Proc) {
		pattern, s := p.Stack.Pop(), p.Stack.Pop()
		re, err := compileRe(asString(pattern))
		var found string
		var ok bool
		if err == nil {
			found = re.FindString(asString(s))
			ok = found != "" || re.MatchString(asString(s))
		}
		releaseValue(pattern)
		releaseValue(s)
		p.Stack.Push(newString(found))
		p.Stack.Push(stack.Bool(ok))
	})
	register(mangle("re.replace"), func(p *Proc) {
		repl, pattern, s := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
		re, err := compileRe(asString(pattern))
		result := asString(s)
		if err == nil {
			result = re.ReplaceAllString(result, asString(repl))
		}
		releaseValue(repl)
		releaseValue(pattern)
		releaseValue(s)
		p.Stack.Push(newString(result))
	})
	register(mangle("re.captures"), func(p *Proc) {
		pattern, s := p.Stack.Pop(), p.Stack.Pop()
		re, err := compileRe(asString(pattern))
		releaseValue(pattern)
		if err != nil {
			releaseValue(s)
			p.Stack.Push(newList(nil))
			p.Stack.Push(stack.Bool(false))
			return
		}
		groups := re.FindStringSubmatch(asString(s))
		releaseValue(s)
		if groups == nil {
			p.Stack.Push(newList(nil))
			p.Stack.Push(stack.Bool(false))
			return
		}
		items := make([]stack.Value, len(groups))
		for i, g := range groups {
			items[i] = newString(g)
		}
		p.Stack.Push(newList(items))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("re.split"), func(p *Proc) {
		pattern, s := p.Stack.Pop(), p.Stack.Pop()
		re, err := compileRe(asString(pattern))
		var parts []string
		if err == nil {
			parts = re.Split(asString(s), -1)
		} else {
			parts = []string{asString(s)}
		}
		releaseValue(pattern)
		releaseValue(s)
		items := make([]stack.Value, len(parts))
		for i, part := range parts {
			items[i] = newString(part)
		}
		p.Stack.Push(newList(items))
	})
}
