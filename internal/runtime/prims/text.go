// YAML codec primitives (SPEC_FULL.md DOMAIN STACK: yaml.v3 supplements the
// stdlib-in-Seq "json" mention of spec §1 with the data format the teacher's
// own stack already reaches for, grounded on builtins_yaml.go's
// decode/inferFrom*/encode shape).
package prims

import (
	"gopkg.in/yaml.v3"

	"github.com/seqlang/seq/internal/runtime/stack"
)

func init() {
	register(mangle("yaml.parse"), func(p *Proc) {
		src := p.Stack.Pop()
		var data any
		err := yaml.Unmarshal([]byte(asString(src)), &data)
		releaseValue(src)
		if err != nil {
			p.Stack.Push(stack.Nil())
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(goToValue(data))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("yaml.dump"), func(p *Proc) {
		v := p.Stack.Pop()
		out, err := yaml.Marshal(valueToGo(v))
		releaseValue(v)
		if err != nil {
			p.Stack.Push(newString(""))
			return
		}
		p.Stack.Push(newString(string(out)))
	})
}

// goToValue converts a yaml.Unmarshal result (nil, bool, int, float64,
// string, []any, map[string]any) into a stack.Value, mirroring
// builtins_yaml.go's inferFromYaml switch.
func goToValue(data any) stack.Value {
	switch v := data.(type) {
	case nil:
		return stack.Nil()
	case bool:
		return stack.Bool(v)
	case int:
		return stack.Int(int64(v))
	case int64:
		return stack.Int(v)
	case float64:
		return stack.Float(v)
	case string:
		return newString(v)
	case []any:
		items := make([]stack.Value, len(v))
		for i, item := range v {
			items[i] = goToValue(item)
		}
		return newList(items)
	case map[string]any:
		entries := make([]mapEntry, 0, len(v))
		for k, val := range v {
			entries = append(entries, mapEntry{Key: newString(k), Val: goToValue(val)})
		}
		return newMap(entries)
	default:
		return newString("")
	}
}

// valueToGo is goToValue's inverse, used by yaml.dump to hand yaml.Marshal a
// plain Go value it knows how to encode.
func valueToGo(v stack.Value) any {
	switch v.Kind {
	case stack.KindNil:
		return nil
	case stack.KindBool:
		return v.AsBool()
	case stack.KindInt:
		return v.AsInt()
	case stack.KindFloat:
		return v.AsFloat()
	case stack.KindSymbol:
		return symbolName(v.Data)
	case stack.KindString:
		return asString(v)
	case stack.KindMap:
		if isList(v) {
			items := asList(v).Items
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = valueToGo(item)
			}
			return out
		}
		entries := asMap(v).Entries
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			key := e.Key
			if key.Kind == stack.KindString {
				out[asString(key)] = valueToGo(e.Val)
			}
		}
		return out
	case stack.KindVariant:
		vp := asVariant(v)
		fields := make([]any, len(vp.Fields))
		for i, f := range vp.Fields {
			fields[i] = valueToGo(f)
		}
		return map[string]any{"tag": vp.Tag, "fields": fields}
	default:
		return nil
	}
}
