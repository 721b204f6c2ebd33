package jinja

import "fmt"

// Value is a runtime value seen by the evaluator. The language knows five
// kinds: string, bool, list, dict, and none. Truth reports the truthiness
// used by if conditions; String is the directly rendered form, which only
// exists for string, bool, and none values.
type Value interface {
	String() string
	Truth() bool
}

// Context is the base variable scope seeded into a render.
type Context map[string]Value

// NoneValue is the absent value: unbound variables resolve to it, and it
// renders as the empty string.
type NoneValue struct{}

func (NoneValue) String() string { return "" }
func (NoneValue) Truth() bool    { return false }

// BoolValue wraps a boolean. It renders spelled out as true/false.
type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b BoolValue) Truth() bool { return bool(b) }

// StringValue wraps a string.
type StringValue string

func (s StringValue) String() string { return string(s) }
func (s StringValue) Truth() bool    { return len(s) > 0 }

// ListValue wraps an ordered list of values. It is not directly renderable;
// elements are reached through index access.
type ListValue []Value

func (l ListValue) String() string { return "[...]" }
func (l ListValue) Truth() bool    { return len(l) > 0 }

// DictValue wraps a string-keyed mapping. It is not directly renderable;
// entries are reached through attribute or index access.
type DictValue map[string]Value

func (d DictValue) String() string { return "{...}" }
func (d DictValue) Truth() bool    { return len(d) > 0 }

// kindOf names a value's kind for error messages.
func kindOf(v Value) string {
	switch v.(type) {
	case NoneValue:
		return "none"
	case BoolValue:
		return "bool"
	case StringValue:
		return "string"
	case ListValue:
		return "list"
	case DictValue:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// valueEqual compares two values structurally: kinds and contents must both
// match.
func valueEqual(a, b Value) bool {
	switch av := a.(type) {
	case NoneValue:
		_, ok := b.(NoneValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case ListValue:
		bv, ok := b.(ListValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case DictValue:
		bv, ok := b.(DictValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !valueEqual(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

// FromGo converts a decoded Go value (e.g. from a yaml or json message
// file) into a Value. Numbers have no native kind in the template language
// and are carried as their decimal string form.
func FromGo(v any) Value {
	switch t := v.(type) {
	case nil:
		return NoneValue{}
	case Value:
		return t
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case []any:
		out := make(ListValue, 0, len(t))
		for _, item := range t {
			out = append(out, FromGo(item))
		}
		return out
	case map[string]any:
		out := DictValue{}
		for k, item := range t {
			out[k] = FromGo(item)
		}
		return out
	}
	return StringValue(fmt.Sprintf("%v", v))
}
