// Package value provides the dynamic property value type shared by nodes,
// edges, and the query engine.
//
// Property maps in a labeled property graph are schemaless: a node's "age"
// might be an int on one node and a float on another. Rather than passing
// bare `any` around and type-switching at every call site, Value wraps the
// handful of kinds the engine understands in one comparable, orderable
// struct. Construction helpers (Int, Float, String, ...) and the Equal/
// Compare methods are the only supported way to build and inspect values.
package value

import (
	"fmt"
	"sort"
)

// Kind discriminates the payload held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the property types the engine supports.
// Zero value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a floating-point number.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List wraps an ordered list of values.
func List(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// Map wraps a string-keyed map of values.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

// Of converts a Go native value (string, bool, int/int64, float64, nil,
// []any, map[string]any, or an already-built Value) into a Value. This is
// the on-ramp used by callers building property maps from literals.
func Of(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case string:
		return String(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = Of(e)
		}
		return List(items...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = Of(e)
		}
		return Map(m)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Kind reports the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload; false if v is not a bool.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload; 0 if v is not an int.
func (v Value) Int() int64 { return v.i }

// Float returns the numeric payload as a float64, promoting Int if needed.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Str returns the string payload; "" if v is not a string.
func (v Value) Str() string { return v.s }

// ListItems returns the list payload; nil if v is not a list.
func (v Value) ListItems() []Value { return v.list }

// MapItems returns the map payload; nil if v is not a map.
func (v Value) MapItems() map[string]Value { return v.m }

func isNumeric(k Kind) bool { return k == KindInt || k == KindFloat }

// Equal reports structural equality. Cross-kind comparisons are false
// except numeric Int/Float compared by numeric value, per the engine's
// "mixed-type comparison never errors, just never matches" rule.
func (v Value) Equal(other Value) bool {
	if isNumeric(v.kind) && isNumeric(other.kind) {
		return v.Float() == other.Float()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, a := range v.m {
			b, ok := other.m[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare returns -1, 0, 1 for v < other, v == other, v > other, and ok=false
// when the two values are not ordered relative to each other (different
// kinds outside the numeric pair, or a bool/list/map/null operand). Callers that
// only need equality should use Equal; Compare backs the executor's
// <, <=, >, >= operators.
func (v Value) Compare(other Value) (result int, ok bool) {
	if isNumeric(v.kind) && isNumeric(other.kind) {
		a, b := v.Float(), other.Float()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.kind != other.kind || v.kind != KindString {
		return 0, false
	}
	switch {
	case v.s < other.s:
		return -1, true
	case v.s > other.s:
		return 1, true
	default:
		return 0, true
	}
}

// Contains reports whether other is found within v: substring containment
// when v is a string, membership when v is a list. Any other receiver kind
// reports false.
func (v Value) Contains(other Value) bool {
	switch v.kind {
	case KindString:
		return other.kind == KindString && containsSubstring(v.s, other.s)
	case KindList:
		for _, item := range v.list {
			if item.Equal(other) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func containsSubstring(haystack, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// String renders the value for display/debugging purposes only.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindList:
		return fmt.Sprintf("%v", v.list)
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("%v", keys)
	default:
		return ""
	}
}

// Native converts a Value back into a plain Go value suitable for JSON
// encoding or display; the inverse of Of for the common scalar kinds.
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Native()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item.Native()
		}
		return out
	default:
		return nil
	}
}
