package document

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	// KindNull is the zero Value.
	KindNull Kind = iota
	// KindString holds a string.
	KindString
	// KindInt holds an int64.
	KindInt
	// KindFloat holds a float64.
	KindFloat
	// KindBool holds a bool.
	KindBool
	// KindList holds an ordered list of Values.
	KindList
	// KindMap holds string keys in insertion order.
	KindMap
)

var kindNames = [...]string{
	KindNull:   "null",
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindList:   "list",
	KindMap:    "map",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an immutable node of a configuration document. The zero Value is null.
// Maps keep their keys in insertion order.
type Value struct {
	kind  Kind
	str   string
	num   int64
	flt   float64
	flag  bool
	items []Value
	keys  []string
	index map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// List returns a list holding a copy of items.
func List(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindList, items: out}
}

// Strings returns a list of string values.
func Strings(ss []string) Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = Str(s)
	}
	return Value{kind: KindList, items: out}
}

// NewMap returns an empty map value.
func NewMap() Value {
	return Value{kind: KindMap, index: map[string]Value{}}
}

// FromStringMap returns a map value with the entries of m in sorted key order.
func FromStringMap(m map[string]string) Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := Value{kind: KindMap, keys: keys, index: make(map[string]Value, len(m))}
	for _, k := range keys {
		out.index[k] = Str(m[k])
	}
	return out
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsMap reports whether v is a map.
func (v Value) IsMap() bool { return v.kind == KindMap }

// IsList reports whether v is a list.
func (v Value) IsList() bool { return v.kind == KindList }

// IsScalar reports whether v is neither a list nor a map.
func (v Value) IsScalar() bool { return v.kind != KindList && v.kind != KindMap }

// AsString returns the string held by v and whether v is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsInt returns the integer held by v and whether v is an int.
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == KindInt }

// AsFloat returns the float held by v and whether v is a float.
func (v Value) AsFloat() (float64, bool) { return v.flt, v.kind == KindFloat }

// AsBool returns the boolean held by v and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

// Len reports the number of list items or map entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th list item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Keys returns the map keys in insertion order, or nil when v is not a map.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Get returns the entry stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	e, ok := v.index[key]
	return e, ok
}

// Has reports whether the map holds key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set returns a copy of the map with key bound to e. Existing keys keep their
// position. Setting on a non-map value starts from an empty map.
func (v Value) Set(key string, e Value) Value {
	out := Value{kind: KindMap}
	if v.kind == KindMap {
		out.keys = make([]string, len(v.keys), len(v.keys)+1)
		copy(out.keys, v.keys)
		out.index = make(map[string]Value, len(v.index)+1)
		for k, val := range v.index {
			out.index[k] = val
		}
	} else {
		out.index = map[string]Value{}
	}
	if _, exists := out.index[key]; !exists {
		out.keys = append(out.keys, key)
	}
	out.index[key] = e
	return out
}

// Map applies fn to every entry value of a map, or every item of a list,
// and returns the rebuilt container. Scalars are returned unchanged.
func (v Value) Map(fn func(Value) (Value, error)) (Value, error) {
	switch v.kind {
	case KindList:
		out := make([]Value, len(v.items))
		for i, item := range v.items {
			mapped, err := fn(item)
			if err != nil {
				return Value{}, err
			}
			out[i] = mapped
		}
		return Value{kind: KindList, items: out}, nil
	case KindMap:
		out := Value{kind: KindMap, keys: make([]string, len(v.keys)), index: make(map[string]Value, len(v.index))}
		copy(out.keys, v.keys)
		for _, k := range v.keys {
			mapped, err := fn(v.index[k])
			if err != nil {
				return Value{}, err
			}
			out.index[k] = mapped
		}
		return out, nil
	default:
		return v, nil
	}
}

// Equal reports deep equality. Map key order is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt || (math.IsNaN(v.flt) && math.IsNaN(o.flt))
	case KindBool:
		return v.flag == o.flag
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.index) != len(o.index) {
			return false
		}
		for k, e := range v.index {
			oe, ok := o.index[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders scalars as text. Containers render in Go syntax.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Interface converts v into plain Go values: nil, string, int64, float64,
// bool, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.flag
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.index))
		for k, e := range v.index {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}
