// Package data loads structured data files into a nested collection that
// templates are rendered against.
//
// Values are modeled as a tagged union of null, scalar, list and map so that
// callers can walk decoded JSON and YAML documents without type switches on
// interface{} everywhere. Collections are merged shallowly: a later file
// replaces a top-level key of an earlier one wholesale.
package data

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindMap
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node of a data collection.
type Value struct {
	kind   Kind
	scalar interface{}
	list   []Value
	m      Collection
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Scalar wraps a string, bool or number.
func Scalar(v interface{}) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindScalar, scalar: v}
}

// List wraps an ordered list of values.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Map wraps a nested collection.
func Map(c Collection) Value {
	if c == nil {
		c = Collection{}
	}
	return Value{kind: KindMap, m: c}
}

// FromInterface converts a decoded JSON or YAML tree into a Value.
func FromInterface(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Collection:
		return Map(t)
	case map[string]interface{}:
		c := make(Collection, len(t))
		for k, item := range t {
			c[k] = FromInterface(item)
		}
		return Map(c)
	case map[interface{}]interface{}:
		c := make(Collection, len(t))
		for k, item := range t {
			c[fmt.Sprint(k)] = FromInterface(item)
		}
		return Map(c)
	case map[string]string:
		c := make(Collection, len(t))
		for k, item := range t {
			c[k] = Scalar(item)
		}
		return Map(c)
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromInterface(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Scalar(item)
		}
		return List(items...)
	default:
		return Scalar(t)
	}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Scalar returns the raw scalar and whether the value is one.
func (v Value) Scalar() (interface{}, bool) {
	return v.scalar, v.kind == KindScalar
}

// String formats scalars with fmt; other kinds yield "".
func (v Value) String() string {
	if v.kind != KindScalar {
		return ""
	}
	if s, ok := v.scalar.(string); ok {
		return s
	}
	return fmt.Sprint(v.scalar)
}

// List returns the items of a list value.
func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Map returns the collection of a map value.
func (v Value) Map() (Collection, bool) {
	return v.m, v.kind == KindMap
}

// Get looks up a key of a map value. Missing keys and non-map values yield
// null.
func (v Value) Get(key string) Value {
	if v.kind != KindMap {
		return Null()
	}
	return v.m.Get(key)
}

// Interface converts the value back into plain Go values suitable for
// template execution.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		items := make([]interface{}, len(v.list))
		for i, item := range v.list {
			items[i] = item.Interface()
		}
		return items
	case KindMap:
		return v.m.Interface()
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}

// Collection is a mapping of keys to values, the root of all data passed to
// templates.
type Collection map[string]Value

// Get returns the value stored under key, or null.
func (c Collection) Get(key string) Value {
	if c == nil {
		return Null()
	}
	v, ok := c[key]
	if !ok {
		return Null()
	}
	return v
}

// Set stores a value converted with FromInterface.
func (c Collection) Set(key string, v interface{}) {
	c[key] = FromInterface(v)
}

// Keys returns the keys in lexical order.
func (c Collection) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the collection into a map of plain Go values.
func (c Collection) Interface() map[string]interface{} {
	out := make(map[string]interface{}, len(c))
	for k, v := range c {
		out[k] = v.Interface()
	}
	return out
}

// Clone returns a shallow copy.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
