// Package plist implements an order-preserving property-list document model.
//
// A document is a tree of tagged variants: Dict (ordered, unique string
// keys), Array, and the leaf types Bool, Integer, String and Data. Mapping
// key order and array order are significant and survive a Load/Save round
// trip exactly as last mutated; nothing is ever resorted implicitly.
package plist

// Value is a single node of a document tree.
// Implementations: *Dict, Array, Bool, Integer, String, Data.
type Value interface {
	value()
}

// Bool is a boolean leaf.
type Bool bool

// Integer is a signed integer leaf.
type Integer int64

// String is a UTF-8 string leaf.
type String string

// Data is an opaque byte-sequence leaf.
type Data []byte

// Array is an ordered sequence of values.
type Array []Value

// Dict is a mapping with ordered, unique string keys.
// The zero value is not usable; create with NewDict.
type Dict struct {
	keys  []string
	items map[string]Value
}

func (Bool) value()    {}
func (Integer) value() {}
func (String) value()  {}
func (Data) value()    {}
func (Array) value()   {}
func (*Dict) value()   {}

// NewDict creates an empty dictionary.
func NewDict() *Dict {
	return &Dict{items: make(map[string]Value)}
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.items[key]
	return v, ok
}

// Has reports whether key exists.
func (d *Dict) Has(key string) bool {
	_, ok := d.items[key]
	return ok
}

// Set stores v under key. An existing key keeps its position; a new key is
// appended after all current keys.
func (d *Dict) Set(key string, v Value) {
	if _, ok := d.items[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.items[key] = v
}

// Delete removes key and reports whether it was present.
func (d *Dict) Delete(key string) bool {
	if _, ok := d.items[key]; !ok {
		return false
	}
	delete(d.items, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	return len(d.keys)
}

// GetDict returns the child dictionary under key, or nil if the key is
// absent or holds a different type.
func (d *Dict) GetDict(key string) *Dict {
	if v, ok := d.items[key]; ok {
		if child, ok := v.(*Dict); ok {
			return child
		}
	}
	return nil
}

// GetArray returns the child array under key, or nil if the key is absent
// or holds a different type.
func (d *Dict) GetArray(key string) Array {
	if v, ok := d.items[key]; ok {
		if child, ok := v.(Array); ok {
			return child
		}
	}
	return nil
}

// GetString returns the string under key, or "" if absent or not a string.
func (d *Dict) GetString(key string) string {
	if v, ok := d.items[key]; ok {
		if s, ok := v.(String); ok {
			return string(s)
		}
	}
	return ""
}

// GetBool returns the boolean under key, or false if absent or not a bool.
func (d *Dict) GetBool(key string) bool {
	if v, ok := d.items[key]; ok {
		if b, ok := v.(Bool); ok {
			return bool(b)
		}
	}
	return false
}

// Equal reports structural equality of two trees: same shape, same leaf
// values, and for dictionaries the same keys in the same order. It is
// independent of how either tree was produced.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Data:
		bv, ok := b.(Data)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, key := range av.keys {
			if bv.keys[i] != key {
				return false
			}
			x, _ := av.Get(key)
			y, _ := bv.Get(key)
			if !Equal(x, y) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	}
	return false
}

// Clone returns a deep copy of v. Mutating the copy never affects the
// original tree.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Data:
		out := make(Data, len(val))
		copy(out, val)
		return out
	case Array:
		out := make(Array, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case *Dict:
		out := NewDict()
		for _, key := range val.keys {
			item, _ := val.Get(key)
			out.Set(key, Clone(item))
		}
		return out
	default:
		// Bool, Integer, String are immutable value types.
		return val
	}
}

// TypeName returns the plist type name of v ("dict", "array", "string",
// "integer", "bool", "data").
func TypeName(v Value) string {
	switch v.(type) {
	case *Dict:
		return "dict"
	case Array:
		return "array"
	case String:
		return "string"
	case Integer:
		return "integer"
	case Bool:
		return "bool"
	case Data:
		return "data"
	}
	return "unknown"
}
