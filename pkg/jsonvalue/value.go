// Package jsonvalue implements a small tagged-variant JSON value with
// structural equality, used as the key/value payload of DecSync entries.
// It is a leaf package with zero external dependencies beyond stdlib.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value variants, matching the JSON type grammar: null, bool, number
// (int64 or float64), string, array, object.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// Value is a tagged union over the JSON data model. The zero Value is
// KindNull. Values are immutable once constructed; Array and Object hold
// their own backing slice/map, never shared with caller-supplied storage
// that might mutate after construction.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	arr    []Value
	obj    map[string]Value
	objKey []string // insertion order, for deterministic re-encoding
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an int64.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float64.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of Values. The slice is copied defensively.
func Array(vs []Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)

	return Value{kind: KindArray, arr: cp}
}

// Object wraps a string-keyed map of Values, preserving the given key
// order for re-encoding. The map is copied defensively.
func Object(keys []string, vs map[string]Value) Value {
	cp := make(map[string]Value, len(vs))
	for k, v := range vs {
		cp[k] = v
	}

	ordered := make([]string, len(keys))
	copy(ordered, keys)

	return Value{kind: KindObject, obj: cp, objKey: ordered}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean payload and whether v is KindBool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the int64 payload and whether v is KindInt.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float64 payload and whether v is KindFloat.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string payload and whether v is KindString.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the array payload and whether v is KindArray.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the object payload and whether v is KindObject.
func (v Value) AsObject() (map[string]Value, bool) { return v.obj, v.kind == KindObject }

// Equal reports structural equality per the spec's equals_json: both null
// compare equal; primitives compare by value; arrays compare position-wise;
// objects compare by key set and per-key recursive equality. A value is
// never equal to one of a different kind, except that this package treats
// KindInt and KindFloat as distinct kinds deliberately — numeric equality
// across representations is not required by the reference (datetimes and
// keys in practice keep one consistent representation per writer).
func (a Value) Equal(b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindArray:
		return equalArray(a.arr, b.arr)
	case KindObject:
		return equalObject(a.obj, b.obj)
	default:
		return false
	}
}

func equalArray(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

func equalObject(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}

	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}

	return true
}

// MarshalJSON implements json.Marshaler, emitting compact JSON matching
// §6.2's "non-string values use compact JSON" rule.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		if v.b {
			return []byte("true"), nil
		}

		return []byte("false"), nil
	case KindInt:
		return []byte(fmt.Sprintf("%d", v.i)), nil
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		return marshalArray(v.arr)
	case KindObject:
		return marshalObject(v.objKey, v.obj)
	default:
		return nil, fmt.Errorf("jsonvalue: unknown kind %d", v.kind)
	}
}

func marshalArray(arr []Value) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}

		b, err := elem.MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(b)
	}

	buf.WriteByte(']')

	return buf.Bytes(), nil
}

func marshalObject(keys []string, obj map[string]Value) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	keys = objectKeysInOrder(keys, obj)

	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := obj[k].MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// objectKeysInOrder returns keys if it has as many entries as obj (always
// the case for values decoded by UnmarshalJSON, whose key list follows the
// decoded map's iteration order); otherwise, for an Object() call given a
// key list of a different length, it falls back to map iteration order.
func objectKeysInOrder(keys []string, obj map[string]Value) []string {
	if len(keys) == len(obj) {
		return keys
	}

	out := make([]string, 0, len(obj))
	for k := range obj {
		out = append(out, k)
	}

	return out
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are decoded via
// json.Number so integral values resolve to KindInt and all others to
// KindFloat, preserving the spec's int64|float64 distinction instead of
// collapsing every number to float64 the way stdlib's default
// interface{} decoding would.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any

	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("jsonvalue: decoding value: %w", err)
	}

	parsed, err := fromAny(raw)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

func fromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		return numberFromJSON(x)
	case string:
		return String(x), nil
	case []any:
		return arrayFromAny(x)
	case map[string]any:
		return objectFromAny(x)
	default:
		return Value{}, fmt.Errorf("jsonvalue: unsupported decoded type %T", raw)
	}
}

func numberFromJSON(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}

	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("jsonvalue: parsing number %q: %w", n.String(), err)
	}

	return Float(f), nil
}

func arrayFromAny(x []any) (Value, error) {
	vs := make([]Value, len(x))

	for i, elem := range x {
		parsed, err := fromAny(elem)
		if err != nil {
			return Value{}, err
		}

		vs[i] = parsed
	}

	return Array(vs), nil
}

func objectFromAny(x map[string]any) (Value, error) {
	vs := make(map[string]Value, len(x))
	keys := make([]string, 0, len(x))

	for k, elem := range x {
		parsed, err := fromAny(elem)
		if err != nil {
			return Value{}, err
		}

		vs[k] = parsed
		keys = append(keys, k)
	}

	return Object(keys, vs), nil
}
