//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/read.rs
//

package specsheet

import "fmt"

// Kind discriminates the possible shapes of a [Value].
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindMap
	KindSeq
	KindInvalid
)

// Value is a node in the dynamically typed document tree every check
// variant's reader walks: a map, a sequence, a string, an integer, or
// a boolean. It is the Go realization of the parsed-but-not-yet-typed
// TOML table the core consumes.
type Value struct {
	kind Kind
	str  string
	num  int64
	b    bool
	m    map[string]Value
	seq  []Value
}

// NewString wraps a string as a [Value].
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewInt wraps an integer as a [Value].
func NewInt(n int64) Value { return Value{kind: KindInt, num: n} }

// NewBool wraps a boolean as a [Value].
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewTable wraps a string-keyed map as a [Value].
func NewTable(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// NewSeq wraps a sequence as a [Value].
func NewSeq(seq []Value) Value { return Value{kind: KindSeq, seq: seq} }

// Kind reports the node's shape.
func (v Value) Kind() Kind { return v.kind }

// FromAny converts a value produced by unmarshaling TOML into
// map[string]any / []any / primitives into a [Value] tree.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, v := range x {
			cv, err := FromAny(v)
			if err != nil {
				return Value{}, err
			}
			m[k] = cv
		}
		return NewTable(m), nil
	case []map[string]any:
		seq := make([]Value, len(x))
		for i, v := range x {
			cv, err := FromAny(v)
			if err != nil {
				return Value{}, err
			}
			seq[i] = cv
		}
		return NewSeq(seq), nil
	case []any:
		seq := make([]Value, len(x))
		for i, v := range x {
			cv, err := FromAny(v)
			if err != nil {
				return Value{}, err
			}
			seq[i] = cv
		}
		return NewSeq(seq), nil
	case string:
		return NewString(x), nil
	case bool:
		return NewBool(x), nil
	case int64:
		return NewInt(x), nil
	case int:
		return NewInt(int64(x)), nil
	case float64:
		// TOML integers decode as int64 via the library we use; a
		// float64 here means the document used a fractional number
		// where Specsheet expects an integer. Keep it as a distinct
		// invalid marker so NumberOrError reports a clean read error
		// instead of silently truncating.
		return Value{kind: KindInvalid}, nil
	default:
		return Value{}, fmt.Errorf("specsheet: unsupported TOML value type %T", raw)
	}
}

// String implements [fmt.Stringer], rendering the value the way it
// would appear in a TOML document (used in read-error messages).
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindInt:
		return fmt.Sprintf("%d", v.num)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindMap:
		return "<table>"
	case KindSeq:
		return "<array>"
	default:
		return "<invalid>"
	}
}

// Get looks up a key in a table value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	val, ok := v.m[key]
	return val, ok
}

// AsTable returns the underlying map, if v is a table.
func (v Value) AsTable() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// AsSeq returns the underlying sequence, if v is an array.
func (v Value) AsSeq() ([]Value, bool) {
	if v.kind != KindSeq {
		return nil, false
	}
	return v.seq, true
}

// AsString returns the underlying string, if v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the underlying integer, if v is an integer.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the underlying boolean, if v is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// GetOrReadError returns the value at name in this table, or a
// [*ReadError] of kind MissingParameter.
func (v Value) GetOrReadError(name string) (Value, error) {
	val, ok := v.Get(name)
	if !ok {
		return Value{}, NewMissingParameter(name)
	}
	return val, nil
}

// EnsureTable returns a [*ReadError] if v is not a table.
func (v Value) EnsureTable(name string) error {
	if _, ok := v.AsTable(); !ok {
		return NewInvalidValue(name, v, "it must be a table")
	}
	return nil
}

// NumberOrError returns v's integer, or a [*ReadError].
func (v Value) NumberOrError(name string) (int64, error) {
	n, ok := v.AsInt()
	if !ok {
		return 0, NewInvalidValue(name, v, "it must be an integer")
	}
	return n, nil
}

// BooleanOrError returns v's boolean, or a [*ReadError].
func (v Value) BooleanOrError(name string) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, NewInvalidValue(name, v, "it must be a boolean")
	}
	return b, nil
}

// StringOrError returns v's string, or a [*ReadError].
func (v Value) StringOrError(name string) (string, error) {
	return v.StringOrError2(name, "it must be a string")
}

// StringOrError2 is like [Value.StringOrError] but with a custom
// error message for when v is not a string.
func (v Value) StringOrError2(name string, ordinance any) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", NewInvalidValue(name, v, ordinance)
	}
	return s, nil
}

// StringArrayOrReadError returns an array of strings, or a [*ReadError].
func (v Value) StringArrayOrReadError(name string) ([]string, error) {
	seq, ok := v.AsSeq()
	if !ok {
		return nil, NewInvalidValue(name, v, "it must be an array of strings")
	}
	out := make([]string, 0, len(seq))
	for _, el := range seq {
		s, ok := el.AsString()
		if !ok {
			return nil, NewInvalidValue(name, v, "it must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

// StringMapOrReadError returns a string-to-string map, or a [*ReadError].
func (v Value) StringMapOrReadError(name string) (map[string]string, error) {
	table, ok := v.AsTable()
	if !ok {
		return nil, NewInvalidValue(name, v, "it must be a map of strings to strings")
	}
	out := make(map[string]string, len(table))
	for k, val := range table {
		s, err := val.StringOrError(name)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

// EnsureOnlyKeys returns a [*ReadError] of kind UnknownParameter if
// this table contains any key not in keys.
func (v Value) EnsureOnlyKeys(keys []string) error {
	table, ok := v.AsTable()
	if !ok {
		return NewInvalidValue("<check>", v, "it must be a table")
	}
	for k := range table {
		found := false
		for _, allowed := range keys {
			if k == allowed {
				found = true
				break
			}
		}
		if !found {
			return NewUnknownParameter(k)
		}
	}
	return nil
}

// OneOf formats a short "it must be 'a' or 'b'" ordinance string used
// in read-error messages for closed-set parameters.
type OneOf []string

// String implements [fmt.Stringer].
func (o OneOf) String() string {
	switch len(o) {
	case 2:
		return fmt.Sprintf("it must be %q or %q", o[0], o[1])
	case 3:
		return fmt.Sprintf("it must be %q or %q or %q", o[0], o[1], o[2])
	default:
		var out string
		for i, s := range o {
			if i > 0 {
				out += " or "
			}
			out += fmt.Sprintf("%q", s)
		}
		return "it must be " + out
	}
}
