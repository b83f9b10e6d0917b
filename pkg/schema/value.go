package schema

import "strconv"

// Value is a typed scalar tagged with a column Kind. The mapping layer
// has a closed type system with no automatic coercion; converting form
// input into typed values is the binding layer's job. A nil *Value
// means null or, in a query descriptor, a placeholder that has not
// been bound yet.
type Value struct {
	Kind  Kind
	Float float64
	Int   int64
	Text  string
}

// FloatVal creates a float Value.
func FloatVal(f float64) *Value {
	return &Value{Kind: KindFloat, Float: f}
}

// IntVal creates an integer Value.
func IntVal(i int64) *Value {
	return &Value{Kind: KindInt, Int: i}
}

// TextVal creates a text Value.
func TextVal(s string) *Value {
	return &Value{Kind: KindText, Text: s}
}

// Clone returns a copy of the value. Cloning nil yields nil.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Equal reports whether two values have the same kind and content.
// Two nil values are equal.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == nil && o == nil
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindFloat:
		return v.Float == o.Float
	case KindInt:
		return v.Int == o.Int
	default:
		return v.Text == o.Text
	}
}

// String returns a human-readable rendering, mainly for logs and errors.
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	default:
		return v.Text
	}
}
