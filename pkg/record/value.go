package record

import (
	"fmt"

	"redwing-hq/redwing/pkg/schema"
)

// Value is the typed scalar exchanged between the query layer and the
// database. It is declared in the schema package next to Kind; the
// alias keeps the mapping API self-contained.
type Value = schema.Value

// FloatVal creates a float Value.
func FloatVal(f float64) *Value { return schema.FloatVal(f) }

// IntVal creates an integer Value.
func IntVal(i int64) *Value { return schema.IntVal(i) }

// TextVal creates a text Value.
func TextVal(s string) *Value { return schema.TextVal(s) }

// driverArg converts a value to something database/sql accepts.
func driverArg(v *Value) interface{} {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case schema.KindFloat:
		return v.Float
	case schema.KindInt:
		return v.Int
	default:
		return v.Text
	}
}

// scanValue converts a value scanned from database/sql into a *Value of
// the given kind. nil stays nil.
func scanValue(kind schema.Kind, raw interface{}) (*Value, error) {
	if raw == nil {
		return nil, nil
	}
	switch kind {
	case schema.KindFloat:
		switch x := raw.(type) {
		case float64:
			return FloatVal(x), nil
		case int64:
			return FloatVal(float64(x)), nil
		}
	case schema.KindInt:
		switch x := raw.(type) {
		case int64:
			return IntVal(x), nil
		case float64:
			return IntVal(int64(x)), nil
		}
	case schema.KindText:
		switch x := raw.(type) {
		case string:
			return TextVal(x), nil
		case []byte:
			return TextVal(string(x)), nil
		}
	}
	return nil, fmt.Errorf("cannot scan %T as %s", raw, kind)
}
