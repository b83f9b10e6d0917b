package record

import (
	"strconv"

	"redwing-hq/redwing/pkg/form"
	"redwing-hq/redwing/pkg/schema"
)

// BindForm coerces a parsed form tree into row values for table. Form
// leaves are strings; this is where they become typed column values.
//
// Each column is looked up by attribute name in the tree's top-level
// map. Missing keys are simply absent from the returned row. An empty
// string for a nullable non-text column binds as null. Form keys that
// match no column are ignored; forms routinely carry extra fields.
//
// A leaf that does not parse as the column's kind, or a column name
// holding an array or nested map, is a *BindError — malformed client
// input, to be rejected like a form parse error.
func BindForm(table *schema.Table, data *form.Data) (Row, error) {
	row := make(Row)
	for _, c := range table.Columns {
		node, ok := data.Get(c.Name)
		if !ok {
			continue
		}
		leaf, ok := node.Leaf()
		if !ok {
			return nil, &BindError{
				Column: c.Name,
				Reason: "expected a single value, got nested data",
			}
		}
		v, err := coerce(&c, leaf)
		if err != nil {
			return nil, err
		}
		row[c.Name] = v
	}
	return row, nil
}

// coerce converts one form leaf into a typed value for col.
func coerce(col *schema.Column, leaf string) (*Value, error) {
	if leaf == "" && col.Nullable && col.Kind != schema.KindText {
		return nil, nil
	}
	switch col.Kind {
	case schema.KindInt:
		n, err := strconv.ParseInt(leaf, 10, 64)
		if err != nil {
			return nil, &BindError{Column: col.Name, Input: leaf, Reason: "not an integer"}
		}
		return IntVal(n), nil
	case schema.KindFloat:
		f, err := strconv.ParseFloat(leaf, 64)
		if err != nil {
			return nil, &BindError{Column: col.Name, Input: leaf, Reason: "not a number"}
		}
		return FloatVal(f), nil
	default:
		return TextVal(leaf), nil
	}
}
