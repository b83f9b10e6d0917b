package query

import (
	"fmt"

	"redwing-hq/redwing/pkg/schema"
)

// OrderKind discriminates the ORDER specification of a Query.
type OrderKind string

const (
	// OrderCustom uses the Order.Clause text as the ORDER BY body.
	OrderCustom OrderKind = "custom"
	// OrderDefault defers to the consumer's default ordering, typically
	// resolved from the table schema.
	OrderDefault OrderKind = "default"
	// OrderNone suppresses ordering entirely.
	OrderNone OrderKind = "none"
)

// Order is the ORDER specification of a Query.
type Order struct {
	Kind   OrderKind
	Clause string // the ORDER BY body, no "ORDER BY"; set iff Kind is OrderCustom
}

// CustomOrder returns an Order using the given raw ORDER BY body.
func CustomOrder(clause string) Order {
	return Order{Kind: OrderCustom, Clause: clause}
}

// DefaultOrder returns the Order deferring to the consumer's default.
func DefaultOrder() Order {
	return Order{Kind: OrderDefault}
}

// NoOrder returns the Order that suppresses ordering.
func NoOrder() Order {
	return Order{Kind: OrderNone}
}

// Query is an execution-ready descriptor produced by a Builder.
//
// Filter is the meat of a WHERE clause, no "WHERE", parameterized with
// 1-based positional placeholders $1, $2, ... where $i corresponds to
// Values[i-1]. A nil entry in Values is a placeholder that has not been
// bound yet; executing such a query is the consumer's error to report.
//
// The filter and its placeholder structure are never changed after
// Build. Values, Limit and Offset may be rebound through the setters to
// reuse a prepared shape with different bindings.
type Query struct {
	Filter *string
	Values []*schema.Value
	Limit  *int
	Offset *int
	Order  Order
}

// Builder reopens the query for extension with further conditions.
// The query's current values keep their placeholder indices.
func (q *Query) Builder() *Builder {
	return &Builder{q: q, state: stateValid}
}

// SetLimit replaces the limit; nil removes it.
func (q *Query) SetLimit(limit *int) *Query {
	q.Limit = limit
	return q
}

// SetOffset replaces the offset; nil removes it.
func (q *Query) SetOffset(offset *int) *Query {
	q.Offset = offset
	return q
}

// SetValue binds the value for placeholder $ix, 1-based. An index
// outside 1..len(Values) is a caller bug and panics.
func (q *Query) SetValue(ix int, v *schema.Value) *Query {
	if ix < 1 || ix > len(q.Values) {
		panic(fmt.Sprintf("query: SetValue index %d out of range 1..%d", ix, len(q.Values)))
	}
	q.Values[ix-1] = v.Clone()
	return q
}

// SetValues replaces all bound values, in placeholder order. The
// previous bindings are discarded regardless of how many there were.
func (q *Query) SetValues(values []*schema.Value) *Query {
	q.Values = make([]*schema.Value, len(values))
	for i, v := range values {
		q.Values[i] = v.Clone()
	}
	return q
}
