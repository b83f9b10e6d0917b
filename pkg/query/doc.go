// Package query builds execution-ready query descriptors.
//
// A Query holds the meat of a WHERE clause with positional $n
// placeholders, the ordered values bound to those placeholders, an
// optional LIMIT/OFFSET, and an ORDER specification. It contains no SQL
// dialect knowledge beyond the placeholder syntax; assembling and
// executing the full statement is the repository layer's job.
//
// Queries are produced by a Builder, a fluent state machine that
// validates call sequences as conditions are chained and reports misuse
// only at the terminal Build call:
//
//	q, ok := query.NewBuilder().
//		Col("age").Ge(schema.IntVal(18)).
//		And("name").Eq(nil). // bound later via SetValue
//		Limit(10).
//		Build()
//
// A built Query supports the prepare-once, rebind-many pattern: the
// filter and its placeholder structure are frozen, while values, limit
// and offset may be rebound between executions.
package query
