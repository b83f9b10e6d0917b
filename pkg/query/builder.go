package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"redwing-hq/redwing/pkg/schema"
)

// builder states. A structurally illegal call sequence degrades the
// builder to stateInvalid; every later call is a no-op and the terminal
// Build reports failure. Errors surface at the edge, not at every step.
type builderState int

const (
	stateValid builderState = iota
	stateGotColumn
	stateInvalid
)

// placeholderPat matches $n placeholder tokens. $ followed by anything
// but digits is not a placeholder and passes through untouched.
var placeholderPat = regexp.MustCompile(`\$([0-9]+)`)

// Builder assembles a Query incrementally. The zero value is not usable;
// create one with NewBuilder or Query.Builder.
//
// Conditions follow a two-phase protocol mirroring how a WHERE clause is
// written out: Col/And/Or name a column, then a relational operator
// completes the condition and binds (or reserves) a value. Sequences
// that make no sense, like an operator without a pending column, make
// the terminal Build return ok == false.
type Builder struct {
	q     *Query
	state builderState
}

// NewBuilder creates a builder for a fresh Query with default ordering.
func NewBuilder() *Builder {
	return &Builder{
		q:     &Query{Order: DefaultOrder()},
		state: stateValid,
	}
}

// Col starts the first WHERE condition. dbCol is the column name in the
// database. Legal only while no condition has been started.
func (b *Builder) Col(dbCol string) *Builder {
	if b.state != stateValid || b.q.Filter != nil {
		return b.invalidate()
	}
	f := dbCol
	b.q.Filter = &f
	b.state = stateGotColumn
	return b
}

// And starts another WHERE condition AND-ed to the previous.
func (b *Builder) And(dbCol string) *Builder {
	return b.logOp("AND", dbCol)
}

// Or starts another WHERE condition OR-ed to the previous.
func (b *Builder) Or(dbCol string) *Builder {
	return b.logOp("OR", dbCol)
}

func (b *Builder) logOp(op, dbCol string) *Builder {
	if b.state != stateValid || b.q.Filter == nil {
		return b.invalidate()
	}
	*b.q.Filter += " " + op + " " + dbCol
	b.state = stateGotColumn
	return b
}

// Eq completes the pending condition with "=". value may be nil to
// reserve the placeholder for a later SetValue.
func (b *Builder) Eq(value *schema.Value) *Builder { return b.relOp("=", value) }

// Ne completes the pending condition with "<>".
func (b *Builder) Ne(value *schema.Value) *Builder { return b.relOp("<>", value) }

// Lt completes the pending condition with "<".
func (b *Builder) Lt(value *schema.Value) *Builder { return b.relOp("<", value) }

// Le completes the pending condition with "<=".
func (b *Builder) Le(value *schema.Value) *Builder { return b.relOp("<=", value) }

// Gt completes the pending condition with ">".
func (b *Builder) Gt(value *schema.Value) *Builder { return b.relOp(">", value) }

// Ge completes the pending condition with ">=".
func (b *Builder) Ge(value *schema.Value) *Builder { return b.relOp(">=", value) }

func (b *Builder) relOp(op string, value *schema.Value) *Builder {
	if b.state != stateGotColumn {
		return b.invalidate()
	}
	*b.q.Filter += fmt.Sprintf(" %s $%d", op, len(b.q.Values)+1)
	b.q.Values = append(b.q.Values, value.Clone())
	b.state = stateValid
	return b
}

// Filter adds a raw WHERE condition, the catch-all for anything the
// fluent operators cannot express. fragment is the meat of a WHERE
// clause, no "WHERE", parameterized with $n, 1-based and numbered as if
// the fragment stood alone.
//
// If a filter already exists, every $n in the new fragment is shifted up
// by the count of previously bound values and the combined filter
// becomes "(<old>) AND <shifted-new>". values are appended after the
// existing ones.
func (b *Builder) Filter(fragment string, values []*schema.Value) *Builder {
	if b.state != stateValid {
		return b.invalidate()
	}
	if b.q.Filter == nil {
		f := fragment
		b.q.Filter = &f
	} else {
		shifted := shiftPlaceholders(fragment, len(b.q.Values))
		f := "(" + *b.q.Filter + ") AND " + shifted
		b.q.Filter = &f
	}
	for _, v := range values {
		b.q.Values = append(b.q.Values, v.Clone())
	}
	return b
}

// shiftPlaceholders adds offset to every $n placeholder index in
// fragment. Degenerate $-tokens without a digit run are left alone.
func shiftPlaceholders(fragment string, offset int) string {
	if offset == 0 {
		return fragment
	}
	var sb strings.Builder
	last := 0
	for _, m := range placeholderPat.FindAllStringSubmatchIndex(fragment, -1) {
		// m[2]:m[3] is the digit run of this match.
		sb.WriteString(fragment[last:m[2]])
		if n, err := strconv.Atoi(fragment[m[2]:m[3]]); err == nil {
			sb.WriteString(strconv.Itoa(n + offset))
		} else {
			sb.WriteString(fragment[m[2]:m[3]])
		}
		last = m[3]
	}
	sb.WriteString(fragment[last:])
	return sb.String()
}

// OrderBy sets a custom ORDER clause. clause is the ORDER BY body, no
// "ORDER BY". Last order setter wins.
func (b *Builder) OrderBy(clause string) *Builder {
	b.q.Order = CustomOrder(clause)
	return b
}

// NoOrder suppresses ordering, overriding any schema default.
func (b *Builder) NoOrder() *Builder {
	b.q.Order = NoOrder()
	return b
}

// Limit sets the maximum number of returned rows.
func (b *Builder) Limit(limit int) *Builder {
	b.q.Limit = &limit
	return b
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(offset int) *Builder {
	b.q.Offset = &offset
	return b
}

// Build freezes and returns the query. ok is false if the call sequence
// was illegal or a condition is left dangling without an operator; no
// partial query is ever returned. The builder must be discarded after
// Build.
func (b *Builder) Build() (*Query, bool) {
	if b.state != stateValid {
		b.state = stateInvalid
		return nil, false
	}
	q := b.q
	b.q = nil
	b.state = stateInvalid
	return q, true
}

func (b *Builder) invalidate() *Builder {
	b.state = stateInvalid
	return b
}
