package record

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"redwing-hq/redwing/pkg/query"
	"redwing-hq/redwing/pkg/schema"
	"redwing-hq/redwing/pkg/telemetry/metrics"
)

// Row holds one table row's values keyed by attribute name. A nil
// *Value is a database null.
type Row map[string]*Value

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// Repository executes schema-interpreted statements for one table.
// It is safe for concurrent use; all state is immutable after creation.
type Repository struct {
	db      *sql.DB
	table   *schema.Table
	logger  *slog.Logger
	metrics *metrics.DB
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// WithMetrics attaches statement metrics.
func WithMetrics(m *metrics.DB) Option {
	return func(r *Repository) { r.metrics = m }
}

// NewRepository creates a repository for the given table over db.
func NewRepository(db *sql.DB, table *schema.Table, opts ...Option) *Repository {
	r := &Repository{
		db:     db,
		table:  table,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "record", "table", table.Name)
	return r
}

// Table returns the table description the repository interprets.
func (r *Repository) Table() *schema.Table {
	return r.table
}

// filterPat matches the $n placeholders of a query filter.
var filterPat = regexp.MustCompile(`\$([0-9]+)`)

// expandFilter rewrites $n placeholders to the driver's ?n ordinal form
// and checks that every referenced placeholder has a bound value. The
// builder does not enforce the placeholder/value correspondence, so a
// missing binding is caught here, at execution time.
func expandFilter(filter string, values []*Value) (string, error) {
	var sb strings.Builder
	last := 0
	for _, m := range filterPat.FindAllStringSubmatchIndex(filter, -1) {
		n, err := strconv.Atoi(filter[m[2]:m[3]])
		if err != nil || n < 1 || n > len(values) {
			return "", fmt.Errorf("placeholder $%s has no value (%d bound)",
				filter[m[2]:m[3]], len(values))
		}
		if values[n-1] == nil {
			return "", fmt.Errorf("placeholder $%d is unbound", n)
		}
		sb.WriteString(filter[last:m[0]])
		sb.WriteString("?")
		sb.WriteString(strconv.Itoa(n))
		last = m[3]
	}
	sb.WriteString(filter[last:])
	return sb.String(), nil
}

// selectSQL assembles the SELECT statement and its arguments for q.
// q may be nil for an unfiltered scan in default order.
func (r *Repository) selectSQL(what string, q *query.Query) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(what)
	sb.WriteString(" FROM ")
	sb.WriteString(r.table.DBTable)

	var args []interface{}
	if q != nil {
		if q.Filter != nil {
			where, err := expandFilter(*q.Filter, q.Values)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(" WHERE ")
			sb.WriteString(where)
			for _, v := range q.Values {
				args = append(args, driverArg(v))
			}
		}
		if clause := r.resolveOrder(q.Order); clause != "" {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(clause)
		}
		if q.Limit != nil {
			fmt.Fprintf(&sb, " LIMIT %d", *q.Limit)
		}
		if q.Offset != nil {
			if q.Limit == nil {
				// SQLite requires LIMIT before OFFSET.
				sb.WriteString(" LIMIT -1")
			}
			fmt.Fprintf(&sb, " OFFSET %d", *q.Offset)
		}
	} else if clause := r.table.DefaultOrder(); clause != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(clause)
	}
	return sb.String(), args, nil
}

// resolveOrder turns the query's order spec into an ORDER BY body,
// resolving the Default variant from the schema.
func (r *Repository) resolveOrder(o query.Order) string {
	switch o.Kind {
	case query.OrderCustom:
		return o.Clause
	case query.OrderNone:
		return ""
	default:
		return r.table.DefaultOrder()
	}
}

// columnList returns the comma-separated database column names.
func (r *Repository) columnList() string {
	cols := make([]string, len(r.table.Columns))
	for i, c := range r.table.Columns {
		cols[i] = c.Col
	}
	return strings.Join(cols, ", ")
}

// Select returns the rows matching q, in the order q specifies. A nil
// q returns all rows in the table's default order.
func (r *Repository) Select(ctx context.Context, q *query.Query) ([]Row, error) {
	stmt, args, err := r.selectSQL(r.columnList(), q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		r.observe("select", start, 0, err)
		return nil, fmt.Errorf("select from %s: %w", r.table.DBTable, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := r.scanRow(rows)
		if err != nil {
			r.observe("select", start, 0, err)
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		r.observe("select", start, 0, err)
		return nil, fmt.Errorf("select from %s: %w", r.table.DBTable, err)
	}
	r.observe("select", start, int64(len(out)), nil)
	return out, nil
}

// FindBy returns the first row matching q, or nil if none does.
func (r *Repository) FindBy(ctx context.Context, q *query.Query) (Row, error) {
	rows, err := r.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Load returns all rows in the table's default order.
func (r *Repository) Load(ctx context.Context) ([]Row, error) {
	return r.Select(ctx, nil)
}

// Find returns the row with the given primary key, or nil if there is
// none.
func (r *Repository) Find(ctx context.Context, pk *Value) (Row, error) {
	pkCol, ok := r.table.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("table %s has no primary key", r.table.Name)
	}
	q, ok := query.NewBuilder().Col(pkCol.Col).Eq(pk).NoOrder().Build()
	if !ok {
		return nil, fmt.Errorf("internal: primary key query did not build")
	}
	return r.FindBy(ctx, q)
}

// FindEqualUnique returns the row matching row's values in the
// uniqueness group with the given label, or nil if there is none. This
// is how "does an equal record already exist" checks are expressed.
func (r *Repository) FindEqualUnique(ctx context.Context, row Row, label string) (Row, error) {
	group := r.table.UniqueGroup(label)
	if len(group) == 0 {
		return nil, fmt.Errorf("table %s has no uniqueness group %q", r.table.Name, label)
	}
	b := query.NewBuilder()
	for i, c := range group {
		v, ok := row[c.Name]
		if !ok || v == nil {
			return nil, fmt.Errorf("row has no value for unique column %q", c.Name)
		}
		if i == 0 {
			b = b.Col(c.Col)
		} else {
			b = b.And(c.Col)
		}
		b = b.Eq(v)
	}
	q, ok := b.NoOrder().Build()
	if !ok {
		return nil, fmt.Errorf("internal: uniqueness query did not build")
	}
	return r.FindBy(ctx, q)
}

// Count returns the number of rows matching q's filter. Ordering and
// paging are ignored.
func (r *Repository) Count(ctx context.Context, q *query.Query) (int64, error) {
	counted := q
	if counted != nil {
		counted = &query.Query{Filter: q.Filter, Values: q.Values, Order: query.NoOrder()}
	}
	stmt, args, err := r.selectSQL("COUNT(*)", counted)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	var n int64
	err = r.db.QueryRowContext(ctx, stmt, args...).Scan(&n)
	r.observe("count", start, 0, err)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table.DBTable, err)
	}
	return n, nil
}

// Insert stores a new row and returns it, with an autogenerated
// primary key filled in. Values absent from row become null; absent
// non-nullable columns are a validation error.
func (r *Repository) Insert(ctx context.Context, row Row) (Row, error) {
	if err := r.validate(row, true); err != nil {
		return nil, err
	}

	pkCol, hasPk := r.table.PrimaryKey()
	var cols []string
	var args []interface{}
	for _, c := range r.table.Columns {
		v, present := row[c.Name]
		if c.Autogenerated && (!present || v == nil) {
			continue
		}
		if !present {
			continue
		}
		cols = append(cols, c.Col)
		args = append(args, driverArg(v))
	}

	marks := make([]string, len(cols))
	for i := range marks {
		marks[i] = "?"
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table.DBTable, strings.Join(cols, ", "), strings.Join(marks, ", "))

	start := time.Now()
	res, err := r.db.ExecContext(ctx, stmt, args...)
	r.observe("insert", start, 1, err)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", r.table.DBTable, err)
	}

	out := row.Clone()
	if hasPk && pkCol.Autogenerated {
		if _, present := row[pkCol.Name]; !present || row[pkCol.Name] == nil {
			id, err := res.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("insert into %s: %w", r.table.DBTable, err)
			}
			out[pkCol.Name] = IntVal(id)
		}
	}
	return out, nil
}

// InsertAll inserts every row in order, returning the stored rows.
func (r *Repository) InsertAll(ctx context.Context, rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		stored, err := r.Insert(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// Update rewrites the row identified by its primary key value. Columns
// absent from row keep their stored values. ErrNotFound is returned if
// no such row exists.
func (r *Repository) Update(ctx context.Context, row Row) error {
	pkCol, ok := r.table.PrimaryKey()
	if !ok {
		return fmt.Errorf("table %s has no primary key", r.table.Name)
	}
	pkVal, ok := row[pkCol.Name]
	if !ok || pkVal == nil {
		return fmt.Errorf("update of %s requires a primary key value", r.table.Name)
	}
	if err := r.validate(row, false); err != nil {
		return err
	}

	var sets []string
	var args []interface{}
	for _, c := range r.table.Columns {
		if c.PrimaryKey {
			continue
		}
		v, present := row[c.Name]
		if !present {
			continue
		}
		sets = append(sets, c.Col+" = ?")
		args = append(args, driverArg(v))
	}
	if len(sets) == 0 {
		return fmt.Errorf("update of %s has no columns to set", r.table.Name)
	}
	args = append(args, driverArg(pkVal))

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		r.table.DBTable, strings.Join(sets, ", "), pkCol.Col)

	start := time.Now()
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		r.observe("update", start, 0, err)
		return fmt.Errorf("update %s: %w", r.table.DBTable, err)
	}
	n, err := res.RowsAffected()
	r.observe("update", start, n, err)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table.DBTable, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s where %s = %s: %w",
			r.table.DBTable, pkCol.Col, pkVal, ErrNotFound)
	}
	return nil
}

// Save inserts the row if it has no primary key value, updates it
// otherwise, and returns the stored row.
func (r *Repository) Save(ctx context.Context, row Row) (Row, error) {
	pkCol, ok := r.table.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("table %s has no primary key", r.table.Name)
	}
	if v, present := row[pkCol.Name]; !present || v == nil {
		return r.Insert(ctx, row)
	}
	if err := r.Update(ctx, row); err != nil {
		return nil, err
	}
	return row.Clone(), nil
}

// Delete removes the row with the given primary key. ErrNotFound is
// returned if no such row exists.
func (r *Repository) Delete(ctx context.Context, pk *Value) error {
	pkCol, ok := r.table.PrimaryKey()
	if !ok {
		return fmt.Errorf("table %s has no primary key", r.table.Name)
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.table.DBTable, pkCol.Col)

	start := time.Now()
	res, err := r.db.ExecContext(ctx, stmt, driverArg(pk))
	if err != nil {
		r.observe("delete", start, 0, err)
		return fmt.Errorf("delete from %s: %w", r.table.DBTable, err)
	}
	n, err := res.RowsAffected()
	r.observe("delete", start, n, err)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.table.DBTable, err)
	}
	if n == 0 {
		return fmt.Errorf("delete from %s where %s = %s: %w",
			r.table.DBTable, pkCol.Col, pk, ErrNotFound)
	}
	return nil
}

// DeleteWhere removes the rows matching q's filter and returns how many
// went away. A nil filter empties the table.
func (r *Repository) DeleteWhere(ctx context.Context, q *query.Query) (int64, error) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(r.table.DBTable)

	var args []interface{}
	if q != nil && q.Filter != nil {
		where, err := expandFilter(*q.Filter, q.Values)
		if err != nil {
			return 0, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		for _, v := range q.Values {
			args = append(args, driverArg(v))
		}
	}

	start := time.Now()
	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		r.observe("delete", start, 0, err)
		return 0, fmt.Errorf("delete from %s: %w", r.table.DBTable, err)
	}
	n, err := res.RowsAffected()
	r.observe("delete", start, n, err)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.table.DBTable, err)
	}
	return n, nil
}

// scanRow scans the current result row into a Row keyed by attribute
// name, converting driver values to the columns' kinds.
func (r *Repository) scanRow(rows *sql.Rows) (Row, error) {
	raw := make([]interface{}, len(r.table.Columns))
	ptrs := make([]interface{}, len(r.table.Columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.table.DBTable, err)
	}
	out := make(Row, len(r.table.Columns))
	for i, c := range r.table.Columns {
		v, err := scanValue(c.Kind, raw[i])
		if err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", r.table.DBTable, c.Col, err)
		}
		out[c.Name] = v
	}
	return out, nil
}

// validate checks row values against the schema. forInsert requires
// non-nullable columns to be present (autogenerated ones excepted).
func (r *Repository) validate(row Row, forInsert bool) error {
	var problems []string
	for name := range row {
		if _, ok := r.table.Column(name); !ok {
			problems = append(problems, fmt.Sprintf("unknown column %q", name))
		}
	}
	for _, c := range r.table.Columns {
		v, present := row[c.Name]
		if !present {
			if forInsert && !c.Nullable && !c.Autogenerated {
				problems = append(problems, fmt.Sprintf("missing value for column %q", c.Name))
			}
			continue
		}
		if v == nil {
			if !c.Nullable && !(c.PrimaryKey && c.Autogenerated) {
				problems = append(problems, fmt.Sprintf("null value for column %q", c.Name))
			}
			continue
		}
		if v.Kind != c.Kind {
			problems = append(problems, fmt.Sprintf(
				"column %q wants %s, got %s", c.Name, c.Kind, v.Kind))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Table: r.table.Name, Problems: problems}
	}
	return nil
}

// observe forwards one statement observation to metrics and debug logs.
func (r *Repository) observe(op string, start time.Time, rows int64, err error) {
	d := time.Since(start)
	r.metrics.Observe(r.table.Name, op, d, rows, err)
	if err != nil {
		r.logger.Debug("statement failed", "op", op, "duration", d, "error", err)
	} else {
		r.logger.Debug("statement executed", "op", op, "duration", d, "rows", rows)
	}
}
