package record

import (
	"context"
	"fmt"

	"redwing-hq/redwing/pkg/query"
)

// BelongsTo is the "many" side of a one-to-many association: each child
// row references its parent through a foreign-key attribute.
type BelongsTo struct {
	Child  *Repository
	Parent *Repository
	// FK is the child attribute holding the parent's primary key.
	FK string
}

// Get returns the parent of child, or nil if the foreign key is null or
// dangling.
func (a *BelongsTo) Get(ctx context.Context, child Row) (Row, error) {
	fk, ok := child[a.FK]
	if !ok || fk == nil {
		return nil, nil
	}
	return a.Parent.Find(ctx, fk)
}

// Set points child at parent. Only the in-memory row changes; the
// caller persists it with Save or Update.
func (a *BelongsTo) Set(child, parent Row) error {
	pkCol, ok := a.Parent.Table().PrimaryKey()
	if !ok {
		return fmt.Errorf("table %s has no primary key", a.Parent.Table().Name)
	}
	pk, ok := parent[pkCol.Name]
	if !ok || pk == nil {
		return fmt.Errorf("parent row has no %s value", pkCol.Name)
	}
	child[a.FK] = pk.Clone()
	return nil
}

// Forget clears the association. The foreign-key column must be
// nullable.
func (a *BelongsTo) Forget(child Row) error {
	col, ok := a.Child.Table().Column(a.FK)
	if !ok {
		return fmt.Errorf("table %s has no column %q", a.Child.Table().Name, a.FK)
	}
	if !col.Nullable {
		return fmt.Errorf("foreign key %q is not nullable", a.FK)
	}
	child[a.FK] = nil
	return nil
}

// AllBelongingTo returns every child of parent, in the child table's
// default order.
func (a *BelongsTo) AllBelongingTo(ctx context.Context, parent Row) ([]Row, error) {
	return (&HasMany{Parent: a.Parent, Child: a.Child, FK: a.FK}).Select(ctx, parent, nil)
}

// HasMany is the "one" side of a one-to-many association.
type HasMany struct {
	Parent *Repository
	Child  *Repository
	// FK is the child attribute holding the parent's primary key.
	FK string
}

// Select returns the children of parent. extra, if non-nil, narrows and
// shapes the result: its filter is AND-ed onto the foreign-key
// condition with the placeholders renumbered, and its order, limit and
// offset are kept.
func (a *HasMany) Select(ctx context.Context, parent Row, extra *query.Query) ([]Row, error) {
	pkCol, ok := a.Parent.Table().PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("table %s has no primary key", a.Parent.Table().Name)
	}
	pk, ok := parent[pkCol.Name]
	if !ok || pk == nil {
		return nil, fmt.Errorf("parent row has no %s value", pkCol.Name)
	}
	fkCol, ok := a.Child.Table().Column(a.FK)
	if !ok {
		return nil, fmt.Errorf("table %s has no column %q", a.Child.Table().Name, a.FK)
	}

	b := query.NewBuilder().Col(fkCol.Col).Eq(pk)
	if extra != nil {
		if extra.Filter != nil {
			b = b.Filter(*extra.Filter, extra.Values)
		}
		switch extra.Order.Kind {
		case query.OrderCustom:
			b = b.OrderBy(extra.Order.Clause)
		case query.OrderNone:
			b = b.NoOrder()
		}
		if extra.Limit != nil {
			b = b.Limit(*extra.Limit)
		}
		if extra.Offset != nil {
			b = b.Offset(*extra.Offset)
		}
	}
	q, ok := b.Build()
	if !ok {
		return nil, fmt.Errorf("internal: association query did not build")
	}
	return a.Child.Select(ctx, q)
}

// Count returns how many children parent has.
func (a *HasMany) Count(ctx context.Context, parent Row) (int64, error) {
	pkCol, ok := a.Parent.Table().PrimaryKey()
	if !ok {
		return 0, fmt.Errorf("table %s has no primary key", a.Parent.Table().Name)
	}
	pk, ok := parent[pkCol.Name]
	if !ok || pk == nil {
		return 0, fmt.Errorf("parent row has no %s value", pkCol.Name)
	}
	fkCol, ok := a.Child.Table().Column(a.FK)
	if !ok {
		return 0, fmt.Errorf("table %s has no column %q", a.Child.Table().Name, a.FK)
	}
	q, ok := query.NewBuilder().Col(fkCol.Col).Eq(pk).NoOrder().Build()
	if !ok {
		return 0, fmt.Errorf("internal: association query did not build")
	}
	return a.Child.Count(ctx, q)
}

// ManyToMany associates two tables through a join table holding one
// foreign-key column for each side.
type ManyToMany struct {
	Left  *Repository
	Right *Repository
	// JoinTable is the database name of the join table.
	JoinTable string
	// LeftFK and RightFK are the join table's database column names
	// referencing the left and right primary keys.
	LeftFK  string
	RightFK string
}

// Connect links left and right by inserting a join row. Connecting an
// already-connected pair is the database's uniqueness constraint to
// reject, if one is declared.
func (a *ManyToMany) Connect(ctx context.Context, left, right Row) error {
	lpk, rpk, err := a.pks(left, right)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)",
		a.JoinTable, a.LeftFK, a.RightFK)
	if _, err := a.Left.db.ExecContext(ctx, stmt, driverArg(lpk), driverArg(rpk)); err != nil {
		return fmt.Errorf("connect via %s: %w", a.JoinTable, err)
	}
	return nil
}

// Disconnect removes the join rows linking left and right and returns
// how many existed.
func (a *ManyToMany) Disconnect(ctx context.Context, left, right Row) (int64, error) {
	lpk, rpk, err := a.pks(left, right)
	if err != nil {
		return 0, err
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?",
		a.JoinTable, a.LeftFK, a.RightFK)
	res, err := a.Left.db.ExecContext(ctx, stmt, driverArg(lpk), driverArg(rpk))
	if err != nil {
		return 0, fmt.Errorf("disconnect via %s: %w", a.JoinTable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("disconnect via %s: %w", a.JoinTable, err)
	}
	return n, nil
}

// Select returns the right-side rows connected to left, in the right
// table's default order. The join is expressed as a raw subquery filter
// on the right repository.
func (a *ManyToMany) Select(ctx context.Context, left Row) ([]Row, error) {
	lpkCol, ok := a.Left.Table().PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("table %s has no primary key", a.Left.Table().Name)
	}
	lpk, ok := left[lpkCol.Name]
	if !ok || lpk == nil {
		return nil, fmt.Errorf("left row has no %s value", lpkCol.Name)
	}
	rpkCol, ok := a.Right.Table().PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("table %s has no primary key", a.Right.Table().Name)
	}

	fragment := fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s = $1)",
		rpkCol.Col, a.RightFK, a.JoinTable, a.LeftFK)
	q, ok := query.NewBuilder().Filter(fragment, []*Value{lpk}).Build()
	if !ok {
		return nil, fmt.Errorf("internal: join query did not build")
	}
	return a.Right.Select(ctx, q)
}

// pks extracts both primary key values for a join operation.
func (a *ManyToMany) pks(left, right Row) (*Value, *Value, error) {
	lpkCol, ok := a.Left.Table().PrimaryKey()
	if !ok {
		return nil, nil, fmt.Errorf("table %s has no primary key", a.Left.Table().Name)
	}
	lpk, ok := left[lpkCol.Name]
	if !ok || lpk == nil {
		return nil, nil, fmt.Errorf("left row has no %s value", lpkCol.Name)
	}
	rpkCol, ok := a.Right.Table().PrimaryKey()
	if !ok {
		return nil, nil, fmt.Errorf("table %s has no primary key", a.Right.Table().Name)
	}
	rpk, ok := right[rpkCol.Name]
	if !ok || rpk == nil {
		return nil, nil, fmt.Errorf("right row has no %s value", rpkCol.Name)
	}
	return lpk, rpk, nil
}
