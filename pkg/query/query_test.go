package query

import (
	"testing"

	"redwing-hq/redwing/pkg/schema"
)

func preparedQuery(t *testing.T) *Query {
	t.Helper()
	q, ok := NewBuilder().Col("a").Eq(nil).And("b").Eq(nil).Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	return q
}

func TestQuery_SetValues_RebindingIdempotence(t *testing.T) {
	q := preparedQuery(t)

	q.SetValues([]*schema.Value{schema.IntVal(1), schema.IntVal(2)})
	q.SetValues([]*schema.Value{schema.IntVal(3), schema.IntVal(4)})

	if len(q.Values) != 2 {
		t.Fatalf("len(Values) = %d, want 2", len(q.Values))
	}
	if !q.Values[0].Equal(schema.IntVal(3)) || !q.Values[1].Equal(schema.IntVal(4)) {
		t.Errorf("Values = [%v %v], want [3 4]", q.Values[0], q.Values[1])
	}
}

func TestQuery_SetValue_OneBased(t *testing.T) {
	q := preparedQuery(t)

	q.SetValue(1, schema.TextVal("x"))
	q.SetValue(2, schema.TextVal("y"))

	if !q.Values[0].Equal(schema.TextVal("x")) {
		t.Errorf("Values[0] = %v, want x", q.Values[0])
	}
	if !q.Values[1].Equal(schema.TextVal("y")) {
		t.Errorf("Values[1] = %v, want y", q.Values[1])
	}
}

func TestQuery_SetValue_OutOfRangePanics(t *testing.T) {
	q := preparedQuery(t)
	for _, ix := range []int{0, 3, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("SetValue(%d) did not panic", ix)
				}
			}()
			q.SetValue(ix, schema.IntVal(1))
		}()
	}
}

func TestQuery_SetLimitOffset(t *testing.T) {
	q := preparedQuery(t)
	n := 5
	q.SetLimit(&n).SetOffset(&n)
	if q.Limit == nil || *q.Limit != 5 || q.Offset == nil || *q.Offset != 5 {
		t.Errorf("Limit/Offset = %v/%v, want 5/5", q.Limit, q.Offset)
	}
	q.SetLimit(nil).SetOffset(nil)
	if q.Limit != nil || q.Offset != nil {
		t.Error("SetLimit(nil)/SetOffset(nil) did not clear")
	}
}

func TestQuery_SetValues_CopiesInput(t *testing.T) {
	q := preparedQuery(t)
	v := schema.IntVal(1)
	q.SetValues([]*schema.Value{v, nil})
	v.Int = 99
	if q.Values[0].Int != 1 {
		t.Errorf("Values[0].Int = %d, want 1 (clone expected)", q.Values[0].Int)
	}
}
