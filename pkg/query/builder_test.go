package query

import (
	"testing"

	"redwing-hq/redwing/pkg/schema"
)

func TestBuilder_Build_SingleCondition(t *testing.T) {
	q, ok := NewBuilder().Col("name").Eq(schema.TextVal("alice")).Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	if q.Filter == nil || *q.Filter != "name = $1" {
		t.Errorf("Filter = %v, want %q", q.Filter, "name = $1")
	}
	if len(q.Values) != 1 || !q.Values[0].Equal(schema.TextVal("alice")) {
		t.Errorf("Values = %v, want [alice]", q.Values)
	}
	if q.Order.Kind != OrderDefault {
		t.Errorf("Order.Kind = %q, want %q", q.Order.Kind, OrderDefault)
	}
}

func TestBuilder_PlaceholderMonotonicity(t *testing.T) {
	// Indices must be exactly 1..N in emission order; nil values still
	// occupy an index.
	q, ok := NewBuilder().
		Col("a").Eq(schema.IntVal(1)).
		And("b").Ne(nil).
		Or("c").Lt(schema.FloatVal(2.5)).
		And("d").Ge(schema.TextVal("x")).
		Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	want := "a = $1 AND b <> $2 OR c < $3 AND d >= $4"
	if *q.Filter != want {
		t.Errorf("Filter = %q, want %q", *q.Filter, want)
	}
	if len(q.Values) != 4 {
		t.Fatalf("len(Values) = %d, want 4", len(q.Values))
	}
	if q.Values[1] != nil {
		t.Errorf("Values[1] = %v, want nil", q.Values[1])
	}
}

func TestBuilder_RelationalOperators(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Builder, *schema.Value) *Builder
		want string
	}{
		{"eq", (*Builder).Eq, "x = $1"},
		{"ne", (*Builder).Ne, "x <> $1"},
		{"lt", (*Builder).Lt, "x < $1"},
		{"le", (*Builder).Le, "x <= $1"},
		{"gt", (*Builder).Gt, "x > $1"},
		{"ge", (*Builder).Ge, "x >= $1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := tt.op(NewBuilder().Col("x"), schema.IntVal(7)).Build()
			if !ok {
				t.Fatal("Build() not ok")
			}
			if *q.Filter != tt.want {
				t.Errorf("Filter = %q, want %q", *q.Filter, tt.want)
			}
		})
	}
}

func TestBuilder_FilterComposition_Renumbering(t *testing.T) {
	// An incoming fragment numbered for itself alone must be shifted by
	// the count of already-bound values.
	tests := []struct {
		name       string
		build      func() *Builder
		fragment   string
		values     []*schema.Value
		wantFilter string
		wantValues int
	}{
		{
			name:       "no prior filter, fragment verbatim",
			build:      NewBuilder,
			fragment:   "age > $1",
			values:     []*schema.Value{schema.IntVal(18)},
			wantFilter: "age > $1",
			wantValues: 1,
		},
		{
			name: "shift by one",
			build: func() *Builder {
				return NewBuilder().Col("name").Eq(schema.TextVal("a"))
			},
			fragment:   "age > $1",
			values:     []*schema.Value{schema.IntVal(18)},
			wantFilter: "(name = $1) AND age > $2",
			wantValues: 2,
		},
		{
			name: "shift multiple placeholders",
			build: func() *Builder {
				return NewBuilder().
					Col("a").Eq(schema.IntVal(1)).
					And("b").Eq(schema.IntVal(2))
			},
			fragment:   "c BETWEEN $1 AND $2",
			values:     []*schema.Value{schema.IntVal(3), schema.IntVal(4)},
			wantFilter: "(a = $1 AND b = $2) AND c BETWEEN $3 AND $4",
			wantValues: 4,
		},
		{
			name: "double-digit result",
			build: func() *Builder {
				b := NewBuilder().Col("c0").Eq(nil)
				for i := 1; i < 9; i++ {
					b = b.And("c").Eq(nil)
				}
				return b
			},
			fragment:   "z = $1",
			values:     []*schema.Value{schema.IntVal(0)},
			wantFilter: "",
			wantValues: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := tt.build().Filter(tt.fragment, tt.values).Build()
			if !ok {
				t.Fatal("Build() not ok")
			}
			if tt.wantFilter != "" && *q.Filter != tt.wantFilter {
				t.Errorf("Filter = %q, want %q", *q.Filter, tt.wantFilter)
			}
			if len(q.Values) != tt.wantValues {
				t.Errorf("len(Values) = %d, want %d", len(q.Values), tt.wantValues)
			}
			if tt.name == "double-digit result" {
				want := "z = $10"
				got := *q.Filter
				if len(got) < len(want) || got[len(got)-len(want):] != want {
					t.Errorf("Filter = %q, want suffix %q", got, want)
				}
			}
		})
	}
}

func TestBuilder_Filter_DegenerateTokensPassThrough(t *testing.T) {
	// $ not followed by digits is not a placeholder and must survive the
	// renumbering scan unchanged.
	q, ok := NewBuilder().
		Col("a").Eq(schema.IntVal(1)).
		Filter("note LIKE '$x' AND n = $1", []*schema.Value{schema.IntVal(2)}).
		Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	want := "(a = $1) AND note LIKE '$x' AND n = $2"
	if *q.Filter != want {
		t.Errorf("Filter = %q, want %q", *q.Filter, want)
	}
}

func TestBuilder_IllegalSequences(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
	}{
		{"and without prior column", func() *Builder {
			return NewBuilder().And("x").Eq(schema.IntVal(1))
		}},
		{"or without prior column", func() *Builder {
			return NewBuilder().Or("x").Eq(schema.IntVal(1))
		}},
		{"column after column", func() *Builder {
			return NewBuilder().Col("x").Col("y")
		}},
		{"operator without column", func() *Builder {
			return NewBuilder().Eq(schema.IntVal(1))
		}},
		{"dangling column", func() *Builder {
			return NewBuilder().Col("x")
		}},
		{"second col after complete condition", func() *Builder {
			return NewBuilder().Col("x").Eq(nil).Col("y").Eq(nil)
		}},
		{"filter while column pending", func() *Builder {
			return NewBuilder().Col("x").Filter("y = $1", nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if q, ok := tt.build().Build(); ok {
				t.Errorf("Build() = %+v, ok; want not ok", q)
			}
		})
	}
}

func TestBuilder_InvalidIsSticky(t *testing.T) {
	// Later legal-looking calls must not resurrect an invalid builder.
	b := NewBuilder().And("x")
	b = b.Col("y").Eq(schema.IntVal(1)).Limit(3)
	if _, ok := b.Build(); ok {
		t.Error("Build() ok after illegal sequence")
	}
}

func TestBuilder_OrderSetters_LastWins(t *testing.T) {
	q, ok := NewBuilder().NoOrder().OrderBy("x").Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	if q.Order.Kind != OrderCustom || q.Order.Clause != "x" {
		t.Errorf("Order = %+v, want Custom(x)", q.Order)
	}

	q, ok = NewBuilder().OrderBy("x").NoOrder().Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	if q.Order.Kind != OrderNone {
		t.Errorf("Order.Kind = %q, want %q", q.Order.Kind, OrderNone)
	}
}

func TestBuilder_LimitOffset(t *testing.T) {
	q, ok := NewBuilder().Limit(10).Offset(20).Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	if q.Filter != nil {
		t.Errorf("Filter = %q, want nil", *q.Filter)
	}
	if q.Limit == nil || *q.Limit != 10 {
		t.Errorf("Limit = %v, want 10", q.Limit)
	}
	if q.Offset == nil || *q.Offset != 20 {
		t.Errorf("Offset = %v, want 20", q.Offset)
	}
}

func TestQuery_Builder_Extends(t *testing.T) {
	q, ok := NewBuilder().Col("a").Eq(schema.IntVal(1)).Build()
	if !ok {
		t.Fatal("Build() not ok")
	}
	q2, ok := q.Builder().And("b").Eq(schema.IntVal(2)).Build()
	if !ok {
		t.Fatal("extended Build() not ok")
	}
	want := "a = $1 AND b = $2"
	if *q2.Filter != want {
		t.Errorf("Filter = %q, want %q", *q2.Filter, want)
	}
}
