package record

import (
	"errors"
	"testing"

	"redwing-hq/redwing/pkg/form"
	"redwing-hq/redwing/pkg/schema"
)

func bindTable(t *testing.T) *schema.Table {
	t.Helper()
	s, err := schema.Parse([]byte(`
tables:
  - name: players
    columns:
      - name: id
        kind: int
        primary_key: true
        autogenerated: true
      - name: name
        kind: text
      - name: level
        kind: int
        nullable: true
      - name: rating
        kind: float
        nullable: true
`))
	if err != nil {
		t.Fatalf("schema.Parse() failed: %v", err)
	}
	tbl, _ := s.Table("players")
	return tbl
}

func mustParse(t *testing.T, pairs []form.Pair) *form.Data {
	t.Helper()
	data, err := form.Parse(pairs)
	if err != nil {
		t.Fatalf("form.Parse() failed: %v", err)
	}
	return data
}

func TestBindForm(t *testing.T) {
	tbl := bindTable(t)
	data := mustParse(t, []form.Pair{
		{Key: "name", Value: "ann"},
		{Key: "level", Value: "7"},
		{Key: "rating", Value: "4.5"},
		{Key: "csrf_token", Value: "ignored"},
	})

	row, err := BindForm(tbl, data)
	if err != nil {
		t.Fatalf("BindForm() failed: %v", err)
	}
	if !row["name"].Equal(TextVal("ann")) {
		t.Errorf("name = %v", row["name"])
	}
	if !row["level"].Equal(IntVal(7)) {
		t.Errorf("level = %v", row["level"])
	}
	if !row["rating"].Equal(FloatVal(4.5)) {
		t.Errorf("rating = %v", row["rating"])
	}
	if _, present := row["id"]; present {
		t.Error("absent form key produced a row value")
	}
}

func TestBindForm_EmptyStringBecomesNull(t *testing.T) {
	tbl := bindTable(t)
	data := mustParse(t, []form.Pair{
		{Key: "name", Value: ""},
		{Key: "level", Value: ""},
	})

	row, err := BindForm(tbl, data)
	if err != nil {
		t.Fatalf("BindForm() failed: %v", err)
	}
	// Empty stays a real value for text columns, becomes null only for
	// nullable numeric ones.
	if !row["name"].Equal(TextVal("")) {
		t.Errorf("name = %v, want empty text", row["name"])
	}
	v, present := row["level"]
	if !present || v != nil {
		t.Errorf("level = %v (present %v), want present null", v, present)
	}
}

func TestBindForm_Errors(t *testing.T) {
	tbl := bindTable(t)

	tests := []struct {
		name    string
		pairs   []form.Pair
		column  string
	}{
		{
			name:   "bad integer",
			pairs:  []form.Pair{{Key: "level", Value: "seven"}},
			column: "level",
		},
		{
			name:   "bad float",
			pairs:  []form.Pair{{Key: "rating", Value: "4.5.6"}},
			column: "rating",
		},
		{
			name:   "nested data for scalar column",
			pairs:  []form.Pair{{Key: "name[first]", Value: "ann"}},
			column: "name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BindForm(tbl, mustParse(t, tt.pairs))
			var berr *BindError
			if !errors.As(err, &berr) {
				t.Fatalf("BindForm() error = %v, want *BindError", err)
			}
			if berr.Column != tt.column {
				t.Errorf("Column = %q, want %q", berr.Column, tt.column)
			}
		})
	}
}
