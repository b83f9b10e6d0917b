package form

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, pairs []Pair) *Data {
	t.Helper()
	d, err := Parse(pairs)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return d
}

// assertJSON compares the parsed tree against an expected JSON literal,
// ignoring map key order.
func assertJSON(t *testing.T, d *Data, wantJSON string) {
	t.Helper()
	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var gotVal, wantVal interface{}
	if err := json.Unmarshal(got, &gotVal); err != nil {
		t.Fatalf("unmarshal of output failed: %v", err)
	}
	if err := json.Unmarshal([]byte(wantJSON), &wantVal); err != nil {
		t.Fatalf("bad expectation %q: %v", wantJSON, err)
	}
	if !reflect.DeepEqual(gotVal, wantVal) {
		t.Errorf("parsed = %s, want %s", got, wantJSON)
	}
}

func TestParse_ScalarArrayMapDisambiguation(t *testing.T) {
	d := mustParse(t, []Pair{
		{"simple", "1"},
		{"arr[]", "2"},
		{"arr[]", "3"},
		{"map[a]", "4"},
		{"map[b]", "5"},
		{"deep[c][]", "6"},
		{"deep[c][]", "7"},
		{"deep[d]", "8"},
		{"mtrx[][]", "9"},
	})
	assertJSON(t, d, `{
		"simple": "1",
		"arr":    ["2", "3"],
		"map":    {"a": "4", "b": "5"},
		"deep":   {"c": ["6", "7"], "d": "8"},
		"mtrx":   [["9"]]
	}`)
}

func TestParse_RepeatedMatrixAppendsToLastArray(t *testing.T) {
	// Repeated empty-bracket segments at the same depth keep appending
	// to the last-created array at that depth.
	d := mustParse(t, []Pair{
		{"mtrx[][]", "9"},
		{"mtrx[][]", "10"},
	})
	assertJSON(t, d, `{"mtrx": [["9", "10"]]}`)
}

func TestParse_EmptyInput(t *testing.T) {
	d := mustParse(t, nil)
	assertJSON(t, d, `{}`)
}

func TestParse_ArrayOfMaps(t *testing.T) {
	d := mustParse(t, []Pair{
		{"rows[][a]", "1"},
		{"rows[][b]", "2"},
	})
	assertJSON(t, d, `{"rows": [{"a": "1", "b": "2"}]}`)
}

func TestParse_DeepNesting(t *testing.T) {
	d := mustParse(t, []Pair{
		{"a[b][c][d]", "1"},
		{"a[b][c][e]", "2"},
		{"a[b][f][]", "3"},
	})
	assertJSON(t, d, `{"a": {"b": {"c": {"d": "1", "e": "2"}, "f": ["3"]}}}`)
}

func TestParse_DuplicateTerminalKeyRejected(t *testing.T) {
	_, err := Parse([]Pair{{"a", "1"}, {"a", "2"}})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if perr.Kind != ConflictDuplicateKey {
		t.Errorf("Kind = %q, want %q", perr.Kind, ConflictDuplicateKey)
	}
	if perr.Path != "a" {
		t.Errorf("Path = %q, want %q", perr.Path, "a")
	}
}

func TestParse_VariantMismatchRejected(t *testing.T) {
	tests := []struct {
		name     string
		pairs    []Pair
		wantPath string
	}{
		{
			name:     "array then map",
			pairs:    []Pair{{"a[]", "1"}, {"a[x]", "2"}},
			wantPath: "a",
		},
		{
			name:     "map then array",
			pairs:    []Pair{{"a[x]", "1"}, {"a[]", "2"}},
			wantPath: "a",
		},
		{
			name:     "leaf then container",
			pairs:    []Pair{{"a", "1"}, {"a[]", "2"}},
			wantPath: "a",
		},
		{
			name:     "container then leaf",
			pairs:    []Pair{{"a[]", "1"}, {"a", "2"}},
			wantPath: "a",
		},
		{
			name:     "nested mismatch",
			pairs:    []Pair{{"a[b][]", "1"}, {"a[b][x]", "2"}},
			wantPath: "a.b",
		},
		{
			name:     "array element map then array",
			pairs:    []Pair{{"a[][x]", "1"}, {"a[][]", "2"}},
			wantPath: "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.pairs)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if perr.Kind != ConflictVariantMismatch {
				t.Errorf("Kind = %q, want %q", perr.Kind, ConflictVariantMismatch)
			}
			if perr.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", perr.Path, tt.wantPath)
			}
		})
	}
}

func TestParse_NoPartialTreeOnError(t *testing.T) {
	d, err := Parse([]Pair{{"ok", "1"}, {"a", "2"}, {"a", "3"}})
	if err == nil {
		t.Fatal("Parse() succeeded on contradictory input")
	}
	if d != nil {
		t.Errorf("Parse() = %v, want nil on error", d)
	}
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		raw      string
		wantHead string
		wantSegs []string
	}{
		{"simple", "simple", nil},
		{"a[]", "a", []string{""}},
		{"a[b]", "a", []string{"b"}},
		{"a[b][]", "a", []string{"b", ""}},
		{"a[][]", "a", []string{"", ""}},
		{"no[close", "no[close", nil},
		{"odd]key", "odd]key", nil},
	}
	for _, tt := range tests {
		head, segs := splitKey(tt.raw)
		if head != tt.wantHead {
			t.Errorf("splitKey(%q) head = %q, want %q", tt.raw, head, tt.wantHead)
		}
		if !reflect.DeepEqual(segs, tt.wantSegs) {
			t.Errorf("splitKey(%q) segments = %v, want %v", tt.raw, segs, tt.wantSegs)
		}
	}
}

func TestData_Accessors(t *testing.T) {
	d := mustParse(t, []Pair{{"a", "1"}, {"b[]", "2"}})
	leaf, ok := d.Get("a")
	if !ok {
		t.Fatal("Get(a) missing")
	}
	if s, ok := leaf.Leaf(); !ok || s != "1" {
		t.Errorf("Leaf() = %q, %v; want 1, true", s, ok)
	}
	arrNode, _ := d.Get("b")
	elems, ok := arrNode.Array()
	if !ok || len(elems) != 1 {
		t.Fatalf("Array() = %v, %v; want one element", elems, ok)
	}
	if d.Variant() != VariantMap {
		t.Errorf("root Variant() = %q, want %q", d.Variant(), VariantMap)
	}
	if keys := d.Keys(); len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 keys", keys)
	}
}
