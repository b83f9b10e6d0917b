package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the scalar kind of a column: the closed set of types redwing
// exchanges with the database.
type Kind string

const (
	KindFloat Kind = "float"
	KindInt   Kind = "int"
	KindText  Kind = "text"
)

// Column describes one table column.
type Column struct {
	// Name is the attribute name used by application code.
	Name string `yaml:"name"`

	// Col is the database column name. Defaults to Name.
	Col string `yaml:"column"`

	// Kind is the scalar kind: "float", "int" or "text".
	Kind Kind `yaml:"kind"`

	// Nullable marks the column as accepting null.
	Nullable bool `yaml:"nullable"`

	// PrimaryKey marks the column as the primary key.
	PrimaryKey bool `yaml:"primary_key"`

	// Autogenerated marks a primary key whose value the database
	// assigns on insert.
	Autogenerated bool `yaml:"autogenerated"`

	// Unique is a uniqueness-group label. Columns sharing a label form
	// one uniqueness constraint and one lookup group.
	Unique string `yaml:"unique"`

	// OrderBy is the column's 1-based priority in the table's default
	// ordering; 0 means the column does not participate.
	OrderBy int `yaml:"order_by"`

	// Desc orders the column descending in the default ordering.
	Desc bool `yaml:"desc"`
}

// Table describes one database table.
type Table struct {
	// Name is the model name used by application code.
	Name string `yaml:"name"`

	// DBTable is the database table name. Defaults to Name.
	DBTable string `yaml:"table"`

	Columns []Column `yaml:"columns"`
}

// Schema is a set of table descriptions.
type Schema struct {
	Tables []Table `yaml:"tables"`
}

// Table returns the table description with the given model name.
func (s *Schema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Column returns the column with the given attribute name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary key column, if the table has one.
func (t *Table) PrimaryKey() (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].PrimaryKey {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// UniqueGroup returns the columns sharing the uniqueness label, in
// declaration order.
func (t *Table) UniqueGroup(label string) []*Column {
	var cols []*Column
	for i := range t.Columns {
		if t.Columns[i].Unique == label && label != "" {
			cols = append(cols, &t.Columns[i])
		}
	}
	return cols
}

// UniqueLabels returns the distinct uniqueness-group labels, sorted.
func (t *Table) UniqueLabels() []string {
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		if c.Unique != "" {
			seen[c.Unique] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// DefaultOrder resolves the table's default ORDER BY body from the
// columns' OrderBy priorities. Empty if no column participates.
func (t *Table) DefaultOrder() string {
	type ordered struct {
		prio int
		part string
	}
	var parts []ordered
	for _, c := range t.Columns {
		if c.OrderBy <= 0 {
			continue
		}
		p := c.Col
		if c.Desc {
			p += " DESC"
		}
		parts = append(parts, ordered{c.OrderBy, p})
	}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].prio < parts[j].prio })
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.part
	}
	return strings.Join(out, ", ")
}

// ApplyDefaults fills in derivable fields: empty database names default
// to the model names.
func ApplyDefaults(s *Schema) {
	for ti := range s.Tables {
		t := &s.Tables[ti]
		if t.DBTable == "" {
			t.DBTable = t.Name
		}
		for ci := range t.Columns {
			c := &t.Columns[ci]
			if c.Col == "" {
				c.Col = c.Name
			}
		}
	}
}

// Validate checks the schema for structural problems: missing or
// duplicate names, unknown kinds, more than one primary key per table.
func Validate(s *Schema) error {
	var problems []string
	seenTables := make(map[string]bool)
	for _, t := range s.Tables {
		if t.Name == "" {
			problems = append(problems, "table with empty name")
			continue
		}
		if seenTables[t.Name] {
			problems = append(problems, fmt.Sprintf("duplicate table %q", t.Name))
		}
		seenTables[t.Name] = true
		if len(t.Columns) == 0 {
			problems = append(problems, fmt.Sprintf("table %q has no columns", t.Name))
		}
		seenCols := make(map[string]bool)
		pkCount := 0
		for _, c := range t.Columns {
			if c.Name == "" {
				problems = append(problems, fmt.Sprintf("table %q: column with empty name", t.Name))
				continue
			}
			if seenCols[c.Name] {
				problems = append(problems, fmt.Sprintf("table %q: duplicate column %q", t.Name, c.Name))
			}
			seenCols[c.Name] = true
			switch c.Kind {
			case KindFloat, KindInt, KindText:
			default:
				problems = append(problems, fmt.Sprintf(
					"table %q: column %q has unknown kind %q", t.Name, c.Name, c.Kind))
			}
			if c.PrimaryKey {
				pkCount++
				if c.Nullable {
					problems = append(problems, fmt.Sprintf(
						"table %q: primary key %q cannot be nullable", t.Name, c.Name))
				}
			}
			if c.Autogenerated && !c.PrimaryKey {
				problems = append(problems, fmt.Sprintf(
					"table %q: column %q is autogenerated but not a primary key", t.Name, c.Name))
			}
			if c.Autogenerated && c.Kind != KindInt {
				problems = append(problems, fmt.Sprintf(
					"table %q: autogenerated column %q must be int", t.Name, c.Name))
			}
		}
		if pkCount > 1 {
			problems = append(problems, fmt.Sprintf("table %q has %d primary keys", t.Name, pkCount))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(problems, "; "))
	}
	return nil
}
