package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by operations that require an existing row,
// like Update and Delete, when the row is gone.
var ErrNotFound = errors.New("record not found")

// ValidationError reports row values that do not fit the table schema.
type ValidationError struct {
	Table    string
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid row for table %q: %s",
		e.Table, strings.Join(e.Problems, "; "))
}

// BindError reports form input that cannot be coerced into a column's
// scalar kind. Like a form parse error, it maps to a rejected request
// in the HTTP layer.
type BindError struct {
	Column string
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("cannot bind %q to column %q: %s", e.Input, e.Column, e.Reason)
}
