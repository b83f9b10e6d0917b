package form

import "fmt"

// ConflictKind categorizes a structural conflict found while parsing.
type ConflictKind string

const (
	// ConflictDuplicateKey is a terminal key given more than once.
	ConflictDuplicateKey ConflictKind = "duplicate-key"
	// ConflictVariantMismatch is a key used both as an array and as a
	// map, or a scalar re-entered as a container.
	ConflictVariantMismatch ConflictKind = "variant-mismatch"
)

// ParseError is a structural conflict in the flat parameter list. It
// identifies the raw key being processed and the path to the node where
// the conflict was found. The whole parse is abandoned; no partial tree
// is returned.
type ParseError struct {
	Kind ConflictKind
	Key  string // raw parameter name, e.g. "a[x]"
	Path string // node path where the conflict occurred, e.g. "a"
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("form: %s at %q (parameter %q)", e.Kind, e.Path, e.Key)
}
