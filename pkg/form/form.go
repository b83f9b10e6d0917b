package form

import (
	"encoding/json"
	"regexp"
)

// Pair is one flat form parameter, already URL-decoded.
type Pair struct {
	Key   string
	Value string
}

// Variant discriminates the node kinds of a parsed form tree.
type Variant string

const (
	VariantLeaf  Variant = "leaf"
	VariantArray Variant = "array"
	VariantMap   Variant = "map"
)

// Data is a node in the parsed form tree: a string leaf, an ordered
// array, or a string-keyed map. A node's variant is fixed at creation;
// Parse rejects input that would re-type an existing node.
type Data struct {
	variant Variant
	leaf    string
	arr     []*Data
	obj     map[string]*Data
}

// bracketPat extracts the bracket segments of a parameter name. An
// empty capture means "next array slot", a non-empty one a map key.
var bracketPat = regexp.MustCompile(`\[([^]]*)\]`)

func newMap() *Data {
	return &Data{variant: VariantMap, obj: make(map[string]*Data)}
}

func newArray() *Data {
	return &Data{variant: VariantArray}
}

func newLeaf(value string) *Data {
	return &Data{variant: VariantLeaf, leaf: value}
}

// Parse builds a form tree from flat (key, value) pairs. The result is
// always a Map node. Keys without brackets are flat identifiers; bracket
// segments are walked left to right, creating nested arrays and maps on
// the way down.
//
// A duplicate terminal key, or a key whose bracket shape contradicts an
// earlier key (array vs. map at the same node), aborts the parse with a
// *ParseError; no partial tree is returned.
func Parse(pairs []Pair) (*Data, error) {
	root := newMap()
	for _, p := range pairs {
		head, segments := splitKey(p.Key)
		if err := root.insert(p.Key, head, head, segments, newLeaf(p.Value)); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// splitKey splits a raw parameter name into its head and bracket
// segments. Text outside brackets after the first one is ignored, so a
// name that does not follow the grammar degrades to whatever bracket
// groups it does contain.
func splitKey(raw string) (head string, segments []string) {
	matches := bracketPat.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return raw, nil
	}
	head = raw[:matches[0][0]]
	segments = make([]string, 0, len(matches))
	for _, m := range matches {
		segments = append(segments, raw[m[2]:m[3]])
	}
	return head, segments
}

// insert places value in the map node at key, descending through the
// remaining bracket segments. rawKey and path are carried for error
// reporting only; path names the node at key. Variants are checked
// before descending so a conflict is reported at the key that owns the
// conflicting node.
func (d *Data) insert(rawKey, path, key string, segments []string, value *Data) error {
	if len(segments) == 0 {
		if existing, ok := d.obj[key]; ok {
			kind := ConflictDuplicateKey
			if existing.variant != VariantLeaf {
				kind = ConflictVariantMismatch
			}
			return &ParseError{Kind: kind, Key: rawKey, Path: path}
		}
		d.obj[key] = value
		return nil
	}
	next, rest := segments[0], segments[1:]
	child, ok := d.obj[key]
	if next == "" {
		if !ok {
			child = newArray()
			d.obj[key] = child
		}
		if child.variant != VariantArray {
			return &ParseError{Kind: ConflictVariantMismatch, Key: rawKey, Path: path}
		}
		return child.push(rawKey, path, rest, value)
	}
	if !ok {
		child = newMap()
		d.obj[key] = child
	}
	if child.variant != VariantMap {
		return &ParseError{Kind: ConflictVariantMismatch, Key: rawKey, Path: path}
	}
	return child.insert(rawKey, path+"."+next, next, rest, value)
}

// push appends value to the array node, descending through the
// remaining bracket segments. An empty array grows a fresh child of the
// needed variant; otherwise the walk continues in the last element, so
// repeated empty-bracket segments keep appending to the last-created
// array at that depth.
func (d *Data) push(rawKey, path string, segments []string, value *Data) error {
	if len(segments) == 0 {
		d.arr = append(d.arr, value)
		return nil
	}
	next, rest := segments[0], segments[1:]
	if next == "" {
		if len(d.arr) == 0 {
			d.arr = append(d.arr, newArray())
		}
		last := d.arr[len(d.arr)-1]
		if last.variant != VariantArray {
			return &ParseError{Kind: ConflictVariantMismatch, Key: rawKey, Path: path}
		}
		return last.push(rawKey, path, rest, value)
	}
	if len(d.arr) == 0 {
		d.arr = append(d.arr, newMap())
	}
	last := d.arr[len(d.arr)-1]
	if last.variant != VariantMap {
		return &ParseError{Kind: ConflictVariantMismatch, Key: rawKey, Path: path}
	}
	return last.insert(rawKey, path+"."+next, next, rest, value)
}

// Variant returns the node's kind.
func (d *Data) Variant() Variant {
	return d.variant
}

// Leaf returns the string value of a leaf node and whether the node is
// one.
func (d *Data) Leaf() (string, bool) {
	return d.leaf, d.variant == VariantLeaf
}

// Array returns the elements of an array node, in insertion order.
func (d *Data) Array() ([]*Data, bool) {
	if d.variant != VariantArray {
		return nil, false
	}
	return d.arr, true
}

// Get returns the child of a map node at key.
func (d *Data) Get(key string) (*Data, bool) {
	if d.variant != VariantMap {
		return nil, false
	}
	child, ok := d.obj[key]
	return child, ok
}

// Keys returns the keys of a map node, in no particular order.
func (d *Data) Keys() []string {
	if d.variant != VariantMap {
		return nil
	}
	keys := make([]string, 0, len(d.obj))
	for k := range d.obj {
		keys = append(keys, k)
	}
	return keys
}

// Value converts the tree to generic interchange values: string for a
// leaf, []interface{} for an array, map[string]interface{} for a map.
// All leaves remain strings.
func (d *Data) Value() interface{} {
	switch d.variant {
	case VariantLeaf:
		return d.leaf
	case VariantArray:
		out := make([]interface{}, len(d.arr))
		for i, e := range d.arr {
			out[i] = e.Value()
		}
		return out
	default:
		out := make(map[string]interface{}, len(d.obj))
		for k, v := range d.obj {
			out[k] = v.Value()
		}
		return out
	}
}

// MarshalJSON serializes the tree as nested objects, arrays and strings.
func (d *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Value())
}
