// Package form reconstructs nested values from flat HTML form
// parameters.
//
// HTML forms (and query strings) encode nesting in the parameter name
// using bracket suffixes: "simple=1", "arr[]=2&arr[]=3",
// "map[a]=4&map[b]=5", "deep[c][]=6". Parse walks those keys and builds
// a tree of Leaf/Array/Map nodes:
//
//	d, err := form.Parse([]form.Pair{
//		{Key: "user[name]", Value: "alice"},
//		{Key: "user[tags][]", Value: "admin"},
//	})
//
// All leaves stay strings; coercing them into typed column values is
// the binding layer's job (see pkg/record). Contradictory input, such
// as the same key used first as an array and then as a map, rejects the
// whole parse with a ParseError naming the offending key, which the
// HTTP layer should translate into a 4xx response.
package form
