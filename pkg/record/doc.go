// Package record maps rows to schema-described values and back.
//
// A Repository interprets a schema.Table at runtime: it assembles
// SELECT/INSERT/UPDATE/DELETE statements over database/sql, consuming
// query.Query descriptors for filtering, ordering and paging. Rows are
// plain maps from attribute name to typed *Value; there is no per-model
// generated code.
//
//	repo := record.NewRepository(db, usersTable)
//	q, _ := query.NewBuilder().Col("score").Ge(record.FloatVal(4)).Build()
//	rows, err := repo.Select(ctx, q)
//
// The package also provides association helpers (belongs-to, has-many,
// many-to-many) expressed as query composition over repositories, and
// form binding that coerces a parsed form tree into typed row values.
package record
