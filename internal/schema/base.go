// Package schema declares the field fragments for each record type.
//
// Fragments are concatenated base-first by core.BuildSchema, so the shared
// fragments here always occupy the leading columns of every sheet that
// composes them. The leading column doubles as the key column: a data row
// with a blank key cell is treated as a placeholder and skipped on read.
package schema

import "gridstore/internal/core"

// DatedBase is the shared leading fragment for date-keyed sheets.
var DatedBase = []core.FieldSchema{
	{Header: "Date", Type: core.FieldDate, Input: true, Width: 110,
		Note: "Key column. Rows without a date are ignored."},
}

// NotesTail is the shared trailing fragment for sheets carrying free-form
// notes. The explicit order pins it past any reasonable column count.
var NotesTail = []core.FieldSchema{
	{Header: "Notes", Type: core.FieldString, Input: true, Order: 99, Width: 240},
}
