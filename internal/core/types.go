// Package core provides the schema-driven mapping logic between sheet grids
// and typed records. This package has no transport dependencies and can be
// used by any frontend or store backend.
package core

import "time"

// Cell is a single raw grid value as delivered by the store boundary.
// Valid dynamic types: string, float64, bool, or nil for an empty cell.
type Cell = any

// Row is one physical grid row. Its length may be shorter than the header
// row; short rows are zero-padded during mapping.
type Row = []Cell

// FieldType declares how a column's cells are converted to and from typed
// record values.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInteger
	FieldNumber
	FieldCurrency
	FieldPercentage
	FieldBool
	FieldDate
	FieldDateTime
	FieldTimeOfDay
	FieldDuration
	FieldEmail
	FieldURL
	FieldPhone
)

// String returns a human-readable name for the field type.
func (ft FieldType) String() string {
	switch ft {
	case FieldString:
		return "string"
	case FieldInteger:
		return "integer"
	case FieldNumber:
		return "number"
	case FieldCurrency:
		return "currency"
	case FieldPercentage:
		return "percentage"
	case FieldBool:
		return "bool"
	case FieldDate:
		return "date"
	case FieldDateTime:
		return "datetime"
	case FieldTimeOfDay:
		return "time"
	case FieldDuration:
		return "duration"
	case FieldEmail:
		return "email"
	case FieldURL:
		return "url"
	case FieldPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// ValidationRule restricts the values a column accepts. The rule is carried
// into the compiled layout so the sheet itself can enforce it; the mapper
// reports violations as diagnostics, never as hard errors.
type ValidationRule struct {
	OneOf []string // allowed values, case-insensitive
	Help  string   // shown to the operator when the rule rejects a value
}

// FieldSchema is the declarative metadata for one column of a record type.
type FieldSchema struct {
	Header     string          // column header text (must be unique within a schema)
	Name       string          // internal field name; derived from Header when empty
	Type       FieldType       // cell conversion type
	Order      int             // explicit column order (>= 1); 0 means declaration order
	Pattern    string          // custom format pattern, overrides the type default
	Input      bool            // true for user-entered columns, false for derived/output
	Formula    string          // formula template for output columns; see layout.go
	Validation *ValidationRule // optional value restriction
	Note       string          // header note shown in the sheet
	Nullable   bool            // numeric/date types yield nil instead of the zero value for blank cells
	Width      int             // column width in pixels; 0 keeps the sheet default
}

// Column is a FieldSchema placed at a concrete position in a built schema.
type Column struct {
	FieldSchema
	Index  int    // zero-based physical position in the canonical layout
	Letter string // spreadsheet column letter ("A", "B", ... "AA")
}

// RecordSchema is the ordered column definition for one record type plus its
// sheet-level attributes. Schemas are built once via BuildSchema and are
// immutable afterwards.
type RecordSchema struct {
	Name       string // sheet name
	Columns    []Column
	FreezeRows int
	FreezeCols int
	Protect    bool   // protect the whole sheet except input columns
	Banding    bool   // alternating row banding on the data range
	TabColor   string // hex color for the sheet tab, empty for default
	CellColor  string // hex color for header cells, empty for default

	byName map[string]int // folded header -> column index
}

// Column returns the column whose header matches name (case-insensitive,
// trimmed). Returns false if no such column exists.
func (s *RecordSchema) Column(name string) (Column, bool) {
	i, ok := s.byName[foldHeader(name)]
	if !ok {
		return Column{}, false
	}
	return s.Columns[i], true
}

// Headers returns the canonical header row for the schema.
func (s *RecordSchema) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// HeaderRow returns the canonical header row as raw cells, suitable for the
// write path of the mapper or for provisioning a new sheet.
func (s *RecordSchema) HeaderRow() Row {
	out := make(Row, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// RowID identifies a record's 1-based ordinal position among the data rows of
// the grid it was read from. Rows skipped for a blank key cell still consume
// an ordinal, so RowID plus the header row count is always the physical row
// number. RowID zero means "not read from a sheet".
type RowID int

// Action tags a record with its mutation intent before reconciliation.
type Action int

const (
	ActionNone   Action = iota // data only, no mutation
	ActionInsert               // new row, appended after the current last row
	ActionUpdate               // rewrite the physical row identified by RowID
	ActionDelete               // remove the physical row identified by RowID
	ActionAppend               // same placement as Insert; kept distinct for the mutation log
)

// String returns the action name used in diagnostics and the mutation log.
func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionAppend:
		return "append"
	default:
		return "none"
	}
}

// Record is one typed record instance. Values are keyed by FieldSchema.Name
// and hold the converter's typed representation for each field type (string,
// int64, float64, bool, time.Time, time.Duration, or nil for nullable blanks).
//
// A Record owns no reference to the row it was mapped from; mapping is a pure
// transform, not a live view.
type Record struct {
	ID     RowID
	Action Action
	Values map[string]any
}

// NewRecord returns an empty record with no row identity and ActionNone.
func NewRecord() Record {
	return Record{Values: make(map[string]any)}
}

// String returns the string value for the named field, or "" if unset or of
// another type.
func (r Record) String(name string) string {
	s, _ := r.Values[name].(string)
	return s
}

// Int returns the integer value for the named field, or 0.
func (r Record) Int(name string) int64 {
	n, _ := r.Values[name].(int64)
	return n
}

// Float returns the float value for the named field, or 0.
func (r Record) Float(name string) float64 {
	f, _ := r.Values[name].(float64)
	return f
}

// Bool returns the bool value for the named field, or false.
func (r Record) Bool(name string) bool {
	b, _ := r.Values[name].(bool)
	return b
}

// Time returns the time value for the named field, or the zero time.
func (r Record) Time(name string) time.Time {
	t, _ := r.Values[name].(time.Time)
	return t
}

// Duration returns the duration value for the named field, or 0.
func (r Record) Duration(name string) time.Duration {
	d, _ := r.Values[name].(time.Duration)
	return d
}

// Set assigns a typed value to the named field and returns the record so
// construction can be chained in table-driven tests.
func (r Record) Set(name string, v any) Record {
	r.Values[name] = v
	return r
}

// WithAction returns a copy of the record tagged with the given action.
func (r Record) WithAction(a Action) Record {
	r.Action = a
	return r
}

// Mutation is the reconciliation output for one sheet: the minimal structural
// changes to replay against the store. Row numbers are physical (1-based,
// header row included) and expressed in the coordinates the rows had when
// fetched; Deletes are ordered descending so earlier deletions never shift
// the row numbers of later ones.
type Mutation struct {
	Appends [][]Cell       `json:"appends,omitempty"`
	Updates map[int][]Cell `json:"updates,omitempty"`
	Deletes []int          `json:"deletes,omitempty"`
}

// Empty reports whether the mutation contains no operations.
func (m Mutation) Empty() bool {
	return len(m.Appends) == 0 && len(m.Updates) == 0 && len(m.Deletes) == 0
}

// SheetInfo contains display information about a registered sheet.
type SheetInfo struct {
	Key   string `json:"key"`   // unique identifier: "shifts"
	Group string `json:"group"` // logical grouping: "Work", "Finance"
	Label string `json:"label"` // display name: "Work Shifts"
}

// SheetDefinition ties a registered sheet to its schema. Definitions are
// registered at init time and read-only afterwards.
type SheetDefinition struct {
	Info   SheetInfo
	Schema *RecordSchema
}
