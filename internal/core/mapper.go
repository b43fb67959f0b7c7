package core

// mapper.go is the bidirectional bridge between raw grid rows and typed
// records.
//
// Both directions resolve fields by header NAME, never by schema position,
// which makes the mapping column-order independent: a sheet whose columns
// were manually reordered still reads and writes correctly. Missing headers
// degrade to type defaults; aggregate mismatches are the validator's concern.

// MapFromRows converts a raw grid (header row followed by data rows) into
// typed records.
//
// The first non-empty row is consumed as the header row. A data row is
// skipped when its key cell (physical column zero) is blank, but it still
// consumes a RowID so surviving records keep their physical ordinals.
// Missing headers and unparsable cells degrade to field defaults.
func MapFromRows(rows [][]Cell, schema *RecordSchema) []Record {
	header, data, ok := SplitGrid(rows)
	if !ok {
		return nil
	}

	hidx := NewHeaderIndex(header)

	// Resolve each schema column's physical position once per fetch.
	positions := make([]int, len(schema.Columns))
	for i, col := range schema.Columns {
		pos, ok := hidx.Position(col.Header)
		if !ok {
			pos = -1
		}
		positions[i] = pos
	}

	var records []Record
	for i, row := range data {
		id := RowID(i + 1)
		if blankKey(row) {
			continue
		}

		rec := NewRecord()
		rec.ID = id
		for ci, col := range schema.Columns {
			pos := positions[ci]
			if pos < 0 {
				rec.Values[col.Name] = Default(col.FieldSchema)
				continue
			}
			var raw Cell
			if pos < len(row) {
				raw = row[pos]
			}
			rec.Values[col.Name] = FromCell(raw, col.FieldSchema)
		}
		records = append(records, rec)
	}
	return records
}

// SplitGrid separates a fetched grid into its header row and data rows.
// Leading fully-empty rows before the header are skipped. Returns false if
// the grid holds no header row at all.
func SplitGrid(rows [][]Cell) (Row, [][]Cell, bool) {
	start := 0
	for start < len(rows) && emptyRow(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, nil, false
	}
	return rows[start], rows[start+1:], true
}

// MapToRows converts records into raw rows shaped for a live header row,
// which may be narrower or reordered relative to the schema's canonical
// layout. Each output row has exactly len(header) cells; header positions
// with no matching schema field receive nil.
func MapToRows(records []Record, header Row, schema *RecordSchema) [][]Cell {
	hidx := NewHeaderIndex(header)

	// Resolve the schema column for each physical header position once.
	cols := make([]*Column, hidx.Len())
	for pos := 0; pos < hidx.Len(); pos++ {
		if col, ok := schema.Column(hidx.Name(pos)); ok {
			c := col
			cols[pos] = &c
		}
	}

	out := make([][]Cell, len(records))
	for i, rec := range records {
		row := make([]Cell, hidx.Len())
		for pos, col := range cols {
			if col == nil {
				continue
			}
			v, ok := rec.Values[col.Name]
			if !ok {
				continue
			}
			row[pos] = ToCell(v, col.FieldSchema)
		}
		out[i] = row
	}
	return out
}

// MapToRow converts a single record against the schema's canonical header.
func MapToRow(rec Record, schema *RecordSchema) []Cell {
	rows := MapToRows([]Record{rec}, schema.HeaderRow(), schema)
	return rows[0]
}

// blankKey reports whether a data row's key cell (physical column zero) is
// blank. Blank-key rows are treated as placeholders, not data.
//
// This deliberately inspects column zero only, not the whole row, matching
// the sheet convention that the key column leads the layout. A row whose key
// field was moved elsewhere by a column reorder is NOT considered blank as
// long as its first physical cell holds a value.
func blankKey(row []Cell) bool {
	if len(row) == 0 {
		return true
	}
	return cellText(row[0]) == ""
}

// emptyRow reports whether every cell in the row is blank.
func emptyRow(row []Cell) bool {
	for _, c := range row {
		if cellText(c) != "" {
			return false
		}
	}
	return true
}
