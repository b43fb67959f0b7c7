package core

// reconcile.go computes the minimal structural mutation that brings a sheet
// in line with a tagged record set.
//
// Records arrive tagged with an Action and, for updates and deletes, the
// RowID captured at read time. All row math happens in the coordinates the
// sheet had when fetched: deletes are emitted in descending physical order
// so earlier deletions never invalidate the row numbers of later ones, and
// a RowID that no longer exists degrades to a per-record error diagnostic
// while the rest of the batch proceeds. Each physical row may be claimed by
// at most one update or delete per batch; a second claim is the same kind
// of stale reference, since the row it pointed at is already spoken for.

import "sort"

// SheetState is the last-known occupancy of a sheet, captured at fetch time.
type SheetState struct {
	HeaderRows int // header rows at the top of the sheet; defaults to 1
	DataRows   int // data rows currently occupying the sheet
}

// Reconcile converts a tagged record set into a Mutation against the sheet
// state. The header row is the live header layout used to shape appended
// and updated rows, so a reordered sheet receives cells in its own order.
func Reconcile(records []Record, schema *RecordSchema, header Row, state SheetState) (Mutation, Diagnostics) {
	headerRows := state.HeaderRows
	if headerRows <= 0 {
		headerRows = 1
	}

	var diags Diagnostics
	mut := Mutation{Updates: make(map[int][]Cell)}
	claimed := make(map[int]bool)

	var appendRecs []Record
	for _, rec := range records {
		switch rec.Action {
		case ActionInsert, ActionAppend:
			appendRecs = append(appendRecs, rec)

		case ActionUpdate:
			row, ok := physicalRow(rec, headerRows, state.DataRows)
			if !ok {
				diags.Errorf(DiagStaleRow, "sheet %s: update for row id %d: row no longer exists", schema.Name, rec.ID)
				continue
			}
			if claimed[row] {
				diags.Errorf(DiagStaleRow, "sheet %s: update for row id %d: row already claimed in this batch", schema.Name, rec.ID)
				continue
			}
			claimed[row] = true
			mut.Updates[row] = MapToRows([]Record{rec}, header, schema)[0]

		case ActionDelete:
			row, ok := physicalRow(rec, headerRows, state.DataRows)
			if !ok {
				diags.Errorf(DiagStaleRow, "sheet %s: delete for row id %d: row no longer exists", schema.Name, rec.ID)
				continue
			}
			if claimed[row] {
				diags.Errorf(DiagStaleRow, "sheet %s: delete for row id %d: row already claimed in this batch", schema.Name, rec.ID)
				continue
			}
			claimed[row] = true
			mut.Deletes = append(mut.Deletes, row)

		case ActionNone:
			// data only
		}
	}

	if len(appendRecs) > 0 {
		mut.Appends = MapToRows(appendRecs, header, schema)
	}

	// High-to-low so earlier deletes don't shift later row numbers.
	sort.Sort(sort.Reverse(sort.IntSlice(mut.Deletes)))

	return mut, diags
}

// physicalRow translates a record's RowID into a physical sheet row number.
// Returns false when the RowID is unset or beyond the sheet's current data
// rows.
func physicalRow(rec Record, headerRows, dataRows int) (int, bool) {
	id := int(rec.ID)
	if id <= 0 || id > dataRows {
		return 0, false
	}
	return headerRows + id, true
}
