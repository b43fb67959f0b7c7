// Package store provides implementations of the core.Store boundary: the
// transport between the mapping core and wherever sheet rows actually live.
//
// Two backends ship with the server. MemStore keeps grids in memory and is
// the reference implementation used by tests and by servers running without
// a database. PGStore persists grids in PostgreSQL and keeps an audit log of
// every applied mutation batch.
//
// Both backends share the same Apply contract: a mutation's row numbers are
// expressed in the coordinates the sheet had when fetched. Updates are
// applied first (they cannot shift rows), then deletes in the descending
// order the reconciler produced, then appends at the tail. One Apply call is
// one transaction: it either lands completely or leaves the sheet as it was.
package store

import (
	"errors"
	"fmt"

	"gridstore/internal/core"
)

// ErrSheetNotFound is returned when an operation references a sheet the
// store has never seen.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrSheetExists is returned by Create when the sheet already exists.
var ErrSheetExists = errors.New("sheet already exists")

// applyToGrid replays a mutation against an in-memory grid and returns the
// new grid. Row numbers are 1-based and include the header row. Shared by
// MemStore and by tests that need reference semantics.
func applyToGrid(rows [][]core.Cell, mut core.Mutation) ([][]core.Cell, error) {
	out := make([][]core.Cell, len(rows))
	copy(out, rows)

	// Updates first: they patch in place and cannot shift row numbers.
	for rowNum, cells := range mut.Updates {
		if rowNum < 1 || rowNum > len(out) {
			return nil, fmt.Errorf("update row %d out of range (have %d rows)", rowNum, len(out))
		}
		out[rowNum-1] = cells
	}

	// Deletes arrive high-to-low, so removing one never invalidates the
	// row numbers of those still pending.
	for _, rowNum := range mut.Deletes {
		if rowNum < 1 || rowNum > len(out) {
			return nil, fmt.Errorf("delete row %d out of range (have %d rows)", rowNum, len(out))
		}
		out = append(out[:rowNum-1], out[rowNum:]...)
	}

	out = append(out, mut.Appends...)
	return out, nil
}
