package store

import (
	"context"
	"sync"

	"gridstore/internal/core"
)

// MemStore holds sheet grids in memory behind a mutex. It is the default
// backend when no database is configured and the reference implementation
// for Apply semantics in tests.
type MemStore struct {
	mu      sync.RWMutex
	sheets  map[string][][]core.Cell
	layouts map[string]core.SheetLayout
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		sheets:  make(map[string][][]core.Cell),
		layouts: make(map[string]core.SheetLayout),
	}
}

// FetchRows returns a copy of the sheet's grid.
func (m *MemStore) FetchRows(ctx context.Context, sheet string) ([][]core.Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, ErrSheetNotFound
	}

	out := make([][]core.Cell, len(rows))
	for i, row := range rows {
		c := make([]core.Cell, len(row))
		copy(c, row)
		out[i] = c
	}
	return out, nil
}

// Apply replays one mutation batch against the sheet. The grid only changes
// if every operation in the batch is applicable.
func (m *MemStore) Apply(ctx context.Context, sheet string, mut core.Mutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return ErrSheetNotFound
	}

	next, err := applyToGrid(rows, mut)
	if err != nil {
		return err
	}
	m.sheets[sheet] = next
	return nil
}

// Create provisions a new sheet with the layout's header row as row one.
func (m *MemStore) Create(ctx context.Context, layout core.SheetLayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sheets[layout.Name]; exists {
		return ErrSheetExists
	}

	header := make([]core.Cell, len(layout.Columns))
	for i, col := range layout.Columns {
		header[i] = col.Header
	}
	m.sheets[layout.Name] = [][]core.Cell{header}
	m.layouts[layout.Name] = layout
	return nil
}

// Seed replaces a sheet's grid wholesale. Intended for tests and for
// loading fixture data in development.
func (m *MemStore) Seed(sheet string, rows [][]core.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = rows
}

// Layout returns the layout a sheet was created with, if any.
func (m *MemStore) Layout(sheet string) (core.SheetLayout, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.layouts[sheet]
	return l, ok
}

// Sheets returns the names of all sheets in the store.
func (m *MemStore) Sheets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sheets))
	for name := range m.sheets {
		out = append(out, name)
	}
	return out
}
