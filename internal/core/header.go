package core

// header.go builds the position->name index for a sheet's header row.
//
// The index always preserves physical column positions: blank header cells
// are kept as empty names so data cells stay aligned, and duplicate header
// names keep their distinct positions. Ambiguity between duplicates is
// resolved at lookup time by taking the first matching position.

import "strings"

// HeaderIndex maps physical column positions to header names, built fresh
// from the header row of each fetch. Positions are always the physical
// column index in the source grid, never reordered.
type HeaderIndex struct {
	names  []string
	folded []string
}

// NewHeaderIndex builds an index from a raw header row. Cell values are
// stringified and trimmed; non-string cells become empty names. It never
// fails: an empty input yields an empty index.
func NewHeaderIndex(header Row) HeaderIndex {
	idx := HeaderIndex{
		names:  make([]string, len(header)),
		folded: make([]string, len(header)),
	}
	for i, cell := range header {
		s, _ := cell.(string)
		s = strings.TrimSpace(s)
		idx.names[i] = s
		idx.folded[i] = strings.ToLower(s)
	}
	return idx
}

// Len returns the number of columns in the header row.
func (h HeaderIndex) Len() int {
	return len(h.names)
}

// Name returns the trimmed, case-preserved header name at the given physical
// position, or "" if the position is out of range.
func (h HeaderIndex) Name(pos int) string {
	if pos < 0 || pos >= len(h.names) {
		return ""
	}
	return h.names[pos]
}

// Position returns the first physical position whose header matches name
// (case-insensitive, trimmed). Returns false if the name is not present.
func (h HeaderIndex) Position(name string) (int, bool) {
	want := foldHeader(name)
	for i, f := range h.folded {
		if f == want {
			return i, true
		}
	}
	return 0, false
}

// Names returns the header names in physical order.
func (h HeaderIndex) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// foldHeader normalizes a header name for matching.
func foldHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
