package core

// schema.go builds immutable RecordSchemas from declarative field fragments.
//
// A schema is assembled by concatenating fragments base-first: shared base
// fields always precede the fields of the record type that composes them.
// Within the concatenated sequence, fields carrying an explicit Order value
// are re-sorted against the declaration index, stably, so untagged fields
// keep their declared relative order.

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// SchemaSpec describes a schema to build: the sheet name, the field
// fragments in base-first order, and the sheet-level attributes.
type SchemaSpec struct {
	Name       string
	Fragments  [][]FieldSchema
	FreezeRows int
	FreezeCols int
	Protect    bool
	Banding    bool
	TabColor   string
	CellColor  string
}

// BuildSchema assembles a RecordSchema from the spec. It resolves field
// ordering, derives missing internal names from headers, fills each column's
// format pattern from the field-type default, and computes column letters.
//
// Errors indicate caller misuse (empty or duplicate headers), not live-data
// variance, and should be treated as fatal at registration time.
func BuildSchema(spec SchemaSpec) (*RecordSchema, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("schema: name is required")
	}

	var fields []FieldSchema
	for _, frag := range spec.Fragments {
		fields = append(fields, frag...)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %q: no fields declared", spec.Name)
	}

	ordered := orderFields(fields)

	s := &RecordSchema{
		Name:       spec.Name,
		Columns:    make([]Column, 0, len(ordered)),
		FreezeRows: spec.FreezeRows,
		FreezeCols: spec.FreezeCols,
		Protect:    spec.Protect,
		Banding:    spec.Banding,
		TabColor:   spec.TabColor,
		CellColor:  spec.CellColor,
		byName:     make(map[string]int, len(ordered)),
	}

	for _, f := range ordered {
		header := strings.TrimSpace(f.Header)
		if header == "" {
			return nil, fmt.Errorf("schema %q: field with empty header", spec.Name)
		}
		f.Header = header
		if f.Name == "" {
			f.Name = fieldName(header)
		}
		if f.Pattern == "" {
			f.Pattern = defaultPattern(f.Type)
		}

		key := foldHeader(header)
		if _, dup := s.byName[key]; dup {
			return nil, fmt.Errorf("schema %q: duplicate header %q", spec.Name, header)
		}
		s.byName[key] = len(s.Columns)
		s.Columns = append(s.Columns, Column{FieldSchema: f})
	}

	reindexColumns(s.Columns)
	return s, nil
}

// MustBuildSchema builds a schema and panics on error. Use only for
// init-time registration where a bad schema is a programming error.
func MustBuildSchema(spec SchemaSpec) *RecordSchema {
	s, err := BuildSchema(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// orderFields applies explicit Order overrides against declaration order.
// The sort key is the explicit order when set (>= 1), the declaration index
// otherwise; ties break by declaration order via the stable sort.
func orderFields(fields []FieldSchema) []FieldSchema {
	type keyed struct {
		field FieldSchema
		key   int
	}
	ks := make([]keyed, len(fields))
	for i, f := range fields {
		k := i
		if f.Order > 0 {
			k = f.Order
		}
		ks[i] = keyed{field: f, key: k}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].key < ks[j].key
	})

	out := make([]FieldSchema, len(ks))
	for i, k := range ks {
		out[i] = k.field
	}
	return out
}

// reindexColumns recomputes indices and column letters. Call whenever the
// column count changes, e.g. after inserting a shared header block.
func reindexColumns(cols []Column) {
	for i := range cols {
		cols[i].Index = i
		cols[i].Letter = ColumnLetter(i)
	}
}

// ColumnLetter converts a zero-based column index to its spreadsheet letter:
// 0 -> "A", 25 -> "Z", 26 -> "AA".
func ColumnLetter(index int) string {
	letter := ""
	for index >= 0 {
		letter = string(rune('A'+index%26)) + letter
		index = index/26 - 1
	}
	return letter
}

// fieldName derives a snake_case internal name from a header:
// "Start Time" -> "start_time", "VAT %" -> "vat".
func fieldName(header string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range header {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// defaultPattern returns the sheet format pattern used when a field declares
// no custom pattern.
func defaultPattern(ft FieldType) string {
	switch ft {
	case FieldInteger:
		return "0"
	case FieldNumber:
		return "0.00"
	case FieldCurrency:
		return "$#,##0.00"
	case FieldPercentage:
		return "0.00%"
	case FieldDate:
		return "yyyy-mm-dd"
	case FieldDateTime:
		return "yyyy-mm-dd hh:mm"
	case FieldTimeOfDay:
		return "hh:mm"
	case FieldDuration:
		return "[h]:mm"
	default:
		return ""
	}
}
