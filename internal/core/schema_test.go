package core

import "testing"

// ----------------------------------------------------------------------------
// BuildSchema Tests
// ----------------------------------------------------------------------------

func TestBuildSchema_BaseFirstConcatenation(t *testing.T) {
	base := []FieldSchema{
		{Header: "Date", Type: FieldDate},
	}
	own := []FieldSchema{
		{Header: "Hours", Type: FieldDuration},
		{Header: "Rate", Type: FieldCurrency},
	}

	s, err := BuildSchema(SchemaSpec{Name: "Shifts", Fragments: [][]FieldSchema{base, own}})
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	want := []string{"Date", "Hours", "Rate"}
	got := s.Headers()
	if len(got) != len(want) {
		t.Fatalf("Headers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Headers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildSchema_ExplicitOrder(t *testing.T) {
	// NotesTail-style field declared in the base but ordered to the end.
	base := []FieldSchema{
		{Header: "Date", Type: FieldDate},
		{Header: "Notes", Type: FieldString, Order: 99},
	}
	own := []FieldSchema{
		{Header: "Amount", Type: FieldCurrency},
	}

	s, err := BuildSchema(SchemaSpec{Name: "Expenses", Fragments: [][]FieldSchema{base, own}})
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	want := []string{"Date", "Amount", "Notes"}
	got := s.Headers()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Headers() = %v, want %v", got, want)
		}
	}
}

func TestBuildSchema_OrderTiesKeepDeclaration(t *testing.T) {
	fields := []FieldSchema{
		{Header: "A", Type: FieldString, Order: 5},
		{Header: "B", Type: FieldString, Order: 5},
		{Header: "C", Type: FieldString},
	}

	s, err := BuildSchema(SchemaSpec{Name: "Tied", Fragments: [][]FieldSchema{fields}})
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	// C sorts by its declaration index 2 which is below order 5.
	want := []string{"C", "A", "B"}
	got := s.Headers()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Headers() = %v, want %v", got, want)
		}
	}
}

func TestBuildSchema_DerivesNamesAndPatterns(t *testing.T) {
	s, err := BuildSchema(SchemaSpec{
		Name: "Trips",
		Fragments: [][]FieldSchema{{
			{Header: "Start Time", Type: FieldTimeOfDay},
			{Header: "VAT %", Type: FieldPercentage},
			{Header: "Rate", Type: FieldCurrency, Pattern: "$0.000"},
		}},
	})
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	tests := []struct {
		header      string
		wantName    string
		wantPattern string
	}{
		{header: "Start Time", wantName: "start_time", wantPattern: "hh:mm"},
		{header: "VAT %", wantName: "vat", wantPattern: "0.00%"},
		// Explicit pattern is never overwritten.
		{header: "Rate", wantName: "rate", wantPattern: "$0.000"},
	}

	for _, tt := range tests {
		col, ok := s.Column(tt.header)
		if !ok {
			t.Fatalf("Column(%q) not found", tt.header)
		}
		if col.Name != tt.wantName {
			t.Errorf("Column(%q).Name = %q, want %q", tt.header, col.Name, tt.wantName)
		}
		if col.Pattern != tt.wantPattern {
			t.Errorf("Column(%q).Pattern = %q, want %q", tt.header, col.Pattern, tt.wantPattern)
		}
	}
}

func TestBuildSchema_ColumnLettersAssigned(t *testing.T) {
	fields := make([]FieldSchema, 28)
	for i := range fields {
		fields[i] = FieldSchema{Header: "F" + itoaTest(i), Type: FieldString}
	}

	s, err := BuildSchema(SchemaSpec{Name: "Wide", Fragments: [][]FieldSchema{fields}})
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	if s.Columns[0].Letter != "A" {
		t.Errorf("Columns[0].Letter = %q, want A", s.Columns[0].Letter)
	}
	if s.Columns[25].Letter != "Z" {
		t.Errorf("Columns[25].Letter = %q, want Z", s.Columns[25].Letter)
	}
	if s.Columns[26].Letter != "AA" {
		t.Errorf("Columns[26].Letter = %q, want AA", s.Columns[26].Letter)
	}
	if s.Columns[27].Letter != "AB" {
		t.Errorf("Columns[27].Letter = %q, want AB", s.Columns[27].Letter)
	}
}

func TestBuildSchema_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec SchemaSpec
	}{
		{
			name: "empty name",
			spec: SchemaSpec{Fragments: [][]FieldSchema{{{Header: "A", Type: FieldString}}}},
		},
		{
			name: "no fields",
			spec: SchemaSpec{Name: "Empty"},
		},
		{
			name: "empty header",
			spec: SchemaSpec{Name: "Bad", Fragments: [][]FieldSchema{{{Header: "  ", Type: FieldString}}}},
		},
		{
			name: "duplicate header",
			spec: SchemaSpec{Name: "Dup", Fragments: [][]FieldSchema{{
				{Header: "Amount", Type: FieldCurrency},
				{Header: "amount", Type: FieldNumber},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildSchema(tt.spec); err == nil {
				t.Error("BuildSchema() error = nil, want error")
			}
		})
	}
}

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{index: 0, want: "A"},
		{index: 1, want: "B"},
		{index: 25, want: "Z"},
		{index: 26, want: "AA"},
		{index: 51, want: "AZ"},
		{index: 52, want: "BA"},
		{index: 701, want: "ZZ"},
		{index: 702, want: "AAA"},
	}

	for _, tt := range tests {
		if got := ColumnLetter(tt.index); got != tt.want {
			t.Errorf("ColumnLetter(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Date", want: "date"},
		{header: "Start Time", want: "start_time"},
		{header: "VAT %", want: "vat"},
		{header: "Round Trip?", want: "round_trip"},
		{header: "Price (USD)", want: "price_usd"},
	}

	for _, tt := range tests {
		if got := fieldName(tt.header); got != tt.want {
			t.Errorf("fieldName(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

// itoaTest avoids importing strconv for one loop label.
func itoaTest(i int) string {
	if i == 0 {
		return "0"
	}
	s := ""
	for i > 0 {
		s = string(rune('0'+i%10)) + s
		i /= 10
	}
	return s
}
