package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore is an in-package Store stub recording the calls the service makes.
type fakeStore struct {
	rows     [][]Cell
	fetchErr error
	applyErr error
	created  []SheetLayout
	applied  []Mutation
}

func (f *fakeStore) FetchRows(ctx context.Context, sheet string) ([][]Cell, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rows, nil
}

func (f *fakeStore) Apply(ctx context.Context, sheet string, mut Mutation) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, mut)
	return nil
}

func (f *fakeStore) Create(ctx context.Context, layout SheetLayout) error {
	f.created = append(f.created, layout)
	return nil
}

func registerServiceSheet(t *testing.T) {
	t.Helper()
	ClearRegistry()
	t.Cleanup(ClearRegistry)
	Register(SheetDefinition{
		Info: SheetInfo{Key: "shifts", Group: "work", Label: "Shifts"},
		Schema: MustBuildSchema(SchemaSpec{
			Name: "Shifts",
			Fragments: [][]FieldSchema{{
				{Header: "Date", Type: FieldDate, Input: true},
				{Header: "Hours", Type: FieldDuration, Input: true},
				{Header: "Notes", Type: FieldString, Input: true},
			}},
		}),
	})
}

// ----------------------------------------------------------------------------
// Fetch Tests
// ----------------------------------------------------------------------------

func TestService_Fetch(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{rows: [][]Cell{
		{"Date", "Hours", "Notes"},
		{float64(45000), float64(0.3125), "first"},
		{float64(45001), float64(0.25), "second"},
	}}
	svc := NewService(store)

	result, err := svc.Fetch(context.Background(), "shifts")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if result.Sheet != "shifts" {
		t.Errorf("Sheet = %q, want shifts", result.Sheet)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	if result.State.HeaderRows != 1 || result.State.DataRows != 2 {
		t.Errorf("State = %+v, want {1 2}", result.State)
	}
	if result.Diagnostics.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if got := result.Records[0].Time("date"); !got.Equal(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want 2023-03-15", got)
	}
}

func TestService_Fetch_UnknownSheet(t *testing.T) {
	registerServiceSheet(t)
	svc := NewService(&fakeStore{})

	if _, err := svc.Fetch(context.Background(), "nope"); err == nil {
		t.Error("Fetch(nope) error = nil, want unknown sheet error")
	}
}

func TestService_Fetch_TransportFailureIsDiagnostic(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{fetchErr: errors.New("connection reset")}
	svc := NewService(store)

	result, err := svc.Fetch(context.Background(), "shifts")
	if err != nil {
		t.Fatalf("transport failures must not surface as errors, got %v", err)
	}
	if !result.Diagnostics.HasErrors() {
		t.Error("expected an error diagnostic")
	}
	if len(result.Records) != 0 {
		t.Errorf("records = %d, want 0", len(result.Records))
	}
}

func TestService_Fetch_HeaderDriftDiagnosed(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{rows: [][]Cell{
		{"Date", "Custom"},
		{float64(45000), "x"},
	}}
	svc := NewService(store)

	result, err := svc.Fetch(context.Background(), "shifts")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// Hours and Notes missing, Custom unexpected. Mapping still proceeds.
	if got := len(result.Diagnostics.Errors()); got != 2 {
		t.Errorf("errors = %d, want 2: %v", got, result.Diagnostics)
	}
	if got := len(result.Diagnostics.Warnings()); got != 1 {
		t.Errorf("warnings = %d, want 1: %v", got, result.Diagnostics)
	}
	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Records))
	}
	if result.Records[0].Duration("hours") != 0 {
		t.Errorf("missing column should map to default")
	}
}

// ----------------------------------------------------------------------------
// Push Tests
// ----------------------------------------------------------------------------

func TestService_Push(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{rows: [][]Cell{
		{"Date", "Hours", "Notes"},
		{float64(45000), float64(0.3125), "keep"},
		{float64(45001), float64(0.25), "stale"},
	}}
	svc := NewService(store)

	ins := NewRecord().Set("notes", "new row").WithAction(ActionInsert)
	del := NewRecord().WithAction(ActionDelete)
	del.ID = 2

	result, err := svc.Push(context.Background(), "shifts", []Record{ins, del})
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	if result.BatchID == "" {
		t.Error("BatchID is empty")
	}
	if result.Appended != 1 || result.Deleted != 1 || result.Updated != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/0/1", result.Appended, result.Updated, result.Deleted)
	}
	if len(store.applied) != 1 {
		t.Fatalf("applied = %d mutations, want 1", len(store.applied))
	}
	if got := store.applied[0].Deletes; len(got) != 1 || got[0] != 3 {
		t.Errorf("Deletes = %v, want [3]", got)
	}
}

func TestService_Push_EmptySheetUsesCanonicalHeader(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{} // no rows at all
	svc := NewService(store)

	ins := NewRecord().Set("notes", "first").WithAction(ActionInsert)
	result, err := svc.Push(context.Background(), "shifts", []Record{ins})
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if result.Appended != 1 {
		t.Fatalf("Appended = %d, want 1", result.Appended)
	}

	// Appended row is shaped to the three canonical columns.
	row := store.applied[0].Appends[0]
	if len(row) != 3 {
		t.Fatalf("append row = %v, want 3 cells", row)
	}
	if row[2] != "first" {
		t.Errorf("row[2] = %v, want first", row[2])
	}
}

func TestService_Push_HeaderDriftDiagnosed(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{rows: [][]Cell{{"Date"}}} // Hours and Notes lost
	svc := NewService(store)

	ins := NewRecord().
		Set("date", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
		Set("hours", 8*time.Hour).
		WithAction(ActionInsert)

	result, err := svc.Push(context.Background(), "shifts", []Record{ins})
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	// The write follows the live one-column header, dropping hours, so the
	// missing columns must surface as error diagnostics.
	if got := len(result.Diagnostics.Errors()); got != 2 {
		t.Errorf("errors = %d, want 2: %v", got, result.Diagnostics)
	}
	if row := store.applied[0].Appends[0]; len(row) != 1 {
		t.Errorf("append row = %v, want 1 cell", row)
	}
}

func TestService_Push_NothingToApply(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{rows: [][]Cell{{"Date", "Hours", "Notes"}}}
	svc := NewService(store)

	noop := NewRecord().Set("notes", "just data")
	result, err := svc.Push(context.Background(), "shifts", []Record{noop})
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if len(store.applied) != 0 {
		t.Errorf("empty mutation must not reach the store")
	}
	if result.Appended+result.Updated+result.Deleted != 0 {
		t.Errorf("counts should be zero: %+v", result)
	}
}

func TestService_Push_ApplyFailureIsDiagnostic(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{
		rows:     [][]Cell{{"Date", "Hours", "Notes"}},
		applyErr: errors.New("quota exceeded"),
	}
	svc := NewService(store)

	ins := NewRecord().Set("notes", "x").WithAction(ActionInsert)
	result, err := svc.Push(context.Background(), "shifts", []Record{ins})
	if err != nil {
		t.Fatalf("apply failures must not surface as errors, got %v", err)
	}
	if !result.Diagnostics.HasErrors() {
		t.Error("expected an error diagnostic")
	}
	if result.Appended != 0 {
		t.Errorf("Appended = %d, want 0 after failed apply", result.Appended)
	}
}

// ----------------------------------------------------------------------------
// Layout / Provision / Validate Tests
// ----------------------------------------------------------------------------

func TestService_Layout(t *testing.T) {
	registerServiceSheet(t)
	svc := NewService(&fakeStore{})

	layout, diags, err := svc.Layout("shifts")
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if diags.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if layout.Name != "Shifts" || len(layout.Columns) != 3 {
		t.Errorf("layout = %q with %d columns, want Shifts with 3", layout.Name, len(layout.Columns))
	}

	if _, _, err := svc.Layout("nope"); err == nil {
		t.Error("Layout(nope) error = nil, want unknown sheet error")
	}
}

func TestService_Provision(t *testing.T) {
	registerServiceSheet(t)
	store := &fakeStore{}
	svc := NewService(store)

	diags, err := svc.Provision(context.Background(), "shifts")
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	if diags.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(store.created) != 1 || store.created[0].Name != "Shifts" {
		t.Errorf("created = %v, want one Shifts layout", store.created)
	}
}

func TestService_Validate(t *testing.T) {
	registerServiceSheet(t)
	svc := NewService(&fakeStore{})

	diags, err := svc.Validate("shifts", Row{"Notes", "Date", "Hours"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("reordered header should validate clean: %v", diags)
	}

	diags, err = svc.Validate("shifts", Row{"Date"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := len(diags.Errors()); got != 2 {
		t.Errorf("errors = %d, want 2", got)
	}
}

func TestService_ListSheets(t *testing.T) {
	registerServiceSheet(t)
	svc := NewService(&fakeStore{})

	infos := svc.ListSheets()
	if len(infos) != 1 || infos[0].Key != "shifts" {
		t.Errorf("ListSheets() = %v, want [shifts]", infos)
	}

	byGroup := svc.ListSheetsByGroup()
	if len(byGroup["work"]) != 1 {
		t.Errorf("ListSheetsByGroup() = %v, want work group with one sheet", byGroup)
	}
}
