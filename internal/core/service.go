package core

// service.go orchestrates the read, push, and provisioning flows against a
// Store. The service holds no sheet data between calls: rows are fetched
// fresh each cycle and the sheet remains the source of truth.
//
// Expected failure modes (transport errors, schema drift, stale rows) are
// reported through the result's diagnostics list. The error return is
// reserved for caller misuse, such as an unregistered sheet key.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store is the boundary to the external sheet provider. Implementations
// live outside the core; each method maps to one remote call and may
// suspend. A failed call must leave no partial state behind.
type Store interface {
	// FetchRows returns the raw grid for a sheet: header row plus data
	// rows, in physical order.
	FetchRows(ctx context.Context, sheet string) ([][]Cell, error)

	// Apply replays one batched mutation against a sheet. The batch is the
	// transaction boundary: it either applies or leaves the sheet as-is.
	Apply(ctx context.Context, sheet string, mut Mutation) error

	// Create provisions a new sheet from a compiled layout.
	Create(ctx context.Context, layout SheetLayout) error
}

// Service provides the core operations for schema-driven sheet access.
type Service struct {
	store Store
}

// NewService creates a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListSheets returns information about all registered sheets.
func (s *Service) ListSheets() []SheetInfo {
	defs := All()
	infos := make([]SheetInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// ListSheetsByGroup returns registered sheets organized by group.
func (s *Service) ListSheetsByGroup() map[string][]SheetInfo {
	result := make(map[string][]SheetInfo)
	for _, group := range Groups() {
		for _, def := range ByGroup(group) {
			result[group] = append(result[group], def.Info)
		}
	}
	return result
}

// FetchResult is the outcome of one read cycle for a sheet.
type FetchResult struct {
	Sheet       string      `json:"sheet"`
	Records     []Record    `json:"records"`
	Header      Row         `json:"header,omitempty"`
	State       SheetState  `json:"state"`
	Diagnostics Diagnostics `json:"diagnostics,omitempty"`
}

// Fetch reads a sheet's rows and maps them to typed records. A transport
// failure yields an empty result with an error diagnostic, never a bare
// error: downstream callers treat the sheet as "no data" for this cycle.
func (s *Service) Fetch(ctx context.Context, key string) (FetchResult, error) {
	def, ok := Get(key)
	if !ok {
		return FetchResult{}, fmt.Errorf("unknown sheet: %s", key)
	}

	result := FetchResult{Sheet: key}

	rows, err := s.store.FetchRows(ctx, def.Schema.Name)
	if err != nil {
		result.Diagnostics.Errorf(DiagTransport, "sheet %s: fetch failed: %v", key, err)
		slog.Warn("sheet fetch failed", "sheet", key, "error", err)
		return result, nil
	}

	header, data, ok := SplitGrid(rows)
	if !ok {
		result.Diagnostics.Infof(DiagTransport, "sheet %s: no rows", key)
		return result, nil
	}

	result.Header = header
	result.State = SheetState{HeaderRows: 1, DataRows: len(data)}
	result.Diagnostics = append(result.Diagnostics, ValidateHeaders(def.Schema, header)...)
	result.Records = MapFromRows(rows, def.Schema)

	slog.Debug("sheet fetched",
		"sheet", key,
		"rows", len(data),
		"records", len(result.Records),
	)
	return result, nil
}

// PushResult is the outcome of one mutation cycle for a sheet.
type PushResult struct {
	Sheet       string        `json:"sheet"`
	BatchID     string        `json:"batchId"`
	Appended    int           `json:"appended"`
	Updated     int           `json:"updated"`
	Deleted     int           `json:"deleted"`
	Duration    time.Duration `json:"-"`
	Diagnostics Diagnostics   `json:"diagnostics,omitempty"`
}

// Push reconciles a tagged record set against the sheet's current rows and
// applies the resulting mutation as one batch. Records whose RowID no longer
// exists produce per-record error diagnostics; the rest of the batch still
// applies.
func (s *Service) Push(ctx context.Context, key string, records []Record) (PushResult, error) {
	def, ok := Get(key)
	if !ok {
		return PushResult{}, fmt.Errorf("unknown sheet: %s", key)
	}

	start := time.Now()
	result := PushResult{Sheet: key, BatchID: uuid.New().String()}

	rows, err := s.store.FetchRows(ctx, def.Schema.Name)
	if err != nil {
		result.Diagnostics.Errorf(DiagTransport, "sheet %s: fetch before push failed: %v", key, err)
		return result, nil
	}

	header, data, ok := SplitGrid(rows)
	if !ok {
		// Empty sheet: write against the canonical header layout.
		header = def.Schema.HeaderRow()
	}
	state := SheetState{HeaderRows: 1, DataRows: len(data)}

	// A drifted header still shapes the write, but the drift must surface:
	// a missing column silently drops that field from every written row.
	result.Diagnostics = append(result.Diagnostics, ValidateHeaders(def.Schema, header)...)

	for _, rec := range records {
		result.Diagnostics = append(result.Diagnostics, ValidateRecord(rec, def.Schema)...)
	}

	mut, diags := Reconcile(records, def.Schema, header, state)
	result.Diagnostics = append(result.Diagnostics, diags...)

	if mut.Empty() {
		result.Diagnostics.Infof(DiagTransport, "sheet %s: nothing to apply", key)
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := s.store.Apply(ctx, def.Schema.Name, mut); err != nil {
		result.Diagnostics.Errorf(DiagTransport, "sheet %s: apply failed: %v", key, err)
		slog.Warn("mutation apply failed", "sheet", key, "batch_id", result.BatchID, "error", err)
		result.Duration = time.Since(start)
		return result, nil
	}

	result.Appended = len(mut.Appends)
	result.Updated = len(mut.Updates)
	result.Deleted = len(mut.Deletes)
	result.Duration = time.Since(start)

	slog.Info("mutation applied",
		"sheet", key,
		"batch_id", result.BatchID,
		"appended", result.Appended,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// Layout compiles the registered schema for a sheet into its full layout.
func (s *Service) Layout(key string) (SheetLayout, Diagnostics, error) {
	def, ok := Get(key)
	if !ok {
		return SheetLayout{}, nil, fmt.Errorf("unknown sheet: %s", key)
	}
	layout, diags := CompileLayout(def.Schema)
	diags = append(diags, ValidateSchema(def.Schema)...)
	return layout, diags, nil
}

// Provision creates the sheet in the store from its compiled layout.
func (s *Service) Provision(ctx context.Context, key string) (Diagnostics, error) {
	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("unknown sheet: %s", key)
	}

	layout, diags := CompileLayout(def.Schema)
	if diags.HasErrors() {
		return diags, nil
	}

	if err := s.store.Create(ctx, layout); err != nil {
		diags.Errorf(DiagTransport, "sheet %s: provision failed: %v", key, err)
		return diags, nil
	}

	slog.Info("sheet provisioned", "sheet", key, "columns", len(layout.Columns))
	diags.Infof(DiagTransport, "sheet %s: provisioned with %d columns", key, len(layout.Columns))
	return diags, nil
}

// Validate compares a header row against the registered schema for a sheet.
func (s *Service) Validate(key string, header Row) (Diagnostics, error) {
	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("unknown sheet: %s", key)
	}
	return ValidateHeaders(def.Schema, header), nil
}
