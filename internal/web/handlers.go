package web

// handlers.go contains the JSON API handlers.
//
// Records cross this boundary in cell-level form: the "values" object of a
// wire record holds raw cell values (string, number, bool, or null), and the
// core's converter turns them into typed values on the way in and back into
// cells on the way out. Dates may be sent either as serial day numbers or as
// text in any accepted layout.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gridstore/internal/core"
	"gridstore/internal/store"
)

// MutationLogReader exposes the mutation audit trail when the configured
// store keeps one. A nil reader disables the endpoint.
type MutationLogReader interface {
	MutationLog(ctx context.Context, sheet string, limit int) ([]store.MutationLogEntry, error)
}

// apiRecord is the wire form of one record.
type apiRecord struct {
	ID     int            `json:"id,omitempty"`
	Action string         `json:"action,omitempty"`
	Values map[string]any `json:"values"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleListSheets returns all registered sheets organized by group.
func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"groups": s.service.ListSheetsByGroup(),
		"count":  len(s.service.ListSheets()),
	})
}

// handleLayout returns the compiled layout for a sheet.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "sheetKey")

	layout, diags, err := s.service.Layout(key)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, map[string]any{
		"layout":      layout,
		"diagnostics": diags,
	})
}

// handleFetchRecords reads a sheet and returns its typed records in wire
// form, along with the diagnostics of the read cycle.
func (s *Server) handleFetchRecords(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "sheetKey")

	ctx, cancel := withDeadline(r.Context(), s.cfg.Sync.FetchTimeout)
	defer cancel()

	result, err := s.service.Fetch(ctx, key)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	def, _ := core.Get(key)
	out := make([]apiRecord, len(result.Records))
	for i, rec := range result.Records {
		out[i] = recordOut(rec, def.Schema)
	}

	writeJSON(w, map[string]any{
		"sheet":       result.Sheet,
		"records":     out,
		"state":       result.State,
		"diagnostics": result.Diagnostics,
	})
}

// handlePushRecords reconciles a tagged record set against the sheet and
// applies the resulting mutation batch.
func (s *Server) handlePushRecords(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "sheetKey")

	def, ok := core.Get(key)
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("unknown sheet: %s", key))
		return
	}

	var body struct {
		Records []apiRecord `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(body.Records) == 0 {
		writeError(w, r, http.StatusBadRequest, "no records in request")
		return
	}
	if max := s.cfg.Sync.MaxBatchRecords; max > 0 && len(body.Records) > max {
		writeError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch has %d records, limit is %d", len(body.Records), max))
		return
	}

	records := make([]core.Record, len(body.Records))
	for i, api := range body.Records {
		rec, err := recordIn(api, def.Schema)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("record %d: %v", i, err))
			return
		}
		records[i] = rec
	}

	ctx, cancel := withDeadline(r.Context(), s.cfg.Sync.PushTimeout)
	defer cancel()

	result, err := s.service.Push(ctx, key, records)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Diagnostics.HasErrors() {
		// Partial failure: some records applied, some did not.
		w.WriteHeader(http.StatusMultiStatus)
	}
	writeJSON(w, result)
}

// handleValidate compares a posted header row against the sheet's schema.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "sheetKey")

	var body struct {
		Header []any `json:"header"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	diags, err := s.service.Validate(key, body.Header)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, map[string]any{
		"valid":       !diags.HasErrors(),
		"diagnostics": diags,
	})
}

// handleProvision creates the sheet in the store from its compiled layout.
func (s *Server) handleProvision(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "sheetKey")

	diags, err := s.service.Provision(r.Context(), key)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, map[string]any{
		"provisioned": !diags.HasErrors(),
		"diagnostics": diags,
	})
}

// handleMutationLog returns the audit trail of applied batches for a sheet.
// Only available when the configured store keeps a mutation log.
func (s *Server) handleMutationLog(w http.ResponseWriter, r *http.Request) {
	if s.mutlog == nil {
		writeError(w, r, http.StatusNotFound, "mutation log not available with this store")
		return
	}

	key := chi.URLParam(r, "sheetKey")
	def, ok := core.Get(key)
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("unknown sheet: %s", key))
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.mutlog.MutationLog(r.Context(), def.Schema.Name, limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, map[string]any{"entries": entries})
}

// ----------------------------------------------------------------------------
// Wire conversion
// ----------------------------------------------------------------------------

// recordOut converts a typed record to wire form: values become raw cells.
func recordOut(rec core.Record, schema *core.RecordSchema) apiRecord {
	values := make(map[string]any, len(rec.Values))
	for _, col := range schema.Columns {
		v, ok := rec.Values[col.Name]
		if !ok {
			continue
		}
		values[col.Name] = core.ToCell(v, col.FieldSchema)
	}
	return apiRecord{
		ID:     int(rec.ID),
		Action: rec.Action.String(),
		Values: values,
	}
}

// recordIn converts a wire record to a typed record: raw cell values run
// through the converter for their declared field. Value keys that match no
// schema field are rejected, since a typo would otherwise silently drop
// data.
func recordIn(api apiRecord, schema *core.RecordSchema) (core.Record, error) {
	action, err := parseAction(api.Action)
	if err != nil {
		return core.Record{}, err
	}

	known := make(map[string]bool, len(schema.Columns))
	rec := core.NewRecord()
	rec.ID = core.RowID(api.ID)
	rec.Action = action

	for _, col := range schema.Columns {
		known[col.Name] = true
		raw, ok := api.Values[col.Name]
		if !ok {
			continue
		}
		rec.Values[col.Name] = core.FromCell(raw, col.FieldSchema)
	}

	for name := range api.Values {
		if !known[name] {
			return core.Record{}, fmt.Errorf("unknown field %q", name)
		}
	}

	return rec, nil
}

// withDeadline bounds a store round trip by the configured timeout. A zero
// timeout leaves the request context as-is.
func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// parseAction parses the wire action tag. An empty tag means "data only".
func parseAction(s string) (core.Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return core.ActionNone, nil
	case "insert":
		return core.ActionInsert, nil
	case "update":
		return core.ActionUpdate, nil
	case "delete":
		return core.ActionDelete, nil
	case "append":
		return core.ActionAppend, nil
	default:
		return core.ActionNone, errors.New("invalid action: " + s)
	}
}
