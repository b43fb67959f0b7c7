package core

// validate.go compares expectations against the live sheet.
//
// Header validation reports missing expected columns as errors and
// operator-added extra columns as warnings. It never flags reordering:
// column-order independence is load-bearing for the whole mapper and a
// reordered sheet is a healthy sheet.

import "strings"

// ValidateHeaders compares the expected schema's header names against an
// actual header row.
//
// Errors: expected headers absent from the actual row. Warnings: actual
// headers not present in the schema (sheets may carry extra operator-added
// columns). Operations continue with best-effort column matching either way.
func ValidateHeaders(schema *RecordSchema, header Row) Diagnostics {
	var diags Diagnostics
	hidx := NewHeaderIndex(header)

	for _, col := range schema.Columns {
		if _, ok := hidx.Position(col.Header); !ok {
			diags.Errorf(DiagMissingHeader, "sheet %s: expected column %q not found", schema.Name, col.Header)
		}
	}

	seen := make(map[string]bool, hidx.Len())
	for pos := 0; pos < hidx.Len(); pos++ {
		name := hidx.Name(pos)
		if name == "" {
			continue
		}
		key := foldHeader(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := schema.Column(name); !ok {
			diags.Warnf(DiagExtraHeader, "sheet %s: unexpected column %q", schema.Name, name)
		}
	}

	return diags
}

// ValidateSchema checks a built schema for configuration problems. An
// output-only column with no formula is permitted (a manual placeholder) but
// flagged as a warning so a missing template does not go unnoticed.
func ValidateSchema(schema *RecordSchema) Diagnostics {
	var diags Diagnostics
	for _, col := range schema.Columns {
		if !col.Input && col.Formula == "" {
			diags.Warnf(DiagOutputNoFormula, "sheet %s: output column %q has no formula", schema.Name, col.Header)
		}
	}
	return diags
}

// ValidateRecord checks a record's values against the schema's validation
// rules. Violations are warnings: the sheet-side rule is the enforcing copy,
// and a rejected value still maps.
func ValidateRecord(rec Record, schema *RecordSchema) Diagnostics {
	var diags Diagnostics
	for _, col := range schema.Columns {
		rule := col.Validation
		if rule == nil || len(rule.OneOf) == 0 {
			continue
		}
		v, ok := rec.Values[col.Name].(string)
		if !ok || v == "" {
			continue
		}
		if !containsFold(rule.OneOf, v) {
			diags.Warnf(DiagValidation, "sheet %s: %q is not an allowed value for %q (one of: %s)",
				schema.Name, v, col.Header, strings.Join(rule.OneOf, ", "))
		}
	}
	return diags
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
