package core

// layout.go compiles a RecordSchema into the full sheet layout the store
// boundary turns into provider-specific structural requests: header cells,
// per-column formats and formulas, widths beyond the default, freeze panes,
// protection, and banding.
//
// Formula templates reference columns by header name so they survive schema
// reordering: "{Rate}*{Hours}" compiles to "F{row}*E{row}" once column
// letters are known, and the remaining {row} token is substituted per data
// row by FormulaForRow. A ":col" suffix references the whole column
// instead: "SUM({Value:col})" compiles to "SUM(D:D)".

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// formulaTokenRegex matches {Token} references inside a formula template.
var formulaTokenRegex = regexp.MustCompile(`\{([^{}]+)\}`)

// ColumnLayout is one column of a compiled sheet layout.
type ColumnLayout struct {
	Header     string          `json:"header"`
	Letter     string          `json:"letter"`
	Index      int             `json:"index"`
	Format     FieldType       `json:"format"`
	Pattern    string          `json:"pattern,omitempty"`
	Formula    string          `json:"formula,omitempty"` // compiled, with {row} left for per-row substitution
	Validation *ValidationRule `json:"validation,omitempty"`
	Note       string          `json:"note,omitempty"`
	Width      int             `json:"width,omitempty"` // 0 keeps the sheet default
	Input      bool            `json:"input"`
}

// SheetLayout is the complete structural description of one sheet.
type SheetLayout struct {
	Name       string         `json:"name"`
	Columns    []ColumnLayout `json:"columns"`
	FreezeRows int            `json:"freezeRows"`
	FreezeCols int            `json:"freezeCols"`
	Protect    bool           `json:"protect"`
	Banding    bool           `json:"banding"`
	TabColor   string         `json:"tabColor,omitempty"`
	CellColor  string         `json:"cellColor,omitempty"`
}

// CompileLayout turns a schema into a sheet layout. Column references inside
// formula templates are resolved to column letters; an unresolvable
// reference leaves the formula empty and is reported as an error diagnostic
// so a renamed column cannot silently produce a broken sheet.
func CompileLayout(schema *RecordSchema) (SheetLayout, Diagnostics) {
	var diags Diagnostics

	layout := SheetLayout{
		Name:       schema.Name,
		Columns:    make([]ColumnLayout, len(schema.Columns)),
		FreezeRows: schema.FreezeRows,
		FreezeCols: schema.FreezeCols,
		Protect:    schema.Protect,
		Banding:    schema.Banding,
		TabColor:   schema.TabColor,
		CellColor:  schema.CellColor,
	}

	for i, col := range schema.Columns {
		formula := ""
		if col.Formula != "" {
			compiled, err := compileFormula(col.Formula, schema)
			if err != nil {
				diags.Errorf(DiagSchemaMismatch, "sheet %s: column %q: %v", schema.Name, col.Header, err)
			} else {
				formula = compiled
			}
		}
		layout.Columns[i] = ColumnLayout{
			Header:     col.Header,
			Letter:     col.Letter,
			Index:      col.Index,
			Format:     col.Type,
			Pattern:    col.Pattern,
			Formula:    formula,
			Validation: col.Validation,
			Note:       col.Note,
			Width:      col.Width,
			Input:      col.Input,
		}
	}

	return layout, diags
}

// compileFormula resolves {Header} tokens to "LETTER{row}" cell references
// and {Header:col} tokens to "LETTER:LETTER" whole-column ranges. The {row}
// token itself passes through untouched.
func compileFormula(template string, schema *RecordSchema) (string, error) {
	var badRef string
	out := formulaTokenRegex.ReplaceAllStringFunc(template, func(token string) string {
		name := strings.TrimSpace(token[1 : len(token)-1])
		if strings.EqualFold(name, "row") {
			return "{row}"
		}
		wholeCol := false
		if base, ok := strings.CutSuffix(name, ":col"); ok {
			wholeCol = true
			name = strings.TrimSpace(base)
		}
		col, ok := schema.Column(name)
		if !ok {
			badRef = name
			return token
		}
		if wholeCol {
			return col.Letter + ":" + col.Letter
		}
		return col.Letter + "{row}"
	})
	if badRef != "" {
		return "", fmt.Errorf("formula references unknown column %q", badRef)
	}
	return out, nil
}

// FormulaForRow substitutes the {row} token with a concrete physical row
// number, producing the final cell formula.
func FormulaForRow(formula string, row int) string {
	return strings.ReplaceAll(formula, "{row}", strconv.Itoa(row))
}
