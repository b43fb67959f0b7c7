package sheets

import (
	"testing"

	"gridstore/internal/core"
)

// The package init has run by the time tests execute, so these exercise the
// real registrations.

func TestAllSheetsRegistered(t *testing.T) {
	want := []string{"expenses", "positions", "shifts", "trips"}
	if got := core.SheetCount(); got != len(want) {
		t.Fatalf("SheetCount() = %d, want %d", got, len(want))
	}
	for _, key := range want {
		if _, ok := core.Get(key); !ok {
			t.Errorf("sheet %q not registered", key)
		}
	}

	groups := core.Groups()
	if len(groups) != 2 || groups[0] != "Finance" || groups[1] != "Work" {
		t.Errorf("Groups() = %v, want [Finance Work]", groups)
	}
}

func TestShiftsLayoutCompiles(t *testing.T) {
	def, ok := core.Get("shifts")
	if !ok {
		t.Fatal("shifts not registered")
	}

	layout, diags := core.CompileLayout(def.Schema)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	// Date leads (key column), Notes trails via its order override.
	headers := def.Schema.Headers()
	if headers[0] != "Date" {
		t.Errorf("headers[0] = %q, want Date", headers[0])
	}
	if headers[len(headers)-1] != "Notes" {
		t.Errorf("last header = %q, want Notes", headers[len(headers)-1])
	}

	col := layout.Columns[4] // Hours
	if col.Header != "Hours" {
		t.Fatalf("Columns[4].Header = %q, want Hours", col.Header)
	}
	if col.Formula != "=(C{row}-B{row})-D{row}" {
		t.Errorf("Hours formula = %q", col.Formula)
	}

	pay := layout.Columns[6]
	if pay.Header != "Pay" || pay.Formula != "=E{row}*24*F{row}" {
		t.Errorf("Pay column = %q with formula %q", pay.Header, pay.Formula)
	}
}

func TestPositionsWeightFormula(t *testing.T) {
	def, ok := core.Get("positions")
	if !ok {
		t.Fatal("positions not registered")
	}

	layout, diags := core.CompileLayout(def.Schema)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	// The portfolio total is a whole-column range, so it keeps pointing at
	// Value even if the schema reorders.
	weight := layout.Columns[4]
	if weight.Header != "Weight" {
		t.Fatalf("Columns[4].Header = %q, want Weight", weight.Header)
	}
	if weight.Formula != "=D{row}/SUM(D:D)" {
		t.Errorf("Weight formula = %q, want =D{row}/SUM(D:D)", weight.Formula)
	}
}

func TestEverySchemaIsClean(t *testing.T) {
	for _, def := range core.All() {
		def := def
		t.Run(def.Info.Key, func(t *testing.T) {
			_, diags := core.CompileLayout(def.Schema)
			if diags.HasErrors() {
				t.Errorf("layout diagnostics: %v", diags)
			}
			// Every output column carries a formula.
			if d := core.ValidateSchema(def.Schema); len(d.Warnings()) != 0 {
				t.Errorf("schema warnings: %v", d)
			}
		})
	}
}

func TestExpensesValidationRule(t *testing.T) {
	def, ok := core.Get("expenses")
	if !ok {
		t.Fatal("expenses not registered")
	}

	col, ok := def.Schema.Column("Category")
	if !ok {
		t.Fatal("Category column missing")
	}
	if col.Validation == nil || len(col.Validation.OneOf) == 0 {
		t.Fatal("Category carries no validation rule")
	}

	rec := core.NewRecord().Set("category", "Blackjack")
	if d := core.ValidateRecord(rec, def.Schema); len(d.Warnings()) != 1 {
		t.Errorf("warnings = %v, want one", d)
	}
}
