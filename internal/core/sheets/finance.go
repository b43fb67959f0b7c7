package sheets

import (
	"gridstore/internal/core"
	"gridstore/internal/schema"
)

func registerFinanceSheets() {
	core.Register(core.SheetDefinition{
		Info: core.SheetInfo{
			Key:   "expenses",
			Group: "Finance",
			Label: "Expenses",
		},
		Schema: core.MustBuildSchema(core.SchemaSpec{
			Name: "Expenses",
			Fragments: [][]core.FieldSchema{
				schema.DatedBase,
				schema.ExpenseFields,
				schema.NotesTail,
			},
			FreezeRows: 1,
			Banding:    true,
			TabColor:   "#e8710a",
		}),
	})

	core.Register(core.SheetDefinition{
		Info: core.SheetInfo{
			Key:   "positions",
			Group: "Finance",
			Label: "Stock Positions",
		},
		Schema: core.MustBuildSchema(core.SchemaSpec{
			Name: "Positions",
			Fragments: [][]core.FieldSchema{
				schema.PositionFields,
			},
			FreezeRows: 1,
			FreezeCols: 1,
			Protect:    true,
			CellColor:  "#f1f3f4",
		}),
	})
}
