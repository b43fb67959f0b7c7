package sheets

import (
	"gridstore/internal/core"
	"gridstore/internal/schema"
)

func registerWorkSheets() {
	core.Register(core.SheetDefinition{
		Info: core.SheetInfo{
			Key:   "shifts",
			Group: "Work",
			Label: "Work Shifts",
		},
		Schema: core.MustBuildSchema(core.SchemaSpec{
			Name: "Shifts",
			Fragments: [][]core.FieldSchema{
				schema.DatedBase,
				schema.ShiftFields,
				schema.NotesTail,
			},
			FreezeRows: 1,
			FreezeCols: 1,
			Protect:    true,
			Banding:    true,
			TabColor:   "#1a73e8",
		}),
	})

	core.Register(core.SheetDefinition{
		Info: core.SheetInfo{
			Key:   "trips",
			Group: "Work",
			Label: "Mileage Trips",
		},
		Schema: core.MustBuildSchema(core.SchemaSpec{
			Name: "Trips",
			Fragments: [][]core.FieldSchema{
				schema.DatedBase,
				schema.TripFields,
				schema.NotesTail,
			},
			FreezeRows: 1,
			Banding:    true,
			TabColor:   "#188038",
		}),
	})
}
