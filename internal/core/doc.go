// Package core treats a sheet as a schema-described, row-oriented store for
// domain records. It contains all mapping and reconciliation logic,
// independent of any transport or UI, and can be used by web handlers, CLI
// tools, or tests without modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Sheet Definitions: registered via the registry, each sheet ties a key
//     and display metadata to an immutable [RecordSchema].
//   - Schema Building: [BuildSchema] assembles a schema from declarative
//     field fragments, base fragments first, resolving explicit column
//     orders, format patterns, and column letters.
//   - Row Mapping: [MapFromRows] and [MapToRows] convert between raw grid
//     rows and typed [Record] values by header name, so a manually
//     reordered sheet keeps working.
//   - Reconciliation: [Reconcile] turns a tagged record set into the
//     minimal [Mutation] (appends, per-row updates, descending deletes) to
//     replay against the store.
//   - Layout Compilation: [CompileLayout] produces the structural layout
//     (formats, formulas, freeze panes, protection) used to provision a
//     sheet.
//   - Service: the main entry point, orchestrating fetch, push, validate,
//     and provision against a [Store].
//
// # Sheet Registry
//
// Sheets are registered at init time using [Register]:
//
//	core.Register(core.SheetDefinition{
//	    Info:   core.SheetInfo{Key: "shifts", Group: "Work", Label: "Shifts"},
//	    Schema: core.MustBuildSchema(core.SchemaSpec{...}),
//	})
//
// # Error Handling
//
// Nothing in this package returns an error for data-shape problems. A
// malformed cell yields the field's default value, schema drift and stale
// row references surface as [Diagnostic] entries, and a transport failure
// degrades to an empty result. Errors are reserved for caller misuse, such
// as an unregistered sheet key or a duplicate header at build time.
package core
