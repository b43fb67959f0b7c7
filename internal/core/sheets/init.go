// Package sheets registers the concrete sheet definitions at init time.
//
// Import this package for its side effects:
//
//	import _ "gridstore/internal/core/sheets"
//
// Each registration builds an immutable schema from the declarative
// fragments in internal/schema and ties it to a sheet key and group.
package sheets

func init() {
	registerWorkSheets()
	registerFinanceSheets()
}
