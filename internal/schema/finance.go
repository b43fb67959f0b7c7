package schema

import "gridstore/internal/core"

// ExpenseCategories are the allowed values for the expense category column.
// The rule is enforced sheet-side via data validation and reported as a
// warning diagnostic when violated in a pushed record.
var ExpenseCategories = []string{
	"Travel", "Meals", "Lodging", "Supplies", "Software", "Other",
}

// ExpenseFields describes a single reimbursable expense.
var ExpenseFields = []core.FieldSchema{
	{Header: "Category", Type: core.FieldString, Input: true,
		Validation: &core.ValidationRule{
			OneOf: ExpenseCategories,
			Help:  "Pick a category from the list",
		}},
	{Header: "Amount", Type: core.FieldCurrency, Input: true},
	{Header: "VAT", Type: core.FieldPercentage, Input: true, Nullable: true,
		Note: "Leave blank when VAT does not apply"},
	{Header: "Receipt", Type: core.FieldURL, Input: true, Width: 200},
	{Header: "Vendor Phone", Type: core.FieldPhone, Input: true},
}

// PositionFields describes one stock position. Symbol is the key column;
// market value and portfolio weight are derived.
var PositionFields = []core.FieldSchema{
	{Header: "Symbol", Type: core.FieldString, Input: true, Width: 90,
		Note: "Key column. Rows without a symbol are ignored."},
	{Header: "Quantity", Type: core.FieldNumber, Input: true, Pattern: "0.####"},
	{Header: "Price", Type: core.FieldCurrency, Input: true},
	{Header: "Value", Type: core.FieldCurrency,
		Formula: "={Quantity}*{Price}"},
	{Header: "Weight", Type: core.FieldPercentage,
		Formula: "={Value}/SUM({Value:col})"},
	{Header: "Updated", Type: core.FieldDateTime, Input: true, Nullable: true},
}
