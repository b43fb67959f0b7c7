package schema

import "gridstore/internal/core"

// ShiftFields describes a work shift: clock times in and out, an unpaid
// break, and derived hours and pay. The derived columns are output-only;
// their formulas reference sibling columns by header so they survive
// column reordering.
var ShiftFields = []core.FieldSchema{
	{Header: "Start", Type: core.FieldTimeOfDay, Input: true},
	{Header: "End", Type: core.FieldTimeOfDay, Input: true},
	{Header: "Break", Type: core.FieldDuration, Input: true,
		Note: "Unpaid break, entered as h:mm"},
	{Header: "Hours", Type: core.FieldDuration,
		Formula: "=({End}-{Start})-{Break}"},
	{Header: "Rate", Type: core.FieldCurrency, Input: true},
	{Header: "Pay", Type: core.FieldCurrency,
		Formula: "={Hours}*24*{Rate}"},
}

// TripFields describes a mileage trip with a derived reimbursement amount.
var TripFields = []core.FieldSchema{
	{Header: "From", Type: core.FieldString, Input: true, Width: 160},
	{Header: "To", Type: core.FieldString, Input: true, Width: 160},
	{Header: "Distance", Type: core.FieldNumber, Input: true, Pattern: "0.0",
		Note: "One-way distance in km"},
	{Header: "Round Trip", Type: core.FieldBool, Input: true},
	{Header: "Rate", Name: "rate", Type: core.FieldCurrency, Input: true, Pattern: "$0.000",
		Note: "Reimbursement rate per km"},
	{Header: "Reimbursement", Type: core.FieldCurrency,
		Formula: "={Distance}*IF({Round Trip},2,1)*{Rate}"},
}
