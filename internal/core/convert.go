package core

// convert.go converts raw sheet cells to and from typed record values.
//
// It handles the messy reality of spreadsheet data:
//   - Numbers arriving as text with currency symbols, thousand separators,
//     percent signs, or accounting-style parentheses
//   - Dates arriving either as serial day numbers or as text in many formats
//   - Booleans as yes/no, true/false, 1/0
//   - Times and durations as fractions of a 24-hour day
//
// A conversion failure never raises to the caller. It yields the field
// type's zero value (0, 0.0, "", false, or nil for nullable fields) so one
// malformed cell cannot abort mapping the rest of the sheet.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day zero of the spreadsheet serial date system: two days
// before 1900-01-01, matching the host engine's 1900 leap-year-bug offset.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// numericRegex validates that a string is a valid numeric format after
// cleanup. Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// nonDigitRegex strips everything but digits from phone numbers.
var nonDigitRegex = regexp.MustCompile(`\D`)

// Date layouts tried by the text date parser, most common first.
var dateLayouts = []string{
	"2006-01-02", "2006/01/02", "2006.01.02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006",
	"Jan 2, 2006", "2 Jan 2006",
	"20060102",
}

// Datetime layouts tried before falling back to date-only layouts.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// Time-of-day layouts for clock values.
var clockLayouts = []string{
	"15:04:05", "15:04", "3:04:05 PM", "3:04 PM", "3:04PM",
}

// FromCell converts a single raw cell value to the typed representation for
// the field. The returned dynamic type depends on the field type:
//
//	String/Email/URL/Phone -> string
//	Integer                -> int64
//	Number/Currency        -> float64
//	Percentage             -> float64 (fraction: "15%" reads as 0.15)
//	Bool                   -> bool
//	Date/DateTime          -> time.Time (UTC)
//	TimeOfDay/Duration     -> time.Duration (rounded to the minute)
//
// Blank or unparsable cells yield the type default, or nil when the field is
// Nullable.
func FromCell(raw Cell, f FieldSchema) any {
	switch f.Type {
	case FieldString, FieldEmail, FieldURL, FieldPhone:
		return cellText(raw)

	case FieldInteger:
		n, ok := cellNumber(raw)
		if !ok {
			return integerDefault(f)
		}
		return int64(math.Round(n))

	case FieldNumber, FieldCurrency:
		n, ok := cellNumber(raw)
		if !ok {
			return numberDefault(f)
		}
		return n

	case FieldPercentage:
		n, ok := cellNumber(raw)
		if !ok {
			return numberDefault(f)
		}
		return n / 100

	case FieldBool:
		return cellBool(raw)

	case FieldDate, FieldDateTime:
		t, ok := cellTime(raw)
		if !ok {
			return timeDefault(f)
		}
		if f.Type == FieldDate {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return t

	case FieldTimeOfDay, FieldDuration:
		d, ok := cellDuration(raw)
		if !ok {
			if f.Nullable {
				return nil
			}
			return time.Duration(0)
		}
		return d

	default:
		return cellText(raw)
	}
}

// ToCell converts a typed record value back to a raw cell for the field.
// It accepts the types FromCell produces plus the common widened forms
// (int, float64 for integer fields). A nil value or a type mismatch yields
// a nil cell, leaving the sheet cell empty.
func ToCell(v any, f FieldSchema) Cell {
	if v == nil {
		return nil
	}

	switch f.Type {
	case FieldString, FieldEmail, FieldURL:
		s, ok := v.(string)
		if !ok {
			return nil
		}
		return s

	case FieldPhone:
		s, ok := v.(string)
		if !ok {
			return nil
		}
		digits := nonDigitRegex.ReplaceAllString(s, "")
		if digits == "" {
			return nil
		}
		return digits

	case FieldInteger:
		switch n := v.(type) {
		case int64:
			return float64(n)
		case int:
			return float64(n)
		case float64:
			return math.Round(n)
		}
		return nil

	case FieldNumber, FieldCurrency:
		n, ok := toFloat(v)
		if !ok {
			return nil
		}
		return n

	case FieldPercentage:
		n, ok := toFloat(v)
		if !ok {
			return nil
		}
		return n * 100

	case FieldBool:
		b, ok := v.(bool)
		if !ok {
			return nil
		}
		return b

	case FieldDate, FieldDateTime:
		t, ok := v.(time.Time)
		if !ok || t.IsZero() {
			return nil
		}
		return serialFromTime(t)

	case FieldTimeOfDay, FieldDuration:
		d, ok := v.(time.Duration)
		if !ok {
			return nil
		}
		return fractionFromDuration(d)

	default:
		return nil
	}
}

// ----------------------------------------------------------------------------
// Serial date arithmetic
// ----------------------------------------------------------------------------

// serialFromTime converts a time to a spreadsheet serial day number.
func serialFromTime(t time.Time) float64 {
	return t.UTC().Sub(serialEpoch).Hours() / 24
}

// timeFromSerial converts a serial day number to a UTC time, rounded to the
// nearest second to absorb float error.
func timeFromSerial(serial float64) time.Time {
	seconds := math.Round(serial * 24 * 3600)
	return serialEpoch.Add(time.Duration(seconds) * time.Second).UTC()
}

// fractionFromDuration converts a duration to a fraction of a 24-hour day.
func fractionFromDuration(d time.Duration) float64 {
	return d.Hours() / 24
}

// durationFromFraction converts a fraction of a 24-hour day back to a
// duration, rounded to the minute so clock values round-trip exactly.
func durationFromFraction(frac float64) time.Duration {
	return time.Duration(math.Round(frac*24*60)) * time.Minute
}

// ----------------------------------------------------------------------------
// Cell coercion helpers
// ----------------------------------------------------------------------------

// cellText extracts a trimmed string from any raw cell. Nil and blank cells
// become "" (the empty value, distinct from "missing", which is the
// mapper's concern).
func cellText(raw Cell) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// cellNumber extracts a float from a raw cell, cleaning currency symbols,
// thousand separators, percent signs, and accounting parentheses from text.
// Returns false for blank or unparsable cells.
func cellNumber(raw Cell) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		return parseNumber(v)
	default:
		return 0, false
	}
}

// parseNumber parses numeric text after stripping formatting artifacts.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Accounting format "(123.45)" means negative
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// cellBool extracts a bool from a raw cell. Accepts true/false, yes/no,
// t/f, y/n, 1/0; anything else is false.
func cellBool(raw Cell) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "yes", "y", "1":
			return true
		}
	}
	return false
}

// cellTime extracts a UTC time from a raw cell: serial day numbers for
// numeric cells, layout parsing for text cells.
func cellTime(raw Cell) (time.Time, bool) {
	switch v := raw.(type) {
	case float64:
		return timeFromSerial(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// cellDuration extracts a duration from a raw cell: fraction-of-a-day for
// numeric cells, clock layouts ("7:30", "15:04:05") or Go duration syntax
// ("7h30m") for text cells. Results are rounded to the minute.
func cellDuration(raw Cell) (time.Duration, bool) {
	switch v := raw.(type) {
	case float64:
		return durationFromFraction(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		for _, layout := range clockLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
			}
		}
		if d, err := time.ParseDuration(s); err == nil {
			return d.Round(time.Minute), true
		}
	}
	return 0, false
}

// toFloat widens numeric record values for the write path.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// ----------------------------------------------------------------------------
// Type defaults
// ----------------------------------------------------------------------------

func integerDefault(f FieldSchema) any {
	if f.Nullable {
		return nil
	}
	return int64(0)
}

func numberDefault(f FieldSchema) any {
	if f.Nullable {
		return nil
	}
	return float64(0)
}

func timeDefault(f FieldSchema) any {
	if f.Nullable {
		return nil
	}
	return time.Time{}
}

// Default returns the typed zero value a blank or unparsable cell maps to
// for the given field.
func Default(f FieldSchema) any {
	switch f.Type {
	case FieldString, FieldEmail, FieldURL, FieldPhone:
		return ""
	case FieldInteger:
		return integerDefault(f)
	case FieldNumber, FieldCurrency, FieldPercentage:
		return numberDefault(f)
	case FieldBool:
		return false
	case FieldDate, FieldDateTime:
		return timeDefault(f)
	case FieldTimeOfDay, FieldDuration:
		if f.Nullable {
			return nil
		}
		return time.Duration(0)
	default:
		return nil
	}
}
