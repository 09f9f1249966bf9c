package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. Date-only layouts are interpreted in the
// caller's location; layouts with an offset keep theirs.
var dateLayouts = []string{
	"2006-01-02",          // ISO date, what the backend sends
	time.RFC3339Nano,      // ISO timestamp
	"2006-01-02T15:04:05", // ISO timestamp without offset
	"2006-01-02 15:04:05", // SQL datetime
	"02/01/2006",          // DD/MM/YYYY
	"2/1/2006",            // D/M/YYYY
	"02.01.2006",          // DD.MM.YYYY
}

// ParseDate parses a ledger date and returns it in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	const op = "ParseDate"

	if loc == nil {
		loc = time.Local
	}

	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return time.Time{}, NewLedgerError(op, ErrEmptyDate, nil)
	}

	for _, layout := range dateLayouts {
		if date, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return date.In(loc), nil
		}
	}

	return time.Time{}, NewLedgerError(op, ErrInvalidDate, value)
}

// startOfDay truncates t to midnight of its calendar day in loc
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseAmount reads an amount of any JSON-ish kind as a finite float64.
// Strings are parsed locale-invariant, with '.' as the decimal separator.
func ParseAmount(value interface{}) (float64, error) {
	const op = "ParseAmount"

	var amount float64
	switch v := value.(type) {
	case nil:
		return 0, NewLedgerError(op, ErrInvalidAmount, nil)
	case float64:
		amount = v
	case *float64:
		if v == nil {
			return 0, NewLedgerError(op, ErrInvalidAmount, nil)
		}
		amount = *v
	case float32:
		amount = float64(v)
	case int:
		amount = float64(v)
	case int32:
		amount = float64(v)
	case int64:
		amount = float64(v)
	case uint:
		amount = float64(v)
	case uint32:
		amount = float64(v)
	case uint64:
		amount = float64(v)
	case json.Number:
		parsed, err := parseDecimalString(v.String())
		if err != nil {
			return 0, NewLedgerError(op, err, v)
		}
		amount = parsed
	case string:
		parsed, err := parseDecimalString(v)
		if err != nil {
			return 0, NewLedgerError(op, err, v)
		}
		amount = parsed
	default:
		return 0, NewLedgerError(op, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, value), value)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, NewLedgerError(op, ErrInvalidAmount, value)
	}

	return amount, nil
}

// parseDecimalString parses a base-10 number with '.' as the decimal
// separator. Hexadecimal floats are rejected.
func parseDecimalString(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	digits := strings.TrimLeft(cleaned, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, fmt.Errorf("%w: hexadecimal notation", ErrInvalidAmount)
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return parsed, nil
}

// stringify renders an identifier-like JSON value as a string
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
