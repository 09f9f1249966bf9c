package ledger

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"scadenziario/internal/logger"
	"scadenziario/pkg/models"
)

// Result is the outcome of a normalization pass
type Result struct {
	// Items are the normalized records, in input order.
	Items []models.LedgerItem

	// Removed counts null entries dropped from the input.
	Removed int

	// Reconciled counts records whose payment date came from payment_date.
	Reconciled int

	// Coerced counts amounts that were not already finite numbers.
	Coerced int

	// Refreshed counts records whose status changed during the status refresh.
	Refreshed int

	// Malformed is set when the input was not list-like.
	Malformed bool

	// Diagnostics holds human-readable notes about repairs.
	Diagnostics []string
}

// Normalizer repairs loosely typed backend records into LedgerItems
type Normalizer struct {
	calculator *StatusCalculator
	log        zerolog.Logger
}

// NewNormalizer creates a normalizer. When calculator is nil the status
// refresh step is skipped: valid incoming statuses are kept, except that
// an item with a payment date is always completed and an item without one
// never is.
func NewNormalizer(calculator *StatusCalculator) *Normalizer {
	return &Normalizer{
		calculator: calculator,
		log:        logger.WithComponent("record-normalizer"),
	}
}

// WithLogger replaces the normalizer's logger
func (n *Normalizer) WithLogger(log zerolog.Logger) *Normalizer {
	n.log = log
	return n
}

// Normalize accepts decoded JSON ([]interface{} of objects) or slices of
// RawRecord, LedgerItem or map values, and never fails: a non-list input
// yields an empty result, null entries are dropped, everything else is
// repaired. The input is not modified.
func (n *Normalizer) Normalize(input interface{}) Result {
	result := Result{Items: []models.LedgerItem{}}

	records, ok := n.collect(input, &result)
	if !ok {
		result.Malformed = true
		n.diagnose(&result, fmt.Sprintf("expected a list of records, got %T", input))
		n.log.Warn().
			Err(NewLedgerError("Normalize", ErrNotAList, nil)).
			Str("input_type", fmt.Sprintf("%T", input)).
			Msg("Input is not a list, returning no records")
		return result
	}

	if result.Removed > 0 {
		n.diagnose(&result, fmt.Sprintf("removed %d null entries", result.Removed))
		n.log.Warn().Int("removed", result.Removed).Msg("Null entries removed from input")
	}

	for i := range records {
		item := n.normalizeRecord(i, &records[i], &result)
		result.Items = append(result.Items, item)
	}

	if n.calculator != nil {
		n.refreshStatuses(&result)
	} else {
		n.enforcePaymentStatus(&result)
	}

	n.log.Debug().
		Int("items", len(result.Items)).
		Int("removed", result.Removed).
		Int("reconciled", result.Reconciled).
		Int("coerced", result.Coerced).
		Int("refreshed", result.Refreshed).
		Msg("Records normalized")

	return result
}

// collect applies the type guard and null filtering, copying every entry
// into a fresh RawRecord.
func (n *Normalizer) collect(input interface{}, result *Result) ([]RawRecord, bool) {
	var records []RawRecord

	switch v := input.(type) {
	case []interface{}:
		for i, entry := range v {
			record, present := n.entryRecord(i, entry, result)
			if !present {
				result.Removed++
				continue
			}
			records = append(records, record)
		}
	case []map[string]interface{}:
		for _, m := range v {
			if m == nil {
				result.Removed++
				continue
			}
			records = append(records, recordFromMap(m))
		}
	case []*RawRecord:
		for _, r := range v {
			if r == nil {
				result.Removed++
				continue
			}
			records = append(records, copyRecord(r))
		}
	case []RawRecord:
		for i := range v {
			records = append(records, copyRecord(&v[i]))
		}
	case []*models.LedgerItem:
		for _, item := range v {
			if item == nil {
				result.Removed++
				continue
			}
			records = append(records, recordFromItem(item))
		}
	case []models.LedgerItem:
		for i := range v {
			records = append(records, recordFromItem(&v[i]))
		}
	default:
		return n.collectSlice(input, result)
	}

	return records, true
}

// collectSlice handles any other slice or array through reflection. Byte
// slices are raw payloads, not lists, and are rejected.
func (n *Normalizer) collectSlice(input interface{}, result *Result) ([]RawRecord, bool) {
	rv := reflect.ValueOf(input)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}

	var records []RawRecord
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if isNilValue(elem) {
			result.Removed++
			continue
		}
		record, present := n.entryRecord(i, elem.Interface(), result)
		if !present {
			result.Removed++
			continue
		}
		records = append(records, record)
	}
	return records, true
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// entryRecord converts one element of a decoded JSON list. The boolean is
// false for null entries.
func (n *Normalizer) entryRecord(index int, entry interface{}, result *Result) (RawRecord, bool) {
	switch e := entry.(type) {
	case nil:
		return RawRecord{}, false
	case map[string]interface{}:
		if e == nil {
			return RawRecord{}, false
		}
		return recordFromMap(e), true
	case *RawRecord:
		if e == nil {
			return RawRecord{}, false
		}
		return copyRecord(e), true
	case RawRecord:
		return copyRecord(&e), true
	case *models.LedgerItem:
		if e == nil {
			return RawRecord{}, false
		}
		return recordFromItem(e), true
	case models.LedgerItem:
		return recordFromItem(&e), true
	default:
		n.diagnose(result, fmt.Sprintf("entry %d is %T, treated as an empty record", index, entry))
		n.log.Warn().
			Int("index", index).
			Str("entry_type", fmt.Sprintf("%T", entry)).
			Msg("Entry is not an object, treating it as an empty record")
		return RawRecord{}, true
	}
}

// normalizeRecord reconciles the payment date alias and coerces the amount
func (n *Normalizer) normalizeRecord(index int, record *RawRecord, result *Result) models.LedgerItem {
	item := models.LedgerItem{
		ID:          stringify(record.ID),
		Subject:     record.Subject,
		Description: record.Description,
		Causale:     record.Causale,
		Date:        record.Date,
	}

	paymentDate, fromAlias := record.CanonicalPaymentDate()
	item.PaymentDate = paymentDate
	if fromAlias {
		result.Reconciled++
	}

	amount, err := ParseAmount(record.Amount)
	if err != nil {
		amount = 0
	}
	if err != nil || !isNumeric(record.Amount) {
		result.Coerced++
		if err != nil {
			n.diagnose(result, fmt.Sprintf("record %d (id %q): amount %v set to 0", index, item.ID, record.Amount))
			n.log.Warn().
				Err(err).
				Int("index", index).
				Str("id", item.ID).
				Msg("Invalid amount, using 0")
		}
	}
	item.Amount = amount

	if status := models.Status(record.Status); status.IsValid() {
		item.Status = status
	}

	return item
}

// refreshStatuses recomputes every status, writing only those that changed
func (n *Normalizer) refreshStatuses(result *Result) {
	for i := range result.Items {
		item := &result.Items[i]
		status := n.calculator.ItemStatus(item)
		if item.Status != status {
			item.Status = status
			result.Refreshed++
		}
	}
}

// enforcePaymentStatus keeps completed in step with the payment date when
// no calculator is available
func (n *Normalizer) enforcePaymentStatus(result *Result) {
	for i := range result.Items {
		item := &result.Items[i]
		switch {
		case item.PaymentDate != nil && item.Status != models.StatusCompleted:
			item.Status = models.StatusCompleted
		case item.PaymentDate == nil && item.Status == models.StatusCompleted:
			item.Status = ""
		}
	}
}

func (n *Normalizer) diagnose(result *Result, msg string) {
	result.Diagnostics = append(result.Diagnostics, msg)
}

// isNumeric reports whether value already has a numeric type
func isNumeric(value interface{}) bool {
	switch value.(type) {
	case float64, *float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return true
	}
	return false
}

func copyRecord(r *RawRecord) RawRecord {
	c := *r
	if r.PaymentDate != nil {
		paid := *r.PaymentDate
		c.PaymentDate = &paid
	}
	if r.PaymentDateAlias != nil {
		paid := *r.PaymentDateAlias
		c.PaymentDateAlias = &paid
	}
	return c
}
