package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"scadenziario/pkg/models"
)

func strPtr(s string) *string { return &s }

func newTestNormalizer(t *testing.T, withStatus bool) *Normalizer {
	t.Helper()
	if !withStatus {
		return NewNormalizer(nil).WithLogger(zerolog.Nop())
	}
	loc := rome(t)
	calc := NewStatusCalculator(FixedClock(time.Date(2025, 6, 15, 9, 0, 0, 0, loc)), loc).WithLogger(zerolog.Nop())
	return NewNormalizer(calc).WithLogger(zerolog.Nop())
}

func TestNormalize_RentScenario(t *testing.T) {
	n := newTestNormalizer(t, true)

	result := n.Normalize([]interface{}{
		map[string]interface{}{
			"id":           1.0,
			"subject":      "Rent",
			"amount":       "500.00",
			"payment_date": "2024-01-01",
		},
	})

	require.Len(t, result.Items, 1)
	assert.Equal(t, models.LedgerItem{
		ID:          "1",
		Subject:     "Rent",
		Amount:      500.0,
		PaymentDate: strPtr("2024-01-01"),
		Status:      models.StatusCompleted,
	}, result.Items[0])
	assert.Equal(t, 1, result.Reconciled)
	assert.Equal(t, 1, result.Coerced)
	assert.Equal(t, 1, result.Refreshed)
}

func TestNormalize_NullEntries(t *testing.T) {
	n := newTestNormalizer(t, false)

	result := n.Normalize([]interface{}{nil, map[string]interface{}{"id": 2.0, "amount": "abc"}, nil})

	require.Len(t, result.Items, 1)
	assert.Equal(t, "2", result.Items[0].ID)
	assert.Equal(t, 0.0, result.Items[0].Amount)
	assert.Equal(t, 2, result.Removed)
	assert.False(t, result.Malformed)
	assert.Contains(t, result.Diagnostics, "removed 2 null entries")
}

func TestNormalize_TypedNullEntries(t *testing.T) {
	n := newTestNormalizer(t, false)

	records := n.Normalize([]*RawRecord{nil, {ID: "a"}, nil, {ID: "b"}})
	assert.Equal(t, 2, records.Removed)
	require.Len(t, records.Items, 2)
	assert.Equal(t, "a", records.Items[0].ID)
	assert.Equal(t, "b", records.Items[1].ID)

	items := n.Normalize([]*models.LedgerItem{{ID: "x"}, nil})
	assert.Equal(t, 1, items.Removed)
	require.Len(t, items.Items, 1)

	maps := n.Normalize([]map[string]interface{}{nil, {"id": "m"}})
	assert.Equal(t, 1, maps.Removed)
	require.Len(t, maps.Items, 1)

	mixed := n.Normalize([]interface{}{(*RawRecord)(nil), (*models.LedgerItem)(nil), RawRecord{ID: "r"}})
	assert.Equal(t, 2, mixed.Removed)
	require.Len(t, mixed.Items, 1)
}

func TestNormalize_OutputLengthMatchesNonNullCount(t *testing.T) {
	n := newTestNormalizer(t, false)

	input := []interface{}{}
	nonNull := 0
	for i := 0; i < 50; i++ {
		if i%3 == 0 {
			input = append(input, nil)
			continue
		}
		input = append(input, map[string]interface{}{"id": float64(i)})
		nonNull++
	}

	result := n.Normalize(input)
	assert.Len(t, result.Items, nonNull)
	assert.Equal(t, len(input)-nonNull, result.Removed)

	// order is preserved
	previous := -1.0
	for _, item := range result.Items {
		var id float64
		require.NoError(t, json.Unmarshal([]byte(item.ID), &id))
		assert.Greater(t, id, previous)
		previous = id
	}
}

func TestNormalize_MalformedInput(t *testing.T) {
	n := newTestNormalizer(t, true)

	inputs := []interface{}{
		nil,
		"[]",
		42.0,
		map[string]interface{}{"data": []interface{}{}},
		[]byte(`[{"id": 1}]`),
		json.RawMessage(`[]`),
	}

	for _, input := range inputs {
		result := n.Normalize(input)
		assert.NotNil(t, result.Items, "%T", input)
		assert.Empty(t, result.Items, "%T", input)
		assert.True(t, result.Malformed, "%T", input)
		assert.Len(t, result.Diagnostics, 1, "%T", input)
	}
}

func TestNormalize_NonObjectEntry(t *testing.T) {
	n := newTestNormalizer(t, false)

	result := n.Normalize([]interface{}{42.0, "text"})

	require.Len(t, result.Items, 2)
	assert.Equal(t, models.LedgerItem{}, result.Items[0])
	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, 2, result.Coerced)
}

func TestNormalize_AmountCoercion(t *testing.T) {
	n := newTestNormalizer(t, false)

	tests := []struct {
		name    string
		amount  interface{}
		want    float64
		coerced bool
	}{
		{"numeric string", "42.5", 42.5, true},
		{"padded string", " 7 ", 7, true},
		{"negative string", "-12.30", -12.3, true},
		{"unparseable string", "abc", 0, true},
		{"comma decimal", "1,5", 0, true},
		{"NaN string", "NaN", 0, true},
		{"infinity string", "Inf", 0, true},
		{"overflow", "1e400", 0, true},
		{"hex float", "0x1p-2", 0, true},
		{"null", nil, 0, true},
		{"bool", true, 0, true},
		{"float", 19.99, 19.99, false},
		{"zero", 0.0, 0, false},
		{"int", 3, 3, false},
		{"json number", json.Number("12.30"), 12.3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Normalize([]interface{}{map[string]interface{}{"amount": tt.amount}})
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.want, result.Items[0].Amount)
			assert.Equal(t, tt.coerced, result.Coerced == 1)
		})
	}
}

func TestNormalize_MissingAmount(t *testing.T) {
	n := newTestNormalizer(t, false)

	result := n.Normalize([]interface{}{map[string]interface{}{"id": "1"}})

	require.Len(t, result.Items, 1)
	assert.Equal(t, 0.0, result.Items[0].Amount)
}

func TestNormalize_PaymentDateReconciliation(t *testing.T) {
	n := newTestNormalizer(t, false)

	tests := []struct {
		name       string
		record     map[string]interface{}
		want       *string
		reconciled int
	}{
		{"alias only", map[string]interface{}{"payment_date": "2024-01-01"}, strPtr("2024-01-01"), 1},
		{"canonical only", map[string]interface{}{"paymentDate": "2024-02-01"}, strPtr("2024-02-01"), 0},
		{"both disagree", map[string]interface{}{"paymentDate": "2024-02-01", "payment_date": "2024-01-01"}, strPtr("2024-02-01"), 0},
		{"canonical null", map[string]interface{}{"paymentDate": nil, "payment_date": "2024-01-01"}, strPtr("2024-01-01"), 1},
		{"canonical blank", map[string]interface{}{"paymentDate": "", "payment_date": "2024-01-01"}, strPtr("2024-01-01"), 1},
		{"neither", map[string]interface{}{}, nil, 0},
		{"both null", map[string]interface{}{"paymentDate": nil, "payment_date": nil}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Normalize([]interface{}{tt.record})
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.want, result.Items[0].PaymentDate)
			assert.Equal(t, tt.reconciled, result.Reconciled)
		})
	}
}

func TestNormalize_StatusRefresh(t *testing.T) {
	n := newTestNormalizer(t, true)

	input := []interface{}{
		map[string]interface{}{"id": "paid", "date": "2025-06-01", "paymentDate": "2025-06-02", "status": "overdue"},
		map[string]interface{}{"id": "late", "date": "2025-06-01", "status": "overdue"},
		map[string]interface{}{"id": "soon", "date": "2025-06-20"},
		map[string]interface{}{"id": "later", "date": "2025-09-01", "status": "bogus"},
		map[string]interface{}{"id": "nodate"},
	}

	first := n.Normalize(input)
	require.Len(t, first.Items, 5)
	assert.Equal(t, models.StatusCompleted, first.Items[0].Status)
	assert.Equal(t, models.StatusOverdue, first.Items[1].Status)
	assert.Equal(t, models.StatusUpcoming, first.Items[2].Status)
	assert.Equal(t, models.StatusFuture, first.Items[3].Status)
	assert.Equal(t, models.StatusFuture, first.Items[4].Status)
	assert.Equal(t, 4, first.Refreshed)

	second := n.Normalize(first.Items)
	assert.Equal(t, 0, second.Refreshed)

	for _, item := range first.Items {
		assert.Equal(t, item.PaymentDate != nil, item.Status == models.StatusCompleted, item.ID)
	}
}

func TestNormalize_KeepsValidStatusWithoutCalculator(t *testing.T) {
	n := newTestNormalizer(t, false)

	result := n.Normalize([]interface{}{
		map[string]interface{}{"status": "upcoming"},
		map[string]interface{}{"status": "unknown"},
	})

	require.Len(t, result.Items, 2)
	assert.Equal(t, models.StatusUpcoming, result.Items[0].Status)
	assert.Equal(t, models.Status(""), result.Items[1].Status)
}

func TestNormalize_PaymentStatusWithoutCalculator(t *testing.T) {
	n := newTestNormalizer(t, false)

	result := n.Normalize([]interface{}{
		map[string]interface{}{"id": "a", "paymentDate": "2024-01-01", "status": "overdue"},
		map[string]interface{}{"id": "b", "status": "completed"},
		map[string]interface{}{"id": "c", "payment_date": "2024-02-01"},
		map[string]interface{}{"id": "d", "status": "future"},
	})

	require.Len(t, result.Items, 4)
	assert.Equal(t, models.StatusCompleted, result.Items[0].Status)
	assert.Equal(t, models.Status(""), result.Items[1].Status)
	assert.Equal(t, models.StatusCompleted, result.Items[2].Status)
	assert.Equal(t, models.StatusFuture, result.Items[3].Status)

	for _, item := range result.Items {
		assert.Equal(t, item.PaymentDate != nil, item.Status == models.StatusCompleted, item.ID)
	}
}

func TestNormalize_OtherSlices(t *testing.T) {
	n := newTestNormalizer(t, false)

	strs := n.Normalize([]string{"a", "b"})
	assert.False(t, strs.Malformed)
	require.Len(t, strs.Items, 2)
	assert.Equal(t, models.LedgerItem{}, strs.Items[0])

	floats := n.Normalize([]float64{1, 2, 3})
	assert.Len(t, floats.Items, 3)

	array := n.Normalize([2]interface{}{nil, map[string]interface{}{"id": "x"}})
	assert.Equal(t, 1, array.Removed)
	require.Len(t, array.Items, 1)
	assert.Equal(t, "x", array.Items[0].ID)

	one := 1
	pointers := n.Normalize([]*int{nil, &one})
	assert.Equal(t, 1, pointers.Removed)
	assert.Len(t, pointers.Items, 1)

	nested := n.Normalize([]map[string]string{{"id": "ignored"}, nil})
	assert.Equal(t, 1, nested.Removed)
	assert.Len(t, nested.Items, 1)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := map[string]interface{}{
		"well formed": []interface{}{
			map[string]interface{}{"id": 1.0, "subject": "Rent", "date": "2025-07-01", "amount": 500.0},
			map[string]interface{}{"id": 2.0, "subject": "Luce", "date": "2025-06-01", "amount": "80.40", "payment_date": "2025-06-03"},
		},
		"malformed": []interface{}{
			nil,
			map[string]interface{}{"id": "3", "amount": "abc", "paymentDate": "", "payment_date": "2025-01-01"},
			42.0,
			map[string]interface{}{"amount": json.Number("1e2"), "status": "nonsense"},
		},
		"not a list": "oops",
	}

	for _, withStatus := range []bool{false, true} {
		n := newTestNormalizer(t, withStatus)
		for name, input := range inputs {
			first := n.Normalize(input)
			second := n.Normalize(first.Items)
			assert.Equal(t, first.Items, second.Items, "%s (status refresh %v)", name, withStatus)

			// Also through the wire format the backend uses.
			raw, err := json.Marshal(first.Items)
			require.NoError(t, err)
			var decoded interface{}
			require.NoError(t, json.Unmarshal(raw, &decoded))
			third := n.Normalize(decoded)
			assert.Equal(t, first.Items, third.Items, "%s via JSON (status refresh %v)", name, withStatus)
		}
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	n := newTestNormalizer(t, true)

	record := map[string]interface{}{"id": 1.0, "amount": "10", "payment_date": "2024-01-01", "status": "overdue"}
	input := []interface{}{record, nil}

	result := n.Normalize(input)

	assert.Equal(t, map[string]interface{}{"id": 1.0, "amount": "10", "payment_date": "2024-01-01", "status": "overdue"}, record)
	assert.Len(t, input, 2)
	require.Len(t, result.Items, 1)

	paid := "2024-03-01"
	raw := []*RawRecord{{ID: "r", PaymentDate: &paid, Amount: "5"}}
	out := n.Normalize(raw)
	require.Len(t, out.Items, 1)
	*out.Items[0].PaymentDate = "changed"
	assert.Equal(t, "2024-03-01", paid)
	assert.Equal(t, "5", raw[0].Amount)

	items := []models.LedgerItem{{ID: "i", PaymentDate: strPtr("2024-04-01"), Status: models.StatusOverdue}}
	again := n.Normalize(items)
	require.Len(t, again.Items, 1)
	*again.Items[0].PaymentDate = "changed"
	assert.Equal(t, "2024-04-01", *items[0].PaymentDate)
	assert.Equal(t, models.StatusOverdue, items[0].Status)
}

func TestNormalize_StringifiesFields(t *testing.T) {
	n := newTestNormalizer(t, false)

	result := n.Normalize([]interface{}{map[string]interface{}{
		"id":          json.Number("17"),
		"subject":     "  Fornitore  ",
		"description": 12.0,
		"causale":     "F24",
		"date":        "2025-06-30",
	}})

	require.Len(t, result.Items, 1)
	assert.Equal(t, models.LedgerItem{
		ID:          "17",
		Subject:     "Fornitore",
		Description: "12",
		Causale:     "F24",
		Date:        "2025-06-30",
	}, result.Items[0])
}
