package ledger

import (
	"strings"

	"scadenziario/pkg/models"
)

// RawRecord is a ledger item as the backend sends it: the amount may be a
// number or a numeric string, and the payment date may arrive under either
// paymentDate or payment_date.
type RawRecord struct {
	ID               interface{} `json:"id"`
	Subject          string      `json:"subject"`
	Description      string      `json:"description"`
	Causale          string      `json:"causale"`
	Date             string      `json:"date"`
	Amount           interface{} `json:"amount"`
	PaymentDate      *string     `json:"paymentDate"`
	PaymentDateAlias *string     `json:"payment_date"`
	Status           string      `json:"status"`
}

// recordFromMap reads a decoded JSON object. Non-string scalars in text
// fields are stringified rather than discarded.
func recordFromMap(m map[string]interface{}) RawRecord {
	return RawRecord{
		ID:               m["id"],
		Subject:          stringify(m["subject"]),
		Description:      stringify(m["description"]),
		Causale:          stringify(m["causale"]),
		Date:             stringify(m["date"]),
		Amount:           m["amount"],
		PaymentDate:      optionalString(m["paymentDate"]),
		PaymentDateAlias: optionalString(m["payment_date"]),
		Status:           stringify(m["status"]),
	}
}

// recordFromItem turns an already normalized item back into a raw record
func recordFromItem(item *models.LedgerItem) RawRecord {
	clone := item.Clone()
	return RawRecord{
		ID:          clone.ID,
		Subject:     clone.Subject,
		Description: clone.Description,
		Causale:     clone.Causale,
		Date:        clone.Date,
		Amount:      clone.Amount,
		PaymentDate: clone.PaymentDate,
		Status:      string(clone.Status),
	}
}

// CanonicalPaymentDate resolves the payment date alias. paymentDate wins
// when both are set; blank values count as absent. The second return value
// reports whether the alias supplied the value.
func (r *RawRecord) CanonicalPaymentDate() (*string, bool) {
	if hasValue(r.PaymentDate) {
		paid := strings.TrimSpace(*r.PaymentDate)
		return &paid, false
	}
	if hasValue(r.PaymentDateAlias) {
		paid := strings.TrimSpace(*r.PaymentDateAlias)
		return &paid, true
	}
	return nil, false
}

func optionalString(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := stringify(value)
	return &s
}
