package models

// Status is the derived payment urgency of a ledger item.
// It is never authoritative: it is recomputed from Date and PaymentDate.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusUpcoming  Status = "upcoming"
	StatusFuture    Status = "future"
)

// AllStatuses lists the statuses in display order
var AllStatuses = []Status{StatusOverdue, StatusUpcoming, StatusFuture, StatusCompleted}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusOverdue, StatusUpcoming, StatusFuture:
		return true
	}
	return false
}

// Label returns the badge label shown to users
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Pagato"
	case StatusOverdue:
		return "Scaduto"
	case StatusUpcoming:
		return "In scadenza"
	case StatusFuture:
		return "Futuro"
	}
	return "-"
}

type LedgerItem struct {
	// Core identifiers
	ID string `json:"id"` // Backend identifier, stringified

	// Descriptive fields
	Subject     string `json:"subject"`     // Counterparty
	Description string `json:"description"` // Free text
	Causale     string `json:"causale"`     // Reason code

	// Dates
	Date        string  `json:"date"`                  // Due date as received from the backend
	PaymentDate *string `json:"paymentDate,omitempty"` // Payment date (nil if unpaid)

	// Amount in EUR, always finite after normalization
	Amount float64 `json:"amount"`

	// Derived
	Status Status `json:"status,omitempty"`
}

// IsPaid reports whether the item carries a payment date
func (li *LedgerItem) IsPaid() bool {
	return li.PaymentDate != nil
}

// Clone returns a copy that shares no pointers with li
func (li LedgerItem) Clone() LedgerItem {
	if li.PaymentDate != nil {
		paid := *li.PaymentDate
		li.PaymentDate = &paid
	}
	return li
}
