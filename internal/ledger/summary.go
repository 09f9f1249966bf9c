package ledger

import (
	"github.com/shopspring/decimal"
	"scadenziario/pkg/models"
)

// StatusTotal aggregates the items sharing one status
type StatusTotal struct {
	Status models.Status   `json:"status"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the per-status overview of a scadenziario
type Summary struct {
	ByStatus   []StatusTotal   `json:"by_status"`
	Unassigned int             `json:"unassigned"` // Items without a status
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
}

// Summarize totals items per status, in models.AllStatuses order. Amounts
// are summed exactly and rounded to cents.
func Summarize(items []models.LedgerItem) Summary {
	totals := make(map[models.Status]*StatusTotal, len(models.AllStatuses))
	summary := Summary{Total: decimal.Zero}
	for _, status := range models.AllStatuses {
		totals[status] = &StatusTotal{Status: status, Amount: decimal.Zero}
	}

	for i := range items {
		amount := decimal.NewFromFloat(items[i].Amount)
		summary.Count++
		summary.Total = summary.Total.Add(amount)

		total, ok := totals[items[i].Status]
		if !ok {
			summary.Unassigned++
			continue
		}
		total.Count++
		total.Amount = total.Amount.Add(amount)
	}

	summary.Total = summary.Total.Round(currencyPrecision)
	for _, status := range models.AllStatuses {
		total := totals[status]
		total.Amount = total.Amount.Round(currencyPrecision)
		summary.ByStatus = append(summary.ByStatus, *total)
	}

	return summary
}

// Get returns the total for status, zero-valued if absent
func (s *Summary) Get(status models.Status) StatusTotal {
	for _, total := range s.ByStatus {
		if total.Status == status {
			return total
		}
	}
	return StatusTotal{Status: status, Amount: decimal.Zero}
}

// Filter returns the items whose status is one of statuses, in input order.
// With no statuses every item is returned. The result never aliases items.
func Filter(items []models.LedgerItem, statuses ...models.Status) []models.LedgerItem {
	wanted := make(map[models.Status]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}

	filtered := make([]models.LedgerItem, 0, len(items))
	for i := range items {
		if len(wanted) == 0 || wanted[items[i].Status] {
			filtered = append(filtered, items[i].Clone())
		}
	}
	return filtered
}
