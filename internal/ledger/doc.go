// Package ledger derives the views the scadenziario (accounts payable and
// receivable register) needs from backend records.
//
// It provides three cooperating pieces:
//   - StatusCalculator: completed / overdue / upcoming / future from a due
//     date, an optional payment date and an injectable clock
//   - Normalizer: repairs loosely typed records (null entries, string
//     amounts, the payment_date alias) into models.LedgerItem values
//   - FormatCurrency: Italian Euro rendering that never fails
//
// CalculateStatus, the Normalizer and FormatCurrency never fail or panic on
// malformed data.
// Problems are logged through zerolog and, for the normalizer, reported in
// Result.Diagnostics.
package ledger
