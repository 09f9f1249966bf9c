package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"scadenziario/internal/logger"
)

// FallbackCurrency is rendered for missing or non-finite amounts
const FallbackCurrency = "€ 0,00"

const (
	currencySymbol    = "€"
	currencyPrecision = 2
)

// currencyLocale supplies the grouping and decimal separators
var currencyLocale = language.Italian

// FormatCurrency renders amount in the Italian Euro convention
// ("€ 1.234,56", negatives as "-€ 1.234,56"). It accepts numbers, numeric
// strings, json.Number and nil, and never panics: anything that is not a
// finite number yields FallbackCurrency.
func FormatCurrency(amount interface{}) string {
	if amount == nil {
		return FallbackCurrency
	}

	value, err := ParseAmount(amount)
	if err != nil {
		log := logger.WithComponent("currency-formatter")
		log.Debug().
			Err(err).
			Msg("Amount is not a finite number, using fallback")
		return FallbackCurrency
	}

	return FormatDecimal(decimal.NewFromFloat(value))
}

// FormatDecimal renders an exact amount in the Italian Euro convention.
// Rounding to cents is half away from zero.
func FormatDecimal(amount decimal.Decimal) string {
	rounded := amount.Round(currencyPrecision)
	if rounded.IsZero() {
		return FallbackCurrency
	}

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	p := message.NewPrinter(currencyLocale)
	return sign + currencySymbol + " " + p.Sprintf("%.2f", rounded.InexactFloat64())
}
