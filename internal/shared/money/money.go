package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Scale is the number of fractional digits kept on every stored amount.
const Scale = 2

// CurrencyCode prefixes formatted amounts on documents and emails.
const CurrencyCode = "RWF"

var printer = message.NewPrinter(language.English)

// Round rounds half away from zero to Scale digits, which is HALF_UP for
// the non-negative amounts payroll works with.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Percent applies a rate to a base amount and rounds the result.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(rate))
}

// Format renders an amount with thousands separators, e.g. "RWF 640,000.00".
func Format(d decimal.Decimal) string {
	f, _ := Round(d).Float64()
	return CurrencyCode + " " + printer.Sprintf("%.2f", f)
}
