// Package format renders monetary amounts and rates for display.
package format

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the fixed display locale; output does not depend on the host.
var Locale = language.English

// Currency returns a monetary string with the currency symbol, English digit
// grouping and exactly two fraction digits (e.g., "-$1,234.56"). Codes that
// are not ISO 4217 are shown verbatim in upper case followed by a space.
func Currency(amount float64, currencyCode string) string {
	return withPrefix(amount, Symbol(currencyCode))
}

// CurrencyCode is Currency with the upper-cased code in place of the symbol,
// e.g. "INR 1,234.50", for outputs that cannot render every symbol.
func CurrencyCode(amount float64, currencyCode string) string {
	return withPrefix(amount, strings.ToUpper(strings.TrimSpace(currencyCode))+" ")
}

func withPrefix(amount float64, prefix string) string {
	formatted := NumericCurrency(math.Abs(amount))
	sign := ""
	if amount < 0 && formatted != "0.00" {
		sign = "-"
	}
	return sign + prefix + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	p := message.NewPrinter(Locale)
	return p.Sprintf("%.2f", amount)
}

// Symbol returns the display symbol for an ISO 4217 code, such as "$" for USD
// or "€" for EUR. Unknown codes are returned upper-cased with a trailing space
// so they read as "XYZ 10.00".
func Symbol(currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " "
	}
	p := message.NewPrinter(Locale)
	sym := p.Sprint(currency.Symbol(unit))
	if sym == "" || sym == unit.String() {
		return unit.String() + " "
	}
	return sym
}

// Percent renders an annual rate with two fraction digits, e.g. "10.00%".
func Percent(rate float64) string {
	p := message.NewPrinter(Locale)
	return p.Sprintf("%.2f%%", rate)
}
