package pricing

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatPrice renders amount in en-US conventions: whole amounts without decimals,
// fractional amounts with up to two. Unknown currency codes fall back to an ISO prefix.
func FormatPrice(amount Money, currencyCode string) string {
	p := message.NewPrinter(language.AmericanEnglish)

	major := amount.Decimal()
	sign := ""
	if major.IsNegative() {
		sign = "-"
	}
	num := p.Sprint(number.Decimal(major.Abs().InexactFloat64(), number.MinFractionDigits(0), number.MaxFractionDigits(2)))

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return sign + strings.ToUpper(currencyCode) + " " + num
	}
	return sign + p.Sprint(currency.Symbol(unit)) + num
}
