// Package money formats monetary amounts in each currency's conventional
// display form: symbol placement, thousands grouping, and minor units.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

type format struct {
	Symbol            string
	DecimalPlaces     int32
	SymbolPosition    string // "before" or "after"
	ThousandSeparator string
	DecimalSeparator  string
}

// formats covers the currencies the conversion service supports. Unlisted
// codes fall back to "amount CODE" with two decimal places.
var formats = map[string]format{
	"USD": {"$", 2, "before", ",", "."},
	"EUR": {"€", 2, "before", ",", "."},
	"GBP": {"£", 2, "before", ",", "."},
	"JPY": {"¥", 0, "before", ",", "."},
	"AUD": {"A$", 2, "before", ",", "."},
	"CAD": {"C$", 2, "before", ",", "."},
	"CHF": {"CHF ", 2, "before", ",", "."},
	"CNY": {"¥", 2, "before", ",", "."},
	"SEK": {" kr", 2, "after", ",", "."},
	"NZD": {"NZ$", 2, "before", ",", "."},
	"MXN": {"MX$", 2, "before", ",", "."},
	"SGD": {"S$", 2, "before", ",", "."},
	"HKD": {"HK$", 2, "before", ",", "."},
	"NOK": {" kr", 2, "after", ",", "."},
	"KRW": {"₩", 0, "before", ",", "."},
	"TRY": {"₺", 2, "before", ",", "."},
	"INR": {"₹", 2, "before", ",", "."},
	"RUB": {" ₽", 2, "after", ",", "."},
	"BRL": {"R$", 2, "before", ",", "."},
	"ZAR": {"R", 2, "before", ",", "."},
	"DKK": {" kr", 2, "after", ",", "."},
	"PLN": {" zł", 2, "after", ",", "."},
	"THB": {"฿", 2, "before", ",", "."},
	"IDR": {"Rp", 0, "before", ",", "."},
	"HUF": {" Ft", 0, "after", ",", "."},
	"CZK": {" Kč", 2, "after", ",", "."},
	"ILS": {"₪", 2, "before", ",", "."},
	"PHP": {"₱", 2, "before", ",", "."},
	"KWD": {"KD ", 3, "before", ",", "."},
	"BHD": {"BD ", 3, "before", ",", "."},
	"MYR": {"RM", 2, "before", ",", "."},
	"AED": {"AED ", 2, "before", ",", "."},
	"SAR": {"SAR ", 2, "before", ",", "."},
}

// Format renders an amount in the currency's conventional display form,
// e.g. Format(90, "EUR") == "€90.00".
func Format(amount float64, code string) string {
	f, ok := formats[code]
	if !ok {
		return FormatPlain(amount) + " " + code
	}

	fixed := decimal.NewFromFloat(amount).StringFixed(f.DecimalPlaces)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	fracPart := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if f.SymbolPosition == "before" {
		b.WriteString(f.Symbol)
	}
	b.WriteString(group(intPart, f.ThousandSeparator))
	if fracPart != "" {
		b.WriteString(f.DecimalSeparator)
		b.WriteString(fracPart)
	}
	if f.SymbolPosition == "after" {
		b.WriteString(f.Symbol)
	}
	return b.String()
}

// FormatPlain renders an amount with two decimal places and no symbol or
// grouping, e.g. FormatPlain(100) == "100.00".
func FormatPlain(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// MinorUnits reports the number of decimal places the currency is
// conventionally displayed with.
func MinorUnits(code string) int32 {
	if f, ok := formats[code]; ok {
		return f.DecimalPlaces
	}
	return 2
}

func group(digits, separator string) string {
	if len(digits) <= 3 || separator == "" {
		return digits
	}

	var b strings.Builder
	first := len(digits) % 3
	if first > 0 {
		b.WriteString(digits[:first])
	}
	for i := first; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(separator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
