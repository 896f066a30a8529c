// Package rates converts amounts between currencies using exchange rates
// fetched from a remote feed
package rates

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Currency describes how an amount in a currency is displayed.
type Currency struct {
	Code   string
	Symbol string
	Name   string
	Flag   string
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Flag: "🇺🇸"},
	{Code: "CAD", Symbol: "$", Name: "Canadian Dollar", Flag: "🇨🇦"},
	{Code: "EUR", Symbol: "€", Name: "Euro", Flag: "🇪🇺"},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Flag: "🇬🇧"},
	{Code: "AUD", Symbol: "$", Name: "Australian Dollar", Flag: "🇦🇺"},
}

// Lookup returns the display details of a currency. Codes outside the known
// list are returned with the code itself as the symbol.
func Lookup(code string) (Currency, bool) {
	code = NormalizeCode(code)

	i := slices.IndexFunc(currencies, func(c Currency) bool {
		return c.Code == code
	})
	if i < 0 {
		return Currency{Code: code, Symbol: code + " ", Name: code}, false
	}

	return currencies[i], true
}

// Symbol returns the prefix used when printing amounts in a currency.
func Symbol(code string) string {
	c, _ := Lookup(code)
	return c.Symbol
}

// Currencies returns the currencies with display details.
func Currencies() []Currency {
	return slices.Clone(currencies)
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SortedCodes returns the currency codes of a rate map in natural order.
func SortedCodes[V any](m map[string]V) []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}

	slices.SortFunc(codes, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case natural.Less(a, b):
			return -1
		default:
			return 1
		}
	})

	return codes
}
