package rates

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/internal/apperr"
	"github.com/ayoisaiah/cashtimer/internal/models"
)

const BaseCurrency = "USD"

var (
	ErrUnknownCurrency = &apperr.Error{
		Message: "no exchange rate for currency %q",
	}

	errInvalidRate = &apperr.Error{
		Message: "invalid exchange rate for %s: %s",
	}
)

// Default is used until a table has been fetched or loaded from the cache.
func Default() *models.RateTable {
	return &models.RateTable{
		Base: BaseCurrency,
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"CAD": decimal.RequireFromString("1.35"),
		},
	}
}

// Clone returns a deep copy of a rate table.
func Clone(t *models.RateTable) *models.RateTable {
	c := *t
	c.Rates = maps.Clone(t.Rates)

	return &c
}

// Rate returns the rate of a currency against the base of the table.
func Rate(t *models.RateTable, code string) (decimal.Decimal, error) {
	code = NormalizeCode(code)

	if code == t.Base {
		return decimal.NewFromInt(1), nil
	}

	r, ok := t.Rates[code]
	if !ok {
		return decimal.Zero, ErrUnknownCurrency.Fmt(code)
	}

	return r, nil
}

// Convert converts an amount between two currencies of the table.
func Convert(
	t *models.RateTable,
	amount decimal.Decimal,
	from, to string,
) (decimal.Decimal, error) {
	fromRate, err := Rate(t, from)
	if err != nil {
		return decimal.Zero, err
	}

	toRate, err := Rate(t, to)
	if err != nil {
		return decimal.Zero, err
	}

	if NormalizeCode(from) == NormalizeCode(to) {
		return amount, nil
	}

	return amount.Mul(toRate).Div(fromRate), nil
}

// validate rejects tables that would make conversions meaningless.
func validate(t *models.RateTable) error {
	for code, r := range t.Rates {
		if !r.IsPositive() {
			return errInvalidRate.Fmt(code, r.String())
		}
	}

	if _, ok := t.Rates[t.Base]; !ok && t.Base != "" {
		t.Rates[t.Base] = decimal.NewFromInt(1)
	}

	return nil
}

// Age reports how long ago the table was fetched. Tables that were never
// fetched report false.
func Age(t *models.RateTable, now time.Time) (time.Duration, bool) {
	if t.UpdatedAt.IsZero() {
		return 0, false
	}

	return now.Sub(t.UpdatedAt), true
}
