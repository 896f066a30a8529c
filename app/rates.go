package app

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/internal/ui"
	"github.com/ayoisaiah/cashtimer/rates"
)

// showsConversion reports whether earnings are also shown in a second
// currency.
func (e *env) showsConversion() bool {
	return rates.NormalizeCode(e.cfg.Rate.DisplayCurrency) !=
		rates.NormalizeCode(e.cfg.Rate.Currency)
}

// displayAmount converts an amount in the rate currency to the display
// currency. It reports false when no conversion is configured. A missing
// exchange rate yields a placeholder.
func (e *env) displayAmount(amount decimal.Decimal) (string, bool) {
	if !e.showsConversion() {
		return "", false
	}

	to := e.cfg.Rate.DisplayCurrency

	converted, err := rates.Convert(e.rates.Table(), amount, e.cfg.Rate.Currency, to)
	if err != nil {
		return "no rate for " + to, true
	}

	return ui.Money(rates.Symbol(to), converted.Round(2)), true
}

// refreshRates fetches the latest rates. The cached table is kept when the
// feed cannot be reached.
func (e *env) refreshRates(ctx *cli.Context) {
	if ctx.Bool("offline") {
		return
	}

	spinner, _ := pterm.DefaultSpinner.Start("Fetching exchange rates...")

	err := e.rates.Refresh(ctx.Context)
	if err != nil {
		spinner.Warning("Using cached exchange rates: " + err.Error())
		return
	}

	spinner.Success("Exchange rates updated")
}

// ratesAction handles the rates command which lists the known exchange
// rates.
func ratesAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		e.refreshRates(ctx)

		table := e.rates.Table()

		tableBody := [][]string{{"CODE", "CURRENCY", "RATE"}}

		for _, code := range rates.SortedCodes(table.Rates) {
			name := ""
			if c, ok := rates.Lookup(code); ok {
				name = c.Flag + " " + c.Name
			}

			tableBody = append(tableBody, []string{
				code,
				name,
				table.Rates[code].String(),
			})
		}

		ui.PrintTable(tableBody, e.out)

		updated := "never fetched, using built-in defaults"
		if age, ok := rates.Age(table, time.Now()); ok {
			updated = ui.HumanDuration(age) + " ago"
		}

		pterm.Info.Printfln("Base currency %s, updated %s", table.Base, updated)

		return nil
	})
}

// convertAction handles the convert command.
func convertAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		args, err := requireArgs(ctx, "amount", "from", "to")
		if err != nil {
			return err
		}

		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}

		e.refreshRates(ctx)

		from, to := rates.NormalizeCode(args[1]), rates.NormalizeCode(args[2])

		converted, err := rates.Convert(e.rates.Table(), amount, from, to)
		if err != nil {
			return err
		}

		fmt.Fprintf(
			e.out,
			"%s %s = %s %s\n",
			amount.StringFixed(2),
			from,
			converted.StringFixed(2),
			to,
		)

		return nil
	})
}
