package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

const DateTimeFormat = "Jan 02, 2006 03:04 PM"

func PrintTable(data [][]string, writer io.Writer) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output session table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}

// Money formats an amount with two decimals behind a currency symbol.
func Money(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

// HumanDuration renders a duration like "1 hour 30 minutes". Durations below
// a minute keep their seconds.
func HumanDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "0 seconds"
	}

	if d < time.Minute {
		return durafmt.Parse(d).String()
	}

	return durafmt.Parse(d.Truncate(time.Minute)).String()
}
