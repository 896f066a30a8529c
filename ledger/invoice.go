package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/timeutil"
)

var quarters = decimal.NewFromInt(4)

// InvoiceLine is one billed session.
type InvoiceLine struct {
	Date  time.Time
	Hours decimal.Decimal
	Cost  decimal.Decimal
}

// Invoice is the billable summary of a week.
type Invoice struct {
	Lines []InvoiceLine
	Total decimal.Decimal
}

// RoundUpToQuarter rounds a duration up to the next quarter hour and returns
// it in hours. Sub-second remainders are ignored.
func RoundUpToQuarter(d time.Duration) decimal.Decimal {
	h := models.Hours(d.Truncate(time.Second))

	return h.Mul(quarters).Ceil().Div(quarters)
}

// BuildInvoice bills every session of the group at its own rate for its
// active time rounded up to the quarter hour.
func BuildInvoice(group WeekGroup, now time.Time) Invoice {
	inv := Invoice{Total: decimal.Zero}

	for _, sess := range group.Sessions {
		hours := RoundUpToQuarter(sess.ActiveDuration(now))
		cost := hours.Mul(sess.HourlyRate).Round(2)

		inv.Lines = append(inv.Lines, InvoiceLine{
			Date:  sess.StartTime,
			Hours: hours,
			Cost:  cost,
		})

		inv.Total = inv.Total.Add(cost)
	}

	return inv
}

// Text renders the invoice as tab separated rows ready to paste into a
// spreadsheet.
func (inv Invoice) Text(symbol string) string {
	var b strings.Builder

	b.WriteString("Date\tDuration\tTotal")

	for _, line := range inv.Lines {
		b.WriteString("\n")
		b.WriteString(line.Date.Format(timeutil.DateFormat))
		b.WriteString("\t")
		b.WriteString(line.Hours.String())
		b.WriteString("\t")
		b.WriteString(symbol + line.Cost.StringFixed(2))
	}

	b.WriteString("\n\t\tGrand Total")
	b.WriteString("\n\t\t" + symbol + inv.Total.StringFixed(2))

	return b.String()
}

// ExportForInvoicing renders the invoice of a week group.
func ExportForInvoicing(group WeekGroup, symbol string, now time.Time) string {
	return BuildInvoice(group, now).Text(symbol)
}
