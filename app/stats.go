package app

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/stats"
)

const defaultStatsDays = 7

// statsPeriod resolves --from and --to. The period defaults to the last
// seven days including today.
func (e *env) statsPeriod(ctx *cli.Context) (stats.Period, error) {
	now := e.ledger.Now().Local()

	period := stats.Period{
		Start: timeutil.RoundToStart(now).AddDate(0, 0, -(defaultStatsDays - 1)),
		End:   timeutil.RoundToStart(now).AddDate(0, 0, 1),
	}

	from, err := e.parseTime(ctx.String("from"))
	if err != nil {
		return period, err
	}

	if from != nil {
		period.Start = timeutil.RoundToStart(*from)
	}

	to, err := e.parseTime(ctx.String("to"))
	if err != nil {
		return period, err
	}

	if to != nil {
		period.End = timeutil.RoundToStart(*to).AddDate(0, 0, 1)
	}

	if !period.Start.Before(period.End) {
		return period, fmt.Errorf(
			"--from (%s) must be before --to (%s)",
			period.Start.Format(timeutil.DateFormat),
			period.End.AddDate(0, 0, -1).Format(timeutil.DateFormat),
		)
	}

	return period, nil
}

// statsAction handles the stats command which charts the time worked and the
// money earned over a period.
func statsAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		period, err := e.statsPeriod(ctx)
		if err != nil {
			return err
		}

		report := stats.Compute(e.ledger.Sessions(), period, e.ledger.Now())
		report.Show(e.out, e.rateSymbol(), e.cfg.Display.WeekStart)

		return nil
	})
}
