package timer

import (
	"strings"
	"time"

	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/internal/ui"
	"github.com/ayoisaiah/cashtimer/rates"
)

// convertedView shows the earnings in the display currency when it differs
// from the currency of the rate.
func (t *Timer) convertedView() string {
	if t.rates == nil || t.opts.DisplayCurrency == "" ||
		rates.NormalizeCode(t.opts.DisplayCurrency) == rates.NormalizeCode(t.opts.RateCurrency) {
		return ""
	}

	amount, err := rates.Convert(
		t.rates.Table(),
		t.tick.Earnings,
		t.opts.RateCurrency,
		t.opts.DisplayCurrency,
	)
	if err != nil {
		return t.style.hint.Render("no rate for " + t.opts.DisplayCurrency)
	}

	return t.style.converted.Render(
		"≈ " + ui.Money(rates.Symbol(t.opts.DisplayCurrency), amount) +
			" " + rates.NormalizeCode(t.opts.DisplayCurrency),
	)
}

func (t *Timer) statusView() string {
	if t.tick.Paused {
		return t.style.paused.Render("[Paused]")
	}

	return t.style.running.Render("[Running]")
}

func (t *Timer) View() string {
	if t.stopped != nil {
		return ""
	}

	var s strings.Builder

	symbol := rates.Symbol(t.opts.RateCurrency)

	s.WriteString(t.style.title.Render("CashTimer") + " ")
	s.WriteString(t.statusView())
	s.WriteString(" " + t.style.hint.Render("at "+symbol+t.hourly+"/hr"))
	s.WriteString("\n\n")

	elapsed := time.Duration(t.tick.Elapsed) * time.Second

	s.WriteString(t.style.clock.Render(timeutil.FormatDuration(elapsed)))
	s.WriteString(t.style.earnings.Render(ui.Money(symbol, t.tick.Earnings)))

	if conv := t.convertedView(); conv != "" {
		s.WriteString("  " + conv)
	}

	if t.err != nil {
		s.WriteString("\n\n" + t.style.err.Render(t.err.Error()))
	}

	s.WriteString("\n\n" + t.help.View(defaultKeymap))

	return t.style.base.Render(s.String())
}
