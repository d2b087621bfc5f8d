package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/fumoto-monitor/internal/domain/availability"
	"github.com/example/fumoto-monitor/internal/domain/page"
	"github.com/example/fumoto-monitor/internal/domain/reservation"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

type MonthFailure struct {
	Month reservation.YearMonth
	Err   error
}

type Extractor struct {
	Layout site.Layout
	Log    logrus.FieldLogger
}

// ExtractMonth switches the calendar to ym and reads every date column shown.
// Neighbouring dates rendered in the same view are included.
func (x Extractor) ExtractMonth(ctx context.Context, p page.Page, ym reservation.YearMonth) (map[string]availability.DateStatus, error) {
	btn, err := FindMonthButton(ctx, p, ym.Month)
	if err != nil {
		return nil, err
	}
	if err := btn.Click(ctx); err != nil {
		return nil, fmt.Errorf("click %d月: %w", int(ym.Month), err)
	}
	if err := page.Settle(ctx, x.Layout.Delays.AfterMonth); err != nil {
		return nil, err
	}

	g, err := ReadGrid(ctx, p, x.Layout)
	if err != nil {
		return nil, err
	}
	out := make(map[string]availability.DateStatus, len(g.Columns))
	for _, c := range g.Columns {
		cell, ok := g.Cell(c)
		if !ok {
			continue
		}
		text, err := cell.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", c.Label(), err)
		}
		date := time.Date(yearFor(ym, c.Month), time.Month(c.Month), c.Day, 0, 0, 0, 0, time.UTC)
		out[date.Format(reservation.DateLayout)] = availability.ParseStatus(strings.TrimSpace(text), x.Layout)
	}
	return out, nil
}

// yearFor resolves the year of a header column shown while viewing ym.
func yearFor(ym reservation.YearMonth, month int) int {
	switch {
	case ym.Month == time.January && month == 12:
		return ym.Year - 1
	case ym.Month == time.December && month == 1:
		return ym.Year + 1
	default:
		return ym.Year
	}
}

// ExtractMonths extracts each month in turn. A failed month does not stop the
// others; its dates that nothing else filled are marked Unknown.
func (x Extractor) ExtractMonths(ctx context.Context, p page.Page, months []reservation.YearMonth) (availability.Map, []MonthFailure) {
	m := availability.Map{}
	var failures []MonthFailure
	for _, ym := range months {
		if ctx.Err() != nil {
			failures = append(failures, MonthFailure{Month: ym, Err: ctx.Err()})
			continue
		}
		got, err := x.ExtractMonth(ctx, p, ym)
		if err != nil {
			x.Log.WithError(err).WithField("month", ym.String()).Warn("calendar extraction failed")
			failures = append(failures, MonthFailure{Month: ym, Err: err})
			continue
		}
		m.Merge(got)
		x.Log.WithFields(logrus.Fields{"month": ym.String(), "dates": len(got)}).Debug("calendar extracted")
	}
	for _, f := range failures {
		m.MarkUnknown(f.Month, x.Layout.UnknownText)
	}
	return m, failures
}
