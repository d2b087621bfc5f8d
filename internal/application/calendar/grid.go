package calendar

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/example/fumoto-monitor/internal/domain/page"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

var (
	ErrMonthButtonNotFound = fmt.Errorf("month button: %w", page.ErrNotFound)
	ErrHeaderRowNotFound   = fmt.Errorf("header row: %w", page.ErrNotFound)
	ErrDataRowNotFound     = fmt.Errorf("lodging row: %w", page.ErrNotFound)
)

var monthRe = regexp.MustCompile(`(\d+)月`)

// labelNamesMonth matches "3月" for March but never "13月" or "11月" for January.
func labelNamesMonth(label string, m time.Month) bool {
	for _, sub := range monthRe.FindAllStringSubmatch(label, -1) {
		if n, err := strconv.Atoi(sub[1]); err == nil && n == int(m) {
			return true
		}
	}
	return false
}

// FindMonthButton returns the button that switches the calendar to m.
func FindMonthButton(ctx context.Context, p page.Page, m time.Month) (page.Element, error) {
	buttons, err := p.FindAll(ctx, "button")
	if err != nil {
		return nil, fmt.Errorf("buttons: %w", err)
	}
	btn, ok := page.FirstMatch(ctx, buttons, false, func(s string) bool { return labelNamesMonth(s, m) })
	if !ok {
		return nil, fmt.Errorf("%w: %d月", ErrMonthButtonNotFound, int(m))
	}
	return btn, nil
}

// Column is a date column of the header row.
type Column struct {
	Month int
	Day   int
	Index int
}

func (c Column) Label() string { return fmt.Sprintf("%d/%d", c.Month, c.Day) }

// Grid is the rendered calendar: date columns from the header and the cells
// of the lodging row.
type Grid struct {
	Columns []Column
	Cells   []page.Element
	Offset  int
}

// Cell maps a header column onto the lodging row.
func (g Grid) Cell(c Column) (page.Element, bool) {
	i := c.Index + g.Offset
	if i < 0 || i >= len(g.Cells) {
		return nil, false
	}
	return g.Cells[i], true
}

func (g Grid) Find(month, day int) (Column, bool) {
	for _, c := range g.Columns {
		if c.Month == month && c.Day == day {
			return c, true
		}
	}
	return Column{}, false
}

// ReadGrid reads the calendar currently rendered on p.
func ReadGrid(ctx context.Context, p page.Page, l site.Layout) (Grid, error) {
	rows, err := p.FindAll(ctx, "tr")
	if err != nil {
		return Grid{}, fmt.Errorf("rows: %w", err)
	}
	if len(rows) == 0 {
		return Grid{}, ErrHeaderRowNotFound
	}
	headers, err := rows[0].FindAll(ctx, "th")
	if err != nil {
		return Grid{}, fmt.Errorf("header cells: %w", err)
	}
	if len(headers) == 0 {
		if headers, err = rows[0].FindAll(ctx, "td"); err != nil {
			return Grid{}, fmt.Errorf("header cells: %w", err)
		}
	}

	g := Grid{Offset: l.HeaderDataOffset}
	for i, h := range headers {
		text, err := page.NormalizedText(ctx, h)
		if err != nil {
			return Grid{}, fmt.Errorf("header cell %d: %w", i, err)
		}
		if c, ok := parseColumn(text); ok {
			c.Index = i
			g.Columns = append(g.Columns, c)
		}
	}

	row, ok := page.FirstMatch(ctx, rows, false, func(s string) bool {
		return strings.Contains(s, l.LodgingRowMarker)
	})
	if !ok {
		return Grid{}, ErrDataRowNotFound
	}
	if g.Cells, err = row.FindAll(ctx, "td"); err != nil {
		return Grid{}, fmt.Errorf("lodging cells: %w", err)
	}
	return g, nil
}

// parseColumn accepts labels like "3/27 木"; only the first token counts.
func parseColumn(label string) (Column, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 || !strings.Contains(fields[0], "/") {
		return Column{}, false
	}
	md := strings.SplitN(fields[0], "/", 2)
	m, err := strconv.Atoi(md[0])
	if err != nil || m < 1 || m > 12 {
		return Column{}, false
	}
	d, err := strconv.Atoi(md[1])
	if err != nil || d < 1 || d > 31 {
		return Column{}, false
	}
	return Column{Month: m, Day: d}, true
}
