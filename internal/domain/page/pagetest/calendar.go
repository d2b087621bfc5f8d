package pagetest

import (
	"fmt"
	"strings"
)

// Column is one date column of the calendar grid.
type Column struct {
	Label string
	Cell  string
}

// Day builds a column labelled like the site does, e.g. "3/27 木".
func Day(month, day int, weekday, cell string) Column {
	return Column{Label: fmt.Sprintf("%d/%d %s", month, day, weekday), Cell: cell}
}

// CalendarHTML renders month buttons and a grid with a leading label column,
// a tent-only row and the lodging row.
func CalendarHTML(months []int, cols ...Column) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"months\">")
	for _, m := range months {
		fmt.Fprintf(&b, "<button>%d月</button>", m)
	}
	b.WriteString("</div><table><tr><th>区分</th>")
	for _, c := range cols {
		fmt.Fprintf(&b, "<th>%s</th>", c.Label)
	}
	b.WriteString("</tr><tr><th>日帰り</th>")
	for range cols {
		b.WriteString("<td><div>×</div></td>")
	}
	b.WriteString("</tr><tr><th>キャンプ宿泊</th>")
	for _, c := range cols {
		fmt.Fprintf(&b, "<td><div>%s</div></td>", c.Cell)
	}
	b.WriteString("</tr></table></body></html>")
	return b.String()
}
