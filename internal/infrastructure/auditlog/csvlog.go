package auditlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/example/fumoto-monitor/internal/domain/availability"
)

const timestampColumn = "Timestamp"

// CSV appends one row per cycle to <Dir>/YYYY-MM-DD.csv. When a cycle sees a
// date the file has no column for, the file is rewritten with the wider
// header and the old rows padded.
type CSV struct {
	Dir string
}

func (c CSV) path(at time.Time) string {
	return filepath.Join(c.Dir, at.Format("2006-01-02")+".csv")
}

func (c CSV) Append(ctx context.Context, at time.Time, m availability.Map) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	path := c.path(at)

	header, rows, err := read(path)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}
	grown := len(header) == 0
	for _, d := range m.Dates() {
		if !known[d] {
			grown = true
			break
		}
	}

	if !grown {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		w := csv.NewWriter(f)
		if err := w.Write(row(header, at, m)); err != nil {
			f.Close()
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	next := widen(header, m)
	out := make([][]string, 0, len(rows)+2)
	out = append(out, next)
	for _, r := range rows {
		out = append(out, remap(header, next, r))
	}
	out = append(out, row(next, at, m))
	return rewrite(path, out)
}

func read(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, nil, nil
	}
	return recs[0], recs[1:], nil
}

func widen(header []string, m availability.Map) []string {
	set := map[string]bool{}
	for _, h := range header {
		if h != timestampColumn {
			set[h] = true
		}
	}
	for d := range m {
		set[d] = true
	}
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return append([]string{timestampColumn}, dates...)
}

func remap(from, to, rec []string) []string {
	idx := make(map[string]int, len(from))
	for i, h := range from {
		idx[h] = i
	}
	out := make([]string, len(to))
	for i, h := range to {
		if j, ok := idx[h]; ok && j < len(rec) {
			out[i] = rec[j]
		}
	}
	return out
}

func row(header []string, at time.Time, m availability.Map) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if h == timestampColumn {
			out[i] = at.Format("15:04:05")
			continue
		}
		if st, ok := m[h]; ok {
			out[i] = st.Raw
		}
	}
	return out
}

func rewrite(path string, recs [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	w := csv.NewWriter(tmp)
	if err := w.WriteAll(recs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
