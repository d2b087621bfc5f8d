package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/fumoto-monitor/internal/application/calendar"
	"github.com/example/fumoto-monitor/internal/domain/page"
)

func (a *attempt) selectMonth(ctx context.Context) error {
	btn, err := calendar.FindMonthButton(ctx, a.p, a.start.Month())
	if errors.Is(err, calendar.ErrMonthButtonNotFound) {
		return fmt.Errorf("%w: %d月", ErrMonthNotFound, int(a.start.Month()))
	}
	if err != nil {
		return err
	}
	if err := btn.Click(ctx); err != nil {
		return err
	}
	return page.Settle(ctx, a.Delays.AfterMonth)
}

func (a *attempt) selectDateCell(ctx context.Context) error {
	label := fmt.Sprintf("%d/%d", int(a.start.Month()), a.start.Day())
	g, err := calendar.ReadGrid(ctx, a.p, a.Layout)
	if errors.Is(err, page.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", ErrDateCellNotFound, label, err)
	}
	if err != nil {
		return err
	}
	col, ok := g.Find(int(a.start.Month()), a.start.Day())
	if !ok {
		return fmt.Errorf("%w: %s", ErrDateCellNotFound, label)
	}
	cell, ok := g.Cell(col)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDateCellIndexInvalid, label)
	}
	target := cell
	if divs, err := cell.FindAll(ctx, "div"); err == nil && len(divs) > 0 {
		target = divs[0]
	}
	if err := target.Click(ctx); err != nil {
		return err
	}
	return page.Settle(ctx, a.Delays.AfterDateCell)
}

// selectNights clicks the innermost visible element offering the night count.
func (a *attempt) selectNights(ctx context.Context) error {
	label := fmt.Sprintf(a.NightsFormat, a.set.Nights)
	divs, err := a.p.FindAll(ctx, "div")
	if err != nil {
		return err
	}
	var best page.Element
	bestLen := -1
	for _, d := range divs {
		if v, err := d.IsVisible(ctx); err != nil || !v {
			continue
		}
		text, err := page.NormalizedText(ctx, d)
		if err != nil || !strings.Contains(text, label) {
			continue
		}
		if bestLen < 0 || len(text) < bestLen {
			best, bestLen = d, len(text)
		}
	}
	if best == nil {
		return fmt.Errorf("%w: %s", ErrNightsNotFound, label)
	}
	if err := best.Click(ctx); err != nil {
		return err
	}
	return page.Settle(ctx, a.Delays.AfterNights)
}

func (a *attempt) advanceToDetails(ctx context.Context) error {
	return a.clickButton(ctx, ErrProceedButtonNotFound, a.Delays.AfterProceed, func(s string) bool {
		for _, words := range a.ProceedLabels {
			if containsAll(s, words) {
				return true
			}
		}
		return false
	})
}

// selectArrivalTime opens each visible dropdown until one offers the target
// arrival window.
func (a *attempt) selectArrivalTime(ctx context.Context) error {
	selects, err := a.p.FindAll(ctx, a.SelectSelector)
	if err != nil {
		return err
	}
	for _, sel := range selects {
		if v, err := sel.IsVisible(ctx); err != nil || !v {
			continue
		}
		if err := sel.Click(ctx); err != nil {
			continue
		}
		if err := page.Settle(ctx, a.Delays.AfterDropdown); err != nil {
			return err
		}
		opts, err := a.p.FindAll(ctx, a.OptionSelector)
		if err != nil {
			continue
		}
		opt, ok := page.FirstMatch(ctx, opts, false, func(s string) bool {
			return strings.Contains(s, a.ArrivalTimeLabel)
		})
		if !ok {
			continue
		}
		if err := opt.Click(ctx); err != nil {
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrArrivalTimeNotFound, a.ArrivalTimeLabel)
}

func (a *attempt) fillGuestCounts(ctx context.Context) error {
	var errs []error
	for _, g := range []struct {
		label string
		n     int
	}{
		{a.AdultsLabel, a.set.Adults},
		{a.ChildrenLabel, a.set.Children},
		{a.PreschoolersLabel, a.set.Preschoolers},
	} {
		if err := a.fillByLabel(ctx, g.label, g.n); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fillByLabel types n into the first editable input of the form item whose
// label mentions label.
func (a *attempt) fillByLabel(ctx context.Context, label string, n int) error {
	items, err := a.p.FindAll(ctx, a.FormItemSelector)
	if err != nil {
		return err
	}
	for _, item := range items {
		labels, err := item.FindAll(ctx, "label")
		if err != nil {
			continue
		}
		if _, ok := page.FirstMatch(ctx, labels, false, func(s string) bool { return strings.Contains(s, label) }); !ok {
			continue
		}
		inputs, err := item.FindAll(ctx, "input")
		if err != nil {
			continue
		}
		for _, in := range inputs {
			if v, err := in.IsVisible(ctx); err != nil || !v {
				continue
			}
			if _, ro, err := in.Attribute(ctx, "readonly"); err != nil || ro {
				continue
			}
			if err := in.Clear(ctx); err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			if err := in.Type(ctx, strconv.Itoa(n)); err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrGuestInputNotFound, label)
}

func (a *attempt) advanceToConfirm(ctx context.Context) error {
	return a.clickButton(ctx, ErrNextButtonNotFound, a.Delays.AfterNext, func(s string) bool {
		return strings.Contains(s, a.NextLabel)
	})
}

// confirm presses the button that commits the reservation. Nothing after the
// click can be undone, so a failed wait afterwards does not fail the attempt.
func (a *attempt) confirm(ctx context.Context) error {
	btn, err := a.findButton(ctx, ErrConfirmButtonNotFound, func(s string) bool {
		for _, l := range a.ConfirmLabels {
			if strings.Contains(s, l) {
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}
	if a.dryRun {
		return nil
	}
	if err := btn.Click(ctx); err != nil {
		return err
	}
	_ = page.Settle(ctx, a.Delays.AfterConfirm)
	return nil
}

func (a *attempt) findButton(ctx context.Context, notFound error, match func(string) bool) (page.Element, error) {
	buttons, err := a.p.FindAll(ctx, "button")
	if err != nil {
		return nil, err
	}
	btn, ok := page.FirstMatch(ctx, buttons, true, match)
	if !ok {
		return nil, notFound
	}
	return btn, nil
}

func (a *attempt) clickButton(ctx context.Context, notFound error, settle time.Duration, match func(string) bool) error {
	btn, err := a.findButton(ctx, notFound, match)
	if err != nil {
		return err
	}
	if err := btn.Click(ctx); err != nil {
		return err
	}
	return page.Settle(ctx, settle)
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return len(words) > 0
}
