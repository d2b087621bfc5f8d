package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/fumoto-monitor/internal/application/notify"
	"github.com/example/fumoto-monitor/internal/domain/page"
	"github.com/example/fumoto-monitor/internal/domain/reservation"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

type State string

const (
	SelectMonth       State = "SelectMonth"
	SelectDateCell    State = "SelectDateCell"
	SelectNights      State = "SelectNights"
	AdvanceToDetails  State = "AdvanceToDetails"
	SelectArrivalTime State = "SelectArrivalTime"
	FillGuestCounts   State = "FillGuestCounts"
	AdvanceToConfirm  State = "AdvanceToConfirm"
	Confirm           State = "Confirm"
	Completed         State = "Completed"
	Failed            State = "Failed"
)

// Snapshotter stores what the page looked like when a booking failed.
type Snapshotter interface {
	Capture(ctx context.Context, p page.Page, label string) (string, error)
}

// Transaction walks the reservation form. Steps run in order; a fatal step
// failure ends the attempt, a best-effort one is logged and skipped.
type Transaction struct {
	Layout    site.Layout
	Notifier  notify.Notifier
	Snapshots Snapshotter
	Log       logrus.FieldLogger
	DryRun    bool
}

type step struct {
	state State
	fatal bool
	run   func(*attempt, context.Context) error
}

type attempt struct {
	site.Layout
	p      page.Page
	set    reservation.NotificationSet
	start  time.Time
	dryRun bool
}

var steps = []step{
	{SelectMonth, true, (*attempt).selectMonth},
	{SelectDateCell, true, (*attempt).selectDateCell},
	{SelectNights, false, (*attempt).selectNights},
	{AdvanceToDetails, true, (*attempt).advanceToDetails},
	{SelectArrivalTime, false, (*attempt).selectArrivalTime},
	{FillGuestCounts, false, (*attempt).fillGuestCounts},
	{AdvanceToConfirm, true, (*attempt).advanceToConfirm},
	{Confirm, true, (*attempt).confirm},
}

// Book expects p to show the calendar of an authenticated session.
func (t Transaction) Book(ctx context.Context, p page.Page, set reservation.NotificationSet) reservation.Outcome {
	log := t.Log.WithField("set", set.Name)
	start, err := set.Start()
	if err != nil {
		return t.fail(ctx, p, set, SelectMonth, err, log)
	}
	a := &attempt{Layout: t.Layout, p: p, set: set, start: start, dryRun: t.DryRun}

	log.Info("auto reservation started")
	for _, s := range steps {
		if s.state == SelectNights && set.Nights <= 1 {
			continue
		}
		err := s.run(a, ctx)
		if err == nil {
			log.WithField("state", s.state).Debug("step done")
			continue
		}
		if s.fatal || ctx.Err() != nil {
			return t.fail(ctx, p, set, s.state, err, log)
		}
		log.WithError(err).WithField("state", s.state).Warn("optional step skipped")
	}

	if a.dryRun {
		log.Warn("dry run: stopped before confirming")
		notify.Deliver(context.WithoutCancel(ctx), t.Notifier, log, notify.BookingDryRun(set.Name))
		return reservation.Outcome{DryRun: true}
	}
	log.WithField("state", Completed).Info("reservation confirmed")
	notify.Deliver(context.WithoutCancel(ctx), t.Notifier, log, notify.BookingCompleted(set.Name))
	return reservation.Outcome{Success: true}
}

func (t Transaction) fail(ctx context.Context, p page.Page, set reservation.NotificationSet, at State, cause error, log logrus.FieldLogger) reservation.Outcome {
	err := fmt.Errorf("%s: %w", at, cause)
	log.WithError(err).WithField("state", Failed).Error("auto reservation failed")

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	notify.Deliver(bg, t.Notifier, log, notify.BookingFailed(set.Name, err))
	if t.Snapshots != nil {
		if where, serr := t.Snapshots.Capture(bg, p, "reserve_error"); serr != nil {
			log.WithError(serr).Warn("diagnostic snapshot failed")
		} else {
			log.WithField("snapshot", where).Info("diagnostic snapshot saved")
		}
	}
	return reservation.Outcome{FailedAt: string(at), Reason: err}
}
