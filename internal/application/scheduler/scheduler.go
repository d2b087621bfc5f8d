package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/example/fumoto-monitor/internal/application/calendar"
	"github.com/example/fumoto-monitor/internal/application/notify"
	"github.com/example/fumoto-monitor/internal/domain/availability"
	"github.com/example/fumoto-monitor/internal/domain/page"
	"github.com/example/fumoto-monitor/internal/domain/reservation"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

// cancellationWindow is how close to the stay an auto booking starts to
// risk cancellation fees.
const cancellationWindow = 7

type ConfigSource interface {
	Load(ctx context.Context) (reservation.Settings, error)
}

// Browser opens one page per cycle. close releases it.
type Browser interface {
	Open(ctx context.Context) (p page.Page, close func(), err error)
}

type Authenticator interface {
	EnsureAuthenticated(ctx context.Context, p page.Page) error
}

type Extractor interface {
	ExtractMonths(ctx context.Context, p page.Page, months []reservation.YearMonth) (availability.Map, []calendar.MonthFailure)
}

// AuditSink records the availability seen by a cycle.
type AuditSink interface {
	Append(ctx context.Context, at time.Time, m availability.Map) error
}

// RegistryStore keeps the notified set ids across restarts.
type RegistryStore interface {
	SaveNotified(ctx context.Context, ids []reservation.SetID) error
}

type Scheduler struct {
	Config    ConfigSource
	Browser   Browser
	Session   Authenticator
	Extractor Extractor
	Differ    *notify.Differ
	Booker    reservation.Booker
	Notifier  notify.Notifier
	Audit     []AuditSink
	Registry  RegistryStore
	Layout    site.Layout
	Log       logrus.FieldLogger
	Now       func() time.Time

	// NotifyErrors sends a message when a cycle fails.
	NotifyErrors bool
}

// Report summarises one cycle.
type Report struct {
	ID       string
	Sets     int
	Dates    int
	Failures []calendar.MonthFailure
	Results  []availability.Result
	Decision notify.Decision
	Outcome  *reservation.Outcome
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// settings loads the user configuration. A load error is returned so the
// cycle leaves the registry alone until the file is readable again.
func (s *Scheduler) settings(ctx context.Context, log logrus.FieldLogger) (reservation.Settings, error) {
	cfg, err := s.Config.Load(ctx)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	for _, r := range cfg.Rejected {
		log.WithError(r).Warn("notification set skipped")
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = reservation.DefaultCheckInterval
	}
	return cfg, nil
}

func (s *Scheduler) interval(ctx context.Context) time.Duration {
	cfg, _ := s.Config.Load(ctx)
	if cfg.CheckInterval <= 0 {
		return reservation.DefaultCheckInterval
	}
	return cfg.CheckInterval
}

// Run performs a cycle right away and then one cycle per check interval until
// ctx is cancelled. The interval is re-read after every cycle.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Log.Info("monitor started")
	for {
		s.runSafe(ctx)

		interval := s.interval(ctx)
		next := cron.Every(interval).Next(s.now())
		s.Log.WithFields(logrus.Fields{"interval": interval.String(), "next": next.Format(time.RFC3339)}).Info("waiting for next cycle")

		t := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			t.Stop()
			s.Log.Info("monitor stopped")
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (s *Scheduler) runSafe(ctx context.Context) {
	if _, err := s.RunCycle(ctx); err != nil && ctx.Err() == nil {
		s.Log.WithError(err).Error("cycle failed")
		if s.NotifyErrors {
			notify.Deliver(ctx, s.Notifier, s.Log, notify.CycleFailed(err))
		}
	}
}

// RunCycle checks the calendar once. Panics are turned into errors so the
// caller can keep going.
func (s *Scheduler) RunCycle(ctx context.Context) (rep Report, err error) {
	rep.ID = uuid.NewString()
	log := s.Log.WithField("cycle", rep.ID)
	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Error("cycle panicked")
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	cfg, err := s.settings(ctx, log)
	if err != nil {
		return rep, err
	}
	rep.Sets = len(cfg.Sets)
	if len(cfg.Sets) == 0 {
		log.Info("no notification sets configured")
		return rep, nil
	}
	months := reservation.TargetMonths(cfg.Sets)
	log.WithField("months", len(months)).Info("cycle started")

	p, closePage, err := s.Browser.Open(ctx)
	if err != nil {
		return rep, fmt.Errorf("open browser: %w", err)
	}
	defer closePage()

	if err := p.Navigate(ctx, s.Layout.CalendarURL); err != nil {
		return rep, fmt.Errorf("open calendar: %w", err)
	}
	if err := page.Settle(ctx, s.Layout.Delays.AfterNavigate); err != nil {
		return rep, err
	}
	if err := s.Session.EnsureAuthenticated(ctx, p); err != nil {
		return rep, fmt.Errorf("login: %w", err)
	}

	m, failures := s.Extractor.ExtractMonths(ctx, p, months)
	rep.Dates, rep.Failures = len(m), failures
	// A shutdown during extraction fails every remaining month; that map says
	// nothing about availability and must not reach the registry.
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	log.WithFields(logrus.Fields{"dates": len(m), "failed_months": len(failures)}).Info("availability extracted")

	rep.Results = availability.EvaluateAll(cfg.Sets, m)
	s.warnCancellationFees(log, cfg.Sets)

	rep.Decision = s.Differ.Diff(cfg.Sets, rep.Results)
	if body := rep.Decision.Body(s.Layout.ReserveURL); body != "" {
		log.WithField("messages", len(rep.Decision.Entries)).Info("sending availability notification")
		notify.Deliver(ctx, s.Notifier, log, body)
	}

	if target := rep.Decision.AutoReserve; target != nil && ctx.Err() == nil {
		out := s.Booker.Book(ctx, p, *target)
		rep.Outcome = &out
	}

	for _, a := range s.Audit {
		if err := a.Append(ctx, s.now(), m); err != nil {
			log.WithError(err).Warn("audit log append failed")
		}
	}
	s.commit(ctx, log, rep.Decision)
	return rep, nil
}

func (s *Scheduler) commit(ctx context.Context, log logrus.FieldLogger, d notify.Decision) {
	s.Differ.Commit(d)
	if s.Registry == nil {
		return
	}
	if err := s.Registry.SaveNotified(ctx, s.Differ.Registry.IDs()); err != nil {
		log.WithError(err).Warn("saving notified sets failed")
	}
}

func (s *Scheduler) warnCancellationFees(log logrus.FieldLogger, sets []reservation.NotificationSet) {
	now := s.now()
	for _, set := range sets {
		if !set.AutoReserve {
			continue
		}
		days, err := reservation.DaysUntil(set, now)
		if err != nil {
			continue
		}
		if days >= 0 && days <= cancellationWindow {
			log.WithFields(logrus.Fields{"set": set.Name, "days": days}).Warn("auto reservation within 7 days, cancellation fees may apply")
		}
	}
}
