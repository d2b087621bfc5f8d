package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/fumoto-monitor/internal/application/booking"
	"github.com/example/fumoto-monitor/internal/application/calendar"
	"github.com/example/fumoto-monitor/internal/application/notify"
	"github.com/example/fumoto-monitor/internal/application/scheduler"
	"github.com/example/fumoto-monitor/internal/application/session"
	"github.com/example/fumoto-monitor/internal/application/usecases"
	"github.com/example/fumoto-monitor/internal/domain/site"
	"github.com/example/fumoto-monitor/internal/infrastructure/auditlog"
	"github.com/example/fumoto-monitor/internal/infrastructure/browser"
	"github.com/example/fumoto-monitor/internal/infrastructure/config"
	"github.com/example/fumoto-monitor/internal/infrastructure/crypto"
	"github.com/example/fumoto-monitor/internal/infrastructure/diagnostics"
	"github.com/example/fumoto-monitor/internal/infrastructure/line"
	"github.com/example/fumoto-monitor/internal/infrastructure/logger"
	"github.com/example/fumoto-monitor/internal/infrastructure/postgres"
	"github.com/example/fumoto-monitor/internal/infrastructure/store"
	"github.com/example/fumoto-monitor/internal/infrastructure/telegram"
)

// app is what every command starts from.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	closers []func()
}

func newApp() (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: logger.New(cfg.LogLevel, cfg.AppEnv)}, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) store() store.Store {
	return store.Store{Path: a.cfg.ConfigPath, Log: a.log}
}

// notifier fans out to every configured channel. Without any it only logs.
func (a *app) notifier() (notify.Notifier, error) {
	var out notify.Multi
	if a.cfg.LineToken != "" {
		out = append(out, line.New(a.cfg.LineAPIBase, a.cfg.LineToken, a.cfg.LineUserID, a.cfg.HTTPTimeout))
	}
	if a.cfg.TelegramToken != "" {
		tg, err := telegram.New(a.cfg.TelegramToken, a.cfg.TelegramChatID)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		out = append(out, tg)
	}
	if len(out) == 0 {
		a.log.Warn("no notification channel configured, messages are only logged")
		return notify.LogNotifier{Log: a.log}, nil
	}
	return out, nil
}

func (a *app) credentials() (session.Credentials, error) {
	if err := a.cfg.RequireCredentials(); err != nil {
		return session.Credentials{}, err
	}
	svc := usecases.CredentialsService{}
	if len(a.cfg.CredEncKey) > 0 {
		aead, err := crypto.New(a.cfg.CredEncKey)
		if err != nil {
			return session.Credentials{}, err
		}
		svc.AEAD = aead
	}
	return svc.Resolve(a.cfg.Email, a.cfg.Password, a.cfg.PasswordSealed)
}

func (a *app) registry(st store.Store) *notify.Registry {
	if !a.cfg.PersistNotified {
		return notify.NewRegistry()
	}
	ids, err := st.LoadNotified()
	if err != nil {
		a.log.WithError(err).Warn("notified sets unreadable, starting empty")
		return notify.NewRegistry()
	}
	a.log.WithField("sets", len(ids)).Info("restored notified sets")
	return notify.NewRegistry(ids...)
}

func (a *app) audit(ctx context.Context) ([]scheduler.AuditSink, error) {
	sinks := []scheduler.AuditSink{auditlog.CSV{Dir: a.cfg.LogDir}}
	if a.cfg.DatabaseURL == "" {
		return sinks, nil
	}
	pool, err := postgres.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	if err := postgres.Migrate(ctx, pool); err != nil {
		return nil, err
	}
	return append(sinks, postgres.NewAvailabilityRepo(pool)), nil
}

// scheduler assembles the monitor from the environment.
func (a *app) scheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	creds, err := a.credentials()
	if err != nil {
		return nil, err
	}
	n, err := a.notifier()
	if err != nil {
		return nil, err
	}
	sinks, err := a.audit(ctx)
	if err != nil {
		return nil, err
	}

	layout := site.Fumotoppara()
	st := a.store()
	chrome := browser.New(browser.Options{
		UserDataDir: a.cfg.ChromeUserDataDir,
		ExecPath:    a.cfg.ChromePath,
		Headless:    a.cfg.Headless,
		Timeout:     a.cfg.PageTimeout,
		Log:         a.log,
	})
	tx := booking.Transaction{
		Layout:    layout,
		Notifier:  n,
		Snapshots: diagnostics.Snapshots{Dir: a.cfg.LogDir},
		Log:       a.log,
		DryRun:    a.cfg.DryRun,
	}
	s := &scheduler.Scheduler{
		Config:       st,
		Browser:      chrome,
		Session:      session.Manager{Layout: layout, Creds: creds, Log: a.log},
		Extractor:    calendar.Extractor{Layout: layout, Log: a.log},
		Differ:       notify.NewDiffer(a.registry(st)),
		Booker:       tx,
		Notifier:     n,
		Audit:        sinks,
		Layout:       layout,
		Log:          a.log,
		NotifyErrors: a.cfg.NotifyCycleErrors,
	}
	if a.cfg.PersistNotified {
		s.Registry = st
	}
	if a.cfg.DryRun {
		a.log.Warn("booking dry run enabled, reservations will not be confirmed")
	}
	return s, nil
}
