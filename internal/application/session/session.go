package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/fumoto-monitor/internal/domain/page"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

var (
	ErrInputsNotFound = fmt.Errorf("login inputs: %w", page.ErrNotFound)
	ErrButtonNotFound = fmt.Errorf("login button: %w", page.ErrNotFound)
	ErrLoginRejected  = errors.New("login rejected")
)

type Credentials struct {
	Email    string
	Password string
}

// Manager makes sure the page shows the calendar behind a logged in session.
type Manager struct {
	Layout site.Layout
	Creds  Credentials
	Log    logrus.FieldLogger
}

func (m Manager) onCalendar(ctx context.Context, p page.Page) (bool, string, error) {
	u, err := p.CurrentURL(ctx)
	if err != nil {
		return false, "", fmt.Errorf("current url: %w", err)
	}
	return strings.Contains(u, m.Layout.CalendarPath), u, nil
}

// EnsureAuthenticated is a no-op when the page is already on the calendar.
func (m Manager) EnsureAuthenticated(ctx context.Context, p page.Page) error {
	ok, u, err := m.onCalendar(ctx, p)
	if err != nil || ok {
		return err
	}
	m.Log.WithField("url", u).Info("login required")

	if !strings.Contains(u, m.Layout.LoginPath) && u != m.Layout.RootURL {
		if err := p.Navigate(ctx, m.Layout.RootURL); err != nil {
			return fmt.Errorf("open site root: %w", err)
		}
		if err := page.Settle(ctx, m.Layout.Delays.AfterRootLoad); err != nil {
			return err
		}
	}

	email, password, err := m.findInputs(ctx, p)
	if err != nil {
		return err
	}
	if err := fill(ctx, email, m.Creds.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := fill(ctx, password, m.Creds.Password); err != nil {
		return fmt.Errorf("password: %w", err)
	}

	buttons, err := p.FindAll(ctx, "button")
	if err != nil {
		return fmt.Errorf("buttons: %w", err)
	}
	btn, found := page.FirstMatch(ctx, buttons, false, func(s string) bool {
		return strings.Contains(s, m.Layout.LoginLabel)
	})
	if !found {
		return ErrButtonNotFound
	}
	if err := btn.Click(ctx); err != nil {
		return fmt.Errorf("click login: %w", err)
	}
	if err := page.Settle(ctx, m.Layout.Delays.AfterLogin); err != nil {
		return err
	}

	if ok, _, err = m.onCalendar(ctx, p); err != nil || ok {
		return err
	}
	if err := p.Navigate(ctx, m.Layout.CalendarURL); err != nil {
		return fmt.Errorf("open calendar: %w", err)
	}
	if err := page.Settle(ctx, m.Layout.Delays.AfterNavigate); err != nil {
		return err
	}
	ok, u, err = m.onCalendar(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: still on %s", ErrLoginRejected, u)
	}
	m.Log.Info("logged in")
	return nil
}

// findInputs prefers a text/email input whose placeholder mentions mail and
// falls back to the first text/email input.
func (m Manager) findInputs(ctx context.Context, p page.Page) (page.Element, page.Element, error) {
	inputs, err := p.FindAll(ctx, "input")
	if err != nil {
		return nil, nil, fmt.Errorf("inputs: %w", err)
	}
	var email, hinted, password page.Element
	for _, in := range inputs {
		typ, _, err := in.Attribute(ctx, "type")
		if err != nil {
			continue
		}
		switch strings.ToLower(typ) {
		case "password":
			if password == nil {
				password = in
			}
		case "text", "email":
			if email == nil {
				email = in
			}
			if hinted == nil && m.mailHint(ctx, in) {
				hinted = in
			}
		}
	}
	if hinted != nil {
		email = hinted
	}
	if email == nil || password == nil {
		return nil, nil, ErrInputsNotFound
	}
	return email, password, nil
}

func (m Manager) mailHint(ctx context.Context, in page.Element) bool {
	ph, ok, err := in.Attribute(ctx, "placeholder")
	if err != nil || !ok {
		return false
	}
	ph = strings.ToLower(ph)
	for _, h := range m.Layout.EmailHints {
		if strings.Contains(ph, strings.ToLower(h)) {
			return true
		}
	}
	return false
}

func fill(ctx context.Context, el page.Element, v string) error {
	if err := el.Clear(ctx); err != nil {
		return err
	}
	return el.Type(ctx, v)
}
