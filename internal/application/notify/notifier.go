package notify

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Notifier delivers one text message to the user.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Multi sends to every notifier in parallel and joins their errors. One
// failing channel does not cancel the others.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, text string) error {
	errs := make([]error, len(m))
	var g errgroup.Group
	for i, n := range m {
		g.Go(func() error {
			errs[i] = n.Send(ctx, text)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// LogNotifier only logs. It is used when no transport is configured.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (n LogNotifier) Send(_ context.Context, text string) error {
	n.Log.WithField("message", text).Info("notification (no transport configured)")
	return nil
}

// Deliver sends text and logs a failure instead of returning it.
func Deliver(ctx context.Context, n Notifier, log logrus.FieldLogger, text string) bool {
	if text == "" {
		return false
	}
	if err := n.Send(ctx, text); err != nil {
		log.WithError(err).Error("notification failed")
		return false
	}
	return true
}
