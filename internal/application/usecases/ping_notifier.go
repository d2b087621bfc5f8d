package usecases

import (
	"context"
	"fmt"

	"github.com/example/fumoto-monitor/internal/application/notify"
)

type PingNotifier struct {
	Notifier notify.Notifier
}

func (u PingNotifier) Execute(ctx context.Context) error {
	if u.Notifier == nil {
		return fmt.Errorf("notifier is nil")
	}
	return u.Notifier.Send(ctx, notify.Ping())
}
