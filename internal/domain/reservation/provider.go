package reservation

import (
	"context"
	"errors"

	"github.com/example/fumoto-monitor/internal/domain/page"
)

// Booker drives the site's multi-step reservation flow for one set on an
// already authenticated page.
type Booker interface {
	Book(ctx context.Context, p page.Page, set NotificationSet) Outcome
}

// Outcome reports how far a booking attempt got. A dry run stops in front of
// the confirm button and is neither a success nor a failure.
type Outcome struct {
	Success  bool
	DryRun   bool
	FailedAt string
	Reason   error
}

func (o Outcome) Err() error {
	if o.Success || o.DryRun {
		return nil
	}
	if o.Reason != nil {
		return o.Reason
	}
	return errors.New("booking failed")
}
