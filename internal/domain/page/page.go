// Package page is the capability set the monitor needs from a rendered page.
// Element handles do not survive navigation or re-render; callers re-resolve
// them after every click that changes the page.
package page

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is wrapped by every lookup failure (missing button, row, cell...).
var ErrNotFound = errors.New("not found")

type Element interface {
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	IsVisible(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
	FindAll(ctx context.Context, selector string) ([]Element, error)
}

type Page interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Source(ctx context.Context) (string, error)
}

// Settle waits for the page to re-render. It returns early with the context
// error when ctx is cancelled.
func Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NormalizedText returns the element text with newlines folded into spaces.
func NormalizedText(ctx context.Context, el Element) (string, error) {
	s, err := el.Text(ctx)
	if err != nil {
		return "", err
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s), nil
}

// FirstMatch returns the first element whose normalized text satisfies match.
// Elements whose text cannot be read are skipped.
func FirstMatch(ctx context.Context, els []Element, visibleOnly bool, match func(text string) bool) (Element, bool) {
	for _, el := range els {
		if visibleOnly {
			v, err := el.IsVisible(ctx)
			if err != nil || !v {
				continue
			}
		}
		text, err := NormalizedText(ctx, el)
		if err != nil {
			continue
		}
		if match(text) {
			return el, true
		}
	}
	return nil, false
}
