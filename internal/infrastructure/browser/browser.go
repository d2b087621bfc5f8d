package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/example/fumoto-monitor/internal/domain/page"
)

type Options struct {
	// UserDataDir keeps cookies between cycles so the site session survives.
	UserDataDir string
	ExecPath    string
	Headless    bool
	// Timeout bounds the lifetime of one page.
	Timeout time.Duration
	Log     logrus.FieldLogger
}

// Chrome starts a fresh headless Chrome for every Open.
type Chrome struct {
	opts Options
}

func New(opts Options) *Chrome {
	return &Chrome{opts: opts}
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.opts.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "ja-JP"),
		chromedp.Flag("profile-directory", "Default"),
		chromedp.WindowSize(1280, 2000),
	)
	if c.opts.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(c.opts.UserDataDir))
	}
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	return opts
}

func (c *Chrome) Open(ctx context.Context) (page.Page, func(), error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)

	var ctxOpts []chromedp.ContextOption
	if c.opts.Log != nil {
		ctxOpts = append(ctxOpts, chromedp.WithErrorf(c.opts.Log.Errorf))
	}
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, ctxOpts...)

	cancelTimeout := func() {}
	if c.opts.Timeout > 0 {
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, c.opts.Timeout)
	}
	closeAll := func() {
		cancelTimeout()
		cancelTab()
		cancelAlloc()
	}
	if err := chromedp.Run(tabCtx); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("start chrome: %w", err)
	}
	return &Page{ctx: tabCtx}, closeAll, nil
}
