package browser

import (
	"context"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/example/fumoto-monitor/internal/domain/page"
)

const (
	jsText    = `function() { return (this.innerText || this.textContent || "").trim(); }`
	jsAttr    = `function(name) { return this.hasAttribute(name) ? this.getAttribute(name) : null; }`
	jsVisible = `function() {
		const s = window.getComputedStyle(this);
		const r = this.getBoundingClientRect();
		return s.display !== "none" && s.visibility !== "hidden" && (r.width > 0 || r.height > 0);
	}`
	jsClick = `function() { this.scrollIntoView({block: "center"}); this.click(); return true; }`
)

// Page drives one Chrome tab. The caller's ctx is only checked for
// cancellation; the tab's own context carries the CDP session.
type Page struct {
	ctx context.Context
}

func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(p.ctx, actions...)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := p.run(ctx, chromedp.Location(&u))
	return u, err
}

func (p *Page) FindAll(ctx context.Context, selector string) ([]page.Element, error) {
	var nodes []*cdp.Node
	if err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	return p.wrap(nodes), nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := p.run(ctx, chromedp.FullScreenshot(&buf, 100))
	return buf, err
}

func (p *Page) Source(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *Page) wrap(nodes []*cdp.Node) []page.Element {
	out := make([]page.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{p: p, node: n})
	}
	return out
}

type Element struct {
	p    *Page
	node *cdp.Node
}

func (e *Element) call(ctx context.Context, fn string, res any, args ...any) error {
	return e.p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.CallFunctionOnNode(ctx, e.node, fn, res, args...)
	}))
}

func (e *Element) Text(ctx context.Context) (string, error) {
	var s string
	err := e.call(ctx, jsText, &s)
	return s, err
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	var v *string
	if err := e.call(ctx, jsAttr, &v, name); err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	var ok bool
	err := e.call(ctx, jsVisible, &ok)
	return ok, err
}

func (e *Element) Click(ctx context.Context) error {
	var ok bool
	return e.call(ctx, jsClick, &ok)
}

func (e *Element) Clear(ctx context.Context) error {
	return e.p.run(ctx, chromedp.Clear([]cdp.NodeID{e.node.NodeID}, chromedp.ByNodeID))
}

func (e *Element) Type(ctx context.Context, text string) error {
	return e.p.run(ctx, chromedp.SendKeys([]cdp.NodeID{e.node.NodeID}, text, chromedp.ByNodeID))
}

func (e *Element) FindAll(ctx context.Context, selector string) ([]page.Element, error) {
	var nodes []*cdp.Node
	err := e.p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(e.node), chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	return e.p.wrap(nodes), nil
}

var _ page.Page = (*Page)(nil)
var _ page.Element = (*Element)(nil)
