// Package pagetest provides an in-memory page.Page backed by goquery so DOM
// driven code can be tested without a browser.
package pagetest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/example/fumoto-monitor/internal/domain/page"
)

// ErrStale is returned when an element handle outlives a re-render.
var ErrStale = errors.New("stale element")

const hiddenSelector = "[hidden], [style*='display:none'], [style*='display: none']"

// Page is a scripted page. Navigate serves HTML from Routes; clicks run
// OnClick, which may Render new markup or SetURL to emulate transitions.
type Page struct {
	Routes map[string]string

	// Redirects sends a navigation to another URL, as an expired session does.
	Redirects map[string]string
	OnClick   func(p *Page, el *Element) error

	// Clicked holds the normalized text of every clicked element in order.
	Clicked     []string
	Navigations []string
	Shot        []byte
	ShotErr     error

	url string
	doc *goquery.Document
	gen int
}

func New(url, html string) *Page {
	p := &Page{Routes: map[string]string{}, Redirects: map[string]string{}}
	p.url = url
	p.Render(html)
	return p
}

// Render replaces the document. Existing element handles become stale.
func (p *Page) Render(html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		panic(fmt.Sprintf("pagetest: parse html: %v", err))
	}
	p.doc = doc
	p.gen++
}

func (p *Page) SetURL(url string) { p.url = url }

// Doc exposes the current document for assertions.
func (p *Page) Doc() *goquery.Document { return p.doc }

// Value returns the value attribute of the first element matching selector.
func (p *Page) Value(selector string) string {
	return p.doc.Find(selector).First().AttrOr("value", "")
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Navigations = append(p.Navigations, url)
	if to, ok := p.Redirects[url]; ok {
		url = to
	}
	p.url = url
	html, ok := p.Routes[url]
	if !ok {
		html = "<html><body></body></html>"
	}
	p.Render(html)
	return nil
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	return p.url, ctx.Err()
}

func (p *Page) FindAll(ctx context.Context, selector string) ([]page.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.wrap(p.doc.Find(selector)), nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if p.ShotErr != nil {
		return nil, p.ShotErr
	}
	if p.Shot == nil {
		return []byte("\x89PNG"), nil
	}
	return p.Shot, nil
}

func (p *Page) Source(ctx context.Context) (string, error) {
	return p.doc.Html()
}

func (p *Page) wrap(sel *goquery.Selection) []page.Element {
	out := make([]page.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{p: p, Sel: s, gen: p.gen})
	})
	return out
}

// Element is a handle on one node of the current document.
type Element struct {
	Sel *goquery.Selection

	p   *Page
	gen int
}

func (e *Element) live() error {
	if e.gen != e.p.gen {
		return ErrStale
	}
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := e.live(); err != nil {
		return "", err
	}
	return e.Sel.Text(), nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.live(); err != nil {
		return "", false, err
	}
	v, ok := e.Sel.Attr(name)
	return v, ok, nil
}

func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	if err := e.live(); err != nil {
		return false, err
	}
	if t, _ := e.Sel.Attr("type"); t == "hidden" {
		return false, nil
	}
	return e.Sel.Closest(hiddenSelector).Length() == 0, nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.live(); err != nil {
		return err
	}
	text, _ := page.NormalizedText(ctx, e)
	e.p.Clicked = append(e.p.Clicked, text)
	if e.p.OnClick != nil {
		return e.p.OnClick(e.p, e)
	}
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	if err := e.live(); err != nil {
		return err
	}
	e.Sel.SetAttr("value", "")
	return nil
}

func (e *Element) Type(ctx context.Context, text string) error {
	if err := e.live(); err != nil {
		return err
	}
	v, _ := e.Sel.Attr("value")
	e.Sel.SetAttr("value", v+text)
	return nil
}

func (e *Element) FindAll(ctx context.Context, selector string) ([]page.Element, error) {
	if err := e.live(); err != nil {
		return nil, err
	}
	return e.p.wrap(e.Sel.Find(selector)), nil
}

var _ page.Page = (*Page)(nil)
var _ page.Element = (*Element)(nil)
