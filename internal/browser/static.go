package browser

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// StaticPage is a parsed HTML snapshot. It can be enumerated but not acted on.
type StaticPage struct {
	doc *goquery.Document
	url string
}

func NewStaticPage(r io.Reader, url string) (*StaticPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &StaticPage{doc: doc, url: url}, nil
}

func OpenStaticPage(path string) (*StaticPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	return NewStaticPage(f, "file://"+path)
}

func (p *StaticPage) Goto(context.Context, string) error {
	return ErrReadOnly
}

func (p *StaticPage) URL(context.Context) (string, error) {
	return p.url, nil
}

// Body follows the HTML parser, which synthesizes a <body> for any HTML
// document the way a browser does; only frameset documents end up without one.
func (p *StaticPage) Body(context.Context) error {
	if p.doc.Find("body").Length() == 0 {
		return ErrNoBody
	}
	return nil
}

func (p *StaticPage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := p.Body(ctx); err != nil {
		return nil, err
	}
	sel := p.doc.Find("body").Find(selector)
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &staticElement{sel: s})
	})
	return out, nil
}

func (p *StaticPage) Scroll(context.Context, Direction) error {
	return ErrReadOnly
}

func (p *StaticPage) Close() error {
	return nil
}

type staticElement struct {
	sel *goquery.Selection
}

// InnerText approximates innerText with the node's text content; CSS
// visibility is not known for a static document.
func (e *staticElement) InnerText(context.Context) (string, error) {
	return e.sel.Text(), nil
}

func (e *staticElement) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func (e *staticElement) Click(context.Context) error {
	return ErrReadOnly
}

func (e *staticElement) Fill(context.Context, string) error {
	return ErrReadOnly
}

func (e *staticElement) Press(context.Context, string) error {
	return ErrReadOnly
}
