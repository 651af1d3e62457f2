package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
	"github.com/nbenliogludev/go-browser-crawler/internal/llm"
	"github.com/nbenliogludev/go-browser-crawler/internal/metrics"
)

func init() {
	color.NoColor = true
}

type fakePage struct {
	groups  map[string][]browser.Element
	noBody  bool
	url     string
	visited []string
	scrolls []browser.Direction
}

// newFakePage builds a page with one link (id 0) and one search input (id 1).
func newFakePage() (*fakePage, *fakeElement, *fakeElement) {
	link := &fakeElement{text: "Docs"}
	search := &fakeElement{attrs: map[string]string{"placeholder": "Search"}}
	return &fakePage{
		url: "https://example.com",
		groups: map[string][]browser.Element{
			"a":     {link},
			"input": {search},
		},
	}, link, search
}

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.visited = append(p.visited, url)
	p.url = url
	return nil
}

func (p *fakePage) URL(context.Context) (string, error) {
	return p.url, nil
}

func (p *fakePage) Close() error {
	return nil
}

func (p *fakePage) Scroll(_ context.Context, dir browser.Direction) error {
	p.scrolls = append(p.scrolls, dir)
	return nil
}

func (p *fakePage) Body(context.Context) error {
	if p.noBody {
		return browser.ErrNoBody
	}
	return nil
}

func (p *fakePage) QueryAll(_ context.Context, selector string) ([]browser.Element, error) {
	return p.groups[selector], nil
}

type fakeElement struct {
	text     string
	attrs    map[string]string
	clickErr error
	calls    []string
}

func (e *fakeElement) InnerText(context.Context) (string, error) {
	return e.text, nil
}

func (e *fakeElement) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) Click(context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.calls = append(e.calls, "click")
	return nil
}

func (e *fakeElement) Fill(_ context.Context, text string) error {
	e.calls = append(e.calls, "fill:"+text)
	return nil
}

func (e *fakeElement) Press(_ context.Context, key string) error {
	e.calls = append(e.calls, "press:"+key)
	return nil
}

// scriptedModel replays replies in order and repeats the last one.
type scriptedModel struct {
	replies []string
	err     error
	inputs  []llm.Input
}

func (m *scriptedModel) NextCommand(_ context.Context, in llm.Input) (string, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func newTestAgent(t *testing.T, page browser.Page, model llm.Client, input string) (*Agent, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	a := NewAgent(page, model, Options{
		Log:     zerolog.Nop(),
		Metrics: metrics.NewRecorder(),
		Out:     out,
		In:      strings.NewReader(input),
	})
	return a, out
}
