package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNoBody   = errors.New("page has no body element")
	ErrReadOnly = errors.New("page is read-only")
)

// Direction is a scroll direction, one viewport at a time.
type Direction string

const (
	ScrollUp   Direction = "up"
	ScrollDown Direction = "down"
)

const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
)

// Page is the live document the crawler enumerates and acts on.
type Page interface {
	Goto(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	// Body reports ErrNoBody when the parsed document has no <body>, as with
	// frameset pages. HTML parsers add a body to everything else.
	Body(ctx context.Context) error
	// QueryAll returns every element under <body> matching selector, in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	Scroll(ctx context.Context, dir Direction) error
	Close() error
}

// Element is a handle to a single node on a Page.
type Element interface {
	InnerText(ctx context.Context) (string, error)
	// Attribute returns the attribute value and whether it was present.
	Attribute(ctx context.Context, name string) (string, bool, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	Press(ctx context.Context, key string) error
}

type Options struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	Timeout        time.Duration
	UserDataDir    string
	UserAgent      string
}

func DefaultOptions() Options {
	return Options{
		Headless:       false,
		ViewportWidth:  1280,
		ViewportHeight: 1080,
		Timeout:        30 * time.Second,
	}
}

// Open starts a live browser with the named driver.
func Open(driver string, opts Options) (Page, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverPlaywright:
		return NewManager(opts)
	case DriverChromedp:
		return NewChromeClient(opts)
	default:
		return nil, fmt.Errorf("unknown browser driver %q", driver)
	}
}

func scrollExpression(dir Direction) (string, error) {
	switch dir {
	case ScrollUp:
		return `window.scrollBy(0, -window.innerHeight)`, nil
	case ScrollDown:
		return `window.scrollBy(0, window.innerHeight)`, nil
	default:
		return "", fmt.Errorf("unknown scroll direction %q", dir)
	}
}
