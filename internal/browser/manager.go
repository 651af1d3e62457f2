package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Manager drives Chromium through playwright.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	Page    playwright.Page
}

func NewManager(opts Options) (*Manager, error) {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return nil, fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start pw failed: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
		},
	}
	b, err := pw.Chromium.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium failed: %w", err)
	}

	pageOpts := playwright.BrowserNewPageOptions{}
	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		pageOpts.Viewport = &playwright.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight}
	}
	if opts.UserAgent != "" {
		pageOpts.UserAgent = playwright.String(opts.UserAgent)
	}

	page, err := b.NewPage(pageOpts)
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if opts.Timeout > 0 {
		ms := float64(opts.Timeout.Milliseconds())
		page.SetDefaultTimeout(ms)
		page.SetDefaultNavigationTimeout(ms)
	}

	return &Manager{
		pw:      pw,
		browser: b,
		Page:    page,
	}, nil
}

func (m *Manager) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (m *Manager) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Page.URL(), nil
}

func (m *Manager) body() (playwright.ElementHandle, error) {
	body, err := m.Page.QuerySelector("body")
	if err != nil {
		return nil, fmt.Errorf("query body: %w", err)
	}
	if body == nil {
		return nil, ErrNoBody
	}
	return body, nil
}

func (m *Manager) Body(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.body()
	return err
}

func (m *Manager) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := m.body()
	if err != nil {
		return nil, err
	}
	handles, err := body.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &pwElement{handle: h})
	}
	return out, nil
}

func (m *Manager) Scroll(ctx context.Context, dir Direction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	expr, err := scrollExpression(dir)
	if err != nil {
		return err
	}
	_, err = m.Page.Evaluate(expr)
	return err
}

func (m *Manager) Close() error {
	var firstErr error
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			firstErr = err
		}
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type pwElement struct {
	handle playwright.ElementHandle
}

func (e *pwElement) InnerText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.handle.InnerText()
}

func (e *pwElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", false, err
	}
	return v, v != "", nil
}

func (e *pwElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.Click()
}

func (e *pwElement) Fill(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.Fill(text)
}

func (e *pwElement) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.Press(key)
}
