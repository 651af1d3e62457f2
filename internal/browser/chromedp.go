package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// ChromeClient drives Chrome directly over the DevTools protocol.
type ChromeClient struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
}

func NewChromeClient(opts Options) (*ChromeClient, error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Headless)
	}
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	c := &ChromeClient{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
	}

	// first Run starts the browser
	if err := chromedp.Run(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("start chrome failed: %w", err)
	}
	return c, nil
}

// run executes actions on the tab, aborting when either the tab or ctx ends.
func (c *ChromeClient) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	if c.opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, c.opts.Timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (c *ChromeClient) Goto(ctx context.Context, url string) error {
	err := c.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (c *ChromeClient) URL(ctx context.Context) (string, error) {
	var loc string
	if err := c.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

func (c *ChromeClient) Body(ctx context.Context) error {
	var nodes []*cdp.Node
	if err := c.run(ctx, chromedp.Nodes("body", &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return fmt.Errorf("query body: %w", err)
	}
	if len(nodes) == 0 {
		return ErrNoBody
	}
	return nil
}

func (c *ChromeClient) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := c.Body(ctx); err != nil {
		return nil, err
	}
	var nodes []*cdp.Node
	if err := c.run(ctx, chromedp.Nodes("body "+selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &cdpElement{client: c, node: n})
	}
	return out, nil
}

func (c *ChromeClient) Scroll(ctx context.Context, dir Direction) error {
	expr, err := scrollExpression(dir)
	if err != nil {
		return err
	}
	return c.run(ctx, chromedp.Evaluate(expr, nil))
}

func (c *ChromeClient) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

type cdpElement struct {
	client *ChromeClient
	node   *cdp.Node
}

// call runs fn with `this` bound to the element and decodes the result into out.
func (e *cdpElement) call(ctx context.Context, fn string, out any) error {
	return e.client.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().
			WithBackendNodeID(e.node.BackendNodeID).
			Do(ctx)
		if err != nil {
			return fmt.Errorf("resolve node failed: %w", err)
		}
		if obj == nil || obj.ObjectID == "" {
			return fmt.Errorf("object id is empty (node might be detached)")
		}

		res, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("script exception: %s", exc.Text)
		}
		if out == nil || res == nil || len(res.Value) == 0 {
			return nil
		}
		return json.Unmarshal([]byte(res.Value), out)
	}))
}

func (e *cdpElement) InnerText(ctx context.Context) (string, error) {
	var text string
	err := e.call(ctx, `function() { return this.innerText || ""; }`, &text)
	return text, err
}

func (e *cdpElement) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.node.Attribute(name)
	return v, ok, nil
}

func (e *cdpElement) Click(ctx context.Context) error {
	return e.call(ctx, `function() {
		if (this.scrollIntoViewIfNeeded) {
			this.scrollIntoViewIfNeeded();
		} else if (this.scrollIntoView) {
			this.scrollIntoView({ block: "center", inline: "center" });
		}
		this.click();
	}`, nil)
}

func (e *cdpElement) Fill(ctx context.Context, text string) error {
	quoted, err := json.Marshal(text)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`function() {
		if (this.scrollIntoViewIfNeeded) {
			this.scrollIntoViewIfNeeded();
		}
		this.focus();
		this.value = %s;
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
	}`, quoted)
	return e.call(ctx, script, nil)
}

func (e *cdpElement) Press(ctx context.Context, key string) error {
	keys := key
	if key == "Enter" {
		keys = kb.Enter
	}
	return e.client.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.Focus().WithBackendNodeID(e.node.BackendNodeID).Do(ctx); err != nil {
			return fmt.Errorf("focus failed: %w", err)
		}
		return chromedp.KeyEvent(keys).Do(ctx)
	}))
}
