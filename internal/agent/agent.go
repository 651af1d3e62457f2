package agent

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
	"github.com/nbenliogludev/go-browser-crawler/internal/crawler"
	"github.com/nbenliogludev/go-browser-crawler/internal/llm"
	"github.com/nbenliogludev/go-browser-crawler/internal/metrics"
)

type Options struct {
	Log     zerolog.Logger
	Metrics *metrics.Recorder
	// Out and In are the operator console; they default to stdout and stdin.
	Out io.Writer
	In  io.Reader
	// Console, when set, replaces In so a caller can share one reader with
	// the agent.
	Console *Console
}

// Agent owns the page, its element buffer and the operator console.
type Agent struct {
	page    browser.Page
	buf     *crawler.Buffer
	llm     llm.Client
	metrics *metrics.Recorder
	log     zerolog.Logger

	out     io.Writer
	console *Console
}

// NewAgent builds an agent; client may be nil for manual sessions.
func NewAgent(page browser.Page, client llm.Client, opts Options) *Agent {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRecorder()
	}
	if opts.Console == nil {
		opts.Console = NewConsole(opts.In, opts.Out)
	}
	return &Agent{
		page:    page,
		buf:     crawler.NewBuffer(opts.Log),
		llm:     client,
		metrics: opts.Metrics,
		log:     opts.Log,
		out:     opts.Out,
		console: opts.Console,
	}
}

func (a *Agent) Buffer() *crawler.Buffer {
	return a.buf
}

func (a *Agent) Goto(ctx context.Context, url string) error {
	a.log.Info().Str("url", url).Msg("navigating")
	return a.page.Goto(ctx, url)
}

// Refresh re-enumerates the page; ids from the previous refresh are invalid afterwards.
func (a *Agent) Refresh(ctx context.Context) error {
	if err := a.buf.Refresh(ctx, a.page); err != nil {
		return err
	}
	a.metrics.ElementsIndexed(a.buf.Len())
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
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
