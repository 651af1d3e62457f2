package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
	"github.com/nbenliogludev/go-browser-crawler/internal/command"
	"github.com/nbenliogludev/go-browser-crawler/internal/llm"
)

// executeStep refreshes the page, asks the model for one command and runs it.
// quit is set when the operator stops the run.
func (r *Runner) executeStep(ctx context.Context, step int) (quit bool, err error) {
	a := r.agent
	a.metrics.StepStarted()
	fmt.Fprintf(a.out, "\n--- STEP %d ---\n", step)

	if err := a.Refresh(ctx); err != nil {
		if errors.Is(err, browser.ErrNoBody) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", ErrSnapshotFail, err)
	}

	url, err := a.page.URL(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrSnapshotFail, err)
	}
	view := a.buf.View()

	if r.opts.Confirm {
		PrintView(a.out, a.buf.Entries())
	}
	fmt.Fprintf(a.out, "URL: %s\n", url)

	start := time.Now()
	raw, err := a.llm.NextCommand(ctx, llm.Input{
		Objective:       r.opts.Objective,
		URL:             url,
		PreviousCommand: r.mem.Previous(),
		BrowserContent:  view,
	})
	a.metrics.ObserveModelLatency(time.Since(start))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrLLMFail, err)
	}

	cmd, err := command.Parse(raw)
	if err != nil {
		a.metrics.ParseFailed()
		r.mem.AddSystemNote(fmt.Sprintf("SYSTEM NOTE: model reply %q was not a command: %v", raw, err))
		r.reporter.LogCommand(step, url, raw, "unparseable")
		return false, nil
	}

	if blocked, reason := r.mem.ShouldBlock(url, cmd); blocked {
		a.log.Warn().Str("command", cmd.String()).Msgf("repeat guard: %s", reason)
		r.mem.MarkLoopTriggered()
		r.mem.AddSystemNote("SYSTEM NOTE: " + reason)
		r.reporter.LogCommand(step, url, cmd.String(), "blocked by repeat guard, scrolled down")
		return false, a.page.Scroll(ctx, browser.ScrollDown)
	}

	if r.opts.Confirm {
		cmd, quit, err = a.confirmCommand(ctx, cmd)
		if err != nil {
			return false, err
		}
		if quit {
			return true, nil
		}
	}

	if err := a.Execute(ctx, cmd); err != nil {
		r.mem.AddSystemNote(fmt.Sprintf("SYSTEM ERROR: %v", err))
		r.reporter.LogCommand(step, url, cmd.String(), "failed")
		return false, err
	}

	r.mem.Add(step, url, cmd)
	r.reporter.LogCommand(step, url, cmd.String(), "ok")
	return false, nil
}
