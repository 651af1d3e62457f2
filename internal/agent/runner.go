package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
)

type RunOptions struct {
	Objective string
	// StartURL is opened before the first step; empty keeps the current page.
	StartURL    string
	MaxSteps    int
	StepDelay   time.Duration
	Confirm     bool
	RepeatLimit int
}

// Runner drives the page toward an objective one model command at a time.
type Runner struct {
	agent    *Agent
	opts     RunOptions
	mem      *StepMemory
	reporter *Reporter
}

func NewRunner(a *Agent, opts RunOptions) *Runner {
	return &Runner{
		agent:    a,
		opts:     opts,
		mem:      NewStepMemory(opts.RepeatLimit),
		reporter: NewReporter(a.out, a.log, opts.Objective),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	if r.agent.llm == nil {
		return ErrNoModel
	}

	signals := NewSignalController(ctx)
	defer signals.Close()
	ctx = signals.Context()

	if r.opts.StartURL != "" {
		if err := r.agent.Goto(ctx, r.opts.StartURL); err != nil {
			r.reporter.Finish(ReasonFatal, r.mem)
			return err
		}
	}

	for step := 1; step <= r.opts.MaxSteps; step++ {
		if signals.Interrupted() {
			r.reporter.Finish(ReasonInterrupted, r.mem)
			return ErrInterrupted
		}

		quit, err := r.executeStep(ctx, step)
		switch {
		case err == nil:
		case errors.Is(err, browser.ErrNoBody):
			r.reporter.Finish(ReasonFatal, r.mem)
			return err
		case signals.Interrupted():
			r.reporter.Finish(ReasonInterrupted, r.mem)
			return ErrInterrupted
		default:
			r.reporter.StepError(step, err)
		}

		if quit {
			r.reporter.Finish(ReasonOperatorQuit, r.mem)
			return nil
		}

		if err := sleep(ctx, r.opts.StepDelay); err != nil {
			r.reporter.Finish(ReasonInterrupted, r.mem)
			return ErrInterrupted
		}
	}

	r.reporter.Finish(ReasonMaxSteps, r.mem)
	return fmt.Errorf("%w (%d)", ErrMaxSteps, r.opts.MaxSteps)
}
