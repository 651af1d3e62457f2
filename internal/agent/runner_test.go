package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
	"github.com/nbenliogludev/go-browser-crawler/internal/logging"
	"github.com/nbenliogludev/go-browser-crawler/internal/metrics"
)

func TestRunner_ExecutesModelCommands(t *testing.T) {
	page, link, search := newFakePage()
	model := &scriptedModel{replies: []string{
		"CLICK 0",
		`TYPESUBMIT 1 "go modules"`,
		"SCROLL DOWN",
	}}
	a, out := newTestAgent(t, page, model, "")

	err := NewRunner(a, RunOptions{
		Objective:   "find docs",
		StartURL:    "https://example.com/start",
		MaxSteps:    3,
		RepeatLimit: 3,
	}).Run(context.Background())

	require.ErrorIs(t, err, ErrMaxSteps)
	assert.Equal(t, []string{"https://example.com/start"}, page.visited)
	assert.Equal(t, []string{"click"}, link.calls)
	assert.Equal(t, []string{"fill:go modules", "press:Enter"}, search.calls)
	assert.Equal(t, []browser.Direction{browser.ScrollDown}, page.scrolls)

	require.Len(t, model.inputs, 3)
	first := model.inputs[0]
	assert.Equal(t, "find docs", first.Objective)
	assert.Equal(t, "https://example.com/start", first.URL)
	assert.Equal(t, "", first.PreviousCommand)
	assert.Equal(t, "<link id=0>Docs</link>\n<input id=1 alt=\"Search\" />", first.BrowserContent)
	assert.Equal(t, "CLICK 0", model.inputs[1].PreviousCommand)
	assert.Equal(t, `TYPESUBMIT 1 "go modules"`, model.inputs[2].PreviousCommand)

	assert.Contains(t, out.String(), "EXECUTION REPORT")
	assert.Contains(t, out.String(), string(ReasonMaxSteps))
}

func TestRunner_RepeatGuardScrollsInstead(t *testing.T) {
	page, link, _ := newFakePage()
	model := &scriptedModel{replies: []string{"CLICK 0"}}
	a, out := newTestAgent(t, page, model, "")

	err := NewRunner(a, RunOptions{MaxSteps: 4, RepeatLimit: 2}).Run(context.Background())

	require.ErrorIs(t, err, ErrMaxSteps)
	assert.Equal(t, []string{"click", "click"}, link.calls)
	assert.Equal(t, []browser.Direction{browser.ScrollDown, browser.ScrollDown}, page.scrolls)
	assert.Contains(t, out.String(), "Repeat guard: triggered")
}

func TestRunner_UnparseableReplyIsSkipped(t *testing.T) {
	page, link, _ := newFakePage()
	model := &scriptedModel{replies: []string{"I would click the docs link", "CLICK 0"}}
	a, out := newTestAgent(t, page, model, "")

	err := NewRunner(a, RunOptions{MaxSteps: 2, RepeatLimit: 3}).Run(context.Background())

	require.ErrorIs(t, err, ErrMaxSteps)
	assert.Equal(t, []string{"click"}, link.calls)
	assert.Contains(t, out.String(), "unparseable")
}

func TestRunner_ActionErrorDoesNotStopRun(t *testing.T) {
	page, link, _ := newFakePage()
	link.clickErr = errors.New("element detached")
	model := &scriptedModel{replies: []string{"CLICK 0", "CLICK 7", "SCROLL UP"}}
	a, out := newTestAgent(t, page, model, "")

	err := NewRunner(a, RunOptions{MaxSteps: 3, RepeatLimit: 3}).Run(context.Background())

	require.ErrorIs(t, err, ErrMaxSteps)
	assert.Equal(t, []browser.Direction{browser.ScrollUp}, page.scrolls)
	assert.Contains(t, out.String(), "element detached")
	assert.Contains(t, out.String(), "unknown element id")
}

func TestRunner_ModelErrorIsReported(t *testing.T) {
	page, _, _ := newFakePage()
	model := &scriptedModel{err: errors.New("quota exceeded")}
	a, out := newTestAgent(t, page, model, "")

	err := NewRunner(a, RunOptions{MaxSteps: 1}).Run(context.Background())

	require.ErrorIs(t, err, ErrMaxSteps)
	assert.Contains(t, out.String(), "llm error: quota exceeded")
}

func TestRunner_NoBodyIsFatal(t *testing.T) {
	page, _, _ := newFakePage()
	page.noBody = true
	a, out := newTestAgent(t, page, &scriptedModel{replies: []string{"CLICK 0"}}, "")

	err := NewRunner(a, RunOptions{MaxSteps: 5}).Run(context.Background())

	require.ErrorIs(t, err, browser.ErrNoBody)
	assert.Contains(t, out.String(), string(ReasonFatal))
}

func TestRunner_NoModel(t *testing.T) {
	page, _, _ := newFakePage()
	a, _ := newTestAgent(t, page, nil, "")

	err := NewRunner(a, RunOptions{MaxSteps: 1}).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestRunner_CancelledContext(t *testing.T) {
	page, link, _ := newFakePage()
	a, out := newTestAgent(t, page, &scriptedModel{replies: []string{"CLICK 0"}}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRunner(a, RunOptions{MaxSteps: 3}).Run(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Empty(t, link.calls)
	assert.Contains(t, out.String(), string(ReasonInterrupted))
}

func TestRunner_ConfirmMode(t *testing.T) {
	page, link, search := newFakePage()
	model := &scriptedModel{replies: []string{"CLICK 0", "CLICK 0", "SCROLL DOWN"}}
	// run the first suggestion, replace the second, then quit.
	a, out := newTestAgent(t, page, model, "\nTYPE 1 \"hi\"\nq\n")

	err := NewRunner(a, RunOptions{MaxSteps: 5, RepeatLimit: 3, Confirm: true}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"click"}, link.calls)
	assert.Equal(t, []string{"fill:hi"}, search.calls)
	assert.Empty(t, page.scrolls)
	assert.Contains(t, out.String(), "Suggested command: CLICK 0")
	assert.Contains(t, out.String(), "<link id=0>Docs</link>")
	assert.Contains(t, out.String(), string(ReasonOperatorQuit))
}

func TestRunner_CancelWhileWaitingForConfirmation(t *testing.T) {
	page, link, _ := newFakePage()
	stdin, stdinWriter := io.Pipe()
	t.Cleanup(func() { _ = stdinWriter.Close() })

	var out bytes.Buffer
	a := NewAgent(page, &scriptedModel{replies: []string{"CLICK 0"}}, Options{
		Log:     zerolog.Nop(),
		Metrics: metrics.NewRecorder(),
		Out:     &out,
		In:      stdin,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewRunner(a, RunOptions{MaxSteps: 3, RepeatLimit: 3, Confirm: true}).Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrInterrupted)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancellation while waiting for the operator")
	}
	assert.Empty(t, link.calls)
	assert.Contains(t, out.String(), string(ReasonInterrupted))
}

func TestRunner_ConsoleOutputIsRedacted(t *testing.T) {
	page, _, search := newFakePage()
	model := &scriptedModel{replies: []string{`TYPESUBMIT 1 "hunter2"`}}

	var out bytes.Buffer
	a := NewAgent(page, model, Options{
		Log:     zerolog.Nop(),
		Metrics: metrics.NewRecorder(),
		Out:     logging.NewRedactor([]string{"hunter2"}).Writer(&out),
		In:      strings.NewReader("\n"),
	})

	err := NewRunner(a, RunOptions{MaxSteps: 1, Confirm: true}).Run(context.Background())

	require.ErrorIs(t, err, ErrMaxSteps)
	assert.Equal(t, []string{"fill:hunter2", "press:Enter"}, search.calls)
	assert.Contains(t, out.String(), `Suggested command: TYPESUBMIT 1 "********"`)
	assert.Contains(t, out.String(), "EXECUTION REPORT")
	assert.NotContains(t, out.String(), "hunter2")
}

func TestRunner_SharesConsoleWithCaller(t *testing.T) {
	page, link, _ := newFakePage()
	var out bytes.Buffer
	console := NewConsole(strings.NewReader("open the docs\n\nq\n"), &out)

	objective, err := console.ReadLine(context.Background(), "objective> ")
	require.NoError(t, err)
	require.Equal(t, "open the docs", objective)

	a := NewAgent(page, &scriptedModel{replies: []string{"CLICK 0"}}, Options{
		Log:     zerolog.Nop(),
		Metrics: metrics.NewRecorder(),
		Out:     &out,
		Console: console,
	})
	err = NewRunner(a, RunOptions{Objective: objective, MaxSteps: 5, RepeatLimit: 3, Confirm: true}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"click"}, link.calls)
	assert.Contains(t, out.String(), string(ReasonOperatorQuit))
}
