package agent

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
	"github.com/nbenliogludev/go-browser-crawler/internal/command"
	"github.com/nbenliogludev/go-browser-crawler/internal/crawler"
)

func TestExecute(t *testing.T) {
	ctx := context.Background()
	page, link, search := newFakePage()
	a, _ := newTestAgent(t, page, nil, "")
	require.NoError(t, a.Refresh(ctx))

	require.NoError(t, a.Execute(ctx, command.Command{Verb: command.VerbClick, ID: 0}))
	require.NoError(t, a.Execute(ctx, command.Command{Verb: command.VerbType, ID: 1, Text: "a"}))
	require.NoError(t, a.Execute(ctx, command.Command{Verb: command.VerbTypeSubmit, ID: 1, Text: "b"}))
	require.NoError(t, a.Execute(ctx, command.Command{Verb: command.VerbScroll, Direction: browser.ScrollUp}))

	assert.Equal(t, []string{"click"}, link.calls)
	assert.Equal(t, []string{"fill:a", "fill:b", "press:Enter"}, search.calls)
	assert.Equal(t, []browser.Direction{browser.ScrollUp}, page.scrolls)
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()
	page, _, _ := newFakePage()
	a, _ := newTestAgent(t, page, nil, "")
	require.NoError(t, a.Refresh(ctx))

	err := a.Execute(ctx, command.Command{Verb: command.VerbClick, ID: 42})
	assert.ErrorIs(t, err, crawler.ErrUnknownID)
	assert.Contains(t, err.Error(), "CLICK 42")

	err = a.Execute(ctx, command.Command{Verb: "HOVER"})
	assert.ErrorIs(t, err, command.ErrUnknownVerb)
}

func TestConfirmCommand(t *testing.T) {
	suggested := command.Command{Verb: command.VerbClick, ID: 4}

	tests := []struct {
		name     string
		input    string
		want     command.Command
		wantQuit bool
	}{
		{name: "accept", input: "\n", want: suggested},
		{name: "quit", input: "q\n", wantQuit: true},
		{name: "eof", input: "", wantQuit: true},
		{name: "override", input: "scroll up\n", want: command.Command{Verb: command.VerbScroll, Direction: browser.ScrollUp}},
		{name: "retry after garbage", input: "jump\nCLICK 2\n", want: command.Command{Verb: command.VerbClick, ID: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _, _ := newFakePage()
			a, out := newTestAgent(t, page, nil, tt.input)

			got, quit, err := a.confirmCommand(context.Background(), suggested)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuit, quit)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Suggested command: CLICK 4")
		})
	}
}

func TestPrintView(t *testing.T) {
	var out bytes.Buffer
	PrintView(&out, []crawler.Entry{
		{ID: 0, Kind: crawler.KindLink, Text: "Home"},
		{ID: 1, Kind: crawler.KindButton, Text: "Go"},
		{ID: 2, Kind: crawler.KindImage, Text: "logo"},
		{ID: 3, Kind: crawler.KindInput, Text: "q"},
	})

	assert.Equal(t, "<link id=0>Home</link>\n"+
		"<button id=1>Go</button>\n"+
		"<img id=2 alt=\"logo\" />\n"+
		"<input id=3 alt=\"q\" />\n", out.String())
}
