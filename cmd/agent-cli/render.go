package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/nbenliogludev/go-browser-crawler/internal/agent"
	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
	"github.com/nbenliogludev/go-browser-crawler/internal/crawler"
	"github.com/nbenliogludev/go-browser-crawler/internal/llm"
)

type RenderCmd struct {
	File      string `arg:"" type:"existingfile" help:"Saved HTML page."`
	Objective string `help:"Also print the model prompt for this objective."`
	MaxChars  int    `help:"Truncate the browser content in the prompt to this many characters." default:"0"`
}

func (r *RenderCmd) Run(g *Globals) error {
	page, err := browser.OpenStaticPage(r.File)
	if err != nil {
		return err
	}
	defer page.Close()

	level, err := zerolog.ParseLevel(g.LogLevel)
	if err != nil || g.LogLevel == "" {
		level = zerolog.WarnLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	return render(context.Background(), os.Stdout, page, log, r.Objective, r.MaxChars)
}

func render(ctx context.Context, w io.Writer, page browser.Page, log zerolog.Logger, objective string, maxChars int) error {
	buf := crawler.NewBuffer(log)
	if err := buf.Refresh(ctx, page); err != nil {
		return err
	}
	agent.PrintView(w, buf.Entries())

	if objective == "" {
		return nil
	}
	url, err := page.URL(ctx)
	if err != nil {
		return err
	}
	prompt, err := llm.RenderPrompt(llm.Input{
		Objective:      objective,
		URL:            url,
		BrowserContent: buf.View(),
	}, maxChars)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n----- PROMPT -----\n%s\n", prompt)
	return nil
}
