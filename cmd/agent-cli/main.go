package main

import (
	"github.com/alecthomas/kong"
)

// Globals are the flags shared by every subcommand.
type Globals struct {
	Config   string `help:"YAML config file. Defaults to agent.yml when present." type:"path"`
	Driver   string `help:"Browser driver: playwright or chromedp."`
	Headless bool   `help:"Run the browser without a window."`
	LogLevel string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	Metrics  string `help:"Serve Prometheus metrics on this address, e.g. :9090."`
}

type CLI struct {
	Globals

	Run    RunCmd    `cmd:"" help:"Let the language model drive the browser toward an objective."`
	Manual ManualCmd `cmd:"" help:"Drive the browser yourself by element id."`
	Render RenderCmd `cmd:"" help:"Print the simplified element view of a saved HTML page."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("agent-cli"),
		kong.Description("A minimal browser agent: simplified page view in, one command out."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
