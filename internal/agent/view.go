package agent

import (
	"io"

	"github.com/fatih/color"

	"github.com/nbenliogludev/go-browser-crawler/internal/crawler"
)

var kindColors = map[crawler.Kind]*color.Color{
	crawler.KindLink:   color.New(color.FgBlue),
	crawler.KindButton: color.New(color.FgGreen),
	crawler.KindImage:  color.New(color.FgMagenta),
	crawler.KindInput:  color.New(color.FgYellow),
}

// PrintView writes one tag per line, coloured by element kind.
func PrintView(w io.Writer, entries []crawler.Entry) {
	for _, e := range entries {
		c, ok := kindColors[e.Kind]
		if !ok {
			c = color.New(color.FgWhite)
		}
		c.Fprintln(w, e.Tag())
	}
}
