package agent

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nbenliogludev/go-browser-crawler/internal/command"
)

// Execute dispatches cmd against the current page and buffer.
func (a *Agent) Execute(ctx context.Context, cmd command.Command) error {
	a.log.Info().Str("command", cmd.String()).Msg("executing command")

	var err error
	switch cmd.Verb {
	case command.VerbScroll:
		err = a.page.Scroll(ctx, cmd.Direction)
	case command.VerbClick:
		err = a.buf.Click(ctx, cmd.ID)
	case command.VerbType:
		err = a.buf.Type(ctx, cmd.ID, cmd.Text)
	case command.VerbTypeSubmit:
		err = a.buf.TypeSubmit(ctx, cmd.ID, cmd.Text)
	default:
		err = fmt.Errorf("%w: %q", command.ErrUnknownVerb, cmd.Verb)
	}

	if err != nil {
		a.metrics.CommandFailed(string(cmd.Verb))
		return fmt.Errorf("%s: %w", cmd, err)
	}
	a.metrics.CommandExecuted(string(cmd.Verb))
	return nil
}

// confirmCommand lets the operator run, replace or refuse the suggested command.
func (a *Agent) confirmCommand(ctx context.Context, suggested command.Command) (command.Command, bool, error) {
	fmt.Fprintf(a.out, "Suggested command: %s\n", suggested)

	for {
		answer, err := a.console.ReadLine(ctx, "(enter) to run, (q) to quit, or type your own command: ")
		if errors.Is(err, io.EOF) {
			return command.Command{}, true, nil
		}
		if err != nil {
			return command.Command{}, false, err
		}

		switch answer {
		case "":
			return suggested, false, nil
		case "q", "Q":
			return command.Command{}, true, nil
		}

		own, perr := command.Parse(answer)
		if perr != nil {
			fmt.Fprintf(a.out, "Could not parse command: %v\n", perr)
			continue
		}
		return own, false, nil
	}
}
