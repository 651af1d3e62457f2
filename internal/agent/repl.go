package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

const quitID = -1

// Manual is the operator-driven loop: pick an element id, optionally enter
// text, and the agent clicks it or types into it and presses Enter.
func (a *Agent) Manual(ctx context.Context, startURL string, delay time.Duration) error {
	if startURL != "" {
		if err := a.Goto(ctx, startURL); err != nil {
			return err
		}
	}
	if err := a.Refresh(ctx); err != nil {
		return err
	}

	for {
		PrintView(a.out, a.buf.Entries())
		fmt.Fprintln(a.out)

		rawID, err := a.console.ReadLine(ctx, "Enter id: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(rawID)
		if err != nil {
			fmt.Fprintf(a.out, "Not a number: %q\n", rawID)
			continue
		}
		if id == quitID {
			fmt.Fprintln(a.out, "Quitting...")
			return nil
		}

		query, err := a.console.ReadLine(ctx, "Enter query (if any): ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if query == "" {
			err = a.buf.Click(ctx, id)
		} else {
			err = a.buf.TypeSubmit(ctx, id, query)
		}
		if err != nil {
			a.log.Error().Err(err).Int("id", id).Msg("action failed")
			fmt.Fprintf(a.out, "Action failed: %v\n", err)
			continue
		}

		fmt.Fprint(a.out, "Crawling page...\n---------------------------------------------\n\n\n")
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		if err := a.Refresh(ctx); err != nil {
			return err
		}
	}
}
