package agent

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Reporter struct {
	out       io.Writer
	log       zerolog.Logger
	objective string
	start     time.Time
	trace     []string
	finalURL  string
}

func NewReporter(out io.Writer, log zerolog.Logger, objective string) *Reporter {
	return &Reporter{
		out:       out,
		log:       log,
		objective: objective,
		start:     time.Now(),
	}
}

func (r *Reporter) LogCommand(step int, url, raw, outcome string) {
	r.finalURL = url
	r.trace = append(r.trace, fmt.Sprintf("STEP %d | URL=%s | COMMAND=%s | %s", step, url, raw, outcome))
	r.log.Info().
		Int("step", step).
		Str("url", url).
		Str("command", raw).
		Str("outcome", outcome).
		Msg("step finished")
}

func (r *Reporter) StepError(step int, err error) {
	r.trace = append(r.trace, fmt.Sprintf("STEP %d | ERROR=%v", step, err))
	r.log.Warn().Int("step", step).Err(err).Msg("step error")
}

func (r *Reporter) Finish(reason ExitReason, mem *StepMemory) {
	duration := time.Since(r.start).Truncate(time.Millisecond)
	r.log.Info().
		Str("reason", string(reason)).
		Dur("duration", duration).
		Int("steps", len(r.trace)).
		Msg("run finished")

	fmt.Fprintln(r.out, "\n===== EXECUTION REPORT =====")
	fmt.Fprintf(r.out, "Objective: %s\n", r.objective)
	fmt.Fprintf(r.out, "Duration: %s\n", duration)
	fmt.Fprintf(r.out, "Exit reason: %s\n", reason)
	if r.finalURL != "" {
		fmt.Fprintf(r.out, "Final URL: %s\n", r.finalURL)
	}
	if mem != nil && mem.LoopTriggered() {
		fmt.Fprintln(r.out, "Repeat guard: triggered")
	}

	fmt.Fprintln(r.out, "\n--- STEP TRACE ---")
	if len(r.trace) == 0 {
		fmt.Fprintln(r.out, "(no steps recorded)")
	} else {
		fmt.Fprintln(r.out, strings.Join(r.trace, "\n"))
	}

	if mem != nil {
		if notes := mem.FullHistory(); len(notes) > 0 {
			fmt.Fprintln(r.out, "\n--- HISTORY ---")
			fmt.Fprintln(r.out, strings.Join(notes, "\n"))
		}
	}
	fmt.Fprintln(r.out, "===== END OF REPORT =====")
}
