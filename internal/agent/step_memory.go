package agent

import (
	"fmt"
	"strings"

	"github.com/nbenliogludev/go-browser-crawler/internal/command"
)

// StepMemory keeps the previous command for the prompt, the full transcript
// for the report, and counts identical commands issued in a row.
type StepMemory struct {
	previous  string
	fullLines []string

	lastKey     string
	repeatCount int
	repeatLimit int

	loopTriggered bool
}

func NewStepMemory(repeatLimit int) *StepMemory {
	if repeatLimit <= 1 {
		repeatLimit = 2
	}
	return &StepMemory{repeatLimit: repeatLimit}
}

func (m *StepMemory) makeKey(url string, cmd command.Command) string {
	return fmt.Sprintf("%s|%s", url, cmd)
}

// Add records a successfully executed command.
func (m *StepMemory) Add(step int, url string, cmd command.Command) {
	m.previous = cmd.String()
	m.fullLines = append(m.fullLines, fmt.Sprintf("step=%d url=%s command=%s", step, url, cmd))

	key := m.makeKey(url, cmd)
	if key == m.lastKey {
		m.repeatCount++
	} else {
		m.lastKey = key
		m.repeatCount = 1
	}
}

// ShouldBlock reports whether cmd would exceed the repeat limit on url.
func (m *StepMemory) ShouldBlock(url string, cmd command.Command) (bool, string) {
	if m.makeKey(url, cmd) != m.lastKey || m.repeatCount < m.repeatLimit {
		return false, ""
	}
	return true, fmt.Sprintf(
		"the same command (%s) has already been executed %d times in a row on %s",
		cmd, m.repeatCount, url,
	)
}

func (m *StepMemory) AddSystemNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	m.fullLines = append(m.fullLines, note)
}

// Previous is the last executed command, or "" before the first one.
func (m *StepMemory) Previous() string {
	return m.previous
}

func (m *StepMemory) FullHistory() []string {
	if len(m.fullLines) == 0 {
		return nil
	}
	out := make([]string, len(m.fullLines))
	copy(out, m.fullLines)
	return out
}

func (m *StepMemory) MarkLoopTriggered() {
	m.loopTriggered = true
}

func (m *StepMemory) LoopTriggered() bool {
	return m.loopTriggered
}
