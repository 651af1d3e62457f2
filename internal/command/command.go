// Package command parses the single-line browser commands issued by the model
// or typed by an operator.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
)

type Verb string

const (
	VerbScroll     Verb = "SCROLL"
	VerbClick      Verb = "CLICK"
	VerbType       Verb = "TYPE"
	VerbTypeSubmit Verb = "TYPESUBMIT"
)

var (
	ErrEmpty       = errors.New("empty command")
	ErrUnknownVerb = errors.New("unknown command")
	ErrBadArgs     = errors.New("malformed command arguments")
)

type Command struct {
	Verb      Verb
	Direction browser.Direction
	ID        int
	Text      string
}

func (c Command) String() string {
	switch c.Verb {
	case VerbScroll:
		return fmt.Sprintf("SCROLL %s", strings.ToUpper(string(c.Direction)))
	case VerbClick:
		return fmt.Sprintf("CLICK %d", c.ID)
	case VerbType, VerbTypeSubmit:
		return fmt.Sprintf("%s %d %q", c.Verb, c.ID, c.Text)
	default:
		return string(c.Verb)
	}
}

var (
	scrollRe = regexp.MustCompile(`(?i)^SCROLL\s+(UP|DOWN)$`)
	clickRe  = regexp.MustCompile(`(?i)^CLICK\s+(-?\d+)$`)
	typeRe   = regexp.MustCompile(`(?i)^(TYPE|TYPESUBMIT)\s+(-?\d+)\s+(.+)$`)
)

// Parse reads the first non-empty line of s as a command.
func Parse(s string) (Command, error) {
	line := firstLine(s)
	if line == "" {
		return Command{}, ErrEmpty
	}

	fields := strings.Fields(line)
	switch Verb(strings.ToUpper(fields[0])) {
	case VerbScroll:
		m := scrollRe.FindStringSubmatch(line)
		if m == nil {
			return Command{}, fmt.Errorf("%w: %q", ErrBadArgs, line)
		}
		return Command{Verb: VerbScroll, Direction: browser.Direction(strings.ToLower(m[1]))}, nil

	case VerbClick:
		m := clickRe.FindStringSubmatch(line)
		if m == nil {
			return Command{}, fmt.Errorf("%w: %q", ErrBadArgs, line)
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q: %v", ErrBadArgs, line, err)
		}
		return Command{Verb: VerbClick, ID: id}, nil

	case VerbType, VerbTypeSubmit:
		m := typeRe.FindStringSubmatch(line)
		if m == nil {
			return Command{}, fmt.Errorf("%w: %q", ErrBadArgs, line)
		}
		id, err := strconv.Atoi(m[2])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q: %v", ErrBadArgs, line, err)
		}
		return Command{
			Verb: Verb(strings.ToUpper(m[1])),
			ID:   id,
			Text: unquote(strings.TrimSpace(m[3])),
		}, nil

	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownVerb, line)
	}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "`")
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// unquote reads a Go-quoted string as String prints it, and otherwise strips
// one pair of surrounding double quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if text, err := strconv.Unquote(s); err == nil {
			return text
		}
		return s[1 : len(s)-1]
	}
	return s
}
