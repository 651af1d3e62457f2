package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
)

type Kind int

const (
	KindLink Kind = iota
	KindButton
	KindImage
	KindInput
)

var enumerationOrder = []Kind{KindLink, KindButton, KindImage, KindInput}

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindButton:
		return "button"
	case KindImage:
		return "img"
	case KindInput:
		return "input"
	default:
		return "unknown"
	}
}

func (k Kind) selector() string {
	switch k {
	case KindLink:
		return "a"
	case KindButton:
		return "button"
	case KindImage:
		return "img"
	default:
		return "input"
	}
}

// inputLabelAttrs is the fallback chain used to describe an input.
var inputLabelAttrs = []string{"title", "alt", "placeholder", "aria-label", "type", "name"}

// label extracts the display text for el; ok is false when el must be skipped.
func (k Kind) label(ctx context.Context, el browser.Element) (string, bool, error) {
	switch k {
	case KindLink, KindButton:
		text, err := el.InnerText(ctx)
		if err != nil {
			return "", false, err
		}
		text = cleanText(text)
		return text, text != "", nil

	case KindImage:
		alt, ok, err := el.Attribute(ctx, "alt")
		if err != nil {
			return "", false, err
		}
		alt = cleanText(alt)
		return alt, ok && alt != "", nil

	default:
		typ, _, err := el.Attribute(ctx, "type")
		if err != nil {
			return "", false, err
		}
		if strings.EqualFold(strings.TrimSpace(typ), "hidden") {
			return "", false, nil
		}
		for _, name := range inputLabelAttrs {
			v, ok, err := el.Attribute(ctx, name)
			if err != nil {
				return "", false, err
			}
			if v = cleanText(v); ok && v != "" {
				return v, true, nil
			}
		}
		return "", true, nil
	}
}

// cleanText trims s and folds newlines and whitespace runs into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Entry is one indexed element in its simplified form.
type Entry struct {
	ID   int
	Kind Kind
	Text string
}

func (e Entry) Tag() string {
	return FormatTag(e.Kind, e.ID, e.Text)
}

func FormatTag(kind Kind, id int, text string) string {
	switch kind {
	case KindLink:
		return fmt.Sprintf("<link id=%d>%s</link>", id, text)
	case KindButton:
		return fmt.Sprintf("<button id=%d>%s</button>", id, text)
	case KindImage:
		return fmt.Sprintf("<img id=%d alt=%q />", id, text)
	default:
		return fmt.Sprintf("<input id=%d alt=%q />", id, text)
	}
}
