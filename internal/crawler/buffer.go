package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
)

var ErrUnknownID = errors.New("unknown element id")

// Buffer maps ids to live element handles and their simplified tags for the
// page as it was at the last Refresh.
type Buffer struct {
	elements map[int]browser.Element
	entries  map[int]Entry
	next     int

	log zerolog.Logger
}

func NewBuffer(log zerolog.Logger) *Buffer {
	return &Buffer{
		elements: make(map[int]browser.Element),
		entries:  make(map[int]Entry),
		log:      log.With().Str("component", "crawler").Logger(),
	}
}

// Reset drops every element; ids start again from 0.
func (b *Buffer) Reset() {
	clear(b.elements)
	clear(b.entries)
	b.next = 0
}

func (b *Buffer) Refresh(ctx context.Context, page browser.Page) error {
	b.Reset()
	return b.Add(ctx, page)
}

// Add enumerates links, buttons, images and inputs under the page body, in
// that order, and appends every element with usable text.
func (b *Buffer) Add(ctx context.Context, page browser.Page) error {
	if err := page.Body(ctx); err != nil {
		return err
	}

	for _, kind := range enumerationOrder {
		elems, err := page.QueryAll(ctx, kind.selector())
		if err != nil {
			return fmt.Errorf("enumerating %ss: %w", kind, err)
		}

		for _, el := range elems {
			text, ok, err := kind.label(ctx, el)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				b.log.Debug().Err(err).Str("kind", kind.String()).Msg("skipping unreadable element")
				continue
			}
			if !ok {
				continue
			}
			b.put(kind, text, el)
		}
	}

	b.log.Debug().Int("elements", b.Len()).Msg("buffer refreshed")
	return nil
}

func (b *Buffer) put(kind Kind, text string, el browser.Element) {
	id := b.next
	b.next++
	b.elements[id] = el
	b.entries[id] = Entry{ID: id, Kind: kind, Text: text}
}

func (b *Buffer) Len() int {
	return len(b.entries)
}

// Entries returns every entry in id order.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, 0, len(b.entries))
	for id := 0; id < b.next; id++ {
		if e, ok := b.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (b *Buffer) Tags() []string {
	entries := b.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Tag()
	}
	return out
}

// View is the simplified page text sent to the model.
func (b *Buffer) View() string {
	return strings.Join(b.Tags(), "\n")
}

func (b *Buffer) Entry(id int) (Entry, bool) {
	e, ok := b.entries[id]
	return e, ok
}

func (b *Buffer) Element(id int) (browser.Element, error) {
	el, ok := b.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return el, nil
}

func (b *Buffer) Click(ctx context.Context, id int) error {
	el, err := b.Element(id)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

func (b *Buffer) Type(ctx context.Context, id int, text string) error {
	el, err := b.Element(id)
	if err != nil {
		return err
	}
	return el.Fill(ctx, text)
}

// TypeSubmit fills the element and presses Enter to submit its form.
func (b *Buffer) TypeSubmit(ctx context.Context, id int, text string) error {
	el, err := b.Element(id)
	if err != nil {
		return err
	}
	if err := el.Fill(ctx, text); err != nil {
		return err
	}
	return el.Press(ctx, "Enter")
}
