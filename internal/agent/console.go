package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// Console is the operator prompt. Reads happen on a background goroutine so a
// waiting prompt gives way to context cancellation; a line that arrives after
// cancellation is kept for the next ReadLine.
type Console struct {
	out io.Writer
	in  *bufio.Reader

	start   sync.Once
	req     chan struct{}
	res     chan lineResult
	pending bool
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		out: out,
		in:  bufio.NewReader(in),
		req: make(chan struct{}),
		res: make(chan lineResult, 1),
	}
}

// ReadLine prompts and reads one trimmed line. io.EOF means the operator is
// gone; ctx.Err() is returned when ctx ends first.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, prompt)

	c.start.Do(func() { go c.loop() })
	if !c.pending {
		c.req <- struct{}{}
		c.pending = true
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-c.res:
		c.pending = false
		return r.line, r.err
	}
}

func (c *Console) loop() {
	for range c.req {
		line, err := c.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			c.res <- lineResult{err: err}
			continue
		}
		c.res <- lineResult{line: strings.TrimSpace(line)}
	}
}
