package agent

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_ReadLine(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("  first \nlast"), &out)
	ctx := context.Background()

	line, err := c.ReadLine(ctx, "a> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = c.ReadLine(ctx, "b> ")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = c.ReadLine(ctx, "c> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "a> b> c> ", out.String())
}

func TestConsole_CancelKeepsLateLine(t *testing.T) {
	in, w := io.Pipe()
	c := NewConsole(in, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ReadLine(ctx, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	go func() {
		_, _ = io.WriteString(w, "late\n")
		_ = w.Close()
	}()

	line, err := c.ReadLine(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "late", line)

	_, err = c.ReadLine(context.Background(), "")
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsole_CancelledBeforePrompt(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("x\n"), &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ReadLine(ctx, "> ")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
