package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level string
	// Dir receives one JSON log file per run; empty disables file logging.
	Dir     string
	RunID   string
	Secrets []string
	Console io.Writer
}

// Logger is the run logger plus the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	Path string

	file     *os.File
	redactor *Redactor
}

func New(opts Options) (*Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	redactor := NewRedactor(opts.Secrets)
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: redactor.Writer(console), TimeFormat: time.Kitchen},
	}

	l := &Logger{redactor: redactor}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating logs directory %q: %w", opts.Dir, err)
		}
		l.Path = filepath.Join(opts.Dir, fmt.Sprintf("%s.json", opts.RunID))
		f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("creating log file %q: %w", l.Path, err)
		}
		l.file = f
		writers = append(writers, redactor.Writer(f))
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp()
	if opts.RunID != "" {
		ctx = ctx.Str("run_id", opts.RunID)
	}
	l.Logger = ctx.Logger()

	return l, nil
}

// ConsoleWriter wraps w with the same secret masking the log sinks use.
func (l *Logger) ConsoleWriter(w io.Writer) io.Writer {
	return l.redactor.Writer(w)
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
