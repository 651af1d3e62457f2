package logging

import (
	"io"
	"sort"
	"strings"
)

const mask = "********"

// Redactor masks secret values, e.g. passwords the agent was asked to type.
type Redactor struct {
	secrets []string
}

func NewRedactor(secrets []string) *Redactor {
	var kept []string
	for _, s := range secrets {
		if s != "" {
			kept = append(kept, s)
		}
	}
	// longer secrets first so overlapping ones are fully masked
	sort.Slice(kept, func(i, j int) bool {
		return len(kept[i]) > len(kept[j])
	})
	return &Redactor{secrets: kept}
}

func (r *Redactor) Redact(s string) string {
	if r == nil {
		return s
	}
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, mask)
	}
	return s
}

// Writer wraps w so that everything written through it is redacted.
func (r *Redactor) Writer(w io.Writer) io.Writer {
	if r == nil || len(r.secrets) == 0 {
		return w
	}
	return &redactWriter{r: r, w: w}
}

type redactWriter struct {
	r *Redactor
	w io.Writer
}

func (rw *redactWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(rw.w, rw.r.Redact(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
