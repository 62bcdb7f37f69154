package logger

import (
	"io"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Redactor masks credentials in log lines
type Redactor struct {
	rules []rule
}

// NewRedactor creates a redactor with the default rules
func NewRedactor() *Redactor {
	r := &Redactor{}

	// Capability token and API key headers, as JSON fields or header dumps
	r.addHeaders("oaktoken", "x-api-key")

	// Bearer tokens
	r.add(`Bearer\s+[a-zA-Z0-9._~+/=-]+`, "Bearer "+redacted)

	// Provider API keys
	r.add(`sk-(?:ant-)?[a-zA-Z0-9_-]{20,}`, redacted)

	// Generic secrets
	r.add(`(?i)((?:password|secret)["\s:=]+)[^\s",}]+`, `${1}`+redacted)

	return r
}

func (r *Redactor) add(pattern, replacement string) {
	r.rules = append(r.rules, rule{
		pattern:     regexp.MustCompile(pattern),
		replacement: replacement,
	})
}

func (r *Redactor) addHeaders(names ...string) {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			quoted = append(quoted, regexp.QuoteMeta(name))
		}
	}
	if len(quoted) == 0 {
		return
	}

	alt := strings.Join(quoted, "|")
	r.add(`(?i)("(?:`+alt+`)"\s*:\s*)"[^"]*"`, `${1}"`+redacted+`"`)
	r.add(`(?i)\b((?:`+alt+`)\s*[:=]\s*)[^\s",}]+`, `${1}`+redacted)
}

// AddHeader masks the value of a header name, matched case-insensitively
func (r *Redactor) AddHeader(name string) {
	r.addHeaders(name)
}

// AddPattern adds a custom pattern whose matches are replaced entirely
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.rules = append(r.rules, rule{pattern: re, replacement: redacted})
	return nil
}

// Redact applies every rule to s
func (r *Redactor) Redact(s string) string {
	for _, rl := range r.rules {
		s = rl.pattern.ReplaceAllString(s, rl.replacement)
	}
	return s
}

// Wrap returns a writer that redacts before writing to w
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{
		writer:   w,
		redactor: r,
	}
}

type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

// Write reports len(p) on success, the redacted line may be shorter or longer
func (w *redactingWriter) Write(p []byte) (int, error) {
	if _, err := w.writer.Write([]byte(w.redactor.Redact(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
