package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// Plain is implemented by results with their own text rendering.
type Plain interface {
	PlainText() string
}

// PlainFormatter formats results as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
	err      error
}

// NewPlainFormatter creates a new plain text formatter. A template that
// fails to parse is reported by Format.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		f.template, f.err = template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
	}

	return f
}

// Format writes v using the custom template, its PlainText rendering, or
// its default formatting, in that order of preference.
func (f *PlainFormatter) Format(w io.Writer, v any) error {
	if f.err != nil {
		return fmt.Errorf("invalid template: %w", f.err)
	}
	if f.template != nil {
		if err := f.template.Execute(w, v); err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var text string
	if p, ok := v.(Plain); ok {
		text = p.PlainText()
	} else {
		text = fmt.Sprint(v)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ms": func(d time.Duration) int64 { return d.Milliseconds() },
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"upper": strings.ToUpper,
	}
}
