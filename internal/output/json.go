package output

import (
	"encoding/json"
	"io"
	"strings"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes v as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", f.opts.indent()))
	return encoder.Encode(v)
}
