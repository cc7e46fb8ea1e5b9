// Package output provides output formatters for command results.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Formatter formats a result for output.
type Formatter interface {
	// Format writes the formatted value to the writer.
	Format(w io.Writer, v any) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatPlain FormatType = "plain"
)

// ParseFormat parses a format name. "text" is accepted for plain.
func ParseFormat(s string) (FormatType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "plain", "text", "":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (want json, yaml or plain)", s)
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template string // Custom template for plain format
	Indent   int    // Indent width for json/yaml (0 = 2)
}

func (o FormatterOptions) indent() int {
	if o.Indent <= 0 {
		return 2
	}
	return o.Indent
}
