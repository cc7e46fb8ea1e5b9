package trace

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Action is what a trace event does.
type Action string

const (
	ActionMove   Action = "move"
	ActionClick  Action = "click"
	ActionOpen   Action = "open"
	ActionClose  Action = "close"
	ActionScroll Action = "scroll"
)

// Offset is a time offset from the start of the trace. It accepts
// duration strings ("250ms") or integer milliseconds.
type Offset time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Offset) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: offset must be a scalar", value.Line)
	}
	if ms, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*o = Offset(time.Duration(ms) * time.Millisecond)
		return nil
	}
	d, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid offset %q: %w", value.Line, value.Value, err)
	}
	*o = Offset(d)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o Offset) MarshalYAML() (interface{}, error) {
	return time.Duration(o).String(), nil
}

// Duration returns the underlying time.Duration.
func (o Offset) Duration() time.Duration { return time.Duration(o) }

// Event is one step of a trace.
type Event struct {
	At     Offset  `yaml:"at"`
	Action Action  `yaml:"action,omitempty"` // Defaults to move
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

// Trace is a recorded sequence of pointer events.
type Trace struct {
	Scene  string  `yaml:"scene,omitempty"`
	Events []Event `yaml:"events"`
}

// Parse decodes a YAML trace and validates event order.
func Parse(r io.Reader) (*Trace, error) {
	var t Trace
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if err == io.EOF {
			return &t, nil
		}
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads a trace file.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Validate checks that events are in time order and actions are known.
func (t *Trace) Validate() error {
	var prev time.Duration
	for i := range t.Events {
		ev := &t.Events[i]
		if ev.Action == "" {
			ev.Action = ActionMove
		}
		switch ev.Action {
		case ActionMove, ActionClick, ActionOpen, ActionClose, ActionScroll:
		default:
			return fmt.Errorf("event %d: unknown action %q", i, ev.Action)
		}
		at := ev.At.Duration()
		if at < 0 {
			return fmt.Errorf("event %d: negative offset %s", i, at)
		}
		if at < prev {
			return fmt.Errorf("event %d: offset %s is before previous event at %s", i, at, prev)
		}
		prev = at
	}
	return nil
}

// Span returns the offset of the last event.
func (t *Trace) Span() time.Duration {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].At.Duration()
}
