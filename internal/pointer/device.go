package pointer

import (
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"
)

// Capability classifies the primary input device.
type Capability int

const (
	// None means no pointer events are delivered at all.
	None Capability = iota
	// Coarse is a touch-only device: it has no hover state.
	Coarse
	// Fine is a mouse or trackpad that reports movement without a press.
	Fine
)

func (c Capability) String() string {
	switch c {
	case Fine:
		return "fine"
	case Coarse:
		return "coarse"
	default:
		return "none"
	}
}

// CanHover reports whether pointer movement can be observed without a press.
func (c Capability) CanHover() bool {
	return c == Fine
}

// Classifier reports the current device capability.
type Classifier func() Capability

// Static returns a Classifier that always reports c.
func Static(c Capability) Classifier {
	return func() Capability { return c }
}

// Pointer modes accepted by ParseMode and Detect.
const (
	ModeAuto   = "auto"
	ModeFine   = "fine"
	ModeCoarse = "coarse"
	ModeNone   = "none"
)

// ParseMode validates a configured pointer mode.
func ParseMode(mode string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	switch m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeFine, ModeCoarse, ModeNone:
		return m, nil
	default:
		return "", fmt.Errorf("invalid pointer mode %q: must be auto, fine, coarse or none", mode)
	}
}

// Detect builds a Classifier for a configured mode. In auto mode a terminal
// on fd is treated as mouse capable, anything else as having no pointer.
func Detect(mode string, fd uintptr) (Classifier, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	switch m {
	case ModeFine:
		return Static(Fine), nil
	case ModeCoarse:
		return Static(Coarse), nil
	case ModeNone:
		return Static(None), nil
	}
	return func() Capability {
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return Fine
		}
		return None
	}, nil
}
