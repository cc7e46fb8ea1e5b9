package popover

// Reason explains why a close was requested.
type Reason int

const (
	// ReasonPointerLeft means pointer movement settled outside the
	// hit-region.
	ReasonPointerLeft Reason = iota + 1
	// ReasonOutsideClick means the host reported a click outside the
	// popover.
	ReasonOutsideClick
)

func (r Reason) String() string {
	switch r {
	case ReasonPointerLeft:
		return "pointer-left"
	case ReasonOutsideClick:
		return "outside-click"
	default:
		return "unknown"
	}
}
