package frame

// FocusState tracks window focus for refresh-rate selection. A window that
// just lost focus keeps the active refresh rate until one frame has been
// painted unfocused.
type FocusState uint8

const (
	Focused FocusState = iota
	UnfocusedNotDrawn
	Unfocused
)

func (f FocusState) String() string {
	switch f {
	case Focused:
		return "focused"
	case UnfocusedNotDrawn:
		return "unfocused-not-drawn"
	case Unfocused:
		return "unfocused"
	}
	return "unknown"
}

// UsesActiveRate reports whether the active refresh-rate target applies.
// Only a fully unfocused window drops to the idle rate.
func (f FocusState) UsesActiveRate() bool {
	return f != Unfocused
}
