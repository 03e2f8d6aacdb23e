package frame

import "time"

// DecisionKind orders redraw urgency: Wait < Deadline < Immediately.
type DecisionKind uint8

const (
	// Wait means no redraw is needed before the next frame deadline.
	Wait DecisionKind = iota
	// Deadline means a redraw is needed no later than Decision.At.
	Deadline
	// Immediately means a redraw is needed right away.
	Immediately
)

func (k DecisionKind) String() string {
	switch k {
	case Wait:
		return "wait"
	case Deadline:
		return "deadline"
	case Immediately:
		return "immediately"
	}
	return "unknown"
}

// Decision expresses the urgency of the next redraw. The zero value is Wait.
// At is only meaningful when Kind is Deadline.
type Decision struct {
	Kind DecisionKind
	At   time.Time
}

// DeadlineAt returns a Deadline decision for the given instant.
func DeadlineAt(t time.Time) Decision {
	return Decision{Kind: Deadline, At: t}
}

// Merge joins two decisions, keeping the more urgent one. Two deadlines
// combine to the earlier instant. Merge is commutative, associative and
// idempotent, so it can be folded over any number of per-event updates
// within a cycle in any order.
func Merge(a, b Decision) Decision {
	switch {
	case a.Kind == Immediately || b.Kind == Immediately:
		return Decision{Kind: Immediately}
	case a.Kind == Deadline && b.Kind == Deadline:
		if b.At.Before(a.At) {
			return b
		}
		return a
	case a.Kind == Deadline:
		return a
	case b.Kind == Deadline:
		return b
	default:
		return Decision{Kind: Wait}
	}
}

// Update merges other into d in place.
func (d *Decision) Update(other Decision) {
	*d = Merge(*d, other)
}
