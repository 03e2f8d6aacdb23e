package frame

import "time"

// Rates holds the redraw frequency targets in Hz.
type Rates struct {
	Active float64
	Idle   float64
}

// Snapshot captures the scheduler-relevant parts of the per-window render
// state at the end of a cycle.
type Snapshot struct {
	Focus              FocusState
	PendingRender      bool
	Decision           Decision
	PreviousFrameStart time.Time
	AnimationDeadline  time.Time
}

// Scheduler computes the next required wake time from refresh-rate targets,
// pending state and the accumulated render decision. It must be consulted
// after every dispatched event, since each event may shift urgency.
type Scheduler struct {
	rates func() Rates
}

// NewScheduler returns a scheduler pulling refresh-rate targets from rates.
func NewScheduler(rates func() Rates) *Scheduler {
	return &Scheduler{rates: rates}
}

// RefreshRate returns the target refresh rate for the given focus state,
// floored at 1 Hz.
func (s *Scheduler) RefreshRate(focus FocusState) float64 {
	r := s.rates()
	rate := r.Idle
	if focus.UsesActiveRate() {
		rate = r.Active
	}
	if rate < 1 {
		rate = 1
	}
	return rate
}

// FrameDeadline returns the instant the next frame is due based purely on
// the refresh-rate target.
func (s *Scheduler) FrameDeadline(snap Snapshot) time.Time {
	rate := s.RefreshRate(snap.Focus)
	period := time.Duration(float64(time.Second) / rate)
	return snap.PreviousFrameStart.Add(period)
}

// EventDeadline returns the next wake time for the event loop.
//
// While a render is pending only its own completion matters, so the wake is
// exactly the animation deadline regardless of the current decision.
func (s *Scheduler) EventDeadline(snap Snapshot, now time.Time) time.Time {
	if snap.PendingRender {
		return snap.AnimationDeadline
	}

	switch snap.Decision.Kind {
	case Immediately:
		return now
	case Deadline:
		frameDeadline := s.FrameDeadline(snap)
		if snap.Decision.At.Before(frameDeadline) {
			return snap.Decision.At
		}
		return frameDeadline
	default:
		return s.FrameDeadline(snap)
	}
}
