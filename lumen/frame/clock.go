package frame

import (
	"math"
	"time"
)

// MaxAnimationStep caps the delta time handed to the content animation in a
// single sub-step. Larger simulated steps are split for numerical stability.
const MaxAnimationStep = time.Second / 120

// maxAnimationDt is MaxAnimationStep in seconds. The sub-step count is
// computed in float seconds so that an exact multiple (e.g. 50ms) is not
// pushed over the boundary by nanosecond truncation.
const maxAnimationDt = 1.0 / 120.0

// StallThreshold is the wall-clock backlog beyond which the clock assumes
// the process was suspended (debugger, system sleep) and discards the
// backlog instead of catching up.
const StallThreshold = time.Second

// Clock integrates wall-clock time into simulated animation time.
//
// Start marks when the current animation burst began and Simulated how much
// animation time has been stepped since then. Simulated usually runs
// slightly ahead of wall time; the difference is spread over upcoming
// frames so that event-loop jitter does not show up as stutter.
type Clock struct {
	Start     time.Time
	Simulated time.Duration
}

// Reset re-anchors the clock at now with no simulated time. Called when
// animation starts from an idle state so that idle time does not register
// as a backlog.
func (c *Clock) Reset(now time.Time) {
	c.Start = now
	c.Simulated = 0
}

// Deadline returns the wall-clock instant the simulation has been advanced
// to. While a render is pending this is the only wake-up that matters.
func (c *Clock) Deadline() time.Time {
	return c.Start.Add(c.Simulated)
}

// Step advances the simulation by one frame of target duration plus any
// catch-up, invoking animate once per sub-step with the sub-step delta in
// seconds. It reports whether any sub-step indicated continued motion.
//
// Catch-up policy: a backlog of a full frame or more is applied at once,
// a smaller backlog is spread over ten frames. A backlog beyond
// StallThreshold resets the clock and advances exactly one target frame.
func (c *Clock) Step(now time.Time, target time.Duration, animate func(dt float64) bool) bool {
	if target <= 0 {
		target = MaxAnimationStep
	}

	elapsed := now.Sub(c.Start)
	delta := elapsed - c.Simulated
	if delta < 0 {
		delta = 0
	}

	var step time.Duration
	if delta > StallThreshold {
		c.Reset(now)
		step = target
	} else {
		var catchup time.Duration
		if delta >= target {
			catchup = delta
		} else {
			catchup = delta / 10
		}
		step = target + catchup
	}
	c.Simulated += step

	numSteps := int(math.Ceil(step.Seconds() / maxAnimationDt))
	if numSteps < 1 {
		numSteps = 1
	}
	sub := step / time.Duration(numSteps)

	animating := false
	for i := 0; i < numSteps; i++ {
		if animate(sub.Seconds()) {
			animating = true
		}
	}
	return animating
}
