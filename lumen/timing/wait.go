// Package timing provides precise deadline waiting for the event loop.
package timing

import "time"

// SpinThreshold is the residual wait below which SleepUntil busy-waits
// instead of sleeping. Sleeping has millisecond-level jitter on most
// platforms; frame pacing needs better.
const SpinThreshold = 2 * time.Millisecond

// SleepUntil blocks until the deadline, combining sleep for efficiency with
// a short busy-wait for accuracy. A deadline in the past returns
// immediately.
func SleepUntil(deadline time.Time) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return
	}
	if remaining > SpinThreshold {
		time.Sleep(remaining - time.Millisecond)
	}
	for time.Now().Before(deadline) {
	}
}
