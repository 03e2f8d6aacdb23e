package lumen

import (
	"time"

	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/platform"
	"github.com/lumen-gui/lumen/lumen/timing"
)

// pumpInterval caps the event-loop wait when the backend needs its OS
// events polled from this goroutine.
const pumpInterval = 5 * time.Millisecond

// App runs the event loop: it waits until the next wake deadline or an
// event, handles everything pending, and runs one orchestrator cycle.
type App struct {
	queue *events.Queue
	orch  *Orchestrator
	pump  platform.Pumper

	// MaxFrames stops the loop after that many rendered frames. Zero
	// means run until an Exit event.
	MaxFrames int
}

// NewApp creates the event loop around an orchestrator. backend may be nil
// or may implement platform.Pumper for polled backends.
func NewApp(queue *events.Queue, orch *Orchestrator, backend platform.Backend) *App {
	a := &App{queue: queue, orch: orch}
	if p, ok := backend.(platform.Pumper); ok {
		a.pump = p
	}
	return a
}

// Run blocks until an Exit event arrives or MaxFrames is reached.
func (a *App) Run() error {
	for {
		deadline := a.orch.NextWake()
		wake := deadline
		if a.pump != nil {
			if capped := time.Now().Add(pumpInterval); capped.Before(wake) {
				wake = capped
			}
		}

		handled, exit := a.waitAndHandle(wake)
		if exit {
			return nil
		}

		if a.pump != nil {
			a.pump.Pump()
			more, exit := a.drain()
			if exit {
				return nil
			}
			handled = handled || more
		}

		if handled || !time.Now().Before(deadline) {
			a.orch.PrepareAndAnimate()
		}

		if a.MaxFrames > 0 && a.orch.State().FramesRendered >= a.MaxFrames {
			return nil
		}
	}
}

// waitAndHandle blocks until wake or the first event, then handles every
// event already queued so one cycle covers the whole burst.
func (a *App) waitAndHandle(wake time.Time) (handled, exit bool) {
	remaining := time.Until(wake)
	if remaining <= 0 {
		return a.drain()
	}

	// Wake slightly early and spin the residue; timer delivery alone has
	// too much jitter for frame pacing.
	timerWait := remaining - timing.SpinThreshold
	if timerWait < 0 {
		timerWait = 0
	}
	timer := time.NewTimer(timerWait)
	defer timer.Stop()

	select {
	case ev := <-a.queue.Events():
		if a.handle(ev) {
			return true, true
		}
		_, exit = a.drain()
		return true, exit
	case <-timer.C:
		timing.SleepUntil(wake)
		return a.drain()
	}
}

// drain handles all currently queued events without blocking.
func (a *App) drain() (handled, exit bool) {
	for {
		select {
		case ev := <-a.queue.Events():
			handled = true
			if a.handle(ev) {
				return handled, true
			}
		default:
			return handled, false
		}
	}
}

// handle dispatches one event; it reports whether the loop should exit.
func (a *App) handle(ev events.Event) bool {
	if _, ok := ev.(events.Exit); ok {
		return true
	}
	a.orch.HandleEvent(ev)
	return false
}
