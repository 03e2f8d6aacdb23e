package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lumen-gui/lumen/lumen/bridge"
	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/renderer"
)

// host stands in for the external process driving the UI. It consumes
// outbound messages and, in demo mode, feeds animated content batches.
type host struct {
	queue *events.Queue
	sink  *bridge.ChannelSink
	demo  bool

	mu   sync.Mutex
	cols int
	rows int
}

func newHost(queue *events.Queue, sink *bridge.ChannelSink, demo bool) *host {
	return &host{queue: queue, sink: sink, demo: demo, cols: 80, rows: 24}
}

func (h *host) run() {
	if h.demo {
		go h.feedDemo()
	} else {
		// Without a host process there is no readiness handshake; show
		// the window right away.
		h.queue.Post(events.CommandBatch{Commands: renderer.Batch{renderer.Ready{}}})
	}

	for msg := range h.sink.Messages() {
		switch m := msg.(type) {
		case bridge.Quit:
			h.queue.Post(events.Exit{})
			return
		case bridge.GridResize:
			h.mu.Lock()
			h.cols, h.rows = m.Columns, m.Rows
			h.mu.Unlock()
		case bridge.FocusGained:
			slog.Debug("Focus gained")
		case bridge.FocusLost:
			slog.Debug("Focus lost")
		case bridge.FileDropped:
			slog.Info("File dropped", "path", m.Path)
		case bridge.SetBackground:
			slog.Info("System theme changed", "theme", m.Theme)
		case bridge.AvailableFonts:
			slog.Info("Available fonts", "fonts", m.Names)
		}
	}
}

func (h *host) grid() (cols, rows int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cols, h.rows
}

// feedDemo posts content batches animating a bouncing cursor and a clock,
// enough to exercise pacing, buffering and cursor animation.
func (h *host) feedDemo() {
	h.queue.Post(events.CommandBatch{Commands: renderer.Batch{
		renderer.SetDefaultColors{Foreground: "#e6e6e6", Background: "#1d2021"},
		renderer.Clear{},
		renderer.Ready{},
	}})

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	tick := 0
	for range ticker.C {
		cols, rows := h.grid()
		if cols < 1 || rows < 3 {
			continue
		}
		tick++

		cursorRow := 2 + (tick % maxInt(rows-2, 1))
		batch := renderer.Batch{
			renderer.SetLine{Row: 0, Col: 0, Text: time.Now().Format("15:04:05")},
			renderer.SetLine{Row: 1, Col: 0, Text: strings.Repeat("-", minInt(cols, 40))},
			renderer.SetLine{Row: cursorRow, Col: 0, Text: fmt.Sprintf("frame tick %d", tick)},
			renderer.CursorGoto{Row: cursorRow, Col: 0},
		}
		h.queue.Post(events.CommandBatch{Commands: batch})
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
