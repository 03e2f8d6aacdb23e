// Package bridge carries outbound signals from the window core to the host
// editor process. The core never talks to the host directly; it is handed a
// Sink at construction so tests can observe every outbound message.
package bridge

import "sync"

// Message is an outbound signal to the host process.
type Message interface {
	isMessage()
}

// Quit asks the host to shut down.
type Quit struct{}

// FocusLost reports the window lost focus.
type FocusLost struct{}

// FocusGained reports the window gained focus.
type FocusGained struct{}

// FileDropped forwards a file dropped on the window.
type FileDropped struct {
	Path string
}

// GridResize reports a new logical grid size for the host to adopt.
type GridResize struct {
	Columns int
	Rows    int
}

// AvailableFonts answers a font-list query.
type AvailableFonts struct {
	Names []string
}

// SetBackground reports the effective background theme ("light"/"dark").
type SetBackground struct {
	Theme string
}

func (Quit) isMessage()           {}
func (FocusLost) isMessage()      {}
func (FocusGained) isMessage()    {}
func (FileDropped) isMessage()    {}
func (GridResize) isMessage()     {}
func (AvailableFonts) isMessage() {}
func (SetBackground) isMessage()  {}

// Sink accepts outbound messages. Send must not block the event loop for
// long; implementations buffer or drop.
type Sink interface {
	Send(Message)
}

// ChannelSink forwards messages over a buffered channel, dropping when the
// consumer falls behind. A stalled host must not stall rendering.
type ChannelSink struct {
	ch chan Message
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{ch: make(chan Message, bufferSize)}
}

// Send implements Sink.
func (s *ChannelSink) Send(msg Message) {
	select {
	case s.ch <- msg:
	default:
	}
}

// Messages returns the receive side for the host bridge consumer.
func (s *ChannelSink) Messages() <-chan Message {
	return s.ch
}

// Recorder is a Sink that stores every message, for tests.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

// Send implements Sink.
func (r *Recorder) Send(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// Messages returns a copy of all recorded messages in order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Reset clears recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}
