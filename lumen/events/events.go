// Package events defines the event types delivered to the window event
// loop, and the thread-safe queue external producers post into.
package events

import (
	"github.com/lumen-gui/lumen/lumen/renderer"
	"github.com/lumen-gui/lumen/lumen/settings"
)

// Event is anything the event loop can consume. Implementations are small
// value types; the queue never interprets them.
type Event interface {
	isEvent()
}

// Platform window events.

// Resized reports a new inner size in pixels.
type Resized struct {
	Width  int
	Height int
}

// CloseRequested reports the user asked to close the window.
type CloseRequested struct{}

// FocusChanged reports a focus gain or loss.
type FocusChanged struct {
	Focused bool
}

// ScaleFactorChanged reports a new OS scale factor.
type ScaleFactorChanged struct {
	ScaleFactor float64
}

// ThemeChanged reports an OS theme switch ("light" or "dark").
type ThemeChanged struct {
	Theme string
}

// Moved reports a window move; the display (and its refresh rate) may have
// changed.
type Moved struct {
	X int
	Y int
}

// IMEStateChanged reports the platform IME being enabled or disabled.
type IMEStateChanged struct {
	Enabled bool
}

// FileDropped reports a file dropped onto the window.
type FileDropped struct {
	Path string
}

// RedrawRequested is the platform's redraw callback: either the response to
// a requested redraw under vsync throttling, or an OS-initiated repaint.
type RedrawRequested struct{}

func (Resized) isEvent()            {}
func (CloseRequested) isEvent()     {}
func (FocusChanged) isEvent()       {}
func (ScaleFactorChanged) isEvent() {}
func (ThemeChanged) isEvent()       {}
func (Moved) isEvent()              {}
func (IMEStateChanged) isEvent()    {}
func (FileDropped) isEvent()        {}
func (RedrawRequested) isEvent()    {}

// Application events, injected by the host bridge and internal subsystems.

// CommandBatch carries a content-update batch from the host process.
type CommandBatch struct {
	Commands renderer.Batch
}

// SetTitle changes the window title.
type SetTitle struct {
	Title string
}

// Minimize minimizes the window.
type Minimize struct{}

// SetFullscreen toggles borderless fullscreen.
type SetFullscreen struct {
	Enabled bool
}

// FocusWindow asks the platform to focus the window.
type FocusWindow struct{}

// ListAvailableFonts asks for the available font list to be sent back to
// the host.
type ListAvailableFonts struct{}

// SetMouseEnabled toggles mouse input forwarding.
type SetMouseEnabled struct {
	Enabled bool
}

// Window-settings changes.

// ObservedColumnsChanged requests an explicit column count (nil clears it).
type ObservedColumnsChanged struct {
	Columns *int
}

// ObservedLinesChanged requests an explicit line count (nil clears it).
type ObservedLinesChanged struct {
	Lines *int
}

// FullscreenSettingChanged mirrors the fullscreen setting.
type FullscreenSettingChanged struct {
	Enabled bool
}

// IMESettingChanged mirrors the input_ime setting.
type IMESettingChanged struct {
	Enabled bool
}

// UserScaleChanged changes the user scale factor.
type UserScaleChanged struct {
	ScaleFactor float64
}

// Renderer-settings changes.

// TextGammaChanged changes the text gamma.
type TextGammaChanged struct {
	Gamma float64
}

// TextContrastChanged changes the text contrast.
type TextContrastChanged struct {
	Contrast float64
}

// ConfigReloaded carries a hot-reloaded configuration file.
type ConfigReloaded struct {
	Config settings.Config
}

// Exit stops the event loop.
type Exit struct{}

func (CommandBatch) isEvent()             {}
func (SetTitle) isEvent()                 {}
func (Minimize) isEvent()                 {}
func (SetFullscreen) isEvent()            {}
func (FocusWindow) isEvent()              {}
func (ListAvailableFonts) isEvent()       {}
func (SetMouseEnabled) isEvent()          {}
func (ObservedColumnsChanged) isEvent()   {}
func (ObservedLinesChanged) isEvent()     {}
func (FullscreenSettingChanged) isEvent() {}
func (IMESettingChanged) isEvent()        {}
func (UserScaleChanged) isEvent()         {}
func (TextGammaChanged) isEvent()         {}
func (TextContrastChanged) isEvent()      {}
func (ConfigReloaded) isEvent()           {}
func (Exit) isEvent()                     {}
