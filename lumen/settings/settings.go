package settings

import "sync"

// WindowSettings controls window behavior and frame pacing.
type WindowSettings struct {
	RefreshRate     float64 `yaml:"refresh_rate"`
	RefreshRateIdle float64 `yaml:"refresh_rate_idle"`
	Theme           string  `yaml:"theme"`
	PaddingTop      int     `yaml:"padding_top"`
	PaddingLeft     int     `yaml:"padding_left"`
	PaddingRight    int     `yaml:"padding_right"`
	PaddingBottom   int     `yaml:"padding_bottom"`
	Fullscreen      bool    `yaml:"fullscreen"`
	InputIME        bool    `yaml:"input_ime"`
	UserScaleFactor float64 `yaml:"scale_factor"`
}

// RendererSettings controls content rendering.
type RendererSettings struct {
	FontFamily   string  `yaml:"font_family"`
	FontSize     float64 `yaml:"font_size"`
	TextGamma    float64 `yaml:"text_gamma"`
	TextContrast float64 `yaml:"text_contrast"`
}

// Store is a thread-safe settings holder. Settings are read from several
// goroutines (config watcher, event loop) but writes only happen on the
// event-loop goroutine via settings-changed events.
type Store struct {
	mu       sync.RWMutex
	window   WindowSettings
	renderer RendererSettings
}

// NewStore creates a store initialized from cfg.
func NewStore(cfg Config) *Store {
	return &Store{window: cfg.Window, renderer: cfg.Renderer}
}

// Window returns the current window settings.
func (s *Store) Window() WindowSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

// Renderer returns the current renderer settings.
func (s *Store) Renderer() RendererSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

// SetWindow replaces the window settings.
func (s *Store) SetWindow(w WindowSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = w
}

// SetRenderer replaces the renderer settings.
func (s *Store) SetRenderer(r RendererSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = r
}

// Apply replaces all settings from a reloaded config.
func (s *Store) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = cfg.Window
	s.renderer = cfg.Renderer
}
