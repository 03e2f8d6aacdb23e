package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration file layout.
type Config struct {
	Window   WindowSettings   `yaml:"window"`
	Renderer RendererSettings `yaml:"renderer"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Window: WindowSettings{
			RefreshRate:     60,
			RefreshRateIdle: 5,
			Theme:           "auto",
			UserScaleFactor: 1.0,
			InputIME:        true,
		},
		Renderer: RendererSettings{
			FontSize:     14,
			TextGamma:    0.0,
			TextContrast: 0.5,
		},
	}
}

// LoadConfig reads a YAML config file, filling unset fields from defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
