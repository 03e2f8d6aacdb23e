package settings

import (
	"log/slog"
	"os"
	"time"
)

// WatchConfig polls the config file for modification-time changes and calls
// post with the reloaded config. It returns a stop function.
//
// Polling keeps the watcher portable; config reloads are rare and a
// one-second granularity is more than enough for them.
func WatchConfig(path string, interval time.Duration, post func(Config)) (stop func()) {
	if interval <= 0 {
		interval = time.Second
	}

	done := make(chan struct{})
	go func() {
		var lastMod time.Time
		if info, err := os.Stat(path); err == nil {
			lastMod = info.ModTime()
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
			}

			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()

			cfg, err := LoadConfig(path)
			if err != nil {
				slog.Warn("Failed to reload config", "path", path, "error", err)
				continue
			}
			slog.Info("Config reloaded", "path", path)
			post(cfg)
		}
	}()

	return func() { close(done) }
}
