package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/lumen-gui/lumen/lumen"
	"github.com/lumen-gui/lumen/lumen/bridge"
	"github.com/lumen-gui/lumen/lumen/events"
	"github.com/lumen-gui/lumen/lumen/platform"
	"github.com/lumen-gui/lumen/lumen/platform/headless"
	"github.com/lumen-gui/lumen/lumen/platform/sdl2"
	"github.com/lumen-gui/lumen/lumen/platform/terminal"
	"github.com/lumen-gui/lumen/lumen/renderer"
	"github.com/lumen-gui/lumen/lumen/settings"
	"github.com/lumen-gui/lumen/lumen/surface"
	"github.com/lumen-gui/lumen/lumen/units"
)

const configWatchInterval = 2 * time.Second

func main() {
	app := cli.NewApp()
	app.Name = "Lumen"
	app.Description = "A windowed grid UI frontend with adaptive frame pacing"
	app.Usage = "lumen [options]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "backend",
			Usage: "Platform backend to use: terminal, sdl2 or headless",
			Value: "terminal",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to the YAML configuration file",
		},
		cli.StringFlag{
			Name:  "title",
			Usage: "Window title",
			Value: "Lumen",
		},
		cli.Float64Flag{
			Name:  "fps",
			Usage: "Focused refresh rate in Hz (overrides config)",
		},
		cli.Float64Flag{
			Name:  "idle-fps",
			Usage: "Unfocused refresh rate in Hz (overrides config)",
		},
		cli.BoolFlag{
			Name:  "no-idle",
			Usage: "Animate every frame even when nothing changed",
		},
		cli.StringFlag{
			Name:  "font",
			Usage: "Path to a TTF font file (overrides config)",
		},
		cli.Float64Flag{
			Name:  "font-size",
			Usage: "Font size in points (overrides config)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Exit after rendering N frames (0 = run until quit)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "demo",
			Usage: "Feed a built-in animated demo instead of an external host",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running lumen", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store := settings.NewStore(cfg)

	backend, err := selectBackend(c.String("backend"))
	if err != nil {
		return err
	}

	queue := events.NewQueue(256)
	platformConfig := platform.Config{
		Title:       c.String("title"),
		InitialSize: units.PixelSize{Width: 800, Height: 600},
		Queue:       queue,
		Vsync:       true,
	}
	if err := backend.Init(platformConfig); err != nil {
		return err
	}
	defer backend.Cleanup()

	// Only the terminal backend replaces stdout; keep text logs elsewhere.
	if c.String("backend") != "terminal" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
		slog.SetDefault(slog.New(handler))
	}

	sink := bridge.NewChannelSink(64)
	grid := renderer.NewGridRenderer(store.Renderer())
	surf := surface.NewPixmapSurface(backend.Window().InnerSize(), backend.Presenter())

	orch, err := lumen.New(lumen.Config{
		Window:   backend.Window(),
		Vsync:    backend.Vsync(),
		Surface:  surf,
		Renderer: grid,
		Sink:     sink,
		Settings: store,
		Idle:     !c.Bool("no-idle"),
	})
	if err != nil {
		return err
	}

	if path := c.String("config"); path != "" {
		stop := settings.WatchConfig(path, configWatchInterval, func(cfg settings.Config) {
			queue.Post(events.ConfigReloaded{Config: cfg})
		})
		defer stop()
	}

	host := newHost(queue, sink, c.Bool("demo"))
	go host.run()

	loop := lumen.NewApp(queue, orch, backend)
	loop.MaxFrames = c.Int("frames")
	return loop.Run()
}

func loadConfig(c *cli.Context) (settings.Config, error) {
	cfg := settings.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := settings.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if c.IsSet("fps") {
		cfg.Window.RefreshRate = c.Float64("fps")
	}
	if c.IsSet("idle-fps") {
		cfg.Window.RefreshRateIdle = c.Float64("idle-fps")
	}
	if c.IsSet("font") {
		cfg.Renderer.FontFamily = c.String("font")
	}
	if c.IsSet("font-size") {
		cfg.Renderer.FontSize = c.Float64("font-size")
	}
	return cfg, nil
}

func selectBackend(name string) (platform.Backend, error) {
	switch name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	case "headless":
		return headless.New(false), nil
	}
	return nil, fmt.Errorf("unknown backend %q (want terminal, sdl2 or headless)", name)
}
