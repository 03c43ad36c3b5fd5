// Package main is the entry point for the midgard-engine client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/config"
	"github.com/Faultbox/midgard-engine/internal/engine/debug"
	"github.com/Faultbox/midgard-engine/internal/engine/input"
	"github.com/Faultbox/midgard-engine/internal/engine/input/sdlinput"
	"github.com/Faultbox/midgard-engine/internal/engine/overlay"
	"github.com/Faultbox/midgard-engine/internal/engine/overlay/gloverlay"
	"github.com/Faultbox/midgard-engine/internal/engine/renderer/glbackend"
	"github.com/Faultbox/midgard-engine/internal/engine/scene"
	"github.com/Faultbox/midgard-engine/internal/engine/window"
	"github.com/Faultbox/midgard-engine/internal/game"
	"github.com/Faultbox/midgard-engine/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== midgard-engine client ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("client error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("client closed normally")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Window first: the GL context must exist before the backend.
	win, err := window.New(window.FromGraphics("midgard-engine", cfg.Graphics))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	dw, dh := win.DrawableSize()
	backend, err := glbackend.New(dw, dh)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	w, h := win.GetSize()
	hud := overlay.NewHUD(overlay.NewAtlas(), w, h)
	hudRenderer, err := gloverlay.New(hud)
	if err != nil {
		backend.Close()
		return fmt.Errorf("failed to create overlay: %w", err)
	}
	defer hudRenderer.Close()

	queue := input.NewQueue()
	opts := game.Options{
		Backend:      backend,
		Presenter:    win,
		Overlay:      hudRenderer,
		HUD:          hud,
		Poller:       sdlinput.New(queue),
		Queue:        queue,
		DrawableSize: win.DrawableSize,
		Display:      win,
	}

	shots := debug.NewScreenshotCapture("screenshots", "midgard")
	opts.Screenshot = func() (string, error) {
		pixels, pw, ph := backend.ReadPixels()
		return shots.CaptureFromPixels(pixels, pw, ph)
	}

	if path := config.Locate(); path != "" {
		watcher, err := config.Watch(path)
		if err != nil {
			logger.Warn("config hot reload disabled", zap.String("path", path), zap.Error(err))
		} else {
			defer watcher.Close()
			opts.ConfigChanges = watcher.Changes()
		}
	}

	g, err := game.New(cfg, opts)
	if err != nil {
		backend.Close()
		return fmt.Errorf("failed to create game: %w", err)
	}
	defer g.Close()

	drawables, lights := scene.Demo()
	for _, d := range drawables {
		if err := g.AddDrawable(d); err != nil {
			return fmt.Errorf("adding %s: %w", d.Name(), err)
		}
	}
	for _, l := range lights {
		if err := g.AddLight(l.Position, l.Radius, l.Attenuation, l.Color); err != nil {
			return fmt.Errorf("adding light: %w", err)
		}
	}

	return g.Start(ctx)
}
