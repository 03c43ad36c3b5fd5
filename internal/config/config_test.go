package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Render.Deferred {
		t.Error("expected deferred rendering by default")
	}
	if cfg.Physics.Gravity != [3]float32{0, -9.8, 0} {
		t.Errorf("expected Y-down gravity, got %v", cfg.Physics.Gravity)
	}
	if !cfg.Physics.Substepping {
		t.Error("expected substepping enabled by default")
	}
	if cfg.Camera.PitchLimitDeg != 89 {
		t.Errorf("expected pitch limit 89, got %f", cfg.Camera.PitchLimitDeg)
	}
	if cfg.Timing.Window != 200 {
		t.Errorf("expected timing window 200, got %d", cfg.Timing.Window)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  fov_degrees: 75

render:
  deferred: false
  show_hud: false

physics:
  gravity: [0, 0, -9.8]
  substepping: false
  max_substeps: 4

spatial:
  max_depth: 6
  leaf_size: 16

timing:
  window: 120
  report_interval: 2s

logging:
  level: "debug"
  log_file: "engine.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.FOVDegrees != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Graphics.FOVDegrees)
	}
	if cfg.Render.Deferred {
		t.Error("expected deferred to be false")
	}
	if cfg.Physics.Gravity != [3]float32{0, 0, -9.8} {
		t.Errorf("expected Z-down gravity, got %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.Substepping {
		t.Error("expected substepping to be false")
	}
	if cfg.Physics.MaxSubsteps != 4 {
		t.Errorf("expected max substeps 4, got %d", cfg.Physics.MaxSubsteps)
	}
	// Unset keys keep their defaults
	if cfg.Physics.MaxSubstep != Default().Physics.MaxSubstep {
		t.Errorf("expected default max substep, got %f", cfg.Physics.MaxSubstep)
	}
	if cfg.Spatial.MaxDepth != 6 || cfg.Spatial.LeafSize != 16 {
		t.Errorf("unexpected spatial config %+v", cfg.Spatial)
	}
	if cfg.Timing.Window != 120 {
		t.Errorf("expected window 120, got %d", cfg.Timing.Window)
	}
	if cfg.Timing.ReportInterval != 2*time.Second {
		t.Errorf("expected report interval 2s, got %v", cfg.Timing.ReportInterval)
	}
	if cfg.Logging.LogFile != "engine.log" {
		t.Errorf("expected log file 'engine.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"far before near", func(c *Config) { c.Graphics.Far = c.Graphics.Near / 2 }},
		{"zero substep", func(c *Config) { c.Physics.MaxSubstep = 0 }},
		{"no substeps", func(c *Config) { c.Physics.MaxSubsteps = 0 }},
		{"zero frame step", func(c *Config) { c.Physics.MaxFrameStep = 0 }},
		{"negative frame step", func(c *Config) { c.Physics.MaxFrameStep = -1 }},
		{"empty timing window", func(c *Config) { c.Timing.Window = 0 }},
		{"pitch limit at pole", func(c *Config) { c.Camera.PitchLimitDeg = 90 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Render.Deferred = false
	cfg.Spatial.LeafSize = 32
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Render.Deferred {
		t.Error("expected deferred=false after reload")
	}
	if loaded.Spatial.LeafSize != 32 {
		t.Errorf("expected leaf size 32, got %d", loaded.Spatial.LeafSize)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Render.ShowHUD {
					t.Error("expected HUD enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "forward flag",
			setup: func() { *flagForward = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Deferred {
					t.Error("expected deferred disabled with forward flag")
				}
			},
			teardown: func() { *flagForward = false },
		},
		{
			name:  "no-substep flag",
			setup: func() { *flagNoSubstep = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Physics.Substepping {
					t.Error("expected substepping disabled")
				}
			},
			teardown: func() { *flagNoSubstep = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag wins over file
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// File wins over defaults
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}
