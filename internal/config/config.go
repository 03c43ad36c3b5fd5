// Package config handles engine configuration loading and management.
package config

import "time"

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Render   RenderConfig   `yaml:"render" toml:"render"`
	Physics  PhysicsConfig  `yaml:"physics" toml:"physics"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Spatial  SpatialConfig  `yaml:"spatial" toml:"spatial"`
	Timing   TimingConfig   `yaml:"timing" toml:"timing"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width" toml:"width"`
	Height     int     `yaml:"height" toml:"height"`
	Fullscreen bool    `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool    `yaml:"vsync" toml:"vsync"`
	FOVDegrees float32 `yaml:"fov_degrees" toml:"fov_degrees"`
	Near       float32 `yaml:"near" toml:"near"`
	Far        float32 `yaml:"far" toml:"far"`
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	Deferred   bool       `yaml:"deferred" toml:"deferred"`
	ShowHUD    bool       `yaml:"show_hud" toml:"show_hud"`
	ClearColor [4]float32 `yaml:"clear_color" toml:"clear_color"`
}

// PhysicsConfig holds simulation settings.
type PhysicsConfig struct {
	Gravity      [3]float32 `yaml:"gravity" toml:"gravity"`
	Substepping  bool       `yaml:"substepping" toml:"substepping"`
	MaxSubstep   float32    `yaml:"max_substep" toml:"max_substep"`
	MaxSubsteps  int        `yaml:"max_substeps" toml:"max_substeps"`
	MaxSpeed     float32    `yaml:"max_speed" toml:"max_speed"`
	MaxFrameStep float32    `yaml:"max_frame_step" toml:"max_frame_step"` // Frame deltas are clamped to this before stepping
}

// CameraConfig holds free camera settings.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position" toml:"position"`
	PitchLimitDeg    float32    `yaml:"pitch_limit_deg" toml:"pitch_limit_deg"`
	MoveSpeed        float32    `yaml:"move_speed" toml:"move_speed"`
	LookSensitivity  float32    `yaml:"look_sensitivity" toml:"look_sensitivity"`
	KeyLookRateDeg   float32    `yaml:"key_look_rate_deg" toml:"key_look_rate_deg"`
	FastMoveMultiple float32    `yaml:"fast_move_multiple" toml:"fast_move_multiple"`
}

// SpatialConfig holds octree build settings.
type SpatialConfig struct {
	MaxDepth int `yaml:"max_depth" toml:"max_depth"`
	LeafSize int `yaml:"leaf_size" toml:"leaf_size"`
}

// TimingConfig holds frame timing settings.
type TimingConfig struct {
	Window         int           `yaml:"window" toml:"window"`
	ReportInterval time.Duration `yaml:"report_interval" toml:"report_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOVDegrees: 60,
			Near:       0.1,
			Far:        1000,
		},
		Render: RenderConfig{
			Deferred:   true,
			ShowHUD:    true,
			ClearColor: [4]float32{0.1, 0.1, 0.15, 1.0},
		},
		Physics: PhysicsConfig{
			Gravity:      [3]float32{0, -9.8, 0},
			Substepping:  true,
			MaxSubstep:   1.0 / 120.0,
			MaxSubsteps:  16,
			MaxSpeed:     200,
			MaxFrameStep: 0.25,
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 4, 18},
			PitchLimitDeg:    89,
			MoveSpeed:        8,
			LookSensitivity:  0.003,
			KeyLookRateDeg:   90,
			FastMoveMultiple: 4,
		},
		Spatial: SpatialConfig{
			MaxDepth: 10,
			LeafSize: 8,
		},
		Timing: TimingConfig{
			Window:         200,
			ReportInterval: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
