// Package game implements the frame loop: scene construction, the startup
// build of collision and physics, and the per-frame update and render.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/config"
	"github.com/Faultbox/midgard-engine/internal/engine/camera"
	"github.com/Faultbox/midgard-engine/internal/engine/collision"
	"github.com/Faultbox/midgard-engine/internal/engine/input"
	"github.com/Faultbox/midgard-engine/internal/engine/lighting"
	"github.com/Faultbox/midgard-engine/internal/engine/overlay"
	"github.com/Faultbox/midgard-engine/internal/engine/physics"
	"github.com/Faultbox/midgard-engine/internal/engine/renderer"
	"github.com/Faultbox/midgard-engine/internal/engine/scene"
	"github.com/Faultbox/midgard-engine/internal/engine/spatial"
	"github.com/Faultbox/midgard-engine/internal/engine/timing"
	"github.com/Faultbox/midgard-engine/internal/logger"
)

// ErrStarted is returned by Start when the game already ran.
var ErrStarted = errors.New("game: already started")

// Poller fills the input queue. It is called once per frame before the
// queue is drained.
type Poller interface {
	Poll()
}

// Display is the part of the window that config reloads can change.
type Display interface {
	SetFullscreen(on bool) error
	SetVSync(on bool) error
}

// Options are the collaborators the frame loop drives. Backend is
// required; everything else has a headless default.
type Options struct {
	Backend   renderer.Backend
	Presenter renderer.Presenter
	// Overlay draws the HUD; defaults to the HUD layout without a GPU.
	Overlay renderer.Overlay
	// HUD is shared with Overlay; created if nil.
	HUD    *overlay.HUD
	Poller Poller
	Queue  *input.Queue

	// DrawableSize reports the framebuffer size in pixels when it differs
	// from the logical window size.
	DrawableSize func() (int, int)

	// ConfigChanges delivers hot-reloaded configs.
	ConfigChanges <-chan *config.Config
	// Display receives fullscreen and vsync changes from reloaded configs.
	Display Display

	// Now is the frame clock; defaults to time.Now.
	Now func() time.Time

	// Screenshot captures the presented frame and returns the written path.
	// F12 schedules it just before present; nil disables the key.
	Screenshot func() (string, error)

	// MaxFrames stops the loop after this many frames; 0 runs until exit.
	MaxFrames int
}

// FrameStats summarises the last frame.
type FrameStats struct {
	Frame    int
	Delta    time.Duration
	Render   renderer.FrameStats
	Contacts int
	Substeps int
}

// Game owns the scene and the per-frame subsystems.
type Game struct {
	cfg  *config.Config
	opts Options
	log  *zap.Logger

	builder *scene.Builder
	scene   *scene.Scene

	collision *collision.Buffer
	static    *spatial.Octree
	world     *physics.World
	links     []bodyLink

	camera   *camera.FreeCamera
	proj     camera.Projection
	pipeline *renderer.Pipeline
	hud      *overlay.HUD
	input    input.State

	frames   *timing.Window
	reporter *timing.Reporter

	width, height int
	lastFrame     time.Time
	frame         int
	last          FrameStats
	started       bool
	quit          bool
}

// New creates a game. Scene content is added with AddDrawable and AddLight
// before Start.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("game: backend is required")
	}
	if opts.Queue == nil {
		opts.Queue = input.NewQueue()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	log := logger.Named("game")
	log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("deferred", cfg.Render.Deferred),
	)

	g := &Game{
		cfg:     cfg,
		opts:    opts,
		log:     log,
		builder: scene.NewBuilder(),
		width:   cfg.Graphics.Width,
		height:  cfg.Graphics.Height,
		frames:  timing.NewWindow(cfg.Timing.Window),
	}

	g.hud = opts.HUD
	if g.hud == nil {
		g.hud = overlay.NewHUD(overlay.NewAtlas(), g.width, g.height)
	}
	g.hud.SetVisible(cfg.Render.ShowHUD)
	if g.opts.Overlay == nil {
		g.opts.Overlay = g.hud
	}

	g.camera = camera.NewFreeCamera(mgl32.Vec3(cfg.Camera.Position), cfg.Camera.PitchLimitDeg)
	g.camera.LookAt(mgl32.Vec3{})
	g.proj = camera.Projection{
		FOVDegrees: cfg.Graphics.FOVDegrees,
		Near:       cfg.Graphics.Near,
		Far:        cfg.Graphics.Far,
	}
	g.proj.SetViewport(g.width, g.height)

	mode := renderer.ModeForward
	if cfg.Render.Deferred {
		mode = renderer.ModeDeferred
	}
	g.pipeline = renderer.NewPipeline(opts.Backend, g.opts.Overlay, opts.Presenter, mode)
	g.pipeline.SetClearColor(mgl32.Vec4(cfg.Render.ClearColor))

	g.reporter = timing.NewReporter(logger.Named("timing"), g.frames, cfg.Timing.ReportInterval)
	return g, nil
}

// AddLight registers a point light. It fails with scene.ErrSealed after
// Start.
func (g *Game) AddLight(position mgl32.Vec3, radius, attenuation float32, color mgl32.Vec3) error {
	return g.builder.AddLight(lighting.NewPointLight(position, color, radius, attenuation))
}

// AddDrawable registers a static or animated drawable. It fails with
// scene.ErrSealed after Start.
func (g *Game) AddDrawable(d scene.Drawable) error {
	return g.builder.AddDrawable(d)
}

// SetSun replaces the directional light.
func (g *Game) SetSun(s lighting.Sun) error {
	return g.builder.SetSun(s)
}

// Start seals the scene, builds the collision world and runs the frame
// loop until Escape, a quit event, ctx cancellation or MaxFrames.
func (g *Game) Start(ctx context.Context) error {
	if g.started {
		return ErrStarted
	}
	if err := g.setup(ctx); err != nil {
		return err
	}
	return g.run(ctx)
}

// setup performs the one-time startup build. It blocks the caller.
func (g *Game) setup(ctx context.Context) error {
	g.started = true
	g.scene = g.builder.Seal()

	start := g.opts.Now()
	buf, err := collision.BuildFromScene(ctx, g.scene)
	if err != nil {
		return fmt.Errorf("building collision mesh: %w", err)
	}
	g.collision = buf

	g.static, err = buf.Octree(spatial.Options{
		MaxDepth: g.cfg.Spatial.MaxDepth,
		LeafSize: g.cfg.Spatial.LeafSize,
	})
	if err != nil {
		return fmt.Errorf("building spatial index: %w", err)
	}

	g.world = physics.NewWorld(physicsConfig(g.cfg.Physics), g.static)
	g.links = spawnBodies(g.scene, g.world)

	st := g.static.Stats()
	g.log.Info("world built",
		zap.Int("vertices", len(buf.Vertices)),
		zap.Int("triangles", st.Triangles),
		zap.Int("degenerate", st.Degenerate),
		zap.Int("nodes", st.Nodes),
		zap.Int("depth", st.Depth),
		zap.Int("bodies", len(g.world.Bodies())),
		zap.Duration("elapsed", g.opts.Now().Sub(start)),
	)

	if g.opts.DrawableSize != nil {
		w, h := g.opts.DrawableSize()
		g.pipeline.Resize(w, h)
	}
	return nil
}

func physicsConfig(c config.PhysicsConfig) physics.Config {
	return physics.Config{
		Gravity:     mgl32.Vec3(c.Gravity),
		MaxSubstep:  c.MaxSubstep,
		MaxSubsteps: c.MaxSubsteps,
		MaxSpeed:    c.MaxSpeed,
	}
}

func (g *Game) run(ctx context.Context) error {
	g.log.Info("starting frame loop", zap.Stringer("mode", g.pipeline.Mode()))
	g.lastFrame = g.opts.Now()

	for {
		// Exit is only observed between frames.
		if err := ctx.Err(); err != nil {
			g.log.Info("frame loop cancelled", zap.Int("frames", g.frame))
			return nil
		}

		now := g.opts.Now()
		dt := now.Sub(g.lastFrame)
		g.lastFrame = now

		if !g.Tick(dt) {
			g.log.Info("frame loop stopped", zap.Int("frames", g.frame))
			return nil
		}
		if g.opts.MaxFrames > 0 && g.frame >= g.opts.MaxFrames {
			return nil
		}
	}
}

// Tick runs one frame of dt: input, camera, physics, animation, render and
// timing. It returns false once an exit was requested.
func (g *Game) Tick(dt time.Duration) bool {
	if g.quit {
		return false
	}
	dt = max(dt, 0)
	seconds := float32(dt.Seconds())

	g.handleInput()
	if g.quit {
		return false
	}
	g.applyConfigChanges()
	g.driveCamera(seconds)

	step := min(seconds, g.cfg.Physics.MaxFrameStep)
	g.world.Step(step, g.cfg.Physics.Substepping)
	syncBodies(g.links)
	g.scene.Update(seconds)

	view := g.camera.Update()
	g.hud.SetStats(g.hudStats())
	render := g.pipeline.Frame(g.scene, view, g.proj.Matrix(), g.camera.Position())

	g.frames.Push(dt)
	g.reporter.Tick()

	g.frame++
	g.last = FrameStats{
		Frame:    g.frame,
		Delta:    dt,
		Render:   render,
		Contacts: g.world.Contacts(),
		Substeps: g.world.Substeps(),
	}
	return true
}

func (g *Game) hudStats() overlay.Stats {
	hit, ok := g.pointerHit()
	return overlay.Stats{
		Pointer:    hit.Point,
		PointerHit: ok,
		FPS:        g.frames.FPS(),
		FrameTime:  g.frames.Average(),
		Mode:       g.pipeline.Mode().String(),
		Bodies:     len(g.world.Bodies()),
		Contacts:   g.world.Contacts(),
		Substeps:   g.world.Substeps(),
		DrawCalls:  g.last.Render.DrawCalls,
		Camera:     g.camera.Position(),
	}
}

// resize updates the projection, render targets and overlay.
func (g *Game) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.width, g.height = width, height
	g.proj.SetViewport(width, height)
	g.hud.Resize(width, height)

	pw, ph := width, height
	if g.opts.DrawableSize != nil {
		pw, ph = g.opts.DrawableSize()
	}
	g.pipeline.Resize(pw, ph)
	g.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// applyConfigChanges picks up a hot-reloaded config without blocking.
// Only settings that are safe to change mid-session are applied.
func (g *Game) applyConfigChanges() {
	if g.opts.ConfigChanges == nil {
		return
	}
	select {
	case next, ok := <-g.opts.ConfigChanges:
		if !ok {
			g.opts.ConfigChanges = nil
			return
		}
		g.applyConfig(next)
	default:
	}
}

func (g *Game) applyConfig(next *config.Config) {
	if err := next.Validate(); err != nil {
		g.log.Warn("config change rejected", zap.Error(err))
		return
	}
	g.cfg.Camera.MoveSpeed = next.Camera.MoveSpeed
	g.cfg.Camera.LookSensitivity = next.Camera.LookSensitivity
	g.cfg.Camera.KeyLookRateDeg = next.Camera.KeyLookRateDeg
	g.cfg.Camera.FastMoveMultiple = next.Camera.FastMoveMultiple
	g.cfg.Physics.Substepping = next.Physics.Substepping
	g.cfg.Physics.MaxFrameStep = next.Physics.MaxFrameStep
	g.cfg.Render.ClearColor = next.Render.ClearColor

	g.world.SetGravity(mgl32.Vec3(next.Physics.Gravity))
	g.pipeline.SetClearColor(mgl32.Vec4(next.Render.ClearColor))
	g.hud.SetVisible(next.Render.ShowHUD)
	if next.Render.Deferred {
		g.pipeline.SetMode(renderer.ModeDeferred)
	} else {
		g.pipeline.SetMode(renderer.ModeForward)
	}
	g.proj.FOVDegrees = next.Graphics.FOVDegrees
	g.applyDisplay(next.Graphics)
	g.cfg.Logging.Level = next.Logging.Level
	if logger.SetLevel(next.Logging.Level) {
		g.log.Info("log level changed", zap.String("level", next.Logging.Level))
	}
	g.log.Info("config applied")
}

func (g *Game) applyDisplay(next config.GraphicsConfig) {
	if g.opts.Display == nil {
		return
	}
	if next.Fullscreen != g.cfg.Graphics.Fullscreen {
		if err := g.opts.Display.SetFullscreen(next.Fullscreen); err != nil {
			g.log.Warn("fullscreen change failed", zap.Error(err))
		} else {
			g.cfg.Graphics.Fullscreen = next.Fullscreen
		}
	}
	if next.VSync != g.cfg.Graphics.VSync {
		if err := g.opts.Display.SetVSync(next.VSync); err != nil {
			g.log.Warn("vsync change failed", zap.Error(err))
		} else {
			g.cfg.Graphics.VSync = next.VSync
		}
	}
}

// Stop requests exit at the next frame boundary.
func (g *Game) Stop() { g.quit = true }

// Close releases the backend.
func (g *Game) Close() {
	g.log.Info("closing game")
	g.opts.Backend.Close()
}

func (g *Game) Scene() *scene.Scene           { return g.scene }
func (g *Game) World() *physics.World         { return g.world }
func (g *Game) Static() *spatial.Octree       { return g.static }
func (g *Game) Collision() *collision.Buffer  { return g.collision }
func (g *Game) Camera() *camera.FreeCamera    { return g.camera }
func (g *Game) Projection() camera.Projection { return g.proj }
func (g *Game) Pipeline() *renderer.Pipeline  { return g.pipeline }
func (g *Game) HUD() *overlay.HUD             { return g.hud }
func (g *Game) Frames() *timing.Window        { return g.frames }
func (g *Game) LastFrame() FrameStats         { return g.last }
func (g *Game) Size() (width, height int)     { return g.width, g.height }
