package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-engine/internal/config"
	"github.com/Faultbox/midgard-engine/internal/engine/input"
	"github.com/Faultbox/midgard-engine/internal/engine/material"
	"github.com/Faultbox/midgard-engine/internal/engine/mesh"
	"github.com/Faultbox/midgard-engine/internal/engine/physics"
	"github.com/Faultbox/midgard-engine/internal/engine/renderer"
	"github.com/Faultbox/midgard-engine/internal/engine/scene"
)

const frameStep = 16 * time.Millisecond

// scriptPoller pushes scripted events at the start of the given frame
// (1-based).
type scriptPoller struct {
	queue   *input.Queue
	frame   int
	script  map[int][]input.Event
	onFrame func(frame int)
}

func (p *scriptPoller) Poll() {
	p.frame++
	for _, e := range p.script[p.frame] {
		p.queue.Push(e)
	}
	if p.onFrame != nil {
		p.onFrame(p.frame)
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(frameStep)
	return c.t
}

type harness struct {
	game     *Game
	recorder *renderer.Recorder
	poller   *scriptPoller
}

func newHarness(t *testing.T, cfg *config.Config, maxFrames int, script map[int][]input.Event) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	rec := renderer.NewRecorder()
	q := input.NewQueue()
	poller := &scriptPoller{queue: q, script: script}
	clock := &fakeClock{t: time.Unix(0, 0)}

	g, err := New(cfg, Options{
		Backend:   rec,
		Poller:    poller,
		Queue:     q,
		Now:       clock.Now,
		MaxFrames: maxFrames,
	})
	require.NoError(t, err)

	drawables, lights := scene.Demo()
	for _, d := range drawables {
		require.NoError(t, g.AddDrawable(d))
	}
	for _, l := range lights {
		require.NoError(t, g.AddLight(l.Position, l.Radius, l.Attenuation, l.Color))
	}
	return &harness{game: g, recorder: rec, poller: poller}
}

func keyDown(k input.Key) input.Event { return input.Event{Type: input.EventKeyDown, Key: k} }

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(config.Default(), Options{})
	assert.Error(t, err)
}

func TestStartBuildsWorld(t *testing.T) {
	h := newHarness(t, nil, 3, nil)
	require.NoError(t, h.game.Start(context.Background()))

	g := h.game
	assert.False(t, g.Collision().Empty())
	assert.Equal(t, len(g.Collision().Triangles), g.Static().Len())
	assert.Len(t, g.World().Bodies(), 6, "one body per crate instance")
	assert.Equal(t, 3, g.LastFrame().Frame)
	assert.Equal(t, 3, g.Frames().Len())

	// Deferred by default: geometry, lighting, transparent, overlay per frame
	assert.Len(t, h.recorder.Passes(), 3*4)

	assert.ErrorIs(t, g.AddLight(mgl32.Vec3{}, 1, 1, mgl32.Vec3{1, 1, 1}), scene.ErrSealed)
	assert.ErrorIs(t, g.AddDrawable(scene.NewStaticModel("late")), scene.ErrSealed)
	assert.ErrorIs(t, g.Start(context.Background()), ErrStarted)
}

func TestForwardModeFrame(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Deferred = false
	h := newHarness(t, cfg, 1, nil)
	require.NoError(t, h.game.Start(context.Background()))

	assert.Equal(t, []renderer.Pass{renderer.PassOpaque, renderer.PassTransparent, renderer.PassOverlay}, h.recorder.Passes())
	st := h.game.LastFrame().Render
	assert.Equal(t, renderer.ModeForward, st.Mode)
	assert.Positive(t, st.Opaque)
	assert.Equal(t, 2, st.Transparent, "two glass panes")
}

func TestEscapeStopsAtFrameBoundary(t *testing.T) {
	h := newHarness(t, nil, 0, map[int][]input.Event{
		3: {keyDown(input.KeyEscape)},
	})
	require.NoError(t, h.game.Start(context.Background()))
	assert.Equal(t, 2, h.game.LastFrame().Frame)
}

func TestQuitEventStops(t *testing.T) {
	h := newHarness(t, nil, 0, map[int][]input.Event{
		1: {{Type: input.EventQuit}},
	})
	require.NoError(t, h.game.Start(context.Background()))
	assert.Equal(t, 0, h.game.LastFrame().Frame)
	assert.Empty(t, h.recorder.Passes())
}

func TestCancelObservedBetweenFrames(t *testing.T) {
	h := newHarness(t, nil, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.poller.onFrame = func(frame int) {
		if frame == 3 {
			cancel()
		}
	}

	require.NoError(t, h.game.Start(ctx))
	assert.Equal(t, 3, h.game.LastFrame().Frame, "the frame in flight completes")
	assert.Len(t, h.recorder.Passes(), 3*4)
}

func TestCancelledBeforeStart(t *testing.T) {
	h := newHarness(t, nil, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The startup build honours ctx; transformed instances fail fast.
	err := h.game.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.recorder.Passes())
}

func TestToggleMode(t *testing.T) {
	h := newHarness(t, nil, 2, map[int][]input.Event{
		2: {keyDown(input.KeyF2)},
	})
	require.NoError(t, h.game.Start(context.Background()))

	passes := h.recorder.Passes()
	require.Len(t, passes, 4+3)
	assert.Equal(t, renderer.PassGeometry, passes[0])
	assert.Equal(t, renderer.PassOpaque, passes[4])
	assert.Equal(t, renderer.ModeForward, h.game.Pipeline().Mode())
}

func TestToggleHUD(t *testing.T) {
	h := newHarness(t, nil, 1, map[int][]input.Event{
		1: {keyDown(input.KeyF3)},
	})
	require.True(t, h.game.HUD().Visible())
	require.NoError(t, h.game.Start(context.Background()))
	assert.False(t, h.game.HUD().Visible())
}

func TestResize(t *testing.T) {
	h := newHarness(t, nil, 1, map[int][]input.Event{
		1: {{Type: input.EventWindowResize, Width: 800, Height: 600}},
	})
	require.NoError(t, h.game.Start(context.Background()))

	assert.InDelta(t, 800.0/600.0, h.game.Projection().Aspect, 1e-6)
	assert.Equal(t, 800, h.recorder.Width)
	assert.Equal(t, 600, h.recorder.Height)
	w, hh := h.game.HUD().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, hh)
}

func TestCameraMovesWhileKeyHeld(t *testing.T) {
	h := newHarness(t, nil, 10, map[int][]input.Event{
		1: {keyDown(input.KeyW)},
	})
	g := h.game
	start := g.Camera().Position()
	forward := g.Camera().Forward()
	require.NoError(t, g.Start(context.Background()))

	moved := g.Camera().Position().Sub(start)
	assert.Greater(t, moved.Dot(forward), float32(0))
	// 10 frames of 16ms at the default speed
	assert.InDelta(t, float64(config.Default().Camera.MoveSpeed)*0.16, float64(moved.Len()), 1e-3)
}

func TestCameraIdleDoesNotRecompute(t *testing.T) {
	h := newHarness(t, nil, 5, nil)
	require.NoError(t, h.game.Start(context.Background()))
	assert.Equal(t, 1, h.game.Camera().Recomputes())
}

func TestHUDCapturesPointer(t *testing.T) {
	h := newHarness(t, nil, 2, map[int][]input.Event{
		1: {{Type: input.EventMouseDown, Button: input.ButtonRight, MouseX: 30, MouseY: 40}},
		2: {{Type: input.EventMouseMove, MouseX: 130, MouseY: 40, DeltaX: 100}},
	})
	yaw := h.game.Camera().Yaw()
	require.NoError(t, h.game.Start(context.Background()))
	assert.Equal(t, yaw, h.game.Camera().Yaw(), "press on the HUD must not start a camera drag")
}

func TestRightDragLooks(t *testing.T) {
	h := newHarness(t, nil, 2, map[int][]input.Event{
		1: {{Type: input.EventMouseDown, Button: input.ButtonRight, MouseX: 900, MouseY: 500}},
		2: {{Type: input.EventMouseMove, MouseX: 1000, MouseY: 500, DeltaX: 100}},
	})
	yaw := h.game.Camera().Yaw()
	require.NoError(t, h.game.Start(context.Background()))
	assert.NotEqual(t, yaw, h.game.Camera().Yaw())
}

func TestCratesFallAndLand(t *testing.T) {
	h := newHarness(t, nil, 300, nil)
	g := h.game
	require.NoError(t, g.Start(context.Background()))

	for _, b := range g.World().Bodies() {
		assert.False(t, b.Frozen())
		assert.GreaterOrEqual(t, b.Position[1], float32(0.3), "crate sank through the ground")
		assert.Less(t, b.Position[1], float32(6), "crate never fell")
	}

	// Transforms follow the bodies
	for _, l := range g.links {
		got := l.segment.Transforms[l.instance].Col(3).Vec3()
		assert.True(t, got.ApproxEqual(l.body.Position))
	}
}

func TestLargeDeltaIsClamped(t *testing.T) {
	h := newHarness(t, nil, 0, nil)
	g := h.game
	require.NoError(t, g.setup(context.Background()))

	require.True(t, g.Tick(10*time.Second))
	assert.Equal(t, config.Default().Physics.MaxSubsteps, g.World().Substeps())
	for _, b := range g.World().Bodies() {
		assert.Greater(t, b.Position[1], float32(0), "no tunnelling after a stall")
	}
}

func TestConfigHotReload(t *testing.T) {
	changes := make(chan *config.Config, 1)
	cfg := config.Default()
	rec := renderer.NewRecorder()
	g, err := New(cfg, Options{Backend: rec, ConfigChanges: changes, MaxFrames: 1})
	require.NoError(t, err)

	next := config.Default()
	next.Render.Deferred = false
	next.Render.ShowHUD = false
	next.Physics.Gravity = [3]float32{0, 0, -9.8}
	changes <- next

	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, renderer.ModeForward, g.Pipeline().Mode())
	assert.False(t, g.HUD().Visible())
	assert.Equal(t, mgl32.Vec3{0, 0, -9.8}, g.World().Gravity())
	assert.Equal(t, renderer.PassOpaque, rec.Passes()[0])
}

func TestEmptySceneStarts(t *testing.T) {
	g, err := New(config.Default(), Options{Backend: renderer.NewRecorder(), MaxFrames: 2})
	require.NoError(t, err)
	require.NoError(t, g.Start(context.Background()))
	assert.True(t, g.Collision().Empty())
	assert.Equal(t, 0, g.Static().Len())
	assert.Empty(t, g.World().Bodies())
}

func TestScreenshotKey(t *testing.T) {
	h := newHarness(t, nil, 3, map[int][]input.Event{
		2: {keyDown(input.KeyF12)},
	})
	var shots []int
	h.game.opts.Screenshot = func() (string, error) {
		_, open := h.recorder.Active()
		assert.False(t, open)
		shots = append(shots, h.poller.frame)
		return "shot.png", nil
	}
	require.NoError(t, h.game.Start(context.Background()))
	assert.Equal(t, []int{2}, shots)
}

func TestScreenshotKeyWithoutCapture(t *testing.T) {
	h := newHarness(t, nil, 1, map[int][]input.Event{
		1: {keyDown(input.KeyF12)},
	})
	require.NoError(t, h.game.Start(context.Background()))
	assert.Len(t, h.recorder.Passes(), 4)
}

func TestPickHitsFloor(t *testing.T) {
	h := newHarness(t, nil, 1, nil)
	require.NoError(t, h.game.Start(context.Background()))

	cam := h.game.Camera()
	cam.SetPosition(mgl32.Vec3{6, 6, 6})
	cam.LookAt(mgl32.Vec3{6, 0, 5})
	w, hh := h.game.Size()

	hit, ok := h.game.Pick(w/2, hh/2)
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Point.Y(), 1e-3)
	assert.InDelta(t, 6, hit.Point.X(), 0.1)
	assert.InDelta(t, 5, hit.Point.Z(), 0.1)
	assert.InDelta(t, 1, hit.Normal.Y(), 1e-3)
}

func TestPickMissesSky(t *testing.T) {
	h := newHarness(t, nil, 1, nil)
	require.NoError(t, h.game.Start(context.Background()))

	cam := h.game.Camera()
	cam.SetPosition(mgl32.Vec3{0, 2, 12})
	cam.LookAt(mgl32.Vec3{0, 12, 30})
	w, hh := h.game.Size()

	_, ok := h.game.Pick(w/2, hh/2)
	assert.False(t, ok)
}

func TestConfigReloadRejectsFrozenPhysics(t *testing.T) {
	changes := make(chan *config.Config, 1)
	h := newHarness(t, nil, 30, nil)
	h.game.opts.ConfigChanges = changes

	bad := config.Default()
	bad.Physics.MaxFrameStep = 0
	bad.Render.Deferred = false
	changes <- bad

	require.NoError(t, h.game.Start(context.Background()))
	assert.Equal(t, renderer.ModeDeferred, h.game.Pipeline().Mode(), "rejected config is not applied")
	assert.Positive(t, h.game.cfg.Physics.MaxFrameStep)

	// Crates keep falling
	require.NotEmpty(t, h.game.links)
	for _, l := range h.game.links {
		assert.Negative(t, l.body.Velocity.Y())
	}
}

func TestSimulatedBoxIsNotBakedIntoCollision(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	g, err := New(config.Default(), Options{Backend: renderer.NewRecorder(), Now: clock.Now, MaxFrames: 120})
	require.NoError(t, err)

	grey := material.NewSolid(mgl32.Vec3{0.5, 0.5, 0.5})
	half := mgl32.Vec3{0.5, 0.5, 0.5}
	body := scene.BodyDesc{HalfExtents: half, Mass: 1}
	require.NoError(t, g.AddDrawable(scene.NewStaticModel("ground",
		scene.NewSegment("floor", mesh.Quad(10, 10), grey, scene.FlagFixed|scene.FlagCollidable))))

	baked := scene.NewStaticModel("baked",
		scene.NewSegment("box", mesh.Box(half), grey, scene.FlagFixed|scene.FlagCollidable, mgl32.Translate3D(0, 5, 0)))
	assert.ErrorIs(t, g.AddDrawable(baked.WithBody(body)), scene.ErrInvalidDrawable)

	crate := scene.NewStaticModel("crate",
		scene.NewSegment("box", mesh.Box(half), grey, 0, mgl32.Translate3D(0, 5, 0)))
	require.NoError(t, g.AddDrawable(crate.WithBody(body)))

	require.NoError(t, g.Start(context.Background()))
	assert.Len(t, g.Collision().Triangles, 2, "only the floor is static")
	require.Len(t, g.World().Bodies(), 1)
	assert.InDelta(t, 0.5, g.World().Bodies()[0].Position.Y(), 0.1, "crate rests on the floor")
}

func TestBodyShapeFromDescription(t *testing.T) {
	pos := mgl32.Vec3{1, 2, 3}

	point := newBody(pos, &scene.BodyDesc{Mass: 2})
	assert.Equal(t, physics.ShapePoint, point.Shape)
	assert.Equal(t, pos, point.Position)
	assert.Equal(t, float32(2), point.Mass)

	box := newBody(pos, &scene.BodyDesc{HalfExtents: mgl32.Vec3{0.5, 1, 0.5}, Mass: 1})
	assert.Equal(t, physics.ShapeBox, box.Shape)
	assert.Equal(t, mgl32.Vec3{0.5, 1, 0.5}, box.HalfExtents)
}

type fakeDisplay struct {
	fullscreen []bool
	vsync      []bool
	vsyncErr   error
}

func (d *fakeDisplay) SetFullscreen(on bool) error {
	d.fullscreen = append(d.fullscreen, on)
	return nil
}

func (d *fakeDisplay) SetVSync(on bool) error {
	d.vsync = append(d.vsync, on)
	return d.vsyncErr
}

func TestConfigReloadUpdatesDisplay(t *testing.T) {
	changes := make(chan *config.Config, 1)
	display := &fakeDisplay{vsyncErr: errors.New("no swap control")}
	cfg := config.Default()
	g, err := New(cfg, Options{
		Backend:       renderer.NewRecorder(),
		ConfigChanges: changes,
		Display:       display,
		MaxFrames:     2,
	})
	require.NoError(t, err)

	next := config.Default()
	next.Graphics.Fullscreen = true
	next.Graphics.VSync = !cfg.Graphics.VSync
	changes <- next

	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, []bool{true}, display.fullscreen)
	assert.Equal(t, []bool{next.Graphics.VSync}, display.vsync)
	assert.True(t, g.cfg.Graphics.Fullscreen)
	assert.Equal(t, !next.Graphics.VSync, g.cfg.Graphics.VSync, "failed change keeps the old value")
}
