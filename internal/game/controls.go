package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/engine/input"
)

// handleInput polls and drains the queue once, routes pointer events to the
// HUD first and applies the rest to the key and mouse state.
func (g *Game) handleInput() {
	if g.opts.Poller != nil {
		g.opts.Poller.Poll()
	}
	events := g.opts.Queue.Drain()

	kept := events[:0:0]
	for _, ev := range events {
		// Button releases always reach the state so no button sticks.
		if isPointer(ev.Type) && g.hud.HandleEvent(ev) && ev.Type != input.EventMouseUp {
			continue
		}
		kept = append(kept, ev)
	}
	g.input.Apply(kept)

	if g.input.QuitRequested() || g.input.Pressed(input.KeyEscape) {
		g.quit = true
		return
	}
	if w, h, ok := g.input.Resized(); ok {
		g.resize(w, h)
	}
	if g.input.Pressed(input.KeyF2) {
		mode := g.pipeline.ToggleMode()
		g.log.Debug("toggled render mode", zap.Stringer("mode", mode))
	}
	if g.input.Pressed(input.KeyF3) {
		g.hud.Toggle()
	}
	if g.input.Pressed(input.KeyF12) && g.opts.Screenshot != nil {
		g.pipeline.BeforePresent(g.captureScreenshot)
	}
}

func (g *Game) captureScreenshot() {
	path, err := g.opts.Screenshot()
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

func isPointer(t input.EventType) bool {
	switch t {
	case input.EventMouseMove, input.EventMouseDown, input.EventMouseUp, input.EventScroll:
		return true
	}
	return false
}

// driveCamera turns held keys and right-drag into camera Look and Move.
func (g *Game) driveCamera(dt float32) {
	cc := g.cfg.Camera
	st := &g.input

	if st.ButtonHeld(input.ButtonRight) {
		dx, dy := st.MouseDelta()
		g.camera.Look(-float32(dy)*cc.LookSensitivity, float32(dx)*cc.LookSensitivity)
	}

	rate := mgl32.DegToRad(cc.KeyLookRateDeg) * dt
	var dPitch, dYaw float32
	if st.Held(input.KeyUp) {
		dPitch += rate
	}
	if st.Held(input.KeyDown) {
		dPitch -= rate
	}
	if st.Held(input.KeyLeft) {
		dYaw -= rate
	}
	if st.Held(input.KeyRight) {
		dYaw += rate
	}
	if dPitch != 0 || dYaw != 0 {
		g.camera.Look(dPitch, dYaw)
	}

	var move mgl32.Vec3
	if st.Held(input.KeyW) {
		move[2]++
	}
	if st.Held(input.KeyS) {
		move[2]--
	}
	if st.Held(input.KeyD) {
		move[0]++
	}
	if st.Held(input.KeyA) {
		move[0]--
	}
	if st.Held(input.KeyE) {
		move[1]++
	}
	if st.Held(input.KeyQ) {
		move[1]--
	}
	if move.Len() == 0 {
		return
	}

	speed := cc.MoveSpeed * dt
	if st.Held(input.KeyShift) {
		speed *= cc.FastMoveMultiple
	}
	g.camera.Move(move.Normalize().Mul(speed))
}
