package game

import (
	"github.com/Faultbox/midgard-engine/internal/engine/geom"
	"github.com/Faultbox/midgard-engine/internal/engine/spatial"
)

// Pick casts a ray through the pixel (x, y) in window coordinates and
// returns the nearest static collision triangle it hits.
func (g *Game) Pick(x, y int) (spatial.Hit, bool) {
	if g.static == nil || g.width <= 0 || g.height <= 0 {
		return spatial.Hit{}, false
	}
	invViewProj := g.proj.Matrix().Mul4(g.camera.Update()).Inv()
	ray := geom.ScreenToRay(float32(x)+0.5, float32(y)+0.5, float32(g.width), float32(g.height), invViewProj)
	return g.static.Raycast(ray, g.proj.Far)
}

// pointerHit picks under the cursor unless the HUD owns it.
func (g *Game) pointerHit() (spatial.Hit, bool) {
	x, y := g.input.Mouse()
	if g.hud.Hovered() {
		return spatial.Hit{}, false
	}
	return g.Pick(x, y)
}
