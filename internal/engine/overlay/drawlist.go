package overlay

// Floats per vertex in each list.
const (
	SolidVertexSize = 6 // pos2 + color4
	TextVertexSize  = 8 // pos2 + uv2 + color4
)

// DrawList batches overlay geometry in screen pixels, origin top-left.
// It is rebuilt every frame and uploaded by the GL overlay renderer.
type DrawList struct {
	Solid  []float32
	Glyphs []float32

	atlas *Atlas
}

// NewDrawList creates a list that lays out text with atlas.
func NewDrawList(atlas *Atlas) *DrawList {
	return &DrawList{
		Solid:  make([]float32, 0, 1024),
		Glyphs: make([]float32, 0, 4096),
		atlas:  atlas,
	}
}

// Reset empties both lists.
func (l *DrawList) Reset() {
	l.Solid = l.Solid[:0]
	l.Glyphs = l.Glyphs[:0]
}

// Atlas returns the glyph atlas.
func (l *DrawList) Atlas() *Atlas { return l.atlas }

// Empty reports whether nothing was queued.
func (l *DrawList) Empty() bool { return len(l.Solid) == 0 && len(l.Glyphs) == 0 }

// Rect queues a filled rectangle.
func (l *DrawList) Rect(x, y, w, h float32, c Color) {
	x1, y1 := x+w, y+h
	l.Solid = append(l.Solid,
		x, y, c.R, c.G, c.B, c.A,
		x1, y, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,
		x, y, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,
		x, y1, c.R, c.G, c.B, c.A,
	)
}

// RectOutline queues four edges of thickness t.
func (l *DrawList) RectOutline(x, y, w, h, t float32, c Color) {
	l.Rect(x, y, w, t, c)
	l.Rect(x, y+h-t, w, t, c)
	l.Rect(x, y+t, t, h-2*t, c)
	l.Rect(x+w-t, y+t, t, h-2*t, c)
}

// Panel queues a bordered background.
func (l *DrawList) Panel(x, y, w, h float32, bg, border Color) {
	l.Rect(x, y, w, h, bg)
	l.RectOutline(x, y, w, h, 1, border)
}

// Text queues a single line of text with its top-left corner at x, y.
func (l *DrawList) Text(x, y float32, text string, scale float32, c Color) {
	gw, gh := l.atlas.GlyphSize()
	w, h := float32(gw)*scale, float32(gh)*scale
	for _, r := range text {
		if r != ' ' {
			u0, v0, u1, v1 := l.atlas.GlyphUV(r)
			x1, y1 := x+w, y+h
			l.Glyphs = append(l.Glyphs,
				x, y, u0, v0, c.R, c.G, c.B, c.A,
				x1, y, u1, v0, c.R, c.G, c.B, c.A,
				x1, y1, u1, v1, c.R, c.G, c.B, c.A,
				x, y, u0, v0, c.R, c.G, c.B, c.A,
				x1, y1, u1, v1, c.R, c.G, c.B, c.A,
				x, y1, u0, v1, c.R, c.G, c.B, c.A,
			)
		}
		x += w
	}
}

// SolidVertices returns the number of queued solid vertices.
func (l *DrawList) SolidVertices() int { return len(l.Solid) / SolidVertexSize }

// TextVertices returns the number of queued text vertices.
func (l *DrawList) TextVertices() int { return len(l.Glyphs) / TextVertexSize }
