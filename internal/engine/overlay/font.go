package overlay

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII range baked into the atlas.
const (
	firstGlyph   = 32
	lastGlyph    = 126
	atlasColumns = 16
)

// Atlas is a fixed-cell glyph atlas rendered from a bitmap face.
type Atlas struct {
	image  *image.Alpha
	glyphW int
	glyphH int
	ascent int
}

// NewAtlas rasterizes basicfont.Face7x13 into a single-channel image.
func NewAtlas() *Atlas {
	face := basicfont.Face7x13
	a := &Atlas{
		glyphW: face.Advance,
		glyphH: face.Height,
		ascent: face.Ascent,
	}

	rows := (lastGlyph - firstGlyph + atlasColumns) / atlasColumns
	a.image = image.NewAlpha(image.Rect(0, 0, atlasColumns*a.glyphW, rows*a.glyphH))

	d := &font.Drawer{Dst: a.image, Src: image.Opaque, Face: face}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		col, row := a.cell(r)
		d.Dot = fixed.P(col*a.glyphW, row*a.glyphH+a.ascent)
		d.DrawString(string(r))
	}
	return a
}

func (a *Atlas) cell(r rune) (col, row int) {
	i := int(r) - firstGlyph
	return i % atlasColumns, i / atlasColumns
}

// Image returns the atlas pixels.
func (a *Atlas) Image() *image.Alpha { return a.image }

// GlyphSize returns the cell size in pixels.
func (a *Atlas) GlyphSize() (int, int) { return a.glyphW, a.glyphH }

// GlyphUV returns the texture coordinates of r. Runes outside the atlas map
// to '?'.
func (a *Atlas) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	col, row := a.cell(r)
	b := a.image.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	u0 = float32(col*a.glyphW) / w
	v0 = float32(row*a.glyphH) / h
	u1 = float32((col+1)*a.glyphW) / w
	v1 = float32((row+1)*a.glyphH) / h
	return u0, v0, u1, v1
}

// MeasureText returns the size of a single-line string at scale.
func (a *Atlas) MeasureText(text string, scale float32) (float32, float32) {
	n := 0
	for range text {
		n++
	}
	return float32(n*a.glyphW) * scale, float32(a.glyphH) * scale
}
