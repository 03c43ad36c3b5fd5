// Package framebuffer provides the offscreen G-buffer used by the deferred
// geometry pass.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// G-buffer attachment slots, also the texture units the lighting pass binds
// them to.
const (
	AttachAlbedo   = 0 // RGB albedo, A specular
	AttachNormal   = 1 // World-space normal
	AttachPosition = 2 // World-space position
	attachCount    = 3
)

// GBuffer is a multiple-render-target framebuffer with a shared depth
// attachment.
type GBuffer struct {
	fbo      uint32
	textures [attachCount]uint32
	depthRBO uint32
	width    int32
	height   int32
}

var attachFormats = [attachCount]struct {
	internal int32
	format   uint32
	xtype    uint32
}{
	AttachAlbedo:   {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	AttachNormal:   {gl.RGBA16F, gl.RGBA, gl.FLOAT},
	AttachPosition: {gl.RGBA16F, gl.RGBA, gl.FLOAT},
}

// NewGBuffer creates a G-buffer with the specified dimensions.
func NewGBuffer(width, height int32) (*GBuffer, error) {
	fb := &GBuffer{
		width:  max(width, 1),
		height: max(height, 1),
	}

	if err := fb.create(); err != nil {
		return nil, fmt.Errorf("creating g-buffer: %w", err)
	}
	return fb, nil
}

func (fb *GBuffer) create() error {
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.GenTextures(attachCount, &fb.textures[0])
	drawBuffers := make([]uint32, attachCount)
	for i, tex := range fb.textures {
		gl.BindTexture(gl.TEXTURE_2D, tex)
		fb.allocate(i)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		attachment := uint32(gl.COLOR_ATTACHMENT0 + i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex, 0)
		drawBuffers[i] = attachment
	}
	gl.DrawBuffers(attachCount, &drawBuffers[0])

	gl.GenRenderbuffers(1, &fb.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

func (fb *GBuffer) allocate(i int) {
	f := attachFormats[i]
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal, fb.width, fb.height, 0, f.format, f.xtype, nil)
}

// Bind makes the G-buffer the current render target.
func (fb *GBuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)
}

// Unbind restores the default framebuffer.
func (fb *GBuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Clear clears all attachments and depth.
func (fb *GBuffer) Clear() {
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// BindTextures binds each attachment to the texture unit of the same index.
func (fb *GBuffer) BindTextures() {
	for i, tex := range fb.textures {
		gl.ActiveTexture(uint32(gl.TEXTURE0 + i))
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// BlitDepth copies the depth attachment into the default framebuffer so
// later forward passes depth-test against deferred geometry.
func (fb *GBuffer) BlitDepth() {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, fb.width, fb.height, gl.DEPTH_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Size returns the framebuffer dimensions.
func (fb *GBuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize reallocates attachments if the dimensions changed.
func (fb *GBuffer) Resize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height {
		return
	}
	fb.width = width
	fb.height = height

	for i, tex := range fb.textures {
		gl.BindTexture(gl.TEXTURE_2D, tex)
		fb.allocate(i)
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, fb.width, fb.height)
}

// Destroy releases all OpenGL resources.
func (fb *GBuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.textures[0] != 0 {
		gl.DeleteTextures(attachCount, &fb.textures[0])
		fb.textures = [attachCount]uint32{}
	}
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
}
