// Package glbackend executes render passes with OpenGL 4.1 core.
// Every function must be called on the thread that owns the GL context.
package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-engine/internal/engine/lighting"
	"github.com/Faultbox/midgard-engine/internal/engine/material"
	"github.com/Faultbox/midgard-engine/internal/engine/mesh"
	"github.com/Faultbox/midgard-engine/internal/engine/renderer"
	"github.com/Faultbox/midgard-engine/internal/engine/renderer/shaders"
	"github.com/Faultbox/midgard-engine/internal/engine/scene"
	"github.com/Faultbox/midgard-engine/internal/engine/shader"
	"github.com/Faultbox/midgard-engine/internal/logger"
)

// Backend is the OpenGL implementation of renderer.Backend.
type Backend struct {
	renderer.PassGuard

	log      *zap.Logger
	width    int
	height   int
	gbuffer  *framebuffer.GBuffer
	programs *renderer.ProgramCache[*shader.Program]
	lighting *shader.Program
	meshes   map[*mesh.Mesh]*gpuMesh
	lights   *lighting.PointLightBuffer
	warned   map[renderer.ProgramKey]bool

	emptyVAO uint32 // fullscreen triangle is generated from gl_VertexID
	fc       *renderer.FrameContext
	current  *shader.Program
}

// New initializes OpenGL and allocates the G-buffer.
// Must be called after the GL context is created.
func New(width, height int) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	b := &Backend{
		log:    logger.Named("renderer"),
		width:  width,
		height: height,
		meshes: make(map[*mesh.Mesh]*gpuMesh),
		lights: lighting.NewPointLightBuffer(),
		warned: make(map[renderer.ProgramKey]bool),
	}
	b.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gbuf, err := framebuffer.NewGBuffer(int32(width), int32(height))
	if err != nil {
		return nil, fmt.Errorf("failed to create G-buffer: %w", err)
	}
	b.gbuffer = gbuf

	b.lighting, err = shader.NewProgram("lighting", shaders.FullscreenVertexShader, shaders.LightingFragmentShader)
	if err != nil {
		gbuf.Destroy()
		return nil, fmt.Errorf("failed to create lighting program: %w", err)
	}
	b.lighting.Use()
	b.lighting.SetInt("uGAlbedo", framebuffer.AttachAlbedo)
	b.lighting.SetInt("uGNormal", framebuffer.AttachNormal)
	b.lighting.SetInt("uGPosition", framebuffer.AttachPosition)

	b.programs = renderer.NewProgramCache(buildProgram, (*shader.Program).Delete)
	gl.GenVertexArrays(1, &b.emptyVAO)

	return b, nil
}

// buildProgram maps a material kind and path to shader sources.
func buildProgram(key renderer.ProgramKey) (*shader.Program, error) {
	var frag string
	switch {
	case key.Kind == material.KindGlass:
		frag = shaders.GlassFragmentShader
	case key.Kind == material.KindSolid && key.Path == renderer.PathDeferred:
		frag = shaders.GeometryFragmentShader
	case key.Kind == material.KindSolid:
		frag = shaders.ForwardFragmentShader
	default:
		return nil, fmt.Errorf("no shader for material kind %q", key.Kind)
	}
	return shader.NewProgram(key.String(), shaders.MeshVertexShader, frag)
}

func (b *Backend) BeginFrame(fc *renderer.FrameContext) {
	b.fc = fc
	b.lights.SetLights(fc.Lights)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(b.width), int32(b.height))
	c := fc.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) BeginPass(p renderer.Pass) {
	b.Begin(p)
	b.current = nil

	st := p.State()
	if st.Target == renderer.TargetGBuffer {
		b.gbuffer.Bind()
		b.gbuffer.Clear()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(b.width), int32(b.height))
	}
	setCap(gl.DEPTH_TEST, st.DepthTest)
	gl.DepthMask(st.DepthWrite)
	setCap(gl.CULL_FACE, st.CullBack)
	if st.CullBack {
		gl.CullFace(gl.BACK)
	}
	setCap(gl.BLEND, st.Blend)
}

func setCap(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}

func (b *Backend) Draw(seg *scene.Segment, model mgl32.Mat4) {
	p := b.Require("Draw")

	key := renderer.ProgramKey{Kind: seg.Material.Kind(), Path: p.Path()}
	prog, err := b.programs.Get(key)
	if err != nil {
		if !b.warned[key] {
			b.warned[key] = true
			b.log.Warn("skipping draws without a program", zap.String("segment", seg.Name), zap.Error(err))
		}
		return
	}
	if prog != b.current {
		b.current = prog
		prog.Use()
		prog.SetMat4("uViewProj", b.fc.ViewProj)
		if p.Path() == renderer.PathForward {
			b.bindLighting(prog)
		}
	}
	prog.SetMat4("uModel", model)
	if p.Path() == renderer.PathDeferred {
		seg.Material.BindDeferred(prog)
	} else {
		seg.Material.BindForward(prog)
	}

	gm, ok := b.meshes[seg.Mesh]
	if !ok {
		gm = uploadMesh(seg.Mesh)
		b.meshes[seg.Mesh] = gm
	}
	gm.draw()
}

// bindLighting uploads camera, sun and point lights to prog.
func (b *Backend) bindLighting(prog *shader.Program) {
	fc := b.fc
	prog.SetVec3("uCameraPos", fc.CameraPos)
	prog.SetVec3("uSunDir", fc.Sun.Direction)
	prog.SetVec3("uSunColor", fc.Sun.Color)
	prog.SetVec3("uAmbient", fc.Sun.Ambient)
	prog.SetVec4("uClearColor", fc.ClearColor)

	n := b.lights.Count()
	prog.SetInt("uLightCount", int32(n))
	prog.SetVec3Array("uLightPositions", b.lights.Positions(), n)
	prog.SetVec3Array("uLightColors", b.lights.Colors(), n)
	prog.SetFloatArray("uLightRadii", b.lights.Radii(), n)
	prog.SetFloatArray("uLightAttenuations", b.lights.Attenuations(), n)
}

func (b *Backend) ResolveLighting() {
	b.RequirePass("ResolveLighting", renderer.PassLighting)

	b.lighting.Use()
	b.bindLighting(b.lighting)
	b.gbuffer.BindTextures()

	gl.BindVertexArray(b.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	// Transparent surfaces depth-test against the opaque scene.
	b.gbuffer.BlitDepth()
}

func (b *Backend) EndPass() {
	b.End()
	b.current = nil
	gl.BindVertexArray(0)
}

func (b *Backend) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == b.width && height == b.height) {
		return
	}
	b.width, b.height = width, height
	b.gbuffer.Resize(int32(width), int32(height))
	b.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

func (b *Backend) Close() {
	b.log.Info("closing renderer")
	for m, gm := range b.meshes {
		gm.destroy()
		delete(b.meshes, m)
	}
	b.programs.Close()
	if b.lighting != nil {
		b.lighting.Delete()
	}
	if b.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &b.emptyVAO)
	}
	if b.gbuffer != nil {
		b.gbuffer.Destroy()
	}
}

// ReadPixels returns the default framebuffer as bottom-up RGBA rows. Call it
// before the frame is presented.
func (b *Backend) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, b.width*b.height*4)
	if len(pixels) == 0 {
		return pixels, b.width, b.height
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(b.width), int32(b.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, b.width, b.height
}
