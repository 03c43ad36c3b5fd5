// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms segment geometry for every mesh program.
//
//go:embed mesh.vert
var MeshVertexShader string

// GeometryFragmentShader writes the G-buffer in the deferred geometry pass.
//
//go:embed geometry.frag
var GeometryFragmentShader string

// FullscreenVertexShader emits a viewport-covering triangle.
//
//go:embed fullscreen.vert
var FullscreenVertexShader string

// LightingFragmentShader resolves the G-buffer against sun and point lights.
//
//go:embed lighting.frag
var LightingFragmentShader string

// ForwardFragmentShader lights opaque surfaces directly.
//
//go:embed forward.frag
var ForwardFragmentShader string

// GlassFragmentShader shades blended transparent surfaces.
//
//go:embed glass.frag
var GlassFragmentShader string
