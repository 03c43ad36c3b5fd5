package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked GL program with a uniform location cache. Setters
// apply to the program currently in use; call Use first.
type Program struct {
	id        uint32
	name      string
	locations map[string]int32
}

// NewProgram compiles and links a named program.
func NewProgram(name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{id: id, name: name, locations: make(map[string]int32)}, nil
}

// ID returns the GL program object.
func (p *Program) ID() uint32 { return p.id }

// Name returns the label given at creation.
func (p *Program) Name() string { return p.name }

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Location returns the cached uniform location; -1 means inactive and is
// silently ignored by every setter.
func (p *Program) Location(name string) int32 {
	loc, ok := p.locations[name]
	if !ok {
		loc = GetUniform(p.id, name)
		p.locations[name] = loc
	}
	return loc
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.Location(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.Location(name), v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.Location(name), v[0], v[1], v[2])
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4f(p.Location(name), v[0], v[1], v[2], v[3])
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Location(name), 1, false, &m[0])
}

// SetVec3Array uploads count vec3 values from a flat slice.
func (p *Program) SetVec3Array(name string, flat []float32, count int) {
	if count == 0 {
		return
	}
	gl.Uniform3fv(p.Location(name), int32(count), &flat[0])
}

// SetFloatArray uploads count floats.
func (p *Program) SetFloatArray(name string, values []float32, count int) {
	if count == 0 {
		return
	}
	gl.Uniform1fv(p.Location(name), int32(count), &values[0])
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
