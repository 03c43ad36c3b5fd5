package renderer

// Mode selects the opaque rendering path.
type Mode int

const (
	ModeDeferred Mode = iota
	ModeForward
)

func (m Mode) String() string {
	if m == ModeDeferred {
		return "deferred"
	}
	return "forward"
}

// Pass identifies one step of a frame.
type Pass int

const (
	PassGeometry Pass = iota
	PassLighting
	PassOpaque
	PassTransparent
	PassOverlay
)

func (p Pass) String() string {
	switch p {
	case PassGeometry:
		return "geometry"
	case PassLighting:
		return "lighting"
	case PassOpaque:
		return "opaque"
	case PassTransparent:
		return "transparent"
	case PassOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Path selects which material binding a pass uses.
type Path int

const (
	PathDeferred Path = iota
	PathForward
)

func (p Path) String() string {
	if p == PathDeferred {
		return "deferred"
	}
	return "forward"
}

// Path returns the material binding path used by draws in the pass.
func (p Pass) Path() Path {
	if p == PassGeometry {
		return PathDeferred
	}
	return PathForward
}

// Target is the framebuffer a pass renders into.
type Target int

const (
	TargetScreen Target = iota
	TargetGBuffer
)

// PassState is the fixed-function state a backend applies when a pass
// begins.
type PassState struct {
	Target     Target
	DepthTest  bool
	DepthWrite bool
	CullBack   bool
	Blend      bool
}

// State returns the state for the pass.
func (p Pass) State() PassState {
	switch p {
	case PassGeometry:
		return PassState{Target: TargetGBuffer, DepthTest: true, DepthWrite: true, CullBack: true}
	case PassLighting:
		return PassState{Target: TargetScreen}
	case PassOpaque:
		return PassState{Target: TargetScreen, DepthTest: true, DepthWrite: true, CullBack: true}
	case PassTransparent:
		return PassState{Target: TargetScreen, DepthTest: true, Blend: true}
	case PassOverlay:
		return PassState{Target: TargetScreen, Blend: true}
	default:
		return PassState{}
	}
}
