package easing

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects how a channel's segment parameter is remapped before spatial interpolation.
type Mode int

const (
	// ModeLinear leaves the parameter untouched.
	ModeLinear Mode = iota
	// ModeBezier remaps the parameter through the channel's 2D Bezier curve.
	ModeBezier
)

// solveIterations bounds the bisection used to invert the curve's x(u).
const solveIterations = 32

// String returns the serialized name of the mode.
func (m Mode) String() string {
	if m == ModeBezier {
		return "bezier"
	}
	return "linear"
}

// ParseMode resolves a serialized mode name. Unknown names fall back to ModeLinear.
//
// Parameters:
//   - name: the serialized name, case-insensitive
//
// Returns:
//   - Mode: the matching mode or ModeLinear
//   - bool: false if the name was not recognized
func ParseMode(name string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return ModeLinear, true
	case "bezier":
		return ModeBezier, true
	}
	return ModeLinear, false
}

// Curve is a timing curve from (0,0) to (1,1) shaped by two handles in the unit square.
type Curve struct {
	Left  mgl32.Vec2
	Right mgl32.Vec2
}

// DefaultCurve returns the handle pair (0.4,0.4)/(0.6,0.6), which is the identity timing.
func DefaultCurve() Curve {
	return Curve{Left: mgl32.Vec2{0.4, 0.4}, Right: mgl32.Vec2{0.6, 0.6}}
}

// Apply remaps t through the curve. t is clamped to [0, 1]; the endpoints map exactly onto
// themselves. Handle x coordinates are clamped to [0, 1] so x(u) is monotonic and invertible.
//
// Parameters:
//   - t: the linear segment parameter
//
// Returns:
//   - float32: the eased parameter
func (c Curve) Apply(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	x1 := clamp01(c.Left[0])
	x2 := clamp01(c.Right[0])

	lo, hi := float32(0), float32(1)
	u := t
	for i := 0; i < solveIterations; i++ {
		x := cubic(x1, x2, u)
		if x < t {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return cubic(c.Left[1], c.Right[1], u)
}

// Apply remaps t according to mode, using curve only for ModeBezier.
func Apply(mode Mode, curve Curve, t float32) float32 {
	if mode == ModeBezier {
		return curve.Apply(t)
	}
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// cubic evaluates one coordinate of the Bezier 0, a, b, 1 at u.
func cubic(a, b, u float32) float32 {
	v := 1 - u
	return 3*v*v*u*a + 3*v*u*u*b + u*u*u
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
