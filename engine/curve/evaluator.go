package curve

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// chordEpsilon is the floor applied to chord-length knot intervals so coincident
// control points never divide by zero.
const chordEpsilon = 1e-4

// HandleBlend is the fraction of a segment's chord at which auto-derived Bezier handles sit.
const HandleBlend = 0.4

// Controls holds the control points of one segment.
// Before and After are the positions of the keyframes on either side of the segment and are
// only read by shapes that need neighbors. Handle1 and Handle2 are only read by ShapeBezier.
type Controls struct {
	Before  mgl32.Vec3
	Start   mgl32.Vec3
	End     mgl32.Vec3
	After   mgl32.Vec3
	Handle1 mgl32.Vec3
	Handle2 mgl32.Vec3
}

// NewControls builds the controls for a segment from start to end with reflected neighbors
// and auto-derived Bezier handles. Use WithBefore, WithAfter and WithHandles to supply the
// real values when they exist.
//
// Parameters:
//   - start: the segment's start position
//   - end: the segment's end position
//
// Returns:
//   - Controls: the segment controls
func NewControls(start, end mgl32.Vec3) Controls {
	return Controls{
		Before:  Reflect(start, end),
		Start:   start,
		End:     end,
		After:   Reflect(end, start),
		Handle1: BlendHandle(start, end),
		Handle2: BlendHandle(end, start),
	}
}

// WithBefore returns a copy of the controls with the preceding neighbor set.
func (c Controls) WithBefore(p mgl32.Vec3) Controls {
	c.Before = p
	return c
}

// WithAfter returns a copy of the controls with the following neighbor set.
func (c Controls) WithAfter(p mgl32.Vec3) Controls {
	c.After = p
	return c
}

// WithHandles returns a copy of the controls with explicit Bezier handles.
func (c Controls) WithHandles(h1, h2 mgl32.Vec3) Controls {
	c.Handle1 = h1
	c.Handle2 = h2
	return c
}

// Reflect mirrors away through pivot, producing the stand-in for a missing neighbor.
func Reflect(pivot, away mgl32.Vec3) mgl32.Vec3 {
	return pivot.Mul(2).Sub(away)
}

// BlendHandle returns the point HandleBlend of the way from from toward to.
func BlendHandle(from, to mgl32.Vec3) mgl32.Vec3 {
	return from.Add(to.Sub(from).Mul(HandleBlend))
}

// Evaluate returns the position of a segment at local parameter t. Every shape returns Start
// at t = 0 and End at t = 1. Values of t outside [0, 1] extrapolate without failing.
//
// Parameters:
//   - shape: the path-shape of the segment
//   - t: the local parameter
//   - c: the segment's control points
//
// Returns:
//   - mgl32.Vec3: the interpolated position
func Evaluate(shape Shape, t float32, c Controls) mgl32.Vec3 {
	switch shape {
	case ShapeCosine:
		ct := float32((1 - math.Cos(math.Pi*float64(t))) / 2)
		return lerp(c.Start, c.End, ct)
	case ShapeSmooth:
		return smooth(t, c)
	case ShapeCatmullUniform, ShapeCatmullCentripetal, ShapeCatmullChordal:
		return catmullRom(t, c, shape.alpha())
	case ShapeBezier:
		return bezier(t, c)
	case ShapeStep:
		if t >= 1 {
			return c.End
		}
		return c.Start
	default:
		return lerp(c.Start, c.End, t)
	}
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// chord returns |b - a|^alpha floored at chordEpsilon.
func chord(a, b mgl32.Vec3, alpha float64) float32 {
	d := math.Pow(float64(b.Sub(a).Len()), alpha)
	if d < chordEpsilon || math.IsNaN(d) {
		d = chordEpsilon
	}
	return float32(d)
}

// hermite evaluates the cubic Hermite basis between p1 and p2 with tangents m1 and m2.
func hermite(p1, p2, m1, m2 mgl32.Vec3, t float32) mgl32.Vec3 {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return p1.Mul(h00).Add(m1.Mul(h10)).Add(p2.Mul(h01)).Add(m2.Mul(h11))
}

// catmullRom evaluates a non-uniform Catmull-Rom segment whose knot spacing is the chord
// length raised to alpha, expressed in Hermite form over the [Start, End] interval.
func catmullRom(t float32, c Controls, alpha float64) mgl32.Vec3 {
	p0, p1, p2, p3 := c.Before, c.Start, c.End, c.After
	d0 := chord(p0, p1, alpha)
	d1 := chord(p1, p2, alpha)
	d2 := chord(p2, p3, alpha)

	m1 := p1.Sub(p0).Mul(1 / d0).
		Sub(p2.Sub(p0).Mul(1 / (d0 + d1))).
		Add(p2.Sub(p1).Mul(1 / d1)).
		Mul(d1)
	m2 := p2.Sub(p1).Mul(1 / d1).
		Sub(p3.Sub(p1).Mul(1 / (d1 + d2))).
		Add(p3.Sub(p2).Mul(1 / d2)).
		Mul(d1)

	return hermite(p1, p2, m1, m2, t)
}

// smooth evaluates the Hermite segment whose tangents are central differences weighted by
// square-root chord lengths. Equal chords reduce it to the uniform Catmull-Rom tangent.
func smooth(t float32, c Controls) mgl32.Vec3 {
	d0 := chord(c.Before, c.Start, 0.5)
	d1 := chord(c.Start, c.End, 0.5)
	d2 := chord(c.End, c.After, 0.5)

	m1 := c.End.Sub(c.Before).Mul(d1 / (d0 + d1))
	m2 := c.After.Sub(c.Start).Mul(d1 / (d1 + d2))

	return hermite(c.Start, c.End, m1, m2, t)
}

// bezier evaluates the cubic Bezier Start, Handle1, Handle2, End.
func bezier(t float32, c Controls) mgl32.Vec3 {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return c.Start.Mul(b0).Add(c.Handle1.Mul(b1)).Add(c.Handle2.Mul(b2)).Add(c.End.Mul(b3))
}
