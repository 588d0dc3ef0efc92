package curve

import "strings"

// Shape identifies the spatial interpolation family used across a segment.
// A segment's shape is taken from its later keyframe.
type Shape int

const (
	// ShapeLinear interpolates componentwise along the straight chord.
	ShapeLinear Shape = iota
	// ShapeCosine eases the parameter with (1 - cos(pi*t)) / 2 before a linear interpolation.
	ShapeCosine
	// ShapeSmooth is a Hermite spline with chord-weighted central-difference tangents.
	ShapeSmooth
	// ShapeCatmullUniform is a Catmull-Rom spline with alpha 0.
	ShapeCatmullUniform
	// ShapeCatmullCentripetal is a Catmull-Rom spline with alpha 0.5.
	ShapeCatmullCentripetal
	// ShapeCatmullChordal is a Catmull-Rom spline with alpha 1.
	ShapeCatmullChordal
	// ShapeBezier is a cubic Bezier through the later keyframe's two handles.
	ShapeBezier
	// ShapeStep holds the start position for the whole segment.
	ShapeStep
)

var shapeNames = map[Shape]string{
	ShapeLinear:             "linear",
	ShapeCosine:             "cosine",
	ShapeSmooth:             "smooth",
	ShapeCatmullUniform:     "catmull_uniform",
	ShapeCatmullCentripetal: "catmull_centripetal",
	ShapeCatmullChordal:     "catmull_chordal",
	ShapeBezier:             "bezier",
	ShapeStep:               "step",
}

// Shapes lists every shape in declaration order.
var Shapes = []Shape{
	ShapeLinear, ShapeCosine, ShapeSmooth,
	ShapeCatmullUniform, ShapeCatmullCentripetal, ShapeCatmullChordal,
	ShapeBezier, ShapeStep,
}

// String returns the serialized name of the shape.
func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return shapeNames[ShapeLinear]
}

// ParseShape resolves a serialized shape name. Unknown names fall back to ShapeLinear.
//
// Parameters:
//   - name: the serialized name, case-insensitive
//
// Returns:
//   - Shape: the matching shape or ShapeLinear
//   - bool: false if the name was not recognized
func ParseShape(name string) (Shape, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range shapeNames {
		if n == name {
			return s, true
		}
	}
	return ShapeLinear, false
}

// NeedsNeighbors reports whether the shape reads the keyframes beyond the segment's endpoints.
func (s Shape) NeedsNeighbors() bool {
	switch s {
	case ShapeSmooth, ShapeCatmullUniform, ShapeCatmullCentripetal, ShapeCatmullChordal:
		return true
	}
	return false
}

// HasArcLength reports whether constant-speed reparameterization applies to the shape.
func (s Shape) HasArcLength() bool {
	return s != ShapeStep
}

// alpha returns the chord-length exponent of a Catmull-Rom shape.
func (s Shape) alpha() float64 {
	switch s {
	case ShapeCatmullCentripetal:
		return 0.5
	case ShapeCatmullChordal:
		return 1.0
	}
	return 0.0
}
