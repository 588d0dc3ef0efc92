package curve

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// DefaultSamples is the number of equal parameter steps an arc-length table walks.
const DefaultSamples = 64

// degenerateLength is the total length below which a segment is treated as a point.
const degenerateLength = 1e-9

// LUT is an arc-length lookup table over one segment: parallel arrays of curve parameter
// and cumulative traveled distance. Distances are non-decreasing by construction.
type LUT struct {
	ts []float64
	ds []float64

	fit    interp.PiecewiseLinear
	fitted bool
}

// BuildLUT samples eval at samples+1 equally spaced parameters over [0, 1] and accumulates
// the Euclidean distance between consecutive samples.
//
// Parameters:
//   - eval: the segment evaluator
//   - samples: number of steps, DefaultSamples when < 1
//
// Returns:
//   - *LUT: the lookup table
func BuildLUT(eval func(t float32) mgl32.Vec3, samples int) *LUT {
	if samples < 1 {
		samples = DefaultSamples
	}

	ts := make([]float64, samples+1)
	steps := make([]float64, samples+1)
	prev := eval(0)
	for i := 1; i <= samples; i++ {
		t := float64(i) / float64(samples)
		p := eval(float32(t))
		ts[i] = t
		steps[i] = float64(p.Sub(prev).Len())
		prev = p
	}

	l := &LUT{ts: ts, ds: make([]float64, samples+1)}
	floats.CumSum(l.ds, steps)
	l.fitted = l.fit.Fit(l.ts, l.ds) == nil
	return l
}

// BuildSegmentLUT builds the table for a segment described by shape and controls.
func BuildSegmentLUT(shape Shape, c Controls, samples int) *LUT {
	return BuildLUT(func(t float32) mgl32.Vec3 {
		return Evaluate(shape, t, c)
	}, samples)
}

// Total returns the approximate arc length of the whole segment.
func (l *LUT) Total() float64 {
	return l.ds[len(l.ds)-1]
}

// Len returns the number of samples in the table.
func (l *LUT) Len() int {
	return len(l.ts)
}

// Sample returns the i-th (parameter, cumulative distance) pair.
func (l *LUT) Sample(i int) (t, d float64) {
	return l.ts[i], l.ds[i]
}

// TForDistance converts a traveled distance into a curve parameter by binary-searching the
// bracketing samples and interpolating linearly between them.
// Distances at or below 0 map to 0, at or beyond Total to 1, and a degenerate segment
// always maps to 0.
//
// Parameters:
//   - d: distance traveled from the segment start
//
// Returns:
//   - float64: the curve parameter in [0, 1]
func (l *LUT) TForDistance(d float64) float64 {
	total := l.Total()
	if total < degenerateLength || d <= 0 {
		return 0
	}
	if d >= total {
		return 1
	}

	hi := sort.SearchFloat64s(l.ds, d)
	if hi == 0 {
		return 0
	}
	lo := hi - 1
	span := l.ds[hi] - l.ds[lo]
	if span <= 0 {
		return l.ts[hi]
	}
	frac := (d - l.ds[lo]) / span
	return l.ts[lo] + frac*(l.ts[hi]-l.ts[lo])
}

// DistanceForT converts a curve parameter into traveled distance. t is clamped to [0, 1].
func (l *LUT) DistanceForT(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return l.Total()
	}
	if l.fitted {
		return l.fit.Predict(t)
	}
	i := sort.SearchFloat64s(l.ts, t)
	frac := (t - l.ts[i-1]) / (l.ts[i] - l.ts[i-1])
	return l.ds[i-1] + frac*(l.ds[i]-l.ds[i-1])
}

// Remap converts a normalized progress fraction in [0, 1] into the curve parameter that
// travels that fraction of the total length.
func (l *LUT) Remap(progress float64) float64 {
	return l.TForDistance(progress * l.Total())
}
