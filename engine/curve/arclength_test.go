package curve

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLUTMonotonic(t *testing.T) {
	t.Parallel()

	c := testControls()
	for _, shape := range Shapes {
		lut := BuildSegmentLUT(shape, c, DefaultSamples)
		require.Equal(t, DefaultSamples+1, lut.Len())
		prev := -1.0
		for i := 0; i < lut.Len(); i++ {
			_, d := lut.Sample(i)
			assert.GreaterOrEqual(t, d, prev, "%s sample %d", shape, i)
			prev = d
		}
		prev = 0
		for i := 0; i <= 20; i++ {
			d := lut.DistanceForT(float64(i) / 20)
			assert.GreaterOrEqual(t, d, prev, "%s DistanceForT(%d/20)", shape, i)
			prev = d
		}
		assert.Equal(t, 0.0, lut.TForDistance(0))
		if lut.Total() > 0 {
			assert.Equal(t, 1.0, lut.TForDistance(lut.Total()))
		}
	}
}

func TestLUTStraightLine(t *testing.T) {
	t.Parallel()

	c := NewControls(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0})
	lut := BuildSegmentLUT(ShapeLinear, c, 0)
	assert.InDelta(t, 10.0, lut.Total(), 1e-4)
	assert.InDelta(t, 0.25, lut.TForDistance(2.5), 1e-6)
	assert.InDelta(t, 5.0, lut.DistanceForT(0.5), 1e-4)
	assert.InDelta(t, 0.5, lut.Remap(0.5), 1e-6)
	assert.Equal(t, 0.0, lut.TForDistance(-3))
	assert.Equal(t, 1.0, lut.TForDistance(99))
	assert.Equal(t, 10.0, lut.DistanceForT(7))
}

func TestLUTDegenerate(t *testing.T) {
	t.Parallel()

	p := mgl32.Vec3{2, 2, 2}
	lut := BuildSegmentLUT(ShapeCatmullCentripetal, NewControls(p, p), 16)
	assert.InDelta(t, 0.0, lut.Total(), 1e-9)
	assert.Equal(t, 0.0, lut.TForDistance(0.5))
	assert.Equal(t, 0.0, lut.TForDistance(0))
}

func TestLUTRoundTrip(t *testing.T) {
	t.Parallel()

	lut := BuildSegmentLUT(ShapeCosine, NewControls(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 4, 3}), DefaultSamples)
	for _, tt := range []float64{0.1, 0.33, 0.5, 0.9} {
		assert.InDelta(t, tt, lut.TForDistance(lut.DistanceForT(tt)), 1e-6)
	}
}

func TestLUTConstantSpeedMidpoint(t *testing.T) {
	t.Parallel()

	// a cosine segment moves slowly at both ends, so the raw parameter 0.25 covers less
	// than a quarter of the length while the remapped parameter covers exactly a quarter.
	c := NewControls(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{8, 0, 0})
	lut := BuildSegmentLUT(ShapeCosine, c, DefaultSamples)
	assert.Less(t, lut.DistanceForT(0.25), lut.Total()/4)
	remapped := lut.Remap(0.25)
	assert.InDelta(t, lut.Total()/4, lut.DistanceForT(remapped), lut.Total()*0.01)
	assert.InDelta(t, 2.0, Evaluate(ShapeCosine, float32(remapped), c)[0], 0.1)
}
