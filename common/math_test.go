package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestWrapDegrees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{179, 179},
		{180, -180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{720, 0},
		{-340, 20},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapDegrees(tt.in), 1e-4, "WrapDegrees(%v)", tt.in)
	}
}

func TestRotateYaw(t *testing.T) {
	t.Parallel()

	fwd := mgl32.Vec3{0, 0, 1}
	assert.True(t, RotateYaw(fwd, 0).ApproxEqualThreshold(fwd, 1e-6))
	assert.True(t, RotateYaw(fwd, 90).ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-6))
	assert.True(t, RotateYaw(fwd, -90).ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6))
	assert.True(t, RotateYaw(RotateYaw(mgl32.Vec3{3, 2, -1}, 37), -37).ApproxEqualThreshold(mgl32.Vec3{3, 2, -1}, 1e-5))
}

func TestBuildViewMatrixLooksDownMinusZ(t *testing.T) {
	t.Parallel()

	var view [16]float32
	BuildViewMatrix(view[:], mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0})
	m := mgl32.Mat4(view)
	got := m.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.True(t, got.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6))

	BuildViewMatrix(view[:], mgl32.Vec3{1, 2, 3}, mgl32.Vec3{90, 0, 0})
	m = mgl32.Mat4(view)
	// yaw 90 looks down -X, so a point one unit along -X from the eye is straight ahead.
	got = m.Mul4x1(mgl32.Vec4{0, 2, 3, 1})
	assert.True(t, got.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5), "got %v", got)
}

func TestSmoothstepAndClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, float32(0), Smoothstep(-1))
	assert.Equal(t, float32(1), Smoothstep(2))
	assert.InDelta(t, 0.5, Smoothstep(0.5), 1e-6)
	assert.Equal(t, 1.0, Clamp(math.Inf(1), 0, 1))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
}
