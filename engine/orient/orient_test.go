package orient

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertAnglesNear(t *testing.T, want, got mgl32.Vec3, tol float32) {
	t.Helper()
	for i := 0; i < 3; i++ {
		d := common.WrapDegrees(got[i] - want[i])
		assert.LessOrEqual(t, float32(math.Abs(float64(d))), tol, "component %d: want %v got %v", i, want, got)
	}
}

func TestYPRRoundTrip(t *testing.T) {
	t.Parallel()

	for yaw := float32(-175); yaw <= 180; yaw += 35 {
		for pitch := float32(-85); pitch <= 85; pitch += 17 {
			for roll := float32(-170); roll <= 180; roll += 50 {
				in := mgl32.Vec3{yaw, pitch, roll}
				assertAnglesNear(t, in, QuatToYPR(YPRToQuat(in)), 0.5)
			}
		}
	}
}

func TestYPRToQuatYawConvention(t *testing.T) {
	t.Parallel()

	// yaw 90 turns the +Z forward vector toward -X, matching common.RotateYaw.
	fwd := mgl32.Vec3{0, 0, 1}
	q := YPRToQuat(mgl32.Vec3{90, 0, 0})
	assert.True(t, q.Rotate(fwd).ApproxEqualThreshold(common.RotateYaw(fwd, 90), 1e-5))

	// positive pitch looks down.
	q = YPRToQuat(mgl32.Vec3{0, 30, 0})
	assert.Less(t, q.Rotate(fwd)[1], float32(0))
}

func TestQuatToYPRAtPole(t *testing.T) {
	t.Parallel()

	got := QuatToYPR(YPRToQuat(mgl32.Vec3{40, 90, 0}))
	assert.InDelta(t, 90, got[1], 0.5)
	assert.InDelta(t, 40, got[0], 0.5)
	assert.Equal(t, float32(0), got[2])
}

func TestSlerpShortestArc(t *testing.T) {
	t.Parallel()

	a := YPRToQuat(mgl32.Vec3{170, 0, 0})
	b := YPRToQuat(mgl32.Vec3{-170, 0, 0})
	mid := QuatToYPR(Slerp(a, b, 0.5))
	assertAnglesNear(t, mgl32.Vec3{180, 0, 0}, mid, 0.01)

	// antipodal representation of the same rotation must not take the long way round.
	mid = QuatToYPR(Slerp(a, b.Scale(-1), 0.5))
	assertAnglesNear(t, mgl32.Vec3{180, 0, 0}, mid, 0.01)

	assert.True(t, Slerp(a, b, 0).ApproxEqualThreshold(a, 1e-6))
}

func TestSlerpYPRContinuity(t *testing.T) {
	t.Parallel()

	from := mgl32.Vec3{350, 10, 0}
	to := mgl32.Vec3{20, -5, 0}
	assert.Equal(t, from, SlerpYPR(from, to, 0))
	got := SlerpYPR(from, to, 0.001)
	assert.InDelta(t, 350, got[0], 0.2)
	assertAnglesNear(t, to, SlerpYPR(from, to, 1), 0.01)
}

func TestUnwrapYPR(t *testing.T) {
	t.Parallel()

	assert.Equal(t, mgl32.Vec3{-10, 0, 190}, UnwrapYPR(mgl32.Vec3{0, 0, 170}, mgl32.Vec3{350, 0, -170}))
	assert.Equal(t, mgl32.Vec3{20, 5, 0}, UnwrapYPR(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{20, 5, 0}))
}

func TestSmoothT(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.5, SmoothT(15, 10, 20))
	assert.Equal(t, 0.0, SmoothT(5, 10, 20))
	assert.Equal(t, 1.0, SmoothT(25, 10, 20))
	assert.Equal(t, 0.0, SmoothT(10, 10, 10.0005))
	assert.Equal(t, 0.0, SmoothT(10, 20, 10))
	assert.Equal(t, 0.0, SmoothT(math.NaN(), 0, 1))
	assert.Equal(t, 0.0, SmoothT(1, math.Inf(-1), math.Inf(1)))
	assert.Equal(t, 1.0, SmoothT(math.Inf(1), 0, 1))
}

func TestLerpAngle(t *testing.T) {
	t.Parallel()

	got := LerpAngle(170, -170, 0.5)
	assert.InDelta(t, 180, math.Abs(float64(got)), 1e-4)
	assert.InDelta(t, 5, LerpAngle(0, 10, 0.5), 1e-6)
	assert.InDelta(t, -5, LerpAngle(0, 350, 0.5), 1e-4)

	rot := SmoothRotationLerp(mgl32.Vec3{170, 10, 0}, mgl32.Vec3{-170, 30, 20}, 0.5)
	assert.InDelta(t, 180, math.Abs(float64(rot[0])), 1e-4)
	assert.InDelta(t, 20, rot[1], 1e-4)
	assert.InDelta(t, 10, rot[2], 1e-4)
}

func TestSmoothFovLerp(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 80, SmoothFovLerp(70, 90, 0.5), 1e-4)
	assert.Equal(t, float32(70), SmoothFovLerp(70, 90, 0))
	assert.Equal(t, float32(90), SmoothFovLerp(70, 90, 1))
	assert.Less(t, SmoothFovLerp(70, 90, 0.1), float32(72))
}
