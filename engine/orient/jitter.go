package orient

import (
	"math"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/go-gl/mathgl/mgl32"
)

// SmoothT returns the clamped position of current inside [t0, t1] as a fraction in [0, 1].
// Spans at or below common.Epsilon return 0 and non-finite input returns 0, so the
// function is total and never divides by a value smaller than common.Epsilon.
//
// Parameters:
//   - current: the sample time
//   - t0: start time of the span
//   - t1: end time of the span
//
// Returns:
//   - float64: the fraction in [0, 1]
func SmoothT(current, t0, t1 float64) float64 {
	span := t1 - t0
	if !(span > common.Epsilon) || math.IsInf(span, 0) {
		return 0
	}
	f := (current - t0) / span
	if math.IsNaN(f) {
		return 0
	}
	return common.Clamp(f, 0, 1)
}

// LerpAngle interpolates between two angles in degrees along the shortest path.
// The delta is normalized into [-180, 180) before scaling, so 170 to -170 passes through 180.
func LerpAngle(a, b, t float32) float32 {
	return a + common.WrapDegrees(b-a)*t
}

// SmoothRotationLerp applies LerpAngle to yaw, pitch and roll independently.
// It is the fallback used where quaternion slerp is not selected.
func SmoothRotationLerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		LerpAngle(a[0], b[0], t),
		LerpAngle(a[1], b[1], t),
		LerpAngle(a[2], b[2], t),
	}
}

// SmoothFovLerp interpolates a field of view with smoothstep easing.
func SmoothFovLerp(a, b, t float32) float32 {
	return common.Lerp(a, b, common.Smoothstep(t))
}
