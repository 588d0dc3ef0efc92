package orient

import (
	"math"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
	axisZ = mgl32.Vec3{0, 0, 1}
)

// gimbalThreshold is the |sin(pitch)| above which yaw and roll are no longer separable.
const gimbalThreshold = 0.99999

// YPRToQuat converts yaw, pitch and roll in degrees into a unit quaternion.
// The rotation is composed as Ry(-yaw) * Rx(pitch) * Rz(roll); yaw is negated to match the
// engine's left-handed convention.
//
// Parameters:
//   - rot: yaw, pitch, roll in degrees
//
// Returns:
//   - mgl32.Quat: the unit quaternion
func YPRToQuat(rot mgl32.Vec3) mgl32.Quat {
	qy := mgl32.QuatRotate(mgl32.DegToRad(-rot[0]), axisY)
	qx := mgl32.QuatRotate(mgl32.DegToRad(rot[1]), axisX)
	qz := mgl32.QuatRotate(mgl32.DegToRad(rot[2]), axisZ)
	return qy.Mul(qx).Mul(qz).Normalize()
}

// QuatToYPR converts a unit quaternion back into yaw, pitch and roll in degrees.
// Yaw and roll are returned in [-180, 180], pitch in [-90, 90]. At the poles roll is
// folded into yaw and reported as 0.
//
// Parameters:
//   - q: the quaternion, normalized internally
//
// Returns:
//   - mgl32.Vec3: yaw, pitch, roll in degrees
func QuatToYPR(q mgl32.Quat) mgl32.Vec3 {
	q = q.Normalize()
	w, x, y, z := float64(q.W), float64(q.V[0]), float64(q.V[1]), float64(q.V[2])

	// Rotation matrix entries of R = Ry * Rx * Rz that isolate each angle.
	r02 := 2 * (x*z + w*y)
	r22 := 1 - 2*(x*x+y*y)
	r12 := 2 * (y*z - w*x)
	r10 := 2 * (x*y + w*z)
	r11 := 1 - 2*(x*x+z*z)

	sinPitch := common.Clamp(-r12, -1, 1)
	pitch := math.Asin(sinPitch)

	var yaw, roll float64
	if math.Abs(sinPitch) < gimbalThreshold {
		yaw = math.Atan2(r02, r22)
		roll = math.Atan2(r10, r11)
	} else {
		r00 := 1 - 2*(y*y+z*z)
		r20 := 2 * (x*z - w*y)
		yaw = math.Atan2(-r20, r00)
	}

	return mgl32.Vec3{
		-float32(yaw * 180 / math.Pi),
		float32(pitch * 180 / math.Pi),
		float32(roll * 180 / math.Pi),
	}
}

// Slerp spherically interpolates from a to b by t along the shortest arc.
// Antipodal inputs are resolved by negating b, nearly identical inputs fall back to a
// normalized linear blend inside mgl32.
//
// Parameters:
//   - a: start orientation
//   - b: end orientation
//   - t: blend factor, 0 returns a and 1 returns b
//
// Returns:
//   - mgl32.Quat: the blended unit quaternion
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	a, b = a.Normalize(), b.Normalize()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// SlerpYPR blends two yaw/pitch/roll triples through quaternion space and unwraps the result
// against from so it stays continuous with the start orientation.
func SlerpYPR(from, to mgl32.Vec3, t float32) mgl32.Vec3 {
	if t <= 0 {
		return from
	}
	q := Slerp(YPRToQuat(from), YPRToQuat(to), t)
	return UnwrapYPR(from, QuatToYPR(q))
}

// UnwrapYPR returns v with each angle moved by whole turns to within 180 degrees of ref.
func UnwrapYPR(ref, v mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 3; i++ {
		v[i] = ref[i] + common.WrapDegrees(v[i]-ref[i])
	}
	return v
}
