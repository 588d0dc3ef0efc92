package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the smallest denominator magnitude any time-parameter computation may divide by.
const Epsilon = 1e-3

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order.
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix for WebGPU clip space (depth in [0, 1]).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovYDeg: vertical field of view in degrees
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovYDeg, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(mgl32.DegToRad(fovYDeg))/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// BuildViewMatrix constructs the view matrix of a camera placed at pos and oriented by
// yaw/pitch/roll in degrees. The camera rotation is R = Ry(-yaw) * Rx(pitch) * Rz(roll), with
// yaw 0 looking down +Z and positive pitch looking down. The result is the inverse of that
// rigid transform, additionally turned 180 degrees about Y so the view looks down -Z in clip space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: camera position in world space
//   - rot: yaw, pitch, roll in degrees
func BuildViewMatrix(out []float32, pos, rot mgl32.Vec3) {
	ry := float64(mgl32.DegToRad(-rot[0]))
	rx := float64(mgl32.DegToRad(rot[1]))
	rz := float64(mgl32.DegToRad(rot[2]))
	cy, sy := float32(math.Cos(ry)), float32(math.Sin(ry))
	cx, sx := float32(math.Cos(rx)), float32(math.Sin(rx))
	cz, sz := float32(math.Cos(rz)), float32(math.Sin(rz))

	// Columns of Ry * Rx * Rz, with the first and third negated for the 180 degree turn.
	c0 := mgl32.Vec3{-(cy*cz + sy*sx*sz), -(cx * sz), -(-sy*cz + cy*sx*sz)}
	c1 := mgl32.Vec3{-cy*sz + sy*sx*cz, cx * cz, sy*sz + cy*sx*cz}
	c2 := mgl32.Vec3{-(sy * cx), sx, -(cy * cx)}

	// Inverse of a rigid transform: transpose the rotation, rotate the negated translation.
	out[0], out[4], out[8] = c0[0], c0[1], c0[2]
	out[1], out[5], out[9] = c1[0], c1[1], c1[2]
	out[2], out[6], out[10] = c2[0], c2[1], c2[2]
	out[3], out[7], out[11] = 0, 0, 0
	out[12] = -c0.Dot(pos)
	out[13] = -c1.Dot(pos)
	out[14] = -c2.Dot(pos)
	out[15] = 1
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t without clamping t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Smoothstep remaps t in [0, 1] onto the cubic 3t^2 - 2t^3. Inputs outside [0, 1] are clamped.
func Smoothstep(t float32) float32 {
	t = float32(Clamp(float64(t), 0, 1))
	return t * t * (3 - 2*t)
}

// WrapDegrees normalizes an angle in degrees into the range [-180, 180).
// Non-finite input is returned unchanged.
//
// Parameters:
//   - deg: the angle in degrees
//
// Returns:
//   - float32: the equivalent angle in [-180, 180)
func WrapDegrees(deg float32) float32 {
	d := math.Mod(float64(deg)+180, 360)
	if d < 0 {
		d += 360
	}
	return float32(d - 180)
}

// RotateYaw rotates v about the world Y axis by yawDeg degrees using the engine's inverted-yaw
// convention, so yaw 0 maps +Z to +Z and yaw 90 maps +Z to -X.
//
// Parameters:
//   - v: the vector to rotate
//   - yawDeg: yaw angle in degrees
//
// Returns:
//   - mgl32.Vec3: the rotated vector
func RotateYaw(v mgl32.Vec3, yawDeg float32) mgl32.Vec3 {
	rad := float64(mgl32.DegToRad(yawDeg))
	c, s := float32(math.Cos(rad)), float32(math.Sin(rad))
	return mgl32.Vec3{
		v[0]*c - v[2]*s,
		v[1],
		v[0]*s + v[2]*c,
	}
}
