package common

import "github.com/go-gl/mathgl/mgl32"

// Pose is a resolved camera pose.
// Rotation holds yaw, pitch and roll in degrees, applied in Y-X-Z order.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Fov      float32
}

// Viewer is the entity the camera is attached to, already interpolated to the current frame.
// It supplies the base pose that local-mode modifier offsets are applied relative to.
type Viewer struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Fov      float32
}

// Pose returns the viewer's own pose, used when no modifier is active.
func (v Viewer) Pose() Pose {
	return Pose{Position: v.Position, Rotation: v.Rotation, Fov: v.Fov}
}
