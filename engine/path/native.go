package path

import (
	"github.com/Carmen-Shannon/campath/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Anchor is the origin pose a native-mode path is expressed relative to.
type Anchor struct {
	Position mgl32.Vec3
	Yaw      float32
}

// ToWorld maps an anchor-relative position into world space.
func (a Anchor) ToWorld(local mgl32.Vec3) mgl32.Vec3 {
	return common.RotateYaw(local, a.Yaw).Add(a.Position)
}

// ToLocal maps a world position into anchor-relative space.
func (a Anchor) ToLocal(world mgl32.Vec3) mgl32.Vec3 {
	return common.RotateYaw(world.Sub(a.Position), -a.Yaw)
}

// RotationToWorld maps an anchor-relative yaw/pitch/roll into world space.
func (a Anchor) RotationToWorld(local mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{local[0] + a.Yaw, local[1], local[2]}
}

// RotationToLocal maps a world yaw/pitch/roll into anchor-relative space.
func (a Anchor) RotationToLocal(world mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{world[0] - a.Yaw, world[1], world[2]}
}

// ToNative returns a new path whose keyframes are expressed relative to anchor.
// A path that is already native is first resolved through its own anchor, so the world
// positions it describes are preserved. The receiver is never modified.
//
// Parameters:
//   - anchor: the origin pose to express keyframes against
//
// Returns:
//   - *Path: the native-mode copy
func (p *Path) ToNative(anchor Anchor) *Path {
	world := p
	if p.native {
		world = p.FromNative()
	}
	out := world.transform(func(pos mgl32.Vec3) mgl32.Vec3 {
		return anchor.ToLocal(pos)
	}, anchor.RotationToLocal)
	out.native = true
	out.anchor = anchor
	return out
}

// FromNative returns a new world-space path resolved through the stored anchor.
// A world-space path is returned as a plain copy.
//
// Returns:
//   - *Path: the world-space copy
func (p *Path) FromNative() *Path {
	if !p.native {
		return p.Clone()
	}
	anchor := p.anchor
	out := p.transform(anchor.ToWorld, anchor.RotationToWorld)
	out.native = false
	out.anchor = Anchor{}
	return out
}

// WithAnchor returns a native copy of the path replayed around a different anchor.
// Keyframe coordinates are kept as they are, only the anchor changes.
//
// Parameters:
//   - anchor: the new origin pose
//
// Returns:
//   - *Path: the retargeted copy, or a plain copy when the path is not native
func (p *Path) WithAnchor(anchor Anchor) *Path {
	out := p.Clone()
	if out.native {
		out.anchor = anchor
	}
	return out
}

// transform copies the path applying pos to every position and handle and rot to every rotation.
func (p *Path) transform(pos func(mgl32.Vec3) mgl32.Vec3, rot func(mgl32.Vec3) mgl32.Vec3) *Path {
	out := p.Clone()
	for t, kf := range out.frames {
		kf.Position = pos(kf.Position)
		kf.Rotation = rot(kf.Rotation)
		kf.Handles.Left = pos(kf.Handles.Left)
		kf.Handles.Right = pos(kf.Handles.Right)
		out.frames[t] = kf
	}
	return out
}
