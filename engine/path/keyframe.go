package path

import (
	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/Carmen-Shannon/campath/engine/easing"
	"github.com/go-gl/mathgl/mgl32"
)

// Channel identifies one independently eased component of a keyframe.
type Channel int

const (
	ChannelPosition Channel = iota
	ChannelRotation
	ChannelFov
)

// ChannelEasing is the time-easing selector of one channel together with its owned curve.
type ChannelEasing struct {
	Mode  easing.Mode
	Curve easing.Curve
}

// DefaultEasing returns linear easing with the default curve handles.
func DefaultEasing() ChannelEasing {
	return ChannelEasing{Mode: easing.ModeLinear, Curve: easing.DefaultCurve()}
}

// Apply remaps a segment parameter through this channel's easing.
func (e ChannelEasing) Apply(t float32) float32 {
	return easing.Apply(e.Mode, e.Curve, t)
}

// Handles are the two Bezier control points of the segment arriving at a keyframe.
// Left sits near the preceding keyframe, Right near this one. Manual handles are never
// re-derived by the path.
type Handles struct {
	Left   mgl32.Vec3
	Right  mgl32.Vec3
	Manual bool
}

// Keyframe is an authored pose at one tick. Rotation holds yaw, pitch and roll in degrees.
// Shape and Handles describe the segment that ends at this keyframe.
type Keyframe struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Fov      float32

	Shape   curve.Shape
	Handles Handles

	PositionEasing ChannelEasing
	RotationEasing ChannelEasing
	FovEasing      ChannelEasing
}

// NewKeyframe creates a linear keyframe with default easing on every channel.
//
// Parameters:
//   - position: world or anchor-relative position
//   - rotation: yaw, pitch, roll in degrees
//   - fov: field of view in degrees
//
// Returns:
//   - Keyframe: the keyframe
func NewKeyframe(position, rotation mgl32.Vec3, fov float32) Keyframe {
	return Keyframe{
		Position:       position,
		Rotation:       rotation,
		Fov:            fov,
		Shape:          curve.ShapeLinear,
		Handles:        Handles{Left: position, Right: position},
		PositionEasing: DefaultEasing(),
		RotationEasing: DefaultEasing(),
		FovEasing:      DefaultEasing(),
	}
}

// Easing returns the easing of the given channel.
func (k Keyframe) Easing(ch Channel) ChannelEasing {
	switch ch {
	case ChannelRotation:
		return k.RotationEasing
	case ChannelFov:
		return k.FovEasing
	default:
		return k.PositionEasing
	}
}

// withEasing returns a copy of k with the channel's easing replaced.
func (k Keyframe) withEasing(ch Channel, e ChannelEasing) Keyframe {
	switch ch {
	case ChannelRotation:
		k.RotationEasing = e
	case ChannelFov:
		k.FovEasing = e
	default:
		k.PositionEasing = e
	}
	return k
}
