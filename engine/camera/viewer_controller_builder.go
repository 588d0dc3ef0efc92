package camera

import "github.com/go-gl/mathgl/mgl32"

// ViewerControllerOption is a functional option for configuring a ViewerController.
type ViewerControllerOption func(*viewerControllerImpl)

// WithViewerPosition sets the initial viewer position.
//
// Parameters:
//   - pos: world-space position
//
// Returns:
//   - ViewerControllerOption: functional option to set the position
func WithViewerPosition(pos mgl32.Vec3) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.position = pos
	}
}

// WithViewerRotation sets the initial yaw, pitch and roll in degrees.
//
// Parameters:
//   - rot: yaw, pitch, roll in degrees
//
// Returns:
//   - ViewerControllerOption: functional option to set the rotation
func WithViewerRotation(rot mgl32.Vec3) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.rotation = rot
	}
}

// WithViewerFov sets the initial field of view in degrees.
func WithViewerFov(fov float32) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.fov = fov
	}
}

// WithFovRange sets the zoom limits in degrees.
//
// Parameters:
//   - minFov: narrowest field of view
//   - maxFov: widest field of view
//
// Returns:
//   - ViewerControllerOption: functional option to set the limits
func WithFovRange(minFov, maxFov float32) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.minFov = minFov
		vc.maxFov = maxFov
	}
}

// WithMaxPitch sets the pitch limit in degrees, applied symmetrically.
func WithMaxPitch(maxPitch float32) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.maxPitch = maxPitch
	}
}

// WithLookSpeed sets the look input multiplier.
func WithLookSpeed(speed float32) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.lookSpeed = speed
	}
}

// WithMoveSpeed sets the move input multiplier.
func WithMoveSpeed(speed float32) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.moveSpeed = speed
	}
}

// WithZoomSpeed sets the zoom input multiplier.
func WithZoomSpeed(speed float32) ViewerControllerOption {
	return func(vc *viewerControllerImpl) {
		vc.zoomSpeed = speed
	}
}
