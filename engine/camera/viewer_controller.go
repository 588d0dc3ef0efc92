package camera

import (
	"sync"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/go-gl/mathgl/mgl32"
)

// viewerControllerImpl is the single implementation of ViewerController.
// It drives a free-flying viewer: look input turns yaw and pitch, move input translates in the
// yaw-relative horizontal plane plus world up, zoom input narrows or widens the field of view.
type viewerControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	rotation mgl32.Vec3 // yaw, pitch, roll in degrees
	fov      float32

	// Look constraints
	maxPitch float32
	minFov   float32
	maxFov   float32

	// Speed settings
	lookSpeed float32
	moveSpeed float32
	zoomSpeed float32
}

// ViewerController moves the viewer that the camera follows when no path or modifier takes over.
// Its pose is also the base that local-mode modifier offsets are applied to.
type ViewerController interface {
	// Viewer returns the current viewer state.
	//
	// Returns:
	//   - common.Viewer: the viewer position, rotation and field of view
	Viewer() common.Viewer

	// SetViewer replaces the viewer state. Pitch and field of view are clamped.
	//
	// Parameters:
	//   - v: the new viewer state
	SetViewer(v common.Viewer)

	// Forward returns the horizontal unit vector the viewer faces.
	//
	// Returns:
	//   - mgl32.Vec3: the forward direction
	Forward() mgl32.Vec3

	// Right returns the horizontal unit vector to the viewer's right.
	//
	// Returns:
	//   - mgl32.Vec3: the right direction
	Right() mgl32.Vec3

	// Look turns the viewer. Deltas are scaled by the look speed; pitch is clamped and yaw wraps.
	//
	// Parameters:
	//   - dYaw: yaw input
	//   - dPitch: pitch input, positive looks down
	Look(dYaw, dPitch float32)

	// Move translates the viewer. Deltas are scaled by the move speed.
	//
	// Parameters:
	//   - forward: distance along Forward
	//   - right: distance along Right
	//   - up: distance along world +Y
	Move(forward, right, up float32)

	// Zoom narrows the field of view by delta times the zoom speed, clamped to [MinFov, MaxFov].
	//
	// Parameters:
	//   - delta: zoom input, positive zooms in
	Zoom(delta float32)

	// MinFov returns the narrowest allowed field of view in degrees.
	//
	// Returns:
	//   - float32: the minimum field of view
	MinFov() float32

	// MaxFov returns the widest allowed field of view in degrees.
	//
	// Returns:
	//   - float32: the maximum field of view
	MaxFov() float32
}

// Compile-time interface compliance check
var _ ViewerController = &viewerControllerImpl{}

// NewViewerController creates a viewer at the origin looking down +Z.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - ViewerController: the newly created controller
func NewViewerController(options ...ViewerControllerOption) ViewerController {
	vc := &viewerControllerImpl{
		mu:        &sync.Mutex{},
		fov:       70,
		maxPitch:  89,
		minFov:    10,
		maxFov:    120,
		lookSpeed: 1,
		moveSpeed: 1,
		zoomSpeed: 1,
	}
	for _, option := range options {
		option(vc)
	}
	vc.constrain()
	return vc
}

func (vc *viewerControllerImpl) Viewer() common.Viewer {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return common.Viewer{Position: vc.position, Rotation: vc.rotation, Fov: vc.fov}
}

func (vc *viewerControllerImpl) SetViewer(v common.Viewer) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.position = v.Position
	vc.rotation = v.Rotation
	vc.fov = v.Fov
	vc.constrain()
}

func (vc *viewerControllerImpl) Forward() mgl32.Vec3 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return common.RotateYaw(mgl32.Vec3{0, 0, 1}, vc.rotation[0])
}

func (vc *viewerControllerImpl) Right() mgl32.Vec3 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return common.RotateYaw(mgl32.Vec3{-1, 0, 0}, vc.rotation[0])
}

func (vc *viewerControllerImpl) Look(dYaw, dPitch float32) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.rotation[0] += dYaw * vc.lookSpeed
	vc.rotation[1] += dPitch * vc.lookSpeed
	vc.constrain()
}

func (vc *viewerControllerImpl) Move(forward, right, up float32) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	f := common.RotateYaw(mgl32.Vec3{0, 0, 1}, vc.rotation[0])
	r := common.RotateYaw(mgl32.Vec3{-1, 0, 0}, vc.rotation[0])
	delta := f.Mul(forward).Add(r.Mul(right)).Add(mgl32.Vec3{0, up, 0})
	vc.position = vc.position.Add(delta.Mul(vc.moveSpeed))
}

func (vc *viewerControllerImpl) Zoom(delta float32) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.fov -= delta * vc.zoomSpeed
	vc.constrain()
}

func (vc *viewerControllerImpl) MinFov() float32 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.minFov
}

func (vc *viewerControllerImpl) MaxFov() float32 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.maxFov
}

// constrain wraps yaw and clamps pitch and field of view. Caller must hold the mutex.
func (vc *viewerControllerImpl) constrain() {
	vc.rotation[0] = common.WrapDegrees(vc.rotation[0])
	vc.rotation[1] = float32(common.Clamp(float64(vc.rotation[1]), float64(-vc.maxPitch), float64(vc.maxPitch)))
	vc.fov = float32(common.Clamp(float64(vc.fov), float64(vc.minFov), float64(vc.maxFov)))
}
