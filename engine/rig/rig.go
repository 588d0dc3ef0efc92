package rig

import (
	"sync"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/Carmen-Shannon/campath/engine/animator"
	"github.com/Carmen-Shannon/campath/engine/camera"
	"github.com/Carmen-Shannon/campath/engine/modifier"
)

// PathModifierID is the registry id of the modifier the path animator publishes into.
const PathModifierID = "campath:path"

type rigImpl struct {
	mu *sync.Mutex

	animator   animator.Animator
	compositor modifier.Compositor
	camera     camera.Camera
	viewer     camera.ViewerController

	pathModifier *modifier.Modifier
	lastPose     common.Pose
}

// Rig wires the path animator, the modifier compositor, the viewer and the render camera
// together. Tick advances simulation state once per tick; Frame resolves the camera pose for
// one render frame.
type Rig interface {
	// Animator returns the path animator.
	//
	// Returns:
	//   - animator.Animator: the animator
	Animator() animator.Animator

	// Compositor returns the modifier compositor.
	//
	// Returns:
	//   - modifier.Compositor: the compositor
	Compositor() modifier.Compositor

	// Camera returns the render camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Viewer returns the controller of the entity the camera follows.
	//
	// Returns:
	//   - camera.ViewerController: the viewer controller
	Viewer() camera.ViewerController

	// PathModifier returns the high-tier modifier carrying the animator's pose.
	//
	// Returns:
	//   - *modifier.Modifier: the path modifier
	PathModifier() *modifier.Modifier

	// Tick advances the animator, publishes its pose and resolves the modifiers for this tick.
	//
	// Returns:
	//   - modifier.Snapshot: the resolved snapshot
	Tick() modifier.Snapshot

	// Frame interpolates the last two ticks by partial, applies the pose to the camera and
	// returns it. When nothing is active the viewer pose is used.
	//
	// Parameters:
	//   - partial: the fraction of the tick elapsed, in [0, 1]
	//
	// Returns:
	//   - common.Pose: the applied pose
	Frame(partial float32) common.Pose

	// LastPose returns the pose applied by the most recent Frame.
	//
	// Returns:
	//   - common.Pose: the last applied pose
	LastPose() common.Pose

	// FadeAlpha returns the exit fade progress for an overlay, in [0, 1].
	//
	// Returns:
	//   - float32: the fade progress
	FadeAlpha() float32
}

var _ Rig = &rigImpl{}

// NewRig creates a Rig. Missing collaborators are created with their defaults.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the rig
func NewRig(options ...RigBuilderOption) Rig {
	r := &rigImpl{
		mu: &sync.Mutex{},
	}
	for _, option := range options {
		option(r)
	}
	if r.animator == nil {
		r.animator = animator.NewAnimator()
	}
	if r.compositor == nil {
		r.compositor = modifier.NewCompositor()
	}
	if r.camera == nil {
		r.camera = camera.NewCamera()
	}
	if r.viewer == nil {
		r.viewer = camera.NewViewerController()
	}
	r.pathModifier = r.compositor.Registry().GetOrCreate(PathModifierID, modifier.TierHigh)
	r.lastPose = r.viewer.Viewer().Pose()
	return r
}

func (r *rigImpl) Animator() animator.Animator {
	return r.animator
}

func (r *rigImpl) Compositor() modifier.Compositor {
	return r.compositor
}

func (r *rigImpl) Camera() camera.Camera {
	return r.camera
}

func (r *rigImpl) Viewer() camera.ViewerController {
	return r.viewer
}

func (r *rigImpl) PathModifier() *modifier.Modifier {
	return r.pathModifier
}

func (r *rigImpl) Tick() modifier.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.animator.Tick()
	r.animator.Publish(r.pathModifier, 0)
	return r.compositor.Resolve()
}

func (r *rigImpl) Frame(partial float32) common.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	pose, _ := r.compositor.Frame(partial, r.viewer.Viewer())
	r.camera.Apply(pose)
	r.lastPose = pose
	return pose
}

func (r *rigImpl) LastPose() common.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPose
}

func (r *rigImpl) FadeAlpha() float32 {
	return r.animator.ExitFadeProgress()
}
