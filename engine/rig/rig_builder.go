package rig

import (
	"github.com/Carmen-Shannon/campath/engine/animator"
	"github.com/Carmen-Shannon/campath/engine/camera"
	"github.com/Carmen-Shannon/campath/engine/modifier"
)

// RigBuilderOption is a functional option for configuring a Rig.
type RigBuilderOption func(*rigImpl)

// WithAnimator sets the path animator.
func WithAnimator(a animator.Animator) RigBuilderOption {
	return func(r *rigImpl) {
		r.animator = a
	}
}

// WithCompositor sets the modifier compositor.
func WithCompositor(c modifier.Compositor) RigBuilderOption {
	return func(r *rigImpl) {
		r.compositor = c
	}
}

// WithCamera sets the render camera.
func WithCamera(c camera.Camera) RigBuilderOption {
	return func(r *rigImpl) {
		r.camera = c
	}
}

// WithViewer sets the viewer controller.
func WithViewer(v camera.ViewerController) RigBuilderOption {
	return func(r *rigImpl) {
		r.viewer = v
	}
}
