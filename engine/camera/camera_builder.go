package camera

import (
	"github.com/Carmen-Shannon/campath/common"
	"github.com/Carmen-Shannon/campath/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

type CameraBuilderOption func(*cameraImpl)

// WithBaseFov sets the camera's fallback field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithBaseFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.baseFov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithPose sets the initial pose.
func WithPose(pose common.Pose) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose = pose
	}
}

// WithBindGroupProvider attaches a bind group provider to the camera.
// The provider receives the staged camera uniform on every update.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}

// WithUniformBindings backs the camera uniform with GPU resources owned by the host renderer.
// The camera's provider keeps its label; staged uniform writes flush into buf.
//
// Parameters:
//   - layout: the bind group layout of the camera group
//   - group: the bind group exposing the uniform
//   - buf: the uniform buffer bound at UniformBinding
//
// Returns:
//   - CameraBuilderOption: functional option to set the uniform bindings
func WithUniformBindings(layout *wgpu.BindGroupLayout, group *wgpu.BindGroup, buf *wgpu.Buffer) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider(
			c.bindGroupProvider.Label(),
			bind_group_provider.WithBindGroupLayout(layout),
			bind_group_provider.WithBindGroup(group),
			bind_group_provider.WithBuffer(UniformBinding, buf),
		)
	}
}
