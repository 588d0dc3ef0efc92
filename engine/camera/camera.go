package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/Carmen-Shannon/campath/engine/renderer/bind_group_provider"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// UniformBinding is the binding index of the camera uniform buffer.
const UniformBinding = 0

type cameraImpl struct {
	mu *sync.Mutex

	baseFov float32
	aspect  float32
	near    float32
	far     float32

	pose common.Pose

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the render camera.
// The camera holds the projection settings and turns a resolved Pose into view, projection and
// view-projection matrices. Every Apply stages the serialized camera uniform on the camera's
// bind group provider.
type Camera interface {
	// BaseFov returns the field of view in degrees used when a pose carries none.
	//
	// Returns:
	//   - float32: the base field of view in degrees
	BaseFov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Pose returns the pose most recently applied.
	//
	// Returns:
	//   - common.Pose: the applied pose
	Pose() common.Pose

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Uniform returns the GPU uniform matching the current matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform
	Uniform() GPUCameraUniform

	// StagedWrites returns the uniform writes staged since the last flush of the bind group provider.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the pending writes
	StagedWrites() []bind_group_provider.BufferWrite

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Apply places the camera at pose, recomputes the matrices and stages the uniform.
	// A non-positive pose field of view falls back to BaseFov.
	//
	// Parameters:
	//   - pose: the resolved camera pose
	Apply(pose common.Pose)

	// SetBaseFov sets the fallback field of view in degrees and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetBaseFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin with default perspective settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:      &sync.Mutex{},
		baseFov: 70,
		aspect:  16.0 / 9.0,
		near:    0.05,
		far:     1000,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) BaseFov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseFov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Pose() common.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform()
}

func (c *cameraImpl) StagedWrites() []bind_group_provider.BufferWrite {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bindGroupProvider == nil {
		return nil
	}
	return c.bindGroupProvider.Pending()
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) Apply(pose common.Pose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pose = pose
	c.updateMatrices()
}

func (c *cameraImpl) SetBaseFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseFov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

// fov returns the field of view in effect. Caller must hold the mutex.
func (c *cameraImpl) fov() float32 {
	if c.pose.Fov > 0 {
		return c.pose.Fov
	}
	return c.baseFov
}

// uniform builds the GPU uniform from the current matrices. Caller must hold the mutex.
func (c *cameraImpl) uniform() GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.pose.Position,
	}
}

// updateMatrices recalculates the view, projection and view-projection matrices from the
// current pose and stages the serialized uniform. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.BuildViewMatrix(c.viewMatrix[:], c.pose.Position, c.pose.Rotation)
	common.Perspective(c.projectionMatrix[:], c.fov(), c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])

	if c.bindGroupProvider != nil {
		u := c.uniform()
		c.bindGroupProvider.Stage(UniformBinding, 0, u.Marshal())
	}
}
