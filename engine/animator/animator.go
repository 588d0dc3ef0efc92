package animator

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/Carmen-Shannon/campath/engine/modifier"
	"github.com/Carmen-Shannon/campath/engine/orient"
	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/go-gl/mathgl/mgl32"
)

// defaultExitFadeTicks is how long the exit fade gate holds when no duration is configured.
const defaultExitFadeTicks = 20

// lutKey identifies the segment an arc-length table was built for.
type lutKey struct {
	from, to int
	version  int64
}

// animatorImpl is the implementation of the Animator interface.
type animatorImpl struct {
	mu *sync.Mutex

	path  *path.Path
	state State
	time  int

	loop          bool
	autoReset     bool
	constantSpeed bool
	quaternion    bool
	arcSamples    int

	exitFadeTicks int
	fadeRemaining int
	onExitFade    func()

	// cut is set when time jumps so the next published pose is not interpolated.
	cut bool

	lut    *curve.LUT
	lutKey lutKey

	// rotations holds keyframe rotations unwrapped along the path, keyed by tick.
	rotations        map[int]mgl32.Vec3
	rotationsVersion int64
}

// Animator plays a camera path back one tick at a time and samples the pose between ticks.
//
// The Animator owns a single playback record: the active path, the current tick and the
// transport flags. Time advances on Tick; Sample evaluates the active segment at the current
// tick plus the render frame's partial tick. Reaching the end of a non-looping path with
// auto-reset enabled enters an exit fade during which time is frozen until the gate releases.
type Animator interface {
	// Path returns the active path, or nil when none is set.
	//
	// Returns:
	//   - *path.Path: the active path or nil
	Path() *path.Path

	// SetPath replaces the active path and rewinds to tick 0. An empty path is rejected and
	// the previous path is kept.
	//
	// Parameters:
	//   - p: the new path
	//
	// Returns:
	//   - error: path.ErrEmptyPath if p is nil or has no keyframes
	SetPath(p *path.Path) error

	// ApplyLoad is the continuation of an asynchronous path load. On failure the previous
	// path stays active and the error is returned unchanged.
	//
	// Parameters:
	//   - p: the loaded path, ignored when err is non-nil
	//   - err: the load error
	//
	// Returns:
	//   - error: err, or the validation error of p
	ApplyLoad(p *path.Path, err error) error

	// ClearPath drops the active path and stops playback.
	ClearPath()

	// State returns the playback state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Time returns the current tick.
	//
	// Returns:
	//   - int: the current tick
	Time() int

	// SetTime seeks to tick t, clamped to [0, path length].
	//
	// Parameters:
	//   - t: the tick to seek to
	SetTime(t int)

	// Loop reports whether playback wraps at the end.
	//
	// Returns:
	//   - bool: true if looping
	Loop() bool

	// SetLoop enables or disables wrapping at the end.
	//
	// Parameters:
	//   - loop: true to wrap
	SetLoop(loop bool)

	// AutoReset reports whether a finished non-looping path fades out and rewinds.
	//
	// Returns:
	//   - bool: true if auto-reset is enabled
	AutoReset() bool

	// SetAutoReset enables or disables the exit fade at the end of playback.
	//
	// Parameters:
	//   - autoReset: true to fade out and rewind
	SetAutoReset(autoReset bool)

	// ConstantSpeed reports whether positions are reparameterized by arc length.
	//
	// Returns:
	//   - bool: true if constant speed is enabled
	ConstantSpeed() bool

	// SetConstantSpeed enables or disables arc-length reparameterization.
	//
	// Parameters:
	//   - on: true for constant speed along each segment
	SetConstantSpeed(on bool)

	// QuaternionRotation reports whether rotations are slerped (true) or angle-lerped (false).
	//
	// Returns:
	//   - bool: true if quaternion slerp is used
	QuaternionRotation() bool

	// SetQuaternionRotation selects quaternion slerp or the wrap-safe angle lerp fallback.
	//
	// Parameters:
	//   - on: true for slerp
	SetQuaternionRotation(on bool)

	// Play starts playback. Playback that already reached the end restarts from tick 0.
	//
	// Returns:
	//   - bool: false if no path is set
	Play() bool

	// Stop halts playback and keeps the current tick.
	Stop()

	// Reset rewinds to tick 0 and cancels a pending exit fade.
	Reset()

	// Tick advances playback by one tick.
	Tick()

	// Sample evaluates the pose at the current tick plus partial.
	//
	// Parameters:
	//   - partial: the fraction of the current tick elapsed, in [0, 1]
	//
	// Returns:
	//   - common.Pose: the sampled pose in world space
	//   - bool: false when no path is set
	Sample(partial float32) (common.Pose, bool)

	// SampleAt evaluates the pose at an arbitrary fractional tick without touching playback.
	//
	// Parameters:
	//   - time: the tick to sample
	//
	// Returns:
	//   - common.Pose: the sampled pose in world space
	//   - bool: false when no path is set
	SampleAt(time float64) (common.Pose, bool)

	// ExitFadeProgress returns how far the exit fade has run, in [0, 1], or 0 when not fading.
	//
	// Returns:
	//   - float32: the fade progress
	ExitFadeProgress() float32

	// ReleaseExitFade ends a pending exit fade immediately.
	ReleaseExitFade()

	// Publish writes the pose sampled at partial into m as a world-space, all-channel
	// modifier, or disables m when playback is idle or no pose is available.
	//
	// Parameters:
	//   - m: the modifier that carries the path camera into the compositor
	//   - partial: the fraction of the current tick elapsed
	//
	// Returns:
	//   - bool: true if m was enabled
	Publish(m *modifier.Modifier, partial float32) bool
}

var _ Animator = &animatorImpl{}

// NewAnimator creates an idle Animator.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animatorImpl{
		mu:            &sync.Mutex{},
		quaternion:    true,
		arcSamples:    curve.DefaultSamples,
		exitFadeTicks: defaultExitFadeTicks,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *animatorImpl) Path() *path.Path {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

func (a *animatorImpl) SetPath(p *path.Path) error {
	if p == nil {
		return path.ErrEmptyPath
	}
	if err := p.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.path = p
	a.time = 0
	a.cut = true
	a.lut = nil
	a.rotations = nil
	if a.state == StateExitFading {
		a.state = StateIdle
	}
	log.Printf("[Animator] path %q set (%d keyframes, length %d)", p.ID(), p.Len(), p.Length())
	return nil
}

func (a *animatorImpl) ApplyLoad(p *path.Path, err error) error {
	if err != nil {
		log.Printf("[Animator] path load failed, keeping previous path: %v", err)
		return err
	}
	if err := a.SetPath(p); err != nil {
		log.Printf("[Animator] loaded path rejected, keeping previous path: %v", err)
		return fmt.Errorf("apply loaded path: %w", err)
	}
	return nil
}

func (a *animatorImpl) ClearPath() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.path = nil
	a.state = StateIdle
	a.time = 0
	a.lut = nil
	a.rotations = nil
}

func (a *animatorImpl) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *animatorImpl) Time() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.time
}

func (a *animatorImpl) SetTime(t int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	length := 0
	if a.path != nil {
		length = a.path.Length()
	}
	a.time = max(0, min(t, length))
	a.cut = true
}

func (a *animatorImpl) Loop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loop
}

func (a *animatorImpl) SetLoop(loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loop = loop
	if a.state.Advancing() {
		a.state = a.advancingState()
	}
}

func (a *animatorImpl) AutoReset() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.autoReset
}

func (a *animatorImpl) SetAutoReset(autoReset bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.autoReset = autoReset
}

func (a *animatorImpl) ConstantSpeed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.constantSpeed
}

func (a *animatorImpl) SetConstantSpeed(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.constantSpeed = on
}

func (a *animatorImpl) QuaternionRotation() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quaternion
}

func (a *animatorImpl) SetQuaternionRotation(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.quaternion = on
}

func (a *animatorImpl) Play() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.path == nil {
		return false
	}
	if a.time >= a.path.Length() {
		a.time = 0
		a.cut = true
	}
	a.state = a.advancingState()
	return true
}

func (a *animatorImpl) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateIdle
}

func (a *animatorImpl) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.time = 0
	a.cut = true
	if a.state == StateExitFading {
		a.state = StateIdle
	}
}

func (a *animatorImpl) Tick() {
	a.mu.Lock()
	if a.path == nil || a.state == StateIdle {
		a.mu.Unlock()
		return
	}

	if a.state == StateExitFading {
		// time is frozen while the gate is pending
		a.fadeRemaining--
		if a.fadeRemaining <= 0 {
			a.finishExitFade()
		}
		a.mu.Unlock()
		return
	}

	a.time++
	length := a.path.Length()
	var onExitFade func()
	if a.time > length {
		switch {
		case a.loop:
			a.time = 0
			a.cut = true
			a.state = StateLooping
		case a.autoReset:
			a.time = length
			a.state = StateExitFading
			a.fadeRemaining = a.exitFadeTicks
			onExitFade = a.onExitFade
			log.Printf("[Animator] path %q finished, exit fade for %d ticks", a.path.ID(), a.exitFadeTicks)
		default:
			a.time = length
			a.state = StateIdle
		}
	}
	a.mu.Unlock()

	if onExitFade != nil {
		onExitFade()
	}
}

func (a *animatorImpl) Sample(partial float32) (common.Pose, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	current := float64(a.time)
	if a.state.Advancing() {
		current += common.Clamp(float64(partial), 0, 1)
	}
	return a.sample(current)
}

func (a *animatorImpl) SampleAt(time float64) (common.Pose, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sample(time)
}

func (a *animatorImpl) ExitFadeProgress() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateExitFading {
		return 0
	}
	if a.exitFadeTicks <= 0 {
		return 1
	}
	done := a.exitFadeTicks - a.fadeRemaining
	return float32(common.Clamp(float64(done)/float64(a.exitFadeTicks), 0, 1))
}

func (a *animatorImpl) ReleaseExitFade() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateExitFading {
		a.finishExitFade()
	}
}

func (a *animatorImpl) Publish(m *modifier.Modifier, partial float32) bool {
	a.mu.Lock()
	idle := a.state == StateIdle
	cut := a.cut
	a.cut = false
	a.mu.Unlock()

	if idle {
		m.Enable(false)
		return false
	}
	pose, ok := a.Sample(partial)
	if !ok {
		m.Enable(false)
		return false
	}

	flags := modifier.FlagEnabled | modifier.FlagPosition | modifier.FlagRotation |
		modifier.FlagFov | modifier.FlagGlobal
	if !cut {
		flags = flags.With(modifier.FlagLerp)
	}
	m.SetFlags(flags)
	m.SetPosition(pose.Position)
	m.SetRotation(pose.Rotation)
	m.SetFov(pose.Fov)
	return true
}

// advancingState returns the advancing state matching the loop flag. Caller must hold the mutex.
func (a *animatorImpl) advancingState() State {
	if a.loop {
		return StateLooping
	}
	return StatePlaying
}

// finishExitFade releases the exit fade gate, rewinding to tick 0. Caller must hold the mutex.
func (a *animatorImpl) finishExitFade() {
	a.fadeRemaining = 0
	a.time = 0
	a.cut = true
	a.state = StateIdle
	log.Printf("[Animator] exit fade released")
}

// sample evaluates the active path at a fractional tick. Caller must hold the mutex.
func (a *animatorImpl) sample(current float64) (common.Pose, bool) {
	p := a.path
	if p == nil || p.Empty() || math.IsNaN(current) {
		return common.Pose{}, false
	}

	tick := int(math.Floor(current))
	pre, okPre := p.PreEntry(tick + 1)
	next, okNext := p.NextEntry(tick)
	switch {
	case !okPre && !okNext:
		return common.Pose{}, false
	case !okPre:
		return a.toWorld(p, a.keyframePose(p, next)), true
	case !okNext:
		return a.toWorld(p, a.keyframePose(p, pre)), true
	}

	seg, _ := p.SegmentAt(tick)
	s := float32(orient.SmoothT(current, float64(pre.Time), float64(next.Time)))
	to := next.Keyframe

	if seg.Shape == curve.ShapeStep {
		hold := pre
		if s >= 1 {
			hold = next
		}
		return a.toWorld(p, a.keyframePose(p, hold)), true
	}

	posT := to.PositionEasing.Apply(s)
	if a.constantSpeed && seg.Shape.HasArcLength() {
		posT = float32(a.segmentLUT(p, seg).Remap(float64(posT)))
	}
	pose := common.Pose{
		Position: curve.Evaluate(seg.Shape, posT, seg.Controls),
		Fov:      orient.SmoothFovLerp(pre.Keyframe.Fov, to.Fov, to.FovEasing.Apply(s)),
	}

	rots := a.unwrappedRotations(p)
	rotT := to.RotationEasing.Apply(s)
	if a.quaternion {
		pose.Rotation = orient.SlerpYPR(rots[pre.Time], rots[next.Time], rotT)
	} else {
		pose.Rotation = orient.SmoothRotationLerp(rots[pre.Time], rots[next.Time], rotT)
	}

	return a.toWorld(p, pose), true
}

// segmentLUT returns the arc-length table of seg, rebuilding it when the active segment
// or the path version changed. Caller must hold the mutex.
func (a *animatorImpl) segmentLUT(p *path.Path, seg path.Segment) *curve.LUT {
	key := lutKey{from: seg.From.Time, to: seg.To.Time, version: p.Version()}
	if a.lut == nil || a.lutKey != key {
		a.lut = curve.BuildSegmentLUT(seg.Shape, seg.Controls, a.arcSamples)
		a.lutKey = key
	}
	return a.lut
}

// toWorld resolves an anchor-relative pose for native paths.
func (a *animatorImpl) toWorld(p *path.Path, pose common.Pose) common.Pose {
	if !p.Native() {
		return pose
	}
	anchor := p.Anchor()
	pose.Position = anchor.ToWorld(pose.Position)
	pose.Rotation = anchor.RotationToWorld(pose.Rotation)
	return pose
}

// unwrappedRotations returns every keyframe rotation unwrapped against its predecessor so
// the sampled angles never jump by whole turns across a keyframe. Caller must hold the mutex.
func (a *animatorImpl) unwrappedRotations(p *path.Path) map[int]mgl32.Vec3 {
	if a.rotations != nil && a.rotationsVersion == p.Version() {
		return a.rotations
	}
	entries := p.Entries()
	rots := make(map[int]mgl32.Vec3, len(entries))
	for i, e := range entries {
		r := e.Keyframe.Rotation
		if i > 0 {
			r = orient.UnwrapYPR(rots[entries[i-1].Time], r)
		}
		rots[e.Time] = r
	}
	a.rotations = rots
	a.rotationsVersion = p.Version()
	return rots
}

// keyframePose is the pose held at e, with its rotation unwrapped along the path.
// Caller must hold the mutex.
func (a *animatorImpl) keyframePose(p *path.Path, e path.Entry) common.Pose {
	kf := e.Keyframe
	return common.Pose{Position: kf.Position, Rotation: a.unwrappedRotations(p)[e.Time], Fov: kf.Fov}
}
