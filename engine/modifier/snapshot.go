package modifier

import "github.com/go-gl/mathgl/mgl32"

// Snapshot is the aggregated modifier state of one tick.
// Flags is the union of the contributors' flags except FlagLerp, which is only kept when
// every contributor allows interpolation.
type Snapshot struct {
	Flags Flags

	GlobalPosition mgl32.Vec3
	LocalPosition  mgl32.Vec3
	Rotation       mgl32.Vec3
	Fov            float32

	// HasGlobal and HasLocal record which position accumulators received a contribution.
	HasGlobal bool
	HasLocal  bool

	// RotationGlobal and FovGlobal are set when a GlobalMode modifier contributed to that
	// channel. The shared sum is then absolute instead of relative to the viewer.
	RotationGlobal bool
	FovGlobal      bool

	// Sources lists the contributing modifier ids in application order.
	Sources []string
}

// Active reports whether any modifier contributed.
func (s Snapshot) Active() bool {
	return s.Flags.Enabled()
}

// accumulator builds a Snapshot from successive contributions.
type accumulator struct {
	snap    Snapshot
	lerpAll bool
}

func newAccumulator() *accumulator {
	return &accumulator{lerpAll: true}
}

// add folds one contributing modifier into the snapshot.
func (a *accumulator) add(m *Modifier) {
	f := m.Flags()
	a.snap.Flags |= f.Without(FlagLerp)
	a.lerpAll = a.lerpAll && f.Lerp()

	if f.PositionEnabled() {
		if f.Global() {
			a.snap.GlobalPosition = a.snap.GlobalPosition.Add(m.Position())
			a.snap.HasGlobal = true
		} else {
			a.snap.LocalPosition = a.snap.LocalPosition.Add(m.Position())
			a.snap.HasLocal = true
		}
	}
	if f.RotationEnabled() {
		a.snap.Rotation = a.snap.Rotation.Add(m.Rotation())
		a.snap.RotationGlobal = a.snap.RotationGlobal || f.Global()
	}
	if f.FovEnabled() {
		a.snap.Fov += m.Fov()
		a.snap.FovGlobal = a.snap.FovGlobal || f.Global()
	}
	a.snap.Sources = append(a.snap.Sources, m.ID())
}

// result returns the finished snapshot, or the zero snapshot when nothing enabled it.
func (a *accumulator) result() Snapshot {
	if !a.snap.Flags.Enabled() {
		return Snapshot{}
	}
	s := a.snap
	if a.lerpAll {
		s.Flags = s.Flags.With(FlagLerp)
	}
	return s
}
