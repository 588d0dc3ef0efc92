package modifier

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allChannels = FlagEnabled | FlagPosition | FlagRotation | FlagFov

func enable(m *Modifier, flags Flags, pos mgl32.Vec3) *Modifier {
	m.SetFlags(flags)
	m.SetPosition(pos)
	return m
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := r.GetOrCreate("shake", TierBackground)
	b := r.GetOrCreate("shake", TierBackground)
	c := r.GetOrCreate("shake", TierHigh)
	assert.Same(t, a, b)
	assert.Same(t, a, c)
	assert.Equal(t, TierBackground, c.Tier())
	assert.Equal(t, 1, r.Len())
	assert.True(t, a.IsEffective())
	assert.False(t, a.Contributes(), "new modifiers start disabled")
}

func TestRegistryRemove(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.GetOrCreate("a", TierLow)
	r.GetOrCreate("b", TierLow)
	r.GetOrCreate("c", TierLow)
	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	ids := []string{}
	for _, m := range r.Tier(TierLow) {
		ids = append(ids, m.ID())
	}
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestHighTierPlusBackgroundIsAdditive(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	r := c.Registry()
	enable(r.GetOrCreate("high", TierHigh), FlagEnabled|FlagPosition|FlagGlobal, mgl32.Vec3{1, 0, 0})
	enable(r.GetOrCreate("high2", TierHigh), FlagEnabled|FlagPosition|FlagGlobal, mgl32.Vec3{100, 0, 0})
	enable(r.GetOrCreate("low", TierLow), FlagEnabled|FlagPosition|FlagGlobal, mgl32.Vec3{0, 100, 0})
	enable(r.GetOrCreate("bg1", TierBackground), FlagEnabled|FlagPosition|FlagGlobal, mgl32.Vec3{0, 2, 0})
	enable(r.GetOrCreate("bg2", TierBackground), FlagEnabled|FlagPosition|FlagGlobal, mgl32.Vec3{0, 0, 3})

	snap := c.Resolve()
	require.True(t, snap.Active())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, snap.GlobalPosition)
	assert.Equal(t, []string{"high", "bg1", "bg2"}, snap.Sources)
	assert.False(t, snap.HasLocal)
}

func TestLowTierUsedWhenNoHigh(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	r := c.Registry()
	high := enable(r.GetOrCreate("high", TierHigh), FlagPosition, mgl32.Vec3{1, 0, 0})
	enable(r.GetOrCreate("low", TierLow), FlagEnabled|FlagPosition, mgl32.Vec3{0, 5, 0})

	snap := c.Resolve()
	assert.Equal(t, []string{"low"}, snap.Sources)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, snap.LocalPosition)

	// an enabled modifier without any channel does not win either.
	high.SetFlags(FlagEnabled)
	snap = c.Resolve()
	assert.Equal(t, []string{"low"}, snap.Sources)
}

func TestPlayerOrderPrecedence(t *testing.T) {
	t.Parallel()

	c := NewCompositor(WithPlayerOrder("first", "second", "ghost"))
	r := c.Registry()
	enable(r.GetOrCreate("high", TierHigh), allChannels, mgl32.Vec3{1, 0, 0})
	enable(r.GetOrCreate("first", TierPlayerOrdered), allChannels, mgl32.Vec3{0, 1, 0})
	second := enable(r.GetOrCreate("second", TierPlayerOrdered), allChannels, mgl32.Vec3{0, 0, 1})

	snap := c.Resolve()
	assert.Equal(t, []string{"second"}, snap.Sources, "last id in the order wins")
	assert.Equal(t, []string{"first", "second"}, c.PlayerOrder(), "stale id pruned")

	second.Enable(false)
	snap = c.Resolve()
	assert.Equal(t, []string{"first"}, snap.Sources)

	c.SetPlayerOrder(nil)
	snap = c.Resolve()
	assert.Equal(t, []string{"high"}, snap.Sources)
}

func TestPlayerRemovedBackground(t *testing.T) {
	t.Parallel()

	c := NewCompositor(WithPlayerRemoved("bg1", "gone"))
	r := c.Registry()
	bg1 := enable(r.GetOrCreate("bg1", TierBackground), FlagEnabled|FlagRotation, mgl32.Vec3{})
	bg1.SetRotation(mgl32.Vec3{5, 0, 0})
	bg2 := enable(r.GetOrCreate("bg2", TierBackground), FlagEnabled|FlagRotation, mgl32.Vec3{})
	bg2.SetRotation(mgl32.Vec3{0, 2, 0})

	snap := c.Resolve()
	assert.Equal(t, []string{"bg2"}, snap.Sources)
	assert.False(t, bg1.IsEffective())
	assert.True(t, bg1.Flags().Enabled(), "own flags untouched")
	assert.Equal(t, []string{"bg1"}, c.PlayerRemoved())

	c.RestoreBackground("bg1")
	snap = c.Resolve()
	assert.Equal(t, mgl32.Vec3{5, 2, 0}, snap.Rotation)
}

func TestNothingActiveClearsState(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	m := enable(c.Registry().GetOrCreate("m", TierHigh), allChannels|FlagLerp|FlagGlobal, mgl32.Vec3{1, 1, 1})
	c.Resolve()
	m.Enable(false)
	snap := c.Resolve()
	assert.False(t, snap.Active())
	assert.Equal(t, Snapshot{}, c.Current())

	viewer := common.Viewer{Position: mgl32.Vec3{9, 9, 9}, Fov: 70}
	pose, ok := c.Frame(0.5, viewer)
	assert.False(t, ok)
	assert.Equal(t, viewer.Pose(), pose)
}

func TestRingBufferSwap(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	m := enable(c.Registry().GetOrCreate("m", TierHigh), FlagEnabled|FlagFov|FlagLerp, mgl32.Vec3{})
	m.SetFov(1)
	c.Resolve()
	m.SetFov(2)
	c.Resolve()
	assert.Equal(t, float32(1), c.Previous().Fov)
	assert.Equal(t, float32(2), c.Current().Fov)
	c.Clear()
	assert.False(t, c.Current().Active())
}

func TestFrameInterpolation(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	m := c.Registry().GetOrCreate("path", TierHigh)
	m.SetFlags(allChannels | FlagGlobal | FlagLerp)
	m.SetPosition(mgl32.Vec3{0, 0, 0})
	m.SetRotation(mgl32.Vec3{170, 0, 0})
	m.SetFov(70)
	c.Resolve()
	m.SetPosition(mgl32.Vec3{10, 0, 0})
	m.SetRotation(mgl32.Vec3{-170, 0, 0})
	m.SetFov(90)
	c.Resolve()

	pose, ok := c.Frame(0.5, common.Viewer{Position: mgl32.Vec3{100, 100, 100}})
	require.True(t, ok)
	assert.True(t, pose.Position.ApproxEqualThreshold(mgl32.Vec3{5, 0, 0}, 1e-5))
	assert.InDelta(t, 180, math.Abs(float64(pose.Rotation[0])), 1e-4)
	assert.InDelta(t, 80, pose.Fov, 1e-5)
}

func TestFrameSnapsWithoutLerpOnBothSides(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	m := c.Registry().GetOrCreate("cut", TierHigh)
	m.SetFlags(FlagEnabled | FlagPosition | FlagGlobal)
	m.SetPosition(mgl32.Vec3{0, 0, 0})
	c.Resolve()
	m.SetFlags(FlagEnabled | FlagPosition | FlagGlobal | FlagLerp)
	m.SetPosition(mgl32.Vec3{10, 0, 0})
	c.Resolve()

	pose, _ := c.Frame(0.25, common.Viewer{})
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, pose.Position, "previous tick forbade lerp")

	// from an inactive tick the first active tick also snaps.
	c2 := NewCompositor()
	m2 := c2.Registry().GetOrCreate("x", TierHigh)
	c2.Resolve()
	m2.SetFlags(FlagEnabled | FlagFov | FlagGlobal | FlagLerp)
	m2.SetFov(60)
	c2.Resolve()
	pose, _ = c2.Frame(0.5, common.Viewer{Fov: 70})
	assert.Equal(t, float32(60), pose.Fov)
}

func TestLerpRequiresEveryContributor(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	r := c.Registry()
	enable(r.GetOrCreate("a", TierHigh), FlagEnabled|FlagPosition|FlagLerp, mgl32.Vec3{})
	enable(r.GetOrCreate("b", TierBackground), FlagEnabled|FlagPosition, mgl32.Vec3{})
	snap := c.Resolve()
	assert.False(t, snap.Flags.Lerp())
	assert.True(t, snap.Flags.PositionEnabled())
}

func TestFrameLocalPositionFollowsViewer(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	m := c.Registry().GetOrCreate("offset", TierLow)
	m.SetFlags(FlagEnabled | FlagPosition | FlagRotation | FlagFov)
	m.SetPosition(mgl32.Vec3{0, 0, 2})
	m.SetRotation(mgl32.Vec3{0, 10, 0})
	m.SetFov(-5)
	c.Resolve()

	viewer := common.Viewer{Position: mgl32.Vec3{1, 64, 1}, Rotation: mgl32.Vec3{90, 0, 0}, Fov: 70}
	pose, ok := c.Frame(1, viewer)
	require.True(t, ok)
	// two units ahead of a viewer facing yaw 90 is two units along -X.
	assert.True(t, pose.Position.ApproxEqualThreshold(mgl32.Vec3{-1, 64, 1}, 1e-5), "got %v", pose.Position)
	assert.Equal(t, mgl32.Vec3{90, 10, 0}, pose.Rotation)
	assert.Equal(t, float32(65), pose.Fov)
}

func TestFlagsAccessors(t *testing.T) {
	t.Parallel()

	f := Flags(0).With(FlagEnabled | FlagRotation).Set(FlagArmFixed, true)
	assert.True(t, f.Enabled())
	assert.True(t, f.RotationEnabled())
	assert.True(t, f.ArmFixed())
	assert.False(t, f.PositionEnabled())
	assert.True(t, f.AnyChannel())
	assert.Equal(t, "enabled|rot|arm_fixed", f.String())
	assert.Equal(t, "none", Flags(0).String())
	assert.False(t, f.Set(FlagEnabled, false).Enabled())
	assert.False(t, f.CanLerp(FlagRotation))
	assert.True(t, f.With(FlagLerp).CanLerp(FlagRotation))

	tier, ok := ParseTier("Background")
	assert.True(t, ok)
	assert.Equal(t, TierBackground, tier)
	assert.Equal(t, "player_ordered", TierPlayerOrdered.String())
}

func TestGlobalPositionDoesNotMakeFovAbsolute(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	r := c.Registry()
	zoom := r.GetOrCreate("zoom", TierHigh)
	zoom.SetFlags(FlagEnabled | FlagFov)
	zoom.SetFov(10)
	pin := enable(r.GetOrCreate("pin", TierBackground), FlagEnabled|FlagPosition|FlagGlobal, mgl32.Vec3{3, 4, 5})

	viewer := common.Viewer{Position: mgl32.Vec3{1, 1, 1}, Rotation: mgl32.Vec3{30, 0, 0}, Fov: 70}
	snap := c.Resolve()
	assert.True(t, snap.HasGlobal)
	assert.False(t, snap.FovGlobal)
	pose, ok := c.Frame(1, viewer)
	require.True(t, ok)
	assert.Equal(t, float32(80), pose.Fov)
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, pose.Position)
	assert.Equal(t, viewer.Rotation, pose.Rotation)

	pin.Enable(false)
	c.Resolve()
	pose, _ = c.Frame(1, viewer)
	assert.Equal(t, float32(80), pose.Fov, "fov unchanged by the position-only modifier")
}

func TestGlobalRotationStaysAbsoluteWithLocalShake(t *testing.T) {
	t.Parallel()

	c := NewCompositor()
	r := c.Registry()
	p := r.GetOrCreate("path", TierHigh)
	p.SetFlags(FlagEnabled | FlagRotation | FlagGlobal)
	p.SetRotation(mgl32.Vec3{45, 0, 0})
	shake := r.GetOrCreate("shake", TierBackground)
	shake.SetFlags(FlagEnabled | FlagRotation)
	shake.SetRotation(mgl32.Vec3{0, 1, 0})

	snap := c.Resolve()
	assert.True(t, snap.RotationGlobal)
	pose, ok := c.Frame(1, common.Viewer{Rotation: mgl32.Vec3{90, 0, 0}, Fov: 70})
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{45, 1, 0}, pose.Rotation)
	assert.Equal(t, float32(70), pose.Fov)
}

func TestRemovedBackgroundNeverWinsPlayerOrder(t *testing.T) {
	t.Parallel()

	c := NewCompositor(WithPlayerOrder("bg"))
	r := c.Registry()
	enable(r.GetOrCreate("high", TierHigh), allChannels, mgl32.Vec3{1, 0, 0})
	enable(r.GetOrCreate("bg", TierBackground), allChannels, mgl32.Vec3{0, 1, 0})

	c.RemoveBackground("bg")
	snap := c.Resolve()
	assert.Equal(t, []string{"high"}, snap.Sources)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, snap.LocalPosition)
}
