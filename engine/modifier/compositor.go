package modifier

import (
	"log"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/campath/common"
	"github.com/Carmen-Shannon/campath/engine/orient"
)

// compositorImpl is the implementation of the Compositor interface.
type compositorImpl struct {
	mu *sync.Mutex

	registry *Registry

	playerOrder   []string
	playerRemoved []string

	// ring holds the previous and current tick snapshots; head indexes the current one.
	ring [2]Snapshot
	head int
}

// Compositor resolves every registered modifier into one camera pose per tick and
// interpolates between the last two ticks per render frame.
type Compositor interface {
	// Registry returns the registry the compositor resolves.
	//
	// Returns:
	//   - *Registry: the modifier registry
	Registry() *Registry

	// SetPlayerOrder replaces the player-specified modifier order. The last id has the
	// highest priority.
	//
	// Parameters:
	//   - ids: modifier ids, lowest priority first
	SetPlayerOrder(ids []string)

	// PlayerOrder returns a copy of the current player order.
	//
	// Returns:
	//   - []string: modifier ids, lowest priority first
	PlayerOrder() []string

	// RemoveBackground opts the player out of a background modifier without touching the
	// modifier's own flags.
	//
	// Parameters:
	//   - id: the background modifier id
	RemoveBackground(id string)

	// RestoreBackground undoes RemoveBackground and marks the modifier effective again.
	//
	// Parameters:
	//   - id: the background modifier id
	RestoreBackground(id string)

	// PlayerRemoved returns a copy of the player-removed list.
	//
	// Returns:
	//   - []string: removed background modifier ids
	PlayerRemoved() []string

	// Resolve runs the player-ordered, tiered and background passes once and pushes the
	// result into the two-slot history. Call once per tick.
	//
	// Returns:
	//   - Snapshot: the snapshot of this tick
	Resolve() Snapshot

	// Current returns the snapshot of the latest tick.
	//
	// Returns:
	//   - Snapshot: the current snapshot
	Current() Snapshot

	// Previous returns the snapshot of the tick before the latest one.
	//
	// Returns:
	//   - Snapshot: the previous snapshot
	Previous() Snapshot

	// Frame produces the final pose for a render frame. Channels whose flags allow
	// interpolation in both snapshots are blended by partial; others snap to the current
	// tick. Viewer-relative positions are rotated by the viewer yaw and added to its position.
	//
	// Parameters:
	//   - partial: the fraction of the tick elapsed, in [0, 1]
	//   - viewer: the interpolated entity the camera follows
	//
	// Returns:
	//   - common.Pose: the final pose, or the viewer pose when nothing is active
	//   - bool: false when no modifier is active
	Frame(partial float32, viewer common.Viewer) (common.Pose, bool)

	// Clear drops both history slots.
	Clear()
}

var _ Compositor = &compositorImpl{}

// NewCompositor creates a Compositor. A registry is created unless one is supplied with WithRegistry.
//
// Parameters:
//   - options: functional options to configure the compositor
//
// Returns:
//   - Compositor: the compositor
func NewCompositor(options ...CompositorBuilderOption) Compositor {
	c := &compositorImpl{
		mu: &sync.Mutex{},
	}
	for _, option := range options {
		option(c)
	}
	if c.registry == nil {
		c.registry = NewRegistry()
	}
	return c
}

func (c *compositorImpl) Registry() *Registry {
	return c.registry
}

func (c *compositorImpl) SetPlayerOrder(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerOrder = append([]string(nil), ids...)
}

func (c *compositorImpl) PlayerOrder() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.playerOrder...)
}

func (c *compositorImpl) RemoveBackground(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.playerRemoved, id) {
		c.playerRemoved = append(c.playerRemoved, id)
	}
}

func (c *compositorImpl) RestoreBackground(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerRemoved = slices.DeleteFunc(c.playerRemoved, func(s string) bool { return s == id })
	if m, ok := c.registry.Get(id); ok {
		m.SetEffective(true)
	}
}

func (c *compositorImpl) PlayerRemoved() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.playerRemoved...)
}

func (c *compositorImpl) Resolve() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	acc := newAccumulator()
	c.applyPlayerRemoved()

	winner := c.resolvePlayerOrder()
	if winner == nil {
		winner = c.resolveTiers()
	}
	if winner != nil {
		acc.add(winner)
	}
	c.resolveBackground(acc, winner)

	c.head = 1 - c.head
	c.ring[c.head] = acc.result()
	return c.ring[c.head]
}

func (c *compositorImpl) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ring[c.head]
}

func (c *compositorImpl) Previous() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ring[1-c.head]
}

func (c *compositorImpl) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ring = [2]Snapshot{}
}

func (c *compositorImpl) Frame(partial float32, viewer common.Viewer) (common.Pose, bool) {
	c.mu.Lock()
	cur, prev := c.ring[c.head], c.ring[1-c.head]
	c.mu.Unlock()

	pose := viewer.Pose()
	if !cur.Active() {
		return pose, false
	}
	partial = float32(common.Clamp(float64(partial), 0, 1))
	blend := func(channel Flags) bool {
		return prev.Flags.CanLerp(channel) && cur.Flags.CanLerp(channel)
	}

	if cur.Flags.PositionEnabled() && (cur.HasGlobal || cur.HasLocal) {
		global, local := cur.GlobalPosition, cur.LocalPosition
		if blend(FlagPosition) && prev.HasGlobal == cur.HasGlobal && prev.HasLocal == cur.HasLocal {
			global = prev.GlobalPosition.Add(cur.GlobalPosition.Sub(prev.GlobalPosition).Mul(partial))
			local = prev.LocalPosition.Add(cur.LocalPosition.Sub(prev.LocalPosition).Mul(partial))
		}
		base := viewer.Position
		if cur.HasGlobal {
			base = global
		}
		if cur.HasLocal {
			base = base.Add(common.RotateYaw(local, viewer.Rotation[0]))
		}
		pose.Position = base
	}

	if cur.Flags.RotationEnabled() {
		rot := cur.Rotation
		if blend(FlagRotation) {
			rot = orient.SmoothRotationLerp(prev.Rotation, cur.Rotation, partial)
		}
		if cur.RotationGlobal {
			pose.Rotation = rot
		} else {
			pose.Rotation = viewer.Rotation.Add(rot)
		}
	}

	if cur.Flags.FovEnabled() {
		fov := cur.Fov
		if blend(FlagFov) {
			fov = common.Lerp(prev.Fov, cur.Fov, partial)
		}
		if cur.FovGlobal {
			pose.Fov = fov
		} else {
			pose.Fov = viewer.Fov + fov
		}
	}

	return pose, true
}

// resolvePlayerOrder walks the player order from last to first and returns the first
// contributing modifier. Ids that no longer resolve are pruned as they are encountered.
// Caller must hold the mutex.
func (c *compositorImpl) resolvePlayerOrder() *Modifier {
	var stale []string
	var winner *Modifier
	for i := len(c.playerOrder) - 1; i >= 0; i-- {
		id := c.playerOrder[i]
		m, ok := c.registry.Get(id)
		if !ok {
			stale = append(stale, id)
			continue
		}
		if m.Contributes() {
			winner = m
			break
		}
	}
	if len(stale) > 0 {
		c.playerOrder = prune(c.playerOrder, stale)
		log.Printf("[Compositor] pruned stale player-order ids %v", stale)
	}
	return winner
}

// resolveTiers returns the first contributing High modifier, else the first Low one.
// Caller must hold the mutex.
func (c *compositorImpl) resolveTiers() *Modifier {
	for _, tier := range []Tier{TierHigh, TierLow} {
		for _, m := range c.registry.Tier(tier) {
			if m.Contributes() {
				return m
			}
		}
	}
	return nil
}

// applyPlayerRemoved marks every player-removed modifier ineffective and prunes ids that no
// longer resolve. Caller must hold the mutex.
func (c *compositorImpl) applyPlayerRemoved() {
	var stale []string
	for _, id := range c.playerRemoved {
		m, ok := c.registry.Get(id)
		if !ok {
			stale = append(stale, id)
			continue
		}
		m.SetEffective(false)
	}
	if len(stale) > 0 {
		c.playerRemoved = prune(c.playerRemoved, stale)
		log.Printf("[Compositor] pruned stale player-removed ids %v", stale)
	}
}

// resolveBackground adds every contributing background modifier other than skip.
// Caller must hold the mutex.
func (c *compositorImpl) resolveBackground(acc *accumulator, skip *Modifier) {
	for _, m := range c.registry.Tier(TierBackground) {
		if m != skip && m.Contributes() {
			acc.add(m)
		}
	}
}

func prune(ids, stale []string) []string {
	return slices.DeleteFunc(ids, func(id string) bool { return slices.Contains(stale, id) })
}
