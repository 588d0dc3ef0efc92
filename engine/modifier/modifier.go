package modifier

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Tier is the priority class of a modifier.
type Tier int

const (
	// TierHigh modifiers are scanned first in the exclusive tiered pass.
	TierHigh Tier = iota
	// TierLow modifiers are scanned when no High modifier contributes.
	TierLow
	// TierBackground modifiers always contribute additively.
	TierBackground
	// TierPlayerOrdered modifiers only act through the player-order list.
	TierPlayerOrdered
)

// String returns the serialized name of the tier.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierLow:
		return "low"
	case TierBackground:
		return "background"
	case TierPlayerOrdered:
		return "player_ordered"
	}
	return "unknown"
}

// ParseTier resolves a tier name. Unknown names map to TierLow.
func ParseTier(name string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high":
		return TierHigh, true
	case "low":
		return TierLow, true
	case "background":
		return TierBackground, true
	case "player_ordered":
		return TierPlayerOrdered, true
	}
	return TierLow, false
}

// Modifier is one independently owned source of camera influence.
// It is created through Registry.GetOrCreate and lives as long as the registry.
// Owners toggle its flags and values every tick; the compositor only reads them, apart
// from the effective flag driven by the player-removed list.
type Modifier struct {
	id   string
	tier Tier

	flags    Flags
	position mgl32.Vec3
	rotation mgl32.Vec3
	fov      float32

	effective bool
}

func newModifier(id string, tier Tier) *Modifier {
	return &Modifier{id: id, tier: tier, effective: true}
}

func (m *Modifier) ID() string { return m.id }

func (m *Modifier) Tier() Tier { return m.tier }

func (m *Modifier) Flags() Flags { return m.flags }

// SetFlags replaces the whole bitset.
func (m *Modifier) SetFlags(f Flags) { m.flags = f }

// Enable sets or clears the enabled bit.
func (m *Modifier) Enable(on bool) { m.flags = m.flags.Set(FlagEnabled, on) }

// SetChannels sets which of position, rotation and fov are enabled.
func (m *Modifier) SetChannels(pos, rot, fov bool) {
	m.flags = m.flags.Set(FlagPosition, pos).Set(FlagRotation, rot).Set(FlagFov, fov)
}

// SetGlobal selects world-absolute (true) or viewer-relative (false) position.
func (m *Modifier) SetGlobal(on bool) { m.flags = m.flags.Set(FlagGlobal, on) }

// SetLerp allows or forbids inter-tick interpolation.
func (m *Modifier) SetLerp(on bool) { m.flags = m.flags.Set(FlagLerp, on) }

// SetArmFixed sets the arm-fixed hint.
func (m *Modifier) SetArmFixed(on bool) { m.flags = m.flags.Set(FlagArmFixed, on) }

func (m *Modifier) Position() mgl32.Vec3 { return m.position }
func (m *Modifier) Rotation() mgl32.Vec3 { return m.rotation }
func (m *Modifier) Fov() float32 { return m.fov }

func (m *Modifier) SetPosition(v mgl32.Vec3) { m.position = v }
func (m *Modifier) SetRotation(v mgl32.Vec3) { m.rotation = v }
func (m *Modifier) SetFov(v float32) { m.fov = v }

// AddPosition accumulates v into the position delta.
func (m *Modifier) AddPosition(v mgl32.Vec3) { m.position = m.position.Add(v) }

// AddRotation accumulates v into the rotation delta.
func (m *Modifier) AddRotation(v mgl32.Vec3) { m.rotation = m.rotation.Add(v) }

// AddFov accumulates v into the fov delta.
func (m *Modifier) AddFov(v float32) { m.fov += v }

// Reset zeroes the values and clears every flag. The effective flag is left alone.
func (m *Modifier) Reset() {
	m.flags = 0
	m.position = mgl32.Vec3{}
	m.rotation = mgl32.Vec3{}
	m.fov = 0
}

// IsEffective reports whether the modifier may contribute. A player opt-out clears it
// without touching the modifier's own flags.
func (m *Modifier) IsEffective() bool { return m.effective }

// SetEffective sets the effective flag.
func (m *Modifier) SetEffective(on bool) { m.effective = on }

// Contributes reports whether the modifier is enabled, effective and has a channel on.
func (m *Modifier) Contributes() bool {
	return m.effective && m.flags.Enabled() && m.flags.AnyChannel()
}
