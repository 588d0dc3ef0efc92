package modifier

import "strings"

// Flags is the state bitset of a modifier or of an aggregated snapshot.
// Use the named accessors rather than inspecting bits.
type Flags uint8

const (
	// FlagEnabled switches the modifier on as a whole.
	FlagEnabled Flags = 1 << iota
	// FlagPosition enables the position channel.
	FlagPosition
	// FlagRotation enables the rotation channel.
	FlagRotation
	// FlagFov enables the field of view channel.
	FlagFov
	// FlagArmFixed asks the renderer to keep the first-person arm still while the modifier is active.
	FlagArmFixed
	// FlagGlobal marks the position as world-absolute rather than viewer-relative.
	FlagGlobal
	// FlagLerp allows the compositor to interpolate the modifier's channels between ticks.
	FlagLerp
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagEnabled, "enabled"},
	{FlagPosition, "pos"},
	{FlagRotation, "rot"},
	{FlagFov, "fov"},
	{FlagArmFixed, "arm_fixed"},
	{FlagGlobal, "global"},
	{FlagLerp, "lerp"},
}

// Has reports whether every bit of mask is set.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// With returns f with mask set.
func (f Flags) With(mask Flags) Flags { return f | mask }

// Without returns f with mask cleared.
func (f Flags) Without(mask Flags) Flags { return f &^ mask }

// Set returns f with mask set or cleared according to on.
func (f Flags) Set(mask Flags, on bool) Flags {
	if on {
		return f.With(mask)
	}
	return f.Without(mask)
}

func (f Flags) Enabled() bool { return f.Has(FlagEnabled) }
func (f Flags) PositionEnabled() bool { return f.Has(FlagPosition) }
func (f Flags) RotationEnabled() bool { return f.Has(FlagRotation) }
func (f Flags) FovEnabled() bool { return f.Has(FlagFov) }
func (f Flags) ArmFixed() bool { return f.Has(FlagArmFixed) }
func (f Flags) Global() bool { return f.Has(FlagGlobal) }
func (f Flags) Lerp() bool { return f.Has(FlagLerp) }

// AnyChannel reports whether at least one of position, rotation or fov is enabled.
func (f Flags) AnyChannel() bool {
	return f&(FlagPosition|FlagRotation|FlagFov) != 0
}

// CanLerp reports whether channel may be interpolated from f: enabled, channel on and lerp on.
func (f Flags) CanLerp(channel Flags) bool {
	return f.Has(FlagEnabled | channel | FlagLerp)
}

// String lists the set flags joined by '|', or "none".
func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
