package animator

// State is the playback state of an Animator.
type State int

const (
	// StateIdle is stopped; Tick does nothing.
	StateIdle State = iota
	// StatePlaying advances time once per tick and stops or fades at the end.
	StatePlaying
	// StateLooping advances time once per tick and wraps to 0 past the end.
	StateLooping
	// StateExitFading holds time at the end while the exit fade gate is pending.
	StateExitFading
)

// String returns a readable name for the state.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateLooping:
		return "looping"
	case StateExitFading:
		return "exit_fading"
	default:
		return "idle"
	}
}

// Advancing reports whether time moves forward on Tick in this state.
func (s State) Advancing() bool {
	return s == StatePlaying || s == StateLooping
}
