package animator

import "github.com/Carmen-Shannon/campath/engine/path"

// AnimatorBuilderOption is a functional option for configuring an Animator.
type AnimatorBuilderOption func(*animatorImpl)

// WithPath sets the initial path. A nil or empty path is ignored.
//
// Parameters:
//   - p: the path to play
//
// Returns:
//   - AnimatorBuilderOption: the option
func WithPath(p *path.Path) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		if p != nil && !p.Empty() {
			a.path = p
		}
	}
}

// WithLoop sets whether playback wraps at the end of the path.
//
// Parameters:
//   - loop: true to wrap
//
// Returns:
//   - AnimatorBuilderOption: the option
func WithLoop(loop bool) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.loop = loop
	}
}

// WithAutoReset sets whether a finished non-looping path enters the exit fade.
//
// Parameters:
//   - autoReset: true to fade out and rewind
//
// Returns:
//   - AnimatorBuilderOption: the option
func WithAutoReset(autoReset bool) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.autoReset = autoReset
	}
}

// WithConstantSpeed enables arc-length reparameterization of positions.
func WithConstantSpeed(on bool) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.constantSpeed = on
	}
}

// WithQuaternionRotation selects quaternion slerp (true, the default) or the angle lerp fallback.
func WithQuaternionRotation(on bool) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.quaternion = on
	}
}

// WithArcSamples sets the number of samples per arc-length table. Values below 2 are ignored.
//
// Parameters:
//   - samples: the sample count
//
// Returns:
//   - AnimatorBuilderOption: the option
func WithArcSamples(samples int) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		if samples >= 2 {
			a.arcSamples = samples
		}
	}
}

// WithExitFadeTicks sets how many ticks the exit fade gate holds before rewinding.
func WithExitFadeTicks(ticks int) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.exitFadeTicks = max(0, ticks)
	}
}

// WithExitFadeHandler sets a callback invoked once when the exit fade begins.
// The callback runs outside the animator lock and may call back into the animator.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - AnimatorBuilderOption: the option
func WithExitFadeHandler(fn func()) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.onExitFade = fn
	}
}
