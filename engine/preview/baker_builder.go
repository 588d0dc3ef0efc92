package preview

// BakerBuilderOption is a functional option for configuring a Baker.
type BakerBuilderOption func(*bakerImpl)

// WithWorkers sets the worker pool size. Values below 1 are ignored.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - BakerBuilderOption: the option
func WithWorkers(n int) BakerBuilderOption {
	return func(b *bakerImpl) {
		if n >= 1 {
			b.workers = n
		}
	}
}

// WithStepsPerSegment sets the number of polyline steps per segment. Values below 1 are ignored.
//
// Parameters:
//   - steps: the step count
//
// Returns:
//   - BakerBuilderOption: the option
func WithStepsPerSegment(steps int) BakerBuilderOption {
	return func(b *bakerImpl) {
		if steps >= 1 {
			b.steps = steps
		}
	}
}

// WithArcSamples sets the sample count of the arc-length tables used for segment lengths.
func WithArcSamples(samples int) BakerBuilderOption {
	return func(b *bakerImpl) {
		if samples >= 2 {
			b.arcSamples = samples
		}
	}
}
