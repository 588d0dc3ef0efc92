package modifier

// CompositorBuilderOption is a functional option for configuring a Compositor via NewCompositor.
type CompositorBuilderOption func(*compositorImpl)

// WithRegistry shares an existing registry with the compositor.
//
// Parameters:
//   - r: the registry to resolve
//
// Returns:
//   - CompositorBuilderOption: a function that sets the registry
func WithRegistry(r *Registry) CompositorBuilderOption {
	return func(c *compositorImpl) {
		c.registry = r
	}
}

// WithPlayerOrder sets the initial player order, lowest priority first.
//
// Parameters:
//   - ids: modifier ids
//
// Returns:
//   - CompositorBuilderOption: a function that sets the player order
func WithPlayerOrder(ids ...string) CompositorBuilderOption {
	return func(c *compositorImpl) {
		c.playerOrder = append([]string(nil), ids...)
	}
}

// WithPlayerRemoved sets the initial player-removed background list.
//
// Parameters:
//   - ids: background modifier ids the player opted out of
//
// Returns:
//   - CompositorBuilderOption: a function that sets the removed list
func WithPlayerRemoved(ids ...string) CompositorBuilderOption {
	return func(c *compositorImpl) {
		c.playerRemoved = append([]string(nil), ids...)
	}
}
