package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup attaches a bind group created by the host renderer.
// Release drops it together with the buffers.
//
// Parameters:
//   - bg: the host's bind group
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBindGroupLayout attaches the layout the host built the bind group from.
//
// Parameters:
//   - bgl: the host's bind group layout
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer sets the GPU buffer that writes staged for binding are flushed into.
// A nil buffer leaves the binding unbacked, so its writes stay pending.
//
// Parameters:
//   - binding: the binding index the staged writes target
//   - buf: the destination buffer
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		if buf == nil {
			return
		}
		p.buffers[binding] = buf
	}
}
