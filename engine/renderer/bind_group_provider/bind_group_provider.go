package bind_group_provider

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu *sync.Mutex

	// label is a debug label added for convenience.
	label string

	// GPU resources are populated by whoever owns the device and must be released when no longer needed.

	// bindGroup is the GPU bind group created for this provider, or nil if no device is attached.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the GPU bind group layout created for this provider, or nil if no device is attached.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU uniform buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	// pending holds staged writes that have not been flushed to a queue yet.
	// At most one write is kept per binding and offset; a newer stage replaces the older one.
	pending []BufferWrite
}

// BindGroupProvider describes the uniform buffers a component needs on the GPU and stages the
// bytes that should be written into them.
//
// Usage pattern:
//  1. Component creates a BindGroupProvider with a unique label
//  2. Component stages serialized uniform data via Stage() whenever its state changes
//  3. The device owner creates buffers and calls SetBuffer() once a GPU is available
//  4. The device owner calls Flush() each frame to upload staged data
//
// Without a device the staged writes simply accumulate, latest value per binding, so the
// same component runs headless.
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider and drops pending writes.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout for this provider.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the uniform buffer for a binding, or nil if not created.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Buffers returns all buffers associated with this provider, keyed by binding index.
	//
	// Returns:
	//   - map[int]*wgpu.Buffer: a map of buffers keyed by binding index
	Buffers() map[int]*wgpu.Buffer

	// SetBindGroup sets the bind group after GPU initialization.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer sets the uniform buffer for a binding after GPU initialization.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// Stage queues data to be written at offset into the buffer of a binding.
	// A pending write to the same binding and offset is replaced.
	//
	// Parameters:
	//   - binding: the binding index
	//   - offset: the byte offset inside the buffer
	//   - data: the bytes to write; the slice is retained
	Stage(binding int, offset uint64, data []byte)

	// Pending returns a copy of the staged writes in staging order.
	//
	// Returns:
	//   - []BufferWrite: the staged writes
	Pending() []BufferWrite

	// Flush hands every staged write whose binding has a buffer to write and removes it from
	// the pending list. Writes for bindings without a buffer stay pending.
	//
	// Parameters:
	//   - write: the upload function, typically wrapping wgpu.Queue.WriteBuffer
	//
	// Returns:
	//   - int: the number of writes flushed
	Flush(write func(buf *wgpu.Buffer, offset uint64, data []byte)) int
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		mu:      &sync.Mutex{},
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffers
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) Stage(binding int, offset uint64, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w := BufferWrite{Provider: p, Binding: binding, Offset: offset, Data: data}
	for i := range p.pending {
		if p.pending[i].Binding == binding && p.pending[i].Offset == offset {
			p.pending[i] = w
			return
		}
	}
	p.pending = append(p.pending, w)
}

func (p *bindGroupProvider) Pending() []BufferWrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]BufferWrite(nil), p.pending...)
}

func (p *bindGroupProvider) Flush(write func(buf *wgpu.Buffer, offset uint64, data []byte)) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	flushed := 0
	kept := p.pending[:0]
	for _, w := range p.pending {
		buf := p.buffers[w.Binding]
		if buf == nil {
			kept = append(kept, w)
			continue
		}
		write(buf, w.Offset, w.Data)
		flushed++
	}
	p.pending = kept
	return flushed
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	p.pending = nil
}
