package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageReplacesSameBindingAndOffset(t *testing.T) {
	t.Parallel()

	p := NewBindGroupProvider("camera_test")
	p.Stage(0, 0, []byte{1})
	p.Stage(0, 64, []byte{2})
	p.Stage(0, 0, []byte{3})

	pending := p.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, []byte{3}, pending[0].Data)
	assert.Equal(t, uint64(64), pending[1].Offset)
	assert.Same(t, p, pending[0].Provider)
	assert.Equal(t, "camera_test", p.Label())
}

func TestFlushKeepsWritesWithoutBuffer(t *testing.T) {
	t.Parallel()

	p := NewBindGroupProvider("headless")
	p.Stage(0, 0, []byte{1, 2, 3})

	called := 0
	n := p.Flush(func(*wgpu.Buffer, uint64, []byte) { called++ })
	assert.Zero(t, n)
	assert.Zero(t, called)
	assert.Len(t, p.Pending(), 1)
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.BindGroup())
}

func TestReleaseDropsPending(t *testing.T) {
	t.Parallel()

	p := NewBindGroupProvider("release")
	p.Stage(1, 0, []byte{9})
	p.Release()
	assert.Empty(t, p.Pending())
	assert.Empty(t, p.Buffers())
}
