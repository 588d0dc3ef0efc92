package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/campath/engine/animator"
	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/Carmen-Shannon/campath/engine/rig"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsAtTickLimit(t *testing.T) {
	t.Parallel()

	p := path.New("line")
	p.Add(0, path.NewKeyframe(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{}, 70))
	p.Add(40, path.NewKeyframe(mgl32.Vec3{40, 0, 0}, mgl32.Vec3{}, 70))
	a := animator.NewAnimator(animator.WithPath(p))
	require.True(t, a.Play())
	r := rig.NewRig(rig.WithAnimator(a))

	var mu sync.Mutex
	var tickCount int
	var partials []float32
	e := NewEngine(
		WithRig(r),
		WithTickRate(200),
		WithRenderFrameLimit(1000),
		WithMaxTicks(5),
		WithTickCallback(func(float32) {
			mu.Lock()
			tickCount++
			mu.Unlock()
		}),
		WithFrameCallback(func(partial, _ float32) {
			mu.Lock()
			partials = append(partials, partial)
			mu.Unlock()
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Run(ctx)

	assert.Equal(t, int64(5), e.Ticks())
	assert.Equal(t, 5, a.Time())
	assert.Same(t, r, e.Rig())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, tickCount)
	require.NotEmpty(t, partials)
	for _, v := range partials {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithTickRate(100), WithRenderFrameLimit(100))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after context cancel")
	}
	e.Quit()
}

func TestQuitBeforeRun(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.Quit()
	e.Quit()
	e.Run(context.Background())
	assert.Equal(t, int64(0), e.Ticks())
}

func TestSetTickRateWhileStopped(t *testing.T) {
	t.Parallel()

	e := NewEngine().(*engine)
	e.SetTickRate(50)
	assert.Equal(t, 20*time.Millisecond, e.engineTickRate)
	e.SetTickRate(0)
	assert.Equal(t, 50*time.Millisecond, e.engineTickRate)

	e.SetRenderFrameLimit(0)
	assert.Equal(t, time.Duration(0), e.renderFrameLimit)
}

func TestPartialIsClamped(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithTickRate(10)).(*engine)
	e.lastTickNano.Store(time.Now().Add(-time.Second).UnixNano())
	assert.Equal(t, float32(1), e.Partial())
	e.lastTickNano.Store(time.Now().Add(time.Second).UnixNano())
	assert.Equal(t, float32(0), e.Partial())
}
