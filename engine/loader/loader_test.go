package loader

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/campath/engine/animator"
	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/Carmen-Shannon/campath/engine/store"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePath(id string) *path.Path {
	p := path.New(id)
	p.Add(0, path.NewKeyframe(mgl32.Vec3{}, mgl32.Vec3{}, 70))
	kf := path.NewKeyframe(mgl32.Vec3{8, 0, 2}, mgl32.Vec3{90, 0, 0}, 60)
	kf.Shape = curve.ShapeCatmullUniform
	p.Add(30, kf)
	return p
}

func newBackends(t *testing.T) map[string]Loader {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "loader.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Loader{
		"sqlite": NewLoader(BackendTypeSQLite, WithStore(store.NewPathStore(db.DB))),
		"yaml":   NewLoader(BackendTypeYAML, WithDirectory(t.TempDir())),
	}
}

func TestLoaderBackends(t *testing.T) {
	t.Parallel()

	for name, l := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := l.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			p := samplePath("flyover")
			require.NoError(t, l.Save(ctx, p))
			assert.ErrorIs(t, l.Save(ctx, p), ErrConflict)

			l.Invalidate("flyover")
			got, err := l.Load(ctx, "flyover")
			require.NoError(t, err)
			assert.Equal(t, p.Version(), got.Version())
			assert.Equal(t, p.Times(), got.Times())
			kf, ok := got.Point(30)
			require.True(t, ok)
			assert.Equal(t, curve.ShapeCatmullUniform, kf.Shape)

			require.NoError(t, l.Save(ctx, samplePath("another")))
			ids, err := l.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"another", "flyover"}, ids)

			require.NoError(t, l.Delete(ctx, "flyover"))
			assert.Nil(t, l.Get("flyover"))
			assert.ErrorIs(t, l.Delete(ctx, "flyover"), ErrNotFound)
		})
	}
}

func TestLoadReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	l := NewLoader(BackendTypeYAML, WithDirectory(t.TempDir()), WithPath(samplePath("cached")))
	a, err := l.Load(context.Background(), "cached")
	require.NoError(t, err)
	a.SetFov(0, 10)

	b := l.Get("cached")
	require.NotNil(t, b)
	kf, _ := b.Point(0)
	assert.Equal(t, float32(70), kf.Fov)
	assert.Len(t, l.Paths(), 1)
}

func TestConcurrentLoadsShareResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := NewLoader(BackendTypeYAML, WithDirectory(dir))
	require.NoError(t, l.Save(context.Background(), samplePath("shared")))
	l.Invalidate("shared")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background(), "shared")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.NotNil(t, l.Get("shared"))
}

func TestLoadAsyncFeedsAnimator(t *testing.T) {
	t.Parallel()

	l := NewLoader(BackendTypeYAML, WithDirectory(t.TempDir()), WithLoadTimeout(time.Second))
	require.NoError(t, l.Save(context.Background(), samplePath("async")))

	a := animator.NewAnimator(animator.WithPath(samplePath("previous")))

	done := make(chan error, 1)
	l.LoadAsync("nope", func(p *path.Path, err error) { done <- a.ApplyLoad(p, err) })
	assert.ErrorIs(t, <-done, ErrNotFound)
	assert.Equal(t, "previous", a.Path().ID())

	l.LoadAsync("async", func(p *path.Path, err error) { done <- a.ApplyLoad(p, err) })
	require.NoError(t, <-done)
	assert.Equal(t, "async", a.Path().ID())
}

func TestYAMLCodec(t *testing.T) {
	t.Parallel()

	src := `
version: 3
keyframes:
  - time: 0
    pos: [0, 0, 0]
    rot: [0, 0, 0]
    fov: 70
  - time: 20
    pos: [10, 0, 0]
    rot: [0, 0, 0]
    fov: 90
    pathShape: wobbly
`
	p, err := DecodeYAML(strings.NewReader(src), "from-file")
	require.NoError(t, err)
	assert.Equal(t, "from-file", p.ID())
	assert.Equal(t, int64(3), p.Version())
	kf, _ := p.Point(20)
	assert.Equal(t, curve.ShapeLinear, kf.Shape)

	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, p))
	again, err := DecodeYAML(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, p.Times(), again.Times())
	assert.Equal(t, "from-file", again.ID())

	_, err = DecodeYAML(strings.NewReader("keyframes: []"), "x")
	assert.ErrorIs(t, err, path.ErrEmptyPath)
}

func TestYAMLBackendRejectsUnsafeIDs(t *testing.T) {
	t.Parallel()

	l := NewLoader(BackendTypeYAML, WithDirectory(t.TempDir()))
	_, err := l.Load(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, path.ErrInvalidPath)
}

func TestSQLiteBackendWithoutStore(t *testing.T) {
	t.Parallel()

	l := NewLoader(BackendTypeSQLite)
	_, err := l.Load(context.Background(), "x")
	assert.ErrorIs(t, err, errNoStore)
}
