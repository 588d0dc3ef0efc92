package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *PathStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "paths.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPathStore(db.DB)
}

func samplePath(id string) *path.Path {
	p := path.New(id)
	p.Add(0, path.NewKeyframe(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 0}, 70))
	kf := path.NewKeyframe(mgl32.Vec3{10, 1, 5}, mgl32.Vec3{45, 10, 0}, 80)
	kf.Shape = curve.ShapeCatmullCentripetal
	p.Add(40, kf)
	p.Touch(uuid.New())
	return p
}

func TestMigrationsApplied(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer db.Close()

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// re-running is a no-op
	require.NoError(t, db.MigrateUp())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	p := samplePath("intro")
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Load(ctx, "intro")
	require.NoError(t, err)
	assert.Equal(t, p.Version(), got.Version())
	assert.Equal(t, p.LastModifier(), got.LastModifier())
	if diff := cmp.Diff(p.Document(), got.Document(), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveNativePathKeepsAnchor(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	anchor := path.Anchor{Position: mgl32.Vec3{5, 0, 5}, Yaw: 30}
	p := samplePath("native").ToNative(anchor)
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Load(ctx, p.ID())
	require.NoError(t, err)
	assert.True(t, got.Native())
	assert.Equal(t, anchor, got.Anchor())
}

func TestSaveRejectsStaleVersion(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	p := samplePath("race")
	require.NoError(t, s.Save(ctx, p))

	// same version again
	assert.ErrorIs(t, s.Save(ctx, p), ErrConflict)

	older := p.Clone()
	p.SetFov(0, 75)
	require.NoError(t, s.Save(ctx, p))
	assert.ErrorIs(t, s.Save(ctx, older), ErrConflict)

	got, err := s.Load(ctx, "race")
	require.NoError(t, err)
	kf, ok := got.Point(0)
	require.True(t, ok)
	assert.Equal(t, float32(75), kf.Fov)
}

func TestSaveRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	assert.ErrorIs(t, s.Save(context.Background(), path.New("empty")), path.ErrEmptyPath)
	assert.ErrorIs(t, s.Save(context.Background(), nil), path.ErrEmptyPath)
}

func TestListPages(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	for i := range 5 {
		require.NoError(t, s.Save(ctx, samplePath(fmt.Sprintf("path-%d", i))))
	}

	first, err := s.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "path-0", first[0].ID)
	assert.Equal(t, 2, first[0].Keyframes)
	assert.Equal(t, 40, first[0].Length)
	assert.False(t, first[0].UpdatedAt.IsZero())

	last, err := s.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "path-4", last[0].ID)

	all, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDeleteAndNotFound(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, samplePath("gone")))
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err := s.Load(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "gone"), ErrNotFound)
}
