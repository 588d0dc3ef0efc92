package path

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/Carmen-Shannon/campath/engine/easing"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	p := worldPath()
	p.SetEasing(20, ChannelFov, ChannelEasing{
		Mode:  easing.ModeBezier,
		Curve: easing.Curve{Left: mgl32.Vec2{0.42, 0}, Right: mgl32.Vec2{0.58, 1}},
	})
	p.SetShapeHandles(20, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6})
	p.Touch(uuid.New())
	native := p.ToNative(Anchor{Position: mgl32.Vec3{1, 1, 1}, Yaw: 12})

	raw, err := json.Marshal(native.Document())
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	got, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, native.ID(), got.ID())
	assert.Equal(t, native.Version(), got.Version())
	assert.Equal(t, native.LastModifier(), got.LastModifier())
	assert.True(t, got.Native())
	assert.Equal(t, native.Anchor(), got.Anchor())
	if diff := cmp.Diff(native.Entries(), got.Entries(), cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

const yamlPath = `
id: flyover
version: 3
native: false
keyframes:
  - time: 0
    pos: [0, 70, 0]
    rot: [0, 10, 0]
    fov: 70
  - time: 40
    pos: [20, 72, 5]
    rot: [90, 0, 0]
    fov: 60
    pathShape: wobbly
    posEase: springy
    rotEase: bezier
    rotBezier: {left: [0.1, 0.0], right: [0.9, 1.0]}
`

func TestFromDocumentYAMLWithUnknownEnums(t *testing.T) {
	t.Parallel()

	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(yamlPath), &doc))
	p, err := FromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, "flyover", p.ID())
	assert.Equal(t, int64(3), p.Version())
	kf, ok := p.Point(40)
	require.True(t, ok)
	assert.Equal(t, curve.ShapeLinear, kf.Shape)
	assert.Equal(t, easing.ModeLinear, kf.PositionEasing.Mode)
	assert.Equal(t, easing.ModeBezier, kf.RotationEasing.Mode)
	assert.Equal(t, mgl32.Vec2{0.1, 0}, kf.RotationEasing.Curve.Left)
	assert.Equal(t, easing.DefaultCurve(), kf.FovEasing.Curve)
}

const bezierYAML = `
id: arc
keyframes:
  - time: 0
    pos: [0, 0, 0]
    rot: [0, 0, 0]
    fov: 70
  - time: 20
    pos: [10, 0, 0]
    rot: [0, 0, 0]
    fov: 70
    pathShape: bezier
    pathBezier: {left: [0, 5, 0], right: [10, 5, 0]}
`

func TestFromDocumentKeepsAuthoredBezierHandles(t *testing.T) {
	t.Parallel()

	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(bezierYAML), &doc))
	p, err := FromDocument(doc)
	require.NoError(t, err)

	kf, ok := p.Point(20)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, kf.Handles.Left)
	assert.Equal(t, mgl32.Vec3{10, 5, 0}, kf.Handles.Right)
	assert.True(t, kf.Handles.Manual)

	out := p.Document().Keyframes[1].PathBezier
	require.NotNil(t, out)
	assert.False(t, out.Derived)
}

func TestDerivedBezierHandlesStayDerived(t *testing.T) {
	t.Parallel()

	p := New("auto")
	p.Add(0, NewKeyframe(mgl32.Vec3{}, mgl32.Vec3{}, 70))
	kf := NewKeyframe(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, 70)
	kf.Shape = curve.ShapeBezier
	p.Add(20, kf)

	doc := p.Document()
	require.NotNil(t, doc.Keyframes[1].PathBezier)
	assert.True(t, doc.Keyframes[1].PathBezier.Derived)

	got, err := FromDocument(doc)
	require.NoError(t, err)
	loaded, _ := got.Point(20)
	want, _ := p.Point(20)
	assert.False(t, loaded.Handles.Manual)
	assert.Equal(t, want.Handles, loaded.Handles)
}

func TestFromDocumentRejectsMalformed(t *testing.T) {
	t.Parallel()

	fov := float32(70)
	pos := [3]float32{0, 0, 0}
	nan := float32(math.NaN())

	tests := []struct {
		name string
		doc  Document
		want error
	}{
		{"empty", Document{ID: "a"}, ErrEmptyPath},
		{"missing fov", Document{Keyframes: []KeyframeDocument{{Pos: &pos, Rot: &pos}}}, ErrInvalidKeyframe},
		{"missing rot", Document{Keyframes: []KeyframeDocument{{Pos: &pos, Fov: &fov}}}, ErrInvalidKeyframe},
		{"nan fov", Document{Keyframes: []KeyframeDocument{{Pos: &pos, Rot: &pos, Fov: &nan}}}, ErrInvalidKeyframe},
		{"bad owner", Document{LastModifier: "nope", Keyframes: []KeyframeDocument{{Pos: &pos, Rot: &pos, Fov: &fov}}}, ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDocument(tt.doc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
