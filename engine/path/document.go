package path

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/Carmen-Shannon/campath/engine/easing"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Document is the logical, encoding-neutral schema of a path.
// Field names follow the persisted keyframe schema so JSON and YAML encodings agree.
type Document struct {
	ID           string             `json:"id" yaml:"id"`
	Version      int64              `json:"version" yaml:"version"`
	LastModifier string             `json:"lastModifier,omitempty" yaml:"lastModifier,omitempty"`
	Native       bool               `json:"native" yaml:"native"`
	Anchor       *AnchorDocument    `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Keyframes    []KeyframeDocument `json:"keyframes" yaml:"keyframes"`
}

// AnchorDocument is the stored origin of a native path.
type AnchorDocument struct {
	Pos [3]float32 `json:"pos" yaml:"pos"`
	Yaw float32    `json:"yaw" yaml:"yaw"`
}

// KeyframeDocument is one stored keyframe. Pos, Rot and Fov are required.
type KeyframeDocument struct {
	Time       int              `json:"time" yaml:"time"`
	Pos        *[3]float32      `json:"pos" yaml:"pos"`
	Rot        *[3]float32      `json:"rot" yaml:"rot"`
	Fov        *float32         `json:"fov" yaml:"fov"`
	PathShape  string           `json:"pathShape,omitempty" yaml:"pathShape,omitempty"`
	PosEase    string           `json:"posEase,omitempty" yaml:"posEase,omitempty"`
	RotEase    string           `json:"rotEase,omitempty" yaml:"rotEase,omitempty"`
	FovEase    string           `json:"fovEase,omitempty" yaml:"fovEase,omitempty"`
	PathBezier *Bezier3Document `json:"pathBezier,omitempty" yaml:"pathBezier,omitempty"`
	PosBezier  *Bezier2Document `json:"posBezier,omitempty" yaml:"posBezier,omitempty"`
	RotBezier  *Bezier2Document `json:"rotBezier,omitempty" yaml:"rotBezier,omitempty"`
	FovBezier  *Bezier2Document `json:"fovBezier,omitempty" yaml:"fovBezier,omitempty"`
}

// Bezier3Document is a stored path-shape handle pair. Handles are loaded as an override
// unless Derived marks them as auto-derived from the neighboring keyframes.
type Bezier3Document struct {
	Left    [3]float32 `json:"left" yaml:"left"`
	Right   [3]float32 `json:"right" yaml:"right"`
	Derived bool       `json:"derived,omitempty" yaml:"derived,omitempty"`
}

// Bezier2Document is a stored time-easing handle pair.
type Bezier2Document struct {
	Left  [2]float32 `json:"left" yaml:"left"`
	Right [2]float32 `json:"right" yaml:"right"`
}

// FromDocument validates doc and builds the path it describes.
// Unknown shape and easing names fall back to linear rather than failing the path.
//
// Parameters:
//   - doc: the decoded document
//
// Returns:
//   - *Path: the path
//   - error: ErrEmptyPath, ErrInvalidKeyframe or ErrInvalidPath when doc is malformed
func FromDocument(doc Document) (*Path, error) {
	if len(doc.Keyframes) == 0 {
		return nil, ErrEmptyPath
	}

	p := New(doc.ID)
	if doc.LastModifier != "" {
		owner, err := uuid.Parse(doc.LastModifier)
		if err != nil {
			return nil, fmt.Errorf("%w: last modifier %q: %v", ErrInvalidPath, doc.LastModifier, err)
		}
		p.lastModifier = owner
	}
	if doc.Anchor != nil {
		if !finite(doc.Anchor.Pos[:]...) || !finite(doc.Anchor.Yaw) {
			return nil, fmt.Errorf("%w: anchor is not finite", ErrInvalidPath)
		}
		p.anchor = Anchor{Position: mgl32.Vec3(doc.Anchor.Pos), Yaw: doc.Anchor.Yaw}
	}
	p.native = doc.Native

	for i, kd := range doc.Keyframes {
		kf, err := kd.keyframe()
		if err != nil {
			return nil, fmt.Errorf("keyframe %d (time %d): %w", i, kd.Time, err)
		}
		p.Add(kd.Time, kf)
	}

	p.version = doc.Version
	return p, nil
}

// Document returns the logical schema of the path.
func (p *Path) Document() Document {
	doc := Document{
		ID:      p.id,
		Version: p.version,
		Native:  p.native,
	}
	if p.lastModifier != uuid.Nil {
		doc.LastModifier = p.lastModifier.String()
	}
	if p.native {
		doc.Anchor = &AnchorDocument{Pos: [3]float32(p.anchor.Position), Yaw: p.anchor.Yaw}
	}
	for _, e := range p.Entries() {
		doc.Keyframes = append(doc.Keyframes, keyframeDocument(e))
	}
	return doc
}

func (kd KeyframeDocument) keyframe() (Keyframe, error) {
	if kd.Pos == nil || kd.Rot == nil || kd.Fov == nil {
		return Keyframe{}, fmt.Errorf("%w: pos, rot and fov are required", ErrInvalidKeyframe)
	}
	if !finite(kd.Pos[:]...) || !finite(kd.Rot[:]...) || !finite(*kd.Fov) {
		return Keyframe{}, fmt.Errorf("%w: non-finite value", ErrInvalidKeyframe)
	}

	kf := NewKeyframe(mgl32.Vec3(*kd.Pos), mgl32.Vec3(*kd.Rot), *kd.Fov)
	kf.Shape, _ = curve.ParseShape(kd.PathShape)
	kf.PositionEasing = channelEasing(kd.PosEase, kd.PosBezier)
	kf.RotationEasing = channelEasing(kd.RotEase, kd.RotBezier)
	kf.FovEasing = channelEasing(kd.FovEase, kd.FovBezier)
	if kd.PathBezier != nil && !kd.PathBezier.Derived {
		kf.Handles = Handles{
			Left:   mgl32.Vec3(kd.PathBezier.Left),
			Right:  mgl32.Vec3(kd.PathBezier.Right),
			Manual: true,
		}
	}
	return kf, nil
}

func keyframeDocument(e Entry) KeyframeDocument {
	kf := e.Keyframe
	pos := [3]float32(kf.Position)
	rot := [3]float32(kf.Rotation)
	fov := kf.Fov
	kd := KeyframeDocument{
		Time:      e.Time,
		Pos:       &pos,
		Rot:       &rot,
		Fov:       &fov,
		PathShape: kf.Shape.String(),
		PosEase:   kf.PositionEasing.Mode.String(),
		RotEase:   kf.RotationEasing.Mode.String(),
		FovEase:   kf.FovEasing.Mode.String(),
		PosBezier: bezier2Document(kf.PositionEasing),
		RotBezier: bezier2Document(kf.RotationEasing),
		FovBezier: bezier2Document(kf.FovEasing),
	}
	if kf.Shape == curve.ShapeBezier || kf.Handles.Manual {
		kd.PathBezier = &Bezier3Document{
			Left:    [3]float32(kf.Handles.Left),
			Right:   [3]float32(kf.Handles.Right),
			Derived: !kf.Handles.Manual,
		}
	}
	return kd
}

func channelEasing(name string, bz *Bezier2Document) ChannelEasing {
	e := DefaultEasing()
	e.Mode, _ = easing.ParseMode(name)
	if bz != nil {
		e.Curve = easing.Curve{Left: mgl32.Vec2(bz.Left), Right: mgl32.Vec2(bz.Right)}
	}
	return e
}

func bezier2Document(e ChannelEasing) *Bezier2Document {
	if e.Mode != easing.ModeBezier {
		return nil
	}
	return &Bezier2Document{Left: [2]float32(e.Curve.Left), Right: [2]float32(e.Curve.Right)}
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
