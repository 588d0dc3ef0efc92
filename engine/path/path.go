package path

import (
	"errors"
	"sort"

	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	// ErrEmptyPath is returned when a path without keyframes is offered for playback or storage.
	ErrEmptyPath = errors.New("path has no keyframes")
	// ErrInvalidKeyframe is returned when a decoded keyframe is missing fields or holds non-finite numbers.
	ErrInvalidKeyframe = errors.New("invalid keyframe")
	// ErrInvalidPath is returned when path-level fields cannot be decoded.
	ErrInvalidPath = errors.New("invalid path")
)

// Entry is a keyframe together with the tick it is anchored at.
type Entry struct {
	Time     int
	Keyframe Keyframe
}

// Path is an ordered, tick-indexed keyframe store.
// Keyframes are owned by value; callers refer to them by time, never by pointer.
// A Path is mutated by a single edit session and is not safe for concurrent writers.
type Path struct {
	id           string
	version      int64
	lastModifier uuid.UUID
	native       bool
	anchor       Anchor

	frames map[int]Keyframe

	// order is the sorted key view of frames. It is extended in place on append and
	// rebuilt lazily once dirty is set by an out-of-order insert or a removal.
	order []int
	dirty bool
}

// New creates an empty world-space path. An empty id is replaced by a random UUID.
//
// Parameters:
//   - id: the path identity
//
// Returns:
//   - *Path: the empty path
func New(id string) *Path {
	if id == "" {
		id = uuid.NewString()
	}
	return &Path{
		id:     id,
		frames: make(map[int]Keyframe),
	}
}

// ID returns the path identity.
func (p *Path) ID() string { return p.id }

// Version returns the version stamp. It increases by one on every mutation.
func (p *Path) Version() int64 { return p.version }

// LastModifier returns the id of the owner that last touched the path.
func (p *Path) LastModifier() uuid.UUID { return p.lastModifier }

// Native reports whether keyframe coordinates are relative to the path's anchor.
func (p *Path) Native() bool { return p.native }

// Anchor returns the anchor pose used in native mode.
func (p *Path) Anchor() Anchor { return p.anchor }

// Touch records owner as the last modifier and bumps the version.
func (p *Path) Touch(owner uuid.UUID) {
	p.lastModifier = owner
	p.version++
}

// Len returns the number of keyframes.
func (p *Path) Len() int { return len(p.frames) }

// Empty reports whether the path holds no keyframes.
func (p *Path) Empty() bool { return len(p.frames) == 0 }

// Length returns the time of the last keyframe, or 0 for an empty path.
func (p *Path) Length() int {
	order := p.ordered()
	if len(order) == 0 {
		return 0
	}
	return order[len(order)-1]
}

// Validate returns ErrEmptyPath if the path cannot be played.
func (p *Path) Validate() error {
	if p.Empty() {
		return ErrEmptyPath
	}
	return nil
}

// Add inserts kf at time, overwriting any keyframe already there, and re-derives the
// Bezier handles around it.
//
// Parameters:
//   - time: the tick to anchor the keyframe at
//   - kf: the keyframe
func (p *Path) Add(time int, kf Keyframe) {
	if _, exists := p.frames[time]; !exists {
		if !p.dirty && (len(p.order) == 0 || time > p.order[len(p.order)-1]) {
			p.order = append(p.order, time)
		} else {
			p.dirty = true
		}
	}
	p.frames[time] = kf
	p.version++
	p.UpdateBezier(time)
}

// Remove deletes the keyframe at time and re-derives the handles of its successor.
//
// Parameters:
//   - time: the tick of the keyframe to remove
//
// Returns:
//   - bool: false if no keyframe existed at time
func (p *Path) Remove(time int) bool {
	if _, ok := p.frames[time]; !ok {
		return false
	}
	next, hasNext := p.NextEntry(time)
	delete(p.frames, time)
	p.dirty = true
	p.version++
	if hasNext {
		p.UpdateBezier(next.Time)
	}
	return true
}

// SetTime moves the keyframe at oldTime to newTime.
//
// Parameters:
//   - oldTime: the current tick of the keyframe
//   - newTime: the destination tick
//
// Returns:
//   - bool: false if oldTime is absent or newTime is occupied by a different keyframe
func (p *Path) SetTime(oldTime, newTime int) bool {
	kf, ok := p.frames[oldTime]
	if !ok {
		return false
	}
	if oldTime == newTime {
		return true
	}
	if _, taken := p.frames[newTime]; taken {
		return false
	}
	p.Remove(oldTime)
	p.Add(newTime, kf)
	return true
}

// Point returns the keyframe exactly at time.
func (p *Path) Point(time int) (Keyframe, bool) {
	kf, ok := p.frames[time]
	return kf, ok
}

// PreEntry returns the entry with the greatest time strictly lower than time.
func (p *Path) PreEntry(time int) (Entry, bool) {
	order := p.ordered()
	i := sort.SearchInts(order, time)
	if i == 0 {
		return Entry{}, false
	}
	return p.entry(order[i-1]), true
}

// NextEntry returns the entry with the smallest time strictly greater than time.
func (p *Path) NextEntry(time int) (Entry, bool) {
	order := p.ordered()
	i := sort.SearchInts(order, time+1)
	if i == len(order) {
		return Entry{}, false
	}
	return p.entry(order[i]), true
}

// Entry returns the entry with the greatest time lower than or equal to time.
func (p *Path) Entry(time int) (Entry, bool) {
	order := p.ordered()
	i := sort.SearchInts(order, time+1) - 1
	if i < 0 {
		return Entry{}, false
	}
	return p.entry(order[i]), true
}

// First returns the earliest entry.
func (p *Path) First() (Entry, bool) {
	order := p.ordered()
	if len(order) == 0 {
		return Entry{}, false
	}
	return p.entry(order[0]), true
}

// Last returns the latest entry.
func (p *Path) Last() (Entry, bool) {
	order := p.ordered()
	if len(order) == 0 {
		return Entry{}, false
	}
	return p.entry(order[len(order)-1]), true
}

// Times returns a copy of the keyframe times in ascending order.
func (p *Path) Times() []int {
	return append([]int(nil), p.ordered()...)
}

// Entries returns every keyframe in ascending time order.
func (p *Path) Entries() []Entry {
	order := p.ordered()
	out := make([]Entry, len(order))
	for i, t := range order {
		out[i] = p.entry(t)
	}
	return out
}

// UpdateBezier re-derives the handles of the keyframe at time from its predecessor, and
// those of its successor when the successor's shape is Bezier. Each handle sits
// curve.HandleBlend of the chord away from its own endpoint. Manual handles are left alone.
//
// Parameters:
//   - time: the tick of the touched keyframe
func (p *Path) UpdateBezier(time int) {
	kf, ok := p.frames[time]
	if !ok {
		return
	}
	p.frames[time] = p.deriveHandles(time, kf)

	if next, ok := p.NextEntry(time); ok && next.Keyframe.Shape == curve.ShapeBezier {
		p.frames[next.Time] = p.deriveHandles(next.Time, next.Keyframe)
	}
}

// SetPosition moves the keyframe at time and keeps the neighboring handles consistent.
func (p *Path) SetPosition(time int, pos mgl32.Vec3) bool {
	return p.edit(time, func(kf *Keyframe) { kf.Position = pos })
}

// SetRotation replaces the yaw, pitch, roll of the keyframe at time.
func (p *Path) SetRotation(time int, rot mgl32.Vec3) bool {
	return p.edit(time, func(kf *Keyframe) { kf.Rotation = rot })
}

// SetFov replaces the field of view of the keyframe at time.
func (p *Path) SetFov(time int, fov float32) bool {
	return p.edit(time, func(kf *Keyframe) { kf.Fov = fov })
}

// SetShape replaces the path-shape of the segment ending at time.
func (p *Path) SetShape(time int, shape curve.Shape) bool {
	return p.edit(time, func(kf *Keyframe) { kf.Shape = shape })
}

// SetEasing replaces the time-easing of one channel of the keyframe at time.
func (p *Path) SetEasing(time int, ch Channel, e ChannelEasing) bool {
	return p.edit(time, func(kf *Keyframe) { *kf = kf.withEasing(ch, e) })
}

// SetShapeHandles overrides the Bezier handles of the keyframe at time. The handles are
// flagged manual and survive later edits; ClearShapeHandles returns them to auto-derivation.
func (p *Path) SetShapeHandles(time int, left, right mgl32.Vec3) bool {
	return p.edit(time, func(kf *Keyframe) {
		kf.Handles = Handles{Left: left, Right: right, Manual: true}
	})
}

// ClearShapeHandles drops a manual handle override at time.
func (p *Path) ClearShapeHandles(time int) bool {
	return p.edit(time, func(kf *Keyframe) { kf.Handles.Manual = false })
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	c := &Path{
		id:           p.id,
		version:      p.version,
		lastModifier: p.lastModifier,
		native:       p.native,
		anchor:       p.anchor,
		frames:       make(map[int]Keyframe, len(p.frames)),
		order:        append([]int(nil), p.ordered()...),
	}
	for t, kf := range p.frames {
		c.frames[t] = kf
	}
	return c
}

// edit applies fn to the keyframe at time, bumps the version and re-derives handles.
func (p *Path) edit(time int, fn func(kf *Keyframe)) bool {
	kf, ok := p.frames[time]
	if !ok {
		return false
	}
	fn(&kf)
	p.frames[time] = kf
	p.version++
	p.UpdateBezier(time)
	return true
}

func (p *Path) deriveHandles(time int, kf Keyframe) Keyframe {
	if kf.Handles.Manual {
		return kf
	}
	pre, ok := p.PreEntry(time)
	if !ok {
		kf.Handles.Left, kf.Handles.Right = kf.Position, kf.Position
		return kf
	}
	kf.Handles.Left = curve.BlendHandle(pre.Keyframe.Position, kf.Position)
	kf.Handles.Right = curve.BlendHandle(kf.Position, pre.Keyframe.Position)
	return kf
}

func (p *Path) entry(time int) Entry {
	return Entry{Time: time, Keyframe: p.frames[time]}
}

// ordered returns the sorted key view, rebuilding it if it was invalidated.
func (p *Path) ordered() []int {
	if !p.dirty {
		return p.order
	}
	p.order = p.order[:0]
	for t := range p.frames {
		p.order = append(p.order, t)
	}
	sort.Ints(p.order)
	p.dirty = false
	return p.order
}
