package path

import "github.com/Carmen-Shannon/campath/engine/curve"

// Segment is the curve between two time-adjacent keyframes.
// Its shape is the later keyframe's shape.
type Segment struct {
	From     Entry
	To       Entry
	Shape    curve.Shape
	Controls curve.Controls
}

// Duration returns the tick span of the segment.
func (s Segment) Duration() int {
	return s.To.Time - s.From.Time
}

// SegmentAt returns the segment active at time: the floor entry and the entry strictly after it.
//
// Parameters:
//   - time: the tick to look up
//
// Returns:
//   - Segment: the active segment
//   - bool: false when time is before the first or at/after the last keyframe
func (p *Path) SegmentAt(time int) (Segment, bool) {
	from, ok := p.PreEntry(time + 1)
	if !ok {
		return Segment{}, false
	}
	to, ok := p.NextEntry(time)
	if !ok {
		return Segment{}, false
	}
	return p.segment(from, to), true
}

// Segments returns every segment of the path in time order.
func (p *Path) Segments() []Segment {
	entries := p.Entries()
	if len(entries) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(entries)-1)
	for i := 1; i < len(entries); i++ {
		out = append(out, p.segment(entries[i-1], entries[i]))
	}
	return out
}

// segment assembles the controls for from -> to, reading the outer neighbors when present
// and reflecting them otherwise.
func (p *Path) segment(from, to Entry) Segment {
	c := curve.NewControls(from.Keyframe.Position, to.Keyframe.Position).
		WithHandles(to.Keyframe.Handles.Left, to.Keyframe.Handles.Right)
	if before, ok := p.PreEntry(from.Time); ok {
		c = c.WithBefore(before.Keyframe.Position)
	}
	if after, ok := p.NextEntry(to.Time); ok {
		c = c.WithAfter(after.Keyframe.Position)
	}
	return Segment{From: from, To: to, Shape: to.Keyframe.Shape, Controls: c}
}
