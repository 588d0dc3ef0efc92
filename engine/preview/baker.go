package preview

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/campath/engine/curve"
	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
)

// DefaultStepsPerSegment is the number of polyline steps baked per segment.
const DefaultStepsPerSegment = 32

// SegmentPreview is the baked polyline of one segment, in world space.
type SegmentPreview struct {
	From   int
	To     int
	Shape  curve.Shape
	Points []mgl32.Vec3
	// Length is the arc length of the segment. Step segments have no length.
	Length float64
}

// Preview is the baked shape of a whole path.
type Preview struct {
	PathID   string
	Version  int64
	Segments []SegmentPreview
	Length   float64
}

// Points returns the polyline of the whole path with shared segment endpoints emitted once.
func (p Preview) Points() []mgl32.Vec3 {
	var out []mgl32.Vec3
	for i, s := range p.Segments {
		pts := s.Points
		if i > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	return out
}

type bakerImpl struct {
	workers    int
	steps      int
	arcSamples int

	poolOnce sync.Once
	pool     worker.DynamicWorkerPool
}

// Baker evaluates every segment of a path into a polyline plus its arc length, spreading
// segments over a pool of reusable workers.
type Baker interface {
	// Bake evaluates every segment of p. A path with a single keyframe bakes to no segments.
	//
	// Parameters:
	//   - p: the path to bake
	//
	// Returns:
	//   - Preview: the baked segments and total length
	//   - error: path.ErrEmptyPath if p has no keyframes
	Bake(p *path.Path) (Preview, error)

	// Workers returns the worker pool size.
	//
	// Returns:
	//   - int: the number of workers
	Workers() int

	// StepsPerSegment returns the number of polyline steps per segment.
	//
	// Returns:
	//   - int: the step count
	StepsPerSegment() int
}

var _ Baker = &bakerImpl{}

// NewBaker creates a Baker.
//
// Parameters:
//   - options: functional options to configure the baker
//
// Returns:
//   - Baker: the baker
func NewBaker(options ...BakerBuilderOption) Baker {
	b := &bakerImpl{
		workers:    max(runtime.NumCPU()-1, 1),
		steps:      DefaultStepsPerSegment,
		arcSamples: curve.DefaultSamples,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *bakerImpl) Workers() int {
	return b.workers
}

func (b *bakerImpl) StepsPerSegment() int {
	return b.steps
}

func (b *bakerImpl) Bake(p *path.Path) (Preview, error) {
	if p == nil || p.Empty() {
		return Preview{}, path.ErrEmptyPath
	}

	segments := p.Segments()
	out := Preview{
		PathID:   p.ID(),
		Version:  p.Version(),
		Segments: make([]SegmentPreview, len(segments)),
	}
	if len(segments) == 0 {
		return out, nil
	}

	// Queue size of 256 leaves headroom for long paths; workers idle out after a second.
	b.poolOnce.Do(func() {
		b.pool = worker.NewDynamicWorkerPool(b.workers, 256, 1*time.Second)
	})

	native := p.Native()
	anchor := p.Anchor()

	// The pool's own Wait blocks until workers idle-exit, so a WaitGroup is the per-bake barrier.
	var wg sync.WaitGroup
	for i, seg := range segments {
		wg.Add(1)
		b.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				sp := b.bakeSegment(seg)
				if native {
					for j := range sp.Points {
						sp.Points[j] = anchor.ToWorld(sp.Points[j])
					}
				}
				out.Segments[i] = sp
				return nil, nil
			},
		})
	}
	wg.Wait()

	lengths := make([]float64, len(out.Segments))
	for i, s := range out.Segments {
		lengths[i] = s.Length
	}
	out.Length = floats.Sum(lengths)
	return out, nil
}

// bakeSegment evaluates one segment in local coordinates.
func (b *bakerImpl) bakeSegment(seg path.Segment) SegmentPreview {
	sp := SegmentPreview{
		From:   seg.From.Time,
		To:     seg.To.Time,
		Shape:  seg.Shape,
		Points: make([]mgl32.Vec3, b.steps+1),
	}
	for i := 0; i <= b.steps; i++ {
		t := float32(i) / float32(b.steps)
		sp.Points[i] = curve.Evaluate(seg.Shape, t, seg.Controls)
	}
	if seg.Shape.HasArcLength() {
		sp.Length = curve.BuildSegmentLUT(seg.Shape, seg.Controls, b.arcSamples).Total()
	}
	return sp
}
