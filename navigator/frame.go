package navigator

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

var (
	// ErrNoSelf means the snapshot carries no controlled agent; skip the tick
	ErrNoSelf = errors.New("navigator: snapshot has no self state")
	// ErrDegenerateSelf means the agent has no usable position or width; skip the tick
	ErrDegenerateSelf = errors.New("navigator: self state is degenerate")
)

// headingReach is how far ahead a heading goal is placed
const headingReach = 500.0

// frame is the scratch state of one tick. Nothing in it outlives the tick.
type frame struct {
	opts *Options
	snap *WorldSnapshot
	self *SelfState
	viz  Visualizer

	pos       r2.Point
	heading   float64
	cos, sin  float64
	speedMult float64
	width     float64
	radius    float64
	length    float64
	bins      int

	headCircle Circle
	sideLeft   Circle
	sideRight  Circle

	nearWall  bool
	viewAngle float64

	collisionPoints []CollisionPoint
	collisionAngles []*CollisionAngle
	foodAngles      []*FoodAngle
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func newFrame(snap *WorldSnapshot, opts *Options, viz Visualizer) (*frame, error) {
	if snap == nil || snap.Self == nil {
		return nil, ErrNoSelf
	}
	s := snap.Self
	width := BodyWidth(s.Scale)
	if !finite(s.Position.X) || !finite(s.Position.Y) || !finite(s.Heading) || !(width > 0) {
		return nil, errors.Wrapf(ErrDegenerateSelf, "pos %v heading %v width %v", s.Position, s.Heading, width)
	}
	if viz == nil {
		viz = NopVisualizer{}
	}

	f := &frame{
		opts:      opts,
		snap:      snap,
		self:      s,
		viz:       viz,
		pos:       s.Position,
		heading:   s.Heading,
		cos:       math.Cos(s.Heading),
		sin:       math.Sin(s.Heading),
		speedMult: s.Speed / opts.SpeedBase,
		width:     width,
		radius:    width / 2,
		length:    s.Length,
		bins:      opts.Bins(),
	}

	spFactor := math.Min(1, f.speedMult-1) * opts.RadiusMult
	f.headCircle = Circle{
		Center: f.pos.Add(r2.Point{X: f.cos, Y: f.sin}.Mul(spFactor / 2 * f.radius)),
		R:      opts.RadiusMult / 2 * f.radius,
	}
	side := math.Max(0, f.width*f.speedMult)
	f.sideRight = Circle{Center: f.pos.Add(r2.Point{X: -f.sin, Y: f.cos}.Mul(f.width)), R: side}
	f.sideLeft = Circle{Center: f.pos.Add(r2.Point{X: f.sin, Y: -f.cos}.Mul(f.width)), R: side}

	a := snap.Arena
	if a.Radius > 0 {
		d := f.pos.Sub(a.Center)
		f.viewAngle = math.Atan2(d.Y, d.X)
		f.nearWall = math.Abs(a.Radius-d.Norm()) < opts.WallViewDistance
	}

	viz.DrawCircle(f.headCircle, ColorDanger, false, 1)
	return f, nil
}

// skipCompetitor filters out the agent itself if the host lists it as a competitor
func (f *frame) skipCompetitor(i int) bool {
	return f.self.ID != "" && f.snap.Competitors[i].ID == f.self.ID
}

// headingAbs is a goal point headingReach units away toward angle
func (f *frame) headingAbs(angle float64) r2.Point {
	return f.pos.Add(direction(angle).Mul(headingReach))
}

// headingRel turns the current heading clockwise by angle
func (f *frame) headingRel(angle float64) r2.Point {
	return f.pos.Add(rotate(r2.Point{X: f.cos, Y: f.sin}, -angle).Mul(headingReach))
}

// wallPoints samples 2n+1 synthetic points just outside the boundary,
// centered on the agent's bearing from the arena center
func (f *frame) wallPoints(n int) []r2.Point {
	a := f.snap.Arena
	r := f.opts.BorderPointRadius
	step := 2 * r / a.Radius
	pts := make([]r2.Point, 0, 2*n+1)
	for i := -n; i <= n; i++ {
		pts = append(pts, a.Center.Add(direction(f.viewAngle+float64(i)*step).Mul(a.Radius+r)))
	}
	return pts
}
