package navigator

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	coilMinLengthWidths = 9       // shorter bodies are not coiled
	coilTargetSteps     = 1 << 16 // cap on the corner-cutting integration
	coilShrinkSteps     = 64      // cap on offset shrinking per obstacle point
	coilShrinkFraction  = 0.0625  // offset decrement, in body widths
	coilReachWidths     = 4       // goal distance ahead, in body widths
)

// BodyPoint is a body chain point with its arc length from the head
type BodyPoint struct {
	r2.Point
	Len float64
}

// bodyCurve is the own body as a polyline indexed by arc length.
// pts[0] is the head at length 0; Len never decreases.
type bodyCurve struct {
	pts    []BodyPoint
	length float64
}

func newBodyCurve(head r2.Point, chain []ChainPoint) bodyCurve {
	pts := make([]BodyPoint, 1, len(chain)+1)
	pts[0] = BodyPoint{Point: head}
	prev, l := head, 0.0
	for _, cp := range chain {
		if cp.Dying {
			continue
		}
		l += cp.Point.Sub(prev).Norm()
		pts = append(pts, BodyPoint{Point: cp.Point, Len: l})
		prev = cp.Point
	}
	return bodyCurve{pts: pts, length: l}
}

func (b bodyCurve) centroid() r2.Point {
	var c r2.Point
	for _, p := range b.pts {
		c = c.Add(p.Point)
	}
	return c.Mul(1 / float64(len(b.pts)))
}

// rotationSign is -1 when the head moves clockwise around the body's
// centroid, +1 otherwise
func (b bodyCurve) rotationSign(head, heading r2.Point) float64 {
	if head.Sub(b.centroid()).Cross(heading) > 0 {
		return -1
	}
	return 1
}

// smoothPoint interpolates the body position at arc length t, clamped to the ends
func (b bodyCurve) smoothPoint(t float64) r2.Point {
	pts := b.pts
	if t >= b.length {
		return pts[len(pts)-1].Point
	}
	if t <= 0 || math.IsNaN(t) {
		return pts[0].Point
	}
	p, q := 0, len(pts)-1
	for q-p > 1 {
		m := (p + q + 1) / 2
		if t > pts[m].Len {
			p = m
		} else {
			q = m
		}
	}
	wp := pts[q].Len - t
	wq := t - pts[p].Len
	w := wp + wq
	return pts[p].Point.Mul(wp / w).Add(pts[q].Point.Mul(wq / w))
}

// closestPoint returns the arc length of the body point nearest to head,
// ignoring the stretch right behind the head where distance only grows
func (b bodyCurve) closestPoint(head r2.Point) float64 {
	pts := b.pts
	n := len(pts)
	if n < 3 {
		return b.length
	}

	start, startD2 := 0, 0.0
	for {
		prev := startD2
		start++
		startD2 = distance2(head, pts[start].Point)
		if startD2 < prev || start == n-1 {
			break
		}
	}
	if start <= 1 {
		return b.length
	}

	minN, minD2 := start, startD2
	for i := start + 1; i < n; i++ {
		if d2 := distance2(head, pts[i].Point); d2 < minD2 {
			minN, minD2 = i, d2
		}
	}

	nextN := minN - 1
	nextD2 := distance2(head, pts[nextN].Point)
	if minN < n-1 {
		if d2 := distance2(head, pts[minN+1].Point); d2 <= nextD2 {
			nextN, nextD2 = minN+1, d2
		}
	}

	lm, ln := pts[minN].Len, pts[nextN].Len
	t2 := (lm - ln) * (lm - ln)
	if t2 == 0 {
		return lm
	}
	// Foot of the perpendicular on the segment, from the two squared distances.
	t := (lm*(t2-(minD2-nextD2)) + ln*(t2+(minD2-nextD2))) / (2 * t2)
	return math.Max(math.Min(lm, ln), math.Min(math.Max(lm, ln), t))
}

// coilGeometry is the planned path near the head during a coil
type coilGeometry struct {
	o           float64
	closePoint  r2.Point
	normal      r2.Point
	closeDist   float64
	targetPoint r2.Point
	pastTarget  r2.Point
}

// bodyDangerZone is the convex corridor the head sweeps when it cuts toward
// the target point, widened outward by offset
func (f *frame) bodyDangerZone(offset float64, g *coilGeometry) PolyBox {
	w := f.width
	fwd := r2.Point{X: f.cos, Y: f.sin}
	out := r2.Point{X: -g.o * f.sin, Y: g.o * f.cos}
	side := fwd.Add(out)
	pts := []r2.Point{
		f.pos.Add(out.Mul(offset)),
		f.pos.Add(fwd.Mul(w)).Add(side.Mul(offset)),
		f.pos.Add(fwd.Mul(1.75 * w)).Sub(out.Mul(0.3 * w)).Add(side.Mul(offset)),
		f.pos.Add(fwd.Mul(2.5 * w)).Sub(out.Mul(0.7 * w)).Add(side.Mul(offset)),
		f.pos.Add(fwd.Mul(3 * w)).Sub(out.Mul(1.2 * w)).Add(fwd.Mul(offset)),
		g.targetPoint.Add(g.normal.Mul(offset + 0.5*math.Max(g.closeDist, 0))),
		g.pastTarget.Add(g.normal.Mul(offset)),
		g.pastTarget,
		g.targetPoint,
		g.closePoint,
	}
	return newPolyBox(convexHull(pts))
}

// shrinkOffset lowers delta in fixed steps until no point lies in the danger
// zone built at base+delta, or delta drops below one body width
func (f *frame) shrinkOffset(delta, base float64, points []r2.Point, g *coilGeometry) float64 {
	if len(points) == 0 {
		return delta
	}
	step := coilShrinkFraction * f.width
	zone := f.bodyDangerZone(base+delta, g)
	for _, p := range points {
		for i := 0; i < coilShrinkSteps && delta >= -f.width && pointInPolygon(p, zone); i++ {
			delta -= step
			zone = f.bodyDangerZone(base+delta, g)
		}
	}
	return delta
}

// insidePolygon outlines the body stretch inside the coil so that heads
// trapped there are not treated as threats to the path
func (f *frame) insidePolygon(b bodyCurve, closeT float64) PolyBox {
	start := 5 * f.width
	end := closeT + 5*f.width
	pts := []r2.Point{b.smoothPoint(end), b.smoothPoint(start)}
	for t := start; t < end; t += f.width {
		pts = append(pts, b.smoothPoint(t))
	}
	return newPolyBox(pts)
}

func livePoints(chain []ChainPoint) []r2.Point {
	pts := make([]r2.Point, 0, len(chain))
	for _, p := range chain {
		if !p.Dying {
			pts = append(pts, p.Point)
		}
	}
	return pts
}

// coilGoal plans one tick of following the own body in rotation direction o.
// ok is false when the body is too short to coil.
func (f *frame) coilGoal(b bodyCurve, o float64) (goal r2.Point, ok bool) {
	w := f.width
	if b.length < coilMinLengthWidths*w || len(b.pts) < 3 {
		return r2.Point{}, false
	}

	closeT := b.closestPoint(f.pos)
	closePoint := b.smoothPoint(closeT)
	tangent := b.smoothPoint(closeT - w).Sub(closePoint).Normalize()
	normal := r2.Point{X: -o * tangent.Y, Y: o * tangent.X}
	course := math.Asin(math.Max(-1, math.Min(1, f.cos*normal.X+f.sin*normal.Y)))
	closeDist := f.pos.Sub(closePoint).Dot(normal)
	inside := f.insidePolygon(b, closeT)

	// Walk back along the body while bending inward to estimate where a hurried
	// cut would land.
	targetT, far := closeT, 0.0
	step := w / 64
	h, a := closeDist, course
	for i := 0; h >= 0.125*w && i < coilTargetSteps; i++ {
		targetT -= step
		far += step * math.Cos(a)
		h += step * math.Sin(a)
		a = math.Max(-math.Pi/4, a-step/w)
	}

	g := &coilGeometry{
		o:           o,
		closePoint:  closePoint,
		normal:      normal,
		closeDist:   closeDist,
		targetPoint: b.smoothPoint(targetT),
		pastTarget:  b.smoothPoint(targetT - 3*w),
	}

	enemyDelta := 0.25 * w
	headDist2 := math.Pow(64*w, 2)
	comps := f.snap.Competitors
	for i := range comps {
		if f.skipCompetitor(i) {
			continue
		}
		c := &comps[i]
		if !pointInPolygon(c.Position, inside) {
			ahead := c.Position.Add(direction(c.Heading).Mul(w))
			headDist2 = math.Min(headDist2, math.Min(
				distance2(c.Position, g.targetPoint),
				distance2(ahead, g.targetPoint),
			))
		}
		enemyDelta = f.shrinkOffset(enemyDelta, 0.5*(w+BodyWidth(c.Scale)), livePoints(c.Body), g)
	}

	wallDelta := 0.0
	if f.nearWall {
		wallDelta = f.shrinkOffset(wallDelta, 0.5*(w+f.opts.BorderPointRadius), f.wallPoints(2), g)
	}
	headDist := math.Sqrt(headDist2)

	f.viz.DrawPolygon(inside.Points, ColorAhead)
	f.viz.DrawCircle(Circle{Center: closePoint, R: 0.25 * w}, ColorBody, false, 1)
	f.viz.DrawCircle(Circle{Center: g.targetPoint, R: w + 2*far}, ColorCoil, false, 1)
	f.viz.DrawCircle(Circle{Center: g.targetPoint, R: 0.2 * w}, ColorCoil, false, 1)
	f.viz.DrawPolygon(f.bodyDangerZone(0.5*w, g).Points, ColorOutline)

	// Drift outward by default, then let each hazard pull the course in.
	tc := course + 0.25

	headProx := -1 - (2*far-headDist)/w
	if headProx > 0 {
		headProx = 0.125 * headProx * headProx
	} else {
		headProx = -0.5 * headProx * headProx
	}
	tc = math.Min(tc, headProx)

	tc = math.Min(tc, tc+(enemyDelta-coilShrinkFraction*w)/w)
	if f.nearWall {
		tc = math.Min(tc, tc+(wallDelta-coilShrinkFraction*w)/w)
	}

	tailBehind := b.length - closeT
	allowTail := 2 * w
	tc = math.Min(tc, (tailBehind-allowTail+(w-closeDist))/w)

	tc = math.Min(tc, -0.5*(closeDist-4*w)/w)
	tc = math.Max(tc, -0.75*closeDist/w)
	tc = math.Min(tc, 1)

	dir := r2.Point{
		X: tangent.X*math.Cos(tc) - o*tangent.Y*math.Sin(tc),
		Y: tangent.Y*math.Cos(tc) + o*tangent.X*math.Sin(tc),
	}
	return f.pos.Add(dir.Mul(coilReachWidths * w)), true
}
