package navigator

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// Circle is a center point with a radius
type Circle struct {
	Center r2.Point
	R      float64
}

// PolyBox is a polygon with its bounding box precomputed for fast rejection
type PolyBox struct {
	Points []r2.Point
	Bounds r2.Rect
}

// intersection is the weighted contact point of two circles and its angle seen from the agent
type intersection struct {
	r2.Point
	Angle float64
}

func distance2(a, b r2.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// fastAtan2 approximates math.Atan2 to within 0.0102 rad.
// Good enough for sector binning, not for geometry.
func fastAtan2(y, x float64) float64 {
	const (
		qpi  = math.Pi / 4
		tqpi = 3 * math.Pi / 4
	)
	absY := math.Abs(y) + 1e-10
	var r, angle float64
	if x < 0 {
		r = (x + absY) / (absY - x)
		angle = tqpi
	} else {
		r = (x - absY) / (x + absY)
		angle = qpi
	}
	angle += (0.1963*r*r - 0.9817) * r
	if y < 0 {
		return -angle
	}
	return angle
}

// isLeftOfLine reports whether p lies to the left of the directed line start→end
func isLeftOfLine(start, end, p r2.Point) bool {
	return end.Sub(start).Cross(p.Sub(start)) > 0
}

// normalizeAngle wraps an angle into (-π, π]
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// angleBetween returns the smallest signed difference a1-a2, in (-π, π]
func angleBetween(a1, a2 float64) float64 {
	return normalizeAngle(a1 - a2)
}

// direction returns the unit vector for angle a
func direction(a float64) r2.Point {
	return r2.Point{X: math.Cos(a), Y: math.Sin(a)}
}

// rotate turns v counter-clockwise by a radians
func rotate(v r2.Point, a float64) r2.Point {
	c, s := math.Cos(a), math.Sin(a)
	return r2.Point{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}

func lerp(a, b r2.Point, t float64) r2.Point {
	return a.Add(b.Sub(a).Mul(t))
}

// circleIntersect checks two circles for overlap. The square test runs first;
// the contact point is weighted by the opposite radii.
func circleIntersect(a, b Circle, origin r2.Point) (intersection, bool) {
	both := a.R + b.R
	if !(a.Center.X+both > b.Center.X &&
		a.Center.Y+both > b.Center.Y &&
		a.Center.X < b.Center.X+both &&
		a.Center.Y < b.Center.Y+both) {
		return intersection{}, false
	}
	if distance2(a.Center, b.Center) >= both*both {
		return intersection{}, false
	}
	p := r2.Point{
		X: (a.Center.X*b.R + b.Center.X*a.R) / both,
		Y: (a.Center.Y*b.R + b.Center.Y*a.R) / both,
	}
	return intersection{Point: p, Angle: fastAtan2(p.Y-origin.Y, p.X-origin.X)}, true
}

// boundingBoxOf returns the tight bounds of pts; empty input gives an empty rect
func boundingBoxOf(pts []r2.Point) r2.Rect {
	rect := r2.EmptyRect()
	for _, p := range pts {
		rect = rect.AddPoint(p)
	}
	return rect
}

func newPolyBox(pts []r2.Point) PolyBox {
	return PolyBox{Points: pts, Bounds: boundingBoxOf(pts)}
}

// onSegment reports whether p lies on segment a-b (within eps)
func onSegment(p, a, b r2.Point) bool {
	const eps = 1e-9
	ab := b.Sub(a)
	ap := p.Sub(a)
	scale := math.Max(1, ab.Norm())
	if math.Abs(ab.Cross(ap)) > eps*scale*scale {
		return false
	}
	d := ab.Dot(ap)
	return d >= -eps && d <= ab.Dot(ab)+eps
}

// pointInPolygon is an even-odd ray cast behind a bounding box rejection.
// Points on an edge count as inside.
func pointInPolygon(p r2.Point, poly PolyBox) bool {
	if !poly.Bounds.ContainsPoint(p) {
		return false
	}
	pts := poly.Points
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func cross(o, a, b r2.Point) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

// convexHull uses Andrew's monotone chain. Collinear points are dropped and
// the input slice is left untouched. Output is counter-clockwise.
func convexHull(points []r2.Point) []r2.Point {
	pts := make([]r2.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X == pts[j].X {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})

	uniq := pts[:0]
	for _, p := range pts {
		if len(uniq) > 0 && p == uniq[len(uniq)-1] {
			continue
		}
		uniq = append(uniq, p)
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	lower := make([]r2.Point, 0, len(pts))
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]r2.Point, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
