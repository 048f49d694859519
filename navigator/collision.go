package navigator

import (
	"math"

	"github.com/golang/geo/r2"
)

// avoidReach is the length of the heading line used to pick a dodge side
const avoidReach = 2000.0

// response is a steering reaction: a goal point and an acceleration flag
type response struct {
	goal  r2.Point
	accel bool
}

// inFrontAngle reports whether p is inside the frontal cone.
// A point on top of the agent counts as in front.
func (f *frame) inFrontAngle(p r2.Point) bool {
	if distance2(p, f.pos) < 1e-9 {
		return true
	}
	ang := fastAtan2(p.Y-f.pos.Y, p.X-f.pos.X)
	return math.Abs(angleBetween(ang, f.heading)) < f.opts.FrontAngle
}

// avoidCollisionPoint steers away from ip by ang radians (capped at π),
// turning to whichever side of the heading line ip is not on
func (f *frame) avoidCollisionPoint(ip intersection, ang float64) r2.Point {
	if ang > math.Pi || math.IsNaN(ang) {
		ang = math.Pi
	}
	if ang < 0 {
		ang = 0
	}
	end := f.pos.Add(r2.Point{X: f.cos, Y: f.sin}.Mul(avoidReach))
	f.viz.DrawLine(f.pos, end, ColorAhead)
	f.viz.DrawLine(f.pos, ip.Point, ColorDanger)
	if isLeftOfLine(f.pos, end, ip.Point) {
		return f.headingAbs(ip.Angle - ang)
	}
	return f.headingAbs(ip.Angle + ang)
}

// checkCollision walks collision points nearest-first and dodges the first one
// whose overlap with the head circle lies in the frontal cone
func (f *frame) checkCollision() (response, bool) {
	for _, cp := range f.collisionPoints {
		ip, ok := circleIntersect(f.headCircle, cp.Circle, f.pos)
		if !ok || !f.inFrontAngle(ip.Point) {
			continue
		}
		accel := f.opts.DefaultAccel
		switch cp.Kind {
		case KindHead:
			if cp.Speed > f.opts.FastSpeed {
				accel = true
			}
		case KindBodyPart, KindWall:
		}
		return response{goal: f.avoidCollisionPoint(ip, math.Pi), accel: accel}, true
	}
	return response{}, false
}
