package navigator

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// PointKind tags a CollisionPoint
type PointKind int

const (
	KindHead PointKind = iota
	KindBodyPart
	KindWall
)

func (k PointKind) String() string {
	switch k {
	case KindHead:
		return "head"
	case KindBodyPart:
		return "part"
	case KindWall:
		return "wall"
	}
	return "unknown"
}

// farCollisionWidths bounds the radar to this many own body widths
const farCollisionWidths = 50

// CollisionPoint is a threat circle. Source is the competitor index, -1 for walls.
// Speed is only meaningful for KindHead.
type CollisionPoint struct {
	Circle
	Distance2 float64
	Source    int
	Kind      PointKind
	Speed     float64
}

// CollisionAngle is the nearest threat in one radar sector.
// Distance2 is measured to the threat's edge, not its center.
type CollisionAngle struct {
	Position  r2.Point
	Angle     float64
	Source    int
	Distance2 float64
	Radius    float64
	Bin       int
}

// FoodAngle is the food cluster folded into one radar sector
type FoodAngle struct {
	Position   r2.Point
	Angle      float64
	AngleDelta float64
	Distance2  float64
	Size       float64
	Score      float64
}

// binIndex maps an angle to a sector in [0, bins)
func binIndex(angle, arcSize float64, bins int) int {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	i := int(math.Round(a / arcSize))
	if i >= bins {
		i -= bins
	}
	if i >= bins || i < 0 {
		return 0
	}
	return i
}

func (f *frame) binOf(p r2.Point) (int, float64) {
	ang := fastAtan2(p.Y-f.pos.Y, p.X-f.pos.X)
	return binIndex(ang, f.opts.ArcSize, f.bins), ang
}

// closerAngle orders candidates for a sector; ties break on source then position
// so the retained entry does not depend on insertion order
func closerAngle(a, b *CollisionAngle) bool {
	if a.Distance2 != b.Distance2 {
		return a.Distance2 < b.Distance2
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	if a.Position.X != b.Position.X {
		return a.Position.X < b.Position.X
	}
	if a.Position.Y != b.Position.Y {
		return a.Position.Y < b.Position.Y
	}
	return a.Radius < b.Radius
}

// addCollisionAngle keeps cp in its sector if it is nearer than the current occupant
func (f *frame) addCollisionAngle(cp CollisionPoint) {
	bin, ang := f.binOf(cp.Center)
	edge := math.Max(0, math.Sqrt(cp.Distance2)-cp.R)
	cand := &CollisionAngle{
		Position:  cp.Center,
		Angle:     ang,
		Source:    cp.Source,
		Distance2: edge * edge,
		Radius:    cp.R,
		Bin:       bin,
	}
	if cur := f.collisionAngles[bin]; cur == nil || closerAngle(cand, cur) {
		f.collisionAngles[bin] = cand
	}
}

// scanCollisions rebuilds the collision points and sector bins for this tick
func (f *frame) scanCollisions() {
	f.collisionPoints = f.collisionPoints[:0]
	f.collisionAngles = make([]*CollisionAngle, f.bins)

	comps := f.snap.Competitors
	farD2 := math.Pow(f.width*farCollisionWidths, 2)

	for i := range comps {
		if f.skipCompetitor(i) {
			continue
		}
		c := &comps[i]
		r := BodyWidth(c.Scale) / 2
		spMult := math.Min(1, c.Speed/f.opts.SpeedBase-1)
		head := c.Position.Add(direction(c.Heading).Mul(r * spMult * f.opts.RadiusMult / 2))
		cp := CollisionPoint{
			Circle:    Circle{Center: head, R: f.headCircle.R},
			Distance2: distance2(f.pos, head),
			Source:    i,
			Kind:      KindHead,
			Speed:     c.Speed,
		}
		f.addCollisionAngle(cp)
		f.collisionPoints = append(f.collisionPoints, cp)
		f.viz.DrawCircle(cp.Circle, ColorDanger, false, 1)
	}

	index := newBodyIndex(comps, func(i int) bool { return !f.skipCompetitor(i) })
	index.within(f.pos, f.width*farCollisionWidths, func(i int, p r2.Point) {
		d2 := distance2(f.pos, p)
		if d2 > farD2 {
			return
		}
		r := BodyWidth(comps[i].Scale) / 2
		cp := CollisionPoint{
			Circle:    Circle{Center: p, R: r},
			Distance2: d2,
			Source:    i,
			Kind:      KindBodyPart,
		}
		f.addCollisionAngle(cp)
		if reach := f.headCircle.R + r; d2 <= reach*reach {
			f.collisionPoints = append(f.collisionPoints, cp)
		}
	})

	if f.nearWall {
		for _, p := range f.wallPoints(3) {
			cp := CollisionPoint{
				Circle:    Circle{Center: p, R: f.opts.BorderPointRadius},
				Distance2: distance2(f.pos, p),
				Source:    -1,
				Kind:      KindWall,
			}
			f.collisionPoints = append(f.collisionPoints, cp)
			f.addCollisionAngle(cp)
			f.viz.DrawCircle(cp.Circle, ColorWall, false, 1)
		}
	}

	sort.SliceStable(f.collisionPoints, func(i, j int) bool {
		a, b := &f.collisionPoints[i], &f.collisionPoints[j]
		if a.Distance2 != b.Distance2 {
			return a.Distance2 < b.Distance2
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Center.X != b.Center.X {
			return a.Center.X < b.Center.X
		}
		return a.Center.Y < b.Center.Y
	})
}
