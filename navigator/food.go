package navigator

import (
	"math"
	"sort"
)

// foodRadius is the nominal radius used to test food against the flank circles
const foodRadius = 2.0

// addFoodAngle folds one food item into its sector, unless a threat in that
// sector sits closer than the food plus half the danger radius
func (f *frame) addFoodAngle(fp FoodParticle, d2 float64) {
	bin, ang := f.binOf(fp.Position)
	if ca := f.collisionAngles[bin]; ca != nil &&
		math.Sqrt(ca.Distance2) <= math.Sqrt(d2)+f.radius*f.opts.RadiusMult*f.speedMult/2 {
		return
	}
	d2 = math.Max(d2, 1)
	score := fp.Size * fp.Size / d2
	fa := f.foodAngles[bin]
	if fa == nil {
		f.foodAngles[bin] = &FoodAngle{
			Position:   fp.Position,
			Angle:      ang,
			AngleDelta: math.Abs(angleBetween(ang, f.heading)),
			Distance2:  d2,
			Size:       fp.Size,
			Score:      score,
		}
		return
	}
	fa.Size += fp.Size
	fa.Score += score
	if fa.Distance2 > d2 {
		fa.Position = fp.Position
		fa.Distance2 = d2
	}
}

// computeFoodGoal scores every sector and returns the best cluster, or nil
// when there is nothing worth chasing. Expects scanCollisions to have run.
func (f *frame) computeFoodGoal() *FoodAngle {
	f.foodAngles = make([]*FoodAngle, f.bins)
	if f.collisionAngles == nil {
		f.collisionAngles = make([]*CollisionAngle, f.bins)
	}
	for _, fp := range f.snap.Food {
		if fp.Eaten {
			continue
		}
		c := Circle{Center: fp.Position, R: foodRadius}
		if _, in := circleIntersect(c, f.sideLeft, f.pos); in {
			continue
		}
		if _, in := circleIntersect(c, f.sideRight, f.pos); in {
			continue
		}
		f.addFoodAngle(fp, distance2(f.pos, fp.Position))
	}

	ranked := make([]*FoodAngle, len(f.foodAngles))
	copy(ranked, f.foodAngles)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Score > b.Score
	})
	if best := ranked[0]; best != nil && best.Size > 0 {
		return best
	}
	return nil
}
