package navigator

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// OpenAngle is a run of empty radar sectors. Start may exceed End when the
// run wraps through sector 0.
type OpenAngle struct {
	Start int
	End   int
	Size  int
}

// Encirclement classifies radar occupancy
type Encirclement int

const (
	EncircleNone Encirclement = iota
	EncircleSingle
	EncircleCrowd
)

// occupancy tallies sector owners. The competitor holding the most sectors is
// high/highSource; crowded counts sectors with a threat inside the crowd radius.
type occupancy struct {
	high       int
	highSource int
	crowded    int
}

func (f *frame) tallyOccupancy() occupancy {
	counts := make(map[int]int)
	occ := occupancy{highSource: -1}
	crowd := math.Pow(f.radius*f.opts.EnCircleDistanceMult, 2)
	for _, ca := range f.collisionAngles {
		if ca == nil {
			continue
		}
		counts[ca.Source]++
		if n := counts[ca.Source]; n > occ.high {
			occ.high = n
			occ.highSource = ca.Source
		}
		if ca.Distance2 < crowd {
			occ.crowded++
		}
	}
	return occ
}

// classify decides whether the tally means one hunter, a crowd, or nothing
func (f *frame) classify(occ occupancy) Encirclement {
	total := float64(f.bins)
	if float64(occ.high) > total*f.opts.EnCircleThreshold {
		return EncircleSingle
	}
	if float64(occ.crowded) > total*f.opts.EnCircleAllThreshold {
		return EncircleCrowd
	}
	return EncircleNone
}

// checkEncircle steers toward the widest gap when boxed in
func (f *frame) checkEncircle() (response, bool) {
	occ := f.tallyOccupancy()
	switch f.classify(occ) {
	case EncircleSingle:
		accel := f.opts.DefaultAccel
		if occ.high != f.bins && occ.highSource >= 0 &&
			f.snap.Competitors[occ.highSource].Speed > f.opts.FastSpeed {
			accel = true
		}
		f.viz.DrawCircle(Circle{Center: f.pos, R: f.opts.RadiusMult * f.radius}, ColorDanger, true, 0.2)
		return response{goal: f.headingBestAngle(), accel: accel}, true
	case EncircleCrowd:
		f.viz.DrawCircle(Circle{Center: f.pos, R: f.opts.RadiusMult * f.opts.EnCircleDistanceMult}, ColorWall, true, 0.2)
		return response{goal: f.headingBestAngle(), accel: f.opts.DefaultAccel}, true
	}
	f.viz.DrawCircle(Circle{Center: f.pos, R: f.opts.RadiusMult * f.opts.EnCircleDistanceMult}, ColorWall, false, 1)
	return response{}, false
}

// openAngles lists runs of empty sectors, largest first, and the occupied
// sector whose threat is farthest away (-1 when every sector is empty)
func openAngles(angles []*CollisionAngle) ([]OpenAngle, int) {
	n := len(angles)
	var runs []OpenAngle
	start := -1
	farthest := -1
	for i, ca := range angles {
		if ca == nil {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, OpenAngle{Start: start, End: i - 1, Size: i - start})
			start = -1
		}
		if farthest < 0 || ca.Distance2 > angles[farthest].Distance2 {
			farthest = i
		}
	}
	if start >= 0 {
		if len(runs) > 0 && runs[0].Start == 0 {
			runs[0].Start = start
			runs[0].Size += n - start
		} else {
			runs = append(runs, OpenAngle{Start: start, End: n - 1, Size: n - start})
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Size > runs[j].Size })
	return runs, farthest
}

// headingBestAngle aims at the middle of the widest open run, or at the
// farthest threat when there is no open sector
func (f *frame) headingBestAngle() r2.Point {
	runs, farthest := openAngles(f.collisionAngles)
	if len(runs) > 0 {
		mid := float64(runs[0].Start) + float64(runs[0].Size-1)/2
		return f.headingAbs(mid * f.opts.ArcSize)
	}
	if farthest >= 0 {
		return f.headingAbs(float64(farthest) * f.opts.ArcSize)
	}
	return f.headingAbs(f.heading)
}
