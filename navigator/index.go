package navigator

import (
	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r2"
)

const (
	indexMinChildren = 25
	indexMaxChildren = 50
	pointTolerance   = 0.01
)

// bodyEntry is one live competitor body point in the broad-phase tree
type bodyEntry struct {
	pos    r2.Point
	source int // index into WorldSnapshot.Competitors
	rect   rtreego.Rect
}

func (e *bodyEntry) Bounds() rtreego.Rect {
	return e.rect
}

// bodyIndex is an R-tree over competitor body points, rebuilt every tick
type bodyIndex struct {
	tree *rtreego.Rtree
	size int
}

// newBodyIndex indexes every live body point of the competitors accepted by keep
func newBodyIndex(competitors []Competitor, keep func(i int) bool) *bodyIndex {
	var objs []rtreego.Spatial
	for i := range competitors {
		if !keep(i) {
			continue
		}
		for _, p := range competitors[i].Body {
			if p.Dying {
				continue
			}
			objs = append(objs, &bodyEntry{
				pos:    p.Point,
				source: i,
				rect:   rtreego.Point{p.X, p.Y}.ToRect(pointTolerance),
			})
		}
	}
	ix := &bodyIndex{size: len(objs)}
	if len(objs) > 0 {
		ix.tree = rtreego.NewTree(2, indexMinChildren, indexMaxChildren, objs...)
	}
	return ix
}

// within calls fn for every indexed point inside the square of half-side
// radius around center. Callers still apply their exact distance test.
func (ix *bodyIndex) within(center r2.Point, radius float64, fn func(source int, p r2.Point)) {
	if ix.tree == nil || !(radius > 0) {
		return
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{center.X - radius, center.Y - radius},
		[]float64{2 * radius, 2 * radius},
	)
	if err != nil {
		return
	}
	for _, s := range ix.tree.SearchIntersect(rect) {
		e := s.(*bodyEntry)
		fn(e.source, e.pos)
	}
}
