package navigator

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/require"
)

// openArena is large enough that a snake near the origin never sees the wall
var openArena = Arena{Radius: 50000}

func selfAt(x, y, heading float64) *SelfState {
	return &SelfState{
		ID:       "self",
		Position: r2.Point{X: x, Y: y},
		Heading:  heading,
		Speed:    DefaultSpeedBase,
		Scale:    1,
		Length:   100,
	}
}

// ringBody places body points on a circle around center, one per sector index
func ringBody(center r2.Point, radius float64, sectors []int, arc float64) []ChainPoint {
	body := make([]ChainPoint, 0, len(sectors))
	for _, k := range sectors {
		body = append(body, ChainPoint{Point: center.Add(direction(float64(k) * arc).Mul(radius))})
	}
	return body
}

// coiledBody is an inward spiral trailing a head at (radius, 0) that moves
// counter-clockwise, the shape of a snake already circling on itself
func coiledBody(radius, step, shrink float64, n int) (r2.Point, []ChainPoint) {
	body := make([]ChainPoint, 0, n)
	for k := 1; k <= n; k++ {
		a := -float64(k) * step
		r := radius - float64(k)*shrink
		body = append(body, ChainPoint{Point: r2.Point{X: r * math.Cos(a), Y: r * math.Sin(a)}})
	}
	return r2.Point{X: radius}, body
}

func testFrame(t *testing.T, snap *WorldSnapshot, opts Options) *frame {
	t.Helper()
	f, err := newFrame(snap, &opts, nil)
	require.NoError(t, err)
	return f
}

// recorder counts the geometry a Visualizer receives
type recorder struct {
	lines, circles, polygons int
}

func (r *recorder) DrawLine(r2.Point, r2.Point, string)      { r.lines++ }
func (r *recorder) DrawCircle(Circle, string, bool, float64) { r.circles++ }
func (r *recorder) DrawPolygon([]r2.Point, string)           { r.polygons++ }
