package navigator

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyCurveSmoothPoint(t *testing.T) {
	b := newBodyCurve(r2.Point{}, []ChainPoint{
		{Point: r2.Point{X: -10}},
		{Point: r2.Point{X: -15}, Dying: true},
		{Point: r2.Point{X: -20}},
		{Point: r2.Point{X: -30}},
	})
	require.Len(t, b.pts, 4)
	assert.Equal(t, 30.0, b.length)
	for i := 1; i < len(b.pts); i++ {
		assert.GreaterOrEqual(t, b.pts[i].Len, b.pts[i-1].Len)
	}

	cases := []struct {
		t    float64
		want r2.Point
	}{
		{-5, r2.Point{}},
		{0, r2.Point{}},
		{5, r2.Point{X: -5}},
		{10, r2.Point{X: -10}},
		{15, r2.Point{X: -15}},
		{29, r2.Point{X: -29}},
		{100, r2.Point{X: -30}},
		{math.NaN(), r2.Point{}},
	}
	for _, c := range cases {
		got := b.smoothPoint(c.t)
		assert.InDelta(t, c.want.X, got.X, 1e-9, "t=%v", c.t)
		assert.InDelta(t, c.want.Y, got.Y, 1e-9, "t=%v", c.t)
	}
}

func TestBodyCurveHeadOnly(t *testing.T) {
	b := newBodyCurve(r2.Point{X: 4, Y: 2}, []ChainPoint{{Point: r2.Point{X: 9}, Dying: true}})
	assert.Equal(t, 0.0, b.length)
	assert.Equal(t, r2.Point{X: 4, Y: 2}, b.smoothPoint(3))
	assert.Equal(t, 0.0, b.closestPoint(r2.Point{}))
}

// nearestOnPolyline is the exact closest point to p over segments from index from onward
func nearestOnPolyline(pts []BodyPoint, from int, p r2.Point) r2.Point {
	best, bestD2 := pts[from].Point, math.Inf(1)
	for i := from; i+1 < len(pts); i++ {
		a, b := pts[i].Point, pts[i+1].Point
		ab := b.Sub(a)
		s := 0.0
		if l2 := ab.Dot(ab); l2 > 0 {
			s = math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
		}
		q := a.Add(ab.Mul(s))
		if d2 := distance2(p, q); d2 < bestD2 {
			best, bestD2 = q, d2
		}
	}
	return best
}

func TestClosestPointMatchesBruteForce(t *testing.T) {
	for _, step := range []float64{0.04, 0.05, 0.06} {
		for _, shrink := range []float64{0.2, 0.3, 0.4} {
			for _, lift := range []float64{-10, 0, 10} {
				n := int(2*math.Pi/step) + 30
				head, body := coiledBody(300, step, shrink, n)
				head = head.Add(r2.Point{X: lift})
				b := newBodyCurve(head, body)

				got := b.smoothPoint(b.closestPoint(head))
				want := nearestOnPolyline(b.pts, n/3, head)
				assert.InDelta(t, 0, got.Sub(want).Norm(), 0.5,
					"step=%v shrink=%v lift=%v got=%v want=%v", step, shrink, lift, got, want)
			}
		}
	}
}

func TestClosestPointStaysInBracket(t *testing.T) {
	head, body := coiledBody(300, 0.05, 0.3, 160)
	b := newBodyCurve(head, body)
	tt := b.closestPoint(head)
	assert.Greater(t, tt, 0.0)
	assert.LessOrEqual(t, tt, b.length)

	// The nearest point lies about one turn back, not next to the head.
	assert.Greater(t, tt, b.length/2)
}

func TestRotationSign(t *testing.T) {
	head, body := coiledBody(300, 0.05, 0.3, 150)
	b := newBodyCurve(head, body)
	assert.Equal(t, -1.0, b.rotationSign(head, direction(math.Pi/2)))
	assert.Equal(t, 1.0, b.rotationSign(head, direction(-math.Pi/2)))
}

func coilSnapshot() *WorldSnapshot {
	return coilSnapshotOf(0.3, 150)
}

// coilSnapshotOf coils n body points, each turn shrink*2pi/0.05 tighter than the last
func coilSnapshotOf(shrink float64, n int) *WorldSnapshot {
	head, body := coiledBody(300, 0.05, shrink, n)
	s := selfAt(head.X, head.Y, math.Pi/2)
	s.Body = body
	s.Length = 3000
	return &WorldSnapshot{Self: s, Arena: openArena}
}

// coilGoalAngle is the heading from the agent to its coil goal
func coilGoalAngle(t *testing.T, snap *WorldSnapshot) float64 {
	t.Helper()
	f := testFrame(t, snap, DefaultOptions())
	b := newBodyCurve(f.pos, snap.Self.Body)
	goal, ok := f.coilGoal(b, b.rotationSign(f.pos, r2.Point{X: f.cos, Y: f.sin}))
	require.True(t, ok)
	d := goal.Sub(f.pos)
	return math.Atan2(d.Y, d.X)
}

// The agent circles counter-clockwise, so a larger goal angle is a turn
// toward the coil and a smaller one drifts away from it.
const coilHeading = math.Pi / 2

func TestCoilGoal(t *testing.T) {
	snap := coilSnapshot()
	f := testFrame(t, snap, DefaultOptions())
	b := newBodyCurve(f.pos, snap.Self.Body)
	o := b.rotationSign(f.pos, r2.Point{X: f.cos, Y: f.sin})

	goal, ok := f.coilGoal(b, o)
	require.True(t, ok)
	assert.True(t, finite(goal.X) && finite(goal.Y))
	assert.InDelta(t, coilReachWidths*f.width, goal.Sub(f.pos).Norm(), 1e-6)
}

func TestCoilGoalTooShort(t *testing.T) {
	s := selfAt(0, 0, 0)
	s.Body = []ChainPoint{{Point: r2.Point{X: -20}}, {Point: r2.Point{X: -40}}, {Point: r2.Point{X: -60}}}
	f := testFrame(t, &WorldSnapshot{Self: s, Arena: openArena}, DefaultOptions())
	_, ok := f.coilGoal(newBodyCurve(f.pos, s.Body), 1)
	assert.False(t, ok)
}

func TestInsidePolygonHoldsCoilCenter(t *testing.T) {
	snap := coilSnapshot()
	f := testFrame(t, snap, DefaultOptions())
	b := newBodyCurve(f.pos, snap.Self.Body)
	inside := f.insidePolygon(b, b.closestPoint(f.pos))
	assert.True(t, pointInPolygon(r2.Point{}, inside))
	assert.False(t, pointInPolygon(r2.Point{X: 1000}, inside))
}

func TestShrinkOffsetTerminatesOnHead(t *testing.T) {
	snap := coilSnapshot()
	f := testFrame(t, snap, DefaultOptions())
	b := newBodyCurve(f.pos, snap.Self.Body)
	closeT := b.closestPoint(f.pos)
	g := &coilGeometry{
		o:           -1,
		closePoint:  b.smoothPoint(closeT),
		normal:      r2.Point{X: 1},
		closeDist:   30,
		targetPoint: b.smoothPoint(closeT - 2*f.width),
		pastTarget:  b.smoothPoint(closeT - 5*f.width),
	}

	start := 0.25 * f.width
	got := f.shrinkOffset(start, f.width, []r2.Point{f.pos, f.pos, f.pos}, g)
	assert.LessOrEqual(t, got, start)
	assert.GreaterOrEqual(t, got, -f.width-coilShrinkFraction*f.width-1e-9)

	assert.Equal(t, start, f.shrinkOffset(start, f.width, nil, g))
}

func TestCoilGoalWithCompetitorOnHead(t *testing.T) {
	snap := coilSnapshot()
	snap.Competitors = []Competitor{{
		ID:       "rival",
		Position: snap.Self.Position,
		Heading:  math.Pi,
		Speed:    DefaultSpeedBase,
		Scale:    2,
		Body:     []ChainPoint{{Point: snap.Self.Position}, {Point: snap.Self.Position.Add(r2.Point{X: 5})}},
	}}
	f := testFrame(t, snap, DefaultOptions())
	b := newBodyCurve(f.pos, snap.Self.Body)

	goal, ok := f.coilGoal(b, b.rotationSign(f.pos, r2.Point{X: f.cos, Y: f.sin}))
	require.True(t, ok)
	assert.True(t, finite(goal.X) && finite(goal.Y))
}

func TestCoilGoalNearWall(t *testing.T) {
	snap := coilSnapshot()
	snap.Arena = Arena{Center: r2.Point{X: -9000}, Radius: 9500}
	f := testFrame(t, snap, DefaultOptions())
	require.True(t, f.nearWall)
	b := newBodyCurve(f.pos, snap.Self.Body)

	goal, ok := f.coilGoal(b, -1)
	require.True(t, ok)
	assert.True(t, finite(goal.X) && finite(goal.Y))
}

func TestCoilGoalDriftsOutward(t *testing.T) {
	assert.InDelta(t, coilHeading-0.25, coilGoalAngle(t, coilSnapshot()), 1e-9)
}

func TestCoilGoalTurnsInFromEnemyBody(t *testing.T) {
	across := make([]ChainPoint, 0, 11)
	for x := 250.0; x < 360; x += 10 {
		across = append(across, ChainPoint{Point: r2.Point{X: x, Y: 40}})
	}
	cases := []struct {
		name   string
		body   []ChainPoint
		inward bool
	}{
		{"far away", []ChainPoint{{Point: r2.Point{X: 2000, Y: 2000}}}, false},
		{"across the path", across, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snap := coilSnapshot()
			snap.Competitors = []Competitor{{
				ID:       "rival",
				Position: r2.Point{X: 2000, Y: 2000},
				Speed:    DefaultSpeedBase,
				Scale:    1,
				Body:     c.body,
			}}
			got := coilGoalAngle(t, snap)
			if c.inward {
				assert.Greater(t, got, coilHeading+0.5)
			} else {
				assert.InDelta(t, coilHeading-0.25, got, 1e-9)
			}
		})
	}
}

func TestCoilGoalYieldsToEnemyHead(t *testing.T) {
	angleWithHead := func(pos r2.Point) float64 {
		snap := coilSnapshot()
		snap.Competitors = []Competitor{{
			ID:       "rival",
			Position: pos,
			Heading:  math.Pi,
			Speed:    DefaultSpeedBase,
			Scale:    1,
		}}
		return coilGoalAngle(t, snap)
	}

	far := angleWithHead(r2.Point{X: 600, Y: 60})
	mid := angleWithHead(r2.Point{X: 400, Y: 60})
	near := angleWithHead(r2.Point{X: 330, Y: 60})
	nearer := angleWithHead(r2.Point{X: 300, Y: 60})

	assert.InDelta(t, coilHeading-0.25, far, 1e-9)
	assert.Greater(t, mid, far)
	assert.Greater(t, near, mid)

	// Close heads all hit the floor of -0.75 closeDist/width on the course.
	snap := coilSnapshot()
	f := testFrame(t, snap, DefaultOptions())
	b := newBodyCurve(f.pos, snap.Self.Body)
	closeT := b.closestPoint(f.pos)
	closePoint := b.smoothPoint(closeT)
	tangent := b.smoothPoint(closeT - f.width).Sub(closePoint).Normalize()
	closeDist := f.pos.Sub(closePoint).Dot(r2.Point{X: tangent.Y, Y: -tangent.X})
	floor := math.Atan2(tangent.Y, tangent.X) + 0.75*closeDist/f.width

	assert.InDelta(t, floor, near, 1e-9)
	assert.InDelta(t, floor, nearer, 1e-9)
}

func TestCoilGoalWallClearance(t *testing.T) {
	const radius = 5000.0
	cases := []struct {
		name   string
		wallY  float64 // y of the wall directly ahead of the head
		inward bool
	}{
		{"clear", 400, false},
		{"across the path", 60, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snap := coilSnapshot()
			snap.Arena = Arena{Center: r2.Point{X: 300, Y: c.wallY - radius - DefaultBorderPointRadius}, Radius: radius}
			got := coilGoalAngle(t, snap)
			if c.inward {
				assert.Greater(t, got, coilHeading+0.5)
			} else {
				assert.InDelta(t, coilHeading-0.25+coilShrinkFraction, got, 1e-9, "near the wall the margin alone trims the drift")
			}
		})
	}
}

func TestCoilGoalTailMargin(t *testing.T) {
	assert.InDelta(t, coilHeading-0.25, coilGoalAngle(t, coilSnapshotOf(0.3, 135)), 1e-9)
	assert.Greater(t, coilGoalAngle(t, coilSnapshotOf(0.3, 130)), coilHeading, "a short tail ahead pulls the course in")
}

func TestCoilGoalTightensLooseCoil(t *testing.T) {
	assert.InDelta(t, coilHeading-0.25, coilGoalAngle(t, coilSnapshotOf(0.8, 150)), 1e-9)
	assert.Greater(t, coilGoalAngle(t, coilSnapshotOf(1.2, 150)), coilHeading)
}
