package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slether-navigator/navigator"
)

func TestNewSnakeSpawnsInsideMargin(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		s := NewSnake("s", "s", "#fff", rng)
		require.Len(t, s.Segments, SnakeInitSegments)
		assert.LessOrEqual(t, s.Head().Sub(worldCenter).Norm(), WorldRadius-SpawnMargin+1e-9)
		assert.InDelta(t, SnakeSegmentSpacing, s.Segments[1].Sub(s.Segments[0]).Norm(), 1e-9)
	}

	a := NewSnake("a", "a", "#fff", rand.New(rand.NewSource(9)))
	b := NewSnake("b", "b", "#fff", rand.New(rand.NewSource(9)))
	assert.Equal(t, a.Segments, b.Segments)
}

func TestSnakeMove(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", worldCenter, 0)
	tail := s.Segments[len(s.Segments)-2]
	assert.False(t, s.Move())
	assert.Equal(t, worldCenter.Add(Point{X: SnakeNormalSpeed}), s.Head())
	assert.Equal(t, worldCenter, s.Segments[1])
	assert.Equal(t, tail, s.Segments[len(s.Segments)-1])
	assert.Len(t, s.Segments, SnakeInitSegments)

	edge := newSnakeAt("e", "e", "#fff", worldCenter.Add(Point{X: WorldRadius - 1}), 0)
	assert.True(t, edge.Move())
}

func TestApplyInputLimitsTurn(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", worldCenter, 0)
	maxTurn := SnakeMaxTurnRate / (1.0 + float64(SnakeInitSegments)*SnakeTurnScaleFactor)

	s.ApplyInput(math.Pi/2, false)
	assert.InDelta(t, maxTurn, s.Angle, 1e-12)

	s.Angle = 3
	s.ApplyInput(-3, false)
	assert.InDelta(t, 3+maxTurn, s.Angle+2*math.Pi, 1e-12, "turns through ±π the short way")
}

func TestBoostCostsTail(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", worldCenter, 0)
	want := s.Segments[len(s.Segments)-1]

	_, lost := s.ApplyInput(0, true)
	assert.False(t, lost)
	assert.False(t, s.tailDying())
	assert.Equal(t, SnakeBoostSpeed, s.Speed)

	_, lost = s.ApplyInput(0, true)
	assert.False(t, lost)
	assert.True(t, s.tailDying(), "the next boost tick removes the tail")
	body := s.SelfState().Body
	assert.True(t, body[len(body)-1].Dying)
	assert.False(t, body[0].Dying)

	tail, lost := s.ApplyInput(0, true)
	require.True(t, lost)
	assert.Equal(t, want, tail)
	assert.Len(t, s.Segments, SnakeInitSegments-1)
	assert.Equal(t, SnakeInitSegments-1, s.Score)

	s.ApplyInput(0, false)
	assert.Equal(t, SnakeNormalSpeed, s.Speed)
	assert.Zero(t, s.BoostTicks)
	assert.False(t, s.tailDying())
}

func TestBoostKeepsMinimumSegments(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", worldCenter, 0)
	s.Segments = s.Segments[:SnakeMinSegments]
	for i := 0; i < 2*SnakeBoostCostTicks; i++ {
		_, lost := s.ApplyInput(0, true)
		assert.False(t, lost)
	}
	assert.Len(t, s.Segments, SnakeMinSegments)
}

func TestGrowWidensWithDiminishingReturns(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", worldCenter, 0)
	s.Grow(5)
	assert.Len(t, s.Segments, 15)
	assert.Equal(t, 15, s.Score)
	assert.InDelta(t, SnakeBaseWidth+4.0*5/15, s.Width, 1e-12)

	before := s.Width
	s.Grow(10000)
	assert.InDelta(t, before+4.0*10000/10015, s.Width, 1e-9, "one large meal widens by at most 4")

	s = newSnakeAt("s", "s", "#fff", worldCenter, 0)
	for i := 0; i < 3000; i++ {
		s.Grow(1)
	}
	assert.Equal(t, SnakeMaxWidth, s.Width)
}

func TestDropFood(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", worldCenter, 0)
	drops := s.DropFood()
	assert.False(t, s.Alive)
	assert.Equal(t, []Point{s.Segments[0], s.Segments[2], s.Segments[4]}, drops)
}

func TestNavigatorViews(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", worldCenter, math.Pi/2)
	s.Speed = SnakeBoostSpeed

	self := s.SelfState()
	assert.Equal(t, "s", self.ID)
	assert.Equal(t, s.Head(), self.Position)
	assert.Equal(t, math.Pi/2, self.Heading)
	assert.Equal(t, 2*SnakeBaseWidth, navigator.BodyWidth(self.Scale))
	assert.InDelta(t, float64(SnakeInitSegments-1)*SnakeSegmentSpacing, self.Length, 1e-9)
	require.Len(t, self.Body, SnakeInitSegments-1)
	assert.Equal(t, s.Segments[1], self.Body[0].Point)

	c := s.Competitor()
	assert.Equal(t, self.Position, c.Position)
	assert.Equal(t, SnakeBoostSpeed, c.Speed)
	assert.Equal(t, self.Body, c.Body)
}

func TestSnakeToDTO(t *testing.T) {
	s := newSnakeAt("s", "name", "#abcdef", Point{X: 1.26, Y: 2.04}, 0)
	s.BoostActive = true
	dto := s.ToDTO(3)
	assert.Len(t, dto.Segments, 3)
	assert.Equal(t, [2]float64{1.3, 2}, dto.Segments[0])
	assert.Equal(t, 1, dto.Boosting)
	assert.Equal(t, "#abcdef", dto.Color)
	assert.Len(t, s.ToDTO(0).Segments, SnakeInitSegments)
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, normalizeAngle(c.in), 1e-12, "in %v", c.in)
	}
}
