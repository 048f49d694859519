package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWandererTurnsAwayFromEdge(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "s", Point{X: WorldRadius - 100}, 0)
	w.RebuildGrid()

	angle, boost := (&Wanderer{}).Steer(w, s)
	assert.InDelta(t, math.Pi, math.Abs(angle), 1e-9)
	assert.False(t, boost)
}

func TestWandererDodgesBodyAhead(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "s", Point{}, 0)
	place(w, "o", Point{X: 40, Y: 10}, -math.Pi/2)
	w.RebuildGrid()

	angle, boost := (&Wanderer{}).Steer(w, s)
	assert.InDelta(t, -math.Pi/2, angle, 1e-9)
	assert.False(t, boost)
}

func TestWandererFleesBiggerSnake(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "s", Point{}, 0)
	threat := place(w, "t", Point{Y: 150}, math.Pi/2)
	threat.Score = 50
	w.RebuildGrid()

	b := &Wanderer{}
	angle, boost := b.Steer(w, s)
	assert.InDelta(t, -math.Pi/2, angle, 1e-9)
	assert.True(t, boost)
	assert.Equal(t, 29, b.boostTicks)
}

func TestWandererChasesSmallerSnake(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "s", Point{}, 0)
	prey := place(w, "p", Point{X: 100, Y: 100}, 0)
	prey.Score = 5
	w.RebuildGrid()

	angle, boost := (&Wanderer{}).Steer(w, s)
	assert.InDelta(t, math.Pi/4, angle, 1e-9)
	assert.True(t, boost)
}

func TestWandererSeeksFoodThenGivesUp(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "s", Point{}, 0)
	feed(w, Point{Y: 200}, FoodLevel1)
	feed(w, Point{Y: -150}, FoodLevel1)
	w.RebuildGrid()

	b := &Wanderer{}
	for i := 0; i < 60; i++ {
		angle, boost := b.Steer(w, s)
		assert.InDelta(t, -math.Pi/2, angle, 1e-9)
		assert.False(t, boost)
	}
	b.Steer(w, s)
	assert.Zero(t, b.seekTicks, "orbiting food is abandoned")
	assert.Positive(t, b.wanderTicks)

	b.Reset()
	assert.Equal(t, Wanderer{}, *b)
}
