package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDriver struct {
	angle  float64
	boost  bool
	resets int
}

func (d *stubDriver) Steer(*World, *Snake) (float64, bool) { return d.angle, d.boost }
func (d *stubDriver) Reset()                               { d.resets++ }

func TestFleetRespawnCountdown(t *testing.T) {
	w := emptyWorld(t)
	d := &stubDriver{}
	f := NewFleet(w, "stub", []string{"One", "Two"}, 3, []driver{d, &stubDriver{}})
	assert.Equal(t, 2, f.Size())
	assert.Empty(t, w.Snakes, "snakes appear on Maintain")

	f.Maintain()
	require.Contains(t, w.Snakes, "stub-1")
	require.Contains(t, w.Snakes, "stub-2")
	assert.Equal(t, "One", w.Snakes["stub-1"].Name)
	assert.Equal(t, 1, d.resets)

	w.Kill(w.Snakes["stub-1"])
	f.HandleDeaths()
	f.HandleDeaths()
	for i := 0; i < 2; i++ {
		f.Maintain()
		assert.Contains(t, w.Snakes, "stub-1", "corpse stays until the delay runs out")
	}
	f.Maintain()
	assert.NotContains(t, w.Snakes, "stub-1")
	require.Contains(t, w.Snakes, "stub-3")
	assert.Equal(t, "One", w.Snakes["stub-3"].Name, "names cycle")
	assert.Equal(t, 2, d.resets)
	assert.Len(t, w.Snakes, 2)
}

func TestFleetUpdateReportsBoundaryExits(t *testing.T) {
	w := emptyWorld(t)
	f := NewFleet(w, "stub", []string{"S"}, 1, []driver{&stubDriver{angle: 0}, &stubDriver{angle: 0}})
	f.Maintain()

	edge := w.Snakes["stub-1"]
	edge.Segments = newSnakeAt("", "", "", worldCenter.Add(Point{X: WorldRadius - 1}), 0).Segments
	edge.Angle = 0
	inner := w.Snakes["stub-2"]
	inner.Segments = newSnakeAt("", "", "", worldCenter, 0).Segments
	inner.Angle = 0

	assert.Equal(t, []string{"stub-1"}, f.Update())
	assert.InDelta(t, SnakeNormalSpeed, inner.Head().Sub(worldCenter).Norm(), 1e-9)
}

func TestFleetFirstAlive(t *testing.T) {
	w := emptyWorld(t)
	f := NewFleet(w, "stub", []string{"S"}, 5, []driver{&stubDriver{}, &stubDriver{}})
	_, ok := f.FirstAlive()
	assert.False(t, ok)

	f.Maintain()
	s, ok := f.FirstAlive()
	require.True(t, ok)
	assert.Equal(t, "stub-1", s.ID)

	w.Kill(s)
	s, ok = f.FirstAlive()
	require.True(t, ok)
	assert.Equal(t, "stub-2", s.ID)
}
