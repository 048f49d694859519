package main

import (
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietPilot(t *testing.T) *Pilot {
	t.Helper()
	p, err := NewPilot(PilotOptions(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return p
}

func TestPilotSteersToFood(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "p", Point{}, 0)
	feed(w, Point{Y: 100}, FoodLevel3)
	w.RebuildGrid()

	p := newQuietPilot(t)
	angle, boost := p.Steer(w, s)
	assert.InDelta(t, math.Pi/2, angle, 1e-9)
	assert.False(t, boost)
	assert.Equal(t, worldCenter.Add(Point{Y: 100}), p.last.Goal)
	assert.Zero(t, p.skipped)
}

func TestPilotSkipsDegenerateTick(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "p", Point{}, 0.5)
	s.Width = 0
	w.RebuildGrid()

	p := newQuietPilot(t)
	angle, boost := p.Steer(w, s)
	assert.Equal(t, 0.5, angle)
	assert.False(t, boost)
	assert.Equal(t, 1, p.skipped)
}

func TestSteerToward(t *testing.T) {
	s := newSnakeAt("s", "s", "#fff", Point{X: 10, Y: 10}, 1.25)
	assert.Equal(t, 1.25, steerToward(s, Point{X: 10, Y: 10}))
	assert.InDelta(t, -math.Pi/2, steerToward(s, Point{X: 10, Y: 0}), 1e-12)
}

func TestPilotRecordsFrames(t *testing.T) {
	w := emptyWorld(t)
	s := place(w, "p", Point{}, 0)
	feed(w, Point{X: 60}, FoodLevel1)
	w.RebuildGrid()

	dir := filepath.Join(t.TempDir(), "frames")
	rec, err := NewFrameRecorder(dir, 2)
	require.NoError(t, err)
	p := newQuietPilot(t)
	p.Record(rec)

	for i := 0; i < 3; i++ {
		p.Steer(w, s)
	}
	assert.Equal(t, 2, rec.Saved())
	for _, name := range []string{"frame-000000.png", "frame-000001.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestPilotStatuses(t *testing.T) {
	w := emptyWorld(t)
	pilots, err := newPilots(2, PilotOptions())
	require.NoError(t, err)
	for _, p := range pilots {
		p.engine.SetLogger(log.New(io.Discard, "", 0))
	}
	f := NewFleet(w, "pilot", pilotNames, 10, []driver{pilots[0], pilots[1]})
	f.Maintain()
	w.RebuildGrid()
	f.Update()

	w.Kill(w.Snakes["pilot-2"])
	statuses := f.PilotStatuses()
	require.Len(t, statuses, 2)

	assert.Equal(t, 0, statuses[0].Index)
	assert.Equal(t, "pilot-1", statuses[0].SnakeID)
	assert.Equal(t, pilotNames[0], statuses[0].Name)
	assert.True(t, statuses[0].Alive)
	assert.Equal(t, "grow", statuses[0].Stage)
	assert.Equal(t, SnakeInitSegments, statuses[0].Score)
	assert.Positive(t, statuses[0].Length)

	assert.False(t, statuses[1].Alive)
	assert.Empty(t, statuses[1].Name)
	assert.Zero(t, statuses[1].Score)

	pilots[0].Reset()
	assert.Equal(t, [2]float64{}, f.PilotStatuses()[0].Goal)
}
