package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"slether-navigator/navigator"
)

// emptyWorld is a seeded world with no food, so tests place everything
func emptyWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(1)
	w.Food = map[string]*Food{}
	w.RebuildGrid()
	return w
}

// place adds a straight snake whose head sits at offset from the arena centre
func place(w *World, id string, offset Point, angle float64) *Snake {
	s := newSnakeAt(id, id, "#ffffff", worldCenter.Add(offset), angle)
	w.AddSnake(s)
	return s
}

// feed drops a food item of the given level at offset from the arena centre
func feed(w *World, offset Point, level int) *Food {
	f := w.field.newFood(worldCenter.Add(offset), level, false)
	w.Food[f.ID] = f
	return f
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:       DefaultPort,
		StaticDir:  t.TempDir(),
		Pilots:     2,
		Wanderers:  4,
		Seed:       7,
		DebugEvery: DebugFrameEvery,
		Nav:        PilotOptions(),
	}
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	srv.limiter.cooldown = 0
	return srv
}

// frameFor is a bridge snapshot of a lone slow agent with one food ahead
func frameFor(seq int64) SnapshotFrame {
	return SnapshotFrame{
		Type: MsgSnapshot,
		Seq:  seq,
		Self: &AgentFrame{
			ID:     "host",
			Speed:  navigator.DefaultSpeedBase / 2,
			Scale:  1,
			Length: 100,
			Body:   [][2]float64{},
		},
		Competitors: []AgentFrame{},
		Food:        []FoodFrame{{X: 100, Size: 10}},
		Arena:       ArenaFrame{Radius: 50000},
	}
}
