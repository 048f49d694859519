package main

import (
	"fmt"
	"log"
)

// driver decides one snake's input each tick
type driver interface {
	Steer(w *World, s *Snake) (angle float64, boost bool)
	Reset()
}

// member is one fleet slot. The driver survives respawns, the snake does not.
type member struct {
	driver    driver
	snakeID   string
	respawnIn int // >0 while waiting to respawn
}

// Fleet keeps a fixed number of server-driven snakes alive. All methods
// expect the caller to hold the world lock.
type Fleet struct {
	world        *World
	kind         string
	names        []string
	respawnDelay int
	members      []*member
	spawned      int
}

// NewFleet creates one member per driver; snakes appear on the first Maintain
func NewFleet(world *World, kind string, names []string, respawnDelay int, drivers []driver) *Fleet {
	f := &Fleet{
		world:        world,
		kind:         kind,
		names:        names,
		respawnDelay: respawnDelay,
	}
	for _, d := range drivers {
		f.members = append(f.members, &member{driver: d})
	}
	return f
}

// Size is the number of fleet slots
func (f *Fleet) Size() int {
	return len(f.members)
}

func (f *Fleet) spawn(m *member) {
	name := f.names[f.spawned%len(f.names)]
	f.spawned++
	m.snakeID = fmt.Sprintf("%s-%d", f.kind, f.spawned)
	m.driver.Reset()
	f.world.SpawnSnake(m.snakeID, name, f.world.RandomColor())
}

// snake returns the member's snake if it is alive
func (f *Fleet) snake(m *member) (*Snake, bool) {
	s, ok := f.world.Snakes[m.snakeID]
	if !ok || !s.Alive {
		return nil, false
	}
	return s, true
}

// Update steers and moves every live member. Returns the IDs of snakes
// that left the arena.
func (f *Fleet) Update() []string {
	var out []string
	for _, m := range f.members {
		s, ok := f.snake(m)
		if !ok {
			continue
		}
		angle, boost := m.driver.Steer(f.world, s)
		if f.world.Steer(s, angle, boost) {
			out = append(out, s.ID)
		}
	}
	return out
}

// HandleDeaths starts the respawn countdown of members whose snake died
func (f *Fleet) HandleDeaths() {
	for _, m := range f.members {
		if m.snakeID == "" || m.respawnIn > 0 {
			continue
		}
		if _, ok := f.snake(m); !ok {
			m.respawnIn = f.respawnDelay
		}
	}
}

// Maintain counts down respawns and spawns snakes for empty slots
func (f *Fleet) Maintain() {
	for _, m := range f.members {
		if m.respawnIn > 0 {
			m.respawnIn--
			if m.respawnIn > 0 {
				continue
			}
			f.world.RemoveSnake(m.snakeID)
			m.snakeID = ""
		}
		if m.snakeID == "" {
			f.spawn(m)
			log.Printf("%s spawned: %s", f.kind, m.snakeID)
		}
	}
}

// FirstAlive returns the live snake of the lowest-numbered slot
func (f *Fleet) FirstAlive() (*Snake, bool) {
	for _, m := range f.members {
		if s, ok := f.snake(m); ok {
			return s, true
		}
	}
	return nil, false
}
