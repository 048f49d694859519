package main

import (
	"log"
	"time"
)

// GameLoop drives the arena at a fixed tick rate
type GameLoop struct {
	world     *World
	conns     *ConnManager
	fleets    []*Fleet
	pilots    *Fleet
	killMap   map[string]string // victimID -> killerName
	tickCount int
}

// NewGameLoop binds the world, the connections and the server-driven fleets.
// Fleets are filled immediately so the arena is populated before the first
// spectator arrives.
func NewGameLoop(world *World, conns *ConnManager, pilots, wanderers *Fleet) *GameLoop {
	gl := &GameLoop{
		world:   world,
		conns:   conns,
		fleets:  []*Fleet{pilots, wanderers},
		pilots:  pilots,
		killMap: make(map[string]string),
	}
	world.mu.Lock()
	for _, f := range gl.fleets {
		f.Maintain()
	}
	world.RebuildGrid()
	world.mu.Unlock()
	return gl
}

// Run ticks until stop is closed
func (gl *GameLoop) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()
	log.Printf("game loop started at %d ticks/sec", TickRate)

	for {
		select {
		case <-ticker.C:
			gl.tick()
		case <-stop:
			return
		}
	}
}

// step runs one world update under the world lock and returns the
// leaderboard for the broadcast
func (gl *GameLoop) step() []LeaderboardEntry {
	w := gl.world
	w.mu.Lock()
	defer w.mu.Unlock()
	gl.tickCount++

	// 1. Moving food first so magnets see the new positions
	for _, f := range w.Food {
		f.UpdateMoving(w.field)
	}

	// 2. Fleets and players steer and move; the grid is last tick's
	boundaryDeaths := map[string]bool{}
	for _, f := range gl.fleets {
		for _, id := range f.Update() {
			boundaryDeaths[id] = true
		}
	}
	for _, c := range gl.conns.Snapshot() {
		snake, ok := w.Snakes[c.ID]
		if !ok || !snake.Alive {
			continue
		}
		inp := c.GetInput()
		if w.Steer(snake, inp.Angle, inp.Boost) {
			boundaryDeaths[snake.ID] = true
		}
	}

	// 3. Rebuild spatial grid after movement
	w.RebuildGrid()

	// 4. Collisions, boundary deaths included
	gl.killMap = make(map[string]string)
	deaths := gl.detectCollisions()
	for id := range boundaryDeaths {
		if _, alreadyDead := deaths[id]; !alreadyDead {
			deaths[id] = "Boundary"
		}
	}

	// 5. Dead snakes become food
	for victimID, killerName := range deaths {
		snake := w.Snakes[victimID]
		if snake == nil || !snake.Alive {
			continue
		}
		dropped := w.Kill(snake)
		gl.killMap[victimID] = killerName
		log.Printf("snake %s (%s) died to %s, dropped %d food", snake.Name, victimID, killerName, dropped)
	}
	for _, f := range gl.fleets {
		f.HandleDeaths()
	}

	// 6. Food
	gl.applyFoodMagnet()
	gl.collectFood()
	gl.maybeSpawnMovingFood()
	w.MaintainFoodCount()

	// 7. Respawns
	for _, f := range gl.fleets {
		f.Maintain()
	}

	return w.Leaderboard()
}

// tick executes a single game update and notifies clients
func (gl *GameLoop) tick() {
	leaderboard := gl.step()
	gl.broadcast(leaderboard)

	w := gl.world
	for victimID, killerName := range gl.killMap {
		conn, ok := gl.conns.Get(victimID)
		if !ok {
			continue
		}
		w.mu.RLock()
		score := 0
		if s, exists := w.Snakes[victimID]; exists {
			score = s.Score
		}
		w.mu.RUnlock()

		_ = conn.Send(DeathMsg{
			Type:   MsgDeath,
			Killer: killerName,
			Score:  score,
		})
	}
}

// maybeSpawnMovingFood adds a level-10 food every MovingFoodSpawnInterval
// ticks while fewer than MovingFoodMaxCount exist
func (gl *GameLoop) maybeSpawnMovingFood() {
	if gl.tickCount%MovingFoodSpawnInterval != 0 {
		return
	}
	w := gl.world
	count := 0
	for _, f := range w.Food {
		if f.IsMoving {
			count++
		}
	}
	if count >= MovingFoodMaxCount {
		return
	}
	mf := w.field.NewMovingFood()
	w.Food[mf.ID] = mf
	log.Printf("spawned moving food %s (total moving: %d)", mf.ID, count+1)
}

// applyFoodMagnet pulls food within MagnetRadius toward each live head,
// leaving food already in eating range to collectFood
func (gl *GameLoop) applyFoodMagnet() {
	w := gl.world
	for _, snake := range w.Snakes {
		if !snake.Alive {
			continue
		}
		head := snake.Head()
		for _, fid := range w.Grid.NearbyFood(head, MagnetRadius) {
			food, ok := w.Food[fid]
			if !ok {
				continue
			}
			to := head.Sub(food.Pos)
			dist := to.Norm()
			if dist <= SnakeHeadRadius+FoodRadius {
				continue
			}
			food.Pos = food.Pos.Add(to.Mul(min(MagnetSpeed, dist) / dist))
		}
	}
}

// detectCollisions checks head-to-body and head-to-head collisions.
// Returns victimID -> killerName.
func (gl *GameLoop) detectCollisions() map[string]string {
	w := gl.world
	deaths := map[string]string{}

	aliveSnakes := make([]*Snake, 0, len(w.Snakes))
	for _, s := range w.Snakes {
		if s.Alive {
			aliveSnakes = append(aliveSnakes, s)
		}
	}

	for _, snake := range aliveSnakes {
		head := snake.Head()
		for _, entry := range w.Grid.NearbySnakeBody(head, CollisionCheckRadius, snake.ID) {
			other := w.Snakes[entry.snakeID]
			if other == nil || !other.Alive {
				continue
			}
			if head.Sub(entry.pos).Norm() < SnakeHeadRadius+SnakeBodyRadius {
				deaths[snake.ID] = other.Name
				break
			}
		}
	}

	// Head-to-head: the smaller snake dies; equal scores kill both
	for i := 0; i < len(aliveSnakes); i++ {
		for j := i + 1; j < len(aliveSnakes); j++ {
			a, b := aliveSnakes[i], aliveSnakes[j]
			if _, dead := deaths[a.ID]; dead {
				continue
			}
			if _, dead := deaths[b.ID]; dead {
				continue
			}
			if a.Head().Sub(b.Head()).Norm() < SnakeHeadRadius*2 {
				if a.Score >= b.Score {
					deaths[b.ID] = a.Name
				}
				if b.Score >= a.Score {
					deaths[a.ID] = b.Name
				}
			}
		}
	}

	return deaths
}

// collectFood lets each live head eat the food within reach
func (gl *GameLoop) collectFood() {
	w := gl.world
	for _, snake := range w.Snakes {
		if !snake.Alive {
			continue
		}
		for _, fid := range w.Grid.NearbyFood(snake.Head(), SnakeHeadRadius+FoodRadius) {
			food, ok := w.Food[fid]
			if !ok {
				continue
			}
			w.RemoveFood(fid)
			snake.Grow(food.Value)
		}
	}
}

// camera picks what a connection looks at: its own snake, the snake it
// follows, the first live pilot, or the arena centre
func (gl *GameLoop) camera(c *Conn) Point {
	w := gl.world
	for _, id := range []string{c.ID, c.Following()} {
		if s, ok := w.Snakes[id]; ok && s.Alive {
			return s.Head()
		}
	}
	if s, ok := gl.pilots.FirstAlive(); ok {
		return s.Head()
	}
	return worldCenter
}

// broadcast sends viewport-culled state to each connection
func (gl *GameLoop) broadcast(leaderboard []LeaderboardEntry) {
	w := gl.world
	for _, c := range gl.conns.Snapshot() {
		w.mu.RLock()
		center := gl.camera(c)
		msg := StateMsg{
			Type:        MsgState,
			Snakes:      w.SnakesInViewport(center),
			Food:        w.FoodInViewport(center),
			Leaderboard: leaderboard,
			Camera:      [2]float64{roundTo1(center.X), roundTo1(center.Y)},
		}
		w.mu.RUnlock()

		if err := c.Send(msg); err != nil {
			log.Printf("send error to %s: %v", c.ID, err)
		}
	}
}
