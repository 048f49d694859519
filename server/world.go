package main

import (
	"math/rand"
	"sort"
	"sync"

	"slether-navigator/navigator"
)

var worldCenter = Point{X: WorldCenterX, Y: WorldCenterY}

// World holds all game state. Every method expects the caller to hold mu
// (Lock for mutations, at least RLock for reads).
type World struct {
	mu     sync.RWMutex
	Snakes map[string]*Snake
	Food   map[string]*Food
	Grid   *SpatialGrid

	rng   *rand.Rand
	field *FoodField
}

// NewWorld initializes the world and its food from seed
func NewWorld(seed int64) *World {
	rng := rand.New(rand.NewSource(seed))
	w := &World{
		Snakes: make(map[string]*Snake),
		Food:   make(map[string]*Food),
		Grid:   NewSpatialGrid(GridCellSize),
		rng:    rng,
		field:  NewFoodField(rng, seed),
	}
	w.spawnFood(InitialFoodCount)
	w.RebuildGrid()
	return w
}

// spawnFood adds n items, about 70% of them in clusters
func (w *World) spawnFood(n int) {
	clustered := int(float64(n) * 0.7)
	for spawned := 0; spawned < clustered; {
		for _, f := range w.field.NewCluster() {
			if spawned >= clustered {
				break
			}
			w.Food[f.ID] = f
			spawned++
		}
	}
	for i := clustered; i < n; i++ {
		f := w.field.NewFood()
		w.Food[f.ID] = f
	}
}

// Arena is the navigator's view of the play field
func (w *World) Arena() navigator.Arena {
	return navigator.Arena{Center: worldCenter, Radius: WorldRadius}
}

// SpawnSnake creates a snake at a random spot and adds it
func (w *World) SpawnSnake(id, name, color string) *Snake {
	s := NewSnake(id, name, color, w.rng)
	w.AddSnake(s)
	return s
}

// RandomColor picks a colour from the player palette
func (w *World) RandomColor() string {
	return PlayerColors[w.rng.Intn(len(PlayerColors))]
}

// AddSnake adds a new snake to the world
func (w *World) AddSnake(s *Snake) {
	w.Snakes[s.ID] = s
}

// RemoveSnake removes a snake
func (w *World) RemoveSnake(id string) {
	delete(w.Snakes, id)
}

// RemoveFood removes food by ID
func (w *World) RemoveFood(id string) {
	delete(w.Food, id)
}

// Steer applies input to s and moves it one tick. Half of the tail segments
// lost to boosting come back as food. Returns true if s left the arena.
func (w *World) Steer(s *Snake, angle float64, boost bool) bool {
	if tail, lost := s.ApplyInput(angle, boost); lost && w.rng.Float64() < 0.5 {
		f := w.field.NewBoostDrop(tail, s.Color)
		w.Food[f.ID] = f
	}
	return s.Move()
}

// Kill turns a live snake into food and returns how many items it dropped
func (w *World) Kill(s *Snake) int {
	if !s.Alive {
		return 0
	}
	drops := s.DropFood()
	for _, p := range drops {
		f := w.field.NewFoodAt(p)
		w.Food[f.ID] = f
	}
	return len(drops)
}

// RebuildGrid rebuilds the spatial grid from current state
func (w *World) RebuildGrid() {
	w.Grid.Clear()
	for _, f := range w.Food {
		w.Grid.InsertFood(f)
	}
	for _, s := range w.Snakes {
		if s.Alive {
			w.Grid.InsertSnake(s)
		}
	}
}

// MaintainFoodCount spawns food up to TargetFoodCount, at most
// FoodSpawnPerTick per call. Moving food does not count.
func (w *World) MaintainFoodCount() {
	normalCount := 0
	for _, f := range w.Food {
		if !f.IsMoving {
			normalCount++
		}
	}
	deficit := TargetFoodCount - normalCount
	if deficit <= 0 {
		return
	}
	if deficit > FoodSpawnPerTick {
		deficit = FoodSpawnPerTick
	}
	w.spawnFood(deficit)
}

// SnapshotFor builds what s's navigator sees this tick: competitors with any
// segment within SnapshotRadius of its head, and the food around it. The grid
// must be current. Competitors and food are ordered by ID.
func (w *World) SnapshotFor(s *Snake) *navigator.WorldSnapshot {
	head := s.Head()
	snap := &navigator.WorldSnapshot{
		Self:  s.SelfState(),
		Arena: w.Arena(),
	}

	ids := w.Grid.NearbySnakeIDs(head, SnapshotRadius, s.ID)
	sort.Strings(ids)
	for _, id := range ids {
		if other, ok := w.Snakes[id]; ok && other.Alive {
			snap.Competitors = append(snap.Competitors, other.Competitor())
		}
	}

	foodIDs := w.Grid.NearbyFood(head, SnapshotRadius)
	sort.Strings(foodIDs)
	for _, id := range foodIDs {
		if f, ok := w.Food[id]; ok {
			snap.Food = append(snap.Food, navigator.FoodParticle{Position: f.Pos, Size: float64(f.Value)})
		}
	}
	return snap
}

// Leaderboard returns the top N snakes sorted by score
func (w *World) Leaderboard() []LeaderboardEntry {
	snakes := make([]*Snake, 0, len(w.Snakes))
	for _, s := range w.Snakes {
		if s.Alive {
			snakes = append(snakes, s)
		}
	}
	sort.Slice(snakes, func(i, j int) bool {
		if snakes[i].Score != snakes[j].Score {
			return snakes[i].Score > snakes[j].Score
		}
		return snakes[i].ID < snakes[j].ID
	})
	if len(snakes) > LeaderboardSize {
		snakes = snakes[:LeaderboardSize]
	}
	entries := make([]LeaderboardEntry, len(snakes))
	for i, s := range snakes {
		entries[i] = LeaderboardEntry{ID: s.ID, Name: s.Name, Score: s.Score}
	}
	return entries
}

// viewport is the culling rectangle around a spectator's camera
func viewport(center Point) (lo, hi Point) {
	half := Point{X: ViewportWidth/2 + ViewportBuffer, Y: ViewportHeight/2 + ViewportBuffer}
	return center.Sub(half), center.Add(half)
}

// SnakesInViewport returns snakes with any segment inside the viewport
func (w *World) SnakesInViewport(center Point) []SnakeDTO {
	lo, hi := viewport(center)
	result := []SnakeDTO{}
	for _, s := range w.Snakes {
		if !s.Alive {
			continue
		}
		for _, seg := range s.Segments {
			if seg.X >= lo.X && seg.X <= hi.X && seg.Y >= lo.Y && seg.Y <= hi.Y {
				result = append(result, s.ToDTO(0))
				break
			}
		}
	}
	return result
}

// FoodInViewport returns food DTOs around the camera
func (w *World) FoodInViewport(center Point) []FoodDTO {
	lo, hi := viewport(center)
	items := w.Grid.FoodInRect(w.Food, lo, hi)
	result := make([]FoodDTO, len(items))
	for i, f := range items {
		result[i] = f.ToDTO()
	}
	return result
}
