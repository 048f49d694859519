package main

import "math"

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// gridEntry holds a reference to food or snake segment in a cell.
// segIdx 0 is a head.
type gridEntry struct {
	foodID  string
	snakeID string
	segIdx  int
	pos     Point
}

// SpatialGrid is a hash grid for fast proximity queries
type SpatialGrid struct {
	cells    map[cellKey][]gridEntry
	cellSize float64
}

// NewSpatialGrid creates an empty spatial grid
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cells:    make(map[cellKey][]gridEntry),
		cellSize: cellSize,
	}
}

// Clear resets all cells
func (g *SpatialGrid) Clear() {
	g.cells = make(map[cellKey][]gridEntry)
}

func (g *SpatialGrid) keyFor(p Point) cellKey {
	return cellKey{
		cx: int(math.Floor(p.X / g.cellSize)),
		cy: int(math.Floor(p.Y / g.cellSize)),
	}
}

func (g *SpatialGrid) insert(e gridEntry) {
	k := g.keyFor(e.pos)
	g.cells[k] = append(g.cells[k], e)
}

// InsertFood adds a food item to the grid
func (g *SpatialGrid) InsertFood(f *Food) {
	g.insert(gridEntry{foodID: f.ID, pos: f.Pos})
}

// InsertSnake adds every segment of a snake, head included
func (g *SpatialGrid) InsertSnake(s *Snake) {
	for i, seg := range s.Segments {
		g.insert(gridEntry{snakeID: s.ID, segIdx: i, pos: seg})
	}
}

// visit calls fn for every entry within radius of p
func (g *SpatialGrid) visit(p Point, radius float64, fn func(e gridEntry)) {
	lo := g.keyFor(p.Sub(Point{X: radius, Y: radius}))
	hi := g.keyFor(p.Add(Point{X: radius, Y: radius}))
	rr := radius * radius
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for _, e := range g.cells[cellKey{cx, cy}] {
				d := e.pos.Sub(p)
				if d.Dot(d) <= rr {
					fn(e)
				}
			}
		}
	}
}

// NearbyFood returns food IDs within radius of p
func (g *SpatialGrid) NearbyFood(p Point, radius float64) []string {
	results := []string{}
	g.visit(p, radius, func(e gridEntry) {
		if e.foodID != "" {
			results = append(results, e.foodID)
		}
	})
	return results
}

// NearbySnakeBody returns body segments (heads excluded) within radius of p,
// skipping the snake identified by excludeID
func (g *SpatialGrid) NearbySnakeBody(p Point, radius float64, excludeID string) []gridEntry {
	results := []gridEntry{}
	g.visit(p, radius, func(e gridEntry) {
		if e.snakeID != "" && e.snakeID != excludeID && e.segIdx > 0 {
			results = append(results, e)
		}
	})
	return results
}

// NearbySnakeIDs returns each snake with any segment within radius of p, once
func (g *SpatialGrid) NearbySnakeIDs(p Point, radius float64, excludeID string) []string {
	seen := map[string]bool{}
	results := []string{}
	g.visit(p, radius, func(e gridEntry) {
		if e.snakeID == "" || e.snakeID == excludeID || seen[e.snakeID] {
			return
		}
		seen[e.snakeID] = true
		results = append(results, e.snakeID)
	})
	return results
}

// FoodInRect returns food items whose cells overlap the rectangle
func (g *SpatialGrid) FoodInRect(food map[string]*Food, lo, hi Point) []*Food {
	result := []*Food{}
	a, b := g.keyFor(lo), g.keyFor(hi)
	for cx := a.cx; cx <= b.cx; cx++ {
		for cy := a.cy; cy <= b.cy; cy++ {
			for _, e := range g.cells[cellKey{cx, cy}] {
				if e.foodID == "" {
					continue
				}
				if f, ok := food[e.foodID]; ok {
					result = append(result, f)
				}
			}
		}
	}
	return result
}
