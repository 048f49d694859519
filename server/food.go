package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// Food is a collectible item.
// Level 1 = common, Level 3 = medium, Level 5 = death drop, Level 10 = rare moving food.
type Food struct {
	ID       string
	Pos      Point
	Value    int
	Color    string
	Level    int
	IsMoving bool

	// Moving food only
	MoveAngle float64
	MoveSpeed float64
	MoveTicks int // ticks until the next random direction change
}

// FoodField creates food. Cluster centres follow a perlin noise field so
// food gathers in patches that stay put across restarts with the same seed.
// Not safe for concurrent use; the world lock guards it.
type FoodField struct {
	rng     *rand.Rand
	noise   *perlin.Perlin
	counter int
}

// NewFoodField seeds both the random source and the noise field
func NewFoodField(rng *rand.Rand, seed int64) *FoodField {
	return &FoodField{
		rng:   rng,
		noise: perlin.NewPerlin(2, 2, 3, seed),
	}
}

func (ff *FoodField) nextID() string {
	ff.counter++
	return fmt.Sprintf("f%d", ff.counter)
}

func (ff *FoodField) randomLevel() int {
	if ff.rng.Float64() < 0.10 {
		return FoodLevel3
	}
	return FoodLevel1
}

func (ff *FoodField) newFood(pos Point, level int, moving bool) *Food {
	return &Food{
		ID:       ff.nextID(),
		Pos:      pos,
		Value:    level,
		Color:    ff.colorForLevel(level),
		Level:    level,
		IsMoving: moving,
	}
}

// NewFood places a level 1 or 3 food uniformly inside the arena
func (ff *FoodField) NewFood() *Food {
	return ff.newFood(ff.randomCirclePoint(worldCenter, WorldRadius), ff.randomLevel(), false)
}

// NewFoodAt creates a level-3 food scattered ±20px around pos
func (ff *FoodField) NewFoodAt(pos Point) *Food {
	const scatter = 20.0
	p := pos.Add(Point{
		X: (ff.rng.Float64()*2 - 1) * scatter,
		Y: (ff.rng.Float64()*2 - 1) * scatter,
	})
	return ff.newFood(clampToCircle(p, worldCenter, WorldRadius), FoodLevel3, false)
}

// NewBoostDrop is the food a boosting snake sheds at its tail
func (ff *FoodField) NewBoostDrop(pos Point, color string) *Food {
	f := ff.newFood(pos, FoodLevel3, false)
	f.Color = color
	return f
}

// NewMovingFood creates a level-10 food wandering the arena
func (ff *FoodField) NewMovingFood() *Food {
	f := ff.newFood(ff.randomCirclePoint(worldCenter, WorldRadius), FoodLevel10, true)
	f.MoveAngle = ff.rng.Float64() * 2 * math.Pi
	f.MoveSpeed = MovingFoodSpeed
	f.MoveTicks = ff.moveTicks()
	return f
}

func (ff *FoodField) moveTicks() int {
	return MovingFoodDirMinTicks + ff.rng.Intn(MovingFoodDirMaxTicks-MovingFoodDirMinTicks)
}

// Density is the noise value at p; clusters only start where it is above
// FoodNoiseThreshold
func (ff *FoodField) Density(p Point) float64 {
	return ff.noise.Noise2D(p.X/FoodNoiseScale, p.Y/FoodNoiseScale)
}

// clusterCenter samples candidate centres until one lands in a dense patch.
// After FoodNoiseAttempts misses the last candidate is used anyway.
func (ff *FoodField) clusterCenter() Point {
	var c Point
	for i := 0; i < FoodNoiseAttempts; i++ {
		c = ff.randomCirclePoint(worldCenter, WorldRadius-200)
		if ff.Density(c) > FoodNoiseThreshold {
			break
		}
	}
	return c
}

// NewCluster creates 5-12 food items within 80-150px of a noise-picked centre
func (ff *FoodField) NewCluster() []*Food {
	center := ff.clusterCenter()
	count := 5 + ff.rng.Intn(8)
	clusterRadius := 80.0 + ff.rng.Float64()*70.0

	foods := make([]*Food, count)
	for i := range foods {
		p := ff.randomCirclePoint(center, clusterRadius)
		foods[i] = ff.newFood(clampToCircle(p, worldCenter, WorldRadius), ff.randomLevel(), false)
	}
	return foods
}

// UpdateMoving advances moving food one tick, bouncing off the boundary
func (f *Food) UpdateMoving(ff *FoodField) {
	if !f.IsMoving {
		return
	}
	f.Pos = f.Pos.Add(Point{X: math.Cos(f.MoveAngle), Y: math.Sin(f.MoveAngle)}.Mul(f.MoveSpeed))

	off := f.Pos.Sub(worldCenter)
	if dist := off.Norm(); dist > WorldRadius {
		// Reflect off the inward normal: v' = v - 2(v·n)n
		n := off.Mul(-1 / dist)
		v := Point{X: math.Cos(f.MoveAngle), Y: math.Sin(f.MoveAngle)}
		v = v.Sub(n.Mul(2 * v.Dot(n)))
		f.MoveAngle = math.Atan2(v.Y, v.X)
		f.Pos = worldCenter.Sub(n.Mul(WorldRadius - 1))
	}

	f.MoveTicks--
	if f.MoveTicks <= 0 {
		f.MoveAngle = ff.rng.Float64() * 2 * math.Pi
		f.MoveTicks = ff.moveTicks()
	}
}

// ToDTO converts Food to a serializable DTO
func (f *Food) ToDTO() FoodDTO {
	isMovingInt := 0
	if f.IsMoving {
		isMovingInt = 1
	}
	return FoodDTO{
		ID:       f.ID,
		X:        roundTo1(f.Pos.X),
		Y:        roundTo1(f.Pos.Y),
		Value:    f.Value,
		Color:    f.Color,
		Level:    f.Level,
		IsMoving: isMovingInt,
	}
}

func (ff *FoodField) colorForLevel(level int) string {
	switch level {
	case FoodLevel3:
		return ff.pick(foodColorsLevel3)
	case FoodLevel5:
		return ff.pick(foodColorsLevel5)
	case FoodLevel10:
		return "#ffd700"
	default:
		return ff.pick(foodColorsLevel1)
	}
}

var foodColorsLevel1 = []string{
	"#ff6b6b", "#ffd93d", "#6bcb77", "#4d96ff", "#ff922b",
	"#cc5de8", "#20c997", "#f06595", "#74c0fc", "#a9e34b",
}

var foodColorsLevel3 = []string{
	"#f39c12", "#e67e22", "#d35400", "#c0392b", "#e74c3c",
}

var foodColorsLevel5 = []string{
	"#8e44ad", "#9b59b6", "#6c3483", "#a569bd", "#7d3c98",
}

func (ff *FoodField) pick(s []string) string {
	return s[ff.rng.Intn(len(s))]
}

// randomCirclePoint is uniform inside the circle (sqrt on the radius)
func (ff *FoodField) randomCirclePoint(center Point, radius float64) Point {
	r := radius * math.Sqrt(ff.rng.Float64())
	angle := ff.rng.Float64() * 2 * math.Pi
	return center.Add(Point{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(r))
}

// clampToCircle pulls p just inside the circle if it is outside
func clampToCircle(p, center Point, radius float64) Point {
	off := p.Sub(center)
	dist := off.Norm()
	if dist <= radius {
		return p
	}
	return center.Add(off.Mul((radius - 1) / dist))
}

// roundTo1 rounds to 1 decimal place to save protocol bytes
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
