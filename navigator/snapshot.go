package navigator

import (
	"math"

	"github.com/golang/geo/r2"
)

// ChainPoint is one point of a trailing body chain
type ChainPoint struct {
	r2.Point
	Dying bool // about to be removed by the host; never collide with it
}

// SelfState is the controlled agent as seen by the host this tick.
// Body runs head→tail and does not repeat Position.
type SelfState struct {
	ID       string
	Position r2.Point
	Heading  float64
	Speed    float64
	Scale    float64
	Length   float64
	Body     []ChainPoint
}

// Competitor is another agent. Read-only snapshot data.
type Competitor struct {
	ID       string
	Position r2.Point
	Heading  float64
	Speed    float64
	Scale    float64
	Body     []ChainPoint
}

// FoodParticle is a static food item
type FoodParticle struct {
	Position r2.Point
	Size     float64
	Eaten    bool
}

// Arena is the circular play field
type Arena struct {
	Center r2.Point
	Radius float64
}

// WorldSnapshot is everything the engine reads in one tick
type WorldSnapshot struct {
	Self        *SelfState
	Competitors []Competitor
	Food        []FoodParticle
	Arena       Arena
}

// Decision is the engine output for one tick
type Decision struct {
	Goal       r2.Point
	Accelerate bool
	Stage      Stage
}

// BodyWidth converts a size scale to body width in world units
func BodyWidth(scale float64) float64 {
	return math.Round(scale * 29)
}

// ScaleForWidth is the inverse of BodyWidth
func ScaleForWidth(width float64) float64 {
	return width / 29
}
