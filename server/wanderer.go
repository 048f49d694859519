package main

import (
	"math"
)

var wandererNames = []string{
	"Viper", "Cobra", "Mamba", "Python", "Anaconda",
	"Sidewinder", "Adder", "Krait", "Taipan", "Boomslang",
	"Asp", "Racer", "Garter", "Kingsnake", "Copperhead",
}

// Wanderer is the simple rule AI that populates the arena around the
// pilots. Rules in priority order: boundary, danger ahead, flee bigger,
// chase smaller, seek food, roam.
type Wanderer struct {
	wanderTicks int
	targetAngle float64
	boostTicks  int // remaining ticks of intentional boost
	seekTicks   int // ticks spent seeking; gives up past 60 to break orbits
	lastScore   int
}

// Reset forgets the previous life's state
func (b *Wanderer) Reset() {
	*b = Wanderer{}
}

// Steer picks the wanderer's angle and boost for this tick
func (b *Wanderer) Steer(w *World, s *Snake) (float64, bool) {
	head := s.Head()

	if head.Sub(worldCenter).Norm() > WorldRadius-WandererEdgeBuffer {
		b.targetAngle = angleTo(head, worldCenter)
		b.wanderTicks = b.wanderDuration(w)
		return b.targetAngle, false
	}

	for _, e := range w.Grid.NearbySnakeBody(head, WandererDangerRadius, s.ID) {
		diff := normalizeAngle(angleTo(head, e.pos) - s.Angle)
		if math.Abs(diff) < math.Pi/4 {
			if diff >= 0 {
				b.targetAngle = s.Angle - math.Pi/2
			} else {
				b.targetAngle = s.Angle + math.Pi/2
			}
			b.wanderTicks = b.wanderDuration(w)
			return b.targetAngle, false
		}
	}

	threat, fleeing := b.nearest(w, s, WandererFleeRadius, func(o *Snake) bool { return o.Score > s.Score })
	if fleeing {
		b.targetAngle = angleTo(threat.Head(), head)
		b.boostTicks = 30
		b.wanderTicks = b.wanderDuration(w)
	}
	boost := false
	if b.boostTicks > 0 {
		b.boostTicks--
		boost = true
	}
	if fleeing {
		return b.targetAngle, boost
	}

	if prey, ok := b.nearest(w, s, WandererChaseRadius, func(o *Snake) bool { return o.Score < s.Score }); ok {
		b.targetAngle = angleTo(head, prey.Head())
		b.wanderTicks = b.wanderDuration(w)
		return b.targetAngle, boost || len(s.Segments) > SnakeMinSegments+5
	}

	if s.Score > b.lastScore {
		b.seekTicks = 0
	}
	b.lastScore = s.Score
	if b.seekTicks < 60 {
		if f := b.bestFood(w, s); f != nil {
			b.targetAngle = angleTo(head, f.Pos)
			b.seekTicks++
			return b.targetAngle, boost
		}
	} else {
		b.seekTicks = 0
		b.targetAngle = s.Angle + math.Pi/2 + w.rng.Float64()*math.Pi
		b.wanderTicks = 30 + w.rng.Intn(40)
		return b.targetAngle, false
	}

	if b.wanderTicks <= 0 {
		// Mostly roam toward the food-rich inner arena
		if w.rng.Float64() < 0.8 {
			r := WorldRadius * 0.7 * math.Sqrt(w.rng.Float64())
			a := w.rng.Float64() * 2 * math.Pi
			b.targetAngle = angleTo(head, worldCenter.Add(Point{X: math.Cos(a), Y: math.Sin(a)}.Mul(r)))
		} else {
			b.targetAngle = w.rng.Float64() * 2 * math.Pi
		}
		b.wanderTicks = 20 + w.rng.Intn(30)
	}
	b.wanderTicks--
	return b.targetAngle, boost
}

// nearest finds the closest live snake within radius that passes keep
func (b *Wanderer) nearest(w *World, s *Snake, radius float64, keep func(*Snake) bool) (*Snake, bool) {
	head := s.Head()
	var best *Snake
	bestDist := radius
	for _, id := range w.Grid.NearbySnakeIDs(head, radius, s.ID) {
		o, ok := w.Snakes[id]
		if !ok || !o.Alive || !keep(o) {
			continue
		}
		if d := o.Head().Sub(head).Norm(); d < bestDist || (d == bestDist && best != nil && o.ID < best.ID) {
			best, bestDist = o, d
		}
	}
	return best, best != nil
}

// bestFood prefers close food in front; food behind counts double distance
func (b *Wanderer) bestFood(w *World, s *Snake) *Food {
	head := s.Head()
	var best *Food
	bestDist := math.MaxFloat64
	for _, id := range w.Grid.NearbyFood(head, WandererFoodRadius) {
		f, ok := w.Food[id]
		if !ok {
			continue
		}
		d := f.Pos.Sub(head).Norm()
		if math.Abs(normalizeAngle(angleTo(head, f.Pos)-s.Angle)) > math.Pi/2 {
			d *= 2
		}
		if d < bestDist {
			best, bestDist = f, d
		}
	}
	return best
}

func (b *Wanderer) wanderDuration(w *World) int {
	return 60 + w.rng.Intn(61)
}

func angleTo(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}
