package main

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"

	"slether-navigator/navigator"
)

// Point is a 2D world coordinate
type Point = r2.Point

// Snake is one agent in the arena: a player, a pilot or a wanderer
type Snake struct {
	ID          string
	Name        string
	Segments    []Point // index 0 = head
	Angle       float64 // radians, direction of movement
	Speed       float64
	Score       int
	Color       string
	Alive       bool
	BoostActive bool
	BoostTicks  int     // ticks spent boosting this cycle
	Width       float64 // visual radius, starts at SnakeBaseWidth
}

// NewSnake places a snake at a random spot inside the arena, SpawnMargin px
// away from the boundary, pointing in a random direction.
func NewSnake(id, name, color string, rng *rand.Rand) *Snake {
	spawnRadius := WorldRadius - SpawnMargin
	r := spawnRadius * math.Sqrt(rng.Float64())
	spawnAngle := rng.Float64() * 2 * math.Pi
	head := Point{
		X: WorldCenterX + r*math.Cos(spawnAngle),
		Y: WorldCenterY + r*math.Sin(spawnAngle),
	}
	return newSnakeAt(id, name, color, head, rng.Float64()*2*math.Pi)
}

// newSnakeAt lays out a straight snake behind head
func newSnakeAt(id, name, color string, head Point, angle float64) *Snake {
	back := Point{X: -math.Cos(angle), Y: -math.Sin(angle)}.Mul(SnakeSegmentSpacing)
	segments := make([]Point, SnakeInitSegments)
	for i := range segments {
		segments[i] = head.Add(back.Mul(float64(i)))
	}
	return &Snake{
		ID:       id,
		Name:     name,
		Segments: segments,
		Angle:    angle,
		Speed:    SnakeNormalSpeed,
		Score:    SnakeInitSegments,
		Color:    color,
		Alive:    true,
		Width:    SnakeBaseWidth,
	}
}

// Head returns the head segment of the snake
func (s *Snake) Head() Point {
	return s.Segments[0]
}

// Move advances the snake one tick in its current direction.
// Returns true if the head left the arena; the caller kills the snake.
func (s *Snake) Move() bool {
	step := Point{X: math.Cos(s.Angle), Y: math.Sin(s.Angle)}.Mul(s.Speed)
	newHead := s.Head().Add(step)

	copy(s.Segments[1:], s.Segments[:len(s.Segments)-1])
	s.Segments[0] = newHead

	return newHead.Sub(worldCenter).Norm() > WorldRadius
}

// Grow adds segments at the tail. Width gain shrinks as the snake gets longer.
func (s *Snake) Grow(amount int) {
	tail := s.Segments[len(s.Segments)-1]
	for i := 0; i < amount; i++ {
		s.Segments = append(s.Segments, tail)
	}
	s.Score += amount
	s.Width = math.Min(SnakeMaxWidth, s.Width+4.0*float64(amount)/float64(len(s.Segments)))
}

// ApplyInput turns toward angle, limited by a size-dependent turn rate, and
// applies the boost. When boosting costs a segment the removed tail point is
// returned with lost set.
func (s *Snake) ApplyInput(angle float64, boost bool) (tail Point, lost bool) {
	maxTurn := SnakeMaxTurnRate / (1.0 + float64(len(s.Segments))*SnakeTurnScaleFactor)
	diff := clamp(normalizeAngle(angle-s.Angle), -maxTurn, maxTurn)
	s.Angle = normalizeAngle(s.Angle + diff)

	s.BoostActive = boost
	if !boost {
		s.Speed = SnakeNormalSpeed
		s.BoostTicks = 0
		return Point{}, false
	}

	s.Speed = SnakeBoostSpeed
	s.BoostTicks++
	if s.BoostTicks%SnakeBoostCostTicks != 0 || len(s.Segments) <= SnakeMinSegments {
		return Point{}, false
	}
	tail = s.Segments[len(s.Segments)-1]
	s.Segments = s.Segments[:len(s.Segments)-1]
	s.Score--
	s.Width = math.Max(SnakeBaseWidth, s.Width-4.0/float64(len(s.Segments)+1))
	return tail, true
}

// tailDying reports whether the next tick's boost cost removes the tail
func (s *Snake) tailDying() bool {
	return s.BoostActive &&
		(s.BoostTicks+1)%SnakeBoostCostTicks == 0 &&
		len(s.Segments) > SnakeMinSegments
}

// DropFood marks the snake dead and returns the positions of the food it
// leaves behind. Only 70% of the body comes back as food.
func (s *Snake) DropFood() []Point {
	s.Alive = false
	dropCount := int(float64(len(s.Segments)/DeathFoodPerUnit) * 0.7)
	drops := make([]Point, 0, dropCount)
	for i := 0; i < len(s.Segments) && len(drops) < dropCount; i += DeathFoodPerUnit {
		drops = append(drops, s.Segments[i])
	}
	return drops
}

// BodyLength is the arc length of the body in px
func (s *Snake) BodyLength() float64 {
	total := 0.0
	for i := 1; i < len(s.Segments); i++ {
		total += s.Segments[i].Sub(s.Segments[i-1]).Norm()
	}
	return total
}

// Scale is the navigator size scale; body width is the visual diameter
func (s *Snake) Scale() float64 {
	return navigator.ScaleForWidth(2 * s.Width)
}

// chain converts the body behind the head into navigator chain points
func (s *Snake) chain() []navigator.ChainPoint {
	body := make([]navigator.ChainPoint, 0, len(s.Segments)-1)
	for _, p := range s.Segments[1:] {
		body = append(body, navigator.ChainPoint{Point: p})
	}
	if len(body) > 0 && s.tailDying() {
		body[len(body)-1].Dying = true
	}
	return body
}

// Competitor is the snake as seen by another snake's navigator
func (s *Snake) Competitor() navigator.Competitor {
	return navigator.Competitor{
		ID:       s.ID,
		Position: s.Head(),
		Heading:  s.Angle,
		Speed:    s.Speed,
		Scale:    s.Scale(),
		Body:     s.chain(),
	}
}

// SelfState is the snake as seen by its own navigator
func (s *Snake) SelfState() *navigator.SelfState {
	return &navigator.SelfState{
		ID:       s.ID,
		Position: s.Head(),
		Heading:  s.Angle,
		Speed:    s.Speed,
		Scale:    s.Scale(),
		Length:   s.BodyLength(),
		Body:     s.chain(),
	}
}

// ToDTO converts snake to serializable form, trimming segments to maxSegs.
// If maxSegs <= 0 all segments are included.
func (s *Snake) ToDTO(maxSegs int) SnakeDTO {
	segs := s.Segments
	if maxSegs > 0 && len(segs) > maxSegs {
		segs = segs[:maxSegs]
	}
	boostInt := 0
	if s.BoostActive {
		boostInt = 1
	}
	return SnakeDTO{
		ID:       s.ID,
		Name:     s.Name,
		Segments: pairs(segs),
		Score:    s.Score,
		Color:    s.Color,
		Boosting: boostInt,
		Width:    roundTo1(s.Width),
	}
}

// pairs encodes points as [x,y] arrays rounded to 1 decimal place
func pairs(pts []Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{roundTo1(p.X), roundTo1(p.Y)}
	}
	return out
}

// normalizeAngle wraps an angle into (-π, π]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
