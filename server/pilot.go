package main

import (
	"log"
	"math"

	"slether-navigator/navigator"
)

var pilotNames = []string{"Ouroboros", "Coil", "Helix", "Spiral", "Gyre", "Vortex", "Whorl", "Torus"}

// Pilot drives a snake with a navigator engine. The engine's goal point
// becomes a steering angle and its acceleration flag becomes the boost.
type Pilot struct {
	engine   *navigator.Engine
	recorder *FrameRecorder
	last     navigator.Decision
	skipped  int
}

// NewPilot creates a pilot with its own engine
func NewPilot(opts navigator.Options, logger *log.Logger) (*Pilot, error) {
	e, err := navigator.NewEngine(opts)
	if err != nil {
		return nil, err
	}
	e.SetLogger(logger)
	return &Pilot{engine: e}, nil
}

// Record attaches a debug frame recorder to the engine
func (p *Pilot) Record(r *FrameRecorder) {
	p.recorder = r
	p.engine.SetVisualizer(r)
}

// Steer ticks the engine on the snake's snapshot. A skipped tick keeps the
// current heading without boost.
func (p *Pilot) Steer(w *World, s *Snake) (float64, bool) {
	snap := w.SnapshotFor(s)
	capture := p.recorder != nil && p.recorder.Due()
	if capture {
		p.recorder.Begin(snap)
	}

	d, err := p.engine.Tick(snap)
	if capture {
		if ferr := p.recorder.Finish(d); ferr != nil {
			log.Printf("debug frame for %s: %v", s.ID, ferr)
		}
	}
	if err != nil {
		p.skipped++
		log.Printf("pilot %s skipped a tick: %v", s.ID, err)
		return s.Angle, false
	}
	p.last = d
	return steerToward(s, d.Goal), d.Accelerate && len(s.Segments) > SnakeMinSegments+5
}

// steerToward is the heading from the snake's head to goal, or the current
// heading when the goal sits on the head
func steerToward(s *Snake, goal Point) float64 {
	to := goal.Sub(s.Head())
	if to.X == 0 && to.Y == 0 {
		return s.Angle
	}
	return math.Atan2(to.Y, to.X)
}

// Reset clears the engine for a fresh snake
func (p *Pilot) Reset() {
	p.engine.Reset()
	p.last = navigator.Decision{}
}

// PilotStatus is the JSON view of one pilot served on /pilots
type PilotStatus struct {
	Index      int        `json:"index"`
	SnakeID    string     `json:"snakeId"`
	Name       string     `json:"name,omitempty"`
	Alive      bool       `json:"alive"`
	Stage      string     `json:"stage"`
	Goal       [2]float64 `json:"goal"`
	Accelerate bool       `json:"accelerate"`
	Length     float64    `json:"length"`
	Score      int        `json:"score"`
	Skipped    int        `json:"skipped"`
	Frames     int        `json:"frames,omitempty"` // debug frames written
}

// PilotStatuses reports every pilot in the fleet. Caller holds at least
// the world read lock.
func (f *Fleet) PilotStatuses() []PilotStatus {
	out := []PilotStatus{}
	for i, m := range f.members {
		p, ok := m.driver.(*Pilot)
		if !ok {
			continue
		}
		st := PilotStatus{
			Index:      i,
			SnakeID:    m.snakeID,
			Stage:      p.engine.Stage().String(),
			Goal:       [2]float64{p.last.Goal.X, p.last.Goal.Y},
			Accelerate: p.last.Accelerate,
			Skipped:    p.skipped,
		}
		if p.recorder != nil {
			st.Frames = p.recorder.Saved()
		}
		if s, ok := f.snake(m); ok {
			st.Name = s.Name
			st.Alive = true
			st.Length = math.Round(s.BodyLength())
			st.Score = s.Score
		}
		out = append(out, st)
	}
	return out
}

// newPilots builds n pilots sharing one tuning
func newPilots(n int, opts navigator.Options) ([]*Pilot, error) {
	pilots := make([]*Pilot, n)
	for i := range pilots {
		p, err := NewPilot(opts, log.Default())
		if err != nil {
			return nil, err
		}
		pilots[i] = p
	}
	return pilots, nil
}
