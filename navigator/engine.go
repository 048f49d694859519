package navigator

import (
	"log"
	"math"

	"github.com/golang/geo/r2"
)

// Stage is the macro behaviour of the agent
type Stage int

const (
	StageGrow Stage = iota
	StageToCircle
	StageCircle
)

func (s Stage) String() string {
	switch s {
	case StageGrow:
		return "grow"
	case StageToCircle:
		return "tocircle"
	case StageCircle:
		return "circle"
	}
	return "unknown"
}

const (
	goalSnapDistance = 1000.0 // larger goal jumps are taken as-is
	goalBlend        = 0.25
	toCircleProbe    = 20 // tail points checked for self contact
	toCircleTurn     = math.Pi / 32
	idleFrame        = -1
)

// Engine steers one agent. It keeps the goal, stage, rotation direction and
// the action debouncer between ticks; everything else is rebuilt per tick.
// An Engine is not safe for concurrent use.
type Engine struct {
	opts   Options
	viz    Visualizer
	logger *log.Logger

	onGoal  func(r2.Point)
	onAccel func(bool)

	stage       Stage
	goal        r2.Point
	direction   float64
	delayFrame  int
	currentFood *FoodAngle
}

// NewEngine validates opts and returns an engine in the Grow stage
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		opts:   opts,
		viz:    NopVisualizer{},
		logger: log.Default(),
	}
	e.Reset()
	return e, nil
}

// SetVisualizer installs a debug sink; nil restores the no-op sink
func (e *Engine) SetVisualizer(v Visualizer) {
	if v == nil {
		v = NopVisualizer{}
	}
	e.viz = v
}

// SetLogger replaces the logger used for stage transitions
func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	e.logger = l
}

// OnGoal registers a hook called with the goal after each completed tick
func (e *Engine) OnGoal(fn func(r2.Point)) { e.onGoal = fn }

// OnAccelerate registers a hook called with the boost flag after each completed tick
func (e *Engine) OnAccelerate(fn func(bool)) { e.onAccel = fn }

func (e *Engine) Stage() Stage            { return e.stage }
func (e *Engine) Goal() r2.Point          { return e.goal }
func (e *Engine) Options() Options        { return e.opts }
func (e *Engine) Direction() float64      { return e.direction }
func (e *Engine) CurrentFood() *FoodAngle { return e.currentFood }

// Reset returns the engine to its initial state, e.g. after the agent respawns
func (e *Engine) Reset() {
	e.stage = StageGrow
	e.goal = r2.Point{}
	e.direction = 1
	e.delayFrame = 0
	e.currentFood = nil
}

func (e *Engine) setStage(s Stage) {
	if e.stage == s {
		return
	}
	e.logger.Printf("navigator: stage %s -> %s", e.stage, s)
	e.stage = s
}

// Tick plans one step. A malformed snapshot returns an error and leaves the
// engine untouched; the caller simply tries again next tick.
func (e *Engine) Tick(snap *WorldSnapshot) (Decision, error) {
	f, err := newFrame(snap, &e.opts, e.viz)
	if err != nil {
		return Decision{}, err
	}

	if f.length < e.opts.FollowCircleLength {
		e.setStage(StageGrow)
	}
	if e.stage != StageGrow {
		e.currentFood = nil
	}

	accel := e.opts.DefaultAccel
	if e.stage == StageCircle {
		e.followCircleSelf(f)
	} else if r, ok := e.respond(f); ok {
		e.goal = r.goal
		accel = r.accel
		if e.delayFrame != idleFrame {
			e.delayFrame = e.opts.CollisionDelay
		}
	} else {
		if e.opts.EnableFollowCircle && f.length > e.opts.FollowCircleLength {
			e.setStage(StageToCircle)
		}
		if e.delayFrame == idleFrame {
			e.delayFrame = e.opts.ActionFrames
		}
	}
	e.delayAction(f)

	f.viz.DrawLine(f.pos, e.goal, ColorBody)
	f.viz.DrawCircle(Circle{Center: e.goal, R: 5}, ColorDanger, false, 1)

	if e.onAccel != nil {
		e.onAccel(accel)
	}
	if e.onGoal != nil {
		e.onGoal(e.goal)
	}
	return Decision{Goal: e.goal, Accelerate: accel, Stage: e.stage}, nil
}

// respond runs the radar and returns the first emergency reaction, if any
func (e *Engine) respond(f *frame) (response, bool) {
	f.scanCollisions()
	if r, ok := f.checkCollision(); ok {
		return r, true
	}
	if e.opts.EnableEncircle {
		return f.checkEncircle()
	}
	return response{}, false
}

// delayAction counts down the debouncer and replans the Grow or ToCircle goal
// when it expires
func (e *Engine) delayAction(f *frame) {
	if e.delayFrame == idleFrame {
		return
	}
	if e.delayFrame > 0 {
		e.delayFrame--
		return
	}
	switch e.stage {
	case StageGrow:
		if f.collisionAngles == nil {
			f.scanCollisions()
		}
		e.currentFood = f.computeFoodGoal()
		if e.currentFood != nil {
			e.goal = e.currentFood.Position
		} else {
			e.goal = f.snap.Arena.Center
		}
	case StageToCircle:
		e.toCircle(f)
	}
	e.delayFrame = idleFrame
}

// toCircle turns gently until the head circle touches one of the tail-most
// body points, then switches to Circle
func (e *Engine) toCircle(f *frame) {
	if !e.opts.EnableFollowCircle {
		return
	}
	body := f.self.Body
	for i, n := len(body)-1, 0; i >= 0 && n < toCircleProbe; i-- {
		if body[i].Dying {
			continue
		}
		n++
		tail := Circle{Center: body[i].Point, R: f.radius}
		f.viz.DrawCircle(tail, ColorCoil, false, 1)
		if _, hit := circleIntersect(f.headCircle, tail, f.pos); hit {
			e.setStage(StageCircle)
			return
		}
	}
	e.goal = f.headingRel(e.direction * toCircleTurn)
}

// followCircleSelf updates the rotation direction and steers along the own body
func (e *Engine) followCircleSelf(f *frame) {
	curve := newBodyCurve(f.pos, f.self.Body)
	e.direction = curve.rotationSign(f.pos, r2.Point{X: f.cos, Y: f.sin})
	if goal, ok := f.coilGoal(curve, e.direction); ok {
		e.goal = smoothGoal(e.goal, goal)
	}
}

// smoothGoal blends small goal moves and snaps on large ones
func smoothGoal(prev, next r2.Point) r2.Point {
	if math.Abs(next.X-prev.X) < goalSnapDistance && math.Abs(next.Y-prev.Y) < goalSnapDistance {
		p := lerp(prev, next, goalBlend)
		return r2.Point{X: math.Round(p.X), Y: math.Round(p.Y)}
	}
	return r2.Point{X: math.Round(next.X), Y: math.Round(next.Y)}
}
