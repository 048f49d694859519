package main

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"slether-navigator/navigator"
)

// Protocol uses single-character JSON keys to minimize wire size.
// All x,y coordinates sent to spectators are rounded to 1 decimal place.
//
// /ws, client → server:
//     "j" = join    {"t":"j","n":"PlayerName"}
//     "i" = input   {"t":"i","a":1.57,"b":1}   (a=angle radians, b=boost 0/1)
//     "r" = respawn {"t":"r","n":"PlayerName"}
//     "f" = follow  {"t":"f","i":"pilot-3"}    (camera follows another snake)
// /ws, server → client:
//     "w" = welcome {"t":"w","i":"id","r":10500,"c":"#color"}
//     "s" = state   {"t":"s","s":[snakes],"f":[food],"l":[leaderboard]}
//     "d" = death   {"t":"d","k":"KillerName","p":score}
//     "e" = error   {"t":"e","m":"message"}
//
// /nav, text frames carry JSON and binary frames carry msgpack with the
// same keys; replies use the encoding of the request.
//     "n" = snapshot {"t":"n","q":7,"s":{agent},"c":[agents],"f":[food],"w":{arena}}
//     "x" = reset    {"t":"x"}
//     "g" = decision {"t":"g","q":7,"x":1.0,"y":2.0,"b":1,"st":"grow"}

// Message type identifiers
const (
	MsgJoin     = "j"
	MsgInput    = "i"
	MsgRespawn  = "r"
	MsgFollow   = "f"
	MsgWelcome  = "w"
	MsgState    = "s"
	MsgDeath    = "d"
	MsgError    = "e"
	MsgSnapshot = "n"
	MsgReset    = "x"
	MsgDecision = "g"
)

// ClientMessage is the base incoming /ws message
type ClientMessage struct {
	Type   string  `json:"t"`
	Name   string  `json:"n,omitempty"`
	Angle  float64 `json:"a,omitempty"`
	Boost  int     `json:"b,omitempty"` // 0 or 1
	Target string  `json:"i,omitempty"` // follow target
}

// WelcomeMsg is sent on connect. r = world radius.
type WelcomeMsg struct {
	Type        string  `json:"t"`
	ID          string  `json:"i"`
	WorldRadius float64 `json:"r"`
	Color       string  `json:"c"`
}

// SnakeDTO is the compact snake for per-tick state updates.
// Segments are flat [x,y] pairs.
type SnakeDTO struct {
	ID       string       `json:"i"`
	Name     string       `json:"n"`
	Segments [][2]float64 `json:"s"`
	Color    string       `json:"c"`
	Score    int          `json:"p"`
	Boosting int          `json:"b,omitempty"`
	Width    float64      `json:"w"`
}

// FoodDTO is the compact food item. l = level, m = moving (0/1).
type FoodDTO struct {
	ID       string  `json:"i"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Value    int     `json:"v"`
	Color    string  `json:"c"`
	Level    int     `json:"l"`
	IsMoving int     `json:"m"`
}

// LeaderboardEntry is a single leaderboard row
type LeaderboardEntry struct {
	ID    string `json:"i"`
	Name  string `json:"n"`
	Score int    `json:"p"`
}

// StateMsg is the per-tick state update sent to each client
type StateMsg struct {
	Type        string             `json:"t"`
	Snakes      []SnakeDTO         `json:"s"`
	Food        []FoodDTO          `json:"f"`
	Leaderboard []LeaderboardEntry `json:"l"`
	Camera      [2]float64         `json:"v"`
}

// DeathMsg is sent to a player when their snake dies
type DeathMsg struct {
	Type   string `json:"t"`
	Killer string `json:"k"`
	Score  int    `json:"p"`
}

// ErrorMsg reports a refused connection or a rejected frame
type ErrorMsg struct {
	Type    string `json:"t" msgpack:"t"`
	Seq     int64  `json:"q,omitempty" msgpack:"q,omitempty"`
	Message string `json:"m" msgpack:"m"`
}

// AgentFrame is a self or competitor on the bridge. Body runs head→tail
// without the head; Dying lists indexes into Body.
type AgentFrame struct {
	ID      string       `json:"i" msgpack:"i"`
	X       float64      `json:"x" msgpack:"x"`
	Y       float64      `json:"y" msgpack:"y"`
	Heading float64      `json:"a" msgpack:"a"`
	Speed   float64      `json:"v" msgpack:"v"`
	Scale   float64      `json:"sc" msgpack:"sc"`
	Length  float64      `json:"l,omitempty" msgpack:"l,omitempty"`
	Body    [][2]float64 `json:"b" msgpack:"b"`
	Dying   []int        `json:"dy,omitempty" msgpack:"dy,omitempty"`
}

// FoodFrame is one food particle on the bridge
type FoodFrame struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Size  float64 `json:"z" msgpack:"z"`
	Eaten bool    `json:"e,omitempty" msgpack:"e,omitempty"`
}

// ArenaFrame is the circular play field
type ArenaFrame struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"r" msgpack:"r"`
}

// SnapshotFrame is one tick of world state sent by an external host
type SnapshotFrame struct {
	Type        string       `json:"t" msgpack:"t"`
	Seq         int64        `json:"q" msgpack:"q"`
	Self        *AgentFrame  `json:"s" msgpack:"s"`
	Competitors []AgentFrame `json:"c" msgpack:"c"`
	Food        []FoodFrame  `json:"f" msgpack:"f"`
	Arena       ArenaFrame   `json:"w" msgpack:"w"`
}

// DecisionFrame answers a SnapshotFrame with the same Seq
type DecisionFrame struct {
	Type       string  `json:"t" msgpack:"t"`
	Seq        int64   `json:"q" msgpack:"q"`
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	Accelerate int     `json:"b" msgpack:"b"`
	Stage      string  `json:"st" msgpack:"st"`
}

func (a *AgentFrame) chain() ([]navigator.ChainPoint, error) {
	body := make([]navigator.ChainPoint, len(a.Body))
	for i, p := range a.Body {
		// Unusable points are kept as dying so Dying indexes stay aligned
		body[i] = navigator.ChainPoint{Point: r2.Point{X: p[0], Y: p[1]}, Dying: !finitePair(p)}
	}
	for _, i := range a.Dying {
		if i < 0 || i >= len(body) {
			return nil, errors.Errorf("agent %q: dying index %d out of range", a.ID, i)
		}
		body[i].Dying = true
	}
	return body, nil
}

// toSnapshot converts the frame for the engine. A missing self is passed
// through so the engine reports it.
func (f *SnapshotFrame) toSnapshot() (*navigator.WorldSnapshot, error) {
	snap := &navigator.WorldSnapshot{
		Arena: navigator.Arena{Center: r2.Point{X: f.Arena.X, Y: f.Arena.Y}, Radius: f.Arena.Radius},
	}
	if f.Self != nil {
		body, err := f.Self.chain()
		if err != nil {
			return nil, errors.Wrap(err, "self")
		}
		snap.Self = &navigator.SelfState{
			ID:       f.Self.ID,
			Position: r2.Point{X: f.Self.X, Y: f.Self.Y},
			Heading:  f.Self.Heading,
			Speed:    f.Self.Speed,
			Scale:    f.Self.Scale,
			Length:   f.Self.Length,
			Body:     body,
		}
	}
	for i := range f.Competitors {
		c := &f.Competitors[i]
		body, err := c.chain()
		if err != nil {
			return nil, errors.Wrapf(err, "competitor %d", i)
		}
		snap.Competitors = append(snap.Competitors, navigator.Competitor{
			ID:       c.ID,
			Position: r2.Point{X: c.X, Y: c.Y},
			Heading:  c.Heading,
			Speed:    c.Speed,
			Scale:    c.Scale,
			Body:     body,
		})
	}
	for _, fd := range f.Food {
		snap.Food = append(snap.Food, navigator.FoodParticle{
			Position: r2.Point{X: fd.X, Y: fd.Y},
			Size:     fd.Size,
			Eaten:    fd.Eaten,
		})
	}
	return snap, nil
}

func agentFrame(id string, pos r2.Point, heading, speed, scale, length float64, chain []navigator.ChainPoint) AgentFrame {
	a := AgentFrame{
		ID:      id,
		X:       pos.X,
		Y:       pos.Y,
		Heading: heading,
		Speed:   speed,
		Scale:   scale,
		Length:  length,
		Body:    make([][2]float64, len(chain)),
	}
	for i, p := range chain {
		a.Body[i] = [2]float64{p.X, p.Y}
		if p.Dying {
			a.Dying = append(a.Dying, i)
		}
	}
	return a
}

// snapshotFrame is the bridge encoding of a snapshot
func snapshotFrame(seq int64, snap *navigator.WorldSnapshot) SnapshotFrame {
	f := SnapshotFrame{
		Type:        MsgSnapshot,
		Seq:         seq,
		Competitors: []AgentFrame{},
		Food:        []FoodFrame{},
		Arena:       ArenaFrame{X: snap.Arena.Center.X, Y: snap.Arena.Center.Y, Radius: snap.Arena.Radius},
	}
	if s := snap.Self; s != nil {
		self := agentFrame(s.ID, s.Position, s.Heading, s.Speed, s.Scale, s.Length, s.Body)
		f.Self = &self
	}
	for _, c := range snap.Competitors {
		f.Competitors = append(f.Competitors, agentFrame(c.ID, c.Position, c.Heading, c.Speed, c.Scale, 0, c.Body))
	}
	for _, fd := range snap.Food {
		f.Food = append(f.Food, FoodFrame{X: fd.Position.X, Y: fd.Position.Y, Size: fd.Size, Eaten: fd.Eaten})
	}
	return f
}

func decisionFrame(seq int64, d navigator.Decision) DecisionFrame {
	accel := 0
	if d.Accelerate {
		accel = 1
	}
	return DecisionFrame{
		Type:       MsgDecision,
		Seq:        seq,
		X:          d.Goal.X,
		Y:          d.Goal.Y,
		Accelerate: accel,
		Stage:      d.Stage.String(),
	}
}

// finitePair rejects NaN and infinities in a decoded coordinate
func finitePair(p [2]float64) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}
