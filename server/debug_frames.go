package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"slether-navigator/navigator"
)

// FrameRecorder renders a pilot's navigator geometry to PNG files. It is a
// navigator.Visualizer that only draws between Begin and Finish; every
// other call is dropped.
type FrameRecorder struct {
	dir   string
	every int
	calls int
	saved int

	dc     *gg.Context
	center r2.Point
	scale  float64
	active bool
}

// NewFrameRecorder writes one frame per every Due calls into dir
func NewFrameRecorder(dir string, every int) (*FrameRecorder, error) {
	if every <= 0 {
		return nil, errors.Errorf("frame interval must be positive, got %d", every)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create debug frame dir")
	}
	return &FrameRecorder{
		dir:   dir,
		every: every,
		dc:    gg.NewContext(DebugFrameSize, DebugFrameSize),
		scale: DebugFrameSize / DebugFrameSpan,
	}, nil
}

// Due counts a tick and reports whether this one should be captured
func (r *FrameRecorder) Due() bool {
	r.calls++
	return (r.calls-1)%r.every == 0
}

// Saved is the number of frames written so far
func (r *FrameRecorder) Saved() int {
	return r.saved
}

// px maps a world point into the frame, centred on the snapshot's self
func (r *FrameRecorder) px(p r2.Point) (float64, float64) {
	d := p.Sub(r.center).Mul(r.scale)
	return DebugFrameSize/2 + d.X, DebugFrameSize/2 + d.Y
}

func withAlpha(color string, alpha float64) string {
	if len(color) != 7 {
		return color
	}
	a := int(math.Round(clamp(alpha, 0, 1) * 255))
	return fmt.Sprintf("%s%02x", color, a)
}

// Begin clears the canvas and draws the arena, the agents and the food
func (r *FrameRecorder) Begin(snap *navigator.WorldSnapshot) {
	if snap == nil || snap.Self == nil {
		return
	}
	r.active = true
	r.center = snap.Self.Position
	dc := r.dc
	dc.SetRGB(0.05, 0.05, 0.08)
	dc.Clear()
	dc.SetLineWidth(2)

	ax, ay := r.px(snap.Arena.Center)
	dc.SetHexColor("#444444")
	dc.DrawCircle(ax, ay, snap.Arena.Radius*r.scale)
	dc.Stroke()

	dc.SetHexColor("#88888880")
	for _, f := range snap.Food {
		x, y := r.px(f.Position)
		dc.DrawCircle(x, y, math.Max(1, f.Size*r.scale))
		dc.Fill()
	}

	for _, c := range snap.Competitors {
		r.drawAgent(c.Position, c.Body, navigator.BodyWidth(c.Scale)/2, "#cc6666")
	}
	s := snap.Self
	r.drawAgent(s.Position, s.Body, navigator.BodyWidth(s.Scale)/2, "#66cc66")
}

func (r *FrameRecorder) drawAgent(head r2.Point, body []navigator.ChainPoint, radius float64, color string) {
	dc := r.dc
	dc.SetHexColor(withAlpha(color, 0.6))
	for _, p := range body {
		if p.Dying {
			continue
		}
		x, y := r.px(p.Point)
		dc.DrawCircle(x, y, math.Max(1, radius*r.scale))
		dc.Fill()
	}
	dc.SetHexColor(color)
	x, y := r.px(head)
	dc.DrawCircle(x, y, math.Max(2, radius*r.scale))
	dc.Fill()
}

// DrawLine implements navigator.Visualizer
func (r *FrameRecorder) DrawLine(start, end r2.Point, color string) {
	if !r.active {
		return
	}
	x1, y1 := r.px(start)
	x2, y2 := r.px(end)
	r.dc.SetHexColor(color)
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
}

// DrawCircle implements navigator.Visualizer
func (r *FrameRecorder) DrawCircle(c navigator.Circle, color string, fill bool, alpha float64) {
	if !r.active {
		return
	}
	x, y := r.px(c.Center)
	r.dc.SetHexColor(withAlpha(color, alpha))
	r.dc.DrawCircle(x, y, c.R*r.scale)
	if fill {
		r.dc.Fill()
	} else {
		r.dc.Stroke()
	}
}

// DrawPolygon implements navigator.Visualizer
func (r *FrameRecorder) DrawPolygon(pts []r2.Point, color string) {
	if !r.active || len(pts) == 0 {
		return
	}
	r.dc.SetHexColor(color)
	for _, p := range pts {
		r.dc.LineTo(r.px(p))
	}
	r.dc.ClosePath()
	r.dc.Stroke()
}

// Finish marks the decision and writes the frame
func (r *FrameRecorder) Finish(d navigator.Decision) error {
	if !r.active {
		return nil
	}
	r.active = false

	r.dc.SetHexColor("#ffffff")
	r.dc.DrawStringAnchored(fmt.Sprintf("%s accel=%v", d.Stage, d.Accelerate), 8, 8, 0, 1)

	path := filepath.Join(r.dir, fmt.Sprintf("frame-%06d.png", r.saved))
	if err := r.dc.SavePNG(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	r.saved++
	return nil
}
