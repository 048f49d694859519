package navigator

import "github.com/golang/geo/r2"

// Colours passed to a Visualizer, as #rrggbb
const (
	ColorDanger  = "#ff0000"
	ColorAhead   = "#ffa500"
	ColorWall    = "#ffff00"
	ColorCoil    = "#0000ff"
	ColorBody    = "#00ff00"
	ColorOutline = "#ffffff"
)

// Visualizer observes intermediate geometry for debugging. The engine
// behaves the same with or without one.
type Visualizer interface {
	DrawLine(start, end r2.Point, color string)
	DrawCircle(c Circle, color string, fill bool, alpha float64)
	DrawPolygon(pts []r2.Point, color string)
}

// NopVisualizer discards everything
type NopVisualizer struct{}

func (NopVisualizer) DrawLine(r2.Point, r2.Point, string)      {}
func (NopVisualizer) DrawCircle(Circle, string, bool, float64) {}
func (NopVisualizer) DrawPolygon([]r2.Point, string)           {}
