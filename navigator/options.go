package navigator

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Tuning defaults. The occupancy fractions and multipliers are empirical.
const (
	DefaultArcSize              = math.Pi / 8 // 16 radar sectors
	DefaultRadiusMult           = 10.0        // danger circle = radius * mult / 2
	DefaultEnCircleThreshold    = 0.5625      // share of sectors held by one competitor
	DefaultEnCircleAllThreshold = 0.5625      // share of sectors crowded by anyone
	DefaultEnCircleDistanceMult = 20.0        // crowding distance in own radii
	DefaultFollowCircleLength   = 2000.0      // length to start coiling on self
	DefaultFrontAngle           = math.Pi / 2 // half-width of the frontal cone
	DefaultCollisionDelay       = 10          // ticks to hold off re-planning after a dodge
	DefaultActionFrames         = 2           // ticks between re-planning
	DefaultSpeedBase            = 5.78        // cruise speed
	DefaultFastSpeed            = 10.0        // competitor head speed that triggers a boost
	DefaultWallViewDistance     = 1000.0      // boundary proximity that enables wall points
	DefaultBorderPointRadius    = 20.0        // radius of synthetic wall points
)

// Options tunes the navigator. JSON keys match the historical option names.
type Options struct {
	ArcSize              float64 `json:"arcSize"`
	RadiusMult           float64 `json:"radiusMult"`
	EnCircleThreshold    float64 `json:"enCircleThreshold"`
	EnCircleAllThreshold float64 `json:"enCircleAllThreshold"`
	EnCircleDistanceMult float64 `json:"enCircleDistanceMult"`
	FollowCircleLength   float64 `json:"followCircleLength"`
	FrontAngle           float64 `json:"frontAngle"`
	CollisionDelay       int     `json:"collisionDelay"`
	ActionFrames         int     `json:"actionFrames"`
	SpeedBase            float64 `json:"speedBase"`
	FastSpeed            float64 `json:"fastSpeed"`
	WallViewDistance     float64 `json:"wallViewDistance"`
	BorderPointRadius    float64 `json:"borderPointRadius"`
	DefaultAccel         bool    `json:"defaultAccel"`
	EnableEncircle       bool    `json:"enableEncircle"`
	EnableFollowCircle   bool    `json:"enableFollowCircle"`
}

// DefaultOptions returns the stock tuning
func DefaultOptions() Options {
	return Options{
		ArcSize:              DefaultArcSize,
		RadiusMult:           DefaultRadiusMult,
		EnCircleThreshold:    DefaultEnCircleThreshold,
		EnCircleAllThreshold: DefaultEnCircleAllThreshold,
		EnCircleDistanceMult: DefaultEnCircleDistanceMult,
		FollowCircleLength:   DefaultFollowCircleLength,
		FrontAngle:           DefaultFrontAngle,
		CollisionDelay:       DefaultCollisionDelay,
		ActionFrames:         DefaultActionFrames,
		SpeedBase:            DefaultSpeedBase,
		FastSpeed:            DefaultFastSpeed,
		WallViewDistance:     DefaultWallViewDistance,
		BorderPointRadius:    DefaultBorderPointRadius,
		EnableEncircle:       true,
		EnableFollowCircle:   true,
	}
}

// LoadOptions reads a JSON file over the defaults
func LoadOptions(path string) (Options, error) {
	o := DefaultOptions()
	if err := o.LoadFile(path); err != nil {
		return Options{}, err
	}
	return o, nil
}

// LoadFile overlays the keys present in a JSON file onto o and validates the result
func (o *Options) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read navigator options")
	}
	next := *o
	if err := json.Unmarshal(raw, &next); err != nil {
		return errors.Wrapf(err, "parse navigator options %s", path)
	}
	if err := next.Validate(); err != nil {
		return errors.Wrapf(err, "navigator options %s", path)
	}
	*o = next
	return nil
}

// Validate rejects values that would break sector math or stall the loop
func (o Options) Validate() error {
	switch {
	case !(o.ArcSize > 0 && o.ArcSize <= math.Pi):
		return errors.Errorf("arcSize %v out of range (0, π]", o.ArcSize)
	case !(o.RadiusMult > 0):
		return errors.Errorf("radiusMult %v must be positive", o.RadiusMult)
	case !(o.EnCircleThreshold > 0 && o.EnCircleThreshold <= 1):
		return errors.Errorf("enCircleThreshold %v out of range (0, 1]", o.EnCircleThreshold)
	case !(o.EnCircleAllThreshold > 0 && o.EnCircleAllThreshold <= 1):
		return errors.Errorf("enCircleAllThreshold %v out of range (0, 1]", o.EnCircleAllThreshold)
	case o.EnCircleDistanceMult < 0:
		return errors.Errorf("enCircleDistanceMult %v must not be negative", o.EnCircleDistanceMult)
	case o.FollowCircleLength < 0:
		return errors.Errorf("followCircleLength %v must not be negative", o.FollowCircleLength)
	case !(o.FrontAngle > 0 && o.FrontAngle <= math.Pi):
		return errors.Errorf("frontAngle %v out of range (0, π]", o.FrontAngle)
	case o.CollisionDelay < 0 || o.ActionFrames < 0:
		return errors.New("collisionDelay and actionFrames must not be negative")
	case !(o.SpeedBase > 0):
		return errors.Errorf("speedBase %v must be positive", o.SpeedBase)
	case o.BorderPointRadius <= 0:
		return errors.Errorf("borderPointRadius %v must be positive", o.BorderPointRadius)
	}
	return nil
}

// Bins is the radar sector count, 2π / ArcSize rounded
func (o Options) Bins() int {
	n := int(math.Round(2 * math.Pi / o.ArcSize))
	if n < 1 {
		return 1
	}
	return n
}
