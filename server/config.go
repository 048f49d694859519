package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"slether-navigator/navigator"
)

// Arena configuration constants
const (
	// Server
	DefaultPort   = 8080
	StaticDir     = "../client"
	WebSocketPath = "/ws"
	NavPath       = "/nav"
	OptionsPath   = "/options"
	PilotsPath    = "/pilots"
	MaxClients    = 64
	IPCooldownSec = 2
	MaxNameLength = 20
	WriteTimeout  = 2 * time.Second

	// World — circular map: center=(10500,10500), radius=10500
	// Boundary is death (not wrap).
	WorldCenterX = 10500.0
	WorldCenterY = 10500.0
	WorldRadius  = 10500.0
	// SpawnMargin keeps snakes away from the circular boundary on spawn
	SpawnMargin = 500.0

	// Game loop
	TickRate = 20 // ticks per second

	// Snake
	SnakeNormalSpeed    = 3.0 // px per tick
	SnakeBoostSpeed     = 5.0 // px per tick
	SnakeBoostCostTicks = 3   // lose 1 length unit every N boost ticks
	SnakeInitSegments   = 10
	SnakeSegmentSpacing = 8.0  // px between segments at spawn
	SnakeHeadRadius     = 10.0 // collision radius for head
	SnakeBodyRadius     = 8.0  // collision radius for body segments
	SnakeMinSegments    = 3    // minimum segments before boosting stops costing
	SnakeBaseWidth      = 10.0 // starting visual radius
	SnakeMaxWidth       = 28.0
	// Bigger snakes turn slower: MaxTurnRate / (1 + segments * TurnScaleFactor)
	SnakeMaxTurnRate     = 0.18
	SnakeTurnScaleFactor = 0.008

	// Food
	InitialFoodCount = 12500
	TargetFoodCount  = 12500
	FoodRadius       = 5.0
	DeathFoodPerUnit = 2   // food items dropped per body segment on death
	FoodSpawnPerTick = 100 // max food respawn per tick to maintain target

	// Food levels: 1 common, 3 medium, 5 death drop, 10 rare moving food
	FoodLevel1  = 1
	FoodLevel3  = 3
	FoodLevel5  = 5
	FoodLevel10 = 10

	// Food field: cluster centres land where perlin noise exceeds the threshold
	FoodNoiseScale     = 1500.0
	FoodNoiseThreshold = 0.05
	FoodNoiseAttempts  = 8

	// Moving food (level 10)
	MovingFoodSpawnInterval = 300
	MovingFoodMaxCount      = 3
	MovingFoodSpeed         = 4.0
	MovingFoodDirMinTicks   = 60
	MovingFoodDirMaxTicks   = 120

	// Magnetic food attraction
	MagnetRadius = 16.0
	MagnetSpeed  = 3.0

	// Spectator viewport
	ViewportWidth  = 1536.0
	ViewportHeight = 864.0
	ViewportBuffer = 200.0

	GridCellSize    = 200.0
	LeaderboardSize = 10

	CollisionCheckRadius = 20.0

	// Pilots run the navigator; wanderers run the simple rule AI
	PilotCount           = 4
	PilotRespawnDelay    = 60
	PilotFollowCircle    = 1200.0 // body length in px before a pilot starts coiling
	SnapshotRadius       = 1500.0 // px around a pilot's head included in its snapshot
	WandererCount        = 40
	WandererRespawnDelay = 100
	WandererDangerRadius = 80.0
	WandererFoodRadius   = 500.0
	WandererChaseRadius  = 300.0
	WandererFleeRadius   = 200.0
	WandererEdgeBuffer   = 500.0

	// Debug frames
	DebugFrameSize  = 1024   // PNG side in pixels
	DebugFrameSpan  = 1600.0 // world units across one frame
	DebugFrameEvery = 20
)

// PlayerColors palette
var PlayerColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#e91e63", "#00bcd4", "#8bc34a",
	"#ff5722", "#607d8b", "#795548", "#673ab7", "#03a9f4",
	"#4caf50", "#ffeb3b", "#ff9800", "#f44336", "#9c27b0",
}

// Config is the runtime configuration assembled from the command line
type Config struct {
	Port       int
	StaticDir  string
	Pilots     int
	Wanderers  int
	Seed       int64
	DebugDir   string
	DebugEvery int
	Nav        navigator.Options
}

// PilotOptions is the navigator tuning for this arena's speeds and sizes
func PilotOptions() navigator.Options {
	o := navigator.DefaultOptions()
	o.SpeedBase = SnakeNormalSpeed
	o.FastSpeed = (SnakeNormalSpeed + SnakeBoostSpeed) / 2
	o.FollowCircleLength = PilotFollowCircle
	o.WallViewDistance = SnapshotRadius / 2
	return o
}

var cliFlags = []cli.Flag{
	cli.IntFlag{Name: "port", Value: DefaultPort, Usage: "HTTP port"},
	cli.StringFlag{Name: "static", Value: StaticDir, Usage: "Directory served at /", EnvVar: "SLETHER_STATIC_DIR"},
	cli.IntFlag{Name: "pilots", Value: PilotCount, Usage: "Number of navigator-driven snakes"},
	cli.IntFlag{Name: "wanderers", Value: WandererCount, Usage: "Number of rule-driven snakes"},
	cli.StringFlag{Name: "nav-config", Usage: "JSON file overriding the pilot navigator options"},
	cli.StringFlag{Name: "debug-frames", Usage: "Directory receiving PNG debug frames of the first pilot"},
	cli.IntFlag{Name: "debug-every", Value: DebugFrameEvery, Usage: "Ticks between debug frames"},
	cli.Int64Flag{Name: "seed", Value: 1, Usage: "Seed for spawn positions and the food field"},
}

// configFromContext validates flags and loads the optional navigator options file
func configFromContext(c *cli.Context) (Config, error) {
	cfg := Config{
		Port:       c.Int("port"),
		StaticDir:  c.String("static"),
		Pilots:     c.Int("pilots"),
		Wanderers:  c.Int("wanderers"),
		Seed:       c.Int64("seed"),
		DebugDir:   c.String("debug-frames"),
		DebugEvery: c.Int("debug-every"),
		Nav:        PilotOptions(),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, errors.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Pilots < 0 || cfg.Wanderers < 0 {
		return cfg, errors.New("snake counts must not be negative")
	}
	if cfg.DebugEvery <= 0 {
		return cfg, errors.Errorf("invalid debug-every %d", cfg.DebugEvery)
	}
	if path := c.String("nav-config"); path != "" {
		if err := cfg.Nav.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
