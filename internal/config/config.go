package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Database paths
	SQLitePath string `mapstructure:"sqlite-path"`
	FSMDBPath  string `mapstructure:"fsm-db-path"`

	// S3 configuration
	S3Bucket string `mapstructure:"s3-bucket"`
	S3Region string `mapstructure:"s3-region"`

	// Working directory
	WorkDir string `mapstructure:"work-dir"`

	// G-code emission
	Firmware      string  `mapstructure:"firmware"`
	TravelSpeed   float64 `mapstructure:"travel-speed"`
	DwellTime     int     `mapstructure:"dwell-time"`
	RetractLength float64 `mapstructure:"retract-length"`
	RetractSpeed  float64 `mapstructure:"retract-speed"`
	ZHopHeight    float64 `mapstructure:"z-hop-height"`

	// Snapshot scheduling
	Generator  string `mapstructure:"generator"`
	Snapshots  int    `mapstructure:"snapshots"`
	FirstLayer int    `mapstructure:"first-layer"`

	// Orbit path
	OrbitRadius      float64 `mapstructure:"orbit-radius"`
	Orbits           int     `mapstructure:"orbits"`
	SnapshotsPerLoop int     `mapstructure:"snapshots-per-loop"`
	StartAngle       float64 `mapstructure:"start-angle"`
	CenterOnModel    bool    `mapstructure:"center-on-model"`
	FixedZ           float64 `mapstructure:"fixed-z"`
	UseFixedZ        bool    `mapstructure:"use-fixed-z"`

	// Arc path
	StartCorner        string  `mapstructure:"start-corner"`
	EndCorner          string  `mapstructure:"end-corner"`
	VerticalFraction   float64 `mapstructure:"vertical-fraction"`
	HorizontalFraction float64 `mapstructure:"horizontal-fraction"`
	ControlOffsetH     float64 `mapstructure:"control-offset-h"`
	ControlOffsetV     float64 `mapstructure:"control-offset-v"`

	// Shared path options
	ZOffset       float64 `mapstructure:"z-offset"`
	ZFollowFactor float64 `mapstructure:"z-follow-factor"`

	// Security limits
	MaxFileSize   int64 `mapstructure:"max-file-size"`
	MaxLineLength int   `mapstructure:"max-line-length"`
	MaxLineCount  int   `mapstructure:"max-line-count"`

	// FSM configuration
	FSMMaxRetries int `mapstructure:"fsm-max-retries"`
}

// Load reads configuration from environment, config file, and defaults
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("sqlite-path", ".artifacts/printpath.db")
	viper.SetDefault("fsm-db-path", ".artifacts/fsm.db")
	viper.SetDefault("s3-bucket", "")
	viper.SetDefault("s3-region", "us-east-1")
	viper.SetDefault("work-dir", "/tmp/printpath")

	viper.SetDefault("firmware", "")
	viper.SetDefault("travel-speed", 9000.0)
	viper.SetDefault("dwell-time", 500)
	viper.SetDefault("retract-length", 0.5)
	viper.SetDefault("retract-speed", 40.0)
	viper.SetDefault("z-hop-height", 0.2)

	viper.SetDefault("generator", "orbit")
	viper.SetDefault("snapshots", 0)
	viper.SetDefault("first-layer", 1)

	viper.SetDefault("orbit-radius", 30.0)
	viper.SetDefault("orbits", 1)
	viper.SetDefault("snapshots-per-loop", 5)
	viper.SetDefault("start-angle", 0.0)
	viper.SetDefault("center-on-model", true)
	viper.SetDefault("fixed-z", 0.0)
	viper.SetDefault("use-fixed-z", false)

	viper.SetDefault("start-corner", "front-left")
	viper.SetDefault("end-corner", "back-right")
	viper.SetDefault("vertical-fraction", 0.2)
	viper.SetDefault("horizontal-fraction", 0.2)
	viper.SetDefault("control-offset-h", 0.0)
	viper.SetDefault("control-offset-v", 0.0)

	viper.SetDefault("z-offset", 0.0)
	viper.SetDefault("z-follow-factor", 1.0)

	viper.SetDefault("max-file-size", 512*1024*1024)
	viper.SetDefault("max-line-length", 16*1024)
	viper.SetDefault("max-line-count", 20_000_000)

	viper.SetDefault("fsm-max-retries", 5)

	// Environment variables (will be PRINTPATH_SQLITE_PATH, etc.)
	viper.SetEnvPrefix("PRINTPATH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Config file (optional)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.printpath")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()

	// Unmarshal into config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration for plumbing errors. Geometry options are
// clamped by Normalize rather than rejected here.
func (c *Config) Validate() error {
	if c.SQLitePath == "" {
		return fmt.Errorf("sqlite-path cannot be empty")
	}
	if c.FSMDBPath == "" {
		return fmt.Errorf("fsm-db-path cannot be empty")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("work-dir cannot be empty")
	}
	if c.Generator != "orbit" && c.Generator != "arc" {
		return fmt.Errorf("generator must be orbit or arc, got %q", c.Generator)
	}
	if c.Firmware != "" && c.Firmware != "klipper" && c.Firmware != "marlin" {
		return fmt.Errorf("firmware must be klipper or marlin, got %q", c.Firmware)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max-file-size must be positive")
	}
	if c.MaxLineLength <= 0 {
		return fmt.Errorf("max-line-length must be positive")
	}
	if c.MaxLineCount <= 0 {
		return fmt.Errorf("max-line-count must be positive")
	}
	if c.FSMMaxRetries < 0 {
		return fmt.Errorf("fsm-max-retries must be non-negative")
	}
	return nil
}

// Normalize clamps out-of-range geometry and emission options to safe
// values, logging a warning for each adjustment.
func (c *Config) Normalize() {
	if c.TravelSpeed <= 0 {
		slog.Warn("config_clamped", "key", "travel-speed", "from", c.TravelSpeed, "to", 9000.0)
		c.TravelSpeed = 9000.0
	}
	if c.DwellTime < 0 {
		slog.Warn("config_clamped", "key", "dwell-time", "from", c.DwellTime, "to", 0)
		c.DwellTime = 0
	}
	if c.RetractLength < 0 {
		slog.Warn("config_clamped", "key", "retract-length", "from", c.RetractLength, "to", 0.0)
		c.RetractLength = 0
	}
	if c.RetractSpeed <= 0 && c.RetractLength > 0 {
		slog.Warn("config_clamped", "key", "retract-speed", "from", c.RetractSpeed, "to", 40.0)
		c.RetractSpeed = 40.0
	}
	if c.ZHopHeight < 0 {
		slog.Warn("config_clamped", "key", "z-hop-height", "from", c.ZHopHeight, "to", 0.0)
		c.ZHopHeight = 0
	}
	if c.FirstLayer < 0 {
		slog.Warn("config_clamped", "key", "first-layer", "from", c.FirstLayer, "to", 0)
		c.FirstLayer = 0
	}
	if c.Orbits < 1 {
		slog.Warn("config_clamped", "key", "orbits", "from", c.Orbits, "to", 1)
		c.Orbits = 1
	}
	if c.SnapshotsPerLoop < 1 {
		slog.Warn("config_clamped", "key", "snapshots-per-loop", "from", c.SnapshotsPerLoop, "to", 1)
		c.SnapshotsPerLoop = 1
	}
	if c.OrbitRadius < 0 {
		slog.Warn("config_clamped", "key", "orbit-radius", "from", c.OrbitRadius, "to", 0.0)
		c.OrbitRadius = 0
	}
}
