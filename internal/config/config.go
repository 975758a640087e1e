package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "THNPLAY_CONFIG"

type Config struct {
	Playback PlaybackConfig `toml:"playback"`
	Data     DataConfig     `toml:"data"`
	Logging  LoggingConfig  `toml:"logging"`
	Database DatabaseConfig `toml:"database"`
	Viewer   ViewerConfig   `toml:"viewer"`
	Check    CheckConfig    `toml:"check"`
}

type PlaybackConfig struct {
	TickRate time.Duration `toml:"tick_rate"` // fixed simulation step
	Speed    float64       `toml:"speed"`     // playback speed multiplier
	Tail     time.Duration `toml:"tail"`      // extra time simulated after the script duration
	Realtime bool          `toml:"realtime"`  // sleep between ticks in the headless player
}

// Step is the simulated time advanced per tick: the tick rate scaled by the
// playback speed.
func (p PlaybackConfig) Step() time.Duration {
	return time.Duration(float64(p.TickRate) * p.Speed)
}

type DataConfig struct {
	Templates string `toml:"templates"`
	Scripts   string `toml:"scripts"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// DatabaseConfig configures the playback journal. An empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type ViewerConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"` // world units per pixel in the top-down view
	Title  string  `toml:"title"`
}

type CheckConfig struct {
	Workers int `toml:"workers"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return defaults()
}

// DefaultPath is read when neither a flag nor EnvPath names a config file.
const DefaultPath = "config/thnplay.toml"

// Resolve loads the config named by path, then EnvPath, then DefaultPath.
// A missing DefaultPath yields the built-in defaults; an explicitly named
// file must exist. The returned string is the file used, or empty.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		if _, err := os.Stat(DefaultPath); errors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func (c *Config) validate() error {
	if c.Playback.TickRate <= 0 {
		return fmt.Errorf("playback.tick_rate must be positive")
	}
	if c.Playback.Speed <= 0 {
		return fmt.Errorf("playback.speed must be positive")
	}
	if c.Playback.Step() < time.Nanosecond {
		return fmt.Errorf("playback.tick_rate * playback.speed is below 1ns")
	}
	if c.Check.Workers < 1 {
		return fmt.Errorf("check.workers must be at least 1")
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 || c.Viewer.Scale <= 0 {
		return fmt.Errorf("viewer width, height and scale must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Playback: PlaybackConfig{
			TickRate: time.Second / 60,
			Speed:    1.0,
			Tail:     time.Second,
		},
		Data: DataConfig{
			Templates: "data/templates.yaml",
			Scripts:   "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Viewer: ViewerConfig{
			Width:  1024,
			Height: 768,
			Scale:  2.0,
			Title:  "thnview",
		},
		Check: CheckConfig{
			Workers: 4,
		},
	}
}
