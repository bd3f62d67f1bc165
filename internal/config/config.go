// Package config loads runtime configuration from townsim.yaml, the
// environment, and built-in defaults, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete runner configuration.
type Config struct {
	World    WorldConfig    `mapstructure:"world"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Sim      SimConfig      `mapstructure:"sim"`
	Log      LogConfig      `mapstructure:"log"`
}

// WorldConfig controls world bootstrap.
type WorldConfig struct {
	Name           string  `mapstructure:"name"`
	Seed           int64   `mapstructure:"seed"`
	Population     int     `mapstructure:"population"`
	MoraleBaseline float64 `mapstructure:"morale_baseline"`
	// RandomOrgKey enables the pooled true-randomness source; empty
	// uses the seeded source.
	RandomOrgKey string `mapstructure:"random_org_key"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// SimConfig controls the run loop.
type SimConfig struct {
	// StepIntervalMS is the wall-clock pause between timesteps in run
	// mode. 0 runs flat out.
	StepIntervalMS int `mapstructure:"step_interval_ms"`
	// SaveEvery is the number of timesteps between world saves.
	SaveEvery int `mapstructure:"save_every"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Load reads configuration: defaults, then townsim.yaml from the working
// directory if present, then TOWNSIM_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("townsim")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("TOWNSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadFromPath reads configuration from an explicit file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("world.name", "Oakvale")
	v.SetDefault("world.seed", 42)
	v.SetDefault("world.population", 120)
	v.SetDefault("world.morale_baseline", 50.0)

	v.SetDefault("database.path", "data/townsim.db")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	v.SetDefault("sim.step_interval_ms", 250)
	v.SetDefault("sim.save_every", 30)

	v.SetDefault("log.level", "info")
}

func validate(cfg *Config) error {
	if cfg.World.Population < 2 {
		return fmt.Errorf("world.population must be at least 2, got %d", cfg.World.Population)
	}
	if cfg.World.MoraleBaseline < 0 || cfg.World.MoraleBaseline > 100 {
		return fmt.Errorf("world.morale_baseline must be in [0, 100], got %f", cfg.World.MoraleBaseline)
	}
	if cfg.Sim.SaveEvery < 1 {
		return fmt.Errorf("sim.save_every must be positive, got %d", cfg.Sim.SaveEvery)
	}
	return nil
}
