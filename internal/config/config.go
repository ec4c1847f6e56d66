// Package config loads dossier settings from defaults, an optional YAML
// file and DOSSIER_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/profile"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, so
// engine.hybrid_threshold is read from DOSSIER_ENGINE_HYBRID_THRESHOLD.
const EnvPrefix = "DOSSIER"

// DefaultDirName is the data directory created under $HOME.
const DefaultDirName = ".dossier"

// DefaultOverrideCacheSize bounds the generator memo.
const DefaultOverrideCacheSize = 256

// DefaultSamplingTimeout bounds one sampling round trip to the client.
const DefaultSamplingTimeout = 10 * time.Second

// Config is the full runtime configuration.
type Config struct {
	DataDir           string `mapstructure:"data_dir"`
	Seed              uint64 `mapstructure:"seed"`
	MetricsAddr       string `mapstructure:"metrics_addr"`
	OverrideCacheSize int    `mapstructure:"override_cache_size"`
	// Sampling asks the connected client's model for reaction text. Off by
	// default: clients without sampling support would stall each answer
	// until SamplingTimeout.
	Sampling        bool          `mapstructure:"sampling"`
	SamplingTimeout time.Duration `mapstructure:"sampling_timeout"`
	Engine          EngineConfig  `mapstructure:"engine"`
}

// EngineConfig tunes classification and narrative selection.
type EngineConfig struct {
	HybridThreshold     int     `mapstructure:"hybrid_threshold"`
	TopN                int     `mapstructure:"top_n"`
	TraitHighPercent    int     `mapstructure:"trait_high_percent"`
	TraitLowPercent     int     `mapstructure:"trait_low_percent"`
	PatternFlavorChance float64 `mapstructure:"pattern_flavor_chance"`
	IntroChance         float64 `mapstructure:"intro_chance"`
	ClearanceThresholds []int   `mapstructure:"clearance_thresholds"`
}

// Load reads configuration. An empty path looks for config.yaml in the
// data directory; a missing file there is not an error, but a missing
// explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("seed", 0)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("override_cache_size", DefaultOverrideCacheSize)
	v.SetDefault("sampling", false)
	v.SetDefault("sampling_timeout", DefaultSamplingTimeout)
	v.SetDefault("engine.hybrid_threshold", profile.DefaultHybridThreshold)
	v.SetDefault("engine.top_n", narrative.DefaultTopN)
	v.SetDefault("engine.trait_high_percent", narrative.DefaultHighPercent)
	v.SetDefault("engine.trait_low_percent", narrative.DefaultLowPercent)
	v.SetDefault("engine.pattern_flavor_chance", narrative.DefaultPatternFlavorChance)
	v.SetDefault("engine.intro_chance", narrative.DefaultIntroChance)
	v.SetDefault("engine.clearance_thresholds", profile.DefaultClearanceThresholds)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// Validate rejects settings the engine cannot honor.
func (c *Config) Validate() error {
	e := c.Engine
	if c.OverrideCacheSize < 0 {
		return fmt.Errorf("config: override_cache_size must not be negative, got %d", c.OverrideCacheSize)
	}
	if c.Sampling && c.SamplingTimeout <= 0 {
		return fmt.Errorf("config: sampling_timeout must be positive when sampling is on, got %s", c.SamplingTimeout)
	}
	if e.HybridThreshold < 1 || e.HybridThreshold > 100 {
		return fmt.Errorf("config: engine.hybrid_threshold must be within 1..100, got %d", e.HybridThreshold)
	}
	if e.TopN < 1 {
		return fmt.Errorf("config: engine.top_n must be at least 1, got %d", e.TopN)
	}
	if e.TraitLowPercent < 0 || e.TraitHighPercent > 100 || e.TraitLowPercent >= e.TraitHighPercent {
		return fmt.Errorf("config: trait levels need 0 <= low < high <= 100, got low %d high %d",
			e.TraitLowPercent, e.TraitHighPercent)
	}
	for name, p := range map[string]float64{
		"engine.pattern_flavor_chance": e.PatternFlavorChance,
		"engine.intro_chance":          e.IntroChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("config: %s must be within [0,1], got %v", name, p)
		}
	}
	if want := len(profile.Ladder) - 1; len(e.ClearanceThresholds) != want {
		return fmt.Errorf("config: engine.clearance_thresholds needs %d values, got %d", want, len(e.ClearanceThresholds))
	}
	for i := 1; i < len(e.ClearanceThresholds); i++ {
		if e.ClearanceThresholds[i] <= e.ClearanceThresholds[i-1] {
			return fmt.Errorf("config: engine.clearance_thresholds must be strictly ascending, got %v", e.ClearanceThresholds)
		}
	}
	return nil
}

// EngineConfig converts the settings for engine.New. Chances and trait
// levels are always explicit so a configured 0 is honored.
func (c *Config) EngineConfig() engine.Config {
	e := c.Engine
	return engine.Config{
		HybridThreshold:     e.HybridThreshold,
		TopN:                e.TopN,
		TraitHighPercent:    e.TraitHighPercent,
		TraitLowPercent:     e.TraitLowPercent,
		PatternFlavorChance: e.PatternFlavorChance,
		IntroChance:         e.IntroChance,
		ChancesSet:          true,
		LevelsSet:           true,
		ClearanceThresholds: append([]int(nil), e.ClearanceThresholds...),
	}
}
