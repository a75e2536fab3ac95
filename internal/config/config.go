// Package config provides the product-tunable progression constants and
// TOML parsing for overriding them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Tunables are the resolved progression constants. The leveling curve and
// hatch duration are deliberately configuration, not code constants.
type Tunables struct {
	// XPBase and XPGrowth define the per-level XP threshold:
	// required(level) = XPBase * level^XPGrowth.
	XPBase   float64
	XPGrowth float64

	// HatchDuration is the wall-clock wait between purchasing a pet and
	// it becoming ready to reveal.
	HatchDuration time.Duration

	// StreakFreezeEnabled allows one missed day to be bridged instead of
	// resetting the streak.
	StreakFreezeEnabled bool
}

// Default returns the shipped tunables.
func Default() Tunables {
	return Tunables{
		XPBase:              100,
		XPGrowth:            1.5,
		HatchDuration:       24 * time.Hour,
		StreakFreezeEnabled: true,
	}
}

// Validate rejects tunables the engine cannot run on.
func (t Tunables) Validate() error {
	if t.XPBase <= 0 {
		return fmt.Errorf("leveling base must be positive, got %v", t.XPBase)
	}
	if t.XPGrowth <= 0 {
		return fmt.Errorf("leveling growth must be positive, got %v", t.XPGrowth)
	}
	if t.HatchDuration <= 0 {
		return fmt.Errorf("hatch duration must be positive, got %v", t.HatchDuration)
	}
	return nil
}

// FileConfig represents the TOML configuration file. All fields are
// optional; unset fields keep their defaults.
type FileConfig struct {
	Leveling LevelingConfig `toml:"leveling"`
	Pets     PetsConfig     `toml:"pets"`
	Streak   StreakConfig   `toml:"streak"`
}

// LevelingConfig maps leveling-curve settings.
type LevelingConfig struct {
	Base   *float64 `toml:"base"`
	Growth *float64 `toml:"growth"`
}

// PetsConfig maps pet-hatching settings.
type PetsConfig struct {
	HatchDuration *string `toml:"hatch-duration"`
}

// StreakConfig maps streak settings.
type StreakConfig struct {
	FreezeEnabled *bool `toml:"freeze-enabled"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".realcalender", "progression.toml"), nil
}

// Load reads the TOML config at path and applies it over the defaults.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (Tunables, error) {
	t := Default()
	if path == "" {
		return t, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("stat config: %w", err)
	}

	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return t, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Leveling.Base != nil {
		t.XPBase = *cfg.Leveling.Base
	}
	if cfg.Leveling.Growth != nil {
		t.XPGrowth = *cfg.Leveling.Growth
	}
	if cfg.Pets.HatchDuration != nil {
		d, err := time.ParseDuration(*cfg.Pets.HatchDuration)
		if err != nil {
			return t, fmt.Errorf("parse hatch-duration: %w", err)
		}
		t.HatchDuration = d
	}
	if cfg.Streak.FreezeEnabled != nil {
		t.StreakFreezeEnabled = *cfg.Streak.FreezeEnabled
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("config %s: %w", path, err)
	}
	return t, nil
}
