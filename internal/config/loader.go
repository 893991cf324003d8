package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTetrisYAML
}

// Load reads the configuration and applies TETRIS_* environment overrides.
// Search order: customPath -> ~/.tetris/configs/tetris.yaml -> ./configs/tetris.yaml -> embedded default
func Load(customPath string) (TetrisConfig, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}
	cfg.sanitize()
	return cfg, nil
}

func loadFile(customPath string) (TetrisConfig, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("tetris.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "tetris.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	if err := yaml.Unmarshal(defaultTetrisYAML, &cfg); err != nil {
		return Default(), nil
	}
	return cfg, nil
}

// userConfigPath returns the path of a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris", "configs", filename)
}

// sanitize replaces out-of-range values with defaults.
func (c *TetrisConfig) sanitize() {
	def := Default()
	if c.Difficulty.MaxLevel <= 0 {
		c.Difficulty.MaxLevel = def.Difficulty.MaxLevel
	}
	if c.Gameplay.StartLevel < 0 {
		c.Gameplay.StartLevel = 0
	}
	if c.Gameplay.StartLevel > c.Difficulty.MaxLevel {
		c.Gameplay.StartLevel = c.Difficulty.MaxLevel
	}
	if c.Gameplay.PrefilledRows < 0 {
		c.Gameplay.PrefilledRows = 0
	}
	if c.Difficulty.LinesPerLevel <= 0 {
		c.Difficulty.LinesPerLevel = def.Difficulty.LinesPerLevel
	}
	if c.Difficulty.BaseGravity <= 0 {
		c.Difficulty.BaseGravity = def.Difficulty.BaseGravity
	}
	if c.Difficulty.MinGravity <= 0 || c.Difficulty.MinGravity > c.Difficulty.BaseGravity {
		c.Difficulty.MinGravity = def.Difficulty.MinGravity
	}
	if c.Difficulty.GravityDecay < 0 || c.Difficulty.GravityDecay >= 1 {
		c.Difficulty.GravityDecay = def.Difficulty.GravityDecay
	}
	if c.Gameplay.LockDelay <= 0 {
		c.Gameplay.LockDelay = def.Gameplay.LockDelay
	}
	if c.Network.HeartbeatInterval <= 0 {
		c.Network.HeartbeatInterval = def.Network.HeartbeatInterval
	}
	if c.Network.HeartbeatTimeout <= c.Network.HeartbeatInterval {
		c.Network.HeartbeatTimeout = 5 * c.Network.HeartbeatInterval
	}
	if c.Network.DialTimeout <= 0 {
		c.Network.DialTimeout = def.Network.DialTimeout
	}
	c.Player.Name = ClampName(c.Player.Name)
}
