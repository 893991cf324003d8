// Package config loads tetris settings from YAML with embedded defaults and
// TETRIS_* environment overrides, and maps difficulty presets onto them.
package config

import "time"

// TetrisConfig is the full game configuration.
type TetrisConfig struct {
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Network    NetworkConfig    `yaml:"network"`
	Player     PlayerConfig     `yaml:"player"`
}

// GameplayConfig holds per-match rules.
type GameplayConfig struct {
	StartLevel    int           `yaml:"start_level" env:"TETRIS_START_LEVEL"`
	PrefilledRows int           `yaml:"prefilled_rows" env:"TETRIS_PREFILLED_ROWS"`
	Previews      int           `yaml:"previews"`
	LockDelay     time.Duration `yaml:"lock_delay" env:"TETRIS_LOCK_DELAY"`
	MaxLockResets int           `yaml:"max_lock_resets"`
}

// DifficultyConfig controls gravity and level progression.
type DifficultyConfig struct {
	Progression   bool          `yaml:"progression"`
	BaseGravity   time.Duration `yaml:"base_gravity"`
	MinGravity    time.Duration `yaml:"min_gravity"`
	GravityDecay  float64       `yaml:"gravity_decay"`
	LinesPerLevel int           `yaml:"lines_per_level"`
	MaxLevel      int           `yaml:"max_level"`
}

// NetworkConfig holds the two-player link settings.
type NetworkConfig struct {
	ListenAddr        string        `yaml:"listen_addr" env:"TETRIS_LISTEN_ADDR"`
	DialTimeout       time.Duration `yaml:"dial_timeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" env:"TETRIS_HEARTBEAT_INTERVAL"`
	HeartbeatTimeout  time.Duration `yaml:"heartbeat_timeout" env:"TETRIS_HEARTBEAT_TIMEOUT"`
}

// PlayerConfig identifies the local player in score tables.
type PlayerConfig struct {
	Name string `yaml:"name" env:"TETRIS_PLAYER_NAME"`
}

// MaxNameLength bounds player names stored with high scores, in characters.
const MaxNameLength = 12

// ClampName cuts name to MaxNameLength characters without splitting one.
func ClampName(name string) string {
	r := []rune(name)
	if len(r) <= MaxNameLength {
		return name
	}
	return string(r[:MaxNameLength])
}

// Default returns the built-in configuration, matching defaults/tetris.yaml.
func Default() TetrisConfig {
	return TetrisConfig{
		Gameplay: GameplayConfig{
			StartLevel:    0,
			PrefilledRows: 0,
			Previews:      3,
			LockDelay:     500 * time.Millisecond,
			MaxLockResets: 15,
		},
		Difficulty: DifficultyConfig{
			Progression:   true,
			BaseGravity:   500 * time.Millisecond,
			MinGravity:    50 * time.Millisecond,
			GravityDecay:  0.1,
			LinesPerLevel: 20,
			MaxLevel:      20,
		},
		Network: NetworkConfig{
			ListenAddr:        ":8080",
			DialTimeout:       10 * time.Second,
			HeartbeatInterval: time.Second,
			HeartbeatTimeout:  5 * time.Second,
		},
	}
}
