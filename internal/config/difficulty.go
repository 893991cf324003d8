package config

import "fmt"

// DifficultyPreset is a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name means no preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// StartLevelForPreset returns the start level a preset implies.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 5
	case DifficultyHard:
		return 10
	default:
		return 0
	}
}

// IsFixedPreset reports whether the preset disables level progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies cfg for a difficulty preset. The fixed preset keeps
// the configured start level and turns progression off.
func ApplyPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Difficulty.Progression = false
		return
	}
	cfg.Difficulty.Progression = true
	cfg.Gameplay.StartLevel = StartLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.LockDelay = cfg.Gameplay.LockDelay * 3 / 2
	case DifficultyHard:
		cfg.Gameplay.MaxLockResets = cfg.Gameplay.MaxLockResets / 2
	}
}
