package config

import "github.com/vovakirdan/tui-tetris/internal/games/tetris"

// EngineOptions builds engine rules from the gameplay and difficulty
// settings.
func (c TetrisConfig) EngineOptions(seed int64) tetris.Options {
	opts := tetris.DefaultOptions()
	opts.Seed = seed
	opts.StartLevel = c.Gameplay.StartLevel
	opts.PrefilledRows = c.Gameplay.PrefilledRows
	opts.FixedLevel = !c.Difficulty.Progression
	opts.LockDelay = c.Gameplay.LockDelay
	opts.MaxLockResets = c.Gameplay.MaxLockResets
	opts.Previews = c.Gameplay.Previews
	opts.BaseGravity = c.Difficulty.BaseGravity
	opts.MinGravity = c.Difficulty.MinGravity
	opts.GravityDecay = c.Difficulty.GravityDecay
	opts.LinesPerLevel = c.Difficulty.LinesPerLevel
	opts.MaxLevel = c.Difficulty.MaxLevel
	return opts
}
