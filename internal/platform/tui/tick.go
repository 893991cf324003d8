// Package tui runs the game in the terminal with Bubble Tea: the match loop,
// key handling, the connect screen for two-player games, menus, the score
// tables and the SSH server that hosts single-player sessions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one match tick. It carries the wall-clock time the tick
// fired; its monotonic reading is what the match measures deltas with.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
