package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

// KeyMap defines the in-game key bindings.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	Hold      key.Binding
	Pause     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("s", "up"),
			key.WithHelp("s/↑", "soft drop"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "hard drop"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "rotate"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "rotate ccw"),
		),
		Hold: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "hold"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.HardDrop, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Hold},
		{k.Pause, k.Help, k.Quit},
	}
}

// InputController turns key presses into engine commands. Terminal key
// repeat would otherwise fire several hard drops or holds from one held key,
// so each of those is accepted at most once per tick.
type InputController struct {
	keys     KeyMap
	bindings []commandBinding
	fired    map[tetris.Command]bool
}

type commandBinding struct {
	binding key.Binding
	cmd     tetris.Command
}

// oncePerTick lists the commands subject to repeat suppression.
var oncePerTick = map[tetris.Command]bool{
	tetris.CmdHardDrop: true,
	tetris.CmdHold:     true,
}

// NewInputController creates a controller for keys.
func NewInputController(keys KeyMap) *InputController {
	return &InputController{
		keys: keys,
		bindings: []commandBinding{
			{keys.Left, tetris.CmdMoveLeft},
			{keys.Right, tetris.CmdMoveRight},
			{keys.SoftDrop, tetris.CmdSoftDrop},
			{keys.HardDrop, tetris.CmdHardDrop},
			{keys.RotateCW, tetris.CmdRotateCW},
			{keys.RotateCCW, tetris.CmdRotateCCW},
			{keys.Hold, tetris.CmdHold},
		},
		fired: make(map[tetris.Command]bool),
	}
}

// Keys returns the bindings the controller uses.
func (c *InputController) Keys() KeyMap {
	return c.keys
}

// BeginTick clears the per-tick suppression set.
func (c *InputController) BeginTick() {
	clear(c.fired)
}

// Command maps msg to an engine command. It returns tetris.CmdNone for
// unbound keys and for suppressed repeats.
func (c *InputController) Command(msg tea.KeyMsg) tetris.Command {
	for _, b := range c.bindings {
		if !key.Matches(msg, b.binding) {
			continue
		}
		if oncePerTick[b.cmd] {
			if c.fired[b.cmd] {
				return tetris.CmdNone
			}
			c.fired[b.cmd] = true
		}
		return b.cmd
	}
	return tetris.CmdNone
}
