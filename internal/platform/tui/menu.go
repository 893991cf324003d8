package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuChoice is what the player picked in the menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoiceMarathon
	MenuChoiceHost
	MenuChoiceJoin
	MenuChoiceScores
	MenuChoiceQuit
)

// MenuItem is one selectable menu line.
type MenuItem struct {
	Title  string
	Choice MenuChoice
}

// MenuKeyMap defines the key bindings for menus.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns the default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	keys     MenuKeyMap
	width    int
	height   int
	embedded bool

	addrInput    textinput.Model
	enteringAddr bool

	chosen  MenuChoice
	address string
}

// NewMenuModel creates the local menu with two-player entries. defaultAddr
// pre-fills the join prompt.
func NewMenuModel(width, height int, defaultAddr string) MenuModel {
	items := []MenuItem{
		{Title: "Marathon", Choice: MenuChoiceMarathon},
		{Title: "Host a match", Choice: MenuChoiceHost},
		{Title: "Join a match", Choice: MenuChoiceJoin},
		{Title: "High scores", Choice: MenuChoiceScores},
		{Title: "Quit", Choice: MenuChoiceQuit},
	}
	return newMenuModel(items, width, height, defaultAddr)
}

// NewSessionMenuModel creates the menu shown to SSH sessions, which only
// play single-player games.
func NewSessionMenuModel(width, height int) MenuModel {
	items := []MenuItem{
		{Title: "Marathon", Choice: MenuChoiceMarathon},
		{Title: "High scores", Choice: MenuChoiceScores},
		{Title: "Quit", Choice: MenuChoiceQuit},
	}
	m := newMenuModel(items, width, height, "")
	m.embedded = true
	return m
}

func newMenuModel(items []MenuItem, width, height int, defaultAddr string) MenuModel {
	ai := textinput.New()
	ai.Prompt = "Host address: "
	ai.Placeholder = "127.0.0.1:8080"
	ai.SetValue(defaultAddr)
	ai.CharLimit = 64

	return MenuModel{
		items:     items,
		keys:      DefaultMenuKeyMap(),
		width:     width,
		height:    height,
		addrInput: ai,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.enteringAddr {
			return m.handleAddrKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.enteringAddr {
		var cmd tea.Cmd
		m.addrInput, cmd = m.addrInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.choose(MenuChoiceQuit)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) == 0 {
			return m, nil
		}
		choice := m.items[m.cursor].Choice
		if choice == MenuChoiceJoin {
			m.enteringAddr = true
			m.addrInput.CursorEnd()
			return m, m.addrInput.Focus()
		}
		return m.choose(choice)
	}

	return m, nil
}

func (m MenuModel) handleAddrKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		addr := strings.TrimSpace(m.addrInput.Value())
		if addr == "" {
			addr = m.addrInput.Placeholder
		}
		m.address = addr
		m.enteringAddr = false
		m.addrInput.Blur()
		return m.choose(MenuChoiceJoin)
	case tea.KeyEsc:
		m.enteringAddr = false
		m.addrInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m.choose(MenuChoiceQuit)
	}

	var cmd tea.Cmd
	m.addrInput, cmd = m.addrInput.Update(msg)
	return m, cmd
}

func (m MenuModel) choose(c MenuChoice) (tea.Model, tea.Cmd) {
	m.chosen = c
	if m.embedded {
		return m, nil
	}
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.chosen != MenuChoiceNone && !m.embedded {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("T E T R I S", m.width)))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = titleStyle
		}
		b.WriteString(centerText(style.Render(cursor+item.Title), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.enteringAddr {
		b.WriteString(centerText(m.addrInput.View(), m.width))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(centerText("enter: connect  esc: back", m.width)))
	} else {
		b.WriteString(statusStyle.Render(centerText("↑/↓: navigate  enter: select  q: quit", m.width)))
	}
	b.WriteString("\n")

	return b.String()
}

// Chosen returns the picked entry, or MenuChoiceNone while the menu is open.
func (m MenuModel) Chosen() MenuChoice {
	return m.chosen
}

// Address returns the host address entered for MenuChoiceJoin.
func (m MenuModel) Address() string {
	return m.address
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice  MenuChoice
	Address string
	Width   int
	Height  int
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(width, height int, defaultAddr string) (MenuResult, error) {
	model := NewMenuModel(width, height, defaultAddr)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return MenuResult{Choice: MenuChoiceQuit}, err
	}

	m, ok := final.(MenuModel)
	if !ok || m.Chosen() == MenuChoiceNone {
		return MenuResult{Choice: MenuChoiceQuit, Width: width, Height: height}, nil
	}

	return MenuResult{
		Choice:  m.Chosen(),
		Address: m.Address(),
		Width:   m.width,
		Height:  m.height,
	}, nil
}
