package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Stop       key.Binding
	Reset      key.Binding
	Category   key.Binding
	Difficulty key.Binding
	Notes      key.Binding
	Yes        key.Binding
	No         key.Binding
	NextView   key.Binding
	Up         key.Binding
	Down       key.Binding
	Delete     key.Binding
	Clear      key.Binding
	Suspend    key.Binding
	Help       key.Binding
	Quit       key.Binding

	prevCategory   key.Binding
	nextCategory   key.Binding
	prevDifficulty key.Binding
	nextDifficulty key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Stop:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Category:   key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "category")),
		Difficulty: key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "difficulty")),
		Notes:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit notes")),
		Yes:        key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "save")),
		No:         key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "discard")),
		NextView:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "timer/history/stats")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Clear:      key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Suspend:    key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		prevCategory:   key.NewBinding(key.WithKeys("left")),
		nextCategory:   key.NewBinding(key.WithKeys("right")),
		prevDifficulty: key.NewBinding(key.WithKeys("-")),
		nextDifficulty: key.NewBinding(key.WithKeys("+", "=")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Stop, k.Category, k.Difficulty, k.NextView, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Stop, k.Reset, k.Suspend},
		{k.Category, k.Difficulty, k.Notes},
		{k.NextView, k.Up, k.Down, k.Delete, k.Clear},
		{k.Help, k.Quit},
	}
}
