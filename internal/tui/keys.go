package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Toggle   key.Binding
	Open     key.Binding
	Copy     key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Links    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Expand:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		Collapse: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Links:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "links")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Open, k.Filter, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Toggle, k.Expand, k.Collapse, k.Links},
		{k.Open, k.Copy, k.Filter, k.Refresh},
		{k.Help, k.Quit},
	}
}
