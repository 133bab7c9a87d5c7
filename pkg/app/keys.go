package app

import (
	"github.com/charmbracelet/bubbles/key"

	"gitlab.com/tinyland/lab/teamkit/pkg/focus"
)

// KeyMap lists the bindings shown in the help line. Dispatch itself goes
// through the host; these exist for display and for the few global keys.
type KeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Close    key.Binding
	Help     key.Binding
	Quit     key.Binding
	Menu     focus.KeyMap
}

// DefaultKeyMap returns the demo bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
		Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "activate")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Menu:     focus.MenuKeys(),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Activate, k.Close, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Activate, k.Close},
		{k.Menu.Next, k.Menu.Prev, k.Menu.First, k.Menu.Last},
		{k.Help, k.Quit},
	}
}
