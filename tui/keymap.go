package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	quit, forceQuit,
	search, confirm, cancel,
	retry key.Binding
}

func newKeymap() keymap {
	return keymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "new search"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
	}
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.retry}
}
