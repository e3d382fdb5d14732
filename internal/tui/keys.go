package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/torudo-dev/torudo/internal/config"
)

// KeyMap binds board actions to keys
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Complete   key.Binding
	Reload     key.Binding
	SwitchPane key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// NewKeyMap builds bindings from the configured keys. Arrow keys and ctrl+c
// always work in addition to the configured ones.
func NewKeyMap(k config.Keymap) KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys(keys(k.Up, "up")...),
			key.WithHelp(k.Up, "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(keys(k.Down, "down")...),
			key.WithHelp(k.Down, "down"),
		),
		Left: key.NewBinding(
			key.WithKeys(keys(k.Left, "left")...),
			key.WithHelp(k.Left, "left"),
		),
		Right: key.NewBinding(
			key.WithKeys(keys(k.Right, "right")...),
			key.WithHelp(k.Right, "right"),
		),
		Complete: key.NewBinding(
			key.WithKeys(keys(k.Complete)...),
			key.WithHelp(k.Complete, "complete"),
		),
		Reload: key.NewBinding(
			key.WithKeys(keys(k.Reload)...),
			key.WithHelp(k.Reload, "reload"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys(keys(k.SwitchPane)...),
			key.WithHelp(k.SwitchPane, "switch pane"),
		),
		Help: key.NewBinding(
			key.WithKeys(keys(k.Help)...),
			key.WithHelp(k.Help, "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys(keys(k.Quit, "ctrl+c")...),
			key.WithHelp(k.Quit, "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.SwitchPane, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Complete, k.Reload, k.SwitchPane},
		{k.Help, k.Quit},
	}
}

// keys drops empty entries so an unbound action matches nothing
func keys(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
