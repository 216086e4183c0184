package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/gerunddev/vaultview/internal/config"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding
	Back     key.Binding
	Outline  key.Binding
	Switch   key.Binding
	Reload   key.Binding
	Vaults   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// newKeyMap resolves configured keys per action, falling back to the
// defaults for actions the configuration leaves out
func newKeyMap(bindings map[string][]string) keyMap {
	defaults := config.DefaultKeyBindings()
	bind := func(action, help string) key.Binding {
		keys := bindings[action]
		if len(keys) == 0 {
			keys = defaults[action]
		}
		return key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(helpKeys(keys), help),
		)
	}

	return keyMap{
		Up:       bind(config.ActionUp, "up"),
		Down:     bind(config.ActionDown, "down"),
		PageUp:   bind(config.ActionPageUp, "page up"),
		PageDown: bind(config.ActionPageDown, "page down"),
		Top:      bind(config.ActionTop, "top"),
		Bottom:   bind(config.ActionBottom, "bottom"),
		Open:     bind(config.ActionOpen, "open"),
		Back:     bind(config.ActionBack, "back"),
		Outline:  bind(config.ActionOutline, "outline"),
		Switch:   bind(config.ActionSwitch, "switch pane"),
		Reload:   bind(config.ActionReload, "reload"),
		Vaults:   bind(config.ActionVaults, "vaults"),
		Help:     bind(config.ActionHelp, "help"),
		Quit:     bind(config.ActionQuit, "quit"),
	}
}

var keyNames = map[string]string{
	"up":     "↑",
	"down":   "↓",
	"left":   "←",
	"right":  "→",
	" ":      "space",
	"pgup":   "pgup",
	"pgdown": "pgdn",
}

func helpKeys(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		if n, ok := keyNames[k]; ok {
			k = n
		}
		names[i] = k
	}
	return strings.Join(names, "/")
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Outline, k.Switch, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Open, k.Back, k.Switch, k.Outline},
		{k.Reload, k.Vaults, k.Help, k.Quit},
	}
}
