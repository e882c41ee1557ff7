package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Enter          key.Binding
	Back           key.Binding
	Reload         key.Binding
	New            key.Binding
	ToggleProfiles key.Binding
	ToggleCompany  key.Binding
	NextField      key.Binding
	Toggle         key.Binding
	Submit         key.Binding
	PrevProfile    key.Binding
	NextProfile    key.Binding
}

var keys = keyMap{
	Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
	Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
	Enter:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:           key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Reload:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	New:            key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new topic")),
	ToggleProfiles: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "profile panel")),
	ToggleCompany:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "company panel")),
	NextField:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	Toggle:         key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Submit:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "create")),
	PrevProfile:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "prev profile")),
	NextProfile:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l", "next profile")),
}

// helpLine renders the short help for bindings.
func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			out += "  "
		}
		out += h.Key + " " + h.Desc
	}
	return out
}
