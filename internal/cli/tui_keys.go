package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
)

// tuiKeyMap holds the TUI bindings. Printable keys always go to the chat
// input, so timer controls use ctrl chords.
type tuiKeyMap struct {
	Send       key.Binding
	Toggle     key.Binding
	Restart    key.Binding
	Flip       key.Binding
	Voice      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func defaultTUIKeys() tuiKeyMap {
	return tuiKeyMap{
		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Toggle:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "start/pause")),
		Restart:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "restart")),
		Flip:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "flip card")),
		Voice:      key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "voice")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp returns the bindings shown in the bottom bar.
func (k tuiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Toggle, k.Restart, k.Flip, k.Voice, k.Quit}
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, formatter.StyleFg.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}
