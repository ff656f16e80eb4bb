package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders a bot reply as markdown
// using glamour, so formatted option lists and emphasis survive the
// terminal.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(78),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
