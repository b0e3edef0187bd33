package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/disha/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a minimal thinking indicator driven by an external tick count.
type Spinner struct {
	Label string
}

// View renders the spinner frame for the given tick.
func (s Spinner) View(tick int) string {
	frame := spinnerFrames[tick%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(frame) +
		" " +
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(s.Label)
}
