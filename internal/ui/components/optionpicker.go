package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/disha/internal/ui/theme"
)

// OptionPicker is a quiz answer selector. Unlike a graded multiple-choice
// widget it never knows which option is correct; grading happens after the
// whole quiz is answered.
type OptionPicker struct {
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
}

// NewOptionPicker creates a picker over the given options.
func NewOptionPicker(options []string) OptionPicker {
	return OptionPicker{
		Options:     options,
		Selected:    0,
		ChosenIndex: -1,
	}
}

// Init returns nil.
func (p OptionPicker) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Number keys 1-4 jump
// straight to an option and submit it.
func (p OptionPicker) Update(msg tea.Msg) (OptionPicker, tea.Cmd) {
	if p.Submitted {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "enter":
		p.Submitted = true
		p.ChosenIndex = p.Selected
	case "1", "2", "3", "4":
		i := int(key[0] - '1')
		if i < len(p.Options) {
			p.Selected = i
			p.Submitted = true
			p.ChosenIndex = i
		}
	}

	return p, nil
}

// View renders the picker.
func (p OptionPicker) View() string {
	labels := []string{"A", "B", "C", "D"}

	var s string
	for i, opt := range p.Options {
		label := labels[i%len(labels)]
		prefix := "  "
		if i == p.Selected && !p.Submitted {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case p.Submitted && i == p.ChosenIndex:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		case p.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == p.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
