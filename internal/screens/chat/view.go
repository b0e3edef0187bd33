package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/disha/internal/dialogue"
	"github.com/abhisek/disha/internal/quiz"
	"github.com/abhisek/disha/internal/report"
	"github.com/abhisek/disha/internal/ui/components"
	"github.com/abhisek/disha/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	transcript := s.controller.Transcript()

	var b strings.Builder
	for i := range transcript {
		b.WriteString(s.renderMessage(&transcript[i], width))
		b.WriteString("\n")
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")

	inputArea := s.renderInputArea(width)
	inputHeight := lipgloss.Height(inputArea)

	visible := height - inputHeight - 1
	if visible < 1 {
		visible = 1
	}

	// Clamp scroll so the window stays inside the transcript.
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}

	end := len(lines) - s.scroll
	start := end - visible
	if start < 0 {
		start = 0
	}
	window := strings.Join(lines[start:end], "\n")

	pad := visible - (end - start)
	if pad > 0 {
		window = strings.Repeat("\n", pad) + window
	}

	return window + "\n\n" + inputArea
}

func (s *ChatScreen) renderInputArea(width int) string {
	if s.recording {
		dot := lipgloss.NewStyle().Foreground(theme.Error).Render("●")
		return "  " + dot + " recording — press Ctrl+R to send"
	}
	if s.waiting {
		spinner := components.Spinner{Label: s.waitingLabel()}
		return "  " + spinner.View(s.spinnerTick)
	}
	if s.pickerOpen {
		return s.picker.View()
	}
	return "  " + s.input.View()
}

func (s *ChatScreen) waitingLabel() string {
	switch s.controller.State() {
	case dialogue.StateGeneratingQuiz:
		return "preparing your quiz..."
	case dialogue.StateAnalyzingQuiz:
		return "scoring your answers..."
	default:
		return "thinking..."
	}
}

func (s *ChatScreen) renderMessage(m *dialogue.Message, width int) string {
	bubbleWidth := width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = width - 4
	}

	var body strings.Builder
	body.WriteString(m.Body)
	if m.Options != nil && m.Options.Answered {
		body.WriteString("\n")
		body.WriteString(renderAnsweredOptions(m.Options))
	}
	if m.Analysis != nil {
		body.WriteString("\n\n")
		body.WriteString(renderAnalysis(m.Analysis))
	}
	if m.Roadmap != nil {
		body.WriteString("\n\n")
		body.WriteString(renderRoadmap(m.Roadmap))
	}

	if m.Sender == dialogue.SenderUser {
		bubble := theme.UserBubble.Width(bubbleWidth).Render(body.String())
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(bubble)
	}

	label := theme.SenderLabel.Render("Disha")
	bubble := theme.AssistantBubble.Width(bubbleWidth).Render(body.String())
	return label + "\n" + bubble
}

func renderAnsweredOptions(os *dialogue.OptionSet) string {
	labels := []string{"A", "B", "C", "D"}
	var b strings.Builder
	for i, opt := range os.Options {
		line := fmt.Sprintf("%s)  %s", labels[i%len(labels)], opt)
		if i == os.ChosenIndex {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("> " + line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAnalysis(a *quiz.Analysis) string {
	var b strings.Builder
	for i, br := range a.Breakdown {
		mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		if br.IsCorrect {
			mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}
		fmt.Fprintf(&b, "%s Q%d. %s\n", mark, i+1, br.QuestionText)
		if br.Justification != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + br.Justification))
			b.WriteString("\n")
		}
	}
	score := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("Score: %d/%d", a.Score(), len(a.Breakdown)))
	b.WriteString("\n" + score)
	if a.OverallFeedback != "" {
		b.WriteString("\n" + a.OverallFeedback)
	}
	if a.NextSteps != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Render(a.NextSteps))
	}
	return b.String()
}

func renderRoadmap(steps []report.RoadmapStep) string {
	var b strings.Builder
	for i, step := range steps {
		title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Step %d: %s", i+1, step.Title))
		b.WriteString(title)
		if step.Duration != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (" + step.Duration + ")"))
		}
		b.WriteString("\n")
		for _, goal := range step.Goals {
			b.WriteString("  • " + goal + "\n")
		}
		if step.Project != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("  Project: " + step.Project))
			b.WriteString("\n")
		}
		if len(step.SkillsToPractice) > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
				Render("  Practice: " + strings.Join(step.SkillsToPractice, ", ")))
			b.WriteString("\n")
		}
		if i < len(steps)-1 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
