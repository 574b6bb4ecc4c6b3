package actions

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"recruit-console/internal/model"
)

type Tone string

const (
	ToneSecondary Tone = "secondary"
	ToneSuccess   Tone = "success"
	ToneWarning   Tone = "warning"
	ToneDanger    Tone = "danger"
)

var badgeStyles = map[Tone]lipgloss.Style{
	ToneSecondary: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("240")).Padding(0, 1),
	ToneSuccess:   lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("42")).Padding(0, 1),
	ToneWarning:   lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("214")).Padding(0, 1),
	ToneDanger:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Padding(0, 1),
}

// Badge is the presentation of a job status.
type Badge struct {
	Status  string
	Text    string
	Tone    Tone
	Spinner bool
	// ShowSummarize reports whether the summarize control is offered.
	ShowSummarize bool
}

func BadgeFor(status string) Badge {
	s := strings.TrimSpace(status)
	b := Badge{Status: s, Text: s, Tone: ToneSecondary, ShowSummarize: model.CanSummarize(s)}
	switch {
	case s == "":
		b.Text = "UNKNOWN"
	case s == model.JobStatusSummarized:
		b.Tone = ToneSuccess
	case s == model.JobStatusSummarizing:
		b.Tone = ToneWarning
		b.Text = "Sum..."
		b.Spinner = true
	case model.IsErrorStatus(s):
		b.Tone = ToneDanger
	}
	return b
}

// Render draws the badge. spinnerFrame replaces the default spinner glyph
// when the badge is animating.
func (b Badge) Render(spinnerFrame string) string {
	text := b.Text
	if b.Spinner {
		if spinnerFrame == "" {
			spinnerFrame = "…"
		}
		text = strings.TrimSpace(spinnerFrame) + " " + text
	}
	return badgeStyles[b.Tone].Render(text)
}
