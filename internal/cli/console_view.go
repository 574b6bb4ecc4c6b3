package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"recruit-console/internal/actions"
	"recruit-console/internal/model"
)

func (m consoleModel) View() string {
	if m.fatalErr != nil {
		return consoleErrorStyle.Render("fatal: " + m.fatalErr.Error())
	}
	if m.width <= 0 {
		m.width = 100
	}
	if m.height <= 0 {
		m.height = 30
	}

	header := consoleTitleStyle.Render("recruit-console") + "  " + consoleMutedStyle.Render(m.backendLabel()) + "\n" +
		consoleMutedStyle.Render("up/down: move | enter: details | s: summarize | m: match all | l: shortlist | i: send invites | u: upload CVs | r: refresh | q: quit")

	var body string
	if m.width < 90 {
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderJobsPanel(m.width), m.renderDetailPanel(m.width))
	} else {
		leftW := clampInt(m.width/2, 34, 56)
		rightW := m.width - leftW - 1
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderJobsPanel(leftW), m.renderDetailPanel(rightW))
	}

	parts := []string{header, body}
	if len(m.uploadLines) > 0 {
		parts = append(parts, m.renderUploadPanel(m.width))
	}
	if m.mode != consoleModeBrowse {
		parts = append(parts, m.renderInputPanel(m.width))
	}
	parts = append(parts, m.renderStatusLine(m.width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m consoleModel) backendLabel() string {
	type baseURLer interface{ BaseURL() string }
	if b, ok := m.backend.(baseURLer); ok {
		return b.BaseURL()
	}
	return ""
}

func (m consoleModel) renderJobsPanel(width int) string {
	maxRows := clampInt(m.height-12, 4, 20)
	start, end := listWindow(len(m.jobs), m.cursor, maxRows)

	lines := make([]string, 0, maxRows+2)
	if len(m.jobs) == 0 {
		lines = append(lines, consoleMutedStyle.Render("No jobs loaded."))
		lines = append(lines, consoleMutedStyle.Render("Load a CSV with `recruit-console load-jobs --file jobs.csv`, then press r."))
	}
	if start > 0 {
		lines = append(lines, consoleMutedStyle.Render("..."))
	}
	for i := start; i < end; i++ {
		j := m.jobs[i]
		badge := m.renderBadge(j.Status)
		title := j.Title
		if busy, busyJob := m.gate.held(); busy != "" && busyJob == j.ID {
			title = m.spin.View() + " Processing..."
		}
		text := truncateRunes(fmt.Sprintf("%-5d %s", j.ID, title), maxInt(width-lipgloss.Width(badge)-8, 10))
		if i == m.cursor {
			text = consoleSelStyle.Render(text)
		}
		lines = append(lines, badge+" "+text)
	}
	if end < len(m.jobs) {
		lines = append(lines, consoleMutedStyle.Render("..."))
	}
	return consolePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m consoleModel) renderBadge(status string) string {
	b := actions.BadgeFor(status)
	frame := ""
	if b.Spinner {
		frame = m.spin.View()
	}
	return b.Render(frame)
}

func (m consoleModel) renderDetailPanel(width int) string {
	lines := []string{}
	switch {
	case m.detail == nil:
		lines = append(lines, "Job Details", "")
		lines = append(lines, consoleMutedStyle.Render("Press enter on a job to show its summary."))
	default:
		j := m.detailJob
		lines = append(lines, fmt.Sprintf("Job %d: %s", j.ID, j.Title))
		lines = append(lines, kv("status", m.renderBadge(j.Status)))
		if actions.BadgeFor(j.Status).ShowSummarize {
			lines = append(lines, consoleMutedStyle.Render("press s to summarize"))
		}
		lines = append(lines, "")
		summary := m.detail.String()
		if summary == "" {
			summary = consoleMutedStyle.Render("(not summarized yet)")
		}
		lines = append(lines, strings.Split(summary, "\n")...)
		if len(m.detailApps) > 0 {
			lines = append(lines, "", "Applications")
			for _, a := range m.detailApps {
				lines = append(lines, formatApplication(a))
			}
		}
	}
	// The panel width wraps long summary lines.
	return consolePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func formatApplication(a model.Application) string {
	return fmt.Sprintf("%-20s %-16s %s", defaultIfEmpty(a.CandidateName, fmt.Sprintf("candidate %d", a.CandidateID)), a.Status, formatScore(a.MatchScore))
}

func (m consoleModel) renderUploadPanel(width int) string {
	lines := make([]string, 0, len(m.uploadLines))
	for i, line := range m.uploadLines {
		switch {
		case i == 0:
			line = consoleTitleStyle.Render(line)
		case strings.HasPrefix(line, "OK:"):
			line = consoleOKStyle.Render(line)
		case strings.HasPrefix(line, "Failed:"):
			line = consoleErrorStyle.Render(line)
		}
		lines = append(lines, wrapOrTrim(line, maxInt(width-6, 12)))
	}
	return consolePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m consoleModel) renderInputPanel(width int) string {
	label := ""
	switch m.mode {
	case consoleModeThreshold:
		job, _ := m.selectedJob()
		label = fmt.Sprintf("Shortlist Job %d. %s", job.ID, actions.ThresholdPrompt)
	case consoleModeUpload:
		label = "CV files to upload (space separated; quote paths that contain spaces)"
	}
	hint := consoleMutedStyle.Render("enter: submit | esc: cancel")
	return consolePanelStyle.Width(maxInt(width, 40)).Render(label + "\n" + m.input.View() + "\n" + hint)
}

func (m consoleModel) renderStatusLine(width int) string {
	msg := strings.TrimSpace(m.feedback.Message)
	if msg == "" {
		msg = "Tip: select a job and press enter to see its summary."
	}
	if busy, _ := m.gate.held(); busy != "" {
		msg = m.spin.View() + " " + msg
	}
	style := consoleMutedStyle
	switch m.feedback.Level {
	case actions.LevelSuccess:
		style = consoleOKStyle
	case actions.LevelWarning:
		style = consoleWarnStyle
	case actions.LevelError:
		style = consoleErrorStyle
	}
	return style.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}
