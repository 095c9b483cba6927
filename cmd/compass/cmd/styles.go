package cmd

import (
	"fmt"
	"strings"

	"github.com/careercompass/compass-web/internal/models"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorPrimary = lipgloss.Color("#4f46e5")
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#a8e6cf")
	colorError   = lipgloss.Color("#FF6B6B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	barFillStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	feedbackStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)
)

const barCells = 30

// scoreBar draws the match score as a fixed-width bar. The fill uses the clamped width.
func scoreBar(result *models.AnalysisResult) string {
	filled := int(result.ScoreWidth() / 100 * barCells)
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barCells-filled))
}

// renderResult formats an analysis result for the terminal.
// Missing fields are left out rather than printed empty.
func renderResult(result *models.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Analysis Results"))
	b.WriteString("\n")

	if result.HasScore() {
		fmt.Fprintf(&b, "%s %s%% %s\n", labelStyle.Render("Match Score"), result.ScoreLabel(), scoreBar(result))
	}

	if result.HasFeedback() {
		b.WriteString(labelStyle.Render("Feedback"))
		b.WriteString("\n")
		b.WriteString(feedbackStyle.Render(result.Feedback))
		b.WriteString("\n")
	}

	if !result.HasScore() && !result.HasFeedback() {
		b.WriteString(labelStyle.Render("The analysis service returned no score or feedback."))
		b.WriteString("\n")
	}

	return b.String()
}

// renderQuestions formats generated interview questions as a numbered list.
func renderQuestions(questions []models.InterviewQuestion) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Interview Questions"))
	b.WriteString("\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%2d.", i+1)), q.Question)
	}
	return b.String()
}
