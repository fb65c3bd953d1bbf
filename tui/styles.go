package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nijaru/autocaption/models"
)

const (
	colorPrimary = "#0070F3"
	colorSuccess = "#04B575"
	colorError   = "#FF4D4F"
	colorInfo    = "#626262"
	colorPending = "#F5A623"
	colorBorder  = "#0070F3"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPending))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorInfo))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(1, 2)
)

// StatusStyle returns the style a job status is rendered with.
func StatusStyle(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusCompleted:
		return SuccessStyle
	case models.StatusFailed:
		return ErrorStyle
	case models.StatusPending, models.StatusSubmitted, models.StatusUploading:
		return PendingStyle
	default:
		return InfoStyle
	}
}

// Swatch renders a block of the given hex color followed by the code.
func Swatch(hex string) string {
	block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
	return block + " " + hex
}
