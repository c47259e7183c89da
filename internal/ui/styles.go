package ui

import "github.com/charmbracelet/lipgloss"

var (
	inkStrong = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}
	inkMuted  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#AAAAAA"}
	inkFaint  = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}
	inkAccent = lipgloss.AdaptiveColor{Light: "#D75F00", Dark: "#FF8C00"}
	inkAlert  = lipgloss.AdaptiveColor{Light: "#C00000", Dark: "#FF5F5F"}
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(inkFaint)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(inkStrong)
	artistStyle = lipgloss.NewStyle().Foreground(inkMuted)
	timeStyle   = lipgloss.NewStyle().Foreground(inkFaint)
	statusStyle = lipgloss.NewStyle().Foreground(inkMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(inkAlert)

	recordingStyle = lipgloss.NewStyle().Bold(true).Foreground(inkAlert)

	// timeline and image post screens
	authorStyle   = lipgloss.NewStyle().Bold(true).Foreground(inkAccent)
	commentStyle  = lipgloss.NewStyle().Foreground(inkStrong)
	audioStyle    = lipgloss.NewStyle().Italic(true).Foreground(inkAccent)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(inkAccent)
	labelStyle    = lipgloss.NewStyle().Width(10).Foreground(inkMuted)
)
