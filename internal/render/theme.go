// Package render draws roadmaps, the projected knowledge graph and the
// guide for terminal output.
package render

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	levelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	lockedLevelStyle = lipgloss.NewStyle().
				Foreground(TextDim)

	bodyStyle = lipgloss.NewStyle().
			Foreground(Text)

	hintStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	guideStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Icons used next to items and levels.
const (
	IconDone     = "✔"
	IconOpen     = "○"
	IconLocked   = "🔒"
	IconUnlocked = "🔓"
)
