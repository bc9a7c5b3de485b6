package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Bar draws a horizontal progress bar of the given cell width followed by
// the percentage.
func Bar(percent, width int) string {
	if width < 4 {
		width = 4
	}
	percent = max(0, min(percent, 100))
	filled := width * percent / 100
	empty := width - filled

	return lipgloss.NewStyle().Foreground(Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("░", empty)) +
		hintStyle.Render(fmt.Sprintf("  %d%%", percent))
}
