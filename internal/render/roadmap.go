package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/questmap/internal/roadmap"
)

const barWidth = 24

// Map draws one roadmap level by level. Locked levels are dimmed and their
// items shown without completion marks.
func Map(st roadmap.Status) string {
	var b strings.Builder
	r := st.Roadmap
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (#%d)", r.Topic, r.ID)))
	b.WriteString("\n")
	b.WriteString(Bar(st.Progress.PercentComplete, barWidth))
	b.WriteString("\n")

	for _, lvl := range st.Levels {
		b.WriteString("\n")
		icon, style := IconUnlocked, levelStyle
		if !lvl.Unlocked {
			icon, style = IconLocked, lockedLevelStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s Level %d · %s", icon, lvl.Level, lvl.Name)))
		b.WriteString("\n")

		for _, it := range lvl.Items {
			b.WriteString("  ")
			b.WriteString(itemLine(it))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func itemLine(it roadmap.ItemStatus) string {
	label := fmt.Sprintf("[%d] %s", it.Item.ID, it.Item.Title)
	switch {
	case it.Completed:
		return doneStyle.Render(IconDone) + " " + bodyStyle.Render(label)
	case it.Attemptable:
		return IconOpen + " " + bodyStyle.Render(label)
	default:
		return lockedLevelStyle.Render(IconOpen + " " + label)
	}
}

// Roadmaps lists roadmaps with their item counts.
func Roadmaps(list []roadmap.Roadmap) string {
	if len(list) == 0 {
		return hintStyle.Render("No roadmaps yet. Import one with `questmap roadmap import <file>`.")
	}
	rows := make([]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, fmt.Sprintf("%s %s %s",
			titleStyle.Render(fmt.Sprintf("#%d", r.ID)),
			bodyStyle.Render(r.Topic),
			hintStyle.Render(fmt.Sprintf("(%d items, %d levels)", len(r.Items), len(r.Levels()))),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Progress summarizes a roadmap's level progress.
func Progress(topic string, p roadmap.LevelProgress) string {
	levels := "none"
	if len(p.CompletedLevels) > 0 {
		parts := make([]string, len(p.CompletedLevels))
		for i, l := range p.CompletedLevels {
			parts[i] = fmt.Sprint(l)
		}
		levels = strings.Join(parts, ", ")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(topic),
		Bar(p.PercentComplete, barWidth),
		bodyStyle.Render(fmt.Sprintf("Completed levels: %s", levels)),
		bodyStyle.Render(fmt.Sprintf("Current level: %d · %s", p.CurrentLevel, roadmap.LevelName(p.CurrentLevel))),
		hintStyle.Render(fmt.Sprintf("%d of %d items complete", len(p.CompletedItemIDs), p.TotalItems)),
	)
}
