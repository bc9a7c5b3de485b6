package render

import (
	"fmt"
	"strings"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/recommend"
)

// PhaseMessage is the guide's greeting for a discovery phase.
func PhaseMessage(phase int) string {
	switch phase {
	case 1:
		return "H-hello there..."
	case 2:
		return "You're doing great!"
	case 3:
		return "Welcome back, explorer!"
	default:
		return "Hello!"
	}
}

// Guide draws the guide's state. Hidden and dormant guides render a single
// hint line.
func Guide(snap discovery.Snapshot) string {
	switch {
	case !snap.Visible:
		return hintStyle.Render("The guide is hidden. Run `questmap guide show` to bring it back.")
	case snap.Dormant():
		return hintStyle.Render(fmt.Sprintf("Unlock %d more item(s) to meet your guide.", snap.UnlocksUntilNextThreshold))
	}

	lines := []string{
		guideStyle.Render(PhaseMessage(snap.Phase)),
		bodyStyle.Render(fmt.Sprintf("Items unlocked: %d · phase %d", snap.TotalUnlocks, snap.Phase)),
	}
	if snap.ShouldShowDiscovery {
		lines = append(lines, doneStyle.Render("New topics are waiting! Run `questmap guide discover`."))
	} else {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("Next discovery in %d unlock(s).", snap.UnlocksUntilNextThreshold)))
	}
	return card.Render(strings.Join(lines, "\n"))
}

// Suggestions draws a batch of discovered topics.
func Suggestions(phase int, list []recommend.Suggestion) string {
	var b strings.Builder
	b.WriteString(guideStyle.Render(PhaseMessage(phase)))
	if len(list) == 0 {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("No new topics right now."))
		return b.String()
	}
	for i, s := range list {
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("%d. %s", i+1, s.Topic)))
		b.WriteString(" " + hintStyle.Render("("+strings.ReplaceAll(s.SuggestionType, "_", " ")+")"))
		if s.Description != "" {
			b.WriteString("\n   " + bodyStyle.Render(s.Description))
		}
		if s.Reason != "" {
			b.WriteString("\n   " + hintStyle.Render(s.Reason))
		}
	}
	return b.String()
}
