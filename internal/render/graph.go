package render

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/questmap/internal/knowledgegraph"
)

// Graph draws the projected graph as a node list grouped by roadmap,
// followed by the visible edges. Node colours come from the projection.
func Graph(p knowledgegraph.Projection) string {
	if len(p.Nodes) == 0 {
		return hintStyle.Render("The knowledge graph is empty.")
	}

	labels := make(map[string]string, len(p.Nodes))
	byRoadmap := map[int][]knowledgegraph.ProjectedNode{}
	var order []int
	for _, n := range p.Nodes {
		labels[n.ID] = n.Label
		if _, seen := byRoadmap[n.RoadmapID]; !seen {
			order = append(order, n.RoadmapID)
		}
		byRoadmap[n.RoadmapID] = append(byRoadmap[n.RoadmapID], n)
	}
	sort.Ints(order)

	var b strings.Builder
	unlocked := 0
	for _, rid := range order {
		for _, n := range byRoadmap[rid] {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color))
			if n.Type == knowledgegraph.NodeTopic {
				b.WriteString(style.Bold(true).Render("◆ " + n.Label))
				if n.TopicComplete {
					b.WriteString(" " + doneStyle.Render(IconDone))
				}
			} else {
				icon := IconLocked
				if n.Unlocked {
					icon = "●"
					unlocked++
				}
				b.WriteString("  " + style.Render(icon+" "+n.Label))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d items discovered · %d connections visible", unlocked, len(p.Edges))))
	for _, e := range p.Edges {
		if e.Relationship == knowledgegraph.RelContains {
			continue
		}
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(fmt.Sprintf("  %s ─%s→ %s", labels[e.Source], e.Relationship, labels[e.Target])))
	}
	return b.String()
}
