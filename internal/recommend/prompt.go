package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/questmap/internal/knowledgegraph"
)

const suggestSystemPrompt = `You are a friendly learning guide. Based on the topics a learner has already studied, suggest new topics that build on them. Prefer concrete, well-scoped topics over broad fields.`

const linkSystemPrompt = `You analyze learning topics that were just added to a knowledge graph and find meaningful relationships between them and the topics already there. Be highly selective: only propose connections an instructor would point out.`

func buildSuggestMessage(completedTopics []string, limit int) string {
	var b strings.Builder
	b.WriteString("Completed topics:\n")
	for _, t := range completedTopics {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	fmt.Fprintf(&b, "\nSuggest exactly %d new topics. Do not repeat a completed topic.\n", limit)
	b.WriteString("Mix the suggestion types: next_level deepens a completed topic, related_field stays close to it, cross_domain transfers its ideas elsewhere.\n")
	return b.String()
}

type promptNode struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	RoadmapID int    `json:"roadmap_id"`
}

func promptNodes(nodes []knowledgegraph.Node) string {
	out := make([]promptNode, len(nodes))
	for i, n := range nodes {
		out[i] = promptNode{ID: n.ID, Label: n.Label, RoadmapID: n.RoadmapID}
	}
	raw, _ := json.MarshalIndent(out, "", "  ")
	return string(raw)
}

func buildLinkMessage(added, existing []knowledgegraph.Node) string {
	var b strings.Builder
	b.WriteString("NEW topics (just added):\n")
	b.WriteString(promptNodes(added))
	b.WriteString("\n\nEXISTING topics:\n")
	b.WriteString(promptNodes(existing))
	b.WriteString("\n\nRules:\n")
	b.WriteString("1. Every relationship connects one NEW topic with one EXISTING topic.\n")
	b.WriteString("2. prerequisite: one topic is foundational for the other. complementary: they build on each other. conceptual: they share ideas or techniques. transfer: knowledge carries across domains.\n")
	fmt.Fprintf(&b, "3. Weight ranges from %.1f (moderate) to 3.0 (strong). Leave out anything weaker.\n", knowledgegraph.MinRelationshipWeight)
	b.WriteString("4. Use the ids exactly as given.\n")
	return b.String()
}
