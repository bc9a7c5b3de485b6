package recommend

import "github.com/abhisek/questmap/internal/llm"

// SuggestionSchema is the JSON shape of a suggestion response.
var SuggestionSchema = &llm.Schema{
	Name:        "topic-suggestions",
	Description: "New learning topics related to what the learner has completed",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic": map[string]any{
							"type":        "string",
							"description": "Name of the suggested topic (1-5 words)",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "One sentence on why it follows from the completed topics",
						},
						"suggestion_type": map[string]any{
							"type": "string",
							"enum": []any{TypeNextLevel, TypeRelatedField, TypeCrossDomain},
						},
						"description": map[string]any{
							"type":        "string",
							"description": "What the topic covers (1-2 sentences)",
						},
					},
					"required":             []any{"topic", "reason", "suggestion_type", "description"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"suggestions"},
		"additionalProperties": false,
	},
}

// RelationshipSchema is the JSON shape of a link response.
var RelationshipSchema = &llm.Schema{
	Name:        "graph-relationships",
	Description: "Relationships between newly added and existing learning topics",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"relationships": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"source_id": map[string]any{"type": "string"},
						"target_id": map[string]any{"type": "string"},
						"relationship_type": map[string]any{
							"type": "string",
							"enum": []any{"prerequisite", "complementary", "conceptual", "transfer"},
						},
						"weight": map[string]any{
							"type":        "number",
							"description": "Strength of the connection from 1.5 to 3.0",
						},
						"explanation": map[string]any{"type": "string"},
					},
					"required":             []any{"source_id", "target_id", "relationship_type", "weight", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"relationships"},
		"additionalProperties": false,
	},
}
