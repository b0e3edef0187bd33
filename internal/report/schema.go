package report

import "github.com/abhisek/disha/internal/llm"

// RoadmapSchema defines the JSON schema for roadmap generation responses.
var RoadmapSchema = &llm.Schema{
	Name:        "career-roadmap",
	Description: "A staged three-step preparation roadmap for a career domain",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps": map[string]any{
				"type":        "array",
				"description": "Exactly 3 stages in chronological order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Stage name, e.g. 'Build the Foundations'",
						},
						"duration": map[string]any{
							"type":        "string",
							"description": "Human label, e.g. 'Months 1-2'",
						},
						"goals": map[string]any{
							"type":        "array",
							"description": "Concrete goals for the stage",
							"items":       map[string]any{"type": "string"},
						},
						"project": map[string]any{
							"type":        "string",
							"description": "One hands-on project to complete in this stage",
						},
						"skills_to_practice": map[string]any{
							"type":        "array",
							"description": "Skills to practice throughout the stage",
							"items":       map[string]any{"type": "string"},
						},
					},
					"required":             []any{"title", "duration", "goals", "project", "skills_to_practice"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"steps"},
		"additionalProperties": false,
	},
}
