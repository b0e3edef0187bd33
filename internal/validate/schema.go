package validate

import "github.com/abhisek/disha/internal/llm"

// ClassificationSchema defines the JSON schema for stream/domain
// classification responses.
var ClassificationSchema = &llm.Schema{
	Name:        "input-classification",
	Description: "Whether a student's free-text input names a valid value for the expected category, and its canonical form",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_valid": map[string]any{
				"type":        "boolean",
				"description": "True only if the input clearly names a value of the expected category",
			},
			"canonical": map[string]any{
				"type":        "string",
				"description": "The canonical label, title-cased (e.g. 'Science', 'Software Engineering'). Empty when is_valid is false.",
			},
		},
		"required":             []any{"is_valid", "canonical"},
		"additionalProperties": false,
	},
}

// NameSchema defines the JSON schema for name extraction responses.
var NameSchema = &llm.Schema{
	Name:        "name-extraction",
	Description: "The person's name extracted from a free-text introduction",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "The name only, without honorifics or surrounding words",
			},
		},
		"required":             []any{"name"},
		"additionalProperties": false,
	},
}
