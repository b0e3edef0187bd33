package quiz

import "github.com/abhisek/disha/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "domain-quiz",
	Description: "A five-question multiple-choice aptitude quiz for a career domain",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "Exactly 5 questions",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt, self-contained plain text",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "Exactly 4 distinct answer options",
							"items":       map[string]any{"type": "string"},
						},
						"correct_answer_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Index of the correct option",
						},
					},
					"required":             []any{"question", "options", "correct_answer_index"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// AnalysisSchema defines the JSON schema for quiz analysis responses.
var AnalysisSchema = &llm.Schema{
	Name:        "quiz-analysis",
	Description: "A structured performance analysis of a completed domain quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One-line performance verdict, e.g. 'Medium Performance in Software Engineering'",
			},
			"overall_feedback": map[string]any{
				"type":        "string",
				"description": "Two to three encouraging sentences summarizing the performance",
			},
			"question_breakdown": map[string]any{
				"type":        "array",
				"description": "Exactly 5 entries, one per question in original order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text":  map[string]any{"type": "string"},
						"user_answer":    map[string]any{"type": "string"},
						"correct_answer": map[string]any{"type": "string"},
						"is_correct":     map[string]any{"type": "boolean"},
						"justification": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is correct, one or two sentences",
						},
					},
					"required":             []any{"question_text", "user_answer", "correct_answer", "is_correct", "justification"},
					"additionalProperties": false,
				},
			},
			"next_steps": map[string]any{
				"type":        "string",
				"description": "Concrete suggestions for what the student should do next",
			},
		},
		"required":             []any{"headline", "overall_feedback", "question_breakdown", "next_steps"},
		"additionalProperties": false,
	},
}
