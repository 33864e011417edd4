package questiongen

import "github.com/abhisek/emtquiz/internal/llm"

// QuestionSetSchema defines the JSON schema for question batch responses.
var QuestionSetSchema = &llm.Schema{
	Name:        "emt-quiz-questions",
	Description: "A set of multiple-choice EMT quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "An array of quiz questions.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"questionText": map[string]any{
							"type":        "string",
							"description": "The text of the question.",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "An array of 4 possible answers.",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text": map[string]any{
										"type":        "string",
										"description": "The answer option text.",
									},
									"isCorrect": map[string]any{
										"type":        "boolean",
										"description": "True if this is the correct answer, false otherwise.",
									},
								},
								"required":             []any{"text", "isCorrect"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"questionText", "options"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
