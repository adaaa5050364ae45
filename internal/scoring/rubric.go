// Package scoring turns manuscript text into category and criterion scores.
// Every judgment goes through a judge.Judge; model failures degrade to the
// deterministic offline judge instead of failing the evaluation.
package scoring

import (
	"fmt"

	"github.com/inkproof/galley/internal/criteria"
	"github.com/inkproof/galley/internal/models"
)

// DefaultMaxChars bounds how much manuscript text an evaluation reads.
const DefaultMaxChars = 15000

// promptExcerptChars bounds the text quoted inside a single prompt.
const promptExcerptChars = 5000

// truncationMarker is appended whenever manuscript text is cut.
const truncationMarker = "\n\n[Text truncated for analysis]"

// rubricEntry describes how one built-in category is judged.
type rubricEntry struct {
	description string
	instruction string
}

// rubric covers the five directly-scored categories. Readiness is derived by
// the aggregator and deliberately absent here.
var rubric = map[models.Category]rubricEntry{
	models.CategoryLineEditing: {
		description: "Grammar, syntax, clarity, and prose fluidity",
		instruction: "Analyze the manuscript for grammar, syntax, clarity, and prose fluidity. Provide a score out of 100 and a detailed summary of findings.",
	},
	models.CategoryPlot: {
		description: "Story structure, pacing, narrative tension, and resolution effectiveness",
		instruction: "Evaluate the plot structure, pacing, narrative tension, and resolution effectiveness. Provide a score out of 100 and a detailed summary of findings.",
	},
	models.CategoryCharacter: {
		description: "Character depth, motivation, consistency, and emotional impact",
		instruction: "Assess character depth, motivation, consistency, and emotional impact throughout the manuscript. Provide a score out of 100 and a detailed summary of findings.",
	},
	models.CategoryFlow: {
		description: "Rhythm, transitions, escalation patterns, and narrative cohesion",
		instruction: "Evaluate the book flow, including rhythm, transitions, escalation patterns, and narrative cohesion. Provide a score out of 100 and a detailed summary of findings.",
	},
	models.CategoryWorldbuilding: {
		description: "Setting depth, continuity, and originality assessment",
		instruction: "Analyze the worldbuilding and setting for depth, continuity, and originality. Provide a score out of 100 and a detailed summary of findings.",
	},
}

// jsonContract is quoted in every prompt so the model replies in the shape
// the judge parses.
const jsonContract = `{
    "score": <number between 0-100>,
    "summary": "<detailed summary of findings>",
    "strengths": ["<list of strengths>"],
    "areas_for_improvement": ["<list of areas for improvement>"]
}`

// Truncate keeps the head of text up to maxChars characters and marks the
// cut. A non-positive maxChars selects the default.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + truncationMarker
}

func promptExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= promptExcerptChars {
		return text
	}
	return string(runes[:promptExcerptChars])
}

// CategoryPrompt builds the judgment prompt for one built-in category.
func CategoryPrompt(cat models.Category, text string) string {
	entry := rubric[cat]
	return fmt.Sprintf(`You are a professional manuscript evaluator specializing in %s.

%s

Please provide your evaluation in the following JSON format:
%s

Manuscript text to evaluate:
%s`, cat.Title(), entry.instruction, jsonContract, promptExcerpt(text))
}

// CriterionPrompt builds the judgment prompt for one rubric criterion loaded
// from an evaluation template.
func CriterionPrompt(c criteria.Criterion, text string) string {
	return fmt.Sprintf(`You are a professional manuscript evaluator scoring against a publisher's rubric.

Criterion: %s
Description: %s

Score how well the manuscript satisfies this criterion. Provide a score out of 100 and a detailed summary of findings.

Please provide your evaluation in the following JSON format:
%s

Manuscript text to evaluate:
%s`, c.Name, c.Description, jsonContract, promptExcerpt(text))
}
