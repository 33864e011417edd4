package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/quiz"
)

const systemPrompt = `You are an expert EMT quiz generator. Your task is to create a set of multiple-choice questions based on the provided EMT knowledge base.

Rules:
- Base every question and every correct answer on the knowledge base text. Do not introduce facts it does not contain.
- Distractors must be plausible to a student but clearly wrong according to the knowledge base.
- Write option text exactly as it should be displayed; do not prefix options with letters or numbers.`

var questionTypeInstructions = map[quiz.QuestionType]string{
	quiz.QuestionTypeKnowledge: "The questions should be straightforward, knowledge-based questions, testing basic definitions, normal ranges, and direct facts from the text. Avoid complex scenarios.",
	quiz.QuestionTypeScenario:  "The questions should be complex, scenario-based problems that require critical thinking and application of knowledge to a situation. Avoid simple definition questions.",
}

// buildUserMessage constructs the generation prompt. Topic coverage is
// requested here and never verified afterwards.
func buildUserMessage(req Request, topics []knowledge.Topic, cfg Config) string {
	var b strings.Builder

	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "1. Total Questions: Generate exactly %d questions.\n", req.Count)
	fmt.Fprintf(&b, "2. Question Type: The questions must be: %s.\n", req.QuestionType)
	fmt.Fprintf(&b, "   - %s\n", questionTypeInstructions[req.QuestionType])
	fmt.Fprintf(&b, "3. Difficulty Level: The questions must be: %s.\n", req.Difficulty)
	fmt.Fprintf(&b, "   - The questions must be at a %q difficulty level. An easy question has obvious correct answers and distractors. A hard question requires deeper analysis, has subtle distractors, or combines multiple concepts.\n", req.Difficulty)
	fmt.Fprintf(&b, "4. Topic Coverage: This is crucial. Distribute the %d questions as evenly as possible across all the provided topics: [%s]. If the number of questions is greater than or equal to the number of selected topics, ensure every single selected topic is represented in the quiz.\n",
		req.Count, strings.Join(req.Topics, ", "))
	b.WriteString("5. Question Format: Each question must have exactly 4 answer options, and only one option can be correct.\n")

	if prior := buildDedup(req.Previous, cfg.MaxPriorQuestions); prior != "" {
		b.WriteString("6. Avoid Repetition: The user has just answered a quiz. Generate a completely new set of questions that are substantially different from the following previous ones and cover different aspects of the topics:\n")
		b.WriteString(prior)
		b.WriteString("\n")
	}

	b.WriteString("\nEMT Knowledge Base:\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "\nTopic: %s\n---\n%s\n---\n", t.Name, t.Content)
	}

	return b.String()
}

// buildDedup formats prior question texts for the prompt, keeping the most
// recent max entries. Returns "" when there is nothing to exclude.
func buildDedup(prior []quiz.Question, max int) string {
	if len(prior) == 0 {
		return ""
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for _, q := range prior {
		fmt.Fprintf(&b, "   - \"%s\"\n", q.QuestionText)
	}
	return strings.TrimRight(b.String(), "\n")
}
