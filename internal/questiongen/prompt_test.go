package questiongen

import (
	"strings"
	"testing"

	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/quiz"
)

func promptTopics() []knowledge.Topic {
	return []knowledge.Topic{
		{Name: "Vital Signs", Content: "Pulse: Adults 60-100."},
		{Name: "IV Cannulation", Content: "18G (Green, 90ml/min)."},
	}
}

func TestBuildUserMessage_Directives(t *testing.T) {
	req := Request{
		QuestionType: quiz.QuestionTypeScenario,
		Difficulty:   quiz.DifficultyHard,
		Count:        10,
		Topics:       []string{"Vital Signs", "IV Cannulation"},
	}
	msg := buildUserMessage(req, promptTopics(), DefaultConfig())

	directives := []string{
		"Generate exactly 10 questions.",
		"The questions must be: Scenario-Based.",
		"scenario-based problems that require critical thinking",
		`The questions must be at a "Hard" difficulty level.`,
		"across all the provided topics: [Vital Signs, IV Cannulation].",
		"ensure every single selected topic is represented",
		"exactly 4 answer options, and only one option can be correct.",
	}
	last := -1
	for _, d := range directives {
		i := strings.Index(msg, d)
		if i < 0 {
			t.Fatalf("missing directive %q", d)
		}
		if i < last {
			t.Errorf("directive %q out of order", d)
		}
		last = i
	}

	if strings.Contains(msg, "Avoid Repetition") {
		t.Error("avoid-repetition directive must be absent without previous questions")
	}
	if !strings.Contains(msg, "Topic: Vital Signs\n---\nPulse: Adults 60-100.\n---") {
		t.Error("missing grounding block")
	}
	if strings.Index(msg, "EMT Knowledge Base:") < last {
		t.Error("knowledge base must follow the directives")
	}
}

func TestBuildUserMessage_KnowledgeWording(t *testing.T) {
	req := Request{QuestionType: quiz.QuestionTypeKnowledge, Difficulty: quiz.DifficultyEasy, Count: 5, Topics: []string{"Vital Signs"}}
	msg := buildUserMessage(req, promptTopics()[:1], DefaultConfig())
	if !strings.Contains(msg, "basic definitions, normal ranges, and direct facts") {
		t.Error("missing knowledge-based wording")
	}
}

func TestBuildUserMessage_AvoidRepetition(t *testing.T) {
	req := Request{
		QuestionType: quiz.QuestionTypeKnowledge,
		Difficulty:   quiz.DifficultyEasy,
		Count:        5,
		Topics:       []string{"Vital Signs"},
		Previous: []quiz.Question{
			{QuestionText: "What is the normal adult pulse?"},
			{QuestionText: "What gauge is green?"},
		},
	}
	msg := buildUserMessage(req, promptTopics(), DefaultConfig())

	if !strings.Contains(msg, "6. Avoid Repetition:") {
		t.Fatal("missing avoid-repetition directive")
	}
	if !strings.Contains(msg, `- "What is the normal adult pulse?"`) || !strings.Contains(msg, `- "What gauge is green?"`) {
		t.Error("previous question texts not listed")
	}
	if !strings.Contains(msg, "cover different aspects of the topics") {
		t.Error("missing different-aspects wording")
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 0); got != "" {
		t.Errorf("buildDedup(nil) = %q, want empty", got)
	}

	prior := []quiz.Question{{QuestionText: "a"}, {QuestionText: "b"}, {QuestionText: "c"}}
	got := buildDedup(prior, 2)
	if strings.Contains(got, `"a"`) {
		t.Error("oldest question should be dropped when over the limit")
	}
	if !strings.Contains(got, `"b"`) || !strings.Contains(got, `"c"`) {
		t.Errorf("most recent questions missing: %q", got)
	}
	if all := buildDedup(prior, 0); strings.Count(all, "\n") != 2 {
		t.Errorf("limit 0 should keep all: %q", all)
	}
}
