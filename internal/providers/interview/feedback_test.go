package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseFeedbackValid(t *testing.T) {
	fb, err := ParseFeedback(`{"rating": 8, "plusPoints": ["clear", "structured"], "improvements": ["depth"], "summary": "Good run."}`)
	if err != nil {
		t.Fatalf("ParseFeedback returned error: %v", err)
	}
	if fb.Rating != 8 || len(fb.PlusPoints) != 2 || len(fb.Improvements) != 1 || fb.Summary != "Good run." {
		t.Fatalf("unexpected feedback %+v", fb)
	}
}

func TestParseFeedbackFenced(t *testing.T) {
	raw := "```json\n{\"rating\": 5, \"plusPoints\": [], \"improvements\": [], \"summary\": \"ok\"}\n```"
	fb, err := ParseFeedback(raw)
	if err != nil {
		t.Fatalf("fenced payload should parse, got %v", err)
	}
	if fb.Rating != 5 || fb.Summary != "ok" {
		t.Fatalf("unexpected feedback %+v", fb)
	}
}

func TestParseFeedbackClampsRating(t *testing.T) {
	fb, err := ParseFeedback(`{"rating": 42, "summary": "over"}`)
	if err != nil {
		t.Fatalf("ParseFeedback returned error: %v", err)
	}
	if fb.Rating != 10 {
		t.Fatalf("rating = %d, want clamp to 10", fb.Rating)
	}

	fb, err = ParseFeedback(`{"rating": -3, "summary": "under"}`)
	if err != nil {
		t.Fatalf("ParseFeedback returned error: %v", err)
	}
	if fb.Rating != 0 {
		t.Fatalf("rating = %d, want clamp to 0", fb.Rating)
	}
	if fb.PlusPoints == nil || fb.Improvements == nil {
		t.Fatalf("missing arrays must decode as empty, got %+v", fb)
	}
}

func TestParseFeedbackMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{\"rating\": }"} {
		if _, err := ParseFeedback(raw); !errors.Is(err, ErrMalformedFeedback) {
			t.Errorf("ParseFeedback(%q) = %v, want ErrMalformedFeedback", raw, err)
		}
	}
}

func TestFallbackFeedback(t *testing.T) {
	fb := FallbackFeedback("  raw model text \n")
	if fb.Summary != "raw model text" || fb.Rating != 0 {
		t.Fatalf("unexpected fallback %+v", fb)
	}
	if fb.PlusPoints == nil || fb.Improvements == nil {
		t.Fatalf("fallback must carry empty slices")
	}
}

func TestGeneratorPromptsCarryConstraints(t *testing.T) {
	llm := &fakeLLM{response: "What is your debugging approach?"}
	g := NewQuestionGenerator(llm)

	if _, err := g.NextQuestion(context.Background(), "Backend Engineer", 3, []string{"Q1: Intro", "Q2: Concurrency"}); err != nil {
		t.Fatalf("NextQuestion failed: %v", err)
	}
	p := llm.prompts[0]
	for _, want := range []string{"Question 3", "Backend Engineer", "Q1: Intro", "Q2: Concurrency"} {
		if !strings.Contains(p, want) {
			t.Errorf("question prompt missing %q", want)
		}
	}

	llm2 := &fakeLLM{response: "Hi! Tell me about yourself."}
	g2 := NewQuestionGenerator(llm2)
	if _, err := g2.Greeting(context.Background(), "Backend Engineer"); err != nil {
		t.Fatalf("Greeting failed: %v", err)
	}
	if !strings.Contains(llm2.prompts[0], "Backend Engineer") {
		t.Errorf("greeting prompt missing role")
	}
}

func TestFeedbackPromptRequestsSchema(t *testing.T) {
	llm := &fakeLLM{response: "{}"}
	g := NewFeedbackGenerator(llm)

	if _, err := g.Generate(context.Background(), "Tester", "Q1: hello"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	p := llm.prompts[0]
	for _, want := range []string{"rating", "plusPoints", "improvements", "summary", "Q1: hello"} {
		if !strings.Contains(p, want) {
			t.Errorf("feedback prompt missing %q", want)
		}
	}
}
