package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) Close() error { return nil }

func TestClassifyNormalization(t *testing.T) {
	cases := []struct {
		raw  string
		want Relevance
	}{
		{"relevant", Relevant},
		{"Relevant.", Relevant},
		{"IRRELEVANT", Irrelevant},
		{" irrelevant\n", Irrelevant},
		{"dont_know", Relevant},
		{"dont know", Relevant},
		{"maybe?", Relevant},
		{"", Relevant},
	}

	for _, c := range cases {
		llm := &fakeLLM{response: c.raw}
		cl := NewRelevanceClassifier(llm)
		got, err := cl.Classify(context.Background(), "Question Q2 for role Tester", "some answer")
		if err != nil {
			t.Fatalf("Classify(%q) returned error: %v", c.raw, err)
		}
		if got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestClassifyFailureDefaultsRelevant(t *testing.T) {
	llm := &fakeLLM{err: errors.New("boom")}
	cl := NewRelevanceClassifier(llm)

	got, err := cl.Classify(context.Background(), "ctx", "answer")
	if err == nil {
		t.Fatal("expected transport error to surface")
	}
	if got != Relevant {
		t.Fatalf("failed classification must resolve relevant, got %v", got)
	}
}

func TestClassifyPromptContainsQuestionAndAnswer(t *testing.T) {
	llm := &fakeLLM{response: "relevant"}
	cl := NewRelevanceClassifier(llm)

	if _, err := cl.Classify(context.Background(), "Question Q3 for role SRE", "I page on error budgets."); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(llm.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(llm.prompts))
	}
	p := llm.prompts[0]
	for _, want := range []string{"Question Q3 for role SRE", "I page on error budgets."} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
