package interview

import (
	"context"

	"github.com/sandy0637R/AI-Interviewer-Backend/internal/providers/llm"
)

// QuestionGenerator drafts interview questions. Callers never trust its
// numbering: any prefix it emits is stripped and re-applied by the service.
type QuestionGenerator interface {
	// Greeting returns the greeting plus first question for the role.
	Greeting(ctx context.Context, role string) (string, error)
	// NextQuestion drafts the question at the given ordinal, avoiding the
	// previously asked texts (best-effort, via prompt instruction).
	NextQuestion(ctx context.Context, role string, ordinal int, previous []string) (string, error)
}

type llmQuestionGenerator struct {
	llm llm.Provider
}

func NewQuestionGenerator(p llm.Provider) QuestionGenerator {
	return &llmQuestionGenerator{llm: p}
}

func (g *llmQuestionGenerator) Greeting(ctx context.Context, role string) (string, error) {
	return g.llm.GenerateText(ctx, greetingPrompt(role))
}

func (g *llmQuestionGenerator) NextQuestion(ctx context.Context, role string, ordinal int, previous []string) (string, error) {
	return g.llm.GenerateText(ctx, questionPrompt(role, ordinal, previous))
}
