package interview

import (
	"context"
	"strings"
	"unicode"

	"github.com/sandy0637R/AI-Interviewer-Backend/internal/providers/llm"
)

type Relevance string

const (
	Relevant   Relevance = "relevant"
	Irrelevant Relevance = "irrelevant"
)

// RelevanceClassifier gates answers before they are recorded. The contract is
// lenient by default: any ambiguous or malformed model output resolves to
// Relevant; only a transport failure surfaces as an error.
type RelevanceClassifier interface {
	Classify(ctx context.Context, questionContext, answer string) (Relevance, error)
}

type llmClassifier struct {
	llm llm.Provider
}

func NewRelevanceClassifier(p llm.Provider) RelevanceClassifier {
	return &llmClassifier{llm: p}
}

func (c *llmClassifier) Classify(ctx context.Context, questionContext, answer string) (Relevance, error) {
	raw, err := c.llm.GenerateText(ctx, relevancePrompt(questionContext, answer))
	if err != nil {
		return Relevant, err
	}
	return normalizeRelevance(raw), nil
}

// normalizeRelevance folds the raw model output to one of the two relevance
// values. "dont_know" counts as relevant for leniency, as does anything
// unrecognized.
func normalizeRelevance(raw string) Relevance {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	switch b.String() {
	case "irrelevant":
		return Irrelevant
	default:
		// includes "relevant", "dontknow" and anything unexpected
		return Relevant
	}
}
