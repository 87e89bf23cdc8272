package interview

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/providers/llm"
)

// FeedbackGenerator produces the raw score+feedback payload for a finished
// transcript. Callers parse it with ParseFeedback.
type FeedbackGenerator interface {
	Generate(ctx context.Context, role, transcript string) (string, error)
}

type llmFeedbackGenerator struct {
	llm llm.Provider
}

func NewFeedbackGenerator(p llm.Provider) FeedbackGenerator {
	return &llmFeedbackGenerator{llm: p}
}

func (g *llmFeedbackGenerator) Generate(ctx context.Context, role, transcript string) (string, error) {
	return g.llm.GenerateText(ctx, feedbackPrompt(role, transcript))
}

var ErrMalformedFeedback = errors.New("malformed feedback payload")

// ParseFeedback parses the generator output against the fixed feedback
// schema. Markdown code fences around the JSON are tolerated; anything else
// that fails to decode returns ErrMalformedFeedback.
func ParseFeedback(raw string) (*models.Feedback, error) {
	payload := stripCodeFence(raw)

	var fb models.Feedback
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&fb); err != nil {
		return nil, errors.Join(ErrMalformedFeedback, err)
	}
	if fb.Rating < 0 {
		fb.Rating = 0
	}
	if fb.Rating > 10 {
		fb.Rating = 10
	}
	if fb.PlusPoints == nil {
		fb.PlusPoints = []string{}
	}
	if fb.Improvements == nil {
		fb.Improvements = []string{}
	}
	return &fb, nil
}

// FallbackFeedback degrades a response that failed schema parsing into a
// best-effort textual feedback so completion never leaves the candidate
// stuck.
func FallbackFeedback(raw string) *models.Feedback {
	return &models.Feedback{
		Rating:       0,
		PlusPoints:   []string{},
		Improvements: []string{},
		Summary:      strings.TrimSpace(raw),
	}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
