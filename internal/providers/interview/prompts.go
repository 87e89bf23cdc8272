package interview

import (
	"fmt"
	"strings"
)

func greetingPrompt(role string) string {
	return fmt.Sprintf(
		"You are an AI interviewer. Greet the candidate in one short sentence, then ask Question 1 for the role: %s. Only ask 1 question. Do not number the question.",
		role,
	)
}

func questionPrompt(role string, ordinal int, previous []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an AI interviewer.\nAsk Question %d for the role %s.\nAsk ONLY 1 question. Do not number the question.\n", ordinal, role)
	if len(previous) > 0 {
		sb.WriteString("Do NOT repeat any of these already-asked questions:\n")
		for _, q := range previous {
			sb.WriteString("- " + q + "\n")
		}
	}
	return sb.String()
}

func relevancePrompt(questionContext, answer string) string {
	return fmt.Sprintf(`You are an AI relevance evaluator.
Check if the user's answer addresses the question appropriately.
Be lenient: consider answers relevant if they relate to the topic, describe processes, tools, experiences, or approaches, even if not perfectly worded.

Return ONLY one word from:
- relevant
- irrelevant
- dont_know

### Question:
%s

### Answer:
%s

Respond with ONE WORD ONLY. No explanations.`, questionContext, answer)
}

func feedbackPrompt(role, transcript string) string {
	return fmt.Sprintf(`You are an AI interviewer.
Role: %s
User's answers:
%s

Evaluate the interview and respond with ONLY a JSON object, no prose, matching exactly:
{"rating": <integer 0-10>, "plusPoints": [<strings>], "improvements": [<strings>], "summary": "<4-5 line summary>"}`, role, transcript)
}
