package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/interview-coach/internal/ai"
)

const (
	// emptyAnswerMarker stands in for answers that were never given, so the
	// transcript keeps every question visible to the reviewer.
	emptyAnswerMarker = "(no answer)"

	feedbackTemperature = 0.3
)

// Feedback generates the structured end-of-interview report from the full
// ordered Q/A log. The returned text is treated as opaque; no structure is
// validated locally. Safe to call on an empty log.
func (o *Orchestrator) Feedback(ctx context.Context, s *Session) (string, error) {
	report, err := o.gen.Generate(ctx, ai.Request{
		System:      feedbackPrompt,
		Message:     feedbackMessage(s.Role, buildTranscript(s.QALog)),
		Temperature: feedbackTemperature,
	})
	if err != nil {
		return "", &ai.GenerationError{Op: "feedback", Err: err}
	}

	return strings.TrimSpace(report), nil
}

func buildTranscript(log []QA) string {
	var builder strings.Builder

	for i, qa := range log {
		answer := qa.Answer
		if answer == "" {
			answer = emptyAnswerMarker
		}
		fmt.Fprintf(&builder, "Q%d: %s\nA%d: %s\n\n", i+1, qa.Question, i+1, answer)
	}

	return builder.String()
}
