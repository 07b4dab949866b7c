package interview

import (
	"context"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/logger"

	"go.uber.org/zap"
)

const (
	// SkipMarker is recorded as the final answer when the candidate stays
	// unresponsive through the whole escalation.
	SkipMarker = "No response / skipped"

	// reengageFallback replaces the generated re-engagement line when the
	// gateway fails; this is the only call site with a mandated fallback.
	reengageFallback = "Are you still there? Take your time. Would you like me to repeat the question?"

	reengageDirective = "The candidate has been silent or unresponsive. Provide a friendly one-line prompt to re-engage them."

	supportiveRepeatPrefix = "No problem, let me repeat the question so you can answer comfortably:"

	reengageTemperature = 0.7
)

// Recovery escalates through re-engagement, a supportive repeat, and a soft
// skip for consecutive hesitant utterances on one pending question.
type Recovery struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewRecovery(gen ai.Generator, logger *zap.Logger) *Recovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recovery{gen: gen, logger: logger}
}

// SupportiveRepeat restates the original question verbatim behind a fixed
// supportive phrase.
func SupportiveRepeat(question string) string {
	return supportiveRepeatPrefix + "\n" + question
}

// Escalate handles one hesitant utterance. count is the number of
// consecutive hesitant utterances for the pending question, including this
// one. It returns the message to present, or skipped=true once the question
// should be given up on. Every message the candidate hears is appended to
// the transcript so later generation calls see it.
func (r *Recovery) Escalate(ctx context.Context, s *Session, count int) (message string, skipped bool) {
	switch {
	case count <= 1:
		message = r.reengage(ctx)
	case count == 2:
		question, ok := s.PendingQuestion()
		if !ok {
			question = "Can you elaborate?"
		}
		message = SupportiveRepeat(question)
	default:
		r.logger.Info("skipping unanswered question", zap.String(logger.FieldSession, s.ID))
		return "", true
	}

	s.appendHistory(ai.RoleAssistant, message)

	return message, false
}

func (r *Recovery) reengage(ctx context.Context) string {
	message, err := r.gen.Generate(ctx, ai.Request{
		System:      reengagePrompt,
		Message:     reengageDirective,
		Temperature: reengageTemperature,
	})
	if err != nil {
		r.logger.Warn("re-engagement generation failed, using fallback", zap.Error(err))
		return reengageFallback
	}

	return message
}
