package interview

import (
	"context"
	"strings"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/logger"

	"go.uber.org/zap"
)

const (
	// hesitation escalates re-engage -> repeat -> skip, so the third
	// consecutive hesitant utterance resolves the question.
	maxHesitations = 3
)

// Service exposes the transport-facing operations over the registry,
// orchestrator and recovery controller. Callers are expected to serialize
// requests per session id; sessions are independent of each other.
type Service struct {
	registry *Registry
	orch     *Orchestrator
	recovery *Recovery
	logger   *zap.Logger
}

func NewService(gen ai.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		registry: NewRegistry(),
		orch:     NewOrchestrator(gen, logger),
		recovery: NewRecovery(gen, logger),
		logger:   logger,
	}
}

// Start creates a session and returns its id with the first question.
func (s *Service) Start(ctx context.Context, role string, budget int) (string, string, error) {
	session, err := s.registry.Create(role, budget)
	if err != nil {
		return "", "", err
	}

	question, _, err := s.orch.Step(ctx, session, nil)
	if err != nil {
		return "", "", err
	}

	if err := s.registry.Save(session); err != nil {
		return "", "", err
	}

	s.logger.Info("interview started",
		zap.String(logger.FieldSession, session.ID),
		zap.String("role", session.Role),
		zap.Int("question_budget", session.QuestionBudget),
	)

	return session.ID, question, nil
}

// SubmitAnswer feeds one raw utterance into the session. Hesitant input runs
// the escalation path without advancing the interview; usable input steps
// the orchestrator. The returned message is empty exactly when finished is
// true. Finished sessions are an idempotent no-op.
func (s *Service) SubmitAnswer(ctx context.Context, id, answer string) (string, bool, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return "", false, err
	}

	if session.Finished {
		return "", true, nil
	}

	resolved := strings.TrimSpace(answer)

	if Classify(answer) == ClassHesitant {
		count, err := s.registry.BumpEpisode(id)
		if err != nil {
			return "", false, err
		}

		if count < maxHesitations {
			message, _ := s.recovery.Escalate(ctx, session, count)
			if err := s.registry.Save(session); err != nil {
				return "", false, err
			}
			return message, false, nil
		}

		resolved = SkipMarker
	}

	// The session was cloned by Get: a failed generation call discards every
	// mutation made during this step.
	message, finished, err := s.orch.Step(ctx, session, &resolved)
	if err != nil {
		return "", false, err
	}

	if err := s.registry.Save(session); err != nil {
		return "", false, err
	}

	if err := s.registry.ResetEpisode(id); err != nil {
		return "", false, err
	}

	return message, finished, nil
}

// Feedback generates the structured report for the session. Intended to be
// called once the interview has finished, but valid at any point.
func (s *Service) Feedback(ctx context.Context, id string) (string, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return "", err
	}

	return s.orch.Feedback(ctx, session)
}
