package interview

import (
	"context"
	"strings"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/logger"

	"go.uber.org/zap"
)

const (
	// IntroQuestion is the mandatory first question of every interview,
	// asked verbatim regardless of role.
	IntroQuestion = "Can you introduce yourself?"

	// startDirective is the synthetic user turn that opens the transcript.
	startDirective = "Start the interview and ask the first question."

	// followUpSentinel is the exact reply the follow-up instructions demand
	// when no new follow-up should be asked.
	followUpSentinel = "NONE"

	questionTemperature = 0.7
	followupTemperature = 0.4
)

// Phase is the conceptual state of a session, derived from its fields.
type Phase int

const (
	// PhaseAwaitingFirstQuestion is a fresh session with nothing asked yet.
	PhaseAwaitingFirstQuestion Phase = iota
	// PhaseAwaitingAnswer has a question (main or follow-up) pending.
	PhaseAwaitingAnswer
	// PhaseFinished is terminal and absorbing.
	PhaseFinished
)

// Phase derives the current state-machine phase.
func (s *Session) Phase() Phase {
	switch {
	case s.Finished:
		return PhaseFinished
	case len(s.QALog) == 0:
		return PhaseAwaitingFirstQuestion
	default:
		return PhaseAwaitingAnswer
	}
}

// FollowUpDecision is the parsed outcome of the follow-up gateway call. The
// zero value means no follow-up is needed.
type FollowUpDecision struct {
	Question string
}

// Ask reports whether a follow-up should be asked.
func (d FollowUpDecision) Ask() bool {
	return d.Question != ""
}

// parseFollowUpReply converts the gateway's raw reply into a tagged decision,
// so the sentinel comparison happens in exactly one place.
func parseFollowUpReply(raw string) FollowUpDecision {
	reply := strings.TrimSpace(raw)
	if reply == followUpSentinel {
		return FollowUpDecision{}
	}
	return FollowUpDecision{Question: reply}
}

// Orchestrator is the deterministic state machine driving one interview. All
// natural-language generation is delegated to the injected generator.
type Orchestrator struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewOrchestrator(gen ai.Generator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{gen: gen, logger: logger}
}

// Step advances the session by one transition. A nil answer asks the first
// question; otherwise the answer is recorded and the orchestrator decides
// between a follow-up, the next main question, or finishing. The returned
// message is empty exactly when the interview has finished.
//
// Step mutates the session in place; callers wanting all-or-nothing behavior
// step a Clone and commit it only on success.
func (o *Orchestrator) Step(ctx context.Context, s *Session, answer *string) (string, bool, error) {
	switch s.Phase() {
	case PhaseFinished:
		return "", true, nil

	case PhaseAwaitingFirstQuestion:
		// The opening turn is fixed, so no generation call is needed; the
		// directive and the question still enter the transcript so the
		// backend sees the interview from its very first turn.
		s.appendHistory(ai.RoleUser, startDirective)
		if err := s.askMain(IntroQuestion); err != nil {
			return "", false, err
		}
		s.appendHistory(ai.RoleAssistant, IntroQuestion)

		o.logger.Debug("asked introduction question", zap.String(logger.FieldSession, s.ID))

		return IntroQuestion, false, nil
	}

	if answer == nil {
		return "", false, &InvariantError{Reason: "no answer supplied while a question is pending"}
	}

	lastQuestion, _ := s.PendingQuestion()
	previousQuestions := s.Questions()

	if err := s.recordAnswer(*answer); err != nil {
		return "", false, err
	}

	decision, err := o.decideFollowUp(ctx, lastQuestion, *answer, previousQuestions)
	if err != nil {
		return "", false, err
	}

	if decision.Ask() {
		if err := s.askFollowUp(decision.Question); err != nil {
			return "", false, err
		}
		s.appendHistory(ai.RoleAssistant, decision.Question)

		o.logger.Debug("asked follow-up question",
			zap.String(logger.FieldSession, s.ID),
			zap.Int("main_questions_asked", s.MainQuestionsAsked),
		)

		return decision.Question, false, nil
	}

	if s.MainQuestionsAsked >= s.QuestionBudget {
		s.Finished = true

		o.logger.Info("interview finished",
			zap.String(logger.FieldSession, s.ID),
			zap.Int("questions_answered", len(s.QALog)),
		)

		return "", true, nil
	}

	question, err := o.nextMainQuestion(ctx, s)
	if err != nil {
		return "", false, err
	}

	if err := s.askMain(question); err != nil {
		return "", false, err
	}
	s.appendHistory(ai.RoleAssistant, question)

	o.logger.Debug("asked main question",
		zap.String(logger.FieldSession, s.ID),
		zap.Int("main_questions_asked", s.MainQuestionsAsked),
	)

	return question, false, nil
}

// decideFollowUp asks the gateway whether the last answer warrants probing
// deeper. De-duplication against previous questions is delegated to the
// gateway's instructions; any non-sentinel reply is trusted as a fresh
// follow-up.
func (o *Orchestrator) decideFollowUp(ctx context.Context, lastQuestion, lastAnswer string, previousQuestions []string) (FollowUpDecision, error) {
	reply, err := o.gen.Generate(ctx, ai.Request{
		System:      followupPrompt,
		Message:     followupMessage(lastQuestion, lastAnswer, previousQuestions),
		Temperature: followupTemperature,
	})
	if err != nil {
		return FollowUpDecision{}, &ai.GenerationError{Op: "follow-up decision", Err: err}
	}

	return parseFollowUpReply(reply), nil
}

// nextMainQuestion generates the next main question from the full transcript.
// The transcript always ends with the candidate's latest answer, which is
// sent as the new user turn.
func (o *Orchestrator) nextMainQuestion(ctx context.Context, s *Session) (string, error) {
	history := s.History
	message := startDirective
	if len(history) > 0 {
		message = history[len(history)-1].Content
		history = history[:len(history)-1]
	}

	question, err := o.gen.Generate(ctx, ai.Request{
		System:      interviewerSystem(s.Role),
		History:     history,
		Message:     message,
		Temperature: questionTemperature,
	})
	if err != nil {
		return "", &ai.GenerationError{Op: "main question", Err: err}
	}

	return strings.TrimSpace(question), nil
}
