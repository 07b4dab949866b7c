package interview

import (
	"strings"

	"github.com/spigell/interview-coach/internal/ai"
)

// QA is one question/answer pair, in the order the questions were posed.
// Answer stays empty until the candidate responds.
type QA struct {
	Question string
	Answer   string
}

// Session holds the full state of one interview. Role and QuestionBudget are
// immutable after creation; everything else is mutated exclusively through
// the orchestrator.
type Session struct {
	ID                 string
	Role               string
	QuestionBudget     int
	MainQuestionsAsked int
	QALog              []QA
	History            []ai.Message
	Finished           bool
}

// NewSession validates and creates a fresh session.
func NewSession(id, role string, budget int) (*Session, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, &InvariantError{Reason: "role must not be empty"}
	}
	if budget < 1 {
		return nil, &InvariantError{Reason: "question budget must be positive"}
	}

	return &Session{
		ID:             id,
		Role:           role,
		QuestionBudget: budget,
	}, nil
}

// Clone creates a deep copy of the session. Transitions operate on a clone
// and are saved back only on success, so a failed generation call never
// leaves partial mutations visible.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:                 s.ID,
		Role:               s.Role,
		QuestionBudget:     s.QuestionBudget,
		MainQuestionsAsked: s.MainQuestionsAsked,
		QALog:              make([]QA, len(s.QALog)),
		History:            make([]ai.Message, len(s.History)),
		Finished:           s.Finished,
	}

	copy(clone.QALog, s.QALog)
	copy(clone.History, s.History)

	return clone
}

// PendingQuestion returns the question currently awaiting an answer, if any.
func (s *Session) PendingQuestion() (string, bool) {
	if len(s.QALog) == 0 {
		return "", false
	}

	last := s.QALog[len(s.QALog)-1]
	if last.Answer != "" {
		return "", false
	}

	return last.Question, true
}

func (s *Session) appendHistory(role, content string) {
	s.History = append(s.History, ai.Message{Role: role, Content: content})
}

// askMain issues a main question, counting it against the budget.
func (s *Session) askMain(question string) error {
	if s.MainQuestionsAsked >= s.QuestionBudget {
		return &InvariantError{Reason: "question budget exceeded"}
	}
	if _, pending := s.PendingQuestion(); pending {
		return &InvariantError{Reason: "a question is already pending"}
	}

	s.MainQuestionsAsked++
	s.QALog = append(s.QALog, QA{Question: question})

	return nil
}

// askFollowUp issues an uncounted probing question.
func (s *Session) askFollowUp(question string) error {
	if _, pending := s.PendingQuestion(); pending {
		return &InvariantError{Reason: "a question is already pending"}
	}

	s.QALog = append(s.QALog, QA{Question: question})

	return nil
}

// recordAnswer writes the answer into the pending QA entry and appends the
// user turn to the transcript.
func (s *Session) recordAnswer(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return &InvariantError{Reason: "answer must not be empty"}
	}
	if _, pending := s.PendingQuestion(); !pending {
		return &InvariantError{Reason: "no question is pending"}
	}

	s.QALog[len(s.QALog)-1].Answer = answer
	s.appendHistory(ai.RoleUser, answer)

	return nil
}

// Questions returns the texts of every question asked so far, in order.
func (s *Session) Questions() []string {
	questions := make([]string, 0, len(s.QALog))
	for _, qa := range s.QALog {
		questions = append(questions, qa.Question)
	}
	return questions
}
