package server

// StartRequest begins a new interview. Both fields are optional and fall
// back to sensible defaults.
type StartRequest struct {
	Role         string `json:"role"`
	MaxQuestions int    `json:"max_questions"`
}

type StartResponse struct {
	SessionID     string `json:"session_id"`
	FirstQuestion string `json:"first_question"`
}

type AnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// AnswerResponse carries the interviewer's next utterance. NextMessage is
// null exactly when Finished is true.
type AnswerResponse struct {
	NextMessage *string `json:"next_message"`
	Finished    bool    `json:"finished"`
}

type FeedbackRequest struct {
	SessionID string `json:"session_id"`
}

type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

type errorResponse struct {
	Error string `json:"error"`
}
