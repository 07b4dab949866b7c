package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/interview"

	"go.uber.org/zap"
)

const (
	defaultRole         = "Software Engineer"
	defaultMaxQuestions = 5
)

// Server exposes the interview service over HTTP. One session per
// candidate; clients are expected to serialize requests per session id.
type Server struct {
	service  *interview.Service
	listener net.Listener
	server   *http.Server
	logger   *zap.Logger
}

// New creates a server bound to the given address. Use "127.0.0.1:0" to
// bind a random local port.
func New(addr string, service *interview.Service, logger *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("server: binding listener: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		service:  service,
		listener: ln,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/answer", s.handleAnswer)
	mux.HandleFunc("/feedback", s.handleFeedback)

	s.server = &http.Server{Handler: s.logRequests(mux)}
	return s, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start begins serving HTTP requests. Call in a goroutine.
func (s *Server) Start() error {
	return s.server.Serve(s.listener)
}

// Stop shuts down the server.
func (s *Server) Stop() error {
	return s.server.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if !readJSON(w, r, &req) {
		return
	}

	if req.Role == "" {
		req.Role = defaultRole
	}
	if req.MaxQuestions <= 0 {
		req.MaxQuestions = defaultMaxQuestions
	}

	id, question, err := s.service.Start(r.Context(), req.Role, req.MaxQuestions)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StartResponse{SessionID: id, FirstQuestion: question})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !readJSON(w, r, &req) {
		return
	}

	message, finished, err := s.service.SubmitAnswer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := AnswerResponse{Finished: finished}
	if !finished {
		resp.NextMessage = &message
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !readJSON(w, r, &req) {
		return
	}

	report, err := s.service.Feedback(r.Context(), req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{Feedback: report})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var genErr *ai.GenerationError
	var invErr *interview.InvariantError

	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.As(err, &genErr):
		s.logger.Error("generation failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "could not continue the interview, please retry"})
	case errors.As(err, &invErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: invErr.Error()})
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encoding response: %v", err), http.StatusInternalServerError)
	}
}
