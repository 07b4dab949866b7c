package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/interview"

	"go.uber.org/zap"
)

type scriptedGenerator struct {
	mu    sync.Mutex
	queue []scriptedReply
}

type scriptedReply struct {
	text string
	err  error
}

func (s *scriptedGenerator) enqueue(text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, scriptedReply{text: text, err: err})
}

func (s *scriptedGenerator) Generate(_ context.Context, _ ai.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return "", errors.New("unexpected generation call")
	}

	reply := s.queue[0]
	s.queue = s.queue[1:]

	return reply.text, reply.err
}

func startTestServer(t *testing.T, stub *scriptedGenerator) *Server {
	t.Helper()

	service := interview.NewService(stub, zap.NewNop())

	srv, err := New("127.0.0.1:0", service, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	go func() { _ = srv.Start() }()

	t.Cleanup(func() { _ = srv.Stop() })

	return srv
}

func postJSON(t *testing.T, addr, path string, body any, out any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.Post("http://"+addr+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}

	return resp
}

func TestServerStartAndAnswer(t *testing.T) {
	stub := &scriptedGenerator{}
	srv := startTestServer(t, stub)

	var started StartResponse
	resp := postJSON(t, srv.Addr(), "/start", StartRequest{Role: "Backend Engineer", MaxQuestions: 2}, &started)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if started.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if started.FirstQuestion != interview.IntroQuestion {
		t.Fatalf("unexpected first question: %q", started.FirstQuestion)
	}

	stub.enqueue("NONE", nil)
	stub.enqueue("Tell me about a production incident you handled.", nil)

	var answered AnswerResponse
	resp = postJSON(t, srv.Addr(), "/answer", AnswerRequest{
		SessionID: started.SessionID,
		Answer:    "I have five years of backend experience",
	}, &answered)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if answered.Finished {
		t.Fatal("interview must not be finished yet")
	}
	if answered.NextMessage == nil || *answered.NextMessage != "Tell me about a production incident you handled." {
		t.Fatalf("unexpected next message: %v", answered.NextMessage)
	}
}

func TestServerFinishedAnswerHasNullMessage(t *testing.T) {
	stub := &scriptedGenerator{}
	srv := startTestServer(t, stub)

	var started StartResponse
	postJSON(t, srv.Addr(), "/start", StartRequest{Role: "Backend Engineer", MaxQuestions: 1}, &started)

	stub.enqueue("NONE", nil)

	var answered AnswerResponse
	postJSON(t, srv.Addr(), "/answer", AnswerRequest{
		SessionID: started.SessionID,
		Answer:    "a complete answer",
	}, &answered)

	if !answered.Finished {
		t.Fatal("expected the interview to finish")
	}
	if answered.NextMessage != nil {
		t.Fatalf("expected null next_message, got %q", *answered.NextMessage)
	}
}

func TestServerUnknownSessionIs404(t *testing.T) {
	srv := startTestServer(t, &scriptedGenerator{})

	var body errorResponse
	resp := postJSON(t, srv.Addr(), "/answer", AnswerRequest{SessionID: "missing", Answer: "hi"}, &body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body.Error != "session not found" {
		t.Fatalf("unexpected error body: %q", body.Error)
	}
}

func TestServerGenerationFailureIs502(t *testing.T) {
	stub := &scriptedGenerator{}
	srv := startTestServer(t, stub)

	var started StartResponse
	postJSON(t, srv.Addr(), "/start", StartRequest{}, &started)

	stub.enqueue("", errors.New("backend unavailable"))

	var body errorResponse
	resp := postJSON(t, srv.Addr(), "/answer", AnswerRequest{
		SessionID: started.SessionID,
		Answer:    "a usable answer",
	}, &body)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if !strings.Contains(body.Error, "please retry") {
		t.Fatalf("unexpected error body: %q", body.Error)
	}
}

func TestServerMalformedJSONIs400(t *testing.T) {
	srv := startTestServer(t, &scriptedGenerator{})

	resp, err := http.Post("http://"+srv.Addr()+"/start", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServerFeedback(t *testing.T) {
	stub := &scriptedGenerator{}
	srv := startTestServer(t, stub)

	var started StartResponse
	postJSON(t, srv.Addr(), "/start", StartRequest{Role: "Backend Engineer", MaxQuestions: 1}, &started)

	stub.enqueue("NONE", nil)

	var answered AnswerResponse
	postJSON(t, srv.Addr(), "/answer", AnswerRequest{
		SessionID: started.SessionID,
		Answer:    "my best answer",
	}, &answered)

	stub.enqueue("Communication: 7/10. Keep practicing.", nil)

	var feedback FeedbackResponse
	resp := postJSON(t, srv.Addr(), "/feedback", FeedbackRequest{SessionID: started.SessionID}, &feedback)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if feedback.Feedback != "Communication: 7/10. Keep practicing." {
		t.Fatalf("unexpected feedback: %q", feedback.Feedback)
	}
}

func TestServerHealth(t *testing.T) {
	srv := startTestServer(t, &scriptedGenerator{})

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
