package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.5-flash"

	// Quota errors advertising a longer delay than this are not worth
	// waiting out inside a single request.
	maxQuotaDelay = 10 * time.Second

	logPreviewLimit = 200
)

// Overridable in tests.
var sleep = time.Sleep

var retryDelayRe = regexp.MustCompile(`retry after (\d+)`)

// chatSession is the part of genai.Chat the generator needs.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	client *genai.Client
}

func (c *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return c.client.Chats.Create(ctx, model, config, history)
}

// Generator implements ai.Generator on top of the Gemini API. Every call
// creates a fresh chat session with the supplied history so the backend sees
// the full transcript without server-side state.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:      &genaiChats{client: client},
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// Generate sends the request to Gemini and returns the textual response.
// Transient API errors are retried up to the configured attempt count.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	history := toContents(req.History)

	g.logger.Debug("gemini request",
		zap.Int("history_len", len(history)),
		zap.String("message_preview", utils.TruncateForLog(message, logPreviewLimit)),
	)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		output, err := g.send(ctx, config, history, message)
		if err == nil {
			g.logger.Debug("gemini response",
				zap.Int("attempt", attempt),
				zap.String("response_preview", utils.TruncateForLog(output, logPreviewLimit)),
			)
			return output, nil
		}

		lastErr = err

		delay, retryable := retryDelay(err)
		if !retryable || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("gemini call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return "", fmt.Errorf("gemini: %w", lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, history []*genai.Content, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, config, history)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}

	output := collectText(resp)
	if output == "" {
		return "", errors.New("empty response")
	}

	return output, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

func toContents(history []ai.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents
}

// retryDelay classifies an API error and reports whether another attempt is
// worth making, and after how long. Server-side errors get a short fixed
// backoff. Quota errors are retried only when the advertised delay is short.
func retryDelay(err error) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	if apiErr.Code >= 500 {
		return time.Second, true
	}

	if apiErr.Code == 429 {
		delay := quotaDelay(apiErr.Message)
		if delay > maxQuotaDelay {
			return 0, false
		}
		if delay <= 0 {
			delay = time.Second
		}
		return delay, true
	}

	return 0, false
}

func quotaDelay(message string) time.Duration {
	match := retryDelayRe.FindStringSubmatch(strings.ToLower(message))
	if match == nil {
		return 0
	}

	seconds, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
