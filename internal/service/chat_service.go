package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"devblog/internal/llm"
	"devblog/internal/logging"
	"devblog/internal/repository"
)

const (
	recentPostsInContext = 5
	logPreviewLength     = 100
	errorPreviewLength   = 100

	contextFallback = "- Unable to fetch blog statistics"

	replyMissingKey = "⚠️ Chatbot API key not configured. Please add OPENROUTER_API_KEY to the server configuration."
	replyTimeout    = "Request timed out. Please try again."
	replyConnection = "Connection error. Please check your internet and try again."
	replyNoChoices  = "I couldn't generate a response. Please try again."
)

// ErrEmptyMessage is returned for an empty or whitespace-only chat message.
var ErrEmptyMessage = errors.New("Message is required")

var systemPrompt = template.Must(template.New("system").Parse(
	`You are a helpful blog assistant for {{.SiteName}} platform. You provide recommendations and answer questions about blog posts and categories.

Current Blog Statistics:
{{.Context}}

When answering:
1. Be friendly and conversational
2. Provide specific blog recommendations if relevant
3. Help users find content in their categories of interest
4. Keep responses concise (under 150 words)
5. Always encourage users to explore the full articles on the platform`))

// ChatConfig holds the completion parameters for the chat assistant.
type ChatConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	SiteName    string
}

// Completer sends one chat-completion request.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// ChatService answers visitor questions with the current blog statistics as context.
type ChatService interface {
	// Reply returns the assistant's answer. Upstream failures become a
	// user-facing reply rather than an error.
	Reply(ctx context.Context, message string) (string, error)
}

type chatService struct {
	cfg        ChatConfig
	completer  Completer
	posts      repository.PostRepository
	categories repository.CategoryRepository
	logger     logging.Logger
	metrics    *ChatMetrics
}

// NewChatService creates the chat assistant. metrics may be nil.
func NewChatService(
	cfg ChatConfig,
	completer Completer,
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	logger logging.Logger,
	metrics *ChatMetrics,
) ChatService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &chatService{
		cfg:        cfg,
		completer:  completer,
		posts:      posts,
		categories: categories,
		logger:     logger.With("component", "chat"),
		metrics:    metrics,
	}
}

func (s *chatService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	s.logger.Info(ctx, "chat message received", "message", preview(message, logPreviewLength))

	var prompt strings.Builder
	err := systemPrompt.Execute(&prompt, struct {
		SiteName string
		Context  string
	}{SiteName: s.cfg.SiteName, Context: s.blogContext(ctx)})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}

	s.logger.Debug(ctx, "sending chat completion", "model", s.cfg.Model)
	resp, err := s.completer.Complete(ctx, llm.Request{
		Model: s.cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: prompt.String()},
			{Role: "user", Content: message},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
		TopP:        s.cfg.TopP,
	})

	reply, outcome := s.replyFor(resp, err)
	s.metrics.observe(outcome)
	if err != nil {
		s.logger.Warn(ctx, "chat completion failed", "outcome", outcome, "error", err)
	}
	s.logger.Info(ctx, "chat reply", "outcome", outcome, "reply", preview(reply, logPreviewLength))
	return reply, nil
}

// replyFor maps a completion result to the text shown to the visitor.
func (s *chatService) replyFor(resp *llm.Response, err error) (string, string) {
	if err == nil {
		return strings.TrimSpace(resp.Content), OutcomeSuccess
	}
	if apiErr, ok := llm.AsAPIError(err); ok {
		return "API Error: " + apiErr.Message, OutcomeAPIError
	}
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return replyMissingKey, OutcomeMissingKey
	case errors.Is(err, llm.ErrTimeout):
		return replyTimeout, OutcomeTimeout
	case errors.Is(err, llm.ErrConnection):
		return replyConnection, OutcomeConnection
	case errors.Is(err, llm.ErrNoChoices):
		return replyNoChoices, OutcomeNoChoices
	case errors.Is(err, llm.ErrMalformedResponse):
		return "API Error: " + preview(err.Error(), errorPreviewLength), OutcomeMalformed
	default:
		return "Error: " + preview(err.Error(), errorPreviewLength), OutcomeUnavailable
	}
}

// blogContext summarizes published content for the system prompt.
func (s *chatService) blogContext(ctx context.Context) string {
	total, err := s.posts.CountPublished(ctx)
	if err != nil {
		s.logger.Warn(ctx, "count published posts", "error", err)
		return contextFallback
	}
	categories, err := s.categories.Count(ctx)
	if err != nil {
		s.logger.Warn(ctx, "count categories", "error", err)
		return contextFallback
	}
	recent, err := s.posts.RecentPublished(ctx, recentPostsInContext)
	if err != nil {
		s.logger.Warn(ctx, "list recent posts", "error", err)
		return contextFallback
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n- Total Published Posts: %d\n- Total Categories: %d\n\nRecent Posts:\n", total, categories)
	for _, p := range recent {
		fmt.Fprintf(&b, "  • %s (by %s) - Category: %s\n", p.Title, p.Author.Username, p.Category.Name)
	}
	return b.String()
}

// preview cuts s to n runes.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
