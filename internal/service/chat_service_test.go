package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"devblog/internal/llm"
	"devblog/internal/logging"
	"devblog/internal/model"
)

func testChatConfig() ChatConfig {
	return ChatConfig{
		Model:       "openai/gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   200,
		TopP:        0.95,
		SiteName:    "DevBlog",
	}
}

func publishedPost(id uint, title string) model.Post {
	return model.Post{
		ID:       id,
		Title:    title,
		Status:   model.PostStatusPublished,
		Author:   model.Account{Username: "alice"},
		Category: model.Category{Name: "Go"},
	}
}

func statsRepos(recent []model.Post) (*MockPostRepository, *MockCategoryRepository) {
	posts := new(MockPostRepository)
	posts.On("CountPublished", mock.Anything).Return(int64(6), nil)
	posts.On("RecentPublished", mock.Anything, 5).Return(recent, nil)
	categories := new(MockCategoryRepository)
	categories.On("Count", mock.Anything).Return(int64(2), nil)
	return posts, categories
}

func TestChatService_Reply_Success(t *testing.T) {
	var recent []model.Post
	for i := 6; i >= 2; i-- {
		recent = append(recent, publishedPost(uint(i), fmt.Sprintf("Post %d", i)))
	}
	posts, categories := statsRepos(recent)

	completer := new(MockCompleter)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Model == "openai/gpt-3.5-turbo" && req.MaxTokens == 200 && len(req.Messages) == 2
	})).Return(&llm.Response{Content: "\n  Read Post 6!  \n"}, nil)

	reg := prometheus.NewRegistry()
	metrics := NewChatMetrics(reg)
	svc := NewChatService(testChatConfig(), completer, posts, categories, logging.Nop(), metrics)

	reply, err := svc.Reply(context.Background(), "  what should I read?  ")
	require.NoError(t, err)
	assert.Equal(t, "Read Post 6!", reply)

	req := completer.Calls[0].Arguments.Get(1).(llm.Request)
	system := req.Messages[0].Content
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, llm.Message{Role: "user", Content: "what should I read?"}, req.Messages[1])
	assert.Contains(t, system, "You are a helpful blog assistant for DevBlog platform.")
	assert.Contains(t, system, "- Total Published Posts: 6\n- Total Categories: 2\n\nRecent Posts:\n")
	assert.Contains(t, system, "  • Post 6 (by alice) - Category: Go\n")
	assert.Equal(t, 5, strings.Count(system, "  • "))
	assert.NotContains(t, system, "Post 1 ")
	assert.Contains(t, system, "under 150 words")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.replies.WithLabelValues(OutcomeSuccess)))
}

func TestChatService_Reply_EmptyMessage(t *testing.T) {
	completer := new(MockCompleter)
	svc := NewChatService(testChatConfig(), completer, new(MockPostRepository), new(MockCategoryRepository), nil, nil)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := svc.Reply(context.Background(), msg)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestChatService_Reply_ContextFallback(t *testing.T) {
	posts := new(MockPostRepository)
	posts.On("CountPublished", mock.Anything).Return(int64(0), errors.New("db down"))

	completer := new(MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return(&llm.Response{Content: "hi"}, nil)

	svc := NewChatService(testChatConfig(), completer, posts, new(MockCategoryRepository), nil, nil)
	reply, err := svc.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", reply)

	req := completer.Calls[0].Arguments.Get(1).(llm.Request)
	assert.Contains(t, req.Messages[0].Content, "Current Blog Statistics:\n- Unable to fetch blog statistics\n")
}

func TestChatService_Reply_OutcomeMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		resp    *llm.Response
		want    string
		outcome string
	}{
		{
			name:    "missing key",
			err:     llm.ErrMissingAPIKey,
			want:    "⚠️ Chatbot API key not configured. Please add OPENROUTER_API_KEY to the server configuration.",
			outcome: OutcomeMissingKey,
		},
		{
			name:    "provider error",
			err:     &llm.APIError{StatusCode: 401, Message: "Invalid API key"},
			want:    "API Error: Invalid API key",
			outcome: OutcomeAPIError,
		},
		{
			name:    "provider error without message",
			err:     fmt.Errorf("complete: %w", &llm.APIError{StatusCode: 502, Message: "API Error"}),
			want:    "API Error: API Error",
			outcome: OutcomeAPIError,
		},
		{
			name:    "timeout",
			err:     fmt.Errorf("%w: %w", llm.ErrTimeout, context.DeadlineExceeded),
			want:    "Request timed out. Please try again.",
			outcome: OutcomeTimeout,
		},
		{
			name:    "connection",
			err:     fmt.Errorf("%w: dial tcp: refused", llm.ErrConnection),
			want:    "Connection error. Please check your internet and try again.",
			outcome: OutcomeConnection,
		},
		{
			name:    "no choices",
			err:     llm.ErrNoChoices,
			want:    "I couldn't generate a response. Please try again.",
			outcome: OutcomeNoChoices,
		},
		{
			name:    "malformed",
			err:     fmt.Errorf("%w: unexpected end of JSON input", llm.ErrMalformedResponse),
			want:    "API Error: llm: malformed response: unexpected end of JSON input",
			outcome: OutcomeMalformed,
		},
		{
			name:    "anything else is truncated",
			err:     errors.New(strings.Repeat("x", 150)),
			want:    "Error: " + strings.Repeat("x", 100),
			outcome: OutcomeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, categories := statsRepos(nil)
			completer := new(MockCompleter)
			completer.On("Complete", mock.Anything, mock.Anything).Return(tt.resp, tt.err)
			metrics := NewChatMetrics(prometheus.NewRegistry())

			svc := NewChatService(testChatConfig(), completer, posts, categories, nil, metrics)
			reply, err := svc.Reply(context.Background(), "hello")

			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.replies.WithLabelValues(tt.outcome)))
		})
	}
}

func TestChatService_Reply_UpstreamTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{URL: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
	posts, categories := statsRepos(nil)

	svc := NewChatService(testChatConfig(), client, posts, categories, nil, nil)
	reply, err := svc.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Request timed out. Please try again.", reply)
}

func TestChatService_Reply_MissingKeyMakesNoCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected upstream call")
	}))
	defer server.Close()

	posts, categories := statsRepos(nil)
	svc := NewChatService(testChatConfig(), llm.NewClient(llm.Config{URL: server.URL}), posts, categories, nil, nil)

	reply, err := svc.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "API key not configured")
}
