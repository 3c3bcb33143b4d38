package evolve

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// mockLLM implements llm.Client for testing.
type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) CreateMessage(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.MessageResponse), args.Error(1)
}

// textResponse wraps text in a single-block message response.
func textResponse(text string) *llm.MessageResponse {
	return &llm.MessageResponse{
		Content: []llm.ContentBlock{{Type: "text", Text: text}},
		Usage:   llm.TokenUsage{InputTokens: 10, OutputTokens: 5},
	}
}

// promptContaining matches a request whose user prompt contains substr.
func promptContaining(substr string) interface{} {
	return mock.MatchedBy(func(req llm.MessageRequest) bool {
		return len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, substr)
	})
}

func testConfig() Config {
	return Config{
		Model:            "claude-haiku-4-5-20251001",
		BatchSize:        2,
		MaxConcurrency:   4,
		ContextMaxLength: 300,
	}
}
