package llm

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestFirstText(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "thinking", Text: "..."},
		{Type: "text", Text: "hello"},
	}}
	assert.Equal(t, "hello", resp.FirstText())

	empty := &MessageResponse{}
	assert.Equal(t, "", empty.FirstText())
}

func TestTokenUsage_Add(t *testing.T) {
	u := TokenUsage{InputTokens: 100, OutputTokens: 50}
	u.Add(TokenUsage{InputTokens: 10, OutputTokens: 5, CacheReadInputTokens: 3})

	assert.Equal(t, int64(110), u.InputTokens)
	assert.Equal(t, int64(55), u.OutputTokens)
	assert.Equal(t, int64(3), u.CacheReadInputTokens)
}

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{
		InputTokens:  1_000_000,
		OutputTokens: 1_000_000,
	}

	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 4.80, cost, 0.001)

	assert.Zero(t, usage.EstimateCost("unknown-model"))
}

func TestEstimateCost_CacheTokens(t *testing.T) {
	usage := TokenUsage{
		CacheCreationInputTokens: 1_000_000,
		CacheReadInputTokens:     1_000_000,
	}

	// Cache writes bill at 1.25x input, reads at 0.1x.
	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 0.80*1.25+0.80*0.1, cost, 0.001)
}

func TestCompleteText(t *testing.T) {
	client := new(MockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(&MessageResponse{
		Content: []ContentBlock{{Type: "text", Text: "generated"}},
		Usage:   TokenUsage{InputTokens: 12, OutputTokens: 4},
	}, nil)

	text, usage, err := CompleteText(context.Background(), client, UserPrompt("claude-haiku-4-5-20251001", "hi", 256, nil), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "generated", text)
	assert.Equal(t, int64(12), usage.InputTokens)
	client.AssertExpectations(t)
}

func TestCompleteText_Error(t *testing.T) {
	client := new(MockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, eris.New("boom"))

	_, _, err := CompleteText(context.Background(), client, UserPrompt("m", "hi", 256, nil), 0)
	require.Error(t, err)
}

func TestCompleteText_NoTextBlock(t *testing.T) {
	client := new(MockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(&MessageResponse{
		Usage: TokenUsage{InputTokens: 7},
	}, nil)

	_, usage, err := CompleteText(context.Background(), client, UserPrompt("m", "hi", 256, nil), 0)
	require.Error(t, err)
	assert.Equal(t, int64(7), usage.InputTokens)
}

func TestRateLimited_PassThrough(t *testing.T) {
	client := new(MockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(&MessageResponse{
		Content: []ContentBlock{{Type: "text", Text: "ok"}},
	}, nil)

	limited := RateLimited(client, 100, 1)
	resp, err := limited.CreateMessage(context.Background(), MessageRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.FirstText())
}

func TestRateLimited_NonPositiveRateUnwrapped(t *testing.T) {
	client := new(MockClient)
	assert.Same(t, Client(client), RateLimited(client, 0, 1))
}

func TestRateLimited_ContextCanceled(t *testing.T) {
	client := new(MockClient)
	limited := RateLimited(client, 0.0001, 1)

	// Drain the burst token, then cancel while waiting for the next.
	ctx, cancel := context.WithCancel(context.Background())
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(&MessageResponse{}, nil).Once()
	_, err := limited.CreateMessage(ctx, MessageRequest{})
	require.NoError(t, err)

	cancel()
	_, err = limited.CreateMessage(ctx, MessageRequest{})
	require.Error(t, err)
}
