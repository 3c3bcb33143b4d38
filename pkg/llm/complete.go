package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// CompleteText sends a single-turn prompt and returns the first text block of
// the response together with its token usage. The call is bounded by timeout
// when it is positive.
func CompleteText(ctx context.Context, client Client, req MessageRequest, timeout time.Duration) (string, TokenUsage, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := client.CreateMessage(ctx, req)
	if err != nil {
		return "", TokenUsage{}, eris.Wrap(err, "llm: complete text")
	}

	text := resp.FirstText()
	if text == "" {
		return "", resp.Usage, eris.New("llm: response contained no text block")
	}
	return text, resp.Usage, nil
}

// UserPrompt builds a MessageRequest holding a single user message.
func UserPrompt(model, prompt string, maxTokens int64, temperature *float64) MessageRequest {
	return MessageRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    []Message{{Role: "user", Content: prompt}},
	}
}
