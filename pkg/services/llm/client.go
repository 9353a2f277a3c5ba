package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
)

const (
	// Model is pinned; a silent model upgrade changes the report's tone and
	// the recipient notices.
	Model     = "claude-sonnet-4-20250514"
	maxTokens = 2000

	// Fallback is delivered in place of the analysis when the API call
	// fails, so the run still produces a message.
	Fallback = "분석 중 오류가 발생했습니다."
)

// Client wraps the Anthropic Messages API for one-shot summarization.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
}

func NewClient(apiKey string) *Client {
	return &Client{
		api:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     Model,
		maxTokens: maxTokens,
	}
}

// Summarize sends the assembled prompt and returns the first text block of
// the completion. Any failure, including an empty completion, yields the
// fixed fallback string; the caller never sees an error or an empty body.
func (c *Client) Summarize(ctx context.Context, prompt string) string {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("claude analysis failed")
		return Fallback
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text
		}
	}
	return Fallback
}
