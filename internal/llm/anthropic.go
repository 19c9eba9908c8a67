package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	client *anthropic.Client
}

func NewAnthropicClient(apiKey, baseURL string) *AnthropicClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &AnthropicClient{client: anthropic.NewClient(apiKey, opts...)}
}

func (c *AnthropicClient) Complete(ctx context.Context, model, system, user string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(model),
		System: system,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(user),
		},
		MaxTokens: 4096,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response content")
	}
	return resp.Content[0].GetText(), nil
}
