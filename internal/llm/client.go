// Package llm performs the chat-completion call against the LLM backend
// and classifies its failures. The wire contract is the standard chat
// completions request: model, role-tagged messages, temperature and a
// token cap, with the first completion's text as the reply.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/weenlabs/ween/internal/dialogue"
	"github.com/weenlabs/ween/internal/prompt"
)

const (
	defaultModel = "gpt-3.5-turbo"
	temperature  = 0.8
	maxTokens    = 1000
)

// Completer is the single-call surface the dialogue engine and the batch
// describer depend on.
type Completer interface {
	Complete(ctx context.Context, messages []prompt.Message) (string, error)
}

// Client calls the chat completions API. One attempt per Complete call;
// retry policy belongs to the caller's strategy, not here.
type Client struct {
	api    openai.Client
	model  string
	hasKey bool
	logger *log.Logger
}

func NewClient(logger *log.Logger, apiKey, baseURL, model string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		api:    openai.NewClient(opts...),
		model:  model,
		hasKey: apiKey != "",
		logger: logger,
	}
}

func (c *Client) Complete(ctx context.Context, messages []prompt.Message) (string, error) {
	if !c.hasKey {
		return "", ErrMissingCredential
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    toUnion(messages),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		classified := classify(err)
		c.logger.Error("chat completion failed", "model", c.model, "messages", len(messages), "error", err)
		return "", classified
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", ErrNetwork)
	}

	return completion.Choices[0].Message.Content, nil
}

func toUnion(messages []prompt.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case dialogue.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case dialogue.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
