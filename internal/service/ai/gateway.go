// Package ai talks to the external chat-completion provider and holds the
// pure prompt templating around it.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yunseochoi/famtalk/backend/internal/config"
	"github.com/yunseochoi/famtalk/backend/internal/model/chat"
)

// ErrGateway marks transport or non-success failures from the completion
// provider. Callers surface it as an opaque server error; nothing retries.
var ErrGateway = errors.New("completion provider request failed")

// emptyReplySentinel is returned when the provider answers successfully but
// with no usable content.
const emptyReplySentinel = "응답이 없습니다."

// Gateway relays transcripts to an OpenAI-compatible completion endpoint.
type Gateway struct {
	client openai.Client
	cfg    config.ProviderConfig
}

// NewGateway builds a gateway from provider configuration. The base URL is
// configurable so tests and OpenAI-compatible hosts can stand in for the
// real provider.
func NewGateway(cfg config.ProviderConfig) *Gateway {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// The relay never retries; a failed call surfaces immediately.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Gateway{client: openai.NewClient(opts...), cfg: cfg}
}

// Complete sends the full transcript plus the next user message and returns
// the assistant reply, whitespace-trimmed. A successful call with no choices
// or empty content yields the fixed sentinel rather than an error. The
// caller appends turns only after success, so a failed call leaves session
// state untouched.
func (g *Gateway) Complete(ctx context.Context, transcript []chat.Turn, nextUserMessage string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(transcript)+1)
	for _, turn := range transcript {
		switch turn.Role {
		case chat.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		case chat.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(nextUserMessage))

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(g.cfg.Model),
		Messages:  messages,
		MaxTokens: openai.Int(int64(g.cfg.MaxTokens)),
	}
	if g.cfg.Temperature != nil {
		params.Temperature = openai.Float(*g.cfg.Temperature)
	}
	if len(g.cfg.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: g.cfg.Stop}
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if len(completion.Choices) == 0 {
		log.Printf("[ai] provider returned no choices for model=%s", g.cfg.Model)
		return emptyReplySentinel, nil
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	if reply == "" {
		return emptyReplySentinel, nil
	}
	return reply, nil
}
