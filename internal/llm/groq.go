package llm

import (
	"context"
	"io"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/AnesSym/medical-test/internal/keys"
)

// DefaultBaseURL is the Groq OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Message is a minimal chat message used by the core chat service.
// Role must be one of: "system", "user", or "assistant".
type Message struct {
	Role    string
	Content string
}

// Params are the generation parameters for one completion request.
type Params struct {
	Model            string
	Temperature      float32
	MaxTokens        int
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
}

// FragmentStream is a lazy, finite, non-restartable sequence of response
// fragments. Recv returns io.EOF once the sequence is exhausted. Fragments
// may be empty strings; callers are expected to skip those.
type FragmentStream interface {
	Recv() (string, error)
	Close() error
}

// Client defines the methods required by the chat service and the
// diagnostic analyser.
type Client interface {
	Complete(ctx context.Context, messages []Message, p Params) (string, error)
	Stream(ctx context.Context, messages []Message, p Params) (FragmentStream, error)
}

// GroqClient calls the Groq chat completion API. Every call picks up a
// fresh credential from the rotator, so load spreads evenly across the
// configured key pool.
type GroqClient struct {
	rotator *keys.Rotator
	baseURL string
}

// NewGroqClient constructs a Groq-backed client. baseURL may be empty, in
// which case the public Groq endpoint is used.
func NewGroqClient(rotator *keys.Rotator, baseURL string) *GroqClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GroqClient{rotator: rotator, baseURL: baseURL}
}

// session builds a one-shot API client around the next pool credential.
func (c *GroqClient) session() *openai.Client {
	cfg := openai.DefaultConfig(c.rotator.Next())
	cfg.BaseURL = c.baseURL
	return openai.NewClientWithConfig(cfg)
}

func (c *GroqClient) request(messages []Message, p Params, stream bool) openai.ChatCompletionRequest {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			// coerce anything unknown to user
			role = openai.ChatMessageRoleUser
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:            p.Model,
		Messages:         oaMsgs,
		Temperature:      p.Temperature,
		MaxTokens:        p.MaxTokens,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
		Stream:           stream,
	}
}

// Complete blocks until the service returns the full assistant message.
// Errors are not retried; they propagate to the caller.
func (c *GroqClient) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	resp, err := c.session().CreateChatCompletion(ctx, c.request(messages, p, false))
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream starts a streaming completion and returns the fragment sequence.
func (c *GroqClient) Stream(ctx context.Context, messages []Message, p Params) (FragmentStream, error) {
	stream, err := c.session().CreateChatCompletionStream(ctx, c.request(messages, p, true))
	if err != nil {
		return nil, errors.Wrap(err, "chat completion stream")
	}
	return &groqStream{stream: stream}, nil
}

var _ Client = (*GroqClient)(nil)

// groqStream adapts the API delta stream to FragmentStream. Deltas without
// content surface as empty fragments rather than being dropped here; the
// accumulator skips them.
type groqStream struct {
	stream *openai.ChatCompletionStream
}

func (s *groqStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", errors.Wrap(err, "receive fragment")
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *groqStream) Close() error { return s.stream.Close() }
