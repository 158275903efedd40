// Package llmstream turns the streamed response of an OpenAI compatible chat
// model into a fragment.Source, so that a field of a JSON answer can be
// extracted while the model is still writing it.
package llmstream

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/arnodel/fieldstream/fragment"
)

// Streamer is the part of *openai.Client used to open a stream.
type Streamer interface {
	CreateChatCompletionStream(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

var _ Streamer = &openai.Client{}

// Source yields the chunks of a chat completion stream.
type Source struct {
	stream *openai.ChatCompletionStream
	logger *zerolog.Logger
	chunks int
}

var _ fragment.Source[openai.ChatCompletionStreamResponse] = &Source{}

// Open starts a streamed chat completion.  The logger attached to ctx (see
// zerolog.Ctx), if any, receives debug events.
func Open(ctx context.Context, client Streamer, request openai.ChatCompletionRequest) (*Source, error) {
	request.Stream = true
	logger := zerolog.Ctx(ctx)
	stream, err := client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("model", request.Model).Msg("chat completion stream opened")
	return &Source{stream: stream, logger: logger}, nil
}

// Next returns the next chunk of the response, or io.EOF at the end of it.
func (s *Source) Next() (openai.ChatCompletionStreamResponse, error) {
	resp, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		s.logger.Debug().Int("chunks", s.chunks).Msg("chat completion stream finished")
		return resp, io.EOF
	}
	if err != nil {
		return resp, err
	}
	s.chunks++
	for _, choice := range resp.Choices {
		if choice.FinishReason != "" {
			s.logger.Debug().Str("reason", string(choice.FinishReason)).Msg("chat completion finish reason")
		}
	}
	return resp, nil
}

// Close releases the underlying connection.
func (s *Source) Close() error {
	s.stream.Close()
	return nil
}

// DeltaContent is the mapper to use with a Source: it returns the content
// delta of the first choice.  Chunks without content map to "".
func DeltaContent(resp openai.ChatCompletionStreamResponse, _ int) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Delta.Content
}

// JSONRequest builds a request asking model to answer prompt with a JSON
// object.  The system message is omitted if empty.
func JSONRequest(model, system, prompt string) openai.ChatCompletionRequest {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Stream: true,
	}
}

// NewClient returns a client for an OpenAI compatible server.  An empty
// baseURL selects the default OpenAI endpoint.
func NewClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
