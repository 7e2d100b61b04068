package services

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	embeddingModel        = openai.AdaEmbeddingV2
	completionModel       = openai.GPT3Dot5Turbo
	completionMaxTokens   = 500
	completionTemperature = 0.3
)

// ChatTurn is one message in a model conversation
type ChatTurn struct {
	Role    string
	Content string
}

// CompletionClient abstracts the language model so the chat pipeline can be
// tested without network access.
type CompletionClient interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
	Complete(ctx context.Context, turns []ChatTurn) (string, error)
}

// OpenAIClient implements CompletionClient against the OpenAI API
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client; returns nil when no API key is configured
// so callers can detect a disabled assistant.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}
	return &OpenAIClient{client: openai.NewClient(apiKey)}
}

func (c *OpenAIClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: embeddingModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}
	return resp.Data[0].Embedding, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, turns []ChatTurn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       completionModel,
		Messages:    messages,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
