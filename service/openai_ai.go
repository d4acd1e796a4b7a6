package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/docuchat/docuchat-be/logger"
)

// OpenAIService answers document questions through an OpenAI-compatible
// chat completions API. Selected with ai_provider=openai; useful for
// local model servers that speak the same protocol.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// GenerateResponse mirrors the Gemini adapter's contract: same sentinel
// for empty content, same string-typed failure path.
func (s *OpenAIService) GenerateResponse(ctx context.Context, documentContent, query string) string {
	logger.Infof("Generating response for query: %.50s...", query)

	if contentTooShort(documentContent) {
		return NoContentResponse
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildPrompt(documentContent, query),
				},
			},
			Temperature: 0.4,
			TopP:        0.8,
			MaxTokens:   2048,
		},
	)
	if err != nil {
		logger.Error("Error generating response", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("no response generated")
		logger.Error("Error generating response", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}

	logger.Info("Response generated successfully")
	return resp.Choices[0].Message.Content
}
