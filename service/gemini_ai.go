package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/docuchat/docuchat-be/logger"
)

// GeminiService answers document questions through the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiService(apiKey, modelName string) (*GeminiService, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)
	model.SetTopP(0.8)
	model.SetTopK(40)
	model.SetMaxOutputTokens(2048)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
	}

	logger.Info("Gemini service initialized")
	return &GeminiService{client: client, model: model}, nil
}

// GenerateResponse answers the query over the document content. Provider
// failures are flattened into the returned string.
func (s *GeminiService) GenerateResponse(ctx context.Context, documentContent, query string) string {
	logger.Infof("Generating response for query: %.50s...", query)

	if contentTooShort(documentContent) {
		return NoContentResponse
	}

	content, err := s.generate(ctx, buildPrompt(documentContent, query))
	if err != nil {
		logger.Error("Error generating response", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}

	logger.Info("Response generated successfully")
	return content
}

func (s *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	if content == "" {
		return "", errors.New("no response generated")
	}
	return content, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}
